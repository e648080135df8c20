package main

import (
	"fmt"
	"os"

	"github.com/hashhooshy/flux-labs/internal/cli"
	"github.com/spf13/cobra"
)

// driverCmd represents the driver command
var driverCmd = &cobra.Command{
	Use:   "driver",
	Short: "Run the line-oriented JSON session protocol on stdin/stdout",
	Long: `Starts an interpreter session speaking one JSON action per line on stdin
and one JSON event per line on stdout. Non-Go frontends spawn this command
on a pipe to embed the interpreter.

Actions: run, tap, set, snapshot, reset, quit. Every successful action is
answered with a fresh snapshot of the rendered surface.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := cli.DriverOptions{}
		opts.Allow, _ = cmd.Flags().GetStringSlice("allow")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.User, _ = cmd.Flags().GetString("user")
		opts.Store, _ = cmd.Flags().GetString("store")
		opts.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
		opts.DataDir, _ = cmd.Flags().GetString("data-dir")

		if err := cli.RunDriver(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(driverCmd)

	driverCmd.Flags().Bool("debug", false, "Log at debug level")
	driverCmd.Flags().StringSlice("allow", nil, "Restrict the session to these ops (default: all)")
}
