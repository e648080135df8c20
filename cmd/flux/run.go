package main

import (
	"fmt"
	"os"

	"github.com/hashhooshy/flux-labs/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [source]",
	Short: "Run a command script and render the result",
	Long: `Executes a script and prints the rendered interface tree.

The source is a JSON or YAML script file, '-' for stdin, or a page library
directory (pick the page with --page). Without a source the current directory
is treated as a page library.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source := "."
		if len(args) > 0 {
			source = args[0]
		}

		opts := cli.RunOptions{Source: source}
		opts.Page, _ = cmd.Flags().GetString("page")
		opts.Format, _ = cmd.Flags().GetString("format")
		opts.Interactive, _ = cmd.Flags().GetBool("interactive")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.Set, _ = cmd.Flags().GetStringArray("set")
		opts.User, _ = cmd.Flags().GetString("user")
		opts.Store, _ = cmd.Flags().GetString("store")
		opts.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
		opts.DataDir, _ = cmd.Flags().GetString("data-dir")
		opts.Tools, _ = cmd.Flags().GetString("tools")
		opts.UnsafeInline, _ = cmd.Flags().GetBool("unsafe-inline")

		if err := cli.Execute(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("page", "", "Page id when the source is a library directory (default \"index\")")
	runCmd.Flags().StringP("format", "f", "text", "Output format: text, html or json")
	runCmd.Flags().BoolP("interactive", "i", false, "Keep the session open to fire triggers from the terminal")
	runCmd.Flags().BoolP("watch", "w", false, "Re-run on file changes")
	runCmd.Flags().Bool("debug", false, "Log interpreter lifecycle events to stderr")
	runCmd.Flags().StringArray("set", nil, "Initial state as key=value (repeatable)")
	runCmd.Flags().String("tools", "tools.yaml", "Tool declaration file for external commands")
	runCmd.Flags().Bool("unsafe-inline", false, "Allow scripts to run arbitrary commands via exec (dangerous)")

	// Make 'run' the default if no command is provided
	rootCmd.Run = runCmd.Run
}
