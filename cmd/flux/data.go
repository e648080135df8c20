package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/hashhooshy/flux-labs/internal/cli"
	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage persisted user values",
	Long:  `List, read, write and remove the named values the store and load commands persist per user.`,
}

var dataLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all persisted fields of a user",
	Run: func(cmd *cobra.Command, args []string) {
		bundle, user := getDataStore(cmd)
		defer bundle.Close()

		fields, err := bundle.Store.Fields(cmd.Context(), user)
		if err != nil {
			fmt.Printf("Error listing fields: %v\n", err)
			os.Exit(1)
		}

		if len(fields) == 0 {
			fmt.Printf("No fields stored for '%s'.\n", user)
			return
		}

		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Printf("Fields for '%s':\n", user)
		for _, k := range keys {
			fmt.Printf("- %s = %s\n", k, fields[k])
		}
	},
}

var dataGetCmd = &cobra.Command{
	Use:   "get <field>",
	Short: "Print one persisted field",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bundle, user := getDataStore(cmd)
		defer bundle.Close()

		value, err := bundle.Store.GetField(cmd.Context(), user, args[0])
		if err != nil {
			fmt.Printf("Error reading '%s': %v\n", args[0], err)
			os.Exit(1)
		}
		fmt.Println(value)
	},
}

var dataSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Write one persisted field",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		bundle, user := getDataStore(cmd)
		defer bundle.Close()

		if err := bundle.Store.SetField(cmd.Context(), user, args[0], args[1]); err != nil {
			fmt.Printf("Error writing '%s': %v\n", args[0], err)
			os.Exit(1)
		}
		fmt.Printf("Stored '%s' for '%s'\n", args[0], user)
	},
}

var dataRmCmd = &cobra.Command{
	Use:   "rm <field>...",
	Short: "Remove one or more persisted fields",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bundle, user := getDataStore(cmd)
		defer bundle.Close()

		hasError := false
		for _, field := range args {
			if err := bundle.Store.DeleteField(cmd.Context(), user, field); err != nil {
				fmt.Printf("Error removing '%s': %v\n", field, err)
				hasError = true
			} else {
				fmt.Printf("Removed '%s'\n", field)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataLsCmd)
	dataCmd.AddCommand(dataGetCmd)
	dataCmd.AddCommand(dataSetCmd)
	dataCmd.AddCommand(dataRmCmd)
}

// getDataStore builds the store from the persistent flags. A memory store
// would show nothing across invocations, so an explicit owner is required
// but the backend may still be any of the three.
func getDataStore(cmd *cobra.Command) (*cli.StoreBundle, string) {
	storeKind, _ := cmd.Flags().GetString("store")
	redisAddr, _ := cmd.Flags().GetString("redis-addr")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	user, _ := cmd.Flags().GetString("user")

	if user == "" {
		user = os.Getenv("FLUX_USER")
	}
	if user == "" {
		fmt.Println("Error: specify --user (or set FLUX_USER)")
		os.Exit(1)
	}

	bundle, err := cli.BuildStore(storeKind, redisAddr, dataDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return bundle, user
}
