package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flux",
	Short: "Flux is a declarative UI command interpreter",
	Long: `Flux renders JSON or YAML command lists into interface trees: containers,
widgets, triggers and named values persisted per user.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("user", "", "Persistence owner id (falls back to FLUX_USER, then a generated id)")
	rootCmd.PersistentFlags().String("store", "memory", "Document store backend: memory, file or redis")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for --store redis (falls back to FLUX_REDIS_ADDR)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory for --store file (falls back to FLUX_DATA_DIR)")
}
