package main

import (
	"fmt"
	"os"
	"strings"

	loamlib "github.com/hashhooshy/flux-labs/pkg/adapters/loam"
	"github.com/spf13/cobra"
)

// pagesCmd represents the pages command
var pagesCmd = &cobra.Command{
	Use:   "pages [dir]",
	Short: "List the pages of a page library",
	Long:  `Inspects a page library directory and lists every page with its title and tags.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		library, err := loamlib.Open(dir)
		if err != nil {
			fmt.Printf("Error opening library: %v\n", err)
			os.Exit(1)
		}

		pages, err := library.Pages(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing pages: %v\n", err)
			os.Exit(1)
		}

		if len(pages) == 0 {
			fmt.Println("No pages found.")
			return
		}

		for _, p := range pages {
			line := "- " + p.ID
			if p.Title != "" {
				line += ": " + p.Title
			}
			if len(p.Tags) > 0 {
				line += " [" + strings.Join(p.Tags, ", ") + "]"
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(pagesCmd)
}
