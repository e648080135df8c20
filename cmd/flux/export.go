package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	flux "github.com/hashhooshy/flux-labs"
	"github.com/hashhooshy/flux-labs/internal/logging"
	"github.com/hashhooshy/flux-labs/internal/presentation/html"
	"github.com/hashhooshy/flux-labs/pkg/adapters/headless"
	loamlib "github.com/hashhooshy/flux-labs/pkg/adapters/loam"
	"github.com/hashhooshy/flux-labs/pkg/adapters/memory"
	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Render every page of a library to static HTML",
	Long: `Executes each page of a page library and writes the rendered tree as a
standalone HTML document. Pages run against a throwaway in-memory store, so
persisted values do not leak between pages.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		out, _ := cmd.Flags().GetString("out")

		if err := runExport(cmd.Context(), dir, out); err != nil {
			fmt.Printf("Export failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("out", "o", "site", "Output directory")
}

func runExport(ctx context.Context, dir, out string) error {
	library, err := loamlib.Open(dir)
	if err != nil {
		return err
	}

	pages, err := library.Pages(ctx)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no pages found in %q", dir)
	}

	if err := os.MkdirAll(out, 0755); err != nil {
		return err
	}

	for _, summary := range pages {
		page, err := library.Page(ctx, summary.ID)
		if err != nil {
			return err
		}

		surface := headless.New()
		it := flux.New(
			flux.WithSurface(surface),
			flux.WithLogger(logging.NewNop()),
			flux.WithDocumentStore(memory.NewStore()),
		)
		if err := it.Execute(ctx, page.Commands); err != nil {
			return fmt.Errorf("page %s: %w", page.ID, err)
		}

		title := page.Title
		if title == "" {
			title = page.ID
		}
		doc := html.Document(title, html.Render(surface.Output().Nodes()))

		target := filepath.Join(out, filepath.FromSlash(page.ID)+".html")
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(doc), 0644); err != nil {
			return err
		}
		fmt.Printf("Rendered %s -> %s\n", page.ID, target)
	}

	fmt.Printf("Exported %d page(s) to %s\n", len(pages), out)
	return nil
}
