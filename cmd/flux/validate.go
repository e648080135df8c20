package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hashhooshy/flux-labs/internal/cli"
	loamlib "github.com/hashhooshy/flux-labs/pkg/adapters/loam"
	"github.com/hashhooshy/flux-labs/pkg/adapters/process"
	"github.com/hashhooshy/flux-labs/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "Check a script for unknown commands and malformed entries",
	Long: `Lints a script, or every page of a page library, without executing it.
Reports unknown command types, missing types and malformed command lists.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source := "."
		if len(args) > 0 {
			source = args[0]
		}
		toolsPath, _ := cmd.Flags().GetString("tools")

		issues, err := runValidate(cmd.Context(), source, toolsPath)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		if len(issues) > 0 {
			for _, issue := range issues {
				fmt.Println("- " + issue)
			}
			fmt.Printf("Found %d issue(s).\n", len(issues))
			os.Exit(1)
		}
		fmt.Println("Script is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().String("tools", "tools.yaml", "Tool declaration file; declared tools count as known commands")
}

func runValidate(ctx context.Context, source, toolsPath string) ([]string, error) {
	var extraKinds []string
	if toolsPath != "" {
		tools, err := process.LoadTools(toolsPath)
		if err != nil {
			return nil, err
		}
		for name := range tools {
			extraKinds = append(extraKinds, name)
		}
	}

	info, err := os.Stat(source)
	if err != nil && source != "-" {
		return nil, err
	}

	// Page libraries are linted page by page.
	if err == nil && info.IsDir() {
		library, err := loamlib.Open(source)
		if err != nil {
			return nil, err
		}
		summaries, err := library.Pages(ctx)
		if err != nil {
			return nil, err
		}
		if len(summaries) == 0 {
			return nil, fmt.Errorf("no pages found in %q", source)
		}

		var issues []string
		for _, summary := range summaries {
			page, err := library.Page(ctx, summary.ID)
			if err != nil {
				issues = append(issues, fmt.Sprintf("%s: %v", summary.ID, err))
				continue
			}
			for _, issue := range schema.Lint(page.Commands, extraKinds...) {
				issues = append(issues, fmt.Sprintf("%s: %s: %s", page.ID, issue.Path, issue.Reason))
			}
		}
		return issues, nil
	}

	cmds, name, err := cli.LoadCommands(ctx, source, "")
	if err != nil {
		return nil, err
	}

	var issues []string
	for _, issue := range schema.Lint(cmds, extraKinds...) {
		issues = append(issues, fmt.Sprintf("%s: %s: %s", name, issue.Path, issue.Reason))
	}
	return issues, nil
}
