package main

import (
	"fmt"
	"os"

	"github.com/jonathan/swiftblocks/internal/observability"
	"github.com/jonathan/swiftblocks/internal/schemas"
	"github.com/jonathan/swiftblocks/internal/xcodeproj"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect ARCHIVE",
	Short: "List the entries of an exported archive and check its asset catalogs",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read archive %s: %w", args[0], err)
	}

	entries, problems, err := inspectArchive(data)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintEntries(entries)
	printer.PrintProblems(problems)

	if len(problems) > 0 {
		return fmt.Errorf("%s has %d problems", args[0], len(problems))
	}
	return nil
}

// inspectArchive reads an archive and reports entries that are not deflated
// and asset descriptors that fail their schema.
func inspectArchive(data []byte) ([]xcodeproj.Entry, []string, error) {
	tree, entries, err := xcodeproj.ReadArchive(data)
	if err != nil {
		return nil, nil, err
	}

	var problems []string
	for _, e := range entries {
		if !e.Deflated() {
			problems = append(problems, fmt.Sprintf("%s is not deflated", e.Name))
		}
	}
	for _, path := range tree.Paths() {
		if err := schemas.ValidateAsset(path, []byte(tree[path])); err != nil {
			problems = append(problems, err.Error())
		}
	}
	return entries, problems, nil
}
