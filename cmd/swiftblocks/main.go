// Package main provides the swiftblocks command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "swiftblocks",
	Short: "Translate block-editor JavaScript to Swift and export Xcode projects",
	Long: `swiftblocks rewrites JavaScript produced by a block editor into Swift and packages
the result as a ready-to-open SwiftUI Xcode project archive.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
