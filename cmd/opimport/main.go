// Package main provides the entry point for the opimport CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "0.1.0-edge"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "opimport",
	Short: "Import 1Password exports into pass",
	Long: `opimport imports 1Password export files into a pass(1)-compatible
password store by driving the store's insert command, one entry at a time.

Supported export formats are delimited text (.txt, comma or tab separated)
and the 1Password Interchange Format (.1pif). The store owns persistence
and overwrite semantics; opimport only feeds it entries.

Examples:
  # Import a delimited text export
  opimport import export.txt

  # Import a 1PIF export under a subfolder, overwriting existing entries
  opimport import --default personal --force export.1pif

  # Name entries after their URL instead of their title
  opimport import --name url export.1pif

  # Preview without touching the store
  opimport preview export.1pif`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
