package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opimport/opimport/internal/formats"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List available format adapters",
	Long: `List all available format adapters that can be used for import.

Each adapter supports specific file extensions. Use the --format flag with
the import command to bypass extension-based selection.

Examples:
  # List all formats
  opimport formats`,
	Run: runFormats,
}

func runFormats(cmd *cobra.Command, args []string) {
	registry := formats.DefaultRegistry()
	formatList := registry.List()

	fmt.Println("Available format adapters:")
	fmt.Println()

	for _, format := range formatList {
		extStr := strings.Join(format.SupportedExtensions(), ", ")

		fmt.Printf("  %-8s %s\n", format.Name(), format.Description())
		fmt.Printf("  %-8s Extensions: %s\n", "", extStr)
		fmt.Println()
	}

	fmt.Println("Use 'opimport import <file>' to import an export file.")
}
