package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opimport/opimport/internal/formats"
	"github.com/opimport/opimport/internal/model"
)

var previewFlags struct {
	folder                string
	nameSource            string
	nameFilterReplacement string
	noNameFilter          bool
	format                string
	verbose               bool
}

var previewCmd = &cobra.Command{
	Use:   "preview [flags] <file>",
	Short: "Preview an export file without importing",
	Long: `Preview the entries an export file would produce, without spawning
any store process.

The preview shows each entry under the name it would be inserted as,
after sanitization and folder prefixing, so naming flags can be checked
before a real import.

Examples:
  # Preview a 1PIF export
  opimport preview export.1pif

  # Preview with the same naming flags as the intended import
  opimport preview --default personal --name url export.1pif`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewFlags.folder, "default", "d", "", "Folder to prefix to every entry name")
	previewCmd.Flags().StringVarP(&previewFlags.nameSource, "name", "n", "title", "Field used as entry name (title|url)")
	previewCmd.Flags().StringVar(&previewFlags.nameFilterReplacement, "name-filter-replacement", formats.DefaultNameReplacement, "Replacement for path separators in entry names")
	previewCmd.Flags().BoolVar(&previewFlags.noNameFilter, "no-name-filter", false, "Keep entry names unsanitized")
	previewCmd.Flags().StringVar(&previewFlags.format, "format", "", "Input format (text|1pif), default: by file extension")
	previewCmd.Flags().BoolVarP(&previewFlags.verbose, "verbose", "v", false, "Verbose output")
}

func runPreview(cmd *cobra.Command, args []string) error {
	// Show help if no args provided
	if len(args) == 0 {
		cmd.Help()
		return fmt.Errorf("missing input file")
	}

	inputPath := args[0]
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputPath)
	}

	logger := newLogger(previewFlags.verbose, false)

	nameSource, err := formats.ParseNameSource(previewFlags.nameSource)
	if err != nil {
		return err
	}

	format, err := resolveFormat(previewFlags.format, inputPath)
	if err != nil {
		return err
	}

	opts := formats.OpenOptions{
		Naming: formats.Naming{
			Source:      nameSource,
			Folder:      previewFlags.folder,
			Replacement: previewFlags.nameFilterReplacement,
			Disabled:    previewFlags.noNameFilter,
		},
		Logger: logger,
	}

	if err := format.Open(inputPath, opts); err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer format.Close()

	entries, err := format.Read()
	var warnings []string
	if err != nil {
		if formats.IsPartialRead(err) {
			warnings = append(warnings, err.Error())
		} else {
			return fmt.Errorf("failed to read entries: %w", err)
		}
	}

	printPreview(format.Name(), inputPath, entries, warnings)

	return nil
}

// printPreview outputs the entry preview to stdout.
func printPreview(formatName, inputPath string, entries []model.Entry, warnings []string) {
	fmt.Printf("Source: %s (%s)\n", formatName, inputPath)
	fmt.Printf("Entries: %d total\n", len(entries))

	for _, e := range entries {
		fmt.Printf("  - %s", e.Name)
		if e.Login != "" {
			fmt.Printf(" (login: %s)", e.Login)
		}
		if e.Password == "" {
			fmt.Printf(" [empty password]")
		}
		fmt.Println()
	}

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}
