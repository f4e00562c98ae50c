package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/opimport/opimport/internal/formats"
	"github.com/opimport/opimport/internal/store"
)

var importFlags struct {
	force                 bool
	folder                string
	nameSource            string
	meta                  bool
	noMeta                bool
	nameFilterReplacement string
	noNameFilter          bool
	format                string
	storeCmd              string
	dryRun                bool
	verbose               bool
	quiet                 bool
}

var importCmd = &cobra.Command{
	Use:   "import [flags] <file>",
	Short: "Import an export file into the password store",
	Long: `Import a 1Password export file into the password store.

Each parsed entry is fed to the store's insert command in multiline mode:
the password on the first line, followed (unless --no-meta) by "login:"
and "url:" lines and the raw notes. Entries are inserted strictly in file
order, one store process at a time.

A per-entry insert failure never aborts the batch; failed entries are
summarized at the end and the run exits non-zero.

Examples:
  # Import a comma or tab separated export
  opimport import export.txt

  # Prefix every entry with a folder and overwrite existing ones
  opimport import --default personal --force export.1pif

  # Keep only the password line in the stored secret
  opimport import --no-meta export.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importFlags.force, "force", "f", false, "Overwrite existing entries in the store")
	importCmd.Flags().StringVarP(&importFlags.folder, "default", "d", "", "Folder to prefix to every entry name")
	importCmd.Flags().StringVarP(&importFlags.nameSource, "name", "n", "title", "Field used as entry name (title|url)")
	importCmd.Flags().BoolVar(&importFlags.meta, "meta", true, "Include login/url/notes lines in the secret")
	importCmd.Flags().BoolVar(&importFlags.noMeta, "no-meta", false, "Store the password line only")
	importCmd.Flags().StringVar(&importFlags.nameFilterReplacement, "name-filter-replacement", formats.DefaultNameReplacement, "Replacement for path separators in entry names")
	importCmd.Flags().BoolVar(&importFlags.noNameFilter, "no-name-filter", false, "Keep entry names unsanitized")
	importCmd.Flags().StringVar(&importFlags.format, "format", "", "Input format (text|1pif), default: by file extension")
	importCmd.Flags().StringVar(&importFlags.storeCmd, "store-cmd", store.DefaultBin, "Password store insertion command")
	importCmd.Flags().BoolVar(&importFlags.dryRun, "dry-run", false, "Parse and report without invoking the store")
	importCmd.Flags().BoolVarP(&importFlags.verbose, "verbose", "v", false, "Verbose output")
	importCmd.Flags().BoolVarP(&importFlags.quiet, "quiet", "q", false, "Suppress all output except errors")

	// Selected knobs can come from OPIMPORT_* environment variables.
	viper.SetEnvPrefix("OPIMPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.BindPFlag("store-cmd", importCmd.Flags().Lookup("store-cmd"))
	viper.BindPFlag("default", importCmd.Flags().Lookup("default"))
}

func runImport(cmd *cobra.Command, args []string) error {
	// Show help if no args provided
	if len(args) == 0 {
		cmd.Help()
		return fmt.Errorf("missing input file")
	}

	inputPath := args[0]
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputPath)
	}

	logger := newLogger(importFlags.verbose, importFlags.quiet)

	nameSource, err := formats.ParseNameSource(importFlags.nameSource)
	if err != nil {
		return err
	}

	meta := importFlags.meta
	if importFlags.noMeta {
		meta = false
	}

	naming := formats.Naming{
		Source:      nameSource,
		Folder:      viper.GetString("default"),
		Replacement: importFlags.nameFilterReplacement,
		Disabled:    importFlags.noNameFilter,
	}

	format, err := resolveFormat(importFlags.format, inputPath)
	if err != nil {
		return err
	}

	if err := format.Open(inputPath, formats.OpenOptions{Naming: naming, Logger: logger}); err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer format.Close()

	logger.Debug("reading entries", "file", inputPath, "format", format.Name())

	entries, err := format.Read()
	if err != nil {
		// Check for partial read
		if formats.IsPartialRead(err) {
			logger.Warn("some entries could not be parsed", "err", err)
		} else {
			return fmt.Errorf("failed to read entries: %w", err)
		}
	}

	if len(entries) == 0 {
		logger.Info("no importable entries found", "file", inputPath)
		return nil
	}

	if importFlags.force && !importFlags.dryRun && !confirmOverwrite(len(entries)) {
		return fmt.Errorf("import aborted")
	}

	importer := store.NewImporter(store.NewPass(viper.GetString("store-cmd")), logger, store.Options{
		Force:  importFlags.force,
		Meta:   meta,
		DryRun: importFlags.dryRun,
	})

	res := importer.Run(entries)

	if !importFlags.quiet {
		fmt.Fprintf(os.Stderr, "\nImported %d of %d entries\n", res.Imported, len(entries))
	}

	// A partially failed batch is not a successful run.
	return res.Err()
}

// resolveFormat picks the adapter named by --format, or by file extension.
func resolveFormat(name, inputPath string) (formats.Format, error) {
	registry := formats.DefaultRegistry()

	if name != "" {
		format, ok := registry.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown format: %s (try: %s)", name, strings.Join(registry.Names(), ", "))
		}
		return format, nil
	}

	return registry.ForPath(inputPath)
}

// confirmOverwrite asks before a forced batch when stdin is a terminal.
// Non-interactive runs proceed without asking.
func confirmOverwrite(count int) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return true
	}

	fmt.Fprintf(os.Stderr, "About to overwrite up to %d existing entries. Continue? [y/N] ", count)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// newLogger builds the stderr logger used for progress and warnings.
func newLogger(verbose, quiet bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "opimport",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if quiet {
		logger.SetLevel(log.ErrorLevel)
	}
	return logger
}
