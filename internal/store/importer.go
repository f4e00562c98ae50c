package store

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/opimport/opimport/internal/model"
)

// Options configures an import run.
type Options struct {
	// Force passes the overwrite flag through to the insertion command.
	Force bool

	// Meta includes login/url/notes lines in the inserted secret.
	Meta bool

	// DryRun walks the batch without spawning any store process.
	DryRun bool
}

// Importer consumes parsed entries in order and drives the external store.
// There is no cross-entry transaction: a failed entry never blocks or rolls
// back the rest of the batch, and nothing is retried.
type Importer struct {
	store  Inserter
	logger *log.Logger
	opts   Options
}

// NewImporter creates an importer writing through the given store client.
// A nil logger discards progress output.
func NewImporter(store Inserter, logger *log.Logger, opts Options) *Importer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Importer{
		store:  store,
		logger: logger,
		opts:   opts,
	}
}

// Result summarizes an import run.
type Result struct {
	// Imported is the number of entries the store accepted.
	Imported int

	// Failed holds the names of entries the store rejected, in batch order.
	Failed []string
}

// Err returns nil when every entry imported, or an ErrImportIncomplete
// naming the failed entries. Callers use it to drive the process exit
// status: a partially failed batch is not a successful run.
func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return &ErrImportIncomplete{Failed: r.Failed}
}

// Run imports the entries sequentially, one store process per entry, each
// fully awaited before the next starts.
func (i *Importer) Run(entries []model.Entry) Result {
	var res Result

	for _, e := range entries {
		if i.opts.DryRun {
			i.logger.Info("would import", "name", e.Name)
			res.Imported++
			continue
		}

		if err := i.store.Insert(e.Name, e.Secret(i.opts.Meta), i.opts.Force); err != nil {
			i.logger.Error("import failed", "name", e.Name, "id", e.ID, "err", err)
			res.Failed = append(res.Failed, e.Name)
			continue
		}

		i.logger.Info("imported", "name", e.Name)
		res.Imported++
	}

	return res
}

// ErrImportIncomplete reports the entries a batch failed to import.
type ErrImportIncomplete struct {
	Failed []string
}

func (e *ErrImportIncomplete) Error() string {
	return fmt.Sprintf("%d entries failed to import: %s (retry with --force to overwrite existing entries)",
		len(e.Failed), strings.Join(e.Failed, ", "))
}

// IsImportIncomplete returns true if the error reports a partially failed batch.
func IsImportIncomplete(err error) bool {
	var incompleteErr *ErrImportIncomplete
	return errors.As(err, &incompleteErr)
}
