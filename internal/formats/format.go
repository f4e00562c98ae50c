// Package formats provides adapters for reading password entries from
// 1Password export files.
package formats

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/opimport/opimport/internal/model"
)

// Format defines the interface for export-file adapters. Each adapter reads
// one export format (delimited text, 1PIF) and converts it to the internal
// entry representation.
type Format interface {
	// Name returns the unique identifier for this format (e.g., "text", "1pif").
	Name() string

	// Description returns a human-readable description of the format.
	Description() string

	// SupportedExtensions returns file extensions this format handles (e.g., [".txt"]).
	SupportedExtensions() []string

	// Detect checks if the given path is valid for this format.
	// Returns a confidence score from 0-100 (100 = definitely this format).
	// A score of 0 means this format cannot handle the path.
	Detect(path string) (confidence int, err error)

	// Open initializes the format with the given path and options.
	Open(path string, opts OpenOptions) error

	// Read returns all entries from the file, in file order.
	// May be called multiple times; returns the same results.
	// Returns ErrPartialRead if some entries couldn't be read.
	Read() ([]model.Entry, error)

	// Close releases any resources held by the adapter.
	Close() error
}

// OpenOptions provides configuration for opening an export file.
type OpenOptions struct {
	// Naming controls how entry names are derived from parsed fields.
	Naming Naming

	// Logger receives per-entry warnings (missing fields, rewritten names).
	// When nil, warnings are discarded.
	Logger *log.Logger
}

func (o OpenOptions) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}
