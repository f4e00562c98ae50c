package formats

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors that can be returned by format adapters.
var (
	// ErrNotOpen is returned when Read is called before Open.
	ErrNotOpen = errors.New("format not open")

	// ErrAlreadyOpen is returned when Open is called on an already-open adapter.
	ErrAlreadyOpen = errors.New("format already open")
)

// ErrUnsupportedFile indicates that no adapter handles the given file type.
type ErrUnsupportedFile struct {
	Path      string
	Supported []string // supported extensions, e.g. [".txt", ".1pif"]
}

func (e *ErrUnsupportedFile) Error() string {
	return fmt.Sprintf("unsupported file type: %q (supported formats: %s)",
		e.Path, strings.Join(e.Supported, ", "))
}

// ErrNoDelimiter indicates that no field delimiter could be detected in a
// delimited text file.
type ErrNoDelimiter struct {
	Path string
}

func (e *ErrNoDelimiter) Error() string {
	return fmt.Sprintf("could not detect a field delimiter in %q: first line contains neither a comma nor a tab", e.Path)
}

// ErrFileNotFound indicates the specified file does not exist.
type ErrFileNotFound struct {
	Path string
}

func (e *ErrFileNotFound) Error() string {
	return fmt.Sprintf("file not found: %q", e.Path)
}

// ErrInvalidFormat indicates that the export file has an invalid or corrupted format.
type ErrInvalidFormat struct {
	Format  string // Format adapter name
	Path    string // File path
	Details string // What was wrong
	Err     error  // Underlying error, if any
}

func (e *ErrInvalidFormat) Error() string {
	msg := fmt.Sprintf("%s: invalid format for %q", e.Format, e.Path)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrInvalidFormat) Unwrap() error {
	return e.Err
}

// ErrPartialRead indicates that some entries couldn't be read.
// The adapter still returns the entries that were successfully read.
type ErrPartialRead struct {
	Format     string   // Format adapter name
	TotalItems int      // Total items attempted
	ReadItems  int      // Items successfully read
	Failures   []string // Descriptions of failures
	Errs       []error  // Individual errors
}

func (e *ErrPartialRead) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: partial read - %d of %d items succeeded",
		e.Format, e.ReadItems, e.TotalItems))

	if len(e.Failures) > 0 {
		sb.WriteString("\nFailures:\n")
		for i, f := range e.Failures {
			sb.WriteString(fmt.Sprintf("  - %s", f))
			if i < len(e.Failures)-1 {
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}

// AddFailure adds a failure to the partial read error.
func (e *ErrPartialRead) AddFailure(description string, err error) {
	e.Failures = append(e.Failures, description)
	if err != nil {
		e.Errs = append(e.Errs, err)
	}
}

// HasFailures returns true if there are any failures recorded.
func (e *ErrPartialRead) HasFailures() bool {
	return len(e.Failures) > 0
}

// IsPartialRead returns true if the error is a partial read error.
func IsPartialRead(err error) bool {
	var partialErr *ErrPartialRead
	return errors.As(err, &partialErr)
}

// IsFormatError returns true if the error is a fatal format error
// (unsupported file type, undetectable delimiter, corrupted file).
func IsFormatError(err error) bool {
	var unsupportedErr *ErrUnsupportedFile
	var delimErr *ErrNoDelimiter
	var invalidErr *ErrInvalidFormat
	return errors.As(err, &unsupportedErr) || errors.As(err, &delimErr) || errors.As(err, &invalidErr)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	var notFoundErr *ErrFileNotFound
	return errors.As(err, &notFoundErr)
}
