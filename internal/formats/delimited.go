package formats

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/opimport/opimport/internal/model"
)

// Delimited text header columns.
const (
	textColTitle    = "title"
	textColPassword = "password"
	textColUsername = "username"
	textColURL      = "url"
	textColNotes    = "notes"
)

// TextFormat implements the Format interface for 1Password delimited text
// exports (.txt). The field delimiter is sniffed from the first line:
// comma when one appears, else tab, else the file is rejected.
type TextFormat struct {
	filePath  string
	opts      OpenOptions
	delimiter rune
	isOpen    bool
	entries   []model.Entry
}

// NewTextFormat creates a new delimited text format adapter.
func NewTextFormat() *TextFormat {
	return &TextFormat{}
}

// Name returns the unique identifier for this format.
func (f *TextFormat) Name() string {
	return "text"
}

// Description returns a human-readable description.
func (f *TextFormat) Description() string {
	return "1Password delimited text export (comma or tab separated)"
}

// SupportedExtensions returns file extensions this format handles.
func (f *TextFormat) SupportedExtensions() []string {
	return []string{".txt"}
}

// Detect checks if the given path is a delimited text export.
func (f *TextFormat) Detect(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, &ErrFileNotFound{Path: path}
		}
		return 0, err
	}

	if info.IsDir() {
		return 0, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".txt" {
		return 0, nil
	}

	delim, err := sniffDelimiter(path)
	if err != nil {
		return 0, nil
	}

	// A comma is the common 1Password export shape, tab the fallback.
	if delim == ',' {
		return 90, nil
	}
	return 80, nil
}

// sniffDelimiter reads the first line of the file and picks the field
// delimiter. The heuristic inspects the first line only, not the whole file.
func sniffDelimiter(path string) (rune, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := bufio.NewReader(newBOMSkippingReader(file))
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, err
	}

	switch {
	case strings.ContainsRune(line, ','):
		return ',', nil
	case strings.ContainsRune(line, '\t'):
		return '\t', nil
	default:
		return 0, &ErrNoDelimiter{Path: path}
	}
}

// Open initializes the adapter with the given file path. Delimiter
// detection happens here so an undetectable delimiter fails before any
// entry is parsed.
func (f *TextFormat) Open(path string, opts OpenOptions) error {
	if f.isOpen {
		return ErrAlreadyOpen
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ErrFileNotFound{Path: path}
		}
		return err
	}

	if info.IsDir() {
		return &ErrInvalidFormat{
			Format:  f.Name(),
			Path:    path,
			Details: "path must be a file, not a directory",
		}
	}

	delim, err := sniffDelimiter(path)
	if err != nil {
		return err
	}

	f.filePath = path
	f.opts = opts
	f.delimiter = delim
	f.isOpen = true
	f.entries = nil

	return nil
}

// Read parses the delimited file and returns entries in file order.
func (f *TextFormat) Read() ([]model.Entry, error) {
	if !f.isOpen {
		return nil, ErrNotOpen
	}

	// Return cached results if available
	if f.entries != nil {
		return f.entries, nil
	}

	file, err := os.Open(f.filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	csvReader := csv.NewReader(newBOMSkippingReader(file))
	csvReader.Comma = f.delimiter
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1 // Variable field count

	// First row names the fields.
	header, err := csvReader.Read()
	if err != nil {
		return nil, &ErrInvalidFormat{
			Format:  f.Name(),
			Path:    f.filePath,
			Details: "failed to read header row",
			Err:     err,
		}
	}

	colIndex := make(map[string]int)
	for i, h := range header {
		colIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	logger := f.opts.logger()
	var entries []model.Entry
	partialErr := &ErrPartialRead{Format: f.Name()}

	lineNum := 1 // Start at 1 because we already read the header
	for {
		lineNum++
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			partialErr.TotalItems++
			partialErr.AddFailure(fmt.Sprintf("line %d: parse error", lineNum), err)
			continue
		}

		partialErr.TotalItems++

		if isEmptyRecord(record) {
			continue
		}

		// A column the header never named yields an empty field.
		getField := func(name string) string {
			if idx, ok := colIndex[name]; ok && idx < len(record) {
				return cleanField(record[idx])
			}
			return ""
		}

		title := getField(textColTitle)
		urlStr := getField(textColURL)

		name := f.opts.Naming.EntryName(title, urlStr, logger)
		if name == "" {
			partialErr.AddFailure(fmt.Sprintf("line %d: no usable entry name", lineNum), nil)
			logger.Warn("skipping entry with no usable name", "line", lineNum)
			continue
		}

		password := getField(textColPassword)
		if password == "" {
			logger.Warn("entry has an empty password", "name", name)
		}

		entries = append(entries, model.Entry{
			ID:       uuid.New().String(),
			Name:     name,
			Title:    title,
			Password: password,
			Login:    getField(textColUsername),
			URL:      urlStr,
			Notes:    getField(textColNotes),
		})
		partialErr.ReadItems++
	}

	f.entries = entries

	if partialErr.HasFailures() {
		return entries, partialErr
	}

	return entries, nil
}

// Close releases resources.
func (f *TextFormat) Close() error {
	f.isOpen = false
	f.filePath = ""
	f.delimiter = 0
	f.entries = nil
	return nil
}

// isEmptyRecord checks if a record has only empty fields.
func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// cleanField trims whitespace and strips control characters that would
// corrupt the multiline secret body.
func cleanField(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' {
			return r
		}
		if r < 32 || r == '\ufeff' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// bomSkippingReader wraps a reader and skips a UTF-8 BOM if present.
type bomSkippingReader struct {
	r       io.Reader
	checked bool
}

func newBOMSkippingReader(r io.Reader) *bomSkippingReader {
	return &bomSkippingReader{r: r}
}

func (r *bomSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true

		bom := make([]byte, 3)
		n, err := r.r.Read(bom)
		if err != nil {
			return 0, err
		}

		// UTF-8 BOM is 0xEF, 0xBB, 0xBF
		if n >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
			return r.r.Read(p)
		}

		copy(p, bom[:n])
		if n < len(p) {
			n2, err := r.r.Read(p[n:])
			return n + n2, err
		}
		return n, nil
	}
	return r.r.Read(p)
}

// init registers the text format with the default registry.
func init() {
	RegisterDefault(NewTextFormat())
}

// Ensure TextFormat implements Format interface
var _ Format = (*TextFormat)(nil)
