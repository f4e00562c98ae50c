package formats

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/opimport/opimport/internal/model"
)

// webFormType is the typeName of importable login items. Every other item
// type (notes, identities, software licenses, ...) is skipped silently.
const webFormType = "webforms.WebForm"

// sectionSeparatorPrefix marks the record separator lines 1Password writes
// between objects.
const sectionSeparatorPrefix = "***"

// pifItem represents one line of a 1PIF file. Each non-separator line is a
// self-contained JSON object, not an element of an enclosing array.
type pifItem struct {
	TypeName       string            `json:"typeName"`
	Title          string            `json:"title"`
	Location       string            `json:"location"`
	SecureContents pifSecureContents `json:"secureContents"`
}

// pifSecureContents holds the nested field array and notes of a 1PIF item.
type pifSecureContents struct {
	Fields     []pifField `json:"fields"`
	NotesPlain string     `json:"notesPlain"`
}

// pifField is one entry of the secureContents.fields array. Either the
// name or the designation may carry the role of the field.
type pifField struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Value       string `json:"value"`
}

// OnePIFFormat implements the Format interface for 1Password Interchange
// Format (.1pif) exports.
type OnePIFFormat struct {
	filePath string
	opts     OpenOptions
	isOpen   bool
	entries  []model.Entry
}

// NewOnePIFFormat creates a new 1PIF format adapter.
func NewOnePIFFormat() *OnePIFFormat {
	return &OnePIFFormat{}
}

// Name returns the unique identifier for this format.
func (f *OnePIFFormat) Name() string {
	return "1pif"
}

// Description returns a human-readable description.
func (f *OnePIFFormat) Description() string {
	return "1Password Interchange Format export (newline-delimited JSON)"
}

// SupportedExtensions returns file extensions this format handles.
func (f *OnePIFFormat) SupportedExtensions() []string {
	return []string{".1pif"}
}

// Detect checks if the given path is a 1PIF export.
func (f *OnePIFFormat) Detect(path string) (int, error) {
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
	if ext != ".1pif" {
		return 0, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	// The first non-blank line is either a JSON object or a separator.
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, sectionSeparatorPrefix) || strings.HasPrefix(line, "{") {
			return 100, nil
		}
		return 30, nil
	}

	// Empty file with the right extension.
	return 50, nil
}

// Open initializes the adapter with the given file path.
func (f *OnePIFFormat) Open(path string, opts OpenOptions) error {
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

	f.filePath = path
	f.opts = opts
	f.isOpen = true
	f.entries = nil

	return nil
}

// Read parses the 1PIF file line by line and returns the web-form login
// entries in file order.
func (f *OnePIFFormat) Read() ([]model.Entry, error) {
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

	scanner := bufio.NewScanner(file)
	// Notes can make a single item line quite large.
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var entries []model.Entry
	partialErr := &ErrPartialRead{Format: f.Name()}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Separator lines contribute nothing regardless of content.
		if line == "" || strings.HasPrefix(line, sectionSeparatorPrefix) {
			continue
		}

		var item pifItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			partialErr.TotalItems++
			partialErr.AddFailure(fmt.Sprintf("line %d: invalid JSON object", lineNum), err)
			continue
		}

		if item.TypeName != webFormType {
			continue
		}

		partialErr.TotalItems++

		entry, ok := f.parseItem(&item, lineNum)
		if !ok {
			partialErr.AddFailure(fmt.Sprintf("line %d: no usable entry name", lineNum), nil)
			continue
		}

		entries = append(entries, entry)
		partialErr.ReadItems++
	}

	if err := scanner.Err(); err != nil {
		return nil, &ErrInvalidFormat{
			Format:  f.Name(),
			Path:    f.filePath,
			Details: "failed to read file",
			Err:     err,
		}
	}

	f.entries = entries

	if partialErr.HasFailures() {
		return entries, partialErr
	}

	return entries, nil
}

// parseItem converts one accepted web-form item to an entry.
func (f *OnePIFFormat) parseItem(item *pifItem, lineNum int) (model.Entry, bool) {
	logger := f.opts.logger()

	// A missing password or username field in the nested array is a data
	// quirk of the source, not a fatal condition: warn and use "".
	password, hasPassword := fieldValue(item.SecureContents.Fields, "password")
	if !hasPassword {
		logger.Warn("entry has no password field", "title", item.Title)
	}
	username, hasUsername := fieldValue(item.SecureContents.Fields, "username")
	if !hasUsername {
		logger.Warn("entry has no username field", "title", item.Title)
	}

	// With the url name source, 1PIF names come from the location field.
	name := f.opts.Naming.EntryName(item.Title, item.Location, logger)
	if name == "" {
		logger.Warn("skipping entry with no usable name", "line", lineNum)
		return model.Entry{}, false
	}

	if hasPassword && password == "" {
		logger.Warn("entry has an empty password", "name", name)
	}

	return model.Entry{
		ID:       uuid.New().String(),
		Name:     name,
		Title:    item.Title,
		Password: password,
		Login:    username,
		URL:      item.Location,
		Notes:    item.SecureContents.NotesPlain,
	}, true
}

// fieldValue looks up the field whose name or designation matches role.
// The second return value reports whether such a field exists.
func fieldValue(fields []pifField, role string) (string, bool) {
	for _, f := range fields {
		if f.Name == role || f.Designation == role {
			return f.Value, true
		}
	}
	return "", false
}

// Close releases resources.
func (f *OnePIFFormat) Close() error {
	f.isOpen = false
	f.filePath = ""
	f.entries = nil
	return nil
}

// init registers the 1PIF format with the default registry.
func init() {
	RegisterDefault(NewOnePIFFormat())
}

// Ensure OnePIFFormat implements Format interface
var _ Format = (*OnePIFFormat)(nil)
