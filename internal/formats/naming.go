package formats

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
)

// NameSource selects which parsed field becomes an entry's store name.
type NameSource string

const (
	// NameSourceTitle names entries after their title field (default).
	NameSourceTitle NameSource = "title"
	// NameSourceURL names entries after their URL (the "location" field
	// in 1PIF files).
	NameSourceURL NameSource = "url"
)

// ParseNameSource parses a string into a NameSource.
func ParseNameSource(s string) (NameSource, error) {
	switch NameSource(s) {
	case NameSourceTitle:
		return NameSourceTitle, nil
	case NameSourceURL:
		return NameSourceURL, nil
	default:
		return NameSourceTitle, fmt.Errorf("unknown name source: %q (must be title or url)", s)
	}
}

// DefaultNameReplacement is substituted for path separators in entry names
// unless overridden.
const DefaultNameReplacement = "_"

// namePattern matches characters that would create unintended store
// sub-folders if left in an entry name.
var namePattern = regexp.MustCompile(`[/\\]`)

// Naming controls how store names are derived from parsed fields.
type Naming struct {
	// Source selects the field the name is built from.
	Source NameSource

	// Folder, when non-empty, is prefixed to every entry name. The folder
	// path itself is not sanitized.
	Folder string

	// Replacement substitutes path separators in the base name.
	// Empty means DefaultNameReplacement.
	Replacement string

	// Disabled turns off sanitization entirely; names pass through raw.
	Disabled bool
}

func (n Naming) replacement() string {
	if n.Replacement == "" {
		return DefaultNameReplacement
	}
	return n.Replacement
}

// EntryName derives the store name for an entry from its title and URL.
// It returns "" when no usable name can be derived; callers skip such
// entries. A warning is logged whenever sanitization changes the name.
func (n Naming) EntryName(title, url string, logger *log.Logger) string {
	base := title
	if n.Source == NameSourceURL && url != "" {
		base = url
	}
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}

	if !n.Disabled {
		clean := namePattern.ReplaceAllString(base, n.replacement())
		if clean != base {
			logger.Warn("entry name contained path separators, rewrote it",
				"from", base, "to", clean)
		}
		base = clean
	}

	if n.Folder != "" {
		return n.Folder + "/" + base
	}
	return base
}
