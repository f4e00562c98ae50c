// Package model defines the normalized entry shape shared by all format adapters.
package model

import (
	"strings"
)

// Entry represents one normalized password entry produced by a format adapter
// and consumed by the importer. It is constructed once during parsing and not
// mutated afterwards.
type Entry struct {
	// ID is a unique identifier for the entry, used for logging and
	// troubleshooting. It has no meaning to the destination store.
	ID string

	// Name is the sanitized, folder-prefixed path under which the entry is
	// inserted into the store. Uniqueness against existing store entries is
	// the store's concern, not this tool's.
	Name string

	// Title is the display name from the source file.
	Title string

	// Password is the secret value. May be empty; adapters warn when it is.
	Password string

	// Login is the username associated with the entry, if any.
	Login string

	// URL is the associated website or service URL, if any.
	URL string

	// Notes contains free-form text notes, if any.
	Notes string
}

// IsEmpty returns true if the entry carries no meaningful data.
func (e *Entry) IsEmpty() bool {
	if e == nil {
		return true
	}
	return e.Title == "" && e.Password == "" && e.Login == "" && e.URL == "" && e.Notes == ""
}

// Secret builds the multiline body piped to the store's insert command.
// The password is always the first line. With metadata enabled, a
// "login:" line and a "url:" line follow (each only when non-empty) and
// then the raw notes text.
func (e *Entry) Secret(includeMeta bool) string {
	var sb strings.Builder
	sb.WriteString(e.Password)
	sb.WriteString("\n")

	if !includeMeta {
		return sb.String()
	}

	if e.Login != "" {
		sb.WriteString("login: ")
		sb.WriteString(e.Login)
		sb.WriteString("\n")
	}
	if e.URL != "" {
		sb.WriteString("url: ")
		sb.WriteString(e.URL)
		sb.WriteString("\n")
	}
	if e.Notes != "" {
		sb.WriteString(e.Notes)
		if !strings.HasSuffix(e.Notes, "\n") {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// Sanitize removes leading/trailing whitespace from the display fields.
// The password is left untouched: trailing spaces in a password are
// unlikely but legal.
func (e *Entry) Sanitize() {
	if e == nil {
		return
	}
	e.Name = strings.TrimSpace(e.Name)
	e.Title = strings.TrimSpace(e.Title)
	e.Login = strings.TrimSpace(e.Login)
	e.URL = strings.TrimSpace(e.URL)
	e.Notes = strings.TrimSpace(e.Notes)
}
