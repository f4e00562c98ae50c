package formats

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseNameSource(t *testing.T) {
	t.Run("Valid values", func(t *testing.T) {
		for _, s := range []string{"title", "url"} {
			got, err := ParseNameSource(s)
			if err != nil {
				t.Errorf("ParseNameSource(%q) error = %v", s, err)
			}
			if string(got) != s {
				t.Errorf("ParseNameSource(%q) = %v", s, got)
			}
		}
	})

	t.Run("Invalid value", func(t *testing.T) {
		_, err := ParseNameSource("hostname")
		if err == nil {
			t.Error("Expected error for unknown name source")
		}
	})
}

func TestNaming_EntryName(t *testing.T) {
	quiet := log.New(io.Discard)

	t.Run("Path separators are replaced with a warning", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		n := Naming{Source: NameSourceTitle}
		got := n.EntryName("a/b", "", logger)
		if got != "a_b" {
			t.Errorf("EntryName(a/b) = %q, want a_b", got)
		}

		warned := buf.String()
		if !strings.Contains(warned, "a/b") || !strings.Contains(warned, "a_b") {
			t.Errorf("warning should report before and after names, got %q", warned)
		}
	})

	t.Run("Idempotent on sanitized names", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		n := Naming{Source: NameSourceTitle}
		got := n.EntryName("a_b", "", logger)
		if got != "a_b" {
			t.Errorf("EntryName(a_b) = %q, want a_b", got)
		}
		if buf.Len() != 0 {
			t.Errorf("no warning expected for an already-clean name, got %q", buf.String())
		}
	})

	t.Run("Backslashes are replaced too", func(t *testing.T) {
		n := Naming{Source: NameSourceTitle}
		got := n.EntryName(`a\b`, "", quiet)
		if got != "a_b" {
			t.Errorf(`EntryName(a\b) = %q, want a_b`, got)
		}
	})

	t.Run("Custom replacement", func(t *testing.T) {
		n := Naming{Source: NameSourceTitle, Replacement: "-"}
		got := n.EntryName("a/b", "", quiet)
		if got != "a-b" {
			t.Errorf("EntryName(a/b) = %q, want a-b", got)
		}
	})

	t.Run("Disabled filter keeps the raw name", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		n := Naming{Source: NameSourceTitle, Disabled: true}
		got := n.EntryName("a/b", "", logger)
		if got != "a/b" {
			t.Errorf("EntryName with disabled filter = %q, want a/b", got)
		}
		if buf.Len() != 0 {
			t.Errorf("no warning expected when sanitization is disabled, got %q", buf.String())
		}
	})

	t.Run("Folder prefix is applied after sanitization", func(t *testing.T) {
		n := Naming{Source: NameSourceTitle, Folder: "safe"}
		got := n.EntryName("a/b", "", quiet)
		if got != "safe/a_b" {
			t.Errorf("EntryName = %q, want safe/a_b", got)
		}
	})

	t.Run("URL source", func(t *testing.T) {
		n := Naming{Source: NameSourceURL}
		got := n.EntryName("Example", "https://example.com", quiet)
		if got != "https:__example.com" {
			t.Errorf("EntryName = %q, want https:__example.com", got)
		}
	})

	t.Run("URL source falls back to title when URL is empty", func(t *testing.T) {
		n := Naming{Source: NameSourceURL}
		got := n.EntryName("Example", "", quiet)
		if got != "Example" {
			t.Errorf("EntryName = %q, want Example", got)
		}
	})

	t.Run("No usable name", func(t *testing.T) {
		n := Naming{Source: NameSourceTitle}
		got := n.EntryName("   ", "", quiet)
		if got != "" {
			t.Errorf("EntryName = %q, want empty", got)
		}
	})
}
