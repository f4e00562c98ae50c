package formats

import (
	"errors"
	"strings"
	"testing"
)

func TestErrUnsupportedFile(t *testing.T) {
	err := &ErrUnsupportedFile{Path: "/export.csv", Supported: []string{".txt", ".1pif"}}
	msg := err.Error()
	if !strings.Contains(msg, "/export.csv") {
		t.Errorf("Error message should contain path: %s", msg)
	}
	if !strings.Contains(msg, ".txt") || !strings.Contains(msg, ".1pif") {
		t.Errorf("Error message should name supported formats: %s", msg)
	}
}

func TestErrNoDelimiter(t *testing.T) {
	err := &ErrNoDelimiter{Path: "/export.txt"}
	msg := err.Error()
	if !strings.Contains(msg, "/export.txt") {
		t.Errorf("Error message should contain path: %s", msg)
	}
	if !strings.Contains(msg, "comma") || !strings.Contains(msg, "tab") {
		t.Errorf("Error message should describe the heuristic: %s", msg)
	}
}

func TestErrInvalidFormat(t *testing.T) {
	t.Run("With details and underlying error", func(t *testing.T) {
		underlying := errors.New("parse error")
		err := &ErrInvalidFormat{
			Format:  "text",
			Path:    "/export.txt",
			Details: "failed to read header row",
			Err:     underlying,
		}
		msg := err.Error()
		if !strings.Contains(msg, "text") || !strings.Contains(msg, "failed to read header row") {
			t.Errorf("Error message incomplete: %s", msg)
		}
		if !errors.Is(err, underlying) {
			t.Error("Unwrap should expose the underlying error")
		}
	})
}

func TestErrPartialRead(t *testing.T) {
	err := &ErrPartialRead{Format: "1pif", TotalItems: 3, ReadItems: 2}
	err.AddFailure("line 2: invalid JSON object", errors.New("bad token"))

	if !err.HasFailures() {
		t.Error("HasFailures() should be true after AddFailure")
	}

	msg := err.Error()
	if !strings.Contains(msg, "2 of 3") {
		t.Errorf("Error message should contain counts: %s", msg)
	}
	if !strings.Contains(msg, "line 2") {
		t.Errorf("Error message should list failures: %s", msg)
	}
}

func TestErrorPredicates(t *testing.T) {
	t.Run("IsPartialRead", func(t *testing.T) {
		if !IsPartialRead(&ErrPartialRead{Format: "text"}) {
			t.Error("IsPartialRead should match ErrPartialRead")
		}
		if IsPartialRead(errors.New("other")) {
			t.Error("IsPartialRead should not match other errors")
		}
	})

	t.Run("IsFormatError", func(t *testing.T) {
		for _, err := range []error{
			&ErrUnsupportedFile{Path: "x"},
			&ErrNoDelimiter{Path: "x"},
			&ErrInvalidFormat{Format: "text", Path: "x"},
		} {
			if !IsFormatError(err) {
				t.Errorf("IsFormatError should match %T", err)
			}
		}
		if IsFormatError(errors.New("other")) {
			t.Error("IsFormatError should not match other errors")
		}
	})

	t.Run("IsNotFound", func(t *testing.T) {
		if !IsNotFound(&ErrFileNotFound{Path: "x"}) {
			t.Error("IsNotFound should match ErrFileNotFound")
		}
		if IsNotFound(errors.New("other")) {
			t.Error("IsNotFound should not match other errors")
		}
	})
}
