package store

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeStubInsert creates a shell script standing in for the store's
// insertion command. It records its arguments and stdin next to itself.
func writeStubInsert(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub insert script requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "stubpass")
	script := "#!/bin/sh\n" + body
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPass_Insert(t *testing.T) {
	t.Run("Arguments and stdin", func(t *testing.T) {
		bin := writeStubInsert(t, `printf '%s\n' "$*" > "$0.args"
cat > "$0.in"
exit 0
`)

		p := NewPass(bin)
		if err := p.Insert("safe/example.com", "p@ss\nlogin: alice\n", false); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}

		args, err := os.ReadFile(bin + ".args")
		if err != nil {
			t.Fatal(err)
		}
		if got := strings.TrimSpace(string(args)); got != "insert --multiline safe/example.com" {
			t.Errorf("arguments = %q, want 'insert --multiline safe/example.com'", got)
		}

		in, err := os.ReadFile(bin + ".in")
		if err != nil {
			t.Fatal(err)
		}
		if string(in) != "p@ss\nlogin: alice\n" {
			t.Errorf("stdin = %q", string(in))
		}
	})

	t.Run("Force adds the overwrite flag", func(t *testing.T) {
		bin := writeStubInsert(t, `printf '%s\n' "$*" > "$0.args"
cat > /dev/null
exit 0
`)

		p := NewPass(bin)
		if err := p.Insert("example.com", "p@ss\n", true); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}

		args, err := os.ReadFile(bin + ".args")
		if err != nil {
			t.Fatal(err)
		}
		if got := strings.TrimSpace(string(args)); got != "insert --multiline --force example.com" {
			t.Errorf("arguments = %q, want 'insert --multiline --force example.com'", got)
		}
	})

	t.Run("Non-zero exit is a typed failure", func(t *testing.T) {
		bin := writeStubInsert(t, `echo "entry already exists" >&2
cat > /dev/null
exit 1
`)

		p := NewPass(bin)
		err := p.Insert("example.com", "p@ss\n", false)
		if err == nil {
			t.Fatal("Insert() should fail when the command exits non-zero")
		}

		var insertErr *ErrInsertFailed
		if !errors.As(err, &insertErr) {
			t.Fatalf("Insert() error = %T, want ErrInsertFailed", err)
		}
		if insertErr.Name != "example.com" {
			t.Errorf("Name = %q, want example.com", insertErr.Name)
		}
		if !strings.Contains(insertErr.Output, "entry already exists") {
			t.Errorf("Output = %q, should carry the command's stderr", insertErr.Output)
		}
		if !IsInsertFailed(err) {
			t.Error("IsInsertFailed should match ErrInsertFailed")
		}
	})

	t.Run("Missing binary", func(t *testing.T) {
		p := NewPass(filepath.Join(t.TempDir(), "does-not-exist"))
		err := p.Insert("example.com", "p@ss\n", false)
		if !IsInsertFailed(err) {
			t.Errorf("Insert() error = %v, want ErrInsertFailed", err)
		}
	})
}

func TestNewPass_DefaultBin(t *testing.T) {
	p := NewPass("")
	if p.Bin != DefaultBin {
		t.Errorf("Bin = %q, want %q", p.Bin, DefaultBin)
	}
}
