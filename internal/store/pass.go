// Package store drives the external password store's insertion command.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// DefaultBin is the insertion command invoked unless overridden.
const DefaultBin = "pass"

// Inserter abstracts the store's insertion operation so the importer can be
// tested without spawning processes.
type Inserter interface {
	// Insert stores secret under name, overwriting an existing entry when
	// force is set. Success is determined by the command's exit status.
	Insert(name, secret string, force bool) error
}

// Pass invokes a pass(1)-compatible insertion command, one process per
// entry. The store owns persistence, locking, and overwrite semantics;
// this client only shells out and reports the exit status.
type Pass struct {
	// Bin is the command to run. Empty means DefaultBin.
	Bin string
}

// NewPass creates a client for the given insertion command binary.
func NewPass(bin string) *Pass {
	if bin == "" {
		bin = DefaultBin
	}
	return &Pass{Bin: bin}
}

// Insert runs `<bin> insert --multiline [--force] <name>` with the secret
// body on stdin. The process is fully drained before Insert returns, so
// sequential callers observe results in invocation order.
func (p *Pass) Insert(name, secret string, force bool) error {
	args := []string{"insert", "--multiline"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, name)

	cmd := exec.Command(p.Bin, args...)
	cmd.Stdin = strings.NewReader(secret)
	cmd.Stdout = io.Discard

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ErrInsertFailed{
			Name:   name,
			Output: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	return nil
}

// ErrInsertFailed indicates that the store's insertion command reported
// failure for one entry.
type ErrInsertFailed struct {
	Name   string // Entry name passed to the command
	Output string // Captured stderr, if any
	Err    error  // Underlying process error
}

func (e *ErrInsertFailed) Error() string {
	msg := fmt.Sprintf("failed to insert %q", e.Name)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrInsertFailed) Unwrap() error {
	return e.Err
}

// IsInsertFailed returns true if the error is an insertion failure.
func IsInsertFailed(err error) bool {
	var insertErr *ErrInsertFailed
	return errors.As(err, &insertErr)
}

// Ensure Pass implements Inserter interface
var _ Inserter = (*Pass)(nil)
