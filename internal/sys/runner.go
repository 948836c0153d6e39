// Package sys wraps external process execution behind a small interface so
// bootstrap steps can be exercised in tests without touching the host.
package sys

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
)

// Command describes a single external process invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Env   []string // nil means inherit the parent environment
	Stdin io.Reader
	// Stdout and Stderr are only used by Run. Output always captures.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the invocation for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner executes external commands and resolves tools on PATH.
type Runner interface {
	// LookPath reports the absolute path of an executable, or an error
	// when it cannot be found.
	LookPath(name string) (string, error)

	// Run executes the command with stdio wired as given and blocks until
	// it exits. The returned error is the raw exec error; callers wrap it.
	Run(ctx context.Context, cmd Command) error

	// Output executes the command and returns its combined stdout and
	// stderr, blocking until it exits.
	Output(ctx context.Context, cmd Command) ([]byte, error)
}

// System is the Runner backed by os/exec.
type System struct{}

// NewSystem returns a Runner that executes real processes.
func NewSystem() *System {
	return &System{}
}

// LookPath implements Runner.
func (s *System) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run implements Runner.
func (s *System) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //nolint:gosec // invocations are assembled from pinned constants
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdin = cmd.Stdin
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr
	return c.Run()
}

// Output implements Runner.
func (s *System) Output(ctx context.Context, cmd Command) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //nolint:gosec // invocations are assembled from pinned constants
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdin = cmd.Stdin
	return c.CombinedOutput()
}

// ExitCode extracts the process exit code from a Run or Output error.
// Returns 0 for nil and -1 when the error carries no exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
