package sys

import (
	"context"
	"os/exec"
)

// Fake provides a scripted Runner for testing.
// Each method can be customized by setting the corresponding function field;
// if a field is nil the method returns a benign default. Every invocation is
// recorded so tests can assert which commands ran, and that none did.
//
// Example Usage:
//
//	fake := &sys.Fake{
//	    LookPathFunc: func(name string) (string, error) {
//	        if name == "nvidia-smi" {
//	            return "/usr/bin/nvidia-smi", nil
//	        }
//	        return "", exec.ErrNotFound
//	    },
//	}
//	// ... run step with fake, then inspect fake.Commands()
type Fake struct {
	LookPathFunc func(name string) (string, error)
	RunFunc      func(ctx context.Context, cmd Command) error
	OutputFunc   func(ctx context.Context, cmd Command) ([]byte, error)

	lookups []string
	ran     []Command
}

// LookPath resolves a tool using the scripted function or reports not found.
func (f *Fake) LookPath(name string) (string, error) {
	f.lookups = append(f.lookups, name)
	if f.LookPathFunc != nil {
		return f.LookPathFunc(name)
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Run records the command and delegates to the scripted function or succeeds.
func (f *Fake) Run(ctx context.Context, cmd Command) error {
	f.ran = append(f.ran, cmd)
	if f.RunFunc != nil {
		return f.RunFunc(ctx, cmd)
	}
	return nil
}

// Output records the command and delegates to the scripted function or
// returns empty output.
func (f *Fake) Output(ctx context.Context, cmd Command) ([]byte, error) {
	f.ran = append(f.ran, cmd)
	if f.OutputFunc != nil {
		return f.OutputFunc(ctx, cmd)
	}
	return nil, nil
}

// Commands returns every command passed to Run or Output, in order.
func (f *Fake) Commands() []Command {
	return f.ran
}

// CommandLines renders recorded commands as strings for easy assertions.
func (f *Fake) CommandLines() []string {
	lines := make([]string, 0, len(f.ran))
	for _, cmd := range f.ran {
		lines = append(lines, cmd.String())
	}
	return lines
}

// Lookups returns every tool name passed to LookPath, in order.
func (f *Fake) Lookups() []string {
	return f.lookups
}

// Reset clears the recorded invocations.
func (f *Fake) Reset() {
	f.lookups = nil
	f.ran = nil
}

// Ensure Fake implements Runner at compile time.
var _ Runner = (*Fake)(nil)
