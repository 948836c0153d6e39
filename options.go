package quantstrap

import (
	"io"
	"os"

	"github.com/spongeengine/quantstrap/internal/bootstrap"
	"github.com/spongeengine/quantstrap/internal/docker"
	"github.com/spongeengine/quantstrap/internal/download"
	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/errors"
)

// Option is a function that configures a Client
type Option func(*config) error

// config collects the settings applied by options before the Client is built.
type config struct {
	workdir    string
	forceCPU   bool
	forceGPU   bool
	skipLaunch bool
	noReport   bool
	jobs       int
	appArgs    []string

	runner  sys.Runner
	fetcher download.Fetcher
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func defaultConfig() *config {
	return &config{
		workdir: ".",
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// bootstrapOptions translates the facade configuration into orchestrator
// options.
func (c *config) bootstrapOptions() []bootstrap.Option {
	opts := []bootstrap.Option{
		bootstrap.WithStdio(c.stdin, c.stdout, c.stderr),
	}
	if c.runner != nil {
		opts = append(opts, bootstrap.WithRunner(c.runner))
	}
	if c.fetcher != nil {
		opts = append(opts, bootstrap.WithFetcher(c.fetcher))
	}
	return opts
}

// dockerOptions translates the facade configuration into container launcher
// options.
func (c *config) dockerOptions() []docker.Option {
	opts := []docker.Option{
		docker.WithStdio(c.stdin, c.stdout, c.stderr),
	}
	if c.runner != nil {
		opts = append(opts, docker.WithRunner(c.runner))
	}
	return opts
}

// WithWorkDir sets the installation root. Everything the bootstrap creates
// lives underneath it. Defaults to the current directory.
func WithWorkDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.NewValidationError("workdir", dir, "installation root cannot be empty")
		}
		c.workdir = dir
		return nil
	}
}

// WithForceCPU installs the CPU dependency manifest regardless of detected
// hardware.
func WithForceCPU() Option {
	return func(c *config) error {
		c.forceCPU = true
		return nil
	}
}

// WithForceGPU follows the GPU path even when no GPU tooling is found.
func WithForceGPU() Option {
	return func(c *config) error {
		c.forceGPU = true
		return nil
	}
}

// WithSkipLaunch stops the run after provisioning without starting the
// application.
func WithSkipLaunch() Option {
	return func(c *config) error {
		c.skipLaunch = true
		return nil
	}
}

// WithNoReport suppresses the post-run report file.
func WithNoReport() Option {
	return func(c *config) error {
		c.noReport = true
		return nil
	}
}

// WithJobs sets the build parallelism for the external projects.
func WithJobs(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.NewValidationError("jobs", n, "build parallelism must be at least 1")
		}
		c.jobs = n
		return nil
	}
}

// WithAppArgs forwards arguments verbatim to the application entry point.
func WithAppArgs(args ...string) Option {
	return func(c *config) error {
		c.appArgs = args
		return nil
	}
}

// WithRunner replaces the process runner, usually with a fake in tests.
func WithRunner(r sys.Runner) Option {
	return func(c *config) error {
		c.runner = r
		return nil
	}
}

// WithFetcher replaces the artifact fetcher.
func WithFetcher(f download.Fetcher) Option {
	return func(c *config) error {
		c.fetcher = f
		return nil
	}
}

// WithStdio redirects progress output and the stdio handed to child
// processes.
func WithStdio(in io.Reader, out, errw io.Writer) Option {
	return func(c *config) error {
		c.stdin = in
		c.stdout = out
		c.stderr = errw
		return nil
	}
}
