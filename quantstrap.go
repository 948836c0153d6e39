// Package quantstrap provisions and launches the SpongeQuant quantization UI.
//
// It installs an isolated Miniconda runtime under a working directory, creates
// a pinned Python environment, probes the GPU, installs the matching
// dependency manifest, resolves a CMake build tool, acquires and builds the
// external quantization backends, and hands control to the application.
// Nothing outside the working directory is touched, and a rerun skips every
// step whose on-disk marker already exists.
//
// Example usage:
//
//	// Provision a workspace and launch the UI
//	client, err := quantstrap.New(
//	    quantstrap.WithWorkDir("./spongequant"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Up(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Or inspect the workspace without changing it
//	checks := client.Doctor(ctx)
//	if bootstrap.Blocked(checks) {
//	    // a required probe cannot pass on this host
//	}
package quantstrap

import (
	"context"

	"github.com/spongeengine/quantstrap/internal/bootstrap"
	"github.com/spongeengine/quantstrap/internal/docker"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client drives provisioning, diagnosis, and launch for one workspace.
type Client interface {

	// Bootstrapper runs the full provisioning sequence
	Bootstrapper

	// Diagnoser inspects the workspace without modifying it
	Diagnoser

	// Cleaner removes what the bootstrap installed
	Cleaner

	// ContainerLauncher starts the containerized variant
	ContainerLauncher
}

// Bootstrapper runs the provisioning sequence end to end.
type Bootstrapper interface {
	// Up provisions the runtime, environment, and quantization backends,
	// then launches the application unless configured otherwise.
	Up(ctx context.Context) error
}

// Diagnoser provides read-only workspace inspection.
type Diagnoser interface {
	// Doctor re-runs the environment probes without touching the disk.
	Doctor(ctx context.Context) []bootstrap.Check

	// Journal loads the phase journal recorded by previous runs.
	Journal() (*bootstrap.Journal, error)
}

// Cleaner resets the workspace.
type Cleaner interface {
	// Clean removes the install root and, when repos is set, the cloned
	// project checkouts. It returns the paths it removed.
	Clean(ctx context.Context, repos bool) ([]string, error)
}

// ContainerLauncher runs the application in a container instead of a host
// install.
type ContainerLauncher interface {
	// Docker resolves an image target and source, from the given values or
	// the interactive menus when empty, then starts the container.
	Docker(ctx context.Context, target, source string) error
}

// client is the internal implementation of the Client interface.
type client struct {
	config *config
	cfg    *bootstrap.Config
	orch   *bootstrap.Orchestrator
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	bcfg, err := bootstrap.NewConfig(cfg.workdir)
	if err != nil {
		return nil, err
	}
	bcfg.ForceCPU = cfg.forceCPU
	bcfg.ForceGPU = cfg.forceGPU
	bcfg.SkipLaunch = cfg.skipLaunch
	bcfg.NoReport = cfg.noReport
	bcfg.AppArgs = cfg.appArgs
	if cfg.jobs > 0 {
		bcfg.Jobs = cfg.jobs
	}
	if err := bcfg.Validate(); err != nil {
		return nil, err
	}

	return &client{
		config: cfg,
		cfg:    bcfg,
		orch:   bootstrap.New(bcfg, cfg.bootstrapOptions()...),
	}, nil
}

// Up runs the bootstrap sequence and launches the application.
func (c *client) Up(ctx context.Context) error {
	return c.orch.Run(ctx)
}

// Doctor re-runs the environment probes without changing anything on disk.
func (c *client) Doctor(ctx context.Context) []bootstrap.Check {
	return c.orch.Doctor(ctx)
}

// Journal loads the phase journal recorded by previous runs.
func (c *client) Journal() (*bootstrap.Journal, error) {
	return bootstrap.LoadJournal(c.cfg.JournalPath())
}

// Clean removes the install root and optionally the cloned projects.
func (c *client) Clean(ctx context.Context, repos bool) ([]string, error) {
	return c.orch.Clean(ctx, repos)
}

// Docker launches the containerized application variant.
func (c *client) Docker(ctx context.Context, target, source string) error {
	launcher := docker.New(c.cfg, c.config.dockerOptions()...)
	return launcher.Launch(ctx, target, source)
}
