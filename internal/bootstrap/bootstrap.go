// Package bootstrap implements the installation and launch sequence for the
// quantization UI: provision an isolated Python runtime, create the pinned
// dependency environment, probe GPU hardware, install the matching dependency
// manifest, resolve a build tool, acquire and build the external quantization
// projects, and hand control to the application.
//
// The sequence is a linear state machine with no rollback. Every step is
// guarded by an on-disk existence check so reruns skip completed work, and
// every failure is fatal at the point of detection.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spongeengine/quantstrap/internal/download"
	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
	"github.com/spongeengine/quantstrap/pkg/logging"
)

// Orchestrator executes the bootstrap sequence against one installation root.
type Orchestrator struct {
	cfg     *Config
	runner  sys.Runner
	fetcher download.Fetcher
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRunner replaces the process runner, usually with a fake in tests.
func WithRunner(r sys.Runner) Option {
	return func(o *Orchestrator) { o.runner = r }
}

// WithFetcher replaces the artifact fetcher.
func WithFetcher(f download.Fetcher) Option {
	return func(o *Orchestrator) { o.fetcher = f }
}

// WithStdio redirects progress output and the stdio handed to child
// processes.
func WithStdio(in io.Reader, out, errw io.Writer) Option {
	return func(o *Orchestrator) {
		o.stdin = in
		o.stdout = out
		o.stderr = errw
	}
}

// New creates an Orchestrator for the given configuration.
func New(cfg *Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:     cfg,
		runner:  sys.NewSystem(),
		fetcher: download.New(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// stepFunc advances the run by one state, returning a short detail line for
// the journal and report.
type stepFunc func(ctx context.Context, r *run) (string, error)

// run carries the mutable state of one bootstrap pass. The GPU verdict is
// computed exactly once and read by every downstream decision.
type run struct {
	gpu        bool
	gpuVendor  string // "nvidia", "amd", "forced", or empty when none
	envCreated bool
	cmake      string
	cmakeTier  string // "cache", "path", or "download"
	environ    []string
	journal    *Journal
}

// Run executes the full bootstrap sequence and, unless configured otherwise,
// blocks on the launched application until it exits. The returned error
// carries the application's exit code when the handoff itself succeeded.
func (o *Orchestrator) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)

	if err := o.cfg.Validate(); err != nil {
		return err
	}

	r := &run{journal: newJournal(o.cfg.JournalPath())}

	steps := []struct {
		state State
		fn    stepFunc
	}{
		{StateValidated, o.validatePath},
		{StateRuntimeReady, o.ensureRuntime},
		{StateEnvReady, o.ensureEnv},
		{StateEnvIsolated, o.isolateEnv},
		{StateGpuProbed, o.probeGPU},
		{StateDepsInstalled, o.installPackages},
		{StateBuildToolReady, o.resolveBuildTool},
		{StateReposBuilt, o.buildRepos},
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			return errors.ErrCanceled
		}

		detail, err := step.fn(ctx, r)
		if err != nil {
			log.Error().
				Err(err).
				Str("state", string(step.state)).
				Msg("Bootstrap step failed")
			return err
		}

		log.Debug().
			Str("state", string(step.state)).
			Str("detail", detail).
			Msg("Bootstrap step complete")
		r.journal.Record(ctx, step.state, detail)
	}

	if !o.cfg.NoReport {
		if err := o.writeReport(r); err != nil {
			log.Warn().Err(err).Msg("Could not write bootstrap report")
		}
	}

	if o.cfg.SkipLaunch {
		fmt.Fprintln(o.stdout, "\nBootstrap complete, launch skipped.")
		return nil
	}

	r.journal.Record(ctx, StateLaunched, "handing off to "+constants.AppEntrypoint)
	return o.launch(ctx, r)
}

// bannerWidth matches the asterisk banners of the platform launch scripts.
const bannerWidth = 67

// banner prints a progress heading the way the launch scripts do.
func (o *Orchestrator) banner(msg string) {
	line := strings.Repeat("*", bannerWidth)
	fmt.Fprintf(o.stdout, "\n%s\n* %s\n%s\n", line, msg, line)
}
