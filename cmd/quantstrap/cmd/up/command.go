// Package up provides the up command implementation.
package up

import (
	"github.com/spf13/cobra"

	"github.com/spongeengine/quantstrap"
	"github.com/spongeengine/quantstrap/internal/cmd/application"
)

// Flags holds the up-specific flag values.
type Flags struct {
	CPU        bool
	GPU        bool
	SkipLaunch bool
	NoReport   bool
	Jobs       int
}

// NewCommand creates the up command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "up [-- app args...]",
		GroupID: "core",
		Short:   "Install the runtime and launch the web UI",
		Args:    cobra.ArbitraryArgs,
		Long: `Up provisions a complete SpongeQuant installation and starts the web UI:

1. Miniconda runtime - installed under installer_files, never touching the host
2. Python environment - pinned interpreter with an isolated package set
3. GPU detection - picks the CPU or GPU dependency manifest
4. Build tooling - resolves a usable cmake, downloading a release if needed
5. Quantization backends - clones and builds llama.cpp, installs AutoAWQ
   and exllamav2 when a GPU is present

Every step is idempotent: work a previous run completed is skipped, so
rerunning up after a failure resumes where it stopped.

Arguments after -- are passed through to the web UI process.`,
		Example: `  quantstrap up                             # Full bootstrap and launch
  quantstrap up --skip-launch               # Provision only, do not start the UI
  quantstrap up --cpu                       # Force the CPU manifest
  quantstrap up --jobs 8                    # Build with 8 parallel jobs
  quantstrap up -- --listen --port 7861     # Forward flags to the web UI`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := app.Quantstrap(BuildOptions(flags, args)...)
			if err != nil {
				return err
			}
			return client.Up(ctx)
		},
	}

	flags = addUpFlags(cmd)

	return cmd
}

// addUpFlags adds up-specific flags to the command.
func addUpFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().BoolVar(&flags.CPU, "cpu", false,
		"Force the CPU manifest even when a GPU is present")
	cmd.Flags().BoolVar(&flags.GPU, "gpu", false,
		"Force the GPU manifest even when no GPU is detected")
	cmd.Flags().BoolVar(&flags.SkipLaunch, "skip-launch", false,
		"Provision everything but do not start the web UI")
	cmd.Flags().BoolVar(&flags.NoReport, "no-report", false,
		"Skip writing the markdown bootstrap report")
	cmd.Flags().IntVarP(&flags.Jobs, "jobs", "j", 0,
		"Parallel build jobs (default: number of CPUs)")

	return flags
}

// BuildOptions creates client options from the parsed flags and
// passthrough web UI arguments.
func BuildOptions(flags *Flags, appArgs []string) []quantstrap.Option {
	var opts []quantstrap.Option

	if flags.CPU {
		opts = append(opts, quantstrap.WithForceCPU())
	}
	if flags.GPU {
		opts = append(opts, quantstrap.WithForceGPU())
	}
	if flags.SkipLaunch {
		opts = append(opts, quantstrap.WithSkipLaunch())
	}
	if flags.NoReport {
		opts = append(opts, quantstrap.WithNoReport())
	}
	if flags.Jobs > 0 {
		opts = append(opts, quantstrap.WithJobs(flags.Jobs))
	}
	if len(appArgs) > 0 {
		opts = append(opts, quantstrap.WithAppArgs(appArgs...))
	}

	return opts
}
