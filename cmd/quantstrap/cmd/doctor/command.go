// Package doctor provides the doctor command implementation.
package doctor

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spongeengine/quantstrap/internal/bootstrap"
	"github.com/spongeengine/quantstrap/internal/cmd/application"
	"github.com/spongeengine/quantstrap/internal/cmd/globals"
	"github.com/spongeengine/quantstrap/internal/cmd/output"
	"github.com/spongeengine/quantstrap/pkg/errors"
)

// Flags holds the doctor-specific flag values.
type Flags struct {
	Markdown string
}

// NewCommand creates the doctor command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "doctor",
		GroupID: "management",
		Short:   "Diagnose the installation without changing it",
		Long: `Doctor probes every bootstrap concern read-only and reports its state:
the install path, the conda runtime, the Python environment, GPU detection,
cmake, the dependency manifests, the quantization backends, and the
bootstrap journal.

Each check is ready, missing, blocked, or skipped. Missing means the next
up run will provision it. Blocked means up would fail, and doctor exits
non-zero so scripts can gate on a healthy installation.`,
		Example: `  quantstrap doctor                         # Human-readable table
  quantstrap doctor -o json                 # Machine-readable checks
  quantstrap doctor --markdown report.md    # Write a markdown report
  quantstrap doctor -v                      # Include the bootstrap journal`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := app.Quantstrap()
			if err != nil {
				return err
			}
			checks := client.Doctor(ctx)

			if flags.Markdown != "" {
				if err := writeMarkdown(flags.Markdown, checks); err != nil {
					return err
				}
			} else if err := printChecks(app, client, checks); err != nil {
				return err
			}

			if bootstrap.Blocked(checks) {
				return errors.NewEnvironmentError("", "blocked checks found, bootstrap cannot proceed")
			}
			return nil
		},
	}

	flags = addDoctorFlags(cmd)

	return cmd
}

// addDoctorFlags adds doctor-specific flags to the command.
func addDoctorFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().StringVar(&flags.Markdown, "markdown", "",
		"Write a markdown report to this file instead of stdout")

	return flags
}

// printChecks formats the checks for the terminal, appending the journal
// phases when verbose output was requested.
func printChecks(app application.Application, client journalReader, checks []bootstrap.Check) error {
	globalFlags := &globals.Flags{
		Output:  app.OutputFormat(),
		Verbose: app.Verbose(),
	}

	if err := output.FormatChecks(checks, globalFlags); err != nil {
		return err
	}
	if !app.Verbose() {
		return nil
	}

	journal, err := client.Journal()
	switch {
	case err == nil:
		fmt.Println()
		return output.FormatPhases(journal, globalFlags)
	case errors.IsNotFound(err):
		// No bootstrap recorded yet, nothing to show.
		return nil
	default:
		return err
	}
}

// journalReader is the slice of the client printChecks needs.
type journalReader interface {
	Journal() (*bootstrap.Journal, error)
}

// writeMarkdown renders the checks as a markdown report file.
func writeMarkdown(path string, checks []bootstrap.Check) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := bootstrap.WriteDoctorReport(f, checks); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
