package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/spongeengine/quantstrap/cmd/quantstrap/cmd/clean"
	"github.com/spongeengine/quantstrap/cmd/quantstrap/cmd/docker"
	"github.com/spongeengine/quantstrap/cmd/quantstrap/cmd/doctor"
	"github.com/spongeengine/quantstrap/cmd/quantstrap/cmd/up"
)

// NewUpCommand creates the up command with app dependencies.
func (a *App) NewUpCommand() *cobra.Command {
	return up.NewCommand(a)
}

// NewDockerCommand creates the docker command with app dependencies.
func (a *App) NewDockerCommand() *cobra.Command {
	return docker.NewCommand(a)
}

// NewDoctorCommand creates the doctor command with app dependencies.
func (a *App) NewDoctorCommand() *cobra.Command {
	return doctor.NewCommand(a)
}

// NewCleanCommand creates the clean command with app dependencies.
func (a *App) NewCleanCommand() *cobra.Command {
	return clean.NewCommand(a)
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("quantstrap %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s\n", runtime.Version())
				cmd.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
