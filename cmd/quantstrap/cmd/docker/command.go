// Package docker provides the docker command implementation.
package docker

import (
	"github.com/spf13/cobra"

	"github.com/spongeengine/quantstrap/internal/cmd/application"
)

// Flags holds the docker-specific flag values.
type Flags struct {
	Target string
	Source string
}

// NewCommand creates the docker command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "docker",
		GroupID: "core",
		Short:   "Run the web UI in a Docker container",
		Long: `Docker runs SpongeQuant inside a container instead of a host installation.

The image variant matches the compute target: cpu, rocm, or cuda. Without
flags an interactive menu suggests a target based on the GPU tooling found
on the host. The container mounts models, quantized_models, and gguf from
the working directory, so model files survive container restarts.

An existing spongequant container is reattached rather than recreated.`,
		Example: `  quantstrap docker                         # Interactive target and source menus
  quantstrap docker --target cuda           # Skip the target menu
  quantstrap docker --target cpu --source build   # Build the image locally`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := app.Quantstrap()
			if err != nil {
				return err
			}
			return client.Docker(ctx, flags.Target, flags.Source)
		},
	}

	flags = addDockerFlags(cmd)

	return cmd
}

// addDockerFlags adds docker-specific flags to the command.
func addDockerFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().StringVar(&flags.Target, "target", "",
		"Compute target: cpu, rocm, cuda (skips the menu)")
	cmd.Flags().StringVar(&flags.Source, "source", "",
		"Image source: pull, build (skips the menu)")

	return flags
}
