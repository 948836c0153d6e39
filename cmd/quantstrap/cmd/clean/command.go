// Package clean provides the clean command implementation.
package clean

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spongeengine/quantstrap/internal/cmd/application"
)

// Flags holds the clean-specific flag values.
type Flags struct {
	Repos       bool
	AutoApprove bool
}

// NewCommand creates the clean command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "clean",
		GroupID: "management",
		Short:   "Remove the provisioned installation",
		Long: `Clean deletes the installer_files tree: the conda runtime, the Python
environment, cached build tooling, and the bootstrap journal. The next up
run provisions everything from scratch.

With --repos the cloned quantization backends (llama.cpp, AutoAWQ,
exllamav2) are deleted too. Model directories are never touched.`,
		Example: `  quantstrap clean                          # Remove installer_files
  quantstrap clean --repos                  # Also remove cloned backends
  quantstrap clean -y                       # Skip the confirmation prompt`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !flags.AutoApprove && !confirm(cmd, flags.Repos) {
				fmt.Fprintln(cmd.OutOrStdout(), "Clean cancelled")
				return nil
			}

			client, err := app.Quantstrap()
			if err != nil {
				return err
			}
			removed, err := client.Clean(ctx, flags.Repos)
			if err != nil {
				return err
			}

			if len(removed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to remove")
				return nil
			}
			for _, path := range removed {
				fmt.Fprintln(cmd.OutOrStdout(), "Removed "+path)
			}
			return nil
		},
	}

	flags = addCleanFlags(cmd)

	return cmd
}

// addCleanFlags adds clean-specific flags to the command.
func addCleanFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().BoolVar(&flags.Repos, "repos", false,
		"Also remove the cloned quantization backends")
	cmd.Flags().BoolVarP(&flags.AutoApprove, "yes", "y", false,
		"Skip the confirmation prompt")

	return flags
}

// confirm asks before deleting. Anything but an explicit yes declines.
func confirm(cmd *cobra.Command, repos bool) bool {
	prompt := "Remove the provisioned runtime"
	if repos {
		prompt += " and cloned backends"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s? (y/N): ", prompt)

	response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		response = "n"
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
