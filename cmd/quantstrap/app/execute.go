package app

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
)

// Execute runs the quantstrap CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	// Create root command with app context
	rootCmd := a.createRootCommand()

	// Set arguments
	rootCmd.SetArgs(args)

	// Execute with context
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "quantstrap",
		Short:   "SpongeQuant bootstrap and launch harness",
		Version: a.version,
		Long: `Quantstrap provisions and launches the SpongeQuant model quantization
web UI.

It installs an isolated conda runtime and Python environment under the
working directory, detects GPU tooling, resolves build dependencies,
builds the quantization backends, and hands off to the web UI. Nothing
outside the working directory is modified, and every step is resumable.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	// Add global flags. These are deliberately not bound to config fields:
	// cobra writes flag defaults into bound variables at definition time,
	// which would clobber values loaded from the environment. setupCommand
	// applies the parsed values with the right precedence instead.
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.quantstrap.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().StringP("workdir", "w", "", "installation root (default is the current directory)")

	// Customize version output to match version subcommand
	rootCmd.SetVersionTemplate("quantstrap {{.Version}}\n")

	// Register all commands
	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// An explicit config file replaces whatever LoadConfig found.
	if cmd.Flags().Changed("config") {
		if err := a.config.reloadConfigFile(mustGetString(cmd, "config")); err != nil {
			return err
		}
	}

	// Update config from parsed flags. Boolean flags only override when the
	// user actually set them, so environment values survive an absent flag.
	// These flags are defined as persistent flags in createRootCommand, so
	// errors indicate programming errors.
	verbose := a.config.Verbose
	if cmd.Flags().Changed("verbose") {
		verbose = mustGetBool(cmd, "verbose")
	}
	quiet := a.config.Quiet
	if cmd.Flags().Changed("quiet") {
		quiet = mustGetBool(cmd, "quiet")
	}
	noColor := a.config.NoColor
	if cmd.Flags().Changed("no-color") {
		noColor = mustGetBool(cmd, "no-color")
	}
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")
	workdir := mustGetString(cmd, "workdir")

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel, workdir)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
// This is where we wire up all the command handlers.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(a.NewUpCommand())
	rootCmd.AddCommand(a.NewDockerCommand())

	// Management commands
	rootCmd.AddCommand(a.NewDoctorCommand())
	rootCmd.AddCommand(a.NewCleanCommand())

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// ExitOnError is a helper that prints an error and exits non-zero.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		pauseOnExit()
		os.Exit(exitCode(err))
	}
}

// exitCode surfaces the launched application's own exit status when the
// error carries one, so quantstrap exits the way the web UI did.
func exitCode(err error) int {
	var perr *errors.ProcessError
	if stderrors.As(err, &perr) && perr.ExitCode > 0 {
		return perr.ExitCode
	}
	return 1
}

// pauseOnExit keeps the console window open so double-click users can read
// the error before the window closes. Only interactive Windows sessions
// pause, unless QUANTSTRAP_PAUSE forces it.
func pauseOnExit() {
	if runtime.GOOS != "windows" && os.Getenv(constants.EnvPause) != "1" {
		return
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return
	}

	fmt.Fprint(os.Stderr, "\nPress Enter to exit...")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
