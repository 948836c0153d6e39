package bootstrap

import (
	"context"

	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
)

// launch hands control to the application inside the provisioned environment,
// forwarding the run's trailing arguments verbatim. It blocks for the
// application's lifetime; a non-zero application exit comes back as a
// ProcessError carrying the exit code so the caller can propagate it.
func (o *Orchestrator) launch(ctx context.Context, r *run) error {
	o.banner("Launching " + constants.AppEntrypoint)

	args := append([]string{constants.AppEntrypoint}, o.cfg.AppArgs...)
	cmd := sys.Command{
		Name:   o.cfg.PythonExe(),
		Args:   args,
		Dir:    o.cfg.WorkDir,
		Env:    r.environ,
		Stdin:  o.stdin,
		Stdout: o.stdout,
		Stderr: o.stderr,
	}

	if err := o.runner.Run(ctx, cmd); err != nil {
		perr := errors.NewProcessError("application", cmd.String(), "", err)
		perr.ExitCode = sys.ExitCode(err)
		return perr
	}
	return nil
}
