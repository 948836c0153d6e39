package bootstrap

import (
	"context"
	"os"

	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
)

// ensureEnv creates the dependency environment with the pinned interpreter
// when its directory is absent, then verifies the interpreter exists inside.
// A pre-existing directory is the marker that dependency installation already
// happened on an earlier run.
func (o *Orchestrator) ensureEnv(ctx context.Context, r *run) (string, error) {
	env := o.cfg.EnvPath()

	if _, err := os.Stat(env); os.IsNotExist(err) {
		o.banner("Creating the Python " + constants.PythonVersion + " environment")
		createCtx, cancel := context.WithTimeout(ctx, constants.InstallTimeout)
		defer cancel()
		cmd := sys.Command{
			Name:   o.cfg.CondaExe(),
			Args:   []string{"create", "-y", "--prefix", env, "python=" + constants.PythonVersion},
			Stdout: o.stdout,
			Stderr: o.stderr,
		}
		if err := o.runner.Run(createCtx, cmd); err != nil {
			return "", errors.NewInstallError("environment", "", err)
		}
		r.envCreated = true
	}

	if _, err := os.Stat(o.cfg.PythonExe()); err != nil {
		return "", errors.NewEnvironmentError(env, "no interpreter at "+o.cfg.PythonExe())
	}

	if r.envCreated {
		return "environment created at " + env, nil
	}
	return "environment present at " + env, nil
}

// isolateEnv assembles the child process environment once for the rest of the
// run. The bootstrap's own process environment is never mutated.
func (o *Orchestrator) isolateEnv(_ context.Context, r *run) (string, error) {
	if err := os.MkdirAll(o.cfg.TmpPath(), constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", o.cfg.TmpPath(), err)
	}

	r.environ = o.cfg.Environ(os.Environ())
	return "child environment isolated", nil
}
