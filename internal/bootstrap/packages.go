package bootstrap

import (
	"context"

	"github.com/spongeengine/quantstrap/internal/manifests"
	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
)

// installPackages installs exactly one of the two dependency manifests,
// chosen by the GPU verdict. The install runs only when the environment was
// created this run; an environment that predates the run already carries its
// packages, and rerunning against it must not touch the network.
func (o *Orchestrator) installPackages(ctx context.Context, r *run) (string, error) {
	if err := manifests.Materialize(o.cfg.WorkDir); err != nil {
		return "", err
	}

	manifest := constants.CPUManifest
	if r.gpu {
		manifest = constants.GPUManifest
	}

	if !r.envCreated {
		return "skipped, environment predates this run (" + manifest + " assumed installed)", nil
	}

	o.banner("Installing packages from " + manifest)
	installCtx, cancel := context.WithTimeout(ctx, constants.InstallTimeout)
	defer cancel()
	cmd := sys.Command{
		Name:   o.cfg.PythonExe(),
		Args:   []string{"-m", "pip", "install", "-r", manifest},
		Dir:    o.cfg.WorkDir,
		Env:    r.environ,
		Stdout: o.stdout,
		Stderr: o.stderr,
	}
	if err := o.runner.Run(installCtx, cmd); err != nil {
		return "", errors.NewInstallError("packages", "", err)
	}

	return "installed " + manifest, nil
}
