package bootstrap

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spongeengine/quantstrap/internal/download"
	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
	"github.com/spongeengine/quantstrap/pkg/logging"
)

// ensureRuntime makes the isolated runtime answer a version query, installing
// the pinned Miniconda release when it does not. The installer artifact is
// checksum-verified before it runs and deleted afterwards.
func (o *Orchestrator) ensureRuntime(ctx context.Context, _ *run) (string, error) {
	log := logging.FromContext(ctx)

	if version, err := o.probeConda(ctx); err == nil {
		log.Debug().Str("version", version).Msg("Runtime already present")
		return "runtime present, conda " + version, nil
	}

	spec, err := minicondaInstaller(o.cfg.OS, o.cfg.Arch)
	if err != nil {
		return "", err
	}

	o.banner("Downloading Miniconda")
	installer := filepath.Join(o.cfg.InstallRoot(), spec.File)
	if err := o.fetcher.Fetch(ctx, spec.URL(), installer); err != nil {
		return "", err
	}

	if err := download.VerifySHA256(ctx, installer, spec.SHA256, download.DefaultVerifiers(o.runner)...); err != nil {
		// Never leave an artifact that failed verification on disk.
		os.Remove(installer)
		return "", err
	}

	o.banner("Installing Miniconda")
	installCtx, cancel := context.WithTimeout(ctx, constants.InstallTimeout)
	defer cancel()
	cmd := o.installerCommand(installer)
	output, err := o.runner.Output(installCtx, cmd)
	if err != nil {
		return "", errors.NewInstallError("miniconda", string(output), err)
	}
	os.Remove(installer)

	version, err := o.probeConda(ctx)
	if err != nil {
		return "", errors.NewEnvironmentError(o.cfg.CondaRoot(), "runtime does not answer a version query after install")
	}
	return "runtime installed, conda " + version, nil
}

// probeConda asks the runtime for its version.
func (o *Orchestrator) probeConda(ctx context.Context) (string, error) {
	return sys.ProbeVersion(ctx, o.runner, o.cfg.CondaExe(), nil)
}

// installerCommand builds the non-interactive invocation of the runtime
// installer for the configured platform.
func (o *Orchestrator) installerCommand(installer string) sys.Command {
	if o.cfg.OS == "windows" {
		return sys.Command{
			Name: installer,
			Args: []string{"/InstallationType=JustMe", "/NoShortcuts=1", "/AddToPath=0", "/RegisterPython=0", "/S", "/D=" + o.cfg.CondaRoot()},
		}
	}
	return sys.Command{
		Name: "sh",
		Args: []string{installer, "-b", "-p", o.cfg.CondaRoot()},
	}
}
