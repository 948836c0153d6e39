package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
	"github.com/spongeengine/quantstrap/pkg/logging"
)

// buildRepos acquires and builds the external quantization projects.
// llama.cpp is mandatory; AutoAWQ and exllamav2 exist only for GPU hosts and
// are skipped outright otherwise.
func (o *Orchestrator) buildRepos(ctx context.Context, r *run) (string, error) {
	if err := o.ensureLlamaCpp(ctx, r); err != nil {
		return "", err
	}

	if !r.gpu {
		return "llama.cpp ready, GPU projects skipped", nil
	}

	if err := o.ensurePipProject(ctx, r, constants.AutoAWQURL, constants.AutoAWQDir, ""); err != nil {
		return "", err
	}
	if err := o.ensurePipProject(ctx, r, constants.ExLlamaV2URL, constants.ExLlamaV2Dir, constants.ExLlamaV2Revision); err != nil {
		return "", err
	}

	return "llama.cpp, AutoAWQ and exllamav2 ready", nil
}

// ensureLlamaCpp clones and compiles llama.cpp. The build output directory
// is the idempotence marker: when bin exists under it, nothing is rebuilt.
func (o *Orchestrator) ensureLlamaCpp(ctx context.Context, r *run) error {
	dir := o.cfg.RepoPath(constants.LlamaCppDir)
	if _, err := o.cloneProject(ctx, constants.LlamaCppURL, dir); err != nil {
		return err
	}

	marker := filepath.Join(dir, constants.LlamaCppBuildDir, "bin")
	if _, err := os.Stat(marker); err == nil {
		logging.FromContext(ctx).Debug().Str("marker", marker).Msg("llama.cpp already built")
		return nil
	}

	o.banner("Building llama.cpp")
	buildCtx, cancel := context.WithTimeout(ctx, constants.BuildTimeout)
	defer cancel()

	configure := []string{"-B", constants.LlamaCppBuildDir, "-DCMAKE_BUILD_TYPE=Release"}
	if r.gpu && r.gpuVendor != "amd" {
		configure = append(configure, "-DGGML_CUDA=ON")
	}
	if err := o.repoRun(buildCtx, r, dir, r.cmake, configure...); err != nil {
		return errors.NewRepoError("llama.cpp", "configure", err)
	}

	build := []string{"--build", constants.LlamaCppBuildDir, "--config", "Release", "-j", strconv.Itoa(o.cfg.Jobs)}
	if err := o.repoRun(buildCtx, r, dir, r.cmake, build...); err != nil {
		return errors.NewRepoError("llama.cpp", "build", err)
	}

	return nil
}

// ensurePipProject clones a Python project and installs it into the
// dependency environment. The checkout directory is the idempotence marker:
// install runs only on a fresh clone. A non-empty revision is checked out
// before installing.
func (o *Orchestrator) ensurePipProject(ctx context.Context, r *run, url, name, revision string) error {
	dir := o.cfg.RepoPath(name)
	cloned, err := o.cloneProject(ctx, url, dir)
	if err != nil {
		return err
	}
	if !cloned {
		logging.FromContext(ctx).Debug().Str("repo", name).Msg("Project already present")
		return nil
	}

	if revision != "" {
		if err := o.repoRun(ctx, r, dir, "git", "checkout", revision); err != nil {
			return errors.NewRepoError(name, "checkout", err)
		}
	}

	o.banner("Installing " + name)
	installCtx, cancel := context.WithTimeout(ctx, constants.InstallTimeout)
	defer cancel()
	if err := o.repoRun(installCtx, r, dir, o.cfg.PythonExe(), "-m", "pip", "install", "."); err != nil {
		return errors.NewRepoError(name, "install", err)
	}

	return nil
}

// cloneProject clones url into dir unless the directory already exists.
// The returned flag reports a fresh checkout.
func (o *Orchestrator) cloneProject(ctx context.Context, url, dir string) (bool, error) {
	if _, err := os.Stat(dir); err == nil {
		return false, nil
	}

	name := filepath.Base(dir)
	o.banner("Cloning " + name)
	cloneCtx, cancel := context.WithTimeout(ctx, constants.CloneTimeout)
	defer cancel()
	cmd := sys.Command{
		Name:   "git",
		Args:   []string{"clone", url, dir},
		Stdout: o.stdout,
		Stderr: o.stderr,
	}
	if err := o.runner.Run(cloneCtx, cmd); err != nil {
		return false, errors.NewRepoError(name, "clone", err)
	}
	return true, nil
}

// repoRun executes a tool inside a project directory with the isolated
// environment and passthrough stdio.
func (o *Orchestrator) repoRun(ctx context.Context, r *run, dir, name string, args ...string) error {
	return o.runner.Run(ctx, sys.Command{
		Name:   name,
		Args:   args,
		Dir:    dir,
		Env:    r.environ,
		Stdout: o.stdout,
		Stderr: o.stderr,
	})
}
