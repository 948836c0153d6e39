// Package docker implements the container launch variant: pick a prebuilt
// image target, acquire it by pulling or building, then attach to the fixed
// application container or run a fresh one with the host directories mounted.
package docker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spongeengine/quantstrap/internal/bootstrap"
	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
	"github.com/spongeengine/quantstrap/pkg/logging"
)

// Target selects which prebuilt image variant to use.
type Target string

const (
	// TargetCPU is the image without GPU support.
	TargetCPU Target = "cpu"

	// TargetROCm is the image with AMD GPU support.
	TargetROCm Target = "rocm"

	// TargetCUDA is the image with NVIDIA GPU support.
	TargetCUDA Target = "cuda"
)

// Source selects how the image is acquired.
type Source string

const (
	// SourcePull fetches the prebuilt image from the registry.
	SourcePull Source = "pull"

	// SourceBuild builds the image locally from its Dockerfile.
	SourceBuild Source = "build"
)

// ParseTarget validates a target name from a flag.
func ParseTarget(s string) (Target, error) {
	switch Target(strings.ToLower(s)) {
	case TargetCPU:
		return TargetCPU, nil
	case TargetROCm:
		return TargetROCm, nil
	case TargetCUDA:
		return TargetCUDA, nil
	default:
		return "", errors.NewValidationError("target", s, "must be one of: cpu, rocm, cuda")
	}
}

// ParseSource validates a source name from a flag.
func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(s)) {
	case SourcePull:
		return SourcePull, nil
	case SourceBuild:
		return SourceBuild, nil
	default:
		return "", errors.NewValidationError("source", s, "must be one of: pull, build")
	}
}

// Launcher drives the container variant flow.
type Launcher struct {
	cfg    *bootstrap.Config
	runner sys.Runner
	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithRunner replaces the process runner, mainly for tests.
func WithRunner(r sys.Runner) Option {
	return func(l *Launcher) { l.runner = r }
}

// WithStdio replaces the launcher's standard streams. Menu reads and the
// container's stdin share one buffered reader so no input is lost between
// the prompts and the attach.
func WithStdio(in io.Reader, out, errw io.Writer) Option {
	return func(l *Launcher) {
		l.stdin = bufio.NewReader(in)
		l.stdout = out
		l.stderr = errw
	}
}

// New builds a Launcher over the given configuration.
func New(cfg *bootstrap.Config, opts ...Option) *Launcher {
	l := &Launcher{
		cfg:    cfg,
		runner: sys.NewSystem(),
		stdin:  bufio.NewReader(os.Stdin),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SuggestTarget maps the host's GPU tooling to a default image target.
func (l *Launcher) SuggestTarget() Target {
	vendor, found := bootstrap.DetectGPUVendor(l.runner, l.cfg.OS)
	if !found {
		return TargetCPU
	}
	switch vendor {
	case "amd":
		return TargetROCm
	default:
		return TargetCUDA
	}
}

// Launch resolves the target and source, from flags when given and the
// interactive menus otherwise, then acquires the image and starts the
// container.
func (l *Launcher) Launch(ctx context.Context, targetFlag, sourceFlag string) error {
	if _, err := l.runner.LookPath("docker"); err != nil {
		return errors.NewEnvironmentError("", "docker not found on the search path")
	}

	target, err := l.resolveTarget(targetFlag)
	if err != nil {
		return err
	}
	source, err := l.resolveSource(sourceFlag)
	if err != nil {
		return err
	}

	return l.Run(ctx, target, source)
}

func (l *Launcher) resolveTarget(flag string) (Target, error) {
	if flag != "" {
		return ParseTarget(flag)
	}
	return l.ChooseTarget(l.SuggestTarget())
}

func (l *Launcher) resolveSource(flag string) (Source, error) {
	if flag != "" {
		return ParseSource(flag)
	}
	return l.ChooseSource()
}

// Run acquires the image for the target and starts the application container.
func (l *Launcher) Run(ctx context.Context, target Target, source Source) error {
	log := logging.FromContext(ctx)
	image := constants.ImageRepository + ":" + string(target)

	if err := l.acquireImage(ctx, image, target, source); err != nil {
		return err
	}

	if l.containerExists(ctx) {
		log.Debug().Str("container", constants.ContainerName).Msg("Attaching to existing container")
		return l.attach(ctx)
	}

	log.Debug().Str("image", image).Msg("Running a fresh container")
	return l.runContainer(ctx, image, target)
}

// acquireImage pulls the prebuilt image or builds it from its Dockerfile.
func (l *Launcher) acquireImage(ctx context.Context, image string, target Target, source Source) error {
	var cmd sys.Command
	switch source {
	case SourceBuild:
		dockerfile := filepath.Join(constants.DockerfileDir, "Dockerfile."+string(target))
		cmd = sys.Command{
			Name:   "docker",
			Args:   []string{"build", "-t", image, "-f", dockerfile, "."},
			Dir:    l.cfg.WorkDir,
			Stdout: l.stdout,
			Stderr: l.stderr,
		}
	default:
		cmd = sys.Command{
			Name:   "docker",
			Args:   []string{"pull", image},
			Stdout: l.stdout,
			Stderr: l.stderr,
		}
	}

	if err := l.runner.Run(ctx, cmd); err != nil {
		return errors.NewProcessError("acquire image", cmd.String(), "", err)
	}
	return nil
}

// containerExists reports whether a container with the fixed name is known to
// the daemon, running or stopped.
func (l *Launcher) containerExists(ctx context.Context) bool {
	cmd := sys.Command{
		Name: "docker",
		Args: []string{"ps", "-a", "--filter", "name=^" + constants.ContainerName + "$", "--format", "{{.Names}}"},
	}
	output, err := l.runner.Output(ctx, cmd)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(output)) == constants.ContainerName
}

// attach starts the existing container and streams its output.
func (l *Launcher) attach(ctx context.Context) error {
	cmd := sys.Command{
		Name:   "docker",
		Args:   []string{"start", "-a", constants.ContainerName},
		Stdin:  l.stdin,
		Stdout: l.stdout,
		Stderr: l.stderr,
	}
	if err := l.runner.Run(ctx, cmd); err != nil {
		return errors.NewProcessError("attach container", cmd.String(), "", err)
	}
	return nil
}

// runContainer starts a fresh container with the host directories mounted and
// the application port published.
func (l *Launcher) runContainer(ctx context.Context, image string, target Target) error {
	mounts := []string{constants.ModelsDir, constants.QuantizedDir, constants.GGUFDir}
	for _, dir := range mounts {
		host := filepath.Join(l.cfg.WorkDir, dir)
		if err := os.MkdirAll(host, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", host, err)
		}
	}

	args := []string{
		"run",
		"--name", constants.ContainerName,
		"-p", fmt.Sprintf("%d:%d", constants.AppPort, constants.AppPort),
	}
	for _, dir := range mounts {
		host := filepath.Join(l.cfg.WorkDir, dir)
		args = append(args, "-v", host+":"+constants.ContainerAppDir+"/"+dir)
	}

	switch target {
	case TargetCUDA:
		args = append(args, "--gpus", "all")
	case TargetROCm:
		args = append(args, "--device", "/dev/kfd", "--device", "/dev/dri")
	}

	if token := os.Getenv(constants.EnvHFToken); token != "" {
		args = append(args, "-e", constants.EnvHFToken+"="+token)
	}

	args = append(args, image)

	cmd := sys.Command{
		Name:   "docker",
		Args:   args,
		Stdin:  l.stdin,
		Stdout: l.stdout,
		Stderr: l.stderr,
	}
	if err := l.runner.Run(ctx, cmd); err != nil {
		return errors.NewProcessError("run container", cmd.String(), "", err)
	}
	return nil
}
