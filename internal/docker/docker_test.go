package docker

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spongeengine/quantstrap/internal/bootstrap"
	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLauncher(t *testing.T, fake *sys.Fake, stdin string) (*Launcher, *bootstrap.Config) {
	t.Helper()
	t.Setenv(constants.EnvHFToken, "")

	cfg := &bootstrap.Config{WorkDir: t.TempDir(), OS: "linux", Arch: "amd64", Jobs: 1}
	l := New(cfg,
		WithRunner(fake),
		WithStdio(strings.NewReader(stdin), &bytes.Buffer{}, &bytes.Buffer{}),
	)
	return l, cfg
}

// dockerHost scripts a host with the docker CLI present and no application
// container yet.
func dockerHost() *sys.Fake {
	return &sys.Fake{
		LookPathFunc: func(name string) (string, error) {
			if name == "docker" {
				return "/usr/bin/docker", nil
			}
			return "", fmt.Errorf("%s not on search path", name)
		},
	}
}

func commandWithArg(fake *sys.Fake, first string) *sys.Command {
	for _, cmd := range fake.Commands() {
		if len(cmd.Args) > 0 && cmd.Args[0] == first {
			found := cmd
			return &found
		}
	}
	return nil
}

func TestLaunchMenuROCmPull(t *testing.T) {
	fake := dockerHost()
	l, cfg := testLauncher(t, fake, "2\n1\n")

	require.NoError(t, l.Launch(context.Background(), "", ""))

	pull := commandWithArg(fake, "pull")
	require.NotNil(t, pull, "the prebuilt image must be pulled")
	assert.Equal(t, []string{"pull", constants.ImageRepository + ":rocm"}, pull.Args)

	run := commandWithArg(fake, "run")
	require.NotNil(t, run, "a fresh container must be started")
	want := []string{
		"run",
		"--name", constants.ContainerName,
		"-p", "7860:7860",
		"-v", filepath.Join(cfg.WorkDir, constants.ModelsDir) + ":/app/models",
		"-v", filepath.Join(cfg.WorkDir, constants.QuantizedDir) + ":/app/quantized_models",
		"-v", filepath.Join(cfg.WorkDir, constants.GGUFDir) + ":/app/gguf",
		"--device", "/dev/kfd",
		"--device", "/dev/dri",
		constants.ImageRepository + ":rocm",
	}
	if diff := cmp.Diff(want, run.Args); diff != "" {
		t.Errorf("container run args mismatch (-want +got):\n%s", diff)
	}

	// Host directories for the mounts exist.
	for _, dir := range []string{constants.ModelsDir, constants.QuantizedDir, constants.GGUFDir} {
		assert.DirExists(t, filepath.Join(cfg.WorkDir, dir))
	}
}

func TestLaunchAttachesToExistingContainer(t *testing.T) {
	fake := dockerHost()
	fake.OutputFunc = func(_ context.Context, cmd sys.Command) ([]byte, error) {
		if len(cmd.Args) > 0 && cmd.Args[0] == "ps" {
			return []byte(constants.ContainerName + "\n"), nil
		}
		return nil, nil
	}
	l, _ := testLauncher(t, fake, "3\n1\n")

	require.NoError(t, l.Launch(context.Background(), "", ""))

	start := commandWithArg(fake, "start")
	require.NotNil(t, start, "an existing container must be attached, not replaced")
	assert.Equal(t, []string{"start", "-a", constants.ContainerName}, start.Args)
	assert.Nil(t, commandWithArg(fake, "run"))
}

func TestLaunchFlagBypass(t *testing.T) {
	fake := dockerHost()
	l, cfg := testLauncher(t, fake, "")

	require.NoError(t, l.Launch(context.Background(), "cuda", "build"))

	build := commandWithArg(fake, "build")
	require.NotNil(t, build, "the local source must build the image")
	want := []string{
		"build",
		"-t", constants.ImageRepository + ":cuda",
		"-f", filepath.Join(constants.DockerfileDir, "Dockerfile.cuda"),
		".",
	}
	if diff := cmp.Diff(want, build.Args); diff != "" {
		t.Errorf("image build args mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, cfg.WorkDir, build.Dir)

	run := commandWithArg(fake, "run")
	require.NotNil(t, run)
	assert.Contains(t, run.Args, "--gpus")
	assert.NotContains(t, run.Args, "--device")
}

func TestLaunchCPUAddsNoDeviceArgs(t *testing.T) {
	fake := dockerHost()
	l, _ := testLauncher(t, fake, "")

	require.NoError(t, l.Launch(context.Background(), "cpu", "pull"))

	run := commandWithArg(fake, "run")
	require.NotNil(t, run)
	assert.NotContains(t, run.Args, "--gpus")
	assert.NotContains(t, run.Args, "--device")
}

func TestLaunchForwardsHFToken(t *testing.T) {
	fake := dockerHost()
	l, _ := testLauncher(t, fake, "")
	t.Setenv(constants.EnvHFToken, "hf_secret")

	require.NoError(t, l.Launch(context.Background(), "cpu", "pull"))

	run := commandWithArg(fake, "run")
	require.NotNil(t, run)
	assert.Contains(t, run.Args, "-e")
	assert.Contains(t, run.Args, constants.EnvHFToken+"=hf_secret")
}

func TestLaunchRejectsOutOfRangeChoice(t *testing.T) {
	fake := dockerHost()
	l, _ := testLauncher(t, fake, "7\n")

	err := l.Launch(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidChoice(err))
	assert.Empty(t, fake.Commands(), "no container command may run after a rejected choice")
}

func TestLaunchRejectsNonNumericChoice(t *testing.T) {
	fake := dockerHost()
	l, _ := testLauncher(t, fake, "rocm\n")

	err := l.Launch(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidChoice(err))
}

func TestLaunchRequiresDockerCLI(t *testing.T) {
	fake := &sys.Fake{}
	l, _ := testLauncher(t, fake, "1\n1\n")

	err := l.Launch(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, errors.IsEnvironmentMissing(err))
	assert.Empty(t, fake.Commands())
}

func TestLaunchRejectsUnknownFlagValues(t *testing.T) {
	fake := dockerHost()
	l, _ := testLauncher(t, fake, "")

	err := l.Launch(context.Background(), "metal", "")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	err = l.Launch(context.Background(), "cpu", "steal")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestSuggestTarget(t *testing.T) {
	tests := []struct {
		name  string
		os    string
		tools []string
		want  Target
	}{
		{name: "nvidia", os: "linux", tools: []string{"nvidia-smi"}, want: TargetCUDA},
		{name: "amd", os: "linux", tools: []string{"rocminfo"}, want: TargetROCm},
		{name: "amd ignored on windows", os: "windows", tools: []string{"rocminfo"}, want: TargetCPU},
		{name: "bare host", os: "linux", tools: nil, want: TargetCPU},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &sys.Fake{LookPathFunc: func(name string) (string, error) {
				for _, tool := range tt.tools {
					if tool == name {
						return "/usr/bin/" + name, nil
					}
				}
				return "", fmt.Errorf("%s not on search path", name)
			}}

			cfg := &bootstrap.Config{WorkDir: t.TempDir(), OS: tt.os, Arch: "amd64", Jobs: 1}
			l := New(cfg, WithRunner(fake), WithStdio(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}))
			assert.Equal(t, tt.want, l.SuggestTarget())
		})
	}
}

func TestParseTarget(t *testing.T) {
	for input, want := range map[string]Target{"cpu": TargetCPU, "ROCm": TargetROCm, "CUDA": TargetCUDA} {
		got, err := ParseTarget(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseTarget("tpu")
	assert.True(t, errors.IsValidationError(err))
}

func TestParseSource(t *testing.T) {
	for input, want := range map[string]Source{"pull": SourcePull, "Build": SourceBuild} {
		got, err := ParseSource(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseSource("compose")
	assert.True(t, errors.IsValidationError(err))
}

func TestMenuSuggestionMarker(t *testing.T) {
	fake := dockerHost()
	fake.LookPathFunc = func(name string) (string, error) {
		if name == "docker" || name == "nvidia-smi" {
			return "/usr/bin/" + name, nil
		}
		return "", fmt.Errorf("%s not on search path", name)
	}

	var out bytes.Buffer
	cfg := &bootstrap.Config{WorkDir: t.TempDir(), OS: "linux", Arch: "amd64", Jobs: 1}
	l := New(cfg, WithRunner(fake), WithStdio(strings.NewReader("1\n1\n"), &out, &bytes.Buffer{}))

	require.NoError(t, l.Launch(context.Background(), "", ""))
	assert.Contains(t, out.String(), "(detected)")
	assert.Contains(t, out.String(), "NVIDIA GPU (CUDA)")
}

func TestLaunchPullFailureSurfacesAsProcessError(t *testing.T) {
	fake := dockerHost()
	fake.RunFunc = func(_ context.Context, cmd sys.Command) error {
		if len(cmd.Args) > 0 && cmd.Args[0] == "pull" {
			return fmt.Errorf("exit status 1")
		}
		return nil
	}
	l, _ := testLauncher(t, fake, "")

	err := l.Launch(context.Background(), "cpu", "pull")
	require.Error(t, err)

	var perr *errors.ProcessError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Command, "pull")
}
