package bootstrap

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spongeengine/quantstrap/internal/download"
	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a linux/amd64 config rooted in a fresh temp dir.
func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		WorkDir: t.TempDir(),
		OS:      "linux",
		Arch:    "amd64",
		Jobs:    2,
	}
}

// testOrchestrator wires an orchestrator over fakes with captured stdio.
func testOrchestrator(cfg *Config, fake *sys.Fake, fetcher *download.FakeFetcher) *Orchestrator {
	return New(cfg,
		WithRunner(fake),
		WithFetcher(fetcher),
		WithStdio(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}),
	)
}

// hostSim scripts the fake runner like a machine that responds to installs:
// the runtime answers version probes once installed, environment creation
// drops an interpreter, clones and builds create their directory markers.
type hostSim struct {
	cfg            *Config
	condaInstalled bool
	tools          map[string]string // LookPath answers
	versions       map[string]string // --version answers, keyed by binary path
}

func newHostSim(cfg *Config) *hostSim {
	return &hostSim{cfg: cfg, tools: map[string]string{}, versions: map[string]string{}}
}

func (h *hostSim) fake() *sys.Fake {
	return &sys.Fake{LookPathFunc: h.lookPath, RunFunc: h.run, OutputFunc: h.output}
}

func (h *hostSim) lookPath(name string) (string, error) {
	if path, ok := h.tools[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("%s not on search path", name)
}

func (h *hostSim) output(_ context.Context, cmd sys.Command) ([]byte, error) {
	if len(cmd.Args) == 1 && cmd.Args[0] == "--version" {
		if cmd.Name == h.cfg.CondaExe() {
			if !h.condaInstalled {
				return nil, fmt.Errorf("no runtime at %s", cmd.Name)
			}
			return []byte("conda 23.3.1"), nil
		}
		if version, ok := h.versions[cmd.Name]; ok {
			return []byte(version), nil
		}
		return nil, fmt.Errorf("unknown tool %s", cmd.Name)
	}

	// Silent runtime install.
	if cmd.Name == "sh" {
		h.condaInstalled = true
		return nil, nil
	}
	return nil, nil
}

func (h *hostSim) run(_ context.Context, cmd sys.Command) error {
	switch {
	case cmd.Name == h.cfg.CondaExe() && len(cmd.Args) > 0 && cmd.Args[0] == "create":
		return writeExecutable(h.cfg.PythonExe())
	case cmd.Name == "git" && len(cmd.Args) > 0 && cmd.Args[0] == "clone":
		return os.MkdirAll(cmd.Args[2], 0o755)
	case len(cmd.Args) > 0 && cmd.Args[0] == "--build":
		return os.MkdirAll(filepath.Join(cmd.Dir, constants.LlamaCppBuildDir, "bin"), 0o755)
	}
	return nil
}

func writeExecutable(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755)
}

func mustWriteExecutable(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, writeExecutable(path))
}

// overrideInstallerPin swaps the platform table for one whose digest matches
// the given installer content, so the download and verify flow can complete
// against a fake artifact.
func overrideInstallerPin(t *testing.T, content []byte) {
	t.Helper()
	orig := minicondaInstallers
	sum := sha256.Sum256(content)
	minicondaInstallers = map[string]installerSpec{
		"linux/amd64": {File: "Miniconda3-test-Linux-x86_64.sh", SHA256: hex.EncodeToString(sum[:])},
	}
	t.Cleanup(func() { minicondaInstallers = orig })
}

func writeContentFetcher(content []byte) *download.FakeFetcher {
	return &download.FakeFetcher{FetchFunc: func(_ context.Context, _ string, dest string) error {
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		return os.WriteFile(dest, content, 0o644)
	}}
}

func hasCommand(fake *sys.Fake, substr string) bool {
	for _, line := range fake.CommandLines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func firstIndex(lines []string, substr string) int {
	for i, line := range lines {
		if strings.Contains(line, substr) {
			return i
		}
	}
	return -1
}

func TestRunRejectsSpaceInPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.WorkDir = filepath.Join(cfg.WorkDir, "has space")

	fake := &sys.Fake{}
	fetcher := &download.FakeFetcher{}
	o := testOrchestrator(cfg, fake, fetcher)

	err := o.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsPathInvalid(err))
	assert.Empty(t, fake.Commands(), "no process may run after a path rejection")
	assert.Empty(t, fetcher.URLs(), "no download may happen after a path rejection")
}

func TestRunProvisionsCPUHost(t *testing.T) {
	cfg := testConfig(t)
	content := []byte("runtime installer payload")
	overrideInstallerPin(t, content)

	sim := newHostSim(cfg)
	sim.tools["cmake"] = "/usr/bin/cmake"
	sim.versions["/usr/bin/cmake"] = "cmake version " + constants.CMakeVersion

	fake := sim.fake()
	fetcher := writeContentFetcher(content)
	o := testOrchestrator(cfg, fake, fetcher)

	require.NoError(t, o.Run(context.Background()))

	// Exactly one download: the runtime installer.
	require.Len(t, fetcher.URLs(), 1)
	assert.Contains(t, fetcher.URLs()[0], "Miniconda3")

	// The installer artifact is deleted after the silent install.
	entries, err := os.ReadDir(cfg.InstallRoot())
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), "Miniconda3")
	}

	// CPU manifest only, and it was materialized into the install root.
	assert.True(t, hasCommand(fake, "pip install -r "+constants.CPUManifest))
	assert.False(t, hasCommand(fake, "pip install -r "+constants.GPUManifest))
	assert.FileExists(t, filepath.Join(cfg.WorkDir, constants.CPUManifest))

	// Mandatory project built without CUDA, GPU projects never touched.
	assert.True(t, hasCommand(fake, "git clone "+constants.LlamaCppURL))
	assert.False(t, hasCommand(fake, "-DGGML_CUDA=ON"))
	assert.False(t, hasCommand(fake, constants.AutoAWQDir))
	assert.False(t, hasCommand(fake, constants.ExLlamaV2Dir))

	// Child processes get the isolated environment.
	for _, cmd := range fake.Commands() {
		if len(cmd.Args) > 1 && cmd.Args[1] == "pip" {
			assert.Contains(t, cmd.Env, "PYTHONNOUSERSITE=1")
		}
	}

	// The handoff runs the entry point inside the environment, last.
	lines := fake.CommandLines()
	require.NotEmpty(t, lines)
	assert.Equal(t, cfg.PythonExe()+" "+constants.AppEntrypoint, lines[len(lines)-1])

	// Journal reaches every phase in order; report written.
	journal, err := LoadJournal(cfg.JournalPath())
	require.NoError(t, err)
	states := make([]State, 0, len(journal.Phases))
	for _, phase := range journal.Phases {
		states = append(states, phase.State)
	}
	assert.Equal(t, States(), states)
	assert.FileExists(t, cfg.ReportPath())
}

func TestRunProvisionsGPUHost(t *testing.T) {
	cfg := testConfig(t)
	sim := newHostSim(cfg)
	sim.condaInstalled = true // runtime already present
	sim.tools["nvidia-smi"] = "/usr/bin/nvidia-smi"
	mustWriteExecutable(t, cfg.CMakeBinary()) // cached build tool

	fake := sim.fake()
	fetcher := &download.FakeFetcher{}
	o := testOrchestrator(cfg, fake, fetcher)

	require.NoError(t, o.Run(context.Background()))

	assert.Empty(t, fetcher.URLs(), "present runtime and cached build tool mean no downloads")

	assert.True(t, hasCommand(fake, "pip install -r "+constants.GPUManifest))
	assert.True(t, hasCommand(fake, "-DGGML_CUDA=ON"))
	assert.True(t, hasCommand(fake, "git clone "+constants.AutoAWQURL))
	assert.True(t, hasCommand(fake, "git clone "+constants.ExLlamaV2URL))
	assert.True(t, hasCommand(fake, "git checkout "+constants.ExLlamaV2Revision))

	// The pinned revision is checked out before exllamav2 installs.
	lines := fake.CommandLines()
	checkout := firstIndex(lines, "git checkout")
	require.GreaterOrEqual(t, checkout, 0)
	install := firstIndex(lines[checkout:], "pip install .")
	assert.GreaterOrEqual(t, install, 0, "install must follow the checkout")
}

func TestRunIdempotentRerun(t *testing.T) {
	cfg := testConfig(t)
	sim := newHostSim(cfg)
	sim.condaInstalled = true
	mustWriteExecutable(t, cfg.PythonExe())
	mustWriteExecutable(t, cfg.CMakeBinary())
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.RepoPath(constants.LlamaCppDir), constants.LlamaCppBuildDir, "bin"), 0o755))

	fake := sim.fake()
	fetcher := &download.FakeFetcher{}
	o := testOrchestrator(cfg, fake, fetcher)

	require.NoError(t, o.Run(context.Background()))

	assert.Empty(t, fetcher.URLs(), "a fully provisioned root must not touch the network")

	// The only processes are version probes and the application itself.
	for _, line := range fake.CommandLines() {
		probeOrLaunch := strings.HasSuffix(line, "--version") || strings.Contains(line, constants.AppEntrypoint)
		assert.True(t, probeOrLaunch, "unexpected command on a provisioned root: %s", line)
	}
	assert.True(t, hasCommand(fake, constants.AppEntrypoint), "a provisioned root proceeds straight to launch")
}

func TestRunChecksumMismatchDeletesArtifact(t *testing.T) {
	cfg := testConfig(t)
	sim := newHostSim(cfg)

	fake := sim.fake()
	// The default fetcher writes an empty file, which cannot match the pin.
	fetcher := &download.FakeFetcher{}
	o := testOrchestrator(cfg, fake, fetcher)

	err := o.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsChecksumMismatch(err))

	// The rejected artifact is removed and the installer never ran.
	entries, readErr := os.ReadDir(cfg.InstallRoot())
	require.NoError(t, readErr)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), "Miniconda3")
	}
	assert.False(t, hasCommand(fake, "-b -p"))
}

func TestRunForceCPUOverridesProbe(t *testing.T) {
	cfg := testConfig(t)
	cfg.ForceCPU = true

	sim := newHostSim(cfg)
	sim.condaInstalled = true
	sim.tools["nvidia-smi"] = "/usr/bin/nvidia-smi"
	mustWriteExecutable(t, cfg.CMakeBinary())

	fake := sim.fake()
	o := testOrchestrator(cfg, fake, &download.FakeFetcher{})

	require.NoError(t, o.Run(context.Background()))

	assert.True(t, hasCommand(fake, "pip install -r "+constants.CPUManifest))
	assert.False(t, hasCommand(fake, constants.AutoAWQDir))
	assert.False(t, hasCommand(fake, constants.ExLlamaV2Dir))
}

func TestRunForceGPUWithoutTooling(t *testing.T) {
	cfg := testConfig(t)
	cfg.ForceGPU = true

	sim := newHostSim(cfg)
	sim.condaInstalled = true
	mustWriteExecutable(t, cfg.CMakeBinary())

	fake := sim.fake()
	o := testOrchestrator(cfg, fake, &download.FakeFetcher{})

	require.NoError(t, o.Run(context.Background()))

	assert.True(t, hasCommand(fake, "pip install -r "+constants.GPUManifest))
	assert.True(t, hasCommand(fake, "git clone "+constants.AutoAWQURL))
	assert.True(t, hasCommand(fake, "-DGGML_CUDA=ON"))
}

func TestRunSkipLaunch(t *testing.T) {
	cfg := testConfig(t)
	cfg.SkipLaunch = true

	sim := newHostSim(cfg)
	sim.condaInstalled = true
	mustWriteExecutable(t, cfg.PythonExe())
	mustWriteExecutable(t, cfg.CMakeBinary())
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.RepoPath(constants.LlamaCppDir), constants.LlamaCppBuildDir, "bin"), 0o755))

	fake := sim.fake()
	o := testOrchestrator(cfg, fake, &download.FakeFetcher{})

	require.NoError(t, o.Run(context.Background()))
	assert.False(t, hasCommand(fake, constants.AppEntrypoint))
}

func TestRunAppFailureSurfacesAsProcessError(t *testing.T) {
	cfg := testConfig(t)
	sim := newHostSim(cfg)
	sim.condaInstalled = true
	mustWriteExecutable(t, cfg.PythonExe())
	mustWriteExecutable(t, cfg.CMakeBinary())
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.RepoPath(constants.LlamaCppDir), constants.LlamaCppBuildDir, "bin"), 0o755))

	appErr := fmt.Errorf("exit status 3")
	fake := sim.fake()
	inner := fake.RunFunc
	fake.RunFunc = func(ctx context.Context, cmd sys.Command) error {
		if len(cmd.Args) > 0 && cmd.Args[0] == constants.AppEntrypoint {
			return appErr
		}
		return inner(ctx, cmd)
	}

	o := testOrchestrator(cfg, fake, &download.FakeFetcher{})

	err := o.Run(context.Background())
	require.Error(t, err)

	var perr *errors.ProcessError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Command, constants.AppEntrypoint)
}

func TestRunCanceledContext(t *testing.T) {
	cfg := testConfig(t)
	fake := &sys.Fake{}
	o := testOrchestrator(cfg, fake, &download.FakeFetcher{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := o.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
	assert.Empty(t, fake.Commands())
}

func TestRunRejectsContradictoryConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.ForceCPU = true
	cfg.ForceGPU = true

	o := testOrchestrator(cfg, &sys.Fake{}, &download.FakeFetcher{})
	err := o.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
