package bootstrap

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
)

// Config is the explicit context for one bootstrap run. Every step reads the
// paths and decisions it needs from here instead of ambient process state.
type Config struct {
	// WorkDir is the installation root. Everything the bootstrap creates
	// lives underneath it.
	WorkDir string

	// OS and Arch select the platform tables. They default to the host.
	OS   string
	Arch string

	// ForceCPU and ForceGPU override the hardware probe. At most one may
	// be set.
	ForceCPU bool
	ForceGPU bool

	// SkipLaunch stops the run after ReposBuilt without starting the
	// application.
	SkipLaunch bool

	// NoReport suppresses the post-run report file.
	NoReport bool

	// Jobs is the build parallelism for external projects.
	Jobs int

	// AppArgs are forwarded verbatim to the application entry point.
	AppArgs []string
}

// NewConfig builds a Config rooted at workdir with host platform defaults.
func NewConfig(workdir string) (*Config, error) {
	abs, err := filepath.Abs(workdir)
	if err != nil {
		return nil, errors.NewPathError(workdir, "cannot resolve to an absolute path")
	}

	return &Config{
		WorkDir: abs,
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Jobs:    runtime.NumCPU(),
	}, nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.WorkDir == "" {
		return errors.NewValidationError("workdir", c.WorkDir, "installation root is required")
	}
	if c.ForceCPU && c.ForceGPU {
		return errors.NewValidationError("gpu", nil, "cannot force both CPU and GPU modes")
	}
	if c.Jobs < 1 {
		return errors.NewValidationError("jobs", c.Jobs, "build parallelism must be at least 1")
	}
	return nil
}

// InstallRoot is the directory holding everything the bootstrap installs.
func (c *Config) InstallRoot() string {
	return filepath.Join(c.WorkDir, constants.InstallRootDir)
}

// CondaRoot is the isolated runtime root.
func (c *Config) CondaRoot() string {
	return filepath.Join(c.InstallRoot(), constants.CondaDir)
}

// CondaExe is the runtime's package manager binary.
func (c *Config) CondaExe() string {
	if c.OS == "windows" {
		return filepath.Join(c.CondaRoot(), "Scripts", "conda.exe")
	}
	return filepath.Join(c.CondaRoot(), "bin", "conda")
}

// EnvPath is the dependency environment directory.
func (c *Config) EnvPath() string {
	return filepath.Join(c.InstallRoot(), constants.EnvDir)
}

// PythonExe is the interpreter inside the dependency environment. Its
// existence is the marker that the environment is usable.
func (c *Config) PythonExe() string {
	if c.OS == "windows" {
		return filepath.Join(c.EnvPath(), "python.exe")
	}
	return filepath.Join(c.EnvPath(), "bin", "python")
}

// CMakeCache is the build tool cache directory.
func (c *Config) CMakeCache() string {
	return filepath.Join(c.InstallRoot(), constants.CMakeDir)
}

// CMakeBinary is the cached build tool executable, or empty when the
// platform has no pinned release archive.
func (c *Config) CMakeBinary() string {
	spec, err := cmakeArchive(c.OS, c.Arch)
	if err != nil {
		return ""
	}
	return filepath.Join(c.CMakeCache(), filepath.FromSlash(spec.Binary))
}

// TmpPath is the redirect target for temporary files.
func (c *Config) TmpPath() string {
	return filepath.Join(c.InstallRoot(), constants.TmpDir)
}

// JournalPath is the phase journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.InstallRoot(), constants.JournalFile)
}

// ReportPath is the bootstrap report location.
func (c *Config) ReportPath() string {
	return filepath.Join(c.InstallRoot(), constants.ReportFile)
}

// RepoPath is the checkout directory for an external project.
func (c *Config) RepoPath(name string) string {
	return filepath.Join(c.WorkDir, name)
}

// droppedEnvVars never reach child processes: they would leak the host's
// Python configuration into the isolated environment.
var droppedEnvVars = map[string]bool{
	"PYTHONPATH": true,
	"PYTHONHOME": true,
	"TMP":        true,
	"TEMP":       true,
	"CUDA_PATH":  true,
	"CUDA_HOME":  true,
	"PATH":       true,
}

// Environ assembles the isolated child process environment from a base
// environment, usually os.Environ(). The host's Python search variables and
// pip overrides are dropped, temporary files are redirected into the install
// root, the CUDA variables point at the dependency environment, and the
// environment's own binaries come first on PATH.
func (c *Config) Environ(base []string) []string {
	sep := ":"
	if c.OS == "windows" {
		sep = ";"
	}

	hostPath := ""
	environ := make([]string, 0, len(base)+8)
	for _, kv := range base {
		key, value, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		upper := strings.ToUpper(key)
		if upper == "PATH" {
			hostPath = value
		}
		if droppedEnvVars[upper] || strings.HasPrefix(upper, "PIP_") {
			continue
		}
		environ = append(environ, kv)
	}

	var binDirs []string
	if c.OS == "windows" {
		binDirs = []string{
			c.EnvPath(),
			filepath.Join(c.EnvPath(), "Library", "bin"),
			filepath.Join(c.EnvPath(), "Scripts"),
			filepath.Join(c.CondaRoot(), "condabin"),
		}
	} else {
		binDirs = []string{
			filepath.Join(c.EnvPath(), "bin"),
			filepath.Join(c.CondaRoot(), "bin"),
		}
	}
	path := strings.Join(binDirs, sep)
	if hostPath != "" {
		path += sep + hostPath
	}

	environ = append(environ,
		"PYTHONNOUSERSITE=1",
		"TMP="+c.TmpPath(),
		"TEMP="+c.TmpPath(),
		"CUDA_PATH="+c.EnvPath(),
		"CUDA_HOME="+c.EnvPath(),
		"PATH="+path,
	)
	return environ
}
