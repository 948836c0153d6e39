package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/constants"
)

// Status classifies a doctor check result.
type Status string

const (
	// StatusReady means the concern needs no work.
	StatusReady Status = "ready"

	// StatusMissing means a bootstrap run will provision the concern.
	StatusMissing Status = "missing"

	// StatusBlocked means a bootstrap run would fail at this concern.
	StatusBlocked Status = "blocked"

	// StatusSkipped means the concern does not apply on this host.
	StatusSkipped Status = "skipped"
)

// Check is one read-only probe of the installation.
type Check struct {
	Name   string `json:"name" yaml:"name"`
	Status Status `json:"status" yaml:"status"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Blocked reports whether any check would stop a bootstrap run.
func Blocked(checks []Check) bool {
	for _, check := range checks {
		if check.Status == StatusBlocked {
			return true
		}
	}
	return false
}

// Doctor probes the installation without changing anything on disk and
// reports one check per bootstrap concern, in bootstrap order.
func (o *Orchestrator) Doctor(ctx context.Context) []Check {
	gpu, vendor := o.doctorGPU()

	checks := []Check{
		o.checkPath(),
		o.checkRuntime(ctx),
		o.checkEnvironment(),
		checkGPU(gpu, vendor),
		o.checkBuildTool(ctx),
		o.checkManifests(),
		o.checkLlamaCpp(),
		o.checkPipProject(constants.AutoAWQDir, gpu),
		o.checkPipProject(constants.ExLlamaV2Dir, gpu),
		o.checkJournal(),
	}
	return checks
}

// doctorGPU applies the same override-then-probe policy as a run.
func (o *Orchestrator) doctorGPU() (bool, string) {
	switch {
	case o.cfg.ForceGPU:
		return true, "forced"
	case o.cfg.ForceCPU:
		return false, ""
	}
	vendor, found := o.detectGPUVendor()
	return found, vendor
}

func (o *Orchestrator) checkPath() Check {
	check := Check{Name: "install path", Status: StatusReady, Detail: o.cfg.WorkDir}
	switch {
	case strings.Contains(o.cfg.WorkDir, " "):
		check.Status = StatusBlocked
		check.Detail = "contains a space, which the runtime installer cannot handle"
	case !safePathPattern.MatchString(o.cfg.WorkDir):
		check.Detail = o.cfg.WorkDir + " (special characters, may break installs)"
	}
	return check
}

func (o *Orchestrator) checkRuntime(ctx context.Context) Check {
	probeCtx, cancel := context.WithTimeout(ctx, constants.ProbeTimeout)
	defer cancel()

	if version, err := o.probeConda(probeCtx); err == nil {
		return Check{Name: "conda runtime", Status: StatusReady, Detail: "conda " + version}
	}
	if _, err := minicondaInstaller(o.cfg.OS, o.cfg.Arch); err != nil {
		return Check{Name: "conda runtime", Status: StatusBlocked, Detail: err.Error()}
	}
	return Check{Name: "conda runtime", Status: StatusMissing, Detail: "Miniconda " + constants.MinicondaVersion + " will be installed"}
}

func (o *Orchestrator) checkEnvironment() Check {
	if _, err := os.Stat(o.cfg.PythonExe()); err == nil {
		return Check{Name: "python environment", Status: StatusReady, Detail: o.cfg.EnvPath()}
	}
	return Check{Name: "python environment", Status: StatusMissing, Detail: "python " + constants.PythonVersion + " environment will be created"}
}

func checkGPU(gpu bool, vendor string) Check {
	if gpu {
		return Check{Name: "gpu", Status: StatusReady, Detail: "vendor " + vendor + ", GPU manifest will be used"}
	}
	return Check{Name: "gpu", Status: StatusReady, Detail: "none detected, CPU manifest will be used"}
}

func (o *Orchestrator) checkBuildTool(ctx context.Context) Check {
	if cached := o.cfg.CMakeBinary(); cached != "" {
		if _, err := os.Stat(cached); err == nil {
			return Check{Name: "cmake", Status: StatusReady, Detail: "cached copy at " + cached}
		}
	}

	if path, err := o.runner.LookPath("cmake"); err == nil {
		probeCtx, cancel := context.WithTimeout(ctx, constants.ProbeTimeout)
		defer cancel()

		version, err := sys.ProbeVersion(probeCtx, o.runner, path, nil)
		if err == nil && sys.SameVersion(version, constants.CMakeVersion) {
			return Check{Name: "cmake", Status: StatusReady, Detail: "cmake " + version + " on search path"}
		}
	}

	if _, err := cmakeArchive(o.cfg.OS, o.cfg.Arch); err != nil {
		return Check{Name: "cmake", Status: StatusBlocked, Detail: err.Error()}
	}
	return Check{Name: "cmake", Status: StatusMissing, Detail: "release " + constants.CMakeVersion + " will be downloaded"}
}

func (o *Orchestrator) checkManifests() Check {
	var missing []string
	for _, name := range []string{constants.GPUManifest, constants.CPUManifest} {
		if _, err := os.Stat(filepath.Join(o.cfg.WorkDir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return Check{Name: "dependency manifests", Status: StatusReady, Detail: "present in install root"}
	}
	return Check{Name: "dependency manifests", Status: StatusMissing, Detail: strings.Join(missing, ", ") + " will be materialized from embedded copies"}
}

func (o *Orchestrator) checkLlamaCpp() Check {
	dir := o.cfg.RepoPath(constants.LlamaCppDir)
	if _, err := os.Stat(dir); err != nil {
		return Check{Name: "llama.cpp", Status: StatusMissing, Detail: "will be cloned and built"}
	}

	marker := filepath.Join(dir, constants.LlamaCppBuildDir, "bin")
	if _, err := os.Stat(marker); err != nil {
		return Check{Name: "llama.cpp", Status: StatusMissing, Detail: "checkout present, build pending"}
	}
	return Check{Name: "llama.cpp", Status: StatusReady, Detail: "built at " + marker}
}

func (o *Orchestrator) checkPipProject(name string, gpu bool) Check {
	if !gpu {
		return Check{Name: name, Status: StatusSkipped, Detail: "GPU-only project"}
	}
	if _, err := os.Stat(o.cfg.RepoPath(name)); err == nil {
		return Check{Name: name, Status: StatusReady, Detail: "checkout present"}
	}
	return Check{Name: name, Status: StatusMissing, Detail: "will be cloned and installed"}
}

func (o *Orchestrator) checkJournal() Check {
	journal, err := LoadJournal(o.cfg.JournalPath())
	if err != nil {
		return Check{Name: "journal", Status: StatusMissing, Detail: "no bootstrap recorded yet"}
	}
	if last := journal.Last(); last != nil {
		return Check{Name: "journal", Status: StatusReady, Detail: "last phase " + string(last.State) + " at " + last.At.Format("2006-01-02 15:04:05")}
	}
	return Check{Name: "journal", Status: StatusReady, Detail: "empty journal"}
}
