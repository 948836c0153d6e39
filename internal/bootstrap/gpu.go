package bootstrap

import (
	"context"

	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/logging"
)

// gpuTools are the vendor management utilities whose presence on PATH counts
// as a GPU. The AMD utilities are only consulted off Windows, where ROCm is
// not supported.
var gpuTools = []struct {
	tool      string
	vendor    string
	posixOnly bool
}{
	{tool: "nvidia-smi", vendor: "nvidia"},
	{tool: "rocminfo", vendor: "amd", posixOnly: true},
	{tool: "rocm-smi", vendor: "amd", posixOnly: true},
}

// DetectGPUVendor looks for vendor management tooling on the search path.
// The container launch variant reuses it to suggest a default image target.
func DetectGPUVendor(runner sys.Runner, goos string) (string, bool) {
	for _, probe := range gpuTools {
		if probe.posixOnly && goos == "windows" {
			continue
		}
		if _, err := runner.LookPath(probe.tool); err == nil {
			return probe.vendor, true
		}
	}
	return "", false
}

// probeGPU computes the GPU verdict for the whole run. It runs exactly once;
// both the manifest choice and the conditional project installs read the
// same flag.
func (o *Orchestrator) probeGPU(ctx context.Context, r *run) (string, error) {
	log := logging.FromContext(ctx)

	switch {
	case o.cfg.ForceGPU:
		r.gpu = true
		r.gpuVendor = "forced"
		return "GPU path forced", nil
	case o.cfg.ForceCPU:
		r.gpu = false
		return "CPU path forced", nil
	}

	vendor, found := o.detectGPUVendor()
	r.gpu = found
	r.gpuVendor = vendor

	if !found {
		log.Debug().Msg("No GPU management tooling found")
		return "no GPU detected, CPU manifests will be used", nil
	}

	log.Debug().Str("vendor", vendor).Msg("GPU tooling found")
	return "GPU detected, vendor " + vendor, nil
}

// detectGPUVendor looks for vendor tooling on the search path.
func (o *Orchestrator) detectGPUVendor() (string, bool) {
	return DetectGPUVendor(o.runner, o.cfg.OS)
}
