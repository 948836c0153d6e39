package bootstrap

// State identifies a completed phase of the bootstrap sequence. The sequence
// is linear: a run reaches each state in order and halts at the first failure,
// leaving whatever is on disk for the next run to detect and skip.
type State string

// Bootstrap states in progression order.
const (
	// StateValidated means the installation path passed its sanity checks.
	StateValidated State = "validated"

	// StateRuntimeReady means the isolated runtime answers a version query.
	StateRuntimeReady State = "runtime_ready"

	// StateEnvReady means the dependency environment exists and contains an interpreter.
	StateEnvReady State = "env_ready"

	// StateEnvIsolated means the child process environment has been assembled.
	StateEnvIsolated State = "env_isolated"

	// StateGpuProbed means the hardware capability probe has run.
	StateGpuProbed State = "gpu_probed"

	// StateDepsInstalled means the dependency manifest has been installed.
	StateDepsInstalled State = "deps_installed"

	// StateBuildToolReady means a build tool of the required version is resolved.
	StateBuildToolReady State = "build_tool_ready"

	// StateReposBuilt means the external projects are cloned and built.
	StateReposBuilt State = "repos_built"

	// StateLaunched means control was handed to the application.
	StateLaunched State = "launched"
)

// States returns every state in progression order.
func States() []State {
	return []State{
		StateValidated,
		StateRuntimeReady,
		StateEnvReady,
		StateEnvIsolated,
		StateGpuProbed,
		StateDepsInstalled,
		StateBuildToolReady,
		StateReposBuilt,
		StateLaunched,
	}
}

// String implements fmt.Stringer.
func (s State) String() string {
	return string(s)
}
