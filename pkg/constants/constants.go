// Package constants provides shared constants used throughout the quantstrap
// codebase. This includes timeouts, file permissions, pinned tool versions,
// and the on-disk layout of the installation root.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DownloadTimeout is the timeout for fetching installer and release archives
	DownloadTimeout = 15 * time.Minute

	// ProbeTimeout is the timeout for version probes of external tools
	ProbeTimeout = 10 * time.Second

	// InstallTimeout is the timeout for a runtime or package installation step
	InstallTimeout = 30 * time.Minute

	// BuildTimeout is the timeout for compiling an external project
	BuildTimeout = 60 * time.Minute

	// CloneTimeout is the timeout for cloning an external repository
	CloneTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Installation layout constants name the directories and files created under
// the working directory. Their existence doubles as the idempotence marker
// for the corresponding bootstrap phase.
const (
	// InstallRootDir is the directory holding everything the bootstrap installs
	InstallRootDir = "installer_files"

	// CondaDir is the isolated runtime root inside the install root
	CondaDir = "conda"

	// EnvDir is the dependency environment inside the install root
	EnvDir = "env"

	// CMakeDir is the build-tool cache inside the install root
	CMakeDir = "cmake"

	// TmpDir is the redirect target for TMP and TEMP inside the install root
	TmpDir = "tmp"

	// JournalFile is the phase journal written inside the install root
	JournalFile = "bootstrap.yaml"

	// ReportFile is the bootstrap report written inside the install root
	ReportFile = "bootstrap-report.md"
)

// Runtime pins fix the isolated Python runtime the bootstrap provisions.
const (
	// MinicondaVersion is the pinned Miniconda release
	MinicondaVersion = "py310_23.3.3-0"

	// MinicondaBaseURL is the release download root for Miniconda installers
	MinicondaBaseURL = "https://repo.anaconda.com/miniconda"

	// PythonVersion is the interpreter version created inside the environment
	PythonVersion = "3.11"
)

// Build tool pins fix the CMake release used to compile llama.cpp.
const (
	// CMakeVersion is the exact CMake version required for project builds
	CMakeVersion = "3.31.5"

	// CMakeBaseURL is the release download root for CMake archives
	CMakeBaseURL = "https://github.com/Kitware/CMake/releases/download"
)

// External project constants pin the repositories the bootstrap acquires.
const (
	// LlamaCppURL is the Git URL for the GGUF conversion and quantization backend
	LlamaCppURL = "https://github.com/ggerganov/llama.cpp.git"

	// LlamaCppDir is the checkout directory for llama.cpp
	LlamaCppDir = "llama_cpp"

	// LlamaCppBuildDir is the build output directory inside the checkout
	LlamaCppBuildDir = "build"

	// AutoAWQURL is the Git URL for the AWQ quantization backend
	AutoAWQURL = "https://github.com/casper-hansen/AutoAWQ.git"

	// AutoAWQDir is the checkout directory for AutoAWQ
	AutoAWQDir = "AutoAWQ"

	// ExLlamaV2URL is the Git URL for the ExLlamaV2 quantization backend
	ExLlamaV2URL = "https://github.com/turboderp-org/exllamav2.git"

	// ExLlamaV2Dir is the checkout directory for ExLlamaV2
	ExLlamaV2Dir = "exllamav2"

	// ExLlamaV2Revision is the source revision checked out for ExLlamaV2
	ExLlamaV2Revision = "v0.2.8"
)

// Dependency manifest constants name the pip requirement files.
const (
	// GPUManifest is the dependency manifest installed when a GPU is present
	GPUManifest = "requirements.txt"

	// CPUManifest is the dependency manifest installed on CPU-only hosts
	CPUManifest = "requirements-cpu.txt"
)

// Launch constants describe the application handoff.
const (
	// AppEntrypoint is the script the environment's interpreter executes
	AppEntrypoint = "app.py"

	// AppPort is the port the web interface listens on
	AppPort = 7860
)

// Container constants describe the container launch variant.
const (
	// ContainerName is the fixed name for the application container
	ContainerName = "spongequant"

	// ImageRepository is the image repository for prebuilt application images
	ImageRepository = "spongeengine/spongequant"

	// DockerfileDir is the directory holding the per-target Dockerfiles
	DockerfileDir = "docker"

	// ModelsDir is the host directory mounted for input models
	ModelsDir = "models"

	// QuantizedDir is the host directory mounted for quantized output
	QuantizedDir = "quantized_models"

	// GGUFDir is the host directory mounted for intermediate conversion artifacts
	GGUFDir = "gguf"

	// ContainerAppDir is the application directory inside the image
	ContainerAppDir = "/app"
)

// Environment variable names recognized by the bootstrap.
const (
	// EnvHFToken is the Hugging Face token forwarded to the application
	EnvHFToken = "HF_TOKEN"

	// EnvPause forces the interactive exit pause regardless of platform
	EnvPause = "QUANTSTRAP_PAUSE"
)
