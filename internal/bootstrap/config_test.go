package bootstrap

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(".")
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if !filepath.IsAbs(cfg.WorkDir) {
		t.Errorf("WorkDir = %q, want absolute", cfg.WorkDir)
	}
	if cfg.OS == "" || cfg.Arch == "" {
		t.Error("expected host platform defaults")
	}
	if cfg.Jobs < 1 {
		t.Errorf("Jobs = %d, want at least 1", cfg.Jobs)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"force cpu only", func(c *Config) { c.ForceCPU = true }, false},
		{"force gpu only", func(c *Config) { c.ForceGPU = true }, false},
		{"both force flags", func(c *Config) { c.ForceCPU = true; c.ForceGPU = true }, true},
		{"zero jobs", func(c *Config) { c.Jobs = 0 }, true},
		{"empty workdir", func(c *Config) { c.WorkDir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{WorkDir: "/opt/quant", OS: "linux", Arch: "amd64", Jobs: 4}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigPathsLinux(t *testing.T) {
	cfg := &Config{WorkDir: "/opt/quant", OS: "linux", Arch: "amd64", Jobs: 1}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"install root", cfg.InstallRoot(), "/opt/quant/installer_files"},
		{"conda root", cfg.CondaRoot(), "/opt/quant/installer_files/conda"},
		{"conda exe", cfg.CondaExe(), "/opt/quant/installer_files/conda/bin/conda"},
		{"env", cfg.EnvPath(), "/opt/quant/installer_files/env"},
		{"python", cfg.PythonExe(), "/opt/quant/installer_files/env/bin/python"},
		{"cmake cache", cfg.CMakeCache(), "/opt/quant/installer_files/cmake"},
		{"tmp", cfg.TmpPath(), "/opt/quant/installer_files/tmp"},
		{"journal", cfg.JournalPath(), "/opt/quant/installer_files/bootstrap.yaml"},
		{"report", cfg.ReportPath(), "/opt/quant/installer_files/bootstrap-report.md"},
		{"repo", cfg.RepoPath("llama_cpp"), "/opt/quant/llama_cpp"},
	}

	for _, tt := range tests {
		if tt.got != filepath.FromSlash(tt.want) {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}

	if got := cfg.CMakeBinary(); !strings.HasSuffix(got, filepath.FromSlash("cmake-3.31.5-linux-x86_64/bin/cmake")) {
		t.Errorf("CMakeBinary() = %q, want linux tree suffix", got)
	}
}

func TestConfigPathsWindows(t *testing.T) {
	cfg := &Config{WorkDir: `C:\quant`, OS: "windows", Arch: "amd64", Jobs: 1}

	if got := cfg.CondaExe(); !strings.HasSuffix(got, filepath.Join("Scripts", "conda.exe")) {
		t.Errorf("CondaExe() = %q, want Scripts conda.exe", got)
	}
	if got := cfg.PythonExe(); !strings.HasSuffix(got, "python.exe") {
		t.Errorf("PythonExe() = %q, want python.exe at env root", got)
	}
	if got := cfg.CMakeBinary(); !strings.HasSuffix(got, "cmake.exe") {
		t.Errorf("CMakeBinary() = %q, want cmake.exe", got)
	}
}

func TestConfigEnviron(t *testing.T) {
	cfg := &Config{WorkDir: "/opt/quant", OS: "linux", Arch: "amd64", Jobs: 1}

	base := []string{
		"HOME=/home/user",
		"PYTHONPATH=/usr/lib/python3/dist-packages",
		"PYTHONHOME=/usr",
		"PIP_INDEX_URL=https://mirror.internal/simple",
		"TMP=/tmp",
		"TEMP=/tmp",
		"CUDA_PATH=/usr/local/cuda",
		"PATH=/usr/local/bin:/usr/bin",
	}
	environ := cfg.Environ(base)

	byKey := map[string]string{}
	for _, kv := range environ {
		key, value, _ := strings.Cut(kv, "=")
		byKey[key] = value
	}

	for _, dropped := range []string{"PYTHONPATH", "PYTHONHOME", "PIP_INDEX_URL"} {
		if _, ok := byKey[dropped]; ok {
			t.Errorf("%s leaked into the isolated environment", dropped)
		}
	}

	if byKey["HOME"] != "/home/user" {
		t.Error("unrelated variables must survive")
	}
	if byKey["PYTHONNOUSERSITE"] != "1" {
		t.Error("PYTHONNOUSERSITE must be set")
	}
	if byKey["TMP"] != cfg.TmpPath() || byKey["TEMP"] != cfg.TmpPath() {
		t.Errorf("TMP/TEMP = %q/%q, want %q", byKey["TMP"], byKey["TEMP"], cfg.TmpPath())
	}
	if byKey["CUDA_PATH"] != cfg.EnvPath() || byKey["CUDA_HOME"] != cfg.EnvPath() {
		t.Error("CUDA variables must point at the dependency environment")
	}

	wantPrefix := filepath.Join(cfg.EnvPath(), "bin") + ":" + filepath.Join(cfg.CondaRoot(), "bin") + ":"
	if !strings.HasPrefix(byKey["PATH"], wantPrefix) {
		t.Errorf("PATH = %q, want prefix %q", byKey["PATH"], wantPrefix)
	}
	if !strings.HasSuffix(byKey["PATH"], "/usr/local/bin:/usr/bin") {
		t.Errorf("PATH = %q, want host path preserved at the end", byKey["PATH"])
	}
}

func TestConfigEnvironWindows(t *testing.T) {
	cfg := &Config{WorkDir: `C:\quant`, OS: "windows", Arch: "amd64", Jobs: 1}

	environ := cfg.Environ([]string{"Path=C:\\Windows\\system32"})

	var path string
	for _, kv := range environ {
		if strings.HasPrefix(kv, "PATH=") {
			path = strings.TrimPrefix(kv, "PATH=")
		}
		if strings.HasPrefix(kv, "Path=") {
			t.Error("original Path variable must be replaced, not duplicated")
		}
	}

	if !strings.Contains(path, ";") {
		t.Errorf("PATH = %q, want semicolon separated", path)
	}
	if !strings.HasSuffix(path, "C:\\Windows\\system32") {
		t.Errorf("PATH = %q, want host path preserved at the end", path)
	}
	if !strings.HasPrefix(path, cfg.EnvPath()) {
		t.Errorf("PATH = %q, want environment first", path)
	}
}
