package bootstrap

import (
	"fmt"

	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
)

// installerSpec pins one platform's runtime installer artifact.
type installerSpec struct {
	File   string
	SHA256 string
}

// URL is the download location of the installer.
func (s installerSpec) URL() string {
	return constants.MinicondaBaseURL + "/" + s.File
}

// minicondaInstallers pins the runtime installer per GOOS/GOARCH. Platforms
// whose digest for the pinned release is not published upstream are absent:
// provisioning there fails instead of skipping verification.
var minicondaInstallers = map[string]installerSpec{
	"linux/amd64": {
		File:   "Miniconda3-" + constants.MinicondaVersion + "-Linux-x86_64.sh",
		SHA256: "aef279d6baea7f67940f16aad17ebe5f6aac97487c7c03466ff01f4819e5a651",
	},
	"windows/amd64": {
		File:   "Miniconda3-" + constants.MinicondaVersion + "-Windows-x86_64.exe",
		SHA256: "307194e1f12bbeb52b083634e89cc67db4f7980bd542254b43d3309eaf7cb358",
	},
}

// minicondaInstaller resolves the pinned installer for a platform.
func minicondaInstaller(goos, goarch string) (installerSpec, error) {
	spec, ok := minicondaInstallers[goos+"/"+goarch]
	if !ok {
		return installerSpec{}, errors.NewEnvironmentError("",
			fmt.Sprintf("no pinned runtime installer for %s/%s; install the runtime manually", goos, goarch))
	}
	return spec, nil
}

// archiveSpec pins one platform's build tool release archive.
type archiveSpec struct {
	File   string
	Binary string // slash-separated path of the executable inside the extracted tree
}

// URL is the download location of the archive.
func (s archiveSpec) URL() string {
	return constants.CMakeBaseURL + "/v" + constants.CMakeVersion + "/" + s.File
}

// cmakeArchives pins the build tool release per GOOS/GOARCH.
var cmakeArchives = map[string]archiveSpec{
	"linux/amd64": {
		File:   "cmake-" + constants.CMakeVersion + "-linux-x86_64.tar.gz",
		Binary: "cmake-" + constants.CMakeVersion + "-linux-x86_64/bin/cmake",
	},
	"linux/arm64": {
		File:   "cmake-" + constants.CMakeVersion + "-linux-aarch64.tar.gz",
		Binary: "cmake-" + constants.CMakeVersion + "-linux-aarch64/bin/cmake",
	},
	"windows/amd64": {
		File:   "cmake-" + constants.CMakeVersion + "-windows-x86_64.zip",
		Binary: "cmake-" + constants.CMakeVersion + "-windows-x86_64/bin/cmake.exe",
	},
	"darwin/amd64": {
		File:   "cmake-" + constants.CMakeVersion + "-macos-universal.tar.gz",
		Binary: "cmake-" + constants.CMakeVersion + "-macos-universal/CMake.app/Contents/bin/cmake",
	},
	"darwin/arm64": {
		File:   "cmake-" + constants.CMakeVersion + "-macos-universal.tar.gz",
		Binary: "cmake-" + constants.CMakeVersion + "-macos-universal/CMake.app/Contents/bin/cmake",
	},
}

// cmakeArchive resolves the pinned build tool archive for a platform.
func cmakeArchive(goos, goarch string) (archiveSpec, error) {
	spec, ok := cmakeArchives[goos+"/"+goarch]
	if !ok {
		return archiveSpec{}, fmt.Errorf("no pinned build tool archive for %s/%s", goos, goarch)
	}
	return spec, nil
}
