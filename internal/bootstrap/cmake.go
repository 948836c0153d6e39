package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spongeengine/quantstrap/internal/download"
	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
	"github.com/spongeengine/quantstrap/pkg/logging"
)

// resolveBuildTool locates a cmake of the pinned version. Priority order,
// first match wins: the local cache inside the install root, a copy on the
// search path reporting exactly the pinned version, a freshly downloaded
// release archive unpacked into the cache. A cached copy wins even when the
// search path has a usable one.
func (o *Orchestrator) resolveBuildTool(ctx context.Context, r *run) (string, error) {
	log := logging.FromContext(ctx)

	if cached := o.cfg.CMakeBinary(); cached != "" {
		if _, err := os.Stat(cached); err == nil {
			r.cmake, r.cmakeTier = cached, "cache"
			return "cmake from cache", nil
		}
	}

	if path, err := o.runner.LookPath("cmake"); err == nil {
		version, err := sys.ProbeVersion(ctx, o.runner, path, nil)
		if err == nil && sys.SameVersion(version, constants.CMakeVersion) {
			r.cmake, r.cmakeTier = path, "path"
			return "cmake " + version + " on search path", nil
		}
		log.Debug().
			Str("path", path).
			Str("version", version).
			Str("want", constants.CMakeVersion).
			Msg("cmake on search path does not match the pinned version")
	}

	spec, err := cmakeArchive(o.cfg.OS, o.cfg.Arch)
	if err != nil {
		return "", errors.NewBuildToolError("cmake", constants.CMakeVersion, "", err)
	}

	o.banner("Downloading CMake " + constants.CMakeVersion)
	archive := filepath.Join(o.cfg.InstallRoot(), spec.File)
	if err := o.fetcher.Fetch(ctx, spec.URL(), archive); err != nil {
		return "", err
	}

	if err := download.Extract(ctx, archive, o.cfg.CMakeCache(), download.DefaultExtractors(o.runner)...); err != nil {
		return "", err
	}
	os.Remove(archive)

	cached := o.cfg.CMakeBinary()
	if _, err := os.Stat(cached); err != nil {
		return "", errors.NewBuildToolError("cmake", constants.CMakeVersion, "",
			fmt.Errorf("no binary at %s after extraction", cached))
	}

	r.cmake, r.cmakeTier = cached, "download"
	return "cmake " + constants.CMakeVersion + " downloaded", nil
}
