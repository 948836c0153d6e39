package bootstrap

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
	"github.com/spongeengine/quantstrap/pkg/logging"
)

// safePathPattern covers characters no downstream installer chokes on.
// Anything outside it gets a warning but does not stop the run.
var safePathPattern = regexp.MustCompile(`^[A-Za-z0-9._/\-:\\]+$`)

// validatePath rejects installation roots the runtime installer cannot
// handle. It runs before any network or install action.
func (o *Orchestrator) validatePath(ctx context.Context, _ *run) (string, error) {
	log := logging.FromContext(ctx)

	if strings.Contains(o.cfg.WorkDir, " ") {
		return "", errors.NewPathError(o.cfg.WorkDir, "contains a space, which the runtime installer cannot handle")
	}

	if !safePathPattern.MatchString(o.cfg.WorkDir) {
		log.Warn().Str("path", o.cfg.WorkDir).Msg("Installation path contains special characters")
		fmt.Fprintf(o.stdout, "WARNING: special characters in %q may break the install.\n", o.cfg.WorkDir)
	}

	if err := os.MkdirAll(o.cfg.InstallRoot(), constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", o.cfg.InstallRoot(), err)
	}

	return "install root " + o.cfg.WorkDir, nil
}
