package bootstrap

import (
	"context"
	"os"

	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
	"github.com/spongeengine/quantstrap/pkg/logging"
)

// Clean removes the install root and, when removeRepos is set, the cloned
// project checkouts. It returns the paths it actually removed. Paths that do
// not exist are skipped, so a repeated clean is a no-op.
func (o *Orchestrator) Clean(ctx context.Context, removeRepos bool) ([]string, error) {
	log := logging.FromContext(ctx)

	targets := []string{o.cfg.InstallRoot()}
	if removeRepos {
		targets = append(targets,
			o.cfg.RepoPath(constants.LlamaCppDir),
			o.cfg.RepoPath(constants.AutoAWQDir),
			o.cfg.RepoPath(constants.ExLlamaV2Dir),
		)
	}

	var removed []string
	for _, path := range targets {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		log.Debug().Str("path", path).Msg("Removing")
		if err := os.RemoveAll(path); err != nil {
			return removed, errors.WrapIO("remove", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}
