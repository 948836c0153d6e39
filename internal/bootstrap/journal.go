package bootstrap

import (
	"context"
	"os"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
	"github.com/spongeengine/quantstrap/pkg/logging"
)

// Journal records the phases a bootstrap run reached, in order. It exists for
// operators and the doctor command; skip decisions never read it, those stay
// directory-existence based.
type Journal struct {
	Started utc.Time `yaml:"started"`
	Phases  []Phase  `yaml:"phases"`

	path string
}

// Phase is one completed bootstrap state.
type Phase struct {
	State  State    `yaml:"state"`
	Detail string   `yaml:"detail,omitempty"`
	At     utc.Time `yaml:"at"`
}

// newJournal starts an empty journal that persists to path.
func newJournal(path string) *Journal {
	return &Journal{Started: utc.Now(), path: path}
}

// Record appends a phase and rewrites the journal file. Persistence is best
// effort: a journal write failure is logged and swallowed, never fatal.
func (j *Journal) Record(ctx context.Context, state State, detail string) {
	j.Phases = append(j.Phases, Phase{State: state, Detail: detail, At: utc.Now()})

	data, err := yaml.Marshal(j)
	if err == nil {
		err = os.WriteFile(j.path, data, constants.FilePermissions)
	}
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("path", j.path).Msg("Could not persist bootstrap journal")
	}
}

// Last returns the most recently recorded phase, or nil for an empty journal.
func (j *Journal) Last() *Phase {
	if len(j.Phases) == 0 {
		return nil
	}
	return &j.Phases[len(j.Phases)-1]
}

// LoadJournal reads a journal written by an earlier run.
func LoadJournal(path string) (*Journal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("journal", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var journal Journal
	if err := yaml.Unmarshal(data, &journal); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	journal.path = path
	return &journal, nil
}
