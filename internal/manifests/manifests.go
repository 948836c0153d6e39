package manifests

import (
	"os"
	"path/filepath"

	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
)

// Names lists the manifests shipped with the binary.
func Names() []string {
	return []string{constants.GPUManifest, constants.CPUManifest}
}

// Read returns the embedded content of the named manifest.
func Read(name string) ([]byte, error) {
	data, err := FS.ReadFile("requirements/" + name)
	if err != nil {
		return nil, &errors.NotFoundError{Resource: "manifest", ID: name}
	}
	return data, nil
}

// Materialize writes any manifest missing from dir. Files already present
// are left untouched so a checkout's own pins always win.
func Materialize(dir string) error {
	for _, name := range Names() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}

		data, err := Read(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
			return errors.WrapIO("write", path, err)
		}
	}
	return nil
}
