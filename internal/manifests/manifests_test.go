package manifests

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
)

func TestNames(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"requirements.txt", "requirements-cpu.txt"}, names)
}

func TestRead(t *testing.T) {
	t.Run("gpu manifest has gpu backends", func(t *testing.T) {
		data, err := Read(constants.GPUManifest)
		require.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, "gradio")
		assert.Contains(t, content, "auto-gptq")
		assert.Contains(t, content, "optimum")
	})

	t.Run("cpu manifest omits gpu backends", func(t *testing.T) {
		data, err := Read(constants.CPUManifest)
		require.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, "gradio")
		assert.NotContains(t, content, "auto-gptq")
	})

	t.Run("unknown manifest", func(t *testing.T) {
		_, err := Read("requirements-tpu.txt")
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestMaterialize(t *testing.T) {
	t.Run("writes missing manifests", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, Materialize(dir))

		for _, name := range Names() {
			data, err := os.ReadFile(filepath.Join(dir, name))
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		}
	})

	t.Run("leaves existing files untouched", func(t *testing.T) {
		dir := t.TempDir()
		custom := "# checkout pins\ngradio==5.0.0\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, constants.GPUManifest), []byte(custom), 0o644))

		require.NoError(t, Materialize(dir))

		data, err := os.ReadFile(filepath.Join(dir, constants.GPUManifest))
		require.NoError(t, err)
		assert.Equal(t, custom, string(data))

		// The other manifest was still written
		cpu, err := os.ReadFile(filepath.Join(dir, constants.CPUManifest))
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(cpu), "gradio"))
	})
}
