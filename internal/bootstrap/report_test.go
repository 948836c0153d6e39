package bootstrap

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/spongeengine/quantstrap/internal/download"
	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.InstallRoot(), 0o755))

	o := testOrchestrator(cfg, &sys.Fake{}, &download.FakeFetcher{})

	r := &run{
		gpu:       true,
		gpuVendor: "nvidia",
		cmake:     "/usr/bin/cmake",
		cmakeTier: "path",
		journal:   newJournal(cfg.JournalPath()),
	}
	r.journal.Record(context.Background(), StateValidated, "install root ok")
	r.journal.Record(context.Background(), StateGpuProbed, "GPU detected, vendor nvidia")

	require.NoError(t, o.writeReport(r))

	data, err := os.ReadFile(cfg.ReportPath())
	require.NoError(t, err)
	report := string(data)

	assert.Contains(t, report, "# Bootstrap report")
	assert.Contains(t, report, "## Outcome")
	assert.Contains(t, report, "## Phases")
	assert.Contains(t, report, "nvidia")
	assert.Contains(t, report, constants.GPUManifest)
	assert.Contains(t, report, "install root ok")
}

func TestWriteDoctorReport(t *testing.T) {
	var buf bytes.Buffer
	checks := []Check{
		{Name: "conda runtime", Status: StatusReady, Detail: "conda 23.3.1"},
		{Name: "llama.cpp", Status: StatusMissing, Detail: "will be cloned and built"},
	}

	require.NoError(t, WriteDoctorReport(&buf, checks))
	report := buf.String()

	assert.Contains(t, report, "# Environment diagnosis")
	assert.Contains(t, report, "conda runtime")
	assert.Contains(t, report, string(StatusReady))
	assert.Contains(t, report, "will be cloned and built")
}
