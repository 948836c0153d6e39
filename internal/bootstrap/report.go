package bootstrap

import (
	"fmt"
	"io"
	"os"

	"github.com/agentstation/utc"
	md "github.com/nao1215/markdown"

	"github.com/spongeengine/quantstrap/pkg/constants"
	"github.com/spongeengine/quantstrap/pkg/errors"
)

// writeReport renders a summary of the run into the install root. The report
// is informational only; nothing reads it back.
func (o *Orchestrator) writeReport(r *run) error {
	f, err := os.Create(o.cfg.ReportPath())
	if err != nil {
		return errors.WrapIO("create", o.cfg.ReportPath(), err)
	}
	defer f.Close()

	gpu := "none detected, CPU manifest"
	if r.gpu {
		gpu = "present (" + r.gpuVendor + "), GPU manifest"
	}
	manifest := constants.CPUManifest
	if r.gpu {
		manifest = constants.GPUManifest
	}

	phases := make([][]string, 0, len(r.journal.Phases))
	for _, phase := range r.journal.Phases {
		phases = append(phases, []string{string(phase.State), phase.Detail, phase.At.Format("15:04:05")})
	}

	return md.NewMarkdown(f).
		H1("Bootstrap report").
		PlainTextf("Generated %s.", utc.Now().Format("2006-01-02 15:04:05 MST")).
		LF().
		H2("Outcome").
		BulletList(
			"Platform: "+o.cfg.OS+"/"+o.cfg.Arch,
			"Install root: "+o.cfg.WorkDir,
			"GPU: "+gpu,
			"Manifest: "+manifest,
			"Build tool: "+r.cmake+" ("+r.cmakeTier+")",
			"Environment: "+o.cfg.EnvPath(),
		).
		LF().
		H2("Phases").
		Table(md.TableSet{
			Header: []string{"Phase", "Detail", "At"},
			Rows:   phases,
		}).
		Build()
}

// WriteDoctorReport renders diagnosis checks as markdown.
func WriteDoctorReport(w io.Writer, checks []Check) error {
	rows := make([][]string, 0, len(checks))
	for _, check := range checks {
		rows = append(rows, []string{check.Name, string(check.Status), check.Detail})
	}

	return md.NewMarkdown(w).
		H1("Environment diagnosis").
		PlainText(fmt.Sprintf("Generated %s.", utc.Now().Format("2006-01-02 15:04:05 MST"))).
		LF().
		Table(md.TableSet{
			Header: []string{"Check", "Status", "Detail"},
			Rows:   rows,
		}).
		Build()
}
