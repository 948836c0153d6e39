package output

import (
	"os"

	"github.com/spongeengine/quantstrap/internal/bootstrap"
	"github.com/spongeengine/quantstrap/internal/cmd/globals"
	"github.com/spongeengine/quantstrap/internal/cmd/table"
)

// FormatChecks handles the common pattern of formatting doctor checks for output.
// This encapsulates the switch logic for different output formats.
func FormatChecks(checks []bootstrap.Check, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))

	// Transform to output format
	var outputData any
	switch globalFlags.Output {
	case string(FormatTable), "":
		outputData = table.ChecksToTableData(checks)
	default:
		outputData = checks
	}

	return formatter.Format(os.Stdout, outputData)
}

// FormatPhases handles the common pattern of formatting journal phases for output.
func FormatPhases(journal *bootstrap.Journal, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))

	// Transform to output format
	var outputData any
	switch globalFlags.Output {
	case string(FormatTable), "":
		outputData = table.PhasesToTableData(journal)
	default:
		outputData = journal
	}

	return formatter.Format(os.Stdout, outputData)
}

// FormatAny handles the common pattern of formatting any data type for output.
// This is useful for commands with custom data structures.
func FormatAny(data any, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))
	return formatter.Format(os.Stdout, data)
}
