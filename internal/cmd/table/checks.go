// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"github.com/spongeengine/quantstrap/internal/bootstrap"
	"github.com/spongeengine/quantstrap/internal/cmd/emoji"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ChecksToTableData converts doctor checks to table format.
func ChecksToTableData(checks []bootstrap.Check) Data {
	headers := []string{"", "CHECK", "STATUS", "DETAIL"}

	rows := make([][]string, 0, len(checks))
	for _, check := range checks {
		rows = append(rows, []string{
			statusSymbol(check.Status),
			check.Name,
			string(check.Status),
			check.Detail,
		})
	}

	return Data{
		Headers: headers,
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignCenter, // symbol
			AlignLeft,   // CHECK
			AlignLeft,   // STATUS
			AlignLeft,   // DETAIL
		},
	}
}

// statusSymbol returns the display symbol for a check status.
func statusSymbol(status bootstrap.Status) string {
	switch status {
	case bootstrap.StatusReady:
		return emoji.Success
	case bootstrap.StatusMissing:
		return emoji.Warning
	case bootstrap.StatusBlocked:
		return emoji.Error
	case bootstrap.StatusSkipped:
		return emoji.Optional
	default:
		return emoji.Unknown
	}
}
