package table

import (
	"fmt"
	"time"

	"github.com/spongeengine/quantstrap/internal/bootstrap"
)

// PhasesToTableData converts journal phases to table format.
// Shows the bootstrap history newest first.
func PhasesToTableData(journal *bootstrap.Journal) Data {
	rows := make([][]string, 0, len(journal.Phases))
	for i := len(journal.Phases) - 1; i >= 0; i-- {
		phase := journal.Phases[i]

		// Current indicator (→ for newest entry)
		currentIndicator := ""
		if i == len(journal.Phases)-1 {
			currentIndicator = "→"
		}

		rows = append(rows, []string{
			currentIndicator,
			string(phase.State),
			phase.Detail,
			formatTimestamp(phase.At.Time),
		})
	}

	return Data{
		Headers: []string{"Curr", "Phase", "Detail", "When"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignCenter, // Curr
			AlignLeft,   // Phase
			AlignLeft,   // Detail
			AlignLeft,   // When
		},
	}
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	// Show relative time for recent timestamps
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%d min ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%d hr ago", hours)
	}
	if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%d days ago", days)
	}

	// For older timestamps, show the date
	return t.Format("2006-01-02 15:04")
}
