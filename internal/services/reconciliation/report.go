package reconciliation

import (
	"time"

	"lcr-attendance-backend/internal/services/export"
)

var (
	summaryHeader = []string{"Last Name", "First Name", "Status", "Roster ID", "Detail"}
	logHeader     = []string{"Time", "Action", "Name", "Roster ID", "Detail"}
)

// SummaryCSV renders the summary report as a CSV document with a header row.
func SummaryCSV(rows []ReportRow) []byte {
	lines := []string{export.Row(summaryHeader...)}
	for _, r := range rows {
		lines = append(lines, export.Row(r.LastName, r.FirstName, r.Status, r.RosterID, r.Detail))
	}
	return export.Document(lines)
}

// LogCSV renders the action log as a CSV document with a header row.
func LogCSV(entries []LogEntry) []byte {
	lines := []string{export.Row(logHeader...)}
	for _, e := range entries {
		lines = append(lines, export.Row(e.Time.UTC().Format(time.RFC3339), e.Action, e.Name, e.RosterID, e.Detail))
	}
	return export.Document(lines)
}
