package renderer

import (
	"fmt"
	"strings"
	"time"

	tracker "github.com/arumugamkasi77/investment-portfolio-tracker"
)

// TasksMarkdown renders the scheduler's task list, oldest first.
func TasksMarkdown(tasks []tracker.ScheduledTask) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Scheduled Tasks\n\n")
	if len(tasks) == 0 {
		fmt.Fprintln(&b, "No tasks.")
		return b.String()
	}

	fmt.Fprintln(&b, "| ID | Type | Portfolio | Scheduled For | Status | Error |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|:---|:---|")
	for _, task := range tasks {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			task.ID,
			task.Type,
			task.Portfolio,
			task.ScheduledFor.Format(time.RFC3339),
			task.Status,
			task.Err,
		)
	}
	return b.String()
}

// SnapshotStatusMarkdown renders the stored snapshot history of a portfolio.
func SnapshotStatusMarkdown(status tracker.Status) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Snapshots of %s\n\n", status.Portfolio)
	if status.Count == 0 {
		fmt.Fprintln(&b, "No snapshots stored.")
		return b.String()
	}
	fmt.Fprintf(&b, "- Stored snapshots: %d\n", status.Count)
	fmt.Fprintf(&b, "- Latest day: %s\n", status.Latest)
	return b.String()
}
