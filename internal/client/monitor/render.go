package monitor

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
)

const (
	dateTimeLayout = "2006-01-02 15:04:05"
	timeLayout     = "15:04:05"
	notAvailable   = "N/A"
)

// Snapshot is the monitor screen at one point in time.
type Snapshot struct {
	Status       string
	LastSync     string
	SyncDisabled bool
	Recent       []models.SuppressionEntry
	RecentText   string
	Logs         []LogEntry
}

func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		Status:       "Unknown",
		LastSync:     "Never",
		SyncDisabled: m.syncBusy,
		Recent:       append([]models.SuppressionEntry(nil), m.recent...),
		Logs:         append([]LogEntry(nil), m.logs...),
	}

	switch {
	case m.statusErr:
		s.Status = "Error"
	case m.status != nil && m.status.InProgress:
		s.Status = "Syncing..."
		s.SyncDisabled = true
	case m.status != nil:
		s.Status = "Idle"
	}
	if m.status != nil {
		s.LastSync = formatLastSync(m.status.LastSync)
	}

	switch {
	case m.recentErr:
		s.RecentText = "Error loading suppressions"
	case !m.loaded:
		s.RecentText = "Loading..."
	case len(m.recent) == 0:
		s.RecentText = "No suppressions found"
	}
	return s
}

// formatLastSync renders the backend timestamp; the zero time means the job
// never ran.
func formatLastSync(v string) string {
	if v == "" {
		return "Never"
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return v
	}
	if t.IsZero() {
		return "Never"
	}
	return t.Local().Format(dateTimeLayout)
}

func formatCreated(v string) string {
	if v == "" {
		return notAvailable
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return v
	}
	return t.Local().Format(dateTimeLayout)
}

func orNA(v string) string {
	if v == "" {
		return notAvailable
	}
	return v
}

// Render writes the snapshot as a fixed-layout text screen.
func (s Snapshot) Render(w io.Writer) error {
	sync := "available"
	if s.SyncDisabled {
		sync = "disabled"
	}
	if _, err := fmt.Fprintf(w, "Sync status: %s\nLast sync:   %s\nManual sync: %s\n\n", s.Status, s.LastSync, sync); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tREASON\tTYPE\tCREATED")
	if s.RecentText != "" {
		fmt.Fprintf(tw, "%s\t\t\t\n", s.RecentText)
	}
	for _, e := range s.Recent {
		typ := e.SuppressionType
		if typ == "" {
			typ = "AWS"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", orNA(e.Email), orNA(e.Reason), typ, formatCreated(e.CreatedAt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\nActivity:"); err != nil {
		return err
	}
	for _, l := range s.Logs {
		if _, err := fmt.Fprintf(w, "[%s] %-7s %s\n", l.At.Local().Format(timeLayout), l.Level, l.Text); err != nil {
			return err
		}
	}
	return nil
}
