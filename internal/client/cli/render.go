package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
)

const loadingText = "Loading..."

func (a *App) table(header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (a *App) renderDashboard() {
	v := a.dashboard.View()
	if v.Loading {
		fmt.Fprintln(a.out, loadingText)
		return
	}
	if !v.HasData {
		fmt.Fprintln(a.out, "No data available. Type 'refresh' to retry.")
		return
	}

	m := v.Metrics
	fmt.Fprintf(a.out, "Total events: %d   Sends: %d   Deliveries: %d\n", m.TotalEvents, m.SendCount, m.DeliveryCount)
	fmt.Fprintf(a.out, "Bounces: %d (%.1f%%)   Complaints: %d   Delivery rate: %.1f%%\n",
		m.BounceCount, m.BounceRate, m.ComplaintCount, m.DeliveryRate)
	fmt.Fprintf(a.out, "Opens: %d   Clicks: %d   Engagement: %.1f%%\n", m.OpenCount, m.ClickCount, v.Engagement)

	if len(v.Daily) == 0 {
		return
	}
	fmt.Fprintln(a.out, "\nLast 7 days:")
	tw := a.table("DATE", "SENT", "DELIVERED", "BOUNCED", "OPENED", "CLICKED")
	for _, d := range v.Daily {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n", d.Date, d.SendCount, d.DeliveryCount, d.BounceCount, d.OpenCount, d.ClickCount)
	}
	_ = tw.Flush()
}

func (a *App) renderEvents() {
	v := a.events.View()
	if q := v.Query; q.HasFilters() {
		fmt.Fprintf(a.out, "Filters: search=%q from=%s to=%s\n", q.Search, orNA(q.StartDate), orNA(q.EndDate))
	}
	if v.Loading {
		fmt.Fprintln(a.out, loadingText)
		return
	}
	if !v.HasData {
		fmt.Fprintln(a.out, "No events loaded. Type 'refresh' to retry.")
		return
	}
	if len(v.Events) == 0 {
		fmt.Fprintln(a.out, v.EmptyHint)
		return
	}

	tw := a.table("TIME", "TYPE", "EMAIL", "SUBJECT", "STATUS", "REASON")
	for _, e := range v.Events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.EventTimestamp, e.EventType, e.Email, e.Subject, e.Status, deref(e.Reason))
	}
	_ = tw.Flush()

	nav := []string{v.RangeText, fmt.Sprintf("page %d of %d", v.Pagination.Page, v.Pagination.TotalPages)}
	if v.CanPrev {
		nav = append(nav, "prev")
	}
	if v.CanNext {
		nav = append(nav, "next")
	}
	fmt.Fprintln(a.out, strings.Join(nav, " | "))
}

func (a *App) renderAnalytics() {
	v := a.analytics.View()
	if v.Loading {
		fmt.Fprintln(a.out, loadingText)
		return
	}
	if !v.HasData {
		fmt.Fprintln(a.out, "No analytics data available.")
		return
	}

	fmt.Fprintf(a.out, "Total sends: %d   Average delivery rate: %.1f%%   Peak hour: %s\n",
		v.TotalSends, v.AverageDeliveryRate, orNA(v.PeakHour))

	fmt.Fprintln(a.out, "\nMonthly:")
	tw := a.table("MONTH", "SENT", "DELIVERED", "BOUNCED", "COMPLAINTS", "DELIVERY RATE")
	for _, m := range v.Monthly {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.1f%%\n", m.Month, m.SendCount, m.DeliveryCount, m.BounceCount, m.ComplaintCount, m.DeliveryRate)
	}
	_ = tw.Flush()

	fmt.Fprintln(a.out, "\nBusiest hours:")
	tw = a.table("HOUR", "SENT", "OPENED", "CLICKED")
	for _, h := range v.HoursBySends {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", models.HourLabel(h.Hour), h.SendCount, h.OpenCount, h.ClickCount)
	}
	_ = tw.Flush()
}

func (a *App) renderUsers() {
	v := a.users.View()
	if v.Loading {
		fmt.Fprintln(a.out, loadingText)
		return
	}
	if !v.HasData {
		fmt.Fprintln(a.out, "Users could not be loaded. Type 'refresh' to retry.")
		return
	}

	tw := a.table("ID", "USERNAME", "EMAIL", "ROLE", "STATUS")
	for _, u := range v.Users {
		state := "active"
		if !u.Active {
			state = "disabled"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, orNA(u.Email), u.Role, state)
	}
	_ = tw.Flush()
}

func (a *App) renderSuppression() {
	v := a.suppression.View()

	if s := v.Sync; s != nil {
		state := "idle"
		if s.InProgress || v.Syncing {
			state = "syncing"
		}
		fmt.Fprintf(a.out, "Sync: %s   Last sync: %s   Next in: %s   Stored: %d\n",
			state, orNA(s.LastSync), orNA(s.NextSyncIn), s.DBCount)
	}
	if !v.AWSEnabled {
		fmt.Fprintln(a.out, "AWS integration is disabled. Adding and removing addresses is unavailable.")
	}

	if v.Loading {
		fmt.Fprintln(a.out, loadingText)
		return
	}
	if !v.HasData {
		fmt.Fprintln(a.out, "Suppression list could not be loaded. Type 'refresh' to retry.")
		return
	}
	if v.Notice != "" {
		fmt.Fprintln(a.out, v.Notice)
	}
	if len(v.Entries) == 0 {
		fmt.Fprintln(a.out, "No suppressions found")
		return
	}

	selected := make(map[string]bool, len(v.Selected))
	for _, e := range v.Selected {
		selected[e] = true
	}

	tw := a.table("", "EMAIL", "REASON", "TYPE", "AWS", "CREATED")
	for _, e := range v.Entries {
		mark := " "
		if selected[e.Email] {
			mark = "*"
		}
		typ := e.SuppressionType
		if typ == "" {
			typ = "AWS"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", mark, e.Email, orNA(e.Reason), typ, orNA(e.AWSStatus), orNA(e.CreatedAt))
	}
	_ = tw.Flush()

	fmt.Fprintln(a.out, v.RangeText)
	if n := len(v.Selected); n > 0 {
		fmt.Fprintf(a.out, "%d selected\n", n)
	}
}

func (a *App) renderSettings() {
	v := a.settings.View()
	if v.Loading {
		fmt.Fprintln(a.out, loadingText)
		return
	}
	if !v.HasData {
		fmt.Fprintln(a.out, "Settings could not be loaded. Type 'reset' to retry.")
		return
	}

	a.mu.Lock()
	d := a.draft
	a.mu.Unlock()

	secret := ""
	if d.aws.SecretKey != "" {
		secret = "********"
	}
	fmt.Fprintln(a.out, "AWS:")
	fmt.Fprintf(a.out, "  enabled: %t   region: %s   sync interval: %d min\n", d.aws.Enabled, orNA(d.aws.Region), d.aws.SyncInterval)
	fmt.Fprintf(a.out, "  access key: %s   secret: %s\n", orNA(d.aws.AccessKey), orNA(secret))
	fmt.Fprintln(a.out, "Retention:")
	fmt.Fprintf(a.out, "  enabled: %t   days: %d\n", d.retention.Enabled, d.retention.RetentionDays)
	fmt.Fprintln(a.out, "Timezone:")
	fmt.Fprintf(a.out, "  %s\n", orNA(d.timezone.Timezone))
	if d != (settingsDraft{aws: v.AWS, retention: v.Retention, timezone: v.Timezone}) {
		fmt.Fprintln(a.out, "(unsaved changes)")
	}
}
