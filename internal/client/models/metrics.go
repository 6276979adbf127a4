package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Counts is the per-type tally shared by the aggregate and bucketed metrics.
type Counts struct {
	TotalEvents    int     `json:"total_events" validate:"gte=0"`
	SendCount      int     `json:"send_count" validate:"gte=0"`
	DeliveryCount  int     `json:"delivery_count" validate:"gte=0"`
	BounceCount    int     `json:"bounce_count" validate:"gte=0"`
	ComplaintCount int     `json:"complaint_count" validate:"gte=0"`
	OpenCount      int     `json:"open_count" validate:"gte=0"`
	ClickCount     int     `json:"click_count" validate:"gte=0"`
	BounceRate     float64 `json:"bounce_rate"`
	DeliveryRate   float64 `json:"delivery_rate"`
}

// Add accumulates one event of the given type.
func (c *Counts) Add(eventType string) {
	c.TotalEvents++
	switch eventType {
	case EventTypeSend:
		c.SendCount++
	case EventTypeDelivery:
		c.DeliveryCount++
	case EventTypeBounce:
		c.BounceCount++
	case EventTypeComplaint:
		c.ComplaintCount++
	case EventTypeOpen:
		c.OpenCount++
	case EventTypeClick:
		c.ClickCount++
	}
}

// ComputeRates fills BounceRate and DeliveryRate as percentages of sends.
func (c *Counts) ComputeRates() {
	if c.SendCount == 0 {
		c.BounceRate, c.DeliveryRate = 0, 0
		return
	}
	c.BounceRate = float64(c.BounceCount) / float64(c.SendCount) * 100
	c.DeliveryRate = float64(c.DeliveryCount) / float64(c.SendCount) * 100
}

// Metrics is the body of GET /api/metrics.
type Metrics struct {
	Counts
}

// Engagement is opens plus clicks as a percentage of deliveries.
func (m Metrics) Engagement() float64 {
	d := m.DeliveryCount
	if d < 1 {
		d = 1
	}
	return float64(m.OpenCount+m.ClickCount) / float64(d) * 100
}

type DailyMetrics struct {
	Date string `json:"date" validate:"required"`
	Counts
}

type MonthlyMetrics struct {
	Month string `json:"month" validate:"required"`
	Counts
}

type HourlyMetrics struct {
	Hour string `json:"hour" validate:"required"`
	Counts
}

type DailySeries struct {
	DailyMetrics []DailyMetrics `json:"daily_metrics" validate:"dive"`
}

type MonthlySeries struct {
	MonthlyMetrics []MonthlyMetrics `json:"monthly_metrics" validate:"dive"`
}

type HourlySeries struct {
	HourlyMetrics []HourlyMetrics `json:"hourly_metrics" validate:"dive"`
}

// LastDays returns at most n trailing entries of s.
func LastDays(s []DailyMetrics, n int) []DailyMetrics {
	if n < 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// LastMonths returns at most n trailing entries of s.
func LastMonths(s []MonthlyMetrics, n int) []MonthlyMetrics {
	if n < 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// TotalSends sums the send counts of the monthly series.
func TotalSends(s []MonthlyMetrics) int {
	total := 0
	for _, m := range s {
		total += m.SendCount
	}
	return total
}

// AverageDeliveryRate is the mean per-month delivered/sent ratio, in percent.
func AverageDeliveryRate(s []MonthlyMetrics) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, m := range s {
		sends := m.SendCount
		if sends < 1 {
			sends = 1
		}
		sum += float64(m.DeliveryCount) / float64(sends)
	}
	return sum / float64(len(s)) * 100
}

// PeakHour returns the bucket with the most sends. The earliest bucket wins
// ties. ok is false for an empty series.
func PeakHour(s []HourlyMetrics) (peak HourlyMetrics, ok bool) {
	for i, h := range s {
		if i == 0 || h.SendCount > peak.SendCount {
			peak = h
		}
	}
	return peak, len(s) > 0
}

// TopHours returns up to n buckets ordered by send count, highest first.
func TopHours(s []HourlyMetrics, n int) []HourlyMetrics {
	sorted := make([]HourlyMetrics, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SendCount > sorted[j].SendCount
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ParseHour extracts the hour from "YYYY-MM-DD HH:MM" or "HH:MM".
func ParseHour(value string) (int, error) {
	timePart := value
	if _, after, found := strings.Cut(value, " "); found {
		timePart = after
	}
	hourPart, _, _ := strings.Cut(timePart, ":")
	h, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return 0, fmt.Errorf("parse hour %q: %w", value, err)
	}
	return h, nil
}

// HourLabel renders a bucket as "H:00", or verbatim when unparsable.
func HourLabel(value string) string {
	h, err := ParseHour(value)
	if err != nil {
		return value
	}
	return fmt.Sprintf("%d:00", h)
}
