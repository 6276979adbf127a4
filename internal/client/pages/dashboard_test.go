package pages

import (
	"context"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/sesdash/internal/client/api"
	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMetrics struct {
	metrics  models.Metrics
	daily    []models.DailyMetrics
	monthly  []models.MonthlyMetrics
	hourly   []models.HourlyMetrics
	dailyErr error
}

func (f *fakeMetrics) Metrics(context.Context) (*models.Metrics, error) {
	m := f.metrics
	return &m, nil
}

func (f *fakeMetrics) DailyMetrics(context.Context) ([]models.DailyMetrics, error) {
	return f.daily, f.dailyErr
}

func (f *fakeMetrics) MonthlyMetrics(context.Context) ([]models.MonthlyMetrics, error) {
	return f.monthly, nil
}

func (f *fakeMetrics) HourlyMetrics(context.Context) ([]models.HourlyMetrics, error) {
	return f.hourly, nil
}

func days(n int) []models.DailyMetrics {
	out := make([]models.DailyMetrics, n)
	for i := range out {
		out[i] = models.DailyMetrics{Date: fmt.Sprintf("2024-01-%02d", i+1)}
	}
	return out
}

func TestDashboard_KeepsLastSevenDays(t *testing.T) {
	deps, _ := testDeps()
	src := &fakeMetrics{
		metrics: models.Metrics{Counts: models.Counts{SendCount: 10, DeliveryCount: 10, OpenCount: 3, ClickCount: 2}},
		daily:   days(10),
	}
	d := NewDashboard(src, deps)
	require.NoError(t, d.Mount(context.Background()))

	v := d.View()
	require.True(t, v.HasData)
	require.Len(t, v.Daily, DashboardDays)
	assert.Equal(t, "2024-01-04", v.Daily[0].Date)
	assert.Equal(t, "2024-01-10", v.Daily[6].Date)
	assert.InDelta(t, 50.0, v.Engagement, 0.001)
}

func TestDashboard_RefreshFailureKeepsFigures(t *testing.T) {
	deps, _ := testDeps()
	src := &fakeMetrics{daily: days(3)}
	d := NewDashboard(src, deps)
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx))

	src.dailyErr = api.ErrUnavailable
	assert.ErrorIs(t, d.Refresh(ctx), api.ErrUnavailable)

	v := d.View()
	assert.True(t, v.HasData)
	assert.False(t, v.Refreshing)
	assert.Len(t, v.Daily, 3)
}

func TestDashboard_FailedMountHasNoData(t *testing.T) {
	deps, _ := testDeps()
	d := NewDashboard(&fakeMetrics{dailyErr: api.ErrUnavailable}, deps)

	assert.Error(t, d.Mount(context.Background()))
	v := d.View()
	assert.False(t, v.Loading)
	assert.False(t, v.HasData)
}

func TestAnalytics_Summary(t *testing.T) {
	deps, _ := testDeps()
	months := make([]models.MonthlyMetrics, 14)
	for i := range months {
		months[i] = models.MonthlyMetrics{
			Month:  fmt.Sprintf("m%02d", i+1),
			Counts: models.Counts{SendCount: 10, DeliveryCount: 9},
		}
	}
	src := &fakeMetrics{
		monthly: months,
		hourly: []models.HourlyMetrics{
			{Hour: "8", Counts: models.Counts{SendCount: 5}},
			{Hour: "9", Counts: models.Counts{SendCount: 12}},
			{Hour: "10", Counts: models.Counts{SendCount: 12}},
		},
	}
	a := NewAnalytics(src, deps)
	require.NoError(t, a.Mount(context.Background()))

	v := a.View()
	require.True(t, v.HasData)
	assert.Len(t, v.Monthly, AnalyticsMonths)
	assert.Equal(t, "m03", v.Monthly[0].Month)
	assert.Equal(t, 120, v.TotalSends)
	assert.InDelta(t, 90.0, v.AverageDeliveryRate, 0.001)
	assert.Equal(t, "9:00", v.PeakHour)
	assert.Equal(t, []string{"9", "10", "8"}, []string{v.HoursBySends[0].Hour, v.HoursBySends[1].Hour, v.HoursBySends[2].Hour})
}
