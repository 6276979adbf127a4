package pages

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/logging"
)

// DashboardDays is how many trailing days the overview charts cover.
const DashboardDays = 7

type MetricsSource interface {
	Metrics(ctx context.Context) (*models.Metrics, error)
	DailyMetrics(ctx context.Context) ([]models.DailyMetrics, error)
}

type DashboardData struct {
	Metrics models.Metrics
	Daily   []models.DailyMetrics
}

// Dashboard shows aggregate counters and the recent daily series.
type Dashboard struct {
	src    MetricsSource
	logger logging.Logger
	data   loader[DashboardData]
}

func NewDashboard(src MetricsSource, deps Deps) *Dashboard {
	deps = deps.withDefaults("dashboard")
	return &Dashboard{src: src, logger: deps.Logger}
}

func (d *Dashboard) Mount(ctx context.Context) error {
	return d.load(ctx, false)
}

// Refresh reloads while the current figures stay on screen.
func (d *Dashboard) Refresh(ctx context.Context) error {
	return d.load(ctx, true)
}

func (d *Dashboard) load(ctx context.Context, quiet bool) error {
	_, err := d.data.run(ctx, quiet, func(ctx context.Context) (*DashboardData, error) {
		var (
			wg               sync.WaitGroup
			metrics          *models.Metrics
			daily            []models.DailyMetrics
			metricsErr, dErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			metrics, metricsErr = d.src.Metrics(ctx)
		}()
		go func() {
			defer wg.Done()
			daily, dErr = d.src.DailyMetrics(ctx)
		}()
		wg.Wait()

		if err := errors.Join(metricsErr, dErr); err != nil {
			return nil, err
		}
		return &DashboardData{Metrics: *metrics, Daily: models.LastDays(daily, DashboardDays)}, nil
	})
	if err != nil {
		d.logger.Error(ctx, "failed to load dashboard data", "error", err)
	}
	return err
}

type DashboardView struct {
	Loading    bool
	Refreshing bool
	HasData    bool
	Metrics    models.Metrics
	Daily      []models.DailyMetrics
	Engagement float64
}

func (d *Dashboard) View() DashboardView {
	snap := d.data.snapshot()
	v := DashboardView{Loading: snap.loading, Refreshing: snap.refreshing}
	if snap.loading || snap.data == nil {
		return v
	}
	v.HasData = true
	v.Metrics = snap.data.Metrics
	v.Daily = snap.data.Daily
	v.Engagement = snap.data.Metrics.Engagement()
	return v
}
