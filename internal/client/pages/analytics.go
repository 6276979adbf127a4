package pages

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/logging"
)

// AnalyticsMonths is how many trailing months the trend view covers.
const AnalyticsMonths = 12

type SeriesSource interface {
	MonthlyMetrics(ctx context.Context) ([]models.MonthlyMetrics, error)
	HourlyMetrics(ctx context.Context) ([]models.HourlyMetrics, error)
}

type AnalyticsData struct {
	Monthly []models.MonthlyMetrics
	Hourly  []models.HourlyMetrics
}

type Analytics struct {
	src    SeriesSource
	logger logging.Logger
	data   loader[AnalyticsData]
}

func NewAnalytics(src SeriesSource, deps Deps) *Analytics {
	deps = deps.withDefaults("analytics")
	return &Analytics{src: src, logger: deps.Logger}
}

func (a *Analytics) Mount(ctx context.Context) error {
	_, err := a.data.run(ctx, false, func(ctx context.Context) (*AnalyticsData, error) {
		var (
			wg                sync.WaitGroup
			out               AnalyticsData
			monthErr, hourErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			out.Monthly, monthErr = a.src.MonthlyMetrics(ctx)
		}()
		go func() {
			defer wg.Done()
			out.Hourly, hourErr = a.src.HourlyMetrics(ctx)
		}()
		wg.Wait()

		if err := errors.Join(monthErr, hourErr); err != nil {
			return nil, err
		}
		out.Monthly = models.LastMonths(out.Monthly, AnalyticsMonths)
		return &out, nil
	})
	if err != nil {
		a.logger.Error(ctx, "failed to load analytics data", "error", err)
	}
	return err
}

type AnalyticsView struct {
	Loading             bool
	HasData             bool
	Monthly             []models.MonthlyMetrics
	Hourly              []models.HourlyMetrics
	TotalSends          int
	AverageDeliveryRate float64
	PeakHour            string
	HoursBySends        []models.HourlyMetrics
}

func (a *Analytics) View() AnalyticsView {
	snap := a.data.snapshot()
	v := AnalyticsView{Loading: snap.loading}
	if snap.loading || snap.data == nil {
		return v
	}
	v.HasData = true
	v.Monthly = snap.data.Monthly
	v.Hourly = snap.data.Hourly
	v.TotalSends = models.TotalSends(v.Monthly)
	v.AverageDeliveryRate = models.AverageDeliveryRate(v.Monthly)
	if peak, ok := models.PeakHour(v.Hourly); ok {
		v.PeakHour = models.HourLabel(peak.Hour)
	}
	v.HoursBySends = models.TopHours(v.Hourly, -1)
	return v
}
