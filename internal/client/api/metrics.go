package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
)

func (c *Client) Metrics(ctx context.Context) (*models.Metrics, error) {
	var m models.Metrics
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/metrics", out: &m, failText: "Failed to load metrics"}); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DailyMetrics(ctx context.Context) ([]models.DailyMetrics, error) {
	var s models.DailySeries
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/metrics/daily", out: &s, failText: "Failed to load daily metrics"}); err != nil {
		return nil, err
	}
	return s.DailyMetrics, nil
}

func (c *Client) MonthlyMetrics(ctx context.Context) ([]models.MonthlyMetrics, error) {
	var s models.MonthlySeries
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/metrics/monthly", out: &s, failText: "Failed to load monthly metrics"}); err != nil {
		return nil, err
	}
	return s.MonthlyMetrics, nil
}

func (c *Client) HourlyMetrics(ctx context.Context) ([]models.HourlyMetrics, error) {
	var s models.HourlySeries
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/metrics/hourly", out: &s, failText: "Failed to load hourly metrics"}); err != nil {
		return nil, err
	}
	return s.HourlyMetrics, nil
}
