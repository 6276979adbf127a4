package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
)

func (c *Client) AWSSettings(ctx context.Context) (*models.AWSSettings, error) {
	var s models.AWSSettings
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/settings/aws", out: &s, failText: "Failed to load settings"}); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveAWSSettings replaces the stored AWS configuration with s.
func (c *Client) SaveAWSSettings(ctx context.Context, s models.AWSSettings) error {
	return c.do(ctx, call{method: http.MethodPut, path: "/api/settings/aws", body: s, failText: "Failed to save settings"})
}

// TestAWS checks s against AWS without storing it.
func (c *Client) TestAWS(ctx context.Context, s models.AWSSettings) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/api/settings/aws/test", body: s, failText: "AWS connection failed"})
}

func (c *Client) RetentionSettings(ctx context.Context) (*models.RetentionSettings, error) {
	var s models.RetentionSettings
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/settings/retention", out: &s, failText: "Failed to load settings"}); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) SaveRetentionSettings(ctx context.Context, s models.RetentionSettings) error {
	return c.do(ctx, call{method: http.MethodPut, path: "/api/settings/retention", body: s, failText: "Failed to save retention settings"})
}

func (c *Client) TimezoneSettings(ctx context.Context) (*models.TimezoneSettings, error) {
	var s models.TimezoneSettings
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/settings/timezone", out: &s, failText: "Failed to load settings"}); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) SaveTimezoneSettings(ctx context.Context, s models.TimezoneSettings) error {
	return c.do(ctx, call{method: http.MethodPut, path: "/api/settings/timezone", body: s, failText: "Failed to save timezone settings"})
}
