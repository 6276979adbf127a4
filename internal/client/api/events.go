package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
)

// Events lists one page of email events. Empty filters are not sent.
func (c *Client) Events(ctx context.Context, q models.EventsQuery) (*models.EventsPage, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.StartDate != "" {
		v.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("end_date", q.EndDate)
	}

	var page models.EventsPage
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/events", query: v, out: &page, failText: "Failed to load events"}); err != nil {
		return nil, err
	}
	return &page, nil
}
