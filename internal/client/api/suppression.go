package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
)

func (c *Client) Suppressions(ctx context.Context, q models.SuppressionQuery) (*models.SuppressionList, error) {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}

	var list models.SuppressionList
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/suppression", query: v, out: &list, failText: "Failed to load suppressions"}); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) AddSuppression(ctx context.Context, email, reason string) error {
	return c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/suppression",
		body:     models.AddSuppressionRequest{Email: email, Reason: reason},
		failText: "Failed to add email",
	})
}

func (c *Client) RemoveSuppression(ctx context.Context, email string) error {
	return c.do(ctx, call{
		method:   http.MethodDelete,
		path:     "/api/suppression/" + url.PathEscape(email),
		failText: "Failed to remove email",
	})
}

// SuppressionAWSStatus asks the upstream provider whether email is suppressed.
func (c *Client) SuppressionAWSStatus(ctx context.Context, email string) (*models.SuppressionStatus, error) {
	var st models.SuppressionStatus
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/api/suppression/" + url.PathEscape(email) + "/status",
		out:      &st,
		failText: "Failed to check AWS status",
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) BulkAddSuppressions(ctx context.Context, emails []string, reason string) (*models.BulkResult, error) {
	var res models.BulkResult
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/suppression/bulk",
		body:     models.BulkSuppressionRequest{Emails: emails, Reason: reason},
		out:      &res,
		failText: "Failed to bulk add emails",
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) BulkRemoveSuppressions(ctx context.Context, emails []string) (*models.BulkResult, error) {
	var res models.BulkResult
	err := c.do(ctx, call{
		method:   http.MethodDelete,
		path:     "/api/suppression/bulk",
		body:     models.BulkSuppressionRequest{Emails: emails},
		out:      &res,
		failText: "Failed to bulk remove emails",
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SyncStatus(ctx context.Context) (*models.SyncStatus, error) {
	var st models.SyncStatus
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/suppression/sync/status", out: &st, failText: "Failed to load sync status"}); err != nil {
		return nil, err
	}
	return &st, nil
}

// TriggerSync starts a background sync and returns the backend's
// acknowledgement text.
func (c *Client) TriggerSync(ctx context.Context) (string, error) {
	var ack models.MessageResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/suppression/sync", out: &ack, failText: "Failed to trigger sync"}); err != nil {
		return "", err
	}
	return ack.Message, nil
}
