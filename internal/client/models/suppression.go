package models

import "strings"

// Default reasons used when the operator leaves the field empty.
const (
	ReasonManual = "Manually added"
	ReasonBulk   = "Bulk added"
)

// SuppressionEntry is one suppressed address.
type SuppressionEntry struct {
	ID              int    `json:"id"`
	Email           string `json:"email" validate:"required"`
	SuppressionType string `json:"suppression_type"`
	Reason          string `json:"reason"`
	Source          string `json:"source,omitempty"`
	AWSStatus       string `json:"aws_status"`
	IsActive        bool   `json:"is_active"`
	CreatedAt       string `json:"created_at"`
	AddedByName     string `json:"added_by_name,omitempty"`
}

// SuppressionList is the body of GET /api/suppression. Message is set when
// the backend returns an empty list because the AWS integration is off.
type SuppressionList struct {
	Suppressions []SuppressionEntry `json:"suppressions" validate:"dive"`
	Total        int                `json:"total" validate:"gte=0"`
	Page         int                `json:"page" validate:"gte=0"`
	Limit        int                `json:"limit" validate:"gte=0"`
	TotalPages   int                `json:"total_pages" validate:"gte=0"`
	HasNext      bool               `json:"has_next"`
	HasPrev      bool               `json:"has_prev"`
	Message      string             `json:"message,omitempty"`
}

// Pagination adapts the flat list fields to the shared descriptor.
func (l SuppressionList) Pagination() Pagination {
	return Pagination{
		Page:       l.Page,
		Limit:      l.Limit,
		Total:      l.Total,
		TotalPages: l.TotalPages,
		HasNext:    l.HasNext,
		HasPrev:    l.HasPrev,
	}
}

// SuppressionQuery holds the parameters of a suppression listing. Zero
// values are omitted from the request.
type SuppressionQuery struct {
	Page   int
	Limit  int
	Search string
}

type AddSuppressionRequest struct {
	Email  string `json:"email" binding:"required"`
	Reason string `json:"reason"`
}

type BulkSuppressionRequest struct {
	Emails []string `json:"emails" binding:"required,min=1"`
	Reason string   `json:"reason,omitempty"`
}

// BulkResult reports the outcome of a bulk add or remove.
type BulkResult struct {
	Message      string   `json:"message"`
	SuccessCount int      `json:"success_count" validate:"gte=0"`
	FailedCount  int      `json:"failed_count" validate:"gte=0"`
	FailedEmails []string `json:"failed_emails"`
}

// SuppressionStatus is the upstream provider's view of one address.
type SuppressionStatus struct {
	Email      string `json:"email"`
	Suppressed bool   `json:"suppressed"`
	Reason     string `json:"reason"`
	LastUpdate string `json:"last_update"`
}

// SyncStatus describes the background suppression sync job.
type SyncStatus struct {
	LastSync   string `json:"last_sync"`
	InProgress bool   `json:"in_progress"`
	NextSyncIn string `json:"next_sync_in"`
	DBCount    int    `json:"db_count"`
	AWSEnabled bool   `json:"aws_enabled"`
}

// SplitEmails turns pasted text into addresses, one per line, dropping
// blanks and surrounding whitespace.
func SplitEmails(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if e := strings.TrimSpace(line); e != "" {
			out = append(out, e)
		}
	}
	return out
}
