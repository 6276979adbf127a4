package models

// Event types reported by the sending service.
const (
	EventTypeSend      = "send"
	EventTypeDelivery  = "delivery"
	EventTypeBounce    = "bounce"
	EventTypeComplaint = "complaint"
	EventTypeOpen      = "open"
	EventTypeClick     = "click"
)

// Event is one email lifecycle notification. The backend serialises it with
// capitalised keys.
type Event struct {
	ID                   int     `json:"ID"`
	MessageID            string  `json:"MessageID"`
	Email                string  `json:"Email"`
	Subject              string  `json:"Subject"`
	EventType            string  `json:"EventType" validate:"required"`
	Status               string  `json:"Status"`
	Reason               *string `json:"Reason,omitempty"`
	Source               string  `json:"Source"`
	Recipients           string  `json:"Recipients"`
	EventTimestamp       string  `json:"EventTimestamp"`
	BounceType           *string `json:"BounceType,omitempty"`
	BounceSubType        *string `json:"BounceSubType,omitempty"`
	DiagnosticCode       *string `json:"DiagnosticCode,omitempty"`
	ProcessingTimeMillis *int    `json:"ProcessingTimeMillis,omitempty"`
	SmtpResponse         *string `json:"SmtpResponse,omitempty"`
	RemoteMtaIP          *string `json:"RemoteMtaIp,omitempty"`
	ReportingMTA         *string `json:"ReportingMTA,omitempty"`
	Tags                 *string `json:"Tags,omitempty"`
}

// EventsPage is the body of GET /api/events.
type EventsPage struct {
	Events     []Event     `json:"events" validate:"dive"`
	Pagination *Pagination `json:"pagination" validate:"required"`
}

// EventsQuery holds the parameters of an events listing.
type EventsQuery struct {
	Page      int
	Limit     int
	Search    string
	StartDate string
	EndDate   string
}

// HasFilters reports whether any narrowing filter is set.
func (q EventsQuery) HasFilters() bool {
	return q.Search != "" || q.StartDate != "" || q.EndDate != ""
}
