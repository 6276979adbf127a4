package pages

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/client/status"
	"github.com/jonboulle/clockwork"
)

// testDeps wires a fake clock and a banner driven by it.
func testDeps() (Deps, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	return Deps{
		Clock:  clock,
		Banner: status.NewBanner(status.WithClock(clock)),
	}, clock
}

func bannerText(d Deps) string {
	m, ok := d.Banner.Current()
	if !ok {
		return ""
	}
	return m.Text
}

func bannerKind(d Deps) status.Kind {
	m, _ := d.Banner.Current()
	return m.Kind
}

// eventsPage fakes a backend with total events, paged by the query.
func eventsPage(q models.EventsQuery, total int) *models.EventsPage {
	p := models.NewPagination(q.Page, q.Limit, total)
	first, last := p.Range()
	var events []models.Event
	for i := first; i <= last && first > 0; i++ {
		events = append(events, models.Event{ID: i, EventType: models.EventTypeSend, Subject: q.Search})
	}
	return &models.EventsPage{Events: events, Pagination: &p}
}

type fakeEvents struct {
	mu      sync.Mutex
	total   int
	err     error
	queries []models.EventsQuery
	hook    func(ctx context.Context, q models.EventsQuery) (*models.EventsPage, error)
}

func (f *fakeEvents) Events(ctx context.Context, q models.EventsQuery) (*models.EventsPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	hook, err, total := f.hook, f.err, f.total
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	return eventsPage(q, total), nil
}

func (f *fakeEvents) calls() []models.EventsQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.EventsQuery(nil), f.queries...)
}

type fakeSuppression struct {
	mu sync.Mutex

	entries    []models.SuppressionEntry
	listCalls  int
	syncCalls  int
	awsEnabled bool

	added      []string
	removed    []string
	bulkResult *models.BulkResult
	bulkErr    error
	addErr     error
	syncErr    error
	bulkCalls  [][]string
	statusHook func(email string) (*models.SuppressionStatus, error)
}

func newFakeSuppression(emails ...string) *fakeSuppression {
	f := &fakeSuppression{awsEnabled: true}
	for i, e := range emails {
		f.entries = append(f.entries, models.SuppressionEntry{ID: i + 1, Email: e})
	}
	return f
}

func (f *fakeSuppression) Suppressions(_ context.Context, q models.SuppressionQuery) (*models.SuppressionList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	p := models.NewPagination(q.Page, q.Limit, len(f.entries))
	first, last := p.Range()
	var page []models.SuppressionEntry
	if first > 0 {
		page = append(page, f.entries[first-1:last]...)
	}
	return &models.SuppressionList{
		Suppressions: page,
		Total:        p.Total,
		Page:         p.Page,
		Limit:        p.Limit,
		TotalPages:   p.TotalPages,
		HasNext:      p.HasNext,
		HasPrev:      p.HasPrev,
	}, nil
}

func (f *fakeSuppression) AddSuppression(_ context.Context, email, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, email+"|"+reason)
	f.entries = append(f.entries, models.SuppressionEntry{ID: len(f.entries) + 1, Email: email, Reason: reason})
	return nil
}

func (f *fakeSuppression) RemoveSuppression(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, email)
	return nil
}

func (f *fakeSuppression) SuppressionAWSStatus(_ context.Context, email string) (*models.SuppressionStatus, error) {
	if f.statusHook != nil {
		return f.statusHook(email)
	}
	return &models.SuppressionStatus{Email: email}, nil
}

func (f *fakeSuppression) bulk(emails []string) (*models.BulkResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCalls = append(f.bulkCalls, emails)
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}
	if f.bulkResult != nil {
		return f.bulkResult, nil
	}
	return &models.BulkResult{SuccessCount: len(emails)}, nil
}

func (f *fakeSuppression) BulkAddSuppressions(_ context.Context, emails []string, _ string) (*models.BulkResult, error) {
	return f.bulk(emails)
}

func (f *fakeSuppression) BulkRemoveSuppressions(_ context.Context, emails []string) (*models.BulkResult, error) {
	return f.bulk(emails)
}

func (f *fakeSuppression) SyncStatus(context.Context) (*models.SyncStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncCalls++
	return &models.SyncStatus{AWSEnabled: f.awsEnabled, NextSyncIn: "5 minutes", DBCount: len(f.entries)}, nil
}

func (f *fakeSuppression) TriggerSync(context.Context) (string, error) {
	if f.syncErr != nil {
		return "", f.syncErr
	}
	return "Sync triggered. Data will be updated in background.", nil
}

func (f *fakeSuppression) counts() (list, sync int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.syncCalls
}

// waitFor is long enough for ticker goroutines to observe a fake clock.
const waitFor = time.Second
