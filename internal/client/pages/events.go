package pages

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/sesdash/internal/client/api"
	"github.com/dmitrijs2005/sesdash/internal/client/debounce"
	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/logging"
)

type EventsSource interface {
	Events(ctx context.Context, q models.EventsQuery) (*models.EventsPage, error)
}

// Events is the paginated, filterable event log.
type Events struct {
	src      EventsSource
	fallback EventsSource
	logger   logging.Logger
	pageSize int

	life   lifecycle
	data   loader[models.EventsPage]
	search *debounce.Debouncer[string]

	mu    sync.Mutex
	query models.EventsQuery
	input string
}

// NewEvents builds the controller. When fallback is non-nil a failed fetch
// is retried once through it, except for 401 answers.
func NewEvents(src, fallback EventsSource, deps Deps) *Events {
	deps = deps.withDefaults("events")
	e := &Events{
		src:      src,
		fallback: fallback,
		logger:   deps.Logger,
		pageSize: deps.PageSize,
		query:    models.EventsQuery{Page: 1, Limit: deps.PageSize},
	}
	e.search = debounce.New("", deps.DebounceDelay, e.onSearch, debounce.WithClock(deps.Clock))
	return e
}

// Mount resets the parameters and loads the first page.
func (e *Events) Mount(ctx context.Context) error {
	e.life.start(ctx)
	e.search.Reset("")

	e.mu.Lock()
	e.query = models.EventsQuery{Page: 1, Limit: e.pageSize}
	e.input = ""
	q := e.query
	e.mu.Unlock()

	return e.fetch(ctx, q)
}

func (e *Events) Unmount() {
	e.search.Cancel()
	e.life.stop()
}

// TypeSearch records search box input. The query changes once typing has
// paused for the debounce delay.
func (e *Events) TypeSearch(text string) {
	e.mu.Lock()
	e.input = text
	e.mu.Unlock()
	e.search.Set(text)
}

// SubmitSearch applies the typed text right away.
func (e *Events) SubmitSearch(ctx context.Context) error {
	e.mu.Lock()
	text := e.input
	e.mu.Unlock()

	e.search.Reset(text)
	return e.applyFilter(ctx, func(q *models.EventsQuery) { q.Search = text })
}

func (e *Events) SetStartDate(ctx context.Context, date string) error {
	return e.applyFilter(ctx, func(q *models.EventsQuery) { q.StartDate = date })
}

func (e *Events) SetEndDate(ctx context.Context, date string) error {
	return e.applyFilter(ctx, func(q *models.EventsQuery) { q.EndDate = date })
}

func (e *Events) SetPageSize(ctx context.Context, n int) error {
	if n < 1 {
		return ErrPageRange
	}
	return e.applyFilter(ctx, func(q *models.EventsQuery) { q.Limit = n })
}

// ClearFilters drops search text and dates and reloads page one.
func (e *Events) ClearFilters(ctx context.Context) error {
	e.mu.Lock()
	e.input = ""
	e.mu.Unlock()

	e.search.Reset("")
	return e.applyFilter(ctx, func(q *models.EventsQuery) {
		q.Search, q.StartDate, q.EndDate = "", "", ""
	})
}

func (e *Events) Next(ctx context.Context) error {
	return e.navigate(ctx, func(p models.Pagination) (int, error) {
		if !p.HasNext {
			return 0, ErrNoNextPage
		}
		return p.Page + 1, nil
	})
}

func (e *Events) Prev(ctx context.Context) error {
	return e.navigate(ctx, func(p models.Pagination) (int, error) {
		if !p.HasPrev {
			return 0, ErrNoPrevPage
		}
		return p.Page - 1, nil
	})
}

func (e *Events) First(ctx context.Context) error {
	return e.navigate(ctx, func(p models.Pagination) (int, error) {
		if !p.HasPrev {
			return 0, ErrNoPrevPage
		}
		return 1, nil
	})
}

func (e *Events) Last(ctx context.Context) error {
	return e.navigate(ctx, func(p models.Pagination) (int, error) {
		if !p.HasNext {
			return 0, ErrNoNextPage
		}
		return p.TotalPages, nil
	})
}

// GoTo loads page n. Asking for the page already shown does nothing.
func (e *Events) GoTo(ctx context.Context, n int) error {
	return e.navigate(ctx, func(p models.Pagination) (int, error) {
		if n < 1 || n > p.TotalPages {
			return 0, ErrPageRange
		}
		return n, nil
	})
}

func (e *Events) navigate(ctx context.Context, target func(models.Pagination) (int, error)) error {
	snap := e.data.snapshot()
	if snap.loading || snap.refreshing {
		return ErrLoading
	}
	if snap.data == nil || snap.data.Pagination == nil {
		return ErrNoData
	}

	current := *snap.data.Pagination
	page, err := target(current)
	if err != nil {
		return err
	}
	if page == current.Page {
		return nil
	}

	e.mu.Lock()
	e.query.Page = page
	q := e.query
	e.mu.Unlock()

	return e.fetch(ctx, q)
}

func (e *Events) onSearch(text string) {
	ctx, ok := e.life.context()
	if !ok {
		return
	}
	_ = e.applyFilter(ctx, func(q *models.EventsQuery) { q.Search = text })
}

// applyFilter changes a query parameter; list views always go back to page
// one when a filter changes.
func (e *Events) applyFilter(ctx context.Context, mutate func(*models.EventsQuery)) error {
	e.mu.Lock()
	mutate(&e.query)
	e.query.Page = 1
	q := e.query
	e.mu.Unlock()

	return e.fetch(ctx, q)
}

func (e *Events) fetch(ctx context.Context, q models.EventsQuery) error {
	_, err := e.data.run(ctx, false, func(ctx context.Context) (*models.EventsPage, error) {
		page, err := e.src.Events(ctx, q)
		if err == nil || e.fallback == nil || api.IsUnauthorized(err) || ctx.Err() != nil {
			return page, err
		}
		e.logger.Error(ctx, "failed to load events, retrying via fallback", "error", err)
		return e.fallback.Events(ctx, q)
	})
	if err != nil {
		e.logger.Error(ctx, "failed to load events", "error", err, "page", q.Page)
	}
	return err
}

// EventsView is what the events screen renders. While Loading is set no
// rows are exposed.
type EventsView struct {
	Loading     bool
	HasData     bool
	Events      []models.Event
	Pagination  models.Pagination
	Query       models.EventsQuery
	SearchInput string
	RangeText   string
	CanPrev     bool
	CanNext     bool
	EmptyHint   string
}

func (e *Events) View() EventsView {
	snap := e.data.snapshot()

	e.mu.Lock()
	v := EventsView{Query: e.query, SearchInput: e.input}
	e.mu.Unlock()

	if snap.loading {
		v.Loading = true
		return v
	}
	if snap.data == nil || snap.data.Pagination == nil {
		return v
	}

	v.HasData = true
	v.Events = snap.data.Events
	v.Pagination = *snap.data.Pagination
	v.RangeText = v.Pagination.RangeText()
	v.CanPrev = v.Pagination.HasPrev
	v.CanNext = v.Pagination.HasNext
	if len(v.Events) == 0 {
		if v.Query.HasFilters() {
			v.EmptyHint = "No events match your search criteria. Try adjusting your filters."
		} else {
			v.EmptyHint = "No events available at the moment."
		}
	}
	return v
}
