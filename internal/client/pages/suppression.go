package pages

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/sesdash/internal/client/api"
	"github.com/dmitrijs2005/sesdash/internal/client/debounce"
	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/client/poller"
	"github.com/dmitrijs2005/sesdash/internal/client/status"
	"github.com/dmitrijs2005/sesdash/internal/logging"
)

type SuppressionSource interface {
	Suppressions(ctx context.Context, q models.SuppressionQuery) (*models.SuppressionList, error)
	AddSuppression(ctx context.Context, email, reason string) error
	RemoveSuppression(ctx context.Context, email string) error
	SuppressionAWSStatus(ctx context.Context, email string) (*models.SuppressionStatus, error)
	BulkAddSuppressions(ctx context.Context, emails []string, reason string) (*models.BulkResult, error)
	BulkRemoveSuppressions(ctx context.Context, emails []string) (*models.BulkResult, error)
	SyncStatus(ctx context.Context) (*models.SyncStatus, error)
	TriggerSync(ctx context.Context) (string, error)
}

// Suppression manages the suppression list and watches the background sync.
type Suppression struct {
	src     SuppressionSource
	logger  logging.Logger
	actions *actions

	life   lifecycle
	list   loader[models.SuppressionList]
	sync   loader[models.SyncStatus]
	search *debounce.Debouncer[string]
	poll   *poller.Poller
	limit  int

	mu       sync.Mutex
	query    models.SuppressionQuery
	input    string
	selected []string
}

func NewSuppression(src SuppressionSource, deps Deps) *Suppression {
	deps = deps.withDefaults("suppression")
	s := &Suppression{
		src:     src,
		logger:  deps.Logger,
		actions: newActions(deps.Banner),
		limit:   deps.PageSize,
		query:   models.SuppressionQuery{Page: 1, Limit: deps.PageSize},
	}
	s.search = debounce.New("", deps.DebounceDelay, s.onSearch, debounce.WithClock(deps.Clock))
	s.poll = poller.New(deps.PollInterval, s.loadSyncStatus, poller.WithClock(deps.Clock), poller.WithLogger(deps.Logger))
	return s
}

// Mount loads the list and sync status and starts the status poll.
func (s *Suppression) Mount(ctx context.Context) error {
	s.poll.Stop()
	lctx := s.life.start(ctx)
	s.search.Reset("")

	s.mu.Lock()
	s.query = models.SuppressionQuery{Page: 1, Limit: s.limit}
	s.input = ""
	s.selected = nil
	q := s.query
	s.mu.Unlock()

	_ = s.loadSyncStatus(ctx)
	s.poll.Start(lctx)
	return s.fetch(ctx, q)
}

// Unmount stops polling and any pending debounced search.
func (s *Suppression) Unmount() {
	s.poll.Stop()
	s.search.Cancel()
	s.life.stop()
}

func (s *Suppression) TypeSearch(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
	s.search.Set(text)
}

func (s *Suppression) SubmitSearch(ctx context.Context) error {
	s.mu.Lock()
	text := s.input
	s.mu.Unlock()

	s.search.Reset(text)
	return s.applySearch(ctx, text)
}

func (s *Suppression) onSearch(text string) {
	ctx, ok := s.life.context()
	if !ok {
		return
	}
	_ = s.applySearch(ctx, text)
}

func (s *Suppression) applySearch(ctx context.Context, text string) error {
	s.mu.Lock()
	s.query.Search = text
	s.query.Page = 1
	q := s.query
	s.mu.Unlock()
	return s.fetch(ctx, q)
}

func (s *Suppression) Next(ctx context.Context) error {
	return s.navigate(ctx, func(p models.Pagination) (int, error) {
		if !p.HasNext {
			return 0, ErrNoNextPage
		}
		return p.Page + 1, nil
	})
}

func (s *Suppression) Prev(ctx context.Context) error {
	return s.navigate(ctx, func(p models.Pagination) (int, error) {
		if !p.HasPrev {
			return 0, ErrNoPrevPage
		}
		return p.Page - 1, nil
	})
}

func (s *Suppression) GoTo(ctx context.Context, n int) error {
	return s.navigate(ctx, func(p models.Pagination) (int, error) {
		if n < 1 || n > p.TotalPages {
			return 0, ErrPageRange
		}
		return n, nil
	})
}

func (s *Suppression) navigate(ctx context.Context, target func(models.Pagination) (int, error)) error {
	snap := s.list.snapshot()
	if snap.loading || snap.refreshing {
		return ErrLoading
	}
	if snap.data == nil {
		return ErrNoData
	}
	current := snap.data.Pagination()
	page, err := target(current)
	if err != nil {
		return err
	}
	if page == current.Page {
		return nil
	}

	s.mu.Lock()
	s.query.Page = page
	q := s.query
	s.mu.Unlock()
	return s.fetch(ctx, q)
}

func (s *Suppression) reload(ctx context.Context) error {
	s.mu.Lock()
	q := s.query
	s.mu.Unlock()
	return s.fetch(ctx, q)
}

func (s *Suppression) fetch(ctx context.Context, q models.SuppressionQuery) error {
	applied, err := s.list.run(ctx, false, func(ctx context.Context) (*models.SuppressionList, error) {
		return s.src.Suppressions(ctx, q)
	})
	if err != nil {
		s.logger.Error(ctx, "failed to load suppressions", "error", err)
		return err
	}
	if applied {
		s.pruneSelection()
	}
	return nil
}

func (s *Suppression) loadSyncStatus(ctx context.Context) error {
	_, err := s.sync.run(ctx, true, s.src.SyncStatus)
	if err != nil {
		s.logger.Error(ctx, "failed to load sync status", "error", err)
	}
	return err
}

// awsEnabled is false only once the backend has said the integration is off.
func (s *Suppression) awsEnabled() bool {
	snap := s.sync.snapshot()
	return snap.data == nil || snap.data.AWSEnabled
}

// Toggle adds email to the selection or removes it.
func (s *Suppression) Toggle(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.selected {
		if e == email {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return
		}
	}
	s.selected = append(s.selected, email)
}

// SelectAll selects every listed address, or clears the selection when all
// of them are already selected.
func (s *Suppression) SelectAll() {
	snap := s.list.snapshot()
	if snap.data == nil {
		return
	}
	all := make([]string, 0, len(snap.data.Suppressions))
	for _, e := range snap.data.Suppressions {
		all = append(all, e.Email)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.selected) == len(all) {
		s.selected = nil
		return
	}
	s.selected = all
}

func (s *Suppression) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.selected...)
}

func (s *Suppression) pruneSelection() {
	snap := s.list.snapshot()
	if snap.data == nil {
		return
	}
	listed := make(map[string]struct{}, len(snap.data.Suppressions))
	for _, e := range snap.data.Suppressions {
		listed[e.Email] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.selected[:0]
	for _, e := range s.selected {
		if _, ok := listed[e]; ok {
			kept = append(kept, e)
		}
	}
	s.selected = kept
}

func (s *Suppression) Add(ctx context.Context, email, reason string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmptyInput
	}
	if !s.awsEnabled() {
		return ErrAWSDisabled
	}
	if reason == "" {
		reason = models.ReasonManual
	}
	return s.actions.do(ctx, "add", func(ctx context.Context) (status.Message, error) {
		if err := s.src.AddSuppression(ctx, email, reason); err != nil {
			return status.Error(api.Message(err, "Failed to add email")), err
		}
		_ = s.reload(ctx)
		return status.Success("Email added to suppression list"), nil
	})
}

func (s *Suppression) Remove(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmptyInput
	}
	if !s.awsEnabled() {
		return ErrAWSDisabled
	}
	return s.actions.do(ctx, "remove:"+email, func(ctx context.Context) (status.Message, error) {
		if err := s.src.RemoveSuppression(ctx, email); err != nil {
			return status.Error(api.Message(err, "Failed to remove email")), err
		}
		_ = s.reload(ctx)
		return status.Success("Email removed from AWS SES suppression list"), nil
	})
}

// BulkAdd suppresses every address in text, one per line.
func (s *Suppression) BulkAdd(ctx context.Context, text, reason string) error {
	emails := models.SplitEmails(text)
	if len(emails) == 0 {
		return ErrEmptyInput
	}
	if !s.awsEnabled() {
		return ErrAWSDisabled
	}
	if reason == "" {
		reason = models.ReasonBulk
	}
	return s.actions.do(ctx, "bulk", func(ctx context.Context) (status.Message, error) {
		res, err := s.src.BulkAddSuppressions(ctx, emails, reason)
		if err != nil {
			return status.Error(api.Message(err, "Failed to bulk add emails")), err
		}
		_ = s.reload(ctx)
		return bulkMessage("Bulk add", res), nil
	})
}

// BulkRemove removes the selected addresses, or those in text when nothing
// is selected.
func (s *Suppression) BulkRemove(ctx context.Context, text string) error {
	emails := s.Selected()
	fromSelection := len(emails) > 0
	if !fromSelection {
		emails = models.SplitEmails(text)
	}
	if len(emails) == 0 {
		return ErrEmptyInput
	}
	if !s.awsEnabled() {
		return ErrAWSDisabled
	}
	return s.actions.do(ctx, "bulk", func(ctx context.Context) (status.Message, error) {
		res, err := s.src.BulkRemoveSuppressions(ctx, emails)
		if err != nil {
			return status.Error(api.Message(err, "Failed to bulk remove emails")), err
		}
		if fromSelection {
			s.mu.Lock()
			s.selected = nil
			s.mu.Unlock()
		}
		_ = s.reload(ctx)
		return bulkMessage("Bulk remove", res), nil
	})
}

// bulkMessage is error-styled whenever any address failed.
func bulkMessage(op string, res *models.BulkResult) status.Message {
	text := fmt.Sprintf("%s completed: %d success, %d failed", op, res.SuccessCount, res.FailedCount)
	if res.FailedCount > 0 || len(res.FailedEmails) > 0 {
		if len(res.FailedEmails) > 0 {
			text += " (" + strings.Join(res.FailedEmails, ", ") + ")"
		}
		return status.Error(text)
	}
	return status.Success(text).For(status.ErrorDismiss)
}

// CheckStatus asks the provider about one address and reports it on the
// banner.
func (s *Suppression) CheckStatus(ctx context.Context, email string) (*models.SuppressionStatus, error) {
	if email == "" {
		return nil, ErrEmptyInput
	}
	var st *models.SuppressionStatus
	err := s.actions.do(ctx, "status:"+email, func(ctx context.Context) (status.Message, error) {
		var err error
		st, err = s.src.SuppressionAWSStatus(ctx, email)
		if err != nil {
			return status.Error(api.Message(err, "Failed to check AWS status")), err
		}
		state := "Not Suppressed"
		if st.Suppressed {
			state = "Suppressed"
		}
		return status.Info(fmt.Sprintf("AWS Status for %s: %s (Reason: %s)", email, state, st.Reason)), nil
	})
	return st, err
}

// TriggerSync asks the backend to sync now and refreshes the sync status.
func (s *Suppression) TriggerSync(ctx context.Context) error {
	if !s.awsEnabled() {
		return ErrAWSDisabled
	}
	return s.actions.do(ctx, "sync", func(ctx context.Context) (status.Message, error) {
		ack, err := s.src.TriggerSync(ctx)
		if err != nil {
			return status.Error(api.Message(err, "Failed to trigger sync")), err
		}
		_ = s.loadSyncStatus(ctx)
		if ack == "" {
			ack = "Sync triggered. Data will be updated in background."
		}
		return status.Success(ack), nil
	})
}

func (s *Suppression) Busy(action string) bool {
	return s.actions.busy(action)
}

type SuppressionView struct {
	Loading    bool
	HasData    bool
	Entries    []models.SuppressionEntry
	Pagination models.Pagination
	RangeText  string
	Notice     string
	Selected   []string
	Sync       *models.SyncStatus
	AWSEnabled bool
	Syncing    bool
}

func (s *Suppression) View() SuppressionView {
	list := s.list.snapshot()
	st := s.sync.snapshot()

	v := SuppressionView{
		Selected:   s.Selected(),
		Sync:       st.data,
		AWSEnabled: s.awsEnabled(),
		Syncing:    s.actions.busy("sync"),
	}
	if list.loading {
		v.Loading = true
		return v
	}
	if list.data == nil {
		return v
	}
	v.HasData = true
	v.Entries = list.data.Suppressions
	v.Pagination = list.data.Pagination()
	v.RangeText = v.Pagination.RangeText()
	v.Notice = list.data.Message
	return v
}
