// Package monitor implements the standalone sync monitor: a small view of
// the suppression sync job, the latest suppressions and an activity log.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/client/poller"
	"github.com/dmitrijs2005/sesdash/internal/logging"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultInterval = 30 * time.Second
	// RecentLimit is how many suppressions the table shows.
	RecentLimit = 10
	// MaxLogEntries caps the activity log; the oldest entries go first.
	MaxLogEntries = 50

	resyncDelay  = 2 * time.Second
	syncCooldown = 3 * time.Second
)

// ErrSyncUnavailable is returned while a sync is running or was just
// triggered.
var ErrSyncUnavailable = errors.New("sync is already running")

type Source interface {
	SyncStatus(ctx context.Context) (*models.SyncStatus, error)
	Suppressions(ctx context.Context, q models.SuppressionQuery) (*models.SuppressionList, error)
	TriggerSync(ctx context.Context) (string, error)
}

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

type LogEntry struct {
	At    time.Time
	Level Level
	Text  string
}

type Monitor struct {
	src      Source
	clock    clockwork.Clock
	logger   logging.Logger
	interval time.Duration
	poll     *poller.Poller

	mu        sync.Mutex
	status    *models.SyncStatus
	statusErr bool
	recent    []models.SuppressionEntry
	recentErr bool
	loaded    bool
	syncBusy  bool
	logs      []LogEntry
	timerSeq  uint64
	timers    map[uint64]clockwork.Timer
}

type Option func(*Monitor)

func WithClock(c clockwork.Clock) Option {
	return func(m *Monitor) { m.clock = c }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

func New(src Source, opts ...Option) *Monitor {
	m := &Monitor{
		src:      src,
		clock:    clockwork.NewRealClock(),
		logger:   logging.Nop{},
		interval: DefaultInterval,
		timers:   make(map[uint64]clockwork.Timer),
	}
	for _, o := range opts {
		o(m)
	}
	m.logger = m.logger.With("module", "monitor")
	m.poll = poller.New(m.interval, m.Refresh, poller.WithClock(m.clock), poller.WithLogger(m.logger))
	return m
}

// Start loads everything once and then refreshes on the poll interval.
func (m *Monitor) Start(ctx context.Context) {
	_ = m.Refresh(ctx)
	m.poll.Start(ctx)
}

// Stop ends polling and drops any scheduled re-read.
func (m *Monitor) Stop() {
	m.poll.Stop()

	m.mu.Lock()
	timers := m.timers
	m.timers = make(map[uint64]clockwork.Timer)
	m.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
}

// Refresh re-reads the sync status and the latest suppressions.
func (m *Monitor) Refresh(ctx context.Context) error {
	return errors.Join(m.loadStatus(ctx), m.loadRecent(ctx))
}

func (m *Monitor) loadStatus(ctx context.Context) error {
	st, err := m.src.SyncStatus(ctx)

	m.mu.Lock()
	if err != nil {
		m.statusErr = true
	} else {
		m.status, m.statusErr = st, false
	}
	m.mu.Unlock()

	if err != nil {
		m.failed(ctx, err)
	}
	return err
}

func (m *Monitor) loadRecent(ctx context.Context) error {
	list, err := m.src.Suppressions(ctx, models.SuppressionQuery{Limit: RecentLimit})

	m.mu.Lock()
	if err != nil {
		m.recentErr = true
	} else {
		m.recent, m.recentErr = list.Suppressions, false
		if len(m.recent) > RecentLimit {
			m.recent = m.recent[:RecentLimit]
		}
	}
	m.loaded = true
	m.mu.Unlock()

	if err != nil {
		m.failed(ctx, err)
	}
	return err
}

func (m *Monitor) failed(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	m.logger.Warn(ctx, "monitor fetch failed", "error", err)
	m.addLog(LevelError, "Error: "+err.Error())
}

// TriggerSync starts a manual sync, then re-reads status and suppressions
// shortly after. The control stays disabled for a short cooldown.
func (m *Monitor) TriggerSync(ctx context.Context) error {
	m.mu.Lock()
	if m.syncBusy || (m.status != nil && m.status.InProgress) {
		m.mu.Unlock()
		return ErrSyncUnavailable
	}
	m.syncBusy = true
	m.mu.Unlock()

	defer m.after(syncCooldown, func() {
		m.mu.Lock()
		m.syncBusy = false
		m.mu.Unlock()
	})

	if _, err := m.src.TriggerSync(ctx); err != nil {
		m.logger.Error(ctx, "manual sync failed", "error", err)
		m.addLog(LevelError, "Failed to trigger sync: "+err.Error())
		return err
	}

	m.addLog(LevelSuccess, "Manual sync triggered successfully")
	m.after(resyncDelay, func() { _ = m.Refresh(ctx) })
	return nil
}

// after schedules fn and tracks the timer until it fires or Stop runs.
func (m *Monitor) after(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.timerSeq++
	id := m.timerSeq
	m.timers[id] = m.clock.AfterFunc(d, func() {
		m.mu.Lock()
		delete(m.timers, id)
		m.mu.Unlock()
		fn()
	})
}

func (m *Monitor) pendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// addLog prepends an entry, newest first.
func (m *Monitor) addLog(level Level, text string) {
	entry := LogEntry{At: m.clock.Now(), Level: level, Text: text}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append([]LogEntry{entry}, m.logs...)
	if len(m.logs) > MaxLogEntries {
		m.logs = m.logs[:MaxLogEntries]
	}
}

// Logs returns the activity log, newest first.
func (m *Monitor) Logs() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry(nil), m.logs...)
}

// SyncBusy reports whether the manual sync control is disabled.
func (m *Monitor) SyncBusy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syncBusy || (m.status != nil && m.status.InProgress)
}
