package mockbackend

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/sesdash/internal/client/models"
	"github.com/dmitrijs2005/sesdash/internal/common"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

// Suppression sources and provider statuses.
const (
	SourceManual = "MANUAL"
	SourceAWS    = "AWS"

	AWSStatusUnknown    = "unknown"
	AWSStatusSuppressed = "suppressed"
)

const (
	DefaultTimezone = "Asia/Jakarta"
	dateLayout      = "2006-01-02"
	monthLayout     = "2006-01"
	hourLayout      = "2006-01-02 15:00"
)

type userRecord struct {
	models.User
	hash []byte
}

type eventRecord struct {
	models.Event
	at time.Time
}

type suppressionRecord struct {
	models.SuppressionEntry
	at time.Time
}

// Store keeps everything the mock backend serves in memory. All methods are
// safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	clock clockwork.Clock

	users      []*userRecord
	nextUserID int

	events      []eventRecord
	nextEventID int

	suppressions []*suppressionRecord
	nextSuppID   int

	aws       models.AWSSettings
	retention models.RetentionSettings
	timezone  string
	location  *time.Location

	syncing  bool
	lastSync time.Time
}

func NewStore(clock clockwork.Clock) *Store {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &Store{
		clock:       clock,
		nextUserID:  1,
		nextEventID: 1,
		nextSuppID:  1,
		aws:         models.AWSSettings{Region: "us-east-1", SyncInterval: 5},
		retention:   models.RetentionSettings{RetentionDays: 30},
		timezone:    DefaultTimezone,
		location:    loc,
	}
}

// Users

func (s *Store) AddUser(username, password, email, role string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return models.User{}, fmt.Errorf("user %q: %w", username, common.ErrorAlreadyExists)
		}
	}

	u := &userRecord{
		User: models.User{ID: s.nextUserID, Username: username, Email: email, Role: role, Active: true},
		hash: hash,
	}
	s.nextUserID++
	s.users = append(s.users, u)
	return u.User, nil
}

// Authenticate checks the credentials of an active user. Unknown users,
// wrong passwords and disabled accounts all yield ErrInvalidCredentials.
func (s *Store) Authenticate(username, password string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username != username {
			continue
		}
		if !u.Active || bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
			break
		}
		return u.User, nil
	}
	return models.User{}, common.ErrInvalidCredentials
}

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.User)
	}
	return out
}

func (s *Store) findUser(id int) (int, error) {
	for i, u := range s.users {
		if u.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("user %d: %w", id, common.ErrorNotFound)
}

func (s *Store) SetPassword(id int, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findUser(id)
	if err != nil {
		return err
	}
	s.users[i].hash = hash
	return nil
}

// ChangePassword replaces the password of id after verifying the old one.
func (s *Store) ChangePassword(id int, oldPassword, newPassword string) error {
	s.mu.RLock()
	i, err := s.findUser(id)
	var hash []byte
	if err == nil {
		hash = s.users[i].hash
	}
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword(hash, []byte(oldPassword)) != nil {
		return common.ErrInvalidCredentials
	}
	return s.SetPassword(id, newPassword)
}

func (s *Store) SetActive(id int, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findUser(id)
	if err != nil {
		return err
	}
	s.users[i].Active = active
	return nil
}

func (s *Store) DeleteUser(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.findUser(id)
	if err != nil {
		return err
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	return nil
}

// Events

// AddEvent records e as having happened at at and returns it with its id.
func (s *Store) AddEvent(e models.Event, at time.Time) models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextEventID
	s.nextEventID++
	s.events = append(s.events, eventRecord{Event: e, at: at.UTC()})
	return e
}

// Events returns one page of events, newest first, and the number of events
// matching q. Dates are whole days in the configured timezone.
func (s *Store) Events(q models.EventsQuery) ([]models.Event, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end, err := s.dayRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, 0, err
	}
	search := strings.ToLower(q.Search)

	matched := make([]eventRecord, 0, len(s.events))
	for _, e := range s.events {
		if !start.IsZero() && e.at.Before(start) {
			continue
		}
		if !end.IsZero() && !e.at.Before(end) {
			continue
		}
		if search != "" && !eventMatches(e.Event, search) {
			continue
		}
		matched = append(matched, e)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].at.After(matched[j].at) })

	from, to := window(models.NewPagination(q.Page, q.Limit, len(matched)), len(matched))
	out := make([]models.Event, 0, to-from)
	for _, e := range matched[from:to] {
		ev := e.Event
		ev.EventTimestamp = e.at.In(s.location).Format(time.RFC3339)
		out = append(out, ev)
	}
	return out, len(matched), nil
}

// window clamps the page described by p to a slice of length n. Pages past
// the end are checked before the offset is computed so it cannot overflow.
func window(p models.Pagination, n int) (from, to int) {
	if p.Limit < 1 || p.Page > n/p.Limit+1 {
		return n, n
	}
	from = p.Offset()
	if from > n {
		from = n
	}
	to = from + p.Limit
	if to > n {
		to = n
	}
	return from, to
}

func eventMatches(e models.Event, search string) bool {
	for _, field := range []string{e.Email, e.Subject, e.MessageID, e.Source, e.EventType} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// dayRange turns inclusive YYYY-MM-DD bounds into a half-open UTC interval.
// Empty bounds stay zero.
func (s *Store) dayRange(startDate, endDate string) (start, end time.Time, err error) {
	if startDate != "" {
		if start, err = time.ParseInLocation(dateLayout, startDate, s.location); err != nil {
			return start, end, fmt.Errorf("invalid start_date %q: %w", startDate, common.ErrorValidation)
		}
	}
	if endDate != "" {
		if end, err = time.ParseInLocation(dateLayout, endDate, s.location); err != nil {
			return start, end, fmt.Errorf("invalid end_date %q: %w", endDate, common.ErrorValidation)
		}
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// Summary tallies every stored event.
func (s *Store) Summary() models.Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c models.Counts
	for _, e := range s.events {
		c.Add(e.EventType)
	}
	c.ComputeRates()
	return c
}

// bucket groups events in [start, end) by the local time formatted with
// layout and returns the buckets in chronological order.
func (s *Store) bucket(start, end time.Time, layout string) ([]string, map[string]*models.Counts) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]*models.Counts{}
	var keys []string
	for _, e := range s.events {
		if e.at.Before(start) || !e.at.Before(end) {
			continue
		}
		key := e.at.In(s.location).Format(layout)
		c, ok := counts[key]
		if !ok {
			c = &models.Counts{}
			counts[key] = c
			keys = append(keys, key)
		}
		c.Add(e.EventType)
	}
	sort.Strings(keys)
	for _, c := range counts {
		c.ComputeRates()
	}
	return keys, counts
}

// Daily returns per-day counts for the inclusive date range. Empty bounds
// default to the last 30 days.
func (s *Store) Daily(startDate, endDate string) ([]models.DailyMetrics, error) {
	start, end, err := s.rangeOrDefault(startDate, endDate, func(now time.Time) time.Time { return now.AddDate(0, 0, -29) })
	if err != nil {
		return nil, err
	}
	keys, counts := s.bucket(start, end, dateLayout)
	out := make([]models.DailyMetrics, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.DailyMetrics{Date: k, Counts: *counts[k]})
	}
	return out, nil
}

// Monthly returns per-month counts. Empty bounds default to the last 12
// months.
func (s *Store) Monthly(startDate, endDate string) ([]models.MonthlyMetrics, error) {
	start, end, err := s.rangeOrDefault(startDate, endDate, func(now time.Time) time.Time {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)
	})
	if err != nil {
		return nil, err
	}
	keys, counts := s.bucket(start, end, monthLayout)
	out := make([]models.MonthlyMetrics, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.MonthlyMetrics{Month: k, Counts: *counts[k]})
	}
	return out, nil
}

// Hourly returns per-hour counts. Empty bounds default to today.
func (s *Store) Hourly(startDate, endDate string) ([]models.HourlyMetrics, error) {
	start, end, err := s.rangeOrDefault(startDate, endDate, func(now time.Time) time.Time { return now })
	if err != nil {
		return nil, err
	}
	keys, counts := s.bucket(start, end, hourLayout)
	out := make([]models.HourlyMetrics, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.HourlyMetrics{Hour: k, Counts: *counts[k]})
	}
	return out, nil
}

func (s *Store) rangeOrDefault(startDate, endDate string, defaultStart func(today time.Time) time.Time) (time.Time, time.Time, error) {
	s.mu.RLock()
	start, end, err := s.dayRange(startDate, endDate)
	now := s.clock.Now().In(s.location)
	s.mu.RUnlock()
	if err != nil {
		return start, end, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if start.IsZero() {
		start = defaultStart(today)
	}
	if end.IsZero() {
		end = today.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// PurgeExpired drops events older than the retention window when retention
// is enabled and returns how many were removed.
func (s *Store) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.retention.Enabled || s.retention.RetentionDays <= 0 {
		return 0
	}
	cutoff := s.clock.Now().AddDate(0, 0, -s.retention.RetentionDays)
	kept := s.events[:0]
	for _, e := range s.events {
		if !e.at.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	removed := len(s.events) - len(kept)
	s.events = kept
	return removed
}

// Suppressions

// Suppressions returns one page of active entries, newest first, and the
// number of entries matching search.
func (s *Store) Suppressions(page, limit int, search string) ([]models.SuppressionEntry, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search = strings.ToLower(search)
	matched := make([]*suppressionRecord, 0, len(s.suppressions))
	for _, e := range s.suppressions {
		if !e.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Email), search) && !strings.Contains(strings.ToLower(e.Reason), search) {
			continue
		}
		matched = append(matched, e)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].at.After(matched[j].at) })

	from, to := window(models.NewPagination(page, limit, len(matched)), len(matched))
	out := make([]models.SuppressionEntry, 0, to-from)
	for _, e := range matched[from:to] {
		out = append(out, e.SuppressionEntry)
	}
	return out, len(matched)
}

func (s *Store) findSuppression(email string) *suppressionRecord {
	for _, e := range s.suppressions {
		if strings.EqualFold(e.Email, email) {
			return e
		}
	}
	return nil
}

// Suppress adds email to the list, or reactivates it. Addresses already
// active yield ErrorAlreadyExists.
func (s *Store) Suppress(email, reason, source, addedBy string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email %q: %w", email, common.ErrorValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	status := AWSStatusUnknown
	if s.aws.Enabled {
		status = AWSStatusSuppressed
	}

	if e := s.findSuppression(email); e != nil {
		if e.IsActive {
			return fmt.Errorf("suppression %q: %w", email, common.ErrorAlreadyExists)
		}
		e.IsActive = true
		e.Reason = reason
		e.Source = source
		e.AWSStatus = status
		e.AddedByName = addedBy
		e.at = now
		e.CreatedAt = now.In(s.location).Format(time.RFC3339)
		return nil
	}

	s.suppressions = append(s.suppressions, &suppressionRecord{
		SuppressionEntry: models.SuppressionEntry{
			ID:              s.nextSuppID,
			Email:           email,
			SuppressionType: suppressionType(source),
			Reason:          reason,
			Source:          source,
			AWSStatus:       status,
			IsActive:        true,
			CreatedAt:       now.In(s.location).Format(time.RFC3339),
			AddedByName:     addedBy,
		},
		at: now,
	})
	s.nextSuppID++
	return nil
}

func suppressionType(source string) string {
	if source == SourceAWS {
		return "BOUNCE"
	}
	return "MANUAL"
}

// Unsuppress deactivates email. Unknown or inactive addresses yield
// ErrorNotFound.
func (s *Store) Unsuppress(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findSuppression(email)
	if e == nil || !e.IsActive {
		return fmt.Errorf("suppression %q: %w", email, common.ErrorNotFound)
	}
	e.IsActive = false
	return nil
}

func (s *Store) SuppressionStatus(email string) models.SuppressionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := models.SuppressionStatus{Email: email}
	if e := s.findSuppression(email); e != nil && e.IsActive {
		st.Suppressed = true
		st.Reason = e.Reason
		st.LastUpdate = e.CreatedAt
	}
	return st
}

// CountBySource counts the active entries that came from source.
func (s *Store) CountBySource(source string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.suppressions {
		if e.IsActive && e.Source == source {
			n++
		}
	}
	return n
}

// Settings

func (s *Store) AWS() models.AWSSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aws
}

// SetAWS replaces the AWS settings. Empty keys leave the stored ones in
// place.
func (s *Store) SetAWS(in models.AWSSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.AccessKey == "" {
		in.AccessKey = s.aws.AccessKey
	}
	if in.SecretKey == "" {
		in.SecretKey = s.aws.SecretKey
	}
	if in.SyncInterval == 0 {
		in.SyncInterval = s.aws.SyncInterval
	}
	s.aws = in
}

func (s *Store) Retention() models.RetentionSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retention
}

func (s *Store) SetRetention(in models.RetentionSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retention = in
}

func (s *Store) Timezone() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timezone
}

// SetTimezone switches the zone used to render and bucket events. Unknown
// zone names yield ErrorValidation.
func (s *Store) SetTimezone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil || name == "" {
		return fmt.Errorf("unknown timezone %q: %w", name, common.ErrorValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timezone = name
	s.location = loc
	return nil
}

// Sync

// BeginSync marks a sync as running. It reports false when one already is.
func (s *Store) BeginSync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.syncing {
		return false
	}
	s.syncing = true
	return true
}

// FinishSync marks every active entry as suppressed upstream and records the
// sync time.
func (s *Store) FinishSync() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.suppressions {
		if e.IsActive {
			e.AWSStatus = AWSStatusSuppressed
		}
	}
	s.syncing = false
	s.lastSync = s.clock.Now()
}

func (s *Store) SyncStatus() models.SyncStatus {
	s.mu.RLock()
	st := models.SyncStatus{
		InProgress: s.syncing,
		NextSyncIn: fmt.Sprintf("%d minutes", s.aws.SyncInterval),
		AWSEnabled: s.aws.Enabled,
	}
	if !s.lastSync.IsZero() {
		st.LastSync = s.lastSync.In(s.location).Format(time.RFC3339)
	}
	s.mu.RUnlock()

	if st.AWSEnabled {
		st.DBCount = s.CountBySource(SourceAWS)
	}
	return st
}
