package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emission struct {
	value string
	at    time.Duration
}

type sink struct {
	mu    sync.Mutex
	start time.Time
	clock clockwork.Clock
	got   []emission
}

func (s *sink) emit(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, emission{v, s.clock.Since(s.start)})
}

func (s *sink) all() []emission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]emission(nil), s.got...)
}

func newSink(clock clockwork.Clock) *sink {
	return &sink{clock: clock, start: clock.Now()}
}

func TestBurstEmitsOnceAfterQuietPeriod(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newSink(clock)
	d := New("", DefaultDelay, s.emit, WithClock(clock))

	d.Set("b")
	clock.Advance(100 * time.Millisecond)
	d.Set("bo")
	clock.Advance(100 * time.Millisecond)
	d.Set("bou")
	clock.Advance(290 * time.Millisecond)
	d.Set("bounce") // t=490ms

	clock.Advance(499 * time.Millisecond)
	require.Never(t, func() bool { return len(s.all()) > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	clock.Advance(time.Millisecond) // t=990ms
	require.Eventually(t, func() bool { return len(s.all()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, emission{"bounce", 990 * time.Millisecond}, s.all()[0])

	clock.Advance(5 * time.Second)
	require.Never(t, func() bool { return len(s.all()) > 1 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, "bounce", d.Value())
}

func TestReturnToOriginalValueIsNoOp(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newSink(clock)
	d := New("", DefaultDelay, s.emit, WithClock(clock))

	d.Set("bounce")
	clock.Advance(200 * time.Millisecond)
	d.Set("")
	clock.Advance(2 * time.Second)

	require.Never(t, func() bool { return len(s.all()) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.False(t, d.Pending())
}

func TestInitialValueIsNeverEmitted(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newSink(clock)
	d := New("welcome", time.Second, s.emit, WithClock(clock))

	d.Set("welcome")
	clock.Advance(time.Second)
	require.Never(t, func() bool { return len(s.all()) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestSeparatePausesEmitSeparately(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newSink(clock)
	d := New("", DefaultDelay, s.emit, WithClock(clock))

	d.Set("a")
	clock.Advance(DefaultDelay)
	require.Eventually(t, func() bool { return len(s.all()) == 1 }, time.Second, 5*time.Millisecond)

	d.Set("ab")
	clock.Advance(DefaultDelay)
	require.Eventually(t, func() bool { return len(s.all()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a", "ab"}, []string{s.all()[0].value, s.all()[1].value})
}

func TestResetAndCancelDropPending(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newSink(clock)
	d := New("", DefaultDelay, s.emit, WithClock(clock))

	d.Set("x")
	assert.True(t, d.Pending())
	d.Cancel()
	assert.False(t, d.Pending())
	clock.Advance(time.Second)

	d.Set("typed")
	d.Reset("typed") // applied immediately elsewhere
	clock.Advance(time.Second)

	require.Never(t, func() bool { return len(s.all()) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, "typed", d.Value())

	// after a reset the new value is the baseline
	d.Set("typed")
	clock.Advance(time.Second)
	require.Never(t, func() bool { return len(s.all()) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}
