package status

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	assert.Equal(t, Message{KindSuccess, "saved", 3 * time.Second}, Success("saved"))
	assert.Equal(t, Message{KindError, "invalid region", 5 * time.Second}, Error("invalid region"))
	assert.Equal(t, Message{KindInfo, "syncing", 3 * time.Second}, Info("syncing"))
	assert.Equal(t, 5*time.Second, Success("AWS connection successful").For(5*time.Second).AutoDismiss)
	assert.Equal(t, "error", KindError.String())
}

func TestBanner_SuccessDismissesAfterThreeSeconds(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := NewBanner(WithClock(clock))

	b.Show(Success("Email added to suppression list"))
	clock.Advance(2999 * time.Millisecond)
	m, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "Email added to suppression list", m.Text)

	clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool { _, ok := b.Current(); return !ok }, time.Second, 5*time.Millisecond)
}

func TestBanner_ErrorStaysFiveSeconds(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := NewBanner(WithClock(clock))

	b.Show(Error("invalid region"))
	clock.Advance(4 * time.Second)
	require.Never(t, func() bool { _, ok := b.Current(); return !ok }, 50*time.Millisecond, 5*time.Millisecond)

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { _, ok := b.Current(); return !ok }, time.Second, 5*time.Millisecond)
}

func TestBanner_ReplacementRestartsTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var changes []bool
	b := NewBanner(WithClock(clock), OnChange(func(_ Message, visible bool) { changes = append(changes, visible) }))

	b.Show(Success("first"))
	clock.Advance(2 * time.Second)
	b.Show(Error("second"))
	clock.Advance(2 * time.Second) // first would have expired here

	m, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, KindError, m.Kind)
	assert.Equal(t, "second", m.Text)

	b.Clear()
	b.Clear()
	assert.Equal(t, []bool{true, true, false}, changes)
}

func TestBanner_ZeroDismissIsSticky(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := NewBanner(WithClock(clock))

	b.Show(Info("AWS integration is disabled").For(0))
	clock.Advance(time.Hour)
	_, ok := b.Current()
	assert.True(t, ok)
}
