package countdown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Unix(1700000000, 0)

func TestRemainingSeconds(t *testing.T) {
	target := baseTime.Add(90 * time.Second)

	assert.Equal(t, int64(90), RemainingSeconds(target, baseTime))
	assert.Equal(t, int64(0), RemainingSeconds(target, target))

	// Past the target it is exactly zero, never negative
	assert.Equal(t, int64(0), RemainingSeconds(target, target.Add(time.Second)))
	assert.Equal(t, int64(0), RemainingSeconds(target, target.Add(1000*time.Hour)))
}

func TestRemainingSeconds_ZeroTargetIsExpired(t *testing.T) {
	assert.Equal(t, int64(0), RemainingSeconds(time.Time{}, baseTime))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name      string
		remaining int64
		want      string
	}{
		{"zero renders as zero clock", 0, "00:00:00"},
		{"seconds", 59, "00:00:59"},
		{"minutes and seconds", 90, "00:01:30"},
		{"hours", 3*3600 + 25*60 + 7, "03:25:07"},
		{"just under a day", 24*3600 - 1, "23:59:59"},
		{"exactly a day", 24 * 3600, "in 1 day"},
		{"several days", 3*24*3600 + 7200, "in 3 days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.remaining))
		})
	}
}

// fakeClock steps a controllable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCountdown_EmitsInitialValueAndStopsAtZero(t *testing.T) {
	clock := &fakeClock{now: baseTime}
	c := NewCountdown(baseTime, clock.Now, nil) // already expired

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.Start(ctx)

	v, ok := <-c.Values()
	require.True(t, ok)
	assert.Equal(t, int64(0), v.RemainingSeconds)
	assert.Equal(t, "00:00:00", v.FormattedValue)
	assert.True(t, v.EndingSoon)

	// Terminal: the channel closes instead of ticking further
	_, ok = <-c.Values()
	assert.False(t, ok)
}

func TestCountdown_EndingSoonThreshold(t *testing.T) {
	clock := &fakeClock{now: baseTime}

	near := NewCountdown(baseTime.Add(time.Hour), clock.Now, nil)
	far := NewCountdown(baseTime.Add(48*time.Hour), clock.Now, nil)

	ctx, cancel := context.WithCancel(context.Background())
	near.Start(ctx)
	far.Start(ctx)

	v := <-near.Values()
	assert.True(t, v.EndingSoon)

	v = <-far.Values()
	assert.False(t, v.EndingSoon)
	assert.Equal(t, "in 2 days", v.FormattedValue)

	cancel()
}

func TestCountdown_CancellationStopsTicking(t *testing.T) {
	clock := &fakeClock{now: baseTime}
	c := NewCountdown(baseTime.Add(time.Hour), clock.Now, nil)

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)

	<-c.Values()
	cancel()

	// The stream terminates without reaching zero
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-c.Values():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("countdown kept ticking after cancellation")
		}
	}
}
