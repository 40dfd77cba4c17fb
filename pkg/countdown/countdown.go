package countdown

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// endingSoonWindow is the horizon under which a deadline counts as
	// "ending soon" and the countdown switches to second resolution.
	endingSoonWindow = 24 * time.Hour

	fastTickInterval = time.Second
	slowTickInterval = 5 * time.Minute
)

// RemainingSeconds returns the whole seconds between now and target, clamped
// at zero. A zero target means the deadline was never set and is treated as
// already expired.
func RemainingSeconds(target, now time.Time) int64 {
	if target.IsZero() || !target.After(now) {
		return 0
	}
	return int64(target.Sub(now) / time.Second)
}

// Value is one observation of a running countdown.
type Value struct {
	RemainingSeconds int64

	// FormattedValue is HH:MM:SS while under a day remains, a coarse
	// relative string otherwise.
	FormattedValue string

	// EndingSoon is set while less than a day remains.
	EndingSoon bool
}

// Format renders a remaining-seconds value the way list rows display it.
func Format(remainingSeconds int64) string {
	if remainingSeconds < 0 {
		remainingSeconds = 0
	}
	if remainingSeconds < int64(endingSoonWindow/time.Second) {
		h := remainingSeconds / 3600
		m := (remainingSeconds % 3600) / 60
		s := remainingSeconds % 60
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	days := remainingSeconds / int64(24*time.Hour/time.Second)
	if days == 1 {
		return "in 1 day"
	}
	return fmt.Sprintf("in %d days", days)
}

// valueAt builds the observation for a target deadline at the given instant.
func valueAt(target, now time.Time) Value {
	remaining := RemainingSeconds(target, now)
	return Value{
		RemainingSeconds: remaining,
		FormattedValue:   Format(remaining),
		EndingSoon:       remaining < int64(endingSoonWindow/time.Second),
	}
}

// Countdown pushes recomputed remaining-time values for a single deadline.
// The tick cadence depends on how far out the deadline is: one-second ticks
// under a day, five-minute ticks otherwise, so far-future deadlines do not
// cause needless recomputation. The countdown is terminal at zero: once the
// deadline passes no further ticks are scheduled.
type Countdown struct {
	target time.Time
	nowFn  func() time.Time
	out    chan Value
	logger *zap.Logger
}

// NewCountdown creates a countdown toward target. nowFn supplies the clock
// and must not be nil in production use; passing nil falls back to
// time.Now.
func NewCountdown(target time.Time, nowFn func() time.Time, logger *zap.Logger) *Countdown {
	if nowFn == nil {
		nowFn = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Countdown{
		target: target,
		nowFn:  nowFn,
		out:    make(chan Value, 1),
		logger: logger,
	}
}

// Values is the stream of observations. It is closed when the countdown
// reaches zero or its context is cancelled.
func (c *Countdown) Values() <-chan Value {
	return c.out
}

// Start begins ticking. The initial value is emitted immediately; the loop
// exits, closing the value channel, when remaining time reaches zero or ctx
// is done.
func (c *Countdown) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Countdown) run(ctx context.Context) {
	defer close(c.out)

	for {
		v := valueAt(c.target, c.nowFn())
		c.emit(ctx, v)
		if v.RemainingSeconds == 0 {
			c.logger.Sugar().Debugw("countdown reached zero",
				"target", c.target,
			)
			return
		}

		interval := slowTickInterval
		if v.EndingSoon {
			interval = fastTickInterval
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// emit delivers a value without blocking forever: a stale unread value is
// replaced by the newer one.
func (c *Countdown) emit(ctx context.Context, v Value) {
	for {
		select {
		case c.out <- v:
			return
		case <-ctx.Done():
			return
		default:
		}
		select {
		case <-c.out:
		default:
		}
	}
}
