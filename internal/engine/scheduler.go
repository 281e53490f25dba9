package engine

import (
	"context"
	"time"
)

// Ticker is anything a scheduler can drive.
type Ticker interface {
	Tick()
}

// TickerScheduler drives a Ticker from the wall clock. Each tick runs to
// completion before the next one starts.
type TickerScheduler struct {
	target   Ticker
	interval time.Duration
	after    func() // Called after every tick, on the scheduler goroutine
}

// NewTickerScheduler creates a wall-clock scheduler. after may be nil.
func NewTickerScheduler(target Ticker, interval time.Duration, after func()) *TickerScheduler {
	if interval <= 0 {
		interval = time.Second
	}
	return &TickerScheduler{target: target, interval: interval, after: after}
}

// Run ticks until ctx is cancelled.
func (s *TickerScheduler) Run(ctx context.Context) error {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.target.Tick()
			if s.after != nil {
				s.after()
			}
		}
	}
}

// ManualScheduler advances a Ticker on demand. Used by tests and the
// simulate command.
type ManualScheduler struct {
	target Ticker
	ticks  int64
}

// NewManualScheduler creates a manual scheduler.
func NewManualScheduler(target Ticker) *ManualScheduler {
	return &ManualScheduler{target: target}
}

// Advance runs n ticks.
func (s *ManualScheduler) Advance(n int) {
	for i := 0; i < n; i++ {
		s.target.Tick()
		s.ticks++
	}
}

// Ticks returns the number of ticks run so far.
func (s *ManualScheduler) Ticks() int64 {
	return s.ticks
}
