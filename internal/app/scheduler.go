package app

import (
	"sync"
	"time"
)

// Scheduler produces the recurring countdown callback for a session run.
// Every returns a cancel function; cancel must be idempotent and safe to
// call from inside the callback itself, because a countdown that reaches
// zero cancels its own timer.
type Scheduler interface {
	Every(fn func()) (cancel func())
}

// TickerScheduler drives callbacks off a time.Ticker at a fixed interval.
type TickerScheduler struct {
	interval time.Duration
}

func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = time.Second
	}
	return &TickerScheduler{interval: interval}
}

func (t *TickerScheduler) Every(fn func()) (cancel func()) {
	ticker := time.NewTicker(t.interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
