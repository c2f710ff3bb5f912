package schedule

import (
	"context"
	"io"
	"log"
	"sync/atomic"
	"time"
)

// Status is the open/closed banner state.
type Status struct {
	Open      bool      `json:"open"`
	Text      string    `json:"text"`
	Hours     string    `json:"hours"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Watcher recomputes the banner state on a fixed interval.
type Watcher struct {
	validator *Validator
	now       func() time.Time
	interval  time.Duration
	logger    *log.Logger
	current   atomic.Pointer[Status]
}

func NewWatcher(v *Validator, now func() time.Time, logger *log.Logger) *Watcher {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	w := &Watcher{validator: v, now: now, interval: time.Second, logger: logger}
	w.refresh()
	return w
}

// Current returns the last computed status.
func (w *Watcher) Current() Status {
	return *w.current.Load()
}

// Run refreshes the status every interval until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.refresh()
		}
	}
}

func (w *Watcher) refresh() {
	now := w.now()
	open := w.validator.IsOpen(now)
	next := &Status{Open: open, Text: w.validator.StatusText(now), Hours: HoursText, CheckedAt: now}
	prev := w.current.Swap(next)
	if prev != nil && prev.Open != open {
		w.logger.Printf("schedule: status changed open=%t at=%s", open, now.In(w.validator.loc).Format(time.RFC3339))
	}
}
