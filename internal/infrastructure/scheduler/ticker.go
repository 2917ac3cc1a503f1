// Package scheduler drives recurring pipeline runs on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"newstriage/internal/ports"
)

// TickScheduler runs the job immediately and then on every interval tick.
type TickScheduler struct {
	interval time.Duration
	stop     chan struct{}
}

var _ ports.Scheduler = (*TickScheduler)(nil)

// NewTickScheduler builds a scheduler; intervals below one minute are
// raised to 24 hours.
func NewTickScheduler(interval time.Duration) *TickScheduler {
	if interval < time.Minute {
		interval = 24 * time.Hour
	}
	return &TickScheduler{interval: interval}
}

// Start begins ticking. Idempotent while running.
func (s *TickScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	stop := s.stop
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (s *TickScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
