package app

import (
	"context"
	"time"

	"github.com/five82/encore/internal/actions"
	"github.com/five82/encore/internal/dispatch"
)

const defaultClockInterval = time.Second

// clockTarget is the part of the dispatcher the playback clock drives.
type clockTarget interface {
	Dispatch(e dispatch.Envelope)
}

// StartClock launches the playback clock. Every interval it queues one
// Advance; whether that moves progress or proceeds is decided against the
// state the action runs on, not a snapshot taken here. It returns
// immediately.
func StartClock(ctx context.Context, d clockTarget, acts *actions.Actions, interval time.Duration) {
	if interval <= 0 {
		interval = defaultClockInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tick(d, acts, interval)
			}
		}
	}()
}

func tick(d clockTarget, acts *actions.Actions, interval time.Duration) {
	d.Dispatch(acts.Advance(interval))
}
