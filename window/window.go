// Package window implements the observation window: a bounded wait
// that ends early when the run is cancelled.
package window

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// Result describes how a window ended.
type Result struct {
	// Elapsed is the time spent waiting, measured on the supplied clock.
	Elapsed time.Duration
	// Cancelled is true if ctx ended the window before d elapsed.
	Cancelled bool
}

// Wait blocks until d has elapsed on clk or ctx is done, whichever
// comes first. A zero d waits for ctx alone.
func Wait(ctx context.Context, clk clock.Clock, d time.Duration) Result {
	start := clk.Now()

	var expired <-chan time.Time
	if d > 0 {
		t := clk.Timer(d)
		defer t.Stop()
		expired = t.C
	}

	select {
	case <-expired:
		return Result{Elapsed: clk.Since(start)}
	case <-ctx.Done():
		return Result{Elapsed: clk.Since(start), Cancelled: true}
	}
}
