// Package driver is the refresh loop: render, then wait out the interval with
// a per-tick countdown, then render again. Cancelling the context is the only
// way out and works mid-wait.
package driver

import (
	"context"
	"time"
)

// Cycle runs one full fetch -> transform -> render pass.
type Cycle func(ctx context.Context)

type Loop struct {
	// Interval is re-read before every wait so config edits take effect on
	// the next cycle.
	Interval func() time.Duration
	// OnCountdown is called once per tick with the remaining wait time.
	OnCountdown func(remaining, total time.Duration)
	// Tick defaults to one second; tests shrink it.
	Tick time.Duration
}

func (l *Loop) Run(ctx context.Context, cycle Cycle) error {
	tick := l.Tick
	if tick == 0 {
		tick = time.Second
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		cycle(ctx)

		total := l.Interval()
		ticker := time.NewTicker(tick)
		for remaining := total; remaining > 0; remaining -= tick {
			if l.OnCountdown != nil {
				l.OnCountdown(remaining, total)
			}
			select {
			case <-ctx.Done():
				ticker.Stop()
				return ctx.Err()
			case <-ticker.C:
			}
		}
		ticker.Stop()
	}
}
