// Package pacing spaces work items out with randomized delays. Jittered
// timing reads as human browsing; a fixed interval is one of the stronger
// automation signals a listing site can key on.
package pacing

import (
	"context"
	"math/rand/v2"
	"time"
)

// Governor draws a uniform random delay from [Min, Max] and blocks for it
// before every fetch.
type Governor struct {
	min time.Duration
	max time.Duration

	// randFloat allows test injection; defaults to rand.Float64.
	randFloat func() float64
}

// NewGovernor creates a Governor over the given delay window. A zero or
// inverted window collapses to [min, min].
func NewGovernor(min, max time.Duration) *Governor {
	if max < min {
		max = min
	}
	return &Governor{min: min, max: max, randFloat: rand.Float64}
}

// Delay blocks for a random duration within the window and returns the
// time actually slept. Context cancellation cuts the sleep short.
func (g *Governor) Delay(ctx context.Context) (time.Duration, error) {
	d := g.pick()
	if d <= 0 {
		return 0, ctx.Err()
	}

	start := time.Now()
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return time.Since(start), ctx.Err()
	case <-timer.C:
		return time.Since(start), nil
	}
}

func (g *Governor) pick() time.Duration {
	spread := g.max - g.min
	if spread <= 0 {
		return g.min
	}
	return g.min + time.Duration(g.randFloat()*float64(spread))
}
