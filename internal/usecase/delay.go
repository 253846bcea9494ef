package usecase

import (
	"context"
	"math/rand/v2"
	"time"
)

// RandomDelayer sleeps a uniform random duration in [0, max].
type RandomDelayer struct {
	max time.Duration
}

// NewRandomDelayer creates a RandomDelayer. A non-positive max disables the delay.
func NewRandomDelayer(max time.Duration) *RandomDelayer {
	return &RandomDelayer{max: max}
}

// Delay blocks the caller only. It returns ctx.Err() if ctx ends first.
func (d *RandomDelayer) Delay(ctx context.Context) error {
	if d.max <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(time.Duration(rand.Int64N(int64(d.max) + 1)))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
