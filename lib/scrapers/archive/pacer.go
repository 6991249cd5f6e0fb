package archive

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// FetchInterval is the minimum spacing between two outbound fetches.
// The archive asks unauthenticated clients to stay at or below this
// cadence, treat it as part of the terms of use rather than a tunable.
const FetchInterval = 5 * time.Second

// Pacer enforces the fetch cadence. The first Wait returns immediately,
// every later Wait blocks until FetchInterval has passed since the
// previous one.
type Pacer struct {
	limiter *rate.Limiter
}

func newPacer(interval time.Duration) *Pacer {
	return &Pacer{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// NewPacer returns a pacer at the archive's mandated cadence.
func NewPacer() *Pacer {
	return newPacer(FetchInterval)
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
