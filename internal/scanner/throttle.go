package scanner

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

// Throttler caps how many probes start per second across all workers.
// A nil Throttler, or one built with a non-positive rate, never waits.
type Throttler struct {
	limiter *rate.Limiter
}

// NewThrottler creates a throttler allowing perSecond probe starts per
// second, with bursts up to one second's worth.
func NewThrottler(perSecond float64) *Throttler {
	if perSecond <= 0 {
		return &Throttler{}
	}
	burst := int(math.Ceil(perSecond))
	return &Throttler{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until the next probe may start or ctx is done.
func (t *Throttler) Wait(ctx context.Context) error {
	if t == nil || t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}

// Enabled reports whether a rate limit is in effect.
func (t *Throttler) Enabled() bool {
	return t != nil && t.limiter != nil
}
