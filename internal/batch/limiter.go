package batch

import (
	"context"

	"golang.org/x/time/rate"
)

// VisionLimiter gates vision-model calls across all workers in a run. It
// satisfies frames.Waiter.
type VisionLimiter struct {
	limiter *rate.Limiter
}

// NewVisionLimiter builds a shared token bucket. A non-positive rate means
// unlimited and returns nil, which the frame extractor treats as no gate.
func NewVisionLimiter(perSecond float64, burst int) *VisionLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &VisionLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (l *VisionLimiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
