package probes

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/mt-inside/url-canonicalize/pkg/state"
)

// HostRateLimiter is a Transport decorator spacing out requests to each host. Hosts are independent of each other.
type HostRateLimiter struct {
	inner Transport
	limit rate.Limit

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHostRateLimiter allows perSecond requests per second to any one host, no bursting. perSecond <= 0 returns inner untouched.
func NewHostRateLimiter(inner Transport, perSecond float64) Transport {
	if perSecond <= 0 {
		return inner
	}
	return &HostRateLimiter{
		inner:    inner,
		limit:    rate.Limit(perSecond),
		limiters: map[string]*rate.Limiter{},
	}
}

func (l *HostRateLimiter) limiter(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(l.limit, 1)
		l.limiters[host] = lim
	}
	return lim
}

func (l *HostRateLimiter) Do(ctx context.Context, attempt state.RequestAttempt) (*state.ResponseOutcome, error) {
	if err := l.limiter(attempt.Target.Hostname()).Wait(ctx); err != nil {
		return nil, err
	}
	return l.inner.Do(ctx, attempt)
}
