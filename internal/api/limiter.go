package api

import (
	"sync"

	"golang.org/x/time/rate"
)

// clientLimiter hands out one token bucket per client key.
type clientLimiter struct {
	limiters sync.Map
	rps      float64
	burst    int
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst <= 0 {
		burst = 5
	}
	return &clientLimiter{rps: rps, burst: burst}
}

func (l *clientLimiter) enabled() bool {
	return l != nil && l.rps > 0
}

func (l *clientLimiter) allow(key string) bool {
	if !l.enabled() {
		return true
	}
	return l.getLimiter(key).Allow()
}

func (l *clientLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	lim := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}
