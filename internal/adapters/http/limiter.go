package httpadapter

import (
	"sync"

	"golang.org/x/time/rate"
)

const maxTrackedLimiters = 10000

type limiterSet struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newLimiterSet(limit rate.Limit, burst int) *limiterSet {
	return &limiterSet{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limiter, ok := s.limiters[key]; ok {
		return limiter
	}
	// Coarse bound on memory: start over instead of tracking idle keys.
	if len(s.limiters) >= maxTrackedLimiters {
		s.limiters = make(map[string]*rate.Limiter)
	}
	limiter := rate.NewLimiter(s.limit, s.burst)
	s.limiters[key] = limiter
	return limiter
}
