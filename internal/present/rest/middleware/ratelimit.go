package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/totegamma/funnelbuilder/internal/present/rest/presenter"
)

// RateLimiter hands every requester its own token bucket. Idle buckets expire.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	limiters *cache.Cache
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: cache.New(10*time.Minute, 15*time.Minute),
	}
}

func (r *RateLimiter) limiter(key string) *rate.Limiter {
	if x, found := r.limiters.Get(key); found {
		r.limiters.SetDefault(key, x)
		return x.(*rate.Limiter)
	}
	l := rate.NewLimiter(r.limit, r.burst)
	if err := r.limiters.Add(key, l, cache.DefaultExpiration); err != nil {
		// lost a race with another request for the same key
		if x, found := r.limiters.Get(key); found {
			return x.(*rate.Limiter)
		}
	}
	return l
}

func (r *RateLimiter) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key, ok := RequesterID(c.Request().Context())
		if !ok {
			key = "ip:" + c.RealIP()
		}
		if !r.limiter(key).Allow() {
			return presenter.TooManyRequests(c)
		}
		return next(c)
	}
}
