package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// keyLimiter is the token bucket of one key plus its expiration timer.
type keyLimiter struct {
	limiter *rate.Limiter
	timer   *time.Timer
}

// UserRateLimiter manages token buckets for many keys (client IPs, emails).
// A key's bucket is dropped after expiration without traffic.
type UserRateLimiter struct {
	limiters       map[string]*keyLimiter
	mu             sync.Mutex
	rate           rate.Limit
	burst          int
	expirationTime time.Duration
}

// New creates a limiter allowing perSecond events per key with the given burst.
func New(perSecond float64, burst int, expirationTime time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		limiters:       make(map[string]*keyLimiter),
		rate:           rate.Limit(perSecond),
		burst:          burst,
		expirationTime: expirationTime,
	}
}

// getLimiter gets or creates the bucket for key and pushes back its expiry.
func (url *UserRateLimiter) getLimiter(key string) *rate.Limiter {
	url.mu.Lock()
	defer url.mu.Unlock()

	kl, exists := url.limiters[key]
	if !exists {
		kl = &keyLimiter{limiter: rate.NewLimiter(url.rate, url.burst)}
		url.limiters[key] = kl
	}
	if kl.timer != nil {
		kl.timer.Stop()
	}
	kl.timer = time.AfterFunc(url.expirationTime, func() {
		url.cleanup(key, kl)
	})
	return kl.limiter
}

// cleanup removes key unless it was replaced in the meantime.
func (url *UserRateLimiter) cleanup(key string, kl *keyLimiter) {
	url.mu.Lock()
	if url.limiters[key] == kl {
		delete(url.limiters, key)
	}
	url.mu.Unlock()
}

// Allow checks if an event for key may happen now.
func (url *UserRateLimiter) Allow(key string) bool {
	return url.getLimiter(key).Allow()
}

// RetryAfter estimates how long until one more token is available.
func (url *UserRateLimiter) RetryAfter() time.Duration {
	if url.rate <= 0 {
		return url.expirationTime
	}
	return time.Duration(float64(time.Second) / float64(url.rate))
}

// Len returns the number of tracked keys.
func (url *UserRateLimiter) Len() int {
	url.mu.Lock()
	defer url.mu.Unlock()
	return len(url.limiters)
}

// Stop cleans up all timers
func (url *UserRateLimiter) Stop() {
	url.mu.Lock()
	defer url.mu.Unlock()

	for _, kl := range url.limiters {
		if kl.timer != nil {
			kl.timer.Stop()
		}
	}
}
