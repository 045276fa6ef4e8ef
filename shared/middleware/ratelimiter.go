package middleware

import (
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/klse-analytics/portal/shared/logger"
	"github.com/klse-analytics/portal/shared/middleware/metrics"
	"github.com/klse-analytics/portal/shared/middleware/ratelimiter"
	"github.com/klse-analytics/portal/shared/utils"
)

// RateLimit rejects requests whose identity has run out of tokens.
func RateLimit(rl *ratelimiter.UserRateLimiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				logger.Log.Warn("rate limit exceeded", "path", r.URL.Path, "identity", utils.HashSHA256(identity))
				metrics.RateLimited(r)
				retry := int(math.Ceil(rl.RetryAfter().Seconds()))
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				http.Error(w, "Too many attempts, please wait a moment and try again.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func GlobalRateLimit(rl *ratelimiter.UserRateLimiter) func(http.Handler) http.Handler {
	return RateLimit(rl, func(r *http.Request) (string, error) { return "global", nil })
}

// GetIP extracts the real client IP from RemoteAddr
// Does NOT trust X-Real-IP or X-Forwarded-For headers (no reverse proxy)
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// Fallback: if RemoteAddr doesn't have port, use it directly
		ip = r.RemoteAddr
	}

	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}

	return ip, nil
}

// GetFieldFromForm extracts a form field for rate limiting purposes. A
// missing field falls back to the client IP so the handler can report the
// validation error itself.
func GetFieldFromForm(field string) func(r *http.Request) (string, error) {
	return func(r *http.Request) (string, error) {
		if err := r.ParseForm(); err != nil {
			return "", errors.New("failed to parse form")
		}

		value := strings.ToLower(strings.TrimSpace(r.PostFormValue(field)))
		if value == "" {
			return GetIP(r)
		}
		return field + ":" + value, nil
	}
}

// GetEmailFromForm keys limits by the submitted email address.
func GetEmailFromForm(r *http.Request) (string, error) {
	return GetFieldFromForm("email")(r)
}
