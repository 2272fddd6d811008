/*
Package limiter provides rate limiting based on client IP addresses.

It uses the token bucket algorithm (rate.Limiter) per client IP and runs a
cleanup goroutine that removes idle limiters to keep memory bounded.
*/
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/resp"
)

// cleanupInterval controls how often idle per-IP limiters are dropped.
const cleanupInterval = 3 * time.Minute

// IPRateLimiter is a concurrency-safe per-IP rate limiter.
type IPRateLimiter struct {
	// mu protects concurrent access to the limits map.
	mu sync.RWMutex

	// limits maps a client IP address to its *rate.Limiter instance.
	limits map[string]*rate.Limiter

	// r is the sustained event rate allowed per IP.
	r rate.Limit

	// b is the burst size of each token bucket.
	b int
}

// NewIPRateLimiter creates an IPRateLimiter with rate r and burst b and
// starts the background cleanup goroutine.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
	}

	go i.cleanUpVisitors()

	return i
}

// GetLimiter returns the limiter for ip, creating one if absent.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limits[ip]
	i.mu.RUnlock()

	if !exists {
		i.mu.Lock()
		limiter, exists = i.limits[ip]
		if !exists {
			limiter = rate.NewLimiter(i.r, i.b)
			i.limits[ip] = limiter
		}
		i.mu.Unlock()
	}

	return limiter
}

// cleanUpVisitors periodically removes limiters whose buckets are full,
// meaning the IP has been idle long enough to refill completely.
func (i *IPRateLimiter) cleanUpVisitors() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		i.mu.Lock()
		count := 0
		for ip, limiter := range i.limits {
			if limiter.TokensAt(time.Now()) >= float64(limiter.Burst()) {
				delete(i.limits, ip)
				count++
			}
		}
		remaining := len(i.limits)
		i.mu.Unlock()

		logx.Info("Rate limiter cleanup finished.", "removed", count, "remaining", remaining)
	}
}

// ClientIP extracts the host part of an HTTP remote address.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if ip == "" {
		ip = "unknown_ip"
	}

	return ip
}

// Middleware returns an HTTP middleware that rejects requests exceeding
// the per-IP limit with a 429 response.
func (i *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.GetLimiter(ClientIP(r)).Allow() {
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		next.ServeHTTP(w, r)
	})
}
