// file: internal/server/middleware/ratelimit.go
// version: 1.1.0
// guid: 5d7f9b1c-3e5a-4b7c-9d2e-4f6a8b0c2d4e

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// defaultIdleTTL is how long an idle client keeps its bucket before it is
// swept.
const defaultIdleTTL = 15 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter hands each client IP its own token bucket.
type ClientLimiter struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
}

// NewClientLimiter builds a per-IP limiter allowing requestsPerMinute
// sustained with the given burst. Values below 1 are raised to 1.
func NewClientLimiter(requestsPerMinute, burst int) *ClientLimiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		buckets: make(map[string]*clientBucket),
		limit:   rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:   burst,
		idleTTL: defaultIdleTTL,
	}
}

func (cl *ClientLimiter) bucketFor(ip string) *rate.Limiter {
	now := time.Now()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	for key, b := range cl.buckets {
		if now.Sub(b.lastSeen) > cl.idleTTL {
			delete(cl.buckets, key)
		}
	}

	b, ok := cl.buckets[ip]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter
}

// Middleware returns a Gin middleware rejecting over-limit clients with 429.
func (cl *ClientLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !cl.bucketFor(ip).Allow() {
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
