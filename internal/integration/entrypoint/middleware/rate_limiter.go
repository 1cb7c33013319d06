// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/finance-tracker/rule-engine/internal/domain/error"
	"github.com/finance-tracker/rule-engine/internal/integration/entrypoint/dto"
)

const (
	// DefaultBatchStartsPerWindow is how many batch runs one client may start per window.
	DefaultBatchStartsPerWindow = 10
	// DefaultBatchStartWindow is the rate limit window for batch starts.
	DefaultBatchStartWindow = time.Minute
)

type clientWindow struct {
	starts  int
	resetAt time.Time
}

// RateLimiter caps how often a client can start retroactive batch runs.
// Each run walks the whole history, so starts are counted per client IP in fixed windows.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewRateLimiter creates a limiter with the default batch start budget.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(DefaultBatchStartsPerWindow, DefaultBatchStartWindow)
}

// NewRateLimiterWithConfig creates a limiter allowing limit starts per window.
// A non-positive limit disables limiting.
func NewRateLimiterWithConfig(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Middleware rejects requests over budget with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		client := c.ClientIP()
		if client == "" {
			client = c.Request.RemoteAddr
		}

		allowed, retryAfter := rl.allow(client)
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many batch runs started. Please try again later.",
				Code:  string(domainerror.ErrCodeBatchRateLimited),
			})
			return
		}

		c.Next()
	}
}

// allow counts one start for client and reports how long to wait when over budget.
func (rl *RateLimiter) allow(client string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	w, ok := rl.clients[client]
	if !ok {
		rl.clients[client] = &clientWindow{starts: 1, resetAt: now.Add(rl.window)}
		return true, 0
	}

	if w.starts >= rl.limit {
		return false, w.resetAt.Sub(now)
	}

	w.starts++
	return true, 0
}

// sweep drops windows that have ended. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for client, w := range rl.clients {
		if !now.Before(w.resetAt) {
			delete(rl.clients, client)
		}
	}
}
