package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockpulse/internal/domain/dto"
)

// client represents a rate-limited caller with its request count in the current window.
type client struct {
	windowStart time.Time
	count       int
}

// In-memory fixed-window limiter state shared by every RateLimiter instance.
var (
	clients         = make(map[string]*client)
	window          = time.Minute
	limit           = 60
	lastSweep       time.Time
	rateLimiterLock sync.Mutex
)

// sweepStale drops clients whose window has elapsed, at most once per window.
// Callers must hold rateLimiterLock.
func sweepStale(now time.Time) {
	if now.Sub(lastSweep) <= window {
		return
	}
	for ip, cl := range clients {
		if now.Sub(cl.windowStart) > window {
			delete(clients, ip)
		}
	}
	lastSweep = now
}

// RateLimiter limits the number of requests per client IP.
//
// Behavior:
//   - Allows up to `limit` requests per `window` (default: 60 per minute).
//   - The window starts at a client's first request and resets once it elapses.
//   - Clients idle for longer than a window are evicted.
//   - Over the limit, responds 429 with an ErrorResponse and a Retry-After header.
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		rateLimiterLock.Lock()
		sweepStale(now)
		cl, ok := clients[ip]
		if !ok || now.Sub(cl.windowStart) > window {
			cl = &client{windowStart: now}
			clients[ip] = cl
		}
		cl.count++
		exceeded := cl.count > limit
		retryAfter := window - now.Sub(cl.windowStart)
		rateLimiterLock.Unlock()

		if exceeded {
			c.Header("Retry-After", retryAfterSeconds(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}

		c.Next()
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
