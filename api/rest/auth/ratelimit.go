package auth

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apierrors "codeberg.org/squidlabs/server/internal/errors"
)

// rateLimiter hands out a token bucket per client IP so a single
// client hammering the credential endpoints cannot starve the rest
type rateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	rate     rate.Limit
	burst    int
	lifetime time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(r rate.Limit, burst int) *rateLimiter {
	rl := &rateLimiter{
		clients:  make(map[string]*clientLimiter),
		rate:     r,
		burst:    burst,
		lifetime: 10 * time.Minute,
	}

	go rl.cleanup()

	return rl
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[clientIP]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[clientIP] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

// drops buckets for clients that went quiet
func (rl *rateLimiter) cleanup() {
	for range time.Tick(time.Minute) {
		rl.mu.Lock()
		for ip, client := range rl.clients {
			if time.Since(client.lastSeen) > rl.lifetime {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimitMiddleware throttles credential endpoints per client IP
func RateLimitMiddleware() gin.HandlerFunc {
	// 5 attempts per minute with a small burst
	rl := newRateLimiter(rate.Every(12*time.Second), 5)

	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			apierrors.TooManyRequests(c, "too many attempts, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
