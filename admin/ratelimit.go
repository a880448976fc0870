package admin

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	CleanupInterval   time.Duration
}

var DefaultRateLimiterConfig = RateLimiterConfig{
	RequestsPerSecond: 10.0,
	BurstSize:         20,
	CleanupInterval:   5 * time.Minute,
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client address and forgets
// addresses that have been idle for a cleanup interval.
type RateLimiter struct {
	limiters    map[string]*clientLimiter
	mu          sync.Mutex
	config      RateLimiterConfig
	stopCleanup chan struct{}
	stopOnce    sync.Once
	log         zerolog.Logger
}

func NewRateLimiter(config RateLimiterConfig, logger zerolog.Logger) *RateLimiter {
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = DefaultRateLimiterConfig.RequestsPerSecond
	}
	if config.BurstSize <= 0 {
		config.BurstSize = DefaultRateLimiterConfig.BurstSize
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultRateLimiterConfig.CleanupInterval
	}

	rl := &RateLimiter{
		limiters:    make(map[string]*clientLimiter),
		config:      config,
		stopCleanup: make(chan struct{}),
		log:         logger.With().Str("component", "ratelimit").Logger(),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[clientID]
	if !exists {
		limiter = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize),
		}
		rl.limiters[clientID] = limiter
	}
	limiter.lastSeen = time.Now()

	return limiter.limiter.Allow()
}

func (rl *RateLimiter) LimiterCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.config.CleanupInterval)
	removed := 0
	for clientID, limiter := range rl.limiters {
		if limiter.lastSeen.Before(cutoff) {
			delete(rl.limiters, clientID)
			removed++
		}
	}
	if removed > 0 {
		rl.log.Debug().Int("removed", removed).Msg("cleaned up idle rate limiters")
	}
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// Middleware rejects requests over the limit with 429, keyed by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.ClientIP()
		if !rl.Allow(clientID) {
			rl.log.Warn().Str("client", clientID).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
