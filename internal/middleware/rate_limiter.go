package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Lysium16/bancalplast-lysium/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per IP within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// rateLimiter holds the per-IP counters of one RateLimiter instance.
type rateLimiter struct {
	limit   int
	window  time.Duration
	mu      sync.Mutex
	entries map[string]*rateEntry
}

// RateLimiter returns a per-IP limiter allowing limit requests per window.
// A limit of zero or less disables it.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	rl := &rateLimiter{limit: limit, window: window, entries: make(map[string]*rateEntry)}
	go rl.purgeLoop(5 * time.Minute)
	return rl.handle
}

func (rl *rateLimiter) handle(c *gin.Context) {
	ip := c.ClientIP()

	rl.mu.Lock()
	entry, exists := rl.entries[ip]
	if !exists {
		entry = &rateEntry{}
		rl.entries[ip] = entry
	}
	rl.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(rl.window)
	}

	entry.count++
	if entry.count > rl.limit {
		c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Troppe richieste. Riprova tra poco."))
		return
	}
	c.Next()
}

// purgeLoop drops expired entries so IPs that never return do not pile up.
func (rl *rateLimiter) purgeLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		rl.purge(time.Now())
	}
}

func (rl *rateLimiter) purge(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	purged := 0
	for ip, entry := range rl.entries {
		entry.mu.Lock()
		if now.After(entry.windowEnd) {
			delete(rl.entries, ip)
			purged++
		}
		entry.mu.Unlock()
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(rl.entries)).Msg("rate limiter entries purged")
	}
	return purged
}
