package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/docdesk/docdesk/backend/go-services/internal/config"
	"github.com/docdesk/docdesk/backend/go-services/pkg/logger"
	"github.com/docdesk/docdesk/backend/go-services/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// limiterStore holds one token bucket per key.
type limiterStore struct {
	rps     float64
	burst   int
	buckets sync.Map // map[string]*rate.Limiter
}

func (s *limiterStore) get(key string) *rate.Limiter {
	if v, ok := s.buckets.Load(key); ok {
		return v.(*rate.Limiter)
	}
	v, _ := s.buckets.LoadOrStore(key, rate.NewLimiter(rate.Limit(s.rps), s.burst))
	return v.(*rate.Limiter)
}

// rateKey prefers the authenticated subject, falling back to the client IP.
// The subject is only known when OptionalAuth or AuthMiddleware ran first.
func rateKey(c *gin.Context) string {
	if u, ok := CurrentUser(c); ok {
		return "sub:" + u.ID
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// RateLimitMiddleware returns a Gin middleware enforcing a token-bucket per-key limit.
// rps = allowed events per second, burst = maximum tokens in bucket.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	store := &limiterStore{rps: rps, burst: burst}
	return func(c *gin.Context) {
		if !store.get(rateKey(c)).Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}

// NewRateLimiter builds the limiter selected by cfg, or returns nil when rate
// limiting is disabled. The Redis limiter is used only when cfg asks for it
// and client is non-nil. Install it after OptionalAuth to key by user.
func NewRateLimiter(cfg config.RateLimitConfig, client *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}
	if cfg.UseRedis && client != nil {
		logger.Infof("rate limiter enabled: rps=%.1f burst=%d backend=redis", cfg.RPS, cfg.Burst)
		return RedisRateLimitMiddleware(client, cfg.RPS, cfg.Burst, time.Duration(cfg.WindowSeconds)*time.Second)
	}
	logger.Infof("rate limiter enabled: rps=%.1f burst=%d backend=memory", cfg.RPS, cfg.Burst)
	return RateLimitMiddleware(cfg.RPS, cfg.Burst)
}
