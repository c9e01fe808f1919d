package middleware

import (
	"net/http"
	"strings"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/docdesk/docdesk/backend/go-services/internal/config"
	"github.com/docdesk/docdesk/backend/go-services/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiterClient(t *testing.T) (*mr.Miniredis, *redis.Client) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m, redis.NewClient(&redis.Options{Addr: m.Addr()})
}

func TestRedisRateLimitMiddleware_WindowExpires(t *testing.T) {
	m, client := newRedisLimiterClient(t)
	r := limitedRouter(RedisRateLimitMiddleware(client, 1, 0, time.Second))

	require.Equal(t, http.StatusOK, getDocuments(r, "", ""))
	require.Equal(t, http.StatusTooManyRequests, getDocuments(r, "", ""))

	// the window key expires and the count starts over
	m.FastForward(2 * time.Second)
	require.Equal(t, http.StatusOK, getDocuments(r, "", ""))
}

func TestRedisRateLimitMiddleware_KeysBySubject(t *testing.T) {
	m, client := newRedisLimiterClient(t)
	limit := NewRateLimiter(config.RateLimitConfig{Enabled: true, RPS: 0, Burst: 1, UseRedis: true, WindowSeconds: 60}, client)
	r := limitedRouter(limit)

	before := testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("redis"))
	require.Equal(t, http.StatusOK, getDocuments(r, "goodtoken", "10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, getDocuments(r, "goodtoken", "10.0.0.1"))
	require.Equal(t, http.StatusOK, getDocuments(r, "admintoken", "10.0.0.1"))
	require.Equal(t, http.StatusOK, getDocuments(r, "", "10.0.0.1"))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("redis")))

	var subjects, ips int
	for _, k := range m.Keys() {
		switch {
		case strings.HasPrefix(k, "rl:sub:"):
			subjects++
		case strings.HasPrefix(k, "rl:ip:"):
			ips++
		}
	}
	assert.Equal(t, 2, subjects)
	assert.Equal(t, 1, ips)
}

func TestRedisRateLimitMiddleware_NilClientUsesMemory(t *testing.T) {
	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))
	r := limitedRouter(RedisRateLimitMiddleware(nil, 10, 1, time.Second))
	require.Equal(t, http.StatusOK, getDocuments(r, "", ""))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory")))
}
