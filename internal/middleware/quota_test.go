package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newQuotaContext() *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/chat", nil)
	return c
}

func TestQuotaLimiterBlocksAfterLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Now()
	limiter := &quotaLimiter{
		op:            "chat",
		limit:         2,
		window:        24 * time.Hour,
		sweepInterval: time.Hour,
		hits:          make(map[string][]time.Time),
		now:           func() time.Time { return now },
	}

	for i := 0; i < 2; i++ {
		c := newQuotaContext()
		limiter.handle(c)
		require.False(t, c.IsAborted())
	}
	c := newQuotaContext()
	limiter.handle(c)
	require.True(t, c.IsAborted())
}

func TestQuotaLimiterWindowSlides(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Now()
	limiter := &quotaLimiter{
		op:            "chat",
		limit:         1,
		window:        24 * time.Hour,
		sweepInterval: time.Hour,
		hits:          make(map[string][]time.Time),
		now:           func() time.Time { return now },
	}

	c1 := newQuotaContext()
	limiter.handle(c1)
	require.False(t, c1.IsAborted())

	c2 := newQuotaContext()
	limiter.handle(c2)
	require.True(t, c2.IsAborted())

	now = now.Add(24*time.Hour + time.Minute)
	c3 := newQuotaContext()
	limiter.handle(c3)
	require.False(t, c3.IsAborted())
}

func TestQuotaLimiterZeroLimitDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := &quotaLimiter{
		op:            "chat",
		limit:         0,
		window:        24 * time.Hour,
		sweepInterval: time.Hour,
		hits:          make(map[string][]time.Time),
		now:           time.Now,
	}
	for i := 0; i < 50; i++ {
		c := newQuotaContext()
		limiter.handle(c)
		require.False(t, c.IsAborted())
	}
}

func TestQuotaLimiterSweepLocked(t *testing.T) {
	base := time.Now()
	limiter := &quotaLimiter{
		op:            "chat",
		limit:         3,
		window:        24 * time.Hour,
		sweepInterval: time.Hour,
		hits:          make(map[string][]time.Time),
		now:           time.Now,
	}
	limiter.hits["stale"] = []time.Time{base.Add(-30 * time.Hour)}
	limiter.hits["active"] = []time.Time{base.Add(-30 * time.Hour), base.Add(-time.Hour)}

	limiter.mu.Lock()
	limiter.sweepLocked(base)
	limiter.mu.Unlock()

	require.NotContains(t, limiter.hits, "stale")
	require.Len(t, limiter.hits["active"], 1)
	require.False(t, limiter.lastSweep.IsZero())
}
