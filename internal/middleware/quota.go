package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/tubechat/tubechat/internal/pkg/errcode"
	"github.com/tubechat/tubechat/internal/pkg/response"
)

const (
	quotaWindow        = 24 * time.Hour
	quotaSweepInterval = time.Hour
)

// quotaLimiter counts requests per client IP inside a sliding window. One
// limiter guards one operation, so the key is just the IP.
type quotaLimiter struct {
	mu            sync.Mutex
	op            string
	limit         int
	window        time.Duration
	sweepInterval time.Duration
	hits          map[string][]time.Time
	lastSweep     time.Time
	now           func() time.Time
}

// DailyQuota limits each client IP to limit requests per 24h for the named
// operation. A non-positive limit disables the check.
func DailyQuota(op string, limit int) gin.HandlerFunc {
	limiter := &quotaLimiter{
		op:            op,
		limit:         limit,
		window:        quotaWindow,
		sweepInterval: quotaSweepInterval,
		hits:          make(map[string][]time.Time),
		now:           time.Now,
	}
	return limiter.handle
}

func (l *quotaLimiter) handle(c *gin.Context) {
	if l.limit <= 0 {
		c.Next()
		return
	}
	ip := c.ClientIP()
	now := l.now()

	l.mu.Lock()
	l.sweepLocked(now)
	kept := pruneHits(l.hits[ip], now.Add(-l.window))
	if len(kept) >= l.limit {
		l.hits[ip] = kept
		l.mu.Unlock()
		logutil.GetLogger(c.Request.Context()).Warn("daily quota exceeded",
			zap.String("ip", ip),
			zap.String("op", l.op),
			zap.Int("limit", l.limit),
		)
		response.Error(c, errcode.ErrTooMany, "daily quota exceeded")
		c.Abort()
		return
	}
	l.hits[ip] = append(kept, now)
	l.mu.Unlock()
	c.Next()
}

// sweepLocked drops IPs whose hits all fell out of the window, at most once
// per sweepInterval.
func (l *quotaLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < l.sweepInterval {
		return
	}
	cutoff := now.Add(-l.window)
	for ip, hits := range l.hits {
		kept := pruneHits(hits, cutoff)
		if len(kept) == 0 {
			delete(l.hits, ip)
			continue
		}
		l.hits[ip] = kept
	}
	l.lastSweep = now
}

func pruneHits(hits []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(hits) && !hits[idx].After(cutoff) {
		idx++
	}
	return hits[idx:]
}
