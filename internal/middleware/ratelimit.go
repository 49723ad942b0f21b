package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"club-hours/internal/config"
	"club-hours/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const rateLimitMessage = "Rate limit exceeded. You are making too many requests. Please slow down and try again in a few moments."

// idleBucket is how long an unused bucket is kept. A bucket refills within
// burst/rate seconds, so dropping it later than that loses nothing.
const idleBucket = 10 * time.Minute

// Limiter hands out one token bucket per key.
type Limiter struct {
	name    string
	limit   rate.Limit
	burst   int
	buckets *cache.Cache
}

func NewLimiter(name string, tier config.RateTier) *Limiter {
	burst := tier.Burst
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		name:    name,
		limit:   rate.Limit(tier.PerSecond),
		burst:   burst,
		buckets: cache.New(idleBucket, time.Minute),
	}
}

// Allow takes one token from key's bucket.
func (l *Limiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	if v, ok := l.buckets.Get(key); ok {
		b := v.(*rate.Limiter)
		l.buckets.Set(key, b, cache.DefaultExpiration)
		return b
	}
	b := rate.NewLimiter(l.limit, l.burst)
	if err := l.buckets.Add(key, b, cache.DefaultExpiration); err != nil {
		// lost the race against another request for the same key
		if v, ok := l.buckets.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return b
}

// retryAfter is the whole number of seconds until one token is back.
func (l *Limiter) retryAfter() int {
	if l.limit <= 0 {
		return 1
	}
	return int(math.Ceil(1 / float64(l.limit)))
}

// KeyFunc picks the bucket a request draws from.
type KeyFunc func(c *gin.Context) string

// ByClientIP keys on the caller's address.
func ByClientIP(c *gin.Context) string {
	return "ip:" + ClientIP(c.Request)
}

// ByMember keys on the authenticated member and falls back to the address.
func ByMember(c *gin.Context) string {
	if id := MemberID(c); id != "" {
		return "member:" + id
	}
	return ByClientIP(c)
}

func RateLimit(l *Limiter, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := key(c)
		if l.Allow(k) {
			c.Next()
			return
		}
		logger.Warn("ratelimit.exceeded", "tier", l.name, "key", k, "path", c.FullPath())
		c.Header("Retry-After", strconv.Itoa(l.retryAfter()))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error":   rateLimitMessage,
			"code":    "RATE_LIMIT_EXCEEDED",
		})
	}
}

// ClientIP resolves the caller behind the usual proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	for _, h := range []string{"X-Real-IP", "CF-Connecting-IP"} {
		if v := strings.TrimSpace(r.Header.Get(h)); v != "" {
			return v
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
