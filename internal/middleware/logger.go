package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/shoppulse/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RequestLogger logs one line per request and counts it in
// shoppulse_http_requests_total.
//
// The line is written through Log(c), so it carries the request_id bound by
// RequestID. Routes are labelled by their pattern (/api/v1/players/:name),
// and requests that matched no route by "unmatched".
//
// Example log output:
//
//	{"level":"info","component":"http","request_id":"2f1c...","method":"GET","route":"/api/v1/analytics","status":200,"latency_ms":3,"message":"http_request"}
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()

		level := zerolog.InfoLevel
		if status >= http.StatusInternalServerError {
			level = zerolog.WarnLevel
		}
		Log(c).WithLevel(level).
			Str("method", method).
			Str("route", route).
			Str("path", path).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}

// client is the token bucket of one client IP.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Global in-memory store for rate limiting. The server is single-instance, so a process-local map is enough.
var (
	clients         = make(map[string]*client)
	window          = time.Minute
	limit           = 60
	rateLimiterLock sync.Mutex
)

// SetRateLimit changes the number of requests allowed per client per window.
// Values <= 0 are ignored.
func SetRateLimit(perWindow int) {
	if perWindow <= 0 {
		return
	}
	rateLimiterLock.Lock()
	limit = perWindow
	rateLimiterLock.Unlock()
}

// RateLimiter is an in-memory middleware that limits the number of requests per client IP.
//
// Behavior:
//   - Each IP gets a token bucket holding `limit` tokens, refilled evenly over `window`
//     (default: 60 requests per minute, bursts up to 60).
//   - Buckets idle for longer than `window` are rebuilt, as are buckets created under a different limit.
//   - If the bucket is empty, returns HTTP 429 Too Many Requests.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RateLimiter())
//
// Response when limit exceeded:
//
//	HTTP/1.1 429 Too Many Requests
//	{
//	    "error": "rate limit exceeded"
//	}
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		rateLimiterLock.Lock()
		cl, ok := clients[ip]
		if !ok || cl.limiter.Burst() != limit || now.Sub(cl.lastSeen) > window {
			cl = &client{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
			clients[ip] = cl
		}
		cl.lastSeen = now
		allowed := cl.limiter.AllowN(now, 1)
		rateLimiterLock.Unlock()

		if !allowed {
			metrics.RateLimitBlockTotal.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
