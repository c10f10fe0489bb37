package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guttosm/shoppulse/internal/logger"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"

	requestLoggerKey = "request_logger"
	maxRequestIDLen  = 64
)

// RequestID tags every request with an id and a request-scoped logger.
//
// Behavior:
//   - Keeps a well-formed inbound X-Request-ID (the UI sends one per action so
//     its console and our logs can be matched); otherwise issues a UUID v4.
//   - Stores the id under RequestIDKey and echoes it in the X-Request-ID response header.
//   - Binds a logger tagged component=http and request_id=<id>, returned by Log(c).
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		l := logger.With("http").With().Str("request_id", id).Logger()
		c.Set(RequestIDKey, id)
		c.Set(requestLoggerKey, &l)
		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()
	}
}

// validRequestID accepts short ids made of ASCII letters, digits, '-', '_' and '.'.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch ch := id[i]; {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.':
		default:
			return false
		}
	}
	return true
}

// Log returns the logger bound by RequestID, or a plain http logger when
// the request did not pass through it.
func Log(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(requestLoggerKey); ok {
		if l, ok := v.(*zerolog.Logger); ok {
			return l
		}
	}
	return logger.With("http")
}
