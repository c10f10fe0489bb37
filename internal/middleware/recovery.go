package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/shoppulse/internal/domain/dto"
	"github.com/guttosm/shoppulse/internal/metrics"
)

// RecoveryMiddleware turns a panic in any later handler into a 500 with a
// dto.ErrorResponse body.
//
// The panic value, route and stack go to the request logger (so the entry
// carries the request id); the client only gets a generic message. If the
// handler had already started writing, the response is left as is.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			metrics.PanicsRecoveredTotal.Inc()
			Log(c).Error().
				Str("panic", fmt.Sprint(r)).
				Str("route", c.FullPath()).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", nil))
		}()

		c.Next()
	}
}
