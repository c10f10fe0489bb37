package api

import "github.com/gin-gonic/gin"

// HealthHandler provides liveness and readiness endpoints for the service.
//
// Responsibilities:
//   - /healthz: Basic liveness probe (always returns 200 OK).
//   - /readyz: Readiness probe; also reports whether a log is loaded.
type HealthHandler struct {
	check  func() error // Reports why the service cannot serve; nil means always ready
	loaded func() bool  // Reports whether the session holds a log
}

// NewHealthHandler constructs a HealthHandler.
//
// Parameters:
//   - check (func() error): returns non-nil when the service cannot serve requests.
//   - loaded (func() bool): reports whether a log file is loaded. May be nil.
func NewHealthHandler(check func() error, loaded func() bool) *HealthHandler {
	return &HealthHandler{check: check, loaded: loaded}
}

// Register mounts the health and readiness endpoints into the provided Gin router.
//
// Routes:
//   - GET /healthz: Always returns 200 OK.
//   - GET /readyz: Returns 200 OK with the session state, 503 if check fails.
func (h *HealthHandler) Register(r *gin.Engine) {
	// Liveness probe (just checks if the service is up)
	// @Summary      Liveness probe
	// @Description  Always returns OK if the service is running
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Router       /healthz [get]
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Readiness probe
	// @Summary      Readiness probe
	// @Description  Returns ready and whether a log file is currently loaded
	// @Tags         health
	// @Produce      json
	// @Success      200  {object}  map[string]string
	// @Failure      503  {object}  map[string]string
	// @Router       /readyz [get]
	r.GET("/readyz", func(c *gin.Context) {
		if h.check != nil && h.check() != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		session := "empty"
		if h.loaded != nil && h.loaded() {
			session = "loaded"
		}
		c.JSON(200, gin.H{"status": "ready", "session": session})
	})
}
