package api

import (
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/guttosm/shoppulse/internal/logger"
	"github.com/guttosm/shoppulse/internal/middleware"
)

const (
	eventsWriteWait  = 10 * time.Second
	eventsPongWait   = 60 * time.Second
	eventsPingPeriod = (eventsPongWait * 9) / 10
	eventsReadLimit  = 512
)

// StreamEvents handles GET /api/v1/events.
//
// StreamEvents godoc
// @Summary      Session change stream
// @Description  Upgrades to a websocket that receives a JSON event each time the session log is loaded, reloaded or removed
// @Tags         logs
// @Success      101  "Switching Protocols"
// @Failure      404  {object}  dto.ErrorResponse  "Event stream disabled"
// @Router       /api/v1/events [get]
func (h *Handler) StreamEvents(c *gin.Context) {
	if h.opts.Events == nil {
		middleware.AbortWithError(c, http.StatusNotFound, "event stream disabled", nil)
		return
	}

	// Subscribe before the handshake so nothing published after the client
	// sees 101 is missed.
	sub, cancel := h.opts.Events.Subscribe()
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return
	}
	defer func() { _ = conn.Close() }()

	log := logger.With("events")
	remote := conn.RemoteAddr().String()
	log.Debug().Str("remote", remote).Msg("event stream opened")
	defer func() { log.Debug().Str("remote", remote).Msg("event stream closed") }()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(eventsReadLimit)
		_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(eventsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}

// checkOrigin accepts non-browser clients, the configured origins and
// same-host pages.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(h.opts.AllowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
