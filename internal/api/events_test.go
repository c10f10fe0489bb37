package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/guttosm/shoppulse/internal/analytics"
	"github.com/guttosm/shoppulse/internal/events"
	"github.com/guttosm/shoppulse/internal/middleware"
	"github.com/guttosm/shoppulse/internal/service"
	"github.com/guttosm/shoppulse/internal/storage"
)

func TestStreamEvents_Disabled(t *testing.T) {
	r := setupRouter(newService())
	if w := do(r, http.MethodGet, "/api/v1/events", nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestStreamEvents_SessionLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	middleware.SetRateLimit(10_000)

	hub := events.NewHub()
	defer hub.Close()
	svc := service.NewAnalyticsService(storage.NewSessionRepository(), analytics.Query{}, service.WithEvents(hub))
	srv := httptest.NewServer(NewRouter(NewHandler(svc, Options{Events: hub})))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/events"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close() }()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	body, ct := multipartBody(t, "transactions.txt", "", economyLog)
	up, err := http.Post(srv.URL+"/api/v1/logs", ct, body)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	_ = up.Body.Close()
	if up.StatusCode != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", up.StatusCode)
	}

	var ev events.Event
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != events.SessionLoaded || ev.FileName != "transactions.txt" || ev.UploadID == "" {
		t.Fatalf("unexpected event %+v", ev)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/logs", nil)
	del, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	_ = del.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != events.SessionCleared {
		t.Fatalf("expected %s, got %s", events.SessionCleared, ev.Type)
	}

	hub.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("expected going-away close, got %v", err)
	}
}

func TestCheckOrigin(t *testing.T) {
	h := NewHandler(newService(), Options{AllowedOrigins: []string{"http://localhost:3000"}})

	cases := []struct {
		name   string
		origin string
		host   string
		want   bool
	}{
		{name: "no origin", want: true},
		{name: "allowed", origin: "http://localhost:3000", host: "127.0.0.1:8080", want: true},
		{name: "same host", origin: "http://127.0.0.1:8080", host: "127.0.0.1:8080", want: true},
		{name: "foreign", origin: "http://evil.example", host: "127.0.0.1:8080", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
			req.Host = tc.host
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if got := h.checkOrigin(req); got != tc.want {
				t.Fatalf("checkOrigin(%q) = %v, want %v", tc.origin, got, tc.want)
			}
		})
	}
}
