package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/shoppulse/internal/logger"
)

// captureLogs routes the global logger into a buffer for the rest of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("LOG_LEVEL", "debug")
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })
	return &buf
}

// logEntry returns the first JSON log line whose message is msg.
func logEntry(t *testing.T, buf *bytes.Buffer, msg string) map[string]any {
	t.Helper()
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			continue
		}
		if entry["message"] == msg {
			return entry
		}
	}
	t.Fatalf("no %q entry in logs:\n%s", msg, buf.String())
	return nil
}

func TestRequestLogger_CarriesRequestID(t *testing.T) {
	buf := captureLogs(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/api/v1/players/:name", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"player": c.Param("name")}) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/Steve", nil)
	req.Header.Set(RequestIDHeader, "ui-7f3a")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	entry := logEntry(t, buf, "http_request")
	if entry["request_id"] != "ui-7f3a" {
		t.Fatalf("request_id=%v, want ui-7f3a", entry["request_id"])
	}
	if entry["component"] != "http" {
		t.Fatalf("component=%v, want http", entry["component"])
	}
	if entry["route"] != "/api/v1/players/:name" {
		t.Fatalf("route=%v, want the pattern", entry["route"])
	}
	if entry["path"] != "/api/v1/players/Steve" {
		t.Fatalf("path=%v", entry["path"])
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Fatalf("status=%v", entry["status"])
	}
}

func TestRequestLogger_UnmatchedRoute(t *testing.T) {
	buf := captureLogs(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/api/v1/analytics", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	entry := logEntry(t, buf, "http_request")
	if entry["route"] != "unmatched" {
		t.Fatalf("route=%v, want unmatched", entry["route"])
	}
	if entry["status"] != float64(http.StatusNotFound) {
		t.Fatalf("status=%v, want 404", entry["status"])
	}
	if entry["request_id"] != w.Header().Get(RequestIDHeader) {
		t.Fatalf("log id %v does not match header %q", entry["request_id"], w.Header().Get(RequestIDHeader))
	}
}

func TestRequestLogger_ServerErrorIsWarn(t *testing.T) {
	buf := captureLogs(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/api/v1/analytics", func(c *gin.Context) {
		AbortWithError(c, http.StatusInternalServerError, "failed to compute analytics", nil)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/analytics", nil))

	if lvl := logEntry(t, buf, "http_request")["level"]; lvl != "warn" {
		t.Fatalf("level=%v, want warn", lvl)
	}
}

func TestLog_WithoutRequestID(t *testing.T) {
	buf := captureLogs(t)
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	Log(c).Info().Msg("bare")

	entry := logEntry(t, buf, "bare")
	if entry["component"] != "http" {
		t.Fatalf("component=%v, want http", entry["component"])
	}
	if _, ok := entry["request_id"]; ok {
		t.Fatalf("unexpected request_id on a context without RequestID")
	}
}
