package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("handler saw empty request id")
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("%s header = %q, want %q", RequestIDHeader, got, seen)
	}
}

func TestAccessLogRecordsRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/teapot", func(c *gin.Context) {
		c.String(http.StatusTeapot, "short and stout")
	})

	req := httptest.NewRequest(http.MethodGet, "/teapot", nil)
	req.Header.Set(RequestIDHeader, "abc")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	want := map[string]any{
		"request_id": "abc",
		"method":     "GET",
		"path":       "/teapot",
		"status":     int64(http.StatusTeapot),
		"bytes":      int64(len("short and stout")),
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %s = %v, want %v", k, fields[k], v)
		}
	}
}

func TestAccessLogRecordsAbortedRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.POST("/upload", func(c *gin.Context) {
		panic(http.ErrAbortHandler)
	})

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	func() {
		defer func() {
			if rec := recover(); rec != http.ErrAbortHandler {
				t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
			}
		}()
		r.ServeHTTP(httptest.NewRecorder(), req)
	}()

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	want := map[string]any{
		"request_id": "req-1",
		"method":     "POST",
		"path":       "/upload",
		"aborted":    true,
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %s = %v, want %v", k, fields[k], v)
		}
	}
	if _, ok := fields["status"]; ok {
		t.Error("aborted entry carries a status")
	}
}

func TestRecoveryReturns500(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("panic was not logged")
	}
}

func TestRecoveryLetsAbortThrough(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/abort", func(c *gin.Context) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
		}
	}()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abort", nil))
	t.Error("ErrAbortHandler was swallowed")
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(10))
	r.POST("/", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		body string
		want int
	}{
		{body: "0123456789", want: http.StatusOK},
		{body: "0123456789x", want: http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))
		if rec.Code != tt.want {
			t.Errorf("body of %d bytes: status = %d, want %d", len(tt.body), rec.Code, tt.want)
		}
	}
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/api/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	req.Header.Set("Origin", "http://elsewhere.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
