package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestAccessLogOmitsLaunchPayload(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(AccessLog(&buf))
	e.GET("/realtime", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	payload := signedPayload("42")
	req := httptest.NewRequest(http.MethodGet, "/realtime?initData="+url.QueryEscape(payload), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	line := buf.String()
	if !strings.Contains(line, `"path":"/realtime"`) {
		t.Fatalf("expected path in access log, got %s", line)
	}
	hash := payload[strings.LastIndex(payload, "hash=")+len("hash="):]
	for _, secret := range []string{"initData", hash, "auth_date"} {
		if strings.Contains(line, secret) {
			t.Fatalf("access log leaks %q: %s", secret, line)
		}
	}
}
