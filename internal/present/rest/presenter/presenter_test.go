package presenter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestTaggedNotModified(t *testing.T) {
	e := echo.New()
	payload := []string{"a", "b"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := Tagged(e.NewContext(req, rec), payload); err != nil {
		t.Fatalf("tagged failed: %v", err)
	}
	etag := rec.Header().Get(HeaderETag)
	if rec.Code != http.StatusOK || etag == "" {
		t.Fatalf("expected 200 with etag, got %d %q", rec.Code, etag)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderIfNoneMatch, etag)
	rec = httptest.NewRecorder()
	if err := Tagged(e.NewContext(req, rec), payload); err != nil {
		t.Fatalf("tagged failed: %v", err)
	}
	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rec.Code)
	}
}

func TestUnauthorizedBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := Unauthorized(c, "stale"); err != nil {
		t.Fatalf("unauthorized failed: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	want := `{"error":"cannot verify identity","reason":"stale"}` + "\n"
	if rec.Body.String() != want {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
