package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/doctorwapp/provider-api/internal/platform/apierror"
)

func TestCacheControl_Success(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/providers/filters", nil), rec)

	h := CacheControl(5 * time.Minute)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get(echo.HeaderCacheControl); got != "public, max-age=300" {
		t.Errorf("unexpected Cache-Control: %q", got)
	}
}

func TestCacheControl_ErrorIsNotCached(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/providers/filters", nil), rec)

	h := CacheControl(time.Minute)(func(c echo.Context) error { return apierror.Internal(nil) })
	if err := h(c); err == nil {
		t.Fatal("expected error to pass through")
	}
	if got := rec.Header().Get(echo.HeaderCacheControl); got != "no-store" {
		t.Errorf("expected no-store on failure, got %q", got)
	}
}
