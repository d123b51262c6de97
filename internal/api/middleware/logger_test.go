package middleware_test

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/middleware"
)

func TestLogger(t *testing.T) {
	serve := func(t *testing.T, handler http.Handler, target string) (*httptest.ResponseRecorder, string) {
		t.Helper()

		var buf bytes.Buffer
		log.SetOutput(&buf)
		defer log.SetOutput(os.Stderr)

		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		middleware.Logger(handler).ServeHTTP(w, req)
		return w, buf.String()
	}

	t.Run("logs method, path, status and response size", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("hello")) //nolint:errcheck // Test handler write
		})

		w, logged := serve(t, handler, "/widgets")

		if w.Code != http.StatusCreated {
			t.Errorf("Expected status to pass through, got %d", w.Code)
		}
		if w.Body.String() != "hello" {
			t.Errorf("Expected body to pass through, got %q", w.Body.String())
		}
		if !strings.Contains(logged, "GET /widgets 201 5B") {
			t.Errorf("Expected request line in log output, got %q", logged)
		}
	})

	t.Run("defaults to 200 when handler never sets a status", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("ok")) //nolint:errcheck // Test handler write
		})

		_, logged := serve(t, handler, "/ping")

		if !strings.Contains(logged, "GET /ping 200 2B") {
			t.Errorf("Expected implicit 200 in log output, got %q", logged)
		}
	})

	t.Run("strips newlines from the request path", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.URL.Path = "/evil\nINJECTED"

		var buf bytes.Buffer
		log.SetOutput(&buf)
		defer log.SetOutput(os.Stderr)

		middleware.Logger(handler).ServeHTTP(httptest.NewRecorder(), req)

		if strings.Contains(buf.String(), "\nINJECTED") {
			t.Errorf("Expected newline stripped from log output, got %q", buf.String())
		}
		if !strings.Contains(buf.String(), "/evilINJECTED") {
			t.Errorf("Expected sanitized path in log output, got %q", buf.String())
		}
	})
}
