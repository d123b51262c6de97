package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/middleware"
)

func TestAPIKeyMiddleware(t *testing.T) {
	testAPIKey := "test-api-key-12345"

	serve := func(t *testing.T, headers map[string]string) (*httptest.ResponseRecorder, *bool) {
		t.Helper()

		handlerCalled := false
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
			w.WriteHeader(http.StatusOK)
		})

		mw := middleware.APIKeyMiddleware(testHandler)

		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)
		return w, &handlerCalled
	}

	details := func(t *testing.T, w *httptest.ResponseRecorder) string {
		t.Helper()
		var response map[string]string
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)
		return response["details"]
	}

	t.Setenv("INTERNAL_API_KEY", testAPIKey)

	t.Run("rejects request without API key", func(t *testing.T) {
		w, handlerCalled := serve(t, nil)

		if *handlerCalled {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
		if got := details(t, w); got != "Missing API key" {
			t.Errorf("Expected 'Missing API key' error, got '%s'", got)
		}
	})

	t.Run("rejects request with invalid API key", func(t *testing.T) {
		w, handlerCalled := serve(t, map[string]string{"X-API-Key": "invalid"})

		if *handlerCalled {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
		if got := details(t, w); got != "Invalid API key" {
			t.Errorf("Expected 'Invalid API key' error, got '%s'", got)
		}
	})

	t.Run("rejects request without time token", func(t *testing.T) {
		w, handlerCalled := serve(t, map[string]string{"X-API-Key": testAPIKey})

		if *handlerCalled {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
		if got := details(t, w); got != "Missing Time token" {
			t.Errorf("Expected 'Missing Time token' error, got '%s'", got)
		}
	})

	t.Run("rejects request with invalid time token", func(t *testing.T) {
		w, handlerCalled := serve(t, map[string]string{
			"X-API-Key":    testAPIKey,
			"X-Time-Token": "invalid",
		})

		if *handlerCalled {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
		if got := details(t, w); got != "Time token is invalid or expired" {
			t.Errorf("Expected 'Time token is invalid or expired' error, got '%s'", got)
		}
	})

	t.Run("allows request with valid API key and time token", func(t *testing.T) {
		w, handlerCalled := serve(t, map[string]string{
			"X-API-Key":    testAPIKey,
			"X-Time-Token": middleware.GenerateTimeToken(testAPIKey),
		})

		if !*handlerCalled {
			t.Error("Expected handler to complete.")
		}
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("fail on not loaded internal_api_key", func(t *testing.T) {
		os.Unsetenv("INTERNAL_API_KEY")

		w, handlerCalled := serve(t, nil)

		if *handlerCalled {
			t.Error("Expected request not to complete.")
		}
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
		if got := details(t, w); got != "Authentication not loaded" {
			t.Errorf("Expected 'Authentication not loaded' error, got '%s'", got)
		}
	})
}
