package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"os"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/response"
)

// timeTokenTTL bounds how long a generated time token stays valid.
// Requests replayed after the window are rejected.
const timeTokenTTL = 30 * time.Second

// fernetKey derives a fernet key from the shared API key. SHA-256 yields
// exactly the 32 bytes a fernet key requires.
func fernetKey(apiKey string) *fernet.Key {
	var key fernet.Key
	sum := sha256.Sum256([]byte(apiKey))
	copy(key[:], sum[:])
	return &key
}

// GenerateTimeToken creates a short-lived fernet token bound to the
// given API key. Callers send it in the X-Time-Token header alongside
// X-API-Key.
func GenerateTimeToken(apiKey string) string {
	token, err := fernet.EncryptAndSign(
		[]byte(time.Now().UTC().Format(time.RFC3339)),
		fernetKey(apiKey),
	)
	if err != nil {
		return ""
	}
	return string(token)
}

// APIKeyMiddleware guards privileged endpoints with a shared API key and
// a short-lived time token. The key comes from the INTERNAL_API_KEY
// environment variable; the time token is a fernet token generated from
// that key, which makes captured requests useless after the TTL.
//
// Returns 401 Unauthorized when either header is missing or invalid and
// 500 Internal Server Error when no key is configured.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expectedKey := os.Getenv("INTERNAL_API_KEY")
		if expectedKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "authentication failed", "Authentication not loaded")
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Missing API key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expectedKey)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Invalid API key")
			return
		}

		timeToken := r.Header.Get("X-Time-Token")
		if timeToken == "" {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Missing Time token")
			return
		}

		msg := fernet.VerifyAndDecrypt([]byte(timeToken), timeTokenTTL, []*fernet.Key{fernetKey(expectedKey)})
		if msg == nil {
			response.RespondError(w, http.StatusUnauthorized, "authentication failed", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}
