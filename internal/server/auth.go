package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/vanshika/routemap/backend/internal/config"
)

const apiKeyHeader = "X-Api-Key"

// apiKeyMiddleware gates the map API behind static keys. Replacing the map
// needs the read-write key; every other map endpoint accepts either key.
// Health checks and the root path are open.
func apiKeyMiddleware(keys config.AuthConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		provided := r.Header.Get(apiKeyHeader)
		if provided == "" {
			writeError(w, http.StatusUnauthorized, errorUnauthorized, "API Key is missing. Please provide X-Api-Key header.")
			return
		}

		requiresWrite := r.Method == http.MethodPost && strings.EqualFold(r.URL.Path, setMapPath)
		if requiresWrite {
			if !keyMatches(provided, keys.ReadWriteKey) {
				writeError(w, http.StatusUnauthorized, errorUnauthorized, "Invalid API Key or insufficient permissions. Read-write key required.")
				return
			}
		} else if !keyMatches(provided, keys.ReadKey) && !keyMatches(provided, keys.ReadWriteKey) {
			writeError(w, http.StatusUnauthorized, errorUnauthorized, "Invalid API Key. Read or read-write key required.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// keyMatches compares in constant time; an unset key never matches.
func keyMatches(provided, configured string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(configured)) == 1
}
