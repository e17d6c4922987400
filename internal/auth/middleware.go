// Package auth provides authentication middleware for the sync server.
// The batch trigger endpoint is protected by a shared secret presented as a
// bearer token, the model used by cron schedulers invoking the job.
package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// NewSecretMiddleware returns an HTTP middleware that rejects any request
// whose Authorization header does not carry the configured shared secret.
// The comparison is constant-time. An empty configured secret rejects
// everything: a misconfigured deployment must not become an open trigger.
func NewSecretMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				slog.Warn("Trigger secret not configured, rejecting request",
					"path", r.URL.Path,
				)
				writeUnauthorized(w)
				return
			}

			token, ok := extractBearerToken(r)
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				slog.Warn("Unauthorized trigger request",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
				)
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken pulls the token out of the Authorization header
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	return strings.TrimPrefix(header, bearerPrefix), true
}

// writeUnauthorized writes the 401 response body used by the API
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
