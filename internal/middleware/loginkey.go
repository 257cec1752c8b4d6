package middleware

import (
	"crypto/subtle"
	"net/http"

	"sera-scan-api/pkg/apierror"
	"sera-scan-api/pkg/response"
)

// NewLoginKeyMiddleware gates the admin surface behind an X-Login-Key header
// matched against the configured LOGIN_KEY. An empty configured key disables
// the gate (development mode).
func NewLoginKeyMiddleware(loginKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if loginKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-Login-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(loginKey)) != 1 {
				response.Error(w, apierror.Unauthorized("invalid login key"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
