package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/idilsaglam/snaptodo/internal/auth"
)

var (
	errUnauthorized = errors.New("missing or invalid bearer token")
	errTokenExpired = errors.New("server token expired, run `todo auth login` and restart")
)

// requestLogger writes one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}

// requireToken checks the Authorization header, or the token query
// parameter for websocket clients that cannot set headers. An empty token
// disables the check. Once expiresAt has passed every request is refused.
func requireToken(token string, expiresAt *time.Time, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		want := []byte(token)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expiresAt != nil && now().After(*expiresAt) {
				respondError(w, http.StatusUnauthorized, errTokenExpired)
				return
			}
			got := strings.TrimSpace(auth.StripBearer(r.Header.Get("Authorization")))
			if got == "" {
				got = r.URL.Query().Get("token")
			}
			if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				respondError(w, http.StatusUnauthorized, errUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
