package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/asemenkov/ecomm-backend/internal/observability"
)

type ctxKey int

const credentialKey ctxKey = iota

// ServerTiming measures total request time, writes app;dur=... to
// Server-Timing and reports the request to Metrics.
func ServerTiming(m observability.Metrics) func(http.Handler) http.Handler {
	if m == nil {
		m = observability.Noop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			dur := float64(time.Since(start).Microseconds()) / 1000.0
			observability.AppendServerTiming(w, "app", dur, "")
			m.ObserveHTTP(r.Method, r.URL.Path, ww.Status(), dur)
		})
	}
}

// RequireCredential pulls the session credential from the Authentication
// cookie (Authorization header as fallback) and stashes it in the request
// context. The credential is opaque here: it is forwarded to billing, never
// inspected. Requests without one are rejected.
func RequireCredential(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred := ""
		if c, err := r.Cookie("Authentication"); err == nil {
			cred = c.Value
		}
		if cred == "" {
			cred = r.Header.Get("Authorization")
		}
		if cred == "" {
			writeJSON(w, http.StatusUnauthorized, errBody{Error: "missing credential"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), credentialKey, cred)))
	})
}

func credentialFrom(ctx context.Context) string {
	v, _ := ctx.Value(credentialKey).(string)
	return v
}
