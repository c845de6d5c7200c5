// Package requesttime pins a single "now" per request so a claim, its ledger entry
// and its album update all carry the same timestamp.
package requesttime

import (
	"net/http"
	"time"

	"almanah/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
