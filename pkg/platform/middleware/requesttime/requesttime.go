// Package requesttime captures one "now" per request so audit events and
// domain timestamps within the request agree.
package requesttime

import (
	"net/http"
	"time"

	"onboard/pkg/requestcontext"
)

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
