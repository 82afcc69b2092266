package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// CacheControl sets "Cache-Control: public, max-age=N, must-revalidate" on
// GET and HEAD responses. A non-positive maxAge disables the header.
func CacheControl(maxAge time.Duration) func(http.Handler) http.Handler {
	value := "public, max-age=" + strconv.Itoa(int(maxAge/time.Second)) + ", must-revalidate"

	return func(next http.Handler) http.Handler {
		if maxAge <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				w.Header().Set("Cache-Control", value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
