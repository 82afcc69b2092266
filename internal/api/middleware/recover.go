package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/library-api/internal/api/shared"
)

// FaultMessage is returned to clients when a handler panics.
const FaultMessage = "An unexpected fault did occur. Please try again later."

// Recoverer turns a panic in a downstream handler into a 500 response. The
// panic value and stack are logged, never sent. http.ErrAbortHandler is
// re-raised so the server can abort the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err := fmt.Errorf("panic: %v\n%s", rec, debug.Stack())
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, FaultMessage, err)
		}()

		next.ServeHTTP(w, r)
	})
}
