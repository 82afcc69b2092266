package api

import (
	"net/http"
)

// GetRoot handles GET /api. Hypermedia clients receive the entry points of
// the API; everyone else gets an empty response.
func GetRoot(w http.ResponseWriter, r *http.Request) {
	if !wantsHypermedia(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respond(w, r, http.StatusOK, linkBuilder(r).ForRoot())
}
