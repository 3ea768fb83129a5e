package kit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// UnmatchedRoute labels requests no route claimed, so 404 scans share one
// series instead of one per path.
const UnmatchedRoute = "unmatched"

// RouteLabel is the chi route pattern that served r.
func RouteLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return UnmatchedRoute
	}
	if rp := rctx.RoutePattern(); rp != "" {
		return rp
	}
	return UnmatchedRoute
}
