package httpkit

import (
	"net/http"

	"github.com/em3s/mungchi-sub001/internal/platform/logger"
	pnet "github.com/em3s/mungchi-sub001/internal/platform/net"
)

// WithChild lifts the {childID} path parameter onto the request context
// and refreshes the context logger so downstream lines carry the child id
func WithChild(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := Param(r, "childID"); id != "" {
			ctx := pnet.WithRequest(r.Context(), "", id)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), id)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}
