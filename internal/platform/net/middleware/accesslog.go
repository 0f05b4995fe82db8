package middleware

import (
	stdhttp "net/http"
	"time"

	"github.com/em3s/mungchi-sub001/internal/platform/logger"
	pnet "github.com/em3s/mungchi-sub001/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLog emits one structured line per request after it completes.
// It also threads the request id (and child id, once a handler sets one)
// into the request context so downstream logs correlate
func AccessLog(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		ctx := logger.WithRequest(r.Context(), chimw.GetReqID(r.Context()), pnet.ChildID(r.Context()))
		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.C(ctx).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
