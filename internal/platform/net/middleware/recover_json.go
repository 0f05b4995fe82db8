package middleware

import (
	stdhttp "net/http"
	"runtime/debug"

	perr "github.com/em3s/mungchi-sub001/internal/platform/errors"
	"github.com/em3s/mungchi-sub001/internal/platform/logger"
	phttp "github.com/em3s/mungchi-sub001/internal/platform/net/http"
)

// RecoverJSON converts a handler panic into a JSON 500 envelope.
// The stack goes to the log, never to the client
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.C(r.Context()).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("handler panic")
				phttp.Err(w, r, perr.PanicErrf("internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
