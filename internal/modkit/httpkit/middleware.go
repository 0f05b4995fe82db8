package httpkit

import (
	"net/http"
	"time"

	"github.com/em3s/mungchi-sub001/internal/platform/net/middleware"
)

// CommonStack returns the baseline middleware slice for the API binary
// origins feeds the CORS allowlist; pass []string{"*"} for local development
func CommonStack(origins []string) []func(http.Handler) http.Handler {
	return middleware.Common(origins, 30*time.Second)
}
