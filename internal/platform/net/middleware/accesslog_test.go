package middleware

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	pnet "github.com/em3s/mungchi-sub001/internal/platform/net"
)

func TestAccessLogThreadsRequestContext(t *testing.T) {
	var seenReqID string
	h := AccessLog(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		seenReqID = pnet.RequestID(r.Context())
		w.WriteHeader(stdhttp.StatusNoContent)
	}))

	req := httptest.NewRequest("GET", "/children", nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), "req-42", ""))

	rec := httptest.NewRecorder()
	RequestID(h).ServeHTTP(rec, req)

	if rec.Code != stdhttp.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if seenReqID == "" {
		t.Fatalf("request id missing downstream")
	}
}

func TestCommonStackOrder(t *testing.T) {
	stack := Common([]string{"*"}, 0)
	if len(stack) != 6 {
		t.Fatalf("stack has %d entries", len(stack))
	}
	for i, mw := range stack {
		if mw == nil {
			t.Fatalf("nil middleware at %d", i)
		}
	}
}
