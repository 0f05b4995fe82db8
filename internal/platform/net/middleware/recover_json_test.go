package middleware

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	perr "github.com/em3s/mungchi-sub001/internal/platform/errors"
	pnet "github.com/em3s/mungchi-sub001/internal/platform/net"
)

func TestRecoverJSONTurnsPanicInto500(t *testing.T) {
	h := RecoverJSON(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != stdhttp.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var w pnet.Wire
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatalf("decode: %v\n%s", err, rec.Body.String())
	}
	if w.OK || w.Error == nil || w.Error.Code != perr.ErrorCodePanic {
		t.Fatalf("envelope = %+v", w)
	}
	// the panic value never reaches the client
	if w.Error.Message != "internal error" {
		t.Fatalf("message leaked: %q", w.Error.Message)
	}
}

func TestRecoverJSONPassesCleanRequests(t *testing.T) {
	h := RecoverJSON(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != stdhttp.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}
