package httpkit

import (
	"net/http"

	phttp "github.com/em3s/mungchi-sub001/internal/platform/net/http"
	"github.com/em3s/mungchi-sub001/internal/platform/net/http/bind"
)

// Get mounts a body-less data-or-error handler under GET
func Get[T any](r Router, path string, h func(*http.Request) (T, error)) {
	r.Get(path, phttp.Handle(h))
}

// Delete mounts a body-less data-or-error handler under DELETE
func Delete[T any](r Router, path string, h func(*http.Request) (T, error)) {
	r.Delete(path, phttp.Handle(h))
}

// PostJSON mounts a handler that takes a validated JSON body under POST
func PostJSON[In, Out any](r Router, path string, h func(*http.Request, In) (Out, error)) {
	r.Post(path, jsonHandler(h))
}

// PutJSON mounts a handler that takes a validated JSON body under PUT
func PutJSON[In, Out any](r Router, path string, h func(*http.Request, In) (Out, error)) {
	r.Put(path, jsonHandler(h))
}

// Post mounts a body-less data-or-error handler under POST
// for RPC-ish endpoints that act on path params alone
func Post[T any](r Router, path string, h func(*http.Request) (T, error)) {
	r.Post(path, phttp.Handle(h))
}

func jsonHandler[In, Out any](h func(*http.Request, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := bind.JSON[In](r)
		if err != nil {
			phttp.Err(w, r, err)
			return
		}
		out, err := h(r, in)
		if err != nil {
			phttp.Err(w, r, err)
			return
		}
		phttp.OK(w, r, out)
	}
}
