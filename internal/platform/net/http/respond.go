package http

import (
	"encoding/json"
	stdhttp "net/http"

	"github.com/em3s/mungchi-sub001/internal/platform/logger"
	pnet "github.com/em3s/mungchi-sub001/internal/platform/net"
)

// WriteJSON writes v as JSON with the given status.
// Encoding failures are logged, not surfaced; headers are already gone
func WriteJSON(w stdhttp.ResponseWriter, r *stdhttp.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.C(r.Context()).Error().Err(err).Msg("response encode failed")
	}
}

// OK writes a 200 success envelope
func OK(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) {
	WriteJSON(w, r, stdhttp.StatusOK, pnet.WireOK(data))
}

// Created writes a 201 success envelope
func Created(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) {
	WriteJSON(w, r, stdhttp.StatusCreated, pnet.WireOK(data))
}

// NoContent writes a 204 with no body
func NoContent(w stdhttp.ResponseWriter) {
	w.WriteHeader(stdhttp.StatusNoContent)
}

// List writes a 200 success envelope with pagination meta
func List(w stdhttp.ResponseWriter, r *stdhttp.Request, data any, total, limit, offset int) {
	WriteJSON(w, r, stdhttp.StatusOK, pnet.WireList(data, total, limit, offset))
}

// Err writes a failure envelope, status derived from the error code
func Err(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	WriteJSON(w, r, pnet.HTTPStatus(err), pnet.WireErr(err))
}

// Handle adapts a data-or-error handler into an http.HandlerFunc.
// It keeps per-route code down to the interesting part
func Handle[T any](fn func(r *stdhttp.Request) (T, error)) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		data, err := fn(r)
		if err != nil {
			Err(w, r, err)
			return
		}
		OK(w, r, data)
	}
}
