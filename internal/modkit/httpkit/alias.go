// Package httpkit provides handler and routing helpers that alias the platform http package
// use these from modules so they do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "github.com/em3s/mungchi-sub001/internal/platform/net/http"
	"github.com/em3s/mungchi-sub001/internal/platform/net/http/bind"

	"github.com/go-chi/chi/v5"
)

// Router is a re-export of the platform router seam
type Router = phttp.Router

// OK writes a 200 success envelope
func OK(w http.ResponseWriter, r *http.Request, data any) { phttp.OK(w, r, data) }

// Created writes a 201 success envelope
func Created(w http.ResponseWriter, r *http.Request, data any) { phttp.Created(w, r, data) }

// NoContent writes a 204 with no body
func NoContent(w http.ResponseWriter) { phttp.NoContent(w) }

// List writes a 200 success envelope with pagination meta
func List(w http.ResponseWriter, r *http.Request, data any, total, limit, offset int) {
	phttp.List(w, r, data, total, limit, offset)
}

// Err writes a failure envelope, status derived from the error code
func Err(w http.ResponseWriter, r *http.Request, err error) { phttp.Err(w, r, err) }

// Handle adapts a data-or-error handler into an http.HandlerFunc
func Handle[T any](fn func(r *http.Request) (T, error)) http.HandlerFunc {
	return phttp.Handle(fn)
}

// Param reads a path parameter from the routing context
func Param(r *http.Request, name string) string { return chi.URLParam(r, name) }

// Query binds and validates URL query params into T
func Query[T any](r *http.Request) (T, error) { return bind.Query[T](r) }
