package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
)

// AdaptChi wraps a root *chi.Mux as a Router
func AdaptChi(m *chi.Mux) Router { return chiRoot{m} }

type chiRoot struct{ m *chi.Mux }

func (c chiRoot) Get(p string, h stdhttp.HandlerFunc)    { c.m.Get(p, h) }
func (c chiRoot) Post(p string, h stdhttp.HandlerFunc)   { c.m.Post(p, h) }
func (c chiRoot) Put(p string, h stdhttp.HandlerFunc)    { c.m.Put(p, h) }
func (c chiRoot) Patch(p string, h stdhttp.HandlerFunc)  { c.m.Patch(p, h) }
func (c chiRoot) Delete(p string, h stdhttp.HandlerFunc) { c.m.Delete(p, h) }

func (c chiRoot) Route(p string, fn func(Router)) {
	c.m.Route(p, func(sr chi.Router) { fn(chiSub{sr}) })
}

func (c chiRoot) Group(fn func(Router)) {
	c.m.Group(func(sr chi.Router) { fn(chiSub{sr}) })
}

func (c chiRoot) Use(mw ...func(stdhttp.Handler) stdhttp.Handler) { c.m.Use(mw...) }
func (c chiRoot) Handle(p string, h stdhttp.Handler)              { c.m.Handle(p, h) }
func (c chiRoot) Mount(p string, h stdhttp.Handler)               { c.m.Mount(p, h) }

type chiSub struct{ r chi.Router }

func (c chiSub) Get(p string, h stdhttp.HandlerFunc)    { c.r.Get(p, h) }
func (c chiSub) Post(p string, h stdhttp.HandlerFunc)   { c.r.Post(p, h) }
func (c chiSub) Put(p string, h stdhttp.HandlerFunc)    { c.r.Put(p, h) }
func (c chiSub) Patch(p string, h stdhttp.HandlerFunc)  { c.r.Patch(p, h) }
func (c chiSub) Delete(p string, h stdhttp.HandlerFunc) { c.r.Delete(p, h) }

func (c chiSub) Route(p string, fn func(Router)) {
	c.r.Route(p, func(sr chi.Router) { fn(chiSub{sr}) })
}

func (c chiSub) Group(fn func(Router)) {
	c.r.Group(func(sr chi.Router) { fn(chiSub{sr}) })
}

func (c chiSub) Use(mw ...func(stdhttp.Handler) stdhttp.Handler) { c.r.Use(mw...) }
func (c chiSub) Handle(p string, h stdhttp.Handler)              { c.r.Handle(p, h) }
func (c chiSub) Mount(p string, h stdhttp.Handler)               { c.r.Mount(p, h) }
