package http

import stdhttp "net/http"

// Router is the small routing surface modules mount against.
// It is satisfied by the chi adapter; keeping modules off chi directly
// makes handlers trivially testable with a fake
type Router interface {
	Get(pattern string, h stdhttp.HandlerFunc)
	Post(pattern string, h stdhttp.HandlerFunc)
	Put(pattern string, h stdhttp.HandlerFunc)
	Patch(pattern string, h stdhttp.HandlerFunc)
	Delete(pattern string, h stdhttp.HandlerFunc)
	Route(pattern string, fn func(Router))
	Group(fn func(Router))
	Use(mw ...func(stdhttp.Handler) stdhttp.Handler)
	Handle(pattern string, h stdhttp.Handler)
	Mount(pattern string, h stdhttp.Handler)
}
