package httpx

import "net/http"

// Middleware decorates an http.Handler. Pipelines are built explicitly with
// Chain rather than through ambient router state so the guard order is
// visible at every registration site.
type Middleware func(http.Handler) http.Handler

// Chain wraps h with the given middlewares. The first middleware listed is
// the outermost, i.e. Chain(h, a, b) runs a, then b, then h.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
