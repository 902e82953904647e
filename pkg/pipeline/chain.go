package pipeline

import "net/http"

// Middleware wraps an http.Handler with additional behavior. The wrapped
// handler is the continuation: a middleware may call it to delegate to the
// rest of the pipeline, or write its own terminal response and return without
// calling it, which stops the pipeline.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to a handler in the order they are provided.
// Chain(h, A, B, C) produces A(B(C(h))), so a request flows A -> B -> C -> h.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
