package middleware

import "net/http"

// Chain applies middleware so that the first one listed runs first:
//
//	handler := Chain(mux,
//	    Recover,   // outermost
//	    RequestID,
//	    Metrics(m), // wraps mux directly
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
