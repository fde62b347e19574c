// Package middleware implements the onion-model chain that wraps every
// control exchange the session sends, carrying over request/response
// middleware designed for RPC calls to the NetSDR control channel's
// single-outstanding-request discipline.
//
// Onion model execution order:
//
//	Chain(A, B, C)(handler)  →  A(B(C(handler)))
//
//	Request:   A.before → B.before → C.before → handler
//	Response:  handler → C.after → B.after → A.after
package middleware

import (
	"context"

	"netsdr-client/message"
)

// HandlerFunc sends one control request and returns its response (or
// an error if the send, the wait, or a wrapping middleware failed).
type HandlerFunc func(ctx context.Context, req *message.ControlRequest) *message.ControlResponse

// Middleware wraps a HandlerFunc with additional behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares so the first in the list is outermost:
// executed first on the way in, last on the way out.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
