package middleware

import (
	"context"
	"time"

	"netsdr-client/message"
)

// Timeout enforces the pending-response wait: if next doesn't
// return within the given duration, the request fails with a timeout
// response. next runs in its own goroutine with a context that carries
// the deadline and is cancelled when Timeout returns; a handler that
// watches its context (as Session.rawSend does) clears its own
// pending-response slot when that context ends.
func Timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.ControlRequest) *message.ControlResponse {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			done := make(chan *message.ControlResponse, 1)
			go func() {
				done <- next(ctx, req)
			}()

			select {
			case resp := <-done:
				return resp
			case <-ctx.Done():
				return &message.ControlResponse{Err: ErrTimeout}
			}
		}
	}
}

// ErrTimeout is the error carried by a ControlResponse when the
// pending-response wait exceeds its deadline.
var ErrTimeout = timeoutError{}

type timeoutError struct{}

func (timeoutError) Error() string { return "netsdr: control request timed out" }
