package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"netsdr-client/message"
)

// RateLimit bounds how often control requests leave the session using
// a token-bucket limiter, protecting a receiver from a caller hammering
// change_frequency or a probe in a tight loop. The limiter is
// constructed once in the outer closure and shared across every call
// through this middleware, not recreated per request.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.ControlRequest) *message.ControlResponse {
			if !limiter.Allow() {
				return &message.ControlResponse{Err: ErrRateLimited}
			}
			return next(ctx, req)
		}
	}
}

// ErrRateLimited is returned when RateLimit rejects a request outright.
var ErrRateLimited = rateLimitedError{}

type rateLimitedError struct{}

func (rateLimitedError) Error() string { return "netsdr: control request rate-limited" }
