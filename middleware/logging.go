package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"netsdr-client/message"
)

// Logging records the item code, duration, and any error for each
// control exchange using a structured zap logger.
func Logging(logger *zap.SugaredLogger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *message.ControlRequest) *message.ControlResponse {
			start := time.Now()
			resp := next(ctx, req)
			fields := []any{
				"type", req.Type.String(),
				"item", req.Item.String(),
				"duration", time.Since(start),
			}
			if resp.Err != nil {
				logger.Warnw("control request failed", append(fields, "error", resp.Err)...)
			} else {
				logger.Debugw("control request completed", fields...)
			}
			return resp
		}
	}
}
