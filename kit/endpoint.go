// Package kit holds the transport-neutral endpoint shape shared by the MCP
// tools and the HTTP handlers, plus the request context keys they set.
package kit

import (
	"context"
	"log/slog"
	"time"
)

// Endpoint is one operation, decoupled from how the request arrived.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so that the first one listed runs outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// Logging logs every call with its transport, tool, duration and error.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			attrs := []any{
				"transport", GetTransport(ctx),
				"tool", GetTool(ctx),
				"duration", time.Since(start),
			}
			if id := GetRequestID(ctx); id != "" {
				attrs = append(attrs, "request_id", id)
			}
			if err != nil {
				logger.Warn("endpoint failed", append(attrs, "error", err)...)
				return resp, err
			}
			logger.Debug("endpoint done", attrs...)
			return resp, nil
		}
	}
}
