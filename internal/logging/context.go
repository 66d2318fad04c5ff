package logging

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	routeIDKey ctxKey = iota
	sourceKey
)

// WithRouteID returns a context with the route ID set.
func WithRouteID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, routeIDKey, id)
}

// WithSource returns a context with the route source (file path, URL) set.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// RouteID extracts the route ID from the context, or "" if absent.
func RouteID(ctx context.Context) string {
	v, _ := ctx.Value(routeIDKey).(string)
	return v
}

// Source extracts the route source from the context, or "" if absent.
func Source(ctx context.Context) string {
	v, _ := ctx.Value(sourceKey).(string)
	return v
}

// LogWith returns a logger enriched with the correlation values of ctx.
// Only non-empty values are added as attributes.
func LogWith(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if id := RouteID(ctx); id != "" {
		logger = logger.With("route", id)
	}
	if src := Source(ctx); src != "" {
		logger = logger.With("source", src)
	}
	return logger
}
