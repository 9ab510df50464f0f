// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores per-request values in [context.Context]: the
// correlation ID, the request-scoped logger and the resolved caller.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/xcalibur215/mmhub/internal/platform/sec"
)

// Distinct empty struct types cannot collide with keys from other packages.
type (
	requestIDKey struct{}
	loggerKey    struct{}
	identityKey  struct{}
)

// # Request Tracing

// WithRequestID attaches the X-Request-ID value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns the request ID, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// # Structured Logging

// WithLogger attaches a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// # Identity & Access

// WithIdentity attaches the resolved caller.
func WithIdentity(ctx context.Context, identity *sec.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity returns the caller, or nil for anonymous requests.
func GetIdentity(ctx context.Context) *sec.Identity {
	identity, _ := ctx.Value(identityKey{}).(*sec.Identity)
	return identity
}
