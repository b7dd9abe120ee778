// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores and reads the request-scoped values set by the
// middleware chain: correlation ID, per-request logger and caller identity.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/ctxkey"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// identity keeps the verified claims together with the caller derived from
// them, so the derivation runs once per request.
type identity struct {
	claims *sec.AuthClaims
	caller access.Caller
}

// # Request Tracing

// WithRequestID returns a copy of ctx carrying the correlation ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the correlation ID, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// WithClientIP returns a copy of ctx carrying the resolved client address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClientIP, ip)
}

// GetClientIP returns the resolved client address, or "" when it was never resolved.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ctxkey.KeyClientIP).(string)
	return ip
}

// # Structured Logging

// WithLogger returns a copy of ctx carrying the per-request logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the per-request logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity & Access

// WithAuthUser returns a copy of ctx carrying verified claims. A nil claims
// value leaves the request anonymous.
func WithAuthUser(ctx context.Context, claims *sec.AuthClaims) context.Context {
	if claims == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxkey.KeyUser, identity{
		claims: claims,
		caller: access.FromClaims(claims),
	})
}

// GetAuthUser returns the verified claims, or nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	id, _ := ctx.Value(ctxkey.KeyUser).(identity)
	return id.claims
}

// GetCaller returns the permission-evaluator view of the request identity.
// Anonymous requests yield the zero [access.Caller].
func GetCaller(ctx context.Context) access.Caller {
	id, ok := ctx.Value(ctxkey.KeyUser).(identity)
	if !ok {
		return access.FromClaims(nil)
	}
	return id.caller
}
