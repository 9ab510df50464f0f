// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the values shared across layers: server timing,
// the per-IP request budget, header names and Redis key prefixes.
package constants

import "time"

// # Metadata

const (
	AppName    = "mmhub-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 2 * time.Minute
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout bounds a request end to end and every SQL statement.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is the drain window for in-flight requests.
	ShutdownTimeout = 30 * time.Second
)

// # Request Budget

const (
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 150

	// RateLimitClientTTL is the idle time after which an IP's bucket is dropped;
	// the sweep runs every RateLimitCleanupInterval.
	RateLimitClientTTL       = 3 * time.Minute
	RateLimitCleanupInterval = time.Minute
)

// # Tokens

const (
	// TokenTypeBearer is the token_type in login and refresh bodies.
	TokenTypeBearer = "bearer"

	// BearerScheme is matched case-insensitively in the Authorization header.
	BearerScheme = "bearer"
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # Health Payload Keys

const (
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Key Prefixes

const (
	// RedisPrefixLoginFailures counts failed logins per normalized identifier.
	RedisPrefixLoginFailures = "auth:login_fail:"
)
