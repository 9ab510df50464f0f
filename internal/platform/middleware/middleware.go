// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP chain shared by every route.

Order in the server, outermost first:

  - TrustProxies (middleware.go): client address behind known proxies.
  - RequestID and StructuredLogger (trace.go): correlation ID and one log
    line per request.
  - PanicRecovery (recover.go): turns a handler panic into a 500.
  - CORS (cors.go): allow-list outside development.
  - RateLimit (ratelimit.go): per-IP token buckets.
  - Authenticate, RequireAuth and RequireRoles (authz.go): the bearer
    pipeline and role gates.
*/
package middleware

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strings"

	"github.com/xcalibur215/mmhub/internal/platform/constants"
)

type clientIPKey struct{}

/*
TrustProxies resolves the client address once per request.

Description: X-Real-IP and X-Forwarded-For are honoured only when the
connection comes from one of proxies. X-Forwarded-For is read right to left
and the first hop outside proxies wins. Any other peer is identified by its
remote host alone, so clients cannot pick their own rate-limit bucket.
*/
func TrustProxies(proxies []netip.Prefix) func(http.Handler) http.Handler {
	trusted := func(raw string) bool {
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return false
		}
		addr = addr.Unmap()
		return slices.ContainsFunc(proxies, func(prefix netip.Prefix) bool { return prefix.Contains(addr) })
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ip := forwardedFor(request, trusted)
			next.ServeHTTP(writer, request.WithContext(context.WithValue(request.Context(), clientIPKey{}, ip)))
		})
	}
}

func forwardedFor(request *http.Request, trusted func(string) bool) string {
	remote := remoteHost(request)
	if !trusted(remote) {
		return remote
	}

	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}

	hops := strings.Split(request.Header.Get(constants.HeaderXForwardedFor), ",")
	origin := remote
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !trusted(hop) {
			return hop
		}
		origin = hop
	}
	return origin
}

// RealIP returns the address resolved by [TrustProxies], or the
// connection's remote host when that middleware is not installed.
func RealIP(request *http.Request) string {
	if ip, ok := request.Context().Value(clientIPKey{}).(string); ok {
		return ip
	}
	return remoteHost(request)
}

func remoteHost(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
