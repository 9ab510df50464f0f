// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"math"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/xcalibur215/mmhub/internal/platform/apperr"
	"github.com/xcalibur215/mmhub/internal/platform/constants"
	"github.com/xcalibur215/mmhub/internal/platform/respond"
)

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	rps     rate.Limit
	burst   int
}

// NewRateLimiter allows rps sustained requests per second per IP, with burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*rateLimitClient),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

func (limiter *RateLimiter) client(ip string) *rate.Limiter {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	entry, found := limiter.clients[ip]
	if !found {
		entry = &rateLimitClient{limiter: rate.NewLimiter(limiter.rps, limiter.burst)}
		limiter.clients[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// Allow consumes one token for ip.
func (limiter *RateLimiter) Allow(ip string) bool {
	return limiter.client(ip).Allow()
}

// Wait reports how long ip must wait for its next token; zero means a token
// was consumed now.
func (limiter *RateLimiter) Wait(ip string) time.Duration {
	reservation := limiter.client(ip).Reserve()
	if !reservation.OK() {
		return time.Duration(math.MaxInt64)
	}

	delay := reservation.Delay()
	if delay > 0 {
		reservation.Cancel()
	}
	return delay
}

// Cleanup evicts clients idle for longer than ttl until ctx is cancelled.
func (limiter *RateLimiter) Cleanup(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			limiter.evict(ttl)
		case <-ctx.Done():
			return
		}
	}
}

func (limiter *RateLimiter) evict(ttl time.Duration) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for ip, entry := range limiter.clients {
		if time.Since(entry.lastSeen) > ttl {
			delete(limiter.clients, ip)
		}
	}
}

// Handler answers 429 with Retry-After, in whole seconds, once the caller's
// bucket is empty.
func (limiter *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if wait := limiter.Wait(RealIP(request)); wait > 0 {
			seconds := max(1, int(math.Ceil(min(wait, time.Hour).Seconds())))
			respond.Error(writer, request, apperr.RateLimited(seconds))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RateLimit applies the default per-IP budget and evicts idle clients in the
// background until ctx is cancelled.
func RateLimit(ctx context.Context) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)
	go limiter.Cleanup(ctx, constants.RateLimitCleanupInterval, constants.RateLimitClientTTL)
	return limiter.Handler
}
