// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xcalibur215/mmhub/internal/platform/dberr"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/internal/users/auth"
)

// memoryUsers is an in-memory UserRepository that enforces the same unique
// constraints as the users.account table.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]auth.User
	err   error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]auth.User)}
}

func (store *memoryUsers) find(match func(auth.User) bool) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.err != nil {
		return nil, store.err
	}
	for _, user := range store.users {
		if match(user) {
			found := user
			return &found, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	return store.find(func(user auth.User) bool { return user.ID == id })
}

func (store *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return store.find(func(user auth.User) bool { return user.Email == email })
}

func (store *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return store.find(func(user auth.User) bool { return strings.EqualFold(user.Username, username) })
}

func (store *memoryUsers) Create(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.err != nil {
		return store.err
	}
	for _, existing := range store.users {
		if existing.Email == user.Email {
			return &sec.ConflictError{Field: auth.FieldEmail}
		}
		if strings.EqualFold(existing.Username, user.Username) {
			return &sec.ConflictError{Field: auth.FieldUsername}
		}
	}

	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	store.users[user.ID] = *user
	return nil
}

func (store *memoryUsers) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	user, ok := store.users[id]
	if !ok {
		return dberr.ErrNotFound
	}
	user.LastLogin = &at
	store.users[id] = user
	return nil
}

func (store *memoryUsers) count() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.users)
}

func (store *memoryUsers) mutate(t *testing.T, id string, fn func(*auth.User)) {
	t.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()

	user, ok := store.users[id]
	require.True(t, ok, "unknown user %s", id)
	fn(&user)
	store.users[id] = user
}

// memoryLimiter is an in-memory LoginLimiter.
type memoryLimiter struct {
	mu       sync.Mutex
	failures map[string]int
	err      error
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{failures: make(map[string]int)}
}

func (limiter *memoryLimiter) Failures(_ context.Context, identifier string) (int, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if limiter.err != nil {
		return 0, limiter.err
	}
	return limiter.failures[identifier], nil
}

func (limiter *memoryLimiter) RecordFailure(_ context.Context, identifier string) (int, error) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if limiter.err != nil {
		return 0, limiter.err
	}
	limiter.failures[identifier]++
	return limiter.failures[identifier], nil
}

func (limiter *memoryLimiter) Reset(_ context.Context, identifier string) error {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if limiter.err != nil {
		return limiter.err
	}
	delete(limiter.failures, identifier)
	return nil
}

func (limiter *memoryLimiter) RetryAfter(context.Context, string) (time.Duration, error) {
	return 90 * time.Second, nil
}

// fixture wires a Service over in-memory stores and real token/hash primitives.
type fixture struct {
	users   *memoryUsers
	limiter *memoryLimiter
	tokens  *sec.TokenService
	service *auth.Service
}

const testMaxAttempts = 3

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codec, err := sec.NewTokenCodec("test-secret", "HS256", "mmeverything")
	require.NoError(t, err)

	fx := &fixture{
		users:   newMemoryUsers(),
		limiter: newMemoryLimiter(),
		tokens:  sec.NewTokenService(codec, 30*time.Minute, 7*24*time.Hour),
	}
	fx.service = auth.NewService(fx.users, fx.limiter, sec.NewHasher(bcrypt.MinCost), fx.tokens,
		auth.Options{MaxAttempts: testMaxAttempts})
	return fx
}

func (fx *fixture) register(t *testing.T, email, username, password string) *auth.User {
	t.Helper()

	user, err := fx.service.Register(context.Background(), auth.RegisterInput{
		Email:     email,
		Username:  username,
		Password:  password,
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(t, err)
	return user
}
