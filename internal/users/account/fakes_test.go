// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xcalibur215/mmhub/internal/platform/dberr"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/internal/users/account"
	"github.com/xcalibur215/mmhub/internal/users/auth"
	"github.com/xcalibur215/mmhub/pkg/pagination"
	"github.com/xcalibur215/mmhub/pkg/uuid"
)

// memoryAccounts is an in-memory [account.Repository] that applies the same
// last-admin rule as the Postgres implementation under one mutex.
type memoryAccounts struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{users: make(map[string]*auth.User)}
}

func (m *memoryAccounts) add(t *testing.T, username string, role sec.Role) *auth.User {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	user := &auth.User{
		ID:        uuid.New(),
		Email:     username + "@example.com",
		Username:  username,
		Role:      role,
		Status:    auth.StatusActive,
		IsActive:  true,
		CreatedAt: time.Now().Add(time.Duration(len(m.users)) * time.Second),
	}
	m.users[user.ID] = user
	copied := *user
	return &copied
}

func (m *memoryAccounts) get(t *testing.T, id string) auth.User {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	require.True(t, ok, "account %s missing", id)
	return *user
}

func (m *memoryAccounts) FindByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memoryAccounts) List(_ context.Context, page pagination.Params) ([]*auth.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*auth.User, 0, len(m.users))
	for _, user := range m.users {
		copied := *user
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start, end := page.Window(len(all))
	return all[start:end], len(all), nil
}

func (m *memoryAccounts) Update(_ context.Context, id string, update account.Update) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.users[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}

	if update.RemovesAdmin(current) && !m.otherAdminLocked(id) {
		return nil, account.ErrLastAdmin
	}

	next := update.Apply(*current)
	for otherID, other := range m.users {
		if otherID == id {
			continue
		}
		if other.Email == next.Email {
			return nil, &sec.ConflictError{Field: auth.FieldEmail}
		}
		if strings.EqualFold(other.Username, next.Username) {
			return nil, &sec.ConflictError{Field: auth.FieldUsername}
		}
	}

	m.users[id] = &next
	copied := next
	return &copied, nil
}

func (m *memoryAccounts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.users[id]
	if !ok {
		return dberr.ErrNotFound
	}
	if account.IsActiveAdmin(current) && !m.otherAdminLocked(id) {
		return account.ErrLastAdmin
	}

	delete(m.users, id)
	return nil
}

func (m *memoryAccounts) otherAdminLocked(excludedID string) bool {
	for id, user := range m.users {
		if id != excludedID && account.IsActiveAdmin(user) {
			return true
		}
	}
	return false
}

// tokenAuthenticator treats the bearer token as an account ID and resolves it
// against the store, so role changes take effect on the next request.
type tokenAuthenticator struct {
	resolver *auth.Resolver
}

func (a tokenAuthenticator) Authenticate(ctx context.Context, token string) (*sec.Identity, error) {
	return a.resolver.Resolve(ctx, token)
}
