// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/xcalibur215/mmhub/internal/platform/dberr"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
)

// # Identity Resolution

// Resolver maps a verified token subject onto a live account.
//
// It is the only stage of the authentication pipeline that performs I/O.
// Nothing is cached: each call is one store read.
type Resolver struct {
	users UserFinder
}

// NewResolver constructs a [Resolver].
func NewResolver(users UserFinder) *Resolver {
	return &Resolver{users: users}
}

/*
ResolveUser loads the account for subject and checks that it is active.

Returns:
  - *User: the account
  - error: sec.ErrIdentityNotFound, sec.ErrIdentityInactive, sec.ErrUnknownRole
    or sec.ErrStoreUnavailable
*/
func (resolver *Resolver) ResolveUser(ctx context.Context, subject string) (*User, error) {
	user, err := resolver.users.FindByID(ctx, subject)
	switch {
	case err == nil:
	case dberr.IsNotFound(err):
		return nil, sec.ErrIdentityNotFound
	case errors.Is(err, sec.ErrUnknownRole):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %w", sec.ErrStoreUnavailable, err)
	}

	if !user.Active() {
		return nil, sec.ErrIdentityInactive
	}
	return user, nil
}

/*
Resolve is [Resolver.ResolveUser] projected onto a [sec.Identity].
*/
func (resolver *Resolver) Resolve(ctx context.Context, subject string) (*sec.Identity, error) {
	user, err := resolver.ResolveUser(ctx, subject)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// # Bearer Authentication

// TokenVerifier checks a token's signature, expiry and kind.
type TokenVerifier interface {
	VerifyToken(token string, expected sec.Kind) (string, error)
}

// Authenticator chains access-token verification and identity resolution.
// It satisfies middleware.Authenticator.
type Authenticator struct {
	tokens   TokenVerifier
	resolver *Resolver
}

// NewAuthenticator constructs an [Authenticator].
func NewAuthenticator(tokens TokenVerifier, resolver *Resolver) *Authenticator {
	return &Authenticator{tokens: tokens, resolver: resolver}
}

// Authenticate verifies an access token and resolves its subject.
// Refresh tokens are rejected here.
func (authenticator *Authenticator) Authenticate(ctx context.Context, token string) (*sec.Identity, error) {
	subject, err := authenticator.tokens.VerifyToken(token, sec.KindAccess)
	if err != nil {
		return nil, err
	}
	return authenticator.resolver.Resolve(ctx, subject)
}
