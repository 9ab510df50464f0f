// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/xcalibur215/mmhub/internal/platform/apperr"
	"github.com/xcalibur215/mmhub/internal/platform/ctxutil"
	"github.com/xcalibur215/mmhub/internal/platform/dberr"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/pkg/normalize"
	"github.com/xcalibur215/mmhub/pkg/uuid"
)

// # Contracts & Types

// TokenProvider issues and verifies the signed access/refresh tokens.
type TokenProvider interface {
	TokenVerifier
	IssuePair(subject string) (*sec.TokenPair, error)
	IssueAccessToken(subject string, ttl time.Duration) (string, error)
	AccessTTL() time.Duration
}

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	users       UserRepository
	limiter     LoginLimiter
	hasher      PasswordHasher
	tokens      TokenProvider
	resolver    *Resolver
	maxAttempts int
	now         func() time.Time

	// dummyHash is compared against when the identifier is unknown so that
	// both failure paths pay one bcrypt comparison.
	dummyHash string
}

// Options tunes the login throttle.
type Options struct {
	// MaxAttempts is the number of failures allowed per window.
	MaxAttempts int
	// Now overrides the clock used for last-login stamps.
	Now func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	users UserRepository,
	limiter LoginLimiter,
	hasher PasswordHasher,
	tokens TokenProvider,
	options Options,
) *Service {
	if options.Now == nil {
		options.Now = time.Now
	}

	dummyHash, err := hasher.Hash("mmhub-login-placeholder")
	if err != nil {
		dummyHash = ""
	}

	return &Service{
		users:       users,
		limiter:     limiter,
		hasher:      hasher,
		tokens:      tokens,
		resolver:    NewResolver(users),
		maxAttempts: options.MaxAttempts,
		now:         options.Now,
		dummyHash:   dummyHash,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
// Role is not accepted: new accounts are always [sec.RoleUser].
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

/*
Register normalizes, hashes, and persists a brand new user account.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: *sec.ConflictError when the email or username is taken
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	email := normalize.Email(input.Email)
	username := normalize.Username(input.Username)

	// Reject duplicates up front so no hash is computed for them.
	if err := service.ensureAvailable(context, email, username); err != nil {
		return nil, err
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
		FirstName:    normalize.Text(input.FirstName),
		LastName:     normalize.Text(input.LastName),
		Phone:        input.Phone,
		Role:         sec.RoleUser,
		Status:       StatusActive,
		IsActive:     true,
	}

	// The unique indexes still decide concurrent registrations.
	if err := service.users.Create(context, user); err != nil {
		var conflict *sec.ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_registered", slog.String("user_id", user.ID))
	return user, nil
}

func (service *Service) ensureAvailable(context context.Context, email, username string) error {
	if _, err := service.users.FindByEmail(context, email); err == nil {
		return &sec.ConflictError{Field: FieldEmail}
	} else if !dberr.IsNotFound(err) {
		return fmt.Errorf("auth_service_email_check_failed: %w", err)
	}

	if _, err := service.users.FindByUsername(context, username); err == nil {
		return &sec.ConflictError{Field: FieldUsername}
	} else if !dberr.IsNotFound(err) {
		return fmt.Errorf("auth_service_username_check_failed: %w", err)
	}

	return nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Email or username
	Password string
}

// LoginSession is the result of a successful login.
type LoginSession struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         *User
}

/*
Login validates user credentials and issues an access/refresh token pair.

Description: An unknown identifier and a wrong password both return
sec.ErrCredentialMismatch after one bcrypt comparison. Failures are counted
per identifier; once the limit is reached the identifier is throttled until
its window expires. A limiter outage does not block logins.

Returns:
  - *LoginSession: Tokens and the authenticated account
  - error: sec.ErrCredentialMismatch, sec.ErrIdentityInactive, a 429 AppError
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	logger := ctxutil.GetLogger(context)
	throttleKey := normalize.Key(input.Login)

	// ── 1. Throttle ───────────────────────────────────────────────────────
	if err := service.checkThrottle(context, throttleKey); err != nil {
		return nil, err
	}

	// ── 2. Lookup ─────────────────────────────────────────────────────────
	user, err := service.lookup(context, input.Login)
	if err != nil {
		if !dberr.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", sec.ErrStoreUnavailable, err)
		}
		service.hasher.Verify(input.Password, service.dummyHash)
		service.recordFailure(context, throttleKey)
		return nil, sec.ErrCredentialMismatch
	}

	// ── 3. Credential Check ───────────────────────────────────────────────
	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		service.recordFailure(context, throttleKey)
		return nil, sec.ErrCredentialMismatch
	}

	if !user.Active() {
		return nil, sec.ErrIdentityInactive
	}

	// ── 4. Issue Tokens ───────────────────────────────────────────────────
	pair, err := service.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	if err := service.limiter.Reset(context, throttleKey); err != nil {
		logger.WarnContext(context, "login_throttle_reset_failed", slog.Any("error", err))
	}

	loginAt := service.now().UTC()
	if err := service.users.TouchLastLogin(context, user.ID, loginAt); err != nil {
		logger.WarnContext(context, "last_login_update_failed", slog.Any("error", err))
	} else {
		user.LastLogin = &loginAt
	}

	logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	return &LoginSession{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
		User:         user,
	}, nil
}

func (service *Service) lookup(context context.Context, login string) (*User, error) {
	if strings.Contains(login, "@") {
		return service.users.FindByEmail(context, normalize.Email(login))
	}
	return service.users.FindByUsername(context, normalize.Username(login))
}

func (service *Service) checkThrottle(context context.Context, key string) error {
	if service.maxAttempts <= 0 {
		return nil
	}

	failures, err := service.limiter.Failures(context, key)
	if err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "login_throttle_unavailable", slog.Any("error", err))
		return nil
	}
	if failures < service.maxAttempts {
		return nil
	}

	retryAfter, err := service.limiter.RetryAfter(context, key)
	if err != nil {
		retryAfter = time.Minute
	}
	return apperr.RateLimited(int(math.Ceil(retryAfter.Seconds())))
}

func (service *Service) recordFailure(context context.Context, key string) {
	count, err := service.limiter.RecordFailure(context, key)
	if err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "login_throttle_unavailable", slog.Any("error", err))
		return
	}
	ctxutil.GetLogger(context).WarnContext(context, "login_failed", slog.Int("attempt", count))
}

// # Session Management

// RefreshResult carries a freshly issued access token.
type RefreshResult struct {
	AccessToken string
	ExpiresIn   int
}

/*
Refresh exchanges a refresh token for a new access token.

Description: The token must verify, be of kind refresh, and resolve to an
active account. Refresh tokens are not rotated.

Returns:
  - *RefreshResult: The new access token
  - error: sec.ErrTokenInvalid family, identity errors
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*RefreshResult, error) {
	subject, err := service.tokens.VerifyToken(refreshToken, sec.KindRefresh)
	if err != nil {
		return nil, err
	}

	identity, err := service.resolver.Resolve(context, subject)
	if err != nil {
		return nil, err
	}

	accessToken, err := service.tokens.IssueAccessToken(identity.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	return &RefreshResult{
		AccessToken: accessToken,
		ExpiresIn:   int(service.tokens.AccessTTL().Seconds()),
	}, nil
}

/*
Me returns the account behind an authenticated identity.
*/
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.resolver.ResolveUser(context, userID)
}
