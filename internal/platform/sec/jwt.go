// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides the cryptographic primitives of the authentication core.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, token
// signing, role checks) from the domain packages. Everything here is pure and
// in-memory: the only I/O stage of the pipeline, identity resolution, lives
// next to the user store.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Claims

// Kind distinguishes access tokens from refresh tokens.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the decoded content of a token.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Kind      Kind
}

// wireClaims is the JWT payload: registered claims plus the kind marker.
type wireClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type,omitempty"`
}

// # Token Codec

// supportedAlgorithms are the shared-secret signing methods accepted by the codec.
var supportedAlgorithms = map[string]jwt.SigningMethod{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// CodecOption customizes a [TokenCodec].
type CodecOption func(*TokenCodec)

// WithClock replaces the codec's time source. Used by tests to move time forward.
func WithClock(now func() time.Time) CodecOption {
	return func(codec *TokenCodec) { codec.now = now }
}

// TokenCodec signs and verifies claim sets with a shared secret.
//
// It holds no mutable state after construction and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	now    func() time.Time
}

// NewTokenCodec validates the signing configuration and returns a codec.
func NewTokenCodec(secret, algorithm, issuer string, opts ...CodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("sec: signing secret must not be empty")
	}

	method, ok := supportedAlgorithms[algorithm]
	if !ok {
		return nil, fmt.Errorf("sec: unsupported signing algorithm %q", algorithm)
	}

	codec := &TokenCodec{
		secret: []byte(secret),
		method: method,
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(codec)
	}
	return codec, nil
}

// Now returns the codec's current time.
func (codec *TokenCodec) Now() time.Time { return codec.now() }

// Encode signs the claim set. An empty issuer defaults to the codec's issuer.
func (codec *TokenCodec) Encode(claims Claims) (string, error) {
	issuer := claims.Issuer
	if issuer == "" {
		issuer = codec.issuer
	}

	payload := wireClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		Type: string(claims.Kind),
	}

	signedToken, err := jwt.NewWithClaims(codec.method, payload).SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signedToken, nil
}

// Decode verifies the token and returns its claims.
//
// Failures are reported as [ErrTokenExpired], [ErrTokenSignatureInvalid] or
// [ErrTokenMalformed]; all of them match [ErrTokenInvalid].
func (codec *TokenCodec) Decode(tokenString string) (*Claims, error) {
	payload := &wireClaims{}
	_, err := jwt.ParseWithClaims(tokenString, payload,
		func(token *jwt.Token) (interface{}, error) {
			return codec.secret, nil
		},
		jwt.WithValidMethods([]string{codec.method.Alg()}),
		jwt.WithIssuer(codec.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(codec.now),
	)
	if err != nil {
		return nil, classify(err)
	}

	kind := Kind(payload.Type)
	switch kind {
	case "":
		// Tokens without a marker are access tokens.
		kind = KindAccess
	case KindAccess, KindRefresh:
	default:
		return nil, fmt.Errorf("%w: unknown token type %q", ErrTokenMalformed, payload.Type)
	}

	claims := &Claims{
		Subject: payload.Subject,
		Issuer:  payload.Issuer,
		Kind:    kind,
	}
	if payload.IssuedAt != nil {
		claims.IssuedAt = payload.IssuedAt.Time
	}
	if payload.ExpiresAt != nil {
		claims.ExpiresAt = payload.ExpiresAt.Time
	}
	return claims, nil
}

// classify maps a jwt parser error onto the package's token errors.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrTokenSignatureInvalid, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}
}

// # Token Service

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// TokenService issues and verifies access and refresh tokens. Issuance is
// stateless; nothing is written server-side.
type TokenService struct {
	codec      *TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a new TokenService over codec.
func NewTokenService(codec *TokenCodec, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL reports the default access-token lifetime.
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

// IssueAccessToken creates an access token for subject.
//
// A zero ttl uses the configured default. A negative ttl yields a token that
// is already expired.
func (service *TokenService) IssueAccessToken(subject string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = service.accessTTL
	}
	return service.issue(subject, KindAccess, ttl)
}

// IssueRefreshToken creates a refresh token with the fixed refresh lifetime.
func (service *TokenService) IssueRefreshToken(subject string) (string, error) {
	return service.issue(subject, KindRefresh, service.refreshTTL)
}

// IssuePair creates an access token and a refresh token for subject.
func (service *TokenService) IssuePair(subject string) (*TokenPair, error) {
	accessToken, err := service.IssueAccessToken(subject, 0)
	if err != nil {
		return nil, err
	}

	refreshToken, err := service.IssueRefreshToken(subject)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    service.accessTTL,
	}, nil
}

// VerifyToken decodes the token and returns its subject when the token is of
// the expected kind. It never consults the user store.
func (service *TokenService) VerifyToken(tokenString string, expected Kind) (string, error) {
	claims, err := service.codec.Decode(tokenString)
	if err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	if claims.Kind != expected {
		return "", fmt.Errorf("%w: got %s, want %s", ErrTokenWrongKind, claims.Kind, expected)
	}

	return claims.Subject, nil
}

func (service *TokenService) issue(subject string, kind Kind, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("sec: cannot issue a token without a subject")
	}

	issuedAt := service.codec.Now()
	return service.codec.Encode(Claims{
		Subject:   subject,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(ttl),
		Kind:      kind,
	})
}
