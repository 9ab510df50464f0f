// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the marketplace identity layer: registration, login,
token refresh, and the resolution of verified token subjects into identities.

# Architecture

  - user.go: the account entity and its projection into a [sec.Identity].
  - resolver.go: Identity Resolver and the bearer [middleware.Authenticator].
  - service.go: Register / Login / Refresh / Me use cases.
  - store_*.go: PostgreSQL accounts and the Redis login throttle.
  - http.go: the /auth delivery layer.
*/
package auth

import (
	"time"

	"github.com/xcalibur215/mmhub/internal/platform/sec"
)

// # Domain Entities

// Status is the lifecycle state of an account.
type Status string

const (
	StatusActive              Status = "active"
	StatusInactive            Status = "inactive"
	StatusSuspended           Status = "suspended"
	StatusPendingVerification Status = "pending_verification"
)

// Statuses lists every valid [Status] in declaration order.
var Statuses = []Status{StatusActive, StatusInactive, StatusSuspended, StatusPendingVerification}

// ParseStatus converts a raw string into a [Status].
func ParseStatus(raw string) (Status, bool) {
	for _, status := range Statuses {
		if string(status) == raw {
			return status, true
		}
	}
	return "", false
}

// StatusStrings returns the valid statuses as plain strings for validation.
func StatusStrings() []string {
	out := make([]string, len(Statuses))
	for i, status := range Statuses {
		out[i] = string(status)
	}
	return out
}

// User represents a registered member of the marketplace.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"` // Explicitly omitted from JSON for security.
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        *string    `json:"phone"`
	Role         sec.Role   `json:"role"`
	Status       Status     `json:"status"`
	AvatarURL    *string    `json:"avatar_url"`
	Bio          *string    `json:"bio"`
	IsVerified   bool       `json:"is_verified"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login"`
}

// Active reports whether the account may authenticate.
//
// The is_active switch and a suspended or inactive status both deactivate;
// accounts pending verification can still sign in.
func (user *User) Active() bool {
	return user.IsActive && user.Status != StatusSuspended && user.Status != StatusInactive
}

// Identity projects the account onto the fields used for authorization.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{ID: user.ID, Role: user.Role, Active: user.Active()}
}

// Summary is the identity block embedded in the login response.
type Summary struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Role      sec.Role `json:"role"`
	AvatarURL *string  `json:"avatar_url"`
}

// Summary returns the login-response projection of the account.
func (user *User) Summary() Summary {
	return Summary{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
	}
}

// # Field Identifiers

// Field names for validation in the authentication domain.
const (
	FieldEmail        = "email"
	FieldUsername     = "username"
	FieldLogin        = "login"
	FieldPassword     = "password"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldPhone        = "phone"
	FieldRefreshToken = "refresh_token"
)
