// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserFinder is the read side used by the Identity Resolver.
type UserFinder interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound when absent, other errors on store failure
	*/
	FindByID(context context.Context, id string) (*User, error)
}

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {
	UserFinder

	/*
		FindByEmail returns the account whose canonical email matches.

		Parameters:
		  - context: context.Context
		  - email: string (already normalized)
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account whose username matches case-insensitively.

		Parameters:
		  - context: context.Context
		  - username: string (already normalized)
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account.

		Returns:
		  - error: *sec.ConflictError naming the duplicated field, or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		TouchLastLogin stamps the account's last successful login.
	*/
	TouchLastLogin(context context.Context, id string, at time.Time) error
}

// # Volatile Data Access

// LoginLimiter counts failed login attempts per identifier.
type LoginLimiter interface {

	/*
		Failures returns the number of failed attempts inside the current window.
	*/
	Failures(context context.Context, identifier string) (int, error)

	/*
		RecordFailure increments the counter, starting a window on the first failure.

		Returns:
		  - int: The count after incrementing
	*/
	RecordFailure(context context.Context, identifier string) (int, error)

	/*
		Reset clears the counter after a successful login.
	*/
	Reset(context context.Context, identifier string) error

	/*
		RetryAfter returns how long the identifier stays locked.
	*/
	RetryAfter(context context.Context, identifier string) (time.Duration, error)
}
