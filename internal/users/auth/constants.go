// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Registration Constraints

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6

	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72

	// MinUsernameLength and MaxUsernameLength bound usernames after normalization.
	MinUsernameLength = 3
	MaxUsernameLength = 50

	// MaxNameLength bounds first and last names.
	MaxNameLength = 100
)
