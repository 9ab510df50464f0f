// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"strings"
)

// # User Roles

// Role is the single authorization level held by an account.
//
// The set is closed. Values only enter the program through [ParseRole] so an
// unknown string from storage or a request body never becomes a Role.
type Role string

const (
	// Default role for every self-registered account
	RoleUser Role = "user"

	// Can publish and manage their own listings
	RoleLandlord Role = "landlord"

	// Lists properties on behalf of owners
	RoleAgent Role = "agent"

	// Reviews and resolves content flags
	RoleModerator Role = "moderator"

	// Unrestricted system access
	RoleAdmin Role = "admin"
)

// Roles lists every valid role in ascending order of privilege.
var Roles = []Role{RoleUser, RoleLandlord, RoleAgent, RoleModerator, RoleAdmin}

// ParseRole converts a stored or submitted string into a [Role].
// Unknown values fail with [ErrUnknownRole] rather than defaulting.
func ParseRole(raw string) (Role, error) {
	candidate := Role(strings.TrimSpace(raw))
	for _, role := range Roles {
		if candidate == role {
			return role, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
}

// String implements [fmt.Stringer].
func (r Role) String() string { return string(r) }

// RoleStrings returns the role set as plain strings, for validators and SQL.
func RoleStrings() []string {
	out := make([]string, len(Roles))
	for i, role := range Roles {
		out[i] = string(role)
	}
	return out
}
