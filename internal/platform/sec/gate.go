// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// Identity is the resolved account used for every authorization decision.
type Identity struct {
	ID     string `json:"id"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}

// HasRole reports whether the identity holds any of the given roles.
func (i *Identity) HasRole(roles ...Role) bool {
	if i == nil {
		return false
	}
	for _, role := range roles {
		if i.Role == role {
			return true
		}
	}
	return false
}

// # Predefined role sets

var (
	AdminOnly        = []Role{RoleAdmin}
	LandlordOrAdmin  = []Role{RoleLandlord, RoleAdmin}
	AgentOrAdmin     = []Role{RoleAgent, RoleAdmin}
	ListingManagers  = []Role{RoleLandlord, RoleAgent, RoleAdmin}
	ModeratorOrAdmin = []Role{RoleModerator, RoleAdmin}
)

// Authorize returns the identity unchanged when its role is one of allowed.
//
// With no allowed roles any authenticated identity passes. A nil identity
// is always rejected.
func Authorize(identity *Identity, allowed ...Role) (*Identity, error) {
	if identity == nil {
		return nil, fmt.Errorf("%w: no identity", ErrForbidden)
	}
	if len(allowed) == 0 || identity.HasRole(allowed...) {
		return identity, nil
	}
	return nil, fmt.Errorf("%w: role %s not in %v", ErrForbidden, identity.Role, allowed)
}
