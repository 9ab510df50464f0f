// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher performs one-way password hashing with bcrypt.
//
// The cost factor is embedded in every produced hash, so [Hasher.Verify]
// accepts hashes written with any other cost without rehashing.
type Hasher struct {
	cost int
}

// NewHasher returns a [Hasher] using the given bcrypt cost, clamped to the
// range bcrypt accepts.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Cost reports the work factor applied to new hashes.
func (h *Hasher) Cost() int { return h.cost }

// Hash returns the salted bcrypt hash of plaintext. The empty string is hashed
// like any other value; only input longer than 72 bytes is rejected.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify reports whether plaintext matches the stored hash. It never returns
// an error; a corrupt hash simply does not match.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
