// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid issues the primary keys of the marketplace schema.

Keys are UUIDv7: time-ordered, so new rows append to the end of PostgreSQL
B-tree indexes.
*/
package uuid

import "github.com/google/uuid"

// New returns a UUIDv7 string. It panics only if the entropy source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
