// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package normalize canonicalizes user-supplied identifiers.
//
// # Usage
//
// Emails and usernames are compared after normalization so that visually
// identical inputs ("Ａlice", "alice", "ALICE") map to the same account.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Text applies NFKC normalization and trims surrounding whitespace.
//
// # Transformation Pipeline
//
// 1. Compatibility composition (NFKC): full-width forms become ASCII.
// 2. Leading and trailing whitespace is removed.
func Text(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// Email returns the canonical form of an email address: NFKC, trimmed and
// case-folded. Addresses are stored and looked up in this form.
func Email(s string) string {
	return Key(s)
}

// Username returns the display form of a username: NFKC and trimmed.
// Case is preserved; uniqueness is enforced on [Key].
func Username(s string) string {
	return Text(s)
}

// Key returns a case-insensitive comparison key for an identifier.
//
// A [cases.Caser] is stateful, so one is built per call.
func Key(s string) string {
	return cases.Fold().String(Text(s))
}
