// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xcalibur215/mmhub/pkg/normalize"
)

/*
TestEmail verifies case folding and compatibility normalization of addresses.
*/
func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already_canonical", "alice@example.com", "alice@example.com"},
		{"upper_case", "Alice@Example.COM", "alice@example.com"},
		{"surrounding_space", "  alice@example.com\t", "alice@example.com"},
		{"full_width", "ａｌｉｃｅ@example.com", "alice@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Email(tt.input))
		})
	}
}

/*
TestUsername verifies that display case survives while keys collide.
*/
func TestUsername(t *testing.T) {
	assert.Equal(t, "Alice", normalize.Username("  Alice "))
	assert.Equal(t, "alice", normalize.Username("ａｌｉｃｅ"))

	assert.Equal(t, normalize.Key("ALICE"), normalize.Key("alice"))
	assert.NotEqual(t, normalize.Key("alice"), normalize.Key("alicia"))
}
