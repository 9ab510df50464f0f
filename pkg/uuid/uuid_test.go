// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xcalibur215/mmhub/pkg/uuid"
)

/*
TestNew verifies v7 generation and ordering.
*/
func TestNew(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	parsed, err := googleuuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, googleuuid.Version(7), parsed.Version())
	assert.NotEqual(t, first, second)
	assert.True(t, uuid.Valid(first))
	assert.False(t, uuid.Valid("not-a-uuid"))
}
