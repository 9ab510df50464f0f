// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

/*
TestStatementTimeoutQuery verifies the per-connection timeout statement.
*/
func TestStatementTimeoutQuery(t *testing.T) {
	assert.Equal(t, "SET statement_timeout = '30s'", statementTimeoutQuery(30*time.Second))
	assert.Equal(t, "SET statement_timeout = '1s'", statementTimeoutQuery(1500*time.Millisecond))
}
