// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "strings"

// ModerationFlagTable represents the 'moderation.flag' table
type ModerationFlagTable struct {
	Table      string
	ID         string
	TargetType string
	TargetID   string
	Reason     string
	Status     string
	Notes      string
	CreatedBy  string
	ResolvedBy string
	CreatedAt  string
	ResolvedAt string
}

// ModerationFlag is the schema definition for moderation.flag
var ModerationFlag = ModerationFlagTable{
	Table:      "moderation.flag",
	ID:         "id",
	TargetType: "targettype",
	TargetID:   "targetid",
	Reason:     "reason",
	Status:     "status",
	Notes:      "notes",
	CreatedBy:  "createdby",
	ResolvedBy: "resolvedby",
	CreatedAt:  "createdat",
	ResolvedAt: "resolvedat",
}

// Columns returns all standard column names
func (t ModerationFlagTable) Columns() []string {
	return []string{
		t.ID, t.TargetType, t.TargetID, t.Reason, t.Status, t.Notes,
		t.CreatedBy, t.ResolvedBy, t.CreatedAt, t.ResolvedAt,
	}
}

// Select returns the column list joined for a SELECT clause.
func (t ModerationFlagTable) Select() string {
	return strings.Join(t.Columns(), ", ")
}
