// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package moderation lets members report content and lets moderators resolve
those reports.

A flag is opened by any authenticated member against a property, a message
or a user. Moderators and admins list flags and close each one exactly once,
as resolved or dismissed.
*/
package moderation

import (
	"context"
	"errors"
	"time"
)

// ErrFlagClosed is returned when resolving a flag that is no longer open.
var ErrFlagClosed = errors.New("moderation: flag already closed")

// TargetType is the kind of content a flag points at.
type TargetType string

const (
	TargetProperty TargetType = "property"
	TargetMessage  TargetType = "message"
	TargetUser     TargetType = "user"
)

// TargetTypes lists every valid [TargetType].
var TargetTypes = []string{string(TargetProperty), string(TargetMessage), string(TargetUser)}

// Status is the review state of a flag.
type Status string

const (
	StatusOpen      Status = "open"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
)

// Statuses lists every valid [Status]; ClosingStatuses the ones a reviewer may set.
var (
	Statuses        = []string{string(StatusOpen), string(StatusResolved), string(StatusDismissed)}
	ClosingStatuses = []string{string(StatusResolved), string(StatusDismissed)}
)

// Flag is one content report.
type Flag struct {
	ID         string     `json:"id"`
	TargetType TargetType `json:"target_type"`
	TargetID   string     `json:"target_id"`
	Reason     string     `json:"reason"`
	Status     Status     `json:"status"`
	Notes      *string    `json:"notes"`
	CreatedBy  string     `json:"created_by"`
	ResolvedBy *string    `json:"resolved_by"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at"`
}

// Resolution closes an open flag.
type Resolution struct {
	Status     Status
	Notes      *string
	ResolvedBy string
	ResolvedAt time.Time
}

// Repository defines the persistence contract for flags.
type Repository interface {
	// Create persists a new open flag.
	Create(context context.Context, flag *Flag) error

	// List returns flags newest first, optionally restricted to one status.
	List(context context.Context, status *Status) ([]*Flag, error)

	/*
		Resolve closes an open flag.

		Returns:
		  - *Flag: The closed flag
		  - error: dberr.ErrNotFound, ErrFlagClosed
	*/
	Resolve(context context.Context, id string, resolution Resolution) (*Flag, error)
}
