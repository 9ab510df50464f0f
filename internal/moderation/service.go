// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xcalibur215/mmhub/internal/platform/apperr"
	"github.com/xcalibur215/mmhub/internal/platform/ctxutil"
	"github.com/xcalibur215/mmhub/internal/platform/dberr"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/pkg/normalize"
	"github.com/xcalibur215/mmhub/pkg/uuid"
)

const (
	msgInvalidStatusChange = "Invalid status change"
	msgFlagClosed          = "Flag has already been closed"
)

// Report is a member's request to flag content.
type Report struct {
	TargetType TargetType
	TargetID   string
	Reason     string
}

// Service implements moderation use cases.
type Service struct {
	flags Repository
	now   func() time.Time
}

// NewService constructs a new moderation [Service].
func NewService(flags Repository) *Service {
	return &Service{flags: flags, now: time.Now}
}

/*
Flag opens a report on behalf of the caller.

Returns:
  - *Flag: The open flag
  - error: Storage failures
*/
func (service *Service) Flag(context context.Context, caller *sec.Identity, report Report) (*Flag, error) {
	flag := &Flag{
		ID:         uuid.New(),
		TargetType: report.TargetType,
		TargetID:   normalize.Text(report.TargetID),
		Reason:     normalize.Text(report.Reason),
		Status:     StatusOpen,
		CreatedBy:  caller.ID,
	}

	if err := service.flags.Create(context, flag); err != nil {
		return nil, fmt.Errorf("moderation_service_create_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "content_flagged",
		slog.String("flag_id", flag.ID),
		slog.String("target_type", string(flag.TargetType)),
		slog.String("target_id", flag.TargetID),
		slog.String("reporter_id", caller.ID),
	)
	return flag, nil
}

/*
List returns flags for review, newest first.

Parameters:
  - context: context.Context
  - caller: *sec.Identity (moderator or admin)
  - status: *Status (optional filter)
*/
func (service *Service) List(context context.Context, caller *sec.Identity, status *Status) ([]*Flag, error) {
	if _, err := sec.Authorize(caller, sec.ModeratorOrAdmin...); err != nil {
		return nil, err
	}

	flags, err := service.flags.List(context, status)
	if err != nil {
		return nil, fmt.Errorf("moderation_service_list_failed: %w", err)
	}
	return flags, nil
}

/*
Resolve closes an open flag as resolved or dismissed.

Returns:
  - *Flag: The closed flag
  - error: 400 for a non-closing status, 404, 409 when already closed
*/
func (service *Service) Resolve(context context.Context, caller *sec.Identity, id string, status Status, notes *string) (*Flag, error) {
	if _, err := sec.Authorize(caller, sec.ModeratorOrAdmin...); err != nil {
		return nil, err
	}
	if status != StatusResolved && status != StatusDismissed {
		return nil, apperr.ValidationError(msgInvalidStatusChange)
	}

	if notes != nil {
		trimmed := normalize.Text(*notes)
		notes = &trimmed
	}

	flag, err := service.flags.Resolve(context, id, Resolution{
		Status:     status,
		Notes:      notes,
		ResolvedBy: caller.ID,
		ResolvedAt: service.now().UTC(),
	})
	switch {
	case err == nil:
	case dberr.IsNotFound(err):
		return nil, apperr.NotFound("Flag")
	case errors.Is(err, ErrFlagClosed):
		return nil, apperr.Conflict(msgFlagClosed).WithCause(err)
	default:
		return nil, fmt.Errorf("moderation_service_resolve_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "flag_resolved",
		slog.String("flag_id", flag.ID),
		slog.String("status", string(flag.Status)),
		slog.String("moderator_id", caller.ID),
	)
	return flag, nil
}
