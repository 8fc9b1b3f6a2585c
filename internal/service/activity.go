// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/mileusna/useragent"

	"github.com/recipeshare/recipeshare/internal/store"
)

// ActivityService appends to and reads the activity log. Writes are
// best-effort: a failed append is logged and swallowed so it can never
// abort the operation it accompanies.
type ActivityService struct {
	queries *store.Queries
}

// NewActivityService creates an ActivityService.
func NewActivityService(db *sqlx.DB) *ActivityService {
	return &ActivityService{queries: store.New(db)}
}

// Entry describes one activity log append.
type Entry struct {
	Actor      *int64
	ActionType string
	TargetID   *int64
	TargetType string
	Details    map[string]any
	IP         string
	UserAgent  string
}

// Log appends an entry to the activity log. It never returns an error.
func (s *ActivityService) Log(ctx context.Context, e Entry) {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	if e.UserAgent != "" {
		ua := useragent.Parse(e.UserAgent)
		if ua.Name != "" {
			details["client"] = ua.Name
		}
		if ua.OS != "" {
			details["os"] = ua.OS
		}
	}

	detailsJSON := "{}"
	if b, err := json.Marshal(details); err == nil {
		detailsJSON = string(b)
	}

	// Background context: the entry should land even when the request
	// context is already cancelled.
	err := s.queries.CreateActivity(context.WithoutCancel(ctx), store.CreateActivityParams{
		ActorUserID: e.Actor,
		ActionType:  e.ActionType,
		TargetID:    e.TargetID,
		TargetType:  e.TargetType,
		Details:     detailsJSON,
		IPAddress:   e.IP,
		UserAgent:   e.UserAgent,
	})
	if err != nil {
		slog.Error("activity log append failed", "action", e.ActionType, "error", err)
	}
}

// Recent returns the newest activity entries for the admin dashboard.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]store.Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.queries.ListRecentActivity(ctx, limit)
}
