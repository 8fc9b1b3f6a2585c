// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// Activity is a row in the append-only activity_logs table.
type Activity struct {
	ID          int64         `db:"id" json:"id"`
	ActorUserID sql.NullInt64 `db:"actor_user_id" json:"-"`
	ActionType  string        `db:"action_type" json:"action_type"`
	TargetID    sql.NullInt64 `db:"target_id" json:"-"`
	TargetType  string        `db:"target_type" json:"target_type"`
	Details     string        `db:"details" json:"details"`
	IPAddress   string        `db:"ip_address" json:"ip_address"`
	UserAgent   string        `db:"user_agent" json:"user_agent"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// CreateActivityParams holds the fields for CreateActivity.
type CreateActivityParams struct {
	ActorUserID *int64
	ActionType  string
	TargetID    *int64
	TargetType  string
	Details     string
	IPAddress   string
	UserAgent   string
}

// CreateActivity appends an activity log entry. Rows are never updated
// or deleted.
func (q *Queries) CreateActivity(ctx context.Context, arg CreateActivityParams) error {
	details := arg.Details
	if details == "" {
		details = "{}"
	}
	_, err := q.db.ExecContext(ctx, q.rebind(`
		INSERT INTO activity_logs (actor_user_id, action_type, target_id, target_type, details, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		nullInt64(arg.ActorUserID), arg.ActionType, nullInt64(arg.TargetID), arg.TargetType,
		details, arg.IPAddress, arg.UserAgent, time.Now().UTC())
	return err
}

// ListRecentActivity returns the newest log entries for the admin
// dashboard feed.
func (q *Queries) ListRecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	var items []Activity
	err := sqlx.SelectContext(ctx, q.db, &items, q.rebind(`
		SELECT * FROM activity_logs ORDER BY created_at DESC, id DESC LIMIT ?`), limit)
	return items, err
}

// CountActivityByAction returns the number of log entries with the
// given action type.
func (q *Queries) CountActivityByAction(ctx context.Context, actionType string) (int64, error) {
	var n int64
	err := sqlx.GetContext(ctx, q.db, &n,
		q.rebind(`SELECT COUNT(*) FROM activity_logs WHERE action_type = ?`), actionType)
	return n, err
}
