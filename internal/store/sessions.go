// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// AdminSession is a row in the user_sessions table: the server-side
// record proving a successful elevated-privilege login, independent of
// the general session cookie.
type AdminSession struct {
	ID        string    `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	IsAdmin   bool      `db:"is_admin" json:"is_admin"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

// CreateAdminSessionParams holds the fields for CreateAdminSession.
type CreateAdminSessionParams struct {
	ID        string
	UserID    int64
	IsAdmin   bool
	ExpiresAt time.Time
}

// CreateAdminSession inserts an admin session row.
func (q *Queries) CreateAdminSession(ctx context.Context, arg CreateAdminSessionParams) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`
		INSERT INTO user_sessions (id, user_id, is_admin, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)`),
		arg.ID, arg.UserID, arg.IsAdmin, time.Now().UTC(), arg.ExpiresAt)
	return err
}

// GetAdminSession fetches a session row by id.
func (q *Queries) GetAdminSession(ctx context.Context, id string) (AdminSession, error) {
	var s AdminSession
	err := sqlx.GetContext(ctx, q.db, &s,
		q.rebind(`SELECT * FROM user_sessions WHERE id = ?`), id)
	return s, err
}

// GetAdminSessionForUser fetches the newest session row for a user.
func (q *Queries) GetAdminSessionForUser(ctx context.Context, userID int64) (AdminSession, error) {
	var s AdminSession
	err := sqlx.GetContext(ctx, q.db, &s, q.rebind(`
		SELECT * FROM user_sessions WHERE user_id = ?
		ORDER BY created_at DESC LIMIT 1`), userID)
	return s, err
}

// DeleteAdminSession removes a session row by id.
func (q *Queries) DeleteAdminSession(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`DELETE FROM user_sessions WHERE id = ?`), id)
	return err
}

// DeleteAdminSessionsForUser removes all session rows for a user.
func (q *Queries) DeleteAdminSessionsForUser(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`DELETE FROM user_sessions WHERE user_id = ?`), userID)
	return err
}

// DeleteExpiredAdminSessions removes session rows past their expiry.
// Expired rows are also deleted lazily on access; this is the
// housekeeping sweep.
func (q *Queries) DeleteExpiredAdminSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, q.rebind(`DELETE FROM user_sessions WHERE expires_at < ?`), now)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}
