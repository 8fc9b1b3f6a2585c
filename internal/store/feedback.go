// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// Feedback is a row in the feedback table.
type Feedback struct {
	ID            int64          `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Email         string         `db:"email" json:"email"`
	Type          string         `db:"type" json:"type"`
	Subject       string         `db:"subject" json:"subject"`
	Message       string         `db:"message" json:"message"`
	Rating        sql.NullInt64  `db:"rating" json:"-"`
	Status        string         `db:"status" json:"status"`
	AdminResponse string         `db:"admin_response" json:"admin_response"`
	ReviewedBy    sql.NullInt64  `db:"reviewed_by" json:"-"`
	ReviewedAt    sql.NullTime   `db:"reviewed_at" json:"reviewed_at"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// CreateFeedbackParams holds the fields for CreateFeedback.
type CreateFeedbackParams struct {
	Name    string
	Email   string
	Type    string
	Subject string
	Message string
	Rating  sql.NullInt64
}

// CreateFeedback inserts a feedback entry in the "new" status and
// returns its id.
func (q *Queries) CreateFeedback(ctx context.Context, arg CreateFeedbackParams) (int64, error) {
	var id int64
	err := q.db.QueryRowxContext(ctx, q.rebind(`
		INSERT INTO feedback (name, email, type, subject, message, rating, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 'new', ?)
		RETURNING id`),
		arg.Name, arg.Email, arg.Type, arg.Subject, arg.Message, arg.Rating,
		time.Now().UTC(),
	).Scan(&id)
	return id, err
}

// GetFeedback fetches a feedback entry by id.
func (q *Queries) GetFeedback(ctx context.Context, id int64) (Feedback, error) {
	var f Feedback
	err := sqlx.GetContext(ctx, q.db, &f, q.rebind(`SELECT * FROM feedback WHERE id = ?`), id)
	return f, err
}

// ListFeedbackParams narrows the feedback listing. Rating filters by
// the given value; Rating == 0 with RatingSet selects unrated entries.
type ListFeedbackParams struct {
	Rating    int64
	RatingSet bool
	Status    string
	Limit     int
	Offset    int
}

// ListFeedback returns feedback entries, newest first.
func (q *Queries) ListFeedback(ctx context.Context, arg ListFeedbackParams) ([]Feedback, error) {
	query := `SELECT * FROM feedback WHERE 1 = 1`
	var args []any

	if arg.RatingSet {
		if arg.Rating == 0 {
			query += ` AND rating IS NULL`
		} else {
			query += ` AND rating = ?`
			args = append(args, arg.Rating)
		}
	}
	if arg.Status != "" {
		query += ` AND status = ?`
		args = append(args, arg.Status)
	}

	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, arg.Limit, arg.Offset)

	var items []Feedback
	err := sqlx.SelectContext(ctx, q.db, &items, q.rebind(query), args...)
	return items, err
}

// ReviewFeedbackParams holds the fields for ReviewFeedback.
type ReviewFeedbackParams struct {
	ID            int64
	Status        string
	AdminResponse string
	ReviewedBy    int64
}

// ReviewFeedback records an admin decision on a feedback entry.
func (q *Queries) ReviewFeedback(ctx context.Context, arg ReviewFeedbackParams) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`
		UPDATE feedback SET status = ?, admin_response = ?, reviewed_by = ?, reviewed_at = ?
		WHERE id = ?`),
		arg.Status, arg.AdminResponse, arg.ReviewedBy, time.Now().UTC(), arg.ID)
	return err
}

// CountFeedbackByStatus returns the number of feedback entries with the
// given status.
func (q *Queries) CountFeedbackByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := sqlx.GetContext(ctx, q.db, &n,
		q.rebind(`SELECT COUNT(*) FROM feedback WHERE status = ?`), status)
	return n, err
}
