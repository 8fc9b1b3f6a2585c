// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// Report is a row in the reports table. Reporter and targets are
// nullable: anonymous reports and free-text-only reports are allowed.
type Report struct {
	ID             int64         `db:"id" json:"id"`
	ReporterID     sql.NullInt64 `db:"reporter_id" json:"-"`
	TargetUserID   sql.NullInt64 `db:"target_user_id" json:"-"`
	TargetRecipeID sql.NullInt64 `db:"target_recipe_id" json:"-"`
	ReportType     string        `db:"report_type" json:"report_type"`
	Description    string        `db:"description" json:"description"`
	Status         string        `db:"status" json:"status"`
	AdminNotes     string        `db:"admin_notes" json:"admin_notes"`
	ReviewedBy     sql.NullInt64 `db:"reviewed_by" json:"-"`
	ReviewedAt     sql.NullTime  `db:"reviewed_at" json:"reviewed_at"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

// CreateReportParams holds the fields for CreateReport.
type CreateReportParams struct {
	ReporterID     *int64
	TargetUserID   *int64
	TargetRecipeID *int64
	ReportType     string
	Description    string
}

// CreateReport inserts a report in the "pending" status and returns
// its id.
func (q *Queries) CreateReport(ctx context.Context, arg CreateReportParams) (int64, error) {
	var id int64
	err := q.db.QueryRowxContext(ctx, q.rebind(`
		INSERT INTO reports (reporter_id, target_user_id, target_recipe_id, report_type, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, 'pending', ?)
		RETURNING id`),
		nullInt64(arg.ReporterID), nullInt64(arg.TargetUserID), nullInt64(arg.TargetRecipeID),
		arg.ReportType, arg.Description, time.Now().UTC(),
	).Scan(&id)
	return id, err
}

// GetReport fetches a report by id.
func (q *Queries) GetReport(ctx context.Context, id int64) (Report, error) {
	var r Report
	err := sqlx.GetContext(ctx, q.db, &r, q.rebind(`SELECT * FROM reports WHERE id = ?`), id)
	return r, err
}

// ListReports returns reports, newest first, optionally filtered by
// status.
func (q *Queries) ListReports(ctx context.Context, status string, limit, offset int) ([]Report, error) {
	var reports []Report
	if status == "" {
		err := sqlx.SelectContext(ctx, q.db, &reports, q.rebind(`
			SELECT * FROM reports ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`),
			limit, offset)
		return reports, err
	}
	err := sqlx.SelectContext(ctx, q.db, &reports, q.rebind(`
		SELECT * FROM reports WHERE status = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`),
		status, limit, offset)
	return reports, err
}

// ListReportsByReporter returns the reports filed by a user.
func (q *Queries) ListReportsByReporter(ctx context.Context, reporterID int64) ([]Report, error) {
	var reports []Report
	err := sqlx.SelectContext(ctx, q.db, &reports, q.rebind(`
		SELECT * FROM reports WHERE reporter_id = ? ORDER BY created_at DESC, id DESC`),
		reporterID)
	return reports, err
}

// ReviewReportParams holds the fields for ReviewReport.
type ReviewReportParams struct {
	ID         int64
	Status     string
	AdminNotes string
	ReviewedBy int64
}

// ReviewReport records an admin decision on a report.
func (q *Queries) ReviewReport(ctx context.Context, arg ReviewReportParams) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`
		UPDATE reports SET status = ?, admin_notes = ?, reviewed_by = ?, reviewed_at = ?
		WHERE id = ?`),
		arg.Status, arg.AdminNotes, arg.ReviewedBy, time.Now().UTC(), arg.ID)
	return err
}

// CountReportsByStatus returns the number of reports with the given
// status.
func (q *Queries) CountReportsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := sqlx.GetContext(ctx, q.db, &n,
		q.rebind(`SELECT COUNT(*) FROM reports WHERE status = ?`), status)
	return n, err
}
