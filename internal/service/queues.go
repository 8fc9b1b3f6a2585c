// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/microcosm-cc/bluemonday"

	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/store"
)

// QueueService implements the two linear moderation queues, feedback
// and reports. Submission is public; review is admin-only.
type QueueService struct {
	queries  *store.Queries
	activity *ActivityService
	sanitize *bluemonday.Policy
}

// NewQueueService creates a QueueService.
func NewQueueService(db *sqlx.DB, activity *ActivityService) *QueueService {
	return &QueueService{
		queries:  store.New(db),
		activity: activity,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// FeedbackInput holds the public feedback submission fields.
type FeedbackInput struct {
	Name    string
	Email   string
	Type    string
	Subject string
	Message string
	Rating  int
}

// SubmitFeedback stores a feedback entry. Name, email, subject and
// rating are optional; type and message are required.
func (s *QueueService) SubmitFeedback(ctx context.Context, in FeedbackInput) (store.Feedback, error) {
	in.Type = strings.TrimSpace(s.sanitize.Sanitize(in.Type))
	in.Message = strings.TrimSpace(s.sanitize.Sanitize(in.Message))
	in.Name = strings.TrimSpace(s.sanitize.Sanitize(in.Name))
	in.Subject = strings.TrimSpace(s.sanitize.Sanitize(in.Subject))
	in.Email = strings.TrimSpace(in.Email)

	fields := map[string]string{}
	if in.Type == "" {
		fields["type"] = "is required"
	}
	if in.Message == "" {
		fields["message"] = "is required"
	}
	if in.Rating != 0 && (in.Rating < model.MinRating || in.Rating > model.MaxRating) {
		fields["rating"] = fmt.Sprintf("must be between %d and %d", model.MinRating, model.MaxRating)
	}
	if len(fields) > 0 {
		return store.Feedback{}, &ValidationError{Fields: fields}
	}

	rating := sql.NullInt64{}
	if in.Rating != 0 {
		rating = sql.NullInt64{Int64: int64(in.Rating), Valid: true}
	}

	id, err := s.queries.CreateFeedback(ctx, store.CreateFeedbackParams{
		Name:    in.Name,
		Email:   in.Email,
		Type:    in.Type,
		Subject: in.Subject,
		Message: in.Message,
		Rating:  rating,
	})
	if err != nil {
		return store.Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	return s.queries.GetFeedback(ctx, id)
}

// ListFeedbackParams narrows the feedback listing. RatingSet with a
// zero Rating selects unrated entries.
type ListFeedbackParams struct {
	Rating    int
	RatingSet bool
	Status    string
	Limit     int
	Offset    int
}

// ListFeedback returns feedback entries, newest first.
func (s *QueueService) ListFeedback(ctx context.Context, p ListFeedbackParams) ([]store.Feedback, error) {
	if p.Limit <= 0 || p.Limit > MaxPageSize {
		p.Limit = DefaultPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return s.queries.ListFeedback(ctx, store.ListFeedbackParams{
		Rating:    int64(p.Rating),
		RatingSet: p.RatingSet,
		Status:    p.Status,
		Limit:     p.Limit,
		Offset:    p.Offset,
	})
}

// ReviewFeedback records an admin decision on a feedback entry. Moving
// to responded requires non-empty response text.
func (s *QueueService) ReviewFeedback(ctx context.Context, admin store.User, id int64, status, response, ip, userAgent string) (store.Feedback, error) {
	if !model.ValidFeedbackStatus(status) {
		return store.Feedback{}, invalid("status", "must be reviewed or responded")
	}
	response = strings.TrimSpace(s.sanitize.Sanitize(response))
	if status == model.FeedbackStatusResponded && response == "" {
		return store.Feedback{}, invalid("admin_response", "is required when responding")
	}

	if _, err := s.queries.GetFeedback(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Feedback{}, ErrNotFound
		}
		return store.Feedback{}, err
	}

	err := s.queries.ReviewFeedback(ctx, store.ReviewFeedbackParams{
		ID:            id,
		Status:        status,
		AdminResponse: response,
		ReviewedBy:    admin.ID,
	})
	if err != nil {
		return store.Feedback{}, fmt.Errorf("review feedback: %w", err)
	}

	s.activity.Log(ctx, Entry{
		Actor:      &admin.ID,
		ActionType: model.ActivityFeedbackReviewed,
		TargetID:   &id,
		TargetType: model.TargetFeedback,
		Details:    map[string]any{"status": status},
		IP:         ip,
		UserAgent:  userAgent,
	})
	return s.queries.GetFeedback(ctx, id)
}

// ReportInput holds the public report submission fields. Reporter and
// both targets are optional.
type ReportInput struct {
	ReporterID     *int64
	TargetUserID   *int64
	TargetRecipeID *int64
	ReportType     string
	Description    string
}

// SubmitReport stores a report in the pending status.
func (s *QueueService) SubmitReport(ctx context.Context, in ReportInput) (store.Report, error) {
	in.ReportType = strings.TrimSpace(s.sanitize.Sanitize(in.ReportType))
	in.Description = strings.TrimSpace(s.sanitize.Sanitize(in.Description))

	fields := map[string]string{}
	if in.ReportType == "" {
		fields["report_type"] = "is required"
	}
	if in.Description == "" {
		fields["description"] = "is required"
	}
	if len(fields) > 0 {
		return store.Report{}, &ValidationError{Fields: fields}
	}

	id, err := s.queries.CreateReport(ctx, store.CreateReportParams{
		ReporterID:     in.ReporterID,
		TargetUserID:   in.TargetUserID,
		TargetRecipeID: in.TargetRecipeID,
		ReportType:     in.ReportType,
		Description:    in.Description,
	})
	if err != nil {
		return store.Report{}, fmt.Errorf("create report: %w", err)
	}
	return s.queries.GetReport(ctx, id)
}

// ListReports returns reports for the admin queue, optionally filtered
// by status.
func (s *QueueService) ListReports(ctx context.Context, status string, limit, offset int) ([]store.Report, error) {
	if status != "" && status != model.ReportStatusPending && !model.ValidReportStatus(status) {
		return nil, invalid("status", "unknown status")
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.queries.ListReports(ctx, status, limit, offset)
}

// ListMyReports returns the reports filed by a user.
func (s *QueueService) ListMyReports(ctx context.Context, reporterID int64) ([]store.Report, error) {
	return s.queries.ListReportsByReporter(ctx, reporterID)
}

// ReviewReport records an admin decision on a report. Escalation is the
// move to reviewed and requires notes.
func (s *QueueService) ReviewReport(ctx context.Context, admin store.User, id int64, status, notes, ip, userAgent string) (store.Report, error) {
	if !model.ValidReportStatus(status) {
		return store.Report{}, invalid("status", "must be reviewed, resolved or dismissed")
	}
	notes = strings.TrimSpace(s.sanitize.Sanitize(notes))
	if status == model.ReportStatusReviewed && notes == "" {
		return store.Report{}, invalid("admin_notes", "are required when escalating")
	}

	if _, err := s.queries.GetReport(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Report{}, ErrNotFound
		}
		return store.Report{}, err
	}

	err := s.queries.ReviewReport(ctx, store.ReviewReportParams{
		ID:         id,
		Status:     status,
		AdminNotes: notes,
		ReviewedBy: admin.ID,
	})
	if err != nil {
		return store.Report{}, fmt.Errorf("review report: %w", err)
	}

	s.activity.Log(ctx, Entry{
		Actor:      &admin.ID,
		ActionType: model.ActivityReportReviewed,
		TargetID:   &id,
		TargetType: model.TargetReport,
		Details:    map[string]any{"status": status},
		IP:         ip,
		UserAgent:  userAgent,
	})
	return s.queries.GetReport(ctx, id)
}
