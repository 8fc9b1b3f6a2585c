// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/recipeshare/recipeshare/internal/middleware"
	"github.com/recipeshare/recipeshare/internal/service"
	"github.com/recipeshare/recipeshare/internal/store"
)

// feedbackView is the JSON shape of a feedback entry.
type feedbackView struct {
	store.Feedback
	Rating     int        `json:"rating,omitempty"`
	ReviewedBy *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}

func newFeedbackView(f store.Feedback) feedbackView {
	v := feedbackView{Feedback: f}
	if f.Rating.Valid {
		v.Rating = int(f.Rating.Int64)
	}
	if f.ReviewedBy.Valid {
		id := f.ReviewedBy.Int64
		v.ReviewedBy = &id
	}
	if f.ReviewedAt.Valid {
		t := f.ReviewedAt.Time
		v.ReviewedAt = &t
	}
	return v
}

func newFeedbackViews(items []store.Feedback) []feedbackView {
	views := make([]feedbackView, 0, len(items))
	for _, f := range items {
		views = append(views, newFeedbackView(f))
	}
	return views
}

// reportView is the JSON shape of a report.
type reportView struct {
	store.Report
	ReporterID     *int64     `json:"reporter_id,omitempty"`
	TargetUserID   *int64     `json:"target_user_id,omitempty"`
	TargetRecipeID *int64     `json:"target_recipe_id,omitempty"`
	ReviewedBy     *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
}

func newReportView(r store.Report) reportView {
	v := reportView{Report: r}
	if r.ReporterID.Valid {
		id := r.ReporterID.Int64
		v.ReporterID = &id
	}
	if r.TargetUserID.Valid {
		id := r.TargetUserID.Int64
		v.TargetUserID = &id
	}
	if r.TargetRecipeID.Valid {
		id := r.TargetRecipeID.Int64
		v.TargetRecipeID = &id
	}
	if r.ReviewedBy.Valid {
		id := r.ReviewedBy.Int64
		v.ReviewedBy = &id
	}
	if r.ReviewedAt.Valid {
		t := r.ReviewedAt.Time
		v.ReviewedAt = &t
	}
	return v
}

func newReportViews(items []store.Report) []reportView {
	views := make([]reportView, 0, len(items))
	for _, r := range items {
		views = append(views, newReportView(r))
	}
	return views
}

// SubmitFeedback stores a public feedback entry.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Type    string `json:"type"`
		Subject string `json:"subject"`
		Message string `json:"message"`
		Rating  int    `json:"rating"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	feedback, err := h.queues.SubmitFeedback(r.Context(), service.FeedbackInput{
		Name:    req.Name,
		Email:   req.Email,
		Type:    req.Type,
		Subject: req.Subject,
		Message: req.Message,
		Rating:  req.Rating,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteCreated(w, newFeedbackView(feedback))
}

// ListFeedback returns feedback entries with optional rating and
// status filters. A literal "rating=0" selects unrated entries.
func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := service.ListFeedbackParams{
		Status: q.Get("status"),
		Limit:  queryInt(r, "limit", service.DefaultPageSize),
		Offset: queryInt(r, "offset", 0),
	}
	if q.Has("rating") {
		params.Rating = queryInt(r, "rating", 0)
		params.RatingSet = true
	}

	items, err := h.queues.ListFeedback(r.Context(), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newFeedbackViews(items), nil)
}

// SubmitReport stores a report, anonymously when no user is signed in.
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetUserID   *int64 `json:"target_user_id"`
		TargetRecipeID *int64 `json:"target_recipe_id"`
		ReportType     string `json:"report_type"`
		Description    string `json:"description"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	report, err := h.queues.SubmitReport(r.Context(), service.ReportInput{
		ReporterID:     middleware.GetUserIDPtr(r),
		TargetUserID:   req.TargetUserID,
		TargetRecipeID: req.TargetRecipeID,
		ReportType:     req.ReportType,
		Description:    req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteCreated(w, newReportView(report))
}

// ListMyReports returns the reports the caller has filed.
func (h *Handler) ListMyReports(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	reports, err := h.queues.ListMyReports(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newReportViews(reports), nil)
}
