// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/store"
)

// DashboardService aggregates the counters shown on the admin
// dashboard.
type DashboardService struct {
	queries  *store.Queries
	activity *ActivityService
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(db *sqlx.DB, activity *ActivityService) *DashboardService {
	return &DashboardService{queries: store.New(db), activity: activity}
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	TotalUsers      int64 `json:"total_users"`
	PendingRecipes  int64 `json:"pending_recipes"`
	ApprovedRecipes int64 `json:"approved_recipes"`
	RejectedRecipes int64 `json:"rejected_recipes"`
	DraftRecipes    int64 `json:"draft_recipes"`
	NewFeedback     int64 `json:"new_feedback"`
	PendingReports  int64 `json:"pending_reports"`
	ImagesGenerated int64 `json:"images_generated"`
}

// Stats collects the dashboard counters.
func (s *DashboardService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error

	if st.TotalUsers, err = s.queries.CountUsers(ctx); err != nil {
		return Stats{}, err
	}
	if st.PendingRecipes, err = s.queries.CountRecipesByStatus(ctx, string(model.StatePending)); err != nil {
		return Stats{}, err
	}
	if st.ApprovedRecipes, err = s.queries.CountRecipesByStatus(ctx, string(model.StateApproved)); err != nil {
		return Stats{}, err
	}
	if st.RejectedRecipes, err = s.queries.CountRecipesByStatus(ctx, string(model.StateRejected)); err != nil {
		return Stats{}, err
	}
	if st.DraftRecipes, err = s.queries.CountRecipesByStatus(ctx, string(model.StateDraft)); err != nil {
		return Stats{}, err
	}
	if st.NewFeedback, err = s.queries.CountFeedbackByStatus(ctx, model.FeedbackStatusNew); err != nil {
		return Stats{}, err
	}
	if st.PendingReports, err = s.queries.CountReportsByStatus(ctx, model.ReportStatusPending); err != nil {
		return Stats{}, err
	}
	if st.ImagesGenerated, err = s.queries.CountActivityByAction(ctx, model.ActivityImageGenerated); err != nil {
		return Stats{}, err
	}
	return st, nil
}

// RecentActivity returns the newest activity entries for the dashboard
// feed.
func (s *DashboardService) RecentActivity(ctx context.Context, limit int) ([]store.Activity, error) {
	return s.activity.Recent(ctx, limit)
}
