// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/recipeshare/recipeshare/internal/middleware"
	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/service"
	"github.com/recipeshare/recipeshare/internal/util"
)

// AdminListRecipes returns recipes filtered by status for the
// moderation queue.
func (h *Handler) AdminListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.ListForAdmin(r.Context(),
		r.URL.Query().Get("status"),
		queryInt(r, "limit", service.DefaultPageSize),
		queryInt(r, "offset", 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newRecipeViews(recipes), nil)
}

// AdminModerateRecipe applies an approve or reject decision to a
// pending recipe.
func (h *Handler) AdminModerateRecipe(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r)
	if admin == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Action != "approve" && req.Action != "reject" {
		WriteValidationError(w, map[string]string{"action": "must be approve or reject"})
		return
	}

	recipe, err := h.recipes.Moderate(r.Context(), *admin, id, req.Action == "approve",
		util.ClientIP(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newRecipeView(recipe), nil)
}

// AdminListUsers returns a page of user accounts.
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	users, total, err := h.accounts.ListUsers(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, users, &Meta{Total: total, PerPage: limit})
}

// AdminGetUser returns one user account with its profile.
func (h *Handler) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	user, err := h.accounts.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	profile, err := h.accounts.GetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]any{
		"user":    user,
		"profile": profile,
	}, nil)
}

// AdminUserAction applies a suspend, activate or ban to a user account.
func (h *Handler) AdminUserAction(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r)
	if admin == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Action string `json:"action"`
		Reason string `json:"reason"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.accounts.AdminAction(r.Context(), service.AdminActionParams{
		AdminID:   admin.ID,
		TargetID:  id,
		Action:    model.AccountAction(req.Action),
		Reason:    req.Reason,
		IP:        util.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": req.Action + "d"}, nil)
}

// AdminReviewFeedback records a decision on a feedback entry.
func (h *Handler) AdminReviewFeedback(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r)
	if admin == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Status        string `json:"status"`
		AdminResponse string `json:"admin_response"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	feedback, err := h.queues.ReviewFeedback(r.Context(), *admin, id, req.Status, req.AdminResponse,
		util.ClientIP(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newFeedbackView(feedback), nil)
}

// AdminListReports returns reports for the admin queue.
func (h *Handler) AdminListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.queues.ListReports(r.Context(),
		r.URL.Query().Get("status"),
		queryInt(r, "limit", service.DefaultPageSize),
		queryInt(r, "offset", 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newReportViews(reports), nil)
}

// AdminReviewReport records a decision on a report.
func (h *Handler) AdminReviewReport(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r)
	if admin == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Status     string `json:"status"`
		AdminNotes string `json:"admin_notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	report, err := h.queues.ReviewReport(r.Context(), *admin, id, req.Status, req.AdminNotes,
		util.ClientIP(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newReportView(report), nil)
}

// AdminDashboard returns the aggregate counters.
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, stats, nil)
}

// AdminActivity returns the recent activity feed.
func (h *Handler) AdminActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := h.dashboard.RecentActivity(r.Context(), queryInt(r, "limit", 50))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, entries, nil)
}
