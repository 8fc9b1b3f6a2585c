// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/recipeshare/recipeshare/internal/middleware"
	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/service"
	"github.com/recipeshare/recipeshare/internal/store"
)

// SaveRecipe bookmarks a recipe. A duplicate save is a conflict.
func (h *Handler) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.saved.Save(r.Context(), *user, id); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteCreated(w, map[string]string{"status": "saved"})
}

// UnsaveRecipe removes a bookmark.
func (h *Handler) UnsaveRecipe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.saved.Unsave(r.Context(), user.ID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "unsaved"}, nil)
}

// ListSavedRecipes returns the caller's bookmarked recipes.
func (h *Handler) ListSavedRecipes(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	recipes, err := h.saved.ListSaved(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newRecipeViews(recipes), nil)
}

// progressView is the JSON shape of a cooking progress record.
type progressView struct {
	store.Progress
	CheckedIngredients []int      `json:"checked_ingredients"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

func newProgressView(p store.Progress) progressView {
	v := progressView{
		Progress:           p,
		CheckedIngredients: model.DecodeIntList(p.CheckedIngredients),
	}
	if p.CompletedAt.Valid {
		t := p.CompletedAt.Time
		v.CompletedAt = &t
	}
	return v
}

// GetProgress returns the caller's cooking progress for a recipe.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	progress, err := h.saved.GetProgress(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newProgressView(progress), nil)
}

// SaveProgress creates or updates the caller's cooking progress for a
// recipe.
func (h *Handler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		CurrentStep        int   `json:"current_step"`
		CheckedIngredients []int `json:"checked_ingredients"`
		Completed          bool  `json:"completed"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	progress, err := h.saved.SaveProgress(r.Context(), *user, id, service.ProgressInput{
		CurrentStep:        req.CurrentStep,
		CheckedIngredients: req.CheckedIngredients,
		Completed:          req.Completed,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newProgressView(progress), nil)
}
