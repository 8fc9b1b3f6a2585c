// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/recipeshare/recipeshare/internal/imagegen"
	"github.com/recipeshare/recipeshare/internal/middleware"
	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/service"
	"github.com/recipeshare/recipeshare/internal/util"
)

// generateImage runs the full pipeline for a recipe the caller owns.
// An image failure never touches the recipe itself.
func (h *Handler) generateImage(w http.ResponseWriter, r *http.Request, regenerate bool) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	recipe, err := h.recipes.GetOwned(r.Context(), id, *user)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	params := imagegen.GenerateParams{
		RecipeID:    recipe.ID,
		Name:        recipe.Name,
		Category:    recipe.Category,
		Ingredients: model.DecodeStringList(recipe.Ingredients),
	}
	if regenerate && recipe.ImageURL.Valid {
		params.PreviousURL = recipe.ImageURL.String
	}

	url, err := h.images.Generate(r.Context(), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.recipes.SetImage(r.Context(), *user, recipe.ID, url); err != nil {
		writeServiceError(w, err)
		return
	}

	h.activity.Log(r.Context(), service.Entry{
		Actor:      &user.ID,
		ActionType: model.ActivityImageGenerated,
		TargetID:   &recipe.ID,
		TargetType: model.TargetRecipe,
		Details:    map[string]any{"regenerate": regenerate},
		IP:         util.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})
	WriteSuccess(w, map[string]string{"image_url": url}, nil)
}

// GenerateImage creates an AI image for a recipe.
func (h *Handler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	h.generateImage(w, r, false)
}

// RegenerateImage replaces a recipe's image with a newly generated one.
func (h *Handler) RegenerateImage(w http.ResponseWriter, r *http.Request) {
	h.generateImage(w, r, true)
}

// DeleteImage removes a recipe's image and the stored object behind it.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	url, err := h.recipes.ClearImage(r.Context(), *user, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if url != "" {
		// Best effort: the recipe no longer references the object either
		// way.
		_ = h.images.Remove(r.Context(), url)
	}
	WriteSuccess(w, map[string]string{"status": "image_deleted"}, nil)
}
