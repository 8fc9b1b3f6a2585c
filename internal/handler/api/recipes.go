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
	"github.com/recipeshare/recipeshare/internal/util"
)

// recipeView is the JSON shape of a recipe, with the stored JSON list
// columns decoded and nullable columns flattened.
type recipeView struct {
	store.Recipe
	Ingredients    []string   `json:"ingredients"`
	Instructions   []string   `json:"instructions"`
	DietaryOptions []string   `json:"dietary_options"`
	ImageURL       string     `json:"image_url,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
}

func newRecipeView(r store.Recipe) recipeView {
	v := recipeView{
		Recipe:         r,
		Ingredients:    model.DecodeStringList(r.Ingredients),
		Instructions:   model.DecodeStringList(r.Instructions),
		DietaryOptions: model.DecodeStringList(r.DietaryOptions),
	}
	if r.ImageURL.Valid {
		v.ImageURL = r.ImageURL.String
	}
	if r.SubmittedAt.Valid {
		t := r.SubmittedAt.Time
		v.SubmittedAt = &t
	}
	return v
}

func newRecipeViews(recipes []store.Recipe) []recipeView {
	views := make([]recipeView, 0, len(recipes))
	for _, r := range recipes {
		views = append(views, newRecipeView(r))
	}
	return views
}

// recipeInput is the JSON shape of a recipe submission or edit.
type recipeInput struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty"`
	PrepTime       int      `json:"prep_time"`
	CookTime       int      `json:"cook_time"`
	Servings       int      `json:"servings"`
	Ingredients    []string `json:"ingredients"`
	Instructions   []string `json:"instructions"`
	Tips           string   `json:"tips"`
	Nutrition      string   `json:"nutrition"`
	DietaryOptions []string `json:"dietary_options"`
}

func (in recipeInput) toService() service.RecipeInput {
	return service.RecipeInput{
		Name:           in.Name,
		Description:    in.Description,
		Category:       in.Category,
		Difficulty:     in.Difficulty,
		PrepTime:       in.PrepTime,
		CookTime:       in.CookTime,
		Servings:       in.Servings,
		Ingredients:    in.Ingredients,
		Instructions:   in.Instructions,
		Tips:           in.Tips,
		Nutrition:      in.Nutrition,
		DietaryOptions: in.DietaryOptions,
	}
}

// ListRecipes returns the public recipe catalog with optional search
// and filters.
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	recipes, err := h.recipes.ListPublic(r.Context(), service.ListPublicParams{
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		Difficulty: q.Get("difficulty"),
		Limit:      queryInt(r, "limit", service.DefaultPageSize),
		Offset:     queryInt(r, "offset", 0),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newRecipeViews(recipes), nil)
}

// GetRecipe returns a single recipe, applying the visibility rule.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(r.Context(), id, middleware.GetUser(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newRecipeView(recipe), nil)
}

// ListMyRecipes returns the caller's own recipes, drafts included.
func (h *Handler) ListMyRecipes(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	recipes, err := h.recipes.ListMine(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newRecipeViews(recipes), nil)
}

// SubmitRecipe creates a new recipe as a draft or straight into the
// moderation queue.
func (h *Handler) SubmitRecipe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	var req struct {
		recipeInput
		IsDraft bool `json:"is_draft"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	recipe, err := h.recipes.Create(r.Context(), *user, req.toService(), req.IsDraft,
		util.ClientIP(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteCreated(w, newRecipeView(recipe))
}

// UpdateRecipe rewrites a recipe's content fields.
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req recipeInput
	if !decodeJSON(w, r, &req) {
		return
	}

	recipe, err := h.recipes.Update(r.Context(), *user, id, req.toService())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newRecipeView(recipe), nil)
}

// DeleteRecipe removes a recipe and its dependent records.
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.recipes.Delete(r.Context(), *user, id, util.ClientIP(r), r.UserAgent()); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// PublishRecipe moves a draft into the moderation queue.
func (h *Handler) PublishRecipe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	recipe, err := h.recipes.Publish(r.Context(), *user, id, util.ClientIP(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, newRecipeView(recipe), nil)
}
