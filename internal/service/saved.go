// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/store"
)

// SavedService manages recipe bookmarks and per-recipe cooking
// progress.
type SavedService struct {
	queries *store.Queries
	recipes *RecipeService
}

// NewSavedService creates a SavedService. The recipe service enforces
// the visibility rule on the recipes being bookmarked.
func NewSavedService(db *sqlx.DB, recipes *RecipeService) *SavedService {
	return &SavedService{queries: store.New(db), recipes: recipes}
}

// Save bookmarks a recipe for a user. Saving an already-saved recipe is
// a conflict, not a no-op.
func (s *SavedService) Save(ctx context.Context, user store.User, recipeID int64) error {
	if _, err := s.recipes.Get(ctx, recipeID, &user); err != nil {
		return err
	}
	if _, err := s.queries.GetSavedRecipe(ctx, user.ID, recipeID); err == nil {
		return ErrAlreadySaved
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err := s.queries.CreateSavedRecipe(ctx, user.ID, recipeID); err != nil {
		return fmt.Errorf("save recipe: %w", err)
	}
	return nil
}

// Unsave removes a bookmark.
func (s *SavedService) Unsave(ctx context.Context, userID, recipeID int64) error {
	if _, err := s.queries.GetSavedRecipe(ctx, userID, recipeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotSaved
		}
		return err
	}
	return s.queries.DeleteSavedRecipe(ctx, userID, recipeID)
}

// ListSaved returns the recipes a user has bookmarked, newest bookmark
// first.
func (s *SavedService) ListSaved(ctx context.Context, userID int64) ([]store.Recipe, error) {
	return s.queries.ListSavedRecipes(ctx, userID)
}

func nowUTC() time.Time { return time.Now().UTC() }

// ProgressInput holds the per-recipe cooking cursor fields.
type ProgressInput struct {
	CurrentStep        int
	CheckedIngredients []int
	Completed          bool
}

// GetProgress returns the progress record for a (user, recipe) pair.
func (s *SavedService) GetProgress(ctx context.Context, userID, recipeID int64) (store.Progress, error) {
	p, err := s.queries.GetProgress(ctx, userID, recipeID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Progress{}, ErrNotFound
	}
	return p, err
}

// SaveProgress creates or updates the cooking cursor for a (user,
// recipe) pair. At most one record exists per pair.
func (s *SavedService) SaveProgress(ctx context.Context, user store.User, recipeID int64, in ProgressInput) (store.Progress, error) {
	if _, err := s.recipes.Get(ctx, recipeID, &user); err != nil {
		return store.Progress{}, err
	}
	if in.CurrentStep < 0 {
		return store.Progress{}, invalid("current_step", "must not be negative")
	}

	completedAt := sql.NullTime{}
	if in.Completed {
		// Preserve the original completion time on re-save.
		if prev, err := s.queries.GetProgress(ctx, user.ID, recipeID); err == nil && prev.CompletedAt.Valid {
			completedAt = prev.CompletedAt
		} else {
			completedAt = sql.NullTime{Time: nowUTC(), Valid: true}
		}
	}

	err := s.queries.UpsertProgress(ctx, store.UpsertProgressParams{
		UserID:             user.ID,
		RecipeID:           recipeID,
		CurrentStep:        in.CurrentStep,
		CheckedIngredients: model.EncodeIntList(in.CheckedIngredients),
		CompletedAt:        completedAt,
	})
	if err != nil {
		return store.Progress{}, fmt.Errorf("save progress: %w", err)
	}
	return s.queries.GetProgress(ctx, user.ID, recipeID)
}
