// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// SavedRecipe is a row in the saved_recipes table: a bookmark link
// between a user and a recipe.
type SavedRecipe struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	RecipeID  int64     `db:"recipe_id" json:"recipe_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateSavedRecipe inserts a bookmark link. The unique (user, recipe)
// constraint rejects duplicates.
func (q *Queries) CreateSavedRecipe(ctx context.Context, userID, recipeID int64) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`
		INSERT INTO saved_recipes (user_id, recipe_id, created_at) VALUES (?, ?, ?)`),
		userID, recipeID, time.Now().UTC())
	return err
}

// GetSavedRecipe fetches the bookmark link for a (user, recipe) pair.
func (q *Queries) GetSavedRecipe(ctx context.Context, userID, recipeID int64) (SavedRecipe, error) {
	var s SavedRecipe
	err := sqlx.GetContext(ctx, q.db, &s, q.rebind(`
		SELECT * FROM saved_recipes WHERE user_id = ? AND recipe_id = ?`),
		userID, recipeID)
	return s, err
}

// DeleteSavedRecipe removes the bookmark link for a (user, recipe) pair.
func (q *Queries) DeleteSavedRecipe(ctx context.Context, userID, recipeID int64) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`
		DELETE FROM saved_recipes WHERE user_id = ? AND recipe_id = ?`),
		userID, recipeID)
	return err
}

// ListSavedRecipes returns the recipes a user has bookmarked, newest
// bookmark first.
func (q *Queries) ListSavedRecipes(ctx context.Context, userID int64) ([]Recipe, error) {
	var recipes []Recipe
	err := sqlx.SelectContext(ctx, q.db, &recipes, q.rebind(`
		SELECT r.* FROM recipes r
		JOIN saved_recipes s ON s.recipe_id = r.id
		WHERE s.user_id = ?
		ORDER BY s.created_at DESC, s.id DESC`), userID)
	return recipes, err
}

// DeleteSavedByRecipe removes all bookmark links pointing at a recipe.
func (q *Queries) DeleteSavedByRecipe(ctx context.Context, recipeID int64) error {
	_, err := q.db.ExecContext(ctx,
		q.rebind(`DELETE FROM saved_recipes WHERE recipe_id = ?`), recipeID)
	return err
}

// DeleteSavedByUser removes all bookmark links owned by a user.
func (q *Queries) DeleteSavedByUser(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx,
		q.rebind(`DELETE FROM saved_recipes WHERE user_id = ?`), userID)
	return err
}
