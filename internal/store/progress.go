// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// Progress is a row in the user_recipe_progress table: a per-user,
// per-recipe cooking cursor.
type Progress struct {
	ID                 int64        `db:"id" json:"id"`
	UserID             int64        `db:"user_id" json:"user_id"`
	RecipeID           int64        `db:"recipe_id" json:"recipe_id"`
	CurrentStep        int          `db:"current_step" json:"current_step"`
	CheckedIngredients string       `db:"checked_ingredients" json:"-"`
	CompletedAt        sql.NullTime `db:"completed_at" json:"completed_at"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
}

// GetProgress fetches the progress record for a (user, recipe) pair.
func (q *Queries) GetProgress(ctx context.Context, userID, recipeID int64) (Progress, error) {
	var p Progress
	err := sqlx.GetContext(ctx, q.db, &p, q.rebind(`
		SELECT * FROM user_recipe_progress WHERE user_id = ? AND recipe_id = ?`),
		userID, recipeID)
	return p, err
}

// UpsertProgressParams holds the fields for UpsertProgress.
type UpsertProgressParams struct {
	UserID             int64
	RecipeID           int64
	CurrentStep        int
	CheckedIngredients string
	CompletedAt        sql.NullTime
}

// UpsertProgress creates the progress record if absent, else updates
// it. At most one record exists per (user, recipe) pair.
func (q *Queries) UpsertProgress(ctx context.Context, arg UpsertProgressParams) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`
		INSERT INTO user_recipe_progress (user_id, recipe_id, current_step, checked_ingredients, completed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, recipe_id) DO UPDATE SET
			current_step = EXCLUDED.current_step,
			checked_ingredients = EXCLUDED.checked_ingredients,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at`),
		arg.UserID, arg.RecipeID, arg.CurrentStep, arg.CheckedIngredients,
		arg.CompletedAt, time.Now().UTC())
	return err
}

// DeleteProgressByRecipe removes all progress records for a recipe.
func (q *Queries) DeleteProgressByRecipe(ctx context.Context, recipeID int64) error {
	_, err := q.db.ExecContext(ctx,
		q.rebind(`DELETE FROM user_recipe_progress WHERE recipe_id = ?`), recipeID)
	return err
}

// DeleteProgressByUser removes all progress records owned by a user.
func (q *Queries) DeleteProgressByUser(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx,
		q.rebind(`DELETE FROM user_recipe_progress WHERE user_id = ?`), userID)
	return err
}
