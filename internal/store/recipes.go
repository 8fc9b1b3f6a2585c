// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Recipe is a row in the recipes table. Ingredients, instructions and
// dietary options are JSON-encoded string lists.
type Recipe struct {
	ID             int64          `db:"id" json:"id"`
	UserID         int64          `db:"user_id" json:"user_id"`
	AuthorName     string         `db:"author_name" json:"author_name"`
	Name           string         `db:"name" json:"name"`
	Description    string         `db:"description" json:"description"`
	Category       string         `db:"category" json:"category"`
	Difficulty     string         `db:"difficulty" json:"difficulty"`
	PrepTime       int            `db:"prep_time" json:"prep_time"`
	CookTime       int            `db:"cook_time" json:"cook_time"`
	TotalTime      int            `db:"total_time" json:"total_time"`
	Servings       int            `db:"servings" json:"servings"`
	Ingredients    string         `db:"ingredients" json:"-"`
	Instructions   string         `db:"instructions" json:"-"`
	Tips           string         `db:"tips" json:"tips"`
	Nutrition      string         `db:"nutrition" json:"nutrition"`
	DietaryOptions string         `db:"dietary_options" json:"-"`
	Status         string         `db:"status" json:"status"`
	IsDraft        bool           `db:"is_draft" json:"is_draft"`
	ImageURL       sql.NullString `db:"image_url" json:"image_url"`
	SubmittedAt    sql.NullTime   `db:"submitted_at" json:"submitted_at"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// CreateRecipeParams holds the fields for CreateRecipe. Status and
// IsDraft are set together by the service from the recipe state.
type CreateRecipeParams struct {
	UserID         int64
	AuthorName     string
	Name           string
	Description    string
	Category       string
	Difficulty     string
	PrepTime       int
	CookTime       int
	TotalTime      int
	Servings       int
	Ingredients    string
	Instructions   string
	Tips           string
	Nutrition      string
	DietaryOptions string
	Status         string
	IsDraft        bool
	SubmittedAt    sql.NullTime
}

// CreateRecipe inserts a recipe and returns the new id.
func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error) {
	now := time.Now().UTC()

	var id int64
	err := q.db.QueryRowxContext(ctx, q.rebind(`
		INSERT INTO recipes (
			user_id, author_name, name, description, category, difficulty,
			prep_time, cook_time, total_time, servings,
			ingredients, instructions, tips, nutrition, dietary_options,
			status, is_draft, submitted_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		arg.UserID, arg.AuthorName, arg.Name, arg.Description, arg.Category, arg.Difficulty,
		arg.PrepTime, arg.CookTime, arg.TotalTime, arg.Servings,
		arg.Ingredients, arg.Instructions, arg.Tips, arg.Nutrition, arg.DietaryOptions,
		arg.Status, arg.IsDraft, arg.SubmittedAt, now, now,
	).Scan(&id)
	return id, err
}

// GetRecipe fetches a recipe by id.
func (q *Queries) GetRecipe(ctx context.Context, id int64) (Recipe, error) {
	var r Recipe
	err := sqlx.GetContext(ctx, q.db, &r, q.rebind(`SELECT * FROM recipes WHERE id = ?`), id)
	return r, err
}

// UpdateRecipeParams holds the editable fields for UpdateRecipe.
type UpdateRecipeParams struct {
	ID             int64
	Name           string
	Description    string
	Category       string
	Difficulty     string
	PrepTime       int
	CookTime       int
	TotalTime      int
	Servings       int
	Ingredients    string
	Instructions   string
	Tips           string
	Nutrition      string
	DietaryOptions string
}

// UpdateRecipe rewrites a recipe's content fields. Workflow state is
// changed only through UpdateRecipeState.
func (q *Queries) UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`
		UPDATE recipes SET
			name = ?, description = ?, category = ?, difficulty = ?,
			prep_time = ?, cook_time = ?, total_time = ?, servings = ?,
			ingredients = ?, instructions = ?, tips = ?, nutrition = ?, dietary_options = ?,
			updated_at = ?
		WHERE id = ?`),
		arg.Name, arg.Description, arg.Category, arg.Difficulty,
		arg.PrepTime, arg.CookTime, arg.TotalTime, arg.Servings,
		arg.Ingredients, arg.Instructions, arg.Tips, arg.Nutrition, arg.DietaryOptions,
		time.Now().UTC(), arg.ID)
	return err
}

// UpdateRecipeStateParams holds the fields for UpdateRecipeState.
type UpdateRecipeStateParams struct {
	ID          int64
	Status      string
	IsDraft     bool
	SubmittedAt sql.NullTime
}

// UpdateRecipeState moves a recipe through the workflow. Status and
// is_draft always travel together.
func (q *Queries) UpdateRecipeState(ctx context.Context, arg UpdateRecipeStateParams) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`
		UPDATE recipes SET status = ?, is_draft = ?, submitted_at = ?, updated_at = ?
		WHERE id = ?`),
		arg.Status, arg.IsDraft, arg.SubmittedAt, time.Now().UTC(), arg.ID)
	return err
}

// SetRecipeImageURL stores or clears (NULL) the recipe's image URL.
func (q *Queries) SetRecipeImageURL(ctx context.Context, id int64, url sql.NullString) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`
		UPDATE recipes SET image_url = ?, updated_at = ? WHERE id = ?`),
		url, time.Now().UTC(), id)
	return err
}

// DeleteRecipe removes the recipe row. Progress and saved links must
// be deleted first; the foreign keys reject the delete otherwise.
func (q *Queries) DeleteRecipe(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`DELETE FROM recipes WHERE id = ?`), id)
	return err
}

// ListPublicRecipesParams narrows the public listing. Empty fields
// match everything; Search does a case-insensitive substring match on
// name and description.
type ListPublicRecipesParams struct {
	Search     string
	Category   string
	Difficulty string
	Limit      int
	Offset     int
}

// ListPublicRecipes returns approved, non-draft recipes, newest first.
func (q *Queries) ListPublicRecipes(ctx context.Context, arg ListPublicRecipesParams) ([]Recipe, error) {
	query := `SELECT * FROM recipes WHERE status = 'approved' AND is_draft = ?`
	args := []any{false}

	if arg.Search != "" {
		query += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		needle := "%" + strings.ToLower(arg.Search) + "%"
		args = append(args, needle, needle)
	}
	if arg.Category != "" {
		query += ` AND category = ?`
		args = append(args, arg.Category)
	}
	if arg.Difficulty != "" {
		query += ` AND difficulty = ?`
		args = append(args, arg.Difficulty)
	}

	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, arg.Limit, arg.Offset)

	var recipes []Recipe
	err := sqlx.SelectContext(ctx, q.db, &recipes, q.rebind(query), args...)
	return recipes, err
}

// ListRecipesByUser returns all of a user's recipes, drafts included.
func (q *Queries) ListRecipesByUser(ctx context.Context, userID int64) ([]Recipe, error) {
	var recipes []Recipe
	err := sqlx.SelectContext(ctx, q.db, &recipes, q.rebind(`
		SELECT * FROM recipes WHERE user_id = ? ORDER BY created_at DESC, id DESC`), userID)
	return recipes, err
}

// ListRecipesByStatus returns recipes with the given status (all
// recipes when status is empty), for the admin view.
func (q *Queries) ListRecipesByStatus(ctx context.Context, status string, limit, offset int) ([]Recipe, error) {
	var recipes []Recipe
	if status == "" {
		err := sqlx.SelectContext(ctx, q.db, &recipes, q.rebind(`
			SELECT * FROM recipes ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`),
			limit, offset)
		return recipes, err
	}
	err := sqlx.SelectContext(ctx, q.db, &recipes, q.rebind(`
		SELECT * FROM recipes WHERE status = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`),
		status, limit, offset)
	return recipes, err
}

// CountRecipesByStatus returns the number of recipes per status.
func (q *Queries) CountRecipesByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := sqlx.GetContext(ctx, q.db, &n,
		q.rebind(`SELECT COUNT(*) FROM recipes WHERE status = ?`), status)
	return n, err
}
