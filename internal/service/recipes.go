// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/microcosm-cc/bluemonday"

	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/store"
)

// Recipe field bounds.
const (
	MaxRecipeName   = 150
	MaxListItems    = 100
	MaxListItemLen  = 500
	MaxFreeTextLen  = 5000
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// RecipeService implements the moderation workflow: draft and direct
// submission, publish, approve/reject, edits, and ordered cascade
// deletion.
type RecipeService struct {
	db       *sqlx.DB
	queries  *store.Queries
	activity *ActivityService
	sanitize *bluemonday.Policy
}

// NewRecipeService creates a RecipeService. User-supplied text is
// stripped of all HTML before storage.
func NewRecipeService(db *sqlx.DB, activity *ActivityService) *RecipeService {
	return &RecipeService{
		db:       db,
		queries:  store.New(db),
		activity: activity,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// RecipeInput holds the user-editable fields of a recipe.
type RecipeInput struct {
	Name           string
	Description    string
	Category       string
	Difficulty     string
	PrepTime       int
	CookTime       int
	Servings       int
	Ingredients    []string
	Instructions   []string
	Tips           string
	Nutrition      string
	DietaryOptions []string
}

// validate cleans the input in place and returns field-level errors.
func (s *RecipeService) validate(in *RecipeInput) error {
	fields := map[string]string{}

	in.Name = strings.TrimSpace(s.sanitize.Sanitize(in.Name))
	in.Description = strings.TrimSpace(s.sanitize.Sanitize(in.Description))
	in.Category = strings.TrimSpace(s.sanitize.Sanitize(in.Category))
	in.Tips = strings.TrimSpace(s.sanitize.Sanitize(in.Tips))
	in.Nutrition = strings.TrimSpace(s.sanitize.Sanitize(in.Nutrition))
	in.Ingredients = s.cleanList(in.Ingredients)
	in.Instructions = s.cleanList(in.Instructions)
	in.DietaryOptions = s.cleanList(in.DietaryOptions)

	switch {
	case in.Name == "":
		fields["name"] = "is required"
	case len(in.Name) > MaxRecipeName:
		fields["name"] = "too long"
	}
	if !model.ValidDifficulty(in.Difficulty) {
		fields["difficulty"] = "must be one of easy, medium, hard"
	}
	if len(in.Ingredients) == 0 {
		fields["ingredients"] = "at least one ingredient is required"
	}
	if len(in.Instructions) == 0 {
		fields["instructions"] = "at least one instruction is required"
	}
	if in.PrepTime < 0 || in.CookTime < 0 {
		fields["prep_time"] = "times must not be negative"
	}
	if in.Servings < 0 {
		fields["servings"] = "must not be negative"
	}
	if len(in.Description) > MaxFreeTextLen || len(in.Tips) > MaxFreeTextLen || len(in.Nutrition) > MaxFreeTextLen {
		fields["description"] = "too long"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *RecipeService) cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(s.sanitize.Sanitize(item))
		if item == "" {
			continue
		}
		if len(item) > MaxListItemLen {
			item = item[:MaxListItemLen]
		}
		out = append(out, item)
		if len(out) == MaxListItems {
			break
		}
	}
	return out
}

// canModify reports whether the actor may edit or delete the recipe:
// the owning user, or an admin.
func canModify(actor store.User, r store.Recipe) bool {
	return actor.ID == r.UserID || actor.IsAdmin
}

// Create stores a new recipe for its owner, either as a draft or
// submitted straight into the moderation queue.
func (s *RecipeService) Create(ctx context.Context, owner store.User, in RecipeInput, asDraft bool, ip, userAgent string) (store.Recipe, error) {
	if err := s.validate(&in); err != nil {
		return store.Recipe{}, err
	}

	state := model.StatePending
	submittedAt := sql.NullTime{Time: time.Now().UTC(), Valid: true}
	if asDraft {
		state = model.StateDraft
		submittedAt = sql.NullTime{}
	}

	authorName := owner.DisplayName
	if authorName == "" {
		authorName = owner.Username
	}

	id, err := s.queries.CreateRecipe(ctx, store.CreateRecipeParams{
		UserID:         owner.ID,
		AuthorName:     authorName,
		Name:           in.Name,
		Description:    in.Description,
		Category:       in.Category,
		Difficulty:     in.Difficulty,
		PrepTime:       in.PrepTime,
		CookTime:       in.CookTime,
		TotalTime:      in.PrepTime + in.CookTime,
		Servings:       in.Servings,
		Ingredients:    model.EncodeStringList(in.Ingredients),
		Instructions:   model.EncodeStringList(in.Instructions),
		Tips:           in.Tips,
		Nutrition:      in.Nutrition,
		DietaryOptions: model.EncodeStringList(in.DietaryOptions),
		Status:         string(state),
		IsDraft:        state.IsDraft(),
		SubmittedAt:    submittedAt,
	})
	if err != nil {
		return store.Recipe{}, fmt.Errorf("create recipe: %w", err)
	}

	if state == model.StatePending {
		s.activity.Log(ctx, Entry{
			Actor:      &owner.ID,
			ActionType: model.ActivityRecipeSubmitted,
			TargetID:   &id,
			TargetType: model.TargetRecipe,
			Details:    map[string]any{"name": in.Name},
			IP:         ip,
			UserAgent:  userAgent,
		})
	}
	return s.queries.GetRecipe(ctx, id)
}

// Get fetches a recipe, applying the visibility rule: a recipe that is
// not approved is reported as not found to anyone but its owner or an
// admin, so that strangers cannot probe for unapproved content.
func (s *RecipeService) Get(ctx context.Context, id int64, viewer *store.User) (store.Recipe, error) {
	r, err := s.queries.GetRecipe(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Recipe{}, ErrNotFound
	}
	if err != nil {
		return store.Recipe{}, err
	}

	if model.RecipeState(r.Status).PubliclyVisible() && !r.IsDraft {
		return r, nil
	}
	if viewer != nil && canModify(*viewer, r) {
		return r, nil
	}
	return store.Recipe{}, ErrNotFound
}

// GetOwned fetches a recipe for mutation: the visibility rule applies
// first, then the ownership check.
func (s *RecipeService) GetOwned(ctx context.Context, id int64, actor store.User) (store.Recipe, error) {
	r, err := s.Get(ctx, id, &actor)
	if err != nil {
		return store.Recipe{}, err
	}
	if !canModify(actor, r) {
		return store.Recipe{}, ErrForbidden
	}
	return r, nil
}

// Update rewrites a recipe's content fields, recomputing the total time.
// The workflow state is untouched.
func (s *RecipeService) Update(ctx context.Context, actor store.User, id int64, in RecipeInput) (store.Recipe, error) {
	r, err := s.GetOwned(ctx, id, actor)
	if err != nil {
		return store.Recipe{}, err
	}
	if err := s.validate(&in); err != nil {
		return store.Recipe{}, err
	}

	err = s.queries.UpdateRecipe(ctx, store.UpdateRecipeParams{
		ID:             r.ID,
		Name:           in.Name,
		Description:    in.Description,
		Category:       in.Category,
		Difficulty:     in.Difficulty,
		PrepTime:       in.PrepTime,
		CookTime:       in.CookTime,
		TotalTime:      in.PrepTime + in.CookTime,
		Servings:       in.Servings,
		Ingredients:    model.EncodeStringList(in.Ingredients),
		Instructions:   model.EncodeStringList(in.Instructions),
		Tips:           in.Tips,
		Nutrition:      in.Nutrition,
		DietaryOptions: model.EncodeStringList(in.DietaryOptions),
	})
	if err != nil {
		return store.Recipe{}, fmt.Errorf("update recipe: %w", err)
	}
	return s.queries.GetRecipe(ctx, id)
}

// Publish moves a draft into the moderation queue. Any other state is
// rejected with ErrNotDraft and nothing changes.
func (s *RecipeService) Publish(ctx context.Context, actor store.User, id int64, ip, userAgent string) (store.Recipe, error) {
	r, err := s.GetOwned(ctx, id, actor)
	if err != nil {
		return store.Recipe{}, err
	}
	if model.RecipeState(r.Status) != model.StateDraft {
		return store.Recipe{}, ErrNotDraft
	}

	err = s.queries.UpdateRecipeState(ctx, store.UpdateRecipeStateParams{
		ID:          r.ID,
		Status:      string(model.StatePending),
		IsDraft:     model.StatePending.IsDraft(),
		SubmittedAt: sql.NullTime{Time: time.Now().UTC(), Valid: true},
	})
	if err != nil {
		return store.Recipe{}, fmt.Errorf("publish recipe: %w", err)
	}

	s.activity.Log(ctx, Entry{
		Actor:      &actor.ID,
		ActionType: model.ActivityRecipePublished,
		TargetID:   &r.ID,
		TargetType: model.TargetRecipe,
		Details:    map[string]any{"name": r.Name},
		IP:         ip,
		UserAgent:  userAgent,
	})
	return s.queries.GetRecipe(ctx, id)
}

// Moderate applies an admin approve or reject decision to a pending
// recipe.
func (s *RecipeService) Moderate(ctx context.Context, admin store.User, id int64, approve bool, ip, userAgent string) (store.Recipe, error) {
	r, err := s.queries.GetRecipe(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Recipe{}, ErrNotFound
	}
	if err != nil {
		return store.Recipe{}, err
	}
	if model.RecipeState(r.Status) != model.StatePending {
		return store.Recipe{}, invalid("status", "only pending recipes can be moderated")
	}

	state := model.StateRejected
	actionType := model.ActivityRecipeRejected
	if approve {
		state = model.StateApproved
		actionType = model.ActivityRecipeApproved
	}

	err = s.queries.UpdateRecipeState(ctx, store.UpdateRecipeStateParams{
		ID:          r.ID,
		Status:      string(state),
		IsDraft:     state.IsDraft(),
		SubmittedAt: r.SubmittedAt,
	})
	if err != nil {
		return store.Recipe{}, fmt.Errorf("moderate recipe: %w", err)
	}

	s.activity.Log(ctx, Entry{
		Actor:      &admin.ID,
		ActionType: actionType,
		TargetID:   &r.ID,
		TargetType: model.TargetRecipe,
		Details:    map[string]any{"name": r.Name},
		IP:         ip,
		UserAgent:  userAgent,
	})
	return s.queries.GetRecipe(ctx, id)
}

// Delete removes a recipe. Progress records and saved links go strictly
// first inside one transaction; if either cascade step fails the recipe
// row stays and the failing step is reported.
func (s *RecipeService) Delete(ctx context.Context, actor store.User, id int64, ip, userAgent string) error {
	r, err := s.GetOwned(ctx, id, actor)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck
	qtx := s.queries.WithTx(tx)

	if err := qtx.DeleteProgressByRecipe(ctx, r.ID); err != nil {
		return &CascadeError{Step: "progress", Err: err}
	}
	if err := qtx.DeleteSavedByRecipe(ctx, r.ID); err != nil {
		return &CascadeError{Step: "saved_recipes", Err: err}
	}
	if err := qtx.DeleteRecipe(ctx, r.ID); err != nil {
		return &CascadeError{Step: "recipes", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.activity.Log(ctx, Entry{
		Actor:      &actor.ID,
		ActionType: model.ActivityRecipeDeleted,
		TargetID:   &r.ID,
		TargetType: model.TargetRecipe,
		Details:    map[string]any{"name": r.Name},
		IP:         ip,
		UserAgent:  userAgent,
	})
	return nil
}

// ListPublicParams narrows the public recipe listing.
type ListPublicParams struct {
	Search     string
	Category   string
	Difficulty string
	Limit      int
	Offset     int
}

// ListPublic returns approved recipes for the public catalog.
func (s *RecipeService) ListPublic(ctx context.Context, p ListPublicParams) ([]store.Recipe, error) {
	if p.Limit <= 0 || p.Limit > MaxPageSize {
		p.Limit = DefaultPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return s.queries.ListPublicRecipes(ctx, store.ListPublicRecipesParams{
		Search:     strings.TrimSpace(p.Search),
		Category:   strings.TrimSpace(p.Category),
		Difficulty: strings.TrimSpace(p.Difficulty),
		Limit:      p.Limit,
		Offset:     p.Offset,
	})
}

// ListMine returns all of a user's own recipes, drafts included.
func (s *RecipeService) ListMine(ctx context.Context, userID int64) ([]store.Recipe, error) {
	return s.queries.ListRecipesByUser(ctx, userID)
}

// ListForAdmin returns recipes filtered by status (all when empty) for
// the moderation view.
func (s *RecipeService) ListForAdmin(ctx context.Context, status string, limit, offset int) ([]store.Recipe, error) {
	if status != "" && !model.RecipeState(status).Valid() {
		return nil, invalid("status", "unknown status")
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.queries.ListRecipesByStatus(ctx, status, limit, offset)
}

// SetImage stores the generated image URL on a recipe the actor owns.
func (s *RecipeService) SetImage(ctx context.Context, actor store.User, id int64, url string) error {
	r, err := s.GetOwned(ctx, id, actor)
	if err != nil {
		return err
	}
	return s.queries.SetRecipeImageURL(ctx, r.ID, sql.NullString{String: url, Valid: url != ""})
}

// ClearImage removes the image URL from a recipe the actor owns and
// returns the previous URL so the caller can delete the stored object.
func (s *RecipeService) ClearImage(ctx context.Context, actor store.User, id int64) (string, error) {
	r, err := s.GetOwned(ctx, id, actor)
	if err != nil {
		return "", err
	}
	if err := s.queries.SetRecipeImageURL(ctx, r.ID, sql.NullString{}); err != nil {
		return "", err
	}
	if r.ImageURL.Valid {
		return r.ImageURL.String, nil
	}
	return "", nil
}
