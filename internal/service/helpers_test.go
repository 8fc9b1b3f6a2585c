// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/recipeshare/recipeshare/internal/store"
	"github.com/recipeshare/recipeshare/internal/testutil"
)

// testEnv bundles the service layer over a fresh database.
type testEnv struct {
	db        *sqlx.DB
	queries   *store.Queries
	accounts  *AccountService
	recipes   *RecipeService
	saved     *SavedService
	queues    *QueueService
	dashboard *DashboardService
	activity  *ActivityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	activity := NewActivityService(db)
	recipes := NewRecipeService(db, activity)
	return &testEnv{
		db:        db,
		queries:   store.New(db),
		accounts:  NewAccountService(db, activity),
		recipes:   recipes,
		saved:     NewSavedService(db, recipes),
		queues:    NewQueueService(db, activity),
		dashboard: NewDashboardService(db, activity),
		activity:  activity,
	}
}

var userSeq int

// createUser registers a user through the service so the profile row
// exists too.
func (e *testEnv) createUser(t *testing.T) store.User {
	t.Helper()

	userSeq++
	u, err := e.accounts.Register(context.Background(), RegisterParams{
		Email:    fmt.Sprintf("user%d@example.com", userSeq),
		Username: fmt.Sprintf("user%d", userSeq),
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return u
}

// createAdmin registers a user and promotes it with a security code.
func (e *testEnv) createAdmin(t *testing.T, code string) store.User {
	t.Helper()

	u := e.createUser(t)
	_, err := e.db.Exec(`UPDATE users SET is_admin = ?, admin_code = ? WHERE id = ?`, true, code, u.ID)
	if err != nil {
		t.Fatalf("promoting user to admin: %v", err)
	}
	u, err = e.queries.GetUserByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	return u
}

func validRecipeInput() RecipeInput {
	return RecipeInput{
		Name:         "Shakshuka",
		Description:  "Eggs poached in spiced tomato sauce.",
		Category:     "breakfast",
		Difficulty:   "easy",
		PrepTime:     10,
		CookTime:     20,
		Servings:     2,
		Ingredients:  []string{"4 eggs", "400g tomatoes", "1 onion"},
		Instructions: []string{"Soften the onion", "Add tomatoes", "Poach the eggs"},
	}
}

// createRecipe submits a recipe through the service.
func (e *testEnv) createRecipe(t *testing.T, owner store.User, asDraft bool) store.Recipe {
	t.Helper()

	r, err := e.recipes.Create(context.Background(), owner, validRecipeInput(), asDraft, "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("Create recipe: %v", err)
	}
	return r
}

// approveRecipe pushes a pending recipe through moderation.
func (e *testEnv) approveRecipe(t *testing.T, admin store.User, id int64) store.Recipe {
	t.Helper()

	r, err := e.recipes.Moderate(context.Background(), admin, id, true, "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("Moderate: %v", err)
	}
	return r
}

// countActivity counts log entries with the given action type.
func (e *testEnv) countActivity(t *testing.T, actionType string) int64 {
	t.Helper()

	n, err := e.queries.CountActivityByAction(context.Background(), actionType)
	if err != nil {
		t.Fatalf("CountActivityByAction: %v", err)
	}
	return n
}
