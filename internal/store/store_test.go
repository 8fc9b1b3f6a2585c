// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "store-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestCreateUser_Lookups(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	id, err := q.CreateUser(ctx, CreateUserParams{
		Email:        "cook@example.com",
		Username:     "cook",
		PasswordHash: "not-a-real-hash",
		DisplayName:  "Cook",
	})
	require.NoError(t, err)
	require.Positive(t, id)

	byEmail, err := q.GetUserByEmail(ctx, "cook@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
	assert.True(t, byEmail.Active)
	assert.False(t, byEmail.IsAdmin)

	byUsername, err := q.GetUserByUsername(ctx, "cook")
	require.NoError(t, err)
	assert.Equal(t, id, byUsername.ID)

	// GetUserByIdentifier accepts either form.
	byIdent, err := q.GetUserByIdentifier(ctx, "cook")
	require.NoError(t, err)
	assert.Equal(t, id, byIdent.ID)
	byIdent, err = q.GetUserByIdentifier(ctx, "cook@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byIdent.ID)

	// CreateUser writes the profile row in the same call.
	profile, err := q.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Cook", profile.DisplayName)

	_, err = q.CreateUser(ctx, CreateUserParams{
		Email:        "cook@example.com",
		Username:     "othercook",
		PasswordHash: "x",
	})
	assert.Error(t, err, "duplicate email must hit the unique constraint")
}

func TestAdminSessionLifecycle(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	userID, err := q.CreateUser(ctx, CreateUserParams{
		Email: "a@example.com", Username: "a", PasswordHash: "x",
	})
	require.NoError(t, err)

	sessionID := uuid.NewString()
	require.NoError(t, q.CreateAdminSession(ctx, CreateAdminSessionParams{
		ID:        sessionID,
		UserID:    userID,
		IsAdmin:   true,
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}))

	sess, err := q.GetAdminSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, userID, sess.UserID)
	assert.True(t, sess.IsAdmin)

	latest, err := q.GetAdminSessionForUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, latest.ID)

	require.NoError(t, q.DeleteAdminSession(ctx, sessionID))
	_, err = q.GetAdminSession(ctx, sessionID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteExpiredAdminSessions(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	userID, err := q.CreateUser(ctx, CreateUserParams{
		Email: "b@example.com", Username: "b", PasswordHash: "x",
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	expired := uuid.NewString()
	live := uuid.NewString()
	require.NoError(t, q.CreateAdminSession(ctx, CreateAdminSessionParams{
		ID: expired, UserID: userID, IsAdmin: true, ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, q.CreateAdminSession(ctx, CreateAdminSessionParams{
		ID: live, UserID: userID, IsAdmin: true, ExpiresAt: now.Add(time.Hour),
	}))

	n, err := q.DeleteExpiredAdminSessions(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = q.GetAdminSession(ctx, expired)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = q.GetAdminSession(ctx, live)
	assert.NoError(t, err)
}

func TestUpdateRecipeState(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	userID, err := q.CreateUser(ctx, CreateUserParams{
		Email: "c@example.com", Username: "c", PasswordHash: "x",
	})
	require.NoError(t, err)

	recipeID, err := q.CreateRecipe(ctx, CreateRecipeParams{
		UserID:       userID,
		AuthorName:   "c",
		Name:         "Toast",
		Category:     "breakfast",
		Difficulty:   "easy",
		Ingredients:  `["bread"]`,
		Instructions: `["toast it"]`,
		Status:       "draft",
		IsDraft:      true,
	})
	require.NoError(t, err)

	submitted := time.Now().UTC()
	require.NoError(t, q.UpdateRecipeState(ctx, UpdateRecipeStateParams{
		ID:          recipeID,
		Status:      "pending",
		IsDraft:     false,
		SubmittedAt: sql.NullTime{Time: submitted, Valid: true},
	}))

	// Status, is_draft and submitted_at move as one unit.
	r, err := q.GetRecipe(ctx, recipeID)
	require.NoError(t, err)
	assert.Equal(t, "pending", r.Status)
	assert.False(t, r.IsDraft)
	require.True(t, r.SubmittedAt.Valid)
	assert.WithinDuration(t, submitted, r.SubmittedAt.Time, time.Second)
}

func TestSeed(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db, "bootstrap-code"))

	admin, err := q.GetUserByEmail(ctx, DefaultAdminEmail)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	require.True(t, admin.AdminCode.Valid)
	assert.Equal(t, "bootstrap-code", admin.AdminCode.String)

	// A second run leaves the existing admin untouched.
	require.NoError(t, Seed(ctx, db, "bootstrap-code"))
	count, err := q.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSeed_NoCodeConfigured(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db, ""))
	count, err := q.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
