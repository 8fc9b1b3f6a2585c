// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// User is a row in the users table.
type User struct {
	ID           int64          `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	Username     string         `db:"username" json:"username"`
	PasswordHash string         `db:"password_hash" json:"-"`
	DisplayName  string         `db:"display_name" json:"display_name"`
	IsAdmin      bool           `db:"is_admin" json:"is_admin"`
	AdminCode    sql.NullString `db:"admin_code" json:"-"`
	Active       bool           `db:"active" json:"active"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// Profile is a row in the user_profiles table, a denormalized view of
// the public parts of a user account.
type Profile struct {
	UserID      int64     `db:"user_id" json:"user_id"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Bio         string    `db:"bio" json:"bio"`
	AvatarURL   string    `db:"avatar_url" json:"avatar_url"`
	Active      bool      `db:"active" json:"active"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CreateUserParams holds the fields for CreateUser.
type CreateUserParams struct {
	Email        string
	Username     string
	PasswordHash string
	DisplayName  string
	IsAdmin      bool
	AdminCode    sql.NullString
}

// CreateUser inserts a user and its profile row, returning the new id.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	now := time.Now().UTC()

	var id int64
	err := q.db.QueryRowxContext(ctx, q.rebind(`
		INSERT INTO users (email, username, password_hash, display_name, is_admin, admin_code, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		arg.Email, arg.Username, arg.PasswordHash, arg.DisplayName,
		arg.IsAdmin, arg.AdminCode, true, now, now,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	_, err = q.db.ExecContext(ctx, q.rebind(`
		INSERT INTO user_profiles (user_id, display_name, active, updated_at)
		VALUES (?, ?, ?, ?)`),
		id, arg.DisplayName, true, now)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetUserByID fetches a user by id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := sqlx.GetContext(ctx, q.db, &u, q.rebind(`SELECT * FROM users WHERE id = ?`), id)
	return u, err
}

// GetUserByEmail fetches a user by email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := sqlx.GetContext(ctx, q.db, &u, q.rebind(`SELECT * FROM users WHERE email = ?`), email)
	return u, err
}

// GetUserByUsername fetches a user by username.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := sqlx.GetContext(ctx, q.db, &u, q.rebind(`SELECT * FROM users WHERE username = ?`), username)
	return u, err
}

// GetUserByIdentifier fetches a user whose email or username matches
// the given identifier.
func (q *Queries) GetUserByIdentifier(ctx context.Context, identifier string) (User, error) {
	var u User
	err := sqlx.GetContext(ctx, q.db, &u,
		q.rebind(`SELECT * FROM users WHERE email = ? OR username = ?`),
		identifier, identifier)
	return u, err
}

// ListUsers returns users ordered by creation, newest first.
func (q *Queries) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	var users []User
	err := sqlx.SelectContext(ctx, q.db, &users,
		q.rebind(`SELECT * FROM users ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`),
		limit, offset)
	return users, err
}

// CountUsers returns the total number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := sqlx.GetContext(ctx, q.db, &n, `SELECT COUNT(*) FROM users`)
	return n, err
}

// UpdateUserProfileParams holds the fields for UpdateUserProfile.
type UpdateUserProfileParams struct {
	UserID      int64
	DisplayName string
	Bio         string
	AvatarURL   string
}

// UpdateUserProfile updates the display name on the user row and the
// denormalized profile row.
func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) error {
	now := time.Now().UTC()

	if _, err := q.db.ExecContext(ctx, q.rebind(`
		UPDATE users SET display_name = ?, updated_at = ? WHERE id = ?`),
		arg.DisplayName, now, arg.UserID); err != nil {
		return err
	}

	_, err := q.db.ExecContext(ctx, q.rebind(`
		UPDATE user_profiles SET display_name = ?, bio = ?, avatar_url = ?, updated_at = ?
		WHERE user_id = ?`),
		arg.DisplayName, arg.Bio, arg.AvatarURL, now, arg.UserID)
	return err
}

// GetProfile fetches the denormalized profile row for a user.
func (q *Queries) GetProfile(ctx context.Context, userID int64) (Profile, error) {
	var p Profile
	err := sqlx.GetContext(ctx, q.db, &p,
		q.rebind(`SELECT * FROM user_profiles WHERE user_id = ?`), userID)
	return p, err
}

// UpdateUserPassword replaces a user's password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := q.db.ExecContext(ctx, q.rebind(`
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`),
		passwordHash, time.Now().UTC(), userID)
	return err
}

// SetUserActive toggles the active flag on both the user row and the
// profile row. Callers run this inside a transaction so the two writes
// cannot diverge.
func (q *Queries) SetUserActive(ctx context.Context, userID int64, active bool) error {
	now := time.Now().UTC()

	if _, err := q.db.ExecContext(ctx, q.rebind(`
		UPDATE users SET active = ?, updated_at = ? WHERE id = ?`),
		active, now, userID); err != nil {
		return err
	}

	_, err := q.db.ExecContext(ctx, q.rebind(`
		UPDATE user_profiles SET active = ?, updated_at = ? WHERE user_id = ?`),
		active, now, userID)
	return err
}

// DeleteUser removes the profile row and the user row. Dependent
// records (recipes, saved links, progress, sessions) must already be
// gone or the foreign keys reject the delete.
func (q *Queries) DeleteUser(ctx context.Context, userID int64) error {
	if _, err := q.db.ExecContext(ctx,
		q.rebind(`DELETE FROM user_profiles WHERE user_id = ?`), userID); err != nil {
		return err
	}
	_, err := q.db.ExecContext(ctx, q.rebind(`DELETE FROM users WHERE id = ?`), userID)
	return err
}
