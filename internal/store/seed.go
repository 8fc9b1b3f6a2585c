// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/recipeshare/recipeshare/internal/auth"
)

// Default admin credentials for first startup. The password must be
// changed immediately after the first login.
const (
	DefaultAdminEmail    = "admin@localhost"
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "changeme"
)

// Seed creates the default admin account on first startup. The security
// code comes from configuration; without one the admin cannot pass the
// elevated login, so seeding is skipped.
func Seed(ctx context.Context, db *sqlx.DB, adminSecurityCode string) error {
	if adminSecurityCode == "" {
		slog.Info("no admin security code configured, skipping admin seed")
		return nil
	}

	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	id, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		Username:     DefaultAdminUsername,
		PasswordHash: passwordHash,
		DisplayName:  "Administrator",
		IsAdmin:      true,
		AdminCode:    sql.NullString{String: adminSecurityCode, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", id,
		"email", DefaultAdminEmail,
		"password", DefaultAdminPassword,
	)
	return nil
}
