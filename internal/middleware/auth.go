// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization and login abuse protection.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"

	"github.com/recipeshare/recipeshare/internal/service"
	"github.com/recipeshare/recipeshare/internal/session"
	"github.com/recipeshare/recipeshare/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for user data.
const (
	ContextKeyUser  ContextKey = "user"
	ContextKeyAdmin ContextKey = "admin"
)

// apiError is the JSON error envelope written by the middleware.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	var e apiError
	e.Error.Code = code
	e.Error.Message = message
	_ = json.NewEncoder(w).Encode(e)
}

// LoadUser creates middleware that resolves the session cookie into a
// user and stores it in the request context. Requests without a valid
// session pass through without a user; a stale session (deleted or
// deactivated account) is destroyed.
func LoadUser(sm *scs.SessionManager, db *sqlx.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), session.KeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil || !user.Active {
				_ = sm.Destroy(r.Context())
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser creates middleware that rejects requests without an
// authenticated user. Use after LoadUser.
func RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUser(r) == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware gating the admin surface. The cookie
// claims, the server-side admin session row and the user's admin flag
// must all agree; any failure yields the same 401 so callers cannot
// probe which check failed, and a stale session row is deleted on the
// way out.
func RequireAdmin(sm *scs.SessionManager, accounts *service.AccountService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), session.KeyUserID)
			isAdmin := sm.GetBool(r.Context(), session.KeyIsAdmin)
			sessionID := sm.GetString(r.Context(), session.KeyAdminSessionID)

			if userID == 0 || !isAdmin || sessionID == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}

			admin, err := accounts.ResolveAdmin(r.Context(), userID, sessionID)
			if err != nil {
				if !errors.Is(err, service.ErrUnauthenticated) {
					slog.Error("admin resolution failed", "error", err)
				}
				writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, admin)
			ctx = context.WithValue(ctx, ContextKeyAdmin, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context. Returns
// nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetAdmin retrieves the resolved admin from the request context.
// Returns nil outside admin-gated routes.
func GetAdmin(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyAdmin).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserIDPtr returns a pointer to the current user's ID from context,
// or nil if not found. Useful for optional actor parameters in activity
// logging.
func GetUserIDPtr(r *http.Request) *int64 {
	if user := GetUser(r); user != nil {
		id := user.ID
		return &id
	}
	return nil
}
