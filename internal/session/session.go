// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the cookie-session manager backing the
// primary authentication cookie.
package session

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"

	"github.com/recipeshare/recipeshare/internal/store"
)

// Session keys for identity claims carried by the primary cookie.
const (
	KeyUserID         = "user_id"
	KeyIsAdmin        = "is_admin"
	KeyAdminSessionID = "admin_session_id"
)

// Lifetime is the primary session expiry. IdleTimeout slides the
// expiry forward on activity within the absolute lifetime.
const (
	Lifetime    = 28 * 24 * time.Hour
	IdleTimeout = 7 * 24 * time.Hour
)

// New creates a session manager with an httpOnly, SameSite=Strict
// cookie and a server-side store matching the database driver.
func New(db *sqlx.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	switch db.DriverName() {
	case store.DriverPostgres:
		sm.Store = postgresstore.New(db.DB)
	default:
		sm.Store = sqlite3store.New(db.DB)
	}

	sm.Lifetime = Lifetime
	sm.IdleTimeout = IdleTimeout
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}
