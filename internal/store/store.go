// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"github.com/jmoiron/sqlx"
)

// Queries provides typed access to the database. Statements are
// written with ? placeholders and rebound for the active driver, so
// the same query text runs on Postgres and SQLite.
type Queries struct {
	db sqlx.ExtContext
}

// New creates a Queries bound to db.
func New(db sqlx.ExtContext) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries that runs inside tx.
func (q *Queries) WithTx(tx *sqlx.Tx) *Queries {
	return &Queries{db: tx}
}

// rebind converts ? placeholders to the driver's native form.
func (q *Queries) rebind(query string) string {
	return sqlx.Rebind(sqlx.BindType(q.db.DriverName()), query)
}
