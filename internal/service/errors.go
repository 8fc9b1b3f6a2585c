// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the domain rules of the platform: the
// recipe moderation state machine, account lifecycle, feedback/report
// queues and the best-effort activity log.
package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP statuses; everything else is an internal error.
var (
	// ErrNotFound covers both genuinely absent records and records
	// hidden from the caller for visibility reasons. The two cases are
	// deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is authenticated but is neither the
	// owner of the record nor an admin.
	ErrForbidden = errors.New("forbidden")

	// ErrBadCredentials means the identifier/password pair did not
	// match.
	ErrBadCredentials = errors.New("invalid credentials")

	// ErrAccountSuspended means the credentials matched but the account
	// is deactivated. The distinction from ErrBadCredentials is
	// user-visible.
	ErrAccountSuspended = errors.New("account suspended")

	// ErrBadSecurityCode means the admin security code did not match.
	ErrBadSecurityCode = errors.New("invalid security code")

	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUnauthenticated means no valid identity could be resolved from
	// the request. Which check failed is never surfaced.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotDraft rejects a publish attempt on a recipe that is not in
	// the draft state.
	ErrNotDraft = errors.New("recipe is not a draft")

	// ErrAlreadySaved rejects a duplicate bookmark as a conflict rather
	// than ignoring it.
	ErrAlreadySaved = errors.New("recipe already saved")

	// ErrNotSaved is returned when removing a bookmark that does not
	// exist.
	ErrNotSaved = errors.New("recipe not saved")
)

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

// invalid builds a single-field ValidationError.
func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// CascadeError reports which step of a cascading delete failed. The
// primary row is left in place when a cascade step fails.
type CascadeError struct {
	Step string
	Err  error
}

// Error implements the error interface.
func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade delete failed at %s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *CascadeError) Unwrap() error {
	return e.Err
}
