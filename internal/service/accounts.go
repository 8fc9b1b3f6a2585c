// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/recipeshare/recipeshare/internal/auth"
	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/store"
)

// AdminSessionTTL bounds the server-side admin session row. It is
// deliberately much shorter than the primary cookie lifetime.
const AdminSessionTTL = 24 * time.Hour

// Credential validation bounds.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MaxDisplayName    = 100
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// AccountService handles registration, authentication and the account
// lifecycle (profile updates, admin suspend/activate/ban, self-service
// deletion).
type AccountService struct {
	db       *sqlx.DB
	queries  *store.Queries
	activity *ActivityService
}

// NewAccountService creates an AccountService.
func NewAccountService(db *sqlx.DB, activity *ActivityService) *AccountService {
	return &AccountService{db: db, queries: store.New(db), activity: activity}
}

// RegisterParams holds the fields for Register.
type RegisterParams struct {
	Email       string
	Username    string
	Password    string
	DisplayName string
}

// Register creates a new account. Email and username must be unique;
// the conflict errors are user-visible.
func (s *AccountService) Register(ctx context.Context, p RegisterParams) (store.User, error) {
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.Username = strings.TrimSpace(p.Username)
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	if p.DisplayName == "" {
		p.DisplayName = p.Username
	}

	if _, err := mail.ParseAddress(p.Email); err != nil {
		return store.User{}, invalid("email", "must be a valid email address")
	}
	if len(p.Username) < MinUsernameLength || len(p.Username) > MaxUsernameLength {
		return store.User{}, invalid("username", fmt.Sprintf("must be %d-%d characters", MinUsernameLength, MaxUsernameLength))
	}
	if !usernameRe.MatchString(p.Username) {
		return store.User{}, invalid("username", "may contain only letters, digits and underscores")
	}
	if len(p.Password) < MinPasswordLength || len(p.Password) > MaxPasswordLength {
		return store.User{}, invalid("password", fmt.Sprintf("must be %d-%d characters", MinPasswordLength, MaxPasswordLength))
	}
	if len(p.DisplayName) > MaxDisplayName {
		return store.User{}, invalid("display_name", "too long")
	}

	if _, err := s.queries.GetUserByEmail(ctx, p.Email); err == nil {
		return store.User{}, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return store.User{}, err
	}
	if _, err := s.queries.GetUserByUsername(ctx, p.Username); err == nil {
		return store.User{}, ErrUsernameTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return store.User{}, err
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        p.Email,
		Username:     p.Username,
		PasswordHash: hash,
		DisplayName:  p.DisplayName,
	})
	if err != nil {
		return store.User{}, fmt.Errorf("create user: %w", err)
	}
	return s.queries.GetUserByID(ctx, id)
}

// Authenticate verifies an identifier (email or username) and password.
// A matching but deactivated account yields ErrAccountSuspended, which
// is distinct from ErrBadCredentials and user-visible.
func (s *AccountService) Authenticate(ctx context.Context, identifier, password string) (store.User, error) {
	u, err := s.queries.GetUserByIdentifier(ctx, strings.TrimSpace(identifier))
	if errors.Is(err, sql.ErrNoRows) {
		// Burn a comparable amount of time so a missing account is not
		// distinguishable from a wrong password.
		_, _ = auth.HashPassword(password)
		return store.User{}, ErrBadCredentials
	}
	if err != nil {
		return store.User{}, err
	}

	ok, err := auth.CheckPassword(password, u.PasswordHash)
	if err != nil {
		return store.User{}, err
	}
	if !ok {
		return store.User{}, ErrBadCredentials
	}
	if !u.Active {
		return store.User{}, ErrAccountSuspended
	}
	return u, nil
}

// AdminLogin authenticates with password plus the per-user security
// code and creates the server-side admin session row. Non-admin
// accounts fail with ErrBadCredentials so the admin surface does not
// confirm which accounts hold the flag.
func (s *AccountService) AdminLogin(ctx context.Context, identifier, password, securityCode string) (store.User, store.AdminSession, error) {
	u, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return store.User{}, store.AdminSession{}, err
	}
	if !u.IsAdmin {
		return store.User{}, store.AdminSession{}, ErrBadCredentials
	}
	if !u.AdminCode.Valid ||
		subtle.ConstantTimeCompare([]byte(u.AdminCode.String), []byte(securityCode)) != 1 {
		return store.User{}, store.AdminSession{}, ErrBadSecurityCode
	}

	sess := store.AdminSession{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		IsAdmin:   true,
		ExpiresAt: time.Now().UTC().Add(AdminSessionTTL),
	}
	err = s.queries.CreateAdminSession(ctx, store.CreateAdminSessionParams{
		ID:        sess.ID,
		UserID:    sess.UserID,
		IsAdmin:   true,
		ExpiresAt: sess.ExpiresAt,
	})
	if err != nil {
		return store.User{}, store.AdminSession{}, fmt.Errorf("create admin session: %w", err)
	}
	return u, sess, nil
}

// ResolveAdmin validates the full admin proof: a live admin session row
// matching the cookie claims, and the user row still carrying the admin
// flag. Any mismatch deletes the stale row and fails closed with
// ErrUnauthenticated; the caller never learns which check failed.
func (s *AccountService) ResolveAdmin(ctx context.Context, userID int64, sessionID string) (store.User, error) {
	if sessionID == "" {
		return store.User{}, ErrUnauthenticated
	}

	sess, err := s.queries.GetAdminSession(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, ErrUnauthenticated
	}
	if err != nil {
		return store.User{}, err
	}
	if sess.UserID != userID || !sess.IsAdmin {
		_ = s.queries.DeleteAdminSession(ctx, sessionID)
		return store.User{}, ErrUnauthenticated
	}
	if !sess.ExpiresAt.After(time.Now().UTC()) {
		// Expired rows behave exactly like missing ones and are reaped
		// lazily on access.
		_ = s.queries.DeleteAdminSession(ctx, sessionID)
		return store.User{}, ErrUnauthenticated
	}

	u, err := s.queries.GetUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		_ = s.queries.DeleteAdminSession(ctx, sessionID)
		return store.User{}, ErrUnauthenticated
	}
	if err != nil {
		return store.User{}, err
	}
	if !u.IsAdmin || !u.Active {
		_ = s.queries.DeleteAdminSession(ctx, sessionID)
		return store.User{}, ErrUnauthenticated
	}
	return u, nil
}

// DestroyAdminSession removes the server-side admin session row on
// logout. Missing rows are not an error.
func (s *AccountService) DestroyAdminSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.queries.DeleteAdminSession(ctx, sessionID)
}

// GetUser fetches a user by id.
func (s *AccountService) GetUser(ctx context.Context, id int64) (store.User, error) {
	u, err := s.queries.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, ErrNotFound
	}
	return u, err
}

// GetProfile fetches the denormalized profile row for a user.
func (s *AccountService) GetProfile(ctx context.Context, userID int64) (store.Profile, error) {
	p, err := s.queries.GetProfile(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Profile{}, ErrNotFound
	}
	return p, err
}

// ListUsers returns a page of users plus the total count, for the admin
// user table.
func (s *AccountService) ListUsers(ctx context.Context, limit, offset int) ([]store.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.queries.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.queries.CountUsers(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateProfileParams holds the fields for UpdateProfile.
type UpdateProfileParams struct {
	DisplayName string
	Bio         string
	AvatarURL   string
}

// UpdateProfile updates a user's own profile. Both the user row and the
// denormalized profile row are written inside one transaction so they
// cannot diverge.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, p UpdateProfileParams) error {
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	if p.DisplayName == "" {
		return invalid("display_name", "is required")
	}
	if len(p.DisplayName) > MaxDisplayName {
		return invalid("display_name", "too long")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	err = s.queries.WithTx(tx).UpdateUserProfile(ctx, store.UpdateUserProfileParams{
		UserID:      userID,
		DisplayName: p.DisplayName,
		Bio:         strings.TrimSpace(p.Bio),
		AvatarURL:   strings.TrimSpace(p.AvatarURL),
	})
	if err != nil {
		return err
	}
	return tx.Commit()
}

// ChangePassword verifies the current password before storing a new
// hash.
func (s *AccountService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	u, err := s.queries.GetUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	ok, err := auth.CheckPassword(current, u.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadCredentials
	}
	if len(next) < MinPasswordLength || len(next) > MaxPasswordLength {
		return invalid("new_password", fmt.Sprintf("must be %d-%d characters", MinPasswordLength, MaxPasswordLength))
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	return s.queries.UpdateUserPassword(ctx, userID, hash)
}

// DeleteSelf removes the caller's account after a password
// confirmation. Owned recipes (with their progress records and saved
// links), the caller's own bookmarks and progress, and any admin
// sessions go first, then the user row.
func (s *AccountService) DeleteSelf(ctx context.Context, userID int64, password, ip, userAgent string) error {
	u, err := s.queries.GetUserByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	ok, err := auth.CheckPassword(password, u.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBadCredentials
	}

	if err := s.destroyAccount(ctx, userID); err != nil {
		return err
	}

	s.activity.Log(ctx, Entry{
		Actor:      &userID,
		ActionType: model.ActivityAccountDeleted,
		TargetID:   &userID,
		TargetType: model.TargetUser,
		Details:    map[string]any{"username": u.Username},
		IP:         ip,
		UserAgent:  userAgent,
	})
	return nil
}

// AdminActionParams holds the fields for AdminAction.
type AdminActionParams struct {
	AdminID   int64
	TargetID  int64
	Action    model.AccountAction
	Reason    string
	IP        string
	UserAgent string
}

// AdminAction applies a suspend, activate or ban to a user account and
// logs the transition with the optional free-text reason.
func (s *AccountService) AdminAction(ctx context.Context, p AdminActionParams) error {
	if !p.Action.Valid() {
		return invalid("action", "must be one of suspend, activate, ban")
	}

	target, err := s.queries.GetUserByID(ctx, p.TargetID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var actionType string
	switch p.Action {
	case model.ActionSuspend, model.ActionActivate:
		active := p.Action == model.ActionActivate
		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback() //nolint:errcheck

		if err := s.queries.WithTx(tx).SetUserActive(ctx, p.TargetID, active); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		actionType = model.ActivityUserSuspended
		if active {
			actionType = model.ActivityUserActivated
		}

	case model.ActionBan:
		if err := s.destroyAccount(ctx, p.TargetID); err != nil {
			return err
		}
		actionType = model.ActivityUserBanned
	}

	details := map[string]any{"username": target.Username}
	if p.Reason != "" {
		details["reason"] = p.Reason
	}
	s.activity.Log(ctx, Entry{
		Actor:      &p.AdminID,
		ActionType: actionType,
		TargetID:   &p.TargetID,
		TargetType: model.TargetUser,
		Details:    details,
		IP:         p.IP,
		UserAgent:  p.UserAgent,
	})
	return nil
}

// destroyAccount hard-deletes a user and everything it owns, inside one
// transaction: each owned recipe's progress records and saved links,
// the recipes themselves, the user's own bookmarks, progress and admin
// sessions, then the user row.
func (s *AccountService) destroyAccount(ctx context.Context, userID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck
	qtx := s.queries.WithTx(tx)

	recipes, err := qtx.ListRecipesByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, r := range recipes {
		if err := qtx.DeleteProgressByRecipe(ctx, r.ID); err != nil {
			return &CascadeError{Step: "progress", Err: err}
		}
		if err := qtx.DeleteSavedByRecipe(ctx, r.ID); err != nil {
			return &CascadeError{Step: "saved_recipes", Err: err}
		}
		if err := qtx.DeleteRecipe(ctx, r.ID); err != nil {
			return &CascadeError{Step: "recipes", Err: err}
		}
	}

	if err := qtx.DeleteSavedByUser(ctx, userID); err != nil {
		return &CascadeError{Step: "saved_recipes", Err: err}
	}
	if err := qtx.DeleteProgressByUser(ctx, userID); err != nil {
		return &CascadeError{Step: "progress", Err: err}
	}
	if err := qtx.DeleteAdminSessionsForUser(ctx, userID); err != nil {
		return &CascadeError{Step: "user_sessions", Err: err}
	}
	if err := qtx.DeleteUser(ctx, userID); err != nil {
		return &CascadeError{Step: "users", Err: err}
	}
	return tx.Commit()
}
