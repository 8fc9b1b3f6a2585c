// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/recipeshare/recipeshare/internal/middleware"
	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/service"
	"github.com/recipeshare/recipeshare/internal/session"
	"github.com/recipeshare/recipeshare/internal/util"
)

// Register creates a new account and signs the caller in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Username    string `json:"username"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.Register(r.Context(), service.RegisterParams{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.sm.RenewToken(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	h.sm.Put(r.Context(), session.KeyUserID, user.ID)

	h.activity.Log(r.Context(), service.Entry{
		Actor:      &user.ID,
		ActionType: model.ActivityUserRegistered,
		TargetID:   &user.ID,
		TargetType: model.TargetUser,
		IP:         util.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})
	WriteCreated(w, user)
}

// Login authenticates with email or username plus password.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if locked, _ := h.loginProt.IsAccountLocked(req.Identifier); locked {
		WriteError(w, http.StatusTooManyRequests, "account_locked",
			"Too many failed attempts. Try again later.", nil)
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			h.loginProt.RecordFailedAttempt(req.Identifier)
		}
		writeServiceError(w, err)
		return
	}
	h.loginProt.RecordSuccessfulLogin(req.Identifier)

	if err := h.sm.RenewToken(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	h.sm.Put(r.Context(), session.KeyUserID, user.ID)

	h.activity.Log(r.Context(), service.Entry{
		Actor:      &user.ID,
		ActionType: model.ActivityUserLogin,
		TargetID:   &user.ID,
		TargetType: model.TargetUser,
		IP:         util.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})
	WriteSuccess(w, user, nil)
}

// AdminLogin authenticates with password plus the admin security code
// and establishes the elevated session.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier   string `json:"identifier"`
		Password     string `json:"password"`
		SecurityCode string `json:"security_code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if locked, _ := h.loginProt.IsAccountLocked(req.Identifier); locked {
		WriteError(w, http.StatusTooManyRequests, "account_locked",
			"Too many failed attempts. Try again later.", nil)
		return
	}

	user, sess, err := h.accounts.AdminLogin(r.Context(), req.Identifier, req.Password, req.SecurityCode)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) || errors.Is(err, service.ErrBadSecurityCode) {
			h.loginProt.RecordFailedAttempt(req.Identifier)
		}
		writeServiceError(w, err)
		return
	}
	h.loginProt.RecordSuccessfulLogin(req.Identifier)

	if err := h.sm.RenewToken(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	h.sm.Put(r.Context(), session.KeyUserID, user.ID)
	h.sm.Put(r.Context(), session.KeyIsAdmin, true)
	h.sm.Put(r.Context(), session.KeyAdminSessionID, sess.ID)

	h.activity.Log(r.Context(), service.Entry{
		Actor:      &user.ID,
		ActionType: model.ActivityAdminLogin,
		TargetID:   &user.ID,
		TargetType: model.TargetUser,
		IP:         util.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})
	WriteSuccess(w, user, nil)
}

// Logout destroys the session and any admin session row behind it.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := h.sm.GetString(r.Context(), session.KeyAdminSessionID); sessionID != "" {
		_ = h.accounts.DestroyAdminSession(r.Context(), sessionID)
	}
	if err := h.sm.Destroy(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "logged_out"}, nil)
}

// Me returns the authenticated user with their profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.accounts.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]any{
		"user":    user,
		"profile": profile,
	}, nil)
}

// UpdateProfile updates the caller's profile fields.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	var req struct {
		DisplayName string `json:"display_name"`
		Bio         string `json:"bio"`
		AvatarURL   string `json:"avatar_url"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.accounts.UpdateProfile(r.Context(), user.ID, service.UpdateProfileParams{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	profile, err := h.accounts.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, profile, nil)
}

// ChangePassword replaces the caller's password after verifying the
// current one.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "password_changed"}, nil)
}

// DeleteAccount removes the caller's account after a password
// confirmation and invalidates the session.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.accounts.DeleteSelf(r.Context(), user.ID, req.Password, util.ClientIP(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.sm.Destroy(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"status": "account_deleted"}, nil)
}
