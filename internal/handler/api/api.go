// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers for the recipe platform.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/recipeshare/recipeshare/internal/imagegen"
	"github.com/recipeshare/recipeshare/internal/middleware"
	"github.com/recipeshare/recipeshare/internal/service"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	sm        *scs.SessionManager
	accounts  *service.AccountService
	recipes   *service.RecipeService
	saved     *service.SavedService
	queues    *service.QueueService
	dashboard *service.DashboardService
	activity  *service.ActivityService
	images    *imagegen.Service
	loginProt *middleware.LoginProtection
}

// NewHandler creates a new API handler.
func NewHandler(
	sm *scs.SessionManager,
	accounts *service.AccountService,
	recipes *service.RecipeService,
	saved *service.SavedService,
	queues *service.QueueService,
	dashboard *service.DashboardService,
	activity *service.ActivityService,
	images *imagegen.Service,
	loginProt *middleware.LoginProtection,
) *Handler {
	return &Handler{
		sm:        sm,
		accounts:  accounts,
		recipes:   recipes,
		saved:     saved,
		queues:    queues,
		dashboard: dashboard,
		activity:  activity,
		images:    images,
		loginProt: loginProt,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, "conflict", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteUnavailable writes a 503 response for an unconfigured external
// feature, distinguishable from a generic server error.
func WriteUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, "feature_unavailable", message, nil)
}

// WriteValidationError writes a 400 response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusBadRequest, "validation_error", "Validation failed", fieldErrors)
}

// writeServiceError maps service-layer errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError
	var cErr *service.CascadeError

	switch {
	case errors.As(err, &vErr):
		WriteValidationError(w, vErr.Fields)
	case errors.As(err, &cErr):
		slog.Error("cascade delete failed", "step", cErr.Step, "error", cErr.Err)
		WriteError(w, http.StatusInternalServerError, "cascade_failed",
			"Delete failed at the "+cErr.Step+" step", nil)
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, "Not found")
	case errors.Is(err, service.ErrForbidden):
		WriteForbidden(w, "Not allowed")
	case errors.Is(err, service.ErrUnauthenticated):
		WriteUnauthorized(w, "Authentication required")
	case errors.Is(err, service.ErrBadCredentials), errors.Is(err, service.ErrBadSecurityCode):
		WriteUnauthorized(w, "Invalid credentials")
	case errors.Is(err, service.ErrAccountSuspended):
		WriteError(w, http.StatusForbidden, "account_suspended", "Account is suspended", nil)
	case errors.Is(err, service.ErrEmailTaken):
		WriteConflict(w, "Email already registered")
	case errors.Is(err, service.ErrUsernameTaken):
		WriteConflict(w, "Username already taken")
	case errors.Is(err, service.ErrAlreadySaved):
		WriteConflict(w, "Recipe already saved")
	case errors.Is(err, service.ErrNotSaved):
		WriteNotFound(w, "Recipe not saved")
	case errors.Is(err, service.ErrNotDraft):
		WriteBadRequest(w, "Recipe is not a draft", nil)
	case errors.Is(err, imagegen.ErrUnavailable):
		WriteUnavailable(w, "Image generation is not available")
	default:
		slog.Error("request failed", "error", err)
		WriteInternalError(w, "Internal server error")
	}
}

// decodeJSON decodes a request body, writing a 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// parseIDParam parses the {id} URL parameter.
func parseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteBadRequest(w, "Invalid ID", nil)
		return 0, false
	}
	return id, true
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
