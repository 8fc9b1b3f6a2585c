// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"
)

func TestAdminRoutes_Unauthorized(t *testing.T) {
	ts := newTestServer(t)

	t.Run("no session", func(t *testing.T) {
		status, body := ts.do(t, ts.client(t), http.MethodGet, "/api/v1/admin/dashboard", nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", status)
		}
		if code := errorCode(t, body); code != "unauthorized" {
			t.Errorf("code = %q", code)
		}
	})

	t.Run("regular user session", func(t *testing.T) {
		c := ts.client(t)
		ts.registerUser(t, c)

		status, _ := ts.do(t, c, http.MethodGet, "/api/v1/admin/dashboard", nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", status)
		}
	})

	t.Run("stale admin session row", func(t *testing.T) {
		c := ts.client(t)
		adminID := ts.loginAdmin(t, c)

		status, _ := ts.do(t, c, http.MethodGet, "/api/v1/admin/dashboard", nil)
		if status != http.StatusOK {
			t.Fatalf("before: status = %d, want 200", status)
		}

		// The cookie still carries admin claims, but the server-side
		// session row is gone. The gate fails closed.
		ts.deleteAdminSessions(t, adminID)
		status, _ = ts.do(t, c, http.MethodGet, "/api/v1/admin/dashboard", nil)
		if status != http.StatusUnauthorized {
			t.Errorf("after: status = %d, want 401", status)
		}
	})

	t.Run("demoted admin", func(t *testing.T) {
		c := ts.client(t)
		adminID := ts.loginAdmin(t, c)

		if _, err := ts.db.Exec(`UPDATE users SET is_admin = ? WHERE id = ?`, false, adminID); err != nil {
			t.Fatalf("demoting admin: %v", err)
		}
		status, _ := ts.do(t, c, http.MethodGet, "/api/v1/admin/dashboard", nil)
		if status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", status)
		}
	})
}

func TestAdminLogin_WrongSecurityCode(t *testing.T) {
	ts := newTestServer(t)
	c := ts.client(t)

	id, email, password := ts.registerUser(t, c)
	ts.promoteAdmin(t, id, "right-code")

	status, body := ts.do(t, ts.client(t), http.MethodPost, "/api/v1/auth/admin-login", map[string]any{
		"identifier":    email,
		"password":      password,
		"security_code": "wrong-code",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
	// The response does not say which credential failed.
	if code := errorCode(t, body); code != "unauthorized" {
		t.Errorf("code = %q", code)
	}
}

func TestAdminLogout_KillsElevatedSession(t *testing.T) {
	ts := newTestServer(t)
	c := ts.client(t)
	ts.loginAdmin(t, c)

	if status, _ := ts.do(t, c, http.MethodPost, "/api/v1/auth/logout", nil); status != http.StatusOK {
		t.Fatalf("logout: status = %d", status)
	}
	if status, _ := ts.do(t, c, http.MethodGet, "/api/v1/admin/dashboard", nil); status != http.StatusUnauthorized {
		t.Errorf("dashboard after logout: status = %d, want 401", status)
	}

	var rows int
	if err := ts.db.Get(&rows, `SELECT COUNT(*) FROM user_sessions`); err != nil {
		t.Fatalf("counting admin sessions: %v", err)
	}
	if rows != 0 {
		t.Errorf("admin session rows after logout = %d, want 0", rows)
	}
}

func TestAdminModerateRecipe(t *testing.T) {
	ts := newTestServer(t)

	author := ts.client(t)
	ts.registerUser(t, author)
	recipeID := ts.submitRecipe(t, author, false)

	admin := ts.client(t)
	ts.loginAdmin(t, admin)

	path := "/api/v1/admin/recipes/" + itoa(recipeID) + "/moderate"

	status, body := ts.do(t, admin, http.MethodPut, path, map[string]any{"action": "archive"})
	if status != http.StatusBadRequest {
		t.Fatalf("bad action: status = %d, body = %v", status, body)
	}
	if code := errorCode(t, body); code != "validation_error" {
		t.Errorf("bad action: code = %q", code)
	}

	status, body = ts.do(t, admin, http.MethodPut, path, map[string]any{"action": "approve"})
	if status != http.StatusOK {
		t.Fatalf("approve: status = %d, body = %v", status, body)
	}
	if got := data(t, body)["status"]; got != "approved" {
		t.Errorf("status = %v, want approved", got)
	}

	// Approved recipes become publicly visible.
	status, _ = ts.do(t, ts.client(t), http.MethodGet, "/api/v1/recipes/"+itoa(recipeID), nil)
	if status != http.StatusOK {
		t.Errorf("anonymous get after approval: status = %d, want 200", status)
	}
}

func TestAdminUserAction(t *testing.T) {
	ts := newTestServer(t)

	target := ts.client(t)
	targetID, targetEmail, targetPassword := ts.registerUser(t, target)

	admin := ts.client(t)
	ts.loginAdmin(t, admin)

	status, body := ts.do(t, admin, http.MethodPost, "/api/v1/admin/users/"+itoa(targetID)+"/action",
		map[string]any{"action": "suspend", "reason": "spam"})
	if status != http.StatusOK {
		t.Fatalf("suspend: status = %d, body = %v", status, body)
	}

	status, body = ts.do(t, ts.client(t), http.MethodPost, "/api/v1/auth/login", map[string]any{
		"identifier": targetEmail, "password": targetPassword,
	})
	if status != http.StatusForbidden {
		t.Fatalf("suspended login: status = %d, want 403", status)
	}
	if code := errorCode(t, body); code != "account_suspended" {
		t.Errorf("suspended login: code = %q", code)
	}
}

func TestAdminDashboardAndActivity(t *testing.T) {
	ts := newTestServer(t)

	author := ts.client(t)
	ts.registerUser(t, author)
	ts.submitRecipe(t, author, false)

	admin := ts.client(t)
	ts.loginAdmin(t, admin)

	status, body := ts.do(t, admin, http.MethodGet, "/api/v1/admin/dashboard", nil)
	if status != http.StatusOK {
		t.Fatalf("dashboard: status = %d, body = %v", status, body)
	}
	stats := data(t, body)
	if got := stats["total_users"].(float64); got != 2 {
		t.Errorf("total_users = %v, want 2", got)
	}
	if got := stats["pending_recipes"].(float64); got != 1 {
		t.Errorf("pending_recipes = %v, want 1", got)
	}

	status, body = ts.do(t, admin, http.MethodGet, "/api/v1/admin/activity", nil)
	if status != http.StatusOK {
		t.Fatalf("activity: status = %d, body = %v", status, body)
	}
	entries, ok := body["data"].([]any)
	if !ok || len(entries) == 0 {
		t.Errorf("activity feed empty: %v", body)
	}
}

func TestAdminListUsers_Meta(t *testing.T) {
	ts := newTestServer(t)

	ts.registerUser(t, ts.client(t))
	ts.registerUser(t, ts.client(t))

	admin := ts.client(t)
	ts.loginAdmin(t, admin)

	status, body := ts.do(t, admin, http.MethodGet, "/api/v1/admin/users?limit=2", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	users, ok := body["data"].([]any)
	if !ok || len(users) != 2 {
		t.Fatalf("users page = %v", body["data"])
	}
	meta, ok := body["meta"].(map[string]any)
	if !ok {
		t.Fatalf("no meta in %v", body)
	}
	if got := meta["total"].(float64); got != 3 {
		t.Errorf("meta.total = %v, want 3", got)
	}
}

func TestAdminGetUser(t *testing.T) {
	ts := newTestServer(t)

	targetID, targetEmail, _ := ts.registerUser(t, ts.client(t))

	admin := ts.client(t)
	ts.loginAdmin(t, admin)

	status, body := ts.do(t, admin, http.MethodGet, "/api/v1/admin/users/"+itoa(targetID), nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	detail := data(t, body)
	user, ok := detail["user"].(map[string]any)
	if !ok {
		t.Fatalf("no user in %v", detail)
	}
	if user["email"] != targetEmail {
		t.Errorf("email = %v, want %v", user["email"], targetEmail)
	}
	if _, ok := detail["profile"].(map[string]any); !ok {
		t.Errorf("no profile in %v", detail)
	}

	status, body = ts.do(t, admin, http.MethodGet, "/api/v1/admin/users/99999", nil)
	if status != http.StatusNotFound {
		t.Errorf("unknown user: status = %d, body = %v", status, body)
	}
}
