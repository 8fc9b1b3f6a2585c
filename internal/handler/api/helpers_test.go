// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/jmoiron/sqlx"

	"github.com/recipeshare/recipeshare/internal/imagegen"
	"github.com/recipeshare/recipeshare/internal/middleware"
	"github.com/recipeshare/recipeshare/internal/service"
	"github.com/recipeshare/recipeshare/internal/session"
	"github.com/recipeshare/recipeshare/internal/store"
	"github.com/recipeshare/recipeshare/internal/testutil"
)

// testServer runs the full API router over a fresh database.
type testServer struct {
	db      *sqlx.DB
	queries *store.Queries
	srv     *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.TestDB(t)
	sm := session.New(db, true)

	activity := service.NewActivityService(db)
	recipes := service.NewRecipeService(db, activity)
	accounts := service.NewAccountService(db, activity)

	h := NewHandler(
		sm,
		accounts,
		recipes,
		service.NewSavedService(db, recipes),
		service.NewQueueService(db, activity),
		service.NewDashboardService(db, activity),
		activity,
		imagegen.NewService(imagegen.NewGenerator("", "", ""), nil),
		// Limits set high enough that tests never trip them.
		middleware.NewLoginProtection(middleware.LoginProtectionConfig{
			IPRateLimit: 1000,
			IPBurst:     1000,
		}),
	)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Mount("/api/v1", h.Routes(db, httprate.LimitByIP(1000, time.Minute)))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{db: db, queries: store.New(db), srv: srv}
}

// client returns an HTTP client with its own cookie jar, representing
// one browser session.
func (ts *testServer) client(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

// do sends a JSON request and returns the status code and decoded body.
func (ts *testServer) do(t *testing.T, c *http.Client, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		t.Fatalf("%s %s: decoding response: %v", method, path, err)
	}
	return resp.StatusCode, decoded
}

// errorCode digs the error code out of an error envelope.
func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()

	e, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error envelope in %v", body)
	}
	code, _ := e["code"].(string)
	return code
}

// data returns the data object of a success envelope.
func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()

	d, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("no data object in %v", body)
	}
	return d
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

var apiUserSeq int

// registerUser signs up a fresh account on the given client and returns
// its credentials and ID.
func (ts *testServer) registerUser(t *testing.T, c *http.Client) (id int64, email, password string) {
	t.Helper()

	apiUserSeq++
	email = fmt.Sprintf("api%d@example.com", apiUserSeq)
	password = "password123"

	status, body := ts.do(t, c, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    email,
		"username": fmt.Sprintf("api%d", apiUserSeq),
		"password": password,
	})
	if status != http.StatusCreated {
		t.Fatalf("register: status = %d, body = %v", status, body)
	}
	return int64(data(t, body)["id"].(float64)), email, password
}

// promoteAdmin flips the admin flag and sets the security code directly
// in the database.
func (ts *testServer) promoteAdmin(t *testing.T, userID int64, code string) {
	t.Helper()

	_, err := ts.db.Exec(`UPDATE users SET is_admin = ?, admin_code = ? WHERE id = ?`, true, code, userID)
	if err != nil {
		t.Fatalf("promoting user to admin: %v", err)
	}
}

// loginAdmin registers, promotes and admin-logs-in a user on the given
// client.
func (ts *testServer) loginAdmin(t *testing.T, c *http.Client) int64 {
	t.Helper()

	id, email, password := ts.registerUser(t, c)
	ts.promoteAdmin(t, id, "admin-code-1")

	status, body := ts.do(t, c, http.MethodPost, "/api/v1/auth/admin-login", map[string]any{
		"identifier":    email,
		"password":      password,
		"security_code": "admin-code-1",
	})
	if status != http.StatusOK {
		t.Fatalf("admin-login: status = %d, body = %v", status, body)
	}
	return id
}

func validRecipeBody() map[string]any {
	return map[string]any{
		"name":         "Shakshuka",
		"description":  "Eggs poached in spiced tomato sauce.",
		"category":     "breakfast",
		"difficulty":   "easy",
		"prep_time":    10,
		"cook_time":    20,
		"servings":     2,
		"ingredients":  []string{"4 eggs", "400g tomatoes", "1 onion"},
		"instructions": []string{"Soften the onion", "Add tomatoes", "Poach the eggs"},
	}
}

// submitRecipe posts a recipe on the given client and returns its ID.
func (ts *testServer) submitRecipe(t *testing.T, c *http.Client, asDraft bool) int64 {
	t.Helper()

	body := validRecipeBody()
	body["is_draft"] = asDraft
	status, resp := ts.do(t, c, http.MethodPost, "/api/v1/recipes/submit", body)
	if status != http.StatusCreated {
		t.Fatalf("submit recipe: status = %d, body = %v", status, resp)
	}
	return int64(data(t, resp)["id"].(float64))
}

// deleteAdminSessions removes the server-side admin session rows for a
// user, simulating expiry cleanup racing a live cookie.
func (ts *testServer) deleteAdminSessions(t *testing.T, userID int64) {
	t.Helper()

	if _, err := ts.db.Exec(`DELETE FROM user_sessions WHERE user_id = ?`, userID); err != nil {
		t.Fatalf("deleting admin sessions: %v", err)
	}
}
