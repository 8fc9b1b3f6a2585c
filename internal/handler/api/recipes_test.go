// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"
)

func TestSubmitRecipe_PendingByDefault(t *testing.T) {
	ts := newTestServer(t)
	c := ts.client(t)
	ts.registerUser(t, c)

	body := validRecipeBody()
	status, resp := ts.do(t, c, http.MethodPost, "/api/v1/recipes/submit", body)
	if status != http.StatusCreated {
		t.Fatalf("status = %d, body = %v", status, resp)
	}
	recipe := data(t, resp)
	if recipe["status"] != "pending" {
		t.Errorf("status = %v, want pending", recipe["status"])
	}
	if recipe["submitted_at"] == nil {
		t.Error("submitted_at missing on a submitted recipe")
	}
	ingredients, ok := recipe["ingredients"].([]any)
	if !ok || len(ingredients) != 3 {
		t.Errorf("ingredients = %v", recipe["ingredients"])
	}
}

func TestSubmitRecipe_Draft(t *testing.T) {
	ts := newTestServer(t)
	c := ts.client(t)
	ts.registerUser(t, c)

	body := validRecipeBody()
	body["is_draft"] = true
	status, resp := ts.do(t, c, http.MethodPost, "/api/v1/recipes/submit", body)
	if status != http.StatusCreated {
		t.Fatalf("status = %d, body = %v", status, resp)
	}
	recipe := data(t, resp)
	if recipe["status"] != "draft" {
		t.Errorf("status = %v, want draft", recipe["status"])
	}
	if _, set := recipe["submitted_at"]; set {
		t.Error("submitted_at set on a draft")
	}
}

func TestSubmitRecipe_ValidationShape(t *testing.T) {
	ts := newTestServer(t)
	c := ts.client(t)
	ts.registerUser(t, c)

	status, resp := ts.do(t, c, http.MethodPost, "/api/v1/recipes/submit", map[string]any{
		"name": "Only a name",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %v", status, resp)
	}
	if code := errorCode(t, resp); code != "validation_error" {
		t.Errorf("code = %q, want validation_error", code)
	}
}

func TestGetRecipe_Visibility(t *testing.T) {
	ts := newTestServer(t)

	author := ts.client(t)
	ts.registerUser(t, author)
	id := ts.submitRecipe(t, author, false)
	path := "/api/v1/recipes/" + itoa(id)

	// Pending recipes are invisible to anyone but the author and
	// admins, indistinguishable from a missing recipe.
	status, resp := ts.do(t, ts.client(t), http.MethodGet, path, nil)
	if status != http.StatusNotFound {
		t.Fatalf("anonymous: status = %d, want 404", status)
	}
	if code := errorCode(t, resp); code != "not_found" {
		t.Errorf("anonymous: code = %q", code)
	}

	stranger := ts.client(t)
	ts.registerUser(t, stranger)
	if status, _ := ts.do(t, stranger, http.MethodGet, path, nil); status != http.StatusNotFound {
		t.Errorf("stranger: status = %d, want 404", status)
	}

	if status, _ := ts.do(t, author, http.MethodGet, path, nil); status != http.StatusOK {
		t.Errorf("author: status = %d, want 200", status)
	}
}

func TestListRecipes_PublicCatalog(t *testing.T) {
	ts := newTestServer(t)

	author := ts.client(t)
	ts.registerUser(t, author)
	approved := ts.submitRecipe(t, author, false)
	ts.submitRecipe(t, author, false) // stays pending

	admin := ts.client(t)
	ts.loginAdmin(t, admin)
	status, resp := ts.do(t, admin, http.MethodPut,
		"/api/v1/admin/recipes/"+itoa(approved)+"/moderate", map[string]any{"action": "approve"})
	if status != http.StatusOK {
		t.Fatalf("approve: status = %d, body = %v", status, resp)
	}

	status, resp = ts.do(t, ts.client(t), http.MethodGet, "/api/v1/recipes/", nil)
	if status != http.StatusOK {
		t.Fatalf("list: status = %d, body = %v", status, resp)
	}
	items, ok := resp["data"].([]any)
	if !ok {
		t.Fatalf("data = %v", resp["data"])
	}
	if len(items) != 1 {
		t.Errorf("public catalog = %d entries, want 1", len(items))
	}
}

func TestPublishDraftFlow(t *testing.T) {
	ts := newTestServer(t)
	c := ts.client(t)
	ts.registerUser(t, c)

	id := ts.submitRecipe(t, c, true)
	path := "/api/v1/recipes/" + itoa(id) + "/publish"

	status, resp := ts.do(t, c, http.MethodPut, path, nil)
	if status != http.StatusOK {
		t.Fatalf("publish: status = %d, body = %v", status, resp)
	}
	if got := data(t, resp)["status"]; got != "pending" {
		t.Errorf("status = %v, want pending", got)
	}

	// Publishing twice is rejected.
	status, resp = ts.do(t, c, http.MethodPut, path, nil)
	if status != http.StatusBadRequest {
		t.Errorf("double publish: status = %d, body = %v", status, resp)
	}
}

func TestUpdateRecipe_Forbidden(t *testing.T) {
	ts := newTestServer(t)

	author := ts.client(t)
	ts.registerUser(t, author)
	id := ts.submitRecipe(t, author, false)

	admin := ts.client(t)
	ts.loginAdmin(t, admin)
	if status, _ := ts.do(t, admin, http.MethodPut,
		"/api/v1/admin/recipes/"+itoa(id)+"/moderate", map[string]any{"action": "approve"}); status != http.StatusOK {
		t.Fatalf("approve: status = %d", status)
	}

	stranger := ts.client(t)
	ts.registerUser(t, stranger)

	// The recipe is visible to the stranger but not editable.
	status, resp := ts.do(t, stranger, http.MethodPut, "/api/v1/recipes/"+itoa(id), validRecipeBody())
	if status != http.StatusForbidden {
		t.Fatalf("status = %d, body = %v", status, resp)
	}
	if code := errorCode(t, resp); code != "forbidden" {
		t.Errorf("code = %q", code)
	}
}

func TestDeleteRecipe(t *testing.T) {
	ts := newTestServer(t)
	c := ts.client(t)
	ts.registerUser(t, c)

	id := ts.submitRecipe(t, c, false)
	path := "/api/v1/recipes/" + itoa(id)

	if status, _ := ts.do(t, c, http.MethodDelete, path, nil); status != http.StatusOK {
		t.Fatalf("delete: status = %d", status)
	}
	if status, _ := ts.do(t, c, http.MethodGet, path, nil); status != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", status)
	}
}

func TestSaveAndProgressFlow(t *testing.T) {
	ts := newTestServer(t)

	author := ts.client(t)
	ts.registerUser(t, author)
	id := ts.submitRecipe(t, author, false)

	admin := ts.client(t)
	ts.loginAdmin(t, admin)
	if status, _ := ts.do(t, admin, http.MethodPut,
		"/api/v1/admin/recipes/"+itoa(id)+"/moderate", map[string]any{"action": "approve"}); status != http.StatusOK {
		t.Fatalf("approve: status = %d", status)
	}

	reader := ts.client(t)
	ts.registerUser(t, reader)

	savePath := "/api/v1/recipes/" + itoa(id) + "/save"
	if status, _ := ts.do(t, reader, http.MethodPost, savePath, nil); status != http.StatusCreated {
		t.Fatalf("save: status = %d", status)
	}
	status, resp := ts.do(t, reader, http.MethodPost, savePath, nil)
	if status != http.StatusConflict {
		t.Fatalf("duplicate save: status = %d, body = %v", status, resp)
	}

	status, resp = ts.do(t, reader, http.MethodGet, "/api/v1/recipes/saved", nil)
	if status != http.StatusOK {
		t.Fatalf("saved list: status = %d", status)
	}
	if items, ok := resp["data"].([]any); !ok || len(items) != 1 {
		t.Errorf("saved list = %v", resp["data"])
	}

	progressPath := "/api/v1/recipes/" + itoa(id) + "/progress"
	status, resp = ts.do(t, reader, http.MethodPut, progressPath, map[string]any{
		"current_step":        1,
		"checked_ingredients": []int{0, 2},
	})
	if status != http.StatusOK {
		t.Fatalf("save progress: status = %d, body = %v", status, resp)
	}

	status, resp = ts.do(t, reader, http.MethodGet, progressPath, nil)
	if status != http.StatusOK {
		t.Fatalf("get progress: status = %d", status)
	}
	progress := data(t, resp)
	if got := progress["current_step"].(float64); got != 1 {
		t.Errorf("current_step = %v, want 1", got)
	}
	checked, ok := progress["checked_ingredients"].([]any)
	if !ok || len(checked) != 2 {
		t.Errorf("checked_ingredients = %v", progress["checked_ingredients"])
	}

	if status, _ = ts.do(t, reader, http.MethodDelete, savePath, nil); status != http.StatusOK {
		t.Fatalf("unsave: status = %d", status)
	}
	status, resp = ts.do(t, reader, http.MethodDelete, savePath, nil)
	if status != http.StatusNotFound {
		t.Errorf("double unsave: status = %d, body = %v", status, resp)
	}
}

func TestGenerateImage_Unconfigured(t *testing.T) {
	ts := newTestServer(t)
	c := ts.client(t)
	ts.registerUser(t, c)
	id := ts.submitRecipe(t, c, false)

	status, resp := ts.do(t, c, http.MethodPost, "/api/v1/recipes/"+itoa(id)+"/generate-image", nil)
	if status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, body = %v", status, resp)
	}
	if code := errorCode(t, resp); code != "feature_unavailable" {
		t.Errorf("code = %q, want feature_unavailable", code)
	}
}

func TestFeedbackAndReportFlow(t *testing.T) {
	ts := newTestServer(t)

	status, resp := ts.do(t, ts.client(t), http.MethodPost, "/api/v1/feedback/", map[string]any{
		"type":    "suggestion",
		"message": "Add a vegetarian filter.",
		"rating":  5,
	})
	if status != http.StatusCreated {
		t.Fatalf("feedback: status = %d, body = %v", status, resp)
	}
	feedbackID := int64(data(t, resp)["id"].(float64))

	reporter := ts.client(t)
	ts.registerUser(t, reporter)
	status, resp = ts.do(t, reporter, http.MethodPost, "/api/v1/reports/submit", map[string]any{
		"report_type": "spam",
		"description": "Bot accounts posting link recipes.",
	})
	if status != http.StatusCreated {
		t.Fatalf("report: status = %d, body = %v", status, resp)
	}
	reportID := int64(data(t, resp)["id"].(float64))

	status, resp = ts.do(t, reporter, http.MethodGet, "/api/v1/reports/my-reports", nil)
	if status != http.StatusOK {
		t.Fatalf("my-reports: status = %d", status)
	}
	if items, ok := resp["data"].([]any); !ok || len(items) != 1 {
		t.Errorf("my-reports = %v", resp["data"])
	}

	admin := ts.client(t)
	ts.loginAdmin(t, admin)

	status, resp = ts.do(t, admin, http.MethodPut, "/api/v1/admin/feedback/"+itoa(feedbackID), map[string]any{
		"status":         "responded",
		"admin_response": "Filter added, thanks!",
	})
	if status != http.StatusOK {
		t.Fatalf("review feedback: status = %d, body = %v", status, resp)
	}
	if got := data(t, resp)["status"]; got != "responded" {
		t.Errorf("feedback status = %v", got)
	}

	status, resp = ts.do(t, admin, http.MethodPut, "/api/v1/admin/reports/"+itoa(reportID), map[string]any{
		"status": "dismissed",
	})
	if status != http.StatusOK {
		t.Fatalf("review report: status = %d, body = %v", status, resp)
	}
	if got := data(t, resp)["status"]; got != "dismissed" {
		t.Errorf("report status = %v", got)
	}
}
