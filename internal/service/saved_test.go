// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/recipeshare/recipeshare/internal/model"
)

func TestSaveRecipe(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.createUser(t)
	reader := e.createUser(t)
	admin := e.createAdmin(t, "code-1234")

	r := e.createRecipe(t, owner, false)
	e.approveRecipe(t, admin, r.ID)

	if err := e.saved.Save(ctx, reader, r.ID); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// A second save of the same recipe is a conflict, not a no-op.
	if err := e.saved.Save(ctx, reader, r.ID); !errors.Is(err, ErrAlreadySaved) {
		t.Errorf("duplicate save: err = %v, want ErrAlreadySaved", err)
	}

	list, err := e.saved.ListSaved(ctx, reader.ID)
	if err != nil {
		t.Fatalf("ListSaved: %v", err)
	}
	if len(list) != 1 || list[0].ID != r.ID {
		t.Errorf("saved list = %d entries", len(list))
	}
}

func TestSaveRecipe_InvisibleRecipe(t *testing.T) {
	e := newTestEnv(t)
	owner := e.createUser(t)
	reader := e.createUser(t)

	pending := e.createRecipe(t, owner, false)

	// A recipe the user cannot see cannot be bookmarked either.
	if err := e.saved.Save(context.Background(), reader, pending.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUnsaveRecipe(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.createUser(t)
	reader := e.createUser(t)
	admin := e.createAdmin(t, "code-1234")

	r := e.createRecipe(t, owner, false)
	e.approveRecipe(t, admin, r.ID)

	if err := e.saved.Unsave(ctx, reader.ID, r.ID); !errors.Is(err, ErrNotSaved) {
		t.Errorf("unsave before save: err = %v, want ErrNotSaved", err)
	}

	if err := e.saved.Save(ctx, reader, r.ID); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := e.saved.Unsave(ctx, reader.ID, r.ID); err != nil {
		t.Fatalf("Unsave: %v", err)
	}

	list, err := e.saved.ListSaved(ctx, reader.ID)
	if err != nil {
		t.Fatalf("ListSaved: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("saved list = %d entries after unsave", len(list))
	}
}

func TestSaveProgress(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.createUser(t)
	admin := e.createAdmin(t, "code-1234")

	r := e.createRecipe(t, owner, false)
	e.approveRecipe(t, admin, r.ID)

	if _, err := e.saved.GetProgress(ctx, owner.ID, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("progress before save: err = %v, want ErrNotFound", err)
	}

	p, err := e.saved.SaveProgress(ctx, owner, r.ID, ProgressInput{
		CurrentStep:        1,
		CheckedIngredients: []int{0, 2},
	})
	if err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}
	if p.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d", p.CurrentStep)
	}
	if got := model.DecodeIntList(p.CheckedIngredients); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("CheckedIngredients = %v", got)
	}
	if p.CompletedAt.Valid {
		t.Error("CompletedAt set without completion")
	}

	// At most one record per (user, recipe) pair: a re-save updates it.
	p, err = e.saved.SaveProgress(ctx, owner, r.ID, ProgressInput{CurrentStep: 2})
	if err != nil {
		t.Fatalf("SaveProgress update: %v", err)
	}
	if p.CurrentStep != 2 {
		t.Errorf("CurrentStep = %d after update", p.CurrentStep)
	}
}

func TestSaveProgress_CompletionTimePreserved(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.createUser(t)
	admin := e.createAdmin(t, "code-1234")

	r := e.createRecipe(t, owner, false)
	e.approveRecipe(t, admin, r.ID)

	first, err := e.saved.SaveProgress(ctx, owner, r.ID, ProgressInput{CurrentStep: 3, Completed: true})
	if err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}
	if !first.CompletedAt.Valid {
		t.Fatal("CompletedAt not set on completion")
	}

	again, err := e.saved.SaveProgress(ctx, owner, r.ID, ProgressInput{CurrentStep: 3, Completed: true})
	if err != nil {
		t.Fatalf("SaveProgress re-save: %v", err)
	}
	if !again.CompletedAt.Valid || !again.CompletedAt.Time.Equal(first.CompletedAt.Time) {
		t.Errorf("CompletedAt changed on re-save: %v -> %v", first.CompletedAt.Time, again.CompletedAt.Time)
	}
}

func TestSaveProgress_Validation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.createUser(t)
	admin := e.createAdmin(t, "code-1234")

	r := e.createRecipe(t, owner, false)
	e.approveRecipe(t, admin, r.ID)

	if _, err := e.saved.SaveProgress(ctx, owner, r.ID, ProgressInput{CurrentStep: -1}); err == nil {
		t.Error("negative step accepted")
	}

	stranger := e.createUser(t)
	pending := e.createRecipe(t, owner, false)
	if _, err := e.saved.SaveProgress(ctx, stranger, pending.ID, ProgressInput{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("progress on invisible recipe: err = %v, want ErrNotFound", err)
	}
}
