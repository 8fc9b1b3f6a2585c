// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain types shared across the application:
// recipe states, account actions, moderation queue statuses and the
// activity action vocabulary.
package model

import "encoding/json"

// RecipeState is the single source of truth for a recipe's place in the
// moderation workflow. The persisted is_draft column is derived from it
// and never set independently.
type RecipeState string

// Recipe states.
const (
	StateDraft    RecipeState = "draft"
	StatePending  RecipeState = "pending"
	StateApproved RecipeState = "approved"
	StateRejected RecipeState = "rejected"
)

// Valid reports whether s is a known recipe state.
func (s RecipeState) Valid() bool {
	switch s {
	case StateDraft, StatePending, StateApproved, StateRejected:
		return true
	}
	return false
}

// IsDraft reports whether the state is the draft state. The recipes
// table stores this as a derived column for query convenience.
func (s RecipeState) IsDraft() bool {
	return s == StateDraft
}

// PubliclyVisible reports whether a recipe in this state may be shown
// to callers other than its owner or an admin.
func (s RecipeState) PubliclyVisible() bool {
	return s == StateApproved
}

// Recipe difficulty levels accepted on submission.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether d is a known difficulty level.
func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// EncodeStringList marshals a list of strings for storage in a JSON
// text column. A nil list encodes as an empty JSON array so that the
// column never holds NULL or the empty string.
func EncodeStringList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeStringList unmarshals a JSON text column into a string list.
// Malformed or empty input yields an empty list rather than an error;
// stored values are always produced by EncodeStringList.
func DecodeStringList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}
	return items
}

// EncodeIntList marshals a list of ints (checked ingredient indices)
// for storage in a JSON text column.
func EncodeIntList(items []int) string {
	if items == nil {
		items = []int{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeIntList unmarshals a JSON text column into an int list.
func DecodeIntList(raw string) []int {
	if raw == "" {
		return []int{}
	}
	var items []int
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []int{}
	}
	return items
}
