// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"reflect"
	"testing"
)

func TestRecipeState_Valid(t *testing.T) {
	tests := []struct {
		state RecipeState
		want  bool
	}{
		{StateDraft, true},
		{StatePending, true},
		{StateApproved, true},
		{StateRejected, true},
		{"published", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecipeState_IsDraft(t *testing.T) {
	// The stored is_draft column is derived from the state; draft is the
	// only state where it holds.
	for _, s := range []RecipeState{StateDraft, StatePending, StateApproved, StateRejected} {
		want := s == StateDraft
		if got := s.IsDraft(); got != want {
			t.Errorf("%s.IsDraft() = %v, want %v", s, got, want)
		}
	}
}

func TestRecipeState_PubliclyVisible(t *testing.T) {
	for _, s := range []RecipeState{StateDraft, StatePending, StateApproved, StateRejected} {
		want := s == StateApproved
		if got := s.PubliclyVisible(); got != want {
			t.Errorf("%s.PubliclyVisible() = %v, want %v", s, got, want)
		}
	}
}

func TestValidDifficulty(t *testing.T) {
	for _, d := range []string{"easy", "medium", "hard"} {
		if !ValidDifficulty(d) {
			t.Errorf("ValidDifficulty(%q) = false", d)
		}
	}
	for _, d := range []string{"", "Easy", "extreme"} {
		if ValidDifficulty(d) {
			t.Errorf("ValidDifficulty(%q) = true", d)
		}
	}
}

func TestStringListRoundTrip(t *testing.T) {
	items := []string{"2 eggs", "100g flour", "a pinch of salt"}
	raw := EncodeStringList(items)
	if got := DecodeStringList(raw); !reflect.DeepEqual(got, items) {
		t.Errorf("round trip = %v, want %v", got, items)
	}
}

func TestEncodeStringList_Nil(t *testing.T) {
	if got := EncodeStringList(nil); got != "[]" {
		t.Errorf("EncodeStringList(nil) = %q, want %q", got, "[]")
	}
}

func TestDecodeStringList_Malformed(t *testing.T) {
	for _, raw := range []string{"", "not json", "{\"a\":1}"} {
		got := DecodeStringList(raw)
		if got == nil || len(got) != 0 {
			t.Errorf("DecodeStringList(%q) = %v, want empty list", raw, got)
		}
	}
}

func TestIntListRoundTrip(t *testing.T) {
	items := []int{0, 2, 5}
	raw := EncodeIntList(items)
	if got := DecodeIntList(raw); !reflect.DeepEqual(got, items) {
		t.Errorf("round trip = %v, want %v", got, items)
	}

	if got := EncodeIntList(nil); got != "[]" {
		t.Errorf("EncodeIntList(nil) = %q, want %q", got, "[]")
	}
	if got := DecodeIntList("garbage"); len(got) != 0 {
		t.Errorf("DecodeIntList(garbage) = %v, want empty list", got)
	}
}

func TestValidFeedbackStatus(t *testing.T) {
	for _, s := range []string{FeedbackStatusReviewed, FeedbackStatusResponded} {
		if !ValidFeedbackStatus(s) {
			t.Errorf("ValidFeedbackStatus(%q) = false", s)
		}
	}
	// New is the initial status, not a reviewable transition.
	if ValidFeedbackStatus(FeedbackStatusNew) {
		t.Error("ValidFeedbackStatus(new) = true")
	}
}

func TestValidReportStatus(t *testing.T) {
	for _, s := range []string{ReportStatusReviewed, ReportStatusResolved, ReportStatusDismissed} {
		if !ValidReportStatus(s) {
			t.Errorf("ValidReportStatus(%q) = false", s)
		}
	}
	if ValidReportStatus(ReportStatusPending) {
		t.Error("ValidReportStatus(pending) = true")
	}
}

func TestAccountAction_Valid(t *testing.T) {
	for _, a := range []AccountAction{ActionSuspend, ActionActivate, ActionBan} {
		if !a.Valid() {
			t.Errorf("%s.Valid() = false", a)
		}
	}
	if AccountAction("delete").Valid() {
		t.Error("unknown action accepted")
	}
}
