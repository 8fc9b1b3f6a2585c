// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Feedback statuses. The queue only moves forward (new -> reviewed ->
// responded); backward moves are not hard-blocked at the store level.
const (
	FeedbackStatusNew       = "new"
	FeedbackStatusReviewed  = "reviewed"
	FeedbackStatusResponded = "responded"
)

// ValidFeedbackStatus reports whether s is a reviewable feedback status.
func ValidFeedbackStatus(s string) bool {
	return s == FeedbackStatusReviewed || s == FeedbackStatusResponded
}

// Report statuses.
const (
	ReportStatusPending   = "pending"
	ReportStatusReviewed  = "reviewed"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// ValidReportStatus reports whether s is a reviewable report status.
func ValidReportStatus(s string) bool {
	return s == ReportStatusReviewed || s == ReportStatusResolved || s == ReportStatusDismissed
}

// Feedback rating bounds. A zero rating means "not rated".
const (
	MinRating = 1
	MaxRating = 5
)
