// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Activity action types recorded in the append-only activity log.
const (
	ActivityUserRegistered   = "user_registered"
	ActivityUserLogin        = "user_login"
	ActivityAdminLogin       = "admin_login"
	ActivityUserSuspended    = "user_suspended"
	ActivityUserActivated    = "user_activated"
	ActivityUserBanned       = "user_banned"
	ActivityAccountDeleted   = "account_deleted"
	ActivityRecipeSubmitted  = "recipe_submitted"
	ActivityRecipePublished  = "recipe_published"
	ActivityRecipeApproved   = "recipe_approved"
	ActivityRecipeRejected   = "recipe_rejected"
	ActivityRecipeDeleted    = "recipe_deleted"
	ActivityFeedbackReviewed = "feedback_reviewed"
	ActivityReportReviewed   = "report_reviewed"
	ActivityImageGenerated   = "image_generated"
)

// Activity target types.
const (
	TargetUser     = "user"
	TargetRecipe   = "recipe"
	TargetFeedback = "feedback"
	TargetReport   = "report"
)
