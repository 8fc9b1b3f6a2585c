// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// AccountAction is an admin-initiated transition of a user's standing.
type AccountAction string

// Admin account actions. Suspend and activate toggle the active flag;
// ban destroys the user row and everything it owns.
const (
	ActionSuspend  AccountAction = "suspend"
	ActionActivate AccountAction = "activate"
	ActionBan      AccountAction = "ban"
)

// Valid reports whether a is a known account action.
func (a AccountAction) Valid() bool {
	return a == ActionSuspend || a == ActionActivate || a == ActionBan
}
