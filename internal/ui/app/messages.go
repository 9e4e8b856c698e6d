// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"time"

	"github.com/jeranaias/mesdesk/internal/auth"
	"github.com/jeranaias/mesdesk/internal/config"
	"github.com/jeranaias/mesdesk/internal/ui/components"
)

// =============================================================================
// AUTH MESSAGES
// =============================================================================

// LoginResultMsg carries the outcome of a login command.
type LoginResultMsg struct {
	Response *auth.LoginResponse
	Err      error
}

// LogoutDoneMsg carries the outcome of a logout command. Logout never
// fails from the UI's point of view; Result.Err is informational.
type LogoutDoneMsg struct {
	Result auth.LogoutResult
}

// =============================================================================
// DATA MESSAGES
// =============================================================================

// OrdersMsg carries the orders summary, or the error that prevented it.
type OrdersMsg struct {
	Summary *components.OrderSummary
	Err     error
}

// ProfileMsg carries what the profile panel shows beyond the session.
type ProfileMsg struct {
	Role   string
	Recent []components.SignIn
	Err    error
}

// =============================================================================
// ENVIRONMENT MESSAGES
// =============================================================================

// ConfigReloadedMsg is delivered when the config file changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// ThemeSavedMsg reports whether persisting the theme choice worked.
type ThemeSavedMsg struct {
	Mode string
	Err  error
}

// CopiedMsg reports the outcome of a clipboard copy.
type CopiedMsg struct {
	Err error
}

// clockTickMsg refreshes the session countdown. It never touches the
// session store.
type clockTickMsg time.Time
