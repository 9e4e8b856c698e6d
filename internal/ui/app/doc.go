// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model of the mesdesk TUI.
//
// It owns the screen state (login or main shell), navigation, the profile
// panel and toasts, and runs every API call as a tea.Cmd so the UI never
// blocks. Session expiry is noticed lazily on key presses; nothing sweeps
// the session store in the background.
package app
