// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual building blocks of the mesdesk TUI.
//
// # Components
//
//   - TitleBar: application title, signed-in user, window-control hints
//   - LoginForm: username and password inputs with a busy spinner
//   - RenderPrimaryMenu, RenderSecondaryMenu: the two menu columns
//   - RenderContent: dashboard cards, orders table, markdown placeholders
//   - RenderProfile: the profile overlay
//   - ToastManager: auto-dismissing notifications
//   - StatusBar: status, session countdown and key hints
//
// Components only render and collect input; the app package owns state
// and talks to the API.
package components
