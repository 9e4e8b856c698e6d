// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the mesdesk TUI.
//
// Colors are lipgloss.AdaptiveColor values. Which half of each pair is
// used depends on the theme mode: "dark" and "light" force it, "auto"
// asks the terminal via termenv.
//
// # Usage
//
//	theme := styles.NewTheme("auto")
//	title := theme.TitleBar.Render("MES Management System")
//	theme.SetMode("light") // re-applies every style
package styles
