// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mesdesk/internal/ui/styles"
	"github.com/jeranaias/mesdesk/internal/util"
)

// =============================================================================
// TITLE BAR
// =============================================================================

// AppTitle is shown on the left of the title bar.
const AppTitle = "MES Management System"

// TitleBar is the top row of every screen: title on the left, signed-in
// user and window-control hints on the right.
type TitleBar struct {
	Title     string
	Username  string
	Maximized bool
	Width     int
	theme     *styles.Theme
}

// NewTitleBar creates a title bar.
func NewTitleBar(theme *styles.Theme) *TitleBar {
	return &TitleBar{
		Title: AppTitle,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the bar width.
func (h *TitleBar) SetWidth(width int) {
	h.Width = width
}

// View renders the title bar.
func (h *TitleBar) View() string {
	t := h.theme

	maxLabel := "[f] maximize"
	if h.Maximized {
		maxLabel = "[f] restore"
	}
	controls := t.WindowControls.Render(maxLabel + "  [q] close")

	right := controls
	if h.Username != "" {
		right = t.TitleUser.Render(util.TruncateWidth(h.Username, 20)+"  [p] profile") + "  " + controls
	}

	// 2 columns of bar padding
	avail := h.Width - 2 - lipgloss.Width(right) - 1
	title := t.TitleText.Render(util.TruncateWidth(h.Title, maxInt(avail, 0)))

	gap := h.Width - 2 - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		// Too narrow for both; the title wins
		return t.TitleBar.Width(h.Width).Render(title)
	}

	return t.TitleBar.Width(h.Width).Render(
		title + lipgloss.NewStyle().Width(gap).Render("") + right,
	)
}
