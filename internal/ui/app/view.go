// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mesdesk/internal/ui/components"
	"github.com/jeranaias/mesdesk/internal/ui/styles"
)

// Secondary menu widths per layout.
const (
	secondaryWidthMedium = 26
	secondaryWidthWide   = 34
)

// View renders the current screen.
func (m *Model) View() string {
	m.refreshStatus()

	title := m.titleBar.View()
	status := m.status.View()
	toasts := components.RenderToastStack(m.theme, m.toasts.Toasts(), m.width)

	bodyHeight := m.height - lipgloss.Height(title) - lipgloss.Height(status)
	if toasts != "" {
		bodyHeight -= lipgloss.Height(toasts)
	}
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	switch {
	case m.screen == ScreenLogin:
		body = m.login.View(m.width, bodyHeight)
	case m.profileOpen:
		body = components.RenderProfile(m.theme, m.profileView(), m.width, bodyHeight)
	default:
		body = m.shellView(bodyHeight)
	}

	parts := []string{title}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, body, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// refreshStatus copies session state into the status bar. It peeks at the
// store and never evicts, so rendering cannot change state.
func (m *Model) refreshStatus() {
	if m.screen != ScreenShell {
		m.status.Remaining = 0
		m.status.Shortcuts = nil
		return
	}
	m.status.Remaining = m.remaining()
	if m.profileOpen {
		m.status.Shortcuts = shortcuts(nil)
	} else {
		m.status.Shortcuts = shortcuts(m.keys.ShellHelp())
	}
}

func (m *Model) remaining() time.Duration {
	store := m.svc.Client().Store()
	sess, ok, _ := store.Peek()
	if !ok {
		return 0
	}
	return sess.RemainingAt(store.Now())
}

// shellView renders the menus and content area side by side.
func (m *Model) shellView(height int) string {
	state := components.ContentState{
		Primary:   m.primary,
		Secondary: m.secondary,
		Orders:    m.orders,
		Loading:   m.ordersLoading,
		Err:       m.ordersErr,
		Spinner:   m.spinner.View(),
	}

	layout := m.theme.GetLayoutMode()
	if layout == styles.LayoutNarrow {
		return components.RenderContent(m.theme, m.markdown, state, m.width, height)
	}

	secondaryWidth := secondaryWidthMedium
	if layout == styles.LayoutWide {
		secondaryWidth = secondaryWidthWide
	}

	search := m.search.View()
	primary := components.RenderPrimaryMenu(m.theme, m.primary, m.focus == FocusPrimary, height)
	secondary := components.RenderSecondaryMenu(m.theme, m.visibleEntries(), m.secondary,
		search, secondaryWidth, height, layout == styles.LayoutWide)

	contentWidth := m.width - lipgloss.Width(primary) - lipgloss.Width(secondary)
	content := components.RenderContent(m.theme, m.markdown, state, contentWidth, height)

	return lipgloss.JoinHorizontal(lipgloss.Top, primary, secondary, content)
}

// profileView assembles the profile panel from the session and the last
// profile fetch.
func (m *Model) profileView() components.Profile {
	p := components.Profile{
		Username:   m.username,
		Role:       m.profile.Role,
		Recent:     m.profile.Recent,
		Remaining:  m.remaining(),
		LoggingOut: m.loggingOut,
		Spinner:    m.spinner.View(),
	}
	if sess, ok, _ := m.svc.Client().Store().Peek(); ok {
		p.UserID = sess.UserID
		p.LoginTime = time.Unix(sess.LoginTime, 0)
	}
	return p
}
