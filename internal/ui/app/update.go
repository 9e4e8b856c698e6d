// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mesdesk/internal/auth"
	"github.com/jeranaias/mesdesk/internal/ui/components"
	"github.com/jeranaias/mesdesk/internal/ui/styles"
)

// sessionExpiredMessage is shown when the shell finds the session gone.
const sessionExpiredMessage = "Session expired, please sign in again"

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.titleBar.SetWidth(msg.Width)
		m.status.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case clockTickMsg:
		return m, clockTick()

	case spinner.TickMsg:
		var cmds []tea.Cmd
		cmds = append(cmds, m.login.Update(msg))
		if m.ordersLoading || m.loggingOut {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case components.ToastExpiredMsg:
		m.toasts.Remove(msg.ID)
		return m, nil

	case components.LoginSubmitMsg:
		return m, tea.Batch(m.login.SetBusy(true), LoginCmd(m.svc, msg.Username, msg.Password))

	case LoginResultMsg:
		return m.handleLoginResult(msg)

	case LogoutDoneMsg:
		return m.handleLogoutDone(msg)

	case OrdersMsg:
		return m.handleOrders(msg)

	case ProfileMsg:
		return m.handleProfile(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case ThemeSavedMsg:
		if msg.Err != nil {
			log.Printf("ui: failed to save theme %s: %v", msg.Mode, msg.Err)
			return m, m.toasts.Error("Could not save theme: " + msg.Err.Error())
		}
		return m, nil

	case CopiedMsg:
		if msg.Err != nil {
			return m, m.toasts.Error("Clipboard unavailable: " + msg.Err.Error())
		}
		return m, m.toasts.Success("Auth header copied to clipboard")
	}

	if m.screen == ScreenLogin {
		return m, m.login.Update(msg)
	}
	if m.focus == FocusSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// RESULT HANDLERS
// =============================================================================

func (m *Model) handleLoginResult(msg LoginResultMsg) (tea.Model, tea.Cmd) {
	m.login.SetBusy(false)

	if msg.Err != nil {
		m.login.SetMessage(describeError(msg.Err))
		return m, m.toasts.Error("Login failed: " + describeError(msg.Err))
	}
	if !msg.Response.Accepted() {
		text := msg.Response.Message
		if text == "" {
			text = fmt.Sprintf("login rejected (code %d)", msg.Response.Code)
		}
		m.login.SetMessage(text)
		return m, m.toasts.Error("Login failed: " + text)
	}

	user, ok := m.svc.CurrentUser()
	if !ok {
		// Already expired, e.g. expiresIn of zero
		m.login.SetMessage(sessionExpiredMessage)
		return m, nil
	}

	m.login.Reset()
	m.enterShell(user.Username)
	return m, tea.Batch(
		m.toasts.Success("Welcome, "+user.Username),
		m.loadPage(),
		FetchProfileCmd(m.svc, m.history, user.Username),
	)
}

func (m *Model) handleLogoutDone(msg LogoutDoneMsg) (tea.Model, tea.Cmd) {
	m.enterLogin()
	if msg.Result.Err != nil {
		log.Printf("ui: logout notification: %v", msg.Result.Err)
	}
	if !msg.Result.Notified {
		return m, m.toasts.Info("Signed out (server not notified)")
	}
	return m, m.toasts.Info("Signed out")
}

func (m *Model) handleOrders(msg OrdersMsg) (tea.Model, tea.Cmd) {
	if m.screen != ScreenShell {
		return m, nil
	}
	m.ordersLoading = false

	if msg.Err != nil {
		if errors.Is(msg.Err, auth.ErrNotLoggedIn) {
			return m, m.expire()
		}
		m.ordersErr = describeError(msg.Err)
		m.status.Status = components.StatusError
		return m, m.toasts.Error("Could not load orders: " + m.ordersErr)
	}

	m.orders = msg.Summary
	m.ordersErr = ""
	m.status.Status = components.StatusReady
	return m, nil
}

func (m *Model) handleProfile(msg ProfileMsg) (tea.Model, tea.Cmd) {
	if m.screen != ScreenShell {
		return m, nil
	}
	if errors.Is(msg.Err, auth.ErrNotLoggedIn) {
		return m, m.expire()
	}
	if msg.Err != nil {
		log.Printf("ui: profile incomplete: %v", msg.Err)
	}
	if msg.Role == "" {
		msg.Role = m.profile.Role
	}
	m.profile = msg
	return m, nil
}

func (m *Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	next := waitForReload(m.reloads)
	if msg.Err != nil {
		log.Printf("ui: config reload failed: %v", msg.Err)
		return m, tea.Batch(next, m.toasts.Error("Config not reloaded: "+msg.Err.Error()))
	}
	if msg.Config == nil {
		return m, next
	}

	if msg.Config.API.BaseURL != m.cfg.API.BaseURL {
		log.Printf("ui: api.base_url changed, restart to use %s", msg.Config.API.BaseURL)
	}
	if styles.NormalizeMode(msg.Config.UI.Theme) != m.theme.Mode {
		m.theme.SetMode(msg.Config.UI.Theme)
	}
	m.status.ShowShortcuts = msg.Config.UI.ShowHints
	m.cfg = msg.Config
	return m, tea.Batch(next, m.toasts.Info("Configuration reloaded"))
}

// expire returns to the login screen after the session was found invalid.
func (m *Model) expire() tea.Cmd {
	m.svc.Client().Store().Clear()
	m.enterLogin()
	m.login.SetMessage(sessionExpiredMessage)
	return m.toasts.Error(sessionExpiredMessage)
}

// describeError turns an error into a line for the user.
func describeError(err error) string {
	switch {
	case errors.Is(err, auth.ErrNotLoggedIn):
		return "must re-login"
	case errors.Is(err, auth.ErrTransport):
		return "cannot reach the server"
	case errors.Is(err, auth.ErrMalformedResponse):
		return "unexpected response from the server"
	default:
		return err.Error()
	}
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.screen == ScreenLogin {
		return m, m.login.Update(msg)
	}

	// Expiry is only ever noticed here, on user input
	if !m.loggingOut && !m.svc.IsLoggedIn() {
		return m, m.expire()
	}

	if m.profileOpen {
		return m.handleProfileKey(msg)
	}
	if m.focus == FocusSearch {
		return m.handleSearchKey(msg)
	}
	return m.handleShellKey(msg)
}

func (m *Model) handleShellKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Maximize):
		m.maximized = !m.maximized
		m.titleBar.Maximized = m.maximized
		if m.maximized {
			return m, tea.EnterAltScreen
		}
		return m, tea.ExitAltScreen

	case key.Matches(msg, m.keys.Theme):
		m.theme.Toggle()
		m.cfg.UI.Theme = m.theme.Mode
		if m.persist {
			return m, SaveThemeCmd(m.theme.Mode)
		}
		return m, nil

	case key.Matches(msg, m.keys.Profile):
		m.profileOpen = true
		return m, FetchProfileCmd(m.svc, m.history, m.username)

	case key.Matches(msg, m.keys.Focus):
		if m.focus == FocusPrimary {
			m.focus = FocusSecondary
		} else {
			m.focus = FocusPrimary
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		return m, m.move(-1)

	case key.Matches(msg, m.keys.Down):
		return m, m.move(1)

	case key.Matches(msg, m.keys.Section):
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(components.Primaries) {
			m.openSection(components.Primaries[idx])
			m.focus = FocusPrimary
		}
		return m, m.loadPage()

	case key.Matches(msg, m.keys.Search):
		m.focus = FocusSearch
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Refresh):
		if m.pageNeedsOrders() && !m.ordersLoading {
			return m, m.fetchOrders()
		}
		return m, nil
	}
	return m, nil
}

// move shifts the selection of the focused menu by delta, wrapping around.
func (m *Model) move(delta int) tea.Cmd {
	if m.focus == FocusPrimary {
		n := len(components.Primaries)
		idx := (int(m.primary) + delta + n) % n
		m.openSection(components.Primaries[idx])
		return m.loadPage()
	}

	entries := m.visibleEntries()
	if len(entries) == 0 {
		return nil
	}
	idx := 0
	for i, e := range entries {
		if e.Item == m.secondary {
			idx = (i + delta + len(entries)) % len(entries)
			break
		}
	}
	m.secondary = entries[idx].Item
	return m.loadPage()
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.Reset()
		m.search.Blur()
		m.focus = FocusSecondary
		return m, nil
	case tea.KeyEnter, tea.KeyTab:
		m.search.Blur()
		m.focus = FocusSecondary
		return m, m.loadPage()
	case tea.KeyUp, tea.KeyDown:
		delta := 1
		if msg.Type == tea.KeyUp {
			delta = -1
		}
		m.focus = FocusSecondary
		cmd := m.move(delta)
		m.focus = FocusSearch
		return m, cmd
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	// Keep the selection inside the filtered list
	entries := m.visibleEntries()
	if len(entries) > 0 && !containsItem(entries, m.secondary) {
		m.secondary = entries[0].Item
	}
	return m, tea.Batch(cmd, m.loadPage())
}

func (m *Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loggingOut {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Profile):
		m.profileOpen = false
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		m.loggingOut = true
		return m, tea.Batch(LogoutCmd(m.svc), m.spinner.Tick)

	case key.Matches(msg, m.keys.Copy):
		header, ok := m.svc.CurrentToken()
		if !ok {
			return m, m.expire()
		}
		return m, CopyCmd(m.clipboard, header)

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func containsItem(entries []components.Entry, item components.Secondary) bool {
	for _, e := range entries {
		if e.Item == item {
			return true
		}
	}
	return false
}
