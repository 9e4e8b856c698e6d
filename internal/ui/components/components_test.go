// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mesdesk/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

func typeText(f *LoginForm, s string) {
	for _, r := range s {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// =============================================================================
// MENU
// =============================================================================

func TestDefaultSecondary(t *testing.T) {
	tests := map[Primary]Secondary{
		Dashboard:  Overview,
		Production: Orders,
		Inventory:  Materials,
		Quality:    Inspection,
		Settings:   Users,
	}
	for p, want := range tests {
		assert.Equal(t, want, DefaultSecondary(p), p.String())
		assert.Len(t, Entries(p), 3)
	}
}

func TestParsePrimary(t *testing.T) {
	assert.Equal(t, Production, ParsePrimary("Production"))
	assert.Equal(t, Quality, ParsePrimary(" quality "))
	assert.Equal(t, Dashboard, ParsePrimary("payroll"))
	assert.Equal(t, "inventory", Inventory.Key())
}

func TestFilterEntries(t *testing.T) {
	entries := Entries(Production)

	assert.Len(t, FilterEntries(entries, ""), 3)

	got := FilterEntries(entries, "SCHED")
	require.Len(t, got, 1)
	assert.Equal(t, Schedule, got[0].Item)

	got = FilterEntries(entries, "routing")
	require.Len(t, got, 1)
	assert.Equal(t, Workflow, got[0].Item)

	assert.Empty(t, FilterEntries(entries, "payroll"))
}

func TestRenderMenus(t *testing.T) {
	theme := testTheme()

	primary := RenderPrimaryMenu(theme, Quality, true, 10)
	for _, p := range Primaries {
		assert.Contains(t, primary, p.String())
	}

	secondary := RenderSecondaryMenu(theme, Entries(Quality), Standards, "", 30, 10, true)
	assert.Contains(t, secondary, "Inspection")
	assert.Contains(t, secondary, "Quality standards")

	empty := RenderSecondaryMenu(theme, nil, Standards, "zzz", 30, 10, false)
	assert.Contains(t, empty, "no matches")
}

// =============================================================================
// LOGIN FORM
// =============================================================================

func TestLoginForm_Submit(t *testing.T) {
	f := NewLoginForm(testTheme())

	typeText(f, "admin")
	cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "enter on username moves to password")

	typeText(f, "123456")
	cmd = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(LoginSubmitMsg)
	require.True(t, ok)
	assert.Equal(t, "admin", msg.Username)
	assert.Equal(t, "123456", msg.Password)
}

func TestLoginForm_SubmitsUsernameAsTyped(t *testing.T) {
	f := NewLoginForm(testTheme())

	typeText(f, " admin")
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(f, "123456")
	cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, " admin", cmd().(LoginSubmitMsg).Username)

	blank := NewLoginForm(testTheme())
	typeText(blank, "   ")
	blank.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(blank, "123456")
	assert.Nil(t, blank.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.NotEmpty(t, blank.Message())
}

func TestLoginForm_RequiresBothFields(t *testing.T) {
	f := NewLoginForm(testTheme())

	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(f, "secret")
	cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.NotEmpty(t, f.Message())
}

func TestLoginForm_BusyIgnoresKeys(t *testing.T) {
	f := NewLoginForm(testTheme())
	typeText(f, "admin")

	require.NotNil(t, f.SetBusy(true))
	typeText(f, "xyz")
	assert.Equal(t, "admin", f.Username())
	assert.Contains(t, f.View(80, 30), "Signing in")

	f.SetBusy(false)
	f.Reset()
	assert.Empty(t, f.Username())
}

func TestLoginForm_PasswordMasked(t *testing.T) {
	f := NewLoginForm(testTheme())
	typeText(f, "admin")
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(f, "hunter2")

	view := f.View(0, 0)
	assert.NotContains(t, view, "hunter2")
	assert.Contains(t, view, "admin")
}

// =============================================================================
// TOASTS
// =============================================================================

func TestToastManager(t *testing.T) {
	m := NewToastManager()

	require.NotNil(t, m.Info("one"))
	m.Success("two")
	m.Error("three")
	m.Info("four")

	toasts := m.Toasts()
	require.Len(t, toasts, 3, "oldest toast is dropped")
	assert.Equal(t, "four", toasts[0].Message)
	assert.Equal(t, ErrorToastDuration, toasts[1].Duration)

	m.Remove(toasts[1].ID)
	assert.Len(t, m.Toasts(), 2)
	m.Remove(999)
	assert.Len(t, m.Toasts(), 2)

	m.Clear()
	assert.Empty(t, m.Toasts())
}

func TestRenderToastStack(t *testing.T) {
	theme := testTheme()
	assert.Empty(t, RenderToastStack(theme, nil, 80))

	out := RenderToastStack(theme, []Toast{{ID: 1, Message: "Login failed", Kind: ToastError}}, 80)
	assert.Contains(t, out, "Login failed")
	assert.Contains(t, out, styles.StatusIndicators.Error)
}

// =============================================================================
// CHROME
// =============================================================================

func TestTitleBar(t *testing.T) {
	bar := NewTitleBar(testTheme())
	bar.SetWidth(100)
	assert.Contains(t, bar.View(), AppTitle)
	assert.NotContains(t, bar.View(), "profile")

	bar.Username = "admin"
	bar.Maximized = true
	view := bar.View()
	assert.Contains(t, view, "admin")
	assert.Contains(t, view, "restore")
	assert.Equal(t, 100, lipgloss.Width(view))
}

func TestStatusBar(t *testing.T) {
	sb := NewStatusBar(testTheme())
	sb.Width = 120
	sb.Endpoint = "http://127.0.0.1:8080"
	sb.SignedIn = true
	sb.Remaining = 3 * time.Minute
	sb.Shortcuts = []Shortcut{{"tab", "focus"}, {"/", "search"}}

	view := sb.View()
	assert.Contains(t, view, "session 3m 00s")
	assert.Contains(t, view, "search")

	sb.Width = 40
	assert.NotContains(t, sb.View(), "search", "hints are dropped when narrow")
}

// =============================================================================
// CONTENT
// =============================================================================

func TestRenderContent(t *testing.T) {
	theme := testTheme()
	md := &Markdown{}

	overview := RenderContent(theme, md, ContentState{
		Primary: Dashboard, Secondary: Overview,
		Orders: &OrderSummary{Total: 5, Active: 3},
	}, 80, 20)
	assert.Contains(t, overview, "Active of 5 orders")

	orders := RenderContent(theme, md, ContentState{
		Primary: Production, Secondary: Orders,
		Orders: &OrderSummary{Orders: []OrderRow{
			{ID: "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed", Product: "Drive shaft", Quantity: 400, Status: "in_progress"},
		}},
	}, 80, 20)
	assert.Contains(t, orders, "1b9d6bcd")
	assert.Contains(t, orders, "Drive shaft")
	assert.Contains(t, orders, "in progress")

	failed := RenderContent(theme, md, ContentState{
		Primary: Production, Secondary: Orders, Err: "must re-login",
	}, 80, 20)
	assert.Contains(t, failed, "must re-login")

	placeholder := RenderContent(theme, md, ContentState{Primary: Quality, Secondary: Issues}, 80, 20)
	assert.Contains(t, placeholder, "under development")
}

func TestRenderProfile(t *testing.T) {
	out := RenderProfile(testTheme(), Profile{
		Username:  "admin",
		UserID:    1,
		Role:      "administrator",
		LoginTime: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		Remaining: 50 * time.Minute,
		Recent:    []SignIn{{Kind: "login_success", At: time.Now()}},
	}, 0, 0)

	assert.Contains(t, out, "administrator")
	assert.Contains(t, out, "login success")
	assert.Contains(t, out, "copy auth header")

	busy := RenderProfile(testTheme(), Profile{Username: "admin", LoggingOut: true}, 0, 0)
	assert.Contains(t, busy, "Signing out")
	assert.NotContains(t, busy, "copy auth header")
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "A", Initial("admin"))
	assert.Equal(t, "B", Initial("  bob"))
	assert.Equal(t, "?", Initial(""))
}
