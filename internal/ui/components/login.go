// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mesdesk/internal/ui/styles"
)

// =============================================================================
// LOGIN FORM
// =============================================================================

// LoginSubmitMsg is emitted when the user submits the form.
type LoginSubmitMsg struct {
	Username string
	Password string
}

const (
	focusUsername = iota
	focusPassword
	focusButton
	focusCount
)

type loginKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
}

var defaultLoginKeys = loginKeys{
	Next:   key.NewBinding(key.WithKeys("tab", "down")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up")),
	Submit: key.NewBinding(key.WithKeys("enter")),
}

// LoginForm is the username/password form of the login screen.
type LoginForm struct {
	username textinput.Model
	password textinput.Model
	spinner  spinner.Model
	focus    int
	busy     bool
	message  string
	keys     loginKeys
	theme    *styles.Theme
}

// NewLoginForm creates a login form with the username field focused.
func NewLoginForm(theme *styles.Theme) *LoginForm {
	u := textinput.New()
	u.Placeholder = "Username"
	u.CharLimit = 64
	u.Prompt = ""
	u.Focus()

	p := textinput.New()
	p.Placeholder = "Password"
	p.CharLimit = 128
	p.Prompt = ""
	p.EchoMode = textinput.EchoPassword
	p.EchoCharacter = '•'

	return &LoginForm{
		username: u,
		password: p,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		keys:     defaultLoginKeys,
		theme:    theme,
	}
}

// Init starts the cursor blinking.
func (f *LoginForm) Init() tea.Cmd {
	return textinput.Blink
}

// SetBusy toggles the in-flight state. Turning it on starts the spinner.
func (f *LoginForm) SetBusy(busy bool) tea.Cmd {
	f.busy = busy
	if busy {
		f.message = ""
		return f.spinner.Tick
	}
	return nil
}

// SetMessage shows an inline error under the form.
func (f *LoginForm) SetMessage(msg string) {
	f.message = msg
}

// Message returns the inline error, if any.
func (f *LoginForm) Message() string { return f.message }

// Username returns the typed username.
func (f *LoginForm) Username() string { return f.username.Value() }

// Reset clears both inputs and focuses the username field.
func (f *LoginForm) Reset() {
	f.username.Reset()
	f.password.Reset()
	f.message = ""
	f.busy = false
	f.setFocus(focusUsername)
}

func (f *LoginForm) setFocus(i int) {
	f.focus = (i + focusCount) % focusCount
	f.username.Blur()
	f.password.Blur()
	switch f.focus {
	case focusUsername:
		f.username.Focus()
	case focusPassword:
		f.password.Focus()
	}
}

// Update handles input. It returns a command producing LoginSubmitMsg
// when the form is submitted with both fields filled.
func (f *LoginForm) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !f.busy {
			return nil
		}
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		if f.busy {
			return nil
		}
		switch {
		case key.Matches(msg, f.keys.Next):
			f.setFocus(f.focus + 1)
			return nil
		case key.Matches(msg, f.keys.Prev):
			f.setFocus(f.focus - 1)
			return nil
		case key.Matches(msg, f.keys.Submit):
			if f.focus == focusUsername && f.password.Value() == "" {
				f.setFocus(focusPassword)
				return nil
			}
			return f.submit()
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case focusUsername:
		f.username, cmd = f.username.Update(msg)
	case focusPassword:
		f.password, cmd = f.password.Update(msg)
	}
	return cmd
}

func (f *LoginForm) submit() tea.Cmd {
	username := f.username.Value()
	password := f.password.Value()
	if strings.TrimSpace(username) == "" || password == "" {
		f.message = "Please enter username and password"
		if strings.TrimSpace(username) == "" {
			f.setFocus(focusUsername)
		} else {
			f.setFocus(focusPassword)
		}
		return nil
	}
	f.message = ""
	return func() tea.Msg {
		return LoginSubmitMsg{Username: username, Password: password}
	}
}

// View renders the form centered in width x height.
func (f *LoginForm) View(width, height int) string {
	t := f.theme

	field := func(label string, in textinput.Model, focused bool) string {
		box := t.InputBlurred
		if focused {
			box = t.InputFocused
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			t.InputLabel.Render(label),
			box.Width(36).Render(in.View()),
		)
	}

	button := t.Button.Render("Sign in")
	if f.focus == focusButton {
		button = t.ButtonActive.Render("Sign in")
	}
	if f.busy {
		button = t.ButtonActive.Render(f.spinner.View() + " Signing in...")
	}

	rows := []string{
		t.LoginTitle.Render(AppTitle),
		t.LoginSubtitle.Render("Sign in to continue"),
		"",
		field("Username", f.username, f.focus == focusUsername),
		field("Password", f.password, f.focus == focusPassword),
		"",
		button,
	}
	if f.message != "" {
		rows = append(rows, "", t.ErrorStyle.Render(f.message))
	}

	box := t.LoginBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
