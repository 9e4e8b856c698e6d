// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mesdesk/internal/ui/styles"
	"github.com/jeranaias/mesdesk/internal/util"
)

// =============================================================================
// PROFILE PANEL
// =============================================================================

// SignIn is one line of the recent sign-in list.
type SignIn struct {
	Kind   string
	At     time.Time
	Detail string
}

// Profile is what the profile panel shows.
type Profile struct {
	Username  string
	UserID    uint32
	Role      string
	LoginTime time.Time
	Remaining time.Duration
	Recent    []SignIn

	// LoggingOut replaces the actions with a progress line.
	LoggingOut bool
	Spinner    string
}

// Initial returns the avatar letter of a username.
func Initial(username string) string {
	for _, r := range strings.TrimSpace(username) {
		return string(unicode.ToUpper(r))
	}
	return "?"
}

// RenderProfile renders the profile overlay centered in width x height.
func RenderProfile(theme *styles.Theme, p Profile, width, height int) string {
	t := theme

	role := p.Role
	if role == "" {
		role = "-"
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		t.Avatar.Render(Initial(p.Username)),
		"  ",
		lipgloss.JoinVertical(lipgloss.Left,
			t.PanelTitle.Render(util.TruncateWidth(p.Username, 30)),
			t.Muted.Render(role),
		),
	)

	row := func(label, value string) string {
		return t.ProfileLabel.Render(label) + t.ProfileValue.Render(value)
	}

	remaining := util.FormatRemaining(p.Remaining)
	if p.Remaining < warnBelow {
		remaining = t.WarningStyle.Render(remaining)
	}

	rows := []string{
		header,
		"",
		row("Username", p.Username),
		row("User ID", fmt.Sprintf("%d", p.UserID)),
		row("Role", role),
		row("Signed in", p.LoginTime.Local().Format("2006-01-02 15:04:05")),
		row("Expires in", remaining),
	}

	if len(p.Recent) > 0 {
		rows = append(rows, "", t.InputLabel.Render("Recent activity"))
		for _, s := range p.Recent {
			line := fmt.Sprintf("%s  %s", s.At.Local().Format("01-02 15:04"), strings.ReplaceAll(s.Kind, "_", " "))
			if s.Detail != "" {
				line += "  " + s.Detail
			}
			rows = append(rows, t.Muted.Render(util.TruncateWidth(line, 44)))
		}
	}

	rows = append(rows, "")
	if p.LoggingOut {
		rows = append(rows, t.InfoStyle.Render(p.Spinner+" Signing out..."))
	} else {
		rows = append(rows,
			t.ShortcutKey.Render("l")+" "+t.ShortcutDesc.Render("sign out")+"  "+
				t.ShortcutKey.Render("c")+" "+t.ShortcutDesc.Render("copy auth header")+"  "+
				t.ShortcutKey.Render("esc")+" "+t.ShortcutDesc.Render("close"))
	}

	box := t.ProfileBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
