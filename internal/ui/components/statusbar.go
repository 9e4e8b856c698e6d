// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mesdesk/internal/ui/styles"
	"github.com/jeranaias/mesdesk/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusLoading
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusLoading:
		return "Loading..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Shortcut is a key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// warnBelow colors the session countdown amber.
const warnBelow = 5 * time.Minute

// StatusBar is the bottom row: status, API endpoint, session countdown and
// key hints.
type StatusBar struct {
	Status        Status
	Endpoint      string
	Remaining     time.Duration
	SignedIn      bool
	Shortcuts     []Shortcut
	ShowShortcuts bool
	Width         int
	theme         *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status:        StatusReady,
		ShowShortcuts: true,
		Width:         80,
		theme:         theme,
	}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := s.theme

	var left []string
	switch s.Status {
	case StatusError:
		left = append(left, t.ErrorStyle.Render(s.Status.String()))
	case StatusLoading:
		left = append(left, t.InfoStyle.Render(s.Status.String()))
	default:
		left = append(left, t.SuccessStyle.Render(s.Status.String()))
	}
	if s.Endpoint != "" {
		left = append(left, t.Muted.Render(util.TruncateWidth(s.Endpoint, 32)))
	}
	if s.SignedIn {
		countdown := "session " + util.FormatRemaining(s.Remaining)
		if s.Remaining < warnBelow {
			left = append(left, t.WarningStyle.Render(countdown))
		} else {
			left = append(left, t.Muted.Render(countdown))
		}
	}
	leftText := strings.Join(left, t.Muted.Render(" | "))

	var right string
	if s.ShowShortcuts && len(s.Shortcuts) > 0 {
		var hints []string
		for _, sc := range s.Shortcuts {
			hints = append(hints, t.ShortcutKey.Render(sc.Key)+" "+t.ShortcutDesc.Render(sc.Desc))
		}
		// Drop hints from the end until they fit
		for len(hints) > 0 {
			right = strings.Join(hints, "  ")
			if lipgloss.Width(leftText)+lipgloss.Width(right)+3 <= s.Width {
				break
			}
			hints = hints[:len(hints)-1]
			right = ""
		}
	}

	gap := s.Width - 2 - lipgloss.Width(leftText) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return t.StatusBar.Width(s.Width).Render(leftText + strings.Repeat(" ", gap) + right)
}
