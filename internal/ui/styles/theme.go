// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Mode is the configured mode; IsDark is what it resolved to.
	Mode         string
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// TITLE BAR
	// ==========================================================================

	TitleBar       lipgloss.Style
	TitleText      lipgloss.Style
	TitleUser      lipgloss.Style
	WindowControls lipgloss.Style

	// ==========================================================================
	// LOGIN SCREEN
	// ==========================================================================

	LoginBox      lipgloss.Style
	LoginTitle    lipgloss.Style
	LoginSubtitle lipgloss.Style
	InputLabel    lipgloss.Style
	InputFocused  lipgloss.Style
	InputBlurred  lipgloss.Style
	Button        lipgloss.Style
	ButtonActive  lipgloss.Style

	// ==========================================================================
	// MENUS
	// ==========================================================================

	PrimaryMenu          lipgloss.Style
	PrimaryItem          lipgloss.Style
	PrimaryItemActive    lipgloss.Style
	SecondaryMenu        lipgloss.Style
	SecondaryItem        lipgloss.Style
	SecondaryItemActive  lipgloss.Style
	SecondaryDescription lipgloss.Style
	SearchBox            lipgloss.Style

	// ==========================================================================
	// CONTENT AREA
	// ==========================================================================

	Content       lipgloss.Style
	PanelTitle    lipgloss.Style
	PanelSubtitle lipgloss.Style
	Card          lipgloss.Style
	CardTitle     lipgloss.Style
	CardValue     lipgloss.Style
	CardDesc      lipgloss.Style
	TableHeader   lipgloss.Style
	TableRow      lipgloss.Style

	// ==========================================================================
	// PROFILE PANEL
	// ==========================================================================

	ProfileBox   lipgloss.Style
	Avatar       lipgloss.Style
	ProfileLabel lipgloss.Style
	ProfileValue lipgloss.Style

	// ==========================================================================
	// TOASTS AND STATUS BAR
	// ==========================================================================

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// STATUS STYLES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
	Muted        lipgloss.Style
}

// NewTheme creates a theme for mode ("auto", "dark" or "light"). Unknown
// modes are treated as "auto".
func NewTheme(mode string) *Theme {
	t := &Theme{ColorProfile: termenv.ColorProfile()}
	t.SetMode(mode)
	return t
}

// NormalizeMode maps user input to a known mode.
func NormalizeMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeDark:
		return ModeDark
	case ModeLight:
		return ModeLight
	default:
		return ModeAuto
	}
}

// SetMode switches between dark and light and re-initializes styles.
func (t *Theme) SetMode(mode string) {
	t.Mode = NormalizeMode(mode)
	switch t.Mode {
	case ModeDark:
		t.IsDark = true
	case ModeLight:
		t.IsDark = false
	default:
		t.IsDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(t.IsDark)
	t.initStyles()
}

// Toggle flips between dark and light, leaving auto mode.
func (t *Theme) Toggle() {
	if t.IsDark {
		t.SetMode(ModeLight)
	} else {
		t.SetMode(ModeDark)
	}
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Title bar
	t.TitleBar = lipgloss.NewStyle().
		Background(SteelDeep).
		Foreground(TextInverse).
		Padding(0, 1)

	t.TitleText = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#E0F2FE"})

	t.TitleUser = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#A6ADC8"})

	t.WindowControls = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#BFDBFE", Dark: "#6C7086"})

	// Login
	t.LoginBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Steel).
		Padding(1, 4).
		Width(48)

	t.LoginTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Steel).
		MarginBottom(1)

	t.LoginSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.InputLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.InputFocused = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	t.InputBlurred = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceBright).
		Padding(0, 2)

	t.ButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Steel).
		Bold(true).
		Padding(0, 2)

	// Menus
	t.PrimaryMenu = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PrimaryItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.PrimaryItemActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Steel).
		Bold(true).
		Padding(0, 1)

	t.SecondaryMenu = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SecondaryItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(1)

	t.SecondaryItemActive = lipgloss.NewStyle().
		Foreground(Cyan).
		Background(SelectionBg).
		Bold(true).
		PaddingLeft(1)

	t.SecondaryDescription = lipgloss.NewStyle().
		Foreground(TextMuted).
		PaddingLeft(1)

	t.SearchBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	// Content
	t.Content = lipgloss.NewStyle().
		Padding(0, 2)

	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.PanelSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		MarginBottom(1)

	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2).
		Width(26)

	t.CardTitle = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.CardValue = lipgloss.NewStyle().
		Bold(true).
		Foreground(Steel)

	t.CardDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.TableRow = lipgloss.NewStyle().
		Foreground(TextPrimary)

	// Profile panel
	t.ProfileBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Steel).
		Background(Surface).
		Padding(1, 3).
		Width(52)

	t.Avatar = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Steel).
		Padding(0, 1)

	t.ProfileLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Width(14)

	t.ProfileValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	// Toasts
	toast := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)

	t.ToastInfo = toast.BorderForeground(InfoHighContrast).Foreground(TextPrimary)
	t.ToastSuccess = toast.BorderForeground(SuccessHighContrast).Foreground(TextPrimary)
	t.ToastError = toast.BorderForeground(ErrorHighContrast).Foreground(ErrorHighContrast)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Status
	t.SuccessStyle = lipgloss.NewStyle().Foreground(SuccessHighContrast).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(ErrorHighContrast).Bold(true)
	t.WarningStyle = lipgloss.NewStyle().Foreground(WarningHighContrast).Bold(true)
	t.InfoStyle = lipgloss.NewStyle().Foreground(InfoHighContrast).Bold(true)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 80 {
		return LayoutNarrow
	}
	if t.Width < 120 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 80 columns, content only
	LayoutMedium                   // 80-120 columns, descriptions hidden
	LayoutWide                     // >= 120 columns
)
