// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mesdesk/internal/ui/styles"
	"github.com/jeranaias/mesdesk/internal/util"
)

// =============================================================================
// MENU MODEL
// =============================================================================

// Primary is a top-level section of the application.
type Primary int

const (
	Dashboard Primary = iota
	Production
	Inventory
	Quality
	Settings
)

// Primaries lists the sections in display order.
var Primaries = []Primary{Dashboard, Production, Inventory, Quality, Settings}

// String returns the section title.
func (p Primary) String() string {
	switch p {
	case Dashboard:
		return "Dashboard"
	case Production:
		return "Production"
	case Inventory:
		return "Inventory"
	case Quality:
		return "Quality"
	case Settings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// Key returns the lower-case name used in configuration.
func (p Primary) Key() string {
	return strings.ToLower(p.String())
}

// ParsePrimary maps a configuration key to a section, defaulting to
// Dashboard.
func ParsePrimary(key string) Primary {
	for _, p := range Primaries {
		if p.Key() == strings.ToLower(strings.TrimSpace(key)) {
			return p
		}
	}
	return Dashboard
}

// Secondary is a page within a section.
type Secondary int

const (
	Overview Secondary = iota
	Analytics
	Reports
	Orders
	Schedule
	Workflow
	Materials
	Products
	Warehouse
	Inspection
	Standards
	Issues
	Users
	Permissions
	System
)

// Entry is one row of the secondary menu.
type Entry struct {
	Item        Secondary
	Title       string
	Description string
}

var secondaryEntries = map[Primary][]Entry{
	Dashboard: {
		{Overview, "Overview", "Overall statistics"},
		{Analytics, "Analytics", "Data analysis reports"},
		{Reports, "Reports", "Generate reports"},
	},
	Production: {
		{Orders, "Orders", "Production order management"},
		{Schedule, "Schedule", "Production scheduling"},
		{Workflow, "Workflow", "Process routing"},
	},
	Inventory: {
		{Materials, "Materials", "Raw material management"},
		{Products, "Products", "Finished goods stock"},
		{Warehouse, "Warehouse", "Storage locations"},
	},
	Quality: {
		{Inspection, "Inspection", "Quality inspection records"},
		{Standards, "Standards", "Quality standards"},
		{Issues, "Issues", "Quality issue tracking"},
	},
	Settings: {
		{Users, "Users", "User account management"},
		{Permissions, "Permissions", "Roles and permissions"},
		{System, "System", "System parameters"},
	},
}

// Entries returns the secondary menu of a section.
func Entries(p Primary) []Entry {
	return secondaryEntries[p]
}

// DefaultSecondary is the page selected when a section is opened.
func DefaultSecondary(p Primary) Secondary {
	entries := secondaryEntries[p]
	if len(entries) == 0 {
		return Overview
	}
	return entries[0].Item
}

// Title returns the display title of a page.
func (s Secondary) Title() string {
	for _, entries := range secondaryEntries {
		for _, e := range entries {
			if e.Item == s {
				return e.Title
			}
		}
	}
	return "Unknown"
}

// FilterEntries keeps entries whose title or description contains query,
// case-insensitively. An empty query keeps everything.
func FilterEntries(entries []Entry, query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), query) ||
			strings.Contains(strings.ToLower(e.Description), query) {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// RENDERING
// =============================================================================

// PrimaryMenuWidth is the rendered width of the primary column.
const PrimaryMenuWidth = 16

// RenderPrimaryMenu renders the section list.
func RenderPrimaryMenu(theme *styles.Theme, selected Primary, focused bool, height int) string {
	var rows []string
	for i, p := range Primaries {
		label := util.PadRight(string(rune('1'+i))+" "+p.String(), PrimaryMenuWidth-4)
		if p == selected {
			style := theme.PrimaryItemActive
			if !focused {
				style = style.Bold(false)
			}
			rows = append(rows, style.Render(label))
		} else {
			rows = append(rows, theme.PrimaryItem.Render(label))
		}
	}
	return theme.PrimaryMenu.
		Height(maxInt(height, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// RenderSecondaryMenu renders a section's pages, the search box above them
// and descriptions when showDescriptions is set.
func RenderSecondaryMenu(theme *styles.Theme, entries []Entry, selected Secondary,
	search string, width, height int, showDescriptions bool) string {

	inner := maxInt(width-4, 8)
	rows := []string{theme.SearchBox.Width(inner).Render(search)}

	if len(entries) == 0 {
		rows = append(rows, theme.Muted.Render("no matches"))
	}
	for _, e := range entries {
		title := util.TruncateWidth(e.Title, inner-1)
		if e.Item == selected {
			rows = append(rows, theme.SecondaryItemActive.Width(inner).Render(title))
		} else {
			rows = append(rows, theme.SecondaryItem.Width(inner).Render(title))
		}
		if showDescriptions {
			rows = append(rows, theme.SecondaryDescription.Render(util.TruncateWidth(e.Description, inner-1)))
		}
	}

	return theme.SecondaryMenu.
		Width(width - 2).
		Height(maxInt(height, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
