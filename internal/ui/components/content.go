// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mesdesk/internal/ui/styles"
	"github.com/jeranaias/mesdesk/internal/util"
)

// =============================================================================
// CONTENT DATA
// =============================================================================

// OrderRow is one production order as shown in the orders table.
type OrderRow struct {
	ID        string `json:"id"`
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"`
	CreatedBy string `json:"createdBy"`
}

// OrderSummary is the data of the orders endpoint.
type OrderSummary struct {
	Orders []OrderRow `json:"orders"`
	Total  int        `json:"total"`
	Active int        `json:"active"`
}

// ContentState is everything the content area needs to render one page.
type ContentState struct {
	Primary   Primary
	Secondary Secondary

	Orders  *OrderSummary
	Loading bool
	Err     string
	Spinner string
}

// =============================================================================
// MARKDOWN
// =============================================================================

// placeholderMarkdown is shown for pages that have no implementation yet.
const placeholderMarkdown = `# Feature under development

The **%s / %s** module is being built.

* Dashboard overview and production orders are available now
* Use the search box to jump between pages
`

// Markdown renders markdown with glamour, caching one renderer per width
// and background.
type Markdown struct {
	renderer *glamour.TermRenderer
	width    int
	dark     bool
}

// Render returns md rendered for width columns, or md unchanged if glamour
// fails.
func (m *Markdown) Render(md string, width int, dark bool) string {
	if width < 20 {
		width = 20
	}
	if m.renderer == nil || m.width != width || m.dark != dark {
		style := "light"
		if dark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		m.renderer, m.width, m.dark = r, width, dark
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// RENDERING
// =============================================================================

// RenderContent renders the content area for the selected page.
func RenderContent(theme *styles.Theme, md *Markdown, s ContentState, width, height int) string {
	var body string
	switch {
	case s.Primary == Dashboard && s.Secondary == Overview:
		body = renderOverview(theme, s, width)
	case s.Primary == Production && s.Secondary == Orders:
		body = renderOrders(theme, s, width, height)
	default:
		body = md.Render(fmt.Sprintf(placeholderMarkdown, s.Primary, s.Secondary.Title()), width-4, theme.IsDark)
	}
	return theme.Content.Width(width).Height(maxInt(height, 1)).MaxHeight(maxInt(height, 1)).Render(body)
}

func panelHeader(theme *styles.Theme, title, subtitle string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.PanelTitle.Render(title),
		theme.PanelSubtitle.Render(subtitle),
	)
}

func renderOverview(theme *styles.Theme, s ContentState, width int) string {
	active := "-"
	desc := "Active orders"
	switch {
	case s.Loading:
		active = s.Spinner
		desc = "Loading..."
	case s.Err != "":
		desc = util.TruncateWidth(s.Err, 20)
	case s.Orders != nil:
		active = fmt.Sprintf("%d", s.Orders.Active)
		desc = fmt.Sprintf("Active of %d orders", s.Orders.Total)
	}

	card := func(title, value, desc string) string {
		return theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
			theme.CardTitle.Render(title),
			theme.CardValue.Render(value),
			theme.CardDesc.Render(desc),
		))
	}

	cards := []string{
		card("Production orders", active, desc),
		card("Inventory status", "Normal", "All materials sufficient"),
	}

	var grid string
	if width >= 2*lipgloss.Width(cards[0])+4 {
		grid = lipgloss.JoinHorizontal(lipgloss.Top, cards[0], "  ", cards[1])
	} else {
		grid = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		panelHeader(theme, "Dashboard - Overview", "System overview and key indicators"),
		grid,
	)
}

func renderOrders(theme *styles.Theme, s ContentState, width, height int) string {
	header := panelHeader(theme, "Production - Orders", "Production order management")

	switch {
	case s.Loading:
		return lipgloss.JoinVertical(lipgloss.Left, header, theme.InfoStyle.Render(s.Spinner+" Loading orders..."))
	case s.Err != "":
		return lipgloss.JoinVertical(lipgloss.Left, header, styles.RenderError(s.Err), "",
			theme.Muted.Render("press r to retry"))
	case s.Orders == nil:
		return lipgloss.JoinVertical(lipgloss.Left, header, theme.Muted.Render("press r to load orders"))
	case len(s.Orders.Orders) == 0:
		return lipgloss.JoinVertical(lipgloss.Left, header, theme.Muted.Render("No orders"))
	}

	inner := width - 4
	qtyW, statusW, idW := 8, 12, 10
	productW := inner - qtyW - statusW - idW - 3
	if productW < 10 {
		productW = 10
	}

	line := func(id, product, qty, status string) string {
		return util.PadRight(id, idW) + " " + util.PadRight(product, productW) + " " +
			util.PadRight(qty, qtyW) + " " + util.PadRight(status, statusW)
	}

	rows := []string{theme.TableHeader.Render(line("ID", "Product", "Qty", "Status"))}
	maxRows := height - 5
	for i, o := range s.Orders.Orders {
		if maxRows > 0 && i >= maxRows {
			rows = append(rows, theme.Muted.Render(fmt.Sprintf("... %d more", len(s.Orders.Orders)-i)))
			break
		}
		rows = append(rows, theme.TableRow.Render(
			line(shortID(o.ID), o.Product, fmt.Sprintf("%d", o.Quantity), strings.ReplaceAll(o.Status, "_", " "))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, rows...)...)
}

// shortID keeps the first block of a UUID.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return util.TruncateWidth(id, 8)
}
