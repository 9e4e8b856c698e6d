// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"log"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mesdesk/internal/auth"
	"github.com/jeranaias/mesdesk/internal/config"
	"github.com/jeranaias/mesdesk/internal/storage"
	"github.com/jeranaias/mesdesk/internal/ui/components"
	"github.com/jeranaias/mesdesk/internal/ui/styles"
)

// =============================================================================
// APP STATE
// =============================================================================

// Screen is the top-level screen being shown.
type Screen int

const (
	ScreenLogin Screen = iota // Credentials form
	ScreenShell               // Menus and content
)

// Focus is the shell column that receives navigation keys.
type Focus int

const (
	FocusPrimary Focus = iota
	FocusSecondary
	FocusSearch
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options are the collaborators of the app model.
type Options struct {
	Service *auth.Service
	Config  *config.Config
	Theme   *styles.Theme

	// History is optional; without it the profile panel shows no recent
	// activity.
	History *storage.History

	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error

	// PersistTheme saves theme toggles to the config file.
	PersistTheme bool
}

// =============================================================================
// APP MODEL
// =============================================================================

// Model is the root Bubble Tea model of the TUI.
type Model struct {
	svc       *auth.Service
	cfg       *config.Config
	theme     *styles.Theme
	history   *storage.History
	clipboard func(string) error
	persist   bool
	keys      KeyMap

	// Dimensions
	width     int
	height    int
	maximized bool

	screen Screen
	focus  Focus

	// Components
	login    *components.LoginForm
	titleBar *components.TitleBar
	status   *components.StatusBar
	toasts   *components.ToastManager
	markdown *components.Markdown
	spinner  spinner.Model

	// Navigation
	primary   components.Primary
	secondary components.Secondary
	search    textinput.Model

	// Session-bound data; cleared on logout and expiry.
	username      string
	orders        *components.OrderSummary
	ordersLoading bool
	ordersErr     string
	profileOpen   bool
	profile       ProfileMsg
	loggingOut    bool

	reloads chan ConfigReloadedMsg
}

// New creates the app model. If the service already holds a valid session
// the shell is shown directly.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	m := &Model{
		svc:       opts.Service,
		cfg:       cfg,
		theme:     theme,
		history:   opts.History,
		clipboard: copyFn,
		persist:   opts.PersistTheme,
		keys:      DefaultKeyMap(),
		width:     80,
		height:    24,
		login:     components.NewLoginForm(theme),
		titleBar:  components.NewTitleBar(theme),
		status:    components.NewStatusBar(theme),
		toasts:    components.NewToastManager(),
		markdown:  &components.Markdown{},
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		search:    newSearchInput(),
		reloads:   make(chan ConfigReloadedMsg, 1),
	}
	m.status.Endpoint = cfg.API.BaseURL
	m.status.ShowShortcuts = cfg.UI.ShowHints
	m.openSection(components.ParsePrimary(cfg.UI.StartMenu))

	if user, ok := m.svc.CurrentUser(); ok {
		m.enterShell(user.Username)
	}
	return m
}

// ConfigReloadFunc returns a callback for config.Watch that forwards
// reloads into the program. A reload arriving while another is still
// queued is dropped.
func (m *Model) ConfigReloadFunc() config.ReloadFunc {
	return func(cfg *config.Config, err error) {
		select {
		case m.reloads <- ConfigReloadedMsg{Config: cfg, Err: err}:
		default:
			log.Printf("ui: config reload dropped, previous one still pending")
		}
	}
}

// Init starts the cursor, the countdown and the config listener, and loads
// data when starting signed in.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.login.Init(), clockTick(), waitForReload(m.reloads)}
	if m.screen == ScreenShell {
		cmds = append(cmds, m.loadPage(), FetchProfileCmd(m.svc, m.history, m.username))
	}
	return tea.Batch(cmds...)
}

// Screen returns the screen being shown.
func (m *Model) Screen() Screen { return m.screen }

// Selection returns the selected section and page.
func (m *Model) Selection() (components.Primary, components.Secondary) {
	return m.primary, m.secondary
}

// Theme returns the theme in use.
func (m *Model) Theme() *styles.Theme { return m.theme }

// ProfileOpen reports whether the profile panel is shown.
func (m *Model) ProfileOpen() bool { return m.profileOpen }

// Toasts returns the visible toasts.
func (m *Model) Toasts() []components.Toast { return m.toasts.Toasts() }

// =============================================================================
// STATE TRANSITIONS
// =============================================================================

// enterShell switches to the main shell for username.
func (m *Model) enterShell(username string) {
	m.screen = ScreenShell
	m.username = username
	m.titleBar.Username = username
	m.status.SignedIn = true
	m.focus = FocusPrimary
	m.toasts.Clear()
}

// enterLogin returns to the login screen and forgets all session-bound
// data. The session store itself is cleared by the caller.
func (m *Model) enterLogin() {
	m.screen = ScreenLogin
	m.username = ""
	m.titleBar.Username = ""
	m.status.SignedIn = false
	m.status.Status = components.StatusReady
	m.orders = nil
	m.ordersLoading = false
	m.ordersErr = ""
	m.profileOpen = false
	m.profile = ProfileMsg{}
	m.loggingOut = false
	m.focus = FocusPrimary
	m.search.Reset()
	m.search.Blur()
	m.login.Reset()
}

// openSection selects a primary section and its default page.
func (m *Model) openSection(p components.Primary) {
	m.primary = p
	m.secondary = components.DefaultSecondary(p)
	m.search.Reset()
}

// pageNeedsOrders reports whether the selected page shows order data.
func (m *Model) pageNeedsOrders() bool {
	return (m.primary == components.Dashboard && m.secondary == components.Overview) ||
		(m.primary == components.Production && m.secondary == components.Orders)
}

// loadPage fetches the data of the selected page if it has not been
// loaded yet.
func (m *Model) loadPage() tea.Cmd {
	if !m.pageNeedsOrders() || m.orders != nil || m.ordersLoading || m.ordersErr != "" {
		return nil
	}
	return m.fetchOrders()
}

func (m *Model) fetchOrders() tea.Cmd {
	m.ordersLoading = true
	m.ordersErr = ""
	m.status.Status = components.StatusLoading
	return tea.Batch(FetchOrdersCmd(m.svc), m.spinner.Tick)
}

// visibleEntries is the secondary menu after the search filter.
func (m *Model) visibleEntries() []components.Entry {
	return components.FilterEntries(components.Entries(m.primary), m.search.Value())
}

func newSearchInput() textinput.Model {
	in := textinput.New()
	in.Placeholder = "Search..."
	in.Prompt = "/ "
	in.CharLimit = 32
	return in
}
