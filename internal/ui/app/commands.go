// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mesdesk/internal/auth"
	"github.com/jeranaias/mesdesk/internal/config"
	"github.com/jeranaias/mesdesk/internal/storage"
	"github.com/jeranaias/mesdesk/internal/ui/components"
)

// API paths the shell reads from.
const (
	OrdersPath = "/api/orders"
	MePath     = "/api/auth/me"
)

// recentSignIns is how many history rows the profile panel shows.
const recentSignIns = 5

// =============================================================================
// AUTH COMMANDS
// =============================================================================

// LoginCmd runs a login in the background.
func LoginCmd(svc *auth.Service, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(svc)
		defer cancel()

		resp, err := svc.Login(ctx, username, password)
		return LoginResultMsg{Response: resp, Err: err}
	}
}

// LogoutCmd runs a logout in the background.
func LogoutCmd(svc *auth.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(svc)
		defer cancel()

		return LogoutDoneMsg{Result: svc.Logout(ctx)}
	}
}

// =============================================================================
// DATA COMMANDS
// =============================================================================

// FetchOrdersCmd loads the orders summary with an authenticated GET.
func FetchOrdersCmd(svc *auth.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(svc)
		defer cancel()

		var resp auth.Response[components.OrderSummary]
		if err := getJSON(ctx, svc.Client(), OrdersPath, &resp); err != nil {
			return OrdersMsg{Err: err}
		}
		return OrdersMsg{Summary: resp.Data}
	}
}

// FetchProfileCmd loads the user's role from the API and recent sign-ins
// from history. Either part may be missing; history is optional.
func FetchProfileCmd(svc *auth.Service, history *storage.History, username string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(svc)
		defer cancel()

		var msg ProfileMsg

		var resp auth.Response[struct {
			Role string `json:"role"`
		}]
		if err := getJSON(ctx, svc.Client(), MePath, &resp); err != nil {
			msg.Err = err
		} else {
			msg.Role = resp.Data.Role
		}

		if history != nil {
			events, err := history.RecentFor(ctx, username, recentSignIns)
			if err != nil {
				msg.Err = errors.Join(msg.Err, err)
			}
			for _, e := range events {
				msg.Recent = append(msg.Recent, components.SignIn{Kind: e.Type, At: e.At, Detail: e.Detail})
			}
		}
		return msg
	}
}

// getJSON issues an authenticated GET and decodes the envelope into out.
// A 401 from the server is reported as auth.ErrNotLoggedIn, since the token
// was rejected even though the local session looked valid.
func getJSON[T any](ctx context.Context, client *auth.Client, path string, out *auth.Response[T]) error {
	req, err := client.Get(ctx, path)
	if err != nil {
		return err
	}

	status, err := client.DoJSON(req, out)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", auth.ErrNotLoggedIn, out.Message)
	}
	if !out.OK() || out.Data == nil {
		return fmt.Errorf("%s (code %d)", out.Message, out.Code)
	}
	return nil
}

func requestContext(svc *auth.Service) (context.Context, context.CancelFunc) {
	timeout := svc.Client().Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// =============================================================================
// ENVIRONMENT COMMANDS
// =============================================================================

// SaveThemeCmd persists the theme choice to the config file.
func SaveThemeCmd(mode string) tea.Cmd {
	return func() tea.Msg {
		err := config.Update(func(c *config.Config) error {
			c.UI.Theme = mode
			return nil
		})
		return ThemeSavedMsg{Mode: mode, Err: err}
	}
}

// CopyCmd writes text to the clipboard.
func CopyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{Err: write(text)}
	}
}

// waitForReload delivers the next config reload.
func waitForReload(ch <-chan ConfigReloadedMsg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// clockTick refreshes the session countdown once a second.
func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}
