// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/mesdesk/internal/auth"
	"github.com/jeranaias/mesdesk/internal/config"
	"github.com/jeranaias/mesdesk/internal/mockapi"
	"github.com/jeranaias/mesdesk/internal/storage"
)

// =============================================================================
// FIXTURES
// =============================================================================

type fakePrompter struct {
	username string
	password string
	asked    []string
}

func (p *fakePrompter) Username(prompt string) (string, error) {
	p.asked = append(p.asked, prompt)
	return p.username, nil
}

func (p *fakePrompter) Password(prompt string) (string, error) {
	p.asked = append(p.asked, prompt)
	return p.password, nil
}

type fixture struct {
	rt       *Runtime
	env      *Env
	out      *bytes.Buffer
	prompter *fakePrompter
	server   *httptest.Server
	dir      string
}

// newFixture runs a mock API and a runtime with audit and history under a
// temp config directory.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	t.Setenv(config.ConfigDirEnv, dir)
	t.Setenv(PasswordEnv, "")

	apiCfg := mockapi.DefaultConfig()
	apiCfg.BcryptCost = bcrypt.MinCost
	apiCfg.LoginRate = 100
	apiCfg.LoginBurst = 100
	srv, err := mockapi.New(apiCfg)
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.API.BaseURL = ts.URL
	cfg.Logging.AuditLogPath = filepath.Join(dir, "audit.log")
	cfg.Storage.HistoryPath = filepath.Join(dir, "history.db")

	rt := Setup(cfg)
	t.Cleanup(func() { rt.Close() })
	require.NotNil(t, rt.Audit)
	require.NotNil(t, rt.History)

	out := &bytes.Buffer{}
	prompter := &fakePrompter{username: "admin", password: "123456"}
	return &fixture{
		rt:       rt,
		env:      rt.Env(out, prompter),
		out:      out,
		prompter: prompter,
		server:   ts,
		dir:      dir,
	}
}

// newStubEnv runs a command env against handler instead of the mock API.
func newStubEnv(t *testing.T, handler http.HandlerFunc) (*Runtime, *Env, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv(config.ConfigDirEnv, dir)
	t.Setenv(PasswordEnv, "")

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.API.BaseURL = ts.URL
	cfg.Logging.AuditLogPath = filepath.Join(dir, "audit.log")
	cfg.Storage.HistoryPath = filepath.Join(dir, "history.db")

	rt := Setup(cfg)
	t.Cleanup(func() { rt.Close() })

	out := &bytes.Buffer{}
	return rt, rt.Env(out, &fakePrompter{username: "admin", password: "123456"}), out
}

func decodeJSON(t *testing.T, raw []byte) (JSONResponse, map[string]interface{}) {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	data, _ := resp.Data.(map[string]interface{})
	return resp, data
}

// =============================================================================
// PARSING
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		argv  []string
		want  Command
		check func(*testing.T, Args)
	}{
		{name: "no args starts the TUI", argv: nil, want: CmdTUI},
		{name: "global flags only", argv: []string{"-v"}, want: CmdTUI, check: func(t *testing.T, a Args) {
			assert.True(t, a.Verbose)
		}},
		{name: "login with user", argv: []string{"login", "-u", "admin", "--keep"}, want: CmdLogin, check: func(t *testing.T, a Args) {
			assert.Equal(t, "admin", a.Username)
			assert.True(t, a.Keep)
			assert.False(t, a.ShowToken)
		}},
		{name: "call lowercases method", argv: []string{"call", "get", "/api/orders", "--json"}, want: CmdCall, check: func(t *testing.T, a Args) {
			assert.Equal(t, "GET", a.Method)
			assert.Equal(t, "/api/orders", a.Path)
			assert.True(t, a.JSON)
		}},
		{name: "call with data", argv: []string{"call", "POST", "/api/orders", "-d", `{"quantity":1}`}, want: CmdCall, check: func(t *testing.T, a Args) {
			assert.Equal(t, `{"quantity":1}`, a.Data)
		}},
		{name: "status alias", argv: []string{"s"}, want: CmdStatus},
		{name: "config defaults to show", argv: []string{"config"}, want: CmdConfig, check: func(t *testing.T, a Args) {
			assert.Equal(t, "show", a.Subcommand)
		}},
		{name: "config set joins the value", argv: []string{"config", "set", "api.user_agent", "mes", "desk"}, want: CmdConfig, check: func(t *testing.T, a Args) {
			assert.Equal(t, "set", a.Subcommand)
			assert.Equal(t, "api.user_agent", a.ConfigKey)
			assert.Equal(t, "mes desk", a.ConfigVal)
		}},
		{name: "history defaults", argv: []string{"history"}, want: CmdHistory, check: func(t *testing.T, a Args) {
			assert.Equal(t, DefaultHistoryLimit, a.Limit)
		}},
		{name: "history filtered", argv: []string{"history", "-u", "bob", "-n", "3"}, want: CmdHistory, check: func(t *testing.T, a Args) {
			assert.Equal(t, "bob", a.Username)
			assert.Equal(t, 3, a.Limit)
		}},
		{name: "help flag", argv: []string{"--help"}, want: CmdHelp},
		{name: "version", argv: []string{"version"}, want: CmdVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := Parse(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"unknown command", []string{"deploy"}},
		{"call without path", []string{"call", "GET"}},
		{"call with bad method", []string{"call", "PATCH", "/api/orders"}},
		{"history with zero limit", []string{"history", "-n", "0"}},
		{"unknown flag", []string{"login", "--token"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.argv)
			require.Error(t, err)
			assert.Equal(t, ExitUsageError, GetExitCode(err))
		})
	}
}

func TestPrintUsageAndVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	assert.Contains(t, buf.String(), "mesdesk call METHOD PATH")
	assert.Contains(t, buf.String(), Version)

	buf.Reset()
	PrintVersion(&buf)
	assert.Contains(t, buf.String(), Version)
}

// =============================================================================
// LOGIN
// =============================================================================

func TestHandleLogin_Success(t *testing.T) {
	f := newFixture(t)

	err := HandleLogin(context.Background(), f.env, Args{Username: "admin"})
	require.NoError(t, err)

	out := f.out.String()
	assert.Contains(t, out, "login successful")
	assert.Contains(t, out, "admin (id 1)")
	assert.Contains(t, out, "pass --keep")
	assert.NotContains(t, out, "Bearer ey", "token should be masked")
	assert.False(t, f.rt.Service.IsLoggedIn(), "login is undone without --keep")

	events, err := f.rt.History.RecentFor(context.Background(), "admin", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, storage.EventLogout, events[0].Type)
	assert.Equal(t, storage.EventLoginSuccess, events[1].Type)
}

func TestHandleLogin_KeepAndShowToken(t *testing.T) {
	f := newFixture(t)

	err := HandleLogin(context.Background(), f.env, Args{Username: "admin", Keep: true, ShowToken: true})
	require.NoError(t, err)

	header, ok := f.rt.Service.CurrentToken()
	require.True(t, ok)
	assert.Contains(t, f.out.String(), header)
	assert.True(t, f.rt.Service.IsLoggedIn())
}

func TestHandleLogin_PromptsForMissingCredentials(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, HandleLogin(context.Background(), f.env, Args{Quiet: true}))
	assert.Equal(t, []string{"Username: ", "Password: "}, f.prompter.asked)
	assert.Empty(t, f.out.String())
}

func TestHandleLogin_PasswordFromEnvironment(t *testing.T) {
	f := newFixture(t)
	t.Setenv(PasswordEnv, "123456")
	f.prompter.password = "wrong"

	require.NoError(t, HandleLogin(context.Background(), f.env, Args{Username: "admin", Quiet: true}))
	assert.Empty(t, f.prompter.asked)
}

func TestHandleLogin_Rejected(t *testing.T) {
	f := newFixture(t)
	f.prompter.password = "nope"

	err := HandleLogin(context.Background(), f.env, Args{Username: "admin"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoginRejected))
	assert.Equal(t, ExitAuthError, GetExitCode(err))
	assert.Contains(t, f.out.String(), "invalid username or password")
	assert.False(t, f.rt.Service.IsLoggedIn())

	events, err := f.rt.History.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, storage.EventLoginFailure, events[0].Type)
}

func TestHandleLogin_EmptyPassword(t *testing.T) {
	f := newFixture(t)
	f.prompter.password = ""

	err := HandleLogin(context.Background(), f.env, Args{Username: "admin"})
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleLogin_JSON(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, HandleLogin(context.Background(), f.env, Args{Username: "admin", JSON: true}))

	resp, data := decodeJSON(t, f.out.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, "login", resp.Command)
	assert.Equal(t, "admin", data["username"])
	assert.EqualValues(t, mockapi.DefaultTTL.Seconds(), data["expires_in"])
	assert.Contains(t, data["token"], "…")
}

func TestHandleLogin_Unreachable(t *testing.T) {
	f := newFixture(t)
	f.server.Close()

	err := HandleLogin(context.Background(), f.env, Args{Username: "admin"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, auth.ErrTransport))
	assert.Equal(t, ExitNetworkError, GetExitCode(err))
}

func TestHandleLogin_ShowsPreviousLogin(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, HandleLogin(context.Background(), f.env, Args{Username: "admin"}))
	assert.NotContains(t, f.out.String(), "Previous login")

	f.out.Reset()
	require.NoError(t, HandleLogin(context.Background(), f.env, Args{Username: "admin", JSON: true}))
	_, data := decodeJSON(t, f.out.Bytes())
	assert.NotEmpty(t, data["previous_login"])

	f.out.Reset()
	require.NoError(t, HandleLogin(context.Background(), f.env, Args{Username: "admin"}))
	assert.Contains(t, f.out.String(), "Previous login")
}

func TestHandleLogin_FailureEnvelopeWithCode200(t *testing.T) {
	rt, env, out := newStubEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":false,"code":200,"message":"account locked",`+
			`"data":{"accessToken":"tok","tokenType":"Bearer","expiresIn":3600,"username":"admin","userId":1}}`)
	})

	err := HandleLogin(context.Background(), env, Args{Keep: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoginRejected))
	assert.Equal(t, ExitAuthError, GetExitCode(err))
	assert.Contains(t, out.String(), "account locked")
	assert.NotContains(t, out.String(), "Authorization")
	assert.False(t, rt.Service.IsLoggedIn())

	events, err := rt.History.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, storage.EventLoginFailure, events[0].Type)
}

// =============================================================================
// CALL
// =============================================================================

func TestHandleCall_ListOrders(t *testing.T) {
	f := newFixture(t)

	err := HandleCall(context.Background(), f.env, Args{Username: "admin", Method: "GET", Path: "/api/orders"})
	require.NoError(t, err)

	out := f.out.String()
	assert.Contains(t, out, "GET /api/orders -> 200")
	assert.Contains(t, out, "Drive shaft DS-18")
	assert.False(t, f.rt.Service.IsLoggedIn(), "call logs out afterwards")
}

func TestHandleCall_CreateOrderJSON(t *testing.T) {
	f := newFixture(t)

	err := HandleCall(context.Background(), f.env, Args{
		Username: "admin",
		Method:   "POST",
		Path:     "/api/orders",
		Data:     `{"product":"Axle A-2","quantity":12}`,
		JSON:     true,
	})
	require.NoError(t, err)

	resp, data := decodeJSON(t, f.out.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, "POST", data["method"])
	assert.Contains(t, fmt.Sprint(data["body"]), "Axle A-2")
}

func TestHandleCall_OversizedBody(t *testing.T) {
	_, env, _ := newStubEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == auth.DefaultLoginPath {
			fmt.Fprint(w, `{"success":true,"code":200,"message":"ok",`+
				`"data":{"accessToken":"tok","tokenType":"Bearer","expiresIn":3600,"username":"admin","userId":1}}`)
			return
		}
		if r.URL.Path == auth.DefaultLogoutPath {
			fmt.Fprint(w, `{"success":true,"code":200,"message":"bye"}`)
			return
		}
		w.Write([]byte(strings.Repeat("a", auth.MaxResponseSize+1)))
	})

	err := HandleCall(context.Background(), env, Args{Username: "admin", Method: "GET", Path: "/api/export"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, auth.ErrMalformedResponse))
	assert.Contains(t, err.Error(), "maximum size")
}

func TestHandleCall_InvalidData(t *testing.T) {
	f := newFixture(t)

	err := HandleCall(context.Background(), f.env, Args{Username: "admin", Method: "POST", Path: "/api/orders", Data: "{oops"})
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Empty(t, f.prompter.asked, "no login attempted")
}

func TestHandleCall_UnknownRoute(t *testing.T) {
	f := newFixture(t)

	err := HandleCall(context.Background(), f.env, Args{Username: "admin", Method: "GET", Path: "/api/nothing", Quiet: true})
	require.NoError(t, err)
	assert.NotContains(t, f.out.String(), "->")
}

// =============================================================================
// STATUS
// =============================================================================

func TestHandleStatus_Reachable(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, HandleStatus(context.Background(), f.env, Args{}))
	out := f.out.String()
	assert.Contains(t, out, "API reachable (HTTP 200")
	assert.Contains(t, out, f.server.URL)
	assert.Contains(t, out, "audit.log")
}

func TestHandleStatus_UnreachableJSON(t *testing.T) {
	f := newFixture(t)
	f.server.Close()

	require.NoError(t, HandleStatus(context.Background(), f.env, Args{JSON: true}))
	_, data := decodeJSON(t, f.out.Bytes())
	assert.Equal(t, false, data["reachable"])
	assert.NotEmpty(t, data["health_error"])
}

// =============================================================================
// CONFIG
// =============================================================================

func TestHandleConfig_GetSet(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, HandleConfig(f.env, Args{Subcommand: "get", ConfigKey: "api.base_url"}))
	assert.Equal(t, f.server.URL+"\n", f.out.String())

	f.out.Reset()
	require.NoError(t, HandleConfig(f.env, Args{Subcommand: "set", ConfigKey: "ui.theme", ConfigVal: "light"}))
	assert.Equal(t, "light", f.env.Config.UI.Theme)

	path, err := config.ConfigPathTOML()
	require.NoError(t, err)
	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "light", loaded.UI.Theme)
}

func TestHandleConfig_SetKeepsOverridesOutOfFile(t *testing.T) {
	f := newFixture(t)
	t.Setenv("MESDESK_API_URL", "http://override.invalid:9000")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "http://override.invalid:9000", cfg.API.BaseURL)
	f.env.Config = cfg

	require.NoError(t, HandleConfig(f.env, Args{Subcommand: "set", ConfigKey: "ui.start_menu", ConfigVal: "quality"}))
	assert.Equal(t, "quality", f.env.Config.UI.StartMenu)

	raw, err := os.ReadFile(filepath.Join(f.dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `start_menu = "quality"`)
	assert.NotContains(t, string(raw), "override.invalid")
	assert.NotContains(t, string(raw), filepath.Join(f.dir, "history.db"))
	assert.NotContains(t, string(raw), filepath.Join(f.dir, "mesdesk.log"))
}

func TestHandleConfig_SetRejectsInvalid(t *testing.T) {
	f := newFixture(t)

	err := HandleConfig(f.env, Args{Subcommand: "set", ConfigKey: "ui.theme", ConfigVal: "neon"})
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
	assert.Equal(t, "auto", f.env.Config.UI.Theme, "config unchanged")

	err = HandleConfig(f.env, Args{Subcommand: "set", ConfigKey: "ui.nothing", ConfigVal: "1"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = HandleConfig(f.env, Args{Subcommand: "get"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleConfig_InitPathKeys(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, HandleConfig(f.env, Args{Subcommand: "init"}))
	path := filepath.Join(f.dir, "config.toml")
	_, err := os.Stat(path)
	require.NoError(t, err)

	err = HandleConfig(f.env, Args{Subcommand: "init"})
	assert.Error(t, err, "init refuses to overwrite")

	f.out.Reset()
	require.NoError(t, HandleConfig(f.env, Args{Subcommand: "path"}))
	assert.Equal(t, path, strings.TrimSpace(f.out.String()))

	f.out.Reset()
	require.NoError(t, HandleConfig(f.env, Args{Subcommand: "keys"}))
	assert.Contains(t, f.out.String(), "api.base_url")
	assert.Contains(t, f.out.String(), "storage.history_path")
}

// =============================================================================
// HISTORY
// =============================================================================

func TestHandleHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, HandleLogin(ctx, f.env, Args{Username: "admin", Quiet: true}))
	f.prompter.username, f.prompter.password = "operator", "bad"
	require.Error(t, HandleLogin(ctx, f.env, Args{}))

	f.out.Reset()
	require.NoError(t, HandleHistory(ctx, f.env, Args{Limit: 10}))
	out := f.out.String()
	assert.Contains(t, out, "login success")
	assert.Contains(t, out, "login failure")
	assert.Contains(t, out, "operator")

	f.out.Reset()
	require.NoError(t, HandleHistory(ctx, f.env, Args{Username: "admin", Limit: 10, JSON: true}))
	var resp struct {
		Data []storage.AuthEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	for _, e := range resp.Data {
		assert.Equal(t, "admin", e.Username)
	}
}

func TestHandleHistory_EmptyAndDisabled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, HandleHistory(ctx, f.env, Args{Limit: 5}))
	assert.Contains(t, f.out.String(), "No events recorded yet")

	f.env.History = nil
	assert.Error(t, HandleHistory(ctx, f.env, Args{Limit: 5}))
}

// =============================================================================
// RUNTIME AND RECORDERS
// =============================================================================

func TestAuditRecorder_WritesEvents(t *testing.T) {
	f := newFixture(t)
	f.prompter.password = "nope"
	_ = HandleLogin(context.Background(), f.env, Args{Username: "admin"})

	raw, err := os.ReadFile(f.rt.Config.Logging.AuditLogPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"event_type":"login_failure"`)
	assert.Contains(t, string(raw), `"success":false`)
	assert.NotContains(t, string(raw), "nope")
}

func TestSetup_DisabledFeatures(t *testing.T) {
	t.Setenv(config.ConfigDirEnv, t.TempDir())
	cfg := config.Default()
	cfg.Logging.AuditEnabled = false
	cfg.Storage.HistoryEnabled = false

	rt := Setup(cfg)
	assert.Nil(t, rt.Audit)
	assert.Nil(t, rt.History)
	assert.NotNil(t, rt.Service)
	assert.NoError(t, rt.Close())
}

func TestSetup_PrunesOldHistory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.ConfigDirEnv, dir)
	path := filepath.Join(dir, "history.db")
	ctx := context.Background()

	h, err := storage.OpenHistory(path)
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, h.Record(ctx, storage.AuthEvent{Type: storage.EventLoginSuccess, Username: "old", At: now.Add(-2 * HistoryRetention)}))
	require.NoError(t, h.Record(ctx, storage.AuthEvent{Type: storage.EventLoginSuccess, Username: "new", At: now.Add(-time.Hour)}))
	require.NoError(t, h.Close())

	cfg := config.Default()
	cfg.Logging.AuditEnabled = false
	cfg.Storage.HistoryPath = path
	rt := Setup(cfg)
	defer rt.Close()
	require.NotNil(t, rt.History)

	events, err := rt.History.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].Username)
}

// =============================================================================
// ERRORS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"missing argument", ErrMissingArgument("KEY", "usage"), ExitUsageError},
		{"config validation", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}, ExitConfigError},
		{"timeout", fmt.Errorf("wrap: %w", context.DeadlineExceeded), ExitTimeoutError},
		{"not logged in", fmt.Errorf("wrap: %w", auth.ErrNotLoggedIn), ExitAuthError},
		{"rejected", fmt.Errorf("%w: bad password", ErrLoginRejected), ExitAuthError},
		{"transport", fmt.Errorf("%w: refused", auth.ErrTransport), ExitNetworkError},
		{"no login recorded", storage.ErrNoLogin, ExitNotFoundError},
		{"command error wraps", NewCommandError("call", "GET", "failed", auth.ErrTransport), ExitNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, ErrMissingArgument("KEY", "mesdesk config get KEY"), false)
	assert.Contains(t, buf.String(), "KEY")

	buf.Reset()
	DisplayError(&buf, fmt.Errorf("%w: refused", auth.ErrTransport), true)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.EqualValues(t, ExitNetworkError, payload["exit_code"])
}
