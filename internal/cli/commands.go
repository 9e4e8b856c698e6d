// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// commands.go - Handlers for the non-interactive commands.

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/mesdesk/internal/auth"
	"github.com/jeranaias/mesdesk/internal/config"
	"github.com/jeranaias/mesdesk/internal/storage"
	"github.com/jeranaias/mesdesk/internal/util"
)

// HealthPath is probed by the status command without credentials.
const HealthPath = "/health"

// Env is what a command runs against.
type Env struct {
	Config  *config.Config
	Service *auth.Service

	// History may be nil when disabled.
	History *storage.History

	Prompter Prompter
	Out      io.Writer
}

func (e *Env) out() io.Writer {
	if e.Out == nil {
		return os.Stdout
	}
	return e.Out
}

// =============================================================================
// LOGIN
// =============================================================================

// HandleLogin verifies credentials. The session is process-local, so it is
// logged out afterwards unless --keep is given.
func HandleLogin(ctx context.Context, env *Env, args Args) error {
	w := env.out()

	resp, previous, err := login(ctx, env, args.Username)
	if err != nil && !errors.Is(err, ErrLoginRejected) {
		return err
	}

	data := LoginData{Success: resp.Success, Code: resp.Code, Message: resp.Message, Kept: args.Keep}
	if err == nil {
		data.PreviousLogin = previous
		data.Username = resp.Data.Username
		data.UserID = resp.Data.UserID
		data.ExpiresIn = resp.Data.ExpiresIn
		if header, ok := env.Service.CurrentToken(); ok {
			data.Token = util.MaskSecret(header)
			if args.ShowToken {
				data.Token = header
			}
		}
	}

	if err == nil && !args.Keep {
		env.Service.Logout(ctx)
	}

	if args.JSON {
		if printErr := NewJSONResponse("login", data).Print(w); printErr != nil {
			return printErr
		}
		return err
	}

	if err != nil {
		fmt.Fprintf(w, "%s %s (code %d)\n", RenderStatus("fail"), resp.Message, resp.Code)
		return err
	}
	if args.Quiet {
		return nil
	}

	fmt.Fprintf(w, "%s %s\n", RenderStatus("ok"), resp.Message)
	fmt.Fprintln(w, RenderField("User", fmt.Sprintf("%s (id %d)", data.Username, data.UserID)))
	fmt.Fprintln(w, RenderField("Expires in", util.FormatRemaining(time.Duration(data.ExpiresIn)*time.Second)))
	fmt.Fprintln(w, RenderField("Authorization", data.Token))
	if data.PreviousLogin != nil {
		fmt.Fprintln(w, RenderField("Previous login", data.PreviousLogin.Local().Format("2006-01-02 15:04:05")))
	}
	if !args.Keep {
		fmt.Fprintln(w, DimStyle.Render("Logged out again; pass --keep to stay signed in for this process."))
	}
	return nil
}

// login signs in, prompting for missing credentials. A failure envelope is
// returned together with ErrLoginRejected. With history enabled it also
// returns the time of the user's previous successful login, if any.
func login(ctx context.Context, env *Env, username string) (*auth.LoginResponse, *time.Time, error) {
	username, password, err := credentials(env.Prompter, username)
	if err != nil {
		return nil, nil, err
	}

	// Looked up first, since a successful login becomes the new last one
	var previous *time.Time
	if env.History != nil {
		last, err := env.History.LastLogin(ctx, username)
		switch {
		case err == nil:
			previous = &last.At
		case !errors.Is(err, storage.ErrNoLogin):
			log.Printf("history: last login of %s: %v", username, err)
		}
	}

	resp, err := env.Service.Login(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}
	if !resp.Accepted() {
		return resp, nil, fmt.Errorf("%w: %s", ErrLoginRejected, resp.Message)
	}
	return resp, previous, nil
}

// =============================================================================
// CALL
// =============================================================================

// HandleCall logs in, sends one authenticated request and logs out.
func HandleCall(ctx context.Context, env *Env, args Args) error {
	w := env.out()

	var body any
	if args.Data != "" {
		if !json.Valid([]byte(args.Data)) {
			return ErrInvalidArgument("data", util.TruncateWidth(args.Data, 40), "not valid JSON")
		}
		body = json.RawMessage(args.Data)
	}

	if _, _, err := login(ctx, env, args.Username); err != nil {
		return err
	}
	defer env.Service.Logout(ctx)

	client := env.Service.Client()
	req, err := client.NewRequest(ctx, args.Method, args.Path, body)
	if err != nil {
		return NewCommandError("call", args.Method, "could not build request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := auth.ReadBody(resp)
	if err != nil {
		return err
	}

	if args.JSON {
		data := CallData{Method: args.Method, Path: args.Path, Status: resp.StatusCode}
		if json.Valid(raw) {
			data.Body = raw
		}
		return NewJSONResponse("call", data).Print(w)
	}

	status := "ok"
	if resp.StatusCode >= 400 {
		status = "fail"
	}
	if !args.Quiet {
		fmt.Fprintf(w, "%s %s %s -> %d\n", RenderStatus(status), args.Method, args.Path, resp.StatusCode)
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") == nil {
		fmt.Fprintln(w, pretty.String())
	} else {
		fmt.Fprintln(w, string(raw))
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: server rejected the token", auth.ErrNotLoggedIn)
	}
	return nil
}

// =============================================================================
// STATUS
// =============================================================================

// HandleStatus prints the configuration summary and probes the API.
func HandleStatus(ctx context.Context, env *Env, args Args) error {
	w := env.out()
	cfg := env.Config

	data := StatusData{
		BaseURL:      cfg.API.BaseURL,
		TimeoutSecs:  cfg.API.TimeoutSecs,
		Theme:        cfg.UI.Theme,
		AuditEnabled: cfg.Logging.AuditEnabled,
	}
	if path, err := config.ConfigPathTOML(); err == nil {
		data.ConfigPath = path
	}
	if cfg.Logging.AuditEnabled {
		data.AuditPath = cfg.Logging.AuditLogPath
	}
	if cfg.Storage.HistoryEnabled {
		data.HistoryPath = cfg.Storage.HistoryPath
	}

	client := env.Service.Client()
	start := time.Now()
	req, err := client.NewRawRequest(ctx, http.MethodGet, HealthPath, nil)
	if err == nil {
		var resp *http.Response
		if resp, err = client.Do(req); err == nil {
			resp.Body.Close()
			data.HealthStatus = resp.StatusCode
			data.Reachable = resp.StatusCode < 500
			data.LatencyMs = time.Since(start).Milliseconds()
		}
	}
	if err != nil {
		data.HealthError = err.Error()
	}

	if args.JSON {
		return NewJSONResponse("status", data).Print(w)
	}

	fmt.Fprintln(w, TitleStyle.Render("mesdesk status"))
	fmt.Fprintln(w, RenderField("Config file", data.ConfigPath))
	fmt.Fprintln(w, RenderField("API", data.BaseURL))
	fmt.Fprintln(w, RenderField("Timeout", fmt.Sprintf("%ds", data.TimeoutSecs)))
	fmt.Fprintln(w, RenderField("Theme", data.Theme))
	if data.AuditEnabled {
		fmt.Fprintln(w, RenderField("Audit log", data.AuditPath))
	} else {
		fmt.Fprintln(w, RenderField("Audit log", "disabled"))
	}
	if data.HistoryPath != "" {
		fmt.Fprintln(w, RenderField("History", data.HistoryPath))
	} else {
		fmt.Fprintln(w, RenderField("History", "disabled"))
	}

	fmt.Fprintln(w)
	if data.Reachable {
		fmt.Fprintf(w, "%s API reachable (HTTP %d, %dms)\n", RenderStatus("ok"), data.HealthStatus, data.LatencyMs)
		return nil
	}
	if data.HealthError != "" {
		fmt.Fprintf(w, "%s API unreachable: %s\n", RenderStatus("fail"), data.HealthError)
	} else {
		fmt.Fprintf(w, "%s API unhealthy (HTTP %d)\n", RenderStatus("warn"), data.HealthStatus)
	}
	return nil
}

// =============================================================================
// CONFIG
// =============================================================================

// HandleConfig manages the configuration file.
func HandleConfig(env *Env, args Args) error {
	w := env.out()
	cfg := env.Config

	switch args.Subcommand {
	case "", "show":
		if args.JSON {
			return NewJSONResponse("config", cfg).Print(w)
		}
		fmt.Fprint(w, cfg.String())
		return nil

	case "get":
		if args.ConfigKey == "" {
			return ErrMissingArgument("KEY", "mesdesk config get api.base_url")
		}
		value, err := cfg.Get(args.ConfigKey)
		if err != nil {
			return ErrInvalidArgument("key", args.ConfigKey, err.Error())
		}
		if args.JSON {
			return NewJSONResponse("config", map[string]interface{}{args.ConfigKey: value}).Print(w)
		}
		fmt.Fprintln(w, value)
		return nil

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return ErrMissingArgument("KEY VALUE", "mesdesk config set ui.theme dark")
		}
		next := cfg.Clone()
		if err := next.Set(args.ConfigKey, args.ConfigVal); err != nil {
			return ErrInvalidArgument("key", args.ConfigKey, err.Error())
		}
		next.SetDefaults()
		if err := next.Validate(); err != nil {
			return err
		}
		err := config.Update(func(c *config.Config) error {
			return c.Set(args.ConfigKey, args.ConfigVal)
		})
		if err != nil {
			return NewCommandError("config", "set", "could not save", err)
		}
		*cfg = *next
		if !args.Quiet {
			fmt.Fprintf(w, "%s %s = %s\n", RenderStatus("ok"), args.ConfigKey, args.ConfigVal)
		}
		return nil

	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, path)
		return nil

	case "init":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			return NewCommandError("config", "init", "file already exists: "+path, nil)
		}
		if err := config.Save(config.Default()); err != nil {
			return NewCommandError("config", "init", "could not save", err)
		}
		fmt.Fprintf(w, "%s wrote %s\n", RenderStatus("ok"), path)
		return nil

	case "keys":
		fmt.Fprintln(w, strings.Join(config.GetAllKeys(), "\n"))
		return nil
	}
	return ErrInvalidArgument("config subcommand", args.Subcommand, "expected show, get, set, path, init or keys")
}

// =============================================================================
// HISTORY
// =============================================================================

// HandleHistory prints recorded authentication events, newest first.
func HandleHistory(ctx context.Context, env *Env, args Args) error {
	w := env.out()
	if env.History == nil {
		return NewCommandError("history", "show", "history is disabled (storage.history_enabled)", nil)
	}

	limit := args.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var events []storage.AuthEvent
	var err error
	if args.Username != "" {
		events, err = env.History.RecentFor(ctx, args.Username, limit)
	} else {
		events, err = env.History.Recent(ctx, limit)
	}
	if err != nil {
		return NewCommandError("history", "show", "could not read history", err)
	}

	if args.JSON {
		if events == nil {
			events = []storage.AuthEvent{}
		}
		return NewJSONResponse("history", events).Print(w)
	}

	if len(events) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No events recorded yet."))
		return nil
	}

	fmt.Fprintln(w, TitleStyle.Render("Authentication history"))
	for _, e := range events {
		status := "ok"
		switch e.Type {
		case storage.EventLoginFailure:
			status = "fail"
		case storage.EventSessionExpired:
			status = "warn"
		}
		line := fmt.Sprintf("%s %s  %s  %s",
			RenderStatus(status),
			e.At.Local().Format("2006-01-02 15:04:05"),
			util.PadRight(e.Username, 16),
			strings.ReplaceAll(e.Type, "_", " "))
		if e.Detail != "" {
			line += DimStyle.Render("  " + util.TruncateWidth(e.Detail, 48))
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
