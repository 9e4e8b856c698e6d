// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runtime.go - Wiring shared by the TUI and the commands.

package cli

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/mesdesk/internal/auth"
	"github.com/jeranaias/mesdesk/internal/config"
	"github.com/jeranaias/mesdesk/internal/security"
	"github.com/jeranaias/mesdesk/internal/session"
	"github.com/jeranaias/mesdesk/internal/storage"
)

// HistoryRetention is how long login history is kept. Older events are
// pruned when the history is opened.
const HistoryRetention = 90 * 24 * time.Hour

// Runtime is the process-wide set of collaborators built from the
// configuration.
type Runtime struct {
	Config  *config.Config
	Store   *session.Store
	Service *auth.Service

	// Optional; nil when disabled or when they failed to open.
	Audit   *security.AuditLogger
	History *storage.History
}

// Setup builds the session store and auth service for cfg and opens the
// audit log and history it enables. Neither of those is fatal: a failure
// is logged and the feature stays off.
func Setup(cfg *config.Config) *Runtime {
	rt := &Runtime{Config: cfg, Store: session.NewStore()}

	if cfg.Logging.AuditEnabled {
		audit, err := security.NewAuditLogger(cfg.Logging.AuditLogPath)
		if err != nil {
			log.Printf("audit log disabled: %v", err)
		} else {
			if cfg.Logging.AuditMaxSizeMB > 0 {
				audit.SetMaxSize(int64(cfg.Logging.AuditMaxSizeMB) * 1024 * 1024)
			}
			rt.Audit = audit
		}
	}
	if cfg.Storage.HistoryEnabled {
		history, err := storage.OpenHistory(cfg.Storage.HistoryPath)
		if err != nil {
			log.Printf("login history disabled: %v", err)
		} else {
			rt.History = history
			pruneHistory(history)
		}
	}

	client := auth.NewClient(cfg.API.BaseURL, rt.Store).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second).
		WithUserAgent(cfg.API.UserAgent)
	if strings.HasPrefix(cfg.API.BaseURL, "https://") {
		client.WithTLSConfig(security.ClientTLSConfig())
	}

	var recorders []auth.Recorder
	if rt.Audit != nil {
		recorders = append(recorders, AuditRecorder(rt.Audit))
	}
	if rt.History != nil {
		recorders = append(recorders, HistoryRecorder(rt.History))
	}

	rt.Service = auth.NewService(client,
		auth.WithLoginPath(cfg.API.LoginPath),
		auth.WithLogoutPath(cfg.API.LogoutPath),
		auth.WithRecorder(auth.MultiRecorder(recorders...)),
	)
	return rt
}

// Env returns a command environment on this runtime.
func (rt *Runtime) Env(out io.Writer, prompter Prompter) *Env {
	return &Env{
		Config:   rt.Config,
		Service:  rt.Service,
		History:  rt.History,
		Prompter: prompter,
		Out:      out,
	}
}

// Close releases the audit log and history.
func (rt *Runtime) Close() error {
	var errs []error
	if rt.History != nil {
		errs = append(errs, rt.History.Close())
	}
	if rt.Audit != nil {
		errs = append(errs, rt.Audit.Close())
	}
	return errors.Join(errs...)
}

func pruneHistory(h *storage.History) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := h.Prune(ctx, time.Now().Add(-HistoryRetention))
	if err != nil {
		log.Printf("login history: prune failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("login history: pruned %d old events", n)
	}
}

// =============================================================================
// RECORDERS
// =============================================================================

// AuditRecorder writes authentication events to the audit log.
func AuditRecorder(l *security.AuditLogger) auth.Recorder {
	return auth.RecorderFunc(func(e auth.Event) error {
		meta := map[string]string{}
		if e.UserID != 0 {
			meta["user_id"] = strconv.FormatUint(uint64(e.UserID), 10)
		}
		if e.Detail != "" {
			meta["detail"] = e.Detail
		}
		success := e.Type != auth.EventLoginFailure
		return l.LogAuth(string(e.Type), e.Username, success, meta)
	})
}

// HistoryRecorder stores authentication events in the login history.
func HistoryRecorder(h *storage.History) auth.Recorder {
	return auth.RecorderFunc(func(e auth.Event) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return h.Record(ctx, storage.AuthEvent{
			Type:     string(e.Type),
			Username: e.Username,
			UserID:   e.UserID,
			Detail:   e.Detail,
			At:       e.At,
		})
	})
}
