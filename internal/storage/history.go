// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Event type names stored in the type column. They match the auth
// package's event types.
const (
	EventLoginSuccess   = "login_success"
	EventLoginFailure   = "login_failure"
	EventLogout         = "logout"
	EventSessionExpired = "session_expired"
)

// DefaultRecentLimit is used when a caller passes a non-positive limit.
const DefaultRecentLimit = 20

// maxDetailLength caps the stored detail text, in runes.
const maxDetailLength = 500

var (
	// ErrClosed is returned by operations on a closed History.
	ErrClosed = errors.New("history is closed")

	// ErrNoLogin is returned by LastLogin when the user never logged in.
	ErrNoLogin = errors.New("no recorded login")
)

// AuthEvent is one row of the sign-in history.
type AuthEvent struct {
	ID       int64     `json:"id"`
	Type     string    `json:"type"`
	Username string    `json:"username"`
	UserID   uint32    `json:"user_id"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

// =============================================================================
// HISTORY
// =============================================================================

// History is the SQLite-backed sign-in history.
type History struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// DefaultHistoryPath returns ~/.mesdesk/history.db.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".mesdesk", "history.db")
}

// OpenHistory opens or creates the history database at path.
func OpenHistory(path string) (*History, error) {
	if path == "" {
		path = DefaultHistoryPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	// The file may hold usernames; keep it private.
	_ = os.Chmod(path, 0600)

	return &History{db: db, path: path}, nil
}

// Path returns the database file path.
func (h *History) Path() string {
	return h.path
}

// Close closes the database. Closing twice is a no-op.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}

func (h *History) conn() (*sql.DB, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil, ErrClosed
	}
	return h.db, nil
}

// =============================================================================
// WRITES
// =============================================================================

// Record appends an event. A zero At is stamped with the current time.
func (h *History) Record(ctx context.Context, e AuthEvent) error {
	db, err := h.conn()
	if err != nil {
		return err
	}

	if e.Type == "" {
		return fmt.Errorf("event type is required")
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	detail := e.Detail
	if utf8.RuneCountInString(detail) > maxDetailLength {
		detail = string([]rune(detail)[:maxDetailLength])
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO auth_events (type, username, user_id, detail, at) VALUES (?, ?, ?, ?, ?)`,
		e.Type, e.Username, int64(e.UserID), detail, e.At.Unix())
	if err != nil {
		return fmt.Errorf("failed to record %s event: %w", e.Type, err)
	}
	return nil
}

// Prune deletes events older than cutoff and returns how many were removed.
func (h *History) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	db, err := h.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM auth_events WHERE at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}

// =============================================================================
// READS
// =============================================================================

// Recent returns the newest events, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]AuthEvent, error) {
	return h.query(ctx, "", limit)
}

// RecentFor returns the newest events for one user, newest first.
func (h *History) RecentFor(ctx context.Context, username string, limit int) ([]AuthEvent, error) {
	if strings.TrimSpace(username) == "" {
		return nil, nil
	}
	return h.query(ctx, username, limit)
}

// LastLogin returns the most recent successful login of username.
func (h *History) LastLogin(ctx context.Context, username string) (AuthEvent, error) {
	db, err := h.conn()
	if err != nil {
		return AuthEvent{}, err
	}

	row := db.QueryRowContext(ctx,
		`SELECT id, type, username, user_id, detail, at FROM auth_events
		 WHERE username = ? AND type = ? ORDER BY at DESC, id DESC LIMIT 1`,
		username, EventLoginSuccess)

	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return AuthEvent{}, ErrNoLogin
	}
	return e, err
}

func (h *History) query(ctx context.Context, username string, limit int) ([]AuthEvent, error) {
	db, err := h.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var rows *sql.Rows
	if username == "" {
		rows, err = db.QueryContext(ctx,
			`SELECT id, type, username, user_id, detail, at FROM auth_events
			 ORDER BY at DESC, id DESC LIMIT ?`, limit)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, type, username, user_id, detail, at FROM auth_events
			 WHERE username = ? ORDER BY at DESC, id DESC LIMIT ?`, username, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var events []AuthEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (AuthEvent, error) {
	var (
		e      AuthEvent
		userID int64
		at     int64
	)
	if err := s.Scan(&e.ID, &e.Type, &e.Username, &userID, &e.Detail, &at); err != nil {
		return AuthEvent{}, err
	}
	e.UserID = uint32(userID)
	e.At = time.Unix(at, 0)
	return e, nil
}
