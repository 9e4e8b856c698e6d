// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage keeps mesdesk's local sign-in history.
//
// History is an append-only SQLite table of authentication events (logins,
// failed logins, logouts and expiries). It never stores tokens or
// passwords. The session itself is not persisted; only the record that it
// happened.
//
// # Usage
//
//	h, err := storage.OpenHistory(storage.DefaultHistoryPath())
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	_ = h.Record(ctx, storage.AuthEvent{Type: "login_success", Username: "admin", UserID: 1})
//	recent, _ := h.RecentFor(ctx, "admin", 5)
//
// # Storage Location
//
// The database lives at ~/.mesdesk/history.db unless configured otherwise.
package storage
