// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "sub", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistory_RecordAndRecent(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, h.Record(ctx, AuthEvent{Type: EventLoginFailure, Username: "admin", Detail: "bad password", At: base}))
	require.NoError(t, h.Record(ctx, AuthEvent{Type: EventLoginSuccess, Username: "admin", UserID: 1, At: base.Add(time.Minute)}))
	require.NoError(t, h.Record(ctx, AuthEvent{Type: EventLoginSuccess, Username: "operator", UserID: 2, At: base.Add(2 * time.Minute)}))
	require.NoError(t, h.Record(ctx, AuthEvent{Type: EventLogout, Username: "admin", UserID: 1, At: base.Add(3 * time.Minute)}))

	all, err := h.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, EventLogout, all[0].Type)
	assert.Equal(t, EventLoginFailure, all[3].Type)
	assert.Equal(t, "bad password", all[3].Detail)
	assert.True(t, all[0].At.Equal(base.Add(3*time.Minute)))

	limited, err := h.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	admin, err := h.RecentFor(ctx, "admin", 0)
	require.NoError(t, err)
	require.Len(t, admin, 3)
	for _, e := range admin {
		assert.Equal(t, "admin", e.Username)
	}

	none, err := h.RecentFor(ctx, " ", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistory_LastLogin(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	_, err := h.LastLogin(ctx, "admin")
	assert.ErrorIs(t, err, ErrNoLogin)

	require.NoError(t, h.Record(ctx, AuthEvent{Type: EventLoginSuccess, Username: "admin", UserID: 1, At: base}))
	require.NoError(t, h.Record(ctx, AuthEvent{Type: EventLoginSuccess, Username: "admin", UserID: 1, At: base.Add(time.Hour)}))
	require.NoError(t, h.Record(ctx, AuthEvent{Type: EventLogout, Username: "admin", UserID: 1, At: base.Add(2 * time.Hour)}))

	last, err := h.LastLogin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), last.UserID)
	assert.True(t, last.At.Equal(base.Add(time.Hour)))
}

func TestHistory_RecordValidation(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()

	assert.Error(t, h.Record(ctx, AuthEvent{Username: "admin"}))

	require.NoError(t, h.Record(ctx, AuthEvent{Type: EventLoginFailure, Detail: strings.Repeat("x", 2000)}))
	events, err := h.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Len(t, events[0].Detail, maxDetailLength)
	assert.False(t, events[0].At.IsZero())
}

func TestHistory_DetailTruncatedByRune(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()

	// Three bytes per rune, so a byte cut would split one.
	detail := strings.Repeat("用户名或密码错误", 100)
	require.NoError(t, h.Record(ctx, AuthEvent{Type: EventLoginFailure, Username: "admin", Detail: detail}))

	events, err := h.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, utf8.ValidString(events[0].Detail))
	assert.Equal(t, maxDetailLength, utf8.RuneCountInString(events[0].Detail))
	assert.True(t, strings.HasPrefix(detail, events[0].Detail))
}

func TestHistory_Prune(t *testing.T) {
	h := openTestHistory(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, h.Record(ctx, AuthEvent{Type: EventLoginSuccess, Username: "admin", At: base.Add(time.Duration(i) * 24 * time.Hour)}))
	}

	n, err := h.Prune(ctx, base.Add(72*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	rest, err := h.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}

func TestHistory_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	h, err := OpenHistory(path)
	require.NoError(t, err)
	require.NoError(t, h.Record(ctx, AuthEvent{Type: EventLoginSuccess, Username: "admin", UserID: 1}))
	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	_, err = h.Recent(ctx, 1)
	assert.ErrorIs(t, err, ErrClosed)

	h2, err := OpenHistory(path)
	require.NoError(t, err)
	defer h2.Close()

	events, err := h2.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, path, h2.Path())

	info, err := os.Stat(path)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}
