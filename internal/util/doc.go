// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the mesdesk packages.
//
// # Key Functions
//
// Display:
//   - TruncateWidth, PadRight, StringWidth: column-aware text layout
//   - MaskSecret: shortened token display
//   - FormatRemaining: compact session countdown
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	label := util.TruncateWidth(username, 16)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
