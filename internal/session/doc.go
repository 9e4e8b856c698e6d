// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the signed-in user's session for mesdesk.
//
// A Store keeps zero or one current Session. Expiry is checked lazily: a
// session is valid while now <= LoginTime + ExpiresIn, and the first valid
// read after expiry empties the store. There is no background sweep.
//
// # Key Types
//
//   - Session: user identity, access token and validity window
//   - Store: mutex-guarded slot for the current session
//
// # Usage
//
//	store := session.NewStore()
//	store.Set(session.FromLogin(creds, store.Now()))
//
//	if header, ok := store.AuthHeader(); ok {
//	    req.Header.Set("Authorization", header)
//	}
//
// Tests inject a clock with session.WithClock.
package session
