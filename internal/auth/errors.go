// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import "errors"

// Error variables for the three failure classes callers distinguish.
var (
	// ErrNotLoggedIn indicates there is no session, or it has expired.
	// Callers should send the user back to login rather than retry.
	ErrNotLoggedIn = errors.New("not logged in or token expired")

	// ErrTransport indicates the request never produced a response
	// (connection refused, DNS failure, timeout, cancelled context).
	ErrTransport = errors.New("request failed")

	// ErrMalformedResponse indicates the body could not be read or did not
	// decode into the expected envelope.
	ErrMalformedResponse = errors.New("malformed response")
)
