// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"encoding/json"

	"github.com/jeranaias/mesdesk/internal/session"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// Response is the JSON envelope every API endpoint answers with.
type Response[T any] struct {
	Success   bool   `json:"success"`
	Code      uint32 `json:"code"`
	Message   string `json:"message"`
	Data      *T     `json:"data,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// OK reports whether the envelope describes a successful call. Some
// endpoints only set code, so 200 counts as success too.
func (r *Response[T]) OK() bool {
	if r == nil {
		return false
	}
	return r.Success || r.Code == 200
}

// Accepted reports whether the envelope is a success carrying data. Login
// uses this stricter rule: a code of 200 alone does not grant a session.
func (r *Response[T]) Accepted() bool {
	return r != nil && r.Success && r.Data != nil
}

// LoginRequest is the body posted to the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginData is the credential block of a successful login.
type LoginData struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   uint32 `json:"expiresIn"`
	Username    string `json:"username"`
	UserID      uint32 `json:"userId"`
}

// Credentials converts the login data into session credentials.
func (d LoginData) Credentials() session.Credentials {
	return session.Credentials{
		AccessToken: d.AccessToken,
		TokenType:   d.TokenType,
		ExpiresIn:   d.ExpiresIn,
		Username:    d.Username,
		UserID:      d.UserID,
	}
}

// LoginResponse is the login endpoint's envelope.
type LoginResponse = Response[LoginData]

// LogoutResponse is the logout endpoint's envelope. Its data block is not
// interpreted.
type LogoutResponse = Response[json.RawMessage]

// =============================================================================
// RESULT TYPES
// =============================================================================

// LogoutResult describes what happened during a logout.
type LogoutResult struct {
	// LoggedOut is always true: the local session is gone.
	LoggedOut bool

	// Notified reports whether the server confirmed the logout.
	Notified bool

	// Response is the server's envelope, or a synthesized one when the
	// body could not be parsed. Nil if no response arrived.
	Response *LogoutResponse

	// Err is the swallowed failure, if any. Informational only.
	Err error
}

// UserInfo is the identity of the signed-in user.
type UserInfo struct {
	Username string
	UserID   uint32
}
