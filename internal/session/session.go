// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"time"
)

// =============================================================================
// SESSION RECORD
// =============================================================================

// Session is one authenticated user's credentials and validity window.
type Session struct {
	UserID      uint32
	Username    string
	AccessToken string
	TokenType   string

	// ExpiresIn is the validity window in seconds.
	ExpiresIn uint32

	// LoginTime is when the session was created, in unix seconds.
	LoginTime int64
}

// Credentials is the credential payload returned by a successful login.
// It mirrors the data block of the login envelope.
type Credentials struct {
	AccessToken string
	TokenType   string
	ExpiresIn   uint32
	Username    string
	UserID      uint32
}

// FromLogin builds a session from login credentials, stamped at now.
func FromLogin(c Credentials, now time.Time) Session {
	return Session{
		UserID:      c.UserID,
		Username:    c.Username,
		AccessToken: c.AccessToken,
		TokenType:   c.TokenType,
		ExpiresIn:   c.ExpiresIn,
		LoginTime:   now.Unix(),
	}
}

// ExpiresAt returns the last second at which the session is still valid.
func (s Session) ExpiresAt() time.Time {
	return time.Unix(s.LoginTime+int64(s.ExpiresIn), 0)
}

// IsExpiredAt reports whether the token has expired at the given time.
// Comparison is done in whole seconds: the session is valid while
// now <= LoginTime + ExpiresIn.
func (s Session) IsExpiredAt(now time.Time) bool {
	return now.Unix() > s.LoginTime+int64(s.ExpiresIn)
}

// RemainingAt returns how long the session stays valid after now.
func (s Session) RemainingAt(now time.Time) time.Duration {
	left := s.ExpiresAt().Sub(now.Truncate(time.Second))
	if left < 0 {
		return 0
	}
	return left
}

// AuthHeader returns the Authorization header value, "{type} {token}".
func (s Session) AuthHeader() string {
	return s.TokenType + " " + s.AccessToken
}
