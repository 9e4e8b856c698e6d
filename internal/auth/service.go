// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/mesdesk/internal/session"
)

// Default endpoint paths.
const (
	DefaultLoginPath  = "/api/auth/login"
	DefaultLogoutPath = "/api/auth/logout"
)

// localLogoutMessage is the message of the envelope synthesized when the
// logout response cannot be parsed.
const localLogoutMessage = "logged out locally"

// =============================================================================
// SERVICE
// =============================================================================

// Service runs the login and logout flows and answers the session queries
// the UI needs.
type Service struct {
	client     *Client
	store      *session.Store
	loginPath  string
	logoutPath string
	recorder   Recorder
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLoginPath overrides the login endpoint path.
func WithLoginPath(path string) ServiceOption {
	return func(s *Service) {
		if path != "" {
			s.loginPath = path
		}
	}
}

// WithLogoutPath overrides the logout endpoint path.
func WithLogoutPath(path string) ServiceOption {
	return func(s *Service) {
		if path != "" {
			s.logoutPath = path
		}
	}
}

// WithRecorder sets the recorder that receives authentication events.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		s.recorder = r
	}
}

// NewService creates a Service on top of client, sharing its session store.
func NewService(client *Client, opts ...ServiceOption) *Service {
	s := &Service{
		client:     client,
		store:      client.Store(),
		loginPath:  DefaultLoginPath,
		logoutPath: DefaultLogoutPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client returns the underlying API client.
func (s *Service) Client() *Client {
	return s.client
}

// =============================================================================
// LOGIN
// =============================================================================

// Login posts the credentials to the login endpoint. On a successful
// envelope carrying data, the new session replaces any existing one.
//
// The envelope is returned for both success and failure. Only transport
// and parse failures are errors.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	username = norm.NFC.String(username)

	req, err := s.client.NewRawRequest(ctx, http.MethodPost, s.loginPath, LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var resp LoginResponse
	if _, err := s.client.DoJSON(req, &resp); err != nil {
		s.record(Event{Type: EventLoginFailure, Username: username, Detail: err.Error()})
		return nil, err
	}

	if !resp.Accepted() {
		detail := resp.Message
		if resp.Success {
			detail = "login response carried no credentials"
		}
		log.Printf("auth: login failed for %s (code %d)", username, resp.Code)
		s.record(Event{Type: EventLoginFailure, Username: username, Detail: detail})
		return &resp, nil
	}

	sess := session.FromLogin(resp.Data.Credentials(), s.store.Now())
	s.store.Set(sess)

	log.Printf("auth: user %s (id %d) logged in", sess.Username, sess.UserID)
	s.record(Event{Type: EventLoginSuccess, Username: sess.Username, UserID: sess.UserID})
	return &resp, nil
}

// =============================================================================
// LOGOUT
// =============================================================================

// Logout notifies the server on a best-effort basis and always clears the
// local session. The result always reports LoggedOut.
func (s *Service) Logout(ctx context.Context) LogoutResult {
	result := LogoutResult{LoggedOut: true}

	prev, had := s.store.Current()
	defer func() {
		s.store.Clear()
		if had {
			detail := "server confirmed"
			if !result.Notified {
				detail = "local only"
			}
			s.record(Event{Type: EventLogout, Username: prev.Username, UserID: prev.UserID, Detail: detail})
		}
	}()

	req, err := s.client.Post(ctx, s.logoutPath, nil)
	if err != nil {
		result.Err = err
		return result
	}

	var resp LogoutResponse
	if _, err := s.client.DoJSON(req, &resp); err != nil {
		result.Err = err
		if errors.Is(err, ErrMalformedResponse) {
			result.Response = &LogoutResponse{Success: true, Code: 200, Message: localLogoutMessage}
		}
		log.Printf("auth: logout notification failed, clearing local session anyway")
		return result
	}

	result.Response = &resp
	result.Notified = resp.OK()
	if !result.Notified {
		result.Err = fmt.Errorf("logout rejected (code %d): %s", resp.Code, resp.Message)
		log.Printf("auth: server rejected logout (code %d), clearing local session anyway", resp.Code)
	}
	return result
}

// =============================================================================
// QUERIES
// =============================================================================

// IsLoggedIn reports whether a valid session exists.
func (s *Service) IsLoggedIn() bool {
	return s.CheckSession()
}

// CurrentUser returns the signed-in user, if the session is valid.
func (s *Service) CurrentUser() (UserInfo, bool) {
	name, id, ok := s.store.UserInfo()
	if !ok {
		return UserInfo{}, false
	}
	return UserInfo{Username: name, UserID: id}, true
}

// CurrentToken returns the Authorization header of the valid session.
func (s *Service) CurrentToken() (string, bool) {
	return s.store.AuthHeader()
}

// CurrentSession returns the valid session.
func (s *Service) CurrentSession() (session.Session, bool) {
	return s.store.Valid()
}

// CheckSession reports whether the session is still valid. If this call
// evicts an expired session, a session-expired event is recorded.
func (s *Service) CheckSession() bool {
	sess, ok, expired := s.store.Peek()
	if !ok {
		return false
	}
	if !expired {
		return true
	}
	if s.store.EvictExpired() {
		s.record(Event{Type: EventSessionExpired, Username: sess.Username, UserID: sess.UserID})
	}
	return false
}

// record delivers an event to the recorder. Failures are only logged.
func (s *Service) record(e Event) {
	if s.recorder == nil {
		return
	}
	if e.At.IsZero() {
		e.At = s.store.Now()
	}
	if err := s.recorder.Record(e); err != nil {
		log.Printf("auth: failed to record %s event: %v", e.Type, err)
	}
}
