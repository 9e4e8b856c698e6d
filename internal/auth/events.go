// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"time"
)

// EventType names an authentication event.
type EventType string

// Authentication event types.
const (
	EventLoginSuccess   EventType = "login_success"
	EventLoginFailure   EventType = "login_failure"
	EventLogout         EventType = "logout"
	EventSessionExpired EventType = "session_expired"
)

// Event is one authentication event, as seen by a Recorder.
type Event struct {
	Type     EventType
	Username string
	UserID   uint32
	At       time.Time
	Detail   string
}

// Recorder receives authentication events. Recording errors are logged and
// otherwise ignored.
type Recorder interface {
	Record(Event) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(Event) error

// Record calls f(e).
func (f RecorderFunc) Record(e Event) error {
	return f(e)
}

// MultiRecorder fans each event out to every non-nil recorder. All
// recorders run even if one fails; the errors are joined.
func MultiRecorder(recorders ...Recorder) Recorder {
	var rs []Recorder
	for _, r := range recorders {
		if r != nil {
			rs = append(rs, r)
		}
	}
	return RecorderFunc(func(e Event) error {
		var errs []error
		for _, r := range rs {
			if err := r.Record(e); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
