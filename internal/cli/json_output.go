// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output support for scripting.

package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the response format of every command run with --json.
type JSONResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Error     *string     `json:"error"`
	Timestamp string      `json:"timestamp"`
	Command   string      `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response as indented JSON.
func (r *JSONResponse) Print(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// LoginData is the data of the login command.
type LoginData struct {
	Success   bool   `json:"success"`
	Code      uint32 `json:"code"`
	Message   string `json:"message"`
	Username  string `json:"username,omitempty"`
	UserID    uint32 `json:"user_id,omitempty"`
	ExpiresIn uint32 `json:"expires_in,omitempty"`
	Token     string `json:"token,omitempty"`
	Kept      bool   `json:"kept"`

	// PreviousLogin is the last recorded successful login before this one.
	PreviousLogin *time.Time `json:"previous_login,omitempty"`
}

// CallData is the data of the call command.
type CallData struct {
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// StatusData is the data of the status command.
type StatusData struct {
	ConfigPath   string `json:"config_path"`
	BaseURL      string `json:"base_url"`
	TimeoutSecs  int    `json:"timeout_secs"`
	Theme        string `json:"theme"`
	AuditEnabled bool   `json:"audit_enabled"`
	AuditPath    string `json:"audit_path,omitempty"`
	HistoryPath  string `json:"history_path,omitempty"`
	Reachable    bool   `json:"reachable"`
	HealthStatus int    `json:"health_status,omitempty"`
	HealthError  string `json:"health_error,omitempty"`
	LatencyMs    int64  `json:"latency_ms,omitempty"`
}
