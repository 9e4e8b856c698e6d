// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package security holds mesdesk's transport and audit controls.
//
// # Transport
//
// ClientTLSConfig returns the TLS settings every outbound connection uses:
// TLS 1.2 minimum with the approved cipher suites only. NewHTTPTransport
// wraps a TLS config in a pooled http.Transport.
//
// # Audit
//
// AuditLogger appends one JSON object per line to the audit log. Every
// string field passes through the redactor chain first, so bearer tokens,
// JWTs and password pairs never reach the file.
//
//	logger, err := security.NewAuditLogger(security.DefaultAuditPath())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.LogAuth("login_success", "admin", true, nil)
package security
