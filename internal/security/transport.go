// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package security

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"
)

// =============================================================================
// TRANSPORT CONSTANTS
// =============================================================================

const (
	// MinTLSVersion is the minimum allowed TLS version (TLS 1.2).
	MinTLSVersion = tls.VersionTLS12

	// PreferredTLSVersion is the preferred TLS version (TLS 1.3).
	PreferredTLSVersion = tls.VersionTLS13

	// DefaultDialTimeout is the default timeout for establishing connections.
	DefaultDialTimeout = 10 * time.Second

	// DefaultHandshakeTimeout is the default TLS handshake timeout.
	DefaultHandshakeTimeout = 10 * time.Second
)

// =============================================================================
// APPROVED CIPHER SUITES
// =============================================================================

// ApprovedCipherSuites lists the TLS 1.2 cipher suites outbound connections
// may negotiate. TLS 1.3 suites are fixed by the runtime and not listed.
var ApprovedCipherSuites = []uint16{
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
	tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
}

// WeakCipherSuites are explicitly blocked cipher suites.
var WeakCipherSuites = map[uint16]string{
	tls.TLS_RSA_WITH_RC4_128_SHA:             "RC4 (weak)",
	tls.TLS_RSA_WITH_3DES_EDE_CBC_SHA:        "3DES (weak)",
	tls.TLS_ECDHE_RSA_WITH_3DES_EDE_CBC_SHA:  "3DES (weak)",
	tls.TLS_ECDHE_ECDSA_WITH_RC4_128_SHA:     "RC4 (weak)",
	tls.TLS_RSA_WITH_AES_128_CBC_SHA:         "CBC mode (vulnerable to padding oracle)",
	tls.TLS_RSA_WITH_AES_256_CBC_SHA:         "CBC mode (vulnerable to padding oracle)",
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA: "CBC mode (vulnerable to padding oracle)",
	tls.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA:   "CBC mode (vulnerable to padding oracle)",
}

// =============================================================================
// TLS CONFIGURATION
// =============================================================================

// ClientTLSConfig returns a fresh TLS configuration for outbound API calls.
func ClientTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:   MinTLSVersion,
		MaxVersion:   PreferredTLSVersion,
		CipherSuites: ApprovedCipherSuites,
	}
}

// ValidateTLSConfig checks that a caller-supplied TLS configuration does
// not weaken transport security.
func ValidateTLSConfig(cfg *tls.Config) error {
	if cfg == nil {
		return nil
	}
	if cfg.InsecureSkipVerify {
		return fmt.Errorf("TLS certificate verification must not be disabled")
	}
	if cfg.MinVersion != 0 && cfg.MinVersion < MinTLSVersion {
		return fmt.Errorf("TLS version %s is below minimum %s",
			tlsVersionToString(cfg.MinVersion), tlsVersionToString(MinTLSVersion))
	}
	for _, suite := range cfg.CipherSuites {
		if reason, weak := WeakCipherSuites[suite]; weak {
			return fmt.Errorf("weak cipher suite rejected: %s (%s)", tls.CipherSuiteName(suite), reason)
		}
	}
	return nil
}

// NewHTTPTransport returns a pooled transport using cfg. A nil cfg selects
// ClientTLSConfig.
func NewHTTPTransport(cfg *tls.Config) *http.Transport {
	if cfg == nil {
		cfg = ClientTLSConfig()
	}
	return &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: cfg,
		DialContext: (&net.Dialer{
			Timeout:   DefaultDialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: DefaultHandshakeTimeout,

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		ForceAttemptHTTP2: true,
	}
}

// tlsVersionToString converts a TLS version to a readable string.
func tlsVersionToString(version uint16) string {
	switch version {
	case tls.VersionTLS10:
		return "TLS 1.0"
	case tls.VersionTLS11:
		return "TLS 1.1"
	case tls.VersionTLS12:
		return "TLS 1.2"
	case tls.VersionTLS13:
		return "TLS 1.3"
	default:
		return fmt.Sprintf("unknown (0x%04x)", version)
	}
}
