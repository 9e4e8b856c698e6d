// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for mesdesk.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, .env files and validation.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - APIConfig: MES API endpoint, auth paths and timeout
//   - UIConfig: Theme and start menu
//   - LoggingConfig: Operational log and audit log
//   - StorageConfig: Local sign-in history
//   - Watcher: Reloads the config file when it changes
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (MESDESK_*), including those from .env
//   - ~/.mesdesk/config.toml
//   - ~/.mesdesk/config.json
//   - Built-in defaults
//
// # Usage
//
//	_ = config.LoadDotEnv()
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Persist a change without writing env overrides back to the file
//	config.Update(func(c *config.Config) error {
//	    return c.Set("ui.theme", "dark")
//	})
package config
