// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive
// commands of mesdesk.
//
// # Key Types
//
//   - Command: enumeration of the available commands
//   - Args: parsed global and command-specific flags
//   - Env: the collaborators a command runs against
//   - Prompter: interactive username and password input
//
// # Usage
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	if err != nil {
//	    cli.HandleErrorAndExit(os.Stderr, err, false)
//	}
//	switch cmd {
//	case cli.CmdLogin:
//	    err = cli.HandleLogin(ctx, env, args)
//	// ... other commands
//	}
//
// # Commands Overview
//
//   - tui: the interactive terminal UI (default)
//   - login: verify credentials against the API
//   - call: one authenticated request
//   - status: configuration summary and API reachability
//   - config: show, get, set, path, init
//   - history: recorded authentication events
//   - version, help
package cli
