// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// PasswordEnv supplies the password for non-interactive logins.
const PasswordEnv = "MESDESK_PASSWORD"

// Prompter asks the user for credentials.
type Prompter interface {
	Username(prompt string) (string, error)
	Password(prompt string) (string, error)
}

// TerminalPrompter reads the username with line editing and the password
// without echo.
type TerminalPrompter struct {
	// Out receives the newline after hidden input.
	Out io.Writer
}

// Username reads a line with liner.
func (p TerminalPrompter) Username(prompt string) (string, error) {
	if err := RequiresTTY("read a username"); err != nil {
		return "", err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	input, err := line.Prompt(prompt)
	if err != nil {
		if err == liner.ErrPromptAborted {
			return "", fmt.Errorf("username prompt aborted")
		}
		return "", fmt.Errorf("failed to read username: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// Password reads a password from stdin without echoing.
func (p TerminalPrompter) Password(prompt string) (string, error) {
	if err := RequiresTTY("read a password"); err != nil {
		return "", err
	}

	out := p.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprint(out, prompt)
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(passBytes), nil
}

// credentials resolves the username and password for a login, prompting
// for whatever the flags and environment did not supply.
func credentials(p Prompter, username string) (string, string, error) {
	var err error
	if strings.TrimSpace(username) == "" {
		if username, err = p.Username("Username: "); err != nil {
			return "", "", err
		}
	}
	if username == "" {
		return "", "", ErrMissingArgument("username", "mesdesk login -u admin")
	}

	password := os.Getenv(PasswordEnv)
	if password == "" {
		if password, err = p.Password("Password: "); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		return "", "", ErrMissingArgument("password", PasswordEnv+"=... mesdesk login -u admin")
	}
	return username, password, nil
}
