// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing for mesdesk.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdCall
	CmdStatus
	CmdConfig
	CmdHistory
	CmdVersion
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLogin:
		return "login"
	case CmdCall:
		return "call"
	case CmdStatus:
		return "status"
	case CmdConfig:
		return "config"
	case CmdHistory:
		return "history"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// DefaultHistoryLimit is how many events the history command shows.
const DefaultHistoryLimit = 20

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose bool
	Quiet   bool
	JSON    bool

	// login, call and history
	Username  string
	ShowToken bool
	Keep      bool

	// call
	Method string
	Path   string
	Data   string

	// config
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// history
	Limit int

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `mesdesk - terminal client for the MES management system

Usage:
  mesdesk                         Start the TUI (default)
  mesdesk tui                     Start the TUI
  mesdesk login [-u USER]         Verify credentials against the API
  mesdesk call METHOD PATH        Send one authenticated request
  mesdesk status                  Show configuration and API reachability
  mesdesk config [SUBCOMMAND]     Manage configuration
  mesdesk history                 Show recorded sign-ins and sign-outs
  mesdesk version                 Show version information
  mesdesk help                    Show this help

Login:
  -u, --user USER       Username (prompted when missing)
      --show-token      Print the full Authorization header
      --keep            Do not log out afterwards
  The password is read from MESDESK_PASSWORD or prompted without echo.

Call:
  mesdesk call GET /api/orders
  mesdesk call POST /api/orders --data '{"product":"Axle","quantity":10}'
  -u, --user USER       Username (prompted when missing)
  -d, --data JSON       Request body

Config:
  mesdesk config show             Print the effective configuration
  mesdesk config get KEY          Print one value (e.g. api.base_url)
  mesdesk config set KEY VALUE    Change one value and save
  mesdesk config path             Print the config file path
  mesdesk config init             Write a default config file
  mesdesk config keys             List the settable keys

History:
  -u, --user USER       Only events of this user
  -n, --limit N         Number of events (default 20)

Global Flags:
  -v, --verbose         Debug logging to stderr
  -q, --quiet           Minimal output
      --json            Output in JSON format

Environment:
  MESDESK_CONFIG_DIR, MESDESK_API_URL, MESDESK_TIMEOUT_SECS, MESDESK_THEME,
  MESDESK_LOG_FILE, MESDESK_AUDIT, MESDESK_HISTORY, MESDESK_HISTORY_PATH,
  MESDESK_PASSWORD. A .env file in the working directory is loaded first.

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "mesdesk version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses command-line arguments (without the program name).
// Global flags are accepted before the command or after it.
func Parse(argv []string) (Command, Args, error) {
	var args Args

	cmd := CmdTUI
	rest := argv
	if len(argv) > 0 && !strings.HasPrefix(argv[0], "-") {
		var ok bool
		if cmd, ok = lookupCommand(argv[0]); !ok {
			return CmdHelp, args, ErrInvalidArgument("command", argv[0], "unknown command")
		}
		rest = argv[1:]
	}

	fs := newFlagSet(cmd, &args)
	if err := fs.Parse(rest); err != nil {
		if err == pflag.ErrHelp {
			return CmdHelp, args, nil
		}
		return CmdHelp, args, ErrInvalidArgument("flag", strings.Join(rest, " "), err.Error())
	}
	args.Raw = fs.Args()

	if err := parsePositional(cmd, &args); err != nil {
		return cmd, args, err
	}
	return cmd, args, nil
}

func lookupCommand(name string) (Command, bool) {
	switch strings.ToLower(name) {
	case "tui":
		return CmdTUI, true
	case "login":
		return CmdLogin, true
	case "call":
		return CmdCall, true
	case "status", "s":
		return CmdStatus, true
	case "config":
		return CmdConfig, true
	case "history":
		return CmdHistory, true
	case "version":
		return CmdVersion, true
	case "help":
		return CmdHelp, true
	}
	return CmdHelp, false
}

// newFlagSet registers the global flags plus those of cmd.
func newFlagSet(cmd Command, args *Args) *pflag.FlagSet {
	fs := pflag.NewFlagSet("mesdesk "+cmd.String(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVarP(&args.Verbose, "verbose", "v", false, "debug logging to stderr")
	fs.BoolVarP(&args.Quiet, "quiet", "q", false, "minimal output")
	fs.BoolVar(&args.JSON, "json", false, "output in JSON format")

	switch cmd {
	case CmdLogin:
		fs.StringVarP(&args.Username, "user", "u", "", "username")
		fs.BoolVar(&args.ShowToken, "show-token", false, "print the full Authorization header")
		fs.BoolVar(&args.Keep, "keep", false, "do not log out afterwards")
	case CmdCall:
		fs.StringVarP(&args.Username, "user", "u", "", "username")
		fs.StringVarP(&args.Data, "data", "d", "", "request body")
	case CmdHistory:
		fs.StringVarP(&args.Username, "user", "u", "", "only events of this user")
		fs.IntVarP(&args.Limit, "limit", "n", DefaultHistoryLimit, "number of events")
	}
	return fs
}

// parsePositional fills the command's positional arguments from Raw.
func parsePositional(cmd Command, args *Args) error {
	raw := args.Raw
	switch cmd {
	case CmdCall:
		if len(raw) < 2 {
			return ErrMissingArgument("METHOD PATH", "mesdesk call GET /api/orders")
		}
		args.Method = strings.ToUpper(raw[0])
		args.Path = raw[1]
		switch args.Method {
		case "GET", "POST", "PUT", "DELETE":
		default:
			return ErrInvalidArgument("method", raw[0], "must be GET, POST, PUT or DELETE")
		}

	case CmdConfig:
		args.Subcommand = "show"
		if len(raw) > 0 {
			args.Subcommand = strings.ToLower(raw[0])
		}
		if len(raw) > 1 {
			args.ConfigKey = raw[1]
		}
		if len(raw) > 2 {
			args.ConfigVal = strings.Join(raw[2:], " ")
		}

	case CmdHistory:
		if args.Limit <= 0 {
			return ErrInvalidArgument("limit", fmt.Sprint(args.Limit), "must be positive")
		}
	}
	return nil
}
