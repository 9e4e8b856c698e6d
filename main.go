// mesdesk - a terminal client for the MES management system.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mesdesk/internal/cli"
	"github.com/jeranaias/mesdesk/internal/config"
	"github.com/jeranaias/mesdesk/internal/ui/app"
	"github.com/jeranaias/mesdesk/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args, err := cli.Parse(os.Args[1:])
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		if !args.JSON {
			fmt.Fprintln(os.Stderr, "Run 'mesdesk help' for usage.")
		}
		os.Exit(cli.GetExitCode(err))
	}

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return
	}

	// Commands log to stderr only when asked; the TUI logs to its file.
	if !args.Verbose {
		log.SetOutput(io.Discard)
	}

	if err := config.LoadDotEnv(); err != nil {
		log.Printf("%v", err)
	}
	cfg, err := config.Load()
	if cfg == nil {
		cli.HandleErrorAndExit(os.Stderr, err, args.JSON)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd == cli.CmdTUI {
		if err := runTUI(ctx, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	rt := cli.Setup(cfg)
	env := rt.Env(os.Stdout, cli.TerminalPrompter{Out: os.Stderr})

	switch cmd {
	case cli.CmdLogin:
		err = cli.HandleLogin(ctx, env, args)
	case cli.CmdCall:
		err = cli.HandleCall(ctx, env, args)
	case cli.CmdStatus:
		err = cli.HandleStatus(ctx, env, args)
	case cli.CmdConfig:
		err = cli.HandleConfig(env, args)
	case cli.CmdHistory:
		err = cli.HandleHistory(ctx, env, args)
	}

	if closeErr := rt.Close(); closeErr != nil {
		log.Printf("close: %v", closeErr)
	}
	if err != nil {
		cli.HandleErrorAndExit(os.Stderr, err, args.JSON)
	}
}

// runTUI starts the interactive client. The config file is watched and
// changes are applied while it runs.
func runTUI(ctx context.Context, cfg *config.Config) error {
	if err := cli.RequiresTTY("start the TUI"); err != nil {
		return err
	}

	logFile, err := tea.LogToFile(cfg.Logging.LogFile, "mesdesk")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	rt := cli.Setup(cfg)
	defer rt.Close()

	if rt.Audit != nil {
		rt.Audit.LogEvent("startup", map[string]string{"version": Version, "api": cfg.API.BaseURL})
	}

	m := app.New(app.Options{
		Service:      rt.Service,
		Config:       cfg,
		Theme:        styles.NewTheme(cfg.UI.Theme),
		History:      rt.History,
		PersistTheme: true,
	})

	if err := config.EnsureConfigDir(); err != nil {
		log.Printf("config watch disabled: %v", err)
	} else if path, err := config.ConfigPathTOML(); err == nil {
		watcher, err := config.Watch(ctx, path, m.ConfigReloadFunc())
		if err != nil {
			log.Printf("config watch disabled: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	// The alternate screen is toggled by the maximize key, not forced here.
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}

	// The session does not outlive the process.
	if rt.Service.IsLoggedIn() {
		rt.Service.Logout(context.Background())
	}
	return nil
}
