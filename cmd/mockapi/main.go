// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command mockapi runs an in-memory MES API for development and testing.
//
// It serves the login, logout and order endpoints that mesdesk talks to,
// with the demo account admin/123456.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/jeranaias/mesdesk/internal/mockapi"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// A missing .env is fine
	_ = godotenv.Load()

	defaults := mockapi.DefaultConfig()
	cfg := defaults

	addr := envOr("MOCKAPI_ADDR", "127.0.0.1:8080")
	cfg.Secret = envOr("MOCKAPI_SECRET", defaults.Secret)
	if v, err := strconv.Atoi(os.Getenv("MOCKAPI_TTL_SECS")); err == nil && v > 0 {
		cfg.TTL = time.Duration(v) * time.Second
	}

	flagSet := pflag.NewFlagSet("mockapi", pflag.ContinueOnError)
	flagSet.StringVar(&addr, "addr", addr, "listen address")
	flagSet.StringVar(&cfg.Secret, "secret", cfg.Secret, "HS256 token signing secret")
	flagSet.DurationVar(&cfg.TTL, "ttl", cfg.TTL, "access token lifetime")
	flagSet.Float64Var(&cfg.LoginRate, "login-rate", cfg.LoginRate, "login attempts per second per client")
	flagSet.IntVar(&cfg.LoginBurst, "login-burst", cfg.LoginBurst, "login attempt burst per client")
	flagSet.BoolVar(&cfg.SeedOrders, "seed", cfg.SeedOrders, "create demo orders on start")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	if cfg.Secret == defaults.Secret {
		log.Printf("using the built-in development secret; pass --secret for anything shared")
	}

	srv, err := mockapi.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
