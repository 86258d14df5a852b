// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: "Runs the public site and admin panel. Pending migrations are applied on start.\n\n" +
			"Environment Variables:\n" +
			"  AURA_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n" +
			"  AURA_DB_PATH           SQLite database path (default: ./data/aura.db)\n" +
			"  AURA_SERVER_PORT       Server port (default: 8080)\n" +
			"  AURA_ENV               Environment: development|production (default: development)\n" +
			"  AURA_REDIS_URL         Redis URL for dashboard counters (optional)\n" +
			"  AURA_GEOIP_DB_PATH     GeoLite2-Country database for visitor countries (optional)\n" +
			"  AURA_SMTP_HOST         SMTP relay for contact notifications (optional)\n" +
			"  AURA_SMTP_TLS          starttls|mandatory|ssl|none (default: starttls)\n" +
			"  AURA_NOTIFY_TO         Recipients of contact notifications (optional)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides AURA_SERVER_HOST and AURA_SERVER_PORT)")
	return cmd
}

func runServe(ctx context.Context, addr string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if addr == "" {
		addr = cfg.ServerAddr()
	}

	logger := newLogger(os.Stdout, cfg.SlogLevel())
	slog.SetDefault(logger)

	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()
	logger.Info("database ready")

	// WARN and ERROR records also go to the event log from here on.
	logger = withEventLog(os.Stdout, cfg.SlogLevel(), db)
	slog.SetDefault(logger)

	a, err := newApp(cfg, db, logger)
	if err != nil {
		return err
	}
	defer a.close()

	router, err := a.routes()
	if err != nil {
		return err
	}

	a.scheduler.Start()

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", addr, "env", cfg.Env, "version", buildInfo().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
