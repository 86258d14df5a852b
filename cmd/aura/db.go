// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/aura/internal/service"
	"github.com/olegiv/aura/internal/store"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and print the schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.SlogLevel())

			db, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			v, err := store.MigrationStatus(db)
			if err != nil {
				return fmt.Errorf("reading schema version: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "database %s at schema version %d\n", cfg.DBPath, v)
			return nil
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the first administrator account",
		Long: "Creates the administrator account unless one already exists.\n" +
			"Flags default to AURA_ADMIN_USERNAME, AURA_ADMIN_EMAIL and AURA_ADMIN_PASSWORD.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if username == "" {
				username = cfg.AdminUsername
			}
			if email == "" {
				email = cfg.AdminEmail
			}
			if password == "" {
				password = cfg.AdminPassword
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.SlogLevel())
			db, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			users := service.NewUserService(db, logger)
			user, created, err := users.CreateAdmin(context.Background(), username, email, password)
			if err != nil {
				var verr *service.ValidationError
				if errors.As(err, &verr) {
					return fmt.Errorf("invalid admin account: %s", verr.First())
				}
				return err
			}

			out := cmd.OutOrStdout()
			if !created {
				_, _ = fmt.Fprintf(out, "admin %s already exists, nothing to do\n", user.Email)
				return nil
			}
			_, _ = fmt.Fprintf(out, "created admin %s (%s)\n", user.Username, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "admin email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	return cmd
}
