// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/aura/internal/auth"
)

// AdminSeed holds the bootstrap administrator credentials.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// SeedAdmin creates the first administrator account. It does nothing and
// returns the existing admin when one is already present.
func SeedAdmin(ctx context.Context, db *sql.DB, seed AdminSeed) (User, bool, error) {
	queries := New(db)

	existing, err := queries.GetFirstAdmin(ctx)
	if err == nil {
		slog.Info("admin user already exists, skipping seed", "email", existing.Email)
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, false, fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return User{}, false, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Username:     strings.TrimSpace(seed.Username),
		Email:        strings.ToLower(strings.TrimSpace(seed.Email)),
		PasswordHash: passwordHash,
		IsAdmin:      true,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return User{}, false, fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return user, true, nil
}
