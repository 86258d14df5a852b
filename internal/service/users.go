// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/olegiv/aura/internal/auth"
	"github.com/olegiv/aura/internal/model"
	"github.com/olegiv/aura/internal/store"
)

// AdminSetup is the first-run administrator registration form.
type AdminSetup struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// ProfileUpdate is the admin profile form. Password fields are optional.
type ProfileUpdate struct {
	Username        string
	Email           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// UserService manages admin accounts and authentication.
type UserService struct {
	db      *sql.DB
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewUserService creates a UserService.
func NewUserService(db *sql.DB, logger *slog.Logger) *UserService {
	return &UserService{
		db:      db,
		queries: store.New(db),
		logger:  logger,
		now:     time.Now,
	}
}

// SetupOpen reports whether no admin account exists yet.
func (s *UserService) SetupOpen(ctx context.Context) (bool, error) {
	n, err := s.queries.CountAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("counting admins: %w", err)
	}
	return n == 0, nil
}

// SetupAdmin registers the first administrator. It fails with ErrSetupClosed
// once any admin exists.
func (s *UserService) SetupAdmin(ctx context.Context, in AdminSetup) (store.User, error) {
	open, err := s.SetupOpen(ctx)
	if err != nil {
		return store.User{}, err
	}
	if !open {
		return store.User{}, ErrSetupClosed
	}

	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	v := validation{}
	if username == "" || email == "" || in.Password == "" || in.ConfirmPassword == "" {
		v.add("form", "All fields are required")
	} else {
		if _, err := mail.ParseAddress(email); err != nil {
			v.add("email", "Please enter a valid email address")
		}
		if in.Password != in.ConfirmPassword {
			v.add("password", "Passwords do not match")
		} else if err := auth.ValidatePassword(in.Password); err != nil {
			v.add("password", "Password must be at least 6 characters long")
		}
	}
	if err := v.err(); err != nil {
		return store.User{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now().UTC()
	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return store.User{}, translate(err, "creating admin")
	}

	s.logger.Info("admin account created", "category", model.EventCategoryUser, "user_id", user.ID)
	return user, nil
}

// CreateAdmin creates the bootstrap admin unless one exists. The bool result
// reports whether a new account was created.
func (s *UserService) CreateAdmin(ctx context.Context, username, email, password string) (store.User, bool, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return store.User{}, false, &ValidationError{Fields: map[string]string{"password": err.Error()}}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return store.User{}, false, &ValidationError{Fields: map[string]string{"email": "invalid email address"}}
	}
	user, created, err := store.SeedAdmin(ctx, s.db, store.AdminSeed{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return store.User{}, false, translate(err, "creating admin")
	}
	return user, created, nil
}

// Authenticate verifies credentials and records the login time.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return store.User{}, ErrInvalidCredentials
	}

	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.User{}, ErrInvalidCredentials
		}
		return store.User{}, fmt.Errorf("looking up user: %w", err)
	}
	if !user.IsActive {
		return store.User{}, ErrInvalidCredentials
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is unreadable", "user_id", user.ID, "error", err)
		return store.User{}, ErrInvalidCredentials
	}
	if !ok {
		return store.User{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashPassword(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: hash, UpdatedAt: now, ID: user.ID,
			}); err != nil {
				s.logger.Warn("failed to upgrade password hash", "user_id", user.ID, "error", err)
			}
		}
	}

	if err := s.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLogin: sql.NullTime{Time: now, Valid: true},
		UpdatedAt: now,
		ID:        user.ID,
	}); err != nil {
		return store.User{}, fmt.Errorf("updating last login: %w", err)
	}
	user.LastLogin = sql.NullTime{Time: now, Valid: true}
	return user, nil
}

// GetByID returns a user.
func (s *UserService) GetByID(ctx context.Context, id int64) (store.User, error) {
	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return store.User{}, translate(err, "getting user")
	}
	return user, nil
}

// UpdateProfile changes the username and email and optionally the password.
// Username and email changes and the password change are applied in one
// transaction.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdate) (store.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	v := validation{}
	if username == "" {
		v.add("username", "Username is required")
	}
	if email == "" {
		v.add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		v.add("email", "Please enter a valid email address")
	}
	changePassword := in.NewPassword != ""
	if changePassword {
		switch {
		case in.CurrentPassword == "":
			v.add("current_password", "Current password is required to set a new password")
		case in.NewPassword != in.ConfirmPassword:
			v.add("new_password", "New passwords do not match")
		case auth.ValidatePassword(in.NewPassword) != nil:
			v.add("new_password", "Password must be at least 6 characters long")
		}
	}
	if err := v.err(); err != nil {
		return store.User{}, err
	}

	current, err := s.GetByID(ctx, userID)
	if err != nil {
		return store.User{}, err
	}

	var newHash string
	if changePassword {
		ok, err := auth.CheckPassword(in.CurrentPassword, current.PasswordHash)
		if err != nil || !ok {
			return store.User{}, &ValidationError{Fields: map[string]string{
				"current_password": "Current password is incorrect",
			}}
		}
		if newHash, err = auth.HashPassword(in.NewPassword); err != nil {
			return store.User{}, fmt.Errorf("hashing password: %w", err)
		}
	}

	var updated store.User
	now := s.now().UTC()
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		u, err := q.UpdateUserProfile(ctx, store.UpdateUserProfileParams{
			Username: username, Email: email, UpdatedAt: now, ID: userID,
		})
		if err != nil {
			return err
		}
		if newHash != "" {
			if err := q.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash, UpdatedAt: now, ID: userID,
			}); err != nil {
				return err
			}
			u.PasswordHash = newHash
		}
		updated = u
		return nil
	})
	if err != nil {
		return store.User{}, translate(err, "updating profile")
	}

	s.logger.Info("admin profile updated",
		"category", model.EventCategoryUser, "user_id", userID, "password_changed", newHash != "")
	return updated, nil
}
