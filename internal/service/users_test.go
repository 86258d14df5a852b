// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/aura/internal/auth"
	"github.com/olegiv/aura/internal/testutil"
)

func validSetup() AdminSetup {
	return AdminSetup{
		Username:        "admin",
		Email:           "Admin@Example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestSetupAdmin(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewUserService(db, testutil.TestLogger())
	ctx := context.Background()

	open, err := svc.SetupOpen(ctx)
	require.NoError(t, err)
	assert.True(t, open)

	user, err := svc.SetupAdmin(ctx, validSetup())
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.True(t, user.IsAdmin)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	open, err = svc.SetupOpen(ctx)
	require.NoError(t, err)
	assert.False(t, open)

	second := validSetup()
	second.Email = "other@example.com"
	_, err = svc.SetupAdmin(ctx, second)
	assert.ErrorIs(t, err, ErrSetupClosed)
}

func TestSetupAdmin_Validation(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewUserService(db, testutil.TestLogger())

	tests := []struct {
		name   string
		mutate func(*AdminSetup)
		want   string
	}{
		{"missing field", func(s *AdminSetup) { s.Username = "" }, "All fields are required"},
		{"mismatch", func(s *AdminSetup) { s.ConfirmPassword = "secret2" }, "Passwords do not match"},
		{"short", func(s *AdminSetup) { s.Password, s.ConfirmPassword = "abc", "abc" }, "Password must be at least 6 characters long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSetup()
			tt.mutate(&in)
			_, err := svc.SetupAdmin(context.Background(), in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.First())
		})
	}
}

func TestAuthenticate(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewUserService(db, testutil.TestLogger())
	ctx := context.Background()
	created := testutil.CreateAdmin(t, db, "admin", "admin@example.com", "secret1")

	user, err := svc.Authenticate(ctx, "ADMIN@example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.True(t, user.LastLogin.Valid)

	stored, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.LastLogin.Valid)

	_, err = svc.Authenticate(ctx, "admin@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewUserService(db, testutil.TestLogger())
	created := testutil.CreateAdmin(t, db, "admin", "admin@example.com", "secret1")
	_, err := db.Exec("UPDATE users SET is_active = 0 WHERE id = ?", created.ID)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "admin@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewUserService(db, testutil.TestLogger())
	ctx := context.Background()
	admin := testutil.CreateAdmin(t, db, "admin", "admin@example.com", "secret1")

	updated, err := svc.UpdateProfile(ctx, admin.ID, ProfileUpdate{
		Username:        "chief",
		Email:           "chief@example.com",
		CurrentPassword: "secret1",
		NewPassword:     "newsecret",
		ConfirmPassword: "newsecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "chief", updated.Username)
	assert.Equal(t, "chief@example.com", updated.Email)

	ok, err := auth.CheckPassword("newsecret", updated.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Authenticate(ctx, "chief@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestUpdateProfile_WrongCurrentPassword(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewUserService(db, testutil.TestLogger())
	admin := testutil.CreateAdmin(t, db, "admin", "admin@example.com", "secret1")

	_, err := svc.UpdateProfile(context.Background(), admin.ID, ProfileUpdate{
		Username:        "admin",
		Email:           "admin@example.com",
		CurrentPassword: "nope",
		NewPassword:     "newsecret",
		ConfirmPassword: "newsecret",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "current_password")
}

func TestUpdateProfile_Conflict(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewUserService(db, testutil.TestLogger())
	admin := testutil.CreateAdmin(t, db, "admin", "admin@example.com", "secret1")
	testutil.CreateAdmin(t, db, "other", "other@example.com", "secret1")

	_, err := svc.UpdateProfile(context.Background(), admin.ID, ProfileUpdate{
		Username: "admin",
		Email:    "other@example.com",
	})
	assert.ErrorIs(t, err, ErrConflict)

	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "email", cerr.Field)
}

func TestCreateAdmin_Idempotent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewUserService(db, testutil.TestLogger())
	ctx := context.Background()

	first, created, err := svc.CreateAdmin(ctx, "admin", "admin@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.CreateAdmin(ctx, "other", "other@example.com", "secret2")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = svc.CreateAdmin(ctx, "x", "x@example.com", "123")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
