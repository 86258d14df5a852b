// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/olegiv/aura/internal/store"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint
	// or keeps losing to concurrent updates of the same row.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState is returned when a stored status is outside its state set.
	ErrInvalidState = errors.New("invalid stored state")
	// ErrInvalidCredentials is returned by Authenticate on any login failure.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSetupClosed is returned by SetupAdmin once an admin exists.
	ErrSetupClosed = errors.New("admin account already exists")
)

// ValidationError carries per-field validation messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// First returns the message for the first field in alphabetical order.
func (e *ValidationError) First() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	if len(keys) == 0 {
		return ""
	}
	return e.Fields[keys[0]]
}

// validation collects field errors and converts to a *ValidationError.
type validation map[string]string

func (v validation) add(field, msg string) {
	if _, exists := v[field]; !exists {
		v[field] = msg
	}
}

func (v validation) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}

// ConflictError identifies the column that caused an ErrConflict.
type ConflictError struct {
	Field string
	err   error
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return ErrConflict.Error()
	}
	return fmt.Sprintf("%s: %s already exists", ErrConflict, e.Field)
}

// Is reports ErrConflict as its sentinel.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func (e *ConflictError) Unwrap() error { return e.err }

// translate maps storage errors to service errors. what names the entity in
// wrapped messages.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case store.IsUniqueViolation(err):
		field := store.UniqueViolationColumn(err)
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return &ConflictError{Field: field, err: err}
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
