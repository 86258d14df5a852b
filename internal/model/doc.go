// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain vocabulary shared across the application:
// message and conversation states, chatbot senders, inquiry types and event
// log categories.
package model
