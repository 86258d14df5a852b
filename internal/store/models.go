// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	IsAdmin      bool         `json:"is_admin"`
	IsActive     bool         `json:"is_active"`
	LastLogin    sql.NullTime `json:"last_login"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type ContactMessage struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Subject    string       `json:"subject"`
	Message    string       `json:"message"`
	IsRead     bool         `json:"is_read"`
	ReadAt     sql.NullTime `json:"read_at"`
	IsArchived bool         `json:"is_archived"`
	Status     string       `json:"status"`
	Priority   string       `json:"priority"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type ChatbotConversation struct {
	ID               int64     `json:"id"`
	SessionID        string    `json:"session_id"`
	UserName         string    `json:"user_name"`
	UserPhone        string    `json:"user_phone"`
	UserEmail        string    `json:"user_email"`
	ServiceRequested string    `json:"service_requested"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	LastActivity     time.Time `json:"last_activity"`
}

type ChatbotMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Sender         string    `json:"sender"`
	MessageText    string    `json:"message_text"`
	Position       int64     `json:"position"`
	CreatedAt      time.Time `json:"created_at"`
}

type VisitorSession struct {
	ID              int64         `json:"id"`
	SessionID       string        `json:"session_id"`
	IpAddress       string        `json:"ip_address"`
	UserAgent       string        `json:"user_agent"`
	StartTime       time.Time     `json:"start_time"`
	LastActivity    time.Time     `json:"last_activity"`
	PageViewsCount  int64         `json:"page_views_count"`
	DurationSeconds int64         `json:"duration_seconds"`
	UserID          sql.NullInt64 `json:"user_id"`
	IsBounce        bool          `json:"is_bounce"`
	Finalized       bool          `json:"finalized"`
}

type PageView struct {
	ID          int64         `json:"id"`
	PageUrl     string        `json:"page_url"`
	PageTitle   string        `json:"page_title"`
	IpAddress   string        `json:"ip_address"`
	UserAgent   string        `json:"user_agent"`
	Referrer    string        `json:"referrer"`
	SessionID   string        `json:"session_id"`
	UserID      sql.NullInt64 `json:"user_id"`
	Browser     string        `json:"browser"`
	Os          string        `json:"os"`
	DeviceType  string        `json:"device_type"`
	CountryCode string        `json:"country_code"`
	CreatedAt   time.Time     `json:"created_at"`
}

type Event struct {
	ID        int64         `json:"id"`
	Level     string        `json:"level"`
	Category  string        `json:"category"`
	Message   string        `json:"message"`
	UserID    sql.NullInt64 `json:"user_id"`
	Metadata  string        `json:"metadata"`
	IpAddress string        `json:"ip_address"`
	CreatedAt time.Time     `json:"created_at"`
}
