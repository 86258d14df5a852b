// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const conversationColumns = `id, session_id, user_name, user_phone, user_email, service_requested, status, created_at, updated_at, last_activity`

func scanConversation(row interface{ Scan(...any) error }) (ChatbotConversation, error) {
	var i ChatbotConversation
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.UserName,
		&i.UserPhone,
		&i.UserEmail,
		&i.ServiceRequested,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.LastActivity,
	)
	return i, err
}

func (q *Queries) listConversations(ctx context.Context, query string, args ...any) ([]ChatbotConversation, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []ChatbotConversation
	for rows.Next() {
		i, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createConversation = `-- name: CreateConversation :one
INSERT INTO chatbot_conversations (session_id, user_name, user_phone, user_email, service_requested, status, created_at, updated_at, last_activity)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + conversationColumns

type CreateConversationParams struct {
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

func (q *Queries) CreateConversation(ctx context.Context, arg CreateConversationParams) (ChatbotConversation, error) {
	row := q.db.QueryRowContext(ctx, createConversation,
		arg.SessionID,
		arg.UserName,
		arg.UserPhone,
		arg.UserEmail,
		arg.ServiceRequested,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
		arg.LastActivity,
	)
	return scanConversation(row)
}

const getConversation = `-- name: GetConversation :one
SELECT ` + conversationColumns + ` FROM chatbot_conversations WHERE id = ?`

func (q *Queries) GetConversation(ctx context.Context, id int64) (ChatbotConversation, error) {
	return scanConversation(q.db.QueryRowContext(ctx, getConversation, id))
}

const listConversations = `-- name: ListConversations :many
SELECT ` + conversationColumns + ` FROM chatbot_conversations
ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

type ListConversationsParams struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

func (q *Queries) ListConversations(ctx context.Context, arg ListConversationsParams) ([]ChatbotConversation, error) {
	return q.listConversations(ctx, listConversations, arg.Limit, arg.Offset)
}

const listConversationsByStatus = `-- name: ListConversationsByStatus :many
SELECT ` + conversationColumns + ` FROM chatbot_conversations WHERE status = ?
ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

type ListConversationsByStatusParams struct {
	Status string `json:"status"`
	Limit  int64  `json:"limit"`
	Offset int64  `json:"offset"`
}

func (q *Queries) ListConversationsByStatus(ctx context.Context, arg ListConversationsByStatusParams) ([]ChatbotConversation, error) {
	return q.listConversations(ctx, listConversationsByStatus, arg.Status, arg.Limit, arg.Offset)
}

const listRecentConversations = `-- name: ListRecentConversations :many
SELECT ` + conversationColumns + ` FROM chatbot_conversations
ORDER BY created_at DESC, id DESC LIMIT ?`

func (q *Queries) ListRecentConversations(ctx context.Context, limit int64) ([]ChatbotConversation, error) {
	return q.listConversations(ctx, listRecentConversations, limit)
}

const countConversations = `-- name: CountConversations :one
SELECT COUNT(*) FROM chatbot_conversations`

func (q *Queries) CountConversations(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countConversations).Scan(&count)
	return count, err
}

const countConversationsByStatus = `-- name: CountConversationsByStatus :one
SELECT COUNT(*) FROM chatbot_conversations WHERE status = ?`

func (q *Queries) CountConversationsByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countConversationsByStatus, status).Scan(&count)
	return count, err
}

const updateConversationStatus = `-- name: UpdateConversationStatus :execrows
UPDATE chatbot_conversations SET status = ?, updated_at = ? WHERE id = ?`

type UpdateConversationStatusParams struct {
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateConversationStatus(ctx context.Context, arg UpdateConversationStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateConversationStatus, arg.Status, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteConversation = `-- name: DeleteConversation :execrows
DELETE FROM chatbot_conversations WHERE id = ?`

func (q *Queries) DeleteConversation(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteConversation, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createChatbotMessage = `-- name: CreateChatbotMessage :one
INSERT INTO chatbot_messages (conversation_id, sender, message_text, position, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, conversation_id, sender, message_text, position, created_at`

type CreateChatbotMessageParams struct {
	ConversationID int64     `json:"conversation_id"`
	Sender         string    `json:"sender"`
	MessageText    string    `json:"message_text"`
	Position       int64     `json:"position"`
	CreatedAt      time.Time `json:"created_at"`
}

func (q *Queries) CreateChatbotMessage(ctx context.Context, arg CreateChatbotMessageParams) (ChatbotMessage, error) {
	row := q.db.QueryRowContext(ctx, createChatbotMessage,
		arg.ConversationID,
		arg.Sender,
		arg.MessageText,
		arg.Position,
		arg.CreatedAt,
	)
	var i ChatbotMessage
	err := row.Scan(
		&i.ID,
		&i.ConversationID,
		&i.Sender,
		&i.MessageText,
		&i.Position,
		&i.CreatedAt,
	)
	return i, err
}

const listChatbotMessages = `-- name: ListChatbotMessages :many
SELECT id, conversation_id, sender, message_text, position, created_at
FROM chatbot_messages WHERE conversation_id = ?
ORDER BY position, created_at, id`

func (q *Queries) ListChatbotMessages(ctx context.Context, conversationID int64) ([]ChatbotMessage, error) {
	rows, err := q.db.QueryContext(ctx, listChatbotMessages, conversationID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []ChatbotMessage
	for rows.Next() {
		var i ChatbotMessage
		if err := rows.Scan(
			&i.ID,
			&i.ConversationID,
			&i.Sender,
			&i.MessageText,
			&i.Position,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countChatbotMessages = `-- name: CountChatbotMessages :one
SELECT COUNT(*) FROM chatbot_messages WHERE conversation_id = ?`

func (q *Queries) CountChatbotMessages(ctx context.Context, conversationID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countChatbotMessages, conversationID).Scan(&count)
	return count, err
}

const deleteChatbotMessages = `-- name: DeleteChatbotMessages :execrows
DELETE FROM chatbot_messages WHERE conversation_id = ?`

func (q *Queries) DeleteChatbotMessages(ctx context.Context, conversationID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteChatbotMessages, conversationID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listConversationsForExport = `-- name: ListConversationsForExport :many
SELECT c.id, c.session_id, c.user_name, c.user_phone, c.user_email, c.service_requested, c.status, c.created_at, c.updated_at, c.last_activity,
       (SELECT COUNT(*) FROM chatbot_messages m WHERE m.conversation_id = c.id) AS message_count
FROM chatbot_conversations c
ORDER BY c.created_at DESC, c.id DESC`

type ListConversationsForExportRow struct {
	ChatbotConversation
	MessageCount int64 `json:"message_count"`
}

func (q *Queries) ListConversationsForExport(ctx context.Context) ([]ListConversationsForExportRow, error) {
	rows, err := q.db.QueryContext(ctx, listConversationsForExport)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []ListConversationsForExportRow
	for rows.Next() {
		var i ListConversationsForExportRow
		if err := rows.Scan(
			&i.ID,
			&i.SessionID,
			&i.UserName,
			&i.UserPhone,
			&i.UserEmail,
			&i.ServiceRequested,
			&i.Status,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.LastActivity,
			&i.MessageCount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
