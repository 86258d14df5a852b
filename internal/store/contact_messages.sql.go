// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const contactMessageColumns = `id, name, email, phone, subject, message, is_read, read_at, is_archived, status, priority, created_at, updated_at`

func scanContactMessage(row interface{ Scan(...any) error }) (ContactMessage, error) {
	var i ContactMessage
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Subject,
		&i.Message,
		&i.IsRead,
		&i.ReadAt,
		&i.IsArchived,
		&i.Status,
		&i.Priority,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) listContactMessages(ctx context.Context, query string, args ...any) ([]ContactMessage, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var items []ContactMessage
	for rows.Next() {
		i, err := scanContactMessage(rows)
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

const createContactMessage = `-- name: CreateContactMessage :one
INSERT INTO contact_messages (name, email, phone, subject, message, is_read, status, priority, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?, ?)
RETURNING ` + contactMessageColumns

type CreateContactMessageParams struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (ContactMessage, error) {
	row := q.db.QueryRowContext(ctx, createContactMessage,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Subject,
		arg.Message,
		arg.Status,
		arg.Priority,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanContactMessage(row)
}

const getContactMessage = `-- name: GetContactMessage :one
SELECT ` + contactMessageColumns + ` FROM contact_messages WHERE id = ?`

func (q *Queries) GetContactMessage(ctx context.Context, id int64) (ContactMessage, error) {
	return scanContactMessage(q.db.QueryRowContext(ctx, getContactMessage, id))
}

const getContactMessageStatus = `-- name: GetContactMessageStatus :one
SELECT status FROM contact_messages WHERE id = ?`

func (q *Queries) GetContactMessageStatus(ctx context.Context, id int64) (string, error) {
	var status string
	err := q.db.QueryRowContext(ctx, getContactMessageStatus, id).Scan(&status)
	return status, err
}

const advanceContactMessageStatus = `-- name: AdvanceContactMessageStatus :execrows
UPDATE contact_messages SET status = ?, updated_at = ? WHERE id = ? AND status = ?`

type AdvanceContactMessageStatusParams struct {
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
	ID         int64     `json:"id"`
	FromStatus string    `json:"from_status"`
}

func (q *Queries) AdvanceContactMessageStatus(ctx context.Context, arg AdvanceContactMessageStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, advanceContactMessageStatus, arg.Status, arg.UpdatedAt, arg.ID, arg.FromStatus)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateContactMessagePriority = `-- name: UpdateContactMessagePriority :execrows
UPDATE contact_messages SET priority = ?, updated_at = ? WHERE id = ?`

type UpdateContactMessagePriorityParams struct {
	Priority  string    `json:"priority"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateContactMessagePriority(ctx context.Context, arg UpdateContactMessagePriorityParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateContactMessagePriority, arg.Priority, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const markContactMessageRead = `-- name: MarkContactMessageRead :execrows
UPDATE contact_messages SET is_read = 1, read_at = ?, updated_at = ?
WHERE id = ? AND is_read = 0`

type MarkContactMessageReadParams struct {
	ReadAt sql.NullTime `json:"read_at"`
	ID     int64        `json:"id"`
}

// MarkContactMessageRead only touches unread rows, so read_at keeps the
// timestamp of the first read.
func (q *Queries) MarkContactMessageRead(ctx context.Context, arg MarkContactMessageReadParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, markContactMessageRead, arg.ReadAt, arg.ReadAt.Time, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const markAllContactMessagesRead = `-- name: MarkAllContactMessagesRead :execrows
UPDATE contact_messages SET is_read = 1, read_at = ?, updated_at = ?
WHERE is_read = 0`

func (q *Queries) MarkAllContactMessagesRead(ctx context.Context, readAt sql.NullTime) (int64, error) {
	result, err := q.db.ExecContext(ctx, markAllContactMessagesRead, readAt, readAt.Time)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const archiveContactMessage = `-- name: ArchiveContactMessage :execrows
UPDATE contact_messages SET is_archived = 1, updated_at = ? WHERE id = ?`

func (q *Queries) ArchiveContactMessage(ctx context.Context, updatedAt time.Time, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, archiveContactMessage, updatedAt, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteContactMessage = `-- name: DeleteContactMessage :execrows
DELETE FROM contact_messages WHERE id = ?`

func (q *Queries) DeleteContactMessage(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteContactMessage, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listContactMessages = `-- name: ListContactMessages :many
SELECT ` + contactMessageColumns + ` FROM contact_messages
ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

type ListContactMessagesParams struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

func (q *Queries) ListContactMessages(ctx context.Context, arg ListContactMessagesParams) ([]ContactMessage, error) {
	return q.listContactMessages(ctx, listContactMessages, arg.Limit, arg.Offset)
}

const listContactMessagesByStatus = `-- name: ListContactMessagesByStatus :many
SELECT ` + contactMessageColumns + ` FROM contact_messages WHERE status = ?
ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

type ListContactMessagesByStatusParams struct {
	Status string `json:"status"`
	Limit  int64  `json:"limit"`
	Offset int64  `json:"offset"`
}

func (q *Queries) ListContactMessagesByStatus(ctx context.Context, arg ListContactMessagesByStatusParams) ([]ContactMessage, error) {
	return q.listContactMessages(ctx, listContactMessagesByStatus, arg.Status, arg.Limit, arg.Offset)
}

const listRecentContactMessages = `-- name: ListRecentContactMessages :many
SELECT ` + contactMessageColumns + ` FROM contact_messages
ORDER BY created_at DESC, id DESC LIMIT ?`

func (q *Queries) ListRecentContactMessages(ctx context.Context, limit int64) ([]ContactMessage, error) {
	return q.listContactMessages(ctx, listRecentContactMessages, limit)
}

const listContactMessagesForExport = `-- name: ListContactMessagesForExport :many
SELECT ` + contactMessageColumns + ` FROM contact_messages
ORDER BY created_at DESC, id DESC`

func (q *Queries) ListContactMessagesForExport(ctx context.Context) ([]ContactMessage, error) {
	return q.listContactMessages(ctx, listContactMessagesForExport)
}

const countContactMessages = `-- name: CountContactMessages :one
SELECT COUNT(*) FROM contact_messages`

func (q *Queries) CountContactMessages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countContactMessages).Scan(&count)
	return count, err
}

const countContactMessagesByStatus = `-- name: CountContactMessagesByStatus :one
SELECT COUNT(*) FROM contact_messages WHERE status = ?`

func (q *Queries) CountContactMessagesByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countContactMessagesByStatus, status).Scan(&count)
	return count, err
}

const countUnreadContactMessages = `-- name: CountUnreadContactMessages :one
SELECT COUNT(*) FROM contact_messages WHERE is_read = 0`

func (q *Queries) CountUnreadContactMessages(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUnreadContactMessages).Scan(&count)
	return count, err
}
