// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "context"

// Invalidator is notified after writes that change dashboard aggregates.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context) {}

func orNop(inv Invalidator) Invalidator {
	if inv == nil {
		return nopInvalidator{}
	}
	return inv
}

// PageSize is the number of rows per admin list page.
const PageSize = 20

func pageOffset(page int) int64 {
	if page < 1 {
		page = 1
	}
	return int64(page-1) * PageSize
}
