// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// writeCSV streams a CSV download with a header row.
func writeCSV(w http.ResponseWriter, logger *slog.Logger, filename string, header []string, rows [][]string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(contentDispositionCSV, filename))

	cw := csv.NewWriter(w)
	_ = cw.Write(header)
	for _, row := range rows {
		escaped := make([]string, len(row))
		for i, cell := range row {
			escaped[i] = escapeCSVCell(cell)
		}
		_ = cw.Write(escaped)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logger.Error("failed to write csv export", "file", filename, "error", err)
	}
}

// escapeCSVCell neutralizes cells a spreadsheet would evaluate as a formula.
func escapeCSVCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
