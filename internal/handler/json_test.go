// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// assertJSONResponse validates common JSON response properties.
func assertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantSuccess bool) map[string]any {
	t.Helper()

	if w.Code != wantStatus {
		t.Errorf("status code = %d, want %d", w.Code, wantStatus)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if success, ok := resp["success"].(bool); !ok || success != wantSuccess {
		t.Errorf("success = %v, want %v", resp["success"], wantSuccess)
	}

	return resp
}

func TestWriteJSONError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		message    string
	}{
		{"bad request", http.StatusBadRequest, "Invalid input"},
		{"not found", http.StatusNotFound, "Resource not found"},
		{"conflict", http.StatusConflict, "Unknown status"},
		{"internal error", http.StatusInternalServerError, "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeJSONError(w, tt.statusCode, tt.message)

			resp := assertJSONResponse(t, w, tt.statusCode, false)
			if errMsg, ok := resp["error"].(string); !ok || errMsg != tt.message {
				t.Errorf("error = %q, want %q", resp["error"], tt.message)
			}
		})
	}
}

func TestWriteJSONSuccess(t *testing.T) {
	t.Run("with data", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeJSONSuccess(w, map[string]any{"status": "pending"})

		resp := assertJSONResponse(t, w, http.StatusOK, true)
		if resp["status"] != "pending" {
			t.Errorf("status = %v, want pending", resp["status"])
		}
	})

	t.Run("nil data", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeJSONSuccess(w, nil)
		assertJSONResponse(t, w, http.StatusOK, true)
	})
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Message string `json:"message"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hi"}`))
	if err := decodeJSON(httptest.NewRecorder(), r, &dst); err != nil {
		t.Fatalf("decodeJSON() error = %v", err)
	}
	if dst.Message != "hi" {
		t.Errorf("Message = %q, want hi", dst.Message)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	if err := decodeJSON(httptest.NewRecorder(), r, &dst); err == nil {
		t.Error("decodeJSON() should fail on malformed input")
	}

	big := `{"message":"` + strings.Repeat("a", maxJSONBody) + `"}`
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	if err := decodeJSON(httptest.NewRecorder(), r, &dst); err == nil {
		t.Error("decodeJSON() should reject oversized bodies")
	}
}
