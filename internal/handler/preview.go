// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// previewSanitizer strips markup that must not reach the admin page DOM.
var previewSanitizer = bluemonday.UGCPolicy()

// previewRequest is the request body for the preview endpoint.
type previewRequest struct {
	Body string `json:"body"`
}

// Preview renders a markdown body to sanitized HTML for the admin editor.
// POST /api/preview
func (h *PostsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = previewRequest{}
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(req.Body), &buf); err != nil {
		logAndInternalError(w, "failed to render markdown preview", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"html": string(previewSanitizer.SanitizeBytes(buf.Bytes())),
	})
}
