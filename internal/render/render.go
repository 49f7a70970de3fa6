// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render executes the embedded admin page templates and carries
// flash messages through the session.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

// Session keys for flash messages.
const (
	sessionKeyFlash     = "flash"
	sessionKeyFlashType = "flash_type"
)

// Renderer renders HTML templates for the admin pages.
type Renderer struct {
	templates *template.Template
	sm        *scs.SessionManager
}

// New parses the templates from the given filesystem.
func New(templatesFS fs.FS, sm *scs.SessionManager) (*Renderer, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Renderer{templates: templates, sm: sm}, nil
}

// Render executes the named template. Output is buffered so a template error
// becomes a clean 500 instead of a half-written page.
func (rn *Renderer) Render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := rn.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// SetFlash sets a flash message in the session.
func (rn *Renderer) SetFlash(r *http.Request, message, flashType string) {
	rn.sm.Put(r.Context(), sessionKeyFlash, message)
	rn.sm.Put(r.Context(), sessionKeyFlashType, flashType)
}

// PopFlash removes and returns the flash message and its type, if any.
func (rn *Renderer) PopFlash(r *http.Request) (string, string) {
	message := rn.sm.PopString(r.Context(), sessionKeyFlash)
	if message == "" {
		return "", ""
	}
	flashType := rn.sm.PopString(r.Context(), sessionKeyFlashType)
	if flashType == "" {
		flashType = "info"
	}
	return message, flashType
}
