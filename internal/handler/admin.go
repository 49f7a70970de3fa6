// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"blogd/internal/auth"
	"blogd/internal/config"
	"blogd/internal/middleware"
	"blogd/internal/render"
	"blogd/internal/store"
)

// AdminHandler handles the login, logout, and dashboard pages.
type AdminHandler struct {
	cfg             *config.Config
	store           *store.Store
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
}

// NewAdminHandler creates a new AdminHandler. loginProtection may be nil to
// disable brute-force protection (useful in tests).
func NewAdminHandler(cfg *config.Config, st *store.Store, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AdminHandler {
	return &AdminHandler{
		cfg:             cfg,
		store:           st,
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
	}
}

// loginData is the template data for the login page.
type loginData struct {
	Error     string
	Flash     string
	FlashType string
}

// adminData is the template data for the dashboard.
type adminData struct {
	Slugs     []string
	Flash     string
	FlashType string
}

// LoginForm renders the login page.
// Already-authenticated admins are sent straight to the dashboard.
func (h *AdminHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAdmin(h.sessionManager, h.cfg.AuthEnabled, r) {
		http.Redirect(w, r, RouteAdmin, http.StatusFound)
		return
	}

	flash, flashType := h.renderer.PopFlash(r)
	h.renderer.Render(w, "login.html", loginData{Flash: flash, FlashType: flashType})
}

// Login handles the login form submission.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Render(w, "login.html", loginData{Error: "Invalid form data"})
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if h.loginProtection != nil {
		ip := clientIP(r)
		if !h.loginProtection.CheckIPRateLimit(ip) {
			slog.Warn("login rate limit exceeded", "remote_addr", ip)
			h.renderer.Render(w, "login.html", loginData{Error: "Too many login attempts. Slow down."})
			return
		}
		if locked, remaining := h.loginProtection.IsAccountLocked(username); locked {
			h.renderer.Render(w, "login.html", loginData{Error: "Account locked. Try again in " + formatDuration(remaining) + "."})
			return
		}
	}

	if !h.checkCredentials(username, password) {
		slog.Debug("invalid login attempt", "username", username, "remote_addr", clientIP(r))
		if h.loginProtection != nil {
			if locked, duration := h.loginProtection.RecordFailedAttempt(username); locked {
				h.renderer.Render(w, "login.html", loginData{Error: "Too many failed attempts. Account locked for " + formatDuration(duration) + "."})
				return
			}
			remaining := h.loginProtection.GetRemainingAttempts(username)
			if remaining > 0 && remaining <= 3 {
				h.renderer.Render(w, "login.html", loginData{Error: fmt.Sprintf("Invalid credentials. %d attempts remaining.", remaining)})
				return
			}
		}
		h.renderer.Render(w, "login.html", loginData{Error: "Invalid credentials"})
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(username)
	}

	// Regenerate the session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("session renewal error", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.sessionManager.Put(r.Context(), middleware.SessionKeyIsAdmin, true)
	slog.Info("admin logged in", "username", username)

	http.Redirect(w, r, RouteAdmin, http.StatusFound)
}

// Logout destroys the session and returns to the login page.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}
	slog.Info("admin logged out")

	h.renderer.SetFlash(r, "Logged out", "info")
	http.Redirect(w, r, RouteLogin, http.StatusFound)
}

// Dashboard renders the admin page with the current post slugs.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	slugs, err := h.store.List()
	if err != nil {
		slog.Error("failed to list posts", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	flash, flashType := h.renderer.PopFlash(r)
	h.renderer.Render(w, "admin.html", adminData{Slugs: slugs, Flash: flash, FlashType: flashType})
}

// checkCredentials verifies the submitted credential pair against the
// configured administrator account. The configured argon2id hash takes
// precedence over the plaintext password. Both halves are always evaluated
// so a bad username costs the same as a bad password.
func (h *AdminHandler) checkCredentials(username, password string) bool {
	usernameOK := auth.SecureCompare(username, h.cfg.AdminUsername)

	var passwordOK bool
	if h.cfg.AdminPasswordHash != "" {
		ok, err := auth.CheckPassword(password, h.cfg.AdminPasswordHash)
		if err != nil {
			slog.Error("password hash check failed", "error", err)
			return false
		}
		passwordOK = ok
	} else {
		passwordOK = auth.SecureCompare(password, h.cfg.AdminPassword)
	}

	return usernameOK && passwordOK
}

// clientIP extracts the client address, relying on the RealIP middleware
// having rewritten RemoteAddr where proxy headers are present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
