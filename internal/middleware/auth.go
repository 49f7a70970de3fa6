// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication and
// request protection.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

// SessionKeyIsAdmin is the session key holding the authenticated-admin flag.
const SessionKeyIsAdmin = "is_admin"

// RouteLogin is where unauthenticated page requests are redirected.
const RouteLogin = "/admin/login"

// IsAdmin reports whether the request carries an authenticated admin session.
// When the gate is disabled every request counts as authenticated.
func IsAdmin(sm *scs.SessionManager, enabled bool, r *http.Request) bool {
	if !enabled {
		return true
	}
	return sm.GetBool(r.Context(), SessionKeyIsAdmin)
}

// Auth creates middleware that requires an admin session for HTML pages.
// Unauthenticated requests are redirected to the login page.
func Auth(sm *scs.SessionManager, enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(sm, enabled, r) {
				http.Redirect(w, r, RouteLogin, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// APIAuth creates middleware that requires an admin session for JSON
// endpoints. Unauthenticated requests get a structured 401 body.
func APIAuth(sm *scs.SessionManager, enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(sm, enabled, r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{"error": "unauthorized"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
