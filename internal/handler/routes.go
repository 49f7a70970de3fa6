// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the admin pages and the
// posts API.
package handler

// Route constants used by the router and redirects.
const (
	RouteRoot      = "/"
	RouteHealth    = "/api/health"
	RouteAdmin     = "/admin"
	RouteLogin     = "/admin/login"
	RouteLogout    = "/admin/logout"
	RoutePosts     = "/api/posts"
	RoutePostsSlug = "/api/posts/{slug}"
	RoutePreview   = "/api/preview"
)
