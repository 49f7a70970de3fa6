// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation and validation.
package util

import (
	"regexp"
	"strings"
	"time"
)

// nonAlnum matches maximal runs of characters outside [a-zA-Z0-9].
var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Slugify converts a string to a URL-friendly slug. It lowercases the
// input, collapses every run of non-alphanumeric characters into a single
// hyphen, and trims hyphens from both ends. When the input normalizes to
// nothing, it falls back to "post-<today>" so a post always gets a usable
// identifier. The fallback is only stable within the same day.
func Slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = nonAlnum.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "post-" + time.Now().Format("2006-01-02")
	}
	return slug
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	// Only lowercase letters, numbers, and hyphens
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	// No leading or trailing hyphen
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	// No consecutive hyphens
	if strings.Contains(s, "--") {
		return false
	}

	return true
}
