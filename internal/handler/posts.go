// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"blogd/internal/post"
	"blogd/internal/store"
	"blogd/internal/util"
)

// PostsHandler handles the posts API.
type PostsHandler struct {
	store *store.Store
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(st *store.Store) *PostsHandler {
	return &PostsHandler{store: st}
}

// postRequest is the request body for creating and updating posts.
type postRequest struct {
	Slug        string       `json:"slug"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Tags        post.TagList `json:"tags"`
	Category    string       `json:"category"`
	Published   string       `json:"published"`
	Draft       bool         `json:"draft"`
	Body        string       `json:"body"`
}

// decodePostRequest reads the JSON body. Malformed bodies decode to the zero
// request so the title check produces the 400, mirroring a missing body.
func decodePostRequest(r *http.Request) postRequest {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return postRequest{}
	}
	return req
}

// toPost converts a validated request into the domain model.
func (req postRequest) toPost(slug string) post.Post {
	return post.Post{
		Slug:        slug,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Category:    req.Category,
		Draft:       req.Draft,
		Published:   req.Published,
		Body:        req.Body,
	}
}

// List returns the sorted slugs of all posts.
// GET /api/posts
func (h *PostsHandler) List(w http.ResponseWriter, _ *http.Request) {
	slugs, err := h.store.List()
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": slugs})
}

// slugParam extracts and validates the slug URL parameter. Stored posts are
// always keyed by Slugify output, so a malformed parameter can never name
// one and is rejected before it reaches the store.
func slugParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "post not found", "slug": slug})
		return "", false
	}
	return slug, true
}

// Get returns a single post with its front matter parsed back into fields.
// GET /api/posts/{slug}
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug, ok := slugParam(w, r)
	if !ok {
		return
	}

	data, err := h.store.Read(slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "post not found", "slug": slug})
			return
		}
		logAndInternalError(w, "failed to read post", "slug", slug, "error", err)
		return
	}

	p, err := post.Parse(slug, data)
	if err != nil {
		logAndInternalError(w, "failed to parse post", "slug", slug, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create writes a new post, deriving the slug from the title unless one is
// given explicitly.
// POST /api/posts
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req := decodePostRequest(r)
	if strings.TrimSpace(req.Title) == "" {
		writeJSONError(w, http.StatusBadRequest, "title is required")
		return
	}

	source := req.Slug
	if source == "" {
		source = req.Title
	}
	slug := util.Slugify(source)

	if h.store.Exists(slug) {
		writeJSON(w, http.StatusConflict, map[string]any{"error": "post already exists", "slug": slug})
		return
	}

	markdown, err := req.toPost(slug).Markdown()
	if err != nil {
		logAndInternalError(w, "failed to compose post", "slug", slug, "error", err)
		return
	}
	if err := h.store.Write(slug, []byte(markdown)); err != nil {
		logAndInternalError(w, "failed to write post", "slug", slug, "error", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "post created",
		"slug":    slug,
		"path":    h.store.Path(slug),
	})
}

// Update rewrites an existing post, optionally moving it to a new slug. A
// slug change writes the new file before deleting the old one.
// PUT /api/posts/{slug}
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	req := decodePostRequest(r)
	if strings.TrimSpace(req.Title) == "" {
		writeJSONError(w, http.StatusBadRequest, "title is required")
		return
	}

	current, ok := slugParam(w, r)
	if !ok {
		return
	}
	if !h.store.Exists(current) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "post not found", "slug": current})
		return
	}

	next := current
	if req.Slug != "" {
		next = util.Slugify(req.Slug)
	}
	if next != current && h.store.Exists(next) {
		writeJSON(w, http.StatusConflict, map[string]any{"error": "target slug already exists", "slug": next})
		return
	}

	markdown, err := req.toPost(next).Markdown()
	if err != nil {
		logAndInternalError(w, "failed to compose post", "slug", next, "error", err)
		return
	}
	if err := h.store.Rename(current, next, []byte(markdown)); err != nil {
		logAndInternalError(w, "failed to update post", "slug", next, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "post updated",
		"slug":    next,
		"path":    h.store.Path(next),
	})
}

// Delete removes a post.
// DELETE /api/posts/{slug}
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug, ok := slugParam(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(slug); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "post not found", "slug": slug})
			return
		}
		logAndInternalError(w, "failed to delete post", "slug", slug, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "post deleted",
		"slug":    slug,
	})
}
