// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogd/internal/post"
)

func samplePost() map[string]any {
	return map[string]any{
		"title":     "My First Post",
		"tags":      []string{"DevOps", "Docker"},
		"published": "2026-08-28",
		"body":      "Hello, world.",
	}
}

func TestCreatePost(t *testing.T) {
	app := newTestApp(t, false, nil)

	resp := app.doJSON(t, http.MethodPost, RoutePosts, samplePost())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
		Slug    string `json:"slug"`
		Path    string `json:"path"`
	}
	decodeJSON(t, resp, &body)

	assert.Equal(t, "post created", body.Message)
	assert.Equal(t, "my-first-post", body.Slug)
	assert.True(t, strings.HasSuffix(body.Path, "my-first-post.md"))

	data, err := os.ReadFile(app.store.Path("my-first-post"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: My First Post\n")
	assert.Contains(t, string(data), "tags: [DevOps, Docker]\n")
}

func TestCreatePost_ListedExactlyOnce(t *testing.T) {
	app := newTestApp(t, false, nil)

	resp := app.doJSON(t, http.MethodPost, RoutePosts, samplePost())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	var body struct {
		Posts []string `json:"posts"`
	}
	decodeJSON(t, app.get(t, RoutePosts), &body)

	count := 0
	for _, slug := range body.Posts {
		if slug == "my-first-post" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestCreatePost_MissingTitle(t *testing.T) {
	app := newTestApp(t, false, nil)

	for _, payload := range []map[string]any{
		{},
		{"title": "   "},
		{"body": "no title here"},
	} {
		resp := app.doJSON(t, http.MethodPost, RoutePosts, payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	}

	slugs, err := app.store.List()
	require.NoError(t, err)
	assert.Empty(t, slugs)
}

func TestCreatePost_Conflict(t *testing.T) {
	app := newTestApp(t, false, nil)

	resp := app.doJSON(t, http.MethodPost, RoutePosts, samplePost())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	original, err := os.ReadFile(app.store.Path("my-first-post"))
	require.NoError(t, err)

	dup := samplePost()
	dup["body"] = "different body"
	resp = app.doJSON(t, http.MethodPost, RoutePosts, dup)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
		Slug  string `json:"slug"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "post already exists", body.Error)
	assert.Equal(t, "my-first-post", body.Slug)

	// The existing file must be untouched
	after, err := os.ReadFile(app.store.Path("my-first-post"))
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestCreatePost_ExplicitSlug(t *testing.T) {
	app := newTestApp(t, false, nil)

	payload := samplePost()
	payload["slug"] = "A Custom Slug!"
	resp := app.doJSON(t, http.MethodPost, RoutePosts, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Slug string `json:"slug"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "a-custom-slug", body.Slug)
	assert.True(t, app.store.Exists("a-custom-slug"))
}

func TestCreatePost_TagsFromCommaString(t *testing.T) {
	app := newTestApp(t, false, nil)

	payload := samplePost()
	payload["tags"] = "go, web , backend"
	resp := app.doJSON(t, http.MethodPost, RoutePosts, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	data, err := os.ReadFile(app.store.Path("my-first-post"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "tags: [go, web, backend]\n")
}

func TestGetPost(t *testing.T) {
	app := newTestApp(t, false, nil)

	payload := samplePost()
	payload["description"] = "the very first one"
	payload["category"] = "general"
	payload["draft"] = true
	resp := app.doJSON(t, http.MethodPost, RoutePosts, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	var p post.Post
	decodeJSON(t, app.get(t, "/api/posts/my-first-post"), &p)

	assert.Equal(t, "my-first-post", p.Slug)
	assert.Equal(t, "My First Post", p.Title)
	assert.Equal(t, "the very first one", p.Description)
	assert.Equal(t, post.TagList{"DevOps", "Docker"}, p.Tags)
	assert.Equal(t, "general", p.Category)
	assert.True(t, p.Draft)
	assert.Equal(t, "2026-08-28", p.Published)
	assert.Equal(t, "Hello, world.", p.Body)
}

func TestGetPost_NotFound(t *testing.T) {
	app := newTestApp(t, false, nil)

	resp := app.get(t, "/api/posts/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestUpdatePost_RenamesSlug(t *testing.T) {
	app := newTestApp(t, false, nil)

	resp := app.doJSON(t, http.MethodPost, RoutePosts, samplePost())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	update := samplePost()
	update["slug"] = "renamed-post"
	update["title"] = "Renamed Post"
	resp = app.doJSON(t, http.MethodPut, "/api/posts/my-first-post", update)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Slug string `json:"slug"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "renamed-post", body.Slug)

	assert.False(t, app.store.Exists("my-first-post"), "old file should be gone")
	data, err := os.ReadFile(app.store.Path("renamed-post"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Renamed Post\n")
}

func TestUpdatePost_SameSlug(t *testing.T) {
	app := newTestApp(t, false, nil)

	resp := app.doJSON(t, http.MethodPost, RoutePosts, samplePost())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	update := samplePost()
	update["slug"] = "my-first-post"
	update["body"] = "updated body"
	resp = app.doJSON(t, http.MethodPut, "/api/posts/my-first-post", update)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	slugs, err := app.store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"my-first-post"}, slugs)

	data, err := os.ReadFile(app.store.Path("my-first-post"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "updated body")
}

func TestUpdatePost_NotFound(t *testing.T) {
	app := newTestApp(t, false, nil)

	resp := app.doJSON(t, http.MethodPut, "/api/posts/missing", samplePost())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestUpdatePost_TargetConflict(t *testing.T) {
	app := newTestApp(t, false, nil)

	for _, title := range []string{"First", "Second"} {
		resp := app.doJSON(t, http.MethodPost, RoutePosts, map[string]any{"title": title})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	update := map[string]any{"title": "First", "slug": "second"}
	resp := app.doJSON(t, http.MethodPut, "/api/posts/first", update)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()

	// Both posts still present
	assert.True(t, app.store.Exists("first"))
	assert.True(t, app.store.Exists("second"))
}

func TestUpdatePost_MissingTitle(t *testing.T) {
	app := newTestApp(t, false, nil)

	resp := app.doJSON(t, http.MethodPost, RoutePosts, samplePost())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = app.doJSON(t, http.MethodPut, "/api/posts/my-first-post", map[string]any{"body": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestDeletePost(t *testing.T) {
	app := newTestApp(t, false, nil)

	resp := app.doJSON(t, http.MethodPost, RoutePosts, samplePost())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, app.srv.URL+"/api/posts/my-first-post", nil)
	require.NoError(t, err)
	resp, err = app.client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
		Slug    string `json:"slug"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "post deleted", body.Message)
	assert.Equal(t, "my-first-post", body.Slug)
	assert.False(t, app.store.Exists("my-first-post"))
}

func TestDeletePost_NotFound(t *testing.T) {
	app := newTestApp(t, false, nil)

	req, err := http.NewRequest(http.MethodDelete, app.srv.URL+"/api/posts/missing", nil)
	require.NoError(t, err)
	resp, err := app.client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestPostsAPI_MalformedSlugParam(t *testing.T) {
	app := newTestApp(t, false, nil)

	resp := app.doJSON(t, http.MethodPost, RoutePosts, samplePost())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// Stored slugs are always in canonical form, so denormalized spellings
	// must not alias onto an existing post.
	for _, raw := range []string{"My-First-Post", "my--first--post", "my-first-post-"} {
		resp := app.get(t, "/api/posts/"+raw)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "GET %s", raw)
		_ = resp.Body.Close()

		resp = app.doJSON(t, http.MethodPut, "/api/posts/"+raw, samplePost())
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "PUT %s", raw)
		_ = resp.Body.Close()

		req, err := http.NewRequest(http.MethodDelete, app.srv.URL+"/api/posts/"+raw, nil)
		require.NoError(t, err)
		resp, err = app.client.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "DELETE %s", raw)
		_ = resp.Body.Close()
	}

	assert.True(t, app.store.Exists("my-first-post"), "canonical post must survive")
}

func TestPostsAPI_UnauthenticatedNeverTouchesDisk(t *testing.T) {
	app := newTestApp(t, true, nil)

	resp := app.doJSON(t, http.MethodPost, RoutePosts, samplePost())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	resp = app.doJSON(t, http.MethodPut, "/api/posts/my-first-post", samplePost())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, app.srv.URL+"/api/posts/my-first-post", nil)
	require.NoError(t, err)
	resp, err = app.client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	// No posts directory was ever created
	_, err = os.Stat(app.store.Dir())
	assert.True(t, os.IsNotExist(err), "filesystem must be untouched")
}

func TestPostsAPI_AuthenticatedFlow(t *testing.T) {
	app := newTestApp(t, true, nil)
	app.login(t)

	resp := app.doJSON(t, http.MethodPost, RoutePosts, samplePost())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	assert.True(t, app.store.Exists("my-first-post"))
}

func TestPreview(t *testing.T) {
	app := newTestApp(t, false, nil)

	resp := app.doJSON(t, http.MethodPost, RoutePreview, map[string]any{
		"body": "# Heading\n\n<script>alert(1)</script>\n\nSome *emphasis*.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		HTML string `json:"html"`
	}
	decodeJSON(t, resp, &body)

	assert.Contains(t, body.HTML, "<h1")
	assert.Contains(t, body.HTML, "<em>emphasis</em>")
	assert.NotContains(t, body.HTML, "<script>")
}
