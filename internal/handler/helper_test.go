// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"blogd/internal/config"
	"blogd/internal/middleware"
	"blogd/internal/render"
	"blogd/internal/session"
	"blogd/internal/store"
	"blogd/web"
)

const (
	testUsername = "admin"
	testPassword = "test-password"
)

// testApp wires the handlers into a router the way main does, minus CSRF
// (exercised separately) and minus redirect following so tests can assert
// on 302 responses directly.
type testApp struct {
	srv    *httptest.Server
	client *http.Client
	store  *store.Store
	cfg    *config.Config
}

func newTestApp(t *testing.T, authEnabled bool, lp *middleware.LoginProtection) *testApp {
	t.Helper()

	cfg := &config.Config{
		AdminUsername: testUsername,
		AdminPassword: testPassword,
		PostsDir:      filepath.Join(t.TempDir(), "posts"),
		SessionSecret: "test-secret",
		Env:           "development",
		AuthEnabled:   authEnabled,
	}

	sm := session.New(true)
	st := store.New(cfg.PostsDir)

	renderer, err := render.New(web.Templates, sm)
	require.NoError(t, err)

	adminHandler := NewAdminHandler(cfg, st, renderer, sm, lp)
	postsHandler := NewPostsHandler(st)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)

	r.Get(RouteRoot, Root)
	r.Get(RouteHealth, Health)
	r.Get(RouteLogin, adminHandler.LoginForm)
	r.Post(RouteLogin, adminHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sm, cfg.AuthEnabled))
		r.Get(RouteAdmin, adminHandler.Dashboard)
		r.Post(RouteLogout, adminHandler.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIAuth(sm, cfg.AuthEnabled))
		r.Get(RoutePosts, postsHandler.List)
		r.Post(RoutePosts, postsHandler.Create)
		r.Get(RoutePostsSlug, postsHandler.Get)
		r.Put(RoutePostsSlug, postsHandler.Update)
		r.Delete(RoutePostsSlug, postsHandler.Delete)
		r.Post(RoutePreview, postsHandler.Preview)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{srv: srv, client: client, store: st, cfg: cfg}
}

// login authenticates the test client's session.
func (a *testApp) login(t *testing.T) {
	t.Helper()

	resp := a.postForm(t, RouteLogin, url.Values{
		"username": {testUsername},
		"password": {testPassword},
	})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, RouteAdmin, resp.Header.Get("Location"))
}

func (a *testApp) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := a.client.Get(a.srv.URL + path)
	require.NoError(t, err)
	return resp
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := a.client.PostForm(a.srv.URL+path, form)
	require.NoError(t, err)
	return resp
}

// doJSON sends a JSON request and returns the response.
func (a *testApp) doJSON(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	require.NoError(t, err)
	return resp
}

// decodeJSON decodes a response body into v and closes it.
func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
