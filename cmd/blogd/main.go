// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// blogd is the admin backend for a statically generated blog. It manages
// Markdown posts with YAML front matter in a directory the static site
// generator consumes, behind a single-administrator login.
package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"blogd/internal/auth"
	"blogd/internal/config"
	"blogd/internal/handler"
	"blogd/internal/middleware"
	"blogd/internal/render"
	"blogd/internal/session"
	"blogd/internal/store"
	"blogd/internal/version"
	"blogd/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	hashPassword := flag.Bool("hash-password", false, "Read a password from stdin and print its argon2id hash")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "blogd - Markdown blog admin backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGD_ADMIN_USERNAME       Administrator username (default: admin)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGD_ADMIN_PASSWORD       Administrator password (default: change-me; override it)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGD_ADMIN_PASSWORD_HASH  Optional argon2id hash, takes precedence over the password\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGD_POSTS_DIR            Posts directory (default: ../site/src/content/posts)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGD_SESSION_SECRET       Session/CSRF secret (default insecure, required outside development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGD_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGD_ENV                  Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  BLOGD_AUTH_ENABLED         Require admin login for mutations (default: true)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Printf("blogd %s (commit: %s, built: %s)\n", info.Version, info.GitCommit, info.BuildTime)
		os.Exit(0)
	}

	if *hashPassword {
		if err := printPasswordHash(os.Stdin, os.Stdout); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// printPasswordHash reads a password and writes its argon2id hash, the value
// BLOGD_ADMIN_PASSWORD_HASH expects. Trailing whitespace is stripped so
// piped input with a final newline hashes the intended password.
func printPasswordHash(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	password := strings.TrimSpace(string(data))
	if password == "" {
		return errors.New("password is empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	_, _ = fmt.Fprintln(out, hash)
	return nil
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	sessionManager := session.New(cfg.IsDevelopment())
	slog.Info("session manager initialized")

	postStore := store.New(cfg.PostsDir)
	slog.Info("post store ready", "dir", postStore.Dir())

	renderer, err := render.New(web.Templates, sessionManager)
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	adminHandler := handler.NewAdminHandler(cfg, postStore, renderer, sessionManager, loginProtection)
	postsHandler := handler.NewPostsHandler(postStore)

	// The session secret is stretched to the 32 bytes the CSRF key needs.
	csrfKey := sha256.Sum256([]byte(cfg.SessionSecret))
	csrfMiddleware := middleware.CSRF(csrfKey[:], cfg.ServerAddr(), cfg.IsDevelopment())

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(sessionManager.LoadAndSave)

	r.Get(handler.RouteRoot, handler.Root)
	r.Get(handler.RouteHealth, handler.Health)

	// Admin pages (HTML, CSRF-protected forms)
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Get(handler.RouteLogin, adminHandler.LoginForm)
		r.Post(handler.RouteLogin, adminHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sessionManager, cfg.AuthEnabled))
			r.Get(handler.RouteAdmin, adminHandler.Dashboard)
			r.Post(handler.RouteLogout, adminHandler.Logout)
		})
	})

	// Posts API (JSON)
	r.Group(func(r chi.Router) {
		r.Use(middleware.APIAuth(sessionManager, cfg.AuthEnabled))
		r.Get(handler.RoutePosts, postsHandler.List)
		r.Post(handler.RoutePosts, postsHandler.Create)
		r.Get(handler.RoutePostsSlug, postsHandler.Get)
		r.Put(handler.RoutePostsSlug, postsHandler.Update)
		r.Delete(handler.RoutePostsSlug, postsHandler.Delete)
		r.Post(handler.RoutePreview, postsHandler.Preview)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "auth_enabled", cfg.AuthEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
