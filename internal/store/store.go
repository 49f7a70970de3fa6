// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store persists posts as one Markdown file per slug under a
// configured directory. The filesystem is the database: nothing is cached,
// every operation reads fresh state. There is no locking; concurrent writers
// race with last-write-wins semantics, which is accepted for a single-admin
// tool.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is consumed with errors.Is at the HTTP boundary.
var ErrNotFound = errors.New("post not found")

// Store is a filesystem-backed post repository keyed by slug.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created lazily on the
// first write so a read-only deployment never touches the filesystem.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the configured posts directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for a slug.
func (s *Store) Path(slug string) string {
	return filepath.Join(s.dir, slug+".md")
}

// Exists reports whether a post file exists for the slug.
func (s *Store) Exists(slug string) bool {
	info, err := os.Stat(s.Path(slug))
	return err == nil && !info.IsDir()
}

// List returns the sorted slugs of all posts. A missing posts directory is
// treated as an empty store, not an error.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading posts directory: %w", err)
	}

	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, ".md"))
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Read returns the raw file content for a slug.
func (s *Store) Read(slug string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(slug))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading post %s: %w", slug, err)
	}
	return data, nil
}

// Write creates or overwrites the post file for a slug, creating the posts
// directory if needed. The write is not atomic: a concurrent reader can
// observe a partial file.
func (s *Store) Write(slug string, content []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating posts directory: %w", err)
	}
	if err := os.WriteFile(s.Path(slug), content, 0o644); err != nil {
		return fmt.Errorf("writing post %s: %w", slug, err)
	}
	return nil
}

// Delete removes the post file for a slug.
func (s *Store) Delete(slug string) error {
	if err := os.Remove(s.Path(slug)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting post %s: %w", slug, err)
	}
	return nil
}

// Rename writes content under newSlug and then deletes oldSlug. When the
// slugs coincide it is a plain overwrite. The two steps are not atomic: a
// crash in between leaves both files on disk, never neither.
func (s *Store) Rename(oldSlug, newSlug string, content []byte) error {
	if err := s.Write(newSlug, content); err != nil {
		return err
	}
	if oldSlug == newSlug {
		return nil
	}
	return s.Delete(oldSlug)
}
