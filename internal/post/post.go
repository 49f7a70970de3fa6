// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package post defines the Post model and the front-matter delimited
// Markdown format that posts are persisted in.
package post

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/adrg/frontmatter"
)

// ErrTitleRequired is returned when a post is composed without a title.
var ErrTitleRequired = errors.New("title is required")

// Post is a single blog post. The slug identifies the file on disk and is
// never written into the front matter itself.
type Post struct {
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Tags        TagList `json:"tags"`
	Category    string  `json:"category,omitempty"`
	Draft       bool    `json:"draft"`
	Published   string  `json:"published"`
	Body        string  `json:"body"`
}

// Markdown renders the post as front-matter delimited Markdown, the exact
// format the downstream static site generator consumes. Field order is fixed:
// title, published, description (omitted when blank), tags (always present;
// entries are trimmed and blanks dropped),
// category (omitted when blank), draft (always present). The body has its
// trailing whitespace trimmed and the file ends with a newline.
func (p Post) Markdown() (string, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return "", ErrTitleRequired
	}

	published := p.Published
	if published == "" {
		published = time.Now().Format("2006-01-02")
	}

	lines := []string{
		"---",
		"title: " + title,
		"published: " + published,
	}
	if description := strings.TrimSpace(p.Description); description != "" {
		lines = append(lines, "description: "+description)
	}
	tags := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	lines = append(lines, fmt.Sprintf("tags: [%s]", strings.Join(tags, ", ")))
	if category := strings.TrimSpace(p.Category); category != "" {
		lines = append(lines, "category: "+category)
	}
	lines = append(lines, fmt.Sprintf("draft: %t", p.Draft))

	body := strings.TrimRightFunc(p.Body, unicode.IsSpace)
	lines = append(lines, "---", "", body, "")

	return strings.Join(lines, "\n"), nil
}

// meta is the front-matter envelope used when reading a post back from disk.
type meta struct {
	Title       string   `yaml:"title"`
	Published   string   `yaml:"published"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Category    string   `yaml:"category"`
	Draft       bool     `yaml:"draft"`
}

// Parse reads front-matter delimited Markdown back into a Post.
func Parse(slug string, source []byte) (Post, error) {
	var m meta
	body, err := frontmatter.Parse(bytes.NewReader(source), &m)
	if err != nil {
		return Post{}, fmt.Errorf("parsing front matter: %w", err)
	}

	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}

	return Post{
		Slug:        slug,
		Title:       m.Title,
		Description: m.Description,
		Tags:        tags,
		Category:    m.Category,
		Draft:       m.Draft,
		Published:   m.Published,
		Body:        strings.TrimSpace(string(body)),
	}, nil
}
