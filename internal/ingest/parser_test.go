package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"d2c/internal/domain/content"
	domainerr "d2c/internal/domain/errors"

	"github.com/google/go-cmp/cmp"
)

const samplePost = `---
title: Hooks in depth
date: 2023-06-01
updated: "2023-07-01"
excerpt: Everything about hooks
author:
  name: Fabien
  avatar: /avatar.png
coverImage: /cover.png
pageTitle: "Hooks | Blog"
tags: [React, CSS]
related:
  - intro
  - state
---
Hooks are functions.

They let you use state.
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseProjectsOnlyRequestedFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hooks.en.md", samplePost)
	p := NewParser(dir)

	cases := []struct {
		name   string
		fields content.Fields
	}{
		{name: "title only", fields: content.NewFields(content.FieldTitle)},
		{name: "anchor", fields: content.AnchorFields},
		{name: "header", fields: content.HeaderFields},
		{name: "all", fields: content.AllFields},
		{name: "none", fields: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := p.Parse("hooks", "en", tc.fields)
			if !res.Found() {
				t.Fatalf("Parse() error = %v", res.Err)
			}
			if res.Post.Set != tc.fields {
				t.Fatalf("Set = %b, want %b", res.Post.Set, tc.fields)
			}
			if res.Post.Locale != "en" || res.Post.Slug != "hooks" {
				t.Fatalf("identity = %s/%s", res.Post.Slug, res.Post.Locale)
			}
			if !tc.fields.Has(content.FieldContent) && res.Post.Content != "" {
				t.Fatalf("content leaked into projection")
			}
			if !tc.fields.Has(content.FieldExcerpt) && res.Post.Excerpt != "" {
				t.Fatalf("excerpt leaked into projection")
			}
		})
	}
}

func TestParseValues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hooks.en.md", samplePost)

	res := NewParser(dir).Parse("hooks", "en", content.AllFields)
	if !res.Found() {
		t.Fatalf("Parse() error = %v", res.Err)
	}
	got := res.Post
	got.Set = 0
	want := content.Post{
		Slug:        "hooks",
		Locale:      "en",
		Title:       "Hooks in depth",
		Date:        "2023-06-01",
		Updated:     "2023-07-01",
		Excerpt:     "Everything about hooks",
		Author:      content.Author{Name: "Fabien", Avatar: "/avatar.png"},
		CoverImage:  "/cover.png",
		PageTitle:   "Hooks | Blog",
		Tags:        []string{"React", "CSS"},
		Related:     []string{"intro", "state"},
		Content:     got.Content,
		ReadingTime: "1 min",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("post mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(strings.TrimSpace(got.Content), "Hooks are functions.") {
		t.Fatalf("content = %q", got.Content)
	}
	if strings.Contains(got.Content, "title:") {
		t.Fatalf("front matter leaked into content: %q", got.Content)
	}
}

func TestParseMissingOptionalFieldsAreOmitted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bare.en.md", "---\ntitle: Bare\ndate: 2023-01-01\n---\nbody\n")

	res := NewParser(dir).Parse("bare", "en", content.HeaderFields)
	if !res.Found() {
		t.Fatalf("Parse() error = %v", res.Err)
	}
	for _, f := range []content.Field{content.FieldUpdated, content.FieldTags, content.FieldCoverImage, content.FieldRelated, content.FieldAuthor} {
		if res.Post.Has(f) {
			t.Fatalf("field %s should be absent", f)
		}
	}
	if !res.Post.Has(content.FieldTitle) || !res.Post.Has(content.FieldReadingTime) {
		t.Fatalf("expected title and readingTime, got set %b", res.Post.Set)
	}
}

func TestParseWithoutFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "raw.en.md", "# Just markdown\n\nno metadata here\n")

	res := NewParser(dir).Parse("raw", "en", content.AllFields)
	if !res.Found() {
		t.Fatalf("Parse() error = %v", res.Err)
	}
	if res.Post.Has(content.FieldTitle) {
		t.Fatalf("title should be absent")
	}
	if !strings.Contains(res.Post.Content, "no metadata here") {
		t.Fatalf("content = %q", res.Post.Content)
	}
}

func TestParseNotFound(t *testing.T) {
	res := NewParser(t.TempDir()).Parse("missing", "en", content.AllFields)
	if res.Found() {
		t.Fatalf("expected not found")
	}
	if !errors.Is(res.Err, domainerr.ErrNotFound) {
		t.Fatalf("Err = %v, want ErrNotFound", res.Err)
	}
	if errors.Is(res.Err, domainerr.ErrMalformedContent) {
		t.Fatalf("not found must not look malformed")
	}
}

func TestParseMalformedFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.en.md", "---\ntitle: [unclosed\n---\nbody\n")

	res := NewParser(dir).Parse("bad", "en", content.AllFields)
	if res.Found() {
		t.Fatalf("expected failure")
	}
	if !errors.Is(res.Err, domainerr.ErrMalformedContent) {
		t.Fatalf("Err = %v, want ErrMalformedContent", res.Err)
	}
}

func TestParseReadingTime(t *testing.T) {
	dir := t.TempDir()
	body := strings.Repeat("word ", 226)
	writeFile(t, dir, "long.en.md", "---\ntitle: Long\n---\n"+body)

	res := NewParser(dir).Parse("long", "en", content.NewFields(content.FieldReadingTime))
	if got := res.Post.ReadingTime; got != "2 min" {
		t.Fatalf("ReadingTime = %q, want %q", got, "2 min")
	}
	if res.Post.Content != "" {
		t.Fatalf("content must not be retained when only readingTime is asked for")
	}
}
