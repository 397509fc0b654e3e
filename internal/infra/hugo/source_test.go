package hugo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

func writePost(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadPost_Valid(t *testing.T) {
	tmp := t.TempDir()
	p := writePost(t, tmp, "2021-05-02-geometric-solver-1.md", `---
title: "Geometric Solver 1"
description: A first look
draft: false
categories:
  - python
---
Content here.
`)

	post, err := NewSource(tmp).LoadPost(p)
	if err != nil {
		t.Fatalf("LoadPost error: %v", err)
	}
	if post.Title != "Geometric Solver 1" {
		t.Fatalf("expected title, got=%q", post.Title)
	}
	if post.Path != p {
		t.Fatalf("expected path=%s, got=%s", p, post.Path)
	}
	if post.Draft() {
		t.Fatalf("expected non-draft")
	}
}

func TestLoadPost_MissingTitle(t *testing.T) {
	tmp := t.TempDir()
	p := writePost(t, tmp, "2021-05-02-untitled.md", "---\ndraft: true\n---\nbody\n")

	_, err := NewSource(tmp).LoadPost(p)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadPost_NoFrontMatterCarriesPath(t *testing.T) {
	tmp := t.TempDir()
	p := writePost(t, tmp, "2021-05-02-bare.md", "no front matter\n")

	_, err := NewSource(tmp).LoadPost(p)
	var oe *domain.OpError
	if !errors.As(err, &oe) {
		t.Fatalf("expected OpError, got %v", err)
	}
	if oe.Path != p {
		t.Fatalf("expected path %s in error, got %q", p, oe.Path)
	}
}

func TestLoadPost_NotFound(t *testing.T) {
	_, err := NewSource(t.TempDir()).LoadPost("nope.md")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestListPosts_FiltersAndSorts(t *testing.T) {
	tmp := t.TempDir()
	writePost(t, tmp, "2021-06-01-b.md", "---\ntitle: B\n---\nb\n")
	writePost(t, tmp, "2021-05-01-a.md", "---\ntitle: A\n---\na\n")
	writePost(t, tmp, "_index.md", "---\ntitle: Posts\n---\n")
	writePost(t, tmp, ".DS_Store", "junk")
	writePost(t, tmp, "notes.txt", "not a post")
	if err := os.Mkdir(filepath.Join(tmp, "images"), 0o755); err != nil {
		t.Fatal(err)
	}

	posts, err := NewSource(tmp).ListPosts(context.Background())
	if err != nil {
		t.Fatalf("ListPosts error: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got=%d", len(posts))
	}
	if posts[0].Title != "A" || posts[1].Title != "B" {
		t.Fatalf("expected sorted by file name, got %q, %q", posts[0].Title, posts[1].Title)
	}
}

func TestListPosts_MissingDir(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "missing")).ListPosts(context.Background())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestListPosts_ContextCancelled(t *testing.T) {
	tmp := t.TempDir()
	writePost(t, tmp, "2021-05-01-a.md", "---\ntitle: A\n---\na\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSource(tmp).ListPosts(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestListRefs_FallsBackToFileName(t *testing.T) {
	tmp := t.TempDir()
	writePost(t, tmp, "2021-05-01-a.md", "---\ntitle: A\n---\na\n")
	writePost(t, tmp, "2021-05-02-broken.md", "no front matter")

	refs, err := NewSource(tmp).ListRefs()
	if err != nil {
		t.Fatalf("ListRefs error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[1].Title != "2021-05-02-broken" {
		t.Fatalf("expected file name fallback, got %q", refs[1].Title)
	}
}
