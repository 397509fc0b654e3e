package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "blogctl.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Masking.Enabled {
		t.Fatalf("expected masking disabled")
	}
	if cfg.Paths.ContentDir != "site/content/posts" || cfg.Paths.RunsDir != "runs" {
		t.Fatalf("unexpected paths %+v", cfg.Paths)
	}
	if cfg.Site.BaseURL != "https://example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Site.BaseURL)
	}
	if cfg.DevTo.Timeout != 5*time.Second || cfg.DevTo.Retries != 1 || cfg.DevTo.BackoffFactor != 250*time.Millisecond {
		t.Fatalf("unexpected devto config %+v", cfg.DevTo)
	}
	if cfg.Publish.Branch != "gh-pages" || cfg.Publish.Remote != "origin" {
		t.Fatalf("unexpected publish config %+v", cfg.Publish)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join("testdata", "blogctl_invalid.yaml")
	_, err := Load(path)
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "devto.timeout") {
		t.Fatalf("expected field in error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.yaml"))
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}
