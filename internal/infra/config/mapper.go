package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

// MapConfig applies y on top of domain.DefaultConfig and validates the result.
func MapConfig(path string, y YAMLConfig) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	if y.Blogctl.Masking.Enabled != nil {
		cfg.Masking.Enabled = *y.Blogctl.Masking.Enabled
	}
	setString(&cfg.Paths.ContentDir, y.Blogctl.Paths.ContentDir)
	setString(&cfg.Paths.PublishDir, y.Blogctl.Paths.PublishDir)
	setString(&cfg.Paths.RunsDir, y.Blogctl.Paths.RunsDir)

	setString(&cfg.Site.BaseURL, strings.TrimRight(strings.TrimSpace(y.Site.BaseURL), "/"))
	setString(&cfg.Site.CanonicalURL, y.Site.CanonicalURL)
	if _, err := url.ParseRequestURI(cfg.Site.BaseURL); err != nil {
		return domain.Config{}, invalidField(path, "site.base_url", err.Error())
	}

	setString(&cfg.DevTo.BaseURL, strings.TrimRight(strings.TrimSpace(y.DevTo.BaseURL), "/"))
	if _, err := url.ParseRequestURI(cfg.DevTo.BaseURL); err != nil {
		return domain.Config{}, invalidField(path, "devto.base_url", err.Error())
	}
	if err := setDuration(&cfg.DevTo.Timeout, y.DevTo.Timeout); err != nil {
		return domain.Config{}, invalidField(path, "devto.timeout", err.Error())
	}
	if err := setDuration(&cfg.DevTo.BackoffFactor, y.DevTo.BackoffFactor); err != nil {
		return domain.Config{}, invalidField(path, "devto.backoff_factor", err.Error())
	}
	if y.DevTo.Retries != nil {
		if *y.DevTo.Retries < 0 {
			return domain.Config{}, invalidField(path, "devto.retries", "must be >= 0")
		}
		cfg.DevTo.Retries = *y.DevTo.Retries
	}

	setString(&cfg.Publish.Remote, y.Publish.Remote)
	setString(&cfg.Publish.Branch, y.Publish.Branch)
	setString(&cfg.Publish.CommitMessage, y.Publish.CommitMessage)

	return cfg, nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("must be positive, got %s", v)
	}
	*dst = d
	return nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
