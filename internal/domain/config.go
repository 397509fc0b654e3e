package domain

import "time"

// Config represents the blogctl configuration loaded from blogctl.yaml.
type Config struct {
	Masking MaskingConfig
	Paths   PathsConfig
	Site    SiteConfig
	DevTo   DevToConfig
	Publish PublishConfig
}

type MaskingConfig struct {
	Enabled bool
}

type PathsConfig struct {
	ContentDir string
	PublishDir string
	RunsDir    string
}

// SiteConfig describes the public blog. CanonicalURL is a template
// rendered with {{base_url}} and {{slug}}.
type SiteConfig struct {
	BaseURL      string
	CanonicalURL string
}

type DevToConfig struct {
	BaseURL       string
	Timeout       time.Duration
	Retries       int
	BackoffFactor time.Duration
}

// PublishConfig drives the deploy step. CommitMessage is a template
// rendered with {{date}} and {{remote}}.
type PublishConfig struct {
	Remote        string
	Branch        string
	CommitMessage string
}

const (
	DefaultDevToBaseURL     = "https://dev.to/api"
	DefaultCanonicalURL     = "{{base_url}}/posts/{{slug}}/"
	DefaultSiteBaseURL      = "https://vodden.com"
	DefaultCommitMessage    = "Rebuilding site {{date}}"
	DefaultPublishRemote    = "origin"
	DefaultPublishBranch    = "master"
	DefaultDevToTimeout     = 3 * time.Second
	DefaultDevToRetries     = 3
	DefaultDevToBackoffBase = 10 * time.Second
)

// DefaultConfig provides sane defaults if blogctl.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Masking: MaskingConfig{Enabled: true},
		Paths: PathsConfig{
			ContentDir: "content/posts",
			PublishDir: "public",
			RunsDir:    "runs",
		},
		Site: SiteConfig{
			BaseURL:      DefaultSiteBaseURL,
			CanonicalURL: DefaultCanonicalURL,
		},
		DevTo: DevToConfig{
			BaseURL:       DefaultDevToBaseURL,
			Timeout:       DefaultDevToTimeout,
			Retries:       DefaultDevToRetries,
			BackoffFactor: DefaultDevToBackoffBase,
		},
		Publish: PublishConfig{
			Remote:        DefaultPublishRemote,
			Branch:        DefaultPublishBranch,
			CommitMessage: DefaultCommitMessage,
		},
	}
}

// Credentials are secrets that never live in blogctl.yaml.
type Credentials struct {
	DevToAPIToken string
	UserName      string
	UserEmail     string
}

// WorkspaceSpec identifies where a workspace should be created.
type WorkspaceSpec struct {
	Root string
}
