// Package envsecrets resolves credentials from the process environment with an
// optional secrets.local.yaml overlay in the workspace root. Environment
// variables win over the file.
package envsecrets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/ports"
)

// DefaultSecretsFile is git-ignored by blogctl init.
const DefaultSecretsFile = "secrets.local.yaml"

type Loader struct {
	rootDir     string
	secretsFile string
	environ     map[string]string
}

type Option func(*Loader)

func WithSecretsFile(name string) Option {
	return func(l *Loader) { l.secretsFile = name }
}

// WithEnvironment replaces the process environment, mainly for tests.
func WithEnvironment(vars map[string]string) Option {
	return func(l *Loader) { l.environ = vars }
}

func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{
		rootDir:     root,
		secretsFile: DefaultSecretsFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.CredentialsLoader = (*Loader)(nil)

type secrets struct {
	DevToAPIToken string `yaml:"dev_to_api_token" env:"DEV_TO_API_TOKEN"`
	UserName      string `yaml:"user_name" env:"USER_NAME"`
	UserEmail     string `yaml:"user_email" env:"USER_EMAIL"`
}

// LoadCredentials never fails because a value is missing; callers decide
// which credentials they need.
func (l *Loader) LoadCredentials() (domain.Credentials, error) {
	var s secrets

	if l.rootDir != "" && l.secretsFile != "" {
		if err := readOptional(filepath.Join(l.rootDir, l.secretsFile), &s); err != nil {
			return domain.Credentials{}, err
		}
	}

	opts := env.Options{}
	if l.environ != nil {
		opts.Environment = l.environ
	}
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return domain.Credentials{}, &domain.OpError{
			Op:   "envsecrets.parse",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("parse env: %w", err),
		}
	}

	return domain.Credentials{
		DevToAPIToken: s.DevToAPIToken,
		UserName:      s.UserName,
		UserEmail:     s.UserEmail,
	}, nil
}

func readOptional(path string, into *secrets) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &domain.OpError{
			Op:   "envsecrets.secrets",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	if err := yaml.Unmarshal(b, into); err != nil {
		return &domain.OpError{
			Op:   "envsecrets.secrets",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return nil
}
