package envsecrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

func TestLoadCredentials_EnvironmentOverridesFile(t *testing.T) {
	root := t.TempDir()
	content := "dev_to_api_token: from-file\nuser_name: File User\n"
	if err := os.WriteFile(filepath.Join(root, DefaultSecretsFile), []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := NewLoader(root, WithEnvironment(map[string]string{
		"DEV_TO_API_TOKEN": "from-env",
		"USER_EMAIL":       "me@example.com",
	}))
	creds, err := l.LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials error: %v", err)
	}
	if creds.DevToAPIToken != "from-env" {
		t.Fatalf("expected env token, got %q", creds.DevToAPIToken)
	}
	if creds.UserName != "File User" {
		t.Fatalf("expected file user name, got %q", creds.UserName)
	}
	if creds.UserEmail != "me@example.com" {
		t.Fatalf("expected env email, got %q", creds.UserEmail)
	}
}

func TestLoadCredentials_SecretsMissing(t *testing.T) {
	l := NewLoader(t.TempDir(), WithEnvironment(map[string]string{"USER_NAME": "x"}))
	creds, err := l.LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials error: %v", err)
	}
	if creds.UserName != "x" || creds.DevToAPIToken != "" {
		t.Fatalf("unexpected credentials %+v", creds)
	}
}

func TestLoadCredentials_ProcessEnvironment(t *testing.T) {
	t.Setenv("DEV_TO_API_TOKEN", "proc")
	creds, err := NewLoader("").LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials error: %v", err)
	}
	if creds.DevToAPIToken != "proc" {
		t.Fatalf("expected process env token, got %q", creds.DevToAPIToken)
	}
}

func TestLoadCredentials_InvalidSecretsFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "secrets.yaml"), []byte("user_name: [oops\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewLoader(root, WithSecretsFile("secrets.yaml"), WithEnvironment(map[string]string{})).LoadCredentials()
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}
