package fsworkspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/infra/config"
)

func TestInitializer_Init_CreatesWorkspaceFiles(t *testing.T) {
	tmp := t.TempDir()

	i := NewInitializer()
	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	assertFileExists(t, filepath.Join(tmp, "blogctl.yaml"))
	assertFileExists(t, filepath.Join(tmp, ".gitignore"))
	assertDirExists(t, filepath.Join(tmp, "content", "posts"))
	assertDirExists(t, filepath.Join(tmp, ".blogctl", "logs"))

	secretPath := filepath.Join(tmp, "secrets.local.yaml")
	assertFileExists(t, secretPath)
	info, err := os.Stat(secretPath)
	if err != nil {
		t.Fatalf("stat secrets file: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Fatalf("expected secrets file mode 600, got %o", got)
	}
}

func TestInitializer_Init_SkipsExistingFilesUnlessForce(t *testing.T) {
	tmp := t.TempDir()

	configYAML := filepath.Join(tmp, "blogctl.yaml")
	if err := os.WriteFile(configYAML, []byte("custom\n"), 0o644); err != nil {
		t.Fatalf("write existing blogctl.yaml: %v", err)
	}

	i := NewInitializer()

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init (force=false) error: %v", err)
	}

	b, err := os.ReadFile(configYAML)
	if err != nil {
		t.Fatalf("read blogctl.yaml: %v", err)
	}
	if string(b) != "custom\n" {
		t.Fatalf("expected blogctl.yaml preserved, got %q", string(b))
	}

	if err := i.Init(domain.WorkspaceSpec{Root: tmp}, true); err != nil {
		t.Fatalf("Init (force=true) error: %v", err)
	}

	b, err = os.ReadFile(configYAML)
	if err != nil {
		t.Fatalf("read blogctl.yaml after force: %v", err)
	}
	if !strings.Contains(string(b), "blogctl:") {
		t.Fatalf("expected blogctl.yaml overwritten with template, got %q", string(b))
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file %s, stat err=%v", path, err)
	}
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory %s, stat err=%v", path, err)
	}
}

func TestInitializer_TemplateMatchesDefaults(t *testing.T) {
	tmp := t.TempDir()
	if err := NewInitializer().Init(domain.WorkspaceSpec{Root: tmp}, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	cfg, err := config.Load(filepath.Join(tmp, config.FileName))
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	if cfg != domain.DefaultConfig() {
		t.Fatalf("expected template to spell out the defaults, got %+v", cfg)
	}
}
