package gitpublish

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/ports"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func gitOut(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v: %s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// setupWorkspace creates a bare "remote", a workspace pointing at it as
// origin, and a built public/ directory.
func setupWorkspace(t *testing.T) (root, bare string) {
	t.Helper()
	base := t.TempDir()

	bare = filepath.Join(base, "remote.git")
	gitOut(t, base, "init", "--quiet", "--bare", bare)

	root = filepath.Join(base, "blog")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	gitOut(t, root, "init", "--quiet")
	gitOut(t, root, "remote", "add", "origin", bare)

	writeFile(t, filepath.Join(root, "public", "index.html"), "<html></html>\n")
	writeFile(t, filepath.Join(root, "public", "css", "site.css"), "body{}\n")
	return root, bare
}

func request(root string) ports.PublishRequest {
	return ports.PublishRequest{
		WorkspaceRoot: root,
		SiteDir:       filepath.Join(root, "public"),
		Remote:        "origin",
		Branch:        "master",
		Message:       "Rebuilding site 2024-01-01",
		UserName:      "Blog Bot",
		UserEmail:     "bot@example.com",
	}
}

func TestPublish_ForcePushesSiteToBranch(t *testing.T) {
	requireGit(t)
	root, bare := setupWorkspace(t)
	tmp := t.TempDir()

	p := New(WithTempDir(tmp))
	rep, err := p.Publish(context.Background(), request(root))
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if rep.RemoteURL != bare || rep.Branch != "master" || rep.Files != 2 || rep.Commit == "" {
		t.Fatalf("unexpected report %+v", rep)
	}

	if got := gitOut(t, bare, "log", "--format=%s|%an|%ae", "master"); got != "Rebuilding site 2024-01-01|Blog Bot|bot@example.com" {
		t.Fatalf("unexpected log %q", got)
	}
	if got := gitOut(t, bare, "ls-tree", "-r", "--name-only", "master"); got != "css/site.css\nindex.html" {
		t.Fatalf("unexpected tree %q", got)
	}
	if got := gitOut(t, bare, "rev-parse", "master"); got != rep.Commit {
		t.Fatalf("expected remote master at %s, got %s", rep.Commit, got)
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatalf("read tmp: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected work tree removed, found %d entries", len(entries))
	}

	// A second publish replaces history rather than appending to it.
	writeFile(t, filepath.Join(root, "public", "index.html"), "<html>v2</html>\n")
	if _, err := p.Publish(context.Background(), request(root)); err != nil {
		t.Fatalf("second Publish error: %v", err)
	}
	if got := gitOut(t, bare, "rev-list", "--count", "master"); got != "1" {
		t.Fatalf("expected single commit history, got %s", got)
	}
}

func TestPublish_RelativeRemoteResolvesAgainstWorkspace(t *testing.T) {
	requireGit(t)
	root, bare := setupWorkspace(t)
	gitOut(t, root, "remote", "set-url", "origin", "../remote.git")

	rep, err := New(WithTempDir(t.TempDir())).Publish(context.Background(), request(root))
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if rep.RemoteURL != bare {
		t.Fatalf("expected remote resolved to %s, got %s", bare, rep.RemoteURL)
	}
	if got := gitOut(t, bare, "rev-parse", "master"); got != rep.Commit {
		t.Fatalf("expected remote master at %s, got %s", rep.Commit, got)
	}
}

func TestResolveRemote(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"../site.git", "/blog/../site.git"},
		{"site.git", "/blog/site.git"},
		{"/srv/site.git", "/srv/site.git"},
		{"https://github.com/rvodden/rvodden.github.io.git", "https://github.com/rvodden/rvodden.github.io.git"},
		{"file:///srv/site.git", "file:///srv/site.git"},
		{"git@github.com:rvodden/rvodden.github.io.git", "git@github.com:rvodden/rvodden.github.io.git"},
		{"./a:b/site.git", "/blog/a:b/site.git"},
	}
	for _, tc := range cases {
		want := filepath.Clean(tc.want)
		if strings.Contains(tc.want, "://") || strings.Contains(tc.want, "@") {
			want = tc.want
		}
		if got := resolveRemote("/blog", tc.url); got != want {
			t.Errorf("resolveRemote(%q) = %q, want %q", tc.url, got, want)
		}
	}
}

func TestPublish_MissingRemote(t *testing.T) {
	requireGit(t)
	root, _ := setupWorkspace(t)

	req := request(root)
	req.Remote = "upstream"
	_, err := New().Publish(context.Background(), req)
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), `"upstream"`) {
		t.Fatalf("expected remote name in error, got %v", err)
	}
}

func TestPublish_EmptySiteDir(t *testing.T) {
	requireGit(t)
	root, _ := setupWorkspace(t)
	if err := os.RemoveAll(filepath.Join(root, "public")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "public"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := New().Publish(context.Background(), request(root))
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestPublish_MissingSiteDir(t *testing.T) {
	requireGit(t)
	root, _ := setupWorkspace(t)
	req := request(root)
	req.SiteDir = filepath.Join(root, "nope")

	_, err := New().Publish(context.Background(), req)
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestPublish_PushFailureNamesCommand(t *testing.T) {
	requireGit(t)
	root, _ := setupWorkspace(t)
	gitOut(t, root, "remote", "set-url", "origin", filepath.Join(t.TempDir(), "missing.git"))

	_, err := New().Publish(context.Background(), request(root))
	if !domain.IsKind(err, domain.KindExecution) {
		t.Fatalf("expected KindExecution, got %v", err)
	}
	if !errors.Is(err, domain.ErrExecution) {
		t.Fatalf("expected ErrExecution in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "git push --force") {
		t.Fatalf("expected failing command in error, got %v", err)
	}
}

func TestCopyTree_SkipsGitDir(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.txt"), "a")
	writeFile(t, filepath.Join(src, ".git", "HEAD"), "ref")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "b")

	n, err := copyTree(src, dst)
	if err != nil {
		t.Fatalf("copyTree error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 files, got %d", n)
	}
	if _, err := os.Stat(filepath.Join(dst, ".git")); !os.IsNotExist(err) {
		t.Fatalf("expected .git to be skipped")
	}
	b, err := os.ReadFile(filepath.Join(dst, "sub", "b.txt"))
	if err != nil || string(b) != "b" {
		t.Fatalf("expected copied nested file, got %q %v", b, err)
	}
}
