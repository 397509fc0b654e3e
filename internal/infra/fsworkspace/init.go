package fsworkspace

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/infra/logger"
	"github.com/rvodden/rvodden.github.io/internal/ports"
)

const gitignoreHeader = "# blogctl"

// Initializer scaffolds a blog workspace from the embedded templates.
// Directory names follow domain.DefaultConfig so a fresh workspace matches
// the blogctl.yaml it is given.
type Initializer struct {
	paths domain.PathsConfig
}

func NewInitializer() *Initializer {
	return &Initializer{paths: domain.DefaultConfig().Paths}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)
	log := logger.L().With("root", root)

	for _, d := range i.dirs() {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o755); err != nil {
			return &domain.OpError{Op: "workspace.init", Kind: domain.KindExecution, Path: d, Err: err}
		}
	}

	if err := ensureGitignoreEntries(root, i.ignored()); err != nil {
		return &domain.OpError{Op: "workspace.init", Kind: domain.KindExecution, Path: ".gitignore", Err: err}
	}

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel := strings.TrimPrefix(p, "templates/")
		wrote, err := writeTemplate(root, p, rel, force)
		if err != nil {
			return &domain.OpError{Op: "workspace.init", Kind: domain.KindExecution, Path: rel, Err: err}
		}
		if wrote {
			log.Debug("workspace.init.file", "path", rel)
		}
		return nil
	})
}

// dirs are slash-separated and relative to the workspace root.
func (i *Initializer) dirs() []string {
	return []string{i.paths.ContentDir, i.paths.RunsDir, ".blogctl/logs"}
}

func (i *Initializer) ignored() []string {
	return []string{
		strings.TrimSuffix(i.paths.RunsDir, "/") + "/",
		".blogctl/",
		"secrets.local.yaml",
	}
}

// writeTemplate copies one embedded file into the workspace. Existing files
// are left alone unless force is set; secrets files are owner-only.
func writeTemplate(root, src, rel string, force bool) (bool, error) {
	dst := filepath.Join(root, filepath.FromSlash(rel))
	if !force {
		if _, err := os.Stat(dst); err == nil {
			return false, nil
		}
	}

	b, err := fs.ReadFile(templatesFS, src)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}

	mode := fs.FileMode(0o644)
	if strings.Contains(strings.ToLower(path.Base(rel)), "secrets") {
		mode = 0o600
	}
	return true, os.WriteFile(dst, b, mode)
}

func ensureGitignore(root string) error {
	return ensureGitignoreEntries(root, NewInitializer().ignored())
}

func ensureGitignoreEntries(root string, entries []string) error {
	p := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(p)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	merged, changed := mergeGitignore(string(b), entries)
	if !changed {
		return nil
	}
	return os.WriteFile(p, []byte(merged), 0o644)
}

// mergeGitignore appends the entries missing from existing under a blogctl
// header. The header is only added once.
func mergeGitignore(existing string, entries []string) (string, bool) {
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			present[s] = true
		}
	}

	var block []string
	if !present[gitignoreHeader] {
		block = append(block, gitignoreHeader)
	}
	missing := 0
	for _, e := range entries {
		if !present[e] {
			block = append(block, e)
			present[e] = true
			missing++
		}
	}
	if missing == 0 {
		return existing, false
	}

	var out strings.Builder
	if existing != "" {
		out.WriteString(strings.TrimRight(existing, "\n"))
		out.WriteString("\n\n")
	}
	out.WriteString(strings.Join(block, "\n"))
	out.WriteByte('\n')
	return out.String(), true
}
