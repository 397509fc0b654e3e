package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rvodden/rvodden.github.io/internal/app/bootstrap"
	"github.com/rvodden/rvodden.github.io/internal/infra/logger"
	"github.com/rvodden/rvodden.github.io/internal/infra/workspacefinder"
	"github.com/rvodden/rvodden.github.io/internal/usecase/convert"
)

// openWorkspace resolves the workspace root, starts the file logger there and
// builds the adapters. The returned cleanup is never nil.
func openWorkspace(g *globalFlags, command string) (*bootstrap.Workspace, func(), error) {
	root, err := resolveWorkspaceRoot(g.workspace)
	if err != nil {
		return nil, func() {}, err
	}

	cleanup := func() {}
	if c, lerr := logger.Setup(logger.Config{Root: root, Debug: g.debug, Command: command}); lerr == nil && c != nil {
		cleanup = func() { _ = c() }
	}

	ws, err := bootstrap.Open(root, logger.L())
	if err != nil {
		logger.L().Error("workspace.open.failed", "root", root, "error", err.Error())
		return nil, cleanup, err
	}
	return ws, cleanup, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `blogctl init`): %w", wd, err)
	}
	return root, nil
}

// resolvePostPath accepts a path (relative to the workspace root), a file
// name inside the content dir, or a slug.
func resolvePostPath(ws *bootstrap.Workspace, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return "", fmt.Errorf("post is required")
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.Root, p)
		}
		return filepath.Clean(p), nil
	}

	contentDir := ws.Posts.ContentDir()
	if hasMarkdownExt(in) {
		p := filepath.Join(contentDir, in)
		if fileExists(p) {
			return p, nil
		}
	}

	// Slug: match the file name with its date prefix and extension removed.
	refs, err := ws.Posts.ListRefs()
	if err == nil {
		for _, r := range refs {
			if convert.Slug(r.Path) == in || strings.EqualFold(r.Title, in) {
				return r.Path, nil
			}
		}
	}

	return "", fmt.Errorf("post %q not found in %q", in, contentDir)
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasMarkdownExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".md" || ext == ".markdown"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
