// Package gitpublish deploys a generated site by force-pushing a fresh
// single-commit history to a branch of the workspace's remote.
package gitpublish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/ports"
)

type Publisher struct {
	git     string
	tempDir string
	log     *slog.Logger
}

type Option func(*Publisher)

// WithGitBinary overrides the git executable (default "git" from PATH).
func WithGitBinary(path string) Option {
	return func(p *Publisher) {
		if strings.TrimSpace(path) != "" {
			p.git = path
		}
	}
}

// WithTempDir sets the parent directory of the throwaway work tree.
func WithTempDir(dir string) Option {
	return func(p *Publisher) { p.tempDir = dir }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.log = l
		}
	}
}

func New(opts ...Option) *Publisher {
	p := &Publisher{
		git: "git",
		log: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ ports.SitePublisher = (*Publisher)(nil)

// Publish copies req.SiteDir into a fresh repository, commits it, and
// force-pushes the commit to req.Branch of the remote configured in the
// workspace. Steps run in order and the first failing git command aborts.
func (p *Publisher) Publish(ctx context.Context, req ports.PublishRequest) (domain.PublishReport, error) {
	url, err := p.remoteURL(ctx, req.WorkspaceRoot, req.Remote)
	if err != nil {
		return domain.PublishReport{}, err
	}

	if err := checkSiteDir(req.SiteDir); err != nil {
		return domain.PublishReport{}, err
	}

	work, err := os.MkdirTemp(p.tempDir, "blogctl-publish-*")
	if err != nil {
		return domain.PublishReport{}, &domain.OpError{Op: "publish.workdir", Kind: domain.KindExecution, Err: err}
	}
	defer func() {
		if rerr := os.RemoveAll(work); rerr != nil {
			p.log.Warn("publish.cleanup", "dir", work, "error", rerr.Error())
		}
	}()

	if _, err := p.run(ctx, work, "init", "--quiet"); err != nil {
		return domain.PublishReport{}, err
	}
	if _, err := p.run(ctx, work, "config", "user.name", req.UserName); err != nil {
		return domain.PublishReport{}, err
	}
	if _, err := p.run(ctx, work, "config", "user.email", req.UserEmail); err != nil {
		return domain.PublishReport{}, err
	}

	files, err := copyTree(req.SiteDir, work)
	if err != nil {
		return domain.PublishReport{}, &domain.OpError{Op: "publish.copy", Kind: domain.KindExecution, Path: req.SiteDir, Err: err}
	}
	p.log.Info("publish.copied", "files", files, "from", req.SiteDir)

	if _, err := p.run(ctx, work, "add", "-A"); err != nil {
		return domain.PublishReport{}, err
	}
	if _, err := p.run(ctx, work, "commit", "--quiet", "-m", req.Message); err != nil {
		return domain.PublishReport{}, err
	}
	commit, err := p.run(ctx, work, "rev-parse", "HEAD")
	if err != nil {
		return domain.PublishReport{}, err
	}
	if _, err := p.run(ctx, work, "push", "--force", "--quiet", url, "HEAD:"+req.Branch); err != nil {
		return domain.PublishReport{}, err
	}

	p.log.Info("publish.pushed", "remote", url, "branch", req.Branch, "commit", commit)
	return domain.PublishReport{
		RemoteURL: url,
		Branch:    req.Branch,
		Commit:    commit,
		Files:     files,
	}, nil
}

func (p *Publisher) remoteURL(ctx context.Context, root, remote string) (string, error) {
	out, err := p.run(ctx, root, "config", "--get", "remote."+remote+".url")
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && ee.ExitCode() == 1 {
			return "", &domain.OpError{
				Op:   "publish.remote",
				Kind: domain.KindNotFound,
				Path: root,
				Err:  fmt.Errorf("remote %q has no url: %w", remote, domain.ErrNotFound),
			}
		}
		return "", err
	}
	if out == "" {
		return "", &domain.OpError{
			Op:   "publish.remote",
			Kind: domain.KindNotFound,
			Path: root,
			Err:  fmt.Errorf("remote %q has no url: %w", remote, domain.ErrNotFound),
		}
	}
	return resolveRemote(root, out), nil
}

// resolveRemote anchors a relative local remote (e.g. "../site.git") to the
// workspace, since the push runs from a throwaway tree elsewhere. URLs with
// a scheme and scp-style "host:path" remotes are returned unchanged.
func resolveRemote(root, url string) string {
	if strings.Contains(url, "://") || filepath.IsAbs(url) {
		return url
	}
	if colon := strings.Index(url, ":"); colon > 0 {
		if slash := strings.Index(url, "/"); slash < 0 || colon < slash {
			return url
		}
	}
	return filepath.Join(root, url)
}

// run executes git in dir and returns trimmed stdout. Failures name the
// command and carry its stderr.
func (p *Publisher) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, p.git, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	p.log.Debug("publish.git", "dir", dir, "args", args)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &domain.OpError{
			Op:   "publish.git",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  &commandError{args: args, stderr: strings.TrimSpace(stderr.String()), err: err},
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}

type commandError struct {
	args   []string
	stderr string
	err    error
}

func (e *commandError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.args, " "), e.err)
	if e.stderr != "" {
		msg += ": " + e.stderr
	}
	return msg
}

func (e *commandError) Unwrap() []error { return []error{e.err, domain.ErrExecution} }

func checkSiteDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &domain.OpError{Op: "publish.site", Kind: domain.KindNotFound, Path: dir, Err: domain.ErrNotFound}
		}
		return &domain.OpError{Op: "publish.site", Kind: domain.KindExecution, Path: dir, Err: err}
	}
	if len(entries) == 0 {
		return &domain.OpError{
			Op:   "publish.site",
			Kind: domain.KindInvalidConfig,
			Path: dir,
			Err:  fmt.Errorf("site directory is empty, build the site first: %w", domain.ErrInvalidConfig),
		}
	}
	return nil
}

// copyTree copies regular files and symlinks from src into dst, skipping any
// .git directory, and returns the number of entries copied.
func copyTree(src, dst string) (int, error) {
	n := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}

		target := filepath.Join(dst, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			n++
			return os.Symlink(link, target)
		case info.Mode().IsRegular():
			n++
			return copyFile(path, target, info.Mode().Perm())
		default:
			return nil
		}
	})
	return n, err
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
