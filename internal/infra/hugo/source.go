package hugo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/infra/markdown"
	"github.com/rvodden/rvodden.github.io/internal/ports"
)

// Source reads Hugo posts from a single content directory (non-recursive).
type Source struct {
	contentDir string
}

type Option func(*Source)

func NewSource(contentDir string, opts ...Option) *Source {
	s := &Source{contentDir: contentDir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.PostSource = (*Source)(nil)

// ContentDir returns the directory posts are read from.
func (s *Source) ContentDir() string { return s.contentDir }

func (s *Source) LoadPost(path string) (domain.Post, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Post{}, &domain.OpError{
			Op:   "hugo.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	doc, err := markdown.Split(b)
	if err != nil {
		var oe *domain.OpError
		if errors.As(err, &oe) {
			oe.Path = path
			return domain.Post{}, oe
		}
		return domain.Post{}, err
	}

	title := markdown.Title(doc)
	if title == "" {
		return domain.Post{}, &domain.OpError{
			Op:   "hugo.validate",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  fmt.Errorf("field title: title is required: %w", domain.ErrInvalidConfig),
		}
	}

	return domain.Post{
		Path:     path,
		Title:    title,
		Document: doc,
	}, nil
}

func (s *Source) ListPosts(ctx context.Context) ([]domain.Post, error) {
	refs, err := s.listFiles()
	if err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(refs))
	for _, p := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		post, err := s.LoadPost(p)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// ListRefs returns lightweight references without failing on a single bad post;
// unreadable posts fall back to their file name as title.
func (s *Source) ListRefs() ([]domain.PostRef, error) {
	files, err := s.listFiles()
	if err != nil {
		return nil, err
	}

	refs := make([]domain.PostRef, 0, len(files))
	for _, p := range files {
		title := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		if post, err := s.LoadPost(p); err == nil {
			title = post.Title
		}
		refs = append(refs, domain.PostRef{Title: title, Path: p})
	}
	return refs, nil
}

func (s *Source) listFiles() ([]string, error) {
	entries, err := os.ReadDir(s.contentDir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "hugo.list",
			Kind: domain.KindNotFound,
			Path: s.contentDir,
			Err:  err,
		}
	}

	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if !isPostFile(name) {
			continue
		}
		out = append(out, filepath.Join(s.contentDir, name))
	}

	sort.Strings(out)
	return out, nil
}

// isPostFile accepts markdown files; Hugo section pages (_index.md) and
// hidden files are not posts.
func isPostFile(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}
