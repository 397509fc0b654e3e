package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/usecase/convert"
)

// Result describes how a generated document differs from the remote copy.
type Result struct {
	Added   []string // keys only present remotely
	Removed []string // keys only present locally
	Changed []string // keys present on both sides with different values

	ContentChanged bool
}

// Identical reports whether nothing differs.
func (r Result) Identical() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0 && !r.ContentChanged
}

// Summary is a one-line description suitable for logs.
func (r Result) Summary() string {
	if r.Identical() {
		return "identical"
	}
	var parts []string
	if len(r.Added) > 0 {
		parts = append(parts, "added="+strings.Join(r.Added, ","))
	}
	if len(r.Removed) > 0 {
		parts = append(parts, "removed="+strings.Join(r.Removed, ","))
	}
	if len(r.Changed) > 0 {
		parts = append(parts, "changed="+strings.Join(r.Changed, ","))
	}
	if r.ContentChanged {
		parts = append(parts, "content")
	}
	return strings.Join(parts, " ")
}

// Documents compares the local (generated) document with the remote one.
// Front matter is compared key by key after normalization; content is compared
// with surrounding whitespace trimmed.
func Documents(local, remote domain.Document) (Result, error) {
	a, err := convert.Normalize(local.FrontMatter)
	if err != nil {
		return Result{}, fmt.Errorf("normalize local front matter: %w", err)
	}
	b, err := convert.Normalize(remote.FrontMatter)
	if err != nil {
		return Result{}, fmt.Errorf("normalize remote front matter: %w", err)
	}

	var res Result
	for k := range b {
		if _, ok := a[k]; !ok {
			res.Added = append(res.Added, k)
		}
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			res.Removed = append(res.Removed, k)
			continue
		}
		if !cmp.Equal(av, bv) {
			res.Changed = append(res.Changed, k)
		}
	}
	sort.Strings(res.Added)
	sort.Strings(res.Removed)
	sort.Strings(res.Changed)

	res.ContentChanged = strings.TrimSpace(local.Content) != strings.TrimSpace(remote.Content)
	return res, nil
}

// Diff renders a human-readable report: a structural diff of the front
// matter followed by a unified diff of the content. Empty when identical.
func Diff(local, remote domain.Document) (string, error) {
	a, err := convert.Normalize(local.FrontMatter)
	if err != nil {
		return "", err
	}
	b, err := convert.Normalize(remote.FrontMatter)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if d := cmp.Diff(b, a); d != "" {
		out.WriteString("front matter (-remote +local):\n")
		out.WriteString(d)
	}

	lc := strings.TrimSpace(local.Content)
	rc := strings.TrimSpace(remote.Content)
	if lc != rc {
		ud, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(rc + "\n"),
			B:        difflib.SplitLines(lc + "\n"),
			FromFile: "remote",
			ToFile:   "local",
			Context:  2,
		})
		if err != nil {
			return "", err
		}
		out.WriteString(ud)
	}
	return out.String(), nil
}
