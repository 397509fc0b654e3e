package convert

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rvodden/rvodden.github.io/internal/app/template"
	"github.com/rvodden/rvodden.github.io/internal/domain"
)

const (
	skipStart = "{{% skip %}}"
	skipEnd   = "{{% /skip %}}"

	katexInlineStart = "{% katex inline %}"
	katexInlineEnd   = "{% endkatex %}"
)

var (
	skipPattern  = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(skipStart) + `.*?` + regexp.QuoteMeta(skipEnd))
	latexPattern = regexp.MustCompile(`(?s)\$(.*?)\$`)
)

// Options carries the site settings conversion needs.
type Options struct {
	BaseURL      string
	CanonicalURL string // template with {{base_url}} and {{slug}}
}

// DefaultOptions matches domain.DefaultConfig.
func DefaultOptions() Options {
	return Options{
		BaseURL:      domain.DefaultSiteBaseURL,
		CanonicalURL: domain.DefaultCanonicalURL,
	}
}

// RemoveSkipped drops every region wrapped in the Hugo skip shortcode.
func RemoveSkipped(s string) string {
	return skipPattern.ReplaceAllString(s, "")
}

// ReplaceLatex swaps inline $...$ math for dev.to katex liquid tags.
func ReplaceLatex(s string) string {
	return latexPattern.ReplaceAllString(s, katexInlineStart+"${1}"+katexInlineEnd)
}

// Content applies every content rewrite in order.
func Content(s string) string {
	return ReplaceLatex(RemoveSkipped(s))
}

// Slug derives the public slug from a Hugo post file name:
// "2021-05-02-geometric-solver.md" -> "geometric-solver".
func Slug(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if len(name) > 11 && isDatePrefix(name[:11]) {
		name = name[11:]
	}
	return name
}

func isDatePrefix(s string) bool {
	if len(s) != 11 {
		return false
	}
	for i, r := range s {
		switch i {
		case 4, 7, 10:
			if r != '-' {
				return false
			}
		default:
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// CanonicalURL renders the canonical URL template for a post path.
func CanonicalURL(path string, opts Options) (string, error) {
	tmpl := opts.CanonicalURL
	if strings.TrimSpace(tmpl) == "" {
		tmpl = domain.DefaultCanonicalURL
	}
	return template.RenderString(tmpl, domain.Vars{
		"base_url": strings.TrimSuffix(opts.BaseURL, "/"),
		"slug":     Slug(path),
	})
}

// FrontMatter maps Hugo front matter onto dev.to front matter.
// Missing optional keys are not an error.
func FrontMatter(in domain.FrontMatter, path string, opts Options) (domain.FrontMatter, error) {
	out := domain.FrontMatter{}

	for _, key := range []string{"title", "description"} {
		if v, ok := in[key]; ok {
			out[key] = v
		}
	}

	if v, ok := in["categories"]; ok {
		out["tags"] = v
	}

	draft, _ := in.Bool("draft")
	out["published"] = !draft

	if series, ok := in.Strings("series"); ok && len(series) > 0 {
		out["series"] = series[0]
	}

	u, err := CanonicalURL(path, opts)
	if err != nil {
		return nil, err
	}
	out["canonical_url"] = u

	return out, nil
}

// Post converts a Hugo post into the document dev.to should hold.
func Post(post domain.Post, opts Options) (domain.Document, error) {
	fm, err := FrontMatter(post.FrontMatter, post.Path, opts)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{
		FrontMatter: fm,
		Content:     Content(post.Content),
	}, nil
}
