package convert

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

// Render produces dev.to body_markdown: a YAML preamble between "---" lines,
// then the content. Keys are sorted and multi-line strings are folded.
func Render(doc domain.Document) (string, error) {
	preamble, err := encodeFrontMatter(doc.FrontMatter)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(preamble) + len(doc.Content) + 16)
	b.WriteString("---\n")
	b.WriteString(preamble)
	b.WriteString("---\n")
	b.WriteString(doc.Content)
	b.WriteString("\n")
	return b.String(), nil
}

func encodeFrontMatter(fm domain.FrontMatter) (string, error) {
	if len(fm) == 0 {
		return "", nil
	}

	var node yaml.Node
	if err := node.Encode(map[string]any(fm)); err != nil {
		return "", &domain.OpError{
			Op:   "convert.render",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}
	foldMultiline(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return "", &domain.OpError{
			Op:   "convert.render",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}
	if err := enc.Close(); err != nil {
		return "", &domain.OpError{
			Op:   "convert.render",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}
	return buf.String(), nil
}

func foldMultiline(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.FoldedStyle
	}
	for _, c := range n.Content {
		foldMultiline(c)
	}
}

// Normalize round-trips front matter through YAML so values compare equal
// regardless of the Go types they were built from ([]string vs []any, int vs float).
func Normalize(fm domain.FrontMatter) (domain.FrontMatter, error) {
	if fm == nil {
		return domain.FrontMatter{}, nil
	}
	b, err := yaml.Marshal(map[string]any(fm))
	if err != nil {
		return nil, err
	}
	out := domain.FrontMatter{}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
