package markdown

import (
	"bytes"
	"errors"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

// yamlFormat only accepts "---" delimited YAML preambles, which is what both
// Hugo posts and dev.to body_markdown use.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// Split separates the YAML front matter from the markdown content.
// A document without front matter is an invalid_config error.
func Split(source []byte) (domain.Document, error) {
	fm := domain.FrontMatter{}

	body, err := frontmatter.MustParse(bytes.NewReader(source), &fm, yamlFormat)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return domain.Document{}, &domain.OpError{
				Op:   "markdown.split",
				Kind: domain.KindInvalidConfig,
				Err:  errors.New("front matter not found"),
			}
		}
		return domain.Document{}, &domain.OpError{
			Op:   "markdown.split",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	return domain.Document{
		FrontMatter: fm,
		Content:     string(body),
	}, nil
}

// SplitString is Split for string input.
func SplitString(source string) (domain.Document, error) {
	return Split([]byte(source))
}

// Title returns the trimmed title of a document, or "" when absent.
func Title(doc domain.Document) string {
	t, _ := doc.FrontMatter.String("title")
	return strings.TrimSpace(t)
}

// Parser adapts SplitString to ports.DocumentParser.
type Parser struct{}

func (Parser) Parse(text string) (domain.Document, error) { return SplitString(text) }
