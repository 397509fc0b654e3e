package ports

import "github.com/rvodden/rvodden.github.io/internal/domain"

// DocumentParser splits markdown text into front matter and content.
type DocumentParser interface {
	Parse(text string) (domain.Document, error)
}
