package ports

import (
	"context"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

// PostSource loads Hugo posts from a source (e.g., the content directory).
type PostSource interface {
	ListPosts(ctx context.Context) ([]domain.Post, error)
	LoadPost(path string) (domain.Post, error)
}
