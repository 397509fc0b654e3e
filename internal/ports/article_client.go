package ports

import (
	"context"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

// ArticleClient talks to the cross-posting platform.
type ArticleClient interface {
	ListArticles(ctx context.Context) ([]domain.Article, error)
	Publish(ctx context.Context, doc domain.Document) (domain.PublishResult, error)
	Update(ctx context.Context, id int, doc domain.Document) (domain.PublishResult, error)
}
