package ports

import (
	"context"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

// SitePublisher pushes generated site output to the hosting branch.
type SitePublisher interface {
	Publish(ctx context.Context, req PublishRequest) (domain.PublishReport, error)
}

// PublishRequest is everything a publisher needs for one deploy.
type PublishRequest struct {
	WorkspaceRoot string
	SiteDir       string
	Remote        string
	Branch        string
	Message       string
	UserName      string
	UserEmail     string
}
