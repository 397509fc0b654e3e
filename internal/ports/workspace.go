package ports

import "github.com/rvodden/rvodden.github.io/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
