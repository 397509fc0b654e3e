package tui

import (
	"log/slog"
	"os"

	"github.com/rvodden/rvodden.github.io/internal/app/bootstrap"
	"github.com/rvodden/rvodden.github.io/internal/ports"
)

// OpenFunc loads a workspace; bootstrap.Open in production.
type OpenFunc func(root string, log *slog.Logger) (*bootstrap.Workspace, error)

type Deps struct {
	WorkspaceLocator     ports.WorkspaceLocator
	WorkspaceInitializer ports.WorkspaceInitializer
	Open                 OpenFunc

	// StartDir is where the workspace search starts and where Init creates
	// one. Empty means the working directory.
	StartDir string

	Logger *slog.Logger
	Debug  bool
}

func (d Deps) open() OpenFunc {
	if d.Open != nil {
		return d.Open
	}
	return bootstrap.Open
}

func (d Deps) startDir() (string, error) {
	if d.StartDir != "" {
		return d.StartDir, nil
	}
	return os.Getwd()
}
