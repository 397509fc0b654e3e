package workspacefinder

import (
	"path/filepath"

	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/infra/config"
)

// LoadConfig loads blogctl.yaml from the workspace root and applies defaults.
// Relative paths in the result are resolved against root.
func LoadConfig(root string) (domain.Config, error) {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return cfg, err
	}

	cfg.Paths.ContentDir = resolve(root, cfg.Paths.ContentDir)
	cfg.Paths.PublishDir = resolve(root, cfg.Paths.PublishDir)
	cfg.Paths.RunsDir = resolve(root, cfg.Paths.RunsDir)
	return cfg, nil
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
