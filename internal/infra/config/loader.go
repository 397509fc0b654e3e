package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

// FileName is the workspace marker and configuration file.
const FileName = "blogctl.yaml"

// Load reads a blogctl.yaml file and applies defaults.
func Load(path string) (domain.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapConfig(path, dto)
}
