package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/infra/config"
)

const opFindRoot = "workspacefinder.findroot"

// Finder locates the blog workspace enclosing a directory or post. The
// search walks upward looking for ConfigFile and gives up at the top of the
// enclosing git checkout, so a blog repo never picks up a blogctl.yaml that
// belongs to some parent directory.
type Finder struct {
	ConfigFile string // defaults to config.FileName
	// RepoMarker ends the search after the directory holding it has been
	// checked. Empty searches up to the filesystem root.
	RepoMarker string
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: config.FileName, RepoMarker: ".git"}
}

func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{Op: opFindRoot, Kind: domain.KindInvalidConfig, Err: errors.New("startDir is empty")}
	}

	dir, err := searchStart(startDir)
	if err != nil {
		return "", &domain.OpError{Op: opFindRoot, Kind: domain.KindExecution, Path: startDir, Err: err}
	}

	for {
		if exists(filepath.Join(dir, f.configFile())) {
			return dir, nil
		}
		if f.RepoMarker != "" && exists(filepath.Join(dir, f.RepoMarker)) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", &domain.OpError{Op: opFindRoot, Kind: domain.KindNotFound, Path: startDir, Err: domain.ErrNotFound}
}

func (f *Finder) configFile() string {
	if f.ConfigFile == "" {
		return config.FileName
	}
	return f.ConfigFile
}

// searchStart turns a post path into its directory.
func searchStart(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	return filepath.Clean(abs), nil
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
