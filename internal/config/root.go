package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileNames are the ruleset file names searched for, in priority order.
var FileNames = []string{".docsniff.toml", ".docsniff.yaml", ".docsniff.yml"}

// ErrNoConfig: ни в одном родительском каталоге нет файла правил.
var ErrNoConfig = errors.New("no docsniff config found")

// Find walks up from startDir to locate a ruleset file.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrNoConfig
}

// Discover loads the nearest ruleset above startDir, falling back to Default.
func Discover(startDir string) (*Config, error) {
	path, err := Find(startDir)
	if errors.Is(err, ErrNoConfig) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path)
}
