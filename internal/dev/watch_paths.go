package dev

import (
	"path/filepath"

	"github.com/vango-dev/enhance/internal/config"
)

// CollectWatchPaths returns the element directory, page directory and state
// file of the project, deduplicated. Elements served from S3 are not watched.
func CollectWatchPaths(cfg *config.Config) []string {
	var paths []string
	if cfg.ElementsS3 == nil {
		paths = append(paths, cfg.ElementsPath())
	}
	paths = append(paths, cfg.PagesPath(), cfg.StatePath())

	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		clean := filepath.Clean(p)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}
	return unique
}
