package examples

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirSource serves labeled training examples from a directory tree: one
// subdirectory per category, one video file per example. Hidden entries
// (.DS_Store and friends) are skipped at both levels.
type DirSource struct {
	root string
}

func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

func (s *DirSource) Categories(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read training dir %s: %w", s.root, err)
	}

	var categories []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		categories = append(categories, entry.Name())
	}
	return categories, nil
}

func (s *DirSource) Examples(ctx context.Context, category string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, category))
	if err != nil {
		return nil, fmt.Errorf("read category dir %s: %w", category, err)
	}

	var examples []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		examples = append(examples, entry.Name())
	}
	return examples, nil
}

func (s *DirSource) Fetch(ctx context.Context, category, example string) (string, func(), error) {
	path := filepath.Join(s.root, category, example)
	if _, err := os.Stat(path); err != nil {
		return "", nil, fmt.Errorf("stat example %s/%s: %w", category, example, err)
	}
	return path, func() {}, nil
}
