package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kpauljoseph/printmerge/pkg/logger"
)

type DirectoryScanner struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *DirectoryScanner {
	return &DirectoryScanner{
		logger: logger,
	}
}

// FindInputs lists the regular files directly inside dir, sorted by name.
// Subdirectories are not entered. Symlinks count when they point at a
// regular file.
func (s *DirectoryScanner) FindInputs(ctx context.Context, dir string) ([]string, error) {
	s.logger.Debug("Scanning directory: %s", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", dir, err)
	}

	var inputs []string
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			s.logger.Debug("Skipping %s: %v", path, err)
			continue
		}
		if !info.Mode().IsRegular() {
			s.logger.Trace("Skipping non-regular entry: %s", path)
			continue
		}

		inputs = append(inputs, path)
		s.logger.Trace("Found input (%d): %s", len(inputs), entry.Name())
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input files found in %s", dir)
	}

	s.logger.Debug("Found %d file(s) in %s", len(inputs), dir)
	return inputs, nil
}
