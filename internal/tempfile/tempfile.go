// Package tempfile allocates and tracks the intermediate PDFs of a run.
package tempfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/printmerge/pkg/logger"
	"github.com/kpauljoseph/printmerge/pkg/utils"
)

const (
	// Prefix marks files created by a run. Inputs carrying it are leftovers
	// from an earlier run and are never processed.
	Prefix = "+~"

	tempSuffixLength   = 10
	outputSuffixLength = 20
	outputBaseName     = "print"
)

// Manager hands out temp paths next to their source files and deletes every
// path it handed out when Cleanup is called. Not safe for concurrent use.
type Manager struct {
	owned  []string
	logger *logger.Logger
}

func NewManager(logger *logger.Logger) *Manager {
	return &Manager{logger: logger}
}

// IsTemp reports whether the base name of path carries the reserved prefix.
func IsTemp(path string) bool {
	return strings.HasPrefix(filepath.Base(path), Prefix)
}

// Allocate returns <dir>/+~<base>-<RAND>.pdf for the source file src and
// takes ownership of it, whether or not the file is ever written.
func (m *Manager) Allocate(src string) string {
	name := fmt.Sprintf("%s%s-%s.pdf", Prefix, utils.BaseName(src), utils.RandomString(tempSuffixLength))
	path := filepath.Join(filepath.Dir(src), name)
	m.owned = append(m.owned, path)
	m.logger.Trace("Allocated temp file: %s", path)
	return path
}

// Owned returns the paths allocated so far that Cleanup has not removed.
func (m *Manager) Owned() []string {
	return append([]string(nil), m.owned...)
}

// Cleanup deletes every owned path. Missing files are fine; other failures
// are joined and returned, and those paths stay owned.
func (m *Manager) Cleanup() error {
	var (
		errs   []error
		failed []string
	)
	for _, path := range m.owned {
		err := os.Remove(path)
		switch {
		case err == nil:
			m.logger.Debug("Removed temp file: %s", path)
		case errors.Is(err, fs.ErrNotExist):
		default:
			errs = append(errs, fmt.Errorf("failed to remove temp file %s: %w", path, err))
			failed = append(failed, path)
		}
	}
	m.owned = failed
	return errors.Join(errs...)
}

// OutputPath returns dir/print-<RAND>.pdf.
func OutputPath(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.pdf", outputBaseName, utils.RandomString(outputSuffixLength)))
}
