package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Activate repoints the launcher at a versioned binary. The new symlink is
// created under a unique temporary name and renamed over the launcher, so
// there is no window where the launcher is missing and a crash leaves at
// worst a stray temp link.
func (s *Store) Activate(target, launcher string) error {
	tmpLink := fmt.Sprintf("%s.%s", launcher, uuid.NewString()[:8])

	if err := os.Symlink(target, tmpLink); err != nil {
		return fmt.Errorf("create symlink: %w", err)
	}

	if err := os.Rename(tmpLink, launcher); err != nil {
		os.Remove(tmpLink)
		return fmt.Errorf("swap launcher %s: %w", launcher, err)
	}

	return nil
}

// Active reports the version a tool's launcher currently points at.
// ok is false when the launcher is absent, meaning the tool is not
// configured.
func (s *Store) Active(tool string) (version string, ok bool, err error) {
	launcher := s.LauncherPath(tool)

	target, err := os.Readlink(launcher)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read launcher link %s: %w", launcher, err)
	}

	base := filepath.Base(target)
	version, found := strings.CutPrefix(base, tool+"-")
	if !found || version == "" {
		return "", false, fmt.Errorf("launcher %s points at unrecognized target %s", launcher, target)
	}

	return version, true, nil
}
