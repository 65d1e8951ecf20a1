// Package store owns the on-disk layout of managed binaries: deterministic
// versioned paths under the bin root, durable persistence of downloaded
// streams, and the launcher symlink that selects the active version.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// chunkSize bounds how much of an artifact is held in memory while
// persisting. Artifacts can be tens of megabytes.
const chunkSize = 8 * 1024

// ExecMode is applied to persisted binaries. Owner-only: the bin root is a
// per-user directory.
const ExecMode = os.FileMode(0o700)

// ProgressFunc receives the cumulative number of bytes written after each
// chunk. Rendering is entirely the caller's concern.
type ProgressFunc func(written int64)

// Store computes and manages paths under a per-user bin root.
type Store struct {
	root string
}

// New creates a store rooted at the given bin directory.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the bin root directory.
func (s *Store) Root() string {
	return s.root
}

// VersionsDir returns the directory holding all downloaded versions of a
// tool: <root>/<tool>-versions.
func (s *Store) VersionsDir(tool string) string {
	return filepath.Join(s.root, tool+"-versions")
}

// VersionedPath returns the path of one downloaded binary:
// <root>/<tool>-versions/<tool>-<version>. Pure computation, no I/O.
func (s *Store) VersionedPath(tool, version string) string {
	return filepath.Join(s.VersionsDir(tool), tool+"-"+version)
}

// LauncherPath returns the stable path users invoke: <root>/<tool>.
func (s *Store) LauncherPath(tool string) string {
	return filepath.Join(s.root, tool)
}

// Persist writes a download stream to path and marks it executable. The
// stream is copied in bounded chunks through a temporary file that is
// atomically renamed into place after a complete write, so an interrupted
// download never leaves a partial file at the path the presence check
// trusts. onProgress, if non-nil, is invoked with the running byte count
// after every chunk.
func (s *Store) Persist(r io.Reader, path string, onProgress ProgressFunc) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create versions directory: %w", err)
	}

	tmpPath := path + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	var written int64
	buf := make([]byte, chunkSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			if _, err := tmpFile.Write(buf[:n]); err != nil {
				return written, fmt.Errorf("write %s: %w", tmpPath, err)
			}
			written += int64(n)
			if onProgress != nil {
				onProgress(written)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, fmt.Errorf("read download stream: %w", readErr)
		}
	}

	if err := tmpFile.Close(); err != nil {
		return written, fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return written, fmt.Errorf("rename temp file: %w", err)
	}
	cleanupNeeded = false

	if err := s.SetExecutable(path); err != nil {
		return written, err
	}

	return written, nil
}

// SetExecutable applies ExecMode to an installed binary. Re-applied on
// every invocation since permissions can drift externally.
func (s *Store) SetExecutable(path string) error {
	if err := os.Chmod(path, ExecMode); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}

// Exists reports whether a versioned binary is already present.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
