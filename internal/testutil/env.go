// Package testutil provides utilities for testing opswitch in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv creates isolated bin and config directories for each test
// so tests never touch the user's real ~/.local/bin or catalog. Cleanup is
// handled by t.TempDir(). Returns the isolated bin root.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	binDir := filepath.Join(tmpDir, "bin")
	configDir := filepath.Join(tmpDir, "config")

	t.Setenv("OPSWITCH_BIN_DIR", binDir)
	t.Setenv("OPSWITCH_CONFIG_DIR", configDir)

	for _, dir := range []string{binDir, configDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return binDir
}
