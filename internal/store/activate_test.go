package store

import (
	"bytes"
	"os"
	"testing"
)

func installVersion(t *testing.T, s *Store, tool, version string) string {
	t.Helper()
	path := s.VersionedPath(tool, version)
	if _, err := s.Persist(bytes.NewReader([]byte(tool+" "+version)), path, nil); err != nil {
		t.Fatalf("persist %s %s: %v", tool, version, err)
	}
	return path
}

func TestActivateFresh(t *testing.T) {
	s := New(t.TempDir())

	target := installVersion(t, s, "terraform", "1.5.0")
	launcher := s.LauncherPath("terraform")

	if err := s.Activate(target, launcher); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.Readlink(launcher)
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if got != target {
		t.Errorf("launcher points at %q, want %q", got, target)
	}
}

func TestActivateRelink(t *testing.T) {
	s := New(t.TempDir())

	oldTarget := installVersion(t, s, "kops", "1.20.0")
	newTarget := installVersion(t, s, "kops", "1.21.0")
	launcher := s.LauncherPath("kops")

	if err := s.Activate(oldTarget, launcher); err != nil {
		t.Fatalf("first activate: %v", err)
	}
	if err := s.Activate(newTarget, launcher); err != nil {
		t.Fatalf("second activate: %v", err)
	}

	got, err := os.Readlink(launcher)
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if got != newTarget {
		t.Errorf("launcher points at %q, want %q", got, newTarget)
	}

	// The previously active binary stays on disk for cheap switch-back.
	if !s.Exists(oldTarget) {
		t.Error("previous version removed by relink")
	}
}

func TestActivateReplacesRegularFile(t *testing.T) {
	s := New(t.TempDir())

	target := installVersion(t, s, "kubectl", "1.20.0")
	launcher := s.LauncherPath("kubectl")

	// A manually installed binary may already sit at the launcher path.
	if err := os.WriteFile(launcher, []byte("hand-installed kubectl"), 0o755); err != nil {
		t.Fatalf("write existing file: %v", err)
	}

	if err := s.Activate(target, launcher); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := os.Readlink(launcher)
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if got != target {
		t.Errorf("launcher points at %q, want %q", got, target)
	}
}

func TestActiveNotConfigured(t *testing.T) {
	s := New(t.TempDir())

	version, ok, err := s.Active("terraform")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("ok = true, version = %q; want not configured", version)
	}
}

func TestActiveReportsVersion(t *testing.T) {
	s := New(t.TempDir())

	tests := []struct {
		tool    string
		version string
	}{
		{tool: "terraform", version: "1.5.0"},
		// Tool names containing a dash must still parse.
		{tool: "aws-iam-authenticator", version: "0.6.14"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			target := installVersion(t, s, tt.tool, tt.version)
			if err := s.Activate(target, s.LauncherPath(tt.tool)); err != nil {
				t.Fatalf("activate: %v", err)
			}

			version, ok, err := s.Active(tt.tool)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ok {
				t.Fatal("ok = false after activate")
			}
			if version != tt.version {
				t.Errorf("version = %q, want %q", version, tt.version)
			}
		})
	}
}

func TestActiveUnrecognizedTarget(t *testing.T) {
	s := New(t.TempDir())

	launcher := s.LauncherPath("terraform")
	if err := os.Symlink("/usr/bin/vim", launcher); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	if _, _, err := s.Active("terraform"); err == nil {
		t.Fatal("expected error for foreign symlink target")
	}
}
