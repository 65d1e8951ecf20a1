package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestVersionedPathIsPure(t *testing.T) {
	s := New("/home/user/.local/bin")

	a := s.VersionedPath("terraform", "1.5.0")
	b := s.VersionedPath("terraform", "1.5.0")
	if a != b {
		t.Errorf("identical inputs produced different paths: %q vs %q", a, b)
	}

	want := filepath.Join("/home/user/.local/bin", "terraform-versions", "terraform-1.5.0")
	if a != want {
		t.Errorf("path = %q, want %q", a, want)
	}

	other := s.VersionedPath("terraform", "1.6.0")
	if a == other {
		t.Error("different versions must map to different paths")
	}
}

func TestLauncherPath(t *testing.T) {
	s := New("/bin-root")

	if got, want := s.LauncherPath("kops"), filepath.Join("/bin-root", "kops"); got != want {
		t.Errorf("launcher path = %q, want %q", got, want)
	}
}

func TestPersist(t *testing.T) {
	binDir := t.TempDir()
	s := New(binDir)

	// Larger than one chunk so progress fires more than once.
	payload := bytes.Repeat([]byte("0123456789abcdef"), 2048) // 32 KiB
	path := s.VersionedPath("terraform", "1.5.0")

	var updates []int64
	written, err := s.Persist(bytes.NewReader(payload), path, func(n int64) {
		updates = append(updates, n)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if written != int64(len(payload)) {
		t.Errorf("written = %d, want %d", written, len(payload))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read persisted file: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("persisted content differs from stream")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat persisted file: %v", err)
	}
	if info.Mode().Perm() != ExecMode {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), ExecMode)
	}

	if len(updates) < 2 {
		t.Fatalf("expected multiple progress updates, got %d", len(updates))
	}
	for i := 1; i < len(updates); i++ {
		if updates[i] <= updates[i-1] {
			t.Errorf("progress not monotonic at %d: %v", i, updates)
		}
	}
	if updates[len(updates)-1] != int64(len(payload)) {
		t.Errorf("final progress = %d, want %d", updates[len(updates)-1], len(payload))
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after successful persist")
	}
}

type failingReader struct {
	data []byte
	err  error
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.read {
		return 0, r.err
	}
	r.read = true
	return copy(p, r.data), nil
}

func TestPersistStreamFailure(t *testing.T) {
	binDir := t.TempDir()
	s := New(binDir)

	path := s.VersionedPath("kops", "1.20.0")
	r := &failingReader{data: []byte("partial"), err: errors.New("connection reset")}

	if _, err := s.Persist(r, path, nil); err == nil {
		t.Fatal("expected stream error")
	}

	// The interrupted download must leave nothing at the trusted path.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("partial file present at final path")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after failed persist")
	}
}

func TestSetExecutableResetsDriftedMode(t *testing.T) {
	binDir := t.TempDir()
	s := New(binDir)

	path := filepath.Join(binDir, "tool")
	if err := os.WriteFile(path, []byte("binary"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := s.SetExecutable(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != ExecMode {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), ExecMode)
	}
}

func TestExists(t *testing.T) {
	binDir := t.TempDir()
	s := New(binDir)

	path := s.VersionedPath("kubectl", "1.20.0")
	if s.Exists(path) {
		t.Error("Exists true before persist")
	}

	if _, err := s.Persist(bytes.NewReader([]byte("kubectl")), path, nil); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if !s.Exists(path) {
		t.Error("Exists false after persist")
	}

	if s.Exists(s.VersionsDir("kubectl")) {
		t.Error("Exists must be false for directories")
	}
}
