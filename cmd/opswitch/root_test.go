package main

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/opswitch/opswitch/internal/testutil"
)

func TestBinDirOverride(t *testing.T) {
	wantBin := testutil.SetupTestEnv(t)

	dir, err := binDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != wantBin {
		t.Errorf("bin dir = %q, want %q", dir, wantBin)
	}
}

func TestBinDirDefault(t *testing.T) {
	t.Setenv("OPSWITCH_BIN_DIR", "")

	dir, err := binDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("home dir: %v", err)
	}
	if want := filepath.Join(home, ".local", "bin"); dir != want {
		t.Errorf("bin dir = %q, want %q", dir, want)
	}
}

func TestCatalogPathOverride(t *testing.T) {
	testutil.SetupTestEnv(t)

	path, err := catalogPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(os.Getenv("OPSWITCH_CONFIG_DIR"), "tools.lua"); path != want {
		t.Errorf("catalog path = %q, want %q", path, want)
	}
}

func TestNewManagerLoadsUserCatalog(t *testing.T) {
	testutil.SetupTestEnv(t)

	catalog := `
return {
  { name = "sops", url = "https://github.com/getsops/sops/releases/download/v{version}/sops-v{version}.{os}.{arch}" },
}
`
	path, err := catalogPath()
	if err != nil {
		t.Fatalf("catalog path: %v", err)
	}
	if err := os.WriteFile(path, []byte(catalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	m, err := newManager(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := m.Registry().Names()
	for _, want := range []string{"kops", "kubectl", "terraform", "sops"} {
		if !slices.Contains(names, want) {
			t.Errorf("catalog missing %q: %v", want, names)
		}
	}
}

func TestNewManagerBrokenCatalog(t *testing.T) {
	testutil.SetupTestEnv(t)

	path, err := catalogPath()
	if err != nil {
		t.Fatalf("catalog path: %v", err)
	}
	if err := os.WriteFile(path, []byte(`return {`), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	if _, err := newManager(context.Background()); err == nil {
		t.Fatal("expected error for broken catalog")
	}
}
