package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opswitch/opswitch/internal/manager"
	"github.com/opswitch/opswitch/internal/platform"
	"github.com/opswitch/opswitch/internal/registry"
	"github.com/opswitch/opswitch/internal/resolver"
	"github.com/opswitch/opswitch/internal/ui"
)

// Version is set at build time via -ldflags
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "opswitch",
	Short: "opswitch - manage installed versions of ops CLI tools",
	Long: `opswitch downloads versioned binaries of ops tools (terraform, kubectl,
kops, ...) into a per-user bin directory and switches the active version by
repointing a stable launcher symlink.

Versions live side by side under <bin>/<tool>-versions and are never
implicitly deleted; switching back to a downloaded version is instant.

Add your own tools by dropping a tools.lua catalog file into
~/.config/opswitch.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("opswitch %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI and exits non-zero on error.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}

// binDir returns the bin root, honoring the OPSWITCH_BIN_DIR override.
func binDir() (string, error) {
	if dir := os.Getenv("OPSWITCH_BIN_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".local", "bin"), nil
}

// catalogPath returns the user catalog file, honoring OPSWITCH_CONFIG_DIR.
func catalogPath() (string, error) {
	if dir := os.Getenv("OPSWITCH_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "tools.lua"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".config", "opswitch", "tools.lua"), nil
}

// newManager assembles the manager with detected platform, the built-in
// catalog extended by the user's tools.lua, and the GitHub latest resolver.
func newManager(ctx context.Context) (*manager.Manager, error) {
	info, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	path, err := catalogPath()
	if err != nil {
		return nil, err
	}
	if err := reg.LoadLuaFile(path, info); err != nil {
		return nil, err
	}

	dir, err := binDir()
	if err != nil {
		return nil, err
	}

	return manager.New(manager.Config{
		BinDir:   dir,
		Platform: info,
		Registry: reg,
		Resolver: resolver.NewGitHub(),
	})
}
