// Package manager drives the install pipeline end to end: resolve version,
// check local presence, fetch, normalize, persist, set permissions,
// activate. One Manager invocation performs one tool/version switch.
package manager

import (
	"context"
	"fmt"

	"github.com/coreos/go-semver/semver"

	"github.com/opswitch/opswitch/internal/archive"
	"github.com/opswitch/opswitch/internal/fetch"
	"github.com/opswitch/opswitch/internal/platform"
	"github.com/opswitch/opswitch/internal/registry"
	"github.com/opswitch/opswitch/internal/store"
)

// Latest is the pseudo-version that delegates to the version resolver.
const Latest = "latest"

// Resolver resolves "latest" to a concrete version string for a GitHub
// owner/repo. The manager treats it as opaque.
type Resolver interface {
	Latest(ctx context.Context, repo string) (string, error)
}

// InvalidVersionError reports a version string that does not parse as a
// semantic version. It is raised before any network or filesystem I/O.
type InvalidVersionError struct {
	Input string
	Err   error
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: %v", e.Input, e.Err)
}

func (e *InvalidVersionError) Unwrap() error {
	return e.Err
}

// Config wires the manager's collaborators.
type Config struct {
	// BinDir is the per-user bin root. Required.
	BinDir string
	// Platform is the detected host platform. Required.
	Platform *platform.Info
	// Registry defaults to the built-in catalog.
	Registry *registry.Registry
	// Fetcher defaults to fetch.New().
	Fetcher *fetch.Fetcher
	// Resolver handles "latest" requests; without one, "latest" fails.
	Resolver Resolver
}

// Manager orchestrates version switches for a fixed bin root.
type Manager struct {
	registry *registry.Registry
	store    *store.Store
	fetcher  *fetch.Fetcher
	resolver Resolver
	platform *platform.Info
}

// New creates a manager from config, filling in default collaborators.
func New(cfg Config) (*Manager, error) {
	if cfg.BinDir == "" {
		return nil, fmt.Errorf("BinDir is required")
	}
	if cfg.Platform == nil {
		return nil, fmt.Errorf("Platform is required")
	}

	reg := cfg.Registry
	if reg == nil {
		reg = registry.New()
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = fetch.New()
	}

	return &Manager{
		registry: reg,
		store:    store.New(cfg.BinDir),
		fetcher:  fetcher,
		resolver: cfg.Resolver,
		platform: cfg.Platform,
	}, nil
}

// Registry exposes the catalog backing this manager.
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// UseOptions configures one version switch.
type UseOptions struct {
	Tool string
	// Version is a literal semantic version or Latest.
	Version string
	// Force re-downloads even when the versioned binary already exists.
	Force bool
	// OnProgress, if non-nil, receives (bytes written, total expected)
	// after every persisted chunk.
	OnProgress func(written, total int64)
}

// UseResult describes a completed switch.
type UseResult struct {
	Tool    string
	Version string
	// Path is the versioned binary the launcher now points at.
	Path string
	// Fetched is false when the idempotent fast path skipped the download.
	Fetched bool
	// BytesWritten is the persisted size; zero on the fast path.
	BytesWritten int64
}

// Use installs (if needed) and activates one tool version. Errors abort the
// remaining pipeline immediately; nothing is rolled back. Re-running after
// a failure is safe: presence is keyed on the atomically renamed versioned
// path, and activation is re-applied on every run.
func (m *Manager) Use(ctx context.Context, opts UseOptions) (*UseResult, error) {
	spec, err := m.registry.Resolve(opts.Tool)
	if err != nil {
		return nil, err
	}

	versionStr := opts.Version
	if versionStr == Latest || versionStr == "" {
		if m.resolver == nil {
			return nil, fmt.Errorf("no version resolver configured for %q requests", Latest)
		}
		versionStr, err = m.resolver.Latest(ctx, spec.Repo)
		if err != nil {
			return nil, fmt.Errorf("resolve latest %s version: %w", spec.Name, err)
		}
	}

	version, err := semver.NewVersion(versionStr)
	if err != nil {
		return nil, &InvalidVersionError{Input: versionStr, Err: err}
	}

	result := &UseResult{
		Tool:    spec.Name,
		Version: version.String(),
		Path:    m.store.VersionedPath(spec.Name, version.String()),
	}

	if opts.Force || !m.store.Exists(result.Path) {
		result.BytesWritten, err = m.download(ctx, spec, *version, result.Path, opts.OnProgress)
		if err != nil {
			return nil, err
		}
		result.Fetched = true
	}

	// Always re-applied: permissions can drift and the launcher may point
	// elsewhere, even when the binary was already on disk.
	if err := m.store.SetExecutable(result.Path); err != nil {
		return nil, err
	}
	if err := m.store.Activate(result.Path, m.store.LauncherPath(spec.Name)); err != nil {
		return nil, err
	}

	return result, nil
}

// download fetches, normalizes, and persists one versioned binary.
func (m *Manager) download(ctx context.Context, spec registry.ToolSpec, version semver.Version, path string, onProgress func(written, total int64)) (int64, error) {
	url, err := registry.BuildURL(spec, version, m.platform.DownloadOS(), m.platform.DownloadArch())
	if err != nil {
		return 0, err
	}

	res, err := m.fetcher.Fetch(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("download %s %s: %w", spec.Name, version, err)
	}
	defer res.Body.Close()

	stream, total, err := archive.Normalize(res.Body, res.ContentType, res.Length)
	if err != nil {
		return 0, fmt.Errorf("unpack %s %s: %w", spec.Name, version, err)
	}

	var progress store.ProgressFunc
	if onProgress != nil {
		progress = func(written int64) {
			onProgress(written, total)
		}
	}

	written, err := m.store.Persist(stream, path, progress)
	if err != nil {
		return written, fmt.Errorf("persist %s %s: %w", spec.Name, version, err)
	}

	return written, nil
}

// ToolStatus reports the active version of one tool.
type ToolStatus struct {
	Tool    string
	Version string
	// Configured is false when the tool has no launcher link.
	Configured bool
}

// Status reports the active version of a single catalog tool.
func (m *Manager) Status(tool string) (ToolStatus, error) {
	spec, err := m.registry.Resolve(tool)
	if err != nil {
		return ToolStatus{}, err
	}

	version, ok, err := m.store.Active(spec.Name)
	if err != nil {
		return ToolStatus{}, err
	}

	return ToolStatus{Tool: spec.Name, Version: version, Configured: ok}, nil
}

// StatusAll reports the active version of every catalog tool, in name order.
func (m *Manager) StatusAll() ([]ToolStatus, error) {
	names := m.registry.Names()
	statuses := make([]ToolStatus, 0, len(names))
	for _, name := range names {
		status, err := m.Status(name)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
