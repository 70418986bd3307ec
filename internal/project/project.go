package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/newhook/outlook/internal/activity"
	"github.com/newhook/outlook/internal/logging"
	"github.com/newhook/outlook/internal/store"
)

const (
	// ConfigDir is the directory name for project state.
	ConfigDir = logging.ConfigDir
	// ConfigFile is the name of the project config file.
	ConfigFile = "config.toml"
	// DefaultDB is the default item database file name.
	DefaultDB = "outlook.db"
)

// Project is an initialized outlook project: its config, item store and
// the activity analyzer for its repository.
type Project struct {
	Root     string       // Project directory path
	Config   *Config      // Parsed config.toml
	Store    *store.Store // Item database
	Analyzer *activity.Cached
}

// Find finds a project from a flag value or current directory.
// If flagValue is non-empty, uses that path; otherwise uses cwd.
func Find(ctx context.Context, flagValue string) (*Project, error) {
	if flagValue != "" {
		return find(ctx, flagValue)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return find(ctx, cwd)
}

// find walks up from startDir looking for a .outlook/config.toml file.
func find(ctx context.Context, startDir string) (*Project, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	for {
		configPath := filepath.Join(dir, ConfigDir, ConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return load(ctx, dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no project found (no %s directory); run 'outlook init'", ConfigDir)
		}
		dir = parent
	}
}

// load loads a project from the given root directory.
func load(ctx context.Context, root string) (*Project, error) {
	configPath := filepath.Join(root, ConfigDir, ConfigFile)
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if err := logging.Init(root, cfg.Log.GetLevel()); err != nil {
		logging.Warn("failed to initialize logging", "error", err)
	}

	proj := &Project{
		Root:   root,
		Config: cfg,
	}

	st, err := store.OpenPath(ctx, proj.DBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open item database: %w", err)
	}
	proj.Store = st

	proj.Analyzer = activity.NewCached(activity.NewGit(activity.GitConfig{
		RepoPath:         proj.RepoPath(),
		WindowDays:       cfg.Risk.GetWindowDays(),
		LargeChangeLines: cfg.Git.GetLargeChangeLines(),
	}), cfg.Git.GetCacheTTL())

	logging.Debug("project loaded", "root", root, "db", proj.DBPath(), "repo", proj.RepoPath())
	return proj, nil
}

// Create initializes a new project at the given directory and opens it.
func Create(ctx context.Context, dir string) (*Project, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDir)
	if _, err := os.Stat(filepath.Join(configDir, ConfigFile)); err == nil {
		return nil, fmt.Errorf("project already exists at %s", absDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}

	cfg := &Config{
		Project: ProjectConfig{
			Name:      filepath.Base(absDir),
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		},
	}
	configPath := filepath.Join(configDir, ConfigFile)
	if err := cfg.SaveDocumentedConfig(configPath); err != nil {
		return nil, fmt.Errorf("failed to write config: %w", err)
	}

	proj, err := load(ctx, absDir)
	if err != nil {
		os.Remove(configPath)
		return nil, err
	}
	return proj, nil
}

// DBPath returns the path to the item database.
func (p *Project) DBPath() string {
	path := p.Config.Store.GetPath()
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, ConfigDir, path)
}

// RepoPath returns the path to the repository analyzed for activity.
func (p *Project) RepoPath() string {
	path := p.Config.Git.GetRepoPath()
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}

// Close closes the item database and the debug log.
func (p *Project) Close() error {
	var errs []error
	if p.Store != nil {
		if err := p.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing item database: %w", err))
		}
	}
	if err := logging.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing log: %w", err))
	}
	return errors.Join(errs...)
}
