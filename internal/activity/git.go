package activity

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/newhook/outlook/internal/logging"
)

// logFormat separates commits with RS and header fields with US.
const logFormat = "%x1e%H%x1f%an%x1f%ae%x1f%at%x1f%s"

// DefaultWindowDays is the history window used when none is configured.
const DefaultWindowDays = 30

// Runner executes git with args in dir and returns its standard output.
type Runner func(ctx context.Context, dir string, args ...string) ([]byte, error)

// execRunner runs the real git binary.
func execRunner(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("git %s failed: %w\n%s", args[0], err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return out, nil
}

// GitConfig configures a Git analyzer.
type GitConfig struct {
	RepoPath string
	// WindowDays bounds ContributorProductivity, which takes no window.
	WindowDays       int
	LargeChangeLines int
}

// Git implements Analyzer by reading `git log` in a repository.
type Git struct {
	repoPath         string
	windowDays       int
	largeChangeLines int
	run              Runner
	nowFunc          func() time.Time // For testing; defaults to time.Now
}

var _ Analyzer = (*Git)(nil)

// NewGit creates a git-backed analyzer.
func NewGit(cfg GitConfig) *Git {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = DefaultWindowDays
	}
	if cfg.LargeChangeLines <= 0 {
		cfg.LargeChangeLines = DefaultLargeChangeLines
	}
	return &Git{
		repoPath:         cfg.RepoPath,
		windowDays:       cfg.WindowDays,
		largeChangeLines: cfg.LargeChangeLines,
		run:              execRunner,
		nowFunc:          time.Now,
	}
}

// SetRunner replaces the git runner. This is primarily for testing purposes.
func (g *Git) SetRunner(r Runner) {
	g.run = r
}

// SetNowFunc sets the time function used to compute history windows.
// This is primarily for testing purposes.
func (g *Git) SetNowFunc(f func() time.Time) {
	g.nowFunc = f
}

// TeamInsights implements Analyzer.
func (g *Git) TeamInsights(ctx context.Context, windowDays int) (TeamInsights, error) {
	commits, err := g.commits(ctx, windowDays)
	if err != nil {
		return TeamInsights{}, err
	}
	return ComputeTeamInsights(commits), nil
}

// QualityTrends implements Analyzer.
func (g *Git) QualityTrends(ctx context.Context, windowDays int) (QualityTrends, error) {
	commits, err := g.commits(ctx, windowDays)
	if err != nil {
		return QualityTrends{}, err
	}
	return ComputeQualityTrends(commits, g.largeChangeLines), nil
}

// ContributorProductivity implements Analyzer.
func (g *Git) ContributorProductivity(ctx context.Context, name string) (Productivity, error) {
	commits, err := g.commits(ctx, g.windowDays)
	if err != nil {
		return Productivity{}, err
	}
	return ComputeProductivity(commits, name)
}

// commits reads the non-merge commits of the last windowDays.
func (g *Git) commits(ctx context.Context, windowDays int) ([]Commit, error) {
	if windowDays <= 0 {
		windowDays = g.windowDays
	}
	if _, err := g.run(ctx, g.repoPath, "rev-parse", "--git-dir"); err != nil {
		logging.Debug("no git repository", "path", g.repoPath, "error", err)
		return nil, fmt.Errorf("%w: %s is not a git repository", ErrNoHistory, g.repoPath)
	}
	if _, err := g.run(ctx, g.repoPath, "rev-parse", "--verify", "--quiet", "HEAD"); err != nil {
		logging.Debug("git repository has no commits", "path", g.repoPath, "error", err)
		return nil, fmt.Errorf("%w: %s has no commits yet", ErrNoHistory, g.repoPath)
	}

	since := g.nowFunc().AddDate(0, 0, -windowDays)
	out, err := g.run(ctx, g.repoPath,
		"log", "--no-merges", "--numstat",
		"--since="+since.UTC().Format(time.RFC3339),
		"--format="+logFormat,
	)
	if err != nil {
		return nil, fmt.Errorf("reading git log: %w", err)
	}

	commits, err := ParseLog(string(out))
	if err != nil {
		return nil, err
	}
	logging.Debug("read git history", "path", g.repoPath, "windowDays", windowDays, "commits", len(commits))
	return commits, nil
}

// ParseLog parses `git log --numstat` output produced with logFormat.
func ParseLog(out string) ([]Commit, error) {
	var commits []Commit
	for _, chunk := range strings.Split(out, "\x1e") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		lines := strings.Split(chunk, "\n")
		header := strings.Split(lines[0], "\x1f")
		if len(header) != 5 {
			return nil, fmt.Errorf("malformed git log header: %q", lines[0])
		}
		ts, err := strconv.ParseInt(strings.TrimSpace(header[3]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed commit time %q: %w", header[3], err)
		}

		c := Commit{
			Hash:    header[0],
			Author:  header[1],
			Email:   header[2],
			Time:    time.Unix(ts, 0).UTC(),
			Subject: header[4],
		}
		for _, line := range lines[1:] {
			parts := strings.SplitN(strings.TrimSpace(line), "\t", 3)
			if len(parts) != 3 {
				continue
			}
			// Binary files report "-" for both counts.
			added, _ := strconv.Atoi(parts[0])
			deleted, _ := strconv.Atoi(parts[1])
			c.Files = append(c.Files, FileChange{Path: parts[2], Added: added, Deleted: deleted})
		}
		commits = append(commits, c)
	}
	return commits, nil
}
