package activity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureLog = "\x1eaaa\x1fAlice\x1falice@example.com\x1f1767225600\x1fAdd billing export\n\n" +
	"120\t4\tinternal/billing/export.go\n" +
	"10\t0\tinternal/billing/export_test.go\n" +
	"\x1ebbb\x1fBob\x1fbob@example.com\x1f1767312000\x1fFix rounding bug in invoices\n\n" +
	"3\t1\tinternal/billing/export.go\n" +
	"-\t-\tassets/logo.png\n" +
	"\x1eccc\x1fAlice\x1falice@example.com\x1f1767398400\x1fRefactor scheduler\n\n" +
	"400\t300\tinternal/scheduler/loop.go\n"

func parseFixture(t *testing.T) []Commit {
	t.Helper()
	commits, err := ParseLog(fixtureLog)
	require.NoError(t, err)
	return commits
}

func TestParseLog(t *testing.T) {
	commits := parseFixture(t)
	require.Len(t, commits, 3)

	first := commits[0]
	assert.Equal(t, "aaa", first.Hash)
	assert.Equal(t, "Alice", first.Author)
	assert.Equal(t, "alice@example.com", first.Email)
	assert.Equal(t, time.Unix(1767225600, 0).UTC(), first.Time)
	assert.Equal(t, "Add billing export", first.Subject)
	require.Len(t, first.Files, 2)
	assert.Equal(t, 124, first.LinesChanged())

	binary := commits[1].Files[1]
	assert.Equal(t, "assets/logo.png", binary.Path)
	assert.Zero(t, binary.Added)
}

func TestParseLogRejectsMalformedHeader(t *testing.T) {
	_, err := ParseLog("\x1eonly\x1ftwo\n")
	require.Error(t, err)
}

func TestParseLogEmpty(t *testing.T) {
	commits, err := ParseLog("")
	require.NoError(t, err)
	require.Empty(t, commits)
}

func TestComputeTeamInsights(t *testing.T) {
	insights := ComputeTeamInsights(parseFixture(t))
	assert.Equal(t, 2, insights.ContributorCount)
	assert.InDelta(t, 5.0/12.0, insights.AverageCollaborationScore, 1e-9)

	solo := ComputeTeamInsights(parseFixture(t)[:1])
	assert.Equal(t, 1, solo.ContributorCount)
	assert.Zero(t, solo.AverageCollaborationScore)

	assert.Equal(t, TeamInsights{}, ComputeTeamInsights(nil))
}

func TestComputeQualityTrends(t *testing.T) {
	trends := ComputeQualityTrends(parseFixture(t), 500)
	assert.Equal(t, 3, trends.Commits)
	assert.InDelta(t, 1.0/3.0, trends.BugFixRatio, 1e-9)
	assert.InDelta(t, 1.0/3.0, trends.LargeChangeRatio, 1e-9)

	assert.Equal(t, QualityTrends{}, ComputeQualityTrends(nil, 500))
}

func TestComputeProductivity(t *testing.T) {
	commits := parseFixture(t)

	alice, err := ComputeProductivity(commits, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, alice.Commits)
	assert.Equal(t, 1.0, alice.ProductivityScore)
	assert.Equal(t, []string{"billing", "export", "loop", "scheduler"}, alice.SpecializationTerms)

	bob, err := ComputeProductivity(commits, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0.5, bob.ProductivityScore)
	assert.Equal(t, []string{"assets", "billing", "export", "logo"}, bob.SpecializationTerms)

	_, err = ComputeProductivity(commits, "carol")
	assert.ErrorIs(t, err, ErrUnknownContributor)

	_, err = ComputeProductivity(nil, "alice")
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestIsFix(t *testing.T) {
	assert.True(t, Commit{Subject: "fix: nil pointer"}.IsFix())
	assert.True(t, Commit{Subject: "Hotfix for login"}.IsFix())
	assert.False(t, Commit{Subject: "Add prefix handling"}.IsFix())
}

func TestGitAnalyzer(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	var logArgs []string
	g := NewGit(GitConfig{RepoPath: "/repo"})
	g.SetNowFunc(func() time.Time { return now })
	g.SetRunner(func(ctx context.Context, dir string, args ...string) ([]byte, error) {
		require.Equal(t, "/repo", dir)
		if args[0] == "rev-parse" {
			return []byte(".git\n"), nil
		}
		logArgs = args
		return []byte(fixtureLog), nil
	})

	ctx := context.Background()
	insights, err := g.TeamInsights(ctx, 14)
	require.NoError(t, err)
	assert.Equal(t, 2, insights.ContributorCount)
	assert.Contains(t, logArgs, "--since=2025-12-27T00:00:00Z")

	trends, err := g.QualityTrends(ctx, 14)
	require.NoError(t, err)
	assert.Equal(t, 3, trends.Commits)

	prod, err := g.ContributorProductivity(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, 2, prod.Commits)
	assert.Contains(t, logArgs, "--since=2025-12-11T00:00:00Z", "productivity uses the default window")
}

func TestGitAnalyzerWithoutRepository(t *testing.T) {
	g := NewGit(GitConfig{RepoPath: "/nowhere"})
	g.SetRunner(func(ctx context.Context, dir string, args ...string) ([]byte, error) {
		return nil, errors.New("fatal: not a git repository")
	})

	_, err := g.TeamInsights(context.Background(), 30)
	require.ErrorIs(t, err, ErrNoHistory)
	require.True(t, IsMissingData(err))
}

func TestGitAnalyzerWithoutCommits(t *testing.T) {
	g := NewGit(GitConfig{RepoPath: "/fresh"})
	var logCalled bool
	g.SetRunner(func(ctx context.Context, dir string, args ...string) ([]byte, error) {
		if args[0] == "rev-parse" && args[1] == "--git-dir" {
			return []byte(".git\n"), nil
		}
		if args[0] == "rev-parse" {
			return nil, errors.New("git rev-parse failed: exit status 1")
		}
		logCalled = true
		return nil, errors.New("fatal: your current branch 'main' does not have any commits yet")
	})

	_, err := g.TeamInsights(context.Background(), 30)
	require.ErrorIs(t, err, ErrNoHistory)
	require.True(t, IsMissingData(err))
	require.False(t, logCalled)
}

func TestGitAnalyzerLogFailure(t *testing.T) {
	g := NewGit(GitConfig{RepoPath: "/repo"})
	g.SetRunner(func(ctx context.Context, dir string, args ...string) ([]byte, error) {
		if args[0] == "rev-parse" {
			return nil, nil
		}
		return nil, errors.New("boom")
	})

	_, err := g.QualityTrends(context.Background(), 30)
	require.Error(t, err)
	require.False(t, IsMissingData(err))
	require.True(t, strings.Contains(err.Error(), "reading git log"))
}

func TestCachedAnalyzer(t *testing.T) {
	ctx := context.Background()
	mock := &AnalyzerMock{
		TeamInsightsFunc: func(ctx context.Context, windowDays int) (TeamInsights, error) {
			return TeamInsights{ContributorCount: windowDays}, nil
		},
		QualityTrendsFunc: func(ctx context.Context, windowDays int) (QualityTrends, error) {
			return QualityTrends{Commits: 7}, nil
		},
		ContributorProductivityFunc: func(ctx context.Context, name string) (Productivity, error) {
			if name == "ghost" {
				return Productivity{}, ErrUnknownContributor
			}
			return Productivity{Name: name, ProductivityScore: 0.5}, nil
		},
	}
	cached := NewCached(mock, time.Minute)

	for i := 0; i < 3; i++ {
		insights, err := cached.TeamInsights(ctx, 30)
		require.NoError(t, err)
		require.Equal(t, 30, insights.ContributorCount)
	}
	require.Len(t, mock.TeamInsightsCalls(), 1)

	_, err := cached.TeamInsights(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mock.TeamInsightsCalls(), 2, "different windows are cached separately")

	_, _ = cached.QualityTrends(ctx, 30)
	_, _ = cached.QualityTrends(ctx, 30)
	require.Len(t, mock.QualityTrendsCalls(), 1)

	_, _ = cached.ContributorProductivity(ctx, "Dana")
	_, _ = cached.ContributorProductivity(ctx, "dana")
	require.Len(t, mock.ContributorProductivityCalls(), 1)

	_, err = cached.ContributorProductivity(ctx, "ghost")
	require.ErrorIs(t, err, ErrUnknownContributor)
	_, _ = cached.ContributorProductivity(ctx, "ghost")
	require.Len(t, mock.ContributorProductivityCalls(), 3, "errors are not cached")

	require.NoError(t, cached.Flush(ctx))
	_, _ = cached.TeamInsights(ctx, 30)
	require.Len(t, mock.TeamInsightsCalls(), 3)
}
