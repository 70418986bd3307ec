package activity

import (
	"path"
	"regexp"
	"sort"
	"strings"
	"time"
)

// DefaultLargeChangeLines is the added+deleted line count above which a
// commit counts as a large change.
const DefaultLargeChangeLines = 500

// specializationTerms is how many path terms are reported per contributor.
const specializationTerms = 5

var fixPattern = regexp.MustCompile(`(?i)\b(fix(es|ed)?|bug|hotfix|patch|regression)\b`)

// FileChange is one file touched by a commit.
type FileChange struct {
	Path    string
	Added   int
	Deleted int
}

// Commit is one parsed commit.
type Commit struct {
	Hash    string
	Author  string
	Email   string
	Time    time.Time
	Subject string
	Files   []FileChange
}

// LinesChanged returns added plus deleted lines.
func (c Commit) LinesChanged() int {
	n := 0
	for _, f := range c.Files {
		n += f.Added + f.Deleted
	}
	return n
}

// IsFix reports whether the commit subject describes a fix.
func (c Commit) IsFix() bool {
	return fixPattern.MatchString(c.Subject)
}

// ComputeTeamInsights derives team insights from commits.
func ComputeTeamInsights(commits []Commit) TeamInsights {
	fileAuthors := make(map[string]map[string]struct{})
	authorFiles := make(map[string]map[string]struct{})
	for _, c := range commits {
		if authorFiles[c.Author] == nil {
			authorFiles[c.Author] = make(map[string]struct{})
		}
		for _, f := range c.Files {
			if fileAuthors[f.Path] == nil {
				fileAuthors[f.Path] = make(map[string]struct{})
			}
			fileAuthors[f.Path][c.Author] = struct{}{}
			authorFiles[c.Author][f.Path] = struct{}{}
		}
	}

	insights := TeamInsights{ContributorCount: len(authorFiles)}
	if len(authorFiles) < 2 {
		return insights
	}

	total := 0.0
	for _, files := range authorFiles {
		if len(files) == 0 {
			continue
		}
		shared := 0
		for f := range files {
			if len(fileAuthors[f]) > 1 {
				shared++
			}
		}
		total += float64(shared) / float64(len(files))
	}
	insights.AverageCollaborationScore = total / float64(len(authorFiles))
	return insights
}

// ComputeQualityTrends derives quality trends from commits.
func ComputeQualityTrends(commits []Commit, largeChangeLines int) QualityTrends {
	trends := QualityTrends{Commits: len(commits)}
	if len(commits) == 0 {
		return trends
	}
	if largeChangeLines <= 0 {
		largeChangeLines = DefaultLargeChangeLines
	}

	fixes, large := 0, 0
	for _, c := range commits {
		if c.IsFix() {
			fixes++
		}
		if c.LinesChanged() > largeChangeLines {
			large++
		}
	}
	trends.BugFixRatio = float64(fixes) / float64(len(commits))
	trends.LargeChangeRatio = float64(large) / float64(len(commits))
	return trends
}

// ComputeProductivity describes the named contributor. Names match the
// commit author name or email, case-insensitively.
func ComputeProductivity(commits []Commit, name string) (Productivity, error) {
	if len(commits) == 0 {
		return Productivity{}, ErrNoHistory
	}

	perAuthor := make(map[string]int)
	terms := make(map[string]int)
	mine := 0
	for _, c := range commits {
		perAuthor[c.Author]++
		if !matchesAuthor(c, name) {
			continue
		}
		mine++
		for _, f := range c.Files {
			for _, term := range pathTerms(f.Path) {
				terms[term]++
			}
		}
	}
	if mine == 0 {
		return Productivity{Name: name}, ErrUnknownContributor
	}

	busiest := 0
	for _, n := range perAuthor {
		if n > busiest {
			busiest = n
		}
	}

	return Productivity{
		Name:                name,
		Commits:             mine,
		ProductivityScore:   float64(mine) / float64(busiest),
		SpecializationTerms: topTerms(terms, specializationTerms),
	}, nil
}

func matchesAuthor(c Commit, name string) bool {
	name = strings.TrimSpace(name)
	return strings.EqualFold(c.Author, name) || (c.Email != "" && strings.EqualFold(c.Email, name))
}

// pathTerms splits a file path into directory names and the file's base
// name without extension.
func pathTerms(p string) []string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	dir, file := path.Split(p)
	var terms []string
	for _, d := range strings.Split(strings.Trim(dir, "/"), "/") {
		if len(d) >= 3 && d != "internal" && d != "src" && d != "pkg" {
			terms = append(terms, strings.ToLower(d))
		}
	}
	base := strings.TrimSuffix(file, path.Ext(file))
	base = strings.TrimSuffix(base, "_test")
	if len(base) >= 3 {
		terms = append(terms, strings.ToLower(base))
	}
	return terms
}

func topTerms(counts map[string]int, n int) []string {
	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
