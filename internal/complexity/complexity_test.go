package complexity

import (
	"strings"
	"testing"

	"github.com/newhook/outlook/internal/items"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreRange(t *testing.T) {
	empty := items.WorkItem{ID: "a"}
	require.GreaterOrEqual(t, Score(empty), 0.0)

	loaded := items.WorkItem{
		ID:           "b",
		Title:        "Rework the distributed database architecture",
		Body:         strings.Repeat("concurrency security performance algorithm integration migration ", 30),
		Priority:     items.PriorityCritical,
		Dependencies: []string{"1", "2", "3", "4", "5", "6", "7", "8"},
	}
	require.Equal(t, MaxScore, Score(loaded), "a fully loaded item should hit the cap")
}

func TestScoreMonotonicity(t *testing.T) {
	a := items.WorkItem{
		ID:       "a",
		Title:    "Fix typo",
		Body:     "Small copy change.",
		Priority: items.PriorityLow,
	}
	b := items.WorkItem{
		ID:           "b",
		Title:        "Redesign caching architecture",
		Body:         strings.Repeat("Improve database performance and security of the integration layer. ", 10),
		Priority:     items.PriorityCritical,
		Dependencies: []string{"x", "y", "z"},
	}
	assert.Greater(t, Score(b), Score(a))
}

func TestScoreNeverDecreases(t *testing.T) {
	base := items.WorkItem{ID: "a", Title: "Add endpoint", Body: "Plain work.", Priority: items.PriorityLow}
	s0 := Score(base)

	withTerms := base
	withTerms.Body = "Plain work touching the database and security."
	s1 := Score(withTerms)
	assert.GreaterOrEqual(t, s1, s0)

	withPriority := withTerms
	withPriority.Priority = items.PriorityHigh
	s2 := Score(withPriority)
	assert.GreaterOrEqual(t, s2, s1)

	withDeps := withPriority
	withDeps.Dependencies = []string{"d1"}
	s3 := Score(withDeps)
	assert.GreaterOrEqual(t, s3, s2)
}

func TestScoreIsDeterministic(t *testing.T) {
	item := items.WorkItem{
		ID:    "a",
		Title: "Concurrency bug in scheduler",
		Body:  "Race between worker threads and the cache.",
	}
	first := Score(item)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Score(item))
	}
}

func TestSimilarityOrdering(t *testing.T) {
	ref := items.WorkItem{
		ID:       "r",
		Title:    "Payment webhook retries failing",
		Body:     "Stripe webhook handler retries exhaust the queue",
		Priority: items.PriorityHigh,
		Assignee: "dana",
	}
	near := items.WorkItem{
		ID:       "n",
		Title:    "Payment webhook retries duplicated",
		Body:     "Stripe webhook handler retries twice",
		Priority: items.PriorityHigh,
		Assignee: "dana",
	}
	unrelated := items.WorkItem{
		ID:       "u",
		Title:    "Update logo colours",
		Body:     "Marketing wants a brighter palette",
		Priority: items.PriorityLow,
		Assignee: "lee",
	}
	assert.Greater(t, Similarity(ref, near), Similarity(ref, unrelated))
	assert.Equal(t, 0.0, Similarity(ref, unrelated))
}

func TestSimilaritySymmetric(t *testing.T) {
	a := items.WorkItem{ID: "a", Title: "Import CSV orders", Priority: items.PriorityMedium, Assignee: "kim"}
	b := items.WorkItem{ID: "b", Title: "Export CSV invoices", Priority: items.PriorityMedium}
	require.Equal(t, Similarity(a, b), Similarity(b, a))
}

func TestSimilarityBounds(t *testing.T) {
	a := items.WorkItem{ID: "a", Title: "Same words here", Priority: items.PriorityHigh, Assignee: "kim"}
	require.InDelta(t, 1.0, Similarity(a, a), 1e-9)
	require.Equal(t, 0.0, Similarity(items.WorkItem{Priority: items.PriorityLow}, items.WorkItem{Priority: items.PriorityHigh}))
}

func TestIndicatorTerms(t *testing.T) {
	item := items.WorkItem{Title: "Architectural review", Body: "Check the caching and security model."}
	require.Equal(t, []string{"architect", "cach", "secur"}, IndicatorTerms(item))
}

func TestTokensDropsShortAndStopWords(t *testing.T) {
	toks := Tokens("The API is on fire, and the DB too!")
	_, hasThe := toks["the"]
	_, hasIs := toks["is"]
	_, hasAPI := toks["api"]
	_, hasFire := toks["fire"]
	assert.False(t, hasThe)
	assert.False(t, hasIs)
	assert.True(t, hasAPI)
	assert.True(t, hasFire)
}

func TestOverlap(t *testing.T) {
	assert.True(t, Overlap("Tune postgres queries", []string{"postgres"}))
	assert.True(t, Overlap("Database index rebuild", []string{"databases"}))
	assert.False(t, Overlap("Update docs", []string{"kubernetes"}))
	assert.False(t, Overlap("Update docs", nil))
}
