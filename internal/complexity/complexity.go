// Package complexity scores the intrinsic complexity of a work item and
// measures how alike two items are. Everything here is a pure function of
// its inputs.
package complexity

import (
	"sort"
	"strings"
	"unicode"

	"github.com/newhook/outlook/internal/items"
)

// MaxScore is the upper bound of Score.
const MaxScore = 10.0

// indicators are stems of vocabulary that signals harder work. A token
// matches when it starts with the stem.
var indicators = []string{
	"algorithm",
	"architect",
	"async",
	"authenticat",
	"authoriz",
	"cach",
	"concurren",
	"database",
	"deadlock",
	"distribut",
	"encrypt",
	"integrat",
	"migrat",
	"parallel",
	"perform",
	"protocol",
	"race",
	"refactor",
	"scalab",
	"secur",
	"synchron",
	"thread",
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "into": {}, "are": {}, "was": {}, "but": {}, "not": {},
	"have": {}, "has": {}, "should": {}, "would": {}, "when": {}, "all": {},
	"can": {}, "will": {}, "our": {}, "its": {}, "add": {}, "use": {},
}

// Scorer scores items with a fixed set of weights.
type Scorer struct {
	weights Weights
}

// New creates a Scorer with the given weights.
func New(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Default returns a Scorer using DefaultWeights.
func Default() *Scorer {
	return New(DefaultWeights())
}

// Weights returns the weights the scorer was built with.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score returns the complexity of an item in [0, MaxScore]. Adding indicator
// terms, raising priority or adding dependencies never lowers the score.
func (s *Scorer) Score(item items.WorkItem) float64 {
	w := s.weights

	score := lengthPoints(w.LengthTiers, len(item.Body))
	score += capped(float64(len(IndicatorTerms(item)))*w.IndicatorPoints, w.IndicatorCap)
	score += w.PriorityPoints[item.Priority.Rank()]
	score += capped(float64(len(item.Dependencies))*w.DependencyPoints, w.DependencyCap)

	return clamp(score, 0, MaxScore)
}

// Similarity returns how alike two items are in [0,1]. It is symmetric.
func (s *Scorer) Similarity(a, b items.WorkItem) float64 {
	w := s.weights

	sim := jaccard(Tokens(a.Text()), Tokens(b.Text())) * w.TextWeight
	if a.Priority.Rank() == b.Priority.Rank() {
		sim += w.PriorityWeight
	}
	if a.Assignee != "" && strings.EqualFold(a.Assignee, b.Assignee) {
		sim += w.AssigneeWeight
	}
	return clamp(sim, 0, 1)
}

// Score scores an item with DefaultWeights.
func Score(item items.WorkItem) float64 {
	return Default().Score(item)
}

// Similarity compares two items with DefaultWeights.
func Similarity(a, b items.WorkItem) float64 {
	return Default().Similarity(a, b)
}

// IndicatorTerms returns the sorted indicator stems present in the item's text.
func IndicatorTerms(item items.WorkItem) []string {
	found := make(map[string]struct{})
	for tok := range Tokens(item.Text()) {
		for _, stem := range indicators {
			if strings.HasPrefix(tok, stem) {
				found[stem] = struct{}{}
			}
		}
	}
	terms := make([]string, 0, len(found))
	for t := range found {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// Tokens returns the set of lowercased words of at least three characters,
// excluding common stop words.
func Tokens(text string) map[string]struct{} {
	set := make(map[string]struct{})
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

// Overlap reports whether any of terms occurs in the text's tokens,
// matching by prefix in either direction so "db" style stems still hit.
func Overlap(text string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	toks := Tokens(text)
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if len(term) < 3 {
			continue
		}
		for tok := range toks {
			if strings.HasPrefix(tok, term) || strings.HasPrefix(term, tok) {
				return true
			}
		}
	}
	return false
}

func lengthPoints(tiers []LengthTier, n int) float64 {
	points := 0.0
	for _, tier := range tiers {
		if n >= tier.MinChars {
			points = tier.Points
		}
	}
	return points
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
