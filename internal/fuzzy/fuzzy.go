// Package fuzzy ranks near-miss candidates for "did you mean" suggestions
// on unknown commands and flags. Matching is case-insensitive Levenshtein
// distance with bonuses for shared prefixes and similar length.
package fuzzy

import (
	"sort"
	"strings"
)

// minInputLength guards against suggesting for one-character typos, which
// are as likely to be stray tokens as misspellings.
const minInputLength = 2

// Matcher scores candidates against an input within a maximum edit distance.
type Matcher struct {
	maxDistance int
}

// NewMatcher creates a matcher with the given maximum edit distance.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{maxDistance: maxDistance}
}

// Match is one scored candidate.
type Match struct {
	Value    string
	Distance int
	Score    float64
}

// FindBest returns the highest-scoring candidate, or "" when nothing lands
// within the distance budget.
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches returns every candidate within the distance budget, best
// first. Exact matches are excluded; they are not typos.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	if len(input) < minInputLength {
		return nil
	}
	input = strings.ToLower(input)

	var matches []Match
	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		if lower == input {
			continue
		}
		distance := m.distance(input, lower)
		if distance > m.maxDistance {
			continue
		}
		matches = append(matches, Match{
			Value:    candidate,
			Distance: distance,
			Score:    m.score(input, lower, distance),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// score blends edit distance with prefix and length similarity into [0, 1].
func (m *Matcher) score(input, candidate string, distance int) float64 {
	maxLen := max(len(input), len(candidate))
	if maxLen == 0 {
		return 1.0
	}

	editScore := 1.0 - float64(distance)/float64(maxLen)

	prefixBonus := 0.0
	if p := commonPrefix(input, candidate); p > 0 {
		prefixBonus = float64(p) / float64(min(len(input), len(candidate))) * 0.3
	}

	lengthBonus := (1.0 - float64(abs(len(input)-len(candidate)))/float64(maxLen)) * 0.2

	score := editScore + prefixBonus + lengthBonus
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// distance is Levenshtein with two-row storage and early exit once a whole
// row exceeds the budget.
func (m *Matcher) distance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if abs(len(a)-len(b)) > m.maxDistance {
		return m.maxDistance + 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(b); i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 0
			if a[j-1] != b[i-1] {
				cost = 1
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func min3(a, b, c int) int {
	return min(a, min(b, c))
}

// FindBestCommand returns the closest command or option spelling to input.
func FindBestCommand(input string, commands []string, maxDistance int) string {
	return NewMatcher(maxDistance).FindBest(input, commands)
}

// FindBestFlag returns the closest flag name to input.
func FindBestFlag(input string, flags []string, maxDistance int) string {
	return NewMatcher(maxDistance).FindBest(input, flags)
}

// FindSuggestions returns up to maxSuggestions candidates, best first.
func FindSuggestions(input string, candidates []string, maxDistance, maxSuggestions int) []string {
	matches := NewMatcher(maxDistance).FindMatches(input, candidates)
	out := make([]string, 0, min(len(matches), maxSuggestions))
	for i, match := range matches {
		if i >= maxSuggestions {
			break
		}
		out = append(out, match.Value)
	}
	return out
}
