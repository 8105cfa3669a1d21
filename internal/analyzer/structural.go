package analyzer

import (
	"slices"

	"github.com/ludo-technologies/libfinder/internal/constants"
)

// StructuralOptions holds the fixed tolerances of the structural heuristics
type StructuralOptions struct {
	// MinParameterBound is the candidate usage budget when the reference uses
	// its parameters at most once in total.
	MinParameterBound int
	// SlackNumerator/SlackDenominator scale the reference usage, rounded up.
	SlackNumerator   int
	SlackDenominator int
	// MaxSequenceDelta bounds the token count difference when calls are not compared.
	MaxSequenceDelta int
}

// DefaultStructuralOptions returns the standard tolerances
func DefaultStructuralOptions() StructuralOptions {
	return StructuralOptions{
		MinParameterBound: constants.DefaultMinParameterBound,
		SlackNumerator:    constants.DefaultParameterSlackNumerator,
		SlackDenominator:  constants.DefaultParameterSlackDenominator,
		MaxSequenceDelta:  constants.DefaultMaxSequenceDelta,
	}
}

// ComparisonContext pairs a reference function with a candidate for one
// evaluation. The roles are not interchangeable.
type ComparisonContext struct {
	Reference *FunctionFeatures
	Candidate *FunctionFeatures
}

// NewComparisonContext extracts features for both texts
func NewComparisonContext(reference, candidate string) (*ComparisonContext, error) {
	ref, err := ExtractFeatures(reference)
	if err != nil {
		return nil, err
	}
	cand, err := ExtractFeatures(candidate)
	if err != nil {
		return nil, err
	}
	return &ComparisonContext{Reference: ref, Candidate: cand}, nil
}

// StructuralMatcher decides whether a candidate has the same shape as a
// reference, tolerating common decompiler rewrites.
type StructuralMatcher struct {
	opts StructuralOptions
}

// NewStructuralMatcher creates a structural matcher
func NewStructuralMatcher(opts StructuralOptions) *StructuralMatcher {
	if opts.SlackDenominator <= 0 {
		opts.SlackDenominator = 1
	}
	return &StructuralMatcher{opts: opts}
}

// ParameterBound returns the largest total parameter usage a candidate may
// have for a reference whose usage totals refSum.
func (m *StructuralMatcher) ParameterBound(refSum int) int {
	if refSum <= 1 {
		return m.opts.MinParameterBound
	}
	return (refSum*m.opts.SlackNumerator + m.opts.SlackDenominator - 1) / m.opts.SlackDenominator
}

// SimilarParameters passes when the candidate uses its parameters no more
// than the scaled reference usage.
func (m *StructuralMatcher) SimilarParameters(c *ComparisonContext) bool {
	return c.Candidate.Parameters.Sum() <= m.ParameterBound(c.Reference.Parameters.Sum())
}

// SimilarKeywords compares keyword order and frequency.
//
// The tail loop reads candidate keywords starting at index zero rather than
// at the end of the common prefix. Extra branch keywords past that window are
// never inspected.
func (m *StructuralMatcher) SimilarKeywords(c *ComparisonContext) bool {
	ref, cand := c.Reference.Keywords, c.Candidate.Keywords
	shorter, longer := len(ref), len(cand)
	if shorter > longer {
		shorter, longer = longer, shorter
	}

	refCounts := countOccurrences(ref)
	candCounts := countOccurrences(cand)

	for i := 0; i < shorter; i++ {
		if cand[i] != ref[i] || candCounts[ref[i]] < refCounts[ref[i]] {
			return false
		}
	}

	for i := 0; i < longer-shorter && i < len(cand); i++ {
		kw := cand[i]
		if !slices.Contains(constants.BranchKeywords, kw) || refCounts[kw] > 0 {
			continue
		}
		if i != longer-1 && isSyntheticGuard(cand, i) {
			continue
		}
		return false
	}
	return true
}

// isSyntheticGuard reports whether seq[i] sits between a while and a break.
// A missing neighbour never qualifies.
func isSyntheticGuard(seq []string, i int) bool {
	return i > 0 && i+1 < len(seq) && seq[i-1] == "while" && seq[i+1] == "break"
}

// SimilarFunctionCalls compares the interleaving of calls and keywords.
// A leading synthetic loop guard on the candidate is ignored when the
// reference does not start with a loop.
func (m *StructuralMatcher) SimilarFunctionCalls(c *ComparisonContext) bool {
	ref, cand := c.Reference.Tokens, c.Candidate.Tokens

	effective := cand
	skipped := false
	if len(cand) > 3 && isBareKeyword(cand[0], "while") && (len(ref) == 0 || !isBareKeyword(ref[0], "while")) {
		effective = cand[3:]
		skipped = true
	}

	n := min(len(ref), len(effective))
	for i := 0; i < n; i++ {
		if effective[i].Call == ref[i].Call {
			continue
		}
		keywords := effective.KeywordCount() >= ref.KeywordCount()
		if skipped {
			keywords = keywords || cand.KeywordCount() >= ref.KeywordCount()
		}
		calls := effective.CallCount() >= ref.CallCount()
		return keywords && calls
	}
	return true
}

func isBareKeyword(t Token, text string) bool {
	return !t.Call && t.Text == text
}

// Preconditions checks that the candidate is at least as large as the
// reference in text, tokens and keywords.
func (m *StructuralMatcher) Preconditions(c *ComparisonContext) bool {
	return c.Candidate.Length >= c.Reference.Length &&
		len(c.Candidate.Tokens) >= len(c.Reference.Tokens) &&
		len(c.Candidate.Keywords) >= len(c.Reference.Keywords)
}

// IsSimilarFunctions is the structural gate. With checkCalls the size
// preconditions and the call comparison apply; without it the token
// sequences may differ in length by at most MaxSequenceDelta.
func (m *StructuralMatcher) IsSimilarFunctions(c *ComparisonContext, checkCalls bool) bool {
	if checkCalls && !m.Preconditions(c) {
		return false
	}
	if !m.SimilarParameters(c) {
		return false
	}
	if !m.SimilarKeywords(c) {
		return false
	}
	if checkCalls {
		return m.SimilarFunctionCalls(c)
	}
	delta := len(c.Candidate.Tokens) - len(c.Reference.Tokens)
	if delta < 0 {
		delta = -delta
	}
	return delta <= m.opts.MaxSequenceDelta
}

func countOccurrences(items []string) map[string]int {
	counts := make(map[string]int, len(items))
	for _, it := range items {
		counts[it]++
	}
	return counts
}
