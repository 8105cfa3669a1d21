package analyzer

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ludo-technologies/libfinder/internal/constants"
	"github.com/sourcegraph/conc/pool"
)

// NamedFunction is a function text with its name
type NamedFunction struct {
	Name string
	Text string
}

// MatcherConfig configures a FunctionMatcher
type MatcherConfig struct {
	AliasThreshold float64
	AliasScope     string
	CheckCalls     bool
	MaxGoroutines  int
	Structural     StructuralOptions
}

// DefaultMatcherConfig returns the standard matcher configuration
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		AliasThreshold: constants.DefaultAliasThreshold,
		AliasScope:     constants.AliasScopeAll,
		CheckCalls:     true,
		MaxGoroutines:  runtime.NumCPU(),
		Structural:     DefaultStructuralOptions(),
	}
}

// BestCandidate is the highest scoring candidate that passed the structural gate
type BestCandidate struct {
	Index int
	Name  string
	Text  string
	Score float64
}

// AliasCandidate is a candidate scoring above the alias threshold against
// the best candidate
type AliasCandidate struct {
	Index      int
	Name       string
	Score      float64
	Structural bool
}

// MatchResult is the outcome of matching one reference against a pool
type MatchResult struct {
	Reference    string
	Best         *BestCandidate
	Aliases      []AliasCandidate
	SimilarCount int
	// Skipped counts candidates whose text could not be analyzed
	Skipped int
}

// Matched reports whether any candidate passed the structural gate
func (r *MatchResult) Matched() bool {
	return r.Best != nil
}

type evaluation struct {
	features *FunctionFeatures
	score    float64
	similar  bool
	skipped  bool
}

// FunctionMatcher ranks candidate functions against a reference
type FunctionMatcher struct {
	config     MatcherConfig
	structural *StructuralMatcher
}

// NewFunctionMatcher creates a function matcher
func NewFunctionMatcher(config MatcherConfig) *FunctionMatcher {
	if config.MaxGoroutines <= 0 {
		config.MaxGoroutines = runtime.NumCPU()
	}
	if config.AliasScope == "" {
		config.AliasScope = constants.AliasScopeAll
	}
	return &FunctionMatcher{
		config:     config,
		structural: NewStructuralMatcher(config.Structural),
	}
}

// Structural returns the structural matcher in use
func (m *FunctionMatcher) Structural() *StructuralMatcher {
	return m.structural
}

// PrepareCandidates builds a sealed feature cache for a candidate pool
func (m *FunctionMatcher) PrepareCandidates(ctx context.Context, candidates []NamedFunction) (*FeatureCache, error) {
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}
	return PopulateFeatureCache(ctx, texts, m.config.MaxGoroutines)
}

// MatchReference scores every candidate against reference and keeps the
// best one among those passing the structural gate. Ties go to the earlier
// candidate. cache may be nil.
func (m *FunctionMatcher) MatchReference(ctx context.Context, reference NamedFunction, candidates []NamedFunction, cache *FeatureCache) (*MatchResult, error) {
	ref, err := ExtractFeatures(reference.Text)
	if err != nil {
		return nil, fmt.Errorf("reference %s: %w", reference.Name, err)
	}

	result := &MatchResult{Reference: reference.Name}
	if len(candidates) == 0 {
		return result, nil
	}

	evals := make([]evaluation, len(candidates))
	p := pool.New().WithMaxGoroutines(m.config.MaxGoroutines).WithContext(ctx)
	for i, cand := range candidates {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			evals[i] = m.evaluate(ref, cand.Text, cache)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("matching %s: %w", reference.Name, err)
	}

	bestIdx := -1
	for i, e := range evals {
		if e.skipped {
			result.Skipped++
			continue
		}
		if !e.similar {
			continue
		}
		result.SimilarCount++
		// Strict > keeps the lowest index among equal scores. A last-wins
		// overwrite would make the pick depend on pool completion order.
		if bestIdx < 0 || e.score > evals[bestIdx].score {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return result, nil
	}

	result.Best = &BestCandidate{
		Index: bestIdx,
		Name:  candidates[bestIdx].Name,
		Text:  candidates[bestIdx].Text,
		Score: evals[bestIdx].score,
	}

	aliases, err := m.findAliases(ctx, bestIdx, evals, candidates)
	if err != nil {
		return nil, fmt.Errorf("aliases of %s: %w", candidates[bestIdx].Name, err)
	}
	result.Aliases = aliases
	return result, nil
}

func (m *FunctionMatcher) evaluate(ref *FunctionFeatures, text string, cache *FeatureCache) evaluation {
	cand, err := cache.Features(text)
	if err != nil {
		return evaluation{skipped: true}
	}
	cc := &ComparisonContext{Reference: ref, Candidate: cand}
	return evaluation{
		features: cand,
		score:    ScoreFeatures(ref, cand).Total(),
		similar:  m.structural.IsSimilarFunctions(cc, m.config.CheckCalls),
	}
}

// findAliases scores the winner against the other candidates in scope
func (m *FunctionMatcher) findAliases(ctx context.Context, bestIdx int, evals []evaluation, candidates []NamedFunction) ([]AliasCandidate, error) {
	winner := evals[bestIdx].features

	hits := make([]*AliasCandidate, len(candidates))
	p := pool.New().WithMaxGoroutines(m.config.MaxGoroutines).WithContext(ctx)
	for i := range candidates {
		if i == bestIdx || evals[i].skipped {
			continue
		}
		if m.config.AliasScope == constants.AliasScopeSimilar && !evals[i].similar {
			continue
		}
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			other := evals[i].features
			score := ScoreFeatures(winner, other).Total()
			if score <= m.config.AliasThreshold {
				return nil
			}
			cc := &ComparisonContext{Reference: winner, Candidate: other}
			hits[i] = &AliasCandidate{
				Index:      i,
				Name:       candidates[i].Name,
				Score:      score,
				Structural: m.structural.IsSimilarFunctions(cc, false),
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var aliases []AliasCandidate
	for _, h := range hits {
		if h != nil {
			aliases = append(aliases, *h)
		}
	}
	return aliases, nil
}

// Compare evaluates one reference/candidate pair with every intermediate verdict
func (m *FunctionMatcher) Compare(reference, candidate string) (*Comparison, error) {
	cc, err := NewComparisonContext(reference, candidate)
	if err != nil {
		return nil, err
	}
	s := m.structural
	return &Comparison{
		Context:           cc,
		Score:             ScoreFeatures(cc.Reference, cc.Candidate),
		Preconditions:     s.Preconditions(cc),
		SimilarParameters: s.SimilarParameters(cc),
		SimilarKeywords:   s.SimilarKeywords(cc),
		SimilarCalls:      s.SimilarFunctionCalls(cc),
		Similar:           s.IsSimilarFunctions(cc, true),
		SimilarLoose:      s.IsSimilarFunctions(cc, false),
	}, nil
}

// Comparison is the full breakdown of one pairwise evaluation
type Comparison struct {
	Context           *ComparisonContext
	Score             SimilarityScore
	Preconditions     bool
	SimilarParameters bool
	SimilarKeywords   bool
	SimilarCalls      bool
	Similar           bool
	SimilarLoose      bool
}
