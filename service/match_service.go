package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/ludo-technologies/libfinder/domain"
	"github.com/ludo-technologies/libfinder/internal/analyzer"
	"github.com/ludo-technologies/libfinder/internal/version"
)

// MatchServiceImpl implements the domain.MatchService interface
type MatchServiceImpl struct {
	fileReader    domain.FileReader
	progress      domain.MatchProgress
	warningWriter io.Writer
}

// NewMatchService creates a new match service. A nil progress disables
// per-reference reporting.
func NewMatchService(fileReader domain.FileReader, progress domain.MatchProgress) *MatchServiceImpl {
	if fileReader == nil {
		fileReader = NewFileReader()
	}
	return &MatchServiceImpl{
		fileReader:    fileReader,
		progress:      progress,
		warningWriter: os.Stderr,
	}
}

// SetWarningWriter redirects "Warning: ..." lines; nil silences them
func (s *MatchServiceImpl) SetWarningWriter(w io.Writer) {
	s.warningWriter = w
}

// Match loads both pools from the files in the request and matches them.
// req.Paths and req.CandidatePaths hold files already resolved by the caller.
func (s *MatchServiceImpl) Match(ctx context.Context, req domain.MatchRequest) (*domain.MatchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid match request: %w", err)
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	opts := PoolOptions{DemangleNames: req.DemangleNames}

	references, err := NewSourceFunctionLister(req.Paths, s.fileReader, opts).ListFunctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference functions: %w", err)
	}

	candidates, err := NewCandidateLister(req.CandidatePaths, s.fileReader, opts, req.MaxGoroutines).ListFunctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate functions: %w", err)
	}

	response, err := s.MatchFunctions(ctx, references, candidates, req)
	if err != nil {
		return nil, err
	}
	response.Statistics.FilesAnalyzed = len(req.Paths)
	return response, nil
}

// MatchFunctions matches already loaded pools. Malformed functions are
// reported as warnings and skipped.
func (s *MatchServiceImpl) MatchFunctions(ctx context.Context, references, candidates []domain.Function, req domain.MatchRequest) (*domain.MatchResponse, error) {
	startTime := time.Now()

	matcher := analyzer.NewFunctionMatcher(matcherConfig(req))

	pool := make([]analyzer.NamedFunction, len(candidates))
	for i, c := range candidates {
		pool[i] = analyzer.NamedFunction{Name: c.Name, Text: c.Text}
	}

	cache, err := matcher.PrepareCandidates(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("matching cancelled: %w", err)
	}

	response := &domain.MatchResponse{
		Matches:    []domain.FunctionMatch{},
		Statistics: &domain.MatchStatistics{CandidatesLoaded: len(candidates)},
	}

	for _, c := range candidates {
		if entry, ok := cache.Get(c.Text); ok && entry.Err != nil {
			response.Statistics.CandidatesSkipped++
			s.warn(response, "skipping candidate %s: %v", c, entry.Err)
		}
	}

	if s.progress != nil {
		s.progress.Begin(len(references))
	}

	var scoreSum float64
	for _, ref := range references {
		result, err := matcher.MatchReference(ctx, analyzer.NamedFunction{Name: ref.Name, Text: ref.Text}, pool, cache)
		if s.progress != nil {
			s.progress.Advance(ref.Name, err == nil && result.Matched())
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				if s.progress != nil {
					s.progress.Finish(false)
				}
				return nil, fmt.Errorf("matching cancelled: %w", ctxErr)
			}
			if errors.Is(err, analyzer.ErrMalformedFunction) {
				response.Statistics.ReferencesSkipped++
				s.warn(response, "skipping reference %s: %v", ref, err)
				continue
			}
			response.Errors = append(response.Errors, fmt.Sprintf("%s: %v", ref, err))
			continue
		}

		response.Statistics.ReferencesAnalyzed++
		match := buildFunctionMatch(ref, result, candidates)
		if match.IsMatched() {
			response.Statistics.ReferencesMatched++
			response.Statistics.TotalAliases += len(match.Aliases)
			scoreSum += match.Best.Score
		}
		if !req.ShowAliases {
			match.Aliases = nil
		}
		if match.IsMatched() || req.ShowUnmatched {
			response.Matches = append(response.Matches, match)
		}
	}

	if s.progress != nil {
		s.progress.Finish(true)
	}

	if response.Statistics.ReferencesMatched > 0 {
		response.Statistics.AverageScore = scoreSum / float64(response.Statistics.ReferencesMatched)
	}

	sortMatches(response.Matches, req.SortBy)

	response.GeneratedAt = time.Now().Format(time.RFC3339)
	response.Duration = time.Since(startTime).Milliseconds()
	response.Version = version.Get().Version
	response.Success = len(response.Errors) == 0
	return response, nil
}

// Compare runs a single pairwise comparison
func (s *MatchServiceImpl) Compare(ctx context.Context, reference, candidate domain.Function, req domain.MatchRequest) (*domain.ComparisonReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matcher := analyzer.NewFunctionMatcher(matcherConfig(req))
	cmp, err := matcher.Compare(reference.Text, candidate.Text)
	if err != nil {
		name := reference.Name
		if _, refErr := analyzer.ExtractFeatures(reference.Text); refErr == nil {
			name = candidate.Name
		}
		return nil, domain.NewMalformedFunctionError(name, err)
	}

	ref, cand := cmp.Context.Reference, cmp.Context.Candidate
	return &domain.ComparisonReport{
		Reference:           reference.Name,
		Candidate:           candidate.Name,
		ReferenceLength:     ref.Length,
		CandidateLength:     cand.Length,
		Cosine:              cmp.Score.Cosine,
		SequenceRatio:       cmp.Score.SequenceRatio,
		Score:               cmp.Score.Total(),
		ReferenceParameters: ref.Parameters,
		CandidateParameters: cand.Parameters,
		ReferenceTokens:     ref.Tokens.Strings(),
		CandidateTokens:     cand.Tokens.Strings(),
		Preconditions:       cmp.Preconditions,
		SimilarParameters:   cmp.SimilarParameters,
		SimilarKeywords:     cmp.SimilarKeywords,
		SimilarCalls:        cmp.SimilarCalls,
		Similar:             cmp.Similar,
		SimilarLoose:        cmp.SimilarLoose,
	}, nil
}

// Extract lists the functions of the source files in req.Paths with their features
func (s *MatchServiceImpl) Extract(ctx context.Context, req domain.MatchRequest) (*domain.ExtractionResponse, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewValidationError("paths cannot be empty")
	}

	functions, err := NewSourceFunctionLister(req.Paths, s.fileReader, PoolOptions{DemangleNames: req.DemangleNames}).ListFunctions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract functions: %w", err)
	}

	response := &domain.ExtractionResponse{
		Functions: make([]domain.ExtractedFunction, 0, len(functions)),
	}
	for _, fn := range functions {
		extracted := domain.ExtractedFunction{
			Name:   fn.Name,
			Origin: fn.Origin,
			Length: fn.Length(),
		}
		features, err := analyzer.ExtractFeatures(fn.Text)
		if err != nil {
			extracted.Error = err.Error()
			response.Warnings = append(response.Warnings, fmt.Sprintf("%s: %v", fn, err))
		} else {
			extracted.Parameters = features.Parameters
			extracted.Tokens = features.Tokens.Strings()
		}
		response.Functions = append(response.Functions, extracted)
	}

	response.GeneratedAt = time.Now().Format(time.RFC3339)
	response.Version = version.Get().Version
	return response, nil
}

func (s *MatchServiceImpl) warn(response *domain.MatchResponse, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	response.Warnings = append(response.Warnings, msg)
	if s.warningWriter != nil {
		fmt.Fprintf(s.warningWriter, "Warning: %s\n", msg)
	}
}

// matcherConfig translates request settings into analyzer settings
func matcherConfig(req domain.MatchRequest) analyzer.MatcherConfig {
	return analyzer.MatcherConfig{
		AliasThreshold: req.AliasThreshold,
		AliasScope:     string(req.AliasScope),
		CheckCalls:     req.CheckCalls,
		MaxGoroutines:  req.MaxGoroutines,
		Structural: analyzer.StructuralOptions{
			MinParameterBound: req.MinParameterBound,
			SlackNumerator:    req.ParameterSlackNumerator,
			SlackDenominator:  req.ParameterSlackDenominator,
			MaxSequenceDelta:  req.MaxSequenceDelta,
		},
	}
}

func buildFunctionMatch(ref domain.Function, result *analyzer.MatchResult, candidates []domain.Function) domain.FunctionMatch {
	match := domain.FunctionMatch{
		Reference:       ref.Name,
		ReferenceOrigin: ref.Origin,
		ReferenceLength: ref.Length(),
		SimilarCount:    result.SimilarCount,
	}
	if result.Best == nil {
		return match
	}

	best := candidates[result.Best.Index]
	match.Best = &domain.CandidateMatch{
		Name:         best.Name,
		Origin:       best.Origin,
		Text:         best.Text,
		Score:        result.Best.Score,
		Length:       best.Length(),
		NameDistance: levenshtein.ComputeDistance(ref.Name, best.Name),
	}
	for _, a := range result.Aliases {
		match.Aliases = append(match.Aliases, domain.AliasMatch{
			Name:       a.Name,
			Score:      a.Score,
			Structural: a.Structural,
		})
	}
	return match
}

// sortMatches orders matches in place. Unmatched references sort last
// when ordering by score.
func sortMatches(matches []domain.FunctionMatch, by domain.MatchSortCriteria) {
	switch by {
	case domain.SortMatchesByName:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Reference < matches[j].Reference
		})
	case domain.SortMatchesByOrigin:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].ReferenceOrigin < matches[j].ReferenceOrigin
		})
	default:
		sort.SliceStable(matches, func(i, j int) bool {
			return matchScore(matches[i]) > matchScore(matches[j])
		})
	}
}

func matchScore(m domain.FunctionMatch) float64 {
	if m.Best == nil {
		return -1
	}
	return m.Best.Score
}
