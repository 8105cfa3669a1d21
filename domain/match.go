package domain

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ludo-technologies/libfinder/internal/constants"
)

// AliasScope selects which candidates are compared against the best match
// when building its alias cluster.
type AliasScope string

const (
	AliasScopeAll     AliasScope = constants.AliasScopeAll
	AliasScopeSimilar AliasScope = constants.AliasScopeSimilar
)

// MatchSortCriteria defines how to sort match results
type MatchSortCriteria string

const (
	SortMatchesByScore  MatchSortCriteria = "score"
	SortMatchesByName   MatchSortCriteria = "name"
	SortMatchesByOrigin MatchSortCriteria = "origin"
)

// MatchRequest represents a request to match source functions against a
// candidate pool
type MatchRequest struct {
	// Reference pool (source files)
	Paths           []string `json:"paths"`
	Recursive       bool     `json:"recursive"`
	IncludePatterns []string `json:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns"`

	// Candidate pool (decompiler exports or dumps)
	CandidatePaths []string `json:"candidate_paths"`
	DemangleNames  bool     `json:"demangle_names"`

	// Matching heuristics
	AliasThreshold            float64    `json:"alias_threshold"`
	AliasScope                AliasScope `json:"alias_scope"`
	CheckCalls                bool       `json:"check_calls"`
	MaxSequenceDelta          int        `json:"max_sequence_delta"`
	MinParameterBound         int        `json:"min_parameter_bound"`
	ParameterSlackNumerator   int        `json:"parameter_slack_numerator"`
	ParameterSlackDenominator int        `json:"parameter_slack_denominator"`

	// Output configuration
	OutputFormat  OutputFormat      `json:"output_format"`
	OutputWriter  io.Writer         `json:"-"`
	OutputPath    string            `json:"output_path"`
	ShowUnmatched bool              `json:"show_unmatched"`
	ShowAliases   bool              `json:"show_aliases"`
	SortBy        MatchSortCriteria `json:"sort_by"`

	// Performance
	MaxGoroutines int           `json:"max_goroutines"`
	Timeout       time.Duration `json:"timeout"`

	// Configuration file
	ConfigPath string `json:"config_path"`
}

// CandidateMatch is the best candidate found for a reference function
type CandidateMatch struct {
	Name         string  `json:"name" yaml:"name" csv:"best_name"`
	Origin       string  `json:"origin,omitempty" yaml:"origin,omitempty" csv:"best_origin"`
	Text         string  `json:"text,omitempty" yaml:"text,omitempty" csv:"-"`
	Score        float64 `json:"score" yaml:"score" csv:"score"`
	Length       int     `json:"length" yaml:"length" csv:"best_length"`
	NameDistance int     `json:"name_distance" yaml:"name_distance" csv:"name_distance"`
}

// AliasMatch is a candidate nearly indistinguishable from the best match
type AliasMatch struct {
	Name       string  `json:"name" yaml:"name"`
	Score      float64 `json:"score" yaml:"score"`
	Structural bool    `json:"structural" yaml:"structural"`
}

// FunctionMatch is the outcome for one reference function.
// Best is nil when no candidate passed the structural gate.
type FunctionMatch struct {
	Reference       string          `json:"reference" yaml:"reference"`
	ReferenceOrigin string          `json:"reference_origin,omitempty" yaml:"reference_origin,omitempty"`
	ReferenceLength int             `json:"reference_length" yaml:"reference_length"`
	Best            *CandidateMatch `json:"best,omitempty" yaml:"best,omitempty"`
	Aliases         []AliasMatch    `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	SimilarCount    int             `json:"similar_count" yaml:"similar_count"`
}

// IsMatched reports whether a best candidate was selected
func (m *FunctionMatch) IsMatched() bool {
	return m.Best != nil
}

// AliasNames returns the names in the alias cluster
func (m *FunctionMatch) AliasNames() []string {
	names := make([]string, 0, len(m.Aliases))
	for _, a := range m.Aliases {
		names = append(names, a.Name)
	}
	return names
}

// String returns string representation of FunctionMatch
func (m *FunctionMatch) String() string {
	if m.Best == nil {
		return fmt.Sprintf("%s: unmatched", m.Reference)
	}
	return fmt.Sprintf("%s -> %s (score: %.3f, length: %d vs %d)",
		m.Reference, m.Best.Name, m.Best.Score, m.Best.Length, m.ReferenceLength)
}

// MatchStatistics summarizes a matching run
type MatchStatistics struct {
	FilesAnalyzed      int     `json:"files_analyzed" yaml:"files_analyzed"`
	ReferencesAnalyzed int     `json:"references_analyzed" yaml:"references_analyzed"`
	ReferencesMatched  int     `json:"references_matched" yaml:"references_matched"`
	ReferencesSkipped  int     `json:"references_skipped" yaml:"references_skipped"`
	CandidatesLoaded   int     `json:"candidates_loaded" yaml:"candidates_loaded"`
	CandidatesSkipped  int     `json:"candidates_skipped" yaml:"candidates_skipped"`
	AverageScore       float64 `json:"average_score" yaml:"average_score"`
	TotalAliases       int     `json:"total_aliases" yaml:"total_aliases"`
}

// MatchRate returns the fraction of analyzed references that were matched
func (s *MatchStatistics) MatchRate() float64 {
	if s.ReferencesAnalyzed == 0 {
		return 0
	}
	return float64(s.ReferencesMatched) / float64(s.ReferencesAnalyzed)
}

// MatchResponse represents the response of a matching run
type MatchResponse struct {
	Matches     []FunctionMatch  `json:"matches" yaml:"matches"`
	Statistics  *MatchStatistics `json:"statistics" yaml:"statistics"`
	Warnings    []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors      []string         `json:"errors,omitempty" yaml:"errors,omitempty"`
	GeneratedAt string           `json:"generated_at" yaml:"generated_at"`
	Duration    int64            `json:"duration_ms" yaml:"duration_ms"`
	Version     string           `json:"version" yaml:"version"`
	Success     bool             `json:"success" yaml:"success"`
}

// ComparisonReport holds every intermediate verdict of one pairwise comparison
type ComparisonReport struct {
	Reference       string `json:"reference" yaml:"reference"`
	Candidate       string `json:"candidate" yaml:"candidate"`
	ReferenceLength int    `json:"reference_length" yaml:"reference_length"`
	CandidateLength int    `json:"candidate_length" yaml:"candidate_length"`

	Cosine        float64 `json:"cosine" yaml:"cosine"`
	SequenceRatio float64 `json:"sequence_ratio" yaml:"sequence_ratio"`
	Score         float64 `json:"score" yaml:"score"`

	ReferenceParameters map[string]int `json:"reference_parameters" yaml:"reference_parameters"`
	CandidateParameters map[string]int `json:"candidate_parameters" yaml:"candidate_parameters"`
	ReferenceTokens     []string       `json:"reference_tokens" yaml:"reference_tokens"`
	CandidateTokens     []string       `json:"candidate_tokens" yaml:"candidate_tokens"`

	Preconditions     bool `json:"preconditions" yaml:"preconditions"`
	SimilarParameters bool `json:"similar_parameters" yaml:"similar_parameters"`
	SimilarKeywords   bool `json:"similar_keywords" yaml:"similar_keywords"`
	SimilarCalls      bool `json:"similar_calls" yaml:"similar_calls"`
	Similar           bool `json:"similar" yaml:"similar"`
	SimilarLoose      bool `json:"similar_loose" yaml:"similar_loose"`
}

// MatchService defines the interface for function matching services
type MatchService interface {
	// Match matches every function of the reference pool against the candidate pool
	Match(ctx context.Context, req MatchRequest) (*MatchResponse, error)

	// MatchFunctions matches already loaded pools
	MatchFunctions(ctx context.Context, references, candidates []Function, req MatchRequest) (*MatchResponse, error)

	// Compare runs a single pairwise comparison
	Compare(ctx context.Context, reference, candidate Function, req MatchRequest) (*ComparisonReport, error)

	// Extract lists the functions of the given source files with their features
	Extract(ctx context.Context, req MatchRequest) (*ExtractionResponse, error)
}

// MatchOutputFormatter defines the interface for formatting matching results
type MatchOutputFormatter interface {
	// Write writes the formatted match response to the writer
	Write(response *MatchResponse, format OutputFormat, writer io.Writer) error

	// WriteComparison writes a single comparison report
	WriteComparison(report *ComparisonReport, format OutputFormat, writer io.Writer) error

	// WriteExtraction writes an extraction listing
	WriteExtraction(response *ExtractionResponse, format OutputFormat, writer io.Writer) error
}

// MatchConfigurationLoader defines the interface for loading match configuration
type MatchConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*MatchRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *MatchRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *MatchRequest, override *MatchRequest) *MatchRequest
}

// Validate validates a match request
func (req *MatchRequest) Validate() error {
	if len(req.Paths) == 0 {
		return NewValidationError("paths cannot be empty")
	}

	if len(req.CandidatePaths) == 0 {
		return NewValidationError("candidate paths cannot be empty")
	}

	if req.AliasThreshold < 0.0 || req.AliasThreshold > constants.DefaultMaxCombinedScore {
		return NewValidationError("alias_threshold must be between 0.0 and 2.0")
	}

	switch req.AliasScope {
	case AliasScopeAll, AliasScopeSimilar:
	default:
		return NewValidationError(fmt.Sprintf("alias_scope must be %q or %q", AliasScopeAll, AliasScopeSimilar))
	}

	if req.MaxSequenceDelta < 0 {
		return NewValidationError("max_sequence_delta must be >= 0")
	}

	if req.MinParameterBound < 0 {
		return NewValidationError("min_parameter_bound must be >= 0")
	}

	if req.ParameterSlackNumerator < 1 || req.ParameterSlackDenominator < 1 {
		return NewValidationError("parameter slack numerator and denominator must be >= 1")
	}

	if req.MaxGoroutines < 0 {
		return NewValidationError("max_goroutines must be >= 0")
	}

	return nil
}

// DefaultMatchRequest returns a default match request
func DefaultMatchRequest() *MatchRequest {
	return &MatchRequest{
		Paths:                     []string{"."},
		Recursive:                 true,
		IncludePatterns:           append([]string(nil), constants.DefaultSourcePatterns...),
		ExcludePatterns:           []string{},
		DemangleNames:             true,
		AliasThreshold:            constants.DefaultAliasThreshold,
		AliasScope:                AliasScopeAll,
		CheckCalls:                true,
		MaxSequenceDelta:          constants.DefaultMaxSequenceDelta,
		MinParameterBound:         constants.DefaultMinParameterBound,
		ParameterSlackNumerator:   constants.DefaultParameterSlackNumerator,
		ParameterSlackDenominator: constants.DefaultParameterSlackDenominator,
		OutputFormat:              OutputFormatText,
		ShowUnmatched:             false,
		ShowAliases:               true,
		SortBy:                    SortMatchesByScore,
	}
}
