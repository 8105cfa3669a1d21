package constants

// Matching heuristics. All values are fixed per run; configuration only
// selects different fixed values.
const (
	// DefaultAliasThreshold is the combined score (cosine + sequence ratio)
	// above which another candidate is reported as an alias of the best match.
	// The combined score ranges over [0, 2].
	DefaultAliasThreshold = 0.75

	// DefaultMaxCombinedScore is the score of a function against an identical copy.
	DefaultMaxCombinedScore = 2.0

	// DefaultMaxSequenceDelta bounds the difference in token sequence length
	// when call shapes are not compared.
	DefaultMaxSequenceDelta = 3

	// DefaultMinParameterBound is the candidate usage budget granted when the
	// reference uses its parameters at most once in total.
	DefaultMinParameterBound = 2

	// DefaultParameterSlackNumerator and DefaultParameterSlackDenominator scale
	// the reference parameter usage into the candidate budget (5/3, rounded up).
	DefaultParameterSlackNumerator   = 5
	DefaultParameterSlackDenominator = 3
)

// Alias scopes
const (
	// AliasScopeAll compares the best match against every other candidate.
	AliasScopeAll = "all"
	// AliasScopeSimilar compares only against candidates that passed the
	// structural gate.
	AliasScopeSimilar = "similar"
)

// ControlKeywords lists the control-flow keywords kept in token sequences.
var ControlKeywords = []string{
	"break", "continue", "else", "for", "switch", "case", "default", "goto", "do", "if", "while",
}

// BranchKeywords are the keywords a candidate may not introduce unless they
// belong to a synthetic loop guard.
var BranchKeywords = []string{"if", "else", "switch"}

// DefaultSourcePatterns are the include patterns for source pools.
var DefaultSourcePatterns = []string{"*.c", "*.cc", "*.cpp", "*.cxx", "*.h", "*.hh", "*.hpp"}
