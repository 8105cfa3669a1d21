package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, reference, candidate string) *ComparisonContext {
	t.Helper()
	cc, err := NewComparisonContext(reference, candidate)
	require.NoError(t, err)
	return cc
}

func TestParameterBound(t *testing.T) {
	m := NewStructuralMatcher(DefaultStructuralOptions())
	tests := []struct {
		refSum   int
		expected int
	}{
		{0, 2},
		{1, 2},
		{2, 4},
		{3, 5},
		{4, 7},
		{6, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, m.ParameterBound(tt.refSum), "refSum %d", tt.refSum)
	}
}

func TestSimilarParameters(t *testing.T) {
	m := NewStructuralMatcher(DefaultStructuralOptions())
	ref := "int f(int a){ a; }"

	assert.True(t, m.SimilarParameters(newContext(t, ref, "int g(int x, int y){ x; y; }")))
	assert.False(t, m.SimilarParameters(newContext(t, ref, "int g(int x,int y,int z){ x; y; z; }")))
	assert.True(t, m.SimilarParameters(newContext(t, ref, "int g(void){ return 0; }")))
}

func TestSimilarKeywords(t *testing.T) {
	m := NewStructuralMatcher(DefaultStructuralOptions())
	tests := []struct {
		name      string
		reference string
		candidate string
		expected  bool
	}{
		{
			name:      "identical",
			reference: "void f(){ if(a){} else {} }",
			candidate: "void g(){ if(b){} else {} }",
			expected:  true,
		},
		{
			name:      "different order",
			reference: "void f(){ if(a){} else {} }",
			candidate: "void g(){ switch(a){ case 1: break; } }",
			expected:  false,
		},
		{
			name:      "synthetic guard is expected structure",
			reference: "void f(){ g(); }",
			candidate: "void f(){ while(x){ g(); } }",
			expected:  true,
		},
		{
			name:      "extra branch fails",
			reference: "void f(){ g(); }",
			candidate: "void f(){ if(x){ g(); } }",
			expected:  false,
		},
		{
			name:      "candidate uses keyword less often",
			reference: "void f(){ if(a){} if(b){} }",
			candidate: "void f(){ if(a){} }",
			expected:  false,
		},
		{
			// The tail window reads the candidate from index zero, so the
			// trailing switch is never inspected.
			name:      "tail window starts at candidate index zero",
			reference: "void f(){ while(x){ g(); } }",
			candidate: "void f(){ while(x){ g(); } switch(y){ case 1: break; } }",
			expected:  true,
		},
		{
			name:      "candidate missing trailing keyword",
			reference: "void f(){ while(x){} do {} }",
			candidate: "void f(){ while(x){} }",
			expected:  true,
		},
		{
			name:      "candidate repeats loop less often",
			reference: "void f(){ while(x){} do {} while(y); }",
			candidate: "void f(){ while(x){} }",
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.SimilarKeywords(newContext(t, tt.reference, tt.candidate)))
		})
	}
}

func TestSimilarFunctionCalls(t *testing.T) {
	m := NewStructuralMatcher(DefaultStructuralOptions())
	tests := []struct {
		name      string
		reference string
		candidate string
		expected  bool
	}{
		{
			name:      "identical",
			reference: "void f(){ if(x) g(); h(); }",
			candidate: "void f(){ if(x) g(); h(); }",
			expected:  true,
		},
		{
			name:      "leading synthetic loop skipped",
			reference: "void f(){ g(); h(); }",
			candidate: "void f(){ while(x){ g(); h(); } }",
			expected:  true,
		},
		{
			name:      "mismatch without enough calls",
			reference: "void f(){ g(); h(); }",
			candidate: "void f(){ if(x) g(); }",
			expected:  false,
		},
		{
			name:      "mismatch with enough calls and keywords",
			reference: "void f(){ g(); h(); }",
			candidate: "void f(){ if(x) g(); h(); k(); }",
			expected:  true,
		},
		{
			name:      "empty reference",
			reference: "void f(){}",
			candidate: "void f(){ while(x){ g(); } }",
			expected:  true,
		},
		{
			name:      "shorter candidate is bounded",
			reference: "void f(){ g(); h(); k(); }",
			candidate: "void f(){ g(); }",
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.SimilarFunctionCalls(newContext(t, tt.reference, tt.candidate)))
		})
	}
}

func TestIsSimilarFunctions(t *testing.T) {
	m := NewStructuralMatcher(DefaultStructuralOptions())

	t.Run("self match", func(t *testing.T) {
		for _, s := range scorerSamples {
			if s == "" {
				continue
			}
			cc := newContext(t, s, s)
			assert.True(t, m.IsSimilarFunctions(cc, false), "sample %q", s)
			assert.True(t, m.IsSimilarFunctions(cc, true), "sample %q", s)
		}
	})

	t.Run("shorter candidate fails preconditions only with calls", func(t *testing.T) {
		cc := newContext(t, "int add(int a,int b){ return a+b; }", "int add(int a,int b){ return a; }")
		assert.False(t, m.Preconditions(cc))
		assert.False(t, m.IsSimilarFunctions(cc, true))
		assert.True(t, m.IsSimilarFunctions(cc, false))
	})

	t.Run("sequence delta without calls", func(t *testing.T) {
		ref := "void f(){}"
		assert.False(t, m.IsSimilarFunctions(newContext(t, ref, "void f(){ a(); b(); c(); d(); }"), false))
		assert.True(t, m.IsSimilarFunctions(newContext(t, ref, "void f(){ a(); b(); c(); }"), false))
	})

	t.Run("parameter gate", func(t *testing.T) {
		cc := newContext(t,
			"int add(int a,int b){ return a+b; }",
			"int sum(int* arr,int n){ int s=0; for(int i=0;i<n;i++){ s+=arr[i]; } return s; }")
		assert.False(t, m.SimilarParameters(cc))
		assert.False(t, m.IsSimilarFunctions(cc, true))
	})
}

func TestStructuralOptions_Custom(t *testing.T) {
	m := NewStructuralMatcher(StructuralOptions{
		MinParameterBound: 1,
		SlackNumerator:    1,
		SlackDenominator:  1,
		MaxSequenceDelta:  0,
	})
	assert.Equal(t, 1, m.ParameterBound(0))
	assert.Equal(t, 5, m.ParameterBound(5))

	cc := newContext(t, "void f(){}", "void f(){ a(); }")
	assert.False(t, m.IsSimilarFunctions(cc, false))
}
