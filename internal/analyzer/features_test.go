package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractParameters(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected ParameterProfile
	}{
		{
			name:     "void parameter list",
			text:     "int f(void){}",
			expected: ParameterProfile{},
		},
		{
			name:     "usage counts",
			text:     "int f(int a, int* b){ a; a; b; }",
			expected: ParameterProfile{"a": 2, "b": 1},
		},
		{
			name:     "pointer marker on name",
			text:     "int f(char *s){ return s[0]; }",
			expected: ParameterProfile{"s": 1},
		},
		{
			name:     "empty list",
			text:     "int f(){ return 1; }",
			expected: ParameterProfile{},
		},
		{
			name:     "blank list",
			text:     "int f( ){ return 1; }",
			expected: ParameterProfile{},
		},
		{
			name:     "generic arguments are not parameters",
			text:     "int f(std::map<int, int> m, int n){ m; n; }",
			expected: ParameterProfile{"m": 1, "n": 1},
		},
		{
			name:     "list spanning lines",
			text:     "int f(int a,\n      int b)\n{\n  return a*b;\n}",
			expected: ParameterProfile{"a": 1, "b": 1},
		},
		{
			name:     "counts are textual",
			text:     "int f(int n){ return n + strlen(name); }",
			expected: ParameterProfile{"n": 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractParameters(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractParameters_Sum(t *testing.T) {
	p, err := ExtractParameters("int f(int a, int* b){ a; a; b; }")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Sum())
	assert.Equal(t, 0, ParameterProfile{}.Sum())
}

func TestExtractTokens(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "for loop lowered",
			text:     "void f(int n){ for(int i=0;i<n;i++){ g(i); } }",
			expected: []string{"while", "if", "break", "g(i)"},
		},
		{
			name:     "consecutive for loops",
			text:     "void f(int n){ for(;;){} for(;;){} }",
			expected: []string{"while", "if", "break", "while", "if", "break"},
		},
		{
			name:     "bare while receives guard",
			text:     "void f(int n){ while(n>0){ n--; } }",
			expected: []string{"while", "if", "break"},
		},
		{
			name:     "existing guard kept once",
			text:     "void f(int n){ while(n){ if(n) break; } }",
			expected: []string{"while", "if", "break"},
		},
		{
			name:     "do while",
			text:     "void f(int n){ do { n--; } while(n); }",
			expected: []string{"do", "while", "if", "break"},
		},
		{
			name:     "declaration ignored",
			text:     "int foo(int a){ bar(a); }",
			expected: []string{"bar(a)"},
		},
		{
			name:     "keyword prefix inside identifier is a call",
			text:     "void f(){ whilex(1); }",
			expected: []string{"whilex(1)"},
		},
		{
			name:     "identifiers with digits",
			text:     "double f(double x){ return log10(x); }",
			expected: []string{"log10(x)"},
		},
		{
			name:     "switch",
			text:     "int f(int x){ switch(x){ case 1: return 2; default: return 0; } }",
			expected: []string{"switch", "case", "default"},
		},
		{
			name:     "empty body",
			text:     "void f(){}",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTokens(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Strings())
		})
	}
}

func TestExtractTokens_CallFlags(t *testing.T) {
	seq, err := ExtractTokens("void f(int n){ if(n) g(n); }")
	require.NoError(t, err)
	require.Len(t, seq, 2)
	assert.False(t, seq[0].Call)
	assert.True(t, seq[1].Call)
	assert.Equal(t, 1, seq.KeywordCount())
	assert.Equal(t, 1, seq.CallCount())
	assert.Equal(t, []string{"if"}, seq.Keywords())
}

func TestMalformedFunction(t *testing.T) {
	_, err := ExtractParameters("int f(int a)")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedFunction))

	var mfe *MalformedFunctionError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, "int f(int a)", mfe.Excerpt)

	_, err = ExtractTokens("no body here")
	assert.ErrorIs(t, err, ErrMalformedFunction)

	_, err = ExtractFeatures("")
	assert.ErrorIs(t, err, ErrMalformedFunction)
}

func TestExtractFeatures(t *testing.T) {
	f, err := ExtractFeatures("int f(int a){ // note\n if(a) g(a); return a; }")
	require.NoError(t, err)

	assert.NotContains(t, f.Text, "note")
	assert.Equal(t, len([]rune(f.Text)), f.Length)
	assert.Equal(t, ParameterProfile{"a": 3}, f.Parameters)
	assert.Equal(t, []string{"if", "g(a)"}, f.Tokens.Strings())
	assert.Equal(t, []string{"if"}, f.Keywords)
}
