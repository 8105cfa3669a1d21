package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `#include <stdio.h>

int add(int a, int b) {
    return a + b;
}

class Foo {
};

static void helper(void) {
    if (x) {
        y();
    }
}
`

func TestExtractSourceFunctions(t *testing.T) {
	fns := ExtractSourceFunctions(sampleSource)
	require.Len(t, fns, 2)

	assert.Equal(t, "add", fns[0].Name)
	assert.Equal(t, 3, fns[0].Line)
	assert.Equal(t, "int add(int a, int b) {\n    return a + b;\n}\n", fns[0].Text)

	assert.Equal(t, "helper", fns[1].Name)
	assert.Equal(t, 10, fns[1].Line)
	assert.Contains(t, fns[1].Text, "y();")
	assert.Contains(t, fns[1].Text, "    }\n}\n")
}

func TestExtractSourceFunctions_DuplicateNameOverwrites(t *testing.T) {
	src := "int f(int a) {\n    return a;\n}\nint g(int b) {\n    return b;\n}\nint f(int c) {\n    return c;\n}\n"
	fns := ExtractSourceFunctions(src)
	require.Len(t, fns, 2)
	assert.Equal(t, "f", fns[0].Name)
	assert.Contains(t, fns[0].Text, "return c;")
	assert.Equal(t, 7, fns[0].Line)
	assert.Equal(t, "g", fns[1].Name)
}

func TestExtractSourceFunctions_CRLF(t *testing.T) {
	fns := ExtractSourceFunctions("int add(int a, int b) {\r\n    return a + b;\r\n}\r\n")
	require.Len(t, fns, 1)
	assert.Equal(t, "add", fns[0].Name)
	assert.NotContains(t, fns[0].Text, "\r")
}

func TestExtractSourceFunctions_UnterminatedAtEOF(t *testing.T) {
	fns := ExtractSourceFunctions("int add(int a, int b) {\n    return a + b;\n}")
	require.Len(t, fns, 1)
	assert.Equal(t, "int add(int a, int b) {\n    return a + b;\n}", fns[0].Text)
}

func TestFunctionHeaderName(t *testing.T) {
	tests := []struct {
		line string
		name string
		ok   bool
	}{
		{"int add(int a, int b) {\n", "add", true},
		{"static int f(){\n", "f", true},
		{"    int Foo::bar(int x) {\n", "Foo::bar", true},
		{"class Foo {\n", "", false},
		{"class Foo(Base) {\n", "", false},
		{"int add(int a, int b)\n", "", false},
		{"main(int argc, char **argv) {\n", "", false},
		{"    if (x) {\n", "", false},
		{"int  f(int a) {\n", "", false},
		{"f(x) {\n", "", false},
		{"foo(int a, b){\n", "", false},
	}
	for _, tt := range tests {
		name, ok := functionHeaderName(tt.line)
		assert.Equal(t, tt.ok, ok, "line %q", tt.line)
		assert.Equal(t, tt.name, name, "line %q", tt.line)
	}
}

func TestSourceScanner_Feed(t *testing.T) {
	s := NewSourceScanner()
	s.Feed("void noop(void) {\n")
	assert.Equal(t, stateAccumulating, s.state)
	s.Feed("}\n")
	assert.Equal(t, stateSearching, s.state)

	fns := s.Finish()
	require.Len(t, fns, 1)
	assert.Equal(t, "noop", fns[0].Name)
}
