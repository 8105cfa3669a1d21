package analyzer

import (
	"strings"
)

type scanState int

const (
	stateSearching scanState = iota
	stateAccumulating
)

// SourceFunction is a function definition found in a source file
type SourceFunction struct {
	Name string
	Text string
	// Line is the 1-based line of the definition header
	Line int
}

// SourceScanner extracts function definitions from C-like source text with
// a line-based state machine. It expects the conventional layout where the
// header line ends with an opening brace and the body closes with a "}" line
// at column zero.
type SourceScanner struct {
	state   scanState
	name    string
	line    int
	buf     strings.Builder
	order   []string
	byName  map[string]SourceFunction
	lineNum int
}

// NewSourceScanner creates a scanner in the searching state
func NewSourceScanner() *SourceScanner {
	return &SourceScanner{byName: make(map[string]SourceFunction)}
}

// ExtractSourceFunctions returns the functions defined in text in order of
// first appearance. A later definition with the same name replaces the
// earlier text.
func ExtractSourceFunctions(text string) []SourceFunction {
	s := NewSourceScanner()
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		s.Feed(line)
	}
	return s.Finish()
}

// Feed advances the scanner by one line including its trailing newline
func (s *SourceScanner) Feed(line string) {
	s.lineNum++
	switch s.state {
	case stateSearching:
		name, ok := functionHeaderName(line)
		if !ok {
			return
		}
		s.state = stateAccumulating
		s.name = name
		s.line = s.lineNum
		s.buf.Reset()
		s.buf.WriteString(line)
	case stateAccumulating:
		s.buf.WriteString(line)
		if line == "}\n" {
			s.emit()
		}
	}
}

// Finish flushes a function left open at end of input and returns all
// functions found
func (s *SourceScanner) Finish() []SourceFunction {
	if s.state == stateAccumulating {
		s.emit()
	}
	out := make([]SourceFunction, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

func (s *SourceScanner) emit() {
	if _, ok := s.byName[s.name]; !ok {
		s.order = append(s.order, s.name)
	}
	s.byName[s.name] = SourceFunction{Name: s.name, Text: s.buf.String(), Line: s.line}
	s.state = stateSearching
	s.name = ""
}

// functionHeaderName recognizes a definition header such as
// "int add(int a, int b) {\n" and returns the function name.
func functionHeaderName(line string) (string, bool) {
	tokens := strings.Split(line, " ")
	if len(tokens) < 3 || !strings.Contains(tokens[len(tokens)-1], "{\n") {
		return "", false
	}

	for i, tok := range tokens {
		paren := strings.Index(tok, "(")
		if paren < 0 {
			continue
		}
		if paren == 0 {
			continue
		}
		// A header must carry a return type, so a name in the first token
		// ("foo(int a, b){") is never accepted.
		if i == 0 {
			return "", false
		}
		prev := tokens[i-1]
		if prev == "" || prev == "class" || prev == "{\n" {
			return "", false
		}
		return tok[:paren], true
	}
	return "", false
}
