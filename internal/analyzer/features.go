package analyzer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrMalformedFunction is returned when function text has no opening brace.
var ErrMalformedFunction = errors.New("function text has no opening brace")

// MalformedFunctionError carries an excerpt of the offending text.
type MalformedFunctionError struct {
	Excerpt string
}

func (e *MalformedFunctionError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMalformedFunction, e.Excerpt)
}

func (e *MalformedFunctionError) Unwrap() error {
	return ErrMalformedFunction
}

func newMalformedFunctionError(text string) error {
	excerpt := text
	if len(excerpt) > 40 {
		excerpt = excerpt[:40] + "..."
	}
	return &MalformedFunctionError{Excerpt: excerpt}
}

var (
	parameterListRegex = regexp.MustCompile(`(?s)\(.*\)`)
	genericArgsRegex   = regexp.MustCompile(`<.*>`)
	commaRunRegex      = regexp.MustCompile(`,+`)

	// Keyword alternatives come first so that "while(x)" yields the bare keyword.
	tokenRegex = regexp.MustCompile(`\bbreak\b|\bcontinue\b|\belse\b|\bfor\b|\bswitch\b|\bcase\b|\bdefault\b|\bgoto\b|\bdo\b|\bif\b|\bwhile\b|[a-zA-Z0-9<>_]+\(.*?\)`)

	wordRegex = regexp.MustCompile(`\w+`)
)

// ParameterProfile maps a parameter name to the number of times its text
// occurs in the function body.
type ParameterProfile map[string]int

// Sum returns the total usage count over all parameters
func (p ParameterProfile) Sum() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

// Token is a control keyword or a call expression
type Token struct {
	Text string
	Call bool
}

func keyword(text string) Token {
	return Token{Text: text}
}

func newToken(text string) Token {
	return Token{Text: text, Call: strings.Contains(text, "(")}
}

// TokenSequence is the canonical structural fingerprint of a function body
type TokenSequence []Token

// Keywords returns the keyword-only projection
func (s TokenSequence) Keywords() []string {
	out := make([]string, 0, len(s))
	for _, t := range s {
		if !t.Call {
			out = append(out, t.Text)
		}
	}
	return out
}

// KeywordCount returns the number of keyword tokens
func (s TokenSequence) KeywordCount() int {
	n := 0
	for _, t := range s {
		if !t.Call {
			n++
		}
	}
	return n
}

// CallCount returns the number of call tokens
func (s TokenSequence) CallCount() int {
	return len(s) - s.KeywordCount()
}

// Strings returns the token texts in order
func (s TokenSequence) Strings() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = t.Text
	}
	return out
}

// splitFunction splits text at its first opening brace.
// The body excludes the brace itself.
func splitFunction(text string) (declaration, body string, err error) {
	idx := strings.Index(text, "{")
	if idx < 0 {
		return "", "", newMalformedFunctionError(text)
	}
	return text[:idx], text[idx+1:], nil
}

// ExtractParameters returns the parameter names of a function with the number
// of times each name occurs in the body. The count is textual, so shadowed
// names and substrings of longer identifiers are counted too.
func ExtractParameters(text string) (ParameterProfile, error) {
	declaration, body, err := splitFunction(text)
	if err != nil {
		return nil, err
	}

	profile := ParameterProfile{}

	list := parameterListRegex.FindString(declaration)
	if len(list) < 2 {
		return profile, nil
	}
	inner := list[1 : len(list)-1]
	if strings.TrimSpace(inner) == "" {
		return profile, nil
	}

	inner = genericArgsRegex.ReplaceAllString(inner, "")

	var names []string
	for _, param := range commaRunRegex.Split(inner, -1) {
		fields := strings.Fields(param)
		if len(fields) == 0 {
			continue
		}
		name := strings.ReplaceAll(fields[len(fields)-1], "*", "")
		if name == "" {
			continue
		}
		names = append(names, name)
	}

	if len(names) == 1 && names[0] == "void" {
		return profile, nil
	}

	for _, name := range names {
		profile[name] = strings.Count(body, name)
	}
	return profile, nil
}

// ExtractTokens returns the canonical keyword and call sequence of a function
// body. Every for loop is lowered to while, if, break and every bare while
// not already followed by if, break receives that guard.
func ExtractTokens(text string) (TokenSequence, error) {
	idx := strings.Index(text, "{")
	if idx < 0 {
		return nil, newMalformedFunctionError(text)
	}

	matches := tokenRegex.FindAllString(text[idx:], -1)
	raw := make(TokenSequence, len(matches))
	for i, m := range matches {
		raw[i] = newToken(m)
	}
	return canonicalize(raw), nil
}

// canonicalize applies loop lowering and guard synthesis in a single forward
// pass, reading lookahead from the raw sequence only.
func canonicalize(raw TokenSequence) TokenSequence {
	out := make(TokenSequence, 0, len(raw)+len(raw)/2)
	for i, tok := range raw {
		switch {
		case !tok.Call && tok.Text == "for":
			out = append(out, keyword("while"), keyword("if"), keyword("break"))
		case !tok.Call && tok.Text == "while":
			out = append(out, tok)
			if !hasGuardAt(raw, i+1) {
				out = append(out, keyword("if"), keyword("break"))
			}
		default:
			out = append(out, tok)
		}
	}
	return out
}

func hasGuardAt(seq TokenSequence, i int) bool {
	return i+1 < len(seq) &&
		!seq[i].Call && seq[i].Text == "if" &&
		!seq[i+1].Call && seq[i+1].Text == "break"
}

// FunctionFeatures holds everything the scorer and the structural matcher
// need about one function text.
type FunctionFeatures struct {
	Text       string
	Length     int
	Parameters ParameterProfile
	Tokens     TokenSequence
	Keywords   []string

	words map[string]int
}

// ExtractFeatures normalizes text and derives its features.
func ExtractFeatures(text string) (*FunctionFeatures, error) {
	normalized := Normalize(text)

	params, err := ExtractParameters(normalized)
	if err != nil {
		return nil, err
	}
	tokens, err := ExtractTokens(normalized)
	if err != nil {
		return nil, err
	}

	return &FunctionFeatures{
		Text:       normalized,
		Length:     utf8.RuneCountInString(normalized),
		Parameters: params,
		Tokens:     tokens,
		Keywords:   tokens.Keywords(),
		words:      wordCounts(normalized),
	}, nil
}

func wordCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, w := range wordRegex.FindAllString(text, -1) {
		counts[w]++
	}
	return counts
}
