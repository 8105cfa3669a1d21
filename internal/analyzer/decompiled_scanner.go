package analyzer

import (
	"regexp"
	"strings"
)

var headerNameRegex = regexp.MustCompile(`([A-Za-z_~][A-Za-z0-9_:~<>$.@]*)\s*\(`)

// SplitDecompiledFunctions splits a decompiler C export holding many
// functions into named function texts. Top-level blocks whose header has no
// parameter list (structs, enums, initializers) are ignored.
func SplitDecompiledFunctions(text string) []NamedFunction {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		out    []NamedFunction
		header []string
		body   strings.Builder
		depth  int
		lexer  braceLexer
	)

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}

		d, opened := lexer.scan(line)

		if depth == 0 {
			if !opened {
				trimmed := strings.TrimSpace(line)
				switch {
				case trimmed == "":
				case strings.HasPrefix(trimmed, "#"), strings.HasSuffix(trimmed, ";"):
					header = header[:0]
				default:
					header = append(header, line)
				}
				continue
			}
			body.Reset()
			for _, h := range header {
				body.WriteString(h)
			}
		}

		body.WriteString(line)
		depth += d
		if depth <= 0 {
			out = appendDecompiled(out, body.String())
			header, depth = header[:0], 0
		}
	}
	return out
}

func appendDecompiled(out []NamedFunction, text string) []NamedFunction {
	decl := text
	if i := strings.Index(decl, "{"); i >= 0 {
		decl = decl[:i]
	}
	m := headerNameRegex.FindStringSubmatch(Normalize(decl))
	if m == nil {
		return out
	}
	return append(out, NamedFunction{Name: m[1], Text: strings.TrimRight(text, "\n")})
}

// braceLexer counts brace depth changes while skipping string and character
// literals and comments. Block comment state carries across lines.
type braceLexer struct {
	inBlockComment bool
}

// scan returns the net brace depth change of line and whether it contains
// an opening brace outside literals and comments.
func (l *braceLexer) scan(line string) (d int, opened bool) {
	var quote rune
	escaped := false
	prev := rune(0)
	for _, r := range line {
		switch {
		case l.inBlockComment:
			if prev == '*' && r == '/' {
				l.inBlockComment = false
				r = 0
			}
		case quote != 0:
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
		case prev == '/' && r == '/':
			return d, opened
		case prev == '/' && r == '*':
			l.inBlockComment = true
			r = 0
		case r == '"' || r == '\'':
			quote = r
		case r == '{':
			d++
			opened = true
		case r == '}':
			d--
		}
		prev = r
	}
	return d, opened
}
