package analyzer

import (
	"regexp"
	"strings"
)

var (
	lineCommentRegex = regexp.MustCompile(`//.*`)
	// Block comments take any horizontal whitespace in front of them on the same line.
	blockCommentRegex = regexp.MustCompile(`(?s)[^\S\r\n]*/\*.*?\*/`)
)

// Normalize removes line and block comments from function text and trims
// surrounding whitespace.
//
// Comment markers inside string or character literals are not recognized, so
// a literal such as "http://host" loses everything after the slashes.
func Normalize(text string) string {
	for {
		stripped := blockCommentRegex.ReplaceAllString(lineCommentRegex.ReplaceAllString(text, ""), "")
		if stripped == text {
			break
		}
		text = stripped
	}
	return strings.TrimSpace(text)
}
