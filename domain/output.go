package domain

import (
	"io"
	"strings"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// OutputFormats lists every format in the order the CLI advertises them.
var OutputFormats = []OutputFormat{OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV}

// ParseOutputFormat accepts a format name case-insensitively; empty means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	name := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return OutputFormatText, nil
	}
	for _, f := range OutputFormats {
		if f == name {
			return f, nil
		}
	}
	return "", NewUnsupportedFormatError(s)
}

// ReportWriter routes a rendered report either to outputPath, truncating it,
// or to writer when outputPath is empty.
type ReportWriter interface {
	Write(writer io.Writer, outputPath string, format OutputFormat, writeFunc func(io.Writer) error) error
}

// MatchProgress is fed once per reference function while a match runs.
type MatchProgress interface {
	Begin(total int)
	Advance(reference string, matched bool)
	Finish(success bool)
}
