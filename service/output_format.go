package service

import (
	"strings"

	"github.com/ludo-technologies/libfinder/domain"
)

// SelectOutputFormat picks the report format from the mutually exclusive
// --json, --csv and --yaml switches. The extension is empty for text, which
// is printed rather than saved.
func SelectOutputFormat(json, csv, yaml bool) (domain.OutputFormat, string, error) {
	switches := []struct {
		on     bool
		format domain.OutputFormat
	}{
		{json, domain.OutputFormatJSON},
		{csv, domain.OutputFormatCSV},
		{yaml, domain.OutputFormatYAML},
	}

	picked := domain.OutputFormatText
	var given []string
	for _, s := range switches {
		if s.on {
			picked = s.format
			given = append(given, "--"+string(s.format))
		}
	}
	if len(given) > 1 {
		return "", "", domain.NewValidationError("choose one output format, got " + strings.Join(given, " and "))
	}
	if picked == domain.OutputFormatText {
		return picked, "", nil
	}
	return picked, ReportExtension(picked), nil
}

// ReportExtension is the file extension for a saved report.
func ReportExtension(format domain.OutputFormat) string {
	if format == domain.OutputFormatText || format == "" {
		return "txt"
	}
	return string(format)
}
