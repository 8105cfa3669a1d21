package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ludo-technologies/libfinder/domain"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	patterns []categoryPatterns
}

type categoryPatterns struct {
	category domain.ErrorCategory
	patterns []string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		patterns: initializeErrorPatterns(),
	}
}

// initializeErrorPatterns lists message patterns in match priority order
func initializeErrorPatterns() []categoryPatterns {
	return []categoryPatterns{
		{domain.ErrorCategoryTimeout, []string{
			"timeout",
			"deadline",
			"context canceled",
			"operation timed out",
		}},
		{domain.ErrorCategoryConfig, []string{
			"config",
			"configuration",
			"toml",
			"invalid settings",
		}},
		{domain.ErrorCategoryInput, []string{
			"invalid input",
			"no files found",
			"no source files",
			"file not found",
			"no such file",
			"cannot access",
			"permission denied",
			"directory",
		}},
		{domain.ErrorCategoryOutput, []string{
			"write",
			"output",
			"unsupported format",
			"cannot create",
			"report generation",
		}},
		{domain.ErrorCategoryProcessing, []string{
			"parse",
			"malformed",
			"syntax",
			"failed to load",
			"matching",
			"analysis",
		}},
	}
}

// Categorize determines the category of an error
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	var categorized *domain.CategorizedError
	if errors.As(err, &categorized) {
		return categorized
	}

	category := ec.categoryOf(err)
	message := err.Error()
	if category != domain.ErrorCategoryUnknown {
		message = ec.getCategoryMessage(category)
	}
	return &domain.CategorizedError{
		Category: category,
		Message:  message,
		Original: err,
	}
}

func (ec *ErrorCategorizerImpl) categoryOf(err error) domain.ErrorCategory {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.ErrorCategoryTimeout
	}
	if code, ok := domain.CodeOf(err); ok {
		if category := code.Category(); category != domain.ErrorCategoryUnknown {
			return category
		}
	}

	errMsg := strings.ToLower(err.Error())
	for _, cp := range ec.patterns {
		if containsAnyPattern(errMsg, cp.patterns) {
			return cp.category
		}
	}
	return domain.ErrorCategoryUnknown
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the reference paths contain C/C++ source files",
			"Check that every --candidates path exists and is a dump (.json/.yaml) or decompiled export (.c/.txt)",
			"Ensure you have read permissions for the target files",
		},
		domain.ErrorCategoryConfig: {
			"Verify configuration file format and values",
			"Try: libfinder init to generate a valid config file",
			"Check for syntax errors in .libfinder.toml",
		},
		domain.ErrorCategoryTimeout: {
			"Increase --timeout or match a smaller candidate pool",
			"Split large decompiler exports into several files",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions for the output directory",
			"Use one of --json, --yaml or --csv, or omit them for text",
		},
		domain.ErrorCategoryProcessing: {
			"Some functions may be truncated or lack a parameter list",
			"Try: libfinder extract <file> to inspect what was parsed",
			"Try: libfinder compare to inspect a single pair",
		},
		domain.ErrorCategoryUnknown: {
			"Re-run with --verbose for detailed error information",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:      "Failed to process input files or directories",
		domain.ErrorCategoryConfig:     "Configuration file or settings error",
		domain.ErrorCategoryTimeout:    "Matching timed out or was cancelled",
		domain.ErrorCategoryOutput:     "Failed to generate or write output",
		domain.ErrorCategoryProcessing: "Error while parsing or matching functions",
		domain.ErrorCategoryUnknown:    "An unexpected error occurred",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
