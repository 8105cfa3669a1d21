package domain

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the failure class of a DomainError.
type ErrorCode string

const (
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrCodeFileNotFound      ErrorCode = "FILE_NOT_FOUND"
	ErrCodeParseError        ErrorCode = "PARSE_ERROR"
	ErrCodeMalformedFunction ErrorCode = "MALFORMED_FUNCTION"
	ErrCodeAnalysisError     ErrorCode = "ANALYSIS_ERROR"
	ErrCodeConfigError       ErrorCode = "CONFIG_ERROR"
	ErrCodeOutputError       ErrorCode = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
)

// Category maps a code onto the user-facing error category.
func (c ErrorCode) Category() ErrorCategory {
	switch c {
	case ErrCodeConfigError:
		return ErrorCategoryConfig
	case ErrCodeInvalidInput, ErrCodeFileNotFound:
		return ErrorCategoryInput
	case ErrCodeOutputError, ErrCodeUnsupportedFormat:
		return ErrorCategoryOutput
	case ErrCodeParseError, ErrCodeMalformedFunction, ErrCodeAnalysisError:
		return ErrorCategoryProcessing
	}
	return ErrorCategoryUnknown
}

// DomainError carries a code through fmt.Errorf("%w") wrapping. Subject names
// the file or function the failure concerns, when there is one.
type DomainError struct {
	Code    ErrorCode
	Subject string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	msg := e.Message
	if e.Subject != "" {
		msg += ": " + e.Subject
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Is matches a bare DomainError{Code: c} sentinel, so errors.Is finds a code
// anywhere in the chain.
func (e DomainError) Is(target error) bool {
	t, ok := target.(DomainError)
	return ok && t.Message == "" && t.Subject == "" && t.Cause == nil && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

func subjectError(code ErrorCode, message, subject string, cause error) error {
	return DomainError{Code: code, Subject: subject, Message: message, Cause: cause}
}

func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewValidationError is an invalid input error with no underlying cause.
func NewValidationError(message string) error {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

func NewFileNotFoundError(path string, cause error) error {
	return subjectError(ErrCodeFileNotFound, "file not found", path, cause)
}

func NewParseError(file string, cause error) error {
	return subjectError(ErrCodeParseError, "failed to parse file", file, cause)
}

// NewMalformedFunctionError reports a function whose text cannot be split into
// declaration and body.
func NewMalformedFunctionError(name string, cause error) error {
	return subjectError(ErrCodeMalformedFunction, "malformed function", name, cause)
}

func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

func NewUnsupportedFormatError(format string) error {
	return subjectError(ErrCodeUnsupportedFormat, "unsupported format", format, nil)
}

// CodeOf returns the code of the outermost DomainError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var de DomainError
	if !errors.As(err, &de) {
		return "", false
	}
	return de.Code, true
}

// HasErrorCode reports whether any DomainError in err's chain carries code.
func HasErrorCode(err error, code ErrorCode) bool {
	return errors.Is(err, DomainError{Code: code})
}

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	ErrorCategoryInput      ErrorCategory = "Input Error"
	ErrorCategoryConfig     ErrorCategory = "Configuration Error"
	ErrorCategoryProcessing ErrorCategory = "Processing Error"
	ErrorCategoryOutput     ErrorCategory = "Output Error"
	ErrorCategoryTimeout    ErrorCategory = "Timeout Error"
	ErrorCategoryUnknown    ErrorCategory = "Unknown Error"
)

// CategorizedError pairs an error with the category shown to the user
type CategorizedError struct {
	Category ErrorCategory
	Message  string
	Original error
}

func (e *CategorizedError) Error() string {
	if e.Original != nil {
		return e.Original.Error()
	}
	return e.Message
}

func (e *CategorizedError) Unwrap() error {
	return e.Original
}

// ErrorCategorizer categorizes errors for better reporting
type ErrorCategorizer interface {
	// Categorize determines the category of an error
	Categorize(err error) *CategorizedError

	// GetRecoverySuggestions returns recovery suggestions for an error category
	GetRecoverySuggestions(category ErrorCategory) []string
}
