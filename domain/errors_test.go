package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Message(t *testing.T) {
	err := NewFileNotFoundError("lib/a.c", errors.New("stat failed"))
	assert.Equal(t, "[FILE_NOT_FOUND] file not found: lib/a.c: stat failed", err.Error())

	err = NewValidationError("no candidates")
	assert.Equal(t, "[INVALID_INPUT] no candidates", err.Error())
}

func TestHasErrorCode_WalksChain(t *testing.T) {
	inner := NewMalformedFunctionError("FUN_1", nil)
	outer := fmt.Errorf("loading dump: %w", NewAnalysisError("candidate load failed", inner))

	assert.True(t, HasErrorCode(outer, ErrCodeAnalysisError))
	assert.True(t, HasErrorCode(outer, ErrCodeMalformedFunction))
	assert.False(t, HasErrorCode(outer, ErrCodeOutputError))
	assert.False(t, HasErrorCode(errors.New("plain"), ErrCodeOutputError))

	code, ok := CodeOf(outer)
	assert.True(t, ok)
	assert.Equal(t, ErrCodeAnalysisError, code)

	_, ok = CodeOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrorCode_Category(t *testing.T) {
	assert.Equal(t, ErrorCategoryConfig, ErrCodeConfigError.Category())
	assert.Equal(t, ErrorCategoryInput, ErrCodeFileNotFound.Category())
	assert.Equal(t, ErrorCategoryOutput, ErrCodeUnsupportedFormat.Category())
	assert.Equal(t, ErrorCategoryProcessing, ErrCodeMalformedFunction.Category())
	assert.Equal(t, ErrorCategoryUnknown, ErrorCode("OTHER").Category())
}
