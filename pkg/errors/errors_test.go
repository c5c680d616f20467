package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationErrorUnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	err := NewGenerationError("invalid JSON from Gemini", StageDecode, "Gemini", cause)

	require.True(t, stderrors.Is(err, cause))
	assert.Equal(t, CodeGenerationFailure, err.Code)
	assert.Equal(t, StageDecode, err.Stage)
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
	assert.Equal(t, GenerationFailureMessage, err.UserMessage())
}

func TestIsGenerationFailureThroughWrapping(t *testing.T) {
	err := fmt.Errorf("submit analysis: %w", NewGenerationError("empty", StageEmpty, "Gemini", nil))

	assert.True(t, IsGenerationFailure(err))
	assert.False(t, IsInvalidIndex(err))
	assert.False(t, IsGenerationFailure(ErrNothingPending))
}

func TestInvalidIndexErrorContext(t *testing.T) {
	err := NewInvalidIndexError(5, 2)

	assert.True(t, IsInvalidIndex(err))
	assert.Equal(t, 5, err.Index)
	assert.Equal(t, 2, err.Length)
	assert.Equal(t, "post index 5 out of range [0,2)", err.Error())
}

func TestValidationErrorField(t *testing.T) {
	err := NewValidationError("niche is required", "niche", "")

	assert.True(t, IsValidation(err))
	assert.Equal(t, "niche", err.Field)
	assert.Equal(t, CodeValidation, err.Code)
}
