package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodePlannerError      = "PLANNER_ERROR"
	CodeGenerationFailure = "GENERATION_FAILURE"
	CodeInvalidIndex      = "INVALID_INDEX"
	CodeValidation        = "VALIDATION_ERROR"
	CodeCache             = "CACHE_ERROR"
)

// GenerationFailureMessage is the single notice shown to the user for any failed analysis.
const GenerationFailureMessage = "AI 분석 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

// InvalidInputMessage is shown when a submission fails input validation.
const InvalidInputMessage = "입력 항목을 확인해주세요."

// Conditions that guarded call sites reject silently.
var (
	ErrBatchAlreadyRunning  = stderrors.New("batch schedule already running")
	ErrNothingPending       = stderrors.New("no planned posts to schedule")
	ErrGenerationInProgress = stderrors.New("analysis already in progress")
	ErrPostUploaded         = stderrors.New("uploaded post cannot be toggled")
	ErrNoAnalysis           = stderrors.New("no analysis result loaded")
	ErrSessionReset         = stderrors.New("session was reset while analysis was running")
)

type PlannerError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *PlannerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PlannerError) Unwrap() error {
	return e.Cause
}

func NewPlannerError(message, code string, context map[string]any) *PlannerError {
	return &PlannerError{
		Message: message,
		Code:    code,
		Context: context,
	}
}

func (e *PlannerError) WithCause(cause error) *PlannerError {
	e.Cause = cause
	return e
}

// GenerationStage identifies where in the generation pipeline a failure happened.
type GenerationStage string

const (
	StageRequest     GenerationStage = "request"
	StageEmpty       GenerationStage = "empty"
	StageDecode      GenerationStage = "decode"
	StageSchema      GenerationStage = "schema"
	StageCircuitOpen GenerationStage = "circuit_open"
)

type GenerationError struct {
	*PlannerError
	Stage    GenerationStage
	Provider string
}

func NewGenerationError(message string, stage GenerationStage, provider string, cause error) *GenerationError {
	return &GenerationError{
		PlannerError: &PlannerError{
			Message: message,
			Code:    CodeGenerationFailure,
			Context: map[string]any{
				"stage":    string(stage),
				"provider": provider,
			},
			Cause: cause,
		},
		Stage:    stage,
		Provider: provider,
	}
}

// UserMessage returns the notice presented instead of the internal error text.
func (e *GenerationError) UserMessage() string {
	return GenerationFailureMessage
}

type InvalidIndexError struct {
	*PlannerError
	Index  int
	Length int
}

func NewInvalidIndexError(index, length int) *InvalidIndexError {
	return &InvalidIndexError{
		PlannerError: &PlannerError{
			Message: fmt.Sprintf("post index %d out of range [0,%d)", index, length),
			Code:    CodeInvalidIndex,
			Context: map[string]any{
				"index":  index,
				"length": length,
			},
		},
		Index:  index,
		Length: length,
	}
}

type ValidationError struct {
	*PlannerError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		PlannerError: &PlannerError{
			Message: message,
			Code:    CodeValidation,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*PlannerError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		PlannerError: &PlannerError{
			Message: message,
			Code:    CodeCache,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

func IsGenerationFailure(err error) bool {
	var genErr *GenerationError
	return stderrors.As(err, &genErr)
}

func IsInvalidIndex(err error) bool {
	var idxErr *InvalidIndexError
	return stderrors.As(err, &idxErr)
}

func IsValidation(err error) bool {
	var valErr *ValidationError
	return stderrors.As(err, &valErr)
}
