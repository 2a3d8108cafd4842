package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")

	ErrMissingCredential  = errors.New("missing session token")
	ErrInvalidCredential  = errors.New("invalid session token")
	ErrExpiredCredential  = errors.New("session token has expired")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrDuplicateEmail        = errors.New("email already in use")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")

	ErrNotFound             = errors.New("not found")
	ErrNoQuestionsAvailable = errors.New("no questions available")
)

// GenerationCause classifies why a call to the language model failed
type GenerationCause string

const (
	CauseMisconfiguredKey    GenerationCause = "MisconfiguredKey"
	CauseRateLimited         GenerationCause = "RateLimited"
	CauseQuotaExceeded       GenerationCause = "QuotaExceeded"
	CauseUnparseableResponse GenerationCause = "UnparseableResponse"
	CauseNoValidQuestions    GenerationCause = "NoValidQuestions"
	CauseProviderError       GenerationCause = "ProviderError"
)

// GenerationError is returned by the generation pipeline and the explanation generator
type GenerationError struct {
	Cause GenerationCause
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generation failed: %s", e.Cause)
	}
	return fmt.Sprintf("generation failed: %s: %v", e.Cause, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// UserMessage is the client-facing text for the failure; provider details are left out.
func (e *GenerationError) UserMessage() string {
	switch e.Cause {
	case CauseMisconfiguredKey:
		return "AI generation is not configured on the server."
	case CauseRateLimited:
		return "AI service is busy. Please try again later."
	case CauseQuotaExceeded:
		return "AI service quota exceeded. Please try again later."
	case CauseUnparseableResponse:
		return "AI service returned an unreadable response. Please try again."
	case CauseNoValidQuestions:
		return "No valid questions generated. Please try again."
	default:
		return "Failed to generate content."
	}
}

func generationErr(cause GenerationCause, err error) *GenerationError {
	return &GenerationError{Cause: cause, Err: err}
}

// ValidationError wraps ErrValidation with a message for the client
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validationErr(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
