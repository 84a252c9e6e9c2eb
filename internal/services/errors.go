package services

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a per-document screening failure.
type ErrorCode string

const (
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCodeTemplateNotFound  ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeJudgeFailed       ErrorCode = "JUDGE_INVOCATION_FAILED"
	ErrCodeDocumentPanic     ErrorCode = "DOCUMENT_PANIC"
)

var ErrTemplateNotFound = errors.New("evaluation template not found")

// ScreeningError is a failure contained within one document's result.
type ScreeningError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ScreeningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ScreeningError) Unwrap() error {
	return e.Err
}

func newScreeningError(code ErrorCode, message string, err error) *ScreeningError {
	return &ScreeningError{Code: code, Message: message, Err: err}
}
