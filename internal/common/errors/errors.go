// Package errors provides the standardized error taxonomy for the chat pipeline.
// Every error is absorbed at the layer that detects it; the codes exist for
// logs and metrics, never for the client.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeCompletionTimeout  ErrorCode = "COMPLETION_TIMEOUT"
	ErrCodeCompletionFailed   ErrorCode = "COMPLETION_FAILED"
	ErrCodeReadingParseFailed ErrorCode = "READING_PARSE_FAILED"
	ErrCodeReadingInvalid     ErrorCode = "READING_INVALID"

	ErrCodeAffiliateCredentialsMissing ErrorCode = "AFFILIATE_CREDENTIALS_MISSING"
	ErrCodeAffiliateRequestFailed      ErrorCode = "AFFILIATE_REQUEST_FAILED"
	ErrCodeAffiliateNoProduct          ErrorCode = "AFFILIATE_NO_PRODUCT"
	ErrCodeLinkCacheUnavailable        ErrorCode = "LINK_CACHE_UNAVAILABLE"

	ErrCodeInvalidRequestBody ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// Recovery names the local substitution applied for an error code.
type Recovery string

const (
	RecoveryFallbackReading     Recovery = "fallback_reading"
	RecoveryFallbackLink        Recovery = "fallback_link"
	RecoveryDirectLookup        Recovery = "direct_lookup"
	RecoveryDefaultConversation Recovery = "default_conversation"
	RecoveryApology             Recovery = "apology"
)

// StandardError is the normalized error representation used in logs.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns a copy carrying an extra metadata entry.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	out := *e
	out.Metadata = make(map[string]interface{}, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		out.Metadata[k] = v
	}
	out.Metadata[key] = value
	return &out
}

// ==========================
// 2. Constructors
// ==========================

func newError(code ErrorCode, message string, cause error) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewCompletionTimeoutError(budget time.Duration) *StandardError {
	e := newError(ErrCodeCompletionTimeout, "Completion call timed out", nil)
	e.Details = fmt.Sprintf("completion exceeded %s budget", budget)
	return e
}

func NewCompletionFailedError(err error) *StandardError {
	return newError(ErrCodeCompletionFailed, "Completion API error", err)
}

func NewReadingParseFailedError(err error) *StandardError {
	return newError(ErrCodeReadingParseFailed, "Model output is not valid JSON", err)
}

func NewReadingInvalidError(details string) *StandardError {
	e := newError(ErrCodeReadingInvalid, "Model output failed reading schema", nil)
	e.Details = details
	return e
}

func NewAffiliateCredentialsMissingError() *StandardError {
	return newError(ErrCodeAffiliateCredentialsMissing, "Affiliate access or secret key not configured", nil)
}

func NewAffiliateRequestFailedError(err error) *StandardError {
	return newError(ErrCodeAffiliateRequestFailed, "Affiliate search request failed", err)
}

func NewAffiliateNoProductError(keyword string) *StandardError {
	e := newError(ErrCodeAffiliateNoProduct, "Affiliate search returned no product", nil)
	e.Details = fmt.Sprintf("keyword: %s", keyword)
	return e
}

func NewLinkCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeLinkCacheUnavailable, "Link cache unavailable", err)
}

func NewInvalidRequestBodyError(err error) *StandardError {
	return newError(ErrCodeInvalidRequestBody, "Request body could not be decoded", err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err)
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRecovery returns the substitution applied when the code is observed.
func GetRecovery(code ErrorCode) Recovery {
	switch code {
	case ErrCodeCompletionTimeout, ErrCodeCompletionFailed, ErrCodeReadingParseFailed, ErrCodeReadingInvalid:
		return RecoveryFallbackReading
	case ErrCodeAffiliateCredentialsMissing, ErrCodeAffiliateRequestFailed, ErrCodeAffiliateNoProduct:
		return RecoveryFallbackLink
	case ErrCodeLinkCacheUnavailable:
		return RecoveryDirectLookup
	case ErrCodeInvalidRequestBody:
		return RecoveryDefaultConversation
	default:
		return RecoveryApology
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "COMPLETION"):
		return "AI"
	case strings.HasPrefix(codeStr, "READING"):
		return "VALIDATION"
	case strings.HasPrefix(codeStr, "AFFILIATE"), strings.HasPrefix(codeStr, "LINK"):
		return "AFFILIATE"
	case strings.Contains(codeStr, "REQUEST"):
		return "REQUEST"
	default:
		return "OTHER"
	}
}

// AsStandardError extracts a *StandardError from an error chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the error code carried by err, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}
