// internal/common/errors/handler.go
package errors

import (
	"context"
	"time"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Recorder counts absorbed errors; metrics.RecordAbsorbedError satisfies it.
type Recorder func(code, recovery string)

// ErrorHandler normalizes, logs and counts errors that the pipeline absorbs.
type ErrorHandler struct {
	logger Logger
	record Recorder
}

func NewErrorHandler(logger Logger, record Recorder) *ErrorHandler {
	return &ErrorHandler{logger: logger, record: record}
}

// Absorb records err and returns the recovery the caller is expected to apply.
// Expected upstream failures log at warn; anything unclassified logs at error.
// A nil handler only classifies.
func (h *ErrorHandler) Absorb(ctx context.Context, component string, err error) Recovery {
	if err == nil {
		return ""
	}
	if h == nil {
		return GetRecovery(CodeOf(err))
	}

	stdErr := h.normalizeError(err)
	recovery := GetRecovery(stdErr.Code)

	fields := map[string]interface{}{
		"component":     component,
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"recovery":      string(recovery),
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	if ctx != nil && ctx.Err() != nil {
		fields["contextError"] = ctx.Err().Error()
	}

	if h.logger != nil {
		if stdErr.Code == ErrCodeInternal {
			h.logger.Error("error absorbed", fields)
		} else {
			h.logger.Warn("error absorbed", fields)
		}
	}
	if h.record != nil {
		h.record(string(stdErr.Code), string(recovery))
	}

	return recovery
}

// normalizeError ensures we always have a StandardError.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
