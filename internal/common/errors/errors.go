// Package errors provides the structured error types shared by the order store and the HTTP layer.
package errors

import (
	stderrors "errors"
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
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidPayload       ErrorCode = "INVALID_PAYLOAD"
	ErrCodeOrderNotFound        ErrorCode = "ORDER_NOT_FOUND"
	ErrCodePersistenceFailed    ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeReadFailed           ErrorCode = "READ_FAILED"
	ErrCodeRecommendationFailed ErrorCode = "RECOMMENDATION_FAILED"
	ErrCodeRosterInvalid        ErrorCode = "ROSTER_INVALID"
	ErrCodeConfigInvalid        ErrorCode = "CONFIG_INVALID"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// userMessages are shown to API callers; Message and Details stay in the logs.
var userMessages = map[ErrorCode]string{
	ErrCodeValidationFailed:     "订单数据校验失败",
	ErrCodeInvalidPayload:       "请求数据格式错误",
	ErrCodeOrderNotFound:        "找不到订单",
	ErrCodePersistenceFailed:    "订单保存失败",
	ErrCodeReadFailed:           "读取订单失败",
	ErrCodeRecommendationFailed: "推荐服务人员失败",
	ErrCodeRosterInvalid:        "服务人员名单无效",
	ErrCodeConfigInvalid:        "配置无效",
	ErrCodeInternal:             "服务器内部错误",
}

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	userMessage string
	cause       error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// UserMessage is the text returned to API callers.
func (e *StandardError) UserMessage() string {
	if e.userMessage != "" {
		return e.userMessage
	}
	if msg, ok := userMessages[e.Code]; ok {
		return msg
	}
	return userMessages[ErrCodeInternal]
}

// WithUserMessage replaces the caller-facing text for this error.
func (e *StandardError) WithUserMessage(msg string) *StandardError {
	e.userMessage = msg
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewValidationError reports a missing or malformed request field.
func NewValidationError(field, details string) *StandardError {
	e := newError(ErrCodeValidationFailed, "validation failed", details, nil)
	e.Metadata = map[string]interface{}{"field": field}
	return e
}

// NewStatusRequiredError reports a status update without a usable status.
func NewStatusRequiredError() *StandardError {
	return NewValidationError("status", "status must be a non-empty string").WithUserMessage("请提供订单状态")
}

// NewInvalidPayloadError reports a request body that could not be decoded.
func NewInvalidPayloadError(err error) *StandardError {
	return newError(ErrCodeInvalidPayload, "invalid request payload", err.Error(), err)
}

// NewOrderNotFoundError reports an unknown order id.
func NewOrderNotFoundError(orderID string) *StandardError {
	e := newError(ErrCodeOrderNotFound, "order not found", fmt.Sprintf("orderId: %s", orderID), nil)
	e.Metadata = map[string]interface{}{"orderId": orderID}
	return e
}

// NewPersistenceError reports a failed write of an order record.
func NewPersistenceError(orderID string, err error) *StandardError {
	e := newError(ErrCodePersistenceFailed, "failed to persist order", err.Error(), err)
	e.Metadata = map[string]interface{}{"orderId": orderID}
	return e
}

// NewReadError reports that stored orders could not be read.
func NewReadError(err error) *StandardError {
	return newError(ErrCodeReadFailed, "failed to read orders", err.Error(), err)
}

// NewRecommendationError reports that no provider could be recommended.
func NewRecommendationError(details string) *StandardError {
	return newError(ErrCodeRecommendationFailed, "provider recommendation failed", details, nil)
}

// NewRosterInvalidError reports a roster that violates its invariants.
func NewRosterInvalidError(err error) *StandardError {
	return newError(ErrCodeRosterInvalid, "invalid provider roster", err.Error(), err)
}

// NewConfigInvalidError reports an invalid configuration value.
func NewConfigInvalidError(details string) *StandardError {
	return newError(ErrCodeConfigInvalid, "invalid configuration", details, nil)
}

// ==========================
// 3. Helpers
// ==========================

// AsStandardError extracts a StandardError from err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return newError(ErrCodeInternal, "unexpected error", err.Error(), err)
}

// IsRetryableErrorCode reports whether retrying the same request may succeed.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodePersistenceFailed, ErrCodeReadFailed:
		return true
	default:
		return false
	}
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INVALID_PAYLOAD"):
		return "VALIDATION"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "LOOKUP"
	case strings.Contains(codeStr, "PERSISTENCE") || strings.Contains(codeStr, "READ"):
		return "STORAGE"
	case strings.Contains(codeStr, "RECOMMENDATION") || strings.Contains(codeStr, "ROSTER"):
		return "MATCHING"
	case strings.Contains(codeStr, "CONFIG"):
		return "CONFIG"
	default:
		return "OTHER"
	}
}
