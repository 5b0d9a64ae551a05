// Package errors provides standardized error handling for the facet engine.
// Every facet error is recoverable and local: it surfaces on the store's
// error field and never invalidates previously published state.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSchemaFetchFailed      ErrorCode = "SCHEMA_FETCH_FAILED"
	ErrCodeAggregationFetchFailed ErrorCode = "AGGREGATION_FETCH_FAILED"
	ErrCodeAggregationTimeout     ErrorCode = "AGGREGATION_TIMEOUT"
	ErrCodeMalformedResponse      ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeInvalidCategory        ErrorCode = "INVALID_CATEGORY"

	ErrCodeGraphQLTransportFailed ErrorCode = "GRAPHQL_TRANSPORT_FAILED"
	ErrCodeGraphQLAPIError        ErrorCode = "GRAPHQL_API_ERROR"

	ErrCodeCacheBackendFailed       ErrorCode = "CACHE_BACKEND_FAILED"
	ErrCodeCurrencyConversionFailed ErrorCode = "CURRENCY_CONVERSION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewSchemaFetchFailedError creates a retryable schema fetch error.
func NewSchemaFetchFailedError(categorySlug string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaFetchFailed,
		Message:   "Attribute schema fetch failed",
		Details:   fmt.Sprintf("categorySlug: %s, error: %s", categorySlug, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAggregationFetchFailedError creates a retryable aggregation fetch error.
func NewAggregationFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAggregationFetchFailed,
		Message:   "Listings aggregation fetch failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAggregationTimeoutError creates a retryable aggregation timeout error.
// No automatic retry is attempted; the user re-triggers the action.
func NewAggregationTimeoutError(timeout time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeAggregationTimeout,
		Message:   "Listings aggregation timed out",
		Details:   fmt.Sprintf("aggregation call exceeded %s deadline", timeout),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedResponseError creates a non-retryable malformed response error.
func NewMalformedResponseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Message:   "Backend response failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCategoryError creates a non-retryable invalid category error.
func NewInvalidCategoryError(categorySlug string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCategory,
		Message:   "Category slug is missing or unknown",
		Details:   fmt.Sprintf("categorySlug: %q", categorySlug),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGraphQLTransportError creates a retryable transport error.
func NewGraphQLTransportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGraphQLTransportFailed,
		Message:   "GraphQL transport error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGraphQLAPIError creates a non-retryable error for errors reported in the
// GraphQL response body.
func NewGraphQLAPIError(operation, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGraphQLAPIError,
		Message:   fmt.Sprintf("GraphQL operation '%s' returned errors", operation),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheBackendError creates a retryable shared cache error.
func NewCacheBackendError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheBackendFailed,
		Message:   "Shared snapshot cache error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCurrencyConversionError creates a non-retryable conversion error.
func NewCurrencyConversionError(from, to string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCurrencyConversionFailed,
		Message:   "Price filter currency conversion failed",
		Details:   fmt.Sprintf("from: %s, to: %s, error: %s", from, to, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether err is a retryable StandardError.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}

// CodeOf extracts the error code, or INTERNAL_ERROR for foreign errors.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Code
	}
	return "INTERNAL_ERROR"
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SCHEMA") || strings.Contains(codeStr, "CATEGORY"):
		return "SCHEMA"
	case strings.Contains(codeStr, "AGGREGATION"):
		return "AGGREGATION"
	case strings.Contains(codeStr, "GRAPHQL"):
		return "TRANSPORT"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "CURRENCY"):
		return "PRICING"
	case strings.Contains(codeStr, "MALFORMED"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
