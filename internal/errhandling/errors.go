// Package errhandling provides error classification and retry utilities
// for the I/O collaborators (BMS API polling, file access). The filter
// engine itself never produces these errors; it only ever sees an
// already-materialized list of labels.
package errhandling

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ErrorCategory represents the type of a classified error.
type ErrorCategory string

// Error categories.
const (
	// CategoryNetwork covers timeouts, connection refused, DNS failures.
	// Typically transient and retryable.
	CategoryNetwork ErrorCategory = "network"

	// CategoryAuthentication covers 401/403. Fatal, not retried.
	CategoryAuthentication ErrorCategory = "authentication"

	// CategoryValidation covers 400/422 and other client errors. Fatal.
	CategoryValidation ErrorCategory = "validation"

	// CategoryRateLimit covers 429. Retried with backoff.
	CategoryRateLimit ErrorCategory = "rate_limit"

	// CategoryServer covers 5xx. Typically transient and retryable.
	CategoryServer ErrorCategory = "server"

	// CategoryNotFound covers 404. Fatal.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryUnknown covers everything else. Retryable by default,
	// transient being more likely than permanent.
	CategoryUnknown ErrorCategory = "unknown"
)

// ClassifiedError wraps an error with classification metadata.
type ClassifiedError struct {
	// Category is the error classification category.
	Category ErrorCategory

	// Retryable indicates whether the error is transient.
	Retryable bool

	// StatusCode is the HTTP status code (0 if not an HTTP error).
	StatusCode int

	// Message is a human-readable error message.
	Message string

	// OriginalErr is the underlying error that was classified.
	OriginalErr error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Category, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Category, e.Message)
}

// Unwrap returns the original error for errors.Is and errors.As.
func (e *ClassifiedError) Unwrap() error {
	return e.OriginalErr
}

// ClassifyHTTPStatus classifies an HTTP error by status code:
// 401/403 authentication, 400/422 validation, 404 not found, 429 rate
// limit, 5xx server. Only rate-limit, server, and unknown statuses are
// retryable.
func ClassifyHTTPStatus(statusCode int, message string) *ClassifiedError {
	switch {
	case statusCode == 401:
		return &ClassifiedError{Category: CategoryAuthentication, StatusCode: statusCode, Message: "unauthorized"}
	case statusCode == 403:
		return &ClassifiedError{Category: CategoryAuthentication, StatusCode: statusCode, Message: "forbidden"}
	case statusCode == 400:
		return &ClassifiedError{Category: CategoryValidation, StatusCode: statusCode, Message: "bad request"}
	case statusCode == 422:
		return &ClassifiedError{Category: CategoryValidation, StatusCode: statusCode, Message: "unprocessable entity"}
	case statusCode == 404:
		return &ClassifiedError{Category: CategoryNotFound, StatusCode: statusCode, Message: "not found"}
	case statusCode == 429:
		return &ClassifiedError{Category: CategoryRateLimit, Retryable: true, StatusCode: statusCode, Message: "rate limited"}
	case statusCode >= 500:
		return &ClassifiedError{Category: CategoryServer, Retryable: true, StatusCode: statusCode, Message: "server error"}
	case statusCode >= 400:
		return &ClassifiedError{Category: CategoryValidation, StatusCode: statusCode, Message: "client error"}
	default:
		return &ClassifiedError{Category: CategoryUnknown, Retryable: true, StatusCode: statusCode, Message: message}
	}
}

// ClassifyNetworkError classifies a transport-level error. Timeouts,
// connection failures, and DNS errors are retryable; a canceled context
// is not (user initiated).
func ClassifyNetworkError(err error) *ClassifiedError {
	if err == nil {
		return &ClassifiedError{Category: CategoryUnknown, Message: "nil error"}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ClassifiedError{Category: CategoryNetwork, Retryable: true, Message: "request timeout", OriginalErr: err}
	}
	if errors.Is(err, context.Canceled) {
		return &ClassifiedError{Category: CategoryNetwork, Message: "context canceled", OriginalErr: err}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &ClassifiedError{
			Category:    CategoryNetwork,
			Retryable:   true,
			Message:     fmt.Sprintf("network error: %s %s", opErr.Op, opErr.Net),
			OriginalErr: err,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &ClassifiedError{
			Category:    CategoryNetwork,
			Retryable:   true,
			Message:     fmt.Sprintf("DNS error: %s", dnsErr.Name),
			OriginalErr: err,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &ClassifiedError{
			Category:    CategoryNetwork,
			Retryable:   true,
			Message:     fmt.Sprintf("URL error: %s %s", urlErr.Op, urlErr.URL),
			OriginalErr: err,
		}
	}

	return &ClassifiedError{Category: CategoryUnknown, Retryable: true, Message: err.Error(), OriginalErr: err}
}

// IsRetryable reports whether err (or a ClassifiedError in its chain)
// is transient. Unclassified errors default to retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Retryable
	}
	return ClassifyNetworkError(err).Retryable
}
