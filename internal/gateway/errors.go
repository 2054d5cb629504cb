package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind is the bounded failure taxonomy exposed to callers. Every failure
// crossing the gateway boundary is one of these four kinds; raw transport
// and HTTP errors never escape.
type Kind string

const (
	// KindNotFound means the requested resource does not exist upstream.
	// The Resource field on the error says what kind of resource.
	KindNotFound Kind = "not_found"

	// KindInvalidRequest means the upstream rejected the request (4xx
	// other than 404). Retrying the same request cannot succeed.
	KindInvalidRequest Kind = "invalid_request"

	// KindInvalidResponse means the upstream answered with a payload that
	// failed validation.
	KindInvalidResponse Kind = "invalid_response"

	// KindUnavailable covers transport failures, timeouts, and 5xx
	// responses. It is the only retryable kind.
	KindUnavailable Kind = "unavailable"
)

// Error is a translated upstream failure.
type Error struct {
	Kind       Kind
	Provider   Provider
	Resource   string
	StatusCode int
	Message    string
	cause      error
}

func (e *Error) Error() string {
	if e == nil {
		return "gateway error"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Provider, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Retryable reports whether the orchestrator may retry this failure.
func (e *Error) Retryable() bool {
	return e != nil && e.Kind == KindUnavailable
}

// NotFoundError builds a terminal NotFound failure for a resource type.
func NotFoundError(provider Provider, resource, message string) *Error {
	return &Error{Kind: KindNotFound, Provider: provider, Resource: resource, Message: message}
}

// AsError unwraps err into a *Error when it carries one.
func AsError(err error) (*Error, bool) {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr, true
	}
	return nil, false
}

// MalformedError reports an upstream payload that failed validation.
// Mappers return it; the translator turns it into KindInvalidResponse.
type MalformedError struct {
	Field  string
	Reason string
}

func (e *MalformedError) Error() string {
	if e == nil {
		return "malformed response"
	}
	if e.Field != "" {
		return fmt.Sprintf("malformed response: field %q: %s", e.Field, e.Reason)
	}
	return "malformed response: " + e.Reason
}

// statusError carries a non-2xx upstream response until translation.
type statusError struct {
	status int
	body   []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream status %d", e.status)
}

// translate maps a raw failure into the bounded taxonomy for the request
// described by d. Already-translated errors pass through unchanged.
func translate(d Descriptor, err error) *Error {
	if err == nil {
		return nil
	}

	if gerr, ok := AsError(err); ok {
		return gerr
	}

	var merr *MalformedError
	if errors.As(err, &merr) {
		return &Error{
			Kind:     KindInvalidResponse,
			Provider: d.Provider,
			Message:  merr.Error(),
			cause:    merr,
		}
	}

	var serr *statusError
	if errors.As(err, &serr) {
		switch {
		case serr.status == 404:
			resource := d.Resource
			if resource == "" {
				resource = "resource"
			}
			return &Error{
				Kind:       KindNotFound,
				Provider:   d.Provider,
				Resource:   resource,
				StatusCode: serr.status,
				Message:    resource + " not found",
				cause:      serr,
			}
		case serr.status >= 400 && serr.status < 500:
			return &Error{
				Kind:       KindInvalidRequest,
				Provider:   d.Provider,
				StatusCode: serr.status,
				Message:    "upstream rejected request",
				cause:      serr,
			}
		default:
			return &Error{
				Kind:       KindUnavailable,
				Provider:   d.Provider,
				StatusCode: serr.status,
				Message:    "upstream unavailable",
				cause:      serr,
			}
		}
	}

	// Everything else is transport-level: refused connections, DNS
	// failures, per-attempt deadlines.
	message := "request failed"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		message = "request timed out"
	case isNetError(err):
		message = "transport failure"
	}
	return &Error{
		Kind:     KindUnavailable,
		Provider: d.Provider,
		Message:  message,
		cause:    err,
	}
}

func isNetError(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr)
}
