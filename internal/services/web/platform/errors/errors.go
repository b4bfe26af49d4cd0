// Package errors defines web typed application errors.
package errors

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	domainerrors "github.com/louisbranch/subtrack/internal/platform/errors"
	"google.golang.org/grpc/codes"
)

// Kind classifies application failures for consistent HTTP mapping.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnavailable  Kind = "unavailable"
)

// Error is a typed web application failure.
type Error struct {
	Kind    Kind
	Key     string
	Message string
}

// Error renders the human-readable message.
func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// EK builds a typed Error with a localization key.
func EK(kind Kind, key string, message string) error {
	return Error{Kind: kind, Key: strings.TrimSpace(key), Message: message}
}

// KindOf classifies err. Domain errors are classified by their code.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	if domainerrors.IsDomainError(err) {
		return kindForGRPCCode(domainerrors.GetCode(err).GRPCCode())
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return KindUnavailable
	}
	return KindUnknown
}

func kindForGRPCCode(code codes.Code) Kind {
	switch code {
	case codes.InvalidArgument:
		return KindInvalidInput
	case codes.Unauthenticated:
		return KindUnauthorized
	case codes.PermissionDenied:
		return KindForbidden
	case codes.NotFound:
		return KindNotFound
	case codes.AlreadyExists, codes.FailedPrecondition:
		return KindConflict
	case codes.Unavailable:
		return KindUnavailable
	default:
		return KindUnknown
	}
}

// LocalizationKey returns the structured localization key when available.
func LocalizationKey(err error) string {
	if err == nil {
		return ""
	}
	var appErr Error
	if stderrors.As(err, &appErr) {
		return strings.TrimSpace(appErr.Key)
	}
	if domainerrors.IsDomainError(err) {
		return domainerrors.GetCode(err).MessageKey()
	}
	return ""
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
