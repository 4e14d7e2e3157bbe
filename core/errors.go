package core

import (
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorBadInput           = "QONTO_BAD_INPUT"
	ErrorClientClosed       = "QONTO_CLIENT_CLOSED"
	ErrorOAuthTokensMissing = "QONTO_OAUTH_TOKENS_MISSING"
	ErrorConversionFailed   = "QONTO_CONVERSION_FAILED"
	ErrorTransportFailed    = "QONTO_TRANSPORT_FAILED"
	ErrorAPI                = "QONTO_API_ERROR"
	ErrorCancelUnsupported  = "QONTO_CANCEL_UNSUPPORTED"
	ErrorExecutorClosed     = "QONTO_EXECUTOR_CLOSED"
	ErrorInternal           = "QONTO_INTERNAL"
)

func NewError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureErrorEnvelope(goerrors.New(message, category).WithTextCode(textCode))
}

func badInputError(message string) *goerrors.Error {
	return NewError(message, goerrors.CategoryBadInput, ErrorBadInput)
}

func clientClosedError(operation string) *goerrors.Error {
	return NewError("qonto: client is closed", goerrors.CategoryOperation, ErrorClientClosed).
		WithMetadata(map[string]any{"operation": operation})
}

func conversionError(field string, value any) *goerrors.Error {
	return NewError(
		fmt.Sprintf("qonto: cannot convert %s value %q", field, fmt.Sprint(value)),
		goerrors.CategoryBadInput,
		ErrorConversionFailed,
	).WithMetadata(map[string]any{"field": field, "value": fmt.Sprint(value)})
}

func decodeError(err error, what string) *goerrors.Error {
	return ensureErrorEnvelope(
		goerrors.Wrap(err, goerrors.CategoryBadInput, "qonto: decode "+what).
			WithTextCode(ErrorConversionFailed),
	)
}

// TransportError wraps a transport failure, keeping the source error reachable
// through errors.Unwrap.
func TransportError(err error, message string, metadata map[string]any) *goerrors.Error {
	if err == nil {
		return nil
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.TextCode == ErrorTransportFailed {
		return rich
	}
	wrapped := goerrors.Wrap(err, goerrors.CategoryExternal, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(ErrorTransportFailed)
	if len(metadata) > 0 {
		wrapped = wrapped.WithMetadata(metadata)
	}
	return wrapped
}

// APIError classifies a non-2xx response by its status code.
func APIError(statusCode int, message string, metadata map[string]any) *goerrors.Error {
	if strings.TrimSpace(message) == "" {
		message = http.StatusText(statusCode)
	}
	err := goerrors.New(fmt.Sprintf("qonto: api error (%d): %s", statusCode, message), categoryForStatus(statusCode)).
		WithCode(statusCode).
		WithTextCode(ErrorAPI)
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}

func categoryForStatus(statusCode int) goerrors.Category {
	switch {
	case statusCode == http.StatusNotFound:
		return goerrors.CategoryNotFound
	case statusCode == http.StatusUnauthorized:
		return goerrors.CategoryAuth
	case statusCode == http.StatusForbidden:
		return goerrors.CategoryAuthz
	case statusCode == http.StatusConflict:
		return goerrors.CategoryConflict
	case statusCode == http.StatusTooManyRequests:
		return goerrors.CategoryRateLimit
	case statusCode >= 400 && statusCode < 500:
		return goerrors.CategoryBadInput
	default:
		return goerrors.CategoryExternal
	}
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = httpStatusForCategory(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = ErrorInternal
	}
	return err
}

func httpStatusForCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict, goerrors.CategoryOperation:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorTextCode returns the text code of err, or "" when err is not a
// library error.
func ErrorTextCode(err error) string {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}

func IsConversionError(err error) bool {
	return ErrorTextCode(err) == ErrorConversionFailed
}

func IsClientClosed(err error) bool {
	return ErrorTextCode(err) == ErrorClientClosed
}

func IsTransportError(err error) bool {
	return ErrorTextCode(err) == ErrorTransportFailed
}

func IsOAuthTokensMissing(err error) bool {
	return ErrorTextCode(err) == ErrorOAuthTokensMissing
}

// APIStatusCode returns the HTTP status carried by an API error.
func APIStatusCode(err error) (int, bool) {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.TextCode == ErrorAPI {
		return rich.Code, true
	}
	return 0, false
}
