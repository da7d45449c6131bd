package errors

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBadRequest         = errors.New("bad request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInternal           = errors.New("internal error")
)

// Kind classifies a failure independently of the transport.
type Kind string

const (
	KindBadRequest   Kind = "BAD_REQUEST"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL"
)

// Error codes returned to API consumers
const (
	CodeBadRequest         = "ERR_BAD_REQUEST"
	CodeValidation         = "ERR_VALIDATION"
	CodeUnauthorized       = "ERR_UNAUTHORIZED"
	CodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	CodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	CodeEmailNotVerified   = "ERR_EMAIL_NOT_VERIFIED"
	CodeForbidden          = "ERR_FORBIDDEN"
	CodeNotFound           = "ERR_NOT_FOUND"
	CodeConflict           = "ERR_CONFLICT"
	CodeInternalError      = "ERR_INTERNAL"
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents an application error tagged with its kind
type AppError struct {
	Kind    Kind         `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped sentinel for errors.Is.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(kind Kind, code, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(KindNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(KindBadRequest, CodeBadRequest, message, ErrBadRequest)
}

func Unauthorized(message string) *AppError {
	return NewAppError(KindUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(KindForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(KindConflict, CodeConflict, message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(KindInternal, CodeInternalError, "internal server error", err)
}

// Validation builds a BadRequest carrying field-level messages.
func Validation(fields []FieldError) *AppError {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	appErr := NewAppError(KindBadRequest, CodeValidation, "validation failed", ErrInvalidInput)
	if len(names) > 0 {
		appErr.Message = "validation failed: " + strings.Join(names, ", ")
	}
	appErr.Fields = fields
	return appErr
}

// NewError creates a new error with a custom message wrapping an existing error.
// The kind is derived from the wrapped error.
func NewError(message string, err error) error {
	kind := KindOf(err)
	return &AppError{
		Kind:    kind,
		Code:    codeForKind(kind),
		Message: message,
		Err:     err,
	}
}

var sentinelKinds = []struct {
	err  error
	kind Kind
}{
	{ErrNotFound, KindNotFound},
	{ErrAlreadyExists, KindConflict},
	{ErrInvalidInput, KindBadRequest},
	{ErrBadRequest, KindBadRequest},
	{ErrUnauthorized, KindUnauthorized},
	{ErrInvalidCredentials, KindUnauthorized},
	{ErrInvalidToken, KindUnauthorized},
	{ErrTokenExpired, KindUnauthorized},
	{ErrForbidden, KindForbidden},
	{ErrEmailNotVerified, KindForbidden},
}

// KindOf resolves the kind of any error. Unknown errors are Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != "" {
		return appErr.Kind
	}
	for _, s := range sentinelKinds {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}
	return KindInternal
}

// AsAppError converts err into an AppError, keeping an existing one untouched.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != "" {
		return appErr
	}
	kind := KindOf(err)
	if kind == KindInternal {
		return InternalError(err)
	}
	return &AppError{Kind: kind, Code: codeForKind(kind), Message: err.Error(), Err: err}
}

func codeForKind(kind Kind) string {
	switch kind {
	case KindBadRequest:
		return CodeBadRequest
	case KindUnauthorized:
		return CodeUnauthorized
	case KindForbidden:
		return CodeForbidden
	case KindNotFound:
		return CodeNotFound
	case KindConflict:
		return CodeConflict
	default:
		return CodeInternalError
	}
}
