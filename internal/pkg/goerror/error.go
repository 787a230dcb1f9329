package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates that a unique constraint rejected the write.
	ErrConflict = errors.New("resource conflict")
)

// Type classifies errors into high-level buckets.
type Type int

const (
	// TypeServer represents server-side failures.
	TypeServer Type = iota
	// TypeBusiness represents business rule violations.
	TypeBusiness
	// TypeValidation represents input validation failures.
	TypeValidation
)

func (t Type) String() string {
	switch t {
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier mapped to an HTTP status by StatusCode.
type Code int

const (
	// CodeInternal represents an internal or unspecified error.
	CodeInternal Code = iota
	// CodeInvalidFormat indicates a body that cannot be decoded.
	CodeInvalidFormat
	// CodeInvalidInput indicates missing or malformed fields.
	CodeInvalidInput
	// CodeDuplicate indicates the caller tried to create something that already exists.
	CodeDuplicate
	// CodeNotFound indicates a missing resource.
	CodeNotFound
	// CodeConflict indicates a concurrent or repeated operation.
	CodeConflict
	// CodeTooManyRequest indicates rate limiting.
	CodeTooManyRequest
	// CodeUnauthorized indicates authentication failure.
	CodeUnauthorized
	// CodeForbidden indicates authorization failure.
	CodeForbidden
	// CodeTimeout indicates a timeout.
	CodeTimeout
	// CodeDependency indicates an external collaborator (mail, broker) failed.
	CodeDependency
)

var codeNames = map[Code]string{
	CodeInternal:       "ERROR_CODE_INTERNAL",
	CodeInvalidFormat:  "ERROR_CODE_INVALID_FORMAT",
	CodeInvalidInput:   "ERROR_CODE_INVALID_INPUT",
	CodeDuplicate:      "ERROR_CODE_DUPLICATE",
	CodeNotFound:       "ERROR_CODE_NOT_FOUND",
	CodeConflict:       "ERROR_CODE_CONFLICT",
	CodeTooManyRequest: "ERROR_CODE_TOO_MANY_REQUESTS",
	CodeUnauthorized:   "ERROR_CODE_UNAUTHORIZED",
	CodeForbidden:      "ERROR_CODE_FORBIDDEN",
	CodeTimeout:        "ERROR_CODE_TIMEOUT",
	CodeDependency:     "ERROR_CODE_DEPENDENCY",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return codeNames[CodeInternal]
}

var codeStatus = map[Code]int{
	CodeInvalidFormat:  http.StatusBadRequest,
	CodeInvalidInput:   http.StatusBadRequest,
	CodeDuplicate:      http.StatusBadRequest,
	CodeNotFound:       http.StatusNotFound,
	CodeConflict:       http.StatusConflict,
	CodeTooManyRequest: http.StatusTooManyRequests,
	CodeUnauthorized:   http.StatusUnauthorized,
	CodeForbidden:      http.StatusForbidden,
	CodeTimeout:        http.StatusRequestTimeout,
	CodeDependency:     http.StatusInternalServerError,
	CodeInternal:       http.StatusInternalServerError,
}

// Error is the structured error shared by usecases and the HTTP layer.
//
// It may wrap an underlying cause while carrying a user-facing message, a
// type and a stable code.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	if e.msg != "" {
		return e.msg
	}

	switch e.errType {
	case TypeValidation:
		return "Validation violation"
	case TypeBusiness:
		return "Business rule violation"
	default:
		return "Internal error"
	}
}

// String returns a verbose representation for logs.
func (e *Error) String() string {
	return fmt.Sprintf("Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType, e.code, e.msg, e.err)
}

// Msg returns the user-facing message.
func (e *Error) Msg() string { return e.msg }

// Type returns the error type.
func (e *Error) Type() Type { return e.errType }

// Code returns the error code.
func (e *Error) Code() Code { return e.code }

// Fields returns per-field validation messages, if any.
func (e *Error) Fields() map[string]string { return e.fields }

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.err }

// StatusCode maps the error code to an HTTP status.
func (e *Error) StatusCode() int {
	if sc, ok := codeStatus[e.code]; ok {
		return sc
	}
	return http.StatusInternalServerError
}

func newError(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer wraps an unexpected failure.
func NewServer(err error) error {
	return newError(err, "Internal server error", TypeServer, CodeInternal)
}

// NewDependency wraps a failure of an external collaborator with a caller-facing message.
func NewDependency(err error, msg string) error {
	return newError(err, msg, TypeServer, CodeDependency)
}

// NewBusiness creates a business rule error.
func NewBusiness(msg string, code Code) error {
	return newError(nil, msg, TypeBusiness, code)
}

// NewInvalidInput creates a validation error. It wraps err when given,
// otherwise it builds a field map from kv pairs.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return newError(err, "Validation error", TypeValidation, CodeInvalidInput)
	}

	if len(kv)%2 != 0 {
		return newError(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}

	ve := &Error{msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput, fields: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		ve.fields[kv[i]] = kv[i+1]
	}

	return ve
}

// NewInvalidFormat creates an error for an undecodable request.
func NewInvalidFormat(msgs ...string) error {
	if len(msgs) == 0 {
		return newError(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}
	return newError(nil, msgs[0], TypeValidation, CodeInvalidFormat)
}
