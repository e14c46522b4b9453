package common

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")

	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrDocumentParse     = errors.New("document parse failed")
	ErrUpstreamService   = errors.New("analysis service unavailable")
	ErrMalformedResponse = errors.New("malformed analysis response")
	ErrNoContent         = errors.New("no content to analyze")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// UnsupportedFormatError is returned when a document is neither PDF nor DOCX.
type UnsupportedFormatError struct {
	ContentType string // declared MIME type as received
}

func (e *UnsupportedFormatError) Error() string {
	if e.ContentType == "" {
		return ErrUnsupportedFormat.Error()
	}
	return fmt.Sprintf("%s: %q", ErrUnsupportedFormat.Error(), e.ContentType)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// DocumentParseError is returned when the bytes are not a valid document of the declared type.
type DocumentParseError struct {
	Declared string // "PDF" or "DOCX"
	Cause    error
}

func NewDocumentParseError(declared string, cause error) *DocumentParseError {
	return &DocumentParseError{Declared: declared, Cause: cause}
}

func (e *DocumentParseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("parse %s document", e.Declared)
	}
	return fmt.Sprintf("parse %s document: %v", e.Declared, e.Cause)
}

func (e *DocumentParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrDocumentParse}
	}
	return []error{ErrDocumentParse, e.Cause}
}

// UpstreamServiceError covers every failure of the language-model call:
// transport, timeout, non-2xx status and undecodable bodies.
type UpstreamServiceError struct {
	Provider   string
	StatusCode int // 0 when no HTTP response was received
	Cause      error
}

func NewUpstreamError(provider string, statusCode int, cause error) *UpstreamServiceError {
	return &UpstreamServiceError{Provider: provider, StatusCode: statusCode, Cause: cause}
}

func (e *UpstreamServiceError) Error() string {
	msg := fmt.Sprintf("%s upstream", e.Provider)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s status %d", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *UpstreamServiceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrUpstreamService}
	}
	return []error{ErrUpstreamService, e.Cause}
}

// MalformedResponseError reports a reply in which no known section matched.
type MalformedResponseError struct {
	ReplyLen int
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: no sections matched in %d bytes", ErrMalformedResponse.Error(), e.ReplyLen)
}

func (e *MalformedResponseError) Unwrap() error { return ErrMalformedResponse }

// ToStatus maps an error onto a gRPC status so callers get a stable code per failure class.
func ToStatus(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.New(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.New(codes.Canceled, err.Error())
	case errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrDocumentParse),
		errors.Is(err, ErrInvalidInput), errors.Is(err, ErrValidation):
		return status.New(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrNoContent):
		return status.New(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrUpstreamService):
		return status.New(codes.Unavailable, err.Error())
	case errors.Is(err, ErrNotFound):
		return status.New(codes.NotFound, err.Error())
	default:
		if s, ok := status.FromError(err); ok {
			return s
		}
		return status.New(codes.Internal, err.Error())
	}
}

// ExitCode returns a process exit code for err, derived from its status code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return int(ToStatus(err).Code())
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}
