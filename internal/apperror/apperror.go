package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidKey   = errors.New("invalid key")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("store unavailable")
	ErrDelivery     = errors.New("delivery failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// AppError carries a sentinel kind, a message that is safe to show to API
// clients, and optionally the fields involved and the underlying cause.
type AppError struct {
	Err     error    // sentinel kind
	Message string   // Human-readable error message
	Fields  []string // Optional: fields causing the error
	Cause   error    // Optional: underlying error, logged but never rendered
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	errs := []error{e.Err}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// NotFoundBy reports a lookup by an alternate key, e.g. a blog post slug.
func NotFoundBy(resource, field, value string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with %s %s", resource, field, value),
		Fields:  []string{field},
	}
}

func InvalidKey(resource, id string) *AppError {
	return &AppError{
		Err:     ErrInvalidKey,
		Message: fmt.Sprintf("invalid %s id %q", resource, id),
		Fields:  []string{"id"},
	}
}

// Validation names every offending field in the message. details, when given,
// are full sentences per field ("title is required") and replace the default
// "<field> is invalid" wording.
func Validation(resource string, fields []string, details ...string) *AppError {
	parts := details
	if len(parts) == 0 {
		parts = make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, f+" is invalid")
		}
	}
	return &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("%s validation failed: %s", resource, strings.Join(parts, ", ")),
		Fields:  fields,
	}
}

// BadRequest is a validation error that is not tied to a schema, such as an
// unparsable body or query parameter.
func BadRequest(message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
	}
}

// InvalidBody describes a JSON decoding failure without the decoder's
// wording, which names Go types. A type mismatch names the field.
func InvalidBody(err error) *AppError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &AppError{
			Err:     ErrValidation,
			Message: typeErr.Field + " has the wrong type",
			Fields:  []string{typeErr.Field},
			Cause:   err,
		}
	}
	return &AppError{
		Err:     ErrValidation,
		Message: "Invalid request body",
		Cause:   err,
	}
}

func Conflict(resource, field, value string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Fields:  []string{field},
	}
}

func Unavailable(cause error) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: "storage is temporarily unavailable",
		Cause:   cause,
	}
}

// DeliveryFailed marks a contact message that was accepted but could not be
// handed to the email collaborator.
func DeliveryFailed(cause error) *AppError {
	return &AppError{
		Err:     ErrDelivery,
		Message: "message could not be delivered, please try again later",
		Cause:   cause,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
