package helper

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// =======================
// TYPED SERVICE ERRORS
// =======================

type ErrKind string

const (
	ErrNotFound       ErrKind = "not_found"
	ErrConflict       ErrKind = "conflict"
	ErrValidation     ErrKind = "validation"
	ErrAuthentication ErrKind = "authentication"
	ErrAuthorization  ErrKind = "authorization"
)

// AppError is the error type every service returns. Controllers translate it
// into the JSON envelope exactly once via JSONError.
type AppError struct {
	Kind    ErrKind
	Message string
}

func (e *AppError) Error() string { return e.Message }

func NotFoundf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Authenticationf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: ErrAuthentication, Message: fmt.Sprintf(format, args...)}
}

func Authorizationf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: ErrAuthorization, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the error kind, or "" for plain errors.
func KindOf(err error) ErrKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

func IsKind(err error, kind ErrKind) bool { return KindOf(err) == kind }

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case ErrNotFound:
		return fiber.StatusNotFound
	case ErrConflict:
		return fiber.StatusConflict
	case ErrValidation:
		return fiber.StatusBadRequest
	case ErrAuthentication:
		return fiber.StatusUnauthorized
	case ErrAuthorization:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// JSONError maps a service error to the standard error envelope.
func JSONError(c *fiber.Ctx, err error) error {
	code := HTTPStatus(err)
	msg := err.Error()
	if code == fiber.StatusInternalServerError {
		msg = "Internal server error"
	}
	return Error(c, code, msg)
}
