package services

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

type serviceError struct {
	kind error
	msg  string
}

func (e *serviceError) Error() string { return e.msg }
func (e *serviceError) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...interface{}) error {
	return &serviceError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func invalidInput(format string, args ...interface{}) error {
	return newError(ErrInvalidInput, format, args...)
}

func notFound(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

func conflict(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}

func unauthorized(format string, args ...interface{}) error {
	return newError(ErrUnauthorized, format, args...)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
