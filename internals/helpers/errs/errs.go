// Package errs carries the domain error kinds shared by the core
// services. Controllers translate them to HTTP statuses at the edge;
// inside a transaction they abort and roll everything back.
package errs

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindAuthorization
)

type DomainError struct {
	Kind Kind
	Msg  string
}

func (e *DomainError) Error() string { return e.Msg }

func NewValidation(msg string) error { return &DomainError{Kind: KindValidation, Msg: msg} }
func NewConflict(msg string) error   { return &DomainError{Kind: KindConflict, Msg: msg} }
func NewNotFound(msg string) error   { return &DomainError{Kind: KindNotFound, Msg: msg} }
func NewForbidden(msg string) error  { return &DomainError{Kind: KindAuthorization, Msg: msg} }

func IsKind(err error, kind Kind) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

func IsValidation(err error) bool { return IsKind(err, KindValidation) }
func IsConflict(err error) bool   { return IsKind(err, KindConflict) }
func IsNotFound(err error) bool   { return IsKind(err, KindNotFound) }

// HTTPStatus maps a domain error to its response status; anything that is
// not a DomainError is an internal error.
func HTTPStatus(err error) int {
	var de *DomainError
	if !errors.As(err, &de) {
		return fiber.StatusInternalServerError
	}
	switch de.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindConflict:
		return fiber.StatusConflict
	case KindNotFound:
		return fiber.StatusNotFound
	case KindAuthorization:
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

// Message returns the client-facing message for err, hiding internal
// failure details behind a generic line.
func Message(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Msg
	}
	return "internal server error"
}
