// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the domain error taxonomy shared by stores and
// handlers. A single Error type carries a Kind; the HTTP boundary maps
// kinds to status codes so stores never import net/http.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind int

const (
	// KindNotFound means the requested entity does not exist.
	KindNotFound Kind = iota
	// KindForbidden means the caller is authenticated but not allowed
	// (wrong role, or not the resource owner).
	KindForbidden
	// KindConflict means a uniqueness violation or a delete blocked by a
	// referential guard.
	KindConflict
	// KindValidation means a schema constraint was violated.
	KindValidation
	// KindUnauthenticated means no or invalid session.
	KindUnauthenticated
)

// Error is a domain failure with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbidden creates a forbidden error.
func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Unauthenticated creates an unauthenticated error.
func Unauthenticated(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

// As unwraps err into an *Error if possible.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
