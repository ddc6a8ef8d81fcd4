package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure so transport layers can map it to a
// status code or a WebSocket error frame without inspecting messages.
type Kind int

const (
	// KindUnknown covers infrastructure failures that are not a domain outcome.
	KindUnknown Kind = iota
	// KindConflict means the operation is illegal in the ride's current status.
	KindConflict
	// KindForbidden means the caller is not a party authorized for the operation.
	KindForbidden
	// KindNotFound means the ride or participant does not exist.
	KindNotFound
	// KindInvalid means the input was malformed.
	KindInvalid
	// KindGone means the resource existed but has reached a terminal state.
	KindGone
)

// Error is a typed domain error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a typed error with the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Conflictf creates a Conflict error with a formatted message.
func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Forbiddenf creates a Forbidden error with a formatted message.
func Forbiddenf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf creates a NotFound error with a formatted message.
func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Invalidf creates an Invalid error with a formatted message.
func Invalidf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

// Gonef creates a Gone error with a formatted message.
func Gonef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindGone, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsConflict reports whether err is a Conflict error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsForbidden reports whether err is a Forbidden error.
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsInvalid reports whether err is an Invalid error.
func IsInvalid(err error) bool { return KindOf(err) == KindInvalid }

// IsGone reports whether err is a Gone error.
func IsGone(err error) bool { return KindOf(err) == KindGone }
