// Package apperr defines the typed error kinds used across the use case
// manager, per the error handling policy: user errors exit 1 with
// remediation text, internal errors exit 2.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for exit-code mapping and presentation.
type Kind int

const (
	KindNotFound Kind = iota
	KindValidation
	KindReferenceIntegrity
	KindFieldConflict
	KindConfigInvalid
	KindStorageFailure
	KindTemplateMissing
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindValidation:
		return "Validation"
	case KindReferenceIntegrity:
		return "ReferenceIntegrity"
	case KindFieldConflict:
		return "FieldConflict"
	case KindConfigInvalid:
		return "ConfigInvalid"
	case KindStorageFailure:
		return "StorageFailure"
	case KindTemplateMissing:
		return "TemplateMissing"
	default:
		return "Unknown"
	}
}

// User reports whether this kind is a user-facing error (exit 1) as opposed
// to an internal one (exit 2).
func (k Kind) User() bool {
	switch k {
	case KindValidation, KindNotFound, KindReferenceIntegrity, KindFieldConflict, KindConfigInvalid:
		return true
	default:
		return false
	}
}

// Error is the typed error carried through the system. Suggestions holds
// up-to-three fuzzy "did you mean" alternatives for NotFound errors.
type Error struct {
	Kind        Kind
	Message     string
	Remedy      string
	Suggestions []string
	Cause       error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %v?)", e.Suggestions)
	}
	if e.Remedy != "" {
		msg += fmt.Sprintf(" — %s", e.Remedy)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates a plain typed error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a typed error that wraps an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NotFound builds a NotFound error, optionally with fuzzy suggestions.
func NotFound(itemType, id string, suggestions []string) *Error {
	return &Error{
		Kind:        KindNotFound,
		Message:     fmt.Sprintf("%s %q not found", itemType, id),
		Suggestions: suggestions,
	}
}

// Validation builds a Validation error.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// ReferenceIntegrity builds a ReferenceIntegrity error.
func ReferenceIntegrity(format string, args ...any) *Error {
	return &Error{Kind: KindReferenceIntegrity, Message: fmt.Sprintf(format, args...)}
}

// FieldConflict builds a FieldConflict error.
func FieldConflict(format string, args ...any) *Error {
	return &Error{Kind: KindFieldConflict, Message: fmt.Sprintf(format, args...)}
}

// ConfigInvalid builds a ConfigInvalid error.
func ConfigInvalid(format string, args ...any) *Error {
	return &Error{Kind: KindConfigInvalid, Message: fmt.Sprintf(format, args...)}
}

// StorageFailure wraps a backend error.
func StorageFailure(message string, cause error) *Error {
	return &Error{Kind: KindStorageFailure, Message: message, Cause: cause}
}

// TemplateMissing builds a TemplateMissing error.
func TemplateMissing(format string, args ...any) *Error {
	return &Error{Kind: KindTemplateMissing, Message: fmt.Sprintf(format, args...)}
}

// As is a convenience wrapper around errors.As for *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
