// Package errors provides the error kinds shared by the validators, the CCC
// converter and the SEPA message builder.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can report it without string matching.
type Kind string

const (
	KindInvalidFormat    Kind = "invalid_format"
	KindInvalidChecksum  Kind = "invalid_checksum"
	KindMissingField     Kind = "missing_field"
	KindInvalidFieldType Kind = "invalid_field_type"
	KindInvalidArgument  Kind = "invalid_argument"
)

// Error is a classified failure. Field names the offending input when known.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrInvalidFormat    = &Error{Kind: KindInvalidFormat}
	ErrInvalidChecksum  = &Error{Kind: KindInvalidChecksum}
	ErrMissingField     = &Error{Kind: KindMissingField}
	ErrInvalidFieldType = &Error{Kind: KindInvalidFieldType}
	ErrInvalidArgument  = &Error{Kind: KindInvalidArgument}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinel values by kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message != "" || t.Field != "" || t.Err != nil {
		return e == t
	}
	return e.Kind == t.Kind
}

// InvalidFormat reports a structural mismatch.
func InvalidFormat(field, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidFormat, Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidChecksum reports a well-formed value whose check digits do not match.
func InvalidChecksum(field, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidChecksum, Field: field, Message: fmt.Sprintf(format, args...)}
}

// MissingField reports an absent required key.
func MissingField(field string) *Error {
	return &Error{Kind: KindMissingField, Field: field, Message: "missing required field: " + field}
}

// MissingTransactionField reports an absent required key inside a transaction entry.
func MissingTransactionField(field string) *Error {
	return &Error{Kind: KindMissingField, Field: field, Message: "missing required transaction field: " + field}
}

// InvalidFieldType reports a value of an unsupported type.
func InvalidFieldType(field, expected string, got interface{}) *Error {
	return &Error{
		Kind:    KindInvalidFieldType,
		Field:   field,
		Message: fmt.Sprintf("%s must be %s, got %T", field, expected, got),
	}
}

// InvalidArgument rejects an input value, keeping the underlying cause.
func InvalidArgument(field, message string, cause error) *Error {
	return &Error{Kind: KindInvalidArgument, Field: field, Message: message, Err: cause}
}

// KindOf returns the kind of the outermost *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FieldOf returns the field of the outermost *Error in err's chain, or "".
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
