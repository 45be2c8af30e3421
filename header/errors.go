package header

import (
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
)

const (
	// ErrEmptyValue is returned when a field value is empty.
	ErrEmptyValue = grammar.ErrEmptyInput
	// ErrMalformedValue is returned when a field value does not match the field grammar.
	ErrMalformedValue = grammar.ErrMalformedInput

	// ErrInvalidValue is returned when a value violates a semantic constraint of the field.
	ErrInvalidValue errorutil.Error = "invalid header value"
	// ErrInvalidName is returned for a malformed field name.
	ErrInvalidName errorutil.Error = "invalid header name"
	// ErrFrozen is returned on an attempt to mutate a frozen header collection.
	ErrFrozen errorutil.Error = "headers are frozen"
	// ErrNotFound is returned by typed lookups when no field matches the key.
	ErrNotFound errorutil.Error = "header not found"
	// ErrKeyExists is returned when a key with the same name is already registered.
	ErrKeyExists errorutil.Error = "header key already registered"
)

var (
	// ErrWrongDirection is returned when a field or a referenced field is not valid in the message direction.
	ErrWrongDirection = errorutil.NewWrapperError(ErrInvalidValue, "wrong direction")
	// ErrWrongCategory is returned when a referenced field does not belong to an allowed category.
	ErrWrongCategory = errorutil.NewWrapperError(ErrInvalidValue, "wrong category")
	// ErrWrongVersion is returned when a field is not allowed in the protocol version.
	ErrWrongVersion = errorutil.NewWrapperError(ErrInvalidValue, "not allowed in protocol version")
)

func newInvalidValueErr(args ...any) error {
	return errorutil.NewWrapperError(ErrInvalidValue, args...) //errtrace:skip
}

func newMalformedValueErr(args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedValue, args...) //errtrace:skip
}
