// Package errorutil provides the error primitives shared by all packages of the module.
package errorutil

//go:generate go tool errtrace -w .

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ghettovoice/httphdr/internal/util"
)

// Error is a string type that implements the error interface.
// It is used to declare constant sentinel errors.
type Error string

func (s Error) Error() string { return string(s) }

// NewWrapperError creates or wraps an error with a sentinel error.
// It supports multiple argument patterns:
//   - No args: returns sentinel
//   - error arg: wraps with sentinel (unless already wrapped)
//   - string arg: formats as message with sentinel
//   - string + args: formats with Sprintf then wraps with sentinel
func NewWrapperError(sentinel error, args ...any) error {
	if len(args) == 0 {
		return sentinel //errtrace:skip
	}
	switch v := args[0].(type) {
	case error:
		if errors.Is(v, sentinel) {
			return v //errtrace:skip
		}
		return fmt.Errorf("%w: %w", sentinel, v) //errtrace:skip
	case string:
		if len(args) == 1 {
			return fmt.Errorf("%w: %s", sentinel, v) //errtrace:skip
		}
		return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(v, args[1:]...)) //errtrace:skip
	default:
		return sentinel //errtrace:skip
	}
}

// ErrInvalidArgument is an error returned when an invalid argument is provided.
const ErrInvalidArgument Error = "invalid argument"

// NewInvalidArgumentError creates a new error with [ErrInvalidArgument] or
// wraps provided error with [ErrInvalidArgument].
func NewInvalidArgumentError(args ...any) error {
	return NewWrapperError(ErrInvalidArgument, args...) //errtrace:skip
}

// Join joins errors into a single error, nil errors are skipped.
// A single error is returned as is.
func Join(errs ...error) error { return join("", errs) } //errtrace:skip

// JoinPrefix is like [Join] but labels the result with prefix, e.g. "parse fields:".
func JoinPrefix(prefix string, errs ...error) error { return join(prefix, errs) } //errtrace:skip

func join(prefix string, errs []error) error {
	errs = slices.DeleteFunc(slices.Clone(errs), func(err error) bool { return err == nil })
	switch {
	case len(errs) == 0:
		return nil
	case len(errs) > 1:
		return &multiError{prefix: prefix, errs: errs} //errtrace:skip
	case prefix == "":
		return errs[0] //errtrace:skip
	default:
		return fmt.Errorf("%s: %w", strings.TrimSuffix(prefix, ":"), errs[0]) //errtrace:skip
	}
}

// multiError renders as an indented list, nested lists indent further.
type multiError struct {
	prefix string
	errs   []error
}

func (e *multiError) Error() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	sb.WriteString(cmp.Or(e.prefix, "multiple errors"))
	for _, err := range e.errs {
		sb.WriteString("\n  - ")
		sb.WriteString(strings.ReplaceAll(err.Error(), "\n", "\n  "))
	}
	return sb.String()
}

func (e *multiError) Unwrap() []error { return e.errs }
