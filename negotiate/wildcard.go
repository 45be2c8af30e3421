// Package negotiate provides the content negotiation wrappers used by Accept-like fields.
package negotiate

//go:generate go tool errtrace -w .

import (
	"fmt"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/types"
)

// ErrWildcardAny is returned when a concrete value is requested from the "*" wildcard.
const ErrWildcardAny errorutil.Error = "wildcard matches anything"

// Wildcard is either "*" (match anything) or a concrete value.
// The zero value is the "*" wildcard.
type Wildcard[T any] struct {
	val T
	set bool
}

// Any returns the "*" wildcard.
func Any[T any]() Wildcard[T] { return Wildcard[T]{} }

// Of returns a wildcard holding v.
func Of[T any](v T) Wildcard[T] { return Wildcard[T]{val: v, set: true} }

func (w Wildcard[T]) IsAny() bool { return !w.set }

// Value returns the concrete value or [ErrWildcardAny].
func (w Wildcard[T]) Value() (T, error) {
	if !w.set {
		var zero T
		return zero, ErrWildcardAny //errtrace:skip
	}
	return w.val, nil
}

// MustValue is like [Wildcard.Value] but panics on "*".
func (w Wildcard[T]) MustValue() T {
	if !w.set {
		panic(ErrWildcardAny)
	}
	return w.val
}

// Equal reports whether both wildcards are "*" or both hold equal values.
func (w Wildcard[T]) Equal(val any) bool {
	var other Wildcard[T]
	switch v := val.(type) {
	case Wildcard[T]:
		other = v
	case *Wildcard[T]:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}

	if w.set != other.set {
		return false
	}
	return !w.set || types.IsEqual(w.val, other.val)
}

// Clone returns a deep copy when T is cloneable.
func (w Wildcard[T]) Clone() Wildcard[T] {
	if w.set {
		w.val = types.Clone(w.val)
	}
	return w
}

func (w Wildcard[T]) String() string {
	if !w.set {
		return "*"
	}
	return fmt.Sprint(w.val)
}
