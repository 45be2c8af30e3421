// Package types contains common contracts shared by header values.
package types

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// Equalable is implemented by values that define their own equality.
type Equalable interface {
	Equal(val any) bool
}

// Cloneable is implemented by values that can produce an independent copy.
type Cloneable[T any] interface {
	Clone() T
}

var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// IsEqual reports whether two values are equal.
// Values implementing [Equalable] are compared with their Equal method,
// everything else is compared structurally with go-cmp, which also honors
// Equal methods of nested values (e.g. time.Time).
func IsEqual(v1, v2 any) bool {
	if e, ok := v1.(Equalable); ok {
		return e.Equal(v2)
	}
	return cmp.Equal(v1, v2, exportAll)
}

// Clone clones the value if it has method `Clone() T`, otherwise returns v as is.
func Clone[T any](v T) T {
	if c, ok := any(v).(Cloneable[T]); ok {
		return c.Clone()
	}
	return v
}
