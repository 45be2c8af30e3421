package header

import (
	"fmt"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
)

// Parse parses a field value of the named field as HTTP/1.1.
//
// Example usage:
//
//	hdr, err := header.Parse("Accept-Encoding", "gzip;q=1.0, identity; q=0.5, *;q=0")
func Parse[T ~string](name T, value string) (Header, error) {
	return errtrace.Wrap2(ParseVersioned(HTTP11, name, value))
}

// ParseVersioned parses a field value of the named field for the protocol version.
func ParseVersioned[T ~string](v Version, name T, value string) (Header, error) {
	k, err := Lookup(name)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(k.ParseHeader(v, value))
}

// ParseLine parses a single "Name: value" line.
func ParseLine[T ~string | ~[]byte](s T) (Header, error) {
	name, value, err := splitLine(string(s))
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(Parse(name, value))
}

// typed returns the value of hdr as T.
// A field stored under another key type, e.g. before a custom key was registered,
// is re-parsed through k.
func typed[T any](k *Key[T], hdr Header) (T, error) {
	if f, ok := hdr.(Field[T]); ok {
		return f.val, nil
	}
	if v, ok := hdr.AnyValue().(T); ok {
		return v, nil
	}

	v, err := k.ParseValue(HTTP11, hdr.RenderValue(nil))
	if err != nil {
		return v, errtrace.Wrap(fmt.Errorf("convert %s to %T: %w", hdr.Name(), v, err))
	}
	return v, nil
}

// Get returns values of all fields of the key in insertion order.
func Get[T any](hs Headers, k *Key[T]) ([]T, error) {
	hdrs := hs.Get(k.Name())
	if len(hdrs) == 0 {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrNotFound, "%s", k.Name()))
	}

	vals := make([]T, 0, len(hdrs))
	for _, hdr := range hdrs {
		v, err := typed(k, hdr)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// First returns the value of the first field of the key.
func First[T any](hs Headers, k *Key[T]) (T, error) {
	hdr, ok := hs.First(k.Name())
	if !ok {
		var zero T
		return zero, errtrace.Wrap(errorutil.NewWrapperError(ErrNotFound, "%s", k.Name()))
	}
	return errtrace.Wrap2(typed(k, hdr))
}

// Last returns the value of the last field of the key.
func Last[T any](hs Headers, k *Key[T]) (T, error) {
	hdr, ok := hs.Last(k.Name())
	if !ok {
		var zero T
		return zero, errtrace.Wrap(errorutil.NewWrapperError(ErrNotFound, "%s", k.Name()))
	}
	return errtrace.Wrap2(typed(k, hdr))
}
