package header

import (
	"fmt"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/category"
	"github.com/ghettovoice/httphdr/internal/errorutil"
)

// ParseFunc parses a raw field value.
type ParseFunc[T any] func(v Version, s string) (T, error)

// RenderFunc renders a field value to its wire form.
type RenderFunc[T any] func(v Version, val T) string

// ValidateFunc checks semantic constraints of a field value.
type ValidateFunc[T any] func(val T) error

// AnyKey is the untyped view of a [Key].
type AnyKey interface {
	Name() Name
	Direction() Direction
	Categories() category.Set
	Is(c category.Category) bool
	// ParseHeader parses s into a [Header] of this key.
	ParseHeader(v Version, s string) (Header, error)
	// CheckVersion reports whether the field may appear in a message of the protocol version.
	CheckVersion(v Version) error
	Equal(val any) bool
	String() string
}

// Key describes a field: its name, the message direction it is valid on, categories and value contract.
// Keys are immutable and safe for concurrent use. Two keys are equal when their names are equal ignoring case.
type Key[T any] struct {
	name     Name
	dir      Direction
	cats     category.Set
	connOnly bool
	parse    ParseFunc[T]
	render   RenderFunc[T]
	validate ValidateFunc[T]
}

// KeyOption configures a [Key] built by [NewKey].
type KeyOption func(*keyOpts)

type keyOpts struct {
	connOnly bool
}

// ConnectionSpecific marks the field as connection-specific, such fields are rejected in HTTP/2 and HTTP/3.
func ConnectionSpecific() KeyOption {
	return func(o *keyOpts) { o.connOnly = true }
}

// NewKey creates a new key. Categories are derived from the name.
// A nil validate function accepts any value.
func NewKey[T any](
	name string,
	dir Direction,
	parse ParseFunc[T],
	render RenderFunc[T],
	validate ValidateFunc[T],
	opts ...KeyOption,
) (*Key[T], error) {
	n := CanonicName(name)
	if !n.IsValid() {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidName, "%q", name))
	}
	if dir&Both == 0 {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("key %q has no direction", n))
	}
	if parse == nil || render == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("key %q requires parse and render functions", n))
	}

	var o keyOpts
	for _, fn := range opts {
		fn(&o)
	}
	return &Key[T]{
		name:     n,
		dir:      dir,
		cats:     category.Classify(string(n)),
		connOnly: o.connOnly,
		parse:    parse,
		render:   render,
		validate: validate,
	}, nil
}

// MustKey is like [NewKey] but panics on error.
func MustKey[T any](
	name string,
	dir Direction,
	parse ParseFunc[T],
	render RenderFunc[T],
	validate ValidateFunc[T],
	opts ...KeyOption,
) *Key[T] {
	k, err := NewKey(name, dir, parse, render, validate, opts...)
	if err != nil {
		panic(err)
	}
	return k
}

func (k *Key[T]) Name() Name { return k.name }

func (k *Key[T]) Direction() Direction { return k.dir }

func (k *Key[T]) Categories() category.Set { return k.cats }

func (k *Key[T]) Is(c category.Category) bool { return k.cats.Has(c) }

func (k *Key[T]) CheckVersion(v Version) error {
	if k.connOnly && v.IsMultiplexed() {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrWrongVersion, "%s in %s", k.name, v))
	}
	return nil
}

// Validate checks semantic constraints of val.
func (k *Key[T]) Validate(val T) error {
	if k.validate == nil {
		return nil
	}
	if err := k.validate(val); err != nil {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidValue, fmt.Errorf("%s: %w", k.name, err)))
	}
	return nil
}

// ParseValue parses and validates a raw field value.
func (k *Key[T]) ParseValue(v Version, s string) (T, error) {
	var zero T
	if err := k.CheckVersion(v); err != nil {
		return zero, errtrace.Wrap(err)
	}

	val, err := k.parse(v, s)
	if err != nil {
		return zero, errtrace.Wrap(fmt.Errorf("parse %s: %w", k.name, err))
	}
	if err := k.Validate(val); err != nil {
		return zero, errtrace.Wrap(err)
	}
	return val, nil
}

// Parse parses a raw field value into a field of this key.
func (k *Key[T]) Parse(v Version, s string) (Field[T], error) {
	val, err := k.ParseValue(v, s)
	if err != nil {
		return Field[T]{}, errtrace.Wrap(err)
	}
	return Field[T]{key: k, val: val}, nil
}

func (k *Key[T]) ParseHeader(v Version, s string) (Header, error) {
	f, err := k.Parse(v, s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return f, nil
}

// New validates val and wraps it into a field.
func (k *Key[T]) New(val T) (Field[T], error) {
	if err := k.Validate(val); err != nil {
		return Field[T]{}, errtrace.Wrap(err)
	}
	return Field[T]{key: k, val: val}, nil
}

// MustNew is like [Key.New] but panics on error.
func (k *Key[T]) MustNew(val T) Field[T] {
	f, err := k.New(val)
	if err != nil {
		panic(err)
	}
	return f
}

// Render renders val to the wire form.
func (k *Key[T]) Render(v Version, val T) string { return k.render(v, val) }

// Serialize renders the value of the field.
func (k *Key[T]) Serialize(v Version, f Field[T]) string { return k.render(v, f.val) }

func (k *Key[T]) Equal(val any) bool {
	other, ok := val.(AnyKey)
	if !ok || other == nil {
		return false
	}
	return k.name.Equal(other.Name())
}

func (k *Key[T]) String() string { return string(k.name) }

func (k *Key[T]) Format(f fmt.State, verb rune) {
	switch verb {
	case 's', 'v':
		fmt.Fprint(f, string(k.name))
	case 'q':
		fmt.Fprintf(f, "%q", string(k.name))
	default:
		fmt.Fprintf(f, fmt.FormatString(f, verb), string(k.name))
	}
}
