package header

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/types"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Header is a single field: an immutable pair of a key and a valid value.
type Header interface {
	Key() AnyKey
	Name() Name
	// AnyValue returns the typed value as any.
	AnyValue() any
	// RenderValue renders the field value without the name.
	RenderValue(opts *RenderOptions) string
	// RenderTo writes "Name: value" to w.
	RenderTo(w io.Writer, opts *RenderOptions) (int, error)
	Render(opts *RenderOptions) string
	// Equal reports whether val is a header with an equal key and an equal value.
	Equal(val any) bool
	// SameKey reports whether the header occupies the same slot as other, i.e. has the same name.
	SameKey(other Header) bool
	Clone() Header
	String() string
}

// Field is a typed [Header].
// Fields are created by [Key.New] or [Key.Parse], so every field holds a validated value.
type Field[T any] struct {
	key *Key[T]
	val T
}

func (f Field[T]) Key() AnyKey {
	if f.key == nil {
		return nil
	}
	return f.key
}

// TypedKey returns the typed key of the field.
func (f Field[T]) TypedKey() *Key[T] { return f.key }

func (f Field[T]) Name() Name {
	if f.key == nil {
		return ""
	}
	return f.key.name
}

// Value returns the typed field value.
func (f Field[T]) Value() T { return f.val }

func (f Field[T]) AnyValue() any { return f.val }

func (f Field[T]) IsValid() bool { return f.key != nil && f.key.Validate(f.val) == nil }

func (f Field[T]) RenderValue(opts *RenderOptions) string {
	if f.key == nil {
		return ""
	}
	return f.key.render(opts.version(), f.val)
}

func (f Field[T]) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if f.key == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Fprint(f.key.name, ": ", f.RenderValue(opts))
	return errtrace.Wrap2(cw.Result())
}

func (f Field[T]) Render(opts *RenderOptions) string {
	if f.key == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	f.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

func (f Field[T]) String() string { return f.RenderValue(nil) }

func (f Field[T]) Format(s fmt.State, verb rune) {
	switch verb {
	case 's':
		if s.Flag('+') {
			f.RenderTo(s, nil) //nolint:errcheck
			return
		}
		fmt.Fprint(s, f.String())
		return
	case 'q':
		if s.Flag('+') {
			fmt.Fprint(s, strconv.Quote(f.Render(nil)))
			return
		}
		fmt.Fprint(s, strconv.Quote(f.String()))
		return
	default:
		fmt.Fprintf(s, fmt.FormatString(s, verb), f.val)
		return
	}
}

func (f Field[T]) Equal(val any) bool {
	var other Field[T]
	switch v := val.(type) {
	case Field[T]:
		other = v
	case *Field[T]:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}

	if f.key == nil || other.key == nil {
		return f.key == nil && other.key == nil
	}
	return f.key.Equal(other.key) && types.IsEqual(f.val, other.val)
}

func (f Field[T]) SameKey(other Header) bool {
	if f.key == nil || other == nil {
		return false
	}
	return f.key.name.Equal(other.Name())
}

func (f Field[T]) Clone() Header {
	f.val = types.Clone(f.val)
	return f
}

type headerData struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(json.Marshal(headerData{Name: string(f.Name()), Value: f.String()}))
}

// ToJSON marshals the header as {"name": ..., "value": ...}.
func ToJSON(hdr Header) ([]byte, error) {
	var hd *headerData
	if hdr != nil {
		hd = &headerData{
			Name:  string(hdr.Name()),
			Value: hdr.RenderValue(nil),
		}
	}
	return errtrace.Wrap2(json.Marshal(hd))
}

var errNotHeaderJSON errorutil.Error = "not a header JSON"

// FromJSON parses a header marshaled by [ToJSON].
func FromJSON[T ~string | ~[]byte](data T) (Header, error) {
	var hd *headerData
	if err := json.Unmarshal([]byte(data), &hd); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if hd == nil {
		return nil, errtrace.Wrap(errNotHeaderJSON)
	}

	hdr, err := Parse(hd.Name, hd.Value)
	if err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("parse header %q: %w", hd.Name, err))
	}
	return hdr, nil
}
