package category

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Set is a bit set of categories.
type Set uint32

// Of builds a set from the given categories.
func Of(cs ...Category) Set {
	var s Set
	for _, c := range cs {
		s |= Set(c)
	}
	return s
}

// Has reports whether the set contains c.
func (s Set) Has(c Category) bool { return s&Set(c) != 0 }

// HasAny reports whether the sets intersect.
func (s Set) HasAny(o Set) bool { return s&o != 0 }

func (s Set) IsEmpty() bool { return s == 0 }

// Categories returns set members in declaration order.
func (s Set) Categories() []Category {
	var cs []Category
	for _, c := range All() {
		if s.Has(c) {
			cs = append(cs, c)
		}
	}
	return cs
}

// String renders the set as "A|B", or "NONE" for the empty set.
func (s Set) String() string {
	if s == 0 {
		return "NONE"
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	for i, c := range s.Categories() {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

// MarshalText implements [encoding.TextMarshaler].
func (s Set) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Set) UnmarshalText(b []byte) error {
	var res Set
	str := string(b)
	if str != "" && str != "NONE" {
		for part := range strings.SplitSeq(str, "|") {
			c, ok := Parse(part)
			if !ok {
				return errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown category %q", part))
			}
			res |= Set(c)
		}
	}
	*s = res
	return nil
}
