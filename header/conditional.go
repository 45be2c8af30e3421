package header

import (
	"net/http"
	"strings"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// EntityTag is an opaque validator of a representation (RFC 9110 section 8.8.3).
type EntityTag struct {
	Weak bool
	// Tag is the opaque value without quotes.
	Tag string
}

// StrongTag returns a strong entity tag.
func StrongTag(tag string) EntityTag { return EntityTag{Tag: tag} }

// WeakTag returns a weak entity tag.
func WeakTag(tag string) EntityTag { return EntityTag{Weak: true, Tag: tag} }

// ParseEntityTag parses a quoted entity tag optionally prefixed with "W/".
func ParseEntityTag(s string) (EntityTag, error) {
	weak, tag, err := grammar.ParseEntityTag(s)
	if err != nil {
		return EntityTag{}, errtrace.Wrap(err)
	}
	return EntityTag{Weak: weak, Tag: tag}, nil
}

func (t EntityTag) String() string {
	if t.Weak {
		return `W/"` + t.Tag + `"`
	}
	return `"` + t.Tag + `"`
}

// StrongMatch compares tags using the strong comparison function.
func (t EntityTag) StrongMatch(o EntityTag) bool { return !t.Weak && !o.Weak && t.Tag == o.Tag }

// WeakMatch compares tags using the weak comparison function.
func (t EntityTag) WeakMatch(o EntityTag) bool { return t.Tag == o.Tag }

func (t EntityTag) validate() error {
	for i := range len(t.Tag) {
		if c := t.Tag[i]; c == '"' || c < 0x21 || c == 0x7f {
			return errtrace.Wrap(newInvalidValueErr("invalid entity tag character %q", c))
		}
	}
	return nil
}

func parseETag(_ Version, s string) (EntityTag, error) { return errtrace.Wrap2(ParseEntityTag(s)) }

func renderETag(_ Version, t EntityTag) string { return t.String() }

func validateETag(t EntityTag) error { return errtrace.Wrap(t.validate()) }

func validateETags(ts []EntityTag) error {
	if err := validateNonEmpty(ts); err != nil {
		return errtrace.Wrap(err)
	}
	for _, t := range ts {
		if err := t.validate(); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}

// RangeValidator is either a strong entity tag or a date.
type RangeValidator struct {
	ETag EntityTag
	Date time.Time
}

// IsDate reports whether the validator is a date.
func (r RangeValidator) IsDate() bool { return !r.Date.IsZero() }

func (r RangeValidator) String() string {
	if r.IsDate() {
		return r.Date.UTC().Format(http.TimeFormat)
	}
	return r.ETag.String()
}

func (r RangeValidator) Equal(val any) bool {
	other, ok := val.(RangeValidator)
	if !ok {
		return false
	}
	return r.ETag == other.ETag && r.Date.Equal(other.Date)
}

func parseIfRange(_ Version, s string) (RangeValidator, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return RangeValidator{}, errtrace.Wrap(ErrEmptyValue)
	}
	if strings.HasSuffix(s, `"`) {
		t, err := ParseEntityTag(s)
		if err != nil {
			return RangeValidator{}, errtrace.Wrap(err)
		}
		return RangeValidator{ETag: t}, nil
	}
	d, err := parseHTTPDate(s)
	if err != nil {
		return RangeValidator{}, errtrace.Wrap(err)
	}
	return RangeValidator{Date: d}, nil
}

func validateIfRange(r RangeValidator) error {
	if r.IsDate() {
		return nil
	}
	if r.ETag.Weak {
		return errtrace.Wrap(newInvalidValueErr("weak entity tag %s", r.ETag))
	}
	return errtrace.Wrap(r.ETag.validate())
}
