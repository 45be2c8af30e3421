package header

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/util"
)

// boolKey builds a key mapping a fixed pair of tokens to a boolean.
func boolKey(name string, dir Direction, yes, no string) *Key[bool] {
	return MustKey(name, dir,
		func(_ Version, s string) (bool, error) {
			switch util.TrimOWS(s) {
			case yes:
				return true, nil
			case no:
				return false, nil
			case "":
				return false, errtrace.Wrap(ErrEmptyValue)
			default:
				return false, errtrace.Wrap(newMalformedValueErr("expected %q or %q, got %q", yes, no, s))
			}
		},
		func(_ Version, b bool) string {
			if b {
				return yes
			}
			return no
		},
		nil,
	)
}

func parseUint(s string) (uint64, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return 0, errtrace.Wrap(ErrEmptyValue)
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			if i == 0 && s[0] == '-' {
				if _, err := strconv.ParseInt(s, 10, 64); err == nil {
					return 0, errtrace.Wrap(newInvalidValueErr("negative value %s", s))
				}
			}
			return 0, errtrace.Wrap(newMalformedValueErr("%q is not a number", s))
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errtrace.Wrap(newMalformedValueErr(err))
	}
	return n, nil
}

// maxDeltaSeconds is the delta-seconds cap of RFC 9111 section 1.2.2.
const maxDeltaSeconds = 1 << 31

// durationKey builds a key holding a non-negative integer amount of unit.
// Amounts above capAt are replaced by capAt, zero capAt makes amounts
// that do not fit a [time.Duration] malformed.
func durationKey(name string, dir Direction, unit time.Duration, capAt uint64) *Key[time.Duration] {
	return MustKey(name, dir,
		func(_ Version, s string) (time.Duration, error) {
			n, err := parseUint(s)
			if err != nil {
				return 0, errtrace.Wrap(err)
			}
			if capAt > 0 && n > capAt {
				n = capAt
			}
			if n > uint64(math.MaxInt64/unit) {
				return 0, errtrace.Wrap(newMalformedValueErr("%d is out of range", n))
			}
			return time.Duration(n) * unit, nil
		},
		func(_ Version, d time.Duration) string { return strconv.FormatInt(int64(d/unit), 10) },
		func(d time.Duration) error {
			if d < 0 {
				return errtrace.Wrap(newInvalidValueErr("negative duration %s", d))
			}
			if d%unit != 0 {
				return errtrace.Wrap(newInvalidValueErr("duration %s is not a multiple of %s", d, unit))
			}
			return nil
		},
	)
}

func uintKey(name string, dir Direction, opts ...KeyOption) *Key[uint64] {
	return MustKey(name, dir,
		func(_ Version, s string) (uint64, error) { return errtrace.Wrap2(parseUint(s)) },
		func(_ Version, n uint64) string { return strconv.FormatUint(n, 10) },
		nil,
		opts...,
	)
}

// checkDecimal matches s against ["-"] 1*DIGIT [ "." 1*DIGIT ].
// A leading minus is a validation error, anything else outside the grammar is malformed.
func checkDecimal(s string) error {
	digits := strings.TrimPrefix(s, "-")
	intPart, frac, hasDot := strings.Cut(digits, ".")
	if !isDigits(intPart) || hasDot && !isDigits(frac) {
		return errtrace.Wrap(newMalformedValueErr("%q is not a decimal number", s))
	}
	if len(digits) != len(s) {
		return errtrace.Wrap(newInvalidValueErr("negative value %s", s))
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// floatKey builds a key holding a non-negative finite decimal number.
func floatKey(name string, dir Direction) *Key[float64] {
	return MustKey(name, dir,
		func(_ Version, s string) (float64, error) {
			s = util.TrimOWS(s)
			if s == "" {
				return 0, errtrace.Wrap(ErrEmptyValue)
			}
			if err := checkDecimal(s); err != nil {
				return 0, errtrace.Wrap(err)
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return 0, errtrace.Wrap(newMalformedValueErr(err))
			}
			return f, nil
		},
		func(_ Version, f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },
		func(f float64) error {
			if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
				return errtrace.Wrap(newInvalidValueErr("%v is out of range", f))
			}
			return nil
		},
	)
}

// enumKey builds a key accepting one of the tokens, compared case-insensitively.
// The registered spelling is used on render.
func enumKey[T ~string](name string, dir Direction, vals ...T) *Key[T] {
	return MustKey(name, dir,
		func(_ Version, s string) (T, error) {
			s = util.TrimOWS(s)
			if s == "" {
				return "", errtrace.Wrap(ErrEmptyValue)
			}
			for _, v := range vals {
				if util.EqFold(s, v) {
					return v, nil
				}
			}
			return T(s), nil
		},
		func(_ Version, v T) string { return string(v) },
		func(v T) error {
			if !slices.Contains(vals, v) {
				return errtrace.Wrap(newInvalidValueErr("unexpected value %q", string(v)))
			}
			return nil
		},
	)
}
