package header

import (
	"fmt"
	"strings"

	"braces.dev/errtrace"
	"golang.org/x/net/http/httpguts"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
	"github.com/ghettovoice/httphdr/negotiate"
)

// parseList parses a comma-separated list of bare elements and converts each with conv.
func parseList[T any](s string, conv func(string) (T, error)) ([]T, error) {
	elems, err := grammar.ParseElements(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	vals := make([]T, 0, len(elems))
	for _, e := range elems {
		if len(e.Params) > 0 {
			return nil, errtrace.Wrap(newMalformedValueErr("unexpected parameters of %q", e.Value))
		}
		v, err := conv(e.Value)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// parseWildcardList is like parseList, but a sole "*" produces the wildcard.
func parseWildcardList[T any](s string, conv func(string) (T, error)) (negotiate.Wildcard[[]T], error) {
	if util.TrimOWS(s) == "*" {
		return negotiate.Any[[]T](), nil
	}
	vals, err := parseList(s, conv)
	if err != nil {
		return negotiate.Wildcard[[]T]{}, errtrace.Wrap(err)
	}
	return negotiate.Of(vals), nil
}

func joinList[T any](vals []T, str func(T) string) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	for i, v := range vals {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(str(v))
	}
	return sb.String()
}

func renderList[T fmt.Stringer](_ Version, vals []T) string { return joinList(vals, T.String) }

func renderWildcardList[T fmt.Stringer](v Version, w negotiate.Wildcard[[]T]) string {
	vals, err := w.Value()
	if err != nil {
		return "*"
	}
	return renderList(v, vals)
}

func validateNonEmpty[T any](vals []T) error {
	if len(vals) == 0 {
		return errtrace.Wrap(newInvalidValueErr("empty list"))
	}
	return nil
}

// validateWildcardList checks every element of a non-wildcard list with check.
func validateWildcardList[T any](check func([]T) error) ValidateFunc[negotiate.Wildcard[[]T]] {
	return func(w negotiate.Wildcard[[]T]) error {
		vals, err := w.Value()
		if err != nil {
			return nil
		}
		return errtrace.Wrap(check(vals))
	}
}

func parseToken(s string) (string, error) {
	if !grammar.IsToken(s) {
		return "", errtrace.Wrap(newMalformedValueErr("%q is not a token", s))
	}
	return s, nil
}

func validateTokens(vals []string) error {
	if err := validateNonEmpty(vals); err != nil {
		return errtrace.Wrap(err)
	}
	for _, v := range vals {
		if !grammar.IsToken(v) {
			return errtrace.Wrap(newInvalidValueErr("%q is not a token", v))
		}
	}
	return nil
}

func renderTokens(_ Version, vals []string) string { return strings.Join(vals, ", ") }

func validateFieldValue(s string) error {
	if s == "" {
		return errtrace.Wrap(newInvalidValueErr("empty value"))
	}
	if !httpguts.ValidHeaderFieldValue(s) {
		return errtrace.Wrap(newInvalidValueErr("invalid field value %q", s))
	}
	return nil
}

// lowerToken is a case-insensitive token, stored in lower case.
type lowerToken interface{ ~string }

func parseLowerToken[T lowerToken](s string) (T, error) {
	if !grammar.IsToken(s) {
		return "", errtrace.Wrap(newMalformedValueErr("%q is not a token", s))
	}
	return T(util.LCase(s)), nil
}
