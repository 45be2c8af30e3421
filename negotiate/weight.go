package negotiate

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/types"
	"github.com/ghettovoice/httphdr/internal/util"
)

// ErrInvalidQ is returned for a malformed quality value.
const ErrInvalidQ errorutil.Error = "invalid quality value"

// Weight is a value with an optional preference factor ("q" parameter).
type Weight[T any] struct {
	val  T
	q    float64
	hasQ bool
}

// Weighted returns v with the preference factor q.
func Weighted[T any](v T, q float64) Weight[T] { return Weight[T]{val: v, q: q, hasQ: true} }

// Unweighted returns v without an explicit preference factor.
func Unweighted[T any](v T) Weight[T] { return Weight[T]{val: v} }

func (w Weight[T]) Value() T { return w.val }

// Q returns the explicit preference factor, if any.
func (w Weight[T]) Q() (float64, bool) { return w.q, w.hasQ }

// Factor returns the effective preference factor, 1 when not set.
func (w Weight[T]) Factor() float64 {
	if !w.hasQ {
		return 1
	}
	return w.q
}

func (w Weight[T]) Equal(val any) bool {
	var other Weight[T]
	switch v := val.(type) {
	case Weight[T]:
		other = v
	case *Weight[T]:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return w.hasQ == other.hasQ && w.q == other.q && types.IsEqual(w.val, other.val)
}

// String renders the weight as "value" or "value;q=factor".
func (w Weight[T]) String() string {
	if !w.hasQ {
		return fmt.Sprint(w.val)
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	fmt.Fprint(sb, w.val)
	sb.WriteString(";q=")
	sb.WriteString(FormatQ(w.q))
	return sb.String()
}

// FormatQ renders a quality value with at most three decimals.
func FormatQ(q float64) string { return strconv.FormatFloat(q, 'f', -1, 64) }

// ParseQ parses a quality value, RFC 9110 section 12.4.2:
//
//	qvalue = ( "0" [ "." 0*3DIGIT ] ) / ( "1" [ "." 0*3("0") ] )
func ParseQ(s string) (float64, error) {
	if len(s) == 0 || len(s) > 5 || (s[0] != '0' && s[0] != '1') {
		return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidQ, "%q", s))
	}
	if len(s) > 1 {
		if s[1] != '.' {
			return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidQ, "%q", s))
		}
		for i := 2; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' || (s[0] == '1' && s[i] != '0') {
				return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidQ, "%q", s))
			}
		}
	}

	q, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidQ, err))
	}
	return q, nil
}

// Sort orders weights by descending factor, keeping the original order of equal factors.
func Sort[T any](ws []Weight[T]) {
	slices.SortStableFunc(ws, func(a, b Weight[T]) int {
		return cmp.Compare(b.Factor(), a.Factor())
	})
}

// Accepts reports whether offer matches any preference with a non-zero factor.
// An explicit zero factor on the most specific match rejects the offer.
func Accepts[T any](prefs []Weight[T], offer T, match func(pref, offer T) bool) bool {
	_, ok := factorOf(prefs, offer, match)
	return ok
}

func factorOf[T any](prefs []Weight[T], offer T, match func(pref, offer T) bool) (float64, bool) {
	for _, p := range prefs {
		if match(p.val, offer) {
			f := p.Factor()
			return f, f > 0
		}
	}
	return 0, false
}

// Best picks the offer with the highest preference factor.
// Preferences are consulted in the given order, so callers put the most specific ones first.
// Ties keep the order of offers.
func Best[T any](prefs []Weight[T], offers []T, match func(pref, offer T) bool) (T, bool) {
	var (
		best  T
		bestQ float64
		found bool
	)
	for _, o := range offers {
		if q, ok := factorOf(prefs, o, match); ok && (!found || q > bestQ) {
			best, bestQ, found = o, q, true
		}
	}
	return best, found
}

// BestOf is like [Best] for wildcard preference lists. "*" accepts the first offer.
func BestOf[T any](prefs Wildcard[[]Weight[T]], offers []T, match func(pref, offer T) bool) (T, bool) {
	ws, err := prefs.Value()
	if err != nil {
		if len(offers) == 0 {
			var zero T
			return zero, false
		}
		return offers[0], true
	}
	return Best(ws, offers, match)
}
