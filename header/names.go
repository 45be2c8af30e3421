package header

import (
	"maps"
	"math"
	"strconv"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/category"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
	"github.com/ghettovoice/httphdr/negotiate"
)

func parseKeyName(s string) (AnyKey, error) {
	k, err := Lookup(s)
	if err != nil {
		return nil, errtrace.Wrap(newMalformedValueErr(err))
	}
	return k, nil
}

func keyName(k AnyKey) string { return string(k.Name()) }

func parseKeys(_ Version, s string) ([]AnyKey, error) {
	return errtrace.Wrap2(parseList(s, parseKeyName))
}

func parseWildcardKeys(_ Version, s string) (negotiate.Wildcard[[]AnyKey], error) {
	return errtrace.Wrap2(parseWildcardList(s, parseKeyName))
}

func renderKeys(_ Version, keys []AnyKey) string { return joinList(keys, keyName) }

func renderWildcardKeys(v Version, w negotiate.Wildcard[[]AnyKey]) string {
	keys, err := w.Value()
	if err != nil {
		return "*"
	}
	return renderKeys(v, keys)
}

// checkKeys builds a validator of a non-empty key list applying check to every key.
func checkKeys(check func(AnyKey) error) func([]AnyKey) error {
	return func(keys []AnyKey) error {
		if err := validateNonEmpty(keys); err != nil {
			return errtrace.Wrap(err)
		}
		for _, k := range keys {
			if k == nil {
				return errtrace.Wrap(newInvalidValueErr("nil key"))
			}
			if check == nil {
				continue
			}
			if err := check(k); err != nil {
				return errtrace.Wrap(err)
			}
		}
		return nil
	}
}

func capableOf(d Direction) func(AnyKey) error {
	return func(k AnyKey) error {
		if !k.Direction().Allows(d) {
			return errtrace.Wrap(errorutil.NewWrapperError(ErrWrongDirection, "%s is not a %s field", k.Name(), d))
		}
		return nil
	}
}

var trailerCategories = category.Of(
	category.Content,
	category.Routing,
	category.Control,
	category.Conditional,
	category.Authentication,
)

// AllowedInTrailer checks that fields of the key may be listed in Trailer and sent in a trailer section.
func AllowedInTrailer(k AnyKey) error {
	if k.Categories().HasAny(trailerCategories) || util.EqFold(k.Name(), "Trailer") {
		return nil
	}
	return errtrace.Wrap(errorutil.NewWrapperError(ErrWrongCategory,
		"%s (%s) is not allowed in Trailer", k.Name(), k.Categories()))
}

func isClientHint(k AnyKey) error {
	if !k.Is(category.ClientHint) {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrWrongCategory, "%s is not a client hint", k.Name()))
	}
	return nil
}

func wildcardKeys(check func(AnyKey) error) ValidateFunc[negotiate.Wildcard[[]AnyKey]] {
	return validateWildcardList(checkKeys(check))
}

// ConnectionType is the connection persistence option.
type ConnectionType string

const (
	ConnectionClose     ConnectionType = "close"
	ConnectionKeepAlive ConnectionType = "keep-alive"
)

// ConnectionOptions is the value of the Connection field (RFC 9110 section 7.6.1).
type ConnectionOptions struct {
	Type ConnectionType
	// Options are the fields to be removed by the next hop.
	Options []AnyKey
}

func parseConnection(v Version, s string) (ConnectionOptions, error) {
	toks, err := parseList(s, parseToken)
	if err != nil {
		return ConnectionOptions{}, errtrace.Wrap(err)
	}

	var c ConnectionOptions
	for _, tok := range toks {
		switch ct := ConnectionType(util.LCase(tok)); ct {
		case ConnectionClose, ConnectionKeepAlive:
			if c.Type != "" && c.Type != ct {
				return ConnectionOptions{}, errtrace.Wrap(newMalformedValueErr("conflicting options %q and %q", c.Type, ct))
			}
			c.Type = ct
		default:
			k, err := parseKeyName(tok)
			if err != nil {
				return ConnectionOptions{}, errtrace.Wrap(err)
			}
			c.Options = append(c.Options, k)
		}
	}
	if c.Type == "" {
		if v == HTTP10 {
			c.Type = ConnectionClose
		} else {
			c.Type = ConnectionKeepAlive
		}
	}
	return c, nil
}

func renderConnection(_ Version, c ConnectionOptions) string {
	if len(c.Options) == 0 {
		return string(c.Type)
	}
	return string(c.Type) + ", " + joinList(c.Options, keyName)
}

func validateConnection(c ConnectionOptions) error {
	if c.Type != ConnectionClose && c.Type != ConnectionKeepAlive {
		return errtrace.Wrap(newInvalidValueErr("unexpected connection type %q", c.Type))
	}
	for _, k := range c.Options {
		if k == nil {
			return errtrace.Wrap(newInvalidValueErr("nil option"))
		}
	}
	return nil
}

// Has reports whether the connection options name the field.
func (c ConnectionOptions) Has(name Name) bool {
	for _, k := range c.Options {
		if k.Name().Equal(name) {
			return true
		}
	}
	return false
}

func (c ConnectionOptions) optionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Options))
	for _, k := range c.Options {
		set[k.Name().Lower()] = struct{}{}
	}
	return set
}

// Equal compares connection types and option sets ignoring order and repeated options.
func (c ConnectionOptions) Equal(val any) bool {
	other, ok := val.(ConnectionOptions)
	if !ok || c.Type != other.Type {
		return false
	}
	return maps.Equal(c.optionSet(), other.optionSet())
}

// KeepAliveParams is the value of the Keep-Alive field (RFC 2068 section 19.7.1.1).
// A parameter is present when its Has flag is set or its value is not zero,
// parsing sets the flags so "timeout=0" survives a round trip.
type KeepAliveParams struct {
	Timeout    time.Duration
	Max        uint64
	HasTimeout bool
	HasMax     bool
}

// maxKeepAliveTimeout is the largest timeout in whole seconds a [time.Duration] holds.
const maxKeepAliveTimeout = math.MaxInt64 / int64(time.Second)

func parseKeepAlive(_ Version, s string) (KeepAliveParams, error) {
	grps, err := grammar.ParseDirectives(s)
	if err != nil {
		return KeepAliveParams{}, errtrace.Wrap(err)
	}

	var ka KeepAliveParams
	for _, grp := range grps {
		for _, d := range grp {
			n, err := parseUint(d.Value)
			if err != nil {
				return KeepAliveParams{}, errtrace.Wrap(newMalformedValueErr("%s: %v", d.Name, err))
			}
			switch util.LCase(d.Name) {
			case "timeout":
				if n > uint64(maxKeepAliveTimeout) {
					return KeepAliveParams{}, errtrace.Wrap(newMalformedValueErr("timeout %d is out of range", n))
				}
				ka.Timeout, ka.HasTimeout = time.Duration(n)*time.Second, true
			case "max":
				ka.Max, ka.HasMax = n, true
			default:
				return KeepAliveParams{}, errtrace.Wrap(newMalformedValueErr("unknown parameter %q", d.Name))
			}
		}
	}
	return ka, nil
}

func (ka KeepAliveParams) timeoutSet() bool { return ka.HasTimeout || ka.Timeout != 0 }

func (ka KeepAliveParams) maxSet() bool { return ka.HasMax || ka.Max != 0 }

// Equal compares present parameters.
func (ka KeepAliveParams) Equal(val any) bool {
	other, ok := val.(KeepAliveParams)
	return ok &&
		ka.timeoutSet() == other.timeoutSet() && ka.Timeout == other.Timeout &&
		ka.maxSet() == other.maxSet() && ka.Max == other.Max
}

func renderKeepAlive(_ Version, ka KeepAliveParams) string {
	var parts []string
	if ka.timeoutSet() {
		parts = append(parts, "timeout="+strconv.FormatInt(int64(ka.Timeout/time.Second), 10))
	}
	if ka.maxSet() {
		parts = append(parts, "max="+strconv.FormatUint(ka.Max, 10))
	}
	return joinList(parts, func(s string) string { return s })
}

func validateKeepAlive(ka KeepAliveParams) error {
	if ka.Timeout < 0 || ka.Timeout%time.Second != 0 {
		return errtrace.Wrap(newInvalidValueErr("invalid timeout %s", ka.Timeout))
	}
	if !ka.timeoutSet() && !ka.maxSet() {
		return errtrace.Wrap(newInvalidValueErr("no parameters"))
	}
	return nil
}
