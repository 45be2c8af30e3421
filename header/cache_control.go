package header

import (
	"strconv"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/util"
)

// Cache-Control directive names (RFC 9111 section 5.2 and RFC 5861, RFC 8246).
const (
	DirMaxAge               = "max-age"
	DirMaxStale             = "max-stale"
	DirMinFresh             = "min-fresh"
	DirNoCache              = "no-cache"
	DirNoStore              = "no-store"
	DirNoTransform          = "no-transform"
	DirOnlyIfCached         = "only-if-cached"
	DirMustRevalidate       = "must-revalidate"
	DirMustUnderstand       = "must-understand"
	DirProxyRevalidate      = "proxy-revalidate"
	DirPublic               = "public"
	DirPrivate              = "private"
	DirSMaxAge              = "s-maxage"
	DirImmutable            = "immutable"
	DirStaleWhileRevalidate = "stale-while-revalidate"
	DirStaleIfError         = "stale-if-error"
)

type dirArg uint8

const (
	argNone dirArg = iota
	argSeconds
	argOptSeconds
	argOptNames
)

var cacheDirectives = map[string]dirArg{
	DirMaxAge:               argSeconds,
	DirMaxStale:             argOptSeconds,
	DirMinFresh:             argSeconds,
	DirNoCache:              argOptNames,
	DirNoStore:              argNone,
	DirNoTransform:          argNone,
	DirOnlyIfCached:         argNone,
	DirMustRevalidate:       argNone,
	DirMustUnderstand:       argNone,
	DirProxyRevalidate:      argNone,
	DirPublic:               argNone,
	DirPrivate:              argOptNames,
	DirSMaxAge:              argSeconds,
	DirImmutable:            argNone,
	DirStaleWhileRevalidate: argSeconds,
	DirStaleIfError:         argSeconds,
}

// CacheDirectives is an ordered list of cache directives. Directive names are stored in lower case.
type CacheDirectives []Directive

// Has reports whether the directive is present.
func (cc CacheDirectives) Has(name string) bool {
	_, ok := cc.Get(name)
	return ok
}

// Get returns the first directive with the name.
func (cc CacheDirectives) Get(name string) (Directive, bool) {
	for _, d := range cc {
		if util.EqFold(d.Name, name) {
			return d, true
		}
	}
	return Directive{}, false
}

// Seconds returns the delta-seconds argument of the directive.
func (cc CacheDirectives) Seconds(name string) (time.Duration, bool) {
	d, ok := cc.Get(name)
	if !ok || !d.HasValue {
		return 0, false
	}
	n, err := strconv.ParseUint(d.Value, 10, 32)
	if err != nil {
		return 0, false
	}
	return time.Duration(n) * time.Second, true
}

// MaxAge returns the max-age directive argument.
func (cc CacheDirectives) MaxAge() (time.Duration, bool) { return cc.Seconds(DirMaxAge) }

// Cacheable reports whether the directives allow storing the response.
func (cc CacheDirectives) Cacheable() bool { return !cc.Has(DirNoStore) }

func (cc CacheDirectives) Clone() CacheDirectives { return append(CacheDirectives(nil), cc...) }

func parseCacheControl(v Version, s string) (CacheDirectives, error) {
	ds, err := parseDirectiveList(v, s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return CacheDirectives(ds), nil
}

func renderCacheControl(_ Version, cc CacheDirectives) string { return joinList(cc, Directive.String) }

func validateCacheControl(cc CacheDirectives) error {
	if err := validateDirectives(cc); err != nil {
		return errtrace.Wrap(err)
	}
	for _, d := range cc {
		arg, ok := cacheDirectives[d.Name]
		if !ok {
			return errtrace.Wrap(newInvalidValueErr("unknown directive %q", d.Name))
		}

		switch arg {
		case argNone:
			if d.HasValue {
				return errtrace.Wrap(newInvalidValueErr("directive %q takes no argument", d.Name))
			}
		case argSeconds, argOptSeconds:
			if !d.HasValue {
				if arg == argSeconds {
					return errtrace.Wrap(newInvalidValueErr("directive %q requires an argument", d.Name))
				}
				continue
			}
			if _, err := parseUint(d.Value); err != nil {
				return errtrace.Wrap(newInvalidValueErr("directive %q: %v", d.Name, err))
			}
		case argOptNames:
			if !d.HasValue {
				continue
			}
			names, err := parseList(d.Value, parseToken)
			if err != nil || len(names) == 0 {
				return errtrace.Wrap(newInvalidValueErr("directive %q: invalid field names %q", d.Name, d.Value))
			}
		}
	}
	return nil
}

func validatePragma(ds []Directive) error {
	if err := validateDirectives(ds); err != nil {
		return errtrace.Wrap(err)
	}
	for _, d := range ds {
		if d.Name == DirNoCache && d.HasValue {
			return errtrace.Wrap(newInvalidValueErr("directive %q takes no argument", d.Name))
		}
	}
	return nil
}
