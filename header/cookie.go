package header

import (
	"net/http"
	"slices"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// CookiePair is a single name/value pair of the Cookie field (RFC 6265 section 4.2).
type CookiePair struct {
	Name  string
	Value string
	// Quoted preserves DQUOTEs around the value.
	Quoted bool
}

func (c CookiePair) String() string {
	if c.Quoted {
		return c.Name + `="` + c.Value + `"`
	}
	return c.Name + "=" + c.Value
}

func isCookieOctet(c byte) bool {
	return c == 0x21 || 0x23 <= c && c <= 0x2b || 0x2d <= c && c <= 0x3a || 0x3c <= c && c <= 0x5b || 0x5d <= c && c <= 0x7e
}

func (c CookiePair) validate() error {
	if !grammar.IsToken(c.Name) {
		return errtrace.Wrap(newInvalidValueErr("invalid cookie name %q", c.Name))
	}
	for i := range len(c.Value) {
		if !isCookieOctet(c.Value[i]) {
			return errtrace.Wrap(newInvalidValueErr("invalid character %q in cookie %q", c.Value[i], c.Name))
		}
	}
	return nil
}

// Cookies is an ordered list of request cookies.
type Cookies []CookiePair

// Get returns the value of the first cookie with the name. Cookie names are case-sensitive.
func (cj Cookies) Get(name string) (string, bool) {
	i := slices.IndexFunc(cj, func(c CookiePair) bool { return c.Name == name })
	if i < 0 {
		return "", false
	}
	return cj[i].Value, true
}

func (cj Cookies) Clone() Cookies { return slices.Clone(cj) }

func parseCookie(_ Version, s string) (Cookies, error) {
	pairs, err := grammar.ParseCookies(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	cj := make(Cookies, 0, len(pairs))
	for _, p := range pairs {
		cj = append(cj, CookiePair{Name: p.Name, Value: p.Value, Quoted: p.Quoted})
	}
	return cj, nil
}

func renderCookie(_ Version, cj Cookies) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	for i, c := range cj {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

func validateCookie(cj Cookies) error {
	if err := validateNonEmpty(cj); err != nil {
		return errtrace.Wrap(err)
	}
	for _, c := range cj {
		if err := c.validate(); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}

// ResponseCookie is a value of the Set-Cookie field. Two values are equal when their serializations are equal.
type ResponseCookie struct {
	http.Cookie
}

// ParseSetCookie parses a Set-Cookie field value.
func ParseSetCookie(s string) (ResponseCookie, error) {
	if util.TrimOWS(s) == "" {
		return ResponseCookie{}, errtrace.Wrap(ErrEmptyValue)
	}
	c, err := http.ParseSetCookie(s)
	if err != nil {
		return ResponseCookie{}, errtrace.Wrap(newMalformedValueErr(err))
	}
	c.Raw = ""
	return ResponseCookie{Cookie: *c}, nil
}

func (c ResponseCookie) String() string { return c.Cookie.String() }

func (c ResponseCookie) Equal(val any) bool {
	switch other := val.(type) {
	case ResponseCookie:
		return c.String() == other.String()
	case *ResponseCookie:
		return other != nil && c.String() == other.String()
	default:
		return false
	}
}

func (c ResponseCookie) Clone() ResponseCookie {
	c.Unparsed = slices.Clone(c.Unparsed)
	return c
}

func parseSetCookie(_ Version, s string) (ResponseCookie, error) { return errtrace.Wrap2(ParseSetCookie(s)) }

func renderSetCookie(_ Version, c ResponseCookie) string { return c.String() }

func validateSetCookie(c ResponseCookie) error {
	if err := c.Valid(); err != nil {
		return errtrace.Wrap(newInvalidValueErr(err))
	}
	if strings.TrimSpace(c.String()) == "" {
		return errtrace.Wrap(newInvalidValueErr("empty cookie"))
	}
	return nil
}
