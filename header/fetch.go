package header

import (
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// FetchSite is a value of the Sec-Fetch-Site field.
type FetchSite string

const (
	SiteCrossSite  FetchSite = "cross-site"
	SiteSameOrigin FetchSite = "same-origin"
	SiteSameSite   FetchSite = "same-site"
	SiteNone       FetchSite = "none"
)

// FetchMode is a value of the Sec-Fetch-Mode field.
type FetchMode string

const (
	ModeCORS       FetchMode = "cors"
	ModeNavigate   FetchMode = "navigate"
	ModeNoCORS     FetchMode = "no-cors"
	ModeSameOrigin FetchMode = "same-origin"
	ModeWebSocket  FetchMode = "websocket"
)

// FetchDest is a value of the Sec-Fetch-Dest field.
type FetchDest string

var fetchDests = []FetchDest{
	"audio", "audioworklet", "document", "embed", "empty", "fencedframe", "font", "frame",
	"iframe", "image", "json", "manifest", "object", "paintworklet", "report", "script",
	"serviceworker", "sharedworker", "style", "track", "video", "webidentity", "worker", "xslt",
}

// EffectiveConnType is a value of the ECT client hint.
type EffectiveConnType string

const (
	ECTSlow2G EffectiveConnType = "slow-2g"
	ECT2G     EffectiveConnType = "2g"
	ECT3G     EffectiveConnType = "3g"
	ECT4G     EffectiveConnType = "4g"
)

// Expectation is a value of the Expect field.
type Expectation string

const Continue Expectation = "100-continue"

// Brand is an entry of the Sec-CH-UA brand list.
type Brand struct {
	Brand   string
	Version string
}

func (b Brand) String() string {
	s := grammar.Quote(b.Brand)
	if b.Version != "" {
		s += ";v=" + grammar.Quote(b.Version)
	}
	return s
}

func parseBrands(_ Version, s string) ([]Brand, error) {
	elems, err := grammar.ParseElements(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	bs := make([]Brand, 0, len(elems))
	for _, e := range elems {
		if !grammar.IsQuoted(e.Value) {
			return nil, errtrace.Wrap(newMalformedValueErr("brand %s must be quoted", e.Value))
		}
		b := Brand{Brand: grammar.Unquote(e.Value)}
		for _, p := range e.Params {
			if p.Name != "v" || !p.Quoted {
				return nil, errtrace.Wrap(newMalformedValueErr("unexpected brand parameter %q", p.Name))
			}
			b.Version = p.Value
		}
		bs = append(bs, b)
	}
	return bs, nil
}

func renderBrands(_ Version, bs []Brand) string { return joinList(bs, Brand.String) }

func validateBrands(bs []Brand) error {
	if err := validateNonEmpty(bs); err != nil {
		return errtrace.Wrap(err)
	}
	for _, b := range bs {
		if b.Brand == "" {
			return errtrace.Wrap(newInvalidValueErr("empty brand"))
		}
	}
	return nil
}

// parseSFString parses a structured field string, e.g. "\"Windows\"".
func parseSFString(_ Version, s string) (string, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return "", errtrace.Wrap(ErrEmptyValue)
	}
	if !grammar.IsQuoted(s) {
		return "", errtrace.Wrap(newMalformedValueErr("%s is not a string", s))
	}
	return grammar.Unquote(s), nil
}

func renderSFString(_ Version, s string) string { return grammar.Quote(s) }

func validateSFString(s string) error {
	for i := range len(s) {
		if s[i] < 0x20 || s[i] > 0x7e {
			return errtrace.Wrap(newInvalidValueErr("invalid character %q", s[i]))
		}
	}
	return nil
}

// Product is a product identifier or a comment of User-Agent and Server fields (RFC 9110 section 10.1.5).
// Comments have an empty Name.
type Product struct {
	Name    string
	Version string
	Comment string
}

func (p Product) String() string {
	if p.Name == "" {
		return "(" + p.Comment + ")"
	}
	if p.Version == "" {
		return p.Name
	}
	return p.Name + "/" + p.Version
}

// readComment reads a possibly nested comment at s[0] == '(' and returns its content and length.
func readComment(s string) (string, int, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], i + 1, true
			}
		}
	}
	return "", 0, false
}

func parseProducts(_ Version, s string) ([]Product, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return nil, errtrace.Wrap(ErrEmptyValue)
	}

	var ps []Product
	for s != "" {
		if s[0] == '(' {
			c, n, ok := readComment(s)
			if !ok {
				return nil, errtrace.Wrap(newMalformedValueErr("unterminated comment %q", s))
			}
			ps = append(ps, Product{Comment: c})
			s = util.TrimOWS(s[n:])
			continue
		}

		end := strings.IndexAny(s, " \t(")
		if end < 0 {
			end = len(s)
		}
		name, ver, _ := strings.Cut(s[:end], "/")
		if !grammar.IsToken(name) || ver != "" && !grammar.IsToken(ver) {
			return nil, errtrace.Wrap(newMalformedValueErr("invalid product %q", s[:end]))
		}
		ps = append(ps, Product{Name: name, Version: ver})
		s = util.TrimOWS(s[end:])
	}
	if ps[0].Name == "" {
		return nil, errtrace.Wrap(newMalformedValueErr("first entry must be a product"))
	}
	return ps, nil
}

func renderProducts(_ Version, ps []Product) string {
	ss := make([]string, len(ps))
	for i, p := range ps {
		ss[i] = p.String()
	}
	return strings.Join(ss, " ")
}

func validateProducts(ps []Product) error {
	if err := validateNonEmpty(ps); err != nil {
		return errtrace.Wrap(err)
	}
	if ps[0].Name == "" {
		return errtrace.Wrap(newInvalidValueErr("first entry must be a product"))
	}
	for _, p := range ps {
		if p.Name == "" {
			if _, n, ok := readComment(p.String()); !ok || n != len(p.Comment)+2 {
				return errtrace.Wrap(newInvalidValueErr("unbalanced comment %q", p.Comment))
			}
			continue
		}
		if !grammar.IsToken(p.Name) || p.Version != "" && !grammar.IsToken(p.Version) {
			return errtrace.Wrap(newInvalidValueErr("invalid product %q", p.String()))
		}
	}
	return nil
}
