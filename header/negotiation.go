package header

import (
	"mime"
	"strings"

	"braces.dev/errtrace"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/language"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/types"
	"github.com/ghettovoice/httphdr/internal/util"
	"github.com/ghettovoice/httphdr/negotiate"
)

// Values represents field value parameters as a multi-value map.
type Values = types.Values

// MediaType is a media type or a media range with parameters, e.g. "text/html;charset=utf-8" or "text/*".
// Type, subtype and parameter names are stored in lower case.
type MediaType struct {
	Type    string
	Subtype string
	Params  Values
}

// ParseMediaType parses a media type with parameters.
func ParseMediaType(s string) (MediaType, error) {
	mt, params, err := mime.ParseMediaType(s)
	if err != nil {
		if util.TrimOWS(s) == "" {
			return MediaType{}, errtrace.Wrap(ErrEmptyValue)
		}
		return MediaType{}, errtrace.Wrap(newMalformedValueErr(err))
	}

	typ, sub, ok := strings.Cut(mt, "/")
	if !ok {
		return MediaType{}, errtrace.Wrap(newMalformedValueErr("missing subtype in %q", s))
	}
	r := MediaType{Type: typ, Subtype: sub}
	if len(params) > 0 {
		r.Params = make(Values, len(params))
		for k, v := range params {
			r.Params.Set(k, v)
		}
	}
	return r, nil
}

func mediaTypeFromElement(e grammar.Element) (MediaType, error) {
	typ, sub, ok := strings.Cut(e.Value, "/")
	if !ok || !grammar.IsToken(typ) || !grammar.IsToken(sub) {
		return MediaType{}, errtrace.Wrap(newMalformedValueErr("invalid media range %q", e.Value))
	}

	r := MediaType{Type: util.LCase(typ), Subtype: util.LCase(sub)}
	for _, p := range e.Params {
		if r.Params == nil {
			r.Params = make(Values, len(e.Params))
		}
		r.Params.Append(p.Name, p.Value)
	}
	return r, nil
}

// IsRange reports whether the media type contains a wildcard.
func (r MediaType) IsRange() bool { return r.Type == "*" || r.Subtype == "*" }

// Match reports whether the range r matches the media type mt.
// Parameters of r must be present in mt.
func (r MediaType) Match(mt MediaType) bool {
	if r.Type != "*" && !util.EqFold(r.Type, mt.Type) {
		return false
	}
	if r.Subtype != "*" && !util.EqFold(r.Subtype, mt.Subtype) {
		return false
	}
	for k, vs := range r.Params {
		v, ok := mt.Params.Last(k)
		if !ok || len(vs) == 0 || !util.EqFold(vs[len(vs)-1], v) {
			return false
		}
	}
	return true
}

func (r MediaType) validate() error {
	if !grammar.IsToken(r.Type) || !grammar.IsToken(r.Subtype) {
		return errtrace.Wrap(newInvalidValueErr("invalid media type %q", r.Type+"/"+r.Subtype))
	}
	if r.Type == "*" && r.Subtype != "*" {
		return errtrace.Wrap(newInvalidValueErr("invalid media range %q", r.Type+"/"+r.Subtype))
	}
	for _, k := range r.Params.Keys() {
		if !grammar.IsToken(k) {
			return errtrace.Wrap(newInvalidValueErr("invalid parameter name %q", k))
		}
	}
	return nil
}

func (r MediaType) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	sb.WriteString(r.Type)
	sb.WriteByte('/')
	sb.WriteString(r.Subtype)
	renderParams(sb, r.Params)
	return sb.String()
}

func renderParams(sb *strings.Builder, params Values) {
	for _, k := range params.Keys() {
		for _, v := range params.Get(k) {
			sb.WriteByte(';')
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(grammar.QuoteIfNeeded(v))
		}
	}
}

func (r MediaType) Equal(val any) bool {
	var other MediaType
	switch v := val.(type) {
	case MediaType:
		other = v
	case *MediaType:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(r.Type, other.Type) &&
		util.EqFold(r.Subtype, other.Subtype) &&
		(len(r.Params) == 0 && len(other.Params) == 0 || r.Params.Equal(other.Params))
}

func (r MediaType) Clone() MediaType {
	r.Params = r.Params.Clone()
	return r
}

// Charset is a character set name, stored in lower case.
type Charset string

// Encoding returns the text encoding registered in IANA index for the charset.
func (c Charset) Encoding() (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(string(c))
	if err != nil {
		return nil, errtrace.Wrap(newInvalidValueErr(err))
	}
	if enc == nil {
		return nil, errtrace.Wrap(newInvalidValueErr("charset %q is not supported", string(c)))
	}
	return enc, nil
}

func (c Charset) String() string { return string(c) }

// Coding is a content or transfer coding name, stored in lower case.
type Coding string

const (
	CodingIdentity Coding = "identity"
	CodingGZip     Coding = "gzip"
	CodingDeflate  Coding = "deflate"
	CodingCompress Coding = "compress"
	CodingChunked  Coding = "chunked"
	CodingBrotli   Coding = "br"
	CodingZstd     Coding = "zstd"
	// CodingTrailers is the TE token announcing trailer support.
	CodingTrailers Coding = "trailers"
)

// Canonic maps legacy aliases like "x-gzip" to the registered coding name.
func (c Coding) Canonic() Coding {
	switch c {
	case "x-gzip":
		return CodingGZip
	case "x-compress":
		return CodingCompress
	default:
		return c
	}
}

func (c Coding) String() string { return string(c) }

// LanguageRange is a basic language range (RFC 4647 section 2.1), e.g. "en-US" or "*".
type LanguageRange string

func parseLanguageRange(s string) (LanguageRange, error) {
	if s == "*" {
		return "*", nil
	}
	for i, part := range strings.Split(s, "-") {
		if len(part) == 0 || len(part) > 8 {
			return "", errtrace.Wrap(newMalformedValueErr("invalid language range %q", s))
		}
		for j := range len(part) {
			if c := part[j]; !isAlpha(c) && (i == 0 || c < '0' || c > '9') {
				return "", errtrace.Wrap(newMalformedValueErr("invalid language range %q", s))
			}
		}
	}
	return LanguageRange(s), nil
}

func (r LanguageRange) IsAny() bool { return r == "*" }

// Tag converts the range to a BCP 47 tag.
func (r LanguageRange) Tag() (language.Tag, error) {
	if r.IsAny() {
		return language.Und, errtrace.Wrap(negotiate.ErrWildcardAny)
	}
	t, err := language.Parse(string(r))
	if err != nil {
		return language.Und, errtrace.Wrap(newInvalidValueErr(err))
	}
	return t, nil
}

// Match reports whether the range matches the tag by basic filtering (RFC 4647 section 3.3.1).
func (r LanguageRange) Match(tag string) bool {
	if r.IsAny() {
		return true
	}
	return util.EqFold(string(r), tag) ||
		len(tag) > len(r) && tag[len(r)] == '-' && util.HasPrefixFold(tag, string(r))
}

func (r LanguageRange) String() string { return string(r) }

// parseWeighted parses a list of elements with an optional "q" parameter.
// Parameters following "q" are extension parameters and are dropped.
func parseWeighted[T any](s string, conv func(grammar.Element) (T, error)) ([]negotiate.Weight[T], error) {
	elems, err := grammar.ParseElements(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	ws := make([]negotiate.Weight[T], 0, len(elems))
	for _, e := range elems {
		var (
			q    float64
			hasQ bool
		)
		for i, p := range e.Params {
			if !util.EqFold(p.Name, "q") {
				continue
			}
			if q, err = negotiate.ParseQ(p.Value); err != nil {
				return nil, errtrace.Wrap(newMalformedValueErr(err))
			}
			hasQ = true
			e.Params = e.Params[:i]
			break
		}

		v, err := conv(e)
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		if hasQ {
			ws = append(ws, negotiate.Weighted(v, q))
		} else {
			ws = append(ws, negotiate.Unweighted(v))
		}
	}
	return ws, nil
}

func parseWeightedWildcard[T any](
	s string,
	conv func(grammar.Element) (T, error),
) (negotiate.Wildcard[[]negotiate.Weight[T]], error) {
	if util.TrimOWS(s) == "*" {
		return negotiate.Any[[]negotiate.Weight[T]](), nil
	}
	ws, err := parseWeighted(s, conv)
	if err != nil {
		return negotiate.Wildcard[[]negotiate.Weight[T]]{}, errtrace.Wrap(err)
	}
	return negotiate.Of(ws), nil
}

func bareElement[T any](conv func(string) (T, error)) func(grammar.Element) (T, error) {
	return func(e grammar.Element) (T, error) {
		if len(e.Params) > 0 {
			var zero T
			return zero, errtrace.Wrap(newMalformedValueErr("unexpected parameters of %q", e.Value))
		}
		return errtrace.Wrap2(conv(e.Value))
	}
}

func validateWeights[T any](check func(T) error) ValidateFunc[[]negotiate.Weight[T]] {
	return func(ws []negotiate.Weight[T]) error {
		if len(ws) == 0 {
			return errtrace.Wrap(newInvalidValueErr("empty list"))
		}
		for _, w := range ws {
			if q, ok := w.Q(); ok && (q < 0 || q > 1) {
				return errtrace.Wrap(newInvalidValueErr("weight %v is out of range", q))
			}
			if check != nil {
				if err := check(w.Value()); err != nil {
					return errtrace.Wrap(err)
				}
			}
		}
		return nil
	}
}

func validateWeightedWildcard[T any](check func(T) error) ValidateFunc[negotiate.Wildcard[[]negotiate.Weight[T]]] {
	vw := validateWeights(check)
	return func(w negotiate.Wildcard[[]negotiate.Weight[T]]) error {
		ws, err := w.Value()
		if err != nil {
			return nil
		}
		return errtrace.Wrap(vw(ws))
	}
}

func renderWeights[T any](_ Version, ws []negotiate.Weight[T]) string {
	return joinList(ws, negotiate.Weight[T].String)
}

func renderWeightedWildcard[T any](v Version, w negotiate.Wildcard[[]negotiate.Weight[T]]) string {
	ws, err := w.Value()
	if err != nil {
		return "*"
	}
	return renderWeights(v, ws)
}

func validateToken[T ~string](v T) error {
	if !grammar.IsToken(v) {
		return errtrace.Wrap(newInvalidValueErr("%q is not a token", string(v)))
	}
	return nil
}

func validateLanguageRange(r LanguageRange) error {
	if _, err := parseLanguageRange(string(r)); err != nil {
		return errtrace.Wrap(newInvalidValueErr(err))
	}
	return nil
}

func parseTE(v Version, s string) ([]negotiate.Weight[Coding], error) {
	ws, err := parseWeighted(s, bareElement(parseLowerToken[Coding]))
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if v.IsMultiplexed() {
		for _, w := range ws {
			if w.Value() != CodingTrailers {
				return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrWrongVersion, "TE: %s in %s", w.Value(), v))
			}
		}
	}
	return ws, nil
}

func validateTECoding(c Coding) error {
	if c == "*" || c == CodingChunked {
		return errtrace.Wrap(newInvalidValueErr("%q is not allowed in TE", string(c)))
	}
	return errtrace.Wrap(validateToken(c))
}
