package header

import (
	"slices"
	"strings"

	"braces.dev/errtrace"
	"golang.org/x/text/language"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Method is a request method. Methods are case-sensitive.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

func (m Method) String() string { return string(m) }

func parseMethod(s string) (Method, error) {
	t, err := parseToken(s)
	return Method(t), errtrace.Wrap(err)
}

func validateMethods(ms []Method) error {
	for _, m := range ms {
		if err := validateToken(m); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}

func validateCodings(cs []Coding) error {
	if err := validateNonEmpty(cs); err != nil {
		return errtrace.Wrap(err)
	}
	for _, c := range cs {
		if err := validateToken(c); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}

// validateTransferCodings additionally requires chunked to be applied last and only once (RFC 9112 section 6.1).
func validateTransferCodings(cs []Coding) error {
	if err := validateCodings(cs); err != nil {
		return errtrace.Wrap(err)
	}
	if i := slices.Index(cs, CodingChunked); i >= 0 && i != len(cs)-1 {
		return errtrace.Wrap(newInvalidValueErr("chunked must be the final transfer coding"))
	}
	return nil
}

func parseLanguageTag(s string) (language.Tag, error) {
	t, err := language.Parse(s)
	if err != nil {
		return language.Und, errtrace.Wrap(newMalformedValueErr(err))
	}
	return t, nil
}

func renderLanguageTags(_ Version, ts []language.Tag) string { return joinList(ts, language.Tag.String) }

// Protocol is an upgrade protocol, e.g. "HTTP/2.0" or "websocket".
type Protocol struct {
	Name    string
	Version string
}

func parseProtocol(s string) (Protocol, error) {
	name, ver, hasVer := strings.Cut(s, "/")
	if !grammar.IsToken(name) || hasVer && !grammar.IsToken(ver) {
		return Protocol{}, errtrace.Wrap(newMalformedValueErr("invalid protocol %q", s))
	}
	return Protocol{Name: name, Version: ver}, nil
}

func (p Protocol) String() string {
	if p.Version == "" {
		return p.Name
	}
	return p.Name + "/" + p.Version
}

func validateProtocols(ps []Protocol) error {
	if err := validateNonEmpty(ps); err != nil {
		return errtrace.Wrap(err)
	}
	for _, p := range ps {
		if !grammar.IsToken(p.Name) || p.Version != "" && !grammar.IsToken(p.Version) {
			return errtrace.Wrap(newInvalidValueErr("invalid protocol %q", p.String()))
		}
	}
	return nil
}

// ReferrerPolicyToken is a referrer policy token.
type ReferrerPolicyToken string

const (
	ReferrerNoReferrer                  ReferrerPolicyToken = "no-referrer"
	ReferrerNoReferrerWhenDowngrade     ReferrerPolicyToken = "no-referrer-when-downgrade"
	ReferrerOrigin                      ReferrerPolicyToken = "origin"
	ReferrerOriginWhenCrossOrigin       ReferrerPolicyToken = "origin-when-cross-origin"
	ReferrerSameOrigin                  ReferrerPolicyToken = "same-origin"
	ReferrerStrictOrigin                ReferrerPolicyToken = "strict-origin"
	ReferrerStrictOriginWhenCrossOrigin ReferrerPolicyToken = "strict-origin-when-cross-origin"
	ReferrerUnsafeURL                   ReferrerPolicyToken = "unsafe-url"
)

var referrerPolicies = []ReferrerPolicyToken{
	ReferrerNoReferrer,
	ReferrerNoReferrerWhenDowngrade,
	ReferrerOrigin,
	ReferrerOriginWhenCrossOrigin,
	ReferrerSameOrigin,
	ReferrerStrictOrigin,
	ReferrerStrictOriginWhenCrossOrigin,
	ReferrerUnsafeURL,
}

func (p ReferrerPolicyToken) String() string { return string(p) }

func validateReferrerPolicies(ps []ReferrerPolicyToken) error {
	if err := validateNonEmpty(ps); err != nil {
		return errtrace.Wrap(err)
	}
	for _, p := range ps {
		if !slices.Contains(referrerPolicies, p) {
			return errtrace.Wrap(newInvalidValueErr("unknown referrer policy %q", string(p)))
		}
	}
	return nil
}

// EffectivePolicy returns the policy in force: the last one in the list.
func EffectivePolicy(ps []ReferrerPolicyToken) ReferrerPolicyToken {
	if len(ps) == 0 {
		return ReferrerStrictOriginWhenCrossOrigin
	}
	return ps[len(ps)-1]
}

var clearSiteDataTypes = []string{"cache", "cookies", "storage", "executionContexts", "clientHints", "*"}

func parseClearSiteData(_ Version, s string) ([]string, error) {
	return errtrace.Wrap2(parseList(s, func(v string) (string, error) {
		if !grammar.IsQuoted(v) {
			return "", errtrace.Wrap(newMalformedValueErr("%s must be quoted", v))
		}
		return grammar.Unquote(v), nil
	}))
}

func renderClearSiteData(_ Version, vals []string) string { return joinList(vals, grammar.Quote) }

func validateClearSiteData(vals []string) error {
	if err := validateNonEmpty(vals); err != nil {
		return errtrace.Wrap(err)
	}
	for _, v := range vals {
		if !slices.Contains(clearSiteDataTypes, v) {
			return errtrace.Wrap(newInvalidValueErr("unknown data type %q", v))
		}
	}
	return nil
}

// Directive is a name with an optional argument, as in Cache-Control or Pragma.
type Directive struct {
	Name     string
	Value    string
	HasValue bool
}

func (d Directive) String() string {
	if !d.HasValue {
		return d.Name
	}
	return d.Name + "=" + grammar.QuoteIfNeeded(d.Value)
}

func parseDirectiveList(_ Version, s string) ([]Directive, error) {
	grps, err := grammar.ParseDirectives(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	ds := make([]Directive, 0, len(grps))
	for _, grp := range grps {
		if len(grp) != 1 {
			return nil, errtrace.Wrap(newMalformedValueErr("unexpected \";\" after %q", grp[0].Name))
		}
		ds = append(ds, Directive{Name: util.LCase(grp[0].Name), Value: grp[0].Value, HasValue: grp[0].HasValue})
	}
	return ds, nil
}

func validateDirectives(ds []Directive) error {
	if err := validateNonEmpty(ds); err != nil {
		return errtrace.Wrap(err)
	}
	for _, d := range ds {
		if !grammar.IsToken(d.Name) {
			return errtrace.Wrap(newInvalidValueErr("invalid directive name %q", d.Name))
		}
	}
	return nil
}

// ViaEntry is a single intermediary record of the Via field (RFC 9110 section 7.6.3).
type ViaEntry struct {
	// Protocol name is omitted for HTTP.
	Protocol   Protocol
	ReceivedBy string
	Comment    string
}

func (e ViaEntry) String() string {
	s := e.Protocol.Version
	if e.Protocol.Name != "" {
		s = e.Protocol.String()
	}
	s += " " + e.ReceivedBy
	if e.Comment != "" {
		s += " (" + e.Comment + ")"
	}
	return s
}

func parseVia(_ Version, s string) ([]ViaEntry, error) {
	parts, err := splitOutsideComments(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	entries := make([]ViaEntry, 0, len(parts))
	for _, part := range parts {
		var e ViaEntry
		rest := part
		if i := strings.IndexByte(part, '('); i >= 0 {
			e.Comment = strings.TrimSuffix(part[i+1:], ")")
			rest = util.TrimOWS(part[:i])
		}

		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return nil, errtrace.Wrap(newMalformedValueErr("invalid via entry %q", part))
		}
		proto, ver, ok := strings.Cut(fields[0], "/")
		if !ok {
			proto, ver = "", fields[0]
		}
		e.Protocol = Protocol{Name: proto, Version: ver}
		e.ReceivedBy = fields[1]
		entries = append(entries, e)
	}
	return entries, nil
}

func validateVia(es []ViaEntry) error {
	if err := validateNonEmpty(es); err != nil {
		return errtrace.Wrap(err)
	}
	for _, e := range es {
		if !grammar.IsToken(e.Protocol.Version) || e.Protocol.Name != "" && !grammar.IsToken(e.Protocol.Name) {
			return errtrace.Wrap(newInvalidValueErr("invalid protocol %q", e.Protocol.String()))
		}
		if e.ReceivedBy == "" || strings.ContainsAny(e.ReceivedBy, " \t,") {
			return errtrace.Wrap(newInvalidValueErr("invalid received-by %q", e.ReceivedBy))
		}
		if strings.ContainsAny(e.Comment, "()") {
			return errtrace.Wrap(newInvalidValueErr("nested comment %q", e.Comment))
		}
	}
	return nil
}

// splitOutsideComments splits a list on commas that are not inside comments or quoted strings.
func splitOutsideComments(s string) ([]string, error) {
	var (
		parts  []string
		depth  int
		quoted bool
		start  int
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quoted && c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				return nil, errtrace.Wrap(newMalformedValueErr("unbalanced comment in %q", s))
			}
			depth--
		case c == ',' && depth == 0:
			if p := util.TrimOWS(s[start:i]); p != "" {
				parts = append(parts, p)
			}
			start = i + 1
		}
	}
	if depth != 0 || quoted {
		return nil, errtrace.Wrap(newMalformedValueErr("unterminated comment or quoted string in %q", s))
	}
	if p := util.TrimOWS(s[start:]); p != "" {
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		if util.TrimOWS(s) == "" {
			return nil, errtrace.Wrap(ErrEmptyValue)
		}
		return nil, errtrace.Wrap(newMalformedValueErr("empty list %q", s))
	}
	return parts, nil
}
