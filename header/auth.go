package header

import (
	"encoding/base64"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// AuthParam is a name/value parameter of a challenge or credentials.
type AuthParam struct {
	// Name is stored in lower case.
	Name  string
	Value string
	// Quoted forces quoting of a token value on render.
	Quoted bool
}

func (p AuthParam) String() string {
	if p.Quoted || !grammar.IsToken(p.Value) {
		return p.Name + "=" + grammar.Quote(p.Value)
	}
	return p.Name + "=" + p.Value
}

// AuthValue is an authentication challenge or credentials (RFC 9110 section 11).
// It carries either Token68 or Params.
type AuthValue struct {
	Scheme  string
	Token68 string
	Params  []AuthParam
}

// Param returns the value of the named parameter.
func (a AuthValue) Param(name string) (string, bool) {
	for _, p := range a.Params {
		if util.EqFold(p.Name, name) {
			return p.Value, true
		}
	}
	return "", false
}

// Realm returns the "realm" parameter.
func (a AuthValue) Realm() string {
	r, _ := a.Param("realm")
	return r
}

// BasicAuth returns the user name and password of Basic credentials (RFC 7617).
func (a AuthValue) BasicAuth() (user, pass string, ok bool) {
	if !util.EqFold(a.Scheme, "Basic") || a.Token68 == "" {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(a.Token68)
	if err != nil {
		return "", "", false
	}
	return strings.Cut(string(raw), ":")
}

// BasicCredentials builds Basic credentials.
func BasicCredentials(user, pass string) AuthValue {
	return AuthValue{Scheme: "Basic", Token68: base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))}
}

func (a AuthValue) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	sb.WriteString(a.Scheme)
	if a.Token68 != "" {
		sb.WriteByte(' ')
		sb.WriteString(a.Token68)
		return sb.String()
	}
	for i, p := range a.Params {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	return sb.String()
}

func (a AuthValue) Clone() AuthValue {
	a.Params = append([]AuthParam(nil), a.Params...)
	return a
}

func isToken68Char(c byte) bool {
	return isAlpha(c) || '0' <= c && c <= '9' || strings.IndexByte("-._~+/", c) >= 0
}

func (a AuthValue) validate() error {
	if !grammar.IsToken(a.Scheme) {
		return errtrace.Wrap(newInvalidValueErr("invalid auth scheme %q", a.Scheme))
	}
	if a.Token68 != "" {
		if len(a.Params) > 0 {
			return errtrace.Wrap(newInvalidValueErr("both token68 and parameters are set"))
		}
		t := strings.TrimRight(a.Token68, "=")
		if t == "" {
			return errtrace.Wrap(newInvalidValueErr("invalid token68 %q", a.Token68))
		}
		for i := range len(t) {
			if !isToken68Char(t[i]) {
				return errtrace.Wrap(newInvalidValueErr("invalid token68 %q", a.Token68))
			}
		}
	}
	for _, p := range a.Params {
		if !grammar.IsToken(p.Name) {
			return errtrace.Wrap(newInvalidValueErr("invalid parameter name %q", p.Name))
		}
	}
	return nil
}

// authScanner reads a list of challenges (RFC 9110 section 11.6.1).
// The list is ambiguous on commas, a new challenge starts with a token not followed by "=".
type authScanner struct {
	s   string
	pos int
}

func (sc *authScanner) skipOWS() {
	for sc.pos < len(sc.s) && (sc.s[sc.pos] == ' ' || sc.s[sc.pos] == '\t') {
		sc.pos++
	}
}

func (sc *authScanner) skipListSep() {
	for {
		sc.skipOWS()
		if sc.pos >= len(sc.s) || sc.s[sc.pos] != ',' {
			return
		}
		sc.pos++
	}
}

func (sc *authScanner) eof() bool { return sc.pos >= len(sc.s) }

func (sc *authScanner) token() string {
	start := sc.pos
	for sc.pos < len(sc.s) && grammar.IsTokenChar(sc.s[sc.pos]) {
		sc.pos++
	}
	return sc.s[start:sc.pos]
}

// quoted reads a quoted-string starting at the current position and returns it unquoted.
func (sc *authScanner) quoted() (string, bool) {
	start := sc.pos
	sc.pos++
	for sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case '\\':
			sc.pos += 2
		case '"':
			sc.pos++
			return grammar.Unquote(sc.s[start:sc.pos]), true
		default:
			sc.pos++
		}
	}
	return "", false
}

// paramAhead reports whether an auth-param starts at the current position.
func (sc *authScanner) paramAhead() bool {
	save := sc.pos
	defer func() { sc.pos = save }()

	if sc.token() == "" {
		return false
	}
	sc.skipOWS()
	return !sc.eof() && sc.s[sc.pos] == '=' && !sc.token68Ahead(save)
}

// token68Ahead reports whether the text from pos is a token68 terminated by the end of the list element.
func (sc *authScanner) token68Ahead(pos int) bool {
	i := pos
	for i < len(sc.s) && isToken68Char(sc.s[i]) {
		i++
	}
	if i == pos {
		return false
	}
	for i < len(sc.s) && sc.s[i] == '=' {
		i++
	}
	for i < len(sc.s) && (sc.s[i] == ' ' || sc.s[i] == '\t') {
		i++
	}
	return i == len(sc.s) || sc.s[i] == ','
}

func (sc *authScanner) next() (AuthValue, error) {
	a := AuthValue{Scheme: sc.token()}
	if a.Scheme == "" {
		return AuthValue{}, errtrace.Wrap(newMalformedValueErr("expected auth scheme at %q", sc.s[sc.pos:]))
	}
	if sc.eof() || sc.s[sc.pos] == ',' {
		return a, nil
	}
	if sc.s[sc.pos] != ' ' {
		return AuthValue{}, errtrace.Wrap(newMalformedValueErr("unexpected %q after auth scheme", sc.s[sc.pos:]))
	}
	sc.skipOWS()

	if sc.token68Ahead(sc.pos) {
		start := sc.pos
		for sc.pos < len(sc.s) && sc.s[sc.pos] != ',' && sc.s[sc.pos] != ' ' && sc.s[sc.pos] != '\t' {
			sc.pos++
		}
		a.Token68 = sc.s[start:sc.pos]
		sc.skipOWS()
		return a, nil
	}

	for {
		name := sc.token()
		if name == "" {
			return AuthValue{}, errtrace.Wrap(newMalformedValueErr("expected auth parameter at %q", sc.s[sc.pos:]))
		}
		sc.skipOWS()
		if sc.eof() || sc.s[sc.pos] != '=' {
			return AuthValue{}, errtrace.Wrap(newMalformedValueErr("missing \"=\" after %q", name))
		}
		sc.pos++
		sc.skipOWS()

		p := AuthParam{Name: util.LCase(name)}
		if !sc.eof() && sc.s[sc.pos] == '"' {
			v, ok := sc.quoted()
			if !ok {
				return AuthValue{}, errtrace.Wrap(newMalformedValueErr("unterminated quoted string"))
			}
			p.Value, p.Quoted = v, true
		} else if p.Value = sc.token(); p.Value == "" {
			return AuthValue{}, errtrace.Wrap(newMalformedValueErr("missing value of %q", name))
		}
		a.Params = append(a.Params, p)

		sc.skipOWS()
		if sc.eof() {
			return a, nil
		}
		if sc.s[sc.pos] != ',' {
			return AuthValue{}, errtrace.Wrap(newMalformedValueErr("unexpected %q", sc.s[sc.pos:]))
		}
		save := sc.pos
		sc.skipListSep()
		if sc.eof() {
			return a, nil
		}
		if !sc.paramAhead() {
			sc.pos = save
			return a, nil
		}
	}
}

func parseChallenges(_ Version, s string) ([]AuthValue, error) {
	sc := &authScanner{s: util.TrimOWS(s)}
	sc.skipListSep()
	if sc.eof() {
		return nil, errtrace.Wrap(ErrEmptyValue)
	}

	var as []AuthValue
	for !sc.eof() {
		a, err := sc.next()
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		as = append(as, a)
		sc.skipListSep()
	}
	return as, nil
}

func parseCredentials(v Version, s string) (AuthValue, error) {
	as, err := parseChallenges(v, s)
	if err != nil {
		return AuthValue{}, errtrace.Wrap(err)
	}
	if len(as) != 1 {
		return AuthValue{}, errtrace.Wrap(newMalformedValueErr("expected single credentials, got %d", len(as)))
	}
	return as[0], nil
}

func renderCredentials(_ Version, a AuthValue) string { return a.String() }

func validateCredentials(a AuthValue) error { return errtrace.Wrap(a.validate()) }

func renderChallenges(_ Version, as []AuthValue) string { return joinList(as, AuthValue.String) }

func validateChallenges(as []AuthValue) error {
	if err := validateNonEmpty(as); err != nil {
		return errtrace.Wrap(err)
	}
	for _, a := range as {
		if err := a.validate(); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}
