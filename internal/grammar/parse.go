package grammar

import (
	"braces.dev/errtrace"
	"github.com/ghettovoice/abnf"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

func newMalformedInputErr(args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedInput, args...) //errtrace:skip
}

// Param is a name with an optional value. Value is unquoted.
type Param struct {
	Name     string
	Value    string
	HasValue bool
	Quoted   bool
}

// Element is a single member of a comma-separated list.
// Value is kept verbatim, so quoted strings and entity tags keep their quotes.
type Element struct {
	Value  string
	Params []Param
}

// parse runs rule over s and returns the best node covering whole s.
func parse(rule abnf.Operator, s string) (*abnf.Node, error) {
	s = util.TrimOWS(s)
	if len(s) == 0 {
		return nil, errtrace.Wrap(ErrEmptyInput)
	}

	ns := abnf.NewNodes()
	defer ns.Free()

	if err := rule([]byte(s), 0, ns); err != nil {
		return nil, errtrace.Wrap(newMalformedInputErr(err))
	}

	n := ns.Best()
	if nl, il := n.Len(), len(s); nl < il {
		return nil, errtrace.Wrap(newMalformedInputErr("unexpected %q at position %d", s[nl:], nl))
	}
	return n, nil
}

func buildParam(n *abnf.Node, nameKey, valKey string) Param {
	p := Param{Name: MustGetNode(n, nameKey).String()}
	if vn, ok := n.GetNode(valKey); ok {
		p.HasValue = true
		p.Value = vn.String()
		if len(p.Value) > 0 && p.Value[0] == '"' {
			p.Quoted = true
			p.Value = Unquote(p.Value)
		}
	}
	return p
}

// ParseElements parses a comma-separated list of elements, each optionally followed by ";"-separated parameters.
// Empty list members are skipped.
func ParseElements(s string) ([]Element, error) {
	n, err := parse(elementList, s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	elemNodes := n.GetNodes("element")
	elems := make([]Element, 0, len(elemNodes))
	for _, en := range elemNodes {
		if en.IsEmpty() {
			continue
		}

		e := Element{Value: MustGetNode(en, "elem-value").String()}
		for _, pn := range en.GetNodes("param") {
			e.Params = append(e.Params, buildParam(pn, "param-name", "param-value"))
		}
		elems = append(elems, e)
	}
	return elems, nil
}

// ParseDirectives parses a comma-separated list of ";"-separated directive groups.
// Cache-Control produces single-directive groups, Forwarded and Strict-Transport-Security use groups.
func ParseDirectives(s string) ([][]Param, error) {
	n, err := parse(directiveList, s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	grpNodes := n.GetNodes("directive-group")
	grps := make([][]Param, 0, len(grpNodes))
	for _, gn := range grpNodes {
		if gn.IsEmpty() {
			continue
		}

		dirNodes := gn.GetNodes("directive")
		grp := make([]Param, 0, len(dirNodes))
		for _, dn := range dirNodes {
			grp = append(grp, buildParam(dn, "directive-name", "directive-value"))
		}
		grps = append(grps, grp)
	}
	return grps, nil
}

// ParseCookies parses a Cookie field value into name/value pairs.
func ParseCookies(s string) ([]Param, error) {
	n, err := parse(cookieString, s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	pairNodes := n.GetNodes("cookie-pair")
	pairs := make([]Param, 0, len(pairNodes))
	for _, pn := range pairNodes {
		pairs = append(pairs, buildParam(pn, "cookie-name", "cookie-value"))
	}
	return pairs, nil
}

// ParseEntityTag parses an entity tag and returns its weakness flag and opaque value without quotes.
func ParseEntityTag(s string) (weak bool, opaque string, err error) {
	n, err := parse(entityTag, s)
	if err != nil {
		return false, "", errtrace.Wrap(err)
	}

	if wn, ok := n.GetNode("weak"); ok && !wn.IsEmpty() {
		weak = true
	}
	tag := MustGetNode(n, "opaque-tag").String()
	return weak, tag[1 : len(tag)-1], nil
}
