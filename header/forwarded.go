package header

import (
	"net"
	"net/netip"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	"github.com/miekg/dns"
	"golang.org/x/net/http/httpguts"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
	"github.com/ghettovoice/httphdr/negotiate"
)

// HostPort is a host with an optional port as carried by Host, Origin and Forwarded.
type HostPort struct {
	// Host is a registered name in lower case or an IP literal without brackets.
	Host string
	// Port is zero when absent.
	Port uint16
}

// ParseHostPort parses "host[:port]". IPv6 literals must be enclosed in brackets.
func ParseHostPort(s string) (HostPort, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return HostPort{}, errtrace.Wrap(ErrEmptyValue)
	}
	if !httpguts.ValidHostHeader(s) {
		return HostPort{}, errtrace.Wrap(newMalformedValueErr("invalid host %q", s))
	}

	var host, port string
	if s[0] == '[' {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return HostPort{}, errtrace.Wrap(newMalformedValueErr("missing \"]\" in host %q", s))
		}
		host, port = s[1:end], s[end+1:]
		if port != "" && port[0] != ':' {
			return HostPort{}, errtrace.Wrap(newMalformedValueErr("unexpected %q after host", port))
		}
		port = strings.TrimPrefix(port, ":")
	} else {
		if strings.Count(s, ":") > 1 {
			return HostPort{}, errtrace.Wrap(newMalformedValueErr("unbracketed IPv6 address %q", s))
		}
		host, port, _ = strings.Cut(s, ":")
	}

	hp := HostPort{Host: util.LCase(host)}
	if port != "" {
		n, err := strconv.ParseUint(port, 10, 16)
		if err != nil {
			return HostPort{}, errtrace.Wrap(newMalformedValueErr("invalid port %q", port))
		}
		hp.Port = uint16(n)
	}
	return hp, nil
}

// IsIP reports whether the host is an IP literal.
func (hp HostPort) IsIP() bool {
	_, err := netip.ParseAddr(hp.Host)
	return err == nil
}

// ASCII returns the host and port with internationalized names converted to punycode.
func (hp HostPort) ASCII() (string, error) {
	return errtrace.Wrap2(httpguts.PunycodeHostPort(hp.String()))
}

func (hp HostPort) String() string {
	if hp.Port != 0 {
		return net.JoinHostPort(hp.Host, strconv.FormatUint(uint64(hp.Port), 10))
	}
	if strings.IndexByte(hp.Host, ':') >= 0 {
		return "[" + hp.Host + "]"
	}
	return hp.Host
}

func (hp HostPort) validate() error {
	if hp.Host == "" {
		return errtrace.Wrap(newInvalidValueErr("empty host"))
	}
	if hp.IsIP() {
		return nil
	}
	if _, ok := dns.IsDomainName(hp.Host); !ok {
		return errtrace.Wrap(newInvalidValueErr("invalid host name %q", hp.Host))
	}
	ascii, err := hp.ASCII()
	if err != nil || !httpguts.ValidHostHeader(ascii) {
		return errtrace.Wrap(newInvalidValueErr("invalid host %q", hp.Host))
	}
	return nil
}

func parseHost(_ Version, s string) (HostPort, error) { return errtrace.Wrap2(ParseHostPort(s)) }

func renderHostPort(_ Version, hp HostPort) string { return hp.String() }

func validateHostPort(hp HostPort) error { return errtrace.Wrap(hp.validate()) }

func isScheme(s string) bool {
	if s == "" || !isAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if c := s[i]; !isAlpha(c) && (c < '0' || c > '9') && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

// WebOrigin is a serialized origin (RFC 6454 section 7). The zero value is the opaque "null" origin.
type WebOrigin struct {
	Scheme string
	Host   HostPort
}

// NullOrigin is the opaque origin.
var NullOrigin = WebOrigin{}

// ParseOrigin parses "scheme://host[:port]" or "null".
func ParseOrigin(s string) (WebOrigin, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return WebOrigin{}, errtrace.Wrap(ErrEmptyValue)
	}
	if s == "null" {
		return NullOrigin, nil
	}

	scheme, rest, ok := strings.Cut(s, "://")
	if !ok || !isScheme(scheme) {
		return WebOrigin{}, errtrace.Wrap(newMalformedValueErr("invalid origin %q", s))
	}
	hp, err := ParseHostPort(rest)
	if err != nil {
		return WebOrigin{}, errtrace.Wrap(err)
	}
	return WebOrigin{Scheme: util.LCase(scheme), Host: hp}, nil
}

// IsOpaque reports whether the origin is "null".
func (o WebOrigin) IsOpaque() bool { return o.Scheme == "" }

func (o WebOrigin) String() string {
	if o.IsOpaque() {
		return "null"
	}
	return o.Scheme + "://" + o.Host.String()
}

func (o WebOrigin) validate() error {
	if o.IsOpaque() {
		if o.Host != (HostPort{}) {
			return errtrace.Wrap(newInvalidValueErr("opaque origin with host %q", o.Host))
		}
		return nil
	}
	if !isScheme(o.Scheme) {
		return errtrace.Wrap(newInvalidValueErr("invalid scheme %q", o.Scheme))
	}
	return errtrace.Wrap(o.Host.validate())
}

func parseOrigin(_ Version, s string) (WebOrigin, error) { return errtrace.Wrap2(ParseOrigin(s)) }

func renderOrigin(_ Version, o WebOrigin) string { return o.String() }

func validateOrigin(o WebOrigin) error { return errtrace.Wrap(o.validate()) }

func validateOrigins(origins []WebOrigin) error {
	if err := validateNonEmpty(origins); err != nil {
		return errtrace.Wrap(err)
	}
	for _, o := range origins {
		if err := o.validate(); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}

func parseAllowOrigin(_ Version, s string) (negotiate.Wildcard[WebOrigin], error) {
	if util.TrimOWS(s) == "*" {
		return negotiate.Any[WebOrigin](), nil
	}
	o, err := ParseOrigin(s)
	if err != nil {
		return negotiate.Wildcard[WebOrigin]{}, errtrace.Wrap(err)
	}
	return negotiate.Of(o), nil
}

func renderAllowOrigin(_ Version, w negotiate.Wildcard[WebOrigin]) string { return w.String() }

func validateAllowOrigin(w negotiate.Wildcard[WebOrigin]) error {
	o, err := w.Value()
	if err != nil {
		return nil
	}
	return errtrace.Wrap(o.validate())
}

// ForwardedElement is a single element of the Forwarded field (RFC 7239).
type ForwardedElement struct {
	// For and By are node identifiers: an IP address with optional port, "unknown" or an obfuscated identifier.
	For, By string
	Host    string
	Proto   string
}

var forwardedParams = []string{"for", "by", "host", "proto"}

func (e ForwardedElement) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	for i, v := range []string{e.For, e.By, e.Host, e.Proto} {
		if v == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(forwardedParams[i])
		sb.WriteByte('=')
		sb.WriteString(grammar.QuoteIfNeeded(v))
	}
	return sb.String()
}

func (e ForwardedElement) validate() error {
	if e == (ForwardedElement{}) {
		return errtrace.Wrap(newInvalidValueErr("empty forwarded element"))
	}
	for _, node := range []string{e.For, e.By} {
		if node != "" && !isForwardedNode(node) {
			return errtrace.Wrap(newInvalidValueErr("invalid node %q", node))
		}
	}
	if e.Host != "" {
		hp, err := ParseHostPort(e.Host)
		if err != nil {
			return errtrace.Wrap(newInvalidValueErr(err))
		}
		if err := hp.validate(); err != nil {
			return errtrace.Wrap(err)
		}
	}
	if e.Proto != "" && !isScheme(e.Proto) {
		return errtrace.Wrap(newInvalidValueErr("invalid proto %q", e.Proto))
	}
	return nil
}

func isObfuscated(s string) bool {
	if len(s) < 2 || s[0] != '_' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if c := s[i]; !isAlpha(c) && (c < '0' || c > '9') && c != '.' && c != '_' && c != '-' {
			return false
		}
	}
	return true
}

// isForwardedNode checks node = nodename [ ":" node-port ] (RFC 7239 section 6).
func isForwardedNode(s string) bool {
	name, port := s, ""
	if s != "" && s[0] == '[' {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return false
		}
		addr, err := netip.ParseAddr(s[1:end])
		if err != nil || !addr.Is6() {
			return false
		}
		name, port = "", s[end+1:]
		if port != "" {
			if port[0] != ':' {
				return false
			}
			port = port[1:]
		}
	} else {
		var ok bool
		if name, port, ok = strings.Cut(s, ":"); ok && port == "" {
			return false
		}
		switch {
		case name == "unknown", isObfuscated(name):
		default:
			addr, err := netip.ParseAddr(name)
			if err != nil || !addr.Is4() {
				return false
			}
		}
	}

	if port == "" || isObfuscated(port) {
		return true
	}
	_, err := strconv.ParseUint(port, 10, 16)
	return err == nil
}

func parseForwarded(_ Version, s string) ([]ForwardedElement, error) {
	grps, err := grammar.ParseDirectives(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	es := make([]ForwardedElement, 0, len(grps))
	for _, grp := range grps {
		var e ForwardedElement
		for _, p := range grp {
			if !p.HasValue {
				return nil, errtrace.Wrap(newMalformedValueErr("parameter %q without value", p.Name))
			}

			var dst *string
			switch util.LCase(p.Name) {
			case "for":
				dst = &e.For
			case "by":
				dst = &e.By
			case "host":
				dst = &e.Host
			case "proto":
				dst = &e.Proto
			default:
				return nil, errtrace.Wrap(newMalformedValueErr("unknown parameter %q", p.Name))
			}
			if *dst != "" {
				return nil, errtrace.Wrap(newMalformedValueErr("duplicate parameter %q", p.Name))
			}
			*dst = p.Value
		}
		e.Proto = util.LCase(e.Proto)
		es = append(es, e)
	}
	return es, nil
}

func renderForwarded(_ Version, es []ForwardedElement) string {
	return joinList(es, ForwardedElement.String)
}

func validateForwarded(es []ForwardedElement) error {
	if err := validateNonEmpty(es); err != nil {
		return errtrace.Wrap(err)
	}
	for _, e := range es {
		if err := e.validate(); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}
