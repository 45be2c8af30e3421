package header

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// HSTSPolicy is a value of the Strict-Transport-Security field (RFC 6797).
type HSTSPolicy struct {
	MaxAge            time.Duration
	IncludeSubDomains bool
	// Preload is not defined by RFC 6797, but is widely used by HSTS preload lists.
	Preload bool
}

func (sts HSTSPolicy) String() string {
	s := "max-age=" + strconv.FormatInt(int64(sts.MaxAge/time.Second), 10)
	if sts.IncludeSubDomains {
		s += "; includeSubDomains"
	}
	if sts.Preload {
		s += "; preload"
	}
	return s
}

func parseSTS(_ Version, s string) (HSTSPolicy, error) {
	grps, err := grammar.ParseDirectives(s)
	if err != nil {
		return HSTSPolicy{}, errtrace.Wrap(err)
	}
	if len(grps) != 1 {
		return HSTSPolicy{}, errtrace.Wrap(newMalformedValueErr("unexpected \",\" in %q", s))
	}

	var (
		sts    HSTSPolicy
		hasAge bool
		seen   = make(map[string]bool, len(grps[0]))
	)
	for _, d := range grps[0] {
		name := util.LCase(d.Name)
		if seen[name] {
			return HSTSPolicy{}, errtrace.Wrap(newMalformedValueErr("duplicate directive %q", d.Name))
		}
		seen[name] = true

		switch name {
		case "max-age":
			n, err := parseUint(d.Value)
			if err != nil {
				return HSTSPolicy{}, errtrace.Wrap(err)
			}
			sts.MaxAge, hasAge = time.Duration(n)*time.Second, true
		case "includesubdomains":
			sts.IncludeSubDomains = true
		case "preload":
			sts.Preload = true
		default:
			return HSTSPolicy{}, errtrace.Wrap(newMalformedValueErr("unknown directive %q", d.Name))
		}
		if name != "max-age" && d.HasValue {
			return HSTSPolicy{}, errtrace.Wrap(newMalformedValueErr("directive %q takes no argument", d.Name))
		}
	}
	if !hasAge {
		return HSTSPolicy{}, errtrace.Wrap(newMalformedValueErr("missing max-age directive"))
	}
	return sts, nil
}

func renderSTS(_ Version, sts HSTSPolicy) string { return sts.String() }

func validateSTS(sts HSTSPolicy) error {
	if sts.MaxAge < 0 || sts.MaxAge%time.Second != 0 {
		return errtrace.Wrap(newInvalidValueErr("invalid max-age %s", sts.MaxAge))
	}
	return nil
}

// CSPDirective is a single directive of a Content-Security-Policy, e.g. "script-src 'self' https:".
type CSPDirective struct {
	// Name is stored in lower case.
	Name   string
	Values []string
}

func (d CSPDirective) String() string {
	if len(d.Values) == 0 {
		return d.Name
	}
	return d.Name + " " + strings.Join(d.Values, " ")
}

// CSPPolicy is a serialized policy, a list of directives.
type CSPPolicy []CSPDirective

// Get returns the directive with the name.
func (p CSPPolicy) Get(name string) (CSPDirective, bool) {
	i := slices.IndexFunc(p, func(d CSPDirective) bool { return util.EqFold(d.Name, name) })
	if i < 0 {
		return CSPDirective{}, false
	}
	return p[i], true
}

func (p CSPPolicy) String() string {
	ss := make([]string, len(p))
	for i, d := range p {
		ss[i] = d.String()
	}
	return strings.Join(ss, "; ")
}

func isCSPName(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if c := s[i]; !isAlpha(c) && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

func isCSPValue(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if c := s[i]; c < 0x21 || c > 0x7e || c == ';' || c == ',' {
			return false
		}
	}
	return true
}

// parseCSP parses a comma-separated list of policies (CSP Level 3 section 2.2.1).
// Empty directives are skipped, a repeated directive name in a policy is an error.
func parseCSP(_ Version, s string) ([]CSPPolicy, error) {
	if util.TrimOWS(s) == "" {
		return nil, errtrace.Wrap(ErrEmptyValue)
	}

	var ps []CSPPolicy
	for raw := range strings.SplitSeq(s, ",") {
		var p CSPPolicy
		for tok := range strings.SplitSeq(raw, ";") {
			fields := strings.Fields(tok)
			if len(fields) == 0 {
				continue
			}

			name := util.LCase(fields[0])
			if !isCSPName(name) {
				return nil, errtrace.Wrap(newMalformedValueErr("invalid directive name %q", fields[0]))
			}
			if _, ok := p.Get(name); ok {
				return nil, errtrace.Wrap(newMalformedValueErr("duplicate directive %q", name))
			}
			for _, v := range fields[1:] {
				if !isCSPValue(v) {
					return nil, errtrace.Wrap(newMalformedValueErr("invalid directive value %q", v))
				}
			}
			p = append(p, CSPDirective{Name: name, Values: fields[1:]})
		}
		if len(p) > 0 {
			ps = append(ps, p)
		}
	}
	if len(ps) == 0 {
		return nil, errtrace.Wrap(newMalformedValueErr("no policies in %q", s))
	}
	return ps, nil
}

func renderCSP(_ Version, ps []CSPPolicy) string { return joinList(ps, CSPPolicy.String) }

func validateCSP(ps []CSPPolicy) error {
	if err := validateNonEmpty(ps); err != nil {
		return errtrace.Wrap(err)
	}
	for _, p := range ps {
		if err := validateNonEmpty(p); err != nil {
			return errtrace.Wrap(err)
		}
		for _, d := range p {
			if !isCSPName(d.Name) {
				return errtrace.Wrap(newInvalidValueErr("invalid directive name %q", d.Name))
			}
			for _, v := range d.Values {
				if !isCSPValue(v) {
					return errtrace.Wrap(newInvalidValueErr("invalid directive value %q", v))
				}
			}
		}
	}
	return nil
}

// NELPolicy is a Network Error Logging policy delivered in the NEL field (W3C Network Error Logging).
type NELPolicy struct {
	ReportTo          string   `json:"report_to"`
	MaxAge            uint64   `json:"max_age"`
	IncludeSubdomains bool     `json:"include_subdomains,omitempty"`
	SuccessFraction   *float64 `json:"success_fraction,omitempty"`
	FailureFraction   *float64 `json:"failure_fraction,omitempty"`
	RequestHeaders    []string `json:"request_headers,omitempty"`
	ResponseHeaders   []string `json:"response_headers,omitempty"`
}

// Success returns the sampling rate of successful requests, 0 by default.
func (p NELPolicy) Success() float64 {
	if p.SuccessFraction == nil {
		return 0
	}
	return *p.SuccessFraction
}

// Failure returns the sampling rate of failed requests, 1 by default.
func (p NELPolicy) Failure() float64 {
	if p.FailureFraction == nil {
		return 1
	}
	return *p.FailureFraction
}

// Removes reports whether the policy removes a previously stored one.
func (p NELPolicy) Removes() bool { return p.MaxAge == 0 }

func (p NELPolicy) String() string {
	data, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(data)
}

func (p NELPolicy) Equal(val any) bool {
	other, ok := val.(NELPolicy)
	if !ok {
		return false
	}
	return p.String() == other.String()
}

type nelJSON struct {
	ReportTo          *string  `json:"report_to"`
	MaxAge            *uint64  `json:"max_age"`
	IncludeSubdomains bool     `json:"include_subdomains"`
	SuccessFraction   *float64 `json:"success_fraction"`
	FailureFraction   *float64 `json:"failure_fraction"`
	RequestHeaders    []string `json:"request_headers"`
	ResponseHeaders   []string `json:"response_headers"`
}

func parseNEL(_ Version, s string) (NELPolicy, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return NELPolicy{}, errtrace.Wrap(ErrEmptyValue)
	}

	var raw nelJSON
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	if err := dec.Decode(&raw); err != nil {
		return NELPolicy{}, errtrace.Wrap(newMalformedValueErr(err))
	}
	if dec.More() {
		return NELPolicy{}, errtrace.Wrap(newMalformedValueErr("unexpected data after policy"))
	}
	if raw.ReportTo == nil {
		return NELPolicy{}, errtrace.Wrap(newMalformedValueErr("missing report_to"))
	}
	if raw.MaxAge == nil {
		return NELPolicy{}, errtrace.Wrap(newMalformedValueErr("missing max_age"))
	}
	return NELPolicy{
		ReportTo:          *raw.ReportTo,
		MaxAge:            *raw.MaxAge,
		IncludeSubdomains: raw.IncludeSubdomains,
		SuccessFraction:   raw.SuccessFraction,
		FailureFraction:   raw.FailureFraction,
		RequestHeaders:    raw.RequestHeaders,
		ResponseHeaders:   raw.ResponseHeaders,
	}, nil
}

func renderNEL(_ Version, p NELPolicy) string { return p.String() }

func validateNEL(p NELPolicy) error {
	if p.ReportTo == "" && !p.Removes() {
		return errtrace.Wrap(newInvalidValueErr("empty report_to"))
	}
	for _, f := range []*float64{p.SuccessFraction, p.FailureFraction} {
		if f != nil && (*f < 0 || *f > 1) {
			return errtrace.Wrap(newInvalidValueErr("sampling fraction %v is out of range", *f))
		}
	}
	for _, h := range slices.Concat(p.RequestHeaders, p.ResponseHeaders) {
		if !Name(h).IsValid() {
			return errtrace.Wrap(newInvalidValueErr("invalid field name %q", h))
		}
	}
	return nil
}

// ContentTypeOptions is a value of the X-Content-Type-Options field.
type ContentTypeOptions string

const NoSniff ContentTypeOptions = "nosniff"

// FrameOptions is a value of the X-Frame-Options field (RFC 7034).
type FrameOptions string

const (
	FrameDeny       FrameOptions = "DENY"
	FrameSameOrigin FrameOptions = "SAMEORIGIN"
)
