// Package category classifies HTTP fields by the behavioral categories defined across RFC 9110,
// RFC 9111, Fetch, CORS and Client Hints.
package category

//go:generate go tool errtrace -w .

import (
	"slices"
	"strings"
)

// Category is a single field category.
type Category uint32

const (
	Caching Category = 1 << iota
	Conditional
	ClientHint
	HopByHop
	CORS
	ForbiddenName
	Content
	Routing
	Control
	Authentication
	Negotiation
	Cookie
	Security
	FetchMetadata
	Target

	last = Target
)

var catNames = map[Category]string{
	Caching:        "CACHING",
	Conditional:    "CONDITIONAL",
	ClientHint:     "CLIENT_HINT",
	HopByHop:       "HOP_BY_HOP",
	CORS:           "CORS",
	ForbiddenName:  "FORBIDDEN_NAME",
	Content:        "CONTENT",
	Routing:        "ROUTING",
	Control:        "CONTROL",
	Authentication: "AUTHENTICATION",
	Negotiation:    "NEGOTIATION",
	Cookie:         "COOKIE",
	Security:       "SECURITY",
	FetchMetadata:  "FETCH_METADATA",
	Target:         "TARGET",
}

func (c Category) String() string {
	if s, ok := catNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// All returns every category in declaration order.
func All() []Category {
	cats := make([]Category, 0, len(catNames))
	for c := Category(1); c <= last; c <<= 1 {
		cats = append(cats, c)
	}
	return cats
}

// Parse returns the category with the given name, e.g. "HOP_BY_HOP".
func Parse(s string) (Category, bool) {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for c, n := range catNames {
		if n == s {
			return c, true
		}
	}
	return 0, false
}

type rule struct {
	members  map[string]struct{}
	prefixes []string
}

func newRule(members []string, prefixes ...string) rule {
	r := rule{
		members:  make(map[string]struct{}, len(members)),
		prefixes: make([]string, len(prefixes)),
	}
	for _, m := range members {
		r.members[strings.ToLower(m)] = struct{}{}
	}
	for i, p := range prefixes {
		r.prefixes[i] = strings.ToLower(p)
	}
	return r
}

func (r rule) match(lname string) bool {
	if _, ok := r.members[lname]; ok {
		return true
	}
	for _, p := range r.prefixes {
		if strings.HasPrefix(lname, p) {
			return true
		}
	}
	return false
}

var rules = map[Category]rule{
	Caching: newRule([]string{
		"Age", "Cache-Control", "ETag", "Expires", "Last-Modified", "Pragma", "Vary",
	}),
	Conditional: newRule([]string{
		"If-Match", "If-None-Match", "If-Modified-Since", "If-Unmodified-Since", "If-Range",
	}),
	ClientHint: newRule([]string{
		"Accept-CH", "Accept-CH-Lifetime", "Critical-CH", "DPR", "Device-Memory", "Downlink", "ECT",
		"RTT", "Save-Data", "Viewport-Width", "Width",
	}, "Sec-CH-"),
	HopByHop: newRule([]string{
		"Connection", "Keep-Alive", "Proxy-Connection", "TE", "Trailer", "Transfer-Encoding", "Upgrade",
	}, "Proxy-"),
	CORS: newRule([]string{"Origin", "Timing-Allow-Origin"}, "Access-Control-"),
	// https://fetch.spec.whatwg.org/#forbidden-request-header
	ForbiddenName: newRule([]string{
		"Accept-Charset", "Accept-Encoding", "Access-Control-Request-Headers", "Access-Control-Request-Method",
		"Connection", "Content-Length", "Cookie", "Cookie2", "Date", "DNT", "Expect", "Host", "Keep-Alive",
		"Origin", "Referer", "Set-Cookie", "TE", "Trailer", "Transfer-Encoding", "Upgrade", "Via",
	}, "Proxy-", "Sec-"),
	Content: newRule([]string{
		"Content-Type", "Content-Encoding", "Content-Language", "Content-Length", "Content-Location",
		"Content-Range", "Content-Disposition",
	}),
	Routing: newRule([]string{
		"Via", "Forwarded", "Max-Forwards", "X-Forwarded-For", "X-Forwarded-Host", "X-Forwarded-Proto",
	}),
	Control: newRule([]string{
		"Cache-Control", "Expect", "Pragma", "Range", "Retry-After", "Date", "Vary",
	}),
	Authentication: newRule([]string{
		"Authorization", "Proxy-Authorization", "WWW-Authenticate", "Proxy-Authenticate",
		"Authentication-Info", "Proxy-Authentication-Info",
	}),
	Negotiation: newRule([]string{
		"Accept", "Accept-Charset", "Accept-Encoding", "Accept-Language", "TE",
	}),
	Cookie: newRule([]string{"Cookie", "Set-Cookie"}),
	Security: newRule([]string{
		"Strict-Transport-Security", "Content-Security-Policy", "X-Content-Type-Options", "X-Frame-Options",
		"Referrer-Policy", "Origin-Agent-Cluster", "Clear-Site-Data", "NEL", "Upgrade-Insecure-Requests",
	}, "Cross-Origin-"),
	FetchMetadata: newRule(nil, "Sec-Fetch-"),
	Target:        newRule([]string{"Host", "Referer", "Location"}),
}

// Contains reports whether the field name belongs to the category.
// Names are compared case-insensitively.
func (c Category) Contains(name string) bool {
	r, ok := rules[c]
	return ok && r.match(strings.ToLower(name))
}

// Members returns the static member list of the category in lower case, sorted.
// Prefix rules are not expanded.
func (c Category) Members() []string {
	r := rules[c]
	ms := make([]string, 0, len(r.members))
	for m := range r.members {
		ms = append(ms, m)
	}
	slices.Sort(ms)
	return ms
}

// Classify computes the category set of the field name.
func Classify(name string) Set {
	lname := strings.ToLower(name)

	var s Set
	for c, r := range rules {
		if r.match(lname) {
			s |= Set(c)
		}
	}
	return s
}
