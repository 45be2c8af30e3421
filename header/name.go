package header

import (
	"net/textproto"
	"strings"

	"github.com/ghettovoice/httphdr/internal/util"
)

// Name represents an HTTP field name.
type Name string

// ToCanonic converts the Name to its canonical form.
func (n Name) ToCanonic() Name { return CanonicName(n) }

// Lower returns the lowercased name used as lookup key.
func (n Name) Lower() string { return util.LCase(string(n)) }

// IsValid checks whether the Name is syntactically valid: a letter followed by letters, digits or dashes.
func (n Name) IsValid() bool {
	if len(n) == 0 || !isAlpha(n[0]) {
		return false
	}
	for i := 1; i < len(n); i++ {
		if c := n[i]; !isAlpha(c) && !('0' <= c && c <= '9') && c != '-' {
			return false
		}
	}
	return true
}

func isAlpha(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }

// Equal compares this Name with another for equality.
func (n Name) Equal(val any) bool {
	var other Name
	switch v := val.(type) {
	case Name:
		other = v
	case *Name:
		if v == nil {
			return false
		}
		other = *v
	case string:
		other = Name(v)
	default:
		return false
	}
	return util.EqFold(n, other)
}

// canonical spelling of name segments that differ from textproto canonicalization
var nameSegments = map[string]string{
	"Ch":    "CH",
	"Dnt":   "DNT",
	"Dpr":   "DPR",
	"Ect":   "ECT",
	"Etag":  "ETag",
	"Nel":   "NEL",
	"Rtt":   "RTT",
	"Te":    "TE",
	"Ua":    "UA",
	"Www":   "WWW",
	"Wow64": "WoW64",
}

// CanonicName converts name to the canonical form.
// The canonicalization converts the first letter and any letter following a hyphen to upper case;
// the rest are converted to lowercase. For example, the canonical name for "accept-encoding" is "Accept-Encoding".
// Well-known abbreviations keep their registered spelling, e.g. "www-authenticate" converts to "WWW-Authenticate".
func CanonicName[T ~string](name T) Name {
	s := textproto.CanonicalMIMEHeaderKey(util.TrimOWS(string(name)))
	if !strings.ContainsAny(s, "CDEGNRTUW") {
		return Name(s)
	}

	parts := strings.Split(s, "-")
	changed := false
	for i, p := range parts {
		if c, ok := nameSegments[p]; ok {
			parts[i] = c
			changed = true
		}
	}
	if !changed {
		return Name(s)
	}
	return Name(strings.Join(parts, "-"))
}
