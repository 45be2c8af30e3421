// Package grammar implements the RFC 9110 lexical rules shared by HTTP field values.
package grammar

//go:generate go tool errtrace -w .

import (
	"fmt"
	"strings"

	"github.com/ghettovoice/abnf"

	"github.com/ghettovoice/httphdr/internal/util"
)

func init() {
	abnf.EnableNodeCache(10 * 1024)
}

type Error string

func (e Error) Error() string { return string(e) }

func (Error) Grammar() bool { return true }

const (
	ErrNodeNotFound Error = "node not found"
	ErrEmptyInput   Error = "empty input"
	// ErrMalformedInput is returned when the input does not match the rule.
	ErrMalformedInput Error = "malformed input"
)

// MustGetNode returns a pointer to the ABNF node with the given key.
func MustGetNode(n *abnf.Node, k string) *abnf.Node {
	sn, ok := n.GetNode(k)
	if !ok {
		panic(fmt.Errorf("get node %q from node %q: %w", k, n.Key, ErrNodeNotFound))
	}
	return sn
}

func match(rule abnf.Operator, s []byte) bool {
	if len(s) == 0 {
		return false
	}

	ns := abnf.NewNodes()
	defer ns.Free()

	if err := rule(s, 0, ns); err != nil {
		return false
	}
	return ns.Best().Len() == len(s)
}

// IsToken reports whether s is a non-empty token.
func IsToken[T ~string | ~[]byte](s T) bool { return match(token, []byte(s)) }

// IsQuoted reports whether s is a complete quoted-string.
func IsQuoted[T ~string | ~[]byte](s T) bool { return match(quotedString, []byte(s)) }

// IsEntityTag reports whether s is a strong or weak entity tag.
func IsEntityTag[T ~string | ~[]byte](s T) bool { return match(entityTag, []byte(s)) }

// IsTokenChar reports whether c is allowed in a token.
func IsTokenChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	default:
		return strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0
	}
}

// Quote wraps s into a quoted-string escaping DQUOTE and backslash.
func Quote(s string) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := range len(s) {
		if s[i] == '"' || s[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('"')
	return sb.String()
}

// QuoteIfNeeded returns s as is when it is a token, otherwise quotes it.
func QuoteIfNeeded(s string) string {
	if IsToken(s) {
		return s
	}
	return Quote(s)
}

// Unquote removes surrounding DQUOTEs and resolves quoted-pairs.
// Strings that are not quoted are returned unchanged.
func Unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}

	s = s[1 : len(s)-1]
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
