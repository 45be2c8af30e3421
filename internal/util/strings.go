// Package util provides string and buffer helpers.
package util

import (
	"strings"
	"sync"
)

func LCase[T ~string](s T) T { return T(strings.ToLower(string(s))) }

// TrimOWS trims optional whitespace (SP and HTAB) from both ends of s.
func TrimOWS[T ~string](s T) T { return T(strings.Trim(string(s), " \t")) }

func EqFold[T1, T2 ~string](s1 T1, s2 T2) bool {
	return strings.EqualFold(string(s1), string(s2))
}

// HasPrefixFold reports whether s begins with prefix ignoring ASCII case.
func HasPrefixFold[T1, T2 ~string](s T1, prefix T2) bool {
	return len(s) >= len(prefix) && strings.EqualFold(string(s[:len(prefix)]), string(prefix))
}

var strBldrPool = &sync.Pool{
	New: func() any {
		sb := new(strings.Builder)
		sb.Grow(256)
		return sb
	},
}

func GetStringBuilder() *strings.Builder {
	return strBldrPool.Get().(*strings.Builder) //nolint:forcetypeassert
}

func FreeStringBuilder(sb *strings.Builder) {
	sb.Reset()
	strBldrPool.Put(sb)
}
