package util_test

import (
	"testing"

	"github.com/ghettovoice/httphdr/internal/util"
)

func TestHasPrefixFold(t *testing.T) {
	t.Parallel()

	cases := []struct {
		s, prefix string
		want      bool
	}{
		{"Proxy-Authorization", "proxy-", true},
		{"PROXY-X", "Proxy-", true},
		{"Prox", "Proxy-", false},
		{"Sec-CH-UA", "sec-ch-", true},
		{"Accept", "Access-", false},
	}

	for _, c := range cases {
		if got := util.HasPrefixFold(c.s, c.prefix); got != c.want {
			t.Errorf("util.HasPrefixFold(%q, %q) = %v, want %v", c.s, c.prefix, got, c.want)
		}
	}
}

func TestTrimOWS(t *testing.T) {
	t.Parallel()

	if got, want := util.TrimOWS(" \tgzip \t"), "gzip"; got != want {
		t.Errorf("util.TrimOWS() = %q, want %q", got, want)
	}
	if got, want := util.TrimOWS("\r\ngzip"), "\r\ngzip"; got != want {
		t.Errorf("util.TrimOWS() = %q, want %q", got, want)
	}
}
