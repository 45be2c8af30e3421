package header_test

import (
	"testing"

	"github.com/ghettovoice/httphdr/header"
)

func TestCanonicName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want header.Name
	}{
		{"accept-encoding", "Accept-Encoding"},
		{"CONTENT-TYPE", "Content-Type"},
		{" host\t", "Host"},
		{"etag", "ETag"},
		{"www-authenticate", "WWW-Authenticate"},
		{"te", "TE"},
		{"dnt", "DNT"},
		{"nel", "NEL"},
		{"sec-ch-ua-platform", "Sec-CH-UA-Platform"},
		{"sec-ch-ua-wow64", "Sec-CH-UA-WoW64"},
		{"x-request-id", "X-Request-Id"},
		{"x-etag-extra", "X-ETag-Extra"},
		{"bad name", "bad name"},
	}

	for _, c := range cases {
		if got := header.CanonicName(c.in); got != c.want {
			t.Errorf("header.CanonicName(%q) = %q, want %q", c.in, got, c.want)
		}
		if got := header.Name(c.in).ToCanonic(); got != c.want {
			t.Errorf("header.Name(%q).ToCanonic() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestName_IsValid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   header.Name
		want bool
	}{
		{"Accept", true},
		{"X-Request-Id", true},
		{"Sec-CH-UA-WoW64", true},
		{"", false},
		{"-Accept", false},
		{"1xx", false},
		{"Bad Name", false},
		{"Bad:Name", false},
		{"Bad_Name", false},
	}

	for _, c := range cases {
		if got := c.in.IsValid(); got != c.want {
			t.Errorf("header.Name(%q).IsValid() = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestName_Equal(t *testing.T) {
	t.Parallel()

	n := header.Name("Content-Type")
	other := header.Name("content-type")

	cases := []struct {
		name string
		val  any
		want bool
	}{
		{"name", other, true},
		{"name pointer", &other, true},
		{"nil pointer", (*header.Name)(nil), false},
		{"string", "CONTENT-TYPE", true},
		{"other name", header.Name("Content-Length"), false},
		{"other type", 42, false},
	}

	for _, c := range cases {
		if got := n.Equal(c.val); got != c.want {
			t.Errorf("%s: n.Equal(%v) = %v, want %v", c.name, c.val, got, c.want)
		}
	}
}
