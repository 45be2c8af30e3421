package category_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/httphdr/category"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want category.Set
	}{
		{"Age", category.Of(category.Caching)},
		{"cache-control", category.Of(category.Caching, category.Control)},
		{"Connection", category.Of(category.HopByHop, category.ForbiddenName)},
		{"Proxy-Authorization", category.Of(category.HopByHop, category.ForbiddenName, category.Authentication)},
		{"Sec-CH-UA-Mobile", category.Of(category.ClientHint, category.ForbiddenName)},
		{"Sec-Fetch-Mode", category.Of(category.ForbiddenName, category.FetchMetadata)},
		{"Access-Control-Allow-Origin", category.Of(category.CORS)},
		{"Access-Control-Request-Method", category.Of(category.CORS, category.ForbiddenName)},
		{"Cross-Origin-Opener-Policy", category.Of(category.Security)},
		{"Host", category.Of(category.ForbiddenName, category.Target)},
		{"TE", category.Of(category.HopByHop, category.ForbiddenName, category.Negotiation)},
		{"X-Forwarded-For", category.Of(category.Routing)},
		{"X-Custom", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := category.Classify(c.name); got != c.want {
				t.Errorf("category.Classify(%q) = %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestCategory_Contains(t *testing.T) {
	t.Parallel()

	if !category.HopByHop.Contains("proxy-connection") {
		t.Error("HOP_BY_HOP does not contain Proxy-Connection")
	}
	if category.Content.Contains("Transfer-Encoding") {
		t.Error("CONTENT contains Transfer-Encoding")
	}
	if !category.Content.Contains("CONTENT-LENGTH") {
		t.Error("CONTENT does not contain Content-Length")
	}
}

func TestSet_String(t *testing.T) {
	t.Parallel()

	s := category.Of(category.Target, category.Caching)
	if got, want := s.String(), "CACHING|TARGET"; got != want {
		t.Errorf("set.String() = %q, want %q", got, want)
	}
	if got, want := category.Set(0).String(), "NONE"; got != want {
		t.Errorf("empty set.String() = %q, want %q", got, want)
	}

	var parsed category.Set
	if err := parsed.UnmarshalText([]byte("caching|target")); err != nil {
		t.Fatalf("set.UnmarshalText() error = %v, want nil", err)
	}
	if parsed != s {
		t.Errorf("set.UnmarshalText() = %v, want %v", parsed, s)
	}
	if err := parsed.UnmarshalText([]byte("CACHING|BOGUS")); err == nil {
		t.Error("set.UnmarshalText(\"CACHING|BOGUS\") error = nil, want error")
	}
}

func TestAll(t *testing.T) {
	t.Parallel()

	all := category.All()
	if len(all) != 15 {
		t.Fatalf("len(category.All()) = %d, want 15", len(all))
	}
	got := make([]string, 0, 3)
	for _, c := range all[:3] {
		got = append(got, c.String())
	}
	if diff := cmp.Diff(got, []string{"CACHING", "CONDITIONAL", "CLIENT_HINT"}); diff != "" {
		t.Errorf("category.All() prefix mismatch (-got +want):\n%v", diff)
	}
}
