package grammar_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httphdr/internal/grammar"
)

func TestQuote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"empty", "", `""`},
		{"no quote", "abc", `"abc"`},
		{"with quote", `"ab"c"`, `"\"ab\"c\""`},
		{"with backslash quote", `ab\"c`, `"ab\\\"c"`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.Quote(c.str), c.want; got != want {
				t.Errorf("grammar.Quote(%q) = %q, want %q", c.str, got, want)
			}
		})
	}
}

func TestUnquote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		str  string
		want string
	}{
		{"empty", "", ""},
		{"empty quote", `""`, ""},
		{"no quote", "abc", "abc"},
		{"with quote", `"abc"`, "abc"},
		{"with backslash quote", `"\"ab\"c\\\""`, `"ab"c\"`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got, want := grammar.Unquote(c.str), c.want; got != want {
				t.Errorf("grammar.Unquote(%q) = %q, want %q", c.str, got, want)
			}
		})
	}
}

func TestIsToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"gzip", true},
		{"x-custom_1.0~", true},
		{"*", true},
		{"a b", false},
		{"text/html", false},
		{`"q"`, false},
	}
	for _, c := range cases {
		if got := grammar.IsToken(c.in); got != c.want {
			t.Errorf("grammar.IsToken(%q) = %v, want %v", c.in, got, c.want)
		}
		if got := grammar.QuoteIfNeeded(c.in); c.want && got != c.in {
			t.Errorf("grammar.QuoteIfNeeded(%q) = %q, want unchanged", c.in, got)
		}
	}
}

func TestParseElements(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    []grammar.Element
		wantErr error
	}{
		{"empty", "", nil, grammar.ErrEmptyInput},
		{"blank", " \t", nil, grammar.ErrEmptyInput},
		{
			"single",
			"gzip",
			[]grammar.Element{{Value: "gzip"}},
			nil,
		},
		{
			"weighted list",
			"text/html;level=1, text/*;q=0.5 ,*/*; q=0.1",
			[]grammar.Element{
				{Value: "text/html", Params: []grammar.Param{{Name: "level", Value: "1", HasValue: true}}},
				{Value: "text/*", Params: []grammar.Param{{Name: "q", Value: "0.5", HasValue: true}}},
				{Value: "*/*", Params: []grammar.Param{{Name: "q", Value: "0.1", HasValue: true}}},
			},
			nil,
		},
		{
			"empty members",
			"a,, b ,",
			[]grammar.Element{{Value: "a"}, {Value: "b"}},
			nil,
		},
		{
			"quoted param",
			`attachment; filename="a, b.txt"`,
			[]grammar.Element{
				{
					Value:  "attachment",
					Params: []grammar.Param{{Name: "filename", Value: "a, b.txt", HasValue: true, Quoted: true}},
				},
			},
			nil,
		},
		{
			"entity tags",
			`"xyzzy", W/"r2d2xxxx"`,
			[]grammar.Element{{Value: `"xyzzy"`}, {Value: `W/"r2d2xxxx"`}},
			nil,
		},
		{"malformed", "a b", nil, grammar.ErrMalformedInput},
		{"bad param", "a;=1", nil, grammar.ErrMalformedInput},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := grammar.ParseElements(c.in)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("grammar.ParseElements(%q) error = %v, want %v\ndiff (-got +want):\n%v", c.in, err, c.wantErr, diff)
			}
			if diff := cmp.Diff(got, c.want, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("grammar.ParseElements(%q) = %+v, want %+v\ndiff (-got +want):\n%v", c.in, got, c.want, diff)
			}
		})
	}
}

func TestParseDirectives(t *testing.T) {
	t.Parallel()

	got, err := grammar.ParseDirectives(`for=192.0.2.60;proto=http;by="[2001:db8::1]", for=unknown`)
	if err != nil {
		t.Fatalf("grammar.ParseDirectives() error = %v, want nil", err)
	}
	want := [][]grammar.Param{
		{
			{Name: "for", Value: "192.0.2.60", HasValue: true},
			{Name: "proto", Value: "http", HasValue: true},
			{Name: "by", Value: "[2001:db8::1]", HasValue: true, Quoted: true},
		},
		{{Name: "for", Value: "unknown", HasValue: true}},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("grammar.ParseDirectives() = %+v, want %+v\ndiff (-got +want):\n%v", got, want, diff)
	}

	if _, err := grammar.ParseDirectives("max-age=1 2"); !errors.Is(err, grammar.ErrMalformedInput) {
		t.Errorf("grammar.ParseDirectives(\"max-age=1 2\") error = %v, want %v", err, grammar.ErrMalformedInput)
	}
}

func TestParseCookies(t *testing.T) {
	t.Parallel()

	got, err := grammar.ParseCookies(`SID=31d4d96e407aad42; lang=en-US; empty=; q="x"`)
	if err != nil {
		t.Fatalf("grammar.ParseCookies() error = %v, want nil", err)
	}
	want := []grammar.Param{
		{Name: "SID", Value: "31d4d96e407aad42", HasValue: true},
		{Name: "lang", Value: "en-US", HasValue: true},
		{Name: "empty", HasValue: true},
		{Name: "q", Value: "x", HasValue: true, Quoted: true},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("grammar.ParseCookies() = %+v, want %+v\ndiff (-got +want):\n%v", got, want, diff)
	}

	if _, err := grammar.ParseCookies("novalue"); !errors.Is(err, grammar.ErrMalformedInput) {
		t.Errorf("grammar.ParseCookies(\"novalue\") error = %v, want %v", err, grammar.ErrMalformedInput)
	}
}

func TestParseEntityTag(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in       string
		wantWeak bool
		wantTag  string
		wantErr  error
	}{
		{`"xyzzy"`, false, "xyzzy", nil},
		{`W/"xyzzy"`, true, "xyzzy", nil},
		{`""`, false, "", nil},
		{`xyzzy`, false, "", grammar.ErrMalformedInput},
		{``, false, "", grammar.ErrEmptyInput},
	}
	for _, c := range cases {
		weak, tag, err := grammar.ParseEntityTag(c.in)
		if !errors.Is(err, c.wantErr) {
			t.Errorf("grammar.ParseEntityTag(%q) error = %v, want %v", c.in, err, c.wantErr)
			continue
		}
		if weak != c.wantWeak || tag != c.wantTag {
			t.Errorf("grammar.ParseEntityTag(%q) = %v, %q, want %v, %q", c.in, weak, tag, c.wantWeak, c.wantTag)
		}
	}
}
