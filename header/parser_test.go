package header_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/log"
)

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		opts       *header.ParserOptions
		in         string
		wantRender string
		wantErr    error
	}{
		{
			"empty",
			nil,
			"",
			"",
			nil,
		},
		{
			"stops at empty line",
			nil,
			"Host: example.com\r\nAccept: */*\r\n\r\nbody",
			"Host: example.com\r\nAccept: */*\r\n",
			nil,
		},
		{
			"LF and obs-fold",
			nil,
			"Cache-Control: no-cache,\n\tmax-age=0\nX-Custom:  some value \n",
			"Cache-Control: no-cache, max-age=0\r\nX-Custom: some value\r\n",
			nil,
		},
		{
			"lenient skips invalid fields",
			&header.ParserOptions{Logger: log.Noop},
			"Age: abc\r\nContent-Length: 10\r\nbad line\r\n",
			"Content-Length: 10\r\n",
			nil,
		},
		{
			"strict fails on invalid fields",
			&header.ParserOptions{Strict: true},
			"Age: abc\r\nContent-Length: 10\r\n",
			"",
			header.ErrMalformedValue,
		},
		{
			"strict fails on missing colon",
			&header.ParserOptions{Strict: true},
			"bad line\r\n",
			"",
			header.ErrMalformedValue,
		},
		{
			"strict fails on invalid name",
			&header.ParserOptions{Strict: true},
			"Bad Name: x\r\n",
			"",
			header.ErrInvalidName,
		},
		{
			"lenient keeps wrong direction",
			&header.ParserOptions{Direction: header.Response, Logger: log.Noop},
			"Accept: text/html\r\n",
			"Accept: text/html\r\n",
			nil,
		},
		{
			"strict fails on wrong direction",
			&header.ParserOptions{Direction: header.Response, Strict: true},
			"Accept: text/html\r\n",
			"",
			header.ErrWrongDirection,
		},
		{
			"strict fails on connection-specific fields in HTTP/2",
			&header.ParserOptions{Version: header.HTTP2, Strict: true},
			"Content-Type: text/plain\r\nTransfer-Encoding: chunked\r\n",
			"",
			header.ErrWrongVersion,
		},
		{
			"continuation without field",
			nil,
			" folded\r\n",
			"",
			header.ErrMalformedValue,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			p := header.NewParser(c.opts)
			got, err := p.Parse(strings.NewReader(c.in))
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("p.Parse(%q) error = %v, want %v\ndiff (-got +want):\n%v", c.in, err, c.wantErr, diff)
			}
			if c.wantErr != nil {
				return
			}
			if s := got.Render(nil); s != c.wantRender {
				t.Errorf("p.Parse(%q).Render(nil) = %q, want %q", c.in, s, c.wantRender)
			}
		})
	}
}

func TestParser_StrictJoinsErrors(t *testing.T) {
	t.Parallel()

	p := header.NewParser(&header.ParserOptions{Strict: true})
	_, err := p.ParseBytes([]byte("Age: -1\r\nMax-Forwards: x\r\n"))
	if !errors.Is(err, header.ErrInvalidValue) || !errors.Is(err, header.ErrMalformedValue) {
		t.Errorf("p.ParseBytes() error = %v, want both %v and %v", err, header.ErrInvalidValue, header.ErrMalformedValue)
	}
}

func TestParseLine(t *testing.T) {
	t.Parallel()

	hdr, err := header.ParseLine("content-length: 42")
	if err != nil {
		t.Fatalf("header.ParseLine() error = %v, want nil", err)
	}
	if got, want := hdr.Render(nil), "Content-Length: 42"; got != want {
		t.Errorf("hdr.Render(nil) = %q, want %q", got, want)
	}
	if _, err := header.ParseLine([]byte("no colon")); !errors.Is(err, header.ErrMalformedValue) {
		t.Errorf("header.ParseLine(\"no colon\") error = %v, want %v", err, header.ErrMalformedValue)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	l := header.NewList(
		mustParse(t, "Content-Type", "text/plain"),
		mustParse(t, "Connection", "close"),
	)

	var buf bytes.Buffer
	n, err := header.Render(&buf, l, header.HTTP11)
	if err != nil {
		t.Fatalf("header.Render(HTTP11) error = %v, want nil", err)
	}
	if got, want := buf.String(), "Content-Type: text/plain\r\nConnection: close\r\n\r\n"; got != want || n != len(want) {
		t.Errorf("header.Render(HTTP11) = %q, %d, want %q, %d", got, n, want, len(want))
	}

	buf.Reset()
	if _, err := header.Render(&buf, l, header.HTTP2); !errors.Is(err, header.ErrWrongVersion) {
		t.Errorf("header.Render(HTTP2) error = %v, want %v", err, header.ErrWrongVersion)
	}
	if buf.Len() != 0 {
		t.Errorf("header.Render(HTTP2) wrote %q, want nothing", buf.String())
	}
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    header.Version
		wantErr error
	}{
		{"HTTP/1.1", header.HTTP11, nil},
		{"1.0", header.HTTP10, nil},
		{"h2", header.HTTP2, nil},
		{"HTTP/3", header.HTTP3, nil},
		{"HTTP/4", header.HTTP11, header.ErrInvalidValue},
	}
	for _, c := range cases {
		got, err := header.ParseVersion(c.in)
		if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
			t.Errorf("header.ParseVersion(%q) error = %v, want %v\ndiff (-got +want):\n%v", c.in, err, c.wantErr, diff)
			continue
		}
		if got != c.want {
			t.Errorf("header.ParseVersion(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
