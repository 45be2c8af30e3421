package codec_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httphdr/codec"
	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/log"
)

func mustParse(t *testing.T, name, value string) header.Header {
	t.Helper()

	hdr, err := header.Parse(name, value)
	if err != nil {
		t.Fatalf("header.Parse(%q, %q) error = %v, want nil", name, value, err)
	}
	return hdr
}

func TestChunked_Encode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		c       codec.Chunked
		in      string
		want    string
		wantErr error
	}{
		{"empty", codec.Chunked{}, "", "0\r\n\r\n", nil},
		{"single chunk", codec.Chunked{}, "hello world", "b\r\nhello world\r\n0\r\n\r\n", nil},
		{
			"slices",
			codec.Chunked{SliceSize: 4},
			"hello world",
			"4\r\nhell\r\n4\r\no wo\r\n3\r\nrld\r\n0\r\n\r\n",
			nil,
		},
		{
			"trailers",
			codec.Chunked{
				SliceSize: 16,
				Trailers:  header.NewList(mustParse(t, "X-Checksum", "abc")).Freeze(),
			},
			"data",
			"4\r\ndata\r\n0\r\nX-Checksum: abc\r\n\r\n",
			nil,
		},
		{
			"forbidden trailer",
			codec.Chunked{Trailers: header.NewList(mustParse(t, "Host", "example.com"))},
			"data",
			"",
			header.ErrWrongCategory,
		},
		{"negative slice size", codec.Chunked{SliceSize: -1}, "data", "", errorutil.ErrInvalidArgument},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.c.Encode([]byte(c.in))
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("Encode(%q) error = %v, want %v\ndiff (-got +want):\n%v", c.in, err, c.wantErr, diff)
			}
			if c.wantErr != nil {
				return
			}
			if string(got) != c.want {
				t.Errorf("Encode(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestChunked_Decode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"last chunk only", "0\r\n\r\n", "", nil},
		{
			"extensions",
			"4;ext=1\r\nWiki\r\n5 ; name=\"v\"\r\npedia\r\nE\r\n in\r\n\r\nchunks.\r\n000\r\n\r\n",
			"Wikipedia in\r\n\r\nchunks.",
			nil,
		},
		{"bare LF", "3\nabc\n0\n\n", "abc", nil},
		{"trailer section", "3\r\nabc\r\n0\r\nX-Checksum: abc\r\n\r\n", "abc", nil},
		{"empty input", "", "", codec.ErrMalformedData},
		{"invalid size", "zz\r\nabc\r\n0\r\n\r\n", "", codec.ErrMalformedData},
		{"empty size", "\r\nabc\r\n0\r\n\r\n", "", codec.ErrMalformedData},
		{"size exceeds data", "10\r\nabc\r\n", "", codec.ErrMalformedData},
		{"data longer than size", "3\r\nabcd\r\n0\r\n\r\n", "", codec.ErrMalformedData},
		{"missing last chunk", "3\r\nabc\r\n", "", codec.ErrMalformedData},
		{"missing final CRLF", "3\r\nabc\r\n0\r\n", "", codec.ErrMalformedData},
		{"data after the message", "0\r\n\r\nxx", "", codec.ErrMalformedData},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := codec.Chunked{Parser: &header.ParserOptions{Logger: log.Noop}}.Decode([]byte(c.in))
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("Decode(%q) error = %v, want %v\ndiff (-got +want):\n%v", c.in, err, c.wantErr, diff)
			}
			if c.wantErr != nil {
				return
			}
			if string(got) != c.want {
				t.Errorf("Decode(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestChunked_RoundTrip(t *testing.T) {
	t.Parallel()

	data := randomBytes(10000, 7)
	for _, size := range []int{0, 1, 7, 4096, 20000} {
		c := codec.Chunked{SliceSize: size}
		enc, err := c.Encode(data)
		if err != nil {
			t.Fatalf("Chunked{SliceSize: %d}.Encode() error = %v, want nil", size, err)
		}
		dec, err := c.Decode(enc)
		if err != nil {
			t.Fatalf("Chunked{SliceSize: %d}.Decode() error = %v, want nil", size, err)
		}
		if diff := cmp.Diff(dec, data); diff != "" {
			t.Errorf("Chunked{SliceSize: %d} round trip mismatch (-got +want):\n%v", size, diff)
		}
	}
}

func TestDecodeChunked_Trailers(t *testing.T) {
	t.Parallel()

	in := []byte("3\r\nabc\r\n0\r\nX-Checksum: abc\r\nHost: example.com\r\nContent-Type: text/plain\r\n\r\n")

	body, trailers, err := codec.DecodeChunked(in, &header.ParserOptions{Logger: log.Noop})
	if err != nil {
		t.Fatalf("codec.DecodeChunked() error = %v, want nil", err)
	}
	if string(body) != "abc" {
		t.Errorf("body = %q, want %q", body, "abc")
	}
	if got, want := trailers.Names(), []header.Name{"X-Checksum", "Content-Type"}; !cmp.Equal(got, want) {
		t.Errorf("trailers.Names() = %v, want %v", got, want)
	}

	_, _, err = codec.DecodeChunked(in, &header.ParserOptions{Strict: true})
	if diff := cmp.Diff(err, header.ErrWrongCategory, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("strict codec.DecodeChunked() error = %v, want %v\ndiff (-got +want):\n%v", err, header.ErrWrongCategory, diff)
	}

	_, trailers, err = codec.DecodeChunked([]byte("0\r\n\r\n"), nil)
	if err != nil || trailers.Len() != 0 {
		t.Errorf("codec.DecodeChunked() = %v, %v, want no trailers", trailers, err)
	}
}
