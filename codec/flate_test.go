package codec_test

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httphdr/codec"
	"github.com/ghettovoice/httphdr/internal/errorutil"
)

func TestFlateCodecs(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("The quick brown fox jumps over the lazy dog. "), 100)

	cases := []struct {
		name string
		c    codec.Codec
	}{
		{"gzip default", codec.GZip{}},
		{"gzip best speed", codec.GZip{Level: flate.BestSpeed}},
		{"gzip huffman only", codec.GZip{Level: flate.HuffmanOnly}},
		{"deflate default", codec.Deflate{}},
		{"deflate best compression", codec.Deflate{Level: flate.BestCompression}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			enc, err := c.c.Encode(data)
			if err != nil {
				t.Fatalf("Encode() error = %v, want nil", err)
			}
			if len(enc) >= len(data) {
				t.Errorf("len(Encode()) = %d, want less than %d", len(enc), len(data))
			}
			dec, err := c.c.Decode(enc)
			if err != nil {
				t.Fatalf("Decode() error = %v, want nil", err)
			}
			if !bytes.Equal(dec, data) {
				t.Errorf("Decode(Encode(data)) = %q, want %q", dec, data)
			}

			if _, err := c.c.Decode([]byte("definitely not compressed")); !cmp.Equal(err, codec.ErrMalformedData, cmpopts.EquateErrors()) {
				t.Errorf("Decode(garbage) error = %v, want %v", err, codec.ErrMalformedData)
			}
			if got, err := c.c.Decode(nil); err != nil || len(got) != 0 {
				t.Errorf("Decode(nil) = %q, %v, want empty, nil", got, err)
			}
		})
	}
}

func TestGZip_Interop(t *testing.T) {
	t.Parallel()

	enc, err := codec.GZip{}.Encode([]byte("hello"))
	if err != nil {
		t.Fatalf("codec.GZip{}.Encode() error = %v, want nil", err)
	}
	r, err := gzip.NewReader(bytes.NewReader(enc))
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v, want nil", err)
	}
	got, err := io.ReadAll(r)
	if err != nil || string(got) != "hello" {
		t.Errorf("gunzip = %q, %v, want \"hello\", nil", got, err)
	}
}

func TestFlateCodecs_InvalidLevel(t *testing.T) {
	t.Parallel()

	for _, c := range []codec.Codec{codec.GZip{Level: 42}, codec.Deflate{Level: -5}} {
		_, err := c.Encode([]byte("data"))
		if diff := cmp.Diff(err, errorutil.ErrInvalidArgument, cmpopts.EquateErrors()); diff != "" {
			t.Errorf("%T.Encode() error = %v, want %v\ndiff (-got +want):\n%v", c, err, errorutil.ErrInvalidArgument, diff)
		}
	}
}
