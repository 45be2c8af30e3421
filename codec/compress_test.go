package codec_test

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httphdr/codec"
	"github.com/ghettovoice/httphdr/internal/errorutil"
)

func randomBytes(n int, seed uint64) []byte {
	r := rand.New(rand.NewPCG(seed, seed))
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.UintN(256))
	}
	return b
}

func TestCompress_RoundTrip(t *testing.T) {
	t.Parallel()

	var alphabet []byte
	for range 3 {
		for c := range 256 {
			alphabet = append(alphabet, byte(c))
		}
	}

	inputs := map[string][]byte{
		"empty":         {},
		"single byte":   []byte("x"),
		"text":          []byte("TOBEORNOTTOBEORTOBEORNOT"),
		"long run":      bytes.Repeat([]byte("a"), 10000),
		"repeated runs": bytes.Repeat([]byte("abcabcabd"), 500),
		"alphabet":      alphabet,
		"random":        randomBytes(20000, 42),
	}

	for _, c := range []codec.Compress{{}, {MaxCodes: 300}, {MaxCodes: 4096}} {
		for name, in := range inputs {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				enc, err := c.Encode(in)
				if err != nil {
					t.Fatalf("Compress%+v.Encode() error = %v, want nil", c, err)
				}
				dec, err := c.Decode(enc)
				if err != nil {
					t.Fatalf("Compress%+v.Decode() error = %v, want nil", c, err)
				}
				if diff := cmp.Diff(dec, in, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("Compress%+v round trip mismatch (-got +want):\n%v", c, diff)
				}
			})
		}
	}
}

func TestCompress_Encode(t *testing.T) {
	t.Parallel()

	// codes 65 66 256 258, the last one is defined by itself
	want := []byte{0x41, 0x42, 0x80, 0x02, 0x82, 0x02}
	got, err := codec.Compress{}.Encode([]byte("ABABABA"))
	if err != nil {
		t.Fatalf("codec.Compress{}.Encode() error = %v, want nil", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("codec.Compress{}.Encode(\"ABABABA\") = %x, want %x", got, want)
	}

	long := bytes.Repeat([]byte("a"), 10000)
	enc, _ := codec.Compress{}.Encode(long)
	if len(enc) >= len(long)/10 {
		t.Errorf("len(Encode(long run)) = %d, want less than %d", len(enc), len(long)/10)
	}
}

func TestCompress_Decode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		c       codec.Compress
		in      []byte
		want    []byte
		wantErr error
	}{
		{"empty", codec.Compress{}, nil, []byte{}, nil},
		{"self-defined code", codec.Compress{}, []byte{0x41, 0x42, 0x80, 0x02, 0x82, 0x02}, []byte("ABABABA"), nil},
		{"unknown code", codec.Compress{}, []byte{0x41, 0x90, 0x03}, nil, codec.ErrBadCompressedCode},
		{"first code is a phrase", codec.Compress{}, []byte{0x80, 0x02}, nil, codec.ErrBadCompressedCode},
		{"truncated code", codec.Compress{}, []byte{0x41, 0x80}, nil, codec.ErrMalformedData},
		{"code over the limit", codec.Compress{MaxCodes: 256}, []byte{0x41, 0x42, 0x80, 0x02}, nil, codec.ErrBadCompressedCode},
		{"limit too small", codec.Compress{MaxCodes: 10}, []byte{0x41}, nil, errorutil.ErrInvalidArgument},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.c.Decode(c.in)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("Decode(%x) error = %v, want %v\ndiff (-got +want):\n%v", c.in, err, c.wantErr, diff)
			}
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("Decode(%x) = %q, want %q\ndiff (-got +want):\n%v", c.in, got, c.want, diff)
			}
		})
	}
}
