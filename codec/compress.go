package codec

import (
	"encoding/binary"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
)

const lzwAlphabet = 256

// Compress is the "compress" coding: adaptive Lempel-Ziv-Welch.
//
// The dictionary starts with all single byte values and grows by one phrase per emitted code.
// Codes are written as unsigned varints. An empty input encodes and decodes to an empty output.
type Compress struct {
	// MaxCodes limits the dictionary size, once it is reached no phrases are added.
	// Zero means unlimited. Both sides must use the same limit.
	MaxCodes int
}

func (Compress) Name() string { return "compress" }

func (c Compress) limit() (int, error) {
	if c.MaxCodes == 0 {
		return int(^uint(0) >> 1), nil
	}
	if c.MaxCodes < lzwAlphabet {
		return 0, errtrace.Wrap(errorutil.NewInvalidArgumentError("max codes %d is less than %d", c.MaxCodes, lzwAlphabet))
	}
	return c.MaxCodes, nil
}

type lzwPhrase struct {
	prefix int
	next   byte
}

func (c Compress) Encode(data []byte) ([]byte, error) {
	limit, err := c.limit()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if len(data) == 0 {
		return []byte{}, nil
	}

	dict := make(map[lzwPhrase]int)
	size := lzwAlphabet
	out := make([]byte, 0, len(data))

	cur := int(data[0])
	for _, b := range data[1:] {
		if code, ok := dict[lzwPhrase{cur, b}]; ok {
			cur = code
			continue
		}

		out = binary.AppendUvarint(out, uint64(cur))
		if size < limit {
			dict[lzwPhrase{cur, b}] = size
			size++
		}
		cur = int(b)
	}
	return binary.AppendUvarint(out, uint64(cur)), nil
}

func (c Compress) Decode(data []byte) ([]byte, error) {
	limit, err := c.limit()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if len(data) == 0 {
		return []byte{}, nil
	}

	// phrases above the alphabet, indexed by code - lzwAlphabet
	var phrases [][]byte
	phrase := func(code int) []byte {
		if code < lzwAlphabet {
			return []byte{byte(code)}
		}
		return phrases[code-lzwAlphabet]
	}

	out := make([]byte, 0, 2*len(data))
	var prev []byte
	for pos := 0; pos < len(data); {
		v, n := binary.Uvarint(data[pos:])
		if n <= 0 {
			return nil, errtrace.Wrap(newMalformedDataErr("invalid code at offset %d", pos))
		}
		pos += n

		size := lzwAlphabet + len(phrases)
		var entry []byte
		switch {
		case v < uint64(size):
			entry = phrase(int(v))
		case v == uint64(size) && prev != nil && size < limit:
			// the phrase being defined by this very code
			entry = append(append(make([]byte, 0, len(prev)+1), prev...), prev[0])
		default:
			return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrBadCompressedCode, "code %d at offset %d, dictionary size %d", v, pos-n, size))
		}

		out = append(out, entry...)
		if prev != nil && size < limit {
			phrases = append(phrases, append(append(make([]byte, 0, len(prev)+1), prev...), entry[0]))
		}
		prev = entry
	}
	return out, nil
}
