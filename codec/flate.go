package codec

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

func checkLevel(lvl int) (int, error) {
	if lvl == 0 {
		return flate.DefaultCompression, nil
	}
	if lvl < flate.HuffmanOnly || lvl > flate.BestCompression {
		return 0, errtrace.Wrap(errorutil.NewInvalidArgumentError("compression level %d", lvl))
	}
	return lvl, nil
}

func compressWith(data []byte, newWriter func(io.Writer) (io.WriteCloser, error)) ([]byte, error) {
	buf := util.GetBytesBuffer()
	defer util.FreeBytesBuffer(buf)

	w, err := newWriter(buf)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, errtrace.Wrap(err)
	}
	if err := w.Close(); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return util.CloneBytes(buf.Bytes()), nil
}

func decompressWith(name string, data []byte, newReader func(io.Reader) (io.ReadCloser, error)) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	r, err := newReader(bytes.NewReader(data))
	if err != nil {
		return nil, errtrace.Wrap(newMalformedDataErr("%s: %s", name, err))
	}
	defer r.Close() //nolint:errcheck

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errtrace.Wrap(newMalformedDataErr("%s: %s", name, err))
	}
	return out, nil
}

// GZip is the "gzip" coding (RFC 1952).
// An empty input decodes to an empty output.
type GZip struct {
	// Level is a compress/flate compression level.
	// Zero selects [flate.DefaultCompression].
	Level int
}

func (GZip) Name() string { return "gzip" }

func (c GZip) Encode(data []byte) ([]byte, error) {
	lvl, err := checkLevel(c.Level)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(compressWith(data, func(w io.Writer) (io.WriteCloser, error) {
		return errtrace.Wrap2(gzip.NewWriterLevel(w, lvl))
	}))
}

func (c GZip) Decode(data []byte) ([]byte, error) {
	return errtrace.Wrap2(decompressWith(c.Name(), data, func(r io.Reader) (io.ReadCloser, error) {
		return errtrace.Wrap2(gzip.NewReader(r))
	}))
}

// Deflate is the "deflate" coding: a zlib stream (RFC 1950) of deflate-compressed data (RFC 1951).
// An empty input decodes to an empty output.
type Deflate struct {
	// Level is a compress/flate compression level.
	// Zero selects [flate.DefaultCompression].
	Level int
}

func (Deflate) Name() string { return "deflate" }

func (c Deflate) Encode(data []byte) ([]byte, error) {
	lvl, err := checkLevel(c.Level)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(compressWith(data, func(w io.Writer) (io.WriteCloser, error) {
		return errtrace.Wrap2(zlib.NewWriterLevel(w, lvl))
	}))
}

func (c Deflate) Decode(data []byte) ([]byte, error) {
	return errtrace.Wrap2(decompressWith(c.Name(), data, zlib.NewReader))
}
