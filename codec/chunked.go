package codec

import (
	"bytes"
	"log/slog"
	"slices"
	"strconv"

	"braces.dev/errtrace"
	"github.com/qmuntal/stateless"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/log"
	"github.com/ghettovoice/httphdr/internal/util"
)

// DefaultSliceSize is the chunk size used by [Chunked] with zero SliceSize.
const DefaultSliceSize = 4096

// Chunked is the "chunked" transfer coding (RFC 9112 section 7.1).
//
// Encode splits data into chunks of at most SliceSize bytes, followed by the last chunk
// and the trailer section. Decode accepts chunk extensions and bare LF line endings,
// chunk extensions are ignored.
type Chunked struct {
	// SliceSize is the maximum size of chunk data.
	// Zero selects [DefaultSliceSize].
	SliceSize int
	// Trailers are sent after the last chunk by Encode.
	// They must not be mutated while the codec is in use, see [header.List.Freeze].
	Trailers header.Headers
	// Parser configures parsing of the trailer section by Decode.
	// If nil, invalid trailer fields are logged and skipped.
	Parser *header.ParserOptions
}

func (Chunked) Name() string { return "chunked" }

func (c Chunked) sliceSize() (int, error) {
	switch {
	case c.SliceSize == 0:
		return DefaultSliceSize, nil
	case c.SliceSize < 0:
		return 0, errtrace.Wrap(errorutil.NewInvalidArgumentError("slice size %d", c.SliceSize))
	default:
		return c.SliceSize, nil
	}
}

func (c Chunked) Encode(data []byte) ([]byte, error) {
	size, err := c.sliceSize()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	buf := util.GetBytesBuffer()
	defer util.FreeBytesBuffer(buf)

	for chunk := range slices.Chunk(data, size) {
		buf.WriteString(strconv.FormatInt(int64(len(chunk)), 16))
		buf.WriteString("\r\n")
		buf.Write(chunk)
		buf.WriteString("\r\n")
	}
	buf.WriteString("0\r\n")

	if c.Trailers == nil || c.Trailers.Len() == 0 {
		buf.WriteString("\r\n")
		return util.CloneBytes(buf.Bytes()), nil
	}
	for _, hdr := range c.Trailers.All() {
		if err := checkTrailerField(hdr); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	if _, err := header.Render(buf, c.Trailers, header.HTTP11); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return util.CloneBytes(buf.Bytes()), nil
}

// Decode decodes chunked data, the trailer section is parsed and dropped.
// Use [DecodeChunked] to get the trailer fields.
func (c Chunked) Decode(data []byte) ([]byte, error) {
	body, _, err := DecodeChunked(data, c.Parser)
	return body, errtrace.Wrap(err)
}

type chunkState string

const (
	chunkStateSize    chunkState = "size"
	chunkStateData    chunkState = "data"
	chunkStateTrailer chunkState = "trailer"
	chunkStateDone    chunkState = "done"
)

const (
	chunkEvtSize = "chunk_size"
	chunkEvtLast = "last_chunk"
	chunkEvtData = "chunk_data"
	chunkEvtEnd  = "trailer_end"
)

func newChunkFSM() *stateless.StateMachine {
	fsm := stateless.NewStateMachine(chunkStateSize)
	fsm.Configure(chunkStateSize).
		Permit(chunkEvtSize, chunkStateData).
		Permit(chunkEvtLast, chunkStateTrailer)
	fsm.Configure(chunkStateData).
		Permit(chunkEvtData, chunkStateSize)
	fsm.Configure(chunkStateTrailer).
		Permit(chunkEvtEnd, chunkStateDone)
	return fsm
}

type chunkDecoder struct {
	fsm     *stateless.StateMachine
	data    []byte
	pos     int
	size    int
	body    []byte
	trailer []byte
}

// DecodeChunked decodes chunked data and returns the body and the trailer fields.
// Trailer fields are parsed with opts. Built-in fields not allowed in a trailer section
// fail in strict mode and are skipped otherwise, extension fields are always accepted.
func DecodeChunked(data []byte, opts *header.ParserOptions) ([]byte, *header.List, error) {
	d := &chunkDecoder{
		fsm:  newChunkFSM(),
		data: data,
		body: make([]byte, 0, len(data)),
	}
	if err := d.run(); err != nil {
		return nil, nil, errtrace.Wrap(err)
	}

	trailers, err := parseTrailers(d.trailer, opts)
	if err != nil {
		return nil, nil, errtrace.Wrap(err)
	}
	return d.body, trailers, nil
}

func (d *chunkDecoder) run() error {
	for {
		var (
			evt string
			err error
		)
		switch d.fsm.MustState().(chunkState) { //nolint:forcetypeassert
		case chunkStateSize:
			evt, err = d.readSize()
		case chunkStateData:
			evt, err = d.readData()
		case chunkStateTrailer:
			evt, err = d.readTrailer()
		case chunkStateDone:
			if d.pos != len(d.data) {
				return errtrace.Wrap(newMalformedDataErr("%d bytes after the trailer section", len(d.data)-d.pos))
			}
			return nil
		}
		if err != nil {
			return errtrace.Wrap(err)
		}
		if err := d.fsm.Fire(evt); err != nil {
			return errtrace.Wrap(newMalformedDataErr(err))
		}
	}
}

// readLine returns the next line without CRLF or LF.
func (d *chunkDecoder) readLine() ([]byte, error) {
	i := bytes.IndexByte(d.data[d.pos:], '\n')
	if i < 0 {
		return nil, errtrace.Wrap(newMalformedDataErr("unexpected end of chunked data at offset %d", d.pos))
	}
	line := d.data[d.pos : d.pos+i]
	d.pos += i + 1
	return bytes.TrimSuffix(line, []byte("\r")), nil
}

// chunk = chunk-size [ chunk-ext ] CRLF chunk-data CRLF
// last-chunk = 1*("0") [ chunk-ext ] CRLF
func (d *chunkDecoder) readSize() (string, error) {
	from := d.pos
	line, err := d.readLine()
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	if i := bytes.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = bytes.TrimRight(line, " \t")

	n, err := strconv.ParseUint(string(line), 16, 63)
	if err != nil {
		return "", errtrace.Wrap(newMalformedDataErr("invalid chunk size %q at offset %d", line, from))
	}
	if n == 0 {
		return chunkEvtLast, nil
	}
	if n > uint64(len(d.data)-d.pos) {
		return "", errtrace.Wrap(newMalformedDataErr("chunk size %d exceeds remaining %d bytes", n, len(d.data)-d.pos))
	}
	d.size = int(n)
	return chunkEvtSize, nil
}

func (d *chunkDecoder) readData() (string, error) {
	d.body = append(d.body, d.data[d.pos:d.pos+d.size]...)
	d.pos += d.size
	d.size = 0

	from := d.pos
	line, err := d.readLine()
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	if len(line) != 0 {
		return "", errtrace.Wrap(newMalformedDataErr("missing CRLF after chunk data at offset %d", from))
	}
	return chunkEvtData, nil
}

// trailer-section = *( field-line CRLF ) CRLF
func (d *chunkDecoder) readTrailer() (string, error) {
	from := d.pos
	for {
		end := d.pos
		line, err := d.readLine()
		if err != nil {
			return "", errtrace.Wrap(err)
		}
		if len(line) == 0 {
			d.trailer = d.data[from:end]
			return chunkEvtEnd, nil
		}
	}
}

func parseTrailers(data []byte, opts *header.ParserOptions) (*header.List, error) {
	if len(data) == 0 {
		return new(header.List), nil
	}

	p := header.NewParser(opts)
	hs, err := p.ParseBytes(data)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	logger := log.Def
	if opts != nil && opts.Logger != nil {
		logger = opts.Logger
	}
	strict := opts != nil && opts.Strict

	var errs []error
	for _, name := range hs.Names() {
		hdr, _ := hs.First(name)
		if err := checkTrailerField(hdr); err != nil {
			if strict {
				errs = append(errs, err)
				continue
			}
			logger.Warn("skip field not allowed in trailer section", slog.Any("name", name), slog.Any("error", err))
			hs.Remove(name) //nolint:errcheck
		}
	}
	if err := errorutil.JoinPrefix("parse trailer section:", errs...); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return hs, nil
}

// checkTrailerField rejects built-in fields outside of the trailer categories.
func checkTrailerField(hdr header.Header) error {
	if !header.IsBuiltin(hdr.Name()) {
		return nil
	}
	return errtrace.Wrap(header.AllowedInTrailer(hdr.Key()))
}
