package header

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/log"
	"github.com/ghettovoice/httphdr/internal/util"
)

// ParserOptions configures a [Parser].
type ParserOptions struct {
	// Direction is the kind of the message the fields belong to.
	// Zero value disables direction checks.
	Direction Direction
	// Version is the protocol version of the message.
	Version Version
	// Strict makes the parser fail on any invalid field.
	// Otherwise invalid fields are logged and skipped, and fields of a wrong direction are kept.
	Strict bool
	// Logger is used to log skipped fields.
	// If nil, [log.Def] is used.
	Logger *slog.Logger
}

func (o *ParserOptions) log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return log.Def
	}
	return o.Logger
}

// Parser parses field sections: "Name: value" lines terminated by an empty line or EOF.
type Parser struct {
	opts ParserOptions
	log  *slog.Logger
}

// NewParser creates a new parser.
func NewParser(opts *ParserOptions) *Parser {
	p := &Parser{log: opts.log()}
	if opts != nil {
		p.opts = *opts
	}
	return p
}

// ParseBytes parses a field section from a byte slice.
func (p *Parser) ParseBytes(data []byte) (*List, error) {
	return errtrace.Wrap2(p.Parse(bytes.NewReader(data)))
}

// Parse reads a field section from r.
// Lines may end with CRLF or LF, obsolete line folding is replaced with a single space.
func (p *Parser) Parse(r io.Reader) (*List, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	var (
		list = new(List)
		errs []error
	)
	for _, line := range lines {
		hdr, err := p.parseField(line)
		if err != nil {
			if p.opts.Strict {
				errs = append(errs, err)
				continue
			}
			p.log.Warn("skip invalid header field", slog.String("line", line), slog.Any("error", err))
			continue
		}
		list.Add(hdr) //nolint:errcheck
	}
	if err := errorutil.JoinPrefix("parse fields:", errs...); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return list, nil
}

func (p *Parser) parseField(line string) (Header, error) {
	name, value, err := splitLine(line)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	k, err := Lookup(name)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if !IsBuiltin(name) {
		p.log.Debug("no typed key for header, fallback to text", slog.Any("name", k.Name()))
	}

	if d := p.opts.Direction; d != 0 && !k.Direction().Allows(d) {
		err := errorutil.NewWrapperError(ErrWrongDirection, "%s in %s message", k.Name(), d)
		if p.opts.Strict {
			return nil, errtrace.Wrap(err)
		}
		p.log.Warn("header used in wrong direction", slog.Any("name", k.Name()), slog.Any("direction", d))
	}

	hdr, err := k.ParseHeader(p.opts.Version, value)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return hdr, nil
}

func splitLine(line string) (name, value string, err error) {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", errtrace.Wrap(newMalformedValueErr("missing colon in %q", line))
	}
	if n := Name(name); !n.IsValid() {
		return "", "", errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidName, "%q", name))
	}
	return name, util.TrimOWS(value), nil
}

func readLines(r io.Reader) ([]string, error) {
	var (
		lines []string
		br    = bufio.NewReader(r)
	)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, errtrace.Wrap(err)
		}

		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			return lines, nil
		}
		if trimmed[0] == ' ' || trimmed[0] == '\t' {
			if len(lines) == 0 {
				return nil, errtrace.Wrap(newMalformedValueErr("continuation line without a field"))
			}
			lines[len(lines)-1] += " " + util.TrimOWS(trimmed)
		} else {
			lines = append(lines, trimmed)
		}

		if errors.Is(err, io.EOF) {
			return lines, nil
		}
	}
}

// Render writes a field section to w for the protocol version, terminated by an empty line.
// Connection-specific fields fail for HTTP/2 and HTTP/3.
func Render(w io.Writer, hs Headers, v Version) (num int, err error) {
	opts := &RenderOptions{Version: v}
	for _, hdr := range hs.All() {
		if err := hdr.Key().CheckVersion(v); err != nil {
			return 0, errtrace.Wrap(err)
		}
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.Call(func(w io.Writer) (int, error) { return errtrace.Wrap2(hs.RenderTo(w, opts)) })
	cw.CRLF() //nolint:errcheck
	return errtrace.Wrap2(cw.Result())
}
