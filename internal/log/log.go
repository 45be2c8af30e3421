// Package log provides logging utilities.
package log

//go:generate go tool errtrace -w .

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"

	"github.com/ghettovoice/httphdr/internal/errorutil"
)

// maxPayloadPreview limits how many leading payload bytes are dumped into a log record.
const maxPayloadPreview = 16

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.TimeFormatter(time.RFC3339Nano, time.UTC),
	slogformatter.FormatByType(func(b []byte) slog.Value {
		n := min(len(b), maxPayloadPreview)
		return slog.GroupValue(
			slog.Int("len", len(b)),
			slog.String("head", hex.EncodeToString(b[:n])),
		)
	}),
	slogformatter.FormatByType(func(h http.Header) slog.Value {
		attrs := make([]slog.Attr, 0, len(h))
		for k, vs := range h {
			attrs = append(attrs, slog.String(k, strings.Join(vs, ", ")))
		}
		return slog.GroupValue(attrs...)
	}),
)

// Def is a default logger.
var Def = slog.New(newHandler(
	console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource:  true,
		Level:      slog.LevelInfo,
		TimeFormat: time.RFC3339Nano,
	}),
))

// Dev is a developer logger.
var Dev = slog.New(newHandler(
	devslog.NewHandler(os.Stderr, &devslog.Options{
		HandlerOptions: &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		},
		SortKeys:   true,
		TimeFormat: time.RFC3339Nano,
	}),
))

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

// Noop is a noop logger.
var Noop = slog.New(noopHandler{})

// ErrUnknownFormat is returned by [New] for an unsupported log format.
const ErrUnknownFormat errorutil.Error = "unknown log format"

// Log formats accepted by [New].
const (
	FormatConsole = "console"
	FormatDev     = "dev"
	FormatJSON    = "json"
	FormatNone    = "none"
)

// ParseLevel parses a level name like "debug" or "WARN".
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, errtrace.Wrap(errorutil.NewWrapperError(errorutil.ErrInvalidArgument, err))
	}
	return lvl, nil
}

// New builds a logger writing to w in the given format with the given minimal level.
// An empty format means [FormatConsole].
func New(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	switch strings.ToLower(format) {
	case "", FormatConsole:
		return slog.New(newHandler(console.NewHandler(w, &console.HandlerOptions{
			Level:      level,
			TimeFormat: time.RFC3339Nano,
		}))), nil
	case FormatDev:
		return slog.New(newHandler(devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     level,
			},
			SortKeys:   true,
			TimeFormat: time.RFC3339Nano,
		}))), nil
	case FormatJSON:
		return slog.New(newHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))), nil
	case FormatNone:
		return Noop, nil
	default:
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownFormat, "%q", format))
	}
}

type fmtValue struct {
	v        any
	goSyntax bool
}

func (v fmtValue) LogValue() slog.Value {
	if v.goSyntax {
		return slog.StringValue(fmt.Sprintf("%#v", v.v))
	}
	return slog.StringValue(fmt.Sprintf("%+v", v.v))
}

// FmtValue returns a value logger that formats values using '%+v' or '%#v' syntax.
func FmtValue(v any, goSyntax bool) slog.LogValuer { return fmtValue{v, goSyntax} }

type calcValue struct{ fn func() any }

func (v calcValue) LogValue() slog.Value {
	cv := v.fn()
	switch cv := cv.(type) {
	case slog.Value:
		return cv
	default:
		return slog.AnyValue(cv)
	}
}

// CalcValue returns a value logger that computes a value using a fn.
// It is handy for values that are expensive to render and are only needed at debug level.
func CalcValue(fn func() any) slog.LogValuer { return calcValue{fn} }

type stringValue[T ~string | ~[]byte] struct {
	v T
}

func (v stringValue[T]) LogValue() slog.Value {
	return slog.StringValue(string(v.v))
}

// StringValue returns a value logger that formats v as string.
func StringValue[T ~string | ~[]byte](v T) slog.LogValuer { return stringValue[T]{v} }
