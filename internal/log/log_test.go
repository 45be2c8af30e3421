package log_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ghettovoice/httphdr/internal/log"
)

func TestNew(t *testing.T) {
	t.Parallel()

	cases := []struct {
		format  string
		wantErr error
	}{
		{"", nil},
		{"console", nil},
		{"DEV", nil},
		{"json", nil},
		{"none", nil},
		{"xml", log.ErrUnknownFormat},
	}
	for _, c := range cases {
		t.Run(c.format, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l, err := log.New(&buf, c.format, slog.LevelInfo)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("log.New(w, %q, info) error = %v, want %v", c.format, err, c.wantErr)
			}
			if err == nil && l == nil {
				t.Fatalf("log.New(w, %q, info) returned nil logger", c.format)
			}
		})
	}
}

func TestNew_JSONPayload(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := log.New(&buf, log.FormatJSON, slog.LevelDebug)
	if err != nil {
		t.Fatalf("log.New() error = %v, want nil", err)
	}
	l.Debug("payload", "data", []byte("hello"), "val", log.StringValue([]byte("abc")))

	out := buf.String()
	for _, want := range []string{`"len":5`, `"head":"68656c6c6f"`, `"val":"abc"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q does not contain %q", out, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	if lvl, err := log.ParseLevel("warn"); err != nil || lvl != slog.LevelWarn {
		t.Errorf("log.ParseLevel(\"warn\") = %v, %v, want WARN, nil", lvl, err)
	}
	if _, err := log.ParseLevel("loud"); err == nil {
		t.Error("log.ParseLevel(\"loud\") error = nil, want error")
	}
}

func TestNoop(t *testing.T) {
	t.Parallel()

	if log.Noop.Enabled(t.Context(), slog.LevelError) {
		t.Error("log.Noop.Enabled(error) = true, want false")
	}
}
