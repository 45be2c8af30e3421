package errorutil_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httphdr/internal/errorutil"
)

const errTest errorutil.Error = "test error"

func TestNewWrapperError(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	cases := []struct {
		name    string
		args    []any
		wantMsg string
	}{
		{"no args", nil, "test error"},
		{"error", []any{inner}, "test error: inner"},
		{"wrapped error", []any{fmt.Errorf("x: %w", errTest)}, "x: test error"},
		{"string", []any{"bad thing"}, "test error: bad thing"},
		{"format", []any{"bad %s %d", "thing", 2}, "test error: bad thing 2"},
		{"unknown", []any{42}, "test error"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			err := errorutil.NewWrapperError(errTest, c.args...)
			if got := err.Error(); got != c.wantMsg {
				t.Errorf("err.Error() = %q, want %q", got, c.wantMsg)
			}
			if diff := cmp.Diff(err, error(errTest), cmpopts.EquateErrors()); diff != "" {
				t.Errorf("errors.Is(err, errTest) = false\ndiff (-got +want):\n%v", diff)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	if err := errorutil.Join(nil, nil); err != nil {
		t.Errorf("errorutil.Join(nil, nil) = %v, want nil", err)
	}
	if err := errorutil.Join(nil, errTest); err != errTest { //nolint:errorlint
		t.Errorf("errorutil.Join(nil, errTest) = %v, want %v", err, errTest)
	}

	e1 := errors.New("first")
	err := errorutil.JoinPrefix("parse fields:", e1, errTest)
	if !errors.Is(err, e1) || !errors.Is(err, errTest) {
		t.Errorf("errorutil.JoinPrefix() = %v, want to wrap both errors", err)
	}
	if got, want := err.Error(), "parse fields:\n  - first\n  - test error"; got != want {
		t.Errorf("err.Error() = %q, want %q", got, want)
	}

	err = errorutil.JoinPrefix("single", e1)
	if got, want := err.Error(), "single: first"; got != want {
		t.Errorf("err.Error() = %q, want %q", got, want)
	}
}
