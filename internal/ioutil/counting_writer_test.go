package ioutil_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ghettovoice/httphdr/internal/ioutil"
)

type limitWriter struct {
	limit int
	sb    strings.Builder
}

var errLimit = errors.New("write limit reached")

func (w *limitWriter) Write(p []byte) (int, error) {
	if w.sb.Len()+len(p) > w.limit {
		n := w.limit - w.sb.Len()
		w.sb.Write(p[:n])
		return n, errLimit
	}
	return w.sb.Write(p)
}

func TestCountingWriter(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	cw := ioutil.GetCountingWriter(&sb)
	defer ioutil.FreeCountingWriter(cw)

	cw.Fprint("Age", ": ")
	cw.WriteString("60")
	cw.Call(func(w io.Writer) (int, error) { return w.Write([]byte("\r\n")) })

	num, err := cw.Result()
	if err != nil {
		t.Fatalf("cw.Result() error = %v, want nil", err)
	}
	if got, want := sb.String(), "Age: 60\r\n"; got != want {
		t.Errorf("sb.String() = %q, want %q", got, want)
	}
	if num != len("Age: 60\r\n") {
		t.Errorf("cw.Result() num = %d, want %d", num, len("Age: 60\r\n"))
	}
}

func TestCountingWriter_StopsAfterError(t *testing.T) {
	t.Parallel()

	lw := &limitWriter{limit: 5}
	cw := ioutil.NewCountingWriter(lw)

	cw.WriteString("Date: ")
	cw.WriteString("never written")
	called := false
	cw.Call(func(io.Writer) (int, error) {
		called = true
		return 0, nil
	})

	num, err := cw.Result()
	if !errors.Is(err, errLimit) {
		t.Errorf("cw.Result() error = %v, want %v", err, errLimit)
	}
	if num != 5 {
		t.Errorf("cw.Result() num = %d, want 5", num)
	}
	if called {
		t.Error("cw.Call() invoked fn after a failed write")
	}
	if got, want := lw.sb.String(), "Date:"; got != want {
		t.Errorf("written = %q, want %q", got, want)
	}
}
