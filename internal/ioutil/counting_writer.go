// Package ioutil contains writer helpers used by rendering code.
package ioutil

import (
	"fmt"
	"io"
	"sync"

	"braces.dev/errtrace"
)

// CountingWriter sums bytes written through it to the underlying writer.
// The first write error sticks: later writes are no-ops and [CountingWriter.Result]
// reports that error.
type CountingWriter struct {
	w   io.Writer
	num int
	err error
}

func NewCountingWriter(w io.Writer) *CountingWriter { return &CountingWriter{w: w} }

func (cw *CountingWriter) do(write func(w io.Writer) (int, error)) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := write(cw.w)
	cw.num += n
	if err != nil {
		cw.err = errtrace.Wrap(err)
	}
	return n, cw.err
}

func (cw *CountingWriter) Write(p []byte) (int, error) {
	return cw.do(func(w io.Writer) (int, error) { return errtrace.Wrap2(w.Write(p)) })
}

func (cw *CountingWriter) WriteString(s string) (int, error) {
	return cw.do(func(w io.Writer) (int, error) { return errtrace.Wrap2(io.WriteString(w, s)) })
}

// Fprint is fmt.Fprint over the underlying writer.
func (cw *CountingWriter) Fprint(args ...any) (int, error) {
	return cw.do(func(w io.Writer) (int, error) { return errtrace.Wrap2(fmt.Fprint(w, args...)) })
}

// CRLF ends a line.
func (cw *CountingWriter) CRLF() (int, error) { return cw.WriteString("\r\n") }

// Call runs a RenderTo-like function against the underlying writer.
func (cw *CountingWriter) Call(fn func(io.Writer) (int, error)) *CountingWriter {
	cw.do(fn) //nolint:errcheck
	return cw
}

// Result returns the byte count and the first error.
func (cw *CountingWriter) Result() (num int, err error) { return cw.num, cw.err }

var cwPool = sync.Pool{New: func() any { return new(CountingWriter) }}

func GetCountingWriter(w io.Writer) *CountingWriter {
	cw := cwPool.Get().(*CountingWriter) //nolint:forcetypeassert
	cw.w = w
	return cw
}

func FreeCountingWriter(cw *CountingWriter) {
	*cw = CountingWriter{}
	cwPool.Put(cw)
}
