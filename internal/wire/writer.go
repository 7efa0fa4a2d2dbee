package wire

import (
	"bufio"
	"fmt"
	"io"
)

// Writer encodes RESP values. The server only ever emits a single bulk
// string per response (the JSON envelope), but the full vocabulary below
// is retained so the encoder remains genuinely Redis-compatible for
// diagnostic tooling that might probe the listener directly.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter wraps w in a buffered RESP writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteBulkString writes a single bulk string reply and flushes it. This is
// the only reply type the dispatcher-facing server actually sends.
func (w *Writer) WriteBulkString(data []byte) error {
	if _, err := fmt.Fprintf(w.bw, "$%d\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.bw.Write(data); err != nil {
		return err
	}
	if _, err := w.bw.WriteString("\r\n"); err != nil {
		return err
	}
	return w.bw.Flush()
}

// WriteNil writes a null bulk string reply.
func (w *Writer) WriteNil() error {
	if _, err := w.bw.WriteString("$-1\r\n"); err != nil {
		return err
	}
	return w.bw.Flush()
}

// WriteSimpleString writes a status reply (e.g. "+OK\r\n").
func (w *Writer) WriteSimpleString(s string) error {
	if _, err := fmt.Fprintf(w.bw, "+%s\r\n", s); err != nil {
		return err
	}
	return w.bw.Flush()
}

// WriteInteger writes an integer reply.
func (w *Writer) WriteInteger(n int64) error {
	if _, err := fmt.Fprintf(w.bw, ":%d\r\n", n); err != nil {
		return err
	}
	return w.bw.Flush()
}

// WriteError writes a RESP error reply ("-ERR <msg>\r\n").
func (w *Writer) WriteError(msg string) error {
	if _, err := fmt.Fprintf(w.bw, "-ERR %s\r\n", msg); err != nil {
		return err
	}
	return w.bw.Flush()
}

// WriteArray writes an array of bulk strings, flushed as a single batch.
func (w *Writer) WriteArray(elems [][]byte) error {
	if _, err := fmt.Fprintf(w.bw, "*%d\r\n", len(elems)); err != nil {
		return err
	}
	for _, e := range elems {
		if _, err := fmt.Fprintf(w.bw, "$%d\r\n", len(e)); err != nil {
			return err
		}
		if _, err := w.bw.Write(e); err != nil {
			return err
		}
		if _, err := w.bw.WriteString("\r\n"); err != nil {
			return err
		}
	}
	return w.bw.Flush()
}
