package wire

import (
	"bytes"
	"io"
)

// LiteralReader wraps a reader with literal metadata.
type LiteralReader struct {
	io.Reader
	Size    int64
	NonSync bool
	Binary  bool
}

// NewLiteralReader creates a new LiteralReader.
func NewLiteralReader(r io.Reader, size int64) *LiteralReader {
	return &LiteralReader{
		Reader: io.LimitReader(r, size),
		Size:   size,
	}
}

// LiteralWriter manages writing a literal value.
type LiteralWriter struct {
	w       io.Writer
	size    int64
	written int64
}

// NewLiteralWriter creates a new LiteralWriter for writing exactly size bytes.
func NewLiteralWriter(w io.Writer, size int64) *LiteralWriter {
	return &LiteralWriter{
		w:    w,
		size: size,
	}
}

// Write writes data to the literal. Bytes beyond the declared size are
// dropped without an error; the returned count covers only the bytes
// actually written.
func (lw *LiteralWriter) Write(p []byte) (int, error) {
	remaining := lw.size - lw.written
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := lw.w.Write(p)
	lw.written += int64(n)
	return n, err
}

// Remaining returns the number of bytes remaining to write.
func (lw *LiteralWriter) Remaining() int64 {
	return lw.size - lw.written
}

// Done returns true if all bytes have been written.
func (lw *LiteralWriter) Done() bool {
	return lw.written >= lw.size
}

// CollectLiteral reads exactly size bytes from r into a freshly
// allocated slice suitable for a command.LiteralRef's Data field, using
// a LiteralWriter so a source that tries to supply more than size bytes
// (a caller-given io.Reader whose declared length can't be trusted) is
// truncated rather than overrunning the literal. It is the outbound
// counterpart of LiteralReader: building an APPEND literal from a
// stream instead of an in-memory []byte.
func CollectLiteral(r io.Reader, size int64) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(size))
	lw := NewLiteralWriter(&buf, size)
	if _, err := io.CopyN(lw, r, size); err != nil {
		return nil, err
	}
	if !lw.Done() {
		return nil, io.ErrUnexpectedEOF
	}
	return buf.Bytes(), nil
}
