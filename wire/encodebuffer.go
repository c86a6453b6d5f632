package wire

import (
	"strconv"
	"time"

	imap "github.com/mxproto/imapwire"
)

// Mode selects how an EncodeBuffer splits its output around literals.
type Mode int

const (
	// ModeServer renders a single flat byte sequence: a server never
	// waits for a continuation before sending its own literals, so there
	// is nothing to chunk around.
	ModeServer Mode = iota
	// ModeClientSync renders a sequence of chunks split at every
	// synchronizing-literal boundary: the caller must flush each chunk
	// and wait for a "+" continuation response before sending the next
	// one (RFC 3501 section 7.5).
	ModeClientSync
)

// EncodeBuffer accumulates the wire bytes of one command or response.
// It mirrors the teacher encoder's fluent, chain-returning method style,
// generalized to two concerns the original single-shot Encoder did not
// need: capability-gated literal selection (BINARY, LITERAL+/LITERAL-)
// and client-sync chunk splitting.
type EncodeBuffer struct {
	mode  Mode
	caps  *imap.CapSet
	cur   []byte
	chunks [][]byte
}

// NewServerEncodeBuffer returns an EncodeBuffer in ModeServer: one flat
// sequence, literals are never synchronizing since a server is never the
// party waiting for "+"  (RFC 3501 section 7.5 only obligates the
// command sender to wait).
func NewServerEncodeBuffer() *EncodeBuffer {
	return &EncodeBuffer{mode: ModeServer}
}

// NewClientEncodeBuffer returns an EncodeBuffer in ModeClientSync, gating
// literal selection on the capabilities the client has observed from the
// server (BINARY, LITERAL+, LITERAL-). A nil caps is treated as no
// extended capabilities: every literal is synchronizing and every binary
// payload still renders as a literal (never "~{n}") since the peer has
// not advertised BINARY.
func NewClientEncodeBuffer(caps *imap.CapSet) *EncodeBuffer {
	return &EncodeBuffer{mode: ModeClientSync, caps: caps}
}

func (e *EncodeBuffer) has(c imap.Cap) bool {
	return e.caps != nil && e.caps.Has(c)
}

// Bytes returns the single flat rendering of a ModeServer buffer. It
// panics if called in ModeClientSync; use Chunks instead.
func (e *EncodeBuffer) Bytes() []byte {
	if e.mode != ModeServer {
		panic("wire: Bytes called on a client-sync EncodeBuffer; use Chunks")
	}
	return e.cur
}

// Chunks returns the sequence of byte slices a ModeClientSync buffer
// must be sent as: every element but the last ends just after a
// synchronizing literal's "{n}\r\n" header, and the caller must receive a
// continuation response before sending the next element.
func (e *EncodeBuffer) Chunks() [][]byte {
	if len(e.cur) > 0 || len(e.chunks) == 0 {
		return append(e.chunks, e.cur)
	}
	return e.chunks
}

func (e *EncodeBuffer) write(b []byte) {
	e.cur = append(e.cur, b...)
}

func (e *EncodeBuffer) writeString(s string) {
	e.cur = append(e.cur, s...)
}

func (e *EncodeBuffer) writeByte(b byte) {
	e.cur = append(e.cur, b)
}

// breakChunk ends the current chunk, used right after a synchronizing
// literal header in ModeClientSync.
func (e *EncodeBuffer) breakChunk() {
	e.chunks = append(e.chunks, e.cur)
	e.cur = nil
}

// Raw writes bytes verbatim.
func (e *EncodeBuffer) Raw(data []byte) *EncodeBuffer {
	e.write(data)
	return e
}

// RawString writes a string verbatim.
func (e *EncodeBuffer) RawString(s string) *EncodeBuffer {
	e.writeString(s)
	return e
}

// Atom writes s as a bare atom, with no validation: callers must only
// pass strings already known to satisfy the atom grammar.
func (e *EncodeBuffer) Atom(s string) *EncodeBuffer {
	e.writeString(s)
	return e
}

// SP writes a single space.
func (e *EncodeBuffer) SP() *EncodeBuffer {
	e.writeByte(' ')
	return e
}

// CRLF writes a CRLF.
func (e *EncodeBuffer) CRLF() *EncodeBuffer {
	e.writeString("\r\n")
	return e
}

// QuotedString writes s as a quoted string, escaping quote-specials.
func (e *EncodeBuffer) QuotedString(s string) *EncodeBuffer {
	e.writeByte('"')
	for i := 0; i < len(s); i++ {
		if IsQuotedSpecial(s[i]) {
			e.writeByte('\\')
		}
		e.writeByte(s[i])
	}
	e.writeByte('"')
	return e
}

// String writes s using the smallest form the wire allows: a bare atom
// when possible, else a quoted string, else a literal (synchronizing or
// not, per mode and negotiated capabilities).
func (e *EncodeBuffer) String(s string) *EncodeBuffer {
	if NeedsLiteral(s) {
		return e.Literal([]byte(s))
	}
	if NeedsQuoting(s) {
		return e.QuotedString(s)
	}
	return e.Atom(s)
}

// AString writes s as an astring (atom or string).
func (e *EncodeBuffer) AString(s string) *EncodeBuffer {
	return e.String(s)
}

// NString writes s as an nstring: NIL if nil, else a string.
func (e *EncodeBuffer) NString(s *string) *EncodeBuffer {
	if s == nil {
		return e.Nil()
	}
	return e.String(*s)
}

// Nil writes the NIL atom.
func (e *EncodeBuffer) Nil() *EncodeBuffer {
	e.writeString("NIL")
	return e
}

// Number writes an unsigned 32-bit number.
func (e *EncodeBuffer) Number(n uint32) *EncodeBuffer {
	e.writeString(strconv.FormatUint(uint64(n), 10))
	return e
}

// Number64 writes an unsigned 64-bit number.
func (e *EncodeBuffer) Number64(n uint64) *EncodeBuffer {
	e.writeString(strconv.FormatUint(n, 10))
	return e
}

// literalHeader writes the "{n}"/"{n+}"/"~{n}"/"~{n+}" header, choosing
// the synchronizing marker per mode and the binary marker when data
// contains a NUL and the peer has negotiated BINARY.
func (e *EncodeBuffer) literalHeader(n int, binary, forceNonSync bool) (nonSync bool) {
	if binary {
		e.writeByte('~')
	}
	e.writeByte('{')
	e.writeString(strconv.Itoa(n))
	nonSync = forceNonSync || e.mode == ModeServer || e.has(imap.CapLiteralPlus) ||
		(e.has(imap.CapLiteralMinus) && n <= 4096)
	if nonSync {
		e.writeByte('+')
	}
	e.writeByte('}')
	e.writeString("\r\n")
	return nonSync
}

// Literal writes data as a literal, using a binary literal ("~{n}") if
// data contains a NUL and BINARY has been negotiated. In
// ModeClientSync, a synchronizing literal ends the current chunk so the
// caller can wait for "+" before writing more.
func (e *EncodeBuffer) Literal(data []byte) *EncodeBuffer {
	binary := e.has(imap.CapBinary) && needsBinaryLiteral(data)
	nonSync := e.literalHeader(len(data), binary, false)
	if e.mode == ModeClientSync && !nonSync {
		e.breakChunk()
	}
	e.write(data)
	return e
}

// LiteralNonSync writes data as an explicitly non-synchronizing literal
// ("{n+}"), used by LITERAL+ regardless of size, or by LITERAL- for
// payloads within its 4096-byte cap.
func (e *EncodeBuffer) LiteralNonSync(data []byte) *EncodeBuffer {
	e.literalHeader(len(data), false, true)
	e.write(data)
	return e
}

// BeginList writes an opening parenthesis.
func (e *EncodeBuffer) BeginList() *EncodeBuffer {
	e.writeByte('(')
	return e
}

// EndList writes a closing parenthesis.
func (e *EncodeBuffer) EndList() *EncodeBuffer {
	e.writeByte(')')
	return e
}

// List writes a parenthesized, space-separated list of strings, each
// rendered via String.
func (e *EncodeBuffer) List(items []string) *EncodeBuffer {
	e.BeginList()
	for i, item := range items {
		if i > 0 {
			e.SP()
		}
		e.String(item)
	}
	return e.EndList()
}

// Flags writes a parenthesized list of flags.
func (e *EncodeBuffer) Flags(flags []imap.Flag) *EncodeBuffer {
	e.BeginList()
	for i, f := range flags {
		if i > 0 {
			e.SP()
		}
		e.Atom(string(f))
	}
	return e.EndList()
}

// Date writes t as a quoted bare date.
func (e *EncodeBuffer) Date(t time.Time) *EncodeBuffer {
	return e.QuotedString(imap.FormatDate(t))
}

// DateTime writes t as a quoted INTERNALDATE.
func (e *EncodeBuffer) DateTime(t time.Time) *EncodeBuffer {
	return e.QuotedString(imap.FormatInternalDate(t))
}

// Tag writes a command tag verbatim.
func (e *EncodeBuffer) Tag(tag string) *EncodeBuffer {
	e.writeString(tag)
	return e
}

// Star writes the untagged-response prefix "* ".
func (e *EncodeBuffer) Star() *EncodeBuffer {
	e.writeString("* ")
	return e
}

// Plus writes the continuation-request prefix "+ ".
func (e *EncodeBuffer) Plus() *EncodeBuffer {
	e.writeString("+ ")
	return e
}

// MailboxName writes a mailbox name, rendering INBOX as the bare atom
// (case-preserved exactly, since RFC 3501 section 5.1 requires clients
// send "INBOX" case-insensitively but servers canonically echo it as
// the all-caps atom) and anything else as an astring.
func (e *EncodeBuffer) MailboxName(name imap.MailboxName) *EncodeBuffer {
	if name.IsInbox() {
		return e.Atom("INBOX")
	}
	return e.AString(string(name))
}

// ResponseCode writes "[code arg1 arg2 ...]", with no trailing space —
// callers that follow it with more content must add their own SP.
func (e *EncodeBuffer) ResponseCode(code string, args ...string) *EncodeBuffer {
	e.writeString("[")
	e.writeString(code)
	for _, a := range args {
		e.writeByte(' ')
		e.writeString(a)
	}
	e.writeString("]")
	return e
}
