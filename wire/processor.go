package wire

import (
	"bytes"

	imap "github.com/mxproto/imapwire"
	"github.com/mxproto/imapwire/command"
	"github.com/mxproto/imapwire/response"
)

// DefaultBufferLimit is the default cap on how many bytes an unfinished
// production may hold before ProcessCommands/ProcessResponses give up with
// BufferLimitExceededError, guarding against an abusive literal or an
// excessively long line pinning unbounded memory.
const DefaultBufferLimit = 1 << 20

// Processor is the byte-to-message pipeline of spec.md section 4.5: it
// wraps a Framer and a Parser over one growing inbound buffer; the
// outbound direction is OutboundHandler's, below. It is a
// plain library type: no goroutines, no I/O, no timers. The host
// transport owns the socket and the thread; Processor only turns bytes
// into AST values and back.
//
// Each connection must own its own Processor; none of its state is safe
// to share between connections.
type Processor struct {
	framer      *Framer
	parser      *Parser
	bufferLimit int
	// consumedSyncLiterals tracks how many of the framer's confirmed
	// synchronizing-literal headers have already had a continuation sent
	// for them, so the caller can ask "how many +OK do I still owe" after
	// every Feed without double-counting.
	consumedSyncLiterals int
}

// NewProcessor returns a Processor with the given buffer limit. A limit
// of 0 uses DefaultBufferLimit.
func NewProcessor(bufferLimit int) *Processor {
	if bufferLimit <= 0 {
		bufferLimit = DefaultBufferLimit
	}
	return &Processor{
		framer:      NewFramer(),
		parser:      NewParser(nil),
		bufferLimit: bufferLimit,
	}
}

// Feed appends newly-received bytes to the processor's buffer and reruns
// the framing pre-parser over the new tail. The writer index (the end of
// the buffer) must never move backwards between calls.
func (pr *Processor) Feed(b []byte) {
	pr.framer.Feed(b)
	pr.framer.Scan()
	pr.parser.Reset(pr.framer.Buf(), pr.parser.Pos())
}

// PendingContinuations reports how many "+ OK\r\n" continuation
// responses the host still owes the peer for synchronizing literals the
// framer has confirmed but that have not yet been acknowledged via
// AckContinuation. The caller must send exactly this many, in order,
// before the peer will transmit the corresponding literal bytes.
func (pr *Processor) PendingContinuations() int {
	return pr.framer.SyncLiteralCount() - pr.consumedSyncLiterals
}

// AckContinuation records that one "+ OK\r\n" has been sent, so the same
// synchronizing literal is never counted twice.
func (pr *Processor) AckContinuation() {
	pr.consumedSyncLiterals++
}

// checkLimit enforces the buffer-limit invariant: an unfinished
// production must not be allowed to pin more than bufferLimit bytes of
// unconsumed input.
func (pr *Processor) checkLimit() error {
	if len(pr.parser.Buf())-pr.parser.Pos() > pr.bufferLimit {
		return &imap.BufferLimitExceededError{Limit: pr.bufferLimit}
	}
	return nil
}

// wrapTerminal turns a fatal parser error into the decoder error the
// pipeline contract promises the host: a copy of the offending buffer,
// not a reference, since the original stays owned by the transport.
func (pr *Processor) wrapTerminal(err error) error {
	cp := make([]byte, len(pr.parser.Buf()))
	copy(cp, pr.parser.Buf())
	return &imap.DecoderError{Err: err, BufferCopy: cp}
}

// NextCommand attempts to parse one more client command from the fed
// bytes, per the inbound-decoder contract: it returns
// imap.ErrIncompleteMessage (non-fatal, "need more bytes, call again
// later") when the buffer ends mid-production, leaving the read
// position untouched, or an *imap.DecoderError on any other failure.
// Used by a server-role host.
func (pr *Processor) NextCommand() (command.Command, error) {
	if err := pr.checkLimit(); err != nil {
		return nil, pr.wrapTerminal(err)
	}
	cmd, err := ParseCommand(pr.parser)
	if err == imap.ErrIncompleteMessage {
		return nil, err
	}
	if err != nil {
		return nil, pr.wrapTerminal(err)
	}
	return cmd, nil
}

// NextResponse attempts to parse one more server response from the fed
// bytes, mirroring NextCommand for a client-role host.
func (pr *Processor) NextResponse() (response.Response, error) {
	if err := pr.checkLimit(); err != nil {
		return nil, pr.wrapTerminal(err)
	}
	resp, err := ParseResponse(pr.parser)
	if err == imap.ErrIncompleteMessage {
		return nil, err
	}
	if err != nil {
		return nil, pr.wrapTerminal(err)
	}
	return resp, nil
}

// Pos returns the processor's current read offset into the fed bytes,
// exposed so a host can compact the buffer once every call up to this
// offset has returned non-incomplete results.
func (pr *Processor) Pos() int { return pr.parser.Pos() }

// LiteralBody returns a LiteralReader streaming the bytes at
// [offset, offset+length) of the processor's own buffer — the range a
// decoded command.LiteralRef or response.BodySectionAttr points into.
// A host handing a fetched body section or an incoming APPEND literal
// to a storage layer uses this instead of slicing the buffer directly,
// so the storage layer sees an io.Reader plus the declared size rather
// than a pointer into memory this Processor may later reuse.
func (pr *Processor) LiteralBody(offset int, length int64) *LiteralReader {
	return NewLiteralReader(bytes.NewReader(pr.parser.Buf()[offset:]), length)
}

// OutboundHandler renders command.Command values into client-sync
// chunks; it has no method for IDLE's DONE or for other raw bytes. It
// observes a capability set that may be
// swapped out between sends (e.g. after a CAPABILITY response updates
// what the peer has negotiated). It takes effect on the next encoded
// value, never retroactively.
type OutboundHandler struct {
	caps *imap.CapSet
}

// NewOutboundHandler returns an OutboundHandler with the given initial
// capability set (nil is treated as "no extended capabilities").
func NewOutboundHandler(caps *imap.CapSet) *OutboundHandler {
	return &OutboundHandler{caps: caps}
}

// SetCaps replaces the observed capability set for subsequent sends.
func (h *OutboundHandler) SetCaps(caps *imap.CapSet) { h.caps = caps }

// EncodeCommand renders cmd into a sequence of chunks; the host must
// flush each chunk and wait for a continuation response from the peer
// before sending the next one.
func (h *OutboundHandler) EncodeCommand(cmd command.Command) ([][]byte, error) {
	buf := NewClientEncodeBuffer(h.caps)
	if err := EncodeCommand(buf, cmd); err != nil {
		return nil, err
	}
	return buf.Chunks(), nil
}
