// Command imapcat is a roundtrip testing harness, deliberately outside
// the core library (spec.md section 6): it reads IMAP traffic from
// stdin, decodes it with wire.Processor, re-encodes each decoded value,
// and writes the canonical bytes to stdout. If the re-encoded bytes
// differ from the input by more than the canonicalizations the encoder
// is allowed to apply, it logs a warning to stderr. It does no
// networking of its own; stdin/stdout stand in for the two directions
// of a connection the host transport would otherwise own.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	imap "github.com/mxproto/imapwire"
	"github.com/mxproto/imapwire/wire"
)

func main() {
	mode := flag.String("mode", "command", "what stdin carries: \"command\" (client traffic) or \"response\" (server traffic)")
	flag.Parse()

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("imapcat: read stdin: %v", err)
	}

	var handler func([]byte) error
	switch *mode {
	case "command":
		handler = commandHandler
	case "response":
		handler = responseHandler
	default:
		log.Fatalf("imapcat: unknown -mode %q", *mode)
	}
	if err := handler(data); err != nil {
		log.Fatalf("imapcat: %v", err)
	}
}

// commandHandler decodes client commands and re-encodes them in
// ModeServer (flat, no chunk splitting — a server never needs to wait
// for its own literals).
func commandHandler(data []byte) error {
	pr := wire.NewProcessor(0)
	pr.Feed(data)
	pos := 0
	for {
		start := pr.Pos()
		cmd, err := pr.NextCommand()
		if err == imap.ErrIncompleteMessage {
			break
		}
		if err != nil {
			return fmt.Errorf("decode command at byte %d: %w", start, err)
		}
		end := pr.Pos()
		original := data[start:end]
		pos = end

		buf := wire.NewServerEncodeBuffer()
		if err := wire.EncodeCommand(buf, cmd); err != nil {
			return fmt.Errorf("encode command echoed from byte %d: %w", start, err)
		}
		out := buf.Bytes()
		os.Stdout.Write(out)
		warnIfChanged(start, original, out)
	}
	if pos < len(data) {
		log.Printf("imapcat: %d trailing bytes left undecoded", len(data)-pos)
	}
	return nil
}

// responseHandler decodes server responses and re-encodes them.
func responseHandler(data []byte) error {
	pr := wire.NewProcessor(0)
	pr.Feed(data)
	pos := 0
	for {
		start := pr.Pos()
		resp, err := pr.NextResponse()
		if err == imap.ErrIncompleteMessage {
			break
		}
		if err != nil {
			return fmt.Errorf("decode response at byte %d: %w", start, err)
		}
		end := pr.Pos()
		original := data[start:end]
		pos = end

		buf := wire.NewServerEncodeBuffer()
		if err := wire.EncodeResponse(buf, resp); err != nil {
			return fmt.Errorf("encode response echoed from byte %d: %w", start, err)
		}
		out := buf.Bytes()
		os.Stdout.Write(out)
		warnIfChanged(start, original, out)
	}
	if pos < len(data) {
		log.Printf("imapcat: %d trailing bytes left undecoded", len(data)-pos)
	}
	return nil
}

// warnIfChanged logs a warning when the re-encoded form differs from the
// input. Some difference is expected and not a bug: literals may be
// rewritten as quoted strings or vice versa, and INBOX casing is folded
// — this harness only flags it for a human to eyeball, it never fails.
func warnIfChanged(offset int, original, reencoded []byte) {
	if !bytes.Equal(original, reencoded) {
		log.Printf("imapcat: re-encoding at byte %d differs from input (len %d vs %d) — check for a canonicalization (literal<->quoted, INBOX casing) or a real bug",
			offset, len(original), len(reencoded))
	}
}
