package wire

import (
	"io"
	"strings"
	"testing"
	"time"

	imap "github.com/mxproto/imapwire"
	"github.com/mxproto/imapwire/command"
	"github.com/mxproto/imapwire/response"
)

// parseOneCommand parses exactly one command out of s, failing the test
// if it doesn't fully consume the input or returns ErrIncompleteMessage.
func parseOneCommand(t *testing.T, s string) command.Command {
	t.Helper()
	p := NewParser([]byte(s))
	cmd, err := ParseCommand(p)
	if err != nil {
		t.Fatalf("ParseCommand(%q): %v", s, err)
	}
	if !p.AtEnd() {
		t.Fatalf("ParseCommand(%q): left %d unread bytes", s, len(p.Buf())-p.Pos())
	}
	return cmd
}

func encodeCommandString(t *testing.T, cmd command.Command) string {
	t.Helper()
	buf := NewServerEncodeBuffer()
	if err := EncodeCommand(buf, cmd); err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	return string(buf.Bytes())
}

// TestCommandRoundtrip covers spec.md section 8's scenario shapes: a
// simple command, UID SEARCH, and ID with NIL parameters, each decoded
// then re-encoded back to the identical wire form.
func TestCommandRoundtrip(t *testing.T) {
	tests := []struct {
		name string
		wire string
	}{
		{"simple capability", "a1 CAPABILITY\r\n"},
		{"login", "a2 LOGIN fred blurdybloop\r\n"},
		{"select", "a3 SELECT INBOX\r\n"},
		{"uid search", "a4 UID SEARCH UNSEEN SINCE \"01-Jan-2020\"\r\n"},
		{"search or/not", "a5 SEARCH OR NOT SEEN FLAGGED\r\n"},
		{"id nil", "a6 ID NIL\r\n"},
		{"id kv", "a7 ID (name imaptest version 1.0)\r\n"},
		{"enable", "a8 ENABLE CONDSTORE QRESYNC\r\n"},
		{"move", "a9 MOVE 1:5 Archive\r\n"},
		{"fetch body section", "a10 FETCH 1:* (FLAGS BODY[HEADER.FIELDS (DATE FROM)])\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := parseOneCommand(t, tt.wire)
			got := encodeCommandString(t, cmd)
			if got != tt.wire {
				t.Errorf("roundtrip mismatch:\n got  %q\n want %q", got, tt.wire)
			}
		})
	}
}

// TestAppendLiteralDecode covers decoding an APPEND with a synchronizing
// ("{n}") literal: the decoded LiteralRef is a plain literal whose
// Offset/Length range and Data both hold the message bytes.
func TestAppendLiteralDecode(t *testing.T) {
	msg := "Date: Mon, 7 Feb 1994 21:52:25 -0800\r\nFrom: Fred <fred@example.com>\r\n\r\nHi.\r\n"
	wireBytes := "a1 APPEND saved-messages (\\Seen) {" + itoa(len(msg)) + "}\r\n" + msg + "\r\n"
	cmd := parseOneCommand(t, wireBytes)
	app, ok := cmd.(command.Append)
	if !ok {
		t.Fatalf("got %T, want command.Append", cmd)
	}
	if app.Literal.NonSync || app.Literal.Binary {
		t.Errorf("Literal = %+v, want a plain synchronizing literal", app.Literal)
	}
	got := wireBytes[app.Literal.Offset : app.Literal.Offset+int(app.Literal.Length)]
	if got != msg {
		t.Errorf("literal bytes = %q, want %q", got, msg)
	}
	if len(app.Flags) != 1 || app.Flags[0] != imap.FlagSeen {
		t.Errorf("Flags = %v, want [\\Seen]", app.Flags)
	}
	if string(app.Literal.Data) != msg {
		t.Errorf("Literal.Data = %q, want %q", app.Literal.Data, msg)
	}
}

// TestAppendEncodeRoundtrip drives the full outbound direction the
// previous test's decode only checked one half of: a client builds an
// APPEND from a message body sourced through an io.Reader (CollectLiteral),
// encodes it, and the re-decoded command must carry the identical bytes.
func TestAppendEncodeRoundtrip(t *testing.T) {
	msg := "Subject: hi\r\n\r\nbody\r\n"
	data, err := CollectLiteral(strings.NewReader(msg), int64(len(msg)))
	if err != nil {
		t.Fatalf("CollectLiteral: %v", err)
	}
	app := command.Append{
		Base:    command.NewBase("a1"),
		Mailbox: imap.MailboxName("saved-messages"),
		Literal: command.LiteralRef{Length: int64(len(data)), Data: data},
	}
	wireBytes := encodeCommandString(t, app)
	cmd := parseOneCommand(t, wireBytes)
	got, ok := cmd.(command.Append)
	if !ok {
		t.Fatalf("got %T, want command.Append", cmd)
	}
	if string(got.Literal.Data) != msg {
		t.Errorf("roundtripped literal = %q, want %q", got.Literal.Data, msg)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// TestLiteralPlusEncoding covers the LITERAL+ scenario: once CapLiteralPlus
// is negotiated, every literal the client writes is non-synchronizing, so
// ModeClientSync never has to split into more than one chunk.
func TestLiteralPlusEncoding(t *testing.T) {
	caps := imap.NewCapSet(imap.CapLiteralPlus)
	buf := NewClientEncodeBuffer(caps)
	buf.Literal([]byte("hello \x00 world"))
	chunks := buf.Chunks()
	if len(chunks) != 1 {
		t.Fatalf("LITERAL+ literal produced %d chunks, want 1 (non-synchronizing)", len(chunks))
	}
	if !strings.Contains(string(chunks[0]), "{13+}") {
		t.Errorf("chunk = %q, want a non-synchronizing {13+} header", chunks[0])
	}
}

// TestLiteralSyncEncoding covers the plain, no-extension scenario: with
// no capabilities negotiated, a literal synchronizes and the client-sync
// buffer must split into two chunks around it.
func TestLiteralSyncEncoding(t *testing.T) {
	buf := NewClientEncodeBuffer(nil)
	buf.Atom("a1 APPEND box").SP().Literal([]byte("hi"))
	chunks := buf.Chunks()
	if len(chunks) != 2 {
		t.Fatalf("synchronizing literal produced %d chunks, want 2", len(chunks))
	}
	if !strings.HasSuffix(string(chunks[0]), "{2}\r\n") {
		t.Errorf("first chunk = %q, want to end with a synchronizing {2} header", chunks[0])
	}
	if string(chunks[1]) != "hi" {
		t.Errorf("second chunk = %q, want the literal body", chunks[1])
	}
}

// TestResponseRoundtrip covers server-side scenarios: a tagged OK with an
// APPENDUID response code, and an ESEARCH response.
func TestResponseRoundtrip(t *testing.T) {
	tests := []struct {
		name string
		wire string
	}{
		{"tagged ok appenduid", "a1 OK [APPENDUID 38505 3955] APPEND completed\r\n"},
		{"tagged no", "a2 NO [TRYCREATE] mailbox does not exist\r\n"},
		{"untagged exists", "* 23 EXISTS\r\n"},
		{"untagged capability", "* CAPABILITY IMAP4rev1 LITERAL+ CONDSTORE\r\n"},
		{"esearch", "* ESEARCH (TAG \"a5\") UID COUNT 5\r\n"},
		{"continuation", "+ Ready for literal data\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser([]byte(tt.wire))
			resp, err := ParseResponse(p)
			if err != nil {
				t.Fatalf("ParseResponse(%q): %v", tt.wire, err)
			}
			if !p.AtEnd() {
				t.Fatalf("ParseResponse(%q) left %d unread bytes", tt.wire, len(p.Buf())-p.Pos())
			}
			buf := NewServerEncodeBuffer()
			if err := EncodeResponse(buf, resp); err != nil {
				t.Fatalf("EncodeResponse: %v", err)
			}
			if got := string(buf.Bytes()); got != tt.wire {
				t.Errorf("roundtrip mismatch:\n got  %q\n want %q", got, tt.wire)
			}
		})
	}
}

// TestFetchBodySectionOffset verifies the byte-range-not-copy design: the
// decoded BodySectionAttr's Offset/Length must index directly into the
// parser's own buffer, matching the literal's actual content.
func TestFetchBodySectionOffset(t *testing.T) {
	body := "Subject: hi\r\n\r\n"
	wireBytes := "* 12 FETCH (BODY[] {" + itoa(len(body)) + "}\r\n" + body + ")\r\n"
	p := NewParser([]byte(wireBytes))
	resp, err := ParseResponse(p)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	fetch, ok := resp.(*response.Fetch)
	if !ok {
		t.Fatalf("got %T, want *response.Fetch", resp)
	}
	if len(fetch.Attrs) != 1 {
		t.Fatalf("Attrs = %v, want 1 entry", fetch.Attrs)
	}
	sec, ok := fetch.Attrs[0].(response.BodySectionAttr)
	if !ok {
		t.Fatalf("Attrs[0] = %T, want response.BodySectionAttr", fetch.Attrs[0])
	}
	got := string(p.Buf()[sec.Offset : sec.Offset+int(sec.Length)])
	if got != body {
		t.Errorf("section bytes = %q, want %q", got, body)
	}
	if string(sec.Data) != body {
		t.Errorf("Data = %q, want %q", sec.Data, body)
	}

	// Re-encoding must carry the section's payload bytes through, not
	// just its shape: decode the re-encoding and compare the literal
	// content again rather than the raw wire bytes, since ModeServer is
	// free to pick either literal marker form for its own output.
	buf := NewServerEncodeBuffer()
	if err := EncodeResponse(buf, resp); err != nil {
		t.Fatalf("EncodeResponse: %v", err)
	}
	p2 := NewParser(buf.Bytes())
	resp2, err := ParseResponse(p2)
	if err != nil {
		t.Fatalf("ParseResponse(re-encoded): %v", err)
	}
	fetch2, ok := resp2.(*response.Fetch)
	if !ok || len(fetch2.Attrs) != 1 {
		t.Fatalf("re-encoded response = %#v, want one-attr *response.Fetch", resp2)
	}
	sec2, ok := fetch2.Attrs[0].(response.BodySectionAttr)
	if !ok {
		t.Fatalf("re-encoded Attrs[0] = %T, want response.BodySectionAttr", fetch2.Attrs[0])
	}
	if string(sec2.Data) != body {
		t.Errorf("re-encoded section bytes = %q, want %q", sec2.Data, body)
	}
}

// TestFetchMacroCollapse verifies a FETCH whose explicit attribute list
// equals a FAST/ALL/FULL macro's expansion re-encodes as the macro, the
// one canonicalization spec.md section 4.3 names for FETCH attribute
// sets.
func TestFetchMacroCollapse(t *testing.T) {
	tests := []struct {
		wire string
		want string
	}{
		{"a1 FETCH 1 FAST\r\n", "a1 FETCH 1 FAST\r\n"},
		{"a2 FETCH 1 (FLAGS INTERNALDATE RFC822.SIZE)\r\n", "a2 FETCH 1 FAST\r\n"},
		{"a3 FETCH 1 ALL\r\n", "a3 FETCH 1 ALL\r\n"},
		{"a4 FETCH 1 FULL\r\n", "a4 FETCH 1 FULL\r\n"},
		{"a5 FETCH 1 (FLAGS UID)\r\n", "a5 FETCH 1 (FLAGS UID)\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.wire, func(t *testing.T) {
			cmd := parseOneCommand(t, tt.wire)
			got := encodeCommandString(t, cmd)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestProcessorLiteralBody verifies Processor.LiteralBody streams the
// exact bytes of a decoded literal range through a LiteralReader, so a
// host can hand a storage layer an io.Reader instead of a raw slice.
func TestProcessorLiteralBody(t *testing.T) {
	msg := "Hi.\r\n"
	wireBytes := "a1 APPEND box {" + itoa(len(msg)) + "}\r\n" + msg + "\r\n"
	pr := NewProcessor(0)
	pr.Feed([]byte(wireBytes))
	cmd, err := pr.NextCommand()
	if err != nil {
		t.Fatalf("NextCommand: %v", err)
	}
	app, ok := cmd.(command.Append)
	if !ok {
		t.Fatalf("got %T, want command.Append", cmd)
	}
	lr := pr.LiteralBody(app.Literal.Offset, app.Literal.Length)
	if lr.Size != app.Literal.Length {
		t.Errorf("Size = %d, want %d", lr.Size, app.Literal.Length)
	}
	got := make([]byte, lr.Size)
	if _, err := io.ReadFull(lr, got); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if string(got) != msg {
		t.Errorf("LiteralBody bytes = %q, want %q", got, msg)
	}
}

// TestParseIncremental verifies the suspension/retry contract of
// spec.md section 4.4: feeding a command one byte at a time through a
// Processor must yield ErrIncompleteMessage until the final byte, then
// parse to the exact same result as a one-shot parse, without the read
// position ever moving backwards.
func TestParseIncremental(t *testing.T) {
	wireBytes := []byte("a1 LOGIN fred blurdybloop\r\n")
	pr := NewProcessor(0)
	var cmd command.Command
	for i := 1; i <= len(wireBytes); i++ {
		pr.Feed(wireBytes[i-1 : i])
		c, err := pr.NextCommand()
		if err == imap.ErrIncompleteMessage {
			continue
		}
		if err != nil {
			t.Fatalf("NextCommand after %d bytes: %v", i, err)
		}
		cmd = c
		if i != len(wireBytes) {
			t.Fatalf("command completed after %d of %d bytes", i, len(wireBytes))
		}
	}
	login, ok := cmd.(command.Login)
	if !ok {
		t.Fatalf("got %T, want command.Login", cmd)
	}
	if login.Username != "fred" || login.Password != "blurdybloop" {
		t.Errorf("got Username=%q Password=%q", login.Username, login.Password)
	}
}

// TestFramerSyncLiteralCount verifies the framing pre-parser's
// continuation-counting contract: one synchronizing literal header
// produces exactly one pending continuation, and MaxValidBytes never
// exceeds what the full parser actually consumes (framing soundness).
func TestFramerSyncLiteralCount(t *testing.T) {
	body := "hello"
	wireBytes := []byte("a1 APPEND box {" + itoa(len(body)) + "}\r\n" + body + "\r\n")
	f := NewFramer()
	f.Feed(wireBytes)
	f.Scan()
	if f.SyncLiteralCount() != 1 {
		t.Errorf("SyncLiteralCount = %d, want 1", f.SyncLiteralCount())
	}
	if f.MaxValidBytes() > len(wireBytes) {
		t.Errorf("MaxValidBytes = %d exceeds buffer length %d", f.MaxValidBytes(), len(wireBytes))
	}

	p := NewParser(wireBytes)
	_, err := ParseCommand(p)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if p.Pos() > f.MaxValidBytes() {
		t.Errorf("framing soundness violated: parser consumed %d bytes, framer only confirmed %d", p.Pos(), f.MaxValidBytes())
	}
}

// TestProcessorBufferLimitExceeded verifies the resource-bound
// requirement: an unfinished production that pins more bytes than the
// configured limit must fail permanently with BufferLimitExceededError,
// not silently keep growing.
func TestProcessorBufferLimitExceeded(t *testing.T) {
	pr := NewProcessor(8)
	pr.Feed([]byte("a1 LOGIN "))
	pr.Feed([]byte("a-very-long-username-that-is-longer-than-the-limit"))
	_, err := pr.NextCommand()
	var decErr *imap.DecoderError
	if !asDecoderError(err, &decErr) {
		t.Fatalf("NextCommand error = %v (%T), want *imap.DecoderError wrapping BufferLimitExceededError", err, err)
	}
	if _, ok := decErr.Err.(*imap.BufferLimitExceededError); !ok {
		t.Errorf("wrapped error = %T, want *imap.BufferLimitExceededError", decErr.Err)
	}
}

func asDecoderError(err error, target **imap.DecoderError) bool {
	de, ok := err.(*imap.DecoderError)
	if !ok {
		return false
	}
	*target = de
	return true
}

// TestNoCrashOnAdversarialInput feeds truncated and malformed buffers
// through ParseCommand and ParseResponse; neither must panic, and both
// must return either ErrIncompleteMessage or a *imap.ParseError.
func TestNoCrashOnAdversarialInput(t *testing.T) {
	inputs := []string{
		"",
		"a1 ",
		"a1 LOGIN",
		"a1 LOGIN \"unterminated",
		"a1 FETCH 1 (BODY[",
		"* ",
		"* 1 ",
		"+",
		"a1 APPEND box {99999999999999999999}\r\n",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("panic on input %q: %v", in, r)
				}
			}()
			p := NewParser([]byte(in))
			if _, err := ParseCommand(p); err != nil && err != imap.ErrIncompleteMessage {
				if _, ok := err.(*imap.ParseError); !ok {
					t.Errorf("ParseCommand(%q) error = %T, want ErrIncompleteMessage or *imap.ParseError", in, err)
				}
			}
			p2 := NewParser([]byte(in))
			if _, err := ParseResponse(p2); err != nil && err != imap.ErrIncompleteMessage {
				if _, ok := err.(*imap.ParseError); !ok {
					t.Errorf("ParseResponse(%q) error = %T, want ErrIncompleteMessage or *imap.ParseError", in, err)
				}
			}
		})
	}
}

// TestMailboxNameInboxCanonicalization verifies the one normalization
// spec.md's non-goals still permit: any case-insensitive spelling of
// "inbox" folds to "INBOX" when encoded.
func TestMailboxNameInboxCanonicalization(t *testing.T) {
	cmd := parseOneCommand(t, "a1 SELECT inbox\r\n")
	sel, ok := cmd.(command.Select)
	if !ok {
		t.Fatalf("got %T, want command.Select", cmd)
	}
	if !sel.Mailbox.IsInbox() {
		t.Fatalf("Mailbox = %q, want IsInbox() true", sel.Mailbox)
	}
	got := encodeCommandString(t, cmd)
	if got != "a1 SELECT INBOX\r\n" {
		t.Errorf("got %q, want canonical INBOX casing", got)
	}
}

// TestSearchKeyDateRoundtrip exercises a date-bearing search key end to
// end, confirming imap.ParseDate/FormatDate agree on the wire form.
func TestSearchKeyDateRoundtrip(t *testing.T) {
	cmd := parseOneCommand(t, "a1 SEARCH SINCE 01-Jan-2020\r\n")
	search, ok := cmd.(command.Search)
	if !ok {
		t.Fatalf("got %T, want command.Search", cmd)
	}
	if len(search.Keys) != 1 {
		t.Fatalf("Keys = %v, want 1 entry", search.Keys)
	}
	key, ok := search.Keys[0].(command.SearchKeySince)
	if !ok {
		t.Fatalf("Keys[0] = %T, want command.SearchKeySince", search.Keys[0])
	}
	want := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !key.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", key.Date, want)
	}
}
