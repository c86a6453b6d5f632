// Package imap implements the shared data model of the IMAP4rev1 wire
// protocol (RFC 3501), extended with LITERAL+/LITERAL- (RFC 7888/2088),
// BINARY (RFC 3516), CONDSTORE (RFC 7162), ENABLE (RFC 5161), ID
// (RFC 2971), NAMESPACE (RFC 2342), MOVE (RFC 6851), ESEARCH (RFC 4731),
// LIST-EXTENDED (RFC 5258), METADATA (RFC 5464), and URLAUTH
// (RFC 4467/5092).
//
// This package holds the types every command and response is built from:
// mailbox names, flags, sequence/UID sets, section specifiers, envelopes,
// body structures, the capability set, and dates. The command grammar
// lives in imapwire/command, the response grammar in imapwire/response,
// and the encoder/parser in imapwire/wire.
//
// The package does no networking, no TLS, no MIME body parsing beyond the
// BODYSTRUCTURE envelope, no mailbox storage, and implements no SASL
// mechanism.
package imap
