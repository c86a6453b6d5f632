package imap

import (
	"strings"

	"github.com/mxproto/imapwire/wire/utf7"
)

// MailboxName is a mailbox name as it travels on the wire: raw bytes that
// may be modified-UTF-7 encoded (RFC 3501 section 5.1.3). The only
// normalization this package performs is folding any case-insensitive
// match of "inbox" to the canonical upper-case "INBOX", at construction
// time; every other name is preserved byte-for-byte.
type MailboxName string

// NewMailboxName canonicalizes s per the INBOX folding rule and returns
// the resulting MailboxName.
func NewMailboxName(s string) MailboxName {
	if strings.EqualFold(s, "INBOX") {
		return "INBOX"
	}
	return MailboxName(s)
}

// IsInbox reports whether m is the canonical INBOX.
func (m MailboxName) IsInbox() bool {
	return string(m) == "INBOX"
}

// String returns the raw wire-form bytes (still modified-UTF-7 if the
// name required it).
func (m MailboxName) String() string {
	return string(m)
}

// Decode returns the mailbox name with modified UTF-7 escapes expanded to
// UTF-8. INBOX and ASCII-only names are returned unchanged.
func (m MailboxName) Decode() (string, error) {
	return utf7.Decode(string(m))
}

// EncodeMailboxName builds a MailboxName from a UTF-8 display name,
// applying modified UTF-7 encoding where needed and INBOX folding.
func EncodeMailboxName(display string) MailboxName {
	if strings.EqualFold(display, "INBOX") {
		return "INBOX"
	}
	return MailboxName(utf7.Encode(display))
}
