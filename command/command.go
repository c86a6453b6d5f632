// Package command defines the typed abstract syntax tree for IMAP client
// commands (RFC 3501 section 6, plus the LITERAL+/-, BINARY, CONDSTORE,
// ENABLE, ID, NAMESPACE, MOVE, ESEARCH, LIST-EXTENDED, METADATA, and
// URLAUTH extensions). Each wire-level command is a distinct Go type
// implementing Command; there is no single catch-all struct with optional
// fields standing in for every command.
package command

import (
	"time"

	"github.com/mxproto/imapwire"
)

// Command is implemented by every command type in this package. It is a
// sealed interface: external packages cannot produce new variants, so a
// type switch over Command is exhaustive against this package's types.
type Command interface {
	// Tag returns the command's tag, or "" for a continuation that has
	// none of its own (there are none among the client commands; every
	// client command carries a tag).
	Tag() string
	// Name returns the command word as it appears on the wire, e.g.
	// "CAPABILITY" or "FETCH"; a UID prefix is not included.
	Name() string

	isCommand()
}

// Base carries the tag shared by every command and provides the unexported
// marker method that seals the Command interface.
type Base struct {
	TagValue string
}

func (b Base) Tag() string { return b.TagValue }

func (Base) isCommand() {}

// NewBase constructs the embeddable tag-carrying Base for a command
// literal built by hand (as opposed to one produced by the parser).
func NewBase(tag string) Base { return Base{TagValue: tag} }

// Capability is the CAPABILITY command (RFC 3501 section 6.1.1).
type Capability struct{ Base }

func (Capability) Name() string { return "CAPABILITY" }

// Noop is the NOOP command (RFC 3501 section 6.1.2).
type Noop struct{ Base }

func (Noop) Name() string { return "NOOP" }

// Logout is the LOGOUT command (RFC 3501 section 6.1.3).
type Logout struct{ Base }

func (Logout) Name() string { return "LOGOUT" }

// StartTLS is the STARTTLS command (RFC 3501 section 6.2.1). TLS
// negotiation itself is an external collaborator; this package only
// models the command token.
type StartTLS struct{ Base }

func (StartTLS) Name() string { return "STARTTLS" }

// Authenticate is the AUTHENTICATE command (RFC 3501 section 6.2.2). The
// SASL exchange that follows is an external collaborator; this type only
// carries the negotiated mechanism name and any initial response sent
// inline (RFC 4959 SASL-IR).
type Authenticate struct {
	Base
	Mechanism      string
	InitialResponse []byte
	HasInitialResponse bool
}

func (Authenticate) Name() string { return "AUTHENTICATE" }

// Login is the LOGIN command (RFC 3501 section 6.2.3).
type Login struct {
	Base
	Username string
	Password string
}

func (Login) Name() string { return "LOGIN" }

// Enable is the ENABLE command (RFC 5161).
type Enable struct {
	Base
	Caps []imap.Cap
}

func (Enable) Name() string { return "ENABLE" }

// Select is the SELECT command, optionally extended with CONDSTORE/
// QRESYNC parameters (RFC 3501 section 6.3.1, RFC 7162).
type Select struct {
	Base
	Mailbox imap.MailboxName
	Options SelectOptions
}

func (Select) Name() string { return "SELECT" }

// Examine is the EXAMINE command: identical shape to SELECT but
// read-only (RFC 3501 section 6.3.2).
type Examine struct {
	Base
	Mailbox imap.MailboxName
	Options SelectOptions
}

func (Examine) Name() string { return "EXAMINE" }

// SelectOptions carries the extended-SELECT/EXAMINE parameters.
type SelectOptions struct {
	CondStore bool
	QResync   *QResync
}

// QResync carries the QRESYNC SELECT parameter (RFC 7162 section 3.2.5):
// "(uidvalidity modseq [known-uids [seq-match-data]])".
type QResync struct {
	UIDValidity uint32
	ModSeq      uint64
	KnownUIDs   *imap.UIDSet
	SeqMatch    *SeqMatchData
}

// SeqMatchData is the optional known-sequence-set/known-uid-set pair
// inside QRESYNC (RFC 7162 section 3.2.5.1).
type SeqMatchData struct {
	SeqNums *imap.SeqSet
	UIDs    *imap.UIDSet
}

// Create is the CREATE command (RFC 3501 section 6.3.3).
type Create struct {
	Base
	Mailbox imap.MailboxName
}

func (Create) Name() string { return "CREATE" }

// Delete is the DELETE command (RFC 3501 section 6.3.4).
type Delete struct {
	Base
	Mailbox imap.MailboxName
}

func (Delete) Name() string { return "DELETE" }

// Rename is the RENAME command (RFC 3501 section 6.3.5).
type Rename struct {
	Base
	From imap.MailboxName
	To   imap.MailboxName
}

func (Rename) Name() string { return "RENAME" }

// Subscribe is the SUBSCRIBE command (RFC 3501 section 6.3.6).
type Subscribe struct {
	Base
	Mailbox imap.MailboxName
}

func (Subscribe) Name() string { return "SUBSCRIBE" }

// Unsubscribe is the UNSUBSCRIBE command (RFC 3501 section 6.3.7).
type Unsubscribe struct {
	Base
	Mailbox imap.MailboxName
}

func (Unsubscribe) Name() string { return "UNSUBSCRIBE" }

// Status is the STATUS command (RFC 3501 section 6.3.10, extended with
// HIGHESTMODSEQ by RFC 7162 section 4 and MAILBOXID by RFC 8474).
type Status struct {
	Base
	Mailbox imap.MailboxName
	Items   []StatusItem
}

func (Status) Name() string { return "STATUS" }

// StatusItem names one status-att requested by STATUS.
type StatusItem string

const (
	StatusItemMessages      StatusItem = "MESSAGES"
	StatusItemRecent        StatusItem = "RECENT"
	StatusItemUIDNext       StatusItem = "UIDNEXT"
	StatusItemUIDValidity   StatusItem = "UIDVALIDITY"
	StatusItemUnseen        StatusItem = "UNSEEN"
	StatusItemSize          StatusItem = "SIZE"
	StatusItemHighestModSeq StatusItem = "HIGHESTMODSEQ"
	StatusItemMailboxID     StatusItem = "MAILBOXID"
	StatusItemDeleted       StatusItem = "DELETED"
	StatusItemAppendLimit   StatusItem = "APPENDLIMIT"
)

// Append is the APPEND command, extended with non-synchronizing and
// binary literals (RFC 3501 section 6.3.11, RFC 7888, RFC 3516 section 3,
// RFC 6855 UTF8 variant).
type Append struct {
	Base
	Mailbox      imap.MailboxName
	Flags        []imap.Flag
	InternalDate *time.Time
	Binary       bool
	UTF8         bool
	Literal      LiteralRef
}

func (Append) Name() string { return "APPEND" }

// LiteralRef records a literal's bytes: an offset/length pair into the
// shared input buffer that decoded it (for a zero-copy host that wants
// to stream the range out via wire.Processor.LiteralBody instead of
// copying it), the same bytes again in Data for direct use (aliasing
// the input buffer when decoded, or supplied by hand when a caller
// builds an Append to send), and whether the literal arrived or must be
// sent as synchronizing ("{n}"), non-synchronizing ("{n+}"), or binary
// ("~{n}").
type LiteralRef struct {
	Offset  int
	Length  int64
	Data    []byte
	NonSync bool
	Binary  bool
}

// Idle is the IDLE command (RFC 2177).
type Idle struct{ Base }

func (Idle) Name() string { return "IDLE" }

// Close is the CLOSE command (RFC 3501 section 6.4.2).
type Close struct{ Base }

func (Close) Name() string { return "CLOSE" }

// Unselect is the UNSELECT command (RFC 3691).
type Unselect struct{ Base }

func (Unselect) Name() string { return "UNSELECT" }

// Expunge is the EXPUNGE command, optionally restricted to a UID set by
// UID EXPUNGE (RFC 4315 section 2.1).
type Expunge struct {
	Base
	UIDs *imap.UIDSet
}

func (Expunge) Name() string { return "EXPUNGE" }

// Copy is the COPY command (RFC 3501 section 6.4.7), or the UID-prefixed
// variant when UID is true.
type Copy struct {
	Base
	UID     bool
	Set     imap.NumSet
	Mailbox imap.MailboxName
}

func (Copy) Name() string { return "COPY" }

// Move is the MOVE command (RFC 6851).
type Move struct {
	Base
	UID     bool
	Set     imap.NumSet
	Mailbox imap.MailboxName
}

func (Move) Name() string { return "MOVE" }

// ID is the ID command (RFC 2971).
type ID struct {
	Base
	Params *imap.OrderedKV
}

func (ID) Name() string { return "ID" }

// Namespace is the NAMESPACE command (RFC 2342).
type Namespace struct{ Base }

func (Namespace) Name() string { return "NAMESPACE" }

// GetMetadata is the GETMETADATA command (RFC 5464 section 4.2).
type GetMetadata struct {
	Base
	Mailbox imap.MailboxName
	Entries []string
	Options MetadataOptions
}

func (GetMetadata) Name() string { return "GETMETADATA" }

// MetadataOptions carries the GETMETADATA "(MAXSIZE n)"/"(DEPTH ...)"
// options.
type MetadataOptions struct {
	MaxSize *uint32
	Depth   MetadataDepth
}

// MetadataDepth is the GETMETADATA DEPTH option value.
type MetadataDepth string

const (
	MetadataDepthZero     MetadataDepth = "0"
	MetadataDepthOne      MetadataDepth = "1"
	MetadataDepthInfinity MetadataDepth = "infinity"
)

// SetMetadata is the SETMETADATA command (RFC 5464 section 4.3).
type SetMetadata struct {
	Base
	Mailbox imap.MailboxName
	Entries []MetadataEntrySet
}

func (SetMetadata) Name() string { return "SETMETADATA" }

// MetadataEntrySet is one entry/value pair of a SETMETADATA command. A
// nil Value removes the entry.
type MetadataEntrySet struct {
	Entry string
	Value *string
}

// GenURLAuth is the GENURLAUTH command (RFC 4467 section 3).
type GenURLAuth struct {
	Base
	URLs []GenURLAuthRequest
}

func (GenURLAuth) Name() string { return "GENURLAUTH" }

// GenURLAuthRequest is one "URL ;AUTH=mechanism" pair requested of
// GENURLAUTH.
type GenURLAuthRequest struct {
	URL       string
	Mechanism string
}

// ResetKey is the RESETKEY command (RFC 4467 section 5).
type ResetKey struct {
	Base
	Mailbox imap.MailboxName
	HasMailbox bool
	Mechanisms []string
}

func (ResetKey) Name() string { return "RESETKEY" }

// URLFetch is the URLFETCH command (RFC 5092 section 7).
type URLFetch struct {
	Base
	URLs []string
}

func (URLFetch) Name() string { return "URLFETCH" }
