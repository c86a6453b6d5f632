package response

import "github.com/mxproto/imapwire"

// Capability is the untagged CAPABILITY response (RFC 3501 section 7.2.1).
type Capability struct {
	respBase
	Caps []imap.Cap
}

// Flags is the untagged FLAGS response (RFC 3501 section 7.2.6).
type Flags struct {
	respBase
	Flags []imap.Flag
}

// Exists is the untagged "n EXISTS" response (RFC 3501 section 7.3.1).
type Exists struct {
	respBase
	Count uint32
}

// Recent is the untagged "n RECENT" response (RFC 3501 section 7.3.2).
type Recent struct {
	respBase
	Count uint32
}

// Expunge is the untagged "n EXPUNGE" response (RFC 3501 section 7.4.1).
type Expunge struct {
	respBase
	SeqNum uint32
}

// Vanished is the untagged VANISHED response (RFC 7162 section 3.2.10),
// used by QRESYNC in place of per-message EXPUNGE.
type Vanished struct {
	respBase
	Earlier bool
	UIDs    *imap.UIDSet
}

// Fetch is the untagged FETCH response (RFC 3501 section 7.4.2): a
// sequence number plus an ordered list of attribute/value pairs.
type Fetch struct {
	respBase
	SeqNum uint32
	Attrs  []FetchAttrValue
}

// List is the untagged LIST (or, with the same shape, LSUB) response
// (RFC 3501 section 7.2.2, RFC 5258 LIST-EXTENDED additions).
type List struct {
	respBase
	Attrs      []imap.MailboxAttr
	Delim      rune
	HasDelim   bool
	Mailbox    imap.MailboxName
	ChildInfo  []string
	OldName    imap.MailboxName
	HasOldName bool
}

// Search is the untagged SEARCH response (RFC 3501 section 7.2.5),
// optionally annotated with a MODSEQ (RFC 7162 section 3.1.5).
type Search struct {
	respBase
	Nums   []uint32
	ModSeq uint64
	HasModSeq bool
}

// ESearch is the untagged ESEARCH response (RFC 4731, RFC 9051 section
// 7.3.4), the extended replacement for a plain SEARCH response whenever
// the request carried a RETURN option.
type ESearch struct {
	respBase
	Tag       string
	HasTag    bool
	UID       bool
	Min       uint32
	HasMin    bool
	Max       uint32
	HasMax    bool
	All       imap.NumSet
	Count     uint32
	HasCount  bool
	ModSeq    uint64
	HasModSeq bool
	Partial   *SearchPartial
}

// SearchPartial is the PARTIAL return-data item of an ESEARCH response.
type SearchPartial struct {
	Offset int32
	Total  uint32
	UIDs   imap.NumSet
}

// MailboxStatus is the untagged STATUS response (RFC 3501 section 7.2.4).
type MailboxStatus struct {
	respBase
	Mailbox imap.MailboxName
	Attrs   []StatusAttrValue
}

// StatusAttrValue is one name/value pair of a STATUS response.
type StatusAttrValue struct {
	Name  string
	Value uint64
}

// Namespace is the untagged NAMESPACE response (RFC 2342 section 5).
type Namespace struct {
	respBase
	Personal []NamespaceDescriptor
	Other    []NamespaceDescriptor
	Shared   []NamespaceDescriptor
}

// NamespaceDescriptor is one namespace entry: a prefix and its
// hierarchy delimiter.
type NamespaceDescriptor struct {
	Prefix string
	Delim  rune
	HasDelim bool
}

// ID is the untagged ID response (RFC 2971 section 3.2).
type ID struct {
	respBase
	Params *imap.OrderedKV
}

// Enabled is the untagged ENABLED response (RFC 5161 section 3.2).
type Enabled struct {
	respBase
	Caps []imap.Cap
}

// Metadata is the untagged METADATA response (RFC 5464 section 4.4.1).
type Metadata struct {
	respBase
	Mailbox imap.MailboxName
	Entries []string
}

// URLFetchData is the untagged URLFETCH response data (RFC 5092 section
// 7), pairing a requested URL with the fetched bytes (nil if the URL
// could not be resolved).
type URLFetchData struct {
	respBase
	URL  string
	Data []byte
}

// GenURLAuthData is the tagged-command result data of GENURLAUTH (RFC
// 4467 section 3): one generated URL per request, in request order.
type GenURLAuthData struct {
	URLs []string
}

// AppendData is the tagged-command result code data of APPEND when
// UIDPLUS is in effect (RFC 4315 section 3).
type AppendData struct {
	UIDValidity uint32
	UID         uint32
}

// CopyData is the tagged-command result code data of COPY/MOVE when
// UIDPLUS is in effect (RFC 4315 section 3, RFC 6851 section 4).
type CopyData struct {
	UIDValidity uint32
	SourceUIDs  imap.NumSet
	DestUIDs    imap.NumSet
}
