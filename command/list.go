package command

import "github.com/mxproto/imapwire"

// List is the LIST command, extended with selection/return options (RFC
// 3501 section 6.3.8, RFC 5258 LIST-EXTENDED, RFC 6154 SPECIAL-USE, RFC
// 5819 LIST-STATUS).
type List struct {
	Base
	Reference imap.MailboxName
	Patterns  []string
	Selection ListSelectionOptions
	Return    ListReturnOptions
}

func (List) Name() string { return "LIST" }

// Lsub is the obsolete LSUB command (RFC 3501 section 6.3.9), kept
// alongside LIST for wire compatibility with clients that still issue it.
type Lsub struct {
	Base
	Reference imap.MailboxName
	Pattern   string
}

func (Lsub) Name() string { return "LSUB" }

// ListSelectionOptions is LIST-EXTENDED's "(selection-options)" prefix
// (RFC 5258 section 3).
type ListSelectionOptions struct {
	Subscribed     bool
	Remote         bool
	RecursiveMatch bool
	SpecialUse     bool
}

// ListReturnOptions is LIST-EXTENDED's "RETURN (...)" suffix.
type ListReturnOptions struct {
	Subscribed bool
	Children   bool
	SpecialUse bool
	Status     []StatusItem
	MyRights   bool
	Metadata   *ListReturnMetadata
}

// ListReturnMetadata is the METADATA return option combining LIST-
// EXTENDED with METADATA (RFC 5464 section 4.4).
type ListReturnMetadata struct {
	Entries []string
	MaxSize *uint32
	Depth   MetadataDepth
}
