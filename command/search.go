package command

import (
	"time"

	"github.com/mxproto/imapwire"
)

// Search is the SEARCH command, extended with SEARCHRES/ESEARCH return
// options (RFC 3501 section 6.4.4, RFC 4731, RFC 5182) and modified by
// MODSEQ (RFC 7162 section 3.1.5).
type Search struct {
	Base
	UID     bool
	Charset string
	Keys    []SearchKey
	Return  SearchReturnOptions
}

func (Search) Name() string { return "SEARCH" }

// SearchReturnOptions is the "(RETURN (...))" suffix of an extended
// SEARCH command (RFC 4731 section 3.1). A zero value with Requested
// false means no RETURN clause was present, so the client expects a
// plain untagged SEARCH response rather than ESEARCH.
type SearchReturnOptions struct {
	Requested bool
	Min       bool
	Max       bool
	All       bool
	Count     bool
	Save      bool
	Partial   *SearchReturnPartial
}

// SearchReturnPartial is the RFC 5267-style "PARTIAL (lo:hi)" return
// option, used by some ESEARCH extensions to page large result sets.
type SearchReturnPartial struct {
	Offset int32
	Count  int32
}

// SearchKey is the sealed interface implemented by every search-key
// variant of RFC 3501 section 6.4.4's search-key production, plus the
// MODSEQ key from RFC 7162 and the OLDER/YOUNGER keys from RFC 5032.
type SearchKey interface {
	isSearchKey()
}

type searchKeyBase struct{}

func (searchKeyBase) isSearchKey() {}

// SearchKeyAll matches every message ("ALL").
type SearchKeyAll struct{ searchKeyBase }

// SearchKeyAnswered, SearchKeyDeleted, etc. match a system flag.
type SearchKeyAnswered struct{ searchKeyBase }
type SearchKeyDeleted struct{ searchKeyBase }
type SearchKeyDraft struct{ searchKeyBase }
type SearchKeyFlagged struct{ searchKeyBase }
type SearchKeyNew struct{ searchKeyBase }
type SearchKeyOld struct{ searchKeyBase }
type SearchKeyRecent struct{ searchKeyBase }
type SearchKeySeen struct{ searchKeyBase }
type SearchKeyUnanswered struct{ searchKeyBase }
type SearchKeyUndeleted struct{ searchKeyBase }
type SearchKeyUndraft struct{ searchKeyBase }
type SearchKeyUnflagged struct{ searchKeyBase }
type SearchKeyUnseen struct{ searchKeyBase }

// SearchKeyBcc/Cc/From/Subject/To/Body/Text match a header/body substring.
type SearchKeyBcc struct {
	searchKeyBase
	Value string
}
type SearchKeyCc struct {
	searchKeyBase
	Value string
}
type SearchKeyFrom struct {
	searchKeyBase
	Value string
}
type SearchKeySubject struct {
	searchKeyBase
	Value string
}
type SearchKeyTo struct {
	searchKeyBase
	Value string
}
type SearchKeyBody struct {
	searchKeyBase
	Value string
}
type SearchKeyText struct {
	searchKeyBase
	Value string
}

// SearchKeyHeader matches an arbitrary header field ("HEADER field
// value").
type SearchKeyHeader struct {
	searchKeyBase
	Field string
	Value string
}

// SearchKeyKeyword/Unkeyword match a user-defined flag.
type SearchKeyKeyword struct {
	searchKeyBase
	Flag imap.Flag
}
type SearchKeyUnkeyword struct {
	searchKeyBase
	Flag imap.Flag
}

// SearchKeyBefore/On/Since match internal date; SentBefore/SentOn/SentSince
// match the Date: header.
type SearchKeyBefore struct {
	searchKeyBase
	Date time.Time
}
type SearchKeyOn struct {
	searchKeyBase
	Date time.Time
}
type SearchKeySince struct {
	searchKeyBase
	Date time.Time
}
type SearchKeySentBefore struct {
	searchKeyBase
	Date time.Time
}
type SearchKeySentOn struct {
	searchKeyBase
	Date time.Time
}
type SearchKeySentSince struct {
	searchKeyBase
	Date time.Time
}

// SearchKeyLarger/Smaller compare RFC822.SIZE.
type SearchKeyLarger struct {
	searchKeyBase
	Size uint32
}
type SearchKeySmaller struct {
	searchKeyBase
	Size uint32
}

// SearchKeyNot negates a single key; SearchKeyOr matches if either of two
// keys match; SearchKeyAnd is an implicit list of keys all required to
// match (the bare "search-key*" production inside parentheses).
type SearchKeyNot struct {
	searchKeyBase
	Key SearchKey
}
type SearchKeyOr struct {
	searchKeyBase
	Left, Right SearchKey
}
type SearchKeyAnd struct {
	searchKeyBase
	Keys []SearchKey
}

// SearchKeySeqSet/UID restrict by sequence number or UID set.
type SearchKeySeqSet struct {
	searchKeyBase
	Set imap.NumSet
}
type SearchKeyUID struct {
	searchKeyBase
	Set imap.NumSet
}

// SearchKeyModSeq is the MODSEQ search key (RFC 7162 section 3.1.5),
// optionally qualified by a METADATA entry-name/type pair.
type SearchKeyModSeq struct {
	searchKeyBase
	MetadataName string
	MetadataType string
	ModSeq       uint64
}

// SearchKeyOlder/Younger compare message age in seconds (RFC 5032).
type SearchKeyOlder struct {
	searchKeyBase
	Seconds uint32
}
type SearchKeyYounger struct {
	searchKeyBase
	Seconds uint32
}
