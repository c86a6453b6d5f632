package command

import "github.com/mxproto/imapwire"

// Fetch is the FETCH command, extended with CHANGEDSINCE/VANISHED
// modifiers (RFC 3501 section 6.4.5, RFC 7162 section 3.1.4/3.2.10).
type Fetch struct {
	Base
	UID       bool
	Set       imap.NumSet
	Attrs     []FetchAttr
	ChangedSince uint64
	HasChangedSince bool
	Vanished  bool
}

func (Fetch) Name() string { return "FETCH" }

// FetchAttr is the sealed interface implemented by every fetch-att
// variant (RFC 3501 section 6.4.5, RFC 3516 section 4 for BINARY
// attributes, RFC 7162 section 3.1.4.1 for MODSEQ).
type FetchAttr interface {
	isFetchAttr()
}

type fetchAttrBase struct{}

func (fetchAttrBase) isFetchAttr() {}

// FetchAttrEnvelope, FetchAttrFlags, etc. request a fixed-shape
// attribute with no parameters.
type FetchAttrEnvelope struct{ fetchAttrBase }
type FetchAttrFlags struct{ fetchAttrBase }
type FetchAttrInternalDate struct{ fetchAttrBase }
type FetchAttrRFC822Size struct{ fetchAttrBase }
type FetchAttrUID struct{ fetchAttrBase }
type FetchAttrBodyStructure struct{ fetchAttrBase }
type FetchAttrBody struct{ fetchAttrBase } // bare "BODY" (non-extensible form)
type FetchAttrModSeq struct{ fetchAttrBase }

// FetchAttrRFC822 group models the obsolete RFC822[.HEADER|.TEXT]
// attributes, kept for wire compatibility with older clients.
type FetchAttrRFC822 struct{ fetchAttrBase }
type FetchAttrRFC822Header struct{ fetchAttrBase }
type FetchAttrRFC822Text struct{ fetchAttrBase }

// FetchAttrBodySection is "BODY[section]<partial>", with PEEK support
// (RFC 3501 section 6.4.5's "fetch-att" / section 7.4.2's "msg-att").
type FetchAttrBodySection struct {
	fetchAttrBase
	Section Section
	Peek    bool
	Partial *Partial
}

// FetchAttrBinarySection is "BINARY[section]<partial>" (RFC 3516
// section 4.1).
type FetchAttrBinarySection struct {
	fetchAttrBase
	Part    []int
	Peek    bool
	Partial *Partial
}

// FetchAttrBinarySize is "BINARY.SIZE[section]" (RFC 3516 section 4.2).
type FetchAttrBinarySize struct {
	fetchAttrBase
	Part []int
}

// FetchAttrPreview is the PREVIEW fetch attribute (RFC 8970).
type FetchAttrPreview struct {
	fetchAttrBase
	Lazy bool
}

// Section is a BODY[...] section-spec: an optional MIME part path
// ("1.2.3"), an optional message-text designator applying to that part
// (or the top level if Part is empty), and the HEADER.FIELDS(.NOT) name
// list when MsgText names one of those two variants.
type Section struct {
	Part    []int
	MsgText imap.SectionMsgText
	Fields  []string
	MIME    bool
}

// Partial is the "<offset.length>" byte-range suffix of a BODY/BINARY
// section fetch attribute.
type Partial struct {
	Offset int64
	Length int64
	HasLength bool
}
