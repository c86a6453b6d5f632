package response

import (
	"time"

	"github.com/mxproto/imapwire"
)

// FetchAttrValue is the sealed interface implemented by every attribute
// value that can appear in an untagged FETCH response (RFC 3501 section
// 7.4.2, RFC 3516 section 4 for BINARY, RFC 7162 section 3.1.4.1 for
// MODSEQ, RFC 8970 for PREVIEW).
type FetchAttrValue interface {
	isFetchAttrValue()
}

type fetchAttrValueBase struct{}

func (fetchAttrValueBase) isFetchAttrValue() {}

// FlagsAttr carries a FETCH FLAGS value.
type FlagsAttr struct {
	fetchAttrValueBase
	Flags []imap.Flag
}

// EnvelopeAttr carries a FETCH ENVELOPE value.
type EnvelopeAttr struct {
	fetchAttrValueBase
	Envelope imap.Envelope
}

// InternalDateAttr carries a FETCH INTERNALDATE value.
type InternalDateAttr struct {
	fetchAttrValueBase
	Date time.Time
}

// RFC822SizeAttr carries a FETCH RFC822.SIZE value.
type RFC822SizeAttr struct {
	fetchAttrValueBase
	Size uint32
}

// UIDAttr carries a FETCH UID value.
type UIDAttr struct {
	fetchAttrValueBase
	UID imap.UID
}

// ModSeqAttr carries a FETCH MODSEQ value (RFC 7162 section 3.1.4.1).
type ModSeqAttr struct {
	fetchAttrValueBase
	ModSeq uint64
}

// BodyStructureAttr carries a FETCH BODY or BODYSTRUCTURE value;
// Extended distinguishes the two (BODYSTRUCTURE always includes
// extension data, BODY never does).
type BodyStructureAttr struct {
	fetchAttrValueBase
	Structure imap.BodyStructure
	Extended  bool
}

// BodySectionAttr carries a FETCH BODY[section]<partial> value. Offset
// and Length address the bytes in the shared input buffer that decoded
// them (for a host that wants to stream the range out via
// wire.Processor.LiteralBody instead of copying it); Data aliases the
// same range for direct use. Offset -1 means the value was NIL (a
// PEEK-less fetch of an absent part), and Data is nil.
type BodySectionAttr struct {
	fetchAttrValueBase
	Section   Section
	Origin    int64
	HasOrigin bool
	Offset    int
	Length    int64
	Data      []byte
}

// BinarySectionAttr carries a FETCH BINARY[section]<partial> value (RFC
// 3516 section 4.1), decoded from the message's declared content
// transfer encoding. Offset/Length/Data mirror BodySectionAttr.
type BinarySectionAttr struct {
	fetchAttrValueBase
	Part      []int
	Origin    int64
	HasOrigin bool
	Offset    int
	Length    int64
	Data      []byte
}

// BinarySizeAttr carries a FETCH BINARY.SIZE[section] value (RFC 3516
// section 4.2).
type BinarySizeAttr struct {
	fetchAttrValueBase
	Part []int
	Size uint32
}

// PreviewAttr carries a FETCH PREVIEW value (RFC 8970 section 3). A nil
// Text with Present true means the server computed an empty preview;
// Present false means it declined (e.g. LAZY mode, not yet computed).
type PreviewAttr struct {
	fetchAttrValueBase
	Text    *string
	Present bool
}

// Section mirrors command.Section on the response side: both packages
// need the same shape, but response avoids importing command to keep
// the dependency direction parser -> {command, response}, never
// response -> command.
type Section struct {
	Part    []int
	MsgText imap.SectionMsgText
	Fields  []string
	MIME    bool
}
