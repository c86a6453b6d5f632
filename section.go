package imap

import (
	"fmt"
	"strconv"
	"strings"
)

// SectionMsgText names a section-msgtext production: HEADER,
// HEADER.FIELDS, HEADER.FIELDS.NOT, or TEXT (RFC 3501 section 6.4.5).
type SectionMsgText string

const (
	SectionMsgTextHeader         SectionMsgText = "HEADER"
	SectionMsgTextHeaderFields   SectionMsgText = "HEADER.FIELDS"
	SectionMsgTextHeaderFieldsNot SectionMsgText = "HEADER.FIELDS.NOT"
	SectionMsgTextText           SectionMsgText = "TEXT"
)

// SectionSpec is an IMAP section specifier: selects a whole message, a
// section-msgtext (HEADER/HEADER.FIELDS/HEADER.FIELDS.NOT/TEXT), or a MIME
// part path optionally followed by a section-text.
//
// An empty SectionSpec (zero value) denotes BODY[] / BODY[]: the entire
// message.
type SectionSpec struct {
	// Part is the non-empty MIME part path for a nested part, e.g. [1, 2]
	// for "1.2". Empty for a top-level section.
	Part []int
	// MsgText is set when this section selects a message-text production,
	// either at the top level or within a part (e.g. "1.2.HEADER"). Empty
	// string means no message-text keyword is present.
	MsgText SectionMsgText
	// Fields holds the header field names for HEADER.FIELDS and
	// HEADER.FIELDS.NOT.
	Fields []string
	// MIME is true for a bare ".MIME" section-text on a part.
	MIME bool
}

// NewPartSectionSpec builds a SectionSpec addressing a MIME part path.
// part must be non-empty and every element positive.
func NewPartSectionSpec(part []int) (SectionSpec, error) {
	if len(part) == 0 {
		return SectionSpec{}, fmt.Errorf("imap: section part path must be non-empty")
	}
	for _, p := range part {
		if p < 1 {
			return SectionSpec{}, fmt.Errorf("imap: section part numbers must be positive, got %d", p)
		}
	}
	cp := make([]int, len(part))
	copy(cp, part)
	return SectionSpec{Part: cp}, nil
}

// String renders the section specifier the way it appears inside
// BODY[...] / BODY.PEEK[...], without the surrounding brackets.
func (s SectionSpec) String() string {
	var b strings.Builder
	for i, p := range s.Part {
		if i > 0 || b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(p))
	}
	if s.MIME {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString("MIME")
		return b.String()
	}
	if s.MsgText != "" {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(string(s.MsgText))
		if s.MsgText == SectionMsgTextHeaderFields || s.MsgText == SectionMsgTextHeaderFieldsNot {
			b.WriteString(" (")
			b.WriteString(strings.Join(s.Fields, " "))
			b.WriteByte(')')
		}
	}
	return b.String()
}

// SectionPartial is a byte range suffix on a FETCH BODY[...] section,
// written as "<offset.length>". Length must be at least 1.
type SectionPartial struct {
	Offset int64
	Length int64
}

// NewSectionPartial validates and builds a SectionPartial.
func NewSectionPartial(offset, length int64) (SectionPartial, error) {
	if offset < 0 {
		return SectionPartial{}, fmt.Errorf("imap: partial offset must be non-negative, got %d", offset)
	}
	if length < 1 {
		return SectionPartial{}, fmt.Errorf("imap: partial length must be >= 1, got %d", length)
	}
	return SectionPartial{Offset: offset, Length: length}, nil
}

func (p SectionPartial) String() string {
	return fmt.Sprintf("%d.%d", p.Offset, p.Length)
}
