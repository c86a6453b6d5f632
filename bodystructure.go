package imap

import "strings"

// BodyStructureFields are the fields common to every body (basic, text,
// or message/rfc822), per RFC 3501 section 7.4.2's body-fields
// production: parameters, id, description, encoding, and octet count.
type BodyStructureFields struct {
	Params      map[string]string
	ID          *string
	Description *string
	Encoding    string
	Octets      uint32
}

// BodyStructureExtension holds the extension data appended to a
// BODYSTRUCTURE (but not a plain BODY) response: MD5, disposition,
// language, and location (RFC 3501 section 7.4.2's body-ext-1part /
// body-ext-mpart, merged since both share the same shape).
type BodyStructureExtension struct {
	MD5              *string
	Disposition      *string
	DispositionParams map[string]string
	Language          []string
	Location          *string
}

// SinglePartBody is a leaf of the BodyStructure tree: a basic, text, or
// message/rfc822 single-part body.
type SinglePartBody struct {
	Type    string
	Subtype string
	Fields  BodyStructureFields

	// Lines is set for type "text" (lines of the body) or "message" with
	// subtype "rfc822" (lines of the encapsulated message).
	Lines *uint32
	// Envelope and ChildBody are set only for type "message", subtype
	// "rfc822": the envelope and body structure of the encapsulated
	// message.
	Envelope  *Envelope
	ChildBody *BodyStructure

	Extension *BodyStructureExtension
}

// MultipartBody is an internal node of the BodyStructure tree: one or
// more child bodies sharing a multipart subtype.
type MultipartBody struct {
	Children  []BodyStructure
	Subtype   string
	Extension *BodyStructureExtension
}

// BodyStructure is the recursive BODY/BODYSTRUCTURE fetch attribute
// value: either a single-part leaf or a multipart internal node, never
// both. Value type, no back-pointers, matching spec section 9's design
// note.
type BodyStructure struct {
	Single    *SinglePartBody
	Multipart *MultipartBody
}

// IsMultipart reports whether this node is a multipart body.
func (b BodyStructure) IsMultipart() bool {
	return b.Multipart != nil
}

// MediaType returns the MIME type/subtype pair as stored, with no case
// folding ("multipart" for a multipart node). The wire form is
// case-insensitive, so comparisons should use strings.EqualFold.
func (b BodyStructure) MediaType() (typ, subtype string) {
	if b.Single != nil {
		return b.Single.Type, b.Single.Subtype
	}
	if b.Multipart != nil {
		return "multipart", b.Multipart.Subtype
	}
	return "", ""
}

// IsText reports whether the body is a top-level text/* single part.
func (b BodyStructure) IsText() bool {
	return b.Single != nil && strings.EqualFold(b.Single.Type, "text")
}

// IsMessageRFC822 reports whether the body is a message/rfc822 single
// part carrying an encapsulated envelope and body.
func (b BodyStructure) IsMessageRFC822() bool {
	return b.Single != nil && strings.EqualFold(b.Single.Type, "message") &&
		strings.EqualFold(b.Single.Subtype, "rfc822")
}
