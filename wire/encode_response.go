package wire

import (
	"strconv"

	imap "github.com/mxproto/imapwire"
	"github.com/mxproto/imapwire/response"
)

// EncodeResponse renders resp's wire form into buf, the response-side
// counterpart of EncodeCommand.
func EncodeResponse(buf *EncodeBuffer, resp response.Response) error {
	switch r := resp.(type) {
	case *response.Status:
		encodeStatus(buf, r)
	case *response.Continuation:
		buf.Plus()
		if r.Text != "" {
			buf.RawString(r.Text)
		}
		if r.HasData {
			buf.SP().RawString(string(r.Data))
		}
		buf.CRLF()
	case *response.Capability:
		buf.Star().Atom("CAPABILITY")
		for _, c := range r.Caps {
			buf.SP().Atom(string(c))
		}
		buf.CRLF()
	case *response.Flags:
		buf.Star().Atom("FLAGS").SP().Flags(r.Flags).CRLF()
	case *response.Exists:
		buf.Star().Number(r.Count).SP().Atom("EXISTS").CRLF()
	case *response.Recent:
		buf.Star().Number(r.Count).SP().Atom("RECENT").CRLF()
	case *response.Expunge:
		buf.Star().Number(r.SeqNum).SP().Atom("EXPUNGE").CRLF()
	case *response.Vanished:
		buf.Star().Atom("VANISHED")
		if r.Earlier {
			buf.SP().Raw([]byte("(EARLIER)"))
		}
		buf.SP().Atom(r.UIDs.String()).CRLF()
	case *response.Fetch:
		buf.Star().Number(r.SeqNum).SP().Atom("FETCH").SP().BeginList()
		for i, a := range r.Attrs {
			if i > 0 {
				buf.SP()
			}
			encodeFetchAttrValue(buf, a)
		}
		buf.EndList().CRLF()
	case *response.List:
		encodeListResponse(buf, r)
	case *response.Search:
		buf.Star().Atom("SEARCH")
		for _, n := range r.Nums {
			buf.SP().Number(n)
		}
		if r.HasModSeq {
			buf.SP().Raw([]byte("(MODSEQ ")).Number64(r.ModSeq).Raw([]byte(")"))
		}
		buf.CRLF()
	case *response.ESearch:
		encodeESearch(buf, r)
	case *response.Namespace:
		encodeNamespace(buf, r)
	case *response.ID:
		buf.Star().Atom("ID").SP()
		encodeOrderedKV(buf, r.Params)
		buf.CRLF()
	case *response.Enabled:
		buf.Star().Atom("ENABLED")
		for _, c := range r.Caps {
			buf.SP().Atom(string(c))
		}
		buf.CRLF()
	case *response.Metadata:
		buf.Star().Atom("METADATA").SP().MailboxName(r.Mailbox).SP().BeginList()
		for i, e := range r.Entries {
			if i > 0 {
				buf.SP()
			}
			buf.String(e)
		}
		buf.EndList().CRLF()
	case *response.URLFetchData:
		buf.Star().Atom("URLFETCH").SP().Atom(r.URL).SP()
		if r.Data == nil {
			buf.Nil()
		} else {
			buf.Literal(r.Data)
		}
		buf.CRLF()
	default:
		return imap.NewParseError(0, "known response")
	}
	return nil
}

func encodeStatus(buf *EncodeBuffer, r *response.Status) {
	if r.Tag == "" {
		buf.Star()
	} else {
		buf.Tag(r.Tag).SP()
	}
	buf.Atom(string(r.Type))
	if r.Code != "" {
		buf.SP()
		switch arg := r.CodeArg.(type) {
		case nil:
			buf.ResponseCode(string(r.Code))
		case string:
			buf.ResponseCode(string(r.Code), arg)
		case uint32:
			buf.ResponseCode(string(r.Code), strconv.FormatUint(uint64(arg), 10))
		case uint64:
			buf.ResponseCode(string(r.Code), strconv.FormatUint(arg, 10))
		case []string:
			buf.ResponseCode(string(r.Code), arg...)
		default:
			buf.ResponseCode(string(r.Code))
		}
	}
	if r.Text != "" {
		buf.SP().RawString(r.Text)
	}
	buf.CRLF()
}

func encodeListResponse(buf *EncodeBuffer, r *response.List) {
	buf.Star().Atom("LIST").SP().BeginList()
	for i, a := range r.Attrs {
		if i > 0 {
			buf.SP()
		}
		buf.Atom(string(a))
	}
	buf.EndList().SP()
	if r.HasDelim {
		buf.QuotedString(string(r.Delim))
	} else {
		buf.Nil()
	}
	buf.SP().MailboxName(r.Mailbox)
	if len(r.ChildInfo) > 0 {
		buf.SP().ResponseCode("CHILDINFO", r.ChildInfo...)
	}
	if r.HasOldName {
		buf.SP().Raw([]byte("(\"OLDNAME\" (")).MailboxName(r.OldName).Raw([]byte("))"))
	}
	buf.CRLF()
}

func encodeESearch(buf *EncodeBuffer, r *response.ESearch) {
	buf.Star().Atom("ESEARCH")
	if r.HasTag {
		buf.SP().Raw([]byte("(")).Atom("TAG").SP().QuotedString(r.Tag).Raw([]byte(")"))
	}
	if r.UID {
		buf.SP().Atom("UID")
	}
	if r.HasMin {
		buf.SP().Atom("MIN").SP().Number(r.Min)
	}
	if r.HasMax {
		buf.SP().Atom("MAX").SP().Number(r.Max)
	}
	if r.All != nil {
		buf.SP().Atom("ALL").SP().Atom(r.All.String())
	}
	if r.HasCount {
		buf.SP().Atom("COUNT").SP().Number(r.Count)
	}
	if r.HasModSeq {
		buf.SP().Atom("MODSEQ").SP().Number64(r.ModSeq)
	}
	if r.Partial != nil {
		buf.SP().Atom("PARTIAL").SP().Raw([]byte("(")).
			Number(uint32(r.Partial.Offset)).Atom(":").Number(r.Partial.Total)
		if r.Partial.UIDs != nil {
			buf.SP().Atom(r.Partial.UIDs.String())
		}
		buf.Raw([]byte(")"))
	}
	buf.CRLF()
}

func encodeNamespace(buf *EncodeBuffer, r *response.Namespace) {
	buf.Star().Atom("NAMESPACE").SP()
	writeDescs := func(descs []response.NamespaceDescriptor) {
		if len(descs) == 0 {
			buf.Nil()
			return
		}
		buf.BeginList()
		for i, d := range descs {
			if i > 0 {
				buf.SP()
			}
			buf.BeginList().String(d.Prefix).SP()
			if d.HasDelim {
				buf.QuotedString(string(d.Delim))
			} else {
				buf.Nil()
			}
			buf.EndList()
		}
		buf.EndList()
	}
	writeDescs(r.Personal)
	buf.SP()
	writeDescs(r.Other)
	buf.SP()
	writeDescs(r.Shared)
	buf.CRLF()
}

func encodeFetchAttrValue(buf *EncodeBuffer, a response.FetchAttrValue) {
	switch v := a.(type) {
	case response.FlagsAttr:
		buf.Atom("FLAGS").SP().Flags(v.Flags)
	case response.InternalDateAttr:
		buf.Atom("INTERNALDATE").SP().DateTime(v.Date)
	case response.RFC822SizeAttr:
		buf.Atom("RFC822.SIZE").SP().Number(v.Size)
	case response.UIDAttr:
		buf.Atom("UID").SP().Number(uint32(v.UID))
	case response.ModSeqAttr:
		buf.Atom("MODSEQ").SP().Raw([]byte("(")).Number64(v.ModSeq).Raw([]byte(")"))
	case response.BinarySizeAttr:
		buf.Atom("BINARY.SIZE").Raw([]byte("["))
		encodePartPathInt(buf, v.Part)
		buf.Raw([]byte("]")).SP().Number(v.Size)
	case response.PreviewAttr:
		buf.Atom("PREVIEW").SP()
		if v.Text == nil {
			buf.Nil()
		} else {
			buf.String(*v.Text)
		}
	case response.EnvelopeAttr:
		buf.Atom("ENVELOPE").SP()
		encodeEnvelope(buf, v.Envelope)
	case response.BodyStructureAttr:
		if v.Extended {
			buf.Atom("BODYSTRUCTURE")
		} else {
			buf.Atom("BODY")
		}
		buf.SP()
		encodeBodyStructure(buf, v.Structure, v.Extended)
	case response.BodySectionAttr:
		buf.Atom("BODY").Raw([]byte("["))
		encodeSectionResp(buf, v.Section)
		buf.Raw([]byte("]"))
		if v.HasOrigin {
			buf.Raw([]byte("<")).Number64(uint64(v.Origin)).Raw([]byte(">"))
		}
		buf.SP()
		if v.Data == nil {
			buf.Nil()
		} else {
			buf.Literal(v.Data)
		}
	case response.BinarySectionAttr:
		buf.Atom("BINARY").Raw([]byte("["))
		encodePartPathInt(buf, v.Part)
		buf.Raw([]byte("]"))
		if v.HasOrigin {
			buf.Raw([]byte("<")).Number64(uint64(v.Origin)).Raw([]byte(">"))
		}
		buf.SP()
		if v.Data == nil {
			buf.Nil()
		} else {
			buf.Literal(v.Data)
		}
	}
}

// encodeSectionResp renders a response.Section the way encodeSection
// renders a command.Section; the two types are duplicated rather than
// shared (see DESIGN.md: parser -> {command, response}, never response
// -> command), so their encoders are duplicated too.
func encodeSectionResp(buf *EncodeBuffer, s response.Section) {
	encodePartPathInt(buf, s.Part)
	if s.MIME {
		if len(s.Part) > 0 {
			buf.Atom(".")
		}
		buf.Atom("MIME")
		return
	}
	if s.MsgText == "" {
		return
	}
	if len(s.Part) > 0 {
		buf.Atom(".")
	}
	buf.Atom(string(s.MsgText))
	if len(s.Fields) > 0 {
		buf.SP().BeginList()
		for i, f := range s.Fields {
			if i > 0 {
				buf.SP()
			}
			buf.String(f)
		}
		buf.EndList()
	}
}

func encodeEnvelope(buf *EncodeBuffer, e imap.Envelope) {
	buf.BeginList()
	buf.NString(e.Date).SP()
	buf.NString(e.Subject).SP()
	encodeAddressList(buf, e.From).SP()
	pick := e.Sender
	if len(pick) == 0 {
		pick = e.From
	}
	encodeAddressList(buf, pick).SP()
	pick = e.ReplyTo
	if len(pick) == 0 {
		pick = e.From
	}
	encodeAddressList(buf, pick).SP()
	encodeAddressList(buf, e.To).SP()
	encodeAddressList(buf, e.Cc).SP()
	encodeAddressList(buf, e.Bcc).SP()
	buf.NString(e.InReplyTo).SP()
	buf.NString(e.MessageID)
	buf.EndList()
}

func encodeAddressList(buf *EncodeBuffer, addrs []imap.Address) *EncodeBuffer {
	if len(addrs) == 0 {
		return buf.Nil()
	}
	buf.BeginList()
	for i, a := range addrs {
		if i > 0 {
			buf.SP()
		}
		buf.BeginList()
		buf.NString(a.Name).SP()
		buf.NString(a.ADL).SP()
		buf.NString(a.Mailbox).SP()
		buf.NString(a.Host)
		buf.EndList()
	}
	return buf.EndList()
}

func encodeBodyStructureFields(buf *EncodeBuffer, f imap.BodyStructureFields) {
	if len(f.Params) == 0 {
		buf.Nil()
	} else {
		buf.BeginList()
		first := true
		for k, v := range f.Params {
			if !first {
				buf.SP()
			}
			buf.String(k).SP().String(v)
			first = false
		}
		buf.EndList()
	}
	buf.SP().NString(f.ID).SP().NString(f.Description).SP().String(f.Encoding).SP().Number(f.Octets)
}

func encodeBodyStructureExtension(buf *EncodeBuffer, ext *imap.BodyStructureExtension) {
	if ext == nil {
		return
	}
	buf.SP().NString(ext.MD5)
	buf.SP()
	if ext.Disposition == nil {
		buf.Nil()
	} else {
		buf.BeginList().String(*ext.Disposition).SP()
		if len(ext.DispositionParams) == 0 {
			buf.Nil()
		} else {
			buf.BeginList()
			first := true
			for k, v := range ext.DispositionParams {
				if !first {
					buf.SP()
				}
				buf.String(k).SP().String(v)
				first = false
			}
			buf.EndList()
		}
		buf.EndList()
	}
	buf.SP()
	if len(ext.Language) == 0 {
		buf.Nil()
	} else {
		buf.List(ext.Language)
	}
	buf.SP().NString(ext.Location)
}

func encodeBodyStructure(buf *EncodeBuffer, b imap.BodyStructure, extended bool) {
	buf.BeginList()
	if b.Multipart != nil {
		for _, child := range b.Multipart.Children {
			encodeBodyStructure(buf, child, extended)
		}
		buf.SP().String(b.Multipart.Subtype)
		if extended {
			encodeBodyStructureExtension(buf, b.Multipart.Extension)
		}
	} else if b.Single != nil {
		s := b.Single
		buf.String(s.Type).SP().String(s.Subtype).SP()
		encodeBodyStructureFields(buf, s.Fields)
		if s.Envelope != nil {
			buf.SP()
			encodeEnvelope(buf, *s.Envelope)
		}
		if s.ChildBody != nil {
			buf.SP()
			encodeBodyStructure(buf, *s.ChildBody, extended)
		}
		if s.Lines != nil {
			buf.SP().Number(*s.Lines)
		}
		if extended {
			encodeBodyStructureExtension(buf, s.Extension)
		}
	}
	buf.EndList()
}

func encodePartPathInt(buf *EncodeBuffer, part []int) {
	for i, n := range part {
		if i > 0 {
			buf.Atom(".")
		}
		buf.Number(uint32(n))
	}
}
