package wire

import (
	"github.com/mxproto/imapwire/command"
)

func encodeSearch(buf *EncodeBuffer, c command.Search) {
	if c.UID {
		buf.Atom("UID").SP()
	}
	buf.Atom("SEARCH")
	if ret := c.Return; ret.Requested {
		buf.SP().Atom("RETURN").SP().BeginList()
		first := true
		item := func(name string) {
			if !first {
				buf.SP()
			}
			buf.Atom(name)
			first = false
		}
		if ret.Min {
			item("MIN")
		}
		if ret.Max {
			item("MAX")
		}
		if ret.All {
			item("ALL")
		}
		if ret.Count {
			item("COUNT")
		}
		if ret.Save {
			item("SAVE")
		}
		if ret.Partial != nil {
			if !first {
				buf.SP()
			}
			buf.Atom("PARTIAL").SP().BeginList().Number(uint32(ret.Partial.Offset)).Atom(":").Number(uint32(ret.Partial.Count)).EndList()
		}
		buf.EndList()
	}
	if c.Charset != "" {
		buf.SP().Atom("CHARSET").SP().Atom(c.Charset)
	}
	for _, k := range c.Keys {
		buf.SP()
		encodeSearchKey(buf, k)
	}
}

func encodeSearchKey(buf *EncodeBuffer, k command.SearchKey) {
	switch v := k.(type) {
	case command.SearchKeyAll:
		buf.Atom("ALL")
	case command.SearchKeyAnswered:
		buf.Atom("ANSWERED")
	case command.SearchKeyDeleted:
		buf.Atom("DELETED")
	case command.SearchKeyDraft:
		buf.Atom("DRAFT")
	case command.SearchKeyFlagged:
		buf.Atom("FLAGGED")
	case command.SearchKeyNew:
		buf.Atom("NEW")
	case command.SearchKeyOld:
		buf.Atom("OLD")
	case command.SearchKeyRecent:
		buf.Atom("RECENT")
	case command.SearchKeySeen:
		buf.Atom("SEEN")
	case command.SearchKeyUnanswered:
		buf.Atom("UNANSWERED")
	case command.SearchKeyUndeleted:
		buf.Atom("UNDELETED")
	case command.SearchKeyUndraft:
		buf.Atom("UNDRAFT")
	case command.SearchKeyUnflagged:
		buf.Atom("UNFLAGGED")
	case command.SearchKeyUnseen:
		buf.Atom("UNSEEN")
	case command.SearchKeyBcc:
		buf.Atom("BCC").SP().String(v.Value)
	case command.SearchKeyCc:
		buf.Atom("CC").SP().String(v.Value)
	case command.SearchKeyFrom:
		buf.Atom("FROM").SP().String(v.Value)
	case command.SearchKeySubject:
		buf.Atom("SUBJECT").SP().String(v.Value)
	case command.SearchKeyTo:
		buf.Atom("TO").SP().String(v.Value)
	case command.SearchKeyBody:
		buf.Atom("BODY").SP().String(v.Value)
	case command.SearchKeyText:
		buf.Atom("TEXT").SP().String(v.Value)
	case command.SearchKeyHeader:
		buf.Atom("HEADER").SP().String(v.Field).SP().String(v.Value)
	case command.SearchKeyKeyword:
		buf.Atom("KEYWORD").SP().Atom(string(v.Flag))
	case command.SearchKeyUnkeyword:
		buf.Atom("UNKEYWORD").SP().Atom(string(v.Flag))
	case command.SearchKeyBefore:
		buf.Atom("BEFORE").SP().Date(v.Date)
	case command.SearchKeyOn:
		buf.Atom("ON").SP().Date(v.Date)
	case command.SearchKeySince:
		buf.Atom("SINCE").SP().Date(v.Date)
	case command.SearchKeySentBefore:
		buf.Atom("SENTBEFORE").SP().Date(v.Date)
	case command.SearchKeySentOn:
		buf.Atom("SENTON").SP().Date(v.Date)
	case command.SearchKeySentSince:
		buf.Atom("SENTSINCE").SP().Date(v.Date)
	case command.SearchKeyLarger:
		buf.Atom("LARGER").SP().Number(v.Size)
	case command.SearchKeySmaller:
		buf.Atom("SMALLER").SP().Number(v.Size)
	case command.SearchKeyNot:
		buf.Atom("NOT").SP()
		encodeSearchKey(buf, v.Key)
	case command.SearchKeyOr:
		buf.Atom("OR").SP()
		encodeSearchKey(buf, v.Left)
		buf.SP()
		encodeSearchKey(buf, v.Right)
	case command.SearchKeyAnd:
		buf.BeginList()
		for i, sub := range v.Keys {
			if i > 0 {
				buf.SP()
			}
			encodeSearchKey(buf, sub)
		}
		buf.EndList()
	case command.SearchKeySeqSet:
		buf.Atom(v.Set.String())
	case command.SearchKeyUID:
		buf.Atom("UID").SP().Atom(v.Set.String())
	case command.SearchKeyModSeq:
		buf.Atom("MODSEQ").SP()
		if v.MetadataName != "" {
			buf.String(v.MetadataName).SP().Atom(v.MetadataType).SP()
		}
		buf.Number64(v.ModSeq)
	case command.SearchKeyOlder:
		buf.Atom("OLDER").SP().Number(v.Seconds)
	case command.SearchKeyYounger:
		buf.Atom("YOUNGER").SP().Number(v.Seconds)
	}
}

func encodeFetch(buf *EncodeBuffer, c command.Fetch) {
	if c.UID {
		buf.Atom("UID").SP()
	}
	buf.Atom("FETCH").SP().Atom(c.Set.String()).SP()
	if macro := fetchMacroName(c.Attrs); macro != "" {
		buf.Atom(macro)
	} else if len(c.Attrs) == 1 {
		encodeFetchAttr(buf, c.Attrs[0])
	} else {
		buf.BeginList()
		for i, a := range c.Attrs {
			if i > 0 {
				buf.SP()
			}
			encodeFetchAttr(buf, a)
		}
		buf.EndList()
	}
	if c.HasChangedSince || c.Vanished {
		buf.SP().BeginList()
		first := true
		if c.HasChangedSince {
			buf.Atom("CHANGEDSINCE").SP().Number64(c.ChangedSince)
			first = false
		}
		if c.Vanished {
			if !first {
				buf.SP()
			}
			buf.Atom("VANISHED")
		}
		buf.EndList()
	}
}

// fetchMacroName reports which of the FAST/ALL/FULL fetch macros attrs
// is equal to as a set (RFC 3501 section 6.4.5), or "" if it matches
// none. spec.md section 4.3 names this collapse as one of the few
// canonicalizations an encoder is allowed to apply: a FETCH whose
// attribute set equals a macro's expansion renders as the macro, not
// the expansion, regardless of whether it arrived as the macro or
// spelled out explicitly.
func fetchMacroName(attrs []command.FetchAttr) string {
	if len(attrs) < 3 || len(attrs) > 5 {
		return ""
	}
	var hasFlags, hasInternalDate, hasSize, hasEnvelope, hasBody bool
	for _, a := range attrs {
		switch a.(type) {
		case command.FetchAttrFlags:
			hasFlags = true
		case command.FetchAttrInternalDate:
			hasInternalDate = true
		case command.FetchAttrRFC822Size:
			hasSize = true
		case command.FetchAttrEnvelope:
			hasEnvelope = true
		case command.FetchAttrBody:
			hasBody = true
		default:
			return ""
		}
	}
	if !hasFlags || !hasInternalDate || !hasSize {
		return ""
	}
	switch {
	case len(attrs) == 3 && !hasEnvelope && !hasBody:
		return "FAST"
	case len(attrs) == 4 && hasEnvelope && !hasBody:
		return "ALL"
	case len(attrs) == 5 && hasEnvelope && hasBody:
		return "FULL"
	}
	return ""
}

func encodeFetchAttr(buf *EncodeBuffer, a command.FetchAttr) {
	switch v := a.(type) {
	case command.FetchAttrEnvelope:
		buf.Atom("ENVELOPE")
	case command.FetchAttrFlags:
		buf.Atom("FLAGS")
	case command.FetchAttrInternalDate:
		buf.Atom("INTERNALDATE")
	case command.FetchAttrRFC822Size:
		buf.Atom("RFC822.SIZE")
	case command.FetchAttrUID:
		buf.Atom("UID")
	case command.FetchAttrBodyStructure:
		buf.Atom("BODYSTRUCTURE")
	case command.FetchAttrBody:
		buf.Atom("BODY")
	case command.FetchAttrModSeq:
		buf.Atom("MODSEQ")
	case command.FetchAttrRFC822:
		buf.Atom("RFC822")
	case command.FetchAttrRFC822Header:
		buf.Atom("RFC822.HEADER")
	case command.FetchAttrRFC822Text:
		buf.Atom("RFC822.TEXT")
	case command.FetchAttrBodySection:
		if v.Peek {
			buf.Atom("BODY.PEEK")
		} else {
			buf.Atom("BODY")
		}
		buf.Raw([]byte("["))
		encodeSection(buf, v.Section)
		buf.Raw([]byte("]"))
		encodePartial(buf, v.Partial)
	case command.FetchAttrBinarySection:
		if v.Peek {
			buf.Atom("BINARY.PEEK")
		} else {
			buf.Atom("BINARY")
		}
		buf.Raw([]byte("["))
		encodePartPath(buf, v.Part)
		buf.Raw([]byte("]"))
		encodePartial(buf, v.Partial)
	case command.FetchAttrBinarySize:
		buf.Atom("BINARY.SIZE").Raw([]byte("["))
		encodePartPath(buf, v.Part)
		buf.Raw([]byte("]"))
	case command.FetchAttrPreview:
		buf.Atom("PREVIEW")
		if v.Lazy {
			buf.SP().Atom("(LAZY)")
		}
	}
}

func encodePartPath(buf *EncodeBuffer, part []int) {
	for i, n := range part {
		if i > 0 {
			buf.Atom(".")
		}
		buf.Number(uint32(n))
	}
}

func encodeSection(buf *EncodeBuffer, s command.Section) {
	encodePartPath(buf, s.Part)
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

func encodePartial(buf *EncodeBuffer, p *command.Partial) {
	if p == nil {
		return
	}
	buf.Raw([]byte("<"))
	buf.Number64(uint64(p.Offset))
	if p.HasLength {
		buf.Atom(".")
		buf.Number64(uint64(p.Length))
	}
	buf.Raw([]byte(">"))
}

func encodeStore(buf *EncodeBuffer, c command.Store) {
	if c.UID {
		buf.Atom("UID").SP()
	}
	buf.Atom("STORE").SP().Atom(c.Set.String()).SP()
	if c.HasUnchangedSince {
		buf.BeginList().Atom("UNCHANGEDSINCE").SP().Number64(c.UnchangedSince).EndList().SP()
	}
	buf.Atom(c.Action.String())
	if c.Silent {
		buf.Atom(".SILENT")
	}
	buf.SP().Flags(c.Flags)
}
