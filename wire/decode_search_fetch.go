package wire

import (
	"strings"

	imap "github.com/mxproto/imapwire"
	"github.com/mxproto/imapwire/command"
)

func parseSearchKey(p *Parser) (command.SearchKey, error) {
	b, err := p.peekByte()
	if err != nil {
		return nil, err
	}
	if b == '(' {
		var keys []command.SearchKey
		err := p.ReadList(func() error {
			k, err := parseSearchKey(p)
			if err != nil {
				return err
			}
			keys = append(keys, k)
			return nil
		})
		if err != nil {
			return nil, err
		}
		if len(keys) == 1 {
			return keys[0], nil
		}
		return command.SearchKeyAnd{Keys: keys}, nil
	}
	if b >= '0' && b <= '9' || b == '*' {
		set, err := parseSeqSet(p)
		if err != nil {
			return nil, err
		}
		return command.SearchKeySeqSet{Set: set}, nil
	}

	mark := p.mark()
	name, err := p.ReadAtom()
	if err != nil {
		return nil, err
	}
	switch strings.ToUpper(name) {
	case "ALL":
		return command.SearchKeyAll{}, nil
	case "ANSWERED":
		return command.SearchKeyAnswered{}, nil
	case "DELETED":
		return command.SearchKeyDeleted{}, nil
	case "DRAFT":
		return command.SearchKeyDraft{}, nil
	case "FLAGGED":
		return command.SearchKeyFlagged{}, nil
	case "NEW":
		return command.SearchKeyNew{}, nil
	case "OLD":
		return command.SearchKeyOld{}, nil
	case "RECENT":
		return command.SearchKeyRecent{}, nil
	case "SEEN":
		return command.SearchKeySeen{}, nil
	case "UNANSWERED":
		return command.SearchKeyUnanswered{}, nil
	case "UNDELETED":
		return command.SearchKeyUndeleted{}, nil
	case "UNDRAFT":
		return command.SearchKeyUndraft{}, nil
	case "UNFLAGGED":
		return command.SearchKeyUnflagged{}, nil
	case "UNSEEN":
		return command.SearchKeyUnseen{}, nil
	case "BCC", "CC", "FROM", "SUBJECT", "TO", "BODY", "TEXT":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		v, err := p.ReadAString()
		if err != nil {
			return nil, err
		}
		switch strings.ToUpper(name) {
		case "BCC":
			return command.SearchKeyBcc{Value: v}, nil
		case "CC":
			return command.SearchKeyCc{Value: v}, nil
		case "FROM":
			return command.SearchKeyFrom{Value: v}, nil
		case "SUBJECT":
			return command.SearchKeySubject{Value: v}, nil
		case "TO":
			return command.SearchKeyTo{Value: v}, nil
		case "BODY":
			return command.SearchKeyBody{Value: v}, nil
		default:
			return command.SearchKeyText{Value: v}, nil
		}
	case "HEADER":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		field, err := p.ReadAString()
		if err != nil {
			return nil, err
		}
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		val, err := p.ReadAString()
		if err != nil {
			return nil, err
		}
		return command.SearchKeyHeader{Field: field, Value: val}, nil
	case "KEYWORD":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		f, err := p.ReadAtom()
		if err != nil {
			return nil, err
		}
		return command.SearchKeyKeyword{Flag: imap.Flag(f)}, nil
	case "UNKEYWORD":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		f, err := p.ReadAtom()
		if err != nil {
			return nil, err
		}
		return command.SearchKeyUnkeyword{Flag: imap.Flag(f)}, nil
	case "BEFORE", "ON", "SINCE", "SENTBEFORE", "SENTON", "SENTSINCE":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		s, err := p.ReadAString()
		if err != nil {
			return nil, err
		}
		t, err := imap.ParseDate(s)
		if err != nil {
			return nil, &imap.ParseError{Pos: p.Pos(), Expected: "date", Err: err}
		}
		switch strings.ToUpper(name) {
		case "BEFORE":
			return command.SearchKeyBefore{Date: t}, nil
		case "ON":
			return command.SearchKeyOn{Date: t}, nil
		case "SINCE":
			return command.SearchKeySince{Date: t}, nil
		case "SENTBEFORE":
			return command.SearchKeySentBefore{Date: t}, nil
		case "SENTON":
			return command.SearchKeySentOn{Date: t}, nil
		default:
			return command.SearchKeySentSince{Date: t}, nil
		}
	case "LARGER", "SMALLER":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		n, err := p.ReadNumber()
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(name, "LARGER") {
			return command.SearchKeyLarger{Size: n}, nil
		}
		return command.SearchKeySmaller{Size: n}, nil
	case "NOT":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		k, err := parseSearchKey(p)
		if err != nil {
			return nil, err
		}
		return command.SearchKeyNot{Key: k}, nil
	case "OR":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		left, err := parseSearchKey(p)
		if err != nil {
			return nil, err
		}
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		right, err := parseSearchKey(p)
		if err != nil {
			return nil, err
		}
		return command.SearchKeyOr{Left: left, Right: right}, nil
	case "UID":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		set, err := parseUIDSet(p)
		if err != nil {
			return nil, err
		}
		return command.SearchKeyUID{Set: set}, nil
	case "MODSEQ":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		mk := command.SearchKeyModSeq{}
		mark2 := p.mark()
		if b, _ := p.peekByte(); b == '"' {
			entry, err := p.ReadQuotedString()
			if err != nil {
				return nil, err
			}
			if err := p.ReadSP(); err != nil {
				p.restore(mark2)
			} else {
				typ, err := p.ReadAtom()
				if err != nil {
					return nil, err
				}
				if err := p.ReadSP(); err != nil {
					return nil, err
				}
				mk.MetadataName = entry
				mk.MetadataType = typ
			}
		}
		n, err := p.ReadNumber64()
		if err != nil {
			return nil, err
		}
		mk.ModSeq = n
		return mk, nil
	case "OLDER", "YOUNGER":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		n, err := p.ReadNumber()
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(name, "OLDER") {
			return command.SearchKeyOlder{Seconds: n}, nil
		}
		return command.SearchKeyYounger{Seconds: n}, nil
	default:
		p.restore(mark)
		return nil, imap.NewParseError(p.Pos(), "search key")
	}
}

func parseFetchAttr(p *Parser) (command.FetchAttr, error) {
	mark := p.mark()
	name, err := p.ReadAtom()
	if err != nil {
		return nil, err
	}
	// '[' is an atom character, so "BODY[...]" reads as one atom; keep
	// only the name and leave the section for the code below.
	if i := strings.IndexByte(name, '['); i >= 0 {
		p.pos -= len(name) - i
		name = name[:i]
	}
	upper := strings.ToUpper(name)
	switch {
	case upper == "ENVELOPE":
		return command.FetchAttrEnvelope{}, nil
	case upper == "FLAGS":
		return command.FetchAttrFlags{}, nil
	case upper == "INTERNALDATE":
		return command.FetchAttrInternalDate{}, nil
	case upper == "RFC822.SIZE":
		return command.FetchAttrRFC822Size{}, nil
	case upper == "UID":
		return command.FetchAttrUID{}, nil
	case upper == "BODYSTRUCTURE":
		return command.FetchAttrBodyStructure{}, nil
	case upper == "MODSEQ":
		return command.FetchAttrModSeq{}, nil
	case upper == "RFC822":
		return command.FetchAttrRFC822{}, nil
	case upper == "RFC822.HEADER":
		return command.FetchAttrRFC822Header{}, nil
	case upper == "RFC822.TEXT":
		return command.FetchAttrRFC822Text{}, nil
	case upper == "PREVIEW":
		a := command.FetchAttrPreview{}
		if b, _ := p.peekByte(); b == ' ' {
			m2 := p.mark()
			p.pos++
			if b2, _ := p.peekByte(); b2 == '(' {
				p.ReadList(func() error {
					opt, err := p.ReadAtom()
					if err != nil {
						return err
					}
					if strings.EqualFold(opt, "LAZY") {
						a.Lazy = true
					}
					return nil
				})
			} else {
				p.restore(m2)
			}
		}
		return a, nil
	}
	if upper == "BODY" || upper == "BODY.PEEK" {
		peek := upper == "BODY.PEEK"
		if b, _ := p.peekByte(); b != '[' {
			if peek {
				return nil, imap.NewParseError(p.Pos(), "[section]")
			}
			return command.FetchAttrBody{}, nil
		}
		p.pos++
		sec, err := parseSection(p)
		if err != nil {
			return nil, err
		}
		if err := p.ExpectByte(']'); err != nil {
			return nil, err
		}
		partial, err := parsePartial(p)
		if err != nil {
			return nil, err
		}
		return command.FetchAttrBodySection{Section: sec, Peek: peek, Partial: partial}, nil
	}
	if upper == "BINARY" || upper == "BINARY.PEEK" {
		peek := upper == "BINARY.PEEK"
		if err := p.ExpectByte('['); err != nil {
			return nil, err
		}
		part, err := parsePartPath(p)
		if err != nil {
			return nil, err
		}
		if err := p.ExpectByte(']'); err != nil {
			return nil, err
		}
		partial, err := parsePartial(p)
		if err != nil {
			return nil, err
		}
		return command.FetchAttrBinarySection{Part: part, Peek: peek, Partial: partial}, nil
	}
	if upper == "BINARY.SIZE" {
		if err := p.ExpectByte('['); err != nil {
			return nil, err
		}
		part, err := parsePartPath(p)
		if err != nil {
			return nil, err
		}
		if err := p.ExpectByte(']'); err != nil {
			return nil, err
		}
		return command.FetchAttrBinarySize{Part: part}, nil
	}
	p.restore(mark)
	return nil, imap.NewParseError(p.Pos(), "fetch attribute")
}

func parsePartPath(p *Parser) ([]int, error) {
	var part []int
	for {
		n, err := p.ReadNumber()
		if err != nil {
			return nil, err
		}
		part = append(part, int(n))
		if b, err := p.peekByte(); err != nil || b != '.' {
			break
		}
		m := p.mark()
		p.pos++
		if b, err := p.peekByte(); err != nil || !(b >= '0' && b <= '9') {
			p.restore(m)
			break
		}
	}
	return part, nil
}

func parseSection(p *Parser) (command.Section, error) {
	var sec command.Section
	if b, err := p.peekByte(); err == nil && b == ']' {
		return sec, nil
	}
	if b, _ := p.peekByte(); b >= '0' && b <= '9' {
		part, err := parsePartPath(p)
		if err != nil {
			return sec, err
		}
		sec.Part = part
		if b, err := p.peekByte(); err != nil || b != '.' {
			return sec, nil
		}
		p.pos++
	}
	name, err := p.ReadAtom()
	if err != nil {
		return sec, err
	}
	upper := strings.ToUpper(name)
	sec.MsgText = imap.SectionMsgText(upper)
	if upper == "HEADER.FIELDS" || upper == "HEADER.FIELDS.NOT" {
		if err := p.ReadSP(); err != nil {
			return sec, err
		}
		err := p.ReadList(func() error {
			f, err := p.ReadAString()
			if err != nil {
				return err
			}
			sec.Fields = append(sec.Fields, f)
			return nil
		})
		if err != nil {
			return sec, err
		}
	}
	return sec, nil
}

func parsePartial(p *Parser) (*command.Partial, error) {
	b, err := p.peekByte()
	if err != nil || b != '<' {
		return nil, nil
	}
	p.pos++
	offset, err := p.ReadNumber64()
	if err != nil {
		return nil, err
	}
	partial := &command.Partial{Offset: int64(offset)}
	if b, _ := p.peekByte(); b == '.' {
		p.pos++
		length, err := p.ReadNumber64()
		if err != nil {
			return nil, err
		}
		partial.Length = int64(length)
		partial.HasLength = true
	}
	if err := p.ExpectByte('>'); err != nil {
		return nil, err
	}
	return partial, nil
}
