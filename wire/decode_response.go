package wire

import (
	"strconv"
	"strings"

	imap "github.com/mxproto/imapwire"
	"github.com/mxproto/imapwire/response"
)

// ParseResponse parses one complete server response line (status
// response, continuation request, or untagged data response) from p. It
// returns imap.ErrIncompleteMessage if p's buffer ends before the
// response is complete, the response-side counterpart of ParseCommand.
func ParseResponse(p *Parser) (response.Response, error) {
	mark := p.mark()
	b, err := p.peekByte()
	if err != nil {
		return nil, err
	}
	if b == '+' {
		p.pos++
		r, err := parseContinuation(p)
		if err != nil {
			p.restore(mark)
			return nil, err
		}
		return r, nil
	}
	if b == '*' {
		p.pos++
		if err := p.ReadSP(); err != nil {
			p.restore(mark)
			return nil, err
		}
		r, err := parseUntagged(p)
		if err != nil {
			p.restore(mark)
			return nil, err
		}
		return r, nil
	}
	tag, err := p.ReadAtom()
	if err != nil {
		p.restore(mark)
		return nil, err
	}
	if err := p.ReadSP(); err != nil {
		p.restore(mark)
		return nil, err
	}
	typ, err := p.ReadAtom()
	if err != nil {
		p.restore(mark)
		return nil, err
	}
	r, err := parseStatusBody(p, tag, response.StatusType(strings.ToUpper(typ)))
	if err != nil {
		p.restore(mark)
		return nil, err
	}
	return r, nil
}

func parseContinuation(p *Parser) (response.Response, error) {
	c := &response.Continuation{}
	if b, err := p.peekByte(); err == nil && b == ' ' {
		p.pos++
	}
	text, err := readToCRLF(p)
	if err != nil {
		return nil, err
	}
	c.Text = text
	return c, nil
}

func readToCRLF(p *Parser) (string, error) {
	mark := p.mark()
	start := p.pos
	for {
		if p.pos >= len(p.buf) {
			p.restore(mark)
			return "", imap.ErrIncompleteMessage
		}
		if p.buf[p.pos] == '\r' || p.buf[p.pos] == '\n' {
			text := string(p.buf[start:p.pos])
			if err := p.ReadCRLF(); err != nil {
				p.restore(mark)
				return "", err
			}
			return text, nil
		}
		p.pos++
	}
}

// readRawUntil reads raw bytes up to (not including) the next occurrence
// of stop, not crossing a CRLF.
func readRawUntil(p *Parser, stop byte) (string, error) {
	mark := p.mark()
	start := p.pos
	for {
		if p.pos >= len(p.buf) {
			p.restore(mark)
			return "", imap.ErrIncompleteMessage
		}
		c := p.buf[p.pos]
		if c == stop {
			return string(p.buf[start:p.pos]), nil
		}
		if c == '\r' || c == '\n' {
			p.restore(mark)
			return "", imap.NewParseError(p.pos, string(stop))
		}
		p.pos++
	}
}

func parseStatusBody(p *Parser, tag string, typ response.StatusType) (*response.Status, error) {
	s := &response.Status{Tag: tag, Type: typ}
	mark := p.mark()
	if err := p.ReadSP(); err != nil {
		p.restore(mark)
		if err := p.ReadCRLF(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if b, _ := p.peekByte(); b == '[' {
		p.pos++
		code, arg, err := parseRespTextCode(p)
		if err != nil {
			return nil, err
		}
		s.Code = code
		s.CodeArg = arg
		if err := p.ExpectByte(']'); err != nil {
			return nil, err
		}
		if b, _ := p.peekByte(); b == ' ' {
			p.pos++
		}
	}
	text, err := readToCRLF(p)
	if err != nil {
		return nil, err
	}
	s.Text = text
	return s, nil
}

func parseRespTextCode(p *Parser) (response.Code, interface{}, error) {
	name, err := p.ReadAtom()
	if err != nil {
		return "", nil, err
	}
	code := response.Code(strings.ToUpper(name))
	if b, _ := p.peekByte(); b == ']' {
		return code, nil, nil
	}
	if err := p.ReadSP(); err != nil {
		return "", nil, err
	}
	switch code {
	case response.CodeUIDNext, response.CodeUIDValidity, response.CodeUnseen, response.CodeMailboxID:
		n, err := p.ReadNumber()
		if err != nil {
			return "", nil, err
		}
		return code, n, nil
	case response.CodeHighestModSeq:
		n, err := p.ReadNumber64()
		if err != nil {
			return "", nil, err
		}
		return code, n, nil
	case response.CodeAppendUID:
		uidValidity, err := p.ReadNumber()
		if err != nil {
			return "", nil, err
		}
		if err := p.ReadSP(); err != nil {
			return "", nil, err
		}
		uid, err := p.ReadNumber()
		if err != nil {
			return "", nil, err
		}
		return code, []string{
			strconv.FormatUint(uint64(uidValidity), 10),
			strconv.FormatUint(uint64(uid), 10),
		}, nil
	case response.CodeCopyUID:
		uidValidity, err := p.ReadNumber()
		if err != nil {
			return "", nil, err
		}
		if err := p.ReadSP(); err != nil {
			return "", nil, err
		}
		srcSet, err := readRawUntil(p, ' ')
		if err != nil {
			return "", nil, err
		}
		p.pos++
		destSet, err := readRawUntil(p, ']')
		if err != nil {
			return "", nil, err
		}
		return code, []string{
			strconv.FormatUint(uint64(uidValidity), 10), srcSet, destSet,
		}, nil
	default:
		raw, err := readRawUntil(p, ']')
		if err != nil {
			return "", nil, err
		}
		return code, raw, nil
	}
}

func parseUntagged(p *Parser) (response.Response, error) {
	b, err := p.peekByte()
	if err != nil {
		return nil, err
	}
	if b >= '0' && b <= '9' {
		n, err := p.ReadNumber()
		if err != nil {
			return nil, err
		}
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		name, err := p.ReadAtom()
		if err != nil {
			return nil, err
		}
		switch strings.ToUpper(name) {
		case "EXISTS":
			if err := p.ReadCRLF(); err != nil {
				return nil, err
			}
			return &response.Exists{Count: n}, nil
		case "RECENT":
			if err := p.ReadCRLF(); err != nil {
				return nil, err
			}
			return &response.Recent{Count: n}, nil
		case "EXPUNGE":
			if err := p.ReadCRLF(); err != nil {
				return nil, err
			}
			return &response.Expunge{SeqNum: n}, nil
		case "FETCH":
			if err := p.ReadSP(); err != nil {
				return nil, err
			}
			return parseFetchResponse(p, n)
		}
		return nil, imap.NewParseError(p.Pos(), "known untagged numeric response")
	}

	name, err := p.ReadAtom()
	if err != nil {
		return nil, err
	}
	switch strings.ToUpper(name) {
	case "OK", "NO", "BAD", "BYE", "PREAUTH":
		return parseStatusBody(p, "", response.StatusType(strings.ToUpper(name)))
	case "CAPABILITY":
		var caps []imap.Cap
		for {
			if b, _ := p.peekByte(); b != ' ' {
				break
			}
			p.pos++
			a, err := p.ReadAtom()
			if err != nil {
				return nil, err
			}
			caps = append(caps, imap.Cap(a))
		}
		if err := p.ReadCRLF(); err != nil {
			return nil, err
		}
		return &response.Capability{Caps: caps}, nil
	case "FLAGS":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		flags, err := p.ReadFlags()
		if err != nil {
			return nil, err
		}
		if err := p.ReadCRLF(); err != nil {
			return nil, err
		}
		return &response.Flags{Flags: flags}, nil
	case "VANISHED":
		r := &response.Vanished{}
		mark := p.mark()
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		if b, _ := p.peekByte(); b == '(' {
			if err := p.ReadList(func() error {
				opt, err := p.ReadAtom()
				if err != nil {
					return err
				}
				if strings.EqualFold(opt, "EARLIER") {
					r.Earlier = true
				}
				return nil
			}); err != nil {
				return nil, err
			}
			if err := p.ReadSP(); err != nil {
				return nil, err
			}
		} else {
			p.restore(mark)
			if err := p.ReadSP(); err != nil {
				return nil, err
			}
		}
		uids, err := parseUIDSet(p)
		if err != nil {
			return nil, err
		}
		r.UIDs = uids
		if err := p.ReadCRLF(); err != nil {
			return nil, err
		}
		return r, nil
	case "LIST", "LSUB":
		return parseListResponse(p)
	case "SEARCH":
		return parseSearchResponse(p)
	case "ESEARCH":
		return parseESearchResponse(p)
	case "STATUS":
		return parseStatusResponse(p)
	case "NAMESPACE":
		return parseNamespaceResponse(p)
	case "ID":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		kv, err := parseOrderedKV(p)
		if err != nil {
			return nil, err
		}
		if err := p.ReadCRLF(); err != nil {
			return nil, err
		}
		return &response.ID{Params: kv}, nil
	case "ENABLED":
		var caps []imap.Cap
		for {
			if b, _ := p.peekByte(); b != ' ' {
				break
			}
			p.pos++
			a, err := p.ReadAtom()
			if err != nil {
				return nil, err
			}
			caps = append(caps, imap.Cap(a))
		}
		if err := p.ReadCRLF(); err != nil {
			return nil, err
		}
		return &response.Enabled{Caps: caps}, nil
	case "METADATA":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		mailbox, err := parseMailbox(p)
		if err != nil {
			return nil, err
		}
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		var entries []string
		if b, _ := p.peekByte(); b == '(' {
			if err := p.ReadList(func() error {
				e, err := p.ReadString()
				if err != nil {
					return err
				}
				entries = append(entries, e)
				return nil
			}); err != nil {
				return nil, err
			}
		} else {
			e, err := p.ReadString()
			if err != nil {
				return nil, err
			}
			entries = []string{e}
		}
		if err := p.ReadCRLF(); err != nil {
			return nil, err
		}
		return &response.Metadata{Mailbox: mailbox, Entries: entries}, nil
	case "URLFETCH":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		url, err := p.ReadAtom()
		if err != nil {
			return nil, err
		}
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		var data []byte
		if b, _ := p.peekByte(); b == 'N' || b == 'n' {
			if !p.TryAtom("NIL") {
				return nil, imap.NewParseError(p.Pos(), "NIL or literal")
			}
			p.pos += 3
		} else {
			h, err := p.ReadLiteralHeader()
			if err != nil {
				return nil, err
			}
			b2, err := p.ReadLiteralBytes(h.Size)
			if err != nil {
				return nil, err
			}
			data = append([]byte(nil), b2...)
		}
		if err := p.ReadCRLF(); err != nil {
			return nil, err
		}
		return &response.URLFetchData{URL: url, Data: data}, nil
	}
	return nil, imap.NewParseError(p.Pos(), "known untagged response")
}

func parseListResponse(p *Parser) (response.Response, error) {
	r := &response.List{}
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	if err := p.ReadList(func() error {
		a, err := p.ReadAtom()
		if err != nil {
			return err
		}
		r.Attrs = append(r.Attrs, imap.MailboxAttr(a))
		return nil
	}); err != nil {
		return nil, err
	}
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	if b, _ := p.peekByte(); b == '"' {
		s, err := p.ReadQuotedString()
		if err != nil {
			return nil, err
		}
		if len(s) != 1 {
			return nil, imap.NewParseError(p.Pos(), "single-character delimiter")
		}
		r.Delim = rune(s[0])
		r.HasDelim = true
	} else if !p.TryAtom("NIL") {
		return nil, imap.NewParseError(p.Pos(), "quoted delimiter or NIL")
	} else {
		p.pos += 3
	}
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	mailbox, err := parseMailbox(p)
	if err != nil {
		return nil, err
	}
	r.Mailbox = mailbox
	for {
		mark := p.mark()
		if err := p.ReadSP(); err != nil {
			break
		}
		if b, _ := p.peekByte(); b != '(' {
			p.restore(mark)
			break
		}
		err := p.ReadList(func() error {
			tag, err := p.ReadString()
			if err != nil {
				return err
			}
			if strings.EqualFold(tag, "CHILDINFO") {
				if err := p.ReadSP(); err != nil {
					return err
				}
				return p.ReadList(func() error {
					e, err := p.ReadString()
					if err != nil {
						return err
					}
					r.ChildInfo = append(r.ChildInfo, e)
					return nil
				})
			}
			if strings.EqualFold(tag, "OLDNAME") {
				if err := p.ReadSP(); err != nil {
					return err
				}
				return p.ReadList(func() error {
					old, err := parseMailbox(p)
					if err != nil {
						return err
					}
					r.OldName = old
					r.HasOldName = true
					return nil
				})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if err := p.ReadCRLF(); err != nil {
		return nil, err
	}
	return r, nil
}

func parseSearchResponse(p *Parser) (response.Response, error) {
	r := &response.Search{}
	for {
		mark := p.mark()
		if err := p.ReadSP(); err != nil {
			break
		}
		if b, _ := p.peekByte(); b == '(' {
			if err := p.ReadList(func() error {
				name, err := p.ReadAtom()
				if err != nil {
					return err
				}
				if strings.EqualFold(name, "MODSEQ") {
					if err := p.ReadSP(); err != nil {
						return err
					}
					n, err := p.ReadNumber64()
					if err != nil {
						return err
					}
					r.ModSeq = n
					r.HasModSeq = true
				}
				return nil
			}); err != nil {
				return nil, err
			}
			continue
		}
		if b, err := p.peekByte(); err != nil || !(b >= '0' && b <= '9') {
			p.restore(mark)
			break
		}
		n, err := p.ReadNumber()
		if err != nil {
			return nil, err
		}
		r.Nums = append(r.Nums, n)
	}
	if err := p.ReadCRLF(); err != nil {
		return nil, err
	}
	return r, nil
}

func parseESearchResponse(p *Parser) (response.Response, error) {
	r := &response.ESearch{}
	mark := p.mark()
	if err := p.ReadSP(); err != nil {
		p.restore(mark)
		if err := p.ReadCRLF(); err != nil {
			return nil, err
		}
		return r, nil
	}
	if b, _ := p.peekByte(); b == '(' {
		if err := p.ReadList(func() error {
			name, err := p.ReadAtom()
			if err != nil {
				return err
			}
			switch strings.ToUpper(name) {
			case "TAG":
				if err := p.ReadSP(); err != nil {
					return err
				}
				tag, err := p.ReadQuotedString()
				if err != nil {
					return err
				}
				r.Tag = tag
				r.HasTag = true
			case "UID":
				r.UID = true
			}
			return nil
		}); err != nil {
			return nil, err
		}
		if err := p.ReadSP(); err != nil {
			p.restore(mark)
			if err := p.ReadCRLF(); err != nil {
				return nil, err
			}
			return r, nil
		}
	}
	for {
		m := p.mark()
		name, err := p.ReadAtom()
		if err != nil {
			p.restore(m)
			break
		}
		switch strings.ToUpper(name) {
		case "UID":
			r.UID = true
		case "MIN":
			if err := p.ReadSP(); err != nil {
				return nil, err
			}
			n, err := p.ReadNumber()
			if err != nil {
				return nil, err
			}
			r.Min = n
			r.HasMin = true
		case "MAX":
			if err := p.ReadSP(); err != nil {
				return nil, err
			}
			n, err := p.ReadNumber()
			if err != nil {
				return nil, err
			}
			r.Max = n
			r.HasMax = true
		case "ALL":
			if err := p.ReadSP(); err != nil {
				return nil, err
			}
			set, err := parseSeqSet(p)
			if err != nil {
				return nil, err
			}
			r.All = set
		case "COUNT":
			if err := p.ReadSP(); err != nil {
				return nil, err
			}
			n, err := p.ReadNumber()
			if err != nil {
				return nil, err
			}
			r.Count = n
			r.HasCount = true
		case "MODSEQ":
			if err := p.ReadSP(); err != nil {
				return nil, err
			}
			n, err := p.ReadNumber64()
			if err != nil {
				return nil, err
			}
			r.ModSeq = n
			r.HasModSeq = true
		case "PARTIAL":
			if err := p.ReadSP(); err != nil {
				return nil, err
			}
			if err := p.ExpectByte('('); err != nil {
				return nil, err
			}
			offset, err := p.ReadNumber()
			if err != nil {
				return nil, err
			}
			if err := p.ExpectByte(':'); err != nil {
				return nil, err
			}
			total, err := p.ReadNumber()
			if err != nil {
				return nil, err
			}
			partial := &response.SearchPartial{Offset: int32(offset), Total: total}
			if b, _ := p.peekByte(); b == ' ' {
				p.pos++
				set, err := parseSeqSet(p)
				if err != nil {
					return nil, err
				}
				partial.UIDs = set
			}
			if err := p.ExpectByte(')'); err != nil {
				return nil, err
			}
			r.Partial = partial
		default:
			p.restore(m)
			goto done
		}
		mk := p.mark()
		if err := p.ReadSP(); err != nil {
			p.restore(mk)
			break
		}
	}
done:
	if err := p.ReadCRLF(); err != nil {
		return nil, err
	}
	return r, nil
}

func parseStatusResponse(p *Parser) (response.Response, error) {
	r := &response.MailboxStatus{}
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	mailbox, err := parseMailbox(p)
	if err != nil {
		return nil, err
	}
	r.Mailbox = mailbox
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	if err := p.ReadList(func() error {
		name, err := p.ReadAtom()
		if err != nil {
			return err
		}
		if err := p.ReadSP(); err != nil {
			return err
		}
		n, err := p.ReadNumber64()
		if err != nil {
			return err
		}
		r.Attrs = append(r.Attrs, response.StatusAttrValue{Name: strings.ToUpper(name), Value: n})
		return nil
	}); err != nil {
		return nil, err
	}
	if err := p.ReadCRLF(); err != nil {
		return nil, err
	}
	return r, nil
}

func parseNamespaceResponse(p *Parser) (response.Response, error) {
	r := &response.Namespace{}
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	readDescs := func() ([]response.NamespaceDescriptor, error) {
		if p.TryAtom("NIL") {
			p.pos += 3
			return nil, nil
		}
		var descs []response.NamespaceDescriptor
		err := p.ReadList(func() error {
			var d response.NamespaceDescriptor
			err := p.ReadList(func() error {
				prefix, err := p.ReadString()
				if err != nil {
					return err
				}
				d.Prefix = prefix
				if err := p.ReadSP(); err != nil {
					return err
				}
				if b, _ := p.peekByte(); b == '"' {
					s, err := p.ReadQuotedString()
					if err != nil {
						return err
					}
					if len(s) == 1 {
						d.Delim = rune(s[0])
						d.HasDelim = true
					}
				} else if p.TryAtom("NIL") {
					p.pos += 3
				}
				return nil
			})
			if err != nil {
				return err
			}
			descs = append(descs, d)
			return nil
		})
		return descs, err
	}
	personal, err := readDescs()
	if err != nil {
		return nil, err
	}
	r.Personal = personal
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	other, err := readDescs()
	if err != nil {
		return nil, err
	}
	r.Other = other
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	shared, err := readDescs()
	if err != nil {
		return nil, err
	}
	r.Shared = shared
	if err := p.ReadCRLF(); err != nil {
		return nil, err
	}
	return r, nil
}

func parseFetchResponse(p *Parser, seqNum uint32) (response.Response, error) {
	r := &response.Fetch{SeqNum: seqNum}
	if err := p.ReadList(func() error {
		a, err := parseFetchAttrValue(p)
		if err != nil {
			return err
		}
		r.Attrs = append(r.Attrs, a)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := p.ReadCRLF(); err != nil {
		return nil, err
	}
	return r, nil
}

func parseFetchAttrValue(p *Parser) (response.FetchAttrValue, error) {
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
	switch upper {
	case "FLAGS":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		flags, err := p.ReadFlags()
		if err != nil {
			return nil, err
		}
		return response.FlagsAttr{Flags: flags}, nil
	case "INTERNALDATE":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		s, err := p.ReadQuotedString()
		if err != nil {
			return nil, err
		}
		t, err := imap.ParseInternalDate(s)
		if err != nil {
			return nil, &imap.ParseError{Pos: p.Pos(), Expected: "internal date", Err: err}
		}
		return response.InternalDateAttr{Date: t}, nil
	case "RFC822.SIZE":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		n, err := p.ReadNumber()
		if err != nil {
			return nil, err
		}
		return response.RFC822SizeAttr{Size: n}, nil
	case "UID":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		n, err := p.ReadNumber()
		if err != nil {
			return nil, err
		}
		return response.UIDAttr{UID: imap.UID(n)}, nil
	case "MODSEQ":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		if err := p.ExpectByte('('); err != nil {
			return nil, err
		}
		n, err := p.ReadNumber64()
		if err != nil {
			return nil, err
		}
		if err := p.ExpectByte(')'); err != nil {
			return nil, err
		}
		return response.ModSeqAttr{ModSeq: n}, nil
	case "ENVELOPE":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		env, err := parseEnvelope(p)
		if err != nil {
			return nil, err
		}
		return response.EnvelopeAttr{Envelope: env}, nil
	case "BODYSTRUCTURE", "BODY":
		if upper == "BODY" {
			if b, _ := p.peekByte(); b == '[' {
				p.pos++
				return parseBodySectionAttr(p)
			}
		}
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		b, err := parseBodyStructure(p)
		if err != nil {
			return nil, err
		}
		return response.BodyStructureAttr{Structure: b, Extended: upper == "BODYSTRUCTURE"}, nil
	case "BINARY.SIZE":
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
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		n, err := p.ReadNumber()
		if err != nil {
			return nil, err
		}
		return response.BinarySizeAttr{Part: part, Size: n}, nil
	case "BINARY":
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
		return parseBinarySectionAttr(p, part)
	case "PREVIEW":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		s, ok, err := p.ReadNString()
		if err != nil {
			return nil, err
		}
		if !ok {
			return response.PreviewAttr{Present: false}, nil
		}
		return response.PreviewAttr{Text: &s, Present: true}, nil
	}
	return nil, imap.NewParseError(p.Pos(), "known fetch attribute value")
}

func parseBodySectionAttr(p *Parser) (response.FetchAttrValue, error) {
	sec, err := parseSectionResp(p)
	if err != nil {
		return nil, err
	}
	if err := p.ExpectByte(']'); err != nil {
		return nil, err
	}
	var origin int64
	var hasOrigin bool
	if b, _ := p.peekByte(); b == '<' {
		p.pos++
		n, err := p.ReadNumber64()
		if err != nil {
			return nil, err
		}
		origin = int64(n)
		hasOrigin = true
		if err := p.ExpectByte('>'); err != nil {
			return nil, err
		}
	}
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	offset := p.Pos()
	var length int64
	var data []byte
	if b, _ := p.peekByte(); b == 'N' || b == 'n' {
		if !p.TryAtom("NIL") {
			return nil, imap.NewParseError(p.Pos(), "NIL or literal")
		}
		p.pos += 3
		offset = -1
	} else {
		h, err := p.ReadLiteralHeader()
		if err != nil {
			return nil, err
		}
		offset = p.Pos()
		if !p.HasLiteralBytes(h.Size) {
			return nil, imap.ErrIncompleteMessage
		}
		length = h.Size
		data = p.buf[offset : offset+int(length)]
		p.pos += int(h.Size)
	}
	return response.BodySectionAttr{
		Section: sec, Origin: origin, HasOrigin: hasOrigin, Offset: offset, Length: length, Data: data,
	}, nil
}

func parseBinarySectionAttr(p *Parser, part []int) (response.FetchAttrValue, error) {
	var origin int64
	var hasOrigin bool
	if b, _ := p.peekByte(); b == '<' {
		p.pos++
		n, err := p.ReadNumber64()
		if err != nil {
			return nil, err
		}
		origin = int64(n)
		hasOrigin = true
		if err := p.ExpectByte('>'); err != nil {
			return nil, err
		}
	}
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	h, err := p.ReadLiteralHeader()
	if err != nil {
		return nil, err
	}
	offset := p.Pos()
	if !p.HasLiteralBytes(h.Size) {
		return nil, imap.ErrIncompleteMessage
	}
	data := p.buf[offset : offset+int(h.Size)]
	p.pos += int(h.Size)
	return response.BinarySectionAttr{
		Part: part, Origin: origin, HasOrigin: hasOrigin, Offset: offset, Length: h.Size, Data: data,
	}, nil
}

func parseSectionResp(p *Parser) (response.Section, error) {
	var sec response.Section
	if b, _ := p.peekByte(); b == ']' {
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
	if upper == "MIME" {
		sec.MIME = true
		return sec, nil
	}
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

func parseEnvelope(p *Parser) (imap.Envelope, error) {
	var e imap.Envelope
	if err := p.ExpectByte('('); err != nil {
		return e, err
	}
	read := func() (*string, error) {
		s, ok, err := p.ReadNString()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return &s, nil
	}
	var err error
	if e.Date, err = read(); err != nil {
		return e, err
	}
	if err := p.ReadSP(); err != nil {
		return e, err
	}
	if e.Subject, err = read(); err != nil {
		return e, err
	}
	fields := []*[]imap.Address{&e.From, &e.Sender, &e.ReplyTo, &e.To, &e.Cc, &e.Bcc}
	for _, f := range fields {
		if err := p.ReadSP(); err != nil {
			return e, err
		}
		addrs, err := parseAddressList(p)
		if err != nil {
			return e, err
		}
		*f = addrs
	}
	if err := p.ReadSP(); err != nil {
		return e, err
	}
	if e.InReplyTo, err = read(); err != nil {
		return e, err
	}
	if err := p.ReadSP(); err != nil {
		return e, err
	}
	if e.MessageID, err = read(); err != nil {
		return e, err
	}
	if err := p.ExpectByte(')'); err != nil {
		return e, err
	}
	return e, nil
}

func parseAddressList(p *Parser) ([]imap.Address, error) {
	if p.TryAtom("NIL") {
		p.pos += 3
		return nil, nil
	}
	var addrs []imap.Address
	err := p.ReadList(func() error {
		a, err := parseAddress(p)
		if err != nil {
			return err
		}
		addrs = append(addrs, a)
		return nil
	})
	return addrs, err
}

func parseAddress(p *Parser) (imap.Address, error) {
	var a imap.Address
	if err := p.ExpectByte('('); err != nil {
		return a, err
	}
	read := func() (*string, error) {
		s, ok, err := p.ReadNString()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return &s, nil
	}
	var err error
	if a.Name, err = read(); err != nil {
		return a, err
	}
	if err := p.ReadSP(); err != nil {
		return a, err
	}
	if a.ADL, err = read(); err != nil {
		return a, err
	}
	if err := p.ReadSP(); err != nil {
		return a, err
	}
	if a.Mailbox, err = read(); err != nil {
		return a, err
	}
	if err := p.ReadSP(); err != nil {
		return a, err
	}
	if a.Host, err = read(); err != nil {
		return a, err
	}
	if err := p.ExpectByte(')'); err != nil {
		return a, err
	}
	return a, nil
}

func parseBodyStructureFields(p *Parser) (imap.BodyStructureFields, error) {
	var f imap.BodyStructureFields
	if p.TryAtom("NIL") {
		p.pos += 3
	} else {
		params := make(map[string]string)
		if err := p.ReadList(func() error {
			k, err := p.ReadString()
			if err != nil {
				return err
			}
			if err := p.ReadSP(); err != nil {
				return err
			}
			v, err := p.ReadString()
			if err != nil {
				return err
			}
			params[k] = v
			return nil
		}); err != nil {
			return f, err
		}
		if len(params) > 0 {
			f.Params = params
		}
	}
	if err := p.ReadSP(); err != nil {
		return f, err
	}
	s, ok, err := p.ReadNString()
	if err != nil {
		return f, err
	}
	if ok {
		f.ID = &s
	}
	if err := p.ReadSP(); err != nil {
		return f, err
	}
	s, ok, err = p.ReadNString()
	if err != nil {
		return f, err
	}
	if ok {
		f.Description = &s
	}
	if err := p.ReadSP(); err != nil {
		return f, err
	}
	enc, err := p.ReadString()
	if err != nil {
		return f, err
	}
	f.Encoding = enc
	if err := p.ReadSP(); err != nil {
		return f, err
	}
	n, err := p.ReadNumber()
	if err != nil {
		return f, err
	}
	f.Octets = n
	return f, nil
}

func parseBodyStructureExtension(p *Parser) (*imap.BodyStructureExtension, error) {
	ext := &imap.BodyStructureExtension{}
	mark := p.mark()
	if err := p.ReadSP(); err != nil {
		p.restore(mark)
		return nil, nil
	}
	s, ok, err := p.ReadNString()
	if err != nil {
		p.restore(mark)
		return nil, nil
	}
	if ok {
		ext.MD5 = &s
	}
	if err := p.ReadSP(); err != nil {
		return ext, nil
	}
	if p.TryAtom("NIL") {
		p.pos += 3
	} else if b, _ := p.peekByte(); b == '(' {
		if err := p.ReadList(func() error {
			disp, err := p.ReadString()
			if err != nil {
				return err
			}
			ext.Disposition = &disp
			if err := p.ReadSP(); err != nil {
				return err
			}
			if p.TryAtom("NIL") {
				p.pos += 3
				return nil
			}
			params := make(map[string]string)
			if err := p.ReadList(func() error {
				k, err := p.ReadString()
				if err != nil {
					return err
				}
				if err := p.ReadSP(); err != nil {
					return err
				}
				v, err := p.ReadString()
				if err != nil {
					return err
				}
				params[k] = v
				return nil
			}); err != nil {
				return err
			}
			if len(params) > 0 {
				ext.DispositionParams = params
			}
			return nil
		}); err != nil {
			return ext, err
		}
	}
	if err := p.ReadSP(); err != nil {
		return ext, nil
	}
	if p.TryAtom("NIL") {
		p.pos += 3
	} else if b, _ := p.peekByte(); b == '(' {
		if err := p.ReadList(func() error {
			lang, err := p.ReadString()
			if err != nil {
				return err
			}
			ext.Language = append(ext.Language, lang)
			return nil
		}); err != nil {
			return ext, err
		}
	} else {
		lang, err := p.ReadString()
		if err != nil {
			return ext, err
		}
		ext.Language = []string{lang}
	}
	if err := p.ReadSP(); err != nil {
		return ext, nil
	}
	s, ok, err = p.ReadNString()
	if err != nil {
		return ext, nil
	}
	if ok {
		ext.Location = &s
	}
	return ext, nil
}

// parseBodyStructure parses a BODY/BODYSTRUCTURE value. It tolerates
// either shape (with or without extension data) since the distinction is
// only which attribute name asked for it, not something encoded in the
// parenthesized value itself.
func parseBodyStructure(p *Parser) (imap.BodyStructure, error) {
	var b imap.BodyStructure
	if err := p.ExpectByte('('); err != nil {
		return b, err
	}
	if bb, _ := p.peekByte(); bb == '(' {
		mp := &imap.MultipartBody{}
		for {
			child, err := parseBodyStructure(p)
			if err != nil {
				return b, err
			}
			mp.Children = append(mp.Children, child)
			if bb2, _ := p.peekByte(); bb2 != '(' {
				break
			}
		}
		if err := p.ReadSP(); err != nil {
			return b, err
		}
		subtype, err := p.ReadString()
		if err != nil {
			return b, err
		}
		mp.Subtype = subtype
		ext, _ := parseBodyStructureExtension(p)
		mp.Extension = ext
		if err := p.ExpectByte(')'); err != nil {
			return b, err
		}
		b.Multipart = mp
		return b, nil
	}
	s := &imap.SinglePartBody{}
	typ, err := p.ReadString()
	if err != nil {
		return b, err
	}
	s.Type = typ
	if err := p.ReadSP(); err != nil {
		return b, err
	}
	subtype, err := p.ReadString()
	if err != nil {
		return b, err
	}
	s.Subtype = subtype
	if err := p.ReadSP(); err != nil {
		return b, err
	}
	fields, err := parseBodyStructureFields(p)
	if err != nil {
		return b, err
	}
	s.Fields = fields
	if strings.EqualFold(s.Type, "message") && strings.EqualFold(s.Subtype, "rfc822") {
		if err := p.ReadSP(); err != nil {
			return b, err
		}
		env, err := parseEnvelope(p)
		if err != nil {
			return b, err
		}
		s.Envelope = &env
		if err := p.ReadSP(); err != nil {
			return b, err
		}
		child, err := parseBodyStructure(p)
		if err != nil {
			return b, err
		}
		s.ChildBody = &child
		if err := p.ReadSP(); err != nil {
			return b, err
		}
		n, err := p.ReadNumber()
		if err != nil {
			return b, err
		}
		s.Lines = &n
	} else if strings.EqualFold(s.Type, "text") {
		if err := p.ReadSP(); err != nil {
			return b, err
		}
		n, err := p.ReadNumber()
		if err != nil {
			return b, err
		}
		s.Lines = &n
	}
	ext, _ := parseBodyStructureExtension(p)
	s.Extension = ext
	if err := p.ExpectByte(')'); err != nil {
		return b, err
	}
	b.Single = s
	return b, nil
}
