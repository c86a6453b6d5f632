package wire

import (
	"strings"

	imap "github.com/mxproto/imapwire"
	"github.com/mxproto/imapwire/command"
)

func parseSelectOptions(p *Parser) (command.SelectOptions, error) {
	var opts command.SelectOptions
	mark := p.mark()
	if err := p.ReadSP(); err != nil {
		return opts, nil
	}
	if b, err := p.peekByte(); err != nil || b != '(' {
		p.restore(mark)
		return opts, nil
	}
	err := p.ReadList(func() error {
		name, err := p.ReadAtom()
		if err != nil {
			return err
		}
		switch strings.ToUpper(name) {
		case "CONDSTORE":
			opts.CondStore = true
		case "QRESYNC":
			if err := p.ReadSP(); err != nil {
				return err
			}
			q, err := parseQResync(p)
			if err != nil {
				return err
			}
			opts.QResync = q
		}
		return nil
	})
	return opts, err
}

// parseQResync parses "(uidvalidity modseq [known-uids [seq-match-data]])"
// (RFC 7162 section 3.2.5).
func parseQResync(p *Parser) (*command.QResync, error) {
	mark := p.mark()
	if err := p.ExpectByte('('); err != nil {
		return nil, err
	}
	q := &command.QResync{}
	uidValidity, err := p.ReadNumber()
	if err != nil {
		p.restore(mark)
		return nil, err
	}
	q.UIDValidity = uidValidity
	if err := p.ReadSP(); err != nil {
		p.restore(mark)
		return nil, err
	}
	modSeq, err := p.ReadNumber64()
	if err != nil {
		p.restore(mark)
		return nil, err
	}
	q.ModSeq = modSeq

	if b, err := p.peekByte(); err == nil && b == ' ' {
		p.pos++
		uidSet, err := parseUIDSet(p)
		if err != nil {
			p.restore(mark)
			return nil, err
		}
		q.KnownUIDs = uidSet

		if b, err := p.peekByte(); err == nil && b == ' ' {
			p.pos++
			if err := p.ExpectByte('('); err != nil {
				p.restore(mark)
				return nil, err
			}
			seqNums, err := parseSeqSet(p)
			if err != nil {
				p.restore(mark)
				return nil, err
			}
			if err := p.ReadSP(); err != nil {
				p.restore(mark)
				return nil, err
			}
			uids, err := parseUIDSet(p)
			if err != nil {
				p.restore(mark)
				return nil, err
			}
			if err := p.ExpectByte(')'); err != nil {
				p.restore(mark)
				return nil, err
			}
			q.SeqMatch = &command.SeqMatchData{SeqNums: seqNums, UIDs: uids}
		}
	}
	if err := p.ExpectByte(')'); err != nil {
		p.restore(mark)
		return nil, err
	}
	return q, nil
}

func parseList(p *Parser, base command.Base) (command.Command, error) {
	c := command.List{Base: base}
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	if b, _ := p.peekByte(); b == '(' {
		err := p.ReadList(func() error {
			opt, err := p.ReadAtom()
			if err != nil {
				return err
			}
			switch strings.ToUpper(opt) {
			case "SUBSCRIBED":
				c.Selection.Subscribed = true
			case "REMOTE":
				c.Selection.Remote = true
			case "RECURSIVEMATCH":
				c.Selection.RecursiveMatch = true
			case "SPECIAL-USE":
				c.Selection.SpecialUse = true
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
	}
	ref, err := parseMailbox(p)
	if err != nil {
		return nil, err
	}
	c.Reference = ref
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	if b, _ := p.peekByte(); b == '(' {
		err := p.ReadList(func() error {
			pat, err := p.ReadString()
			if err != nil {
				return err
			}
			c.Patterns = append(c.Patterns, pat)
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		pat, err := p.ReadString()
		if err != nil {
			return nil, err
		}
		c.Patterns = []string{pat}
	}
	mark := p.mark()
	if err := p.ReadSP(); err == nil {
		if p.TryAtom("RETURN") {
			p.pos += len("RETURN")
			if err := p.ReadSP(); err != nil {
				return nil, err
			}
			if err := p.ReadList(func() error {
				opt, err := p.ReadAtom()
				if err != nil {
					return err
				}
				switch strings.ToUpper(opt) {
				case "SUBSCRIBED":
					c.Return.Subscribed = true
				case "CHILDREN":
					c.Return.Children = true
				case "SPECIAL-USE":
					c.Return.SpecialUse = true
				case "MYRIGHTS":
					c.Return.MyRights = true
				case "STATUS":
					if err := p.ReadSP(); err != nil {
						return err
					}
					items, err := parseStatusItems(p)
					if err != nil {
						return err
					}
					c.Return.Status = items
				}
				return nil
			}); err != nil {
				return nil, err
			}
		} else {
			p.restore(mark)
		}
	} else {
		p.restore(mark)
	}
	return c, nil
}

func parseStatusItems(p *Parser) ([]command.StatusItem, error) {
	var items []command.StatusItem
	err := p.ReadList(func() error {
		a, err := p.ReadAtom()
		if err != nil {
			return err
		}
		items = append(items, command.StatusItem(strings.ToUpper(a)))
		return nil
	})
	return items, err
}

func parseStatus(p *Parser, base command.Base) (command.Command, error) {
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
	items, err := parseStatusItems(p)
	if err != nil {
		return nil, err
	}
	return command.Status{Base: base, Mailbox: mailbox, Items: items}, nil
}

func parseAppend(p *Parser, base command.Base) (command.Command, error) {
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	mailbox, err := parseMailbox(p)
	if err != nil {
		return nil, err
	}
	c := command.Append{Base: base, Mailbox: mailbox}
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	if b, _ := p.peekByte(); b == '(' {
		flags, err := p.ReadFlags()
		if err != nil {
			return nil, err
		}
		c.Flags = flags
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
	}
	if b, _ := p.peekByte(); b == '"' {
		mark := p.mark()
		s, err := p.ReadQuotedString()
		if err != nil {
			return nil, err
		}
		t, err := imap.ParseInternalDate(s)
		if err != nil {
			p.restore(mark)
		} else {
			c.InternalDate = &t
			if err := p.ReadSP(); err != nil {
				return nil, err
			}
		}
	}
	h, err := p.ReadLiteralHeader()
	if err != nil {
		return nil, err
	}
	c.Binary = h.Binary
	if !p.HasLiteralBytes(h.Size) {
		return nil, imap.ErrIncompleteMessage
	}
	offset := p.Pos()
	c.Literal = command.LiteralRef{
		Offset:  offset,
		Length:  h.Size,
		Data:    p.buf[offset : offset+int(h.Size)],
		NonSync: h.NonSync,
		Binary:  h.Binary,
	}
	p.pos += int(h.Size)
	return c, nil
}

func parseSearch(p *Parser, base command.Base, uid bool) (command.Command, error) {
	c := command.Search{Base: base, UID: uid}
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	if p.TryAtom("RETURN") {
		p.pos += len("RETURN")
		c.Return.Requested = true
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		if err := p.ReadList(func() error {
			opt, err := p.ReadAtom()
			if err != nil {
				return err
			}
			switch strings.ToUpper(opt) {
			case "MIN":
				c.Return.Min = true
			case "MAX":
				c.Return.Max = true
			case "ALL":
				c.Return.All = true
			case "COUNT":
				c.Return.Count = true
			case "SAVE":
				c.Return.Save = true
			}
			return nil
		}); err != nil {
			return nil, err
		}
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
	}
	if p.TryAtom("CHARSET") {
		p.pos += len("CHARSET")
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		cs, err := p.ReadAtom()
		if err != nil {
			return nil, err
		}
		c.Charset = cs
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
	}
	for {
		key, err := parseSearchKey(p)
		if err != nil {
			return nil, err
		}
		c.Keys = append(c.Keys, key)
		mark := p.mark()
		if err := p.ReadSP(); err != nil {
			break
		}
		if b, err := p.peekByte(); err != nil || b == ')' {
			p.restore(mark)
			break
		}
	}
	return c, nil
}

func parseFetch(p *Parser, base command.Base, uid bool) (command.Command, error) {
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	set, err := parseNumSet(p, uid)
	if err != nil {
		return nil, err
	}
	c := command.Fetch{Base: base, UID: uid, Set: set}
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	if p.TryAtom("ALL") || p.TryAtom("FAST") || p.TryAtom("FULL") {
		macro, _ := p.ReadAtom()
		c.Attrs = fetchMacroAttrs(strings.ToUpper(macro))
	} else if b, _ := p.peekByte(); b == '(' {
		if err := p.ReadList(func() error {
			a, err := parseFetchAttr(p)
			if err != nil {
				return err
			}
			c.Attrs = append(c.Attrs, a)
			return nil
		}); err != nil {
			return nil, err
		}
	} else {
		a, err := parseFetchAttr(p)
		if err != nil {
			return nil, err
		}
		c.Attrs = []command.FetchAttr{a}
	}
	mark := p.mark()
	if err := p.ReadSP(); err == nil {
		if b, _ := p.peekByte(); b == '(' {
			if err := p.ReadList(func() error {
				mod, err := p.ReadAtom()
				if err != nil {
					return err
				}
				switch strings.ToUpper(mod) {
				case "CHANGEDSINCE":
					if err := p.ReadSP(); err != nil {
						return err
					}
					n, err := p.ReadNumber64()
					if err != nil {
						return err
					}
					c.ChangedSince = n
					c.HasChangedSince = true
				case "VANISHED":
					c.Vanished = true
				}
				return nil
			}); err != nil {
				return nil, err
			}
		} else {
			p.restore(mark)
		}
	} else {
		p.restore(mark)
	}
	return c, nil
}

func fetchMacroAttrs(macro string) []command.FetchAttr {
	base := []command.FetchAttr{
		command.FetchAttrFlags{}, command.FetchAttrInternalDate{}, command.FetchAttrRFC822Size{},
	}
	switch macro {
	case "ALL":
		return append(base, command.FetchAttrEnvelope{})
	case "FAST":
		return base
	case "FULL":
		return append(base, command.FetchAttrEnvelope{}, command.FetchAttrBody{})
	}
	return base
}

func parseStore(p *Parser, base command.Base, uid bool) (command.Command, error) {
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	set, err := parseNumSet(p, uid)
	if err != nil {
		return nil, err
	}
	c := command.Store{Base: base, UID: uid, Set: set}
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	if b, _ := p.peekByte(); b == '(' {
		if err := p.ReadList(func() error {
			mod, err := p.ReadAtom()
			if err != nil {
				return err
			}
			if strings.EqualFold(mod, "UNCHANGEDSINCE") {
				if err := p.ReadSP(); err != nil {
					return err
				}
				n, err := p.ReadNumber64()
				if err != nil {
					return err
				}
				c.UnchangedSince = n
				c.HasUnchangedSince = true
			}
			return nil
		}); err != nil {
			return nil, err
		}
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
	}
	action, err := p.ReadAtom()
	if err != nil {
		return nil, err
	}
	upper := strings.ToUpper(action)
	switch {
	case strings.HasPrefix(upper, "+FLAGS"):
		c.Action = command.StoreFlagsAdd
		c.Silent = strings.HasSuffix(upper, ".SILENT")
	case strings.HasPrefix(upper, "-FLAGS"):
		c.Action = command.StoreFlagsDel
		c.Silent = strings.HasSuffix(upper, ".SILENT")
	default:
		c.Action = command.StoreFlagsSet
		c.Silent = strings.HasSuffix(upper, ".SILENT")
	}
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	flags, err := p.ReadFlags()
	if err != nil {
		return nil, err
	}
	c.Flags = flags
	return c, nil
}

func parseMetadataOptions(p *Parser) (command.MetadataOptions, error) {
	var opts command.MetadataOptions
	mark := p.mark()
	if b, _ := p.peekByte(); b != '(' {
		return opts, nil
	}
	err := p.ReadList(func() error {
		name, err := p.ReadAtom()
		if err != nil {
			return err
		}
		if err := p.ReadSP(); err != nil {
			return err
		}
		switch strings.ToUpper(name) {
		case "MAXSIZE":
			n, err := p.ReadNumber()
			if err != nil {
				return err
			}
			opts.MaxSize = &n
		case "DEPTH":
			d, err := p.ReadAtom()
			if err != nil {
				return err
			}
			opts.Depth = command.MetadataDepth(d)
		}
		return nil
	})
	if err != nil {
		p.restore(mark)
		return opts, err
	}
	if err := p.ReadSP(); err != nil {
		return opts, err
	}
	return opts, nil
}

func parseGetMetadata(p *Parser, base command.Base) (command.Command, error) {
	if err := p.ReadSP(); err != nil {
		return nil, err
	}
	opts, err := parseMetadataOptions(p)
	if err != nil {
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
	return command.GetMetadata{Base: base, Mailbox: mailbox, Entries: entries, Options: opts}, nil
}

func parseSetMetadata(p *Parser, base command.Base) (command.Command, error) {
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
	var entries []command.MetadataEntrySet
	err = p.ReadList(func() error {
		name, err := p.ReadString()
		if err != nil {
			return err
		}
		if err := p.ReadSP(); err != nil {
			return err
		}
		val, ok, err := p.ReadNString()
		if err != nil {
			return err
		}
		var vp *string
		if ok {
			vp = &val
		}
		entries = append(entries, command.MetadataEntrySet{Entry: name, Value: vp})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return command.SetMetadata{Base: base, Mailbox: mailbox, Entries: entries}, nil
}

func parseGenURLAuth(p *Parser, base command.Base) (command.Command, error) {
	var urls []command.GenURLAuthRequest
	for {
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		u, err := p.ReadAtom()
		if err != nil {
			return nil, err
		}
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		mechTok, err := p.ReadAtom()
		if err != nil {
			return nil, err
		}
		mech := strings.TrimPrefix(strings.ToUpper(mechTok), ";AUTH=")
		urls = append(urls, command.GenURLAuthRequest{URL: u, Mechanism: mech})
		if b, err := p.peekByte(); err != nil || b != ' ' {
			break
		}
	}
	return command.GenURLAuth{Base: base, URLs: urls}, nil
}

func parseResetKey(p *Parser, base command.Base) (command.Command, error) {
	c := command.ResetKey{Base: base}
	mark := p.mark()
	if err := p.ReadSP(); err != nil {
		return c, nil
	}
	mailbox, err := parseMailbox(p)
	if err != nil {
		p.restore(mark)
		return c, nil
	}
	c.Mailbox = mailbox
	c.HasMailbox = true
	for {
		m := p.mark()
		if err := p.ReadSP(); err != nil {
			break
		}
		mech, err := p.ReadAtom()
		if err != nil {
			p.restore(m)
			break
		}
		c.Mechanisms = append(c.Mechanisms, mech)
	}
	return c, nil
}

func parseURLFetch(p *Parser, base command.Base) (command.Command, error) {
	var urls []string
	for {
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		u, err := p.ReadAtom()
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
		if b, err := p.peekByte(); err != nil || b != ' ' {
			break
		}
	}
	return command.URLFetch{Base: base, URLs: urls}, nil
}
