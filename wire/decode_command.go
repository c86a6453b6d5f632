package wire

import (
	"strings"

	imap "github.com/mxproto/imapwire"
	"github.com/mxproto/imapwire/command"
)

// ParseCommand parses one complete client command line (tag, command
// name, arguments, CRLF) from p. It returns imap.ErrIncompleteMessage if
// p's buffer ends before the command is complete; the caller should feed
// more bytes and call ParseCommand again from the same saved position
// (p commits nothing until it returns successfully).
func ParseCommand(p *Parser) (command.Command, error) {
	mark := p.mark()
	tag, err := p.ReadAtom()
	if err != nil {
		return nil, err
	}
	if err := p.ReadSP(); err != nil {
		p.restore(mark)
		return nil, err
	}
	name, err := p.ReadAtom()
	if err != nil {
		p.restore(mark)
		return nil, err
	}
	base := command.NewBase(tag)
	upper := strings.ToUpper(name)

	uid := false
	if upper == "UID" {
		if err := p.ReadSP(); err != nil {
			p.restore(mark)
			return nil, err
		}
		name, err = p.ReadAtom()
		if err != nil {
			p.restore(mark)
			return nil, err
		}
		upper = strings.ToUpper(name)
		uid = true
	}

	cmd, err := parseCommandArgs(p, base, upper, uid)
	if err != nil {
		p.restore(mark)
		return nil, err
	}
	if err := p.ReadCRLF(); err != nil {
		p.restore(mark)
		return nil, err
	}
	return cmd, nil
}

func parseCommandArgs(p *Parser, base command.Base, name string, uid bool) (command.Command, error) {
	switch name {
	case "CAPABILITY":
		return command.Capability{Base: base}, nil
	case "NOOP":
		return command.Noop{Base: base}, nil
	case "LOGOUT":
		return command.Logout{Base: base}, nil
	case "STARTTLS":
		return command.StartTLS{Base: base}, nil
	case "LOGIN":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		user, err := p.ReadAString()
		if err != nil {
			return nil, err
		}
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		pass, err := p.ReadAString()
		if err != nil {
			return nil, err
		}
		return command.Login{Base: base, Username: user, Password: pass}, nil
	case "AUTHENTICATE":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		mech, err := p.ReadAtom()
		if err != nil {
			return nil, err
		}
		c := command.Authenticate{Base: base, Mechanism: mech}
		if b, err := p.peekByte(); err == nil && b == ' ' {
			p.pos++
			s, err := p.ReadString()
			if err != nil {
				return nil, err
			}
			c.HasInitialResponse = true
			if s != "=" {
				c.InitialResponse = []byte(s)
			}
		}
		return c, nil
	case "ENABLE":
		var caps []imap.Cap
		for {
			if err := p.ReadSP(); err != nil {
				return nil, err
			}
			a, err := p.ReadAtom()
			if err != nil {
				return nil, err
			}
			caps = append(caps, imap.Cap(a))
			if b, err := p.peekByte(); err != nil || b != ' ' {
				break
			}
		}
		return command.Enable{Base: base, Caps: caps}, nil
	case "SELECT", "EXAMINE":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		mailbox, err := parseMailbox(p)
		if err != nil {
			return nil, err
		}
		opts, err := parseSelectOptions(p)
		if err != nil {
			return nil, err
		}
		if name == "SELECT" {
			return command.Select{Base: base, Mailbox: mailbox, Options: opts}, nil
		}
		return command.Examine{Base: base, Mailbox: mailbox, Options: opts}, nil
	case "CREATE":
		mailbox, err := parseSPMailbox(p)
		if err != nil {
			return nil, err
		}
		return command.Create{Base: base, Mailbox: mailbox}, nil
	case "DELETE":
		mailbox, err := parseSPMailbox(p)
		if err != nil {
			return nil, err
		}
		return command.Delete{Base: base, Mailbox: mailbox}, nil
	case "RENAME":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		from, err := parseMailbox(p)
		if err != nil {
			return nil, err
		}
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		to, err := parseMailbox(p)
		if err != nil {
			return nil, err
		}
		return command.Rename{Base: base, From: from, To: to}, nil
	case "SUBSCRIBE":
		mailbox, err := parseSPMailbox(p)
		if err != nil {
			return nil, err
		}
		return command.Subscribe{Base: base, Mailbox: mailbox}, nil
	case "UNSUBSCRIBE":
		mailbox, err := parseSPMailbox(p)
		if err != nil {
			return nil, err
		}
		return command.Unsubscribe{Base: base, Mailbox: mailbox}, nil
	case "LIST":
		return parseList(p, base)
	case "LSUB":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		ref, err := parseMailbox(p)
		if err != nil {
			return nil, err
		}
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		pattern, err := p.ReadAString()
		if err != nil {
			return nil, err
		}
		return command.Lsub{Base: base, Reference: ref, Pattern: pattern}, nil
	case "NAMESPACE":
		return command.Namespace{Base: base}, nil
	case "STATUS":
		return parseStatus(p, base)
	case "APPEND":
		return parseAppend(p, base)
	case "IDLE":
		return command.Idle{Base: base}, nil
	case "CLOSE":
		return command.Close{Base: base}, nil
	case "UNSELECT":
		return command.Unselect{Base: base}, nil
	case "EXPUNGE":
		c := command.Expunge{Base: base}
		if uid {
			if err := p.ReadSP(); err != nil {
				return nil, err
			}
			set, err := parseUIDSet(p)
			if err != nil {
				return nil, err
			}
			c.UIDs = set
		}
		return c, nil
	case "COPY", "MOVE":
		set, mailbox, err := parseSetAndMailbox(p, uid)
		if err != nil {
			return nil, err
		}
		if name == "COPY" {
			return command.Copy{Base: base, UID: uid, Set: set, Mailbox: mailbox}, nil
		}
		return command.Move{Base: base, UID: uid, Set: set, Mailbox: mailbox}, nil
	case "SEARCH":
		return parseSearch(p, base, uid)
	case "FETCH":
		return parseFetch(p, base, uid)
	case "STORE":
		return parseStore(p, base, uid)
	case "ID":
		if err := p.ReadSP(); err != nil {
			return nil, err
		}
		kv, err := parseOrderedKV(p)
		if err != nil {
			return nil, err
		}
		return command.ID{Base: base, Params: kv}, nil
	case "GETMETADATA":
		return parseGetMetadata(p, base)
	case "SETMETADATA":
		return parseSetMetadata(p, base)
	case "GENURLAUTH":
		return parseGenURLAuth(p, base)
	case "RESETKEY":
		return parseResetKey(p, base)
	case "URLFETCH":
		return parseURLFetch(p, base)
	default:
		return nil, imap.NewParseError(p.Pos(), "known command name")
	}
}

func parseMailbox(p *Parser) (imap.MailboxName, error) {
	s, err := p.ReadAString()
	if err != nil {
		return "", err
	}
	return imap.NewMailboxName(s), nil
}

func parseSPMailbox(p *Parser) (imap.MailboxName, error) {
	if err := p.ReadSP(); err != nil {
		return "", err
	}
	return parseMailbox(p)
}

// readSeqSetToken reads the raw characters of a sequence-set/uid-set:
// digits, ',', ':', and '*'. '*' is one of the atom-specials (it also
// doubles as the LIST wildcard and the untagged-response prefix), so a
// plain ReadAtom would stop right before it; sequence-set grammar needs
// it explicitly.
func readSeqSetToken(p *Parser) (string, error) {
	start := p.pos
	for p.pos < len(p.buf) {
		b := p.buf[p.pos]
		if (b >= '0' && b <= '9') || b == ',' || b == ':' || b == '*' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		if p.pos >= len(p.buf) {
			return "", imap.ErrIncompleteMessage
		}
		return "", imap.NewParseError(p.pos, "sequence set")
	}
	return string(p.buf[start:p.pos]), nil
}

func parseSeqSet(p *Parser) (*imap.SeqSet, error) {
	a, err := readSeqSetToken(p)
	if err != nil {
		return nil, err
	}
	return imap.ParseSeqSet(a)
}

func parseUIDSet(p *Parser) (*imap.UIDSet, error) {
	a, err := readSeqSetToken(p)
	if err != nil {
		return nil, err
	}
	return imap.ParseUIDSet(a)
}

func parseNumSet(p *Parser, uid bool) (imap.NumSet, error) {
	if uid {
		return parseUIDSet(p)
	}
	return parseSeqSet(p)
}

func parseSetAndMailbox(p *Parser, uid bool) (imap.NumSet, imap.MailboxName, error) {
	if err := p.ReadSP(); err != nil {
		return nil, "", err
	}
	set, err := parseNumSet(p, uid)
	if err != nil {
		return nil, "", err
	}
	if err := p.ReadSP(); err != nil {
		return nil, "", err
	}
	mailbox, err := parseMailbox(p)
	if err != nil {
		return nil, "", err
	}
	return set, mailbox, nil
}

func parseOrderedKV(p *Parser) (*imap.OrderedKV, error) {
	mark := p.mark()
	if p.TryAtom("NIL") {
		p.pos += 3
		return imap.NewOrderedKV(), nil
	}
	kv := imap.NewOrderedKV()
	err := p.ReadList(func() error {
		key, err := p.ReadString()
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
		return kv.Set(key, vp)
	})
	if err != nil {
		p.restore(mark)
		return nil, err
	}
	return kv, nil
}
