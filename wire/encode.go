package wire

import (
	imap "github.com/mxproto/imapwire"
	"github.com/mxproto/imapwire/command"
)

// EncodeCommand renders cmd's wire form into buf. It is the single
// dispatch point for every command variant: a type switch here replaces
// what the teacher repo spread across one method per command on its
// server-side ResponseEncoder/handler pair.
func EncodeCommand(buf *EncodeBuffer, cmd command.Command) error {
	buf.Tag(cmd.Tag()).SP()
	switch c := cmd.(type) {
	case command.Capability:
		buf.Atom("CAPABILITY")
	case command.Noop:
		buf.Atom("NOOP")
	case command.Logout:
		buf.Atom("LOGOUT")
	case command.StartTLS:
		buf.Atom("STARTTLS")
	case command.Authenticate:
		buf.Atom("AUTHENTICATE").SP().Atom(c.Mechanism)
		if c.HasInitialResponse {
			buf.SP()
			if len(c.InitialResponse) == 0 {
				buf.Atom("=")
			} else {
				buf.String(string(c.InitialResponse))
			}
		}
	case command.Login:
		buf.Atom("LOGIN").SP().AString(c.Username).SP().AString(c.Password)
	case command.Enable:
		buf.Atom("ENABLE")
		for _, cap := range c.Caps {
			buf.SP().Atom(string(cap))
		}
	case command.Select:
		buf.Atom("SELECT").SP()
		buf.MailboxName(c.Mailbox)
		encodeSelectOptions(buf, c.Options)
	case command.Examine:
		buf.Atom("EXAMINE").SP()
		buf.MailboxName(c.Mailbox)
		encodeSelectOptions(buf, c.Options)
	case command.Create:
		buf.Atom("CREATE").SP().MailboxName(c.Mailbox)
	case command.Delete:
		buf.Atom("DELETE").SP().MailboxName(c.Mailbox)
	case command.Rename:
		buf.Atom("RENAME").SP().MailboxName(c.From).SP().MailboxName(c.To)
	case command.Subscribe:
		buf.Atom("SUBSCRIBE").SP().MailboxName(c.Mailbox)
	case command.Unsubscribe:
		buf.Atom("UNSUBSCRIBE").SP().MailboxName(c.Mailbox)
	case command.List:
		encodeList(buf, c)
	case command.Lsub:
		buf.Atom("LSUB").SP().MailboxName(c.Reference).SP().String(c.Pattern)
	case command.Namespace:
		buf.Atom("NAMESPACE")
	case command.Status:
		buf.Atom("STATUS").SP().MailboxName(c.Mailbox).SP().BeginList()
		for i, item := range c.Items {
			if i > 0 {
				buf.SP()
			}
			buf.Atom(string(item))
		}
		buf.EndList()
	case command.Append:
		encodeAppend(buf, c)
	case command.Idle:
		buf.Atom("IDLE")
	case command.Close:
		buf.Atom("CLOSE")
	case command.Unselect:
		buf.Atom("UNSELECT")
	case command.Expunge:
		if c.UIDs != nil {
			buf.Atom("UID").SP().Atom("EXPUNGE").SP().Atom(c.UIDs.String())
		} else {
			buf.Atom("EXPUNGE")
		}
	case command.Copy:
		encodeMoveCopy(buf, "COPY", c.UID, c.Set, c.Mailbox)
	case command.Move:
		encodeMoveCopy(buf, "MOVE", c.UID, c.Set, c.Mailbox)
	case command.Search:
		encodeSearch(buf, c)
	case command.Fetch:
		encodeFetch(buf, c)
	case command.Store:
		encodeStore(buf, c)
	case command.ID:
		buf.Atom("ID").SP()
		encodeOrderedKV(buf, c.Params)
	case command.GetMetadata:
		encodeGetMetadata(buf, c)
	case command.SetMetadata:
		encodeSetMetadata(buf, c)
	case command.GenURLAuth:
		buf.Atom("GENURLAUTH")
		for _, u := range c.URLs {
			buf.SP().Atom(u.URL).SP().Atom(";AUTH=" + u.Mechanism)
		}
	case command.ResetKey:
		buf.Atom("RESETKEY")
		if c.HasMailbox {
			buf.SP().MailboxName(c.Mailbox)
			for _, m := range c.Mechanisms {
				buf.SP().Atom(m)
			}
		}
	case command.URLFetch:
		buf.Atom("URLFETCH")
		for _, u := range c.URLs {
			buf.SP().Atom(u)
		}
	default:
		return imap.NewParseError(0, "known command")
	}
	buf.CRLF()
	return nil
}

func encodeSelectOptions(buf *EncodeBuffer, opt command.SelectOptions) {
	if !opt.CondStore && opt.QResync == nil {
		return
	}
	buf.SP().BeginList()
	wrote := false
	if opt.CondStore {
		buf.Atom("CONDSTORE")
		wrote = true
	}
	if opt.QResync != nil {
		if wrote {
			buf.SP()
		}
		q := opt.QResync
		buf.Atom("QRESYNC").SP().BeginList()
		buf.Number(q.UIDValidity).SP().Number64(q.ModSeq)
		if q.KnownUIDs != nil {
			buf.SP().Atom(q.KnownUIDs.String())
			if q.SeqMatch != nil {
				buf.SP().BeginList().Atom(q.SeqMatch.SeqNums.String()).SP().Atom(q.SeqMatch.UIDs.String()).EndList()
			}
		}
		buf.EndList()
	}
	buf.EndList()
}

func encodeList(buf *EncodeBuffer, c command.List) {
	buf.Atom("LIST")
	sel := c.Selection
	if sel.Subscribed || sel.Remote || sel.RecursiveMatch || sel.SpecialUse {
		buf.SP().BeginList()
		first := true
		writeOpt := func(name string) {
			if !first {
				buf.SP()
			}
			buf.Atom(name)
			first = false
		}
		if sel.Subscribed {
			writeOpt("SUBSCRIBED")
		}
		if sel.Remote {
			writeOpt("REMOTE")
		}
		if sel.RecursiveMatch {
			writeOpt("RECURSIVEMATCH")
		}
		if sel.SpecialUse {
			writeOpt("SPECIAL-USE")
		}
		buf.EndList()
	}
	buf.SP().MailboxName(c.Reference).SP()
	if len(c.Patterns) == 1 {
		buf.String(c.Patterns[0])
	} else {
		buf.BeginList()
		for i, p := range c.Patterns {
			if i > 0 {
				buf.SP()
			}
			buf.String(p)
		}
		buf.EndList()
	}
	ret := c.Return
	if ret.Subscribed || ret.Children || ret.SpecialUse || len(ret.Status) > 0 || ret.MyRights || ret.Metadata != nil {
		buf.SP().Atom("RETURN").SP().BeginList()
		first := true
		item := func(name string) {
			if !first {
				buf.SP()
			}
			buf.Atom(name)
			first = false
		}
		if ret.Subscribed {
			item("SUBSCRIBED")
		}
		if ret.Children {
			item("CHILDREN")
		}
		if ret.SpecialUse {
			item("SPECIAL-USE")
		}
		if ret.MyRights {
			item("MYRIGHTS")
		}
		if len(ret.Status) > 0 {
			if !first {
				buf.SP()
			}
			buf.Atom("STATUS").SP().BeginList()
			for i, s := range ret.Status {
				if i > 0 {
					buf.SP()
				}
				buf.Atom(string(s))
			}
			buf.EndList()
			first = false
		}
		if ret.Metadata != nil {
			if !first {
				buf.SP()
			}
			buf.Atom("METADATA").SP().BeginList()
			for i, e := range ret.Metadata.Entries {
				if i > 0 {
					buf.SP()
				}
				buf.String(e)
			}
			buf.EndList()
		}
		buf.EndList()
	}
}

func encodeAppend(buf *EncodeBuffer, c command.Append) {
	buf.Atom("APPEND").SP().MailboxName(c.Mailbox)
	if len(c.Flags) > 0 {
		buf.SP().Flags(c.Flags)
	}
	if c.InternalDate != nil {
		buf.SP().DateTime(*c.InternalDate)
	}
	buf.SP()
	if c.Literal.NonSync {
		buf.LiteralNonSync(c.Literal.Data)
	} else {
		buf.Literal(c.Literal.Data)
	}
}

func encodeMoveCopy(buf *EncodeBuffer, name string, uid bool, set imap.NumSet, mailbox imap.MailboxName) {
	if uid {
		buf.Atom("UID").SP()
	}
	buf.Atom(name).SP().Atom(set.String()).SP().MailboxName(mailbox)
}

func encodeOrderedKV(buf *EncodeBuffer, kv *imap.OrderedKV) {
	if kv == nil || kv.Len() == 0 {
		buf.Nil()
		return
	}
	buf.BeginList()
	first := true
	kv.Range(func(key string, value *string) bool {
		if !first {
			buf.SP()
		}
		buf.String(key).SP().NString(value)
		first = false
		return true
	})
	buf.EndList()
}

func encodeGetMetadata(buf *EncodeBuffer, c command.GetMetadata) {
	buf.Atom("GETMETADATA").SP()
	opt := c.Options
	if opt.MaxSize != nil || opt.Depth != "" {
		buf.BeginList()
		first := true
		if opt.MaxSize != nil {
			buf.Atom("MAXSIZE").SP().Number(*opt.MaxSize)
			first = false
		}
		if opt.Depth != "" {
			if !first {
				buf.SP()
			}
			buf.Atom("DEPTH").SP().Atom(string(opt.Depth))
		}
		buf.EndList().SP()
	}
	buf.MailboxName(c.Mailbox).SP().BeginList()
	for i, e := range c.Entries {
		if i > 0 {
			buf.SP()
		}
		buf.String(e)
	}
	buf.EndList()
}

func encodeSetMetadata(buf *EncodeBuffer, c command.SetMetadata) {
	buf.Atom("SETMETADATA").SP().MailboxName(c.Mailbox).SP().BeginList()
	for i, e := range c.Entries {
		if i > 0 {
			buf.SP()
		}
		buf.String(e.Entry).SP().NString(e.Value)
	}
	buf.EndList()
}
