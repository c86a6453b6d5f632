package imap

import "fmt"

// Address represents one address record inside an envelope's address
// lists (RFC 3501 section 7.4.2 / RFC 3501 section 2.3.5): name, adl
// (at-domain-list, almost always absent), mailbox, and host. A "group"
// start/end marker is represented the same way the grammar allows: a
// start-of-group address has Mailbox set and Host == nil; an end-of-group
// address has both Mailbox and Host == nil.
type Address struct {
	Name    *string
	ADL     *string
	Mailbox *string
	Host    *string
}

// String renders the address "name <mailbox@host>", matching the
// teacher's display-string convention. Unset fields are treated as empty.
func (a Address) String() string {
	var mailbox, host, name string
	if a.Mailbox != nil {
		mailbox = *a.Mailbox
	}
	if a.Host != nil {
		host = *a.Host
	}
	if a.Name != nil {
		name = *a.Name
	}
	addr := mailbox
	if host != "" {
		addr += "@" + host
	}
	if name != "" {
		return fmt.Sprintf("%s <%s>", name, addr)
	}
	return addr
}

// Envelope is the ENVELOPE fetch attribute value (RFC 3501 section
// 7.4.2): 10 fields, in RFC order.
type Envelope struct {
	Date      *string // unparsed RFC 5322 date-time string, or nil
	Subject   *string
	From      []Address
	Sender    []Address
	ReplyTo   []Address
	To        []Address
	Cc        []Address
	Bcc       []Address
	InReplyTo *string
	MessageID *string
}
