package command

import "github.com/mxproto/imapwire"

// Store is the STORE command, extended with UNCHANGEDSINCE (RFC 3501
// section 6.4.6, RFC 7162 section 3.1.3).
type Store struct {
	Base
	UID    bool
	Set    imap.NumSet
	Action StoreAction
	Silent bool
	Flags  []imap.Flag

	UnchangedSince    uint64
	HasUnchangedSince bool
}

func (Store) Name() string { return "STORE" }

// StoreAction is the STORE command's mode: replace, add, or remove the
// given flags.
type StoreAction int

const (
	StoreFlagsSet StoreAction = iota
	StoreFlagsAdd
	StoreFlagsDel
)

func (a StoreAction) String() string {
	switch a {
	case StoreFlagsSet:
		return "FLAGS"
	case StoreFlagsAdd:
		return "+FLAGS"
	case StoreFlagsDel:
		return "-FLAGS"
	default:
		return "FLAGS"
	}
}
