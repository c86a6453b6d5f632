// Package response defines the typed representation of everything an
// IMAP server can send back to a client: tagged and untagged status
// responses, continuation requests, and the untagged data responses
// produced by each command (RFC 3501 section 7, plus the response-side
// additions of LITERAL+/-, BINARY, CONDSTORE, ENABLE, ID, NAMESPACE,
// MOVE, ESEARCH, LIST-EXTENDED, METADATA, and URLAUTH).
package response

import "fmt"

// Response is implemented by every response type in this package.
type Response interface {
	isResponse()
}

type respBase struct{}

func (respBase) isResponse() {}

// Status is a tagged or untagged status response: OK, NO, BAD, BYE, or
// PREAUTH (RFC 3501 section 7.1). Tag is "" for an untagged response.
type Status struct {
	respBase
	Tag     string
	Type    StatusType
	Code    Code
	CodeArg interface{}
	Text    string
}

// StatusType is the condition word of a status response.
type StatusType string

const (
	StatusOK       StatusType = "OK"
	StatusNo       StatusType = "NO"
	StatusBad      StatusType = "BAD"
	StatusBye      StatusType = "BYE"
	StatusPreAuth  StatusType = "PREAUTH"
)

// Error satisfies the error interface so a Status carrying a NO/BAD/BYE
// condition can be returned directly from a decode path that failed at
// the protocol level rather than the framing level.
func (s *Status) Error() string {
	if s.Text == "" {
		return string(s.Type)
	}
	return string(s.Type) + " " + s.Text
}

// Code is a response-code token, the bracketed "[...]" qualifier on a
// status response (RFC 3501 section 7.1, plus extensions below).
type Code string

const (
	CodeAlert          Code = "ALERT"
	CodeBadCharset     Code = "BADCHARSET"
	CodeCapability     Code = "CAPABILITY"
	CodeParse          Code = "PARSE"
	CodePermanentFlags Code = "PERMANENTFLAGS"
	CodeReadOnly       Code = "READ-ONLY"
	CodeReadWrite      Code = "READ-WRITE"
	CodeTryCreate      Code = "TRYCREATE"
	CodeUIDNext        Code = "UIDNEXT"
	CodeUIDValidity    Code = "UIDVALIDITY"
	CodeUnseen         Code = "UNSEEN"

	// RFC 4315 (UIDPLUS)
	CodeAppendUID     Code = "APPENDUID"
	CodeCopyUID       Code = "COPYUID"
	CodeUIDNotSticky  Code = "UIDNOTSTICKY"

	// RFC 7162 (CONDSTORE/QRESYNC)
	CodeHighestModSeq Code = "HIGHESTMODSEQ"
	CodeModified      Code = "MODIFIED"
	CodeNoModSeq      Code = "NOMODSEQ"
	CodeClosed        Code = "CLOSED"

	// RFC 2087 / RFC 9208 (QUOTA) - recognized but not carried forward as
	// a command, per the out-of-scope quota extension; the code itself is
	// harmless to keep parseable.
	CodeOverQuota Code = "OVERQUOTA"

	// RFC 5530 (IMAP response codes)
	CodeAlreadyExists  Code = "ALREADYEXISTS"
	CodeNonExistent    Code = "NONEXISTENT"
	CodeContactAdmin   Code = "CONTACTADMIN"
	CodeNoPerm         Code = "NOPERM"
	CodeInUse          Code = "INUSE"
	CodeExpungeIssued  Code = "EXPUNGEISSUED"
	CodeCorruption     Code = "CORRUPTION"
	CodeServerBug      Code = "SERVERBUG"
	CodeClientBug      Code = "CLIENTBUG"
	CodeCannot         Code = "CANNOT"
	CodeLimit          Code = "LIMIT"
	CodeHasChildren    Code = "HASCHILDREN"

	// RFC 5464 (METADATA)
	CodeMetadata Code = "METADATA"
	CodeNotSaved Code = "NOTSAVED"

	// RFC 8474 (OBJECTID)
	CodeMailboxID Code = "MAILBOXID"
	CodeObjectID  Code = "OBJECTID"

	// RFC 5819 (LIST-STATUS) / draft INPROGRESS-style long-running notice
	CodeInProgress Code = "INPROGRESS"
)

// Continuation is a "+ ..." continuation-request response (RFC 3501
// section 7.5), used both to request a synchronizing literal's bytes and
// to carry a SASL server challenge.
type Continuation struct {
	respBase
	Text string
	Data []byte
	HasData bool
}

// wrapf is a small helper mirroring the teacher's fmt.Errorf("imap:
// ...: %w") convention: it prefixes the formatted error with "imap: ".
func wrapf(format string, args ...interface{}) error {
	return fmt.Errorf("imap: "+format, args...)
}
