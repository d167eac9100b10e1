// Package clanerr defines the numeric error taxonomy the client's UI
// branches on (spec.md §7) and a typed error carrying both the 2-hex
// result code and the HTTP status the transport must answer with.
package clanerr

import "fmt"

// Code is a 2-hex-digit result code emitted in <clan result="HH">.
type Code byte

const (
	Success                     Code = 0x00
	BadRequest                  Code = 0x01
	InvalidTicket               Code = 0x02
	InvalidSignature            Code = 0x03
	TicketExpired                Code = 0x04
	InvalidNpId                 Code = 0x05
	Forbidden                   Code = 0x06
	InternalServerError         Code = 0x07
	Banned                      Code = 0x0A
	Blacklisted                 Code = 0x11
	InvalidEnvironment          Code = 0x1D
	NoSuchClanService           Code = 0x2F
	NoSuchClan                  Code = 0x30
	NoSuchClanMember            Code = 0x31
	BeforeHours                 Code = 0x32
	ClosedService               Code = 0x33
	PermissionDenied            Code = 0x34
	ClanLimitReached            Code = 0x35
	ClanLeaderLimitReached      Code = 0x36
	ClanMemberLimitReached      Code = 0x37
	ClanJoinedLimitReached      Code = 0x38
	MemberStatusInvalid         Code = 0x39
	DuplicatedClanName          Code = 0x3A
	ClanLeaderCannotLeave       Code = 0x3B
	InvalidRolePriority         Code = 0x3C
	AnnouncementLimitReached    Code = 0x3D
	ClanConfigMasterNotFound    Code = 0x3E
	DuplicatedClanTag           Code = 0x3F
	ExceedsCreateClanFrequency  Code = 0x40
	ClanPassphraseIncorrect     Code = 0x41
	CannotRecordBlacklistEntry  Code = 0x42
	NoSuchClanAnnouncement      Code = 0x43
	VulgarWordsPosted           Code = 0x44
	BlacklistLimitReached       Code = 0x45
	NoSuchBlacklistEntry        Code = 0x46
	InvalidNpMessageFormat      Code = 0x4B
	FailedToSendNpMessage       Code = 0x4C
)

// httpStatus maps each code to the HTTP status the transport answers
// with, per spec.md §7.
var httpStatus = map[Code]int{
	Success:                    200,
	BadRequest:                 400,
	InvalidTicket:              401,
	InvalidSignature:           401,
	TicketExpired:              401,
	InvalidNpId:                400,
	Forbidden:                  403,
	InternalServerError:        500,
	Banned:                     403,
	Blacklisted:                403,
	InvalidEnvironment:         500,
	NoSuchClanService:          404,
	NoSuchClan:                 404,
	NoSuchClanMember:           404,
	BeforeHours:                403,
	ClosedService:              403,
	PermissionDenied:           403,
	ClanLimitReached:           403,
	ClanLeaderLimitReached:     403,
	ClanMemberLimitReached:     403,
	ClanJoinedLimitReached:     403,
	MemberStatusInvalid:        400,
	DuplicatedClanName:         409,
	ClanLeaderCannotLeave:      403,
	InvalidRolePriority:        400,
	AnnouncementLimitReached:   403,
	ClanConfigMasterNotFound:   404,
	DuplicatedClanTag:          409,
	ExceedsCreateClanFrequency: 403,
	ClanPassphraseIncorrect:    403,
	CannotRecordBlacklistEntry: 403,
	NoSuchClanAnnouncement:     404,
	VulgarWordsPosted:          403,
	BlacklistLimitReached:      403,
	NoSuchBlacklistEntry:       404,
	InvalidNpMessageFormat:     400,
	FailedToSendNpMessage:      500,
}

// HTTPStatus returns the HTTP status for c, or 500 if c is unmapped.
func (c Code) HTTPStatus() int {
	if s, ok := httpStatus[c]; ok {
		return s
	}
	return 500
}

// Hex formats c as exactly two uppercase hex digits, per spec.md §4.4.
// (The source's occasional two-decimal-digit branch is a bug, not a
// contract — pinned here as the one encoding this system emits.)
func (c Code) Hex() string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[(c>>4)&0xF], digits[c&0xF]})
}

// Error is the error type every handler returns; it carries the exact
// code the client's UI branches on plus a human-readable message for
// logs. It implements the standard error interface.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("clanerr %s: %s", e.Code.Hex(), e.Message)
}

// New constructs an *Error for code with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Convenience constructors for the codes handlers reach for most often.
func ErrNoSuchClan(id uint32) *Error {
	return New(NoSuchClan, "no clan with id %d", id)
}

func ErrNoSuchClanMember(jid string) *Error {
	return New(NoSuchClanMember, "no such clan member %q", jid)
}

func ErrForbidden(reason string) *Error {
	return New(PermissionDenied, "%s", reason)
}

func ErrInternal(err error) *Error {
	return New(InternalServerError, "internal error: %v", err)
}
