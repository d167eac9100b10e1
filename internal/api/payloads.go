package api

// Request payload shapes (spec.md §4.3/§6). Every payload carries a
// base64 ticket; identifier fields are plain strings validated via
// identity.Parse at the call site.

type ticketOnly struct {
	Ticket string `xml:"ticket"`
}

type pageRequest struct {
	Ticket string `xml:"ticket"`
	Start  int32  `xml:"start"`
	Max    int32  `xml:"max"`
}

type getClanInfoRequest struct {
	Ticket string `xml:"ticket"`
	ID     uint32 `xml:"id"`
}

type clanSearchRequest struct {
	Ticket string `xml:"ticket"`
	Start  int32  `xml:"start"`
	Max    int32  `xml:"max"`
	Filter string `xml:"filter"`
	Op     string `xml:"op"`
}

type getMemberListRequest struct {
	Ticket string `xml:"ticket"`
	ID     uint32 `xml:"id"`
	Start  int32  `xml:"start"`
	Max    int32  `xml:"max"`
}

type getMemberInfoRequest struct {
	Ticket string `xml:"ticket"`
	ID     uint32 `xml:"id"`
	JID    string `xml:"jid"`
}

type blacklistPageRequest struct {
	Ticket string `xml:"ticket"`
	ID     uint32 `xml:"id"`
	Start  int32  `xml:"start"`
	Max    int32  `xml:"max"`
}

type announcementPageRequest struct {
	Ticket string `xml:"ticket"`
	ID     uint32 `xml:"id"`
	Start  int32  `xml:"start"`
	Max    int32  `xml:"max"`
}

type createClanRequest struct {
	Ticket      string `xml:"ticket"`
	Name        string `xml:"name"`
	Tag         string `xml:"tag"`
	Description string `xml:"description"`
}

type clanIDRequest struct {
	Ticket string `xml:"ticket"`
	ID     uint32 `xml:"id"`
}

type updateClanInfoRequest struct {
	Ticket      string `xml:"ticket"`
	ID          uint32 `xml:"id"`
	Description string `xml:"description"`
}

type clanTargetRequest struct {
	Ticket string `xml:"ticket"`
	ID     uint32 `xml:"id"`
	JID    string `xml:"jid"`
}

type changeMemberRoleRequest struct {
	Ticket string `xml:"ticket"`
	ID     uint32 `xml:"id"`
	JID    string `xml:"jid"`
	Role   int32  `xml:"role"`
}

type updateMemberInfoRequest struct {
	Ticket      string `xml:"ticket"`
	ID          uint32 `xml:"id"`
	OnlineName  string `xml:"onlinename"`
	Description string `xml:"description"`
	AllowMsg    bool   `xml:"allowmsg"`
	BinData     string `xml:"bin-atrr1"`
	Size        int32  `xml:"size"`
}

type postAnnouncementRequest struct {
	Ticket    string `xml:"ticket"`
	ID        uint32 `xml:"id"`
	Subject   string `xml:"subject"`
	Msg       string `xml:"msg"`
	ExpireSec int64  `xml:"expire-sec"`
}

type deleteAnnouncementRequest struct {
	Ticket string `xml:"ticket"`
	ID     uint32 `xml:"id"`
	MsgID  uint32 `xml:"msg-id"`
}

// adminCreateClanRequest is the JSON body of the /admin side-channel's
// admin_create_clan (spec.md §4.6: "Admin endpoints ... accept JSON").
type adminCreateClanRequest struct {
	Username     string `json:"username"`
	ClanName     string `json:"clan_name"`
	ClanTag      string `json:"clan_tag"`
	ClanPlatform string `json:"clan_platform"`
}
