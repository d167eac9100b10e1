// Package entities renders the fixed per-operation XML shapes listed
// in spec.md §6, implementing xmlenv.Entity. Each type owns its own
// MarshalEntity, following the teacher's one-writer-type-per-shape
// convention (internal/gameserver/serverpackets).
package entities

import (
	"fmt"
	"time"

	"github.com/udisondev/clanserver/internal/clan"
	"github.com/udisondev/clanserver/internal/identity"
	"github.com/udisondev/clanserver/internal/xmlenv"
)

func boolAttr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// ClanInfo is the full clan description returned by get_clan_info.
type ClanInfo struct {
	C *clan.Clan
}

func (e ClanInfo) MarshalEntity() ([]byte, error) {
	c := e.C
	var body []byte
	body = append(body, xmlenv.Tag("name", c.Name)...)
	body = append(body, xmlenv.Tag("tag", c.Tag)...)
	body = append(body, xmlenv.Tag("members", len(c.Members))...)
	body = append(body, xmlenv.Tag("date-created", isoTime(c.DateCreated))...)
	body = append(body, xmlenv.Tag("description", c.Description)...)
	body = append(body, xmlenv.Tag("auto-accept", boolAttr(c.AutoAccept))...)
	body = append(body, xmlenv.Tag("int-attr1", c.IntAttr1)...)
	body = append(body, xmlenv.Tag("int-attr2", c.IntAttr2)...)
	body = append(body, xmlenv.Tag("int-attr3", c.IntAttr3)...)
	body = append(body, xmlenv.Tag("size", c.Size)...)
	return xmlenv.Wrap("info", [][2]string{{"id", fmt.Sprint(c.ID)}}, body), nil
}

// ClanSearchInfo is the abbreviated clan row returned by clan_search.
type ClanSearchInfo struct {
	C *clan.Clan
}

func (e ClanSearchInfo) MarshalEntity() ([]byte, error) {
	c := e.C
	var body []byte
	body = append(body, xmlenv.Tag("name", c.Name)...)
	body = append(body, xmlenv.Tag("tag", c.Tag)...)
	body = append(body, xmlenv.Tag("members", len(c.Members))...)
	return xmlenv.Wrap("info", [][2]string{{"id", fmt.Sprint(c.ID)}}, body), nil
}

// ClanPlayerInfo is the per-caller clan row returned by get_clan_list,
// with role/status masked to NonMember/Unknown on a foreign-platform
// clan (spec.md §3 Platform, §4.5 get_clan_list).
type ClanPlayerInfo struct {
	C      *clan.Clan
	Role   identity.Role
	Status identity.Status
	Name   string
	Allow  bool
}

func (e ClanPlayerInfo) MarshalEntity() ([]byte, error) {
	c := e.C
	var body []byte
	body = append(body, xmlenv.Tag("name", c.Name)...)
	body = append(body, xmlenv.Tag("tag", c.Tag)...)
	body = append(body, xmlenv.Tag("role", int32(e.Role))...)
	body = append(body, xmlenv.Tag("status", int32(e.Status))...)
	body = append(body, xmlenv.Tag("onlinename", e.Name)...)
	body = append(body, xmlenv.Tag("allowmsg", boolAttr(e.Allow))...)
	body = append(body, xmlenv.Tag("members", len(c.Members))...)
	return xmlenv.Wrap("info", [][2]string{{"id", fmt.Sprint(c.ID)}}, body), nil
}

// PlayerInfo is a single member's full detail, returned by
// get_member_info. Note the client-required element spelling
// "bin-atrr1" (spec.md §6).
type PlayerInfo struct {
	P clan.Player
}

func (e PlayerInfo) MarshalEntity() ([]byte, error) {
	p := e.P
	var body []byte
	body = append(body, xmlenv.Tag("role", int32(p.Role))...)
	body = append(body, xmlenv.Tag("status", int32(p.Status))...)
	body = append(body, xmlenv.Tag("onlinename", p.OnlineName)...)
	body = append(body, xmlenv.Tag("description", p.Description)...)
	body = append(body, xmlenv.Tag("allowmsg", boolAttr(p.AllowMsg))...)
	body = append(body, xmlenv.Tag("bin-atrr1", string(p.BinData))...)
	body = append(body, xmlenv.Tag("size", p.Size)...)
	return xmlenv.Wrap("info", [][2]string{{"jid", p.JID.String()}}, body), nil
}

// PlayerBasicInfo is a member row in get_member_list.
type PlayerBasicInfo struct {
	P clan.Player
}

func (e PlayerBasicInfo) MarshalEntity() ([]byte, error) {
	p := e.P
	var body []byte
	body = append(body, xmlenv.Tag("role", int32(p.Role))...)
	body = append(body, xmlenv.Tag("status", int32(p.Status))...)
	body = append(body, xmlenv.Tag("description", p.Description)...)
	return xmlenv.Wrap("info", [][2]string{{"jid", p.JID.String()}}, body), nil
}

// BlacklistEntry is a single blacklisted JID returned by get_blacklist.
type BlacklistEntry struct {
	JID identity.JID
}

func (e BlacklistEntry) MarshalEntity() ([]byte, error) {
	body := xmlenv.Tag("jid", e.JID.String())
	return xmlenv.Wrap("entry", nil, body), nil
}

// IdEntity wraps a bare numeric id, returned by create_clan.
type IdEntity struct {
	ID uint32
}

func (e IdEntity) MarshalEntity() ([]byte, error) {
	return xmlenv.Tag("id", e.ID), nil
}

// AnnouncementInfo is a clan bulletin, returned by
// retrieve_announcements.
type AnnouncementInfo struct {
	A clan.Announcement
}

func (e AnnouncementInfo) MarshalEntity() ([]byte, error) {
	a := e.A
	var body []byte
	body = append(body, xmlenv.Tag("subject", a.Subject)...)
	body = append(body, xmlenv.Tag("msg", a.Msg)...)
	body = append(body, xmlenv.Tag("jid", a.Author.String())...)
	body = append(body, xmlenv.Tag("msg-date", isoTime(a.DateCreated))...)
	body = append(body, xmlenv.Tag("bin-data", string(a.BinData))...)
	body = append(body, xmlenv.Tag("from-id", a.FromID)...)
	return xmlenv.Wrap("msg-info", [][2]string{{"id", fmt.Sprint(a.ID)}}, body), nil
}
