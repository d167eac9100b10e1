package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/clanserver/internal/clan"
	"github.com/udisondev/clanserver/internal/identity"
)

func TestClanInfo_MarshalEntity(t *testing.T) {
	c := &clan.Clan{
		ID:          7,
		Name:        "Knights",
		Tag:         "KN",
		Description: "desc",
		Members:     []clan.Player{{}, {}},
		DateCreated: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		AutoAccept:  true,
	}

	out, err := ClanInfo{C: c}.MarshalEntity()
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `<info id="7">`)
	assert.Contains(t, s, "<name>Knights</name>")
	assert.Contains(t, s, "<members>2</members>")
	assert.Contains(t, s, "<date-created>2026-01-02T03:04:05Z</date-created>")
	assert.Contains(t, s, "<auto-accept>1</auto-accept>")
}

func TestClanPlayerInfo_MarshalEntity(t *testing.T) {
	c := &clan.Clan{ID: 3, Name: "A", Tag: "B", Members: []clan.Player{{}}}
	e := ClanPlayerInfo{C: c, Role: identity.RoleNonMember, Status: identity.StatusUnknown, Name: "dave", Allow: false}

	out, err := e.MarshalEntity()
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "<role>1</role>")
	assert.Contains(t, s, "<allowmsg>0</allowmsg>")
	assert.Contains(t, s, "<onlinename>dave</onlinename>")
}

func TestPlayerInfo_UsesClientRequiredMisspelling(t *testing.T) {
	p := clan.Player{JID: identity.New("bob", "a1", "us"), BinData: []byte("xyz")}
	out, err := PlayerInfo{P: p}.MarshalEntity()
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "<bin-atrr1>xyz</bin-atrr1>")
	assert.Contains(t, s, `jid="bob@a1.us.np.playstation.net"`)
}

func TestBlacklistEntry_MarshalEntity(t *testing.T) {
	out, err := BlacklistEntry{JID: identity.New("eve", "a1", "us")}.MarshalEntity()
	require.NoError(t, err)
	assert.Equal(t, `<entry><jid>eve@a1.us.np.playstation.net</jid></entry>`, string(out))
}

func TestIdEntity_MarshalEntity(t *testing.T) {
	out, err := IdEntity{ID: 123}.MarshalEntity()
	require.NoError(t, err)
	assert.Equal(t, "<id>123</id>", string(out))
}

func TestAnnouncementInfo_MarshalEntity(t *testing.T) {
	a := clan.Announcement{
		ID:          9,
		Subject:     "hi",
		Msg:         "hello clan",
		Author:      identity.New("leader", "a1", "us"),
		DateCreated: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		FromID:      1,
	}
	out, err := AnnouncementInfo{A: a}.MarshalEntity()
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `<msg-info id="9">`)
	assert.Contains(t, s, "<subject>hi</subject>")
	assert.Contains(t, s, "<msg-date>2026-03-04T05:06:07Z</msg-date>")
	assert.Contains(t, s, "<from-id>1</from-id>")
}
