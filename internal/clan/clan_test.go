package clan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/clanserver/internal/identity"
)

func newTestClan() *Clan {
	leader := identity.New("leader", "a1", "us")
	return &Clan{
		ID:   1,
		Name: "Knights",
		Tag:  "KN",
		Members: []Player{
			{JID: leader, Role: identity.RoleLeader, Status: identity.StatusMember},
		},
	}
}

func TestClan_OwnerIsUniqueLeader(t *testing.T) {
	c := newTestClan()
	owner := c.Owner()
	require.NotNil(t, owner)
	assert.Equal(t, identity.RoleLeader, owner.Role)
}

func TestClan_MemberLookupByUsernameOnly(t *testing.T) {
	c := newTestClan()
	other := identity.New("LEADER", "un", "br")
	assert.Equal(t, identity.RoleLeader, c.RoleOf(other))
}

func TestClan_AddRemoveMember(t *testing.T) {
	c := newTestClan()
	bob := identity.New("bob", "a1", "us")
	c.AddMember(Player{JID: bob, Role: identity.RoleNonMember, Status: identity.StatusInvited})
	require.NotNil(t, c.Member(bob))
	assert.Equal(t, identity.StatusInvited, c.StatusOf(bob))

	c.RemoveMember(bob)
	assert.Nil(t, c.Member(bob))
	assert.Equal(t, identity.StatusUnknown, c.StatusOf(bob))
}

func TestClan_BlacklistIsASet(t *testing.T) {
	c := newTestClan()
	target := identity.New("eve", "a1", "us")

	assert.True(t, c.AddToBlacklist(target))
	assert.False(t, c.AddToBlacklist(target))
	assert.Len(t, c.Blacklist, 1)

	assert.True(t, c.RemoveFromBlacklist(target))
	assert.False(t, c.RemoveFromBlacklist(target))
}

func TestClan_ActiveAnnouncementsSkipsExpired(t *testing.T) {
	c := newTestClan()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.AddAnnouncement(Announcement{ID: 1, DateExpire: now.Add(-time.Hour)})
	c.AddAnnouncement(Announcement{ID: 2, DateExpire: now.Add(time.Hour)})

	active := c.ActiveAnnouncements(now)
	require.Len(t, active, 1)
	assert.Equal(t, uint32(2), active[0].ID)
}

func TestTruncateToChars(t *testing.T) {
	assert.Equal(t, "abc", TruncateToChars("abcdef", 3))
	assert.Equal(t, "ab", TruncateToChars("ab", 3))
}

func TestExceedsByteLimit(t *testing.T) {
	// "é" is one rune but two UTF-8 bytes.
	s := TruncateToChars("ééé", 3)
	assert.True(t, ExceedsByteLimit(s, 3))
}
