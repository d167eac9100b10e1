// Package clan defines the Clan aggregate and the pure, in-memory
// predicates route handlers evaluate before mutating it.
//
// Grounded on the teacher's internal/gameserver/clan/clan.go (mutable
// aggregate holding an ordered member slice plus role/status fields)
// and internal/gameserver/clan/member.go, re-expressed as a plain
// data aggregate (no internal mutex — spec.md §5 treats the whole
// document as an unconditional read-modify-write keyed on id, so
// concurrency is the store's concern, not the aggregate's).
package clan

import (
	"strings"
	"time"

	"github.com/udisondev/clanserver/internal/identity"
)

// Player is a clan member record (spec.md §3).
type Player struct {
	JID         identity.JID
	Role        identity.Role
	Status      identity.Status
	OnlineName  string
	Description string
	AllowMsg    bool
	BinData     []byte
	Size        int32
}

// Announcement is a clan bulletin post (spec.md §3).
type Announcement struct {
	ID          uint32
	Subject     string
	Msg         string
	Author      identity.JID
	DateCreated time.Time
	DateExpire  time.Time
	BinData     []byte
	FromID      int32
}

// Clan is the full persisted aggregate (spec.md §3).
type Clan struct {
	ID            uint32
	Name          string
	Tag           string
	Description   string
	Members       []Player
	Blacklist     []identity.JID
	Announcements []Announcement
	DateCreated   time.Time
	AutoAccept    bool
	IntAttr1      int32
	IntAttr2      int32
	IntAttr3      int32
	Size          int32
	Platform      identity.Platform
}

// Owner returns the unique Leader member, or nil if none exists.
// Invariant: exactly one member has role Leader at all times
// (spec.md §3, §8 property 1).
func (c *Clan) Owner() *Player {
	for i := range c.Members {
		if c.Members[i].Role == identity.RoleLeader {
			return &c.Members[i]
		}
	}
	return nil
}

// memberIndex returns the index of the member whose JID equals jid
// (username-only equality), or -1.
func (c *Clan) memberIndex(jid identity.JID) int {
	for i := range c.Members {
		if c.Members[i].JID.Equal(jid) {
			return i
		}
	}
	return -1
}

// Member returns the member row for jid, or nil.
func (c *Clan) Member(jid identity.JID) *Player {
	if i := c.memberIndex(jid); i >= 0 {
		return &c.Members[i]
	}
	return nil
}

// RoleOf returns jid's role, or Unknown if not a member.
func (c *Clan) RoleOf(jid identity.JID) identity.Role {
	if p := c.Member(jid); p != nil {
		return p.Role
	}
	return identity.RoleUnknown
}

// StatusOf returns jid's status, or Unknown if not a member.
func (c *Clan) StatusOf(jid identity.JID) identity.Status {
	if p := c.Member(jid); p != nil {
		return p.Status
	}
	return identity.StatusUnknown
}

// IsBlacklisted reports whether jid is on the blacklist.
func (c *Clan) IsBlacklisted(jid identity.JID) bool {
	for _, b := range c.Blacklist {
		if b.Equal(jid) {
			return true
		}
	}
	return false
}

// AddMember appends p to the member list. Callers must ensure jid is
// not already present (spec.md §8 property 2: no JID appears twice).
func (c *Clan) AddMember(p Player) {
	c.Members = append(c.Members, p)
}

// RemoveMember deletes the row for jid, if present.
func (c *Clan) RemoveMember(jid identity.JID) {
	if i := c.memberIndex(jid); i >= 0 {
		c.Members = append(c.Members[:i], c.Members[i+1:]...)
	}
}

// MemberCountWithStatus counts the members of this clan whose status
// matches status. The per-player clan-count caps are computed across
// the caller's clans in internal/clanops, not with this method.
func (c *Clan) MemberCountWithStatus(status identity.Status) int {
	n := 0
	for _, m := range c.Members {
		if m.Status == status {
			n++
		}
	}
	return n
}

// AddToBlacklist appends jid if not already present (set semantics,
// spec.md §4.2 "the blacklist is a set").
func (c *Clan) AddToBlacklist(jid identity.JID) bool {
	if c.IsBlacklisted(jid) {
		return false
	}
	c.Blacklist = append(c.Blacklist, jid)
	return true
}

// RemoveFromBlacklist removes jid, reporting whether it was present.
func (c *Clan) RemoveFromBlacklist(jid identity.JID) bool {
	for i, b := range c.Blacklist {
		if b.Equal(jid) {
			c.Blacklist = append(c.Blacklist[:i], c.Blacklist[i+1:]...)
			return true
		}
	}
	return false
}

// AddAnnouncement appends a, keeping announcements in post order.
func (c *Clan) AddAnnouncement(a Announcement) {
	c.Announcements = append(c.Announcements, a)
}

// RemoveAnnouncement deletes the announcement with the given id,
// reporting whether it was present.
func (c *Clan) RemoveAnnouncement(id uint32) bool {
	for i, a := range c.Announcements {
		if a.ID == id {
			c.Announcements = append(c.Announcements[:i], c.Announcements[i+1:]...)
			return true
		}
	}
	return false
}

// ActiveAnnouncements returns announcements not yet expired as of now,
// in post order (spec.md §4.5 retrieve_announcements).
func (c *Clan) ActiveAnnouncements(now time.Time) []Announcement {
	out := make([]Announcement, 0, len(c.Announcements))
	for _, a := range c.Announcements {
		if a.DateExpire.After(now) {
			out = append(out, a)
		}
	}
	return out
}

// TruncateToChars truncates s to max runes.
func TruncateToChars(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// ExceedsByteLimit reports whether s's UTF-8 byte length exceeds max —
// the client is byte-length-sensitive even after char truncation
// (spec.md §3).
func ExceedsByteLimit(s string, max int) bool {
	return len(s) > max
}

// NormalizeNameTag trims surrounding whitespace from name/tag and
// truncates them to their char limits. It does not check the byte
// length; the caller does that with ExceedsByteLimit — see
// internal/clanops for the policy that maps an excess to
// PermissionDenied (spec.md §8 boundary 11).
func NormalizeNameTag(name, tag string, maxNameChars, maxTagChars int) (string, string) {
	return TruncateToChars(strings.TrimSpace(name), maxNameChars), TruncateToChars(strings.TrimSpace(tag), maxTagChars)
}
