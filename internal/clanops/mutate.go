package clanops

import (
	"context"
	"time"

	"github.com/udisondev/clanserver/internal/clan"
	"github.com/udisondev/clanserver/internal/clanerr"
	"github.com/udisondev/clanserver/internal/identity"
)

// membershipCount reports how many of the caller's clans the caller
// owns (Leader) and how many they are a full Member of, used by the
// per-player caps in spec.md §4.5.
func (s *Service) membershipCount(ctx context.Context, jid identity.JID) (owned, memberOf int, err error) {
	clans, e := s.Store.ClansOf(ctx, jid)
	if e != nil {
		return 0, 0, clanerr.ErrInternal(e)
	}
	for _, c := range clans {
		switch c.RoleOf(jid) {
		case identity.RoleLeader:
			owned++
			memberOf++
		case identity.RoleMember, identity.RoleSubLeader:
			if c.StatusOf(jid) == identity.StatusMember {
				memberOf++
			}
		}
	}
	return owned, memberOf, nil
}

// CreateClan enforces the ownership/membership caps, the name/tag
// duplicate check restored from original_source (spec.md SPEC_FULL
// §4.5 EXPANSION), then inserts the aggregate with the caller as
// Leader+Member.
func (s *Service) CreateClan(ctx context.Context, caller Caller, name, tag, description string) (*clan.Clan, error) {
	owned, memberOf, err := s.membershipCount(ctx, caller.JID)
	if err != nil {
		return nil, err
	}
	if owned >= s.Limits.MaxOwnership {
		return nil, clanerr.New(clanerr.ClanLeaderLimitReached, "caller already owns %d clan(s)", owned)
	}
	if memberOf >= s.Limits.MaxMembership {
		return nil, clanerr.New(clanerr.ClanJoinedLimitReached, "caller already belongs to %d clan(s)", memberOf)
	}

	name, tag = clan.NormalizeNameTag(name, tag, s.Limits.MaxClanNameChars, s.Limits.MaxClanTagChars)
	if clan.ExceedsByteLimit(name, s.Limits.MaxClanNameChars) || clan.ExceedsByteLimit(tag, s.Limits.MaxClanTagChars) {
		return nil, clanerr.New(clanerr.PermissionDenied, "name/tag exceeds byte limit after truncation")
	}

	n, err := s.Store.CountByNameOrTag(ctx, name, tag)
	if err != nil {
		return nil, clanerr.ErrInternal(err)
	}
	if n > 0 {
		return nil, clanerr.New(clanerr.DuplicatedClanName, "clan name or tag already in use")
	}

	id, err := s.Store.NextID(ctx)
	if err != nil {
		return nil, clanerr.ErrInternal(err)
	}

	c := &clan.Clan{
		ID:          id,
		Name:        name,
		Tag:         tag,
		Description: clan.TruncateToChars(description, s.Limits.MaxDescription),
		DateCreated: s.now(),
		Platform:    caller.Platform,
	}
	c.AddMember(clan.Player{JID: caller.JID, Role: identity.RoleLeader, Status: identity.StatusMember})

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DisbandClan requires the caller to be Leader, then deletes the
// whole aggregate.
func (s *Service) DisbandClan(ctx context.Context, caller Caller, id uint32) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if c.RoleOf(caller.JID) != identity.RoleLeader {
		return clanerr.ErrForbidden("caller is not the clan leader")
	}
	if err := s.Store.Delete(ctx, c); err != nil {
		return clanerr.ErrInternal(err)
	}
	return nil
}

// UpdateClanInfo requires Member status; truncates and writes the
// description.
func (s *Service) UpdateClanInfo(ctx context.Context, caller Caller, id uint32, description string) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if c.StatusOf(caller.JID) != identity.StatusMember {
		return clanerr.ErrForbidden("caller is not a member")
	}
	c.Description = clan.TruncateToChars(description, s.Limits.MaxDescription)
	return s.save(ctx, c)
}

// SendInvitation requires the caller to be at least Member, the
// target not already Member/Invited, and the target not blacklisted.
func (s *Service) SendInvitation(ctx context.Context, caller Caller, id uint32, target identity.JID) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if !c.RoleOf(caller.JID).AtLeast(identity.RoleMember) {
		return clanerr.ErrForbidden("caller must be at least a member")
	}
	status := c.StatusOf(target)
	if status == identity.StatusMember || status == identity.StatusInvited {
		return clanerr.New(clanerr.MemberStatusInvalid, "target already member or invited")
	}
	if c.IsBlacklisted(target) {
		return clanerr.New(clanerr.Blacklisted, "target is blacklisted")
	}
	c.AddMember(clan.Player{JID: target, Role: identity.RoleNonMember, Status: identity.StatusInvited})
	return s.save(ctx, c)
}

// CancelInvitation requires the caller to be at least Member and the
// target to be currently Invited.
func (s *Service) CancelInvitation(ctx context.Context, caller Caller, id uint32, target identity.JID) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if !c.RoleOf(caller.JID).AtLeast(identity.RoleMember) {
		return clanerr.ErrForbidden("caller must be at least a member")
	}
	if c.StatusOf(target) != identity.StatusInvited {
		return clanerr.New(clanerr.MemberStatusInvalid, "target is not invited")
	}
	c.RemoveMember(target)
	return s.save(ctx, c)
}

// AcceptInvitation requires the caller to hold an outstanding
// invitation, not be blacklisted, match the clan's platform, and sit
// under the membership cap.
func (s *Service) AcceptInvitation(ctx context.Context, caller Caller, id uint32) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if c.StatusOf(caller.JID) != identity.StatusInvited {
		return clanerr.New(clanerr.MemberStatusInvalid, "caller has no outstanding invitation")
	}
	if c.IsBlacklisted(caller.JID) {
		return clanerr.New(clanerr.Blacklisted, "caller is blacklisted")
	}
	if c.Platform != caller.Platform {
		return clanerr.ErrForbidden("platform mismatch")
	}
	if _, memberOf, err := s.membershipCount(ctx, caller.JID); err != nil {
		return err
	} else if memberOf >= s.Limits.MaxMembership {
		return clanerr.New(clanerr.ClanJoinedLimitReached, "caller already belongs to %d clan(s)", memberOf)
	}

	p := c.Member(caller.JID)
	p.Status = identity.StatusMember
	p.Role = identity.RoleMember
	return s.save(ctx, c)
}

// DeclineInvitation requires Invited status and removes the caller's
// row.
func (s *Service) DeclineInvitation(ctx context.Context, caller Caller, id uint32) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if c.StatusOf(caller.JID) != identity.StatusInvited {
		return clanerr.New(clanerr.MemberStatusInvalid, "caller has no outstanding invitation")
	}
	c.RemoveMember(caller.JID)
	return s.save(ctx, c)
}

// RequestMembership requires the caller hold no status yet, not be
// blacklisted, match platform, and sit under the membership cap; it
// auto-accepts when the clan allows it.
func (s *Service) RequestMembership(ctx context.Context, caller Caller, id uint32) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	switch c.StatusOf(caller.JID) {
	case identity.StatusMember, identity.StatusInvited, identity.StatusPending:
		return clanerr.New(clanerr.MemberStatusInvalid, "caller already has a relationship with this clan")
	}
	if c.IsBlacklisted(caller.JID) {
		return clanerr.New(clanerr.Blacklisted, "caller is blacklisted")
	}
	if c.Platform != caller.Platform {
		return clanerr.ErrForbidden("platform mismatch")
	}
	if _, memberOf, err := s.membershipCount(ctx, caller.JID); err != nil {
		return err
	} else if memberOf >= s.Limits.MaxMembership {
		return clanerr.New(clanerr.ClanJoinedLimitReached, "caller already belongs to %d clan(s)", memberOf)
	}

	if c.AutoAccept {
		c.AddMember(clan.Player{JID: caller.JID, Role: identity.RoleMember, Status: identity.StatusMember})
	} else {
		c.AddMember(clan.Player{JID: caller.JID, Role: identity.RoleNonMember, Status: identity.StatusPending})
	}
	return s.save(ctx, c)
}

// CancelRequestMembership requires Pending status and removes the
// caller's row.
func (s *Service) CancelRequestMembership(ctx context.Context, caller Caller, id uint32) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if c.StatusOf(caller.JID) != identity.StatusPending {
		return clanerr.New(clanerr.MemberStatusInvalid, "caller has no pending request")
	}
	c.RemoveMember(caller.JID)
	return s.save(ctx, c)
}

// AcceptMembershipRequest requires the caller to be at least Member,
// the target Pending and not blacklisted.
func (s *Service) AcceptMembershipRequest(ctx context.Context, caller Caller, id uint32, target identity.JID) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if !c.RoleOf(caller.JID).AtLeast(identity.RoleMember) {
		return clanerr.ErrForbidden("caller must be at least a member")
	}
	if c.StatusOf(target) != identity.StatusPending {
		return clanerr.New(clanerr.MemberStatusInvalid, "target has no pending request")
	}
	if c.IsBlacklisted(target) {
		return clanerr.New(clanerr.Blacklisted, "target is blacklisted")
	}
	p := c.Member(target)
	p.Status = identity.StatusMember
	p.Role = identity.RoleMember
	return s.save(ctx, c)
}

// DeclineMembershipRequest requires the caller to be at least Member
// and the target Pending, removing the target's row.
func (s *Service) DeclineMembershipRequest(ctx context.Context, caller Caller, id uint32, target identity.JID) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if !c.RoleOf(caller.JID).AtLeast(identity.RoleMember) {
		return clanerr.ErrForbidden("caller must be at least a member")
	}
	if c.StatusOf(target) != identity.StatusPending {
		return clanerr.New(clanerr.MemberStatusInvalid, "target has no pending request")
	}
	c.RemoveMember(target)
	return s.save(ctx, c)
}

// JoinClan requires the caller not already be a member and the clan
// to auto-accept.
func (s *Service) JoinClan(ctx context.Context, caller Caller, id uint32) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if c.Member(caller.JID) != nil {
		return clanerr.New(clanerr.MemberStatusInvalid, "caller is already related to this clan")
	}
	if !c.AutoAccept {
		return clanerr.ErrForbidden("clan does not auto-accept")
	}
	c.AddMember(clan.Player{JID: caller.JID, Role: identity.RoleMember, Status: identity.StatusMember})
	return s.save(ctx, c)
}

// LeaveClan requires Member status; the Leader cannot leave and must
// disband instead.
func (s *Service) LeaveClan(ctx context.Context, caller Caller, id uint32) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if c.RoleOf(caller.JID) == identity.RoleLeader {
		return clanerr.New(clanerr.ClanLeaderCannotLeave, "leader must disband instead of leaving")
	}
	if c.StatusOf(caller.JID) != identity.StatusMember {
		return clanerr.New(clanerr.MemberStatusInvalid, "caller is not a member")
	}
	c.RemoveMember(caller.JID)
	return s.save(ctx, c)
}

// KickMember requires the caller be at least SubLeader and the target
// a Member ranked below SubLeader.
func (s *Service) KickMember(ctx context.Context, caller Caller, id uint32, target identity.JID) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if !c.RoleOf(caller.JID).AtLeast(identity.RoleSubLeader) {
		return clanerr.ErrForbidden("caller must be at least a sub-leader")
	}
	if c.StatusOf(target) != identity.StatusMember {
		return clanerr.New(clanerr.MemberStatusInvalid, "target is not a member")
	}
	if c.RoleOf(target).AtLeast(identity.RoleSubLeader) {
		return clanerr.New(clanerr.InvalidRolePriority, "target outranks or matches caller's kick authority")
	}
	c.RemoveMember(target)
	return s.save(ctx, c)
}

// ChangeMemberRole requires the caller be at least SubLeader and the
// target a Member; sets the target's role directly.
func (s *Service) ChangeMemberRole(ctx context.Context, caller Caller, id uint32, target identity.JID, role identity.Role) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if !c.RoleOf(caller.JID).AtLeast(identity.RoleSubLeader) {
		return clanerr.ErrForbidden("caller must be at least a sub-leader")
	}
	p := c.Member(target)
	if p == nil || p.Status != identity.StatusMember {
		return clanerr.New(clanerr.MemberStatusInvalid, "target is not a member")
	}
	p.Role = role
	return s.save(ctx, c)
}

// MemberUpdate carries the caller-editable fields of their own member
// row for update_member_info.
type MemberUpdate struct {
	OnlineName  string
	Description string
	AllowMsg    bool
	BinData     []byte
	Size        int32
}

// UpdateMemberInfo requires Member status and rewrites the caller's
// own row.
func (s *Service) UpdateMemberInfo(ctx context.Context, caller Caller, id uint32, u MemberUpdate) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	p := c.Member(caller.JID)
	if p == nil || p.Status != identity.StatusMember {
		return clanerr.New(clanerr.MemberStatusInvalid, "caller is not a member")
	}
	p.OnlineName = u.OnlineName
	p.Description = u.Description
	p.AllowMsg = u.AllowMsg
	p.BinData = u.BinData
	p.Size = u.Size
	return s.save(ctx, c)
}

// RecordBlacklistEntry requires the caller be at least SubLeader and
// the target not a current member; enforces MaxBlacklist (restored
// from original_source, spec.md SPEC_FULL §4.5 EXPANSION).
func (s *Service) RecordBlacklistEntry(ctx context.Context, caller Caller, id uint32, target identity.JID) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if !c.RoleOf(caller.JID).AtLeast(identity.RoleSubLeader) {
		return clanerr.ErrForbidden("caller must be at least a sub-leader")
	}
	if c.Member(target) != nil {
		return clanerr.New(clanerr.CannotRecordBlacklistEntry, "target is currently a member")
	}
	if len(c.Blacklist) >= s.Limits.MaxBlacklist {
		return clanerr.New(clanerr.BlacklistLimitReached, "blacklist already holds %d entries", len(c.Blacklist))
	}
	c.AddToBlacklist(target)
	return s.save(ctx, c)
}

// DeleteBlacklistEntry requires the caller be at least SubLeader, the
// target not a member, and the target currently blacklisted.
func (s *Service) DeleteBlacklistEntry(ctx context.Context, caller Caller, id uint32, target identity.JID) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if !c.RoleOf(caller.JID).AtLeast(identity.RoleSubLeader) {
		return clanerr.ErrForbidden("caller must be at least a sub-leader")
	}
	if c.Member(target) != nil {
		return clanerr.New(clanerr.CannotRecordBlacklistEntry, "target is currently a member")
	}
	if !c.RemoveFromBlacklist(target) {
		return clanerr.New(clanerr.NoSuchBlacklistEntry, "target is not blacklisted")
	}
	return s.save(ctx, c)
}

// PostAnnouncement requires the caller be at least SubLeader and
// enforces MaxAnnouncements (restored from original_source, spec.md
// SPEC_FULL §4.5 EXPANSION).
func (s *Service) PostAnnouncement(ctx context.Context, caller Caller, id uint32, subject, msg string, expireSec int64) (clan.Announcement, error) {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return clan.Announcement{}, err
	}
	if !c.RoleOf(caller.JID).AtLeast(identity.RoleSubLeader) {
		return clan.Announcement{}, clanerr.ErrForbidden("caller must be at least a sub-leader")
	}
	if len(c.Announcements) >= s.Limits.MaxAnnouncements {
		return clan.Announcement{}, clanerr.New(clanerr.AnnouncementLimitReached, "clan already holds %d announcement(s)", len(c.Announcements))
	}

	a := clan.Announcement{
		ID:          randomAnnouncementID(),
		Subject:     subject,
		Msg:         msg,
		Author:      caller.JID,
		DateCreated: s.now(),
		DateExpire:  s.now().Add(time.Duration(expireSec) * time.Second),
		FromID:      1,
	}
	c.AddAnnouncement(a)
	if err := s.save(ctx, c); err != nil {
		return clan.Announcement{}, err
	}
	return a, nil
}

// DeleteAnnouncement requires the caller be at least SubLeader and
// removes the announcement by id.
func (s *Service) DeleteAnnouncement(ctx context.Context, caller Caller, id uint32, announcementID uint32) error {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	if !c.RoleOf(caller.JID).AtLeast(identity.RoleSubLeader) {
		return clanerr.ErrForbidden("caller must be at least a sub-leader")
	}
	if !c.RemoveAnnouncement(announcementID) {
		return clanerr.New(clanerr.NoSuchClanAnnouncement, "no announcement with id %d", announcementID)
	}
	return s.save(ctx, c)
}
