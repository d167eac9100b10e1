package clanops

import (
	"context"

	"github.com/udisondev/clanserver/internal/clan"
	"github.com/udisondev/clanserver/internal/clanerr"
	"github.com/udisondev/clanserver/internal/clanstore"
	"github.com/udisondev/clanserver/internal/identity"
)

// GetClanInfo resolves a clan for get_clan_info.
func (s *Service) GetClanInfo(ctx context.Context, id uint32) (*clan.Clan, error) {
	return s.resolve(ctx, id)
}

// ClanListRow is one emitted row of get_clan_list, with role/status
// masked when the clan's platform differs from the caller's
// (spec.md §3 Platform, §4.5 get_clan_list).
type ClanListRow struct {
	Clan   *clan.Clan
	Role   identity.Role
	Status identity.Status
	Name   string
	Allow  bool
}

// GetClanList lazily upserts the caller into the players collection,
// then lists every clan the caller is a member of, masking rows on a
// foreign-platform clan.
func (s *Service) GetClanList(ctx context.Context, caller Caller, start, max int32) ([]ClanListRow, int64, error) {
	if err := s.Store.UpsertPlayer(ctx, caller.JID); err != nil {
		return nil, 0, clanerr.ErrInternal(err)
	}

	all, err := s.Store.ClansOf(ctx, caller.JID)
	if err != nil {
		return nil, 0, clanerr.ErrInternal(err)
	}

	total := int64(len(all))
	skip, limit := clampPage(start, max)
	window := paginate(all, skip, limit)

	rows := make([]ClanListRow, 0, len(window))
	for _, c := range window {
		member := c.Member(caller.JID)
		row := ClanListRow{Clan: c}
		if c.Platform != caller.Platform {
			row.Role = identity.RoleNonMember
			row.Status = identity.StatusUnknown
		} else if member != nil {
			row.Role = member.Role
			row.Status = member.Status
			row.Name = member.OnlineName
			row.Allow = member.AllowMsg
		}
		rows = append(rows, row)
	}
	return rows, total, nil
}

// SearchClans implements clan_search's filter/pagination contract.
func (s *Service) SearchClans(ctx context.Context, f clanstore.SearchFilter, start, max int32) ([]*clan.Clan, int64, error) {
	total, err := s.Store.CountBy(ctx, f)
	if err != nil {
		return nil, 0, clanerr.ErrInternal(err)
	}
	skip, limit := clampPage(start, max)
	items, err := s.Store.FindWithSkipLimit(ctx, f, skip, limit)
	if err != nil {
		return nil, 0, clanerr.ErrInternal(err)
	}
	return items, total, nil
}

// GetMemberList resolves a clan and returns every member row,
// paginated, alongside the pre-pagination member count.
func (s *Service) GetMemberList(ctx context.Context, id uint32, start, max int32) ([]clan.Player, int64, error) {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(c.Members))
	skip, limit := clampPage(start, max)
	return paginate(c.Members, skip, limit), total, nil
}

// GetMemberInfo requires the caller to be a Member and returns the
// target's full row.
func (s *Service) GetMemberInfo(ctx context.Context, caller Caller, id uint32, target identity.JID) (*clan.Player, error) {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.StatusOf(caller.JID) != identity.StatusMember {
		return nil, clanerr.ErrForbidden("caller is not a member")
	}
	p := c.Member(target)
	if p == nil {
		return nil, clanerr.ErrNoSuchClanMember(target.String())
	}
	return p, nil
}

// GetBlacklist resolves a clan and paginates its blacklist, alongside
// the pre-pagination blacklist count.
func (s *Service) GetBlacklist(ctx context.Context, id uint32, start, max int32) ([]identity.JID, int64, error) {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(c.Blacklist))
	skip, limit := clampPage(start, max)
	return paginate(c.Blacklist, skip, limit), total, nil
}

// RetrieveAnnouncements requires Member status and skips expired
// entries before pagination, returning the pre-pagination count of
// active (non-expired) announcements.
func (s *Service) RetrieveAnnouncements(ctx context.Context, caller Caller, id uint32, start, max int32) ([]clan.Announcement, int64, error) {
	c, err := s.resolve(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if c.StatusOf(caller.JID) != identity.StatusMember {
		return nil, 0, clanerr.ErrForbidden("caller is not a member")
	}
	active := c.ActiveAnnouncements(s.now())
	total := int64(len(active))
	skip, limit := clampPage(start, max)
	return paginate(active, skip, limit), total, nil
}

// paginate returns items[skip : skip+limit], clamped to bounds
// (spec.md §8 property 5).
func paginate[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return nil
	}
	end := skip + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}
