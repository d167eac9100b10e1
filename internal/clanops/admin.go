package clanops

import (
	"context"

	"github.com/udisondev/clanserver/internal/clan"
	"github.com/udisondev/clanserver/internal/clanerr"
	"github.com/udisondev/clanserver/internal/clanstore"
	"github.com/udisondev/clanserver/internal/identity"
)

// AdminCreateClan implements the /admin side-channel's
// admin_create_clan: look up the player by (username, platform) with
// platform-sensitive domain/region filters, then run the same
// truncation/byte-limit/cap checks as the game create_clan path
// before inserting with the discovered JID as Leader (spec.md §4.6).
func (s *Service) AdminCreateClan(ctx context.Context, username string, platform identity.Platform, name, tag string) (*clan.Clan, error) {
	jid, err := s.Store.FindPlayer(ctx, username, platform)
	if err == clanstore.ErrNotFound {
		return nil, clanerr.New(clanerr.ClanConfigMasterNotFound, "no player %q on platform %s", username, platform)
	}
	if err != nil {
		return nil, clanerr.ErrInternal(err)
	}

	caller := Caller{JID: *jid, Platform: platform}
	return s.CreateClan(ctx, caller, name, tag, "")
}
