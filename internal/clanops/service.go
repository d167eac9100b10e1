// Package clanops implements the clan/membership state machine:
// per-operation precondition guards and transitions over the Clan
// aggregate (spec.md §4.5). Handlers in internal/api call these
// methods after decoding the caller's ticket and parsing the request
// payload; clanops never touches HTTP or XML.
//
// Grounded on the teacher's service-layer shape in
// internal/gameserver/clan (guard-then-mutate methods taking a loaded
// aggregate and the caller's identity) generalized from the teacher's
// role/privilege checks to this system's role/status/platform/
// blacklist/cap composite guards.
package clanops

import (
	"context"
	"time"

	"github.com/udisondev/clanserver/internal/clan"
	"github.com/udisondev/clanserver/internal/clanconf"
	"github.com/udisondev/clanserver/internal/clanerr"
	"github.com/udisondev/clanserver/internal/clanstore"
	"github.com/udisondev/clanserver/internal/identity"
)

// Service holds the dependencies every operation needs: the
// persistence adapter, the enforced limits, and an injectable clock
// so tests control "now" the same way internal/ticket.Decode does.
type Service struct {
	Store  clanstore.Store
	Limits clanconf.Limits
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// resolve loads a clan by id, mapping a missing document to the exact
// error code handlers must surface (spec.md §7).
func (s *Service) resolve(ctx context.Context, id uint32) (*clan.Clan, error) {
	c, err := s.Store.Resolve(ctx, id)
	if err == clanstore.ErrNotFound {
		return nil, clanerr.ErrNoSuchClan(id)
	}
	if err != nil {
		return nil, clanerr.ErrInternal(err)
	}
	return c, nil
}

func (s *Service) save(ctx context.Context, c *clan.Clan) error {
	if err := s.Store.Save(ctx, c); err != nil {
		return clanerr.ErrInternal(err)
	}
	return nil
}

// Caller bundles the identity derived from a verified ticket — every
// operation needs both the JID and the platform for its guards
// (spec.md §4.5 "All operations derive the caller JID and Platform
// from ticket").
type Caller struct {
	JID      identity.JID
	Platform identity.Platform
}

// clampPage turns 1-based start/max into a 0-based skip and a
// non-negative limit (spec.md §4.3).
func clampPage(start, max int32) (skip, limit int) {
	skip = int(start) - 1
	if skip < 0 {
		skip = 0
	}
	limit = int(max)
	if limit < 0 {
		limit = 0
	}
	return skip, limit
}
