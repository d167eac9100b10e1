// Package clanstore is the persistence adapter over the external
// document store (spec.md §4.2b). It is a thin typed interface; the
// production implementation (mongo.go) drives go.mongodb.org/mongo-driver,
// following the teacher's internal/db/clan_repository.go shape: typed
// rows, one method per query, fmt.Errorf("...: %w") wrapping.
package clanstore

import (
	"context"

	"github.com/udisondev/clanserver/internal/clan"
	"github.com/udisondev/clanserver/internal/identity"
)

// SearchFilter narrows clan_search and clan listing (spec.md §4.5).
type SearchFilter struct {
	// NameOrTag is matched per Op against clan name/tag.
	NameOrTag string
	Op        SearchOp
	// Platform, if non-nil, additionally constrains the match.
	Platform *identity.Platform
}

// SearchOp is the comparison operator recognized by clan_search.
type SearchOp int

const (
	OpAll SearchOp = iota // no constraint
	OpEq                  // anchored case-insensitive equality
	OpNe                  // negation of Eq
	OpGtGe                // prefix
	OpLtLe                // suffix
	OpLk                  // contains
)

// Store is the persistence contract clan operation handlers depend on.
type Store interface {
	Resolve(ctx context.Context, id uint32) (*clan.Clan, error)
	Save(ctx context.Context, c *clan.Clan) error
	Delete(ctx context.Context, c *clan.Clan) error
	ClansOf(ctx context.Context, jid identity.JID) ([]*clan.Clan, error)
	CountBy(ctx context.Context, f SearchFilter) (int64, error)
	FindWithSkipLimit(ctx context.Context, f SearchFilter, skip, limit int) ([]*clan.Clan, error)
	CountByNameOrTag(ctx context.Context, name, tag string) (int64, error)
	NextID(ctx context.Context) (uint32, error)

	UpsertPlayer(ctx context.Context, jid identity.JID) error
	FindPlayer(ctx context.Context, username string, platform identity.Platform) (*identity.JID, error)
}

// ErrNotFound is returned by Resolve/FindPlayer when no document
// matches.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "clanstore: not found" }
