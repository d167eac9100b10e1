package clanstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/clanserver/internal/clan"
	"github.com/udisondev/clanserver/internal/identity"
)

func TestMemStore_SaveResolveRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	c := &clan.Clan{ID: 1, Name: "Knights", Tag: "KN"}
	require.NoError(t, s.Save(ctx, c))

	got, err := s.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Knights", got.Name)

	// Mutating the returned clone must not affect the stored copy.
	got.Name = "Changed"
	got2, err := s.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Knights", got2.Name)
}

func TestMemStore_ResolveMissingReturnsErrNotFound(t *testing.T) {
	s := NewMemStore()
	_, err := s.Resolve(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStore_ClansOfFindsByMembership(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	leader := identity.New("leader", "a1", "us")
	c := &clan.Clan{ID: 1, Name: "Knights", Tag: "KN", Members: []clan.Player{{JID: leader, Role: identity.RoleLeader, Status: identity.StatusMember}}}
	require.NoError(t, s.Save(ctx, c))

	clans, err := s.ClansOf(ctx, leader)
	require.NoError(t, err)
	require.Len(t, clans, 1)

	other := identity.New("stranger", "a1", "us")
	clans, err = s.ClansOf(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, clans)
}

func TestMemStore_CountByNameOrTag(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.Save(ctx, &clan.Clan{ID: 1, Name: "Knights", Tag: "KN"}))

	n, err := s.CountByNameOrTag(ctx, "knights", "zz")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.CountByNameOrTag(ctx, "dragons", "zz")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemStore_NextIDAvoidsCollisions(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	id1, err := s.NextID(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, &clan.Clan{ID: id1}))

	id2, err := s.NextID(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestMemStore_FindPlayerDiscriminatesPlatform(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.UpsertPlayer(ctx, identity.New("alice", "un", "br")))
	require.NoError(t, s.UpsertPlayer(ctx, identity.New("alice", "a1", "us")))

	emu, err := s.FindPlayer(ctx, "alice", identity.PlatformEmulator)
	require.NoError(t, err)
	assert.Equal(t, "un", emu.Domain)

	console, err := s.FindPlayer(ctx, "alice", identity.PlatformConsole)
	require.NoError(t, err)
	assert.Equal(t, "a1", console.Domain)

	_, err = s.FindPlayer(ctx, "nobody", identity.PlatformConsole)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStore_CountByAndFindWithSkipLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.Save(ctx, &clan.Clan{ID: 1, Name: "Knights", Tag: "KN"}))
	require.NoError(t, s.Save(ctx, &clan.Clan{ID: 2, Name: "Dragons", Tag: "DR"}))
	require.NoError(t, s.Save(ctx, &clan.Clan{ID: 3, Name: "Druids", Tag: "DU"}))

	f := SearchFilter{NameOrTag: "dr", Op: OpLk}
	total, err := s.CountBy(ctx, f)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	items, err := s.FindWithSkipLimit(ctx, f, 0, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint32(2), items[0].ID)
}
