package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/udisondev/clanserver/internal/clan"
	"github.com/udisondev/clanserver/internal/clanstore"
	"github.com/udisondev/clanserver/internal/identity"
)

// MongoStoreSuite exercises clanstore.MongoStore against a real
// mongod, mirroring the teacher's DatabaseSuite
// (tests/integration/database_test.go): CRUD round-trip, not-found
// semantics, and the collision avoidance of the random id allocator.
type MongoStoreSuite struct {
	IntegrationSuite
}

func TestMongoStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mongo integration tests in short mode")
	}
	suite.Run(t, new(MongoStoreSuite))
}

func newTestClan(id uint32, name, tag string) *clan.Clan {
	return &clan.Clan{
		ID:          id,
		Name:        name,
		Tag:         tag,
		Description: "integration test clan",
		Members: []clan.Player{
			{JID: identity.New("leader", "a1", "us"), Role: identity.RoleLeader, Status: identity.StatusMember},
		},
		DateCreated: time.Now().UTC().Truncate(time.Second),
		Platform:    identity.PlatformConsole,
	}
}

// TestSaveAndResolve round-trips a clan through Save/Resolve, the
// same CRUD shape as the teacher's TestAccountCRUD.
func (s *MongoStoreSuite) TestSaveAndResolve() {
	c := newTestClan(1001, "Knights", "KN")
	s.Require().NoError(s.store.Save(s.ctx, c))

	got, err := s.store.Resolve(s.ctx, 1001)
	s.Require().NoError(err)
	s.Equal("Knights", got.Name)
	s.Equal("KN", got.Tag)
	s.Require().Len(got.Members, 1)
	s.Equal("leader", got.Members[0].JID.Username)
}

// TestSaveUpsertsOnConflict exercises Save's documented upsert
// semantics (clanstore/mongo.go: "inserting it if absent").
func (s *MongoStoreSuite) TestSaveUpsertsOnConflict() {
	c := newTestClan(1002, "Knights", "KN")
	s.Require().NoError(s.store.Save(s.ctx, c))

	c.Name = "Paladins"
	s.Require().NoError(s.store.Save(s.ctx, c))

	got, err := s.store.Resolve(s.ctx, 1002)
	s.Require().NoError(err)
	s.Equal("Paladins", got.Name)
}

// TestResolveNotFound mirrors the teacher's
// TestAccountNotFound: a missing id surfaces clanstore.ErrNotFound
// rather than a zero value.
func (s *MongoStoreSuite) TestResolveNotFound() {
	_, err := s.store.Resolve(s.ctx, 999999)
	s.ErrorIs(err, clanstore.ErrNotFound)
}

func (s *MongoStoreSuite) TestDelete() {
	c := newTestClan(1003, "Knights", "KN")
	s.Require().NoError(s.store.Save(s.ctx, c))
	s.Require().NoError(s.store.Delete(s.ctx, c))

	_, err := s.store.Resolve(s.ctx, 1003)
	s.ErrorIs(err, clanstore.ErrNotFound)
}

func (s *MongoStoreSuite) TestClansOfIsCaseInsensitiveOnUsername() {
	c := newTestClan(1004, "Knights", "KN")
	s.Require().NoError(s.store.Save(s.ctx, c))

	clans, err := s.store.ClansOf(s.ctx, identity.New("LEADER", "a1", "us"))
	s.Require().NoError(err)
	s.Require().Len(clans, 1)
	s.Equal(uint32(1004), clans[0].ID)
}

// TestFindWithSkipLimitPaginates checks that CountBy reports the full
// match count while FindWithSkipLimit returns only the requested
// window, the same total/results split spec.md §4.4 requires of
// every list-shaped operation.
func (s *MongoStoreSuite) TestFindWithSkipLimitPaginates() {
	for i, name := range []string{"Alpha", "Bravo", "Charlie", "Delta"} {
		c := newTestClan(uint32(2000+i), name, name[:2])
		s.Require().NoError(s.store.Save(s.ctx, c))
	}

	f := clanstore.SearchFilter{Op: clanstore.OpAll}
	total, err := s.store.CountBy(s.ctx, f)
	s.Require().NoError(err)
	s.EqualValues(4, total)

	page, err := s.store.FindWithSkipLimit(s.ctx, f, 1, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("Bravo", page[0].Name)
	s.Equal("Charlie", page[1].Name)
}

func (s *MongoStoreSuite) TestNextIDAvoidsCollisions() {
	seen := make(map[uint32]bool)
	for i := 0; i < 5; i++ {
		id, err := s.store.NextID(s.ctx)
		s.Require().NoError(err)
		s.False(seen[id], "NextID returned a duplicate id %d", id)
		seen[id] = true
		s.Require().NoError(s.store.Save(s.ctx, newTestClan(id, "Filler", "FL")))
	}
}

// TestFindPlayerEnforcesPlatformFilters exercises the console/emulator
// domain+region split documented on FindPlayer.
func (s *MongoStoreSuite) TestFindPlayerEnforcesPlatformFilters() {
	s.Require().NoError(s.store.UpsertPlayer(s.ctx, identity.New("console_user", "a1", "us")))
	s.Require().NoError(s.store.UpsertPlayer(s.ctx, identity.New("emu_user", "un", "br")))

	found, err := s.store.FindPlayer(s.ctx, "console_user", identity.PlatformConsole)
	s.Require().NoError(err)
	s.Equal("console_user", found.Username)

	_, err = s.store.FindPlayer(s.ctx, "console_user", identity.PlatformEmulator)
	s.ErrorIs(err, clanstore.ErrNotFound)

	found, err = s.store.FindPlayer(s.ctx, "emu_user", identity.PlatformEmulator)
	s.Require().NoError(err)
	s.Equal("emu_user", found.Username)
}

// TestUpsertPlayerIsIdempotent mirrors the teacher's
// TestConcurrentAccountCreation in spirit: repeating the lazy-record
// call for the same triple must not create duplicate player rows
// (enforced by mongo.go's unique compound index).
func (s *MongoStoreSuite) TestUpsertPlayerIsIdempotent() {
	jid := identity.New("repeat_user", "a1", "us")
	s.Require().NoError(s.store.UpsertPlayer(s.ctx, jid))
	s.Require().NoError(s.store.UpsertPlayer(s.ctx, jid))

	found, err := s.store.FindPlayer(s.ctx, "repeat_user", identity.PlatformConsole)
	s.Require().NoError(err)
	s.Equal("a1", found.Domain)
}
