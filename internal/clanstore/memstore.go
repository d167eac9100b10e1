package clanstore

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/udisondev/clanserver/internal/clan"
	"github.com/udisondev/clanserver/internal/identity"
)

// MemStore is an in-process fake of Store for unit tests, mirroring
// the teacher's test doubles that hold rows in a guarded map instead
// of hitting a real database.
type MemStore struct {
	mu      sync.RWMutex
	clans   map[uint32]*clan.Clan
	players []identity.JID
}

// NewMemStore returns an empty fake store.
func NewMemStore() *MemStore {
	return &MemStore{clans: make(map[uint32]*clan.Clan)}
}

func cloneClan(c *clan.Clan) *clan.Clan {
	cp := *c
	cp.Members = append([]clan.Player(nil), c.Members...)
	cp.Blacklist = append([]identity.JID(nil), c.Blacklist...)
	cp.Announcements = append([]clan.Announcement(nil), c.Announcements...)
	return &cp
}

func (s *MemStore) Resolve(ctx context.Context, id uint32) (*clan.Clan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneClan(c), nil
}

func (s *MemStore) Save(ctx context.Context, c *clan.Clan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clans[c.ID] = cloneClan(c)
	return nil
}

func (s *MemStore) Delete(ctx context.Context, c *clan.Clan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clans, c.ID)
	return nil
}

func (s *MemStore) ClansOf(ctx context.Context, jid identity.JID) ([]*clan.Clan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*clan.Clan
	for _, c := range s.clans {
		if c.Member(jid) != nil {
			out = append(out, cloneClan(c))
		}
	}
	return out, nil
}

func matches(c *clan.Clan, f SearchFilter) bool {
	if f.Platform != nil && c.Platform != *f.Platform {
		return false
	}
	if f.NameOrTag == "" || f.Op == OpAll {
		return true
	}
	q := strings.ToLower(f.NameOrTag)
	name := strings.ToLower(c.Name)
	tag := strings.ToLower(c.Tag)
	match := func(s string) bool {
		switch f.Op {
		case OpEq:
			return s == q
		case OpNe:
			return s != q
		case OpGtGe:
			return strings.HasPrefix(s, q)
		case OpLtLe:
			return strings.HasSuffix(s, q)
		case OpLk:
			return strings.Contains(s, q)
		default:
			return true
		}
	}
	if f.Op == OpNe {
		return match(name) && match(tag)
	}
	return match(name) || match(tag)
}

func (s *MemStore) CountBy(ctx context.Context, f SearchFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, c := range s.clans {
		if matches(c, f) {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) FindWithSkipLimit(ctx context.Context, f SearchFilter, skip, limit int) ([]*clan.Clan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []uint32
	for id, c := range s.clans {
		if matches(c, f) {
			ids = append(ids, id)
		}
	}
	sortUint32s(ids)

	if skip >= len(ids) {
		return nil, nil
	}
	end := skip + limit
	if limit <= 0 || end > len(ids) {
		end = len(ids)
	}
	out := make([]*clan.Clan, 0, end-skip)
	for _, id := range ids[skip:end] {
		out = append(out, cloneClan(s.clans[id]))
	}
	return out, nil
}

func sortUint32s(ids []uint32) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

func (s *MemStore) CountByNameOrTag(ctx context.Context, name, tag string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, tag = strings.ToLower(name), strings.ToLower(tag)
	var n int64
	for _, c := range s.clans {
		if strings.ToLower(c.Name) == name || strings.ToLower(c.Tag) == tag {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) NextID(ctx context.Context) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		id := uint32(1 + rand.IntN(999_999))
		if _, ok := s.clans[id]; !ok {
			return id, nil
		}
	}
}

func (s *MemStore) UpsertPlayer(ctx context.Context, jid identity.JID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		if p.Username == jid.Username && p.Domain == jid.Domain && p.Region == jid.Region {
			return nil
		}
	}
	s.players = append(s.players, jid)
	return nil
}

func (s *MemStore) FindPlayer(ctx context.Context, username string, platform identity.Platform) (*identity.JID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		if p.Username != username {
			continue
		}
		isConsole := p.Domain != "un" && p.Region != "br"
		if platform == identity.PlatformConsole && isConsole {
			jid := p
			return &jid, nil
		}
		if platform == identity.PlatformEmulator && !isConsole {
			jid := p
			return &jid, nil
		}
	}
	return nil, ErrNotFound
}
