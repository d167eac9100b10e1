package clanops

import (
	"context"
	"testing"
	"time"

	"github.com/udisondev/clanserver/internal/clanconf"
	"github.com/udisondev/clanserver/internal/clanstore"
	"github.com/udisondev/clanserver/internal/identity"
)

func newTestService() *Service {
	return &Service{
		Store:  clanstore.NewMemStore(),
		Limits: clanconf.Default(),
		Now:    func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func callerFor(username string) Caller {
	return Caller{JID: identity.New(username, "a1", "us"), Platform: identity.PlatformConsole}
}

func mustCreateClan(t testing.TB, s *Service, leader Caller, name, tag string) uint32 {
	t.Helper()
	c, err := s.CreateClan(context.Background(), leader, name, tag, "")
	if err != nil {
		t.Fatalf("CreateClan(%s,%s): %v", name, tag, err)
	}
	return c.ID
}
