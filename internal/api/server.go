// Package api wires the HTTP transport: chi routing and middleware,
// per-operation handlers that parse the XML envelope, decode and
// verify the caller's ticket, call into internal/clanops, and emit
// the XML response envelope.
//
// Grounded on marmos91-dittofs's pkg/api/router.go for the middleware
// stack and route-group shape, and on the teacher's TCP accept-loop
// handler split (internal/login/server.go, internal/gameserver/server.go)
// for the "one small handler per operation, dependencies injected at
// construction" idiom.
package api

import (
	"log/slog"
	"time"

	"github.com/udisondev/clanserver/internal/clanops"
	"github.com/udisondev/clanserver/internal/metrics"
	"github.com/udisondev/clanserver/internal/ticket"
)

// Server holds every dependency the HTTP handlers need.
type Server struct {
	Service      *clanops.Service
	Keys         *ticket.KeyStore
	VerifyPolicy ticket.VerifyPolicy
	AdminToken   string
	Metrics      *metrics.Metrics
	Log          *slog.Logger
	Now          func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
