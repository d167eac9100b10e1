package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/udisondev/clanserver/internal/clanerr"
	"github.com/udisondev/clanserver/internal/identity"
)

func writeAdminError(w http.ResponseWriter, err error) {
	code := clanerr.InternalServerError
	if ce, ok := err.(*clanerr.Error); ok {
		code = ce.Code
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.HTTPStatus())
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error(), "code": code.Hex()})
}

// adminAuth gates every /admin/* route with a constant-time comparison
// against the configured shared secret, per spec.md §4.6. Grounded on
// the teacher's internal/gameserver/admin/access.go single-predicate
// gate, re-expressed as middleware comparing a header value instead of
// an access level.
func (s *Server) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("X-Admin-Token")
		if s.AdminToken == "" || subtle.ConstantTimeCompare([]byte(got), []byte(s.AdminToken)) != 1 {
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) adminCreateClan(w http.ResponseWriter, r *http.Request) {
	var req adminCreateClanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "malformed request body"})
		return
	}

	platform := identity.ParsePlatform(req.ClanPlatform)
	c, err := s.Service.AdminCreateClan(r.Context(), req.Username, platform, req.ClanName, req.ClanTag)
	if err != nil {
		writeAdminError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"id": c.ID})
}
