package api

import (
	"net/http"

	"github.com/udisondev/clanserver/internal/entities"
	"github.com/udisondev/clanserver/internal/identity"
	"github.com/udisondev/clanserver/internal/xmlenv"
)

func (s *Server) getClanInfo(w http.ResponseWriter, r *http.Request) {
	var req getClanInfoRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	if _, err := s.authenticate(req.Ticket); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	c, err := s.Service.GetClanInfo(r.Context(), req.ID)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteItem(w, entities.ClanInfo{C: c})
}

func (s *Server) getClanList(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	rows, total, err := s.Service.GetClanList(r.Context(), caller, req.Start, req.Max)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	out := make([]xmlenv.Entity, len(rows))
	for i, row := range rows {
		out[i] = entities.ClanPlayerInfo{C: row.Clan, Role: row.Role, Status: row.Status, Name: row.Name, Allow: row.Allow}
	}
	xmlenv.WriteList(w, out, total)
}

func (s *Server) clanSearch(w http.ResponseWriter, r *http.Request) {
	var req clanSearchRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	if _, err := s.authenticate(req.Ticket); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	filter := parseSearchFilter(req.Filter, req.Op)
	clans, total, err := s.Service.SearchClans(r.Context(), filter, req.Start, req.Max)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	out := make([]xmlenv.Entity, len(clans))
	for i, c := range clans {
		out[i] = entities.ClanSearchInfo{C: c}
	}
	xmlenv.WriteList(w, out, total)
}

func (s *Server) getMemberList(w http.ResponseWriter, r *http.Request) {
	var req getMemberListRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	if _, err := s.authenticate(req.Ticket); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	members, total, err := s.Service.GetMemberList(r.Context(), req.ID, req.Start, req.Max)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	out := make([]xmlenv.Entity, len(members))
	for i, m := range members {
		out[i] = entities.PlayerBasicInfo{P: m}
	}
	xmlenv.WriteList(w, out, total)
}

func (s *Server) getMemberInfo(w http.ResponseWriter, r *http.Request) {
	var req getMemberInfoRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	target, err := identity.Parse(req.JID)
	if err != nil {
		xmlenv.WriteError(w, invalidNpID(err))
		return
	}
	p, err := s.Service.GetMemberInfo(r.Context(), caller, req.ID, target)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteItem(w, entities.PlayerInfo{P: *p})
}

func (s *Server) getBlacklist(w http.ResponseWriter, r *http.Request) {
	var req blacklistPageRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	if _, err := s.authenticate(req.Ticket); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	entries, total, err := s.Service.GetBlacklist(r.Context(), req.ID, req.Start, req.Max)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	out := make([]xmlenv.Entity, len(entries))
	for i, j := range entries {
		out[i] = entities.BlacklistEntry{JID: j}
	}
	xmlenv.WriteList(w, out, total)
}

func (s *Server) retrieveAnnouncements(w http.ResponseWriter, r *http.Request) {
	var req announcementPageRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	list, total, err := s.Service.RetrieveAnnouncements(r.Context(), caller, req.ID, req.Start, req.Max)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	out := make([]xmlenv.Entity, len(list))
	for i, a := range list {
		out[i] = entities.AnnouncementInfo{A: a}
	}
	xmlenv.WriteList(w, out, total)
}
