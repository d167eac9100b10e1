package api

import (
	"net/http"

	"github.com/udisondev/clanserver/internal/clanops"
	"github.com/udisondev/clanserver/internal/entities"
	"github.com/udisondev/clanserver/internal/identity"
	"github.com/udisondev/clanserver/internal/xmlenv"
)

func (s *Server) createClan(w http.ResponseWriter, r *http.Request) {
	var req createClanRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	c, err := s.Service.CreateClan(r.Context(), caller, req.Name, req.Tag, req.Description)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteItem(w, entities.IdEntity{ID: c.ID})
}

func (s *Server) disbandClan(w http.ResponseWriter, r *http.Request) {
	var req clanIDRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	if err := s.Service.DisbandClan(r.Context(), caller, req.ID); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) updateClanInfo(w http.ResponseWriter, r *http.Request) {
	var req updateClanInfoRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	if err := s.Service.UpdateClanInfo(r.Context(), caller, req.ID, req.Description); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

// withTarget parses req.Ticket/req.JID into (caller, target), writing
// the mapped error and returning ok=false on failure.
func (s *Server) withTarget(w http.ResponseWriter, req clanTargetRequest) (caller clanops.Caller, target identity.JID, ok bool) {
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return caller, target, false
	}
	target, err = identity.Parse(req.JID)
	if err != nil {
		xmlenv.WriteError(w, invalidNpID(err))
		return caller, target, false
	}
	return caller, target, true
}

func (s *Server) sendInvitation(w http.ResponseWriter, r *http.Request) {
	var req clanTargetRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, target, ok := s.withTarget(w, req)
	if !ok {
		return
	}
	if err := s.Service.SendInvitation(r.Context(), caller, req.ID, target); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) cancelInvitation(w http.ResponseWriter, r *http.Request) {
	var req clanTargetRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, target, ok := s.withTarget(w, req)
	if !ok {
		return
	}
	if err := s.Service.CancelInvitation(r.Context(), caller, req.ID, target); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req clanIDRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	if err := s.Service.AcceptInvitation(r.Context(), caller, req.ID); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) declineInvitation(w http.ResponseWriter, r *http.Request) {
	var req clanIDRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	if err := s.Service.DeclineInvitation(r.Context(), caller, req.ID); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) requestMembership(w http.ResponseWriter, r *http.Request) {
	var req clanIDRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	if err := s.Service.RequestMembership(r.Context(), caller, req.ID); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) cancelRequestMembership(w http.ResponseWriter, r *http.Request) {
	var req clanIDRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	if err := s.Service.CancelRequestMembership(r.Context(), caller, req.ID); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) acceptMembershipRequest(w http.ResponseWriter, r *http.Request) {
	var req clanTargetRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, target, ok := s.withTarget(w, req)
	if !ok {
		return
	}
	if err := s.Service.AcceptMembershipRequest(r.Context(), caller, req.ID, target); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) declineMembershipRequest(w http.ResponseWriter, r *http.Request) {
	var req clanTargetRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, target, ok := s.withTarget(w, req)
	if !ok {
		return
	}
	if err := s.Service.DeclineMembershipRequest(r.Context(), caller, req.ID, target); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) joinClan(w http.ResponseWriter, r *http.Request) {
	var req clanIDRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	if err := s.Service.JoinClan(r.Context(), caller, req.ID); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) leaveClan(w http.ResponseWriter, r *http.Request) {
	var req clanIDRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	if err := s.Service.LeaveClan(r.Context(), caller, req.ID); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) kickMember(w http.ResponseWriter, r *http.Request) {
	var req clanTargetRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, target, ok := s.withTarget(w, req)
	if !ok {
		return
	}
	if err := s.Service.KickMember(r.Context(), caller, req.ID, target); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) changeMemberRole(w http.ResponseWriter, r *http.Request) {
	var req changeMemberRoleRequest
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
	if err := s.Service.ChangeMemberRole(r.Context(), caller, req.ID, target, identity.Role(req.Role)); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) updateMemberInfo(w http.ResponseWriter, r *http.Request) {
	var req updateMemberInfoRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	update := memberUpdateFromRequest(req)
	if err := s.Service.UpdateMemberInfo(r.Context(), caller, req.ID, update); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) recordBlacklistEntry(w http.ResponseWriter, r *http.Request) {
	var req clanTargetRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, target, ok := s.withTarget(w, req)
	if !ok {
		return
	}
	if err := s.Service.RecordBlacklistEntry(r.Context(), caller, req.ID, target); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) deleteBlacklistEntry(w http.ResponseWriter, r *http.Request) {
	var req clanTargetRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, target, ok := s.withTarget(w, req)
	if !ok {
		return
	}
	if err := s.Service.DeleteBlacklistEntry(r.Context(), caller, req.ID, target); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}

func (s *Server) postAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req postAnnouncementRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	a, err := s.Service.PostAnnouncement(r.Context(), caller, req.ID, req.Subject, req.Msg, req.ExpireSec)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteItem(w, entities.IdEntity{ID: a.ID})
}

func (s *Server) deleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req deleteAnnouncementRequest
	if err := xmlenv.ParsePayload(r.Body, &req); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	caller, err := s.authenticate(req.Ticket)
	if err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	if err := s.Service.DeleteAnnouncement(r.Context(), caller, req.ID, req.MsgID); err != nil {
		xmlenv.WriteError(w, err)
		return
	}
	xmlenv.WriteEmpty(w, 0)
}
