package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router builds the complete handler tree: the three game route
// prefixes from spec.md §6, the /admin side-channel, and /metrics.
// Grounded on marmos91-dittofs's pkg/api/router.go middleware stack
// (RequestID, RealIP, access log, Recoverer, Timeout).
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/metrics", s.metricsHandler)

	r.Route("/clan_manager_view/func", func(v chi.Router) {
		s.mount(v, "get_clan_info", s.getClanInfo)
	})

	r.Route("/clan_manager_view/sec", func(v chi.Router) {
		s.mount(v, "get_clan_list", s.getClanList)
		s.mount(v, "clan_search", s.clanSearch)
		s.mount(v, "get_member_list", s.getMemberList)
		s.mount(v, "get_member_info", s.getMemberInfo)
		s.mount(v, "get_blacklist", s.getBlacklist)
		s.mount(v, "retrieve_announcements", s.retrieveAnnouncements)
	})

	r.Route("/clan_manager_update/sec", func(u chi.Router) {
		s.mount(u, "create_clan", s.createClan)
		s.mount(u, "disband_clan", s.disbandClan)
		s.mount(u, "update_clan_info", s.updateClanInfo)
		s.mount(u, "send_invitation", s.sendInvitation)
		s.mount(u, "cancel_invitation", s.cancelInvitation)
		s.mount(u, "accept_invitation", s.acceptInvitation)
		s.mount(u, "decline_invitation", s.declineInvitation)
		s.mount(u, "request_membership", s.requestMembership)
		s.mount(u, "cancel_request_membership", s.cancelRequestMembership)
		s.mount(u, "accept_membership_request", s.acceptMembershipRequest)
		s.mount(u, "decline_membership_request", s.declineMembershipRequest)
		s.mount(u, "join_clan", s.joinClan)
		s.mount(u, "leave_clan", s.leaveClan)
		s.mount(u, "kick_member", s.kickMember)
		s.mount(u, "change_member_role", s.changeMemberRole)
		s.mount(u, "update_member_info", s.updateMemberInfo)
		s.mount(u, "record_blacklist_entry", s.recordBlacklistEntry)
		s.mount(u, "delete_blacklist_entry", s.deleteBlacklistEntry)
		s.mount(u, "post_announcement", s.postAnnouncement)
		s.mount(u, "delete_announcement", s.deleteAnnouncement)
	})

	r.Route("/admin", func(a chi.Router) {
		a.Use(s.adminAuth)
		a.Post("/create_clan", s.adminCreateClan)
	})

	r.NotFound(s.noSuchClanService)

	return r
}

// mount registers op at its terminal path segment under group, with
// per-route metrics observation wrapped around the handler.
func (s *Server) mount(group chi.Router, op string, h http.HandlerFunc) {
	group.With(s.observe(op)).Post("/"+op, h)
}

// metricsHandler serves /metrics from the same registry Observe
// writes into, or 404s if the server was built without one.
func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	if s.Metrics == nil {
		http.NotFound(w, r)
		return
	}
	s.Metrics.Handler().ServeHTTP(w, r)
}

// noSuchClanService answers any unrecognized route with the
// distinguished error code (spec.md §4.5 "Default for an unrecognized
// route").
func (s *Server) noSuchClanService(w http.ResponseWriter, r *http.Request) {
	writeNoSuchClanService(w)
}
