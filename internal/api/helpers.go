package api

import (
	"net/http"

	"github.com/udisondev/clanserver/internal/clanerr"
	"github.com/udisondev/clanserver/internal/clanops"
	"github.com/udisondev/clanserver/internal/xmlenv"
)

// writeNoSuchClanService answers an unrecognized route (spec.md §4.5).
func writeNoSuchClanService(w http.ResponseWriter) {
	xmlenv.WriteEmpty(w, clanerr.NoSuchClanService)
}

// invalidNpID wraps a JID parse failure as the code spec.md §7 maps
// malformed identifiers to.
func invalidNpID(err error) error {
	return clanerr.New(clanerr.InvalidNpId, "%v", err)
}

func memberUpdateFromRequest(req updateMemberInfoRequest) clanops.MemberUpdate {
	return clanops.MemberUpdate{
		OnlineName:  req.OnlineName,
		Description: req.Description,
		AllowMsg:    req.AllowMsg,
		BinData:     []byte(req.BinData),
		Size:        req.Size,
	}
}
