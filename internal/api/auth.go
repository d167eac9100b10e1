package api

import (
	"github.com/udisondev/clanserver/internal/clanerr"
	"github.com/udisondev/clanserver/internal/clanops"
	"github.com/udisondev/clanserver/internal/identity"
	"github.com/udisondev/clanserver/internal/ticket"
)

// authenticate decodes and verifies the base64 ticket field, mapping
// every failure classification to the exact code in spec.md §7.
func (s *Server) authenticate(b64 string) (clanops.Caller, error) {
	t, err := ticket.Decode(b64, s.now())
	if err != nil {
		return clanops.Caller{}, mapDecodeErr(err)
	}

	if err := ticket.Verify(t, s.Keys, s.VerifyPolicy); err != nil {
		return clanops.Caller{}, mapDecodeErr(err)
	}

	platform := identity.PlatformConsole
	if t.Signature.Kind == ticket.SignerEmulator {
		platform = identity.PlatformEmulator
	}

	return clanops.Caller{
		JID:      identity.New(t.Username, t.Domain, t.Region),
		Platform: platform,
	}, nil
}

func mapDecodeErr(err error) error {
	de, ok := err.(*ticket.DecodeError)
	if !ok {
		return clanerr.ErrInternal(err)
	}
	switch de.Kind {
	case "SignatureFailed":
		return clanerr.New(clanerr.InvalidSignature, "%s", de.Message)
	case "BadDates":
		return clanerr.New(clanerr.TicketExpired, "%s", de.Message)
	case "BadLength":
		return clanerr.New(clanerr.InvalidNpMessageFormat, "%s", de.Message)
	case "KeyLoadFailed":
		return clanerr.ErrInternal(de)
	default:
		return clanerr.New(clanerr.InvalidTicket, "%s", de.Message)
	}
}
