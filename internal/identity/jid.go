// Package identity holds the player-facing identifier and enum types
// shared across the ticket codec, clan aggregate, and route handlers.
package identity

import (
	"fmt"
	"strings"
)

// domainSuffix is the fixed right-hand side of a JID, following the
// username@domain.region.np.playstation.net shape.
const domainSuffix = "np.playstation.net"

// JID identifies a player across the three fields carried in a ticket.
// Equality is username-only: domain and region vary per platform for
// the same player and must not split identity.
type JID struct {
	Username string
	Domain   string
	Region   string
}

// New builds a JID from its three parts, defaulting domain/region the
// same way the ticket decoder does (spec.md §3: Ticket invariants).
func New(username, domain, region string) JID {
	if domain == "" {
		domain = "un"
	}
	if region == "" {
		region = "br"
	}
	return JID{Username: username, Domain: domain, Region: region}
}

// String renders the JID in its wire form.
func (j JID) String() string {
	return fmt.Sprintf("%s@%s.%s.%s", j.Username, j.Domain, j.Region, domainSuffix)
}

// Equal compares two JIDs by username only, per spec.md §3.
func (j JID) Equal(other JID) bool {
	return strings.EqualFold(j.Username, other.Username)
}

// Parse splits a JID string of the form
// "username@domain.region.np.playstation.net" into its parts.
// It rejects strings that do not split into exactly two @-parts and
// five .-parts on the right side.
func Parse(s string) (JID, error) {
	atParts := strings.Split(s, "@")
	if len(atParts) != 2 {
		return JID{}, fmt.Errorf("identity: %q does not split into exactly two @-parts", s)
	}

	username := atParts[0]
	dotParts := strings.Split(atParts[1], ".")
	if len(dotParts) != 5 {
		return JID{}, fmt.Errorf("identity: %q right side does not split into exactly five .-parts", s)
	}
	if strings.Join(dotParts[2:], ".") != domainSuffix {
		return JID{}, fmt.Errorf("identity: %q has unexpected suffix %q", s, strings.Join(dotParts[2:], "."))
	}

	return New(username, dotParts[0], dotParts[1]), nil
}
