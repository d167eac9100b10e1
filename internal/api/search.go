package api

import (
	"strings"

	"github.com/udisondev/clanserver/internal/clanstore"
	"github.com/udisondev/clanserver/internal/identity"
)

// parseSearchFilter implements clan_search's filter grammar: a
// trailing "[ps3]"/"[pc]" suffix selects a platform constraint, the
// remaining trimmed, case-folded text is matched per op (spec.md
// §4.5 clan_search).
func parseSearchFilter(query, op string) clanstore.SearchFilter {
	f := clanstore.SearchFilter{Op: parseOp(op)}

	q := strings.TrimSpace(query)
	lower := strings.ToLower(q)
	switch {
	case strings.HasSuffix(lower, "[ps3]"):
		q = strings.TrimSpace(q[:len(q)-len("[ps3]")])
		p := identity.PlatformConsole
		f.Platform = &p
	case strings.HasSuffix(lower, "[pc]"):
		q = strings.TrimSpace(q[:len(q)-len("[pc]")])
		p := identity.PlatformEmulator
		f.Platform = &p
	}
	f.NameOrTag = q
	if f.NameOrTag == "" {
		f.Op = clanstore.OpAll
	}
	return f
}

func parseOp(op string) clanstore.SearchOp {
	switch strings.ToLower(strings.TrimSpace(op)) {
	case "eq":
		return clanstore.OpEq
	case "ne":
		return clanstore.OpNe
	case "gt", "ge":
		return clanstore.OpGtGe
	case "lt", "le":
		return clanstore.OpLtLe
	case "lk":
		return clanstore.OpLk
	default:
		return clanstore.OpAll
	}
}
