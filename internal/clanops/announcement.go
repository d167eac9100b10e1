package clanops

import "math/rand/v2"

// randomAnnouncementID returns a random id in [1, 1_000_000), avoiding
// 0 and values at or above 1_000_000 which the client rejects
// (spec.md §3 Announcement).
func randomAnnouncementID() uint32 {
	return uint32(1 + rand.IntN(999_999))
}
