package roster

import "github.com/mcdev12/pronos/go/internal/models"

// BetterRanked orders players best rank first. Unranked players come last and
// ties fall back to nickname then id, so the order is total.
func BetterRanked(a, b models.Player) bool {
	ra, rb := rankKey(a.Rank), rankKey(b.Rank)
	if ra != rb {
		return ra < rb
	}
	if a.Nickname != b.Nickname {
		return a.Nickname < b.Nickname
	}
	return a.ID.String() < b.ID.String()
}

func rankKey(rank int) int {
	if rank <= 0 {
		return int(^uint(0) >> 1)
	}
	return rank
}
