package draft

import (
	"sort"

	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/roster"
)

// AutoPickStrategy chooses a player for a participant whose turn timed out.
// Candidates are already filtered to eligible players.
type AutoPickStrategy interface {
	Choose(candidates []models.Player) (models.Player, bool)
}

// BestRankStrategy picks the best ranked candidate. Unranked players come
// last; ties fall back to nickname then id so the choice is deterministic.
type BestRankStrategy struct{}

// NewBestRankStrategy returns the default auto-pick strategy.
func NewBestRankStrategy() BestRankStrategy {
	return BestRankStrategy{}
}

func (BestRankStrategy) Choose(candidates []models.Player) (models.Player, bool) {
	if len(candidates) == 0 {
		return models.Player{}, false
	}
	sorted := append([]models.Player(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool {
		return roster.BetterRanked(sorted[i], sorted[j])
	})
	return sorted[0], true
}
