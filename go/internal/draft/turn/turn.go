// Package turn implements snake draft ordering. It is the single source of
// truth for whose turn it is, derived only from the absolute pick number.
package turn

import (
	"sort"

	"github.com/mcdev12/pronos/go/internal/models"
)

// Round returns the 1-indexed round of absolute pick p with n participants.
func Round(p, n int) int {
	if p < 1 || n < 1 {
		return 0
	}
	return (p-1)/n + 1
}

// IndexInRound returns the 1-indexed position of pick p inside its round.
func IndexInRound(p, n int) int {
	if p < 1 || n < 1 {
		return 0
	}
	return (p-1)%n + 1
}

// Slot returns the draft order (1..n) of the participant making pick p.
// Odd rounds run 1..n, even rounds run n..1.
func Slot(p, n int) int {
	i := IndexInRound(p, n)
	if i == 0 {
		return 0
	}
	if Round(p, n)%2 == 0 {
		return n - i + 1
	}
	return i
}

// ParticipantFor returns the participant on the clock for pick p.
func ParticipantFor(participants []models.DraftParticipant, p int) (models.DraftParticipant, bool) {
	slot := Slot(p, len(participants))
	if slot == 0 {
		return models.DraftParticipant{}, false
	}
	for _, part := range participants {
		if part.DraftOrder == slot {
			return part, true
		}
	}
	return models.DraftParticipant{}, false
}

// SortByOrder sorts participants by draft order in place.
func SortByOrder(participants []models.DraftParticipant) {
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].DraftOrder < participants[j].DraftOrder
	})
}
