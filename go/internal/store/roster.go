package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/models"
)

// ActiveRoster is a team's active slots joined with their players.
type ActiveRoster struct {
	TeamID  uuid.UUID
	Slots   []models.RosterSlot
	Players []models.Player
}

// SlotFor returns the active slot holding playerID.
func (r ActiveRoster) SlotFor(playerID uuid.UUID) (models.RosterSlot, bool) {
	for _, s := range r.Slots {
		if s.PlayerID == playerID {
			return s, true
		}
	}
	return models.RosterSlot{}, false
}

// NextPosition returns the position for a slot appended to the roster.
func (r ActiveRoster) NextPosition() int {
	max := 0
	for _, s := range r.Slots {
		if s.Position > max {
			max = s.Position
		}
	}
	return max + 1
}

// LoadActiveRoster reads a team's active slots and the players on them.
func LoadActiveRoster(ctx context.Context, q Queries, teamID uuid.UUID) (ActiveRoster, error) {
	slots, err := q.ListActiveSlots(ctx, teamID)
	if err != nil {
		return ActiveRoster{}, fmt.Errorf("failed to list active slots: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.PlayerID)
	}
	players, err := q.GetPlayers(ctx, ids)
	if err != nil {
		return ActiveRoster{}, fmt.Errorf("failed to load roster players: %w", err)
	}
	return ActiveRoster{TeamID: teamID, Slots: slots, Players: players}, nil
}
