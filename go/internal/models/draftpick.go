package models

import (
	"github.com/google/uuid"
	"time"
)

// DraftPick represents a single committed pick in a draft. Picks are append-only.
type DraftPick struct {
	ID            uuid.UUID `json:"id"`
	DraftID       uuid.UUID `json:"draft_id"`
	Round         int       `json:"round"`
	PickNumber    int       `json:"pick_number"` // absolute pick number
	ParticipantID uuid.UUID `json:"participant_id"`
	TeamID        uuid.UUID `json:"team_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	AutoPicked    bool      `json:"auto_picked"`
	PickedAt      time.Time `json:"picked_at"`
}
