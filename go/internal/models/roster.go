package models

import (
	"time"

	"github.com/google/uuid"
)

// RosterSlot links a player to a team. Slots are never deleted, RemovedAt marks them inactive.
type RosterSlot struct {
	ID              uuid.UUID       `json:"id"`
	TeamID          uuid.UUID       `json:"team_id"`
	PlayerID        uuid.UUID       `json:"player_id"`
	Position        int             `json:"position"`
	AcquisitionType AcquisitionType `json:"acquisition_type"`
	AcquiredAt      time.Time       `json:"acquired_at"`
	RemovedAt       *time.Time      `json:"removed_at,omitempty"`
}

// Active reports whether the slot currently places the player on the team.
func (s RosterSlot) Active() bool {
	return s.RemovedAt == nil
}

// AcquisitionType represents how a player was acquired
type AcquisitionType string

const (
	AcquisitionTypeDraft     AcquisitionType = "DRAFT"
	AcquisitionTypeTrade     AcquisitionType = "TRADE"
	AcquisitionTypeFreeAgent AcquisitionType = "FREE_AGENT"
)
