package models

import (
	"github.com/google/uuid"
	"time"
)

// DraftStatus defines the status of a draft.
type DraftStatus string

const (
	DraftStatusNotStarted DraftStatus = "NOT_STARTED"
	DraftStatusInProgress DraftStatus = "IN_PROGRESS"
	DraftStatusPaused     DraftStatus = "PAUSED"
	DraftStatusFinished   DraftStatus = "FINISHED"
)

// Draft represents a snake draft instance for one game.
//
// CurrentPick is the absolute, 1-indexed number of the next pick to be made.
// Round and pick-in-round are always derived from it.
type Draft struct {
	ID             uuid.UUID   `json:"id"`
	GameID         uuid.UUID   `json:"game_id"`
	Status         DraftStatus `json:"status"`
	TotalRounds    int         `json:"total_rounds"`
	CurrentPick    int         `json:"current_pick"`
	TimePerPickSec int         `json:"time_per_pick_sec"`
	// TurnStartedAt is when the participant on the clock started their turn,
	// shifted forward by any time spent paused.
	TurnStartedAt *time.Time `json:"turn_started_at,omitempty"`
	PausedAt      *time.Time `json:"paused_at,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PicksMade returns the number of committed picks.
func (d Draft) PicksMade() int {
	if d.CurrentPick < 1 {
		return 0
	}
	return d.CurrentPick - 1
}

// TotalPicks returns the number of picks in a draft with n participants.
func (d Draft) TotalPicks(n int) int {
	return d.TotalRounds * n
}

// PickTimeout returns the per-pick time limit.
func (d Draft) PickTimeout() time.Duration {
	return time.Duration(d.TimePerPickSec) * time.Second
}

// DraftParticipant is a team's seat in a draft.
type DraftParticipant struct {
	ID         uuid.UUID `json:"id"`
	DraftID    uuid.UUID `json:"draft_id"`
	TeamID     uuid.UUID `json:"team_id"`
	DraftOrder int       `json:"draft_order"`
}
