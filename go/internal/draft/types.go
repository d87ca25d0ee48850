package draft

import (
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/events"
	"github.com/mcdev12/pronos/go/internal/models"
)

// Settings are the defaults applied to drafts created without explicit values.
type Settings struct {
	TotalRounds    int
	TimePerPickSec int
}

// DefaultSettings returns sensible draft defaults.
func DefaultSettings() Settings {
	return Settings{
		TotalRounds:    5,
		TimePerPickSec: 90,
	}
}

// CreateDraftRequest represents a request to create a game's draft
type CreateDraftRequest struct {
	GameID         uuid.UUID `json:"game_id"`
	ActingUserID   uuid.UUID `json:"acting_user_id"`
	TotalRounds    int       `json:"total_rounds"`
	TimePerPickSec int       `json:"time_per_pick_sec"`
}

// TransitionRequest starts, pauses or resumes a draft
type TransitionRequest struct {
	DraftID      uuid.UUID `json:"draft_id"`
	ActingUserID uuid.UUID `json:"acting_user_id"`
}

// MakePickRequest represents a manual pick by a team owner
type MakePickRequest struct {
	DraftID      uuid.UUID `json:"draft_id"`
	TeamID       uuid.UUID `json:"team_id"`
	PlayerID     uuid.UUID `json:"player_id"`
	ActingUserID uuid.UUID `json:"acting_user_id"`
}

// PickResult is the outcome of a committed pick.
type PickResult struct {
	Pick   models.DraftPick `json:"pick"`
	Draft  models.Draft     `json:"draft"`
	Events []events.Event   `json:"events"`
}

// DraftResult is the outcome of a committed lifecycle transition.
type DraftResult struct {
	Draft        models.Draft              `json:"draft"`
	Participants []models.DraftParticipant `json:"participants"`
	Events       []events.Event            `json:"events"`
}

// State is a read model of a draft.
type State struct {
	Draft        models.Draft              `json:"draft"`
	Participants []models.DraftParticipant `json:"participants"`
	Picks        []models.DraftPick        `json:"picks"`
	OnClock      *models.DraftParticipant  `json:"on_clock,omitempty"`
	Round        int                       `json:"round"`
	Deadline     *time.Time                `json:"deadline,omitempty"`
	Complete     bool                      `json:"complete"`
}
