package events

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies a committed domain transition.
type Type string

const (
	DraftStarted  Type = "DRAFT_STARTED"
	DraftPaused   Type = "DRAFT_PAUSED"
	DraftResumed  Type = "DRAFT_RESUMED"
	DraftPicked   Type = "DRAFT_PICKED"
	DraftFinished Type = "DRAFT_FINISHED"

	TradeProposed  Type = "TRADE_PROPOSED"
	TradeAccepted  Type = "TRADE_ACCEPTED"
	TradeRejected  Type = "TRADE_REJECTED"
	TradeCancelled Type = "TRADE_CANCELLED"
	TradeCountered Type = "TRADE_COUNTERED"
)

// Event is the payload handed to the notification collaborator after a commit.
type Event struct {
	ID         uuid.UUID   `json:"id"`
	Type       Type        `json:"type"`
	GameID     uuid.UUID   `json:"gameId"`
	DraftID    *uuid.UUID  `json:"draftId,omitempty"`
	TradeID    *uuid.UUID  `json:"tradeId,omitempty"`
	TeamIDs    []uuid.UUID `json:"teamIds"`
	PlayerIDs  []uuid.UUID `json:"playerIds"`
	Status     string      `json:"status"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// New builds an event with a fresh id.
func New(typ Type, gameID uuid.UUID, status string, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       typ,
		GameID:     gameID,
		TeamIDs:    []uuid.UUID{},
		PlayerIDs:  []uuid.UUID{},
		Status:     status,
		OccurredAt: at,
	}
}

// ForDraft sets the draft reference.
func (e Event) ForDraft(id uuid.UUID) Event {
	e.DraftID = &id
	return e
}

// ForTrade sets the trade reference.
func (e Event) ForTrade(id uuid.UUID) Event {
	e.TradeID = &id
	return e
}

// WithTeams appends team ids.
func (e Event) WithTeams(ids ...uuid.UUID) Event {
	e.TeamIDs = append(append([]uuid.UUID{}, e.TeamIDs...), ids...)
	return e
}

// WithPlayers appends player ids.
func (e Event) WithPlayers(ids ...uuid.UUID) Event {
	e.PlayerIDs = append(append([]uuid.UUID{}, e.PlayerIDs...), ids...)
	return e
}
