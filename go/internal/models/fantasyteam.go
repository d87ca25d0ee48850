package models

import (
	"github.com/google/uuid"
	"time"
)

// FantasyTeam is the roster a pronosticator owns inside a game.
type FantasyTeam struct {
	ID         uuid.UUID `json:"id"`
	GameID     uuid.UUID `json:"game_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Name       string    `json:"name"`
	Season     int       `json:"season"`
	TradeCount int       `json:"trade_count"`
	JoinedAt   time.Time `json:"joined_at"`
	CreatedAt  time.Time `json:"created_at"`
}
