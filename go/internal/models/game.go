package models

import (
	"time"

	"github.com/google/uuid"
)

// Game is a fantasy competition that teams join for a season.
type Game struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Season         int        `json:"season"`
	CreatorID      uuid.UUID  `json:"creator_id"`
	TradingEnabled bool       `json:"trading_enabled"`
	TradeDeadline  *time.Time `json:"trade_deadline,omitempty"`
	// MaxTradesPerTeam caps completed trades per team; zero or less disables the cap.
	MaxTradesPerTeam int       `json:"max_trades_per_team"`
	CreatedAt        time.Time `json:"created_at"`
}

// TradeDeadlinePassed reports whether now is past the game's trade deadline.
func (g Game) TradeDeadlinePassed(now time.Time) bool {
	return g.TradeDeadline != nil && now.After(*g.TradeDeadline)
}

// TradeCapReached reports whether a team with count completed trades may not trade again.
func (g Game) TradeCapReached(count int) bool {
	return g.MaxTradesPerTeam > 0 && count >= g.MaxTradesPerTeam
}

// RegionQuota bounds active roster slots of one region on any team of a game.
type RegionQuota struct {
	GameID     uuid.UUID `json:"game_id"`
	Region     Region    `json:"region"`
	MaxPlayers int       `json:"max_players"`
}
