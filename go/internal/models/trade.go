package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus defines the lifecycle state of a trade.
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "PENDING"
	TradeStatusAccepted  TradeStatus = "ACCEPTED"
	TradeStatusRejected  TradeStatus = "REJECTED"
	TradeStatusCancelled TradeStatus = "CANCELLED"
	TradeStatusCountered TradeStatus = "COUNTERED"
)

// MaxPlayersPerTradeSide bounds both the offered and requested lists.
const MaxPlayersPerTradeSide = 5

// Trade is a proposal to swap players between two teams of the same game.
type Trade struct {
	ID                 uuid.UUID   `json:"id"`
	GameID             uuid.UUID   `json:"game_id"`
	FromTeamID         uuid.UUID   `json:"from_team_id"`
	ToTeamID           uuid.UUID   `json:"to_team_id"`
	OfferedPlayerIDs   []uuid.UUID `json:"offered_player_ids"`
	RequestedPlayerIDs []uuid.UUID `json:"requested_player_ids"`
	Status             TradeStatus `json:"status"`
	OriginalTradeID    *uuid.UUID  `json:"original_trade_id,omitempty"`
	ProposedAt         time.Time   `json:"proposed_at"`
	AcceptedAt         *time.Time  `json:"accepted_at,omitempty"`
	RejectedAt         *time.Time  `json:"rejected_at,omitempty"`
	CancelledAt        *time.Time  `json:"cancelled_at,omitempty"`
	CounteredAt        *time.Time  `json:"countered_at,omitempty"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// PlayerIDs returns the offered players followed by the requested ones.
func (t Trade) PlayerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.OfferedPlayerIDs)+len(t.RequestedPlayerIDs))
	ids = append(ids, t.OfferedPlayerIDs...)
	return append(ids, t.RequestedPlayerIDs...)
}
