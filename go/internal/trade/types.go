package trade

import (
	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/events"
	"github.com/mcdev12/pronos/go/internal/models"
)

// ProposeRequest offers fromTeam's players for toTeam's players
type ProposeRequest struct {
	FromTeamID         uuid.UUID   `json:"from_team_id"`
	ToTeamID           uuid.UUID   `json:"to_team_id"`
	OfferedPlayerIDs   []uuid.UUID `json:"offered_player_ids"`
	RequestedPlayerIDs []uuid.UUID `json:"requested_player_ids"`
	ActingUserID       uuid.UUID   `json:"acting_user_id"`
}

// ActionRequest accepts, rejects or cancels a trade
type ActionRequest struct {
	TradeID      uuid.UUID `json:"trade_id"`
	ActingUserID uuid.UUID `json:"acting_user_id"`
}

// CounterRequest answers a pending trade with a new proposal. Offered players
// belong to the countering team, the original trade's receiver.
type CounterRequest struct {
	OriginalTradeID    uuid.UUID   `json:"original_trade_id"`
	OfferedPlayerIDs   []uuid.UUID `json:"offered_player_ids"`
	RequestedPlayerIDs []uuid.UUID `json:"requested_player_ids"`
	ActingUserID       uuid.UUID   `json:"acting_user_id"`
}

// Result is the outcome of a committed trade transition.
type Result struct {
	Trade  models.Trade   `json:"trade"`
	Events []events.Event `json:"events"`
}

// CounterResult holds both sides of a counter-offer.
type CounterResult struct {
	Original models.Trade   `json:"original"`
	Trade    models.Trade   `json:"trade"`
	Events   []events.Event `json:"events"`
}

// proposal is a trade under validation.
type proposal struct {
	from      models.FantasyTeam
	to        models.FantasyTeam
	offered   []uuid.UUID
	requested []uuid.UUID
}
