package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Game struct {
	ID               uuid.UUID    `json:"id"`
	Name             string       `json:"name"`
	Season           int32        `json:"season"`
	CreatorID        uuid.UUID    `json:"creator_id"`
	TradingEnabled   bool         `json:"trading_enabled"`
	TradeDeadline    sql.NullTime `json:"trade_deadline"`
	MaxTradesPerTeam int32        `json:"max_trades_per_team"`
	CreatedAt        time.Time    `json:"created_at"`
}

type RegionQuota struct {
	GameID     uuid.UUID `json:"game_id"`
	Region     string    `json:"region"`
	MaxPlayers int32     `json:"max_players"`
}

type Player struct {
	ID        uuid.UUID `json:"id"`
	Nickname  string    `json:"nickname"`
	Region    string    `json:"region"`
	Rank      int32     `json:"rank"`
	Locked    bool      `json:"locked"`
	Season    int32     `json:"season"`
	CreatedAt time.Time `json:"created_at"`
}

type FantasyTeam struct {
	ID         uuid.UUID `json:"id"`
	GameID     uuid.UUID `json:"game_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Name       string    `json:"name"`
	Season     int32     `json:"season"`
	TradeCount int32     `json:"trade_count"`
	JoinedAt   time.Time `json:"joined_at"`
	CreatedAt  time.Time `json:"created_at"`
}

type RosterSlot struct {
	ID              uuid.UUID    `json:"id"`
	TeamID          uuid.UUID    `json:"team_id"`
	GameID          uuid.UUID    `json:"game_id"`
	PlayerID        uuid.UUID    `json:"player_id"`
	Position        int32        `json:"position"`
	AcquisitionType string       `json:"acquisition_type"`
	AcquiredAt      time.Time    `json:"acquired_at"`
	RemovedAt       sql.NullTime `json:"removed_at"`
}

type Draft struct {
	ID             uuid.UUID    `json:"id"`
	GameID         uuid.UUID    `json:"game_id"`
	Status         string       `json:"status"`
	TotalRounds    int32        `json:"total_rounds"`
	CurrentPick    int32        `json:"current_pick"`
	TimePerPickSec int32        `json:"time_per_pick_sec"`
	TurnStartedAt  sql.NullTime `json:"turn_started_at"`
	PausedAt       sql.NullTime `json:"paused_at"`
	StartedAt      sql.NullTime `json:"started_at"`
	CompletedAt    sql.NullTime `json:"completed_at"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type DraftParticipant struct {
	ID         uuid.UUID `json:"id"`
	DraftID    uuid.UUID `json:"draft_id"`
	TeamID     uuid.UUID `json:"team_id"`
	DraftOrder int32     `json:"draft_order"`
}

type DraftPick struct {
	ID            uuid.UUID `json:"id"`
	DraftID       uuid.UUID `json:"draft_id"`
	Round         int32     `json:"round"`
	PickNumber    int32     `json:"pick_number"`
	ParticipantID uuid.UUID `json:"participant_id"`
	TeamID        uuid.UUID `json:"team_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	AutoPicked    bool      `json:"auto_picked"`
	PickedAt      time.Time `json:"picked_at"`
}

type Trade struct {
	ID                 uuid.UUID             `json:"id"`
	GameID             uuid.UUID             `json:"game_id"`
	FromTeamID         uuid.UUID             `json:"from_team_id"`
	ToTeamID           uuid.UUID             `json:"to_team_id"`
	OfferedPlayerIds   pqtype.NullRawMessage `json:"offered_player_ids"`
	RequestedPlayerIds pqtype.NullRawMessage `json:"requested_player_ids"`
	Status             string                `json:"status"`
	OriginalTradeID    uuid.NullUUID         `json:"original_trade_id"`
	ProposedAt         time.Time             `json:"proposed_at"`
	AcceptedAt         sql.NullTime          `json:"accepted_at"`
	RejectedAt         sql.NullTime          `json:"rejected_at"`
	CancelledAt        sql.NullTime          `json:"cancelled_at"`
	CounteredAt        sql.NullTime          `json:"countered_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

type OutboxEvent struct {
	ID        uuid.UUID       `json:"id"`
	EventType string          `json:"event_type"`
	GameID    uuid.UUID       `json:"game_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    sql.NullTime    `json:"sent_at"`
}
