package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const createTrade = `-- name: CreateTrade :exec
INSERT INTO trades (
    id, game_id, from_team_id, to_team_id, offered_player_ids, requested_player_ids,
    status, original_trade_id, proposed_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

type CreateTradeParams struct {
	ID                 uuid.UUID             `json:"id"`
	GameID             uuid.UUID             `json:"game_id"`
	FromTeamID         uuid.UUID             `json:"from_team_id"`
	ToTeamID           uuid.UUID             `json:"to_team_id"`
	OfferedPlayerIds   pqtype.NullRawMessage `json:"offered_player_ids"`
	RequestedPlayerIds pqtype.NullRawMessage `json:"requested_player_ids"`
	Status             string                `json:"status"`
	OriginalTradeID    uuid.NullUUID         `json:"original_trade_id"`
	ProposedAt         time.Time             `json:"proposed_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

func (q *Queries) CreateTrade(ctx context.Context, arg CreateTradeParams) error {
	_, err := q.db.ExecContext(ctx, createTrade,
		arg.ID,
		arg.GameID,
		arg.FromTeamID,
		arg.ToTeamID,
		arg.OfferedPlayerIds,
		arg.RequestedPlayerIds,
		arg.Status,
		arg.OriginalTradeID,
		arg.ProposedAt,
		arg.UpdatedAt,
	)
	return err
}

const tradeColumns = `id, game_id, from_team_id, to_team_id, offered_player_ids, requested_player_ids,
    status, original_trade_id, proposed_at, accepted_at, rejected_at, cancelled_at, countered_at, updated_at`

const getTrade = `-- name: GetTrade :one
SELECT ` + tradeColumns + `
FROM trades
WHERE id = $1
`

func (q *Queries) GetTrade(ctx context.Context, id uuid.UUID) (Trade, error) {
	return scanTrade(q.db.QueryRowContext(ctx, getTrade, id))
}

const listTradesByTeam = `-- name: ListTradesByTeam :many
SELECT ` + tradeColumns + `
FROM trades
WHERE from_team_id = $1 OR to_team_id = $1
ORDER BY proposed_at DESC, id
`

func (q *Queries) ListTradesByTeam(ctx context.Context, teamID uuid.UUID) ([]Trade, error) {
	rows, err := q.db.QueryContext(ctx, listTradesByTeam, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Trade
	for rows.Next() {
		i, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanTrade(row scanner) (Trade, error) {
	var i Trade
	err := row.Scan(
		&i.ID,
		&i.GameID,
		&i.FromTeamID,
		&i.ToTeamID,
		&i.OfferedPlayerIds,
		&i.RequestedPlayerIds,
		&i.Status,
		&i.OriginalTradeID,
		&i.ProposedAt,
		&i.AcceptedAt,
		&i.RejectedAt,
		&i.CancelledAt,
		&i.CounteredAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateTradeStatus = `-- name: UpdateTradeStatus :execrows
UPDATE trades
SET status = $2,
    accepted_at = $3,
    rejected_at = $4,
    cancelled_at = $5,
    countered_at = $6,
    updated_at = $7
WHERE id = $1
`

type UpdateTradeStatusParams struct {
	ID          uuid.UUID    `json:"id"`
	Status      string       `json:"status"`
	AcceptedAt  sql.NullTime `json:"accepted_at"`
	RejectedAt  sql.NullTime `json:"rejected_at"`
	CancelledAt sql.NullTime `json:"cancelled_at"`
	CounteredAt sql.NullTime `json:"countered_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (q *Queries) UpdateTradeStatus(ctx context.Context, arg UpdateTradeStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTradeStatus,
		arg.ID,
		arg.Status,
		arg.AcceptedAt,
		arg.RejectedAt,
		arg.CancelledAt,
		arg.CounteredAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
