package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const createGame = `-- name: CreateGame :exec
INSERT INTO games (id, name, season, creator_id, trading_enabled, trade_deadline, max_trades_per_team, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateGameParams struct {
	ID               uuid.UUID    `json:"id"`
	Name             string       `json:"name"`
	Season           int32        `json:"season"`
	CreatorID        uuid.UUID    `json:"creator_id"`
	TradingEnabled   bool         `json:"trading_enabled"`
	TradeDeadline    sql.NullTime `json:"trade_deadline"`
	MaxTradesPerTeam int32        `json:"max_trades_per_team"`
	CreatedAt        time.Time    `json:"created_at"`
}

func (q *Queries) CreateGame(ctx context.Context, arg CreateGameParams) error {
	_, err := q.db.ExecContext(ctx, createGame,
		arg.ID,
		arg.Name,
		arg.Season,
		arg.CreatorID,
		arg.TradingEnabled,
		arg.TradeDeadline,
		arg.MaxTradesPerTeam,
		arg.CreatedAt,
	)
	return err
}

const getGame = `-- name: GetGame :one
SELECT id, name, season, creator_id, trading_enabled, trade_deadline, max_trades_per_team, created_at
FROM games
WHERE id = $1
`

func (q *Queries) GetGame(ctx context.Context, id uuid.UUID) (Game, error) {
	row := q.db.QueryRowContext(ctx, getGame, id)
	var i Game
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Season,
		&i.CreatorID,
		&i.TradingEnabled,
		&i.TradeDeadline,
		&i.MaxTradesPerTeam,
		&i.CreatedAt,
	)
	return i, err
}

const createFantasyTeam = `-- name: CreateFantasyTeam :exec
INSERT INTO fantasy_teams (id, game_id, owner_id, name, season, trade_count, joined_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateFantasyTeamParams struct {
	ID         uuid.UUID `json:"id"`
	GameID     uuid.UUID `json:"game_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Name       string    `json:"name"`
	Season     int32     `json:"season"`
	TradeCount int32     `json:"trade_count"`
	JoinedAt   time.Time `json:"joined_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (q *Queries) CreateFantasyTeam(ctx context.Context, arg CreateFantasyTeamParams) error {
	_, err := q.db.ExecContext(ctx, createFantasyTeam,
		arg.ID,
		arg.GameID,
		arg.OwnerID,
		arg.Name,
		arg.Season,
		arg.TradeCount,
		arg.JoinedAt,
		arg.CreatedAt,
	)
	return err
}

const getFantasyTeam = `-- name: GetFantasyTeam :one
SELECT id, game_id, owner_id, name, season, trade_count, joined_at, created_at
FROM fantasy_teams
WHERE id = $1
`

func (q *Queries) GetFantasyTeam(ctx context.Context, id uuid.UUID) (FantasyTeam, error) {
	row := q.db.QueryRowContext(ctx, getFantasyTeam, id)
	var i FantasyTeam
	err := row.Scan(
		&i.ID,
		&i.GameID,
		&i.OwnerID,
		&i.Name,
		&i.Season,
		&i.TradeCount,
		&i.JoinedAt,
		&i.CreatedAt,
	)
	return i, err
}

const listFantasyTeamsByGame = `-- name: ListFantasyTeamsByGame :many
SELECT id, game_id, owner_id, name, season, trade_count, joined_at, created_at
FROM fantasy_teams
WHERE game_id = $1
ORDER BY joined_at, id
`

func (q *Queries) ListFantasyTeamsByGame(ctx context.Context, gameID uuid.UUID) ([]FantasyTeam, error) {
	rows, err := q.db.QueryContext(ctx, listFantasyTeamsByGame, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FantasyTeam
	for rows.Next() {
		var i FantasyTeam
		if err := rows.Scan(
			&i.ID,
			&i.GameID,
			&i.OwnerID,
			&i.Name,
			&i.Season,
			&i.TradeCount,
			&i.JoinedAt,
			&i.CreatedAt,
		); err != nil {
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

const incrementTradeCount = `-- name: IncrementTradeCount :execrows
UPDATE fantasy_teams
SET trade_count = trade_count + 1
WHERE id = $1
`

func (q *Queries) IncrementTradeCount(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, incrementTradeCount, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createPlayer = `-- name: CreatePlayer :exec
INSERT INTO players (id, nickname, region, rank, locked, season, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreatePlayerParams struct {
	ID        uuid.UUID `json:"id"`
	Nickname  string    `json:"nickname"`
	Region    string    `json:"region"`
	Rank      int32     `json:"rank"`
	Locked    bool      `json:"locked"`
	Season    int32     `json:"season"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) error {
	_, err := q.db.ExecContext(ctx, createPlayer,
		arg.ID,
		arg.Nickname,
		arg.Region,
		arg.Rank,
		arg.Locked,
		arg.Season,
		arg.CreatedAt,
	)
	return err
}

const getPlayer = `-- name: GetPlayer :one
SELECT id, nickname, region, rank, locked, season, created_at
FROM players
WHERE id = $1
`

func (q *Queries) GetPlayer(ctx context.Context, id uuid.UUID) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayer, id)
	var i Player
	err := row.Scan(
		&i.ID,
		&i.Nickname,
		&i.Region,
		&i.Rank,
		&i.Locked,
		&i.Season,
		&i.CreatedAt,
	)
	return i, err
}

const getPlayersByIDs = `-- name: GetPlayersByIDs :many
SELECT id, nickname, region, rank, locked, season, created_at
FROM players
WHERE id = ANY($1::uuid[])
`

func (q *Queries) GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) ([]Player, error) {
	strs := make([]string, 0, len(ids))
	for _, id := range ids {
		strs = append(strs, id.String())
	}
	rows, err := q.db.QueryContext(ctx, getPlayersByIDs, pq.Array(strs))
	if err != nil {
		return nil, err
	}
	return scanPlayers(rows)
}

const listPlayersBySeason = `-- name: ListPlayersBySeason :many
SELECT id, nickname, region, rank, locked, season, created_at
FROM players
WHERE season = $1
ORDER BY id
`

func (q *Queries) ListPlayersBySeason(ctx context.Context, season int32) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayersBySeason, season)
	if err != nil {
		return nil, err
	}
	return scanPlayers(rows)
}

func scanPlayers(rows *sql.Rows) ([]Player, error) {
	defer rows.Close()
	var items []Player
	for rows.Next() {
		var i Player
		if err := rows.Scan(
			&i.ID,
			&i.Nickname,
			&i.Region,
			&i.Rank,
			&i.Locked,
			&i.Season,
			&i.CreatedAt,
		); err != nil {
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

const listRegionQuotas = `-- name: ListRegionQuotas :many
SELECT game_id, region, max_players
FROM region_quotas
WHERE game_id = $1
ORDER BY region
`

func (q *Queries) ListRegionQuotas(ctx context.Context, gameID uuid.UUID) ([]RegionQuota, error) {
	rows, err := q.db.QueryContext(ctx, listRegionQuotas, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RegionQuota
	for rows.Next() {
		var i RegionQuota
		if err := rows.Scan(&i.GameID, &i.Region, &i.MaxPlayers); err != nil {
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

const upsertRegionQuota = `-- name: UpsertRegionQuota :exec
INSERT INTO region_quotas (game_id, region, max_players)
VALUES ($1, $2, $3)
ON CONFLICT (game_id, region) DO UPDATE SET max_players = EXCLUDED.max_players
`

type UpsertRegionQuotaParams struct {
	GameID     uuid.UUID `json:"game_id"`
	Region     string    `json:"region"`
	MaxPlayers int32     `json:"max_players"`
}

func (q *Queries) UpsertRegionQuota(ctx context.Context, arg UpsertRegionQuotaParams) error {
	_, err := q.db.ExecContext(ctx, upsertRegionQuota, arg.GameID, arg.Region, arg.MaxPlayers)
	return err
}
