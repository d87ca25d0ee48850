package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const createDraft = `-- name: CreateDraft :exec
INSERT INTO drafts (
    id, game_id, status, total_rounds, current_pick, time_per_pick_sec,
    turn_started_at, paused_at, started_at, completed_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

type CreateDraftParams struct {
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

func (q *Queries) CreateDraft(ctx context.Context, arg CreateDraftParams) error {
	_, err := q.db.ExecContext(ctx, createDraft,
		arg.ID,
		arg.GameID,
		arg.Status,
		arg.TotalRounds,
		arg.CurrentPick,
		arg.TimePerPickSec,
		arg.TurnStartedAt,
		arg.PausedAt,
		arg.StartedAt,
		arg.CompletedAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const draftColumns = `id, game_id, status, total_rounds, current_pick, time_per_pick_sec,
    turn_started_at, paused_at, started_at, completed_at, created_at, updated_at`

const getDraft = `-- name: GetDraft :one
SELECT ` + draftColumns + `
FROM drafts
WHERE id = $1
`

func (q *Queries) GetDraft(ctx context.Context, id uuid.UUID) (Draft, error) {
	return scanDraft(q.db.QueryRowContext(ctx, getDraft, id))
}

const getDraftByGame = `-- name: GetDraftByGame :one
SELECT ` + draftColumns + `
FROM drafts
WHERE game_id = $1
`

func (q *Queries) GetDraftByGame(ctx context.Context, gameID uuid.UUID) (Draft, error) {
	return scanDraft(q.db.QueryRowContext(ctx, getDraftByGame, gameID))
}

const listDraftsByStatus = `-- name: ListDraftsByStatus :many
SELECT ` + draftColumns + `
FROM drafts
WHERE status = $1
ORDER BY created_at, id
`

func (q *Queries) ListDraftsByStatus(ctx context.Context, status string) ([]Draft, error) {
	rows, err := q.db.QueryContext(ctx, listDraftsByStatus, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Draft
	for rows.Next() {
		i, err := scanDraft(rows)
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

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDraft(row scanner) (Draft, error) {
	var i Draft
	err := row.Scan(
		&i.ID,
		&i.GameID,
		&i.Status,
		&i.TotalRounds,
		&i.CurrentPick,
		&i.TimePerPickSec,
		&i.TurnStartedAt,
		&i.PausedAt,
		&i.StartedAt,
		&i.CompletedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateDraft = `-- name: UpdateDraft :execrows
UPDATE drafts
SET status = $2,
    current_pick = $3,
    turn_started_at = $4,
    paused_at = $5,
    started_at = $6,
    completed_at = $7,
    updated_at = $8
WHERE id = $1
`

type UpdateDraftParams struct {
	ID            uuid.UUID    `json:"id"`
	Status        string       `json:"status"`
	CurrentPick   int32        `json:"current_pick"`
	TurnStartedAt sql.NullTime `json:"turn_started_at"`
	PausedAt      sql.NullTime `json:"paused_at"`
	StartedAt     sql.NullTime `json:"started_at"`
	CompletedAt   sql.NullTime `json:"completed_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (q *Queries) UpdateDraft(ctx context.Context, arg UpdateDraftParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateDraft,
		arg.ID,
		arg.Status,
		arg.CurrentPick,
		arg.TurnStartedAt,
		arg.PausedAt,
		arg.StartedAt,
		arg.CompletedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createDraftParticipant = `-- name: CreateDraftParticipant :exec
INSERT INTO draft_participants (id, draft_id, team_id, draft_order)
VALUES ($1, $2, $3, $4)
`

type CreateDraftParticipantParams struct {
	ID         uuid.UUID `json:"id"`
	DraftID    uuid.UUID `json:"draft_id"`
	TeamID     uuid.UUID `json:"team_id"`
	DraftOrder int32     `json:"draft_order"`
}

func (q *Queries) CreateDraftParticipant(ctx context.Context, arg CreateDraftParticipantParams) error {
	_, err := q.db.ExecContext(ctx, createDraftParticipant, arg.ID, arg.DraftID, arg.TeamID, arg.DraftOrder)
	return err
}

const listDraftParticipants = `-- name: ListDraftParticipants :many
SELECT id, draft_id, team_id, draft_order
FROM draft_participants
WHERE draft_id = $1
ORDER BY draft_order
`

func (q *Queries) ListDraftParticipants(ctx context.Context, draftID uuid.UUID) ([]DraftParticipant, error) {
	rows, err := q.db.QueryContext(ctx, listDraftParticipants, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DraftParticipant
	for rows.Next() {
		var i DraftParticipant
		if err := rows.Scan(&i.ID, &i.DraftID, &i.TeamID, &i.DraftOrder); err != nil {
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

const listDraftPicks = `-- name: ListDraftPicks :many
SELECT id, draft_id, round, pick_number, participant_id, team_id, player_id, auto_picked, picked_at
FROM draft_picks
WHERE draft_id = $1
ORDER BY pick_number
`

func (q *Queries) ListDraftPicks(ctx context.Context, draftID uuid.UUID) ([]DraftPick, error) {
	rows, err := q.db.QueryContext(ctx, listDraftPicks, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DraftPick
	for rows.Next() {
		var i DraftPick
		if err := rows.Scan(
			&i.ID,
			&i.DraftID,
			&i.Round,
			&i.PickNumber,
			&i.ParticipantID,
			&i.TeamID,
			&i.PlayerID,
			&i.AutoPicked,
			&i.PickedAt,
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

const isPlayerDrafted = `-- name: IsPlayerDrafted :one
SELECT EXISTS (
    SELECT 1 FROM draft_picks WHERE draft_id = $1 AND player_id = $2
)
`

type IsPlayerDraftedParams struct {
	DraftID  uuid.UUID `json:"draft_id"`
	PlayerID uuid.UUID `json:"player_id"`
}

func (q *Queries) IsPlayerDrafted(ctx context.Context, arg IsPlayerDraftedParams) (bool, error) {
	row := q.db.QueryRowContext(ctx, isPlayerDrafted, arg.DraftID, arg.PlayerID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const insertDraftPick = `-- name: InsertDraftPick :exec
INSERT INTO draft_picks (id, draft_id, round, pick_number, participant_id, team_id, player_id, auto_picked, picked_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type InsertDraftPickParams struct {
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

func (q *Queries) InsertDraftPick(ctx context.Context, arg InsertDraftPickParams) error {
	_, err := q.db.ExecContext(ctx, insertDraftPick,
		arg.ID,
		arg.DraftID,
		arg.Round,
		arg.PickNumber,
		arg.ParticipantID,
		arg.TeamID,
		arg.PlayerID,
		arg.AutoPicked,
		arg.PickedAt,
	)
	return err
}
