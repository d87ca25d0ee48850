package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const listActiveRosterSlots = `-- name: ListActiveRosterSlots :many
SELECT id, team_id, game_id, player_id, position, acquisition_type, acquired_at, removed_at
FROM roster_slots
WHERE team_id = $1 AND removed_at IS NULL
ORDER BY position, id
`

func (q *Queries) ListActiveRosterSlots(ctx context.Context, teamID uuid.UUID) ([]RosterSlot, error) {
	rows, err := q.db.QueryContext(ctx, listActiveRosterSlots, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RosterSlot
	for rows.Next() {
		var i RosterSlot
		if err := rows.Scan(
			&i.ID,
			&i.TeamID,
			&i.GameID,
			&i.PlayerID,
			&i.Position,
			&i.AcquisitionType,
			&i.AcquiredAt,
			&i.RemovedAt,
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

const getActiveSlotForPlayer = `-- name: GetActiveSlotForPlayer :one
SELECT id, team_id, game_id, player_id, position, acquisition_type, acquired_at, removed_at
FROM roster_slots
WHERE game_id = $1 AND player_id = $2 AND removed_at IS NULL
`

type GetActiveSlotForPlayerParams struct {
	GameID   uuid.UUID `json:"game_id"`
	PlayerID uuid.UUID `json:"player_id"`
}

func (q *Queries) GetActiveSlotForPlayer(ctx context.Context, arg GetActiveSlotForPlayerParams) (RosterSlot, error) {
	row := q.db.QueryRowContext(ctx, getActiveSlotForPlayer, arg.GameID, arg.PlayerID)
	var i RosterSlot
	err := row.Scan(
		&i.ID,
		&i.TeamID,
		&i.GameID,
		&i.PlayerID,
		&i.Position,
		&i.AcquisitionType,
		&i.AcquiredAt,
		&i.RemovedAt,
	)
	return i, err
}

const insertRosterSlot = `-- name: InsertRosterSlot :execrows
INSERT INTO roster_slots (id, team_id, game_id, player_id, position, acquisition_type, acquired_at)
SELECT $1, t.id, t.game_id, $3, $4, $5, $6
FROM fantasy_teams t
WHERE t.id = $2
`

type InsertRosterSlotParams struct {
	ID              uuid.UUID `json:"id"`
	TeamID          uuid.UUID `json:"team_id"`
	PlayerID        uuid.UUID `json:"player_id"`
	Position        int32     `json:"position"`
	AcquisitionType string    `json:"acquisition_type"`
	AcquiredAt      time.Time `json:"acquired_at"`
}

// InsertRosterSlot copies the game id from the team. Zero rows means the team does not exist.
func (q *Queries) InsertRosterSlot(ctx context.Context, arg InsertRosterSlotParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertRosterSlot,
		arg.ID,
		arg.TeamID,
		arg.PlayerID,
		arg.Position,
		arg.AcquisitionType,
		arg.AcquiredAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const endRosterSlot = `-- name: EndRosterSlot :execrows
UPDATE roster_slots
SET removed_at = $2
WHERE id = $1 AND removed_at IS NULL
`

type EndRosterSlotParams struct {
	ID        uuid.UUID `json:"id"`
	RemovedAt time.Time `json:"removed_at"`
}

func (q *Queries) EndRosterSlot(ctx context.Context, arg EndRosterSlotParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, endRosterSlot, arg.ID, arg.RemovedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
