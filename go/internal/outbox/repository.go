package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/sqlutil"
	"github.com/mcdev12/pronos/go/internal/store/postgres/db"
)

// PostgresRepository keeps the outbox in the outbox_events table. Inserts
// fire the league_outbox_events notification through a trigger.
type PostgresRepository struct {
	queries *db.Queries
}

func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{queries: db.New(conn)}
}

var _ Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) Insert(ctx context.Context, rec Record) error {
	err := r.queries.InsertOutboxEvent(ctx, db.InsertOutboxEventParams{
		ID:        rec.ID,
		EventType: rec.EventType,
		GameID:    rec.GameID,
		Payload:   rec.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FetchByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	row, err := r.queries.FetchOutboxByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch outbox event by ID: %w", err)
	}
	rec := rowToRecord(row)
	return &rec, nil
}

func (r *PostgresRepository) FetchUnsent(ctx context.Context, limit int32) ([]Record, error) {
	rows, err := r.queries.FetchUnsentOutbox(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = rowToRecord(row)
	}
	return out, nil
}

func (r *PostgresRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	if err := r.queries.MarkOutboxSent(ctx, id); err != nil {
		return fmt.Errorf("failed to mark outbox event as sent: %w", err)
	}
	return nil
}

func rowToRecord(row db.OutboxEvent) Record {
	return Record{
		ID:        row.ID,
		EventType: row.EventType,
		GameID:    row.GameID,
		Payload:   row.Payload,
		CreatedAt: row.CreatedAt,
		SentAt:    sqlutil.FromSqlTime(row.SentAt),
	}
}
