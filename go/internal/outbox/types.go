package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is one row of the outbox. Its ID is the id of the domain event it
// carries, so publishing the same record twice is deduplicated downstream.
type Record struct {
	ID        uuid.UUID       `json:"id"`
	EventType string          `json:"event_type"`
	GameID    uuid.UUID       `json:"game_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}

// Repository stores outbox records.
type Repository interface {
	Insert(ctx context.Context, rec Record) error
	// FetchByID returns nil when the record is unknown or already sent.
	FetchByID(ctx context.Context, id uuid.UUID) (*Record, error)
	FetchUnsent(ctx context.Context, limit int32) ([]Record, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
}

// Publisher hands a record to the message broker.
type Publisher interface {
	Publish(ctx context.Context, rec Record) error
}
