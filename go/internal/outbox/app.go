package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcdev12/pronos/go/internal/events"
	"github.com/rs/zerolog/log"
)

// App writes committed domain events to the outbox. It is registered as an
// events.Notifier; the relay picks the rows up from there.
type App struct {
	repo Repository
}

// NewApp creates a new outbox App
func NewApp(repo Repository) *App {
	return &App{repo: repo}
}

var _ events.Notifier = (*App)(nil)

// Notify stores each event. Failures are logged, the transition that produced
// the event has already committed.
func (a *App) Notify(ctx context.Context, evs ...events.Event) {
	for _, ev := range evs {
		if err := a.Insert(ctx, ev); err != nil {
			log.Error().
				Err(err).
				Str("event_id", ev.ID.String()).
				Str("event_type", string(ev.Type)).
				Msg("failed to write outbox event")
		}
	}
}

// Insert stores a single event.
func (a *App) Insert(ctx context.Context, ev events.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", ev.Type, err)
	}

	err = a.repo.Insert(ctx, Record{
		ID:        ev.ID,
		EventType: string(ev.Type),
		GameID:    ev.GameID,
		Payload:   payload,
		CreatedAt: ev.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert %s event: %w", ev.Type, err)
	}

	log.Debug().
		Str("event_id", ev.ID.String()).
		Str("event_type", string(ev.Type)).
		Str("game_id", ev.GameID.String()).
		Msg("outbox event inserted")
	return nil
}
