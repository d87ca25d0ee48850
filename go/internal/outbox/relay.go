package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// NotifyChannel is the LISTEN channel the outbox_events trigger notifies on.
const NotifyChannel = "league_outbox_events"

type RelayConfig struct {
	DatabaseURL      string        // Postgres DSN for LISTEN/NOTIFY
	NotifyChannel    string        // Channel name to LISTEN on
	FallbackInterval time.Duration // How often to poll for missed events
	MaxRetries       int
	RetryDelay       time.Duration
	PingInterval     time.Duration
	BatchSize        int32 // Max events to fetch per batch
}

func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		NotifyChannel:    NotifyChannel,
		FallbackInterval: 30 * time.Second,
		MaxRetries:       5,
		RetryDelay:       200 * time.Millisecond,
		PingInterval:     90 * time.Second,
		BatchSize:        100,
	}
}

// Notifications is the subset of *pq.Listener the relay uses.
type Notifications interface {
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// Listen opens a pq listener on cfg.NotifyChannel.
func Listen(cfg RelayConfig) (*pq.Listener, error) {
	l := pq.NewListener(
		cfg.DatabaseURL,
		10*time.Second,
		time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("listener event")
			}
		},
	)
	if err := l.Listen(cfg.NotifyChannel); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}
	log.Info().Str("channel", cfg.NotifyChannel).Msg("listening for notifications")
	return l, nil
}

// Relay moves outbox records to the publisher. It reacts to notifications and
// sweeps unsent records on a fallback ticker. notes may be nil.
type Relay struct {
	repo      Repository
	notes     Notifications
	publisher Publisher
	clock     clockwork.Clock
	cfg       RelayConfig
}

func NewRelay(repo Repository, notes Notifications, publisher Publisher, clock clockwork.Clock, cfg RelayConfig) *Relay {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Relay{
		repo:      repo,
		notes:     notes,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg,
	}
}

// Run relays until ctx is cancelled. Records left over from a previous run
// are swept first.
func (r *Relay) Run(ctx context.Context) error {
	log.Info().
		Str("channel", r.cfg.NotifyChannel).
		Dur("ping_interval", r.cfg.PingInterval).
		Dur("fallback_interval", r.cfg.FallbackInterval).
		Msg("outbox relay started")

	if err := r.ProcessUnsent(ctx); err != nil {
		log.Error().Err(err).Msg("failed to process unsent events")
	}

	pingTicker := r.clock.NewTicker(r.cfg.PingInterval)
	fallbackTicker := r.clock.NewTicker(r.cfg.FallbackInterval)
	defer pingTicker.Stop()
	defer fallbackTicker.Stop()

	// without a listener only the fallback sweep runs
	var notes <-chan *pq.Notification
	if r.notes != nil {
		notes = r.notes.NotificationChannel()
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("outbox relay shutting down")
			if r.notes == nil {
				return nil
			}
			return r.notes.Close()
		case note := <-notes:
			if note == nil {
				// connection was re-established, notifications may have been missed
				if err := r.ProcessUnsent(ctx); err != nil {
					log.Error().Err(err).Msg("failed to process unsent events")
				}
				continue
			}
			if err := r.handleNotification(ctx, note.Extra); err != nil {
				log.Error().Err(err).Msg("failed to handle notification")
			}
		case <-fallbackTicker.Chan():
			if err := r.ProcessUnsent(ctx); err != nil {
				log.Error().Err(err).Msg("failed to process unsent events")
			}
		case <-pingTicker.Chan():
			if r.notes == nil {
				continue
			}
			if err := r.notes.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping listener")
			}
		}
	}
}

// handleNotification publishes the record named by a notification payload.
func (r *Relay) handleNotification(ctx context.Context, extra string) error {
	id, err := uuid.Parse(extra)
	if err != nil {
		return fmt.Errorf("invalid event ID in notification: %w", err)
	}

	rec, err := r.repo.FetchByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		log.Debug().Str("event_id", id.String()).Msg("outbox event already sent")
		return nil
	}
	return r.deliver(ctx, *rec)
}

// ProcessUnsent publishes one batch of unsent records.
func (r *Relay) ProcessUnsent(ctx context.Context) error {
	unsent, err := r.repo.FetchUnsent(ctx, r.cfg.BatchSize)
	if err != nil {
		return err
	}

	failed := 0
	for _, rec := range unsent {
		if err := r.deliver(ctx, rec); err != nil {
			log.Error().Err(err).Str("event_id", rec.ID.String()).Msg("failed to relay event")
			failed++
		}
	}
	if len(unsent) > 0 {
		log.Info().
			Int("total", len(unsent)).
			Int("failed", failed).
			Msg("processed unsent outbox batch")
	}
	return nil
}

func (r *Relay) deliver(ctx context.Context, rec Record) error {
	if err := r.publishWithRetry(ctx, rec); err != nil {
		return err
	}
	if err := r.repo.MarkSent(ctx, rec.ID); err != nil {
		return err
	}
	log.Info().
		Str("event_id", rec.ID.String()).
		Str("event_type", rec.EventType).
		Msg("published and marked event as sent")
	return nil
}

// publishWithRetry backs off linearly between attempts.
func (r *Relay) publishWithRetry(ctx context.Context, rec Record) error {
	var lastErr error

	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 0 && r.cfg.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-r.clock.After(r.cfg.RetryDelay * time.Duration(attempt)):
			}
		}

		if err := r.publisher.Publish(ctx, rec); err != nil {
			lastErr = err
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("event_id", rec.ID.String()).
				Msg("failed to publish, retrying")
			continue
		}

		if attempt > 0 {
			log.Info().
				Int("attempt", attempt+1).
				Str("event_id", rec.ID.String()).
				Msg("publish succeeded after retry")
		}
		return nil
	}

	return fmt.Errorf("publish failed after %d attempts: %w", r.cfg.MaxRetries+1, lastErr)
}
