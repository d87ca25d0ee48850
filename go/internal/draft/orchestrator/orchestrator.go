// Package orchestrator drives pick timeouts. It keeps one timer per running
// draft and hands expired turns to a worker pool that asks the draft engine to
// auto-pick.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/pronos/go/internal/draft"
	"github.com/mcdev12/pronos/go/internal/events"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Engine is what the orchestrator needs from the draft engine.
type Engine interface {
	HandleTimeout(ctx context.Context, draftID uuid.UUID, now time.Time) (*draft.PickResult, error)
	TurnDeadline(ctx context.Context, draftID uuid.UUID) (*time.Time, error)
	ListActiveDrafts(ctx context.Context) ([]models.Draft, error)
}

const (
	// DefaultWorkers is the size of the timeout worker pool.
	DefaultWorkers = 4

	// timers fire this long after the deadline; a turn only times out once
	// its limit is exceeded.
	timerSlack = 50 * time.Millisecond

	// retryDelay is how long to wait before retrying a timeout that lost a
	// race for the draft lock.
	retryDelay = time.Second

	// errorRetryDelay spaces out retries after the engine failed outright,
	// e.g. a dropped store connection.
	errorRetryDelay = 5 * time.Second
)

type Orchestrator struct {
	engine     Engine
	clock      clockwork.Clock
	instanceID string

	// Worker pool configuration
	numWorkers int
	workCh     chan uuid.UUID
	done       chan struct{}
	stopOnce   sync.Once

	// Per-draft one-shot timers
	activeTimers   map[uuid.UUID]clockwork.Timer
	activeTimersMu sync.Mutex

	// Deadline each draft is currently scheduled for
	lastScheduled   map[uuid.UUID]time.Time
	lastScheduledMu sync.Mutex

	// Track in-flight work to prevent duplicate processing
	inFlight   map[uuid.UUID]bool
	inFlightMu sync.Mutex
}

// New creates an orchestrator. numWorkers <= 0 uses DefaultWorkers.
func New(engine Engine, clock clockwork.Clock, numWorkers int) *Orchestrator {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Orchestrator{
		engine:        engine,
		clock:         clock,
		instanceID:    uuid.New().String()[:8],
		numWorkers:    numWorkers,
		workCh:        make(chan uuid.UUID, numWorkers*2),
		done:          make(chan struct{}),
		activeTimers:  make(map[uuid.UUID]clockwork.Timer),
		lastScheduled: make(map[uuid.UUID]time.Time),
		inFlight:      make(map[uuid.UUID]bool),
	}
}

var _ events.Notifier = (*Orchestrator)(nil)

// Notify reacts to committed draft transitions. It never blocks on the engine.
func (o *Orchestrator) Notify(ctx context.Context, evs ...events.Event) {
	for _, ev := range evs {
		if ev.DraftID == nil {
			continue
		}
		draftID := *ev.DraftID

		switch ev.Type {
		case events.DraftStarted, events.DraftResumed, events.DraftPicked:
			if ev.Status != string(models.DraftStatusInProgress) {
				continue
			}
			if err := o.reschedule(ctx, draftID); err != nil {
				log.Error().Err(err).
					Str("draft_id", draftID.String()).
					Str("event_type", string(ev.Type)).
					Msg("failed to schedule pick timeout")
			}
		case events.DraftPaused, events.DraftFinished:
			o.cancelTimer(draftID)
		}
	}
}

// Recover schedules a timer for every draft that is already running, e.g.
// after a restart.
func (o *Orchestrator) Recover(ctx context.Context) error {
	drafts, err := o.engine.ListActiveDrafts(ctx)
	if err != nil {
		return err
	}
	for _, d := range drafts {
		if err := o.reschedule(ctx, d.ID); err != nil {
			log.Error().Err(err).Str("draft_id", d.ID.String()).Msg("failed to recover pick timeout")
		}
	}
	log.Info().Str("instance", o.instanceID).Int("drafts", len(drafts)).Msg("recovered running drafts")
	return nil
}

// Run starts the worker pool and blocks until ctx is done.
func (o *Orchestrator) Run(ctx context.Context) error {
	log.Info().
		Str("instance", o.instanceID).
		Int("workers", o.numWorkers).
		Msg("draft orchestrator started")

	var wg sync.WaitGroup
	for i := 0; i < o.numWorkers; i++ {
		wg.Add(1)
		go o.worker(ctx, &wg, i)
	}

	<-ctx.Done()
	o.stop()
	wg.Wait()

	o.activeTimersMu.Lock()
	for draftID, timer := range o.activeTimers {
		stopAndDrainTimer(timer)
		log.Debug().Str("draft_id", draftID.String()).Msg("cancelled timer on shutdown")
	}
	o.activeTimers = make(map[uuid.UUID]clockwork.Timer)
	o.activeTimersMu.Unlock()

	log.Info().Str("instance", o.instanceID).Msg("all workers shut down")
	return nil
}

func (o *Orchestrator) stop() {
	o.stopOnce.Do(func() { close(o.done) })
}

// Scheduled reports the deadline a draft is currently scheduled for.
func (o *Orchestrator) Scheduled(draftID uuid.UUID) (time.Time, bool) {
	o.lastScheduledMu.Lock()
	defer o.lastScheduledMu.Unlock()
	t, ok := o.lastScheduled[draftID]
	return t, ok
}
