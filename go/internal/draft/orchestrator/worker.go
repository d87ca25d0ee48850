package orchestrator

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/apperr"
	"github.com/rs/zerolog/log"
)

// worker processes draft timeouts from the work channel
func (o *Orchestrator) worker(ctx context.Context, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	log.Debug().
		Str("instance", o.instanceID).
		Int("worker_id", workerID).
		Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().
				Str("instance", o.instanceID).
				Int("worker_id", workerID).
				Msg("worker shutting down")
			return
		case draftID := <-o.workCh:
			log.Info().
				Str("draft_id", draftID.String()).
				Str("instance", o.instanceID).
				Int("worker_id", workerID).
				Msg("worker handling timeout")

			o.handleTimeout(ctx, draftID)
			o.clearInFlight(draftID)
		}
	}
}

// handleTimeout asks the engine to auto-pick. A committed pick schedules the
// next turn through Notify; everything else is resolved here.
func (o *Orchestrator) handleTimeout(ctx context.Context, draftID uuid.UUID) {
	result, err := o.engine.HandleTimeout(ctx, draftID, o.clock.Now())
	switch {
	case err == nil && result != nil:
		log.Info().
			Str("draft_id", draftID.String()).
			Str("team_id", result.Pick.TeamID.String()).
			Str("player_id", result.Pick.PlayerID.String()).
			Int("pick", result.Pick.PickNumber).
			Msg("auto-pick committed")

	case err == nil:
		// Not due yet, or the draft stopped running. Pick up whatever the
		// draft's clock says now.
		o.forgetSchedule(draftID)
		if err := o.reschedule(ctx, draftID); err != nil {
			log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to reschedule pick timeout")
		}

	case apperr.CodeOf(err) == apperr.CodeLockUnavailable:
		log.Warn().Err(err).Str("draft_id", draftID.String()).Msg("draft busy, retrying timeout")
		o.retryAfter(draftID, retryDelay)

	case apperr.CodeOf(err) == apperr.CodeNoEligiblePlayer:
		// The draft stays IN_PROGRESS until an administrator intervenes.
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("draft stalled: no eligible player for auto-pick")

	default:
		// The turn is still overdue. Forget the deadline so Recover or a
		// later event can re-arm it, and try again ourselves meanwhile.
		log.Error().Err(err).
			Str("draft_id", draftID.String()).
			Dur("retry_in", errorRetryDelay).
			Msg("auto-pick failed, retrying timeout")
		o.forgetSchedule(draftID)
		o.retryAfter(draftID, errorRetryDelay)
	}
}

func (o *Orchestrator) forgetSchedule(draftID uuid.UUID) {
	o.lastScheduledMu.Lock()
	delete(o.lastScheduled, draftID)
	o.lastScheduledMu.Unlock()
}
