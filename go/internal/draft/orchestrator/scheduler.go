package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// reschedule reads the draft's current turn deadline and arms its timer.
// A draft without a running clock has its timer cancelled.
func (o *Orchestrator) reschedule(ctx context.Context, draftID uuid.UUID) error {
	deadline, err := o.engine.TurnDeadline(ctx, draftID)
	if err != nil {
		return fmt.Errorf("failed to get turn deadline: %w", err)
	}
	if deadline == nil {
		o.cancelTimer(draftID)
		return nil
	}
	o.scheduleAt(draftID, *deadline)
	return nil
}

// scheduleAt arms a one-shot timer that enqueues the draft once deadline has
// passed. Scheduling the same deadline twice is a no-op.
func (o *Orchestrator) scheduleAt(draftID uuid.UUID, deadline time.Time) {
	o.lastScheduledMu.Lock()
	if last, exists := o.lastScheduled[draftID]; exists && last.Equal(deadline) {
		o.lastScheduledMu.Unlock()
		log.Debug().
			Str("draft_id", draftID.String()).
			Time("deadline", deadline).
			Msg("skipping duplicate schedule")
		return
	}
	o.lastScheduled[draftID] = deadline
	o.lastScheduledMu.Unlock()

	o.arm(draftID, deadline.Sub(o.clock.Now())+timerSlack)

	log.Debug().
		Str("draft_id", draftID.String()).
		Time("deadline", deadline).
		Msg("scheduled pick timeout")
}

// retryAfter re-arms a draft's timer without touching its scheduled deadline.
func (o *Orchestrator) retryAfter(draftID uuid.UUID, d time.Duration) {
	o.arm(draftID, d)
}

func (o *Orchestrator) arm(draftID uuid.UUID, d time.Duration) {
	if d < 0 {
		d = 0
	}
	timer := o.clock.NewTimer(d)
	o.replaceTimer(draftID, timer)

	go func(id uuid.UUID, t clockwork.Timer) {
		select {
		case <-t.Chan():
			if !o.removeTimerIf(id, t) {
				// replaced or cancelled after firing
				return
			}
			o.enqueue(id)
		case <-o.done:
			stopAndDrainTimer(t)
		}
	}(draftID, timer)
}

func (o *Orchestrator) enqueue(draftID uuid.UUID) {
	o.inFlightMu.Lock()
	if o.inFlight[draftID] {
		o.inFlightMu.Unlock()
		// The running call may already have scheduled this timer through
		// Notify, so check again once it is done.
		log.Debug().Str("draft_id", draftID.String()).Msg("draft already in flight, retrying timeout")
		o.retryAfter(draftID, retryDelay)
		return
	}
	o.inFlight[draftID] = true
	o.inFlightMu.Unlock()

	select {
	case o.workCh <- draftID:
		log.Debug().Str("draft_id", draftID.String()).Msg("timer fired - enqueued for processing")
	case <-o.done:
		o.clearInFlight(draftID)
	}
}

func (o *Orchestrator) clearInFlight(draftID uuid.UUID) {
	o.inFlightMu.Lock()
	delete(o.inFlight, draftID)
	o.inFlightMu.Unlock()
}

// replaceTimer swaps in a new timer for a draft, stopping the old one.
func (o *Orchestrator) replaceTimer(draftID uuid.UUID, newTimer clockwork.Timer) {
	o.activeTimersMu.Lock()
	defer o.activeTimersMu.Unlock()

	if existing, exists := o.activeTimers[draftID]; exists {
		stopAndDrainTimer(existing)
		log.Debug().Str("draft_id", draftID.String()).Msg("replaced existing timer")
	}
	o.activeTimers[draftID] = newTimer
}

// stopAndDrainTimer stops a timer and drains its channel if it already fired.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}

// cancelTimer cancels and forgets a draft's timer.
func (o *Orchestrator) cancelTimer(draftID uuid.UUID) {
	o.activeTimersMu.Lock()
	if timer, exists := o.activeTimers[draftID]; exists {
		stopAndDrainTimer(timer)
		delete(o.activeTimers, draftID)
		log.Debug().Str("draft_id", draftID.String()).Msg("cancelled existing timer")
	}
	o.activeTimersMu.Unlock()

	o.lastScheduledMu.Lock()
	delete(o.lastScheduled, draftID)
	o.lastScheduledMu.Unlock()
}

// removeTimerIf forgets a fired timer unless it has since been replaced.
func (o *Orchestrator) removeTimerIf(draftID uuid.UUID, t clockwork.Timer) bool {
	o.activeTimersMu.Lock()
	defer o.activeTimersMu.Unlock()
	if current, ok := o.activeTimers[draftID]; !ok || current != t {
		return false
	}
	delete(o.activeTimers, draftID)
	return true
}
