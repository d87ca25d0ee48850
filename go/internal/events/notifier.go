package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Notifier receives events after the transition producing them has committed.
// Implementations must not block for long; failures are theirs to log.
type Notifier interface {
	Notify(ctx context.Context, evs ...Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, evs ...Event)

func (f NotifierFunc) Notify(ctx context.Context, evs ...Event) {
	f(ctx, evs...)
}

// Nop discards events.
var Nop Notifier = NotifierFunc(func(context.Context, ...Event) {})

// Fanout delivers every event to each registered notifier in registration order.
type Fanout struct {
	mu        sync.RWMutex
	notifiers []Notifier
}

// NewFanout creates a Fanout over the given notifiers.
func NewFanout(notifiers ...Notifier) *Fanout {
	return &Fanout{notifiers: notifiers}
}

// Add registers another notifier. Safe to call while events flow.
func (f *Fanout) Add(n Notifier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifiers = append(f.notifiers, n)
}

func (f *Fanout) Notify(ctx context.Context, evs ...Event) {
	f.mu.RLock()
	notifiers := append([]Notifier(nil), f.notifiers...)
	f.mu.RUnlock()

	for _, n := range notifiers {
		n.Notify(ctx, evs...)
	}
}

// LogNotifier writes every event to the global logger.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, evs ...Event) {
	for _, ev := range evs {
		entry := log.Info().
			Str("event_id", ev.ID.String()).
			Str("event_type", string(ev.Type)).
			Str("game_id", ev.GameID.String()).
			Str("status", ev.Status).
			Int("teams", len(ev.TeamIDs)).
			Int("players", len(ev.PlayerIDs))
		if ev.DraftID != nil {
			entry = entry.Str("draft_id", ev.DraftID.String())
		}
		if ev.TradeID != nil {
			entry = entry.Str("trade_id", ev.TradeID.String())
		}
		entry.Msg("domain event")
	}
}

// Recorder keeps every event it receives. Used by tests and diagnostics.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(_ context.Context, evs ...Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evs...)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}
