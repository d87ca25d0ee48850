package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/pronos/go/internal/apperr"
	"github.com/mcdev12/pronos/go/internal/draft"
	"github.com/mcdev12/pronos/go/internal/events"
	"github.com/mcdev12/pronos/go/internal/models"
)

type fakeEngine struct {
	mu        sync.Mutex
	deadlines map[uuid.UUID]time.Time
	active    []models.Draft
	errs      []error
	calls     chan uuid.UUID
	// release, when set, holds HandleTimeout open until it is closed.
	release chan struct{}
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		deadlines: make(map[uuid.UUID]time.Time),
		calls:     make(chan uuid.UUID, 16),
	}
}

func (f *fakeEngine) setDeadline(id uuid.UUID, t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deadlines[id] = t
}

func (f *fakeEngine) HandleTimeout(_ context.Context, draftID uuid.UUID, _ time.Time) (*draft.PickResult, error) {
	f.mu.Lock()
	var err error
	if len(f.errs) > 0 {
		err, f.errs = f.errs[0], f.errs[1:]
	}
	release := f.release
	f.mu.Unlock()

	f.calls <- draftID
	if release != nil {
		<-release
	}
	if err != nil {
		return nil, err
	}
	return &draft.PickResult{Pick: models.DraftPick{DraftID: draftID, PickNumber: 1}}, nil
}

func (f *fakeEngine) TurnDeadline(_ context.Context, draftID uuid.UUID) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.deadlines[draftID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeEngine) ListActiveDrafts(context.Context) ([]models.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Draft(nil), f.active...), nil
}

func draftEvent(typ events.Type, id uuid.UUID, status models.DraftStatus) events.Event {
	return events.New(typ, uuid.New(), string(status), time.Now()).ForDraft(id)
}

func startOrchestrator(t *testing.T, engine Engine, clock clockwork.Clock) *Orchestrator {
	t.Helper()
	o := New(engine, clock, 2)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = o.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return o
}

func waitCall(t *testing.T, calls <-chan uuid.UUID) uuid.UUID {
	t.Helper()
	select {
	case id := <-calls:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timeout was never handled")
		return uuid.Nil
	}
}

func expectNoCall(t *testing.T, calls <-chan uuid.UUID) {
	t.Helper()
	select {
	case id := <-calls:
		t.Fatalf("unexpected timeout handled for %s", id)
	case <-time.After(100 * time.Millisecond):
	}
}

func blockUntil(t *testing.T, clock *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clock.BlockUntilContext(ctx, n); err != nil {
		t.Fatalf("timer never armed: %v", err)
	}
}

func TestStartedDraftTimesOut(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := newFakeEngine()
	o := startOrchestrator(t, engine, clock)

	id := uuid.New()
	deadline := clock.Now().Add(30 * time.Second)
	engine.setDeadline(id, deadline)
	o.Notify(context.Background(), draftEvent(events.DraftStarted, id, models.DraftStatusInProgress))

	got, ok := o.Scheduled(id)
	if !ok || !got.Equal(deadline) {
		t.Fatalf("Scheduled = %v, %v, want %v", got, ok, deadline)
	}

	blockUntil(t, clock, 1)
	clock.Advance(29 * time.Second)
	expectNoCall(t, engine.calls)

	clock.Advance(2 * time.Second)
	if got := waitCall(t, engine.calls); got != id {
		t.Fatalf("handled %s, want %s", got, id)
	}
}

func TestPauseCancelsTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := newFakeEngine()
	o := startOrchestrator(t, engine, clock)
	ctx := context.Background()

	id := uuid.New()
	engine.setDeadline(id, clock.Now().Add(10*time.Second))
	o.Notify(ctx, draftEvent(events.DraftStarted, id, models.DraftStatusInProgress))
	o.Notify(ctx, draftEvent(events.DraftPaused, id, models.DraftStatusPaused))

	if _, ok := o.Scheduled(id); ok {
		t.Fatal("paused draft still scheduled")
	}
	clock.Advance(time.Minute)
	expectNoCall(t, engine.calls)
}

func TestFinishedPickDoesNotSchedule(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := newFakeEngine()
	o := startOrchestrator(t, engine, clock)

	id := uuid.New()
	engine.setDeadline(id, clock.Now().Add(10*time.Second))
	o.Notify(context.Background(),
		draftEvent(events.DraftPicked, id, models.DraftStatusFinished),
		draftEvent(events.DraftFinished, id, models.DraftStatusFinished),
	)
	if _, ok := o.Scheduled(id); ok {
		t.Fatal("finished draft scheduled")
	}
}

func TestRecoverSchedulesRunningDrafts(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := newFakeEngine()
	a, b := uuid.New(), uuid.New()
	engine.active = []models.Draft{{ID: a}, {ID: b}}
	engine.setDeadline(a, clock.Now().Add(5*time.Second))
	engine.setDeadline(b, clock.Now().Add(50*time.Second))
	o := startOrchestrator(t, engine, clock)

	if err := o.Recover(context.Background()); err != nil {
		t.Fatalf("Recover: %v", err)
	}
	blockUntil(t, clock, 2)
	clock.Advance(6 * time.Second)
	if got := waitCall(t, engine.calls); got != a {
		t.Fatalf("handled %s, want %s", got, a)
	}
	expectNoCall(t, engine.calls)
}

func TestBusyDraftIsRetried(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := newFakeEngine()
	engine.errs = []error{apperr.Conflict(apperr.CodeLockUnavailable, "busy")}
	o := startOrchestrator(t, engine, clock)

	id := uuid.New()
	engine.setDeadline(id, clock.Now().Add(time.Second))
	o.Notify(context.Background(), draftEvent(events.DraftStarted, id, models.DraftStatusInProgress))

	blockUntil(t, clock, 1)
	clock.Advance(2 * time.Second)
	waitCall(t, engine.calls)

	blockUntil(t, clock, 1)
	clock.Advance(retryDelay)
	if got := waitCall(t, engine.calls); got != id {
		t.Fatalf("retry handled %s, want %s", got, id)
	}
}

func TestStalledDraftIsNotRetried(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := newFakeEngine()
	engine.errs = []error{apperr.Conflict(apperr.CodeNoEligiblePlayer, "none left")}
	o := startOrchestrator(t, engine, clock)

	id := uuid.New()
	engine.setDeadline(id, clock.Now().Add(time.Second))
	o.Notify(context.Background(), draftEvent(events.DraftStarted, id, models.DraftStatusInProgress))

	blockUntil(t, clock, 1)
	clock.Advance(2 * time.Second)
	waitCall(t, engine.calls)

	clock.Advance(time.Minute)
	expectNoCall(t, engine.calls)
}

func TestFailedTimeoutIsRetried(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := newFakeEngine()
	engine.errs = []error{errors.New("connection reset")}
	o := startOrchestrator(t, engine, clock)

	id := uuid.New()
	engine.setDeadline(id, clock.Now().Add(time.Second))
	o.Notify(context.Background(), draftEvent(events.DraftStarted, id, models.DraftStatusInProgress))

	blockUntil(t, clock, 1)
	clock.Advance(2 * time.Second)
	waitCall(t, engine.calls)

	blockUntil(t, clock, 1)
	if _, ok := o.Scheduled(id); ok {
		t.Fatal("failed deadline still recorded, Recover could not re-arm it")
	}
	clock.Advance(errorRetryDelay - time.Millisecond)
	expectNoCall(t, engine.calls)

	clock.Advance(time.Millisecond)
	if got := waitCall(t, engine.calls); got != id {
		t.Fatalf("retry handled %s, want %s", got, id)
	}
}

func TestTimerFiringWhileInFlightIsRetried(t *testing.T) {
	clock := clockwork.NewFakeClock()
	engine := newFakeEngine()
	release := make(chan struct{})
	engine.release = release
	o := startOrchestrator(t, engine, clock)
	ctx := context.Background()

	id := uuid.New()
	engine.setDeadline(id, clock.Now().Add(time.Second))
	o.Notify(ctx, draftEvent(events.DraftStarted, id, models.DraftStatusInProgress))

	blockUntil(t, clock, 1)
	clock.Advance(2 * time.Second)
	waitCall(t, engine.calls)

	// The next turn is scheduled and expires before the first call returns.
	engine.setDeadline(id, clock.Now().Add(time.Second))
	o.Notify(ctx, draftEvent(events.DraftPicked, id, models.DraftStatusInProgress))
	blockUntil(t, clock, 1)
	clock.Advance(2 * time.Second)

	// The skipped timer leaves a retry armed behind it.
	blockUntil(t, clock, 1)
	engine.mu.Lock()
	engine.release = nil
	engine.mu.Unlock()
	close(release)

	for i := 0; i < 5; i++ {
		blockUntil(t, clock, 1)
		clock.Advance(retryDelay)
		select {
		case got := <-engine.calls:
			if got != id {
				t.Fatalf("retry handled %s, want %s", got, id)
			}
			return
		case <-time.After(100 * time.Millisecond):
		}
	}
	t.Fatal("timer that fired while in flight was never handled")
}
