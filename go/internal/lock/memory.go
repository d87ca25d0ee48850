package lock

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// MemoryLocker is an in-process Locker backed by one semaphore per key.
type MemoryLocker struct {
	clock clockwork.Clock
	wait  time.Duration

	mu   sync.Mutex
	sems map[string]chan struct{}
}

// NewMemoryLocker creates a MemoryLocker that waits up to wait per key.
func NewMemoryLocker(clock clockwork.Clock, wait time.Duration) *MemoryLocker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryLocker{
		clock: clock,
		wait:  wait,
		sems:  make(map[string]chan struct{}),
	}
}

func (l *MemoryLocker) sem(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sems[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.sems[key] = s
	}
	return s
}

func (l *MemoryLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	ordered := normalize(keys)
	releases := make([]func(), 0, len(ordered))

	for _, key := range ordered {
		s := l.sem(key)
		if err := l.take(ctx, s); err != nil {
			releaseAll(releases)()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, unavailable(key)
		}
		releases = append(releases, func() { <-s })
	}

	var once sync.Once
	release := releaseAll(releases)
	return func() { once.Do(release) }, nil
}

func (l *MemoryLocker) take(ctx context.Context, s chan struct{}) error {
	select {
	case s <- struct{}{}:
		return nil
	default:
	}
	if l.wait <= 0 {
		return errBusy
	}

	timer := l.clock.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case s <- struct{}{}:
		return nil
	case <-timer.Chan():
		return errBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}
