// Package lock serializes mutations that touch the same draft, trade or team.
package lock

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/apperr"
)

// Locker acquires a set of named locks as one unit.
//
// Keys are always taken in sorted order so two callers with overlapping key
// sets cannot deadlock. When any key cannot be taken within the locker's wait
// budget every key already held is released and a retryable Conflict is
// returned.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

var errBusy = errors.New("lock busy")

// DefaultWait bounds how long Acquire waits for a busy key.
const DefaultWait = 2 * time.Second

func DraftKey(id uuid.UUID) string { return "draft:" + id.String() }
func TradeKey(id uuid.UUID) string { return "trade:" + id.String() }
func TeamKey(id uuid.UUID) string  { return "team:" + id.String() }

// normalize dedupes and sorts keys into the global acquisition order.
func normalize(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func unavailable(key string) error {
	return apperr.Conflict(apperr.CodeLockUnavailable, "resource busy, retry").With("lock", key)
}

func releaseAll(releases []func()) func() {
	return func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
}
