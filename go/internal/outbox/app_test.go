package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/events"
)

func TestNotifyStoresPayload(t *testing.T) {
	repo := NewMemoryRepository()
	app := NewApp(repo)
	ctx := context.Background()

	gameID, teamA, teamB, player := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	ev := events.New(events.TradeAccepted, gameID, "ACCEPTED", time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)).
		WithTeams(teamA, teamB).
		WithPlayers(player)
	app.Notify(ctx, ev)

	rec, err := repo.FetchByID(ctx, ev.ID)
	if err != nil || rec == nil {
		t.Fatalf("FetchByID = %v, %v", rec, err)
	}
	if rec.EventType != "TRADE_ACCEPTED" || rec.GameID != gameID {
		t.Fatalf("unexpected record %+v", rec)
	}

	var payload struct {
		Type      string   `json:"type"`
		GameID    string   `json:"gameId"`
		TeamIDs   []string `json:"teamIds"`
		PlayerIDs []string `json:"playerIds"`
		Status    string   `json:"status"`
	}
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.Type != "TRADE_ACCEPTED" || payload.GameID != gameID.String() || payload.Status != "ACCEPTED" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if len(payload.TeamIDs) != 2 || len(payload.PlayerIDs) != 1 || payload.PlayerIDs[0] != player.String() {
		t.Fatalf("unexpected ids %+v", payload)
	}
}

func TestNotifyIsIdempotentPerEvent(t *testing.T) {
	repo := NewMemoryRepository()
	app := NewApp(repo)
	ctx := context.Background()

	ev := events.New(events.DraftPicked, uuid.New(), "IN_PROGRESS", time.Now())
	app.Notify(ctx, ev, ev)

	unsent, _ := repo.FetchUnsent(ctx, 10)
	if len(unsent) != 1 {
		t.Fatalf("unsent = %d, want 1", len(unsent))
	}
}

type failingRepo struct {
	MemoryRepository
	inserts int
}

func (f *failingRepo) Insert(context.Context, Record) error {
	f.inserts++
	return errors.New("db down")
}

func TestNotifyKeepsGoingAfterFailure(t *testing.T) {
	repo := &failingRepo{}
	app := NewApp(repo)
	app.Notify(context.Background(),
		events.New(events.TradeProposed, uuid.New(), "PENDING", time.Now()),
		events.New(events.TradeCancelled, uuid.New(), "CANCELLED", time.Now()),
	)
	if repo.inserts != 2 {
		t.Fatalf("inserts = %d, want 2", repo.inserts)
	}
	if err := app.Insert(context.Background(), events.New(events.TradeRejected, uuid.New(), "REJECTED", time.Now())); err == nil {
		t.Fatal("expected insert error")
	}
}
