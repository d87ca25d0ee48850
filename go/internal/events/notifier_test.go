package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFanoutDeliversInOrder(t *testing.T) {
	first := &Recorder{}
	second := &Recorder{}
	fan := NewFanout(first)
	fan.Add(second)

	gameID := uuid.New()
	fan.Notify(context.Background(),
		New(TradeProposed, gameID, "PENDING", time.Now()),
		New(TradeCountered, gameID, "COUNTERED", time.Now()),
	)

	for _, r := range []*Recorder{first, second} {
		got := r.Types()
		if len(got) != 2 || got[0] != TradeProposed || got[1] != TradeCountered {
			t.Fatalf("types = %v, want [TRADE_PROPOSED TRADE_COUNTERED]", got)
		}
	}
}

func TestEventBuilders(t *testing.T) {
	draftID := uuid.New()
	teamID := uuid.New()
	playerID := uuid.New()

	base := New(DraftPicked, uuid.New(), "IN_PROGRESS", time.Now())
	ev := base.ForDraft(draftID).WithTeams(teamID).WithPlayers(playerID)

	if ev.DraftID == nil || *ev.DraftID != draftID {
		t.Fatalf("DraftID = %v, want %s", ev.DraftID, draftID)
	}
	if len(ev.TeamIDs) != 1 || ev.TeamIDs[0] != teamID {
		t.Fatalf("TeamIDs = %v", ev.TeamIDs)
	}
	if len(base.TeamIDs) != 0 || len(base.PlayerIDs) != 0 {
		t.Fatal("builders must not mutate the receiver's slices")
	}
}
