package turn

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/models"
)

func TestSlotSnakeOrder(t *testing.T) {
	tests := []struct {
		pick  int
		n     int
		round int
		slot  int
	}{
		{pick: 1, n: 4, round: 1, slot: 1},
		{pick: 4, n: 4, round: 1, slot: 4},
		{pick: 5, n: 4, round: 2, slot: 4},
		{pick: 8, n: 4, round: 2, slot: 1},
		{pick: 9, n: 4, round: 3, slot: 1},
		{pick: 3, n: 3, round: 1, slot: 3},
		{pick: 4, n: 3, round: 2, slot: 3},
		{pick: 2, n: 1, round: 2, slot: 1},
	}
	for _, tt := range tests {
		if got := Round(tt.pick, tt.n); got != tt.round {
			t.Fatalf("Round(%d, %d) = %d, want %d", tt.pick, tt.n, got, tt.round)
		}
		if got := Slot(tt.pick, tt.n); got != tt.slot {
			t.Fatalf("Slot(%d, %d) = %d, want %d", tt.pick, tt.n, got, tt.slot)
		}
	}
}

func TestSlotLastPickerPicksFirstNextRound(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for r := 1; r < 6; r++ {
			last := Slot(r*n, n)
			first := Slot(r*n+1, n)
			if last != first {
				t.Fatalf("n=%d round=%d: last slot %d, next first slot %d", n, r, last, first)
			}
		}
	}
}

func TestSlotEveryParticipantOncePerRound(t *testing.T) {
	const n = 5
	for r := 1; r <= 4; r++ {
		seen := make(map[int]bool)
		for i := 1; i <= n; i++ {
			seen[Slot((r-1)*n+i, n)] = true
		}
		if len(seen) != n {
			t.Fatalf("round %d covered %d slots, want %d", r, len(seen), n)
		}
	}
}

func TestSlotInvalidInput(t *testing.T) {
	if got := Slot(0, 4); got != 0 {
		t.Fatalf("Slot(0, 4) = %d, want 0", got)
	}
	if got := Slot(3, 0); got != 0 {
		t.Fatalf("Slot(3, 0) = %d, want 0", got)
	}
}

func TestParticipantFor(t *testing.T) {
	participants := []models.DraftParticipant{
		{ID: uuid.New(), DraftOrder: 3},
		{ID: uuid.New(), DraftOrder: 1},
		{ID: uuid.New(), DraftOrder: 2},
	}
	got, ok := ParticipantFor(participants, 4)
	if !ok {
		t.Fatal("expected participant for pick 4")
	}
	if got.DraftOrder != 3 {
		t.Fatalf("pick 4 draft order = %d, want 3", got.DraftOrder)
	}
	if _, ok := ParticipantFor(nil, 1); ok {
		t.Fatal("expected no participant without participants")
	}

	SortByOrder(participants)
	for i, p := range participants {
		if p.DraftOrder != i+1 {
			t.Fatalf("participants[%d].DraftOrder = %d, want %d", i, p.DraftOrder, i+1)
		}
	}
}
