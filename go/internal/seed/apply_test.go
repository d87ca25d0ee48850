package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/store"
	"github.com/mcdev12/pronos/go/internal/store/memory"
)

const fixtureYAML = `
players:
  - id: 6f1c1a52-0d0e-4c1b-9a55-5b0c1f7e0a01
    nickname: bugha
    region: NAC
    rank: 1
    season: 2026
  - id: 6f1c1a52-0d0e-4c1b-9a55-5b0c1f7e0a02
    nickname: mongraal
    region: EU
    rank: 2
    season: 2026
  - id: 6f1c1a52-0d0e-4c1b-9a55-5b0c1f7e0a03
    nickname: peterbot
    region: NAC
    rank: 0
    locked: true
    season: 2026
games:
  - id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0b01
    name: Summer Split
    season: 2026
    creator_id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0bff
    trading_enabled: true
    trade_deadline: 2026-08-01T00:00:00Z
    max_trades_per_team: 3
    quotas:
      EU: 2
      NAC: 1
    teams:
      - id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0c01
        owner_id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0d01
        name: Storm Chasers
        roster: [bugha]
      - id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0c02
        owner_id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0d02
        name: Zone Wars
`

func TestApply(t *testing.T) {
	fx, err := ParseFixture([]byte(fixtureYAML))
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	db := memory.New()
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	sum, err := Apply(ctx, db, fx, now)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if sum != (Summary{Players: 3, Games: 1, Teams: 2, Slots: 1}) {
		t.Fatalf("summary = %+v", sum)
	}

	gameID := uuid.MustParse("0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0b01")
	err = db.View(ctx, func(q store.Queries) error {
		game, err := q.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		if !game.TradingEnabled || game.MaxTradesPerTeam != 3 || game.TradeDeadline == nil {
			t.Fatalf("game = %+v", game)
		}
		teams, err := q.ListTeamsByGame(ctx, gameID)
		if err != nil {
			return err
		}
		if len(teams) != 2 || teams[0].Name != "Storm Chasers" {
			t.Fatalf("teams = %+v", teams)
		}
		quotas, err := q.ListRegionQuotas(ctx, gameID)
		if err != nil {
			return err
		}
		if len(quotas) != 2 {
			t.Fatalf("quotas = %+v", quotas)
		}
		slots, err := q.ListActiveSlots(ctx, teams[0].ID)
		if err != nil {
			return err
		}
		if len(slots) != 1 || slots[0].AcquisitionType != models.AcquisitionTypeFreeAgent {
			t.Fatalf("slots = %+v", slots)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}

	again, err := Apply(ctx, db, fx, now)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if again != (Summary{}) {
		t.Fatalf("second apply wrote %+v", again)
	}
}

func TestParseFixtureRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown region",
			yaml: "players:\n  - {id: 6f1c1a52-0d0e-4c1b-9a55-5b0c1f7e0a01, nickname: x, region: MARS}\n",
			want: "unknown region",
		},
		{
			name: "unknown roster player",
			yaml: "games:\n  - id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0b01\n    creator_id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0bff\n    teams:\n      - {id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0c01, owner_id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0d01, name: A, roster: [ghost]}\n",
			want: "unknown player",
		},
		{
			name: "duplicate nickname",
			yaml: "players:\n  - {id: 6f1c1a52-0d0e-4c1b-9a55-5b0c1f7e0a01, nickname: x, region: EU}\n  - {id: 6f1c1a52-0d0e-4c1b-9a55-5b0c1f7e0a02, nickname: x, region: EU}\n",
			want: "duplicate",
		},
		{
			name: "missing game id",
			yaml: "games:\n  - {name: Nameless}\n",
			want: "needs an id",
		},
		{
			name: "starting roster over quota",
			yaml: "players:\n" +
				"  - {id: 6f1c1a52-0d0e-4c1b-9a55-5b0c1f7e0a01, nickname: a, region: EU}\n" +
				"  - {id: 6f1c1a52-0d0e-4c1b-9a55-5b0c1f7e0a02, nickname: b, region: EU}\n" +
				"  - {id: 6f1c1a52-0d0e-4c1b-9a55-5b0c1f7e0a03, nickname: c, region: EU}\n" +
				"games:\n" +
				"  - id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0b01\n" +
				"    name: Split\n" +
				"    creator_id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0bff\n" +
				"    quotas: {EU: 1}\n" +
				"    teams:\n" +
				"      - {id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0c01, owner_id: 0b6f2f0e-6a4d-4b55-8f39-2f4f1e9d0d01, name: A, roster: [a, b, c]}\n",
			want: "exceeds the EU quota",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestApplyRejectsRosterOverQuota(t *testing.T) {
	fx, err := ParseFixture([]byte(fixtureYAML))
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	peterbot, _ := fx.PlayerByNickname("peterbot")
	fx.Games[0].Teams[0].Roster = append(fx.Games[0].Teams[0].Roster, peterbot.Nickname)

	db := memory.New()
	ctx := context.Background()
	sum, err := Apply(ctx, db, fx, time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC))
	if err == nil || !strings.Contains(err.Error(), "exceeds the NAC quota") {
		t.Fatalf("Apply err = %v, want NAC quota error", err)
	}
	if sum != (Summary{}) {
		t.Fatalf("summary = %+v, want nothing written", sum)
	}
	err = db.View(ctx, func(q store.Queries) error {
		if _, err := q.GetGame(ctx, fx.Games[0].ID); err == nil {
			t.Fatal("game was written despite invalid roster")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestBundledFixture(t *testing.T) {
	fx, err := LoadFixture("../assets/league.yaml")
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if len(fx.Games) == 0 || len(fx.Players) == 0 {
		t.Fatalf("fixture is empty: %d games, %d players", len(fx.Games), len(fx.Players))
	}
	if _, err := Apply(context.Background(), memory.New(), fx, time.Now()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
}
