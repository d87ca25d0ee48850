package trade

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/pronos/go/internal/apperr"
	"github.com/mcdev12/pronos/go/internal/events"
	"github.com/mcdev12/pronos/go/internal/lock"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/store"
	"github.com/mcdev12/pronos/go/internal/store/memory"
)

var epoch = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t        *testing.T
	db       *memory.Store
	clock    *clockwork.FakeClock
	recorder *events.Recorder
	app      *App

	game    models.Game
	a, b    models.FantasyTeam
	players map[string]models.Player
}

func newFixture(t *testing.T, quotas map[models.Region]int, mutateGame func(*models.Game)) *fixture {
	t.Helper()
	f := &fixture{
		t:        t,
		db:       memory.New(),
		clock:    clockwork.NewFakeClockAt(epoch),
		recorder: &events.Recorder{},
		players:  make(map[string]models.Player),
	}
	f.game = models.Game{
		ID:             uuid.New(),
		Name:           "Summer Split",
		Season:         2026,
		CreatorID:      uuid.New(),
		TradingEnabled: true,
		CreatedAt:      epoch,
	}
	if mutateGame != nil {
		mutateGame(&f.game)
	}
	f.a = models.FantasyTeam{ID: uuid.New(), GameID: f.game.ID, OwnerID: uuid.New(), Name: "A", Season: 2026, JoinedAt: epoch}
	f.b = models.FantasyTeam{ID: uuid.New(), GameID: f.game.ID, OwnerID: uuid.New(), Name: "B", Season: 2026, JoinedAt: epoch.Add(time.Minute)}

	f.tx(func(ctx context.Context, q store.Queries) error {
		if err := q.CreateGame(ctx, f.game); err != nil {
			return err
		}
		for region, max := range quotas {
			if err := q.UpsertRegionQuota(ctx, models.RegionQuota{GameID: f.game.ID, Region: region, MaxPlayers: max}); err != nil {
				return err
			}
		}
		if err := q.CreateTeam(ctx, f.a); err != nil {
			return err
		}
		return q.CreateTeam(ctx, f.b)
	})

	f.app = NewApp(f.db, lock.NewMemoryLocker(f.clock, lock.DefaultWait), f.recorder, f.clock)
	return f
}

func (f *fixture) tx(fn func(ctx context.Context, q store.Queries) error) {
	f.t.Helper()
	ctx := context.Background()
	if err := f.db.InTx(ctx, func(q store.Queries) error { return fn(ctx, q) }); err != nil {
		f.t.Fatalf("fixture: %v", err)
	}
}

// give creates a player on team's active roster.
func (f *fixture) give(team models.FantasyTeam, nick string, region models.Region, locked bool) models.Player {
	f.t.Helper()
	p := models.Player{ID: uuid.New(), Nickname: nick, Region: region, Locked: locked, Season: 2026, CreatedAt: epoch}
	f.tx(func(ctx context.Context, q store.Queries) error {
		if err := q.CreatePlayer(ctx, p); err != nil {
			return err
		}
		slots, err := q.ListActiveSlots(ctx, team.ID)
		if err != nil {
			return err
		}
		return q.AddRosterSlot(ctx, models.RosterSlot{
			ID:              uuid.New(),
			TeamID:          team.ID,
			PlayerID:        p.ID,
			Position:        len(slots) + 1,
			AcquisitionType: models.AcquisitionTypeDraft,
			AcquiredAt:      epoch,
		})
	})
	f.players[nick] = p
	return p
}

func (f *fixture) ids(nicks ...string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(nicks))
	for _, n := range nicks {
		out = append(out, f.players[n].ID)
	}
	return out
}

func (f *fixture) propose(offered, requested []string) (*Result, error) {
	return f.app.Propose(context.Background(), ProposeRequest{
		FromTeamID:         f.a.ID,
		ToTeamID:           f.b.ID,
		OfferedPlayerIDs:   f.ids(offered...),
		RequestedPlayerIDs: f.ids(requested...),
		ActingUserID:       f.a.OwnerID,
	})
}

func (f *fixture) mustPropose(offered, requested []string) models.Trade {
	f.t.Helper()
	res, err := f.propose(offered, requested)
	if err != nil {
		f.t.Fatalf("Propose: %v", err)
	}
	return res.Trade
}

// rosterOf returns the nicknames on a team's active roster.
func (f *fixture) rosterOf(team models.FantasyTeam) map[string]models.RosterSlot {
	f.t.Helper()
	out := make(map[string]models.RosterSlot)
	ctx := context.Background()
	err := f.db.View(ctx, func(q store.Queries) error {
		active, err := store.LoadActiveRoster(ctx, q, team.ID)
		if err != nil {
			return err
		}
		for _, p := range active.Players {
			slot, _ := active.SlotFor(p.ID)
			out[p.Nickname] = slot
		}
		return nil
	})
	if err != nil {
		f.t.Fatal(err)
	}
	return out
}

func (f *fixture) tradeStatus(id uuid.UUID) models.TradeStatus {
	f.t.Helper()
	t, err := f.app.GetTrade(context.Background(), id)
	if err != nil {
		f.t.Fatalf("GetTrade: %v", err)
	}
	return t.Status
}

func (f *fixture) team(id uuid.UUID) models.FantasyTeam {
	f.t.Helper()
	var team models.FantasyTeam
	ctx := context.Background()
	err := f.db.View(ctx, func(q store.Queries) error {
		got, err := q.GetTeam(ctx, id)
		if err != nil {
			return err
		}
		team = *got
		return nil
	})
	if err != nil {
		f.t.Fatal(err)
	}
	return team
}

func assertCode(t *testing.T, err error, kind apperr.Kind, code apperr.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s/%s, got nil", kind, code)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("kind = %s, want %s (%v)", got, kind, err)
	}
	if got := apperr.CodeOf(err); got != code {
		t.Fatalf("code = %s, want %s (%v)", got, code, err)
	}
}

func TestAcceptOverQuotaLeavesTradePending(t *testing.T) {
	f := newFixture(t, map[models.Region]int{models.RegionEU: 2}, nil)
	f.give(f.a, "eu1", models.RegionEU, false)
	f.give(f.a, "eu2", models.RegionEU, false)
	f.give(f.b, "nac1", models.RegionNAC, false)
	f.give(f.b, "eu3", models.RegionEU, false)

	tr := f.mustPropose([]string{"eu1", "eu2"}, []string{"nac1"})
	beforeA, beforeB := f.rosterOf(f.a), f.rosterOf(f.b)

	_, err := f.app.Accept(context.Background(), ActionRequest{TradeID: tr.ID, ActingUserID: f.b.OwnerID})
	assertCode(t, err, apperr.KindValidation, apperr.CodeQuotaExceeded)
	e, _ := apperr.As(err)
	if e.Metadata["team_id"] != f.b.ID.String() || e.Metadata["count"] != "3" || e.Metadata["max"] != "2" {
		t.Fatalf("metadata = %v", e.Metadata)
	}

	if got := f.tradeStatus(tr.ID); got != models.TradeStatusPending {
		t.Fatalf("status = %s, want PENDING", got)
	}
	afterA, afterB := f.rosterOf(f.a), f.rosterOf(f.b)
	if len(afterA) != len(beforeA) || len(afterB) != len(beforeB) {
		t.Fatalf("rosters changed: A %d->%d, B %d->%d", len(beforeA), len(afterA), len(beforeB), len(afterB))
	}
	for nick := range beforeA {
		if _, ok := afterA[nick]; !ok {
			t.Fatalf("%s left A", nick)
		}
	}
	if f.team(f.a.ID).TradeCount != 0 || f.team(f.b.ID).TradeCount != 0 {
		t.Fatal("trade counters changed")
	}
}

func TestAcceptSwapsRosters(t *testing.T) {
	f := newFixture(t, map[models.Region]int{models.RegionEU: 3}, nil)
	f.give(f.a, "eu1", models.RegionEU, false)
	f.give(f.a, "eu2", models.RegionEU, false)
	f.give(f.a, "br1", models.RegionBR, false)
	f.give(f.b, "nac1", models.RegionNAC, false)
	f.give(f.b, "eu3", models.RegionEU, false)

	tr := f.mustPropose([]string{"eu1", "eu2"}, []string{"nac1"})
	res, err := f.app.Accept(context.Background(), ActionRequest{TradeID: tr.ID, ActingUserID: f.b.OwnerID})
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if res.Trade.Status != models.TradeStatusAccepted || res.Trade.AcceptedAt == nil {
		t.Fatalf("unexpected trade: %+v", res.Trade)
	}

	a, b := f.rosterOf(f.a), f.rosterOf(f.b)
	if len(a)+len(b) != 5 {
		t.Fatalf("players not conserved: %d + %d", len(a), len(b))
	}
	for _, nick := range []string{"br1", "nac1"} {
		if _, ok := a[nick]; !ok {
			t.Fatalf("A is missing %s: %v", nick, a)
		}
	}
	for _, nick := range []string{"eu1", "eu2", "eu3"} {
		if _, ok := b[nick]; !ok {
			t.Fatalf("B is missing %s: %v", nick, b)
		}
	}
	if a["nac1"].AcquisitionType != models.AcquisitionTypeTrade || b["eu1"].AcquisitionType != models.AcquisitionTypeTrade {
		t.Fatal("traded slots must be TRADE acquisitions")
	}
	if f.team(f.a.ID).TradeCount != 1 || f.team(f.b.ID).TradeCount != 1 {
		t.Fatal("trade counters not incremented")
	}

	ctx := context.Background()
	err = f.db.View(ctx, func(q store.Queries) error {
		for _, nick := range []string{"eu1", "nac1"} {
			slot, err := q.GetActiveSlotForPlayer(ctx, f.game.ID, f.players[nick].ID)
			if err != nil {
				return err
			}
			if nick == "eu1" && slot.TeamID != f.b.ID || nick == "nac1" && slot.TeamID != f.a.ID {
				t.Fatalf("%s owned by %s", nick, slot.TeamID)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	got := f.recorder.Types()
	if len(got) != 2 || got[0] != events.TradeProposed || got[1] != events.TradeAccepted {
		t.Fatalf("events = %v", got)
	}
	accepted := f.recorder.Events()[1]
	if len(accepted.TeamIDs) != 2 || len(accepted.PlayerIDs) != 3 || accepted.Status != string(models.TradeStatusAccepted) {
		t.Fatalf("unexpected accepted event: %+v", accepted)
	}
}

func TestAcceptTwiceConflicts(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.give(f.a, "x", models.RegionEU, false)
	f.give(f.b, "y", models.RegionNAC, false)
	tr := f.mustPropose([]string{"x"}, []string{"y"})
	req := ActionRequest{TradeID: tr.ID, ActingUserID: f.b.OwnerID}

	if _, err := f.app.Accept(context.Background(), req); err != nil {
		t.Fatalf("first Accept: %v", err)
	}
	before := f.rosterOf(f.a)

	_, err := f.app.Accept(context.Background(), req)
	assertCode(t, err, apperr.KindConflict, apperr.CodeTradeNotPending)

	if after := f.rosterOf(f.a); len(after) != len(before) {
		t.Fatal("second accept changed rosters")
	}
	if f.team(f.a.ID).TradeCount != 1 {
		t.Fatal("second accept incremented trade count")
	}
}

func TestAuthorization(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.give(f.a, "x", models.RegionEU, false)
	f.give(f.b, "y", models.RegionNAC, false)
	tr := f.mustPropose([]string{"x"}, []string{"y"})
	ctx := context.Background()

	_, err := f.app.Accept(ctx, ActionRequest{TradeID: tr.ID, ActingUserID: f.a.OwnerID})
	assertCode(t, err, apperr.KindAuthorization, apperr.CodeNotTeamOwner)

	_, err = f.app.Reject(ctx, ActionRequest{TradeID: tr.ID, ActingUserID: f.a.OwnerID})
	assertCode(t, err, apperr.KindAuthorization, apperr.CodeNotTeamOwner)

	_, err = f.app.Cancel(ctx, ActionRequest{TradeID: tr.ID, ActingUserID: f.b.OwnerID})
	assertCode(t, err, apperr.KindAuthorization, apperr.CodeNotTeamOwner)

	_, err = f.app.Counter(ctx, CounterRequest{OriginalTradeID: tr.ID, ActingUserID: f.a.OwnerID, OfferedPlayerIDs: f.ids("x")})
	assertCode(t, err, apperr.KindAuthorization, apperr.CodeNotTeamOwner)

	_, err = f.app.Propose(ctx, ProposeRequest{
		FromTeamID:       f.a.ID,
		ToTeamID:         f.b.ID,
		OfferedPlayerIDs: f.ids("x"),
		ActingUserID:     f.b.OwnerID,
	})
	assertCode(t, err, apperr.KindAuthorization, apperr.CodeNotTeamOwner)

	_, err = f.app.Accept(ctx, ActionRequest{TradeID: tr.ID})
	assertCode(t, err, apperr.KindAuthorization, apperr.CodeMissingActor)

	if got := f.tradeStatus(tr.ID); got != models.TradeStatusPending {
		t.Fatalf("status = %s, want PENDING", got)
	}
}

func TestProposeValidation(t *testing.T) {
	deadline := epoch.Add(-time.Hour)
	tests := []struct {
		name      string
		game      func(*models.Game)
		setup     func(f *fixture)
		offered   []string
		requested []string
		kind      apperr.Kind
		code      apperr.Code
	}{
		{
			name: "trading disabled",
			game: func(g *models.Game) { g.TradingEnabled = false },
			offered: []string{"a1"}, requested: []string{"b1"},
			kind: apperr.KindConflict, code: apperr.CodeTradingDisabled,
		},
		{
			name: "deadline passed",
			game: func(g *models.Game) { g.TradeDeadline = &deadline },
			offered: []string{"a1"}, requested: []string{"b1"},
			kind: apperr.KindConflict, code: apperr.CodeTradeDeadlinePassed,
		},
		{
			name: "cap reached",
			game: func(g *models.Game) { g.MaxTradesPerTeam = 1 },
			setup: func(f *fixture) {
				f.tx(func(ctx context.Context, q store.Queries) error { return q.IncrementTradeCount(ctx, f.b.ID) })
			},
			offered: []string{"a1"}, requested: []string{"b1"},
			kind: apperr.KindConflict, code: apperr.CodeTradeCapReached,
		},
		{
			name:    "offered player not owned",
			offered: []string{"b1"}, requested: []string{"b2"},
			kind: apperr.KindValidation, code: apperr.CodePlayerNotOnTeam,
		},
		{
			name:    "requested player not owned",
			offered: []string{"a1"}, requested: []string{"a2"},
			kind: apperr.KindValidation, code: apperr.CodePlayerNotOnTeam,
		},
		{
			name:    "locked offered player",
			offered: []string{"locked"}, requested: []string{"b1"},
			kind: apperr.KindValidation, code: apperr.CodePlayerLocked,
		},
		{
			name:    "side too large",
			offered: []string{"a1", "a2", "a3", "a4", "a5", "a6"}, requested: []string{"b1"},
			kind: apperr.KindValidation, code: apperr.CodeTradeSideTooLarge,
		},
		{
			name: "empty",
			kind: apperr.KindValidation, code: apperr.CodeTradeEmpty,
		},
		{
			name:    "duplicate player",
			offered: []string{"a1", "a1"},
			kind:    apperr.KindValidation, code: apperr.CodeTradeDuplicatePlayer,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, tt.game)
			for _, n := range []string{"a1", "a2", "a3", "a4", "a5", "a6"} {
				f.give(f.a, n, models.RegionNAW, false)
			}
			f.give(f.a, "locked", models.RegionNAW, true)
			f.give(f.b, "b1", models.RegionOCE, false)
			f.give(f.b, "b2", models.RegionOCE, false)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.propose(tt.offered, tt.requested)
			assertCode(t, err, tt.kind, tt.code)

			trades, err := f.app.ListTradesForTeam(context.Background(), f.a.ID, "")
			if err != nil {
				t.Fatal(err)
			}
			if len(trades) != 0 {
				t.Fatalf("rejected proposal created %d trades", len(trades))
			}
			if len(f.recorder.Events()) != 0 {
				t.Fatal("rejected proposal emitted events")
			}
		})
	}
}

func TestProposeTeamRules(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.give(f.a, "x", models.RegionEU, false)
	ctx := context.Background()

	_, err := f.app.Propose(ctx, ProposeRequest{
		FromTeamID: f.a.ID, ToTeamID: f.a.ID, OfferedPlayerIDs: f.ids("x"), ActingUserID: f.a.OwnerID,
	})
	assertCode(t, err, apperr.KindValidation, apperr.CodeTradeSameTeam)

	other := models.Game{ID: uuid.New(), Name: "Other", Season: 2026, TradingEnabled: true}
	stranger := models.FantasyTeam{ID: uuid.New(), GameID: other.ID, OwnerID: uuid.New(), Season: 2026}
	f.tx(func(ctx context.Context, q store.Queries) error {
		if err := q.CreateGame(ctx, other); err != nil {
			return err
		}
		return q.CreateTeam(ctx, stranger)
	})
	_, err = f.app.Propose(ctx, ProposeRequest{
		FromTeamID: f.a.ID, ToTeamID: stranger.ID, OfferedPlayerIDs: f.ids("x"), ActingUserID: f.a.OwnerID,
	})
	assertCode(t, err, apperr.KindValidation, apperr.CodeTradeCrossGame)

	_, err = f.app.Propose(ctx, ProposeRequest{
		FromTeamID: f.a.ID, ToTeamID: uuid.New(), OfferedPlayerIDs: f.ids("x"), ActingUserID: f.a.OwnerID,
	})
	assertCode(t, err, apperr.KindNotFound, apperr.CodeTeamNotFound)

	_, err = f.app.Propose(ctx, ProposeRequest{
		FromTeamID: f.a.ID, ToTeamID: f.b.ID, OfferedPlayerIDs: []uuid.UUID{uuid.New()}, ActingUserID: f.a.OwnerID,
	})
	assertCode(t, err, apperr.KindNotFound, apperr.CodePlayerNotFound)
}

func TestAcceptRevalidates(t *testing.T) {
	f := newFixture(t, nil, func(g *models.Game) { g.MaxTradesPerTeam = 1 })
	f.give(f.a, "x", models.RegionEU, false)
	f.give(f.b, "y", models.RegionNAC, false)
	tr := f.mustPropose([]string{"x"}, []string{"y"})

	f.tx(func(ctx context.Context, q store.Queries) error { return q.IncrementTradeCount(ctx, f.a.ID) })
	_, err := f.app.Accept(context.Background(), ActionRequest{TradeID: tr.ID, ActingUserID: f.b.OwnerID})
	assertCode(t, err, apperr.KindConflict, apperr.CodeTradeCapReached)
	if got := f.tradeStatus(tr.ID); got != models.TradeStatusPending {
		t.Fatalf("status = %s, want PENDING", got)
	}
}

func TestAcceptAfterPlayerLeftRoster(t *testing.T) {
	f := newFixture(t, nil, nil)
	x := f.give(f.a, "x", models.RegionEU, false)
	f.give(f.b, "y", models.RegionNAC, false)
	tr := f.mustPropose([]string{"x"}, []string{"y"})

	// x is released between proposal and acceptance.
	f.tx(func(ctx context.Context, q store.Queries) error {
		slot, err := q.GetActiveSlotForPlayer(ctx, f.game.ID, x.ID)
		if err != nil {
			return err
		}
		return q.RemoveRosterSlot(ctx, slot.ID, epoch)
	})

	_, err := f.app.Accept(context.Background(), ActionRequest{TradeID: tr.ID, ActingUserID: f.b.OwnerID})
	assertCode(t, err, apperr.KindValidation, apperr.CodePlayerNotOnTeam)
	if got := f.tradeStatus(tr.ID); got != models.TradeStatusPending {
		t.Fatalf("status = %s, want PENDING", got)
	}
}

func TestRejectAndCancel(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.give(f.a, "x", models.RegionEU, false)
	f.give(f.b, "y", models.RegionNAC, false)
	ctx := context.Background()

	first := f.mustPropose([]string{"x"}, []string{"y"})
	res, err := f.app.Reject(ctx, ActionRequest{TradeID: first.ID, ActingUserID: f.b.OwnerID})
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if res.Trade.Status != models.TradeStatusRejected || res.Trade.RejectedAt == nil {
		t.Fatalf("unexpected trade: %+v", res.Trade)
	}
	_, err = f.app.Cancel(ctx, ActionRequest{TradeID: first.ID, ActingUserID: f.a.OwnerID})
	assertCode(t, err, apperr.KindConflict, apperr.CodeTradeNotPending)

	second := f.mustPropose([]string{"x"}, []string{"y"})
	res, err = f.app.Cancel(ctx, ActionRequest{TradeID: second.ID, ActingUserID: f.a.OwnerID})
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if res.Trade.Status != models.TradeStatusCancelled {
		t.Fatalf("status = %s", res.Trade.Status)
	}

	got := f.recorder.Types()
	want := []events.Type{events.TradeProposed, events.TradeRejected, events.TradeProposed, events.TradeCancelled}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}

	if len(f.rosterOf(f.a)) != 1 || len(f.rosterOf(f.b)) != 1 {
		t.Fatal("reject or cancel touched rosters")
	}
	rejected, err := f.app.ListTradesForTeam(ctx, f.b.ID, models.TradeStatusRejected)
	if err != nil || len(rejected) != 1 || rejected[0].ID != first.ID {
		t.Fatalf("ListTradesForTeam(REJECTED) = %v, %v", rejected, err)
	}
}

func TestCounter(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.give(f.a, "x", models.RegionEU, false)
	f.give(f.b, "y", models.RegionNAC, false)
	f.give(f.b, "z", models.RegionBR, false)
	ctx := context.Background()

	original := f.mustPropose([]string{"x"}, []string{"y"})

	_, err := f.app.Counter(ctx, CounterRequest{
		OriginalTradeID:  original.ID,
		OfferedPlayerIDs: f.ids("x"),
		ActingUserID:     f.b.OwnerID,
	})
	assertCode(t, err, apperr.KindValidation, apperr.CodePlayerNotOnTeam)
	if got := f.tradeStatus(original.ID); got != models.TradeStatusPending {
		t.Fatalf("invalid counter closed the original: %s", got)
	}

	res, err := f.app.Counter(ctx, CounterRequest{
		OriginalTradeID:    original.ID,
		OfferedPlayerIDs:   f.ids("z"),
		RequestedPlayerIDs: f.ids("x"),
		ActingUserID:       f.b.OwnerID,
	})
	if err != nil {
		t.Fatalf("Counter: %v", err)
	}
	if res.Original.Status != models.TradeStatusCountered || res.Original.CounteredAt == nil {
		t.Fatalf("unexpected original: %+v", res.Original)
	}
	counter := res.Trade
	if counter.FromTeamID != f.b.ID || counter.ToTeamID != f.a.ID || counter.Status != models.TradeStatusPending {
		t.Fatalf("unexpected counter: %+v", counter)
	}
	if counter.OriginalTradeID == nil || *counter.OriginalTradeID != original.ID {
		t.Fatal("counter not linked to original")
	}
	if len(res.Events) != 2 || res.Events[0].Type != events.TradeCountered || res.Events[1].Type != events.TradeProposed {
		t.Fatalf("events = %+v", res.Events)
	}

	_, err = f.app.Accept(ctx, ActionRequest{TradeID: original.ID, ActingUserID: f.b.OwnerID})
	assertCode(t, err, apperr.KindConflict, apperr.CodeTradeNotPending)

	if _, err := f.app.Accept(ctx, ActionRequest{TradeID: counter.ID, ActingUserID: f.a.OwnerID}); err != nil {
		t.Fatalf("Accept counter: %v", err)
	}
	if _, ok := f.rosterOf(f.a)["z"]; !ok {
		t.Fatal("countered player did not arrive")
	}
}

func TestAcceptFailsFastWhenTeamLocked(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.give(f.a, "x", models.RegionEU, false)
	f.give(f.b, "y", models.RegionNAC, false)
	tr := f.mustPropose([]string{"x"}, []string{"y"})

	locker := lock.NewMemoryLocker(clockwork.NewRealClock(), 10*time.Millisecond)
	f.app.locker = locker
	release, err := locker.Acquire(context.Background(), lock.TeamKey(f.b.ID))
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	_, err = f.app.Accept(context.Background(), ActionRequest{TradeID: tr.ID, ActingUserID: f.b.OwnerID})
	assertCode(t, err, apperr.KindConflict, apperr.CodeLockUnavailable)
	if !apperr.IsRetryable(err) {
		t.Fatal("lock conflicts must be retryable")
	}
	if got := f.tradeStatus(tr.ID); got != models.TradeStatusPending {
		t.Fatalf("status = %s, want PENDING", got)
	}
}

func TestConcurrentAcceptsKeepSingleOwnership(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.give(f.a, "x", models.RegionEU, false)
	f.give(f.b, "y", models.RegionNAC, false)
	f.give(f.b, "z", models.RegionBR, false)
	f.app.locker = lock.NewMemoryLocker(clockwork.NewRealClock(), time.Second)

	t1 := f.mustPropose([]string{"x"}, []string{"y"})
	t2 := f.mustPropose([]string{"x"}, []string{"z"})

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for _, id := range []uuid.UUID{t1.ID, t2.ID} {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := f.app.Accept(context.Background(), ActionRequest{TradeID: id, ActingUserID: f.b.OwnerID})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	if accepted != 1 {
		t.Fatalf("accepted = %d, want exactly 1", accepted)
	}
	a, b := f.rosterOf(f.a), f.rosterOf(f.b)
	if len(a)+len(b) != 3 {
		t.Fatalf("players not conserved: %d + %d", len(a), len(b))
	}
	if _, ok := b["x"]; !ok {
		t.Fatal("x should have moved to B")
	}
}
