package trade

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	tradev1 "github.com/mcdev12/pronos/go/internal/api/trade/v1"
	"github.com/mcdev12/pronos/go/internal/apperr"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/rpc"
)

func newTradeClient(t *testing.T, f *fixture) *tradev1.TradeServiceClient {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(tradev1.NewTradeServiceHandler(NewService(f.app), rpc.HandlerOptions()...))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return tradev1.NewTradeServiceClient(srv.Client(), srv.URL, connect.WithCodec(rpc.Codec{}))
}

func withActor[T any](msg *T, actor uuid.UUID) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(rpc.ActorHeader, actor.String())
	return req
}

func TestServiceTradeFlow(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.give(f.a, "x", models.RegionEU, false)
	f.give(f.b, "y", models.RegionNAC, false)
	f.give(f.b, "z", models.RegionBR, false)
	client := newTradeClient(t, f)
	ctx := context.Background()

	proposed, err := client.ProposeTrade(ctx, withActor(&tradev1.ProposeTradeRequest{
		FromTeamId:         f.a.ID.String(),
		ToTeamId:           f.b.ID.String(),
		OfferedPlayerIds:   rpc.IDStrings(f.ids("x")),
		RequestedPlayerIds: rpc.IDStrings(f.ids("y")),
	}, f.a.OwnerID))
	if err != nil {
		t.Fatalf("ProposeTrade: %v", err)
	}
	if proposed.Msg.Trade.Status != string(models.TradeStatusPending) || len(proposed.Msg.Events) != 1 {
		t.Fatalf("unexpected proposal: %+v", proposed.Msg)
	}
	ev := proposed.Msg.Events[0]
	if ev.Type != "TRADE_PROPOSED" || ev.GameId != f.game.ID.String() || len(ev.TeamIds) != 2 || len(ev.PlayerIds) != 2 {
		t.Fatalf("unexpected event: %+v", ev)
	}

	countered, err := client.CounterTrade(ctx, withActor(&tradev1.CounterTradeRequest{
		OriginalTradeId:    proposed.Msg.Trade.Id,
		OfferedPlayerIds:   rpc.IDStrings(f.ids("z")),
		RequestedPlayerIds: rpc.IDStrings(f.ids("x")),
	}, f.b.OwnerID))
	if err != nil {
		t.Fatalf("CounterTrade: %v", err)
	}
	if countered.Msg.Original.Status != string(models.TradeStatusCountered) || countered.Msg.Trade.OriginalTradeId != proposed.Msg.Trade.Id {
		t.Fatalf("unexpected counter: %+v", countered.Msg)
	}

	accepted, err := client.AcceptTrade(ctx, withActor(&tradev1.TradeActionRequest{TradeId: countered.Msg.Trade.Id}, f.a.OwnerID))
	if err != nil {
		t.Fatalf("AcceptTrade: %v", err)
	}
	if accepted.Msg.Trade.Status != string(models.TradeStatusAccepted) || accepted.Msg.Trade.AcceptedAt == nil {
		t.Fatalf("unexpected accept: %+v", accepted.Msg.Trade)
	}

	got, err := client.GetTrade(ctx, connect.NewRequest(&tradev1.GetTradeRequest{TradeId: proposed.Msg.Trade.Id}))
	if err != nil {
		t.Fatalf("GetTrade: %v", err)
	}
	if got.Msg.Trade.Status != string(models.TradeStatusCountered) {
		t.Fatalf("original status = %s", got.Msg.Trade.Status)
	}

	listed, err := client.ListTrades(ctx, connect.NewRequest(&tradev1.ListTradesRequest{
		TeamId: f.a.ID.String(),
		Status: string(models.TradeStatusAccepted),
	}))
	if err != nil {
		t.Fatalf("ListTrades: %v", err)
	}
	if len(listed.Msg.Trades) != 1 || listed.Msg.Trades[0].Id != countered.Msg.Trade.Id {
		t.Fatalf("unexpected list: %+v", listed.Msg.Trades)
	}
}

func TestServiceErrors(t *testing.T) {
	f := newFixture(t, map[models.Region]int{models.RegionEU: 1}, nil)
	f.give(f.a, "eu1", models.RegionEU, false)
	f.give(f.b, "eu2", models.RegionEU, false)
	f.give(f.b, "nac1", models.RegionNAC, false)
	pending := f.mustPropose([]string{"eu1"}, []string{"nac1"})
	client := newTradeClient(t, f)
	ctx := context.Background()

	tests := []struct {
		name      string
		call      func() error
		code      connect.Code
		errorCode apperr.Code
	}{
		{
			name: "missing actor",
			call: func() error {
				_, err := client.AcceptTrade(ctx, connect.NewRequest(&tradev1.TradeActionRequest{TradeId: pending.ID.String()}))
				return err
			},
			code:      connect.CodeUnauthenticated,
			errorCode: apperr.CodeMissingActor,
		},
		{
			name: "invalid player id",
			call: func() error {
				_, err := client.ProposeTrade(ctx, withActor(&tradev1.ProposeTradeRequest{
					FromTeamId:       f.a.ID.String(),
					ToTeamId:         f.b.ID.String(),
					OfferedPlayerIds: []string{"nope"},
				}, f.a.OwnerID))
				return err
			},
			code:      connect.CodeInvalidArgument,
			errorCode: apperr.CodeInvalidInput,
		},
		{
			name: "quota exceeded",
			call: func() error {
				_, err := client.AcceptTrade(ctx, withActor(&tradev1.TradeActionRequest{TradeId: pending.ID.String()}, f.b.OwnerID))
				return err
			},
			code:      connect.CodeInvalidArgument,
			errorCode: apperr.CodeQuotaExceeded,
		},
		{
			name: "wrong owner",
			call: func() error {
				_, err := client.RejectTrade(ctx, withActor(&tradev1.TradeActionRequest{TradeId: pending.ID.String()}, f.a.OwnerID))
				return err
			},
			code:      connect.CodePermissionDenied,
			errorCode: apperr.CodeNotTeamOwner,
		},
		{
			name: "unknown trade",
			call: func() error {
				_, err := client.GetTrade(ctx, connect.NewRequest(&tradev1.GetTradeRequest{TradeId: uuid.NewString()}))
				return err
			},
			code:      connect.CodeNotFound,
			errorCode: apperr.CodeTradeNotFound,
		},
		{
			name: "bad status filter",
			call: func() error {
				_, err := client.ListTrades(ctx, connect.NewRequest(&tradev1.ListTradesRequest{TeamId: f.a.ID.String(), Status: "DONE"}))
				return err
			},
			code:      connect.CodeInvalidArgument,
			errorCode: apperr.CodeInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if code := connect.CodeOf(err); code != tt.code {
				t.Fatalf("code = %v, want %v (%v)", code, tt.code, err)
			}
			var ce *connect.Error
			if !errors.As(err, &ce) {
				t.Fatalf("expected connect error, got %v", err)
			}
			if got := ce.Meta().Get(rpc.ErrorCodeHeader); got != string(tt.errorCode) {
				t.Fatalf("%s = %q, want %s", rpc.ErrorCodeHeader, got, tt.errorCode)
			}
		})
	}

	if status := f.tradeStatus(pending.ID); status != models.TradeStatusPending {
		t.Fatalf("status = %s, want PENDING", status)
	}
}
