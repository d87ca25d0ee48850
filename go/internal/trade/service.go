package trade

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	tradev1 "github.com/mcdev12/pronos/go/internal/api/trade/v1"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/rpc"
)

// TradeApp defines what the service layer needs from the trade application
type TradeApp interface {
	Propose(ctx context.Context, req ProposeRequest) (*Result, error)
	Accept(ctx context.Context, req ActionRequest) (*Result, error)
	Reject(ctx context.Context, req ActionRequest) (*Result, error)
	Cancel(ctx context.Context, req ActionRequest) (*Result, error)
	Counter(ctx context.Context, req CounterRequest) (*CounterResult, error)
	GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	ListTradesForTeam(ctx context.Context, teamID uuid.UUID, status models.TradeStatus) ([]models.Trade, error)
}

// Service implements the TradeService Connect interface
type Service struct {
	app TradeApp
}

// NewService creates a new trade service
func NewService(app TradeApp) *Service {
	return &Service{app: app}
}

var _ tradev1.TradeServiceHandler = (*Service)(nil)

// ProposeTrade offers players from the caller's team to another team
func (s *Service) ProposeTrade(ctx context.Context, req *connect.Request[tradev1.ProposeTradeRequest]) (*connect.Response[tradev1.TradeResponse], error) {
	actor, err := rpc.ActorFrom(req.Header())
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	if err := rpc.Validate(req.Msg); err != nil {
		return nil, rpc.ToConnectError(err)
	}
	appReq, err := protoToProposeRequest(req.Msg)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	appReq.ActingUserID = actor

	result, err := s.app.Propose(ctx, appReq)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return resultToResponse(result), nil
}

// AcceptTrade executes a pending trade
func (s *Service) AcceptTrade(ctx context.Context, req *connect.Request[tradev1.TradeActionRequest]) (*connect.Response[tradev1.TradeResponse], error) {
	return s.action(ctx, req, s.app.Accept)
}

// RejectTrade declines a pending trade
func (s *Service) RejectTrade(ctx context.Context, req *connect.Request[tradev1.TradeActionRequest]) (*connect.Response[tradev1.TradeResponse], error) {
	return s.action(ctx, req, s.app.Reject)
}

// CancelTrade withdraws a pending trade
func (s *Service) CancelTrade(ctx context.Context, req *connect.Request[tradev1.TradeActionRequest]) (*connect.Response[tradev1.TradeResponse], error) {
	return s.action(ctx, req, s.app.Cancel)
}

func (s *Service) action(
	ctx context.Context,
	req *connect.Request[tradev1.TradeActionRequest],
	fn func(context.Context, ActionRequest) (*Result, error),
) (*connect.Response[tradev1.TradeResponse], error) {
	actor, err := rpc.ActorFrom(req.Header())
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	if err := rpc.Validate(req.Msg); err != nil {
		return nil, rpc.ToConnectError(err)
	}
	tradeID, err := rpc.ParseID("trade_id", req.Msg.TradeId)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}

	result, err := fn(ctx, ActionRequest{TradeID: tradeID, ActingUserID: actor})
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return resultToResponse(result), nil
}

// CounterTrade closes a pending trade and proposes a new one in reply
func (s *Service) CounterTrade(ctx context.Context, req *connect.Request[tradev1.CounterTradeRequest]) (*connect.Response[tradev1.CounterTradeResponse], error) {
	actor, err := rpc.ActorFrom(req.Header())
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	if err := rpc.Validate(req.Msg); err != nil {
		return nil, rpc.ToConnectError(err)
	}
	originalID, err := rpc.ParseID("original_trade_id", req.Msg.OriginalTradeId)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	offered, err := rpc.ParseIDs("offered_player_ids", req.Msg.OfferedPlayerIds)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	requested, err := rpc.ParseIDs("requested_player_ids", req.Msg.RequestedPlayerIds)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}

	result, err := s.app.Counter(ctx, CounterRequest{
		OriginalTradeID:    originalID,
		OfferedPlayerIDs:   offered,
		RequestedPlayerIDs: requested,
		ActingUserID:       actor,
	})
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&tradev1.CounterTradeResponse{
		Original: tradeToProto(result.Original),
		Trade:    tradeToProto(result.Trade),
		Events:   rpc.EventsToProto(result.Events),
	}), nil
}

// GetTrade returns a trade by id
func (s *Service) GetTrade(ctx context.Context, req *connect.Request[tradev1.GetTradeRequest]) (*connect.Response[tradev1.GetTradeResponse], error) {
	if err := rpc.Validate(req.Msg); err != nil {
		return nil, rpc.ToConnectError(err)
	}
	tradeID, err := rpc.ParseID("trade_id", req.Msg.TradeId)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}

	t, err := s.app.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&tradev1.GetTradeResponse{Trade: tradeToProto(*t)}), nil
}

// ListTrades returns a team's trades, newest first
func (s *Service) ListTrades(ctx context.Context, req *connect.Request[tradev1.ListTradesRequest]) (*connect.Response[tradev1.ListTradesResponse], error) {
	if err := rpc.Validate(req.Msg); err != nil {
		return nil, rpc.ToConnectError(err)
	}
	teamID, err := rpc.ParseID("team_id", req.Msg.TeamId)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}

	trades, err := s.app.ListTradesForTeam(ctx, teamID, models.TradeStatus(req.Msg.Status))
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	res := &tradev1.ListTradesResponse{Trades: make([]*tradev1.Trade, 0, len(trades))}
	for _, t := range trades {
		res.Trades = append(res.Trades, tradeToProto(t))
	}
	return connect.NewResponse(res), nil
}

func protoToProposeRequest(msg *tradev1.ProposeTradeRequest) (ProposeRequest, error) {
	fromID, err := rpc.ParseID("from_team_id", msg.FromTeamId)
	if err != nil {
		return ProposeRequest{}, err
	}
	toID, err := rpc.ParseID("to_team_id", msg.ToTeamId)
	if err != nil {
		return ProposeRequest{}, err
	}
	offered, err := rpc.ParseIDs("offered_player_ids", msg.OfferedPlayerIds)
	if err != nil {
		return ProposeRequest{}, err
	}
	requested, err := rpc.ParseIDs("requested_player_ids", msg.RequestedPlayerIds)
	if err != nil {
		return ProposeRequest{}, err
	}
	return ProposeRequest{
		FromTeamID:         fromID,
		ToTeamID:           toID,
		OfferedPlayerIDs:   offered,
		RequestedPlayerIDs: requested,
	}, nil
}

func resultToResponse(result *Result) *connect.Response[tradev1.TradeResponse] {
	return connect.NewResponse(&tradev1.TradeResponse{
		Trade:  tradeToProto(result.Trade),
		Events: rpc.EventsToProto(result.Events),
	})
}

func tradeToProto(t models.Trade) *tradev1.Trade {
	msg := &tradev1.Trade{
		Id:                 t.ID.String(),
		GameId:             t.GameID.String(),
		FromTeamId:         t.FromTeamID.String(),
		ToTeamId:           t.ToTeamID.String(),
		OfferedPlayerIds:   rpc.IDStrings(t.OfferedPlayerIDs),
		RequestedPlayerIds: rpc.IDStrings(t.RequestedPlayerIDs),
		Status:             string(t.Status),
		ProposedAt:         t.ProposedAt,
		AcceptedAt:         copyTime(t.AcceptedAt),
		RejectedAt:         copyTime(t.RejectedAt),
		CancelledAt:        copyTime(t.CancelledAt),
		CounteredAt:        copyTime(t.CounteredAt),
	}
	if t.OriginalTradeID != nil {
		msg.OriginalTradeId = t.OriginalTradeID.String()
	}
	return msg
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
