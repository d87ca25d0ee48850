// Package tradev1 defines the wire messages and handler of
// pronos.trade.v1.TradeService.
package tradev1

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	commonv1 "github.com/mcdev12/pronos/go/internal/api/common/v1"
)

const TradeServiceName = "pronos.trade.v1.TradeService"

const (
	TradeServiceProposeTradeProcedure = "/pronos.trade.v1.TradeService/ProposeTrade"
	TradeServiceAcceptTradeProcedure  = "/pronos.trade.v1.TradeService/AcceptTrade"
	TradeServiceRejectTradeProcedure  = "/pronos.trade.v1.TradeService/RejectTrade"
	TradeServiceCancelTradeProcedure  = "/pronos.trade.v1.TradeService/CancelTrade"
	TradeServiceCounterTradeProcedure = "/pronos.trade.v1.TradeService/CounterTrade"
	TradeServiceGetTradeProcedure     = "/pronos.trade.v1.TradeService/GetTrade"
	TradeServiceListTradesProcedure   = "/pronos.trade.v1.TradeService/ListTrades"
)

type Trade struct {
	Id                 string     `json:"id"`
	GameId             string     `json:"gameId"`
	FromTeamId         string     `json:"fromTeamId"`
	ToTeamId           string     `json:"toTeamId"`
	OfferedPlayerIds   []string   `json:"offeredPlayerIds"`
	RequestedPlayerIds []string   `json:"requestedPlayerIds"`
	Status             string     `json:"status"`
	OriginalTradeId    string     `json:"originalTradeId,omitempty"`
	ProposedAt         time.Time  `json:"proposedAt"`
	AcceptedAt         *time.Time `json:"acceptedAt,omitempty"`
	RejectedAt         *time.Time `json:"rejectedAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CounteredAt        *time.Time `json:"counteredAt,omitempty"`
}

type ProposeTradeRequest struct {
	FromTeamId         string   `json:"fromTeamId" validate:"required,uuid"`
	ToTeamId           string   `json:"toTeamId" validate:"required,uuid"`
	OfferedPlayerIds   []string `json:"offeredPlayerIds" validate:"dive,uuid"`
	RequestedPlayerIds []string `json:"requestedPlayerIds" validate:"dive,uuid"`
}

// TradeActionRequest is accepted by AcceptTrade, RejectTrade and CancelTrade.
type TradeActionRequest struct {
	TradeId string `json:"tradeId" validate:"required,uuid"`
}

type CounterTradeRequest struct {
	OriginalTradeId    string   `json:"originalTradeId" validate:"required,uuid"`
	OfferedPlayerIds   []string `json:"offeredPlayerIds" validate:"dive,uuid"`
	RequestedPlayerIds []string `json:"requestedPlayerIds" validate:"dive,uuid"`
}

// TradeResponse is returned by every call that transitions a single trade.
type TradeResponse struct {
	Trade  *Trade            `json:"trade"`
	Events []*commonv1.Event `json:"events"`
}

type CounterTradeResponse struct {
	Original *Trade            `json:"original"`
	Trade    *Trade            `json:"trade"`
	Events   []*commonv1.Event `json:"events"`
}

type GetTradeRequest struct {
	TradeId string `json:"tradeId" validate:"required,uuid"`
}

type GetTradeResponse struct {
	Trade *Trade `json:"trade"`
}

type ListTradesRequest struct {
	TeamId string `json:"teamId" validate:"required,uuid"`
	// Status filters by trade status; empty lists every trade.
	Status string `json:"status,omitempty" validate:"omitempty,oneof=PENDING ACCEPTED REJECTED CANCELLED COUNTERED"`
}

type ListTradesResponse struct {
	Trades []*Trade `json:"trades"`
}

// TradeServiceHandler is implemented by the trade service.
type TradeServiceHandler interface {
	ProposeTrade(context.Context, *connect.Request[ProposeTradeRequest]) (*connect.Response[TradeResponse], error)
	AcceptTrade(context.Context, *connect.Request[TradeActionRequest]) (*connect.Response[TradeResponse], error)
	RejectTrade(context.Context, *connect.Request[TradeActionRequest]) (*connect.Response[TradeResponse], error)
	CancelTrade(context.Context, *connect.Request[TradeActionRequest]) (*connect.Response[TradeResponse], error)
	CounterTrade(context.Context, *connect.Request[CounterTradeRequest]) (*connect.Response[CounterTradeResponse], error)
	GetTrade(context.Context, *connect.Request[GetTradeRequest]) (*connect.Response[GetTradeResponse], error)
	ListTrades(context.Context, *connect.Request[ListTradesRequest]) (*connect.Response[ListTradesResponse], error)
}

// NewTradeServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewTradeServiceHandler(svc TradeServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(TradeServiceProposeTradeProcedure, connect.NewUnaryHandler(TradeServiceProposeTradeProcedure, svc.ProposeTrade, opts...))
	mux.Handle(TradeServiceAcceptTradeProcedure, connect.NewUnaryHandler(TradeServiceAcceptTradeProcedure, svc.AcceptTrade, opts...))
	mux.Handle(TradeServiceRejectTradeProcedure, connect.NewUnaryHandler(TradeServiceRejectTradeProcedure, svc.RejectTrade, opts...))
	mux.Handle(TradeServiceCancelTradeProcedure, connect.NewUnaryHandler(TradeServiceCancelTradeProcedure, svc.CancelTrade, opts...))
	mux.Handle(TradeServiceCounterTradeProcedure, connect.NewUnaryHandler(TradeServiceCounterTradeProcedure, svc.CounterTrade, opts...))
	mux.Handle(TradeServiceGetTradeProcedure, connect.NewUnaryHandler(TradeServiceGetTradeProcedure, svc.GetTrade, opts...))
	mux.Handle(TradeServiceListTradesProcedure, connect.NewUnaryHandler(TradeServiceListTradesProcedure, svc.ListTrades, opts...))
	return "/" + TradeServiceName + "/", mux
}

// TradeServiceClient calls pronos.trade.v1.TradeService.
type TradeServiceClient struct {
	proposeTrade *connect.Client[ProposeTradeRequest, TradeResponse]
	acceptTrade  *connect.Client[TradeActionRequest, TradeResponse]
	rejectTrade  *connect.Client[TradeActionRequest, TradeResponse]
	cancelTrade  *connect.Client[TradeActionRequest, TradeResponse]
	counterTrade *connect.Client[CounterTradeRequest, CounterTradeResponse]
	getTrade     *connect.Client[GetTradeRequest, GetTradeResponse]
	listTrades   *connect.Client[ListTradesRequest, ListTradesResponse]
}

// NewTradeServiceClient constructs a client for the service at baseURL.
func NewTradeServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TradeServiceClient {
	return &TradeServiceClient{
		proposeTrade: connect.NewClient[ProposeTradeRequest, TradeResponse](httpClient, baseURL+TradeServiceProposeTradeProcedure, opts...),
		acceptTrade:  connect.NewClient[TradeActionRequest, TradeResponse](httpClient, baseURL+TradeServiceAcceptTradeProcedure, opts...),
		rejectTrade:  connect.NewClient[TradeActionRequest, TradeResponse](httpClient, baseURL+TradeServiceRejectTradeProcedure, opts...),
		cancelTrade:  connect.NewClient[TradeActionRequest, TradeResponse](httpClient, baseURL+TradeServiceCancelTradeProcedure, opts...),
		counterTrade: connect.NewClient[CounterTradeRequest, CounterTradeResponse](httpClient, baseURL+TradeServiceCounterTradeProcedure, opts...),
		getTrade:     connect.NewClient[GetTradeRequest, GetTradeResponse](httpClient, baseURL+TradeServiceGetTradeProcedure, opts...),
		listTrades:   connect.NewClient[ListTradesRequest, ListTradesResponse](httpClient, baseURL+TradeServiceListTradesProcedure, opts...),
	}
}

func (c *TradeServiceClient) ProposeTrade(ctx context.Context, req *connect.Request[ProposeTradeRequest]) (*connect.Response[TradeResponse], error) {
	return c.proposeTrade.CallUnary(ctx, req)
}

func (c *TradeServiceClient) AcceptTrade(ctx context.Context, req *connect.Request[TradeActionRequest]) (*connect.Response[TradeResponse], error) {
	return c.acceptTrade.CallUnary(ctx, req)
}

func (c *TradeServiceClient) RejectTrade(ctx context.Context, req *connect.Request[TradeActionRequest]) (*connect.Response[TradeResponse], error) {
	return c.rejectTrade.CallUnary(ctx, req)
}

func (c *TradeServiceClient) CancelTrade(ctx context.Context, req *connect.Request[TradeActionRequest]) (*connect.Response[TradeResponse], error) {
	return c.cancelTrade.CallUnary(ctx, req)
}

func (c *TradeServiceClient) CounterTrade(ctx context.Context, req *connect.Request[CounterTradeRequest]) (*connect.Response[CounterTradeResponse], error) {
	return c.counterTrade.CallUnary(ctx, req)
}

func (c *TradeServiceClient) GetTrade(ctx context.Context, req *connect.Request[GetTradeRequest]) (*connect.Response[GetTradeResponse], error) {
	return c.getTrade.CallUnary(ctx, req)
}

func (c *TradeServiceClient) ListTrades(ctx context.Context, req *connect.Request[ListTradesRequest]) (*connect.Response[ListTradesResponse], error) {
	return c.listTrades.CallUnary(ctx, req)
}
