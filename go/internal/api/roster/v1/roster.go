// Package rosterv1 defines the wire messages and handler of
// pronos.roster.v1.RosterService.
package rosterv1

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
)

const RosterServiceName = "pronos.roster.v1.RosterService"

const (
	RosterServiceGetTeamRosterProcedure  = "/pronos.roster.v1.RosterService/GetTeamRoster"
	RosterServiceListFreeAgentsProcedure = "/pronos.roster.v1.RosterService/ListFreeAgents"
)

type Player struct {
	Id       string `json:"id"`
	Nickname string `json:"nickname"`
	Region   string `json:"region"`
	Rank     int32  `json:"rank"`
	Locked   bool   `json:"locked"`
}

type RosterEntry struct {
	SlotId          string    `json:"slotId"`
	Position        int32     `json:"position"`
	AcquisitionType string    `json:"acquisitionType"`
	AcquiredAt      time.Time `json:"acquiredAt"`
	Player          *Player   `json:"player"`
}

// RegionUsage reports a region's quota use. Max is 0 when unconstrained.
type RegionUsage struct {
	Region string `json:"region"`
	Count  int32  `json:"count"`
	Max    int32  `json:"max"`
}

type GetTeamRosterRequest struct {
	TeamId string `json:"teamId" validate:"required,uuid"`
}

type GetTeamRosterResponse struct {
	TeamId     string         `json:"teamId"`
	GameId     string         `json:"gameId"`
	Name       string         `json:"name"`
	TradeCount int32          `json:"tradeCount"`
	Entries    []*RosterEntry `json:"entries"`
	Usage      []*RegionUsage `json:"usage"`
	// WithinQuota is false only if quotas were lowered after players were rostered.
	WithinQuota bool `json:"withinQuota"`
}

type ListFreeAgentsRequest struct {
	GameId string `json:"gameId" validate:"required,uuid"`
}

type ListFreeAgentsResponse struct {
	Players []*Player `json:"players"`
}

// RosterServiceHandler is implemented by the roster service.
type RosterServiceHandler interface {
	GetTeamRoster(context.Context, *connect.Request[GetTeamRosterRequest]) (*connect.Response[GetTeamRosterResponse], error)
	ListFreeAgents(context.Context, *connect.Request[ListFreeAgentsRequest]) (*connect.Response[ListFreeAgentsResponse], error)
}

// NewRosterServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewRosterServiceHandler(svc RosterServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(RosterServiceGetTeamRosterProcedure, connect.NewUnaryHandler(RosterServiceGetTeamRosterProcedure, svc.GetTeamRoster, opts...))
	mux.Handle(RosterServiceListFreeAgentsProcedure, connect.NewUnaryHandler(RosterServiceListFreeAgentsProcedure, svc.ListFreeAgents, opts...))
	return "/" + RosterServiceName + "/", mux
}

// RosterServiceClient calls pronos.roster.v1.RosterService.
type RosterServiceClient struct {
	getTeamRoster  *connect.Client[GetTeamRosterRequest, GetTeamRosterResponse]
	listFreeAgents *connect.Client[ListFreeAgentsRequest, ListFreeAgentsResponse]
}

// NewRosterServiceClient constructs a client for the service at baseURL.
func NewRosterServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *RosterServiceClient {
	return &RosterServiceClient{
		getTeamRoster:  connect.NewClient[GetTeamRosterRequest, GetTeamRosterResponse](httpClient, baseURL+RosterServiceGetTeamRosterProcedure, opts...),
		listFreeAgents: connect.NewClient[ListFreeAgentsRequest, ListFreeAgentsResponse](httpClient, baseURL+RosterServiceListFreeAgentsProcedure, opts...),
	}
}

func (c *RosterServiceClient) GetTeamRoster(ctx context.Context, req *connect.Request[GetTeamRosterRequest]) (*connect.Response[GetTeamRosterResponse], error) {
	return c.getTeamRoster.CallUnary(ctx, req)
}

func (c *RosterServiceClient) ListFreeAgents(ctx context.Context, req *connect.Request[ListFreeAgentsRequest]) (*connect.Response[ListFreeAgentsResponse], error) {
	return c.listFreeAgents.CallUnary(ctx, req)
}
