// Package draftv1 defines the wire messages and handler of
// pronos.draft.v1.DraftService.
package draftv1

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	commonv1 "github.com/mcdev12/pronos/go/internal/api/common/v1"
)

const DraftServiceName = "pronos.draft.v1.DraftService"

const (
	DraftServiceCreateDraftProcedure   = "/pronos.draft.v1.DraftService/CreateDraft"
	DraftServiceStartDraftProcedure    = "/pronos.draft.v1.DraftService/StartDraft"
	DraftServicePauseDraftProcedure    = "/pronos.draft.v1.DraftService/PauseDraft"
	DraftServiceResumeDraftProcedure   = "/pronos.draft.v1.DraftService/ResumeDraft"
	DraftServiceMakePickProcedure      = "/pronos.draft.v1.DraftService/MakePick"
	DraftServiceGetDraftStateProcedure = "/pronos.draft.v1.DraftService/GetDraftState"
)

type Draft struct {
	Id             string     `json:"id"`
	GameId         string     `json:"gameId"`
	Status         string     `json:"status"`
	TotalRounds    int32      `json:"totalRounds"`
	CurrentPick    int32      `json:"currentPick"`
	TimePerPickSec int32      `json:"timePerPickSec"`
	TurnStartedAt  *time.Time `json:"turnStartedAt,omitempty"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

type Participant struct {
	Id         string `json:"id"`
	TeamId     string `json:"teamId"`
	DraftOrder int32  `json:"draftOrder"`
}

type Pick struct {
	Id         string    `json:"id"`
	Round      int32     `json:"round"`
	PickNumber int32     `json:"pickNumber"`
	TeamId     string    `json:"teamId"`
	PlayerId   string    `json:"playerId"`
	AutoPicked bool      `json:"autoPicked"`
	PickedAt   time.Time `json:"pickedAt"`
}

type CreateDraftRequest struct {
	GameId         string `json:"gameId" validate:"required,uuid"`
	TotalRounds    int32  `json:"totalRounds" validate:"gte=0,lte=50"`
	TimePerPickSec int32  `json:"timePerPickSec" validate:"gte=0,lte=86400"`
}

type CreateDraftResponse struct {
	Draft        *Draft         `json:"draft"`
	Participants []*Participant `json:"participants"`
}

type StartDraftRequest struct {
	DraftId string `json:"draftId" validate:"required,uuid"`
}

type PauseDraftRequest struct {
	DraftId string `json:"draftId" validate:"required,uuid"`
}

type ResumeDraftRequest struct {
	DraftId string `json:"draftId" validate:"required,uuid"`
}

// TransitionDraftResponse is returned by StartDraft, PauseDraft and ResumeDraft.
type TransitionDraftResponse struct {
	Draft  *Draft            `json:"draft"`
	Events []*commonv1.Event `json:"events"`
}

type MakePickRequest struct {
	DraftId  string `json:"draftId" validate:"required,uuid"`
	TeamId   string `json:"teamId" validate:"required,uuid"`
	PlayerId string `json:"playerId" validate:"required,uuid"`
}

type MakePickResponse struct {
	Pick   *Pick             `json:"pick"`
	Draft  *Draft            `json:"draft"`
	Events []*commonv1.Event `json:"events"`
}

type GetDraftStateRequest struct {
	DraftId string `json:"draftId" validate:"required,uuid"`
}

type GetDraftStateResponse struct {
	Draft        *Draft         `json:"draft"`
	Participants []*Participant `json:"participants"`
	Picks        []*Pick        `json:"picks"`
	OnClock      *Participant   `json:"onClock,omitempty"`
	Round        int32          `json:"round"`
	Deadline     *time.Time     `json:"deadline,omitempty"`
	Complete     bool           `json:"complete"`
}

// DraftServiceHandler is implemented by the draft service.
type DraftServiceHandler interface {
	CreateDraft(context.Context, *connect.Request[CreateDraftRequest]) (*connect.Response[CreateDraftResponse], error)
	StartDraft(context.Context, *connect.Request[StartDraftRequest]) (*connect.Response[TransitionDraftResponse], error)
	PauseDraft(context.Context, *connect.Request[PauseDraftRequest]) (*connect.Response[TransitionDraftResponse], error)
	ResumeDraft(context.Context, *connect.Request[ResumeDraftRequest]) (*connect.Response[TransitionDraftResponse], error)
	MakePick(context.Context, *connect.Request[MakePickRequest]) (*connect.Response[MakePickResponse], error)
	GetDraftState(context.Context, *connect.Request[GetDraftStateRequest]) (*connect.Response[GetDraftStateResponse], error)
}

// NewDraftServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewDraftServiceHandler(svc DraftServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(DraftServiceCreateDraftProcedure, connect.NewUnaryHandler(DraftServiceCreateDraftProcedure, svc.CreateDraft, opts...))
	mux.Handle(DraftServiceStartDraftProcedure, connect.NewUnaryHandler(DraftServiceStartDraftProcedure, svc.StartDraft, opts...))
	mux.Handle(DraftServicePauseDraftProcedure, connect.NewUnaryHandler(DraftServicePauseDraftProcedure, svc.PauseDraft, opts...))
	mux.Handle(DraftServiceResumeDraftProcedure, connect.NewUnaryHandler(DraftServiceResumeDraftProcedure, svc.ResumeDraft, opts...))
	mux.Handle(DraftServiceMakePickProcedure, connect.NewUnaryHandler(DraftServiceMakePickProcedure, svc.MakePick, opts...))
	mux.Handle(DraftServiceGetDraftStateProcedure, connect.NewUnaryHandler(DraftServiceGetDraftStateProcedure, svc.GetDraftState, opts...))
	return "/" + DraftServiceName + "/", mux
}

// DraftServiceClient calls pronos.draft.v1.DraftService.
type DraftServiceClient struct {
	createDraft   *connect.Client[CreateDraftRequest, CreateDraftResponse]
	startDraft    *connect.Client[StartDraftRequest, TransitionDraftResponse]
	pauseDraft    *connect.Client[PauseDraftRequest, TransitionDraftResponse]
	resumeDraft   *connect.Client[ResumeDraftRequest, TransitionDraftResponse]
	makePick      *connect.Client[MakePickRequest, MakePickResponse]
	getDraftState *connect.Client[GetDraftStateRequest, GetDraftStateResponse]
}

// NewDraftServiceClient constructs a client for the service at baseURL.
func NewDraftServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DraftServiceClient {
	return &DraftServiceClient{
		createDraft:   connect.NewClient[CreateDraftRequest, CreateDraftResponse](httpClient, baseURL+DraftServiceCreateDraftProcedure, opts...),
		startDraft:    connect.NewClient[StartDraftRequest, TransitionDraftResponse](httpClient, baseURL+DraftServiceStartDraftProcedure, opts...),
		pauseDraft:    connect.NewClient[PauseDraftRequest, TransitionDraftResponse](httpClient, baseURL+DraftServicePauseDraftProcedure, opts...),
		resumeDraft:   connect.NewClient[ResumeDraftRequest, TransitionDraftResponse](httpClient, baseURL+DraftServiceResumeDraftProcedure, opts...),
		makePick:      connect.NewClient[MakePickRequest, MakePickResponse](httpClient, baseURL+DraftServiceMakePickProcedure, opts...),
		getDraftState: connect.NewClient[GetDraftStateRequest, GetDraftStateResponse](httpClient, baseURL+DraftServiceGetDraftStateProcedure, opts...),
	}
}

func (c *DraftServiceClient) CreateDraft(ctx context.Context, req *connect.Request[CreateDraftRequest]) (*connect.Response[CreateDraftResponse], error) {
	return c.createDraft.CallUnary(ctx, req)
}

func (c *DraftServiceClient) StartDraft(ctx context.Context, req *connect.Request[StartDraftRequest]) (*connect.Response[TransitionDraftResponse], error) {
	return c.startDraft.CallUnary(ctx, req)
}

func (c *DraftServiceClient) PauseDraft(ctx context.Context, req *connect.Request[PauseDraftRequest]) (*connect.Response[TransitionDraftResponse], error) {
	return c.pauseDraft.CallUnary(ctx, req)
}

func (c *DraftServiceClient) ResumeDraft(ctx context.Context, req *connect.Request[ResumeDraftRequest]) (*connect.Response[TransitionDraftResponse], error) {
	return c.resumeDraft.CallUnary(ctx, req)
}

func (c *DraftServiceClient) MakePick(ctx context.Context, req *connect.Request[MakePickRequest]) (*connect.Response[MakePickResponse], error) {
	return c.makePick.CallUnary(ctx, req)
}

func (c *DraftServiceClient) GetDraftState(ctx context.Context, req *connect.Request[GetDraftStateRequest]) (*connect.Response[GetDraftStateResponse], error) {
	return c.getDraftState.CallUnary(ctx, req)
}
