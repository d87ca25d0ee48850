package draft

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	draftv1 "github.com/mcdev12/pronos/go/internal/api/draft/v1"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/rpc"
)

// DraftApp defines what the service layer needs from the draft application
type DraftApp interface {
	CreateDraft(ctx context.Context, req CreateDraftRequest) (*DraftResult, error)
	StartDraft(ctx context.Context, req TransitionRequest) (*DraftResult, error)
	PauseDraft(ctx context.Context, req TransitionRequest) (*DraftResult, error)
	ResumeDraft(ctx context.Context, req TransitionRequest) (*DraftResult, error)
	ExecutePick(ctx context.Context, req MakePickRequest) (*PickResult, error)
	GetDraftState(ctx context.Context, draftID uuid.UUID) (*State, error)
}

// Service implements the DraftService Connect interface
type Service struct {
	app DraftApp
}

// NewService creates a new draft service
func NewService(app DraftApp) *Service {
	return &Service{app: app}
}

// Verify that Service implements the DraftServiceHandler interface
var _ draftv1.DraftServiceHandler = (*Service)(nil)

// CreateDraft creates the game's draft with every team seated in join order
func (s *Service) CreateDraft(ctx context.Context, req *connect.Request[draftv1.CreateDraftRequest]) (*connect.Response[draftv1.CreateDraftResponse], error) {
	actor, err := rpc.ActorFrom(req.Header())
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	if err := rpc.Validate(req.Msg); err != nil {
		return nil, rpc.ToConnectError(err)
	}
	gameID, err := rpc.ParseID("game_id", req.Msg.GameId)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}

	result, err := s.app.CreateDraft(ctx, CreateDraftRequest{
		GameID:         gameID,
		ActingUserID:   actor,
		TotalRounds:    int(req.Msg.TotalRounds),
		TimePerPickSec: int(req.Msg.TimePerPickSec),
	})
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}

	return connect.NewResponse(&draftv1.CreateDraftResponse{
		Draft:        draftToProto(result.Draft),
		Participants: participantsToProto(result.Participants),
	}), nil
}

// StartDraft starts the draft clock
func (s *Service) StartDraft(ctx context.Context, req *connect.Request[draftv1.StartDraftRequest]) (*connect.Response[draftv1.TransitionDraftResponse], error) {
	return s.transition(ctx, req.Header(), req.Msg, req.Msg.DraftId, s.app.StartDraft)
}

// PauseDraft freezes the draft and its clock
func (s *Service) PauseDraft(ctx context.Context, req *connect.Request[draftv1.PauseDraftRequest]) (*connect.Response[draftv1.TransitionDraftResponse], error) {
	return s.transition(ctx, req.Header(), req.Msg, req.Msg.DraftId, s.app.PauseDraft)
}

// ResumeDraft resumes a paused draft
func (s *Service) ResumeDraft(ctx context.Context, req *connect.Request[draftv1.ResumeDraftRequest]) (*connect.Response[draftv1.TransitionDraftResponse], error) {
	return s.transition(ctx, req.Header(), req.Msg, req.Msg.DraftId, s.app.ResumeDraft)
}

func (s *Service) transition(
	ctx context.Context,
	header http.Header,
	msg any,
	rawDraftID string,
	fn func(context.Context, TransitionRequest) (*DraftResult, error),
) (*connect.Response[draftv1.TransitionDraftResponse], error) {
	actor, err := rpc.ActorFrom(header)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	if err := rpc.Validate(msg); err != nil {
		return nil, rpc.ToConnectError(err)
	}
	draftID, err := rpc.ParseID("draft_id", rawDraftID)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}

	result, err := fn(ctx, TransitionRequest{DraftID: draftID, ActingUserID: actor})
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&draftv1.TransitionDraftResponse{
		Draft:  draftToProto(result.Draft),
		Events: rpc.EventsToProto(result.Events),
	}), nil
}

// MakePick records a manual pick for the team on the clock
func (s *Service) MakePick(ctx context.Context, req *connect.Request[draftv1.MakePickRequest]) (*connect.Response[draftv1.MakePickResponse], error) {
	actor, err := rpc.ActorFrom(req.Header())
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	if err := rpc.Validate(req.Msg); err != nil {
		return nil, rpc.ToConnectError(err)
	}
	appReq, err := protoToMakePickRequest(req.Msg)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	appReq.ActingUserID = actor

	result, err := s.app.ExecutePick(ctx, appReq)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	return connect.NewResponse(&draftv1.MakePickResponse{
		Pick:   pickToProto(result.Pick),
		Draft:  draftToProto(result.Draft),
		Events: rpc.EventsToProto(result.Events),
	}), nil
}

// GetDraftState returns the draft with its seats, picks and turn
func (s *Service) GetDraftState(ctx context.Context, req *connect.Request[draftv1.GetDraftStateRequest]) (*connect.Response[draftv1.GetDraftStateResponse], error) {
	if err := rpc.Validate(req.Msg); err != nil {
		return nil, rpc.ToConnectError(err)
	}
	draftID, err := rpc.ParseID("draft_id", req.Msg.DraftId)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}

	state, err := s.app.GetDraftState(ctx, draftID)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}

	res := &draftv1.GetDraftStateResponse{
		Draft:        draftToProto(state.Draft),
		Participants: participantsToProto(state.Participants),
		Picks:        make([]*draftv1.Pick, 0, len(state.Picks)),
		Round:        int32(state.Round),
		Deadline:     state.Deadline,
		Complete:     state.Complete,
	}
	for _, p := range state.Picks {
		res.Picks = append(res.Picks, pickToProto(p))
	}
	if state.OnClock != nil {
		res.OnClock = participantToProto(*state.OnClock)
	}
	return connect.NewResponse(res), nil
}

func protoToMakePickRequest(msg *draftv1.MakePickRequest) (MakePickRequest, error) {
	draftID, err := rpc.ParseID("draft_id", msg.DraftId)
	if err != nil {
		return MakePickRequest{}, err
	}
	teamID, err := rpc.ParseID("team_id", msg.TeamId)
	if err != nil {
		return MakePickRequest{}, err
	}
	playerID, err := rpc.ParseID("player_id", msg.PlayerId)
	if err != nil {
		return MakePickRequest{}, err
	}
	return MakePickRequest{DraftID: draftID, TeamID: teamID, PlayerID: playerID}, nil
}

func draftToProto(d models.Draft) *draftv1.Draft {
	return &draftv1.Draft{
		Id:             d.ID.String(),
		GameId:         d.GameID.String(),
		Status:         string(d.Status),
		TotalRounds:    int32(d.TotalRounds),
		CurrentPick:    int32(d.CurrentPick),
		TimePerPickSec: int32(d.TimePerPickSec),
		TurnStartedAt:  copyTime(d.TurnStartedAt),
		StartedAt:      copyTime(d.StartedAt),
		CompletedAt:    copyTime(d.CompletedAt),
	}
}

func participantToProto(p models.DraftParticipant) *draftv1.Participant {
	return &draftv1.Participant{
		Id:         p.ID.String(),
		TeamId:     p.TeamID.String(),
		DraftOrder: int32(p.DraftOrder),
	}
}

func participantsToProto(ps []models.DraftParticipant) []*draftv1.Participant {
	out := make([]*draftv1.Participant, 0, len(ps))
	for _, p := range ps {
		out = append(out, participantToProto(p))
	}
	return out
}

func pickToProto(p models.DraftPick) *draftv1.Pick {
	return &draftv1.Pick{
		Id:         p.ID.String(),
		Round:      int32(p.Round),
		PickNumber: int32(p.PickNumber),
		TeamId:     p.TeamID.String(),
		PlayerId:   p.PlayerID.String(),
		AutoPicked: p.AutoPicked,
		PickedAt:   p.PickedAt,
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
