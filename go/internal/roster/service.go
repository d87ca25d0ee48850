package roster

import (
	"context"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	rosterv1 "github.com/mcdev12/pronos/go/internal/api/roster/v1"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/rpc"
)

// RosterApp defines what the service layer needs from the roster application
type RosterApp interface {
	GetTeamRoster(ctx context.Context, teamID uuid.UUID) (*TeamRoster, error)
	ListFreeAgents(ctx context.Context, gameID uuid.UUID) ([]models.Player, error)
}

// Service implements the RosterService Connect interface
type Service struct {
	app RosterApp
}

// NewService creates a new roster service
func NewService(app RosterApp) *Service {
	return &Service{app: app}
}

var _ rosterv1.RosterServiceHandler = (*Service)(nil)

// GetTeamRoster returns a team's active roster
func (s *Service) GetTeamRoster(ctx context.Context, req *connect.Request[rosterv1.GetTeamRosterRequest]) (*connect.Response[rosterv1.GetTeamRosterResponse], error) {
	if err := rpc.Validate(req.Msg); err != nil {
		return nil, rpc.ToConnectError(err)
	}
	teamID, err := rpc.ParseID("team_id", req.Msg.TeamId)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}

	r, err := s.app.GetTeamRoster(ctx, teamID)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}

	res := &rosterv1.GetTeamRosterResponse{
		TeamId:      r.Team.ID.String(),
		GameId:      r.Team.GameID.String(),
		Name:        r.Team.Name,
		TradeCount:  int32(r.Team.TradeCount),
		Entries:     make([]*rosterv1.RosterEntry, 0, len(r.Entries)),
		Usage:       make([]*rosterv1.RegionUsage, 0, len(r.Usage)),
		WithinQuota: r.Quota.Valid,
	}
	for _, e := range r.Entries {
		res.Entries = append(res.Entries, &rosterv1.RosterEntry{
			SlotId:          e.Slot.ID.String(),
			Position:        int32(e.Slot.Position),
			AcquisitionType: string(e.Slot.AcquisitionType),
			AcquiredAt:      e.Slot.AcquiredAt,
			Player:          playerToProto(e.Player),
		})
	}
	for _, u := range r.Usage {
		res.Usage = append(res.Usage, &rosterv1.RegionUsage{
			Region: string(u.Region),
			Count:  int32(u.Count),
			Max:    int32(u.Max),
		})
	}
	return connect.NewResponse(res), nil
}

// ListFreeAgents returns the game's unrostered players
func (s *Service) ListFreeAgents(ctx context.Context, req *connect.Request[rosterv1.ListFreeAgentsRequest]) (*connect.Response[rosterv1.ListFreeAgentsResponse], error) {
	if err := rpc.Validate(req.Msg); err != nil {
		return nil, rpc.ToConnectError(err)
	}
	gameID, err := rpc.ParseID("game_id", req.Msg.GameId)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}

	players, err := s.app.ListFreeAgents(ctx, gameID)
	if err != nil {
		return nil, rpc.ToConnectError(err)
	}
	res := &rosterv1.ListFreeAgentsResponse{Players: make([]*rosterv1.Player, 0, len(players))}
	for _, p := range players {
		res.Players = append(res.Players, playerToProto(p))
	}
	return connect.NewResponse(res), nil
}

func playerToProto(p models.Player) *rosterv1.Player {
	return &rosterv1.Player{
		Id:       p.ID.String(),
		Nickname: p.Nickname,
		Region:   string(p.Region),
		Rank:     int32(p.Rank),
		Locked:   p.Locked,
	}
}
