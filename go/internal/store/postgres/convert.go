package postgres

import (
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/sqlutil"
	"github.com/mcdev12/pronos/go/internal/store/postgres/db"
)

func dbGameToModel(g db.Game) *models.Game {
	return &models.Game{
		ID:               g.ID,
		Name:             g.Name,
		Season:           int(g.Season),
		CreatorID:        g.CreatorID,
		TradingEnabled:   g.TradingEnabled,
		TradeDeadline:    sqlutil.FromSqlTime(g.TradeDeadline),
		MaxTradesPerTeam: int(g.MaxTradesPerTeam),
		CreatedAt:        g.CreatedAt,
	}
}

func dbTeamToModel(t db.FantasyTeam) *models.FantasyTeam {
	return &models.FantasyTeam{
		ID:         t.ID,
		GameID:     t.GameID,
		OwnerID:    t.OwnerID,
		Name:       t.Name,
		Season:     int(t.Season),
		TradeCount: int(t.TradeCount),
		JoinedAt:   t.JoinedAt,
		CreatedAt:  t.CreatedAt,
	}
}

func dbPlayerToModel(p db.Player) models.Player {
	return models.Player{
		ID:        p.ID,
		Nickname:  p.Nickname,
		Region:    models.Region(p.Region),
		Rank:      int(p.Rank),
		Locked:    p.Locked,
		Season:    int(p.Season),
		CreatedAt: p.CreatedAt,
	}
}

func dbSlotToModel(s db.RosterSlot) models.RosterSlot {
	return models.RosterSlot{
		ID:              s.ID,
		TeamID:          s.TeamID,
		PlayerID:        s.PlayerID,
		Position:        int(s.Position),
		AcquisitionType: models.AcquisitionType(s.AcquisitionType),
		AcquiredAt:      s.AcquiredAt,
		RemovedAt:       sqlutil.FromSqlTime(s.RemovedAt),
	}
}

func dbDraftToModel(d db.Draft) *models.Draft {
	return &models.Draft{
		ID:             d.ID,
		GameID:         d.GameID,
		Status:         models.DraftStatus(d.Status),
		TotalRounds:    int(d.TotalRounds),
		CurrentPick:    int(d.CurrentPick),
		TimePerPickSec: int(d.TimePerPickSec),
		TurnStartedAt:  sqlutil.FromSqlTime(d.TurnStartedAt),
		PausedAt:       sqlutil.FromSqlTime(d.PausedAt),
		StartedAt:      sqlutil.FromSqlTime(d.StartedAt),
		CompletedAt:    sqlutil.FromSqlTime(d.CompletedAt),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func dbTradeToModel(t db.Trade) (*models.Trade, error) {
	offered, err := sqlutil.FromUUIDList(t.OfferedPlayerIds)
	if err != nil {
		return nil, err
	}
	requested, err := sqlutil.FromUUIDList(t.RequestedPlayerIds)
	if err != nil {
		return nil, err
	}
	return &models.Trade{
		ID:                 t.ID,
		GameID:             t.GameID,
		FromTeamID:         t.FromTeamID,
		ToTeamID:           t.ToTeamID,
		OfferedPlayerIDs:   offered,
		RequestedPlayerIDs: requested,
		Status:             models.TradeStatus(t.Status),
		OriginalTradeID:    sqlutil.FromNullUUID(t.OriginalTradeID),
		ProposedAt:         t.ProposedAt,
		AcceptedAt:         sqlutil.FromSqlTime(t.AcceptedAt),
		RejectedAt:         sqlutil.FromSqlTime(t.RejectedAt),
		CancelledAt:        sqlutil.FromSqlTime(t.CancelledAt),
		CounteredAt:        sqlutil.FromSqlTime(t.CounteredAt),
		UpdatedAt:          t.UpdatedAt,
	}, nil
}
