package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/apperr"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/sqlutil"
	"github.com/mcdev12/pronos/go/internal/store/postgres/db"
)

// queries implements store.Queries on top of the typed statements, bound to
// one transaction.
type queries struct {
	q *db.Queries
}

// Catalog

func (r *queries) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	row, err := r.q.GetGame(ctx, id)
	if err != nil {
		return nil, notFound(err, apperr.CodeGameNotFound, "game_id", id, "get game")
	}
	return dbGameToModel(row), nil
}

func (r *queries) CreateGame(ctx context.Context, game models.Game) error {
	err := r.q.CreateGame(ctx, db.CreateGameParams{
		ID:               game.ID,
		Name:             game.Name,
		Season:           int32(game.Season),
		CreatorID:        game.CreatorID,
		TradingEnabled:   game.TradingEnabled,
		TradeDeadline:    sqlutil.ToSqlTime(game.TradeDeadline),
		MaxTradesPerTeam: int32(game.MaxTradesPerTeam),
		CreatedAt:        orNow(game.CreatedAt),
	})
	return translate(err, "create game")
}

func (r *queries) GetTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error) {
	row, err := r.q.GetFantasyTeam(ctx, id)
	if err != nil {
		return nil, notFound(err, apperr.CodeTeamNotFound, "team_id", id, "get team")
	}
	return dbTeamToModel(row), nil
}

func (r *queries) ListTeamsByGame(ctx context.Context, gameID uuid.UUID) ([]models.FantasyTeam, error) {
	rows, err := r.q.ListFantasyTeamsByGame(ctx, gameID)
	if err != nil {
		return nil, translate(err, "list teams")
	}
	out := make([]models.FantasyTeam, 0, len(rows))
	for _, row := range rows {
		out = append(out, *dbTeamToModel(row))
	}
	return out, nil
}

func (r *queries) CreateTeam(ctx context.Context, team models.FantasyTeam) error {
	err := r.q.CreateFantasyTeam(ctx, db.CreateFantasyTeamParams{
		ID:         team.ID,
		GameID:     team.GameID,
		OwnerID:    team.OwnerID,
		Name:       team.Name,
		Season:     int32(team.Season),
		TradeCount: int32(team.TradeCount),
		JoinedAt:   orNow(team.JoinedAt),
		CreatedAt:  orNow(team.CreatedAt),
	})
	return translate(err, "create team")
}

func (r *queries) IncrementTradeCount(ctx context.Context, teamID uuid.UUID) error {
	n, err := r.q.IncrementTradeCount(ctx, teamID)
	if err != nil {
		return translate(err, "increment trade count")
	}
	if n == 0 {
		return apperr.NotFound(apperr.CodeTeamNotFound, "team not found").With("team_id", teamID.String())
	}
	return nil
}

func (r *queries) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	row, err := r.q.GetPlayer(ctx, id)
	if err != nil {
		return nil, notFound(err, apperr.CodePlayerNotFound, "player_id", id, "get player")
	}
	p := dbPlayerToModel(row)
	return &p, nil
}

func (r *queries) GetPlayers(ctx context.Context, ids []uuid.UUID) ([]models.Player, error) {
	if len(ids) == 0 {
		return []models.Player{}, nil
	}
	rows, err := r.q.GetPlayersByIDs(ctx, ids)
	if err != nil {
		return nil, translate(err, "get players")
	}
	byID := make(map[uuid.UUID]models.Player, len(rows))
	for _, row := range rows {
		byID[row.ID] = dbPlayerToModel(row)
	}
	out := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, apperr.NotFound(apperr.CodePlayerNotFound, "player not found").With("player_id", id.String())
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *queries) ListPlayersBySeason(ctx context.Context, season int) ([]models.Player, error) {
	rows, err := r.q.ListPlayersBySeason(ctx, int32(season))
	if err != nil {
		return nil, translate(err, "list players")
	}
	out := make([]models.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, dbPlayerToModel(row))
	}
	return out, nil
}

func (r *queries) CreatePlayer(ctx context.Context, player models.Player) error {
	err := r.q.CreatePlayer(ctx, db.CreatePlayerParams{
		ID:        player.ID,
		Nickname:  player.Nickname,
		Region:    string(player.Region),
		Rank:      int32(player.Rank),
		Locked:    player.Locked,
		Season:    int32(player.Season),
		CreatedAt: orNow(player.CreatedAt),
	})
	return translate(err, "create player")
}

// Quotas

func (r *queries) ListRegionQuotas(ctx context.Context, gameID uuid.UUID) ([]models.RegionQuota, error) {
	rows, err := r.q.ListRegionQuotas(ctx, gameID)
	if err != nil {
		return nil, translate(err, "list region quotas")
	}
	out := make([]models.RegionQuota, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.RegionQuota{
			GameID:     row.GameID,
			Region:     models.Region(row.Region),
			MaxPlayers: int(row.MaxPlayers),
		})
	}
	return out, nil
}

func (r *queries) UpsertRegionQuota(ctx context.Context, quota models.RegionQuota) error {
	err := r.q.UpsertRegionQuota(ctx, db.UpsertRegionQuotaParams{
		GameID:     quota.GameID,
		Region:     string(quota.Region),
		MaxPlayers: int32(quota.MaxPlayers),
	})
	return translate(err, "upsert region quota")
}

// Roster

func (r *queries) ListActiveSlots(ctx context.Context, teamID uuid.UUID) ([]models.RosterSlot, error) {
	rows, err := r.q.ListActiveRosterSlots(ctx, teamID)
	if err != nil {
		return nil, translate(err, "list roster slots")
	}
	out := make([]models.RosterSlot, 0, len(rows))
	for _, row := range rows {
		out = append(out, dbSlotToModel(row))
	}
	return out, nil
}

func (r *queries) GetActiveSlotForPlayer(ctx context.Context, gameID, playerID uuid.UUID) (*models.RosterSlot, error) {
	row, err := r.q.GetActiveSlotForPlayer(ctx, db.GetActiveSlotForPlayerParams{GameID: gameID, PlayerID: playerID})
	if err != nil {
		return nil, notFound(err, apperr.CodePlayerNotOnTeam, "player_id", playerID, "get roster slot")
	}
	slot := dbSlotToModel(row)
	return &slot, nil
}

func (r *queries) AddRosterSlot(ctx context.Context, slot models.RosterSlot) error {
	n, err := r.q.InsertRosterSlot(ctx, db.InsertRosterSlotParams{
		ID:              slot.ID,
		TeamID:          slot.TeamID,
		PlayerID:        slot.PlayerID,
		Position:        int32(slot.Position),
		AcquisitionType: string(slot.AcquisitionType),
		AcquiredAt:      orNow(slot.AcquiredAt),
	})
	if err != nil {
		return translate(err, "add roster slot")
	}
	if n == 0 {
		return apperr.NotFound(apperr.CodeTeamNotFound, "team not found").With("team_id", slot.TeamID.String())
	}
	return nil
}

func (r *queries) RemoveRosterSlot(ctx context.Context, slotID uuid.UUID, removedAt time.Time) error {
	n, err := r.q.EndRosterSlot(ctx, db.EndRosterSlotParams{ID: slotID, RemovedAt: removedAt})
	if err != nil {
		return translate(err, "remove roster slot")
	}
	if n == 0 {
		return apperr.NotFound(apperr.CodePlayerNotOnTeam, "active roster slot not found").With("slot_id", slotID.String())
	}
	return nil
}

// Draft

func (r *queries) CreateDraft(ctx context.Context, draft models.Draft, participants []models.DraftParticipant) error {
	err := r.q.CreateDraft(ctx, db.CreateDraftParams{
		ID:             draft.ID,
		GameID:         draft.GameID,
		Status:         string(draft.Status),
		TotalRounds:    int32(draft.TotalRounds),
		CurrentPick:    int32(draft.CurrentPick),
		TimePerPickSec: int32(draft.TimePerPickSec),
		TurnStartedAt:  sqlutil.ToSqlTime(draft.TurnStartedAt),
		PausedAt:       sqlutil.ToSqlTime(draft.PausedAt),
		StartedAt:      sqlutil.ToSqlTime(draft.StartedAt),
		CompletedAt:    sqlutil.ToSqlTime(draft.CompletedAt),
		CreatedAt:      orNow(draft.CreatedAt),
		UpdatedAt:      orNow(draft.UpdatedAt),
	})
	if err != nil {
		return translate(err, "create draft")
	}
	for _, p := range participants {
		err := r.q.CreateDraftParticipant(ctx, db.CreateDraftParticipantParams{
			ID:         p.ID,
			DraftID:    draft.ID,
			TeamID:     p.TeamID,
			DraftOrder: int32(p.DraftOrder),
		})
		if err != nil {
			return translate(err, "create draft participant")
		}
	}
	return nil
}

func (r *queries) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	row, err := r.q.GetDraft(ctx, id)
	if err != nil {
		return nil, notFound(err, apperr.CodeDraftNotFound, "draft_id", id, "get draft")
	}
	return dbDraftToModel(row), nil
}

func (r *queries) GetDraftByGame(ctx context.Context, gameID uuid.UUID) (*models.Draft, error) {
	row, err := r.q.GetDraftByGame(ctx, gameID)
	if err != nil {
		return nil, notFound(err, apperr.CodeDraftNotFound, "game_id", gameID, "get draft")
	}
	return dbDraftToModel(row), nil
}

func (r *queries) ListDraftsByStatus(ctx context.Context, status models.DraftStatus) ([]models.Draft, error) {
	rows, err := r.q.ListDraftsByStatus(ctx, string(status))
	if err != nil {
		return nil, translate(err, "list drafts")
	}
	out := make([]models.Draft, 0, len(rows))
	for _, row := range rows {
		out = append(out, *dbDraftToModel(row))
	}
	return out, nil
}

func (r *queries) UpdateDraft(ctx context.Context, draft models.Draft) error {
	n, err := r.q.UpdateDraft(ctx, db.UpdateDraftParams{
		ID:            draft.ID,
		Status:        string(draft.Status),
		CurrentPick:   int32(draft.CurrentPick),
		TurnStartedAt: sqlutil.ToSqlTime(draft.TurnStartedAt),
		PausedAt:      sqlutil.ToSqlTime(draft.PausedAt),
		StartedAt:     sqlutil.ToSqlTime(draft.StartedAt),
		CompletedAt:   sqlutil.ToSqlTime(draft.CompletedAt),
		UpdatedAt:     orNow(draft.UpdatedAt),
	})
	if err != nil {
		return translate(err, "update draft")
	}
	if n == 0 {
		return apperr.NotFound(apperr.CodeDraftNotFound, "draft not found").With("draft_id", draft.ID.String())
	}
	return nil
}

func (r *queries) ListParticipants(ctx context.Context, draftID uuid.UUID) ([]models.DraftParticipant, error) {
	rows, err := r.q.ListDraftParticipants(ctx, draftID)
	if err != nil {
		return nil, translate(err, "list draft participants")
	}
	out := make([]models.DraftParticipant, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.DraftParticipant{
			ID:         row.ID,
			DraftID:    row.DraftID,
			TeamID:     row.TeamID,
			DraftOrder: int(row.DraftOrder),
		})
	}
	return out, nil
}

func (r *queries) ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := r.q.ListDraftPicks(ctx, draftID)
	if err != nil {
		return nil, translate(err, "list draft picks")
	}
	out := make([]models.DraftPick, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.DraftPick{
			ID:            row.ID,
			DraftID:       row.DraftID,
			Round:         int(row.Round),
			PickNumber:    int(row.PickNumber),
			ParticipantID: row.ParticipantID,
			TeamID:        row.TeamID,
			PlayerID:      row.PlayerID,
			AutoPicked:    row.AutoPicked,
			PickedAt:      row.PickedAt,
		})
	}
	return out, nil
}

func (r *queries) IsPlayerDrafted(ctx context.Context, draftID, playerID uuid.UUID) (bool, error) {
	drafted, err := r.q.IsPlayerDrafted(ctx, db.IsPlayerDraftedParams{DraftID: draftID, PlayerID: playerID})
	if err != nil {
		return false, translate(err, "check drafted player")
	}
	return drafted, nil
}

func (r *queries) InsertPick(ctx context.Context, pick models.DraftPick) error {
	err := r.q.InsertDraftPick(ctx, db.InsertDraftPickParams{
		ID:            pick.ID,
		DraftID:       pick.DraftID,
		Round:         int32(pick.Round),
		PickNumber:    int32(pick.PickNumber),
		ParticipantID: pick.ParticipantID,
		TeamID:        pick.TeamID,
		PlayerID:      pick.PlayerID,
		AutoPicked:    pick.AutoPicked,
		PickedAt:      pick.PickedAt,
	})
	return translate(err, "insert draft pick")
}

// Trades

func (r *queries) CreateTrade(ctx context.Context, trade models.Trade) error {
	offered, err := sqlutil.ToUUIDList(trade.OfferedPlayerIDs)
	if err != nil {
		return err
	}
	requested, err := sqlutil.ToUUIDList(trade.RequestedPlayerIDs)
	if err != nil {
		return err
	}
	err = r.q.CreateTrade(ctx, db.CreateTradeParams{
		ID:                 trade.ID,
		GameID:             trade.GameID,
		FromTeamID:         trade.FromTeamID,
		ToTeamID:           trade.ToTeamID,
		OfferedPlayerIds:   offered,
		RequestedPlayerIds: requested,
		Status:             string(trade.Status),
		OriginalTradeID:    sqlutil.ToNullUUID(trade.OriginalTradeID),
		ProposedAt:         trade.ProposedAt,
		UpdatedAt:          orNow(trade.UpdatedAt),
	})
	return translate(err, "create trade")
}

func (r *queries) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	row, err := r.q.GetTrade(ctx, id)
	if err != nil {
		return nil, notFound(err, apperr.CodeTradeNotFound, "trade_id", id, "get trade")
	}
	return dbTradeToModel(row)
}

// UpdateTrade persists status transitions. Sides and players of a trade never change.
func (r *queries) UpdateTrade(ctx context.Context, trade models.Trade) error {
	n, err := r.q.UpdateTradeStatus(ctx, db.UpdateTradeStatusParams{
		ID:          trade.ID,
		Status:      string(trade.Status),
		AcceptedAt:  sqlutil.ToSqlTime(trade.AcceptedAt),
		RejectedAt:  sqlutil.ToSqlTime(trade.RejectedAt),
		CancelledAt: sqlutil.ToSqlTime(trade.CancelledAt),
		CounteredAt: sqlutil.ToSqlTime(trade.CounteredAt),
		UpdatedAt:   orNow(trade.UpdatedAt),
	})
	if err != nil {
		return translate(err, "update trade")
	}
	if n == 0 {
		return apperr.NotFound(apperr.CodeTradeNotFound, "trade not found").With("trade_id", trade.ID.String())
	}
	return nil
}

func (r *queries) ListTradesByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Trade, error) {
	rows, err := r.q.ListTradesByTeam(ctx, teamID)
	if err != nil {
		return nil, translate(err, "list trades")
	}
	out := make([]models.Trade, 0, len(rows))
	for _, row := range rows {
		t, err := dbTradeToModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
