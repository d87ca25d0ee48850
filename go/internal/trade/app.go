// Package trade runs the trade lifecycle: propose, accept, reject, cancel and
// counter. Accepting a trade swaps players between two rosters atomically and
// only after both simulated rosters pass the region quota check.
package trade

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/pronos/go/internal/apperr"
	"github.com/mcdev12/pronos/go/internal/events"
	"github.com/mcdev12/pronos/go/internal/lock"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/roster"
	"github.com/mcdev12/pronos/go/internal/store"
	"github.com/rs/zerolog/log"
)

// App handles trade business logic
type App struct {
	db       store.DB
	locker   lock.Locker
	notifier events.Notifier
	clock    clockwork.Clock
}

// NewApp creates a new trade App
func NewApp(db store.DB, locker lock.Locker, notifier events.Notifier, clock clockwork.Clock) *App {
	if notifier == nil {
		notifier = events.Nop
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		db:       db,
		locker:   locker,
		notifier: notifier,
		clock:    clock,
	}
}

// Propose creates a PENDING trade. Nothing is written unless every rule holds.
func (a *App) Propose(ctx context.Context, req ProposeRequest) (*Result, error) {
	if req.ActingUserID == uuid.Nil {
		return nil, apperr.Authorization(apperr.CodeMissingActor, "acting user is required")
	}

	now := a.clock.Now()
	var result *Result
	err := a.db.InTx(ctx, func(q store.Queries) error {
		from, err := q.GetTeam(ctx, req.FromTeamID)
		if err != nil {
			return err
		}
		if from.OwnerID != req.ActingUserID {
			return apperr.Authorization(apperr.CodeNotTeamOwner, "only the owner of the offering team can propose")
		}
		to, err := q.GetTeam(ctx, req.ToTeamID)
		if err != nil {
			return err
		}

		p := proposal{from: *from, to: *to, offered: req.OfferedPlayerIDs, requested: req.RequestedPlayerIDs}
		if _, err := a.validateProposal(ctx, q, p, now); err != nil {
			return err
		}

		t := newTrade(p, now)
		if err := q.CreateTrade(ctx, t); err != nil {
			return fmt.Errorf("failed to create trade: %w", err)
		}
		result = &Result{Trade: t, Events: []events.Event{tradeEvent(events.TradeProposed, t, now)}}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logTransition(result.Trade, "trade proposed")
	a.notifier.Notify(ctx, result.Events...)
	return result, nil
}

// Accept executes a pending trade for the receiving team's owner. When either
// post-trade roster would break a region quota the trade stays PENDING and no
// roster changes.
func (a *App) Accept(ctx context.Context, req ActionRequest) (*Result, error) {
	var result *Result
	err := a.withTradeLocks(ctx, req.TradeID, req.ActingUserID, func(now time.Time) error {
		return a.db.InTx(ctx, func(q store.Queries) error {
			t, err := q.GetTrade(ctx, req.TradeID)
			if err != nil {
				return err
			}
			from, to, err := a.loadSides(ctx, q, *t)
			if err != nil {
				return err
			}
			if to.OwnerID != req.ActingUserID {
				return apperr.Authorization(apperr.CodeNotTeamOwner, "only the owner of the receiving team can accept")
			}
			if err := requirePending(*t); err != nil {
				return err
			}

			p := proposal{from: from, to: to, offered: t.OfferedPlayerIDs, requested: t.RequestedPlayerIDs}
			sides, err := a.validateProposal(ctx, q, p, now)
			if err != nil {
				return err
			}
			if err := a.checkQuotas(ctx, q, t.GameID, p, sides); err != nil {
				return err
			}

			if err := swap(ctx, q, p, sides, now); err != nil {
				return err
			}
			if err := q.IncrementTradeCount(ctx, from.ID); err != nil {
				return fmt.Errorf("failed to increment trade count: %w", err)
			}
			if err := q.IncrementTradeCount(ctx, to.ID); err != nil {
				return fmt.Errorf("failed to increment trade count: %w", err)
			}

			t.Status = models.TradeStatusAccepted
			t.AcceptedAt = &now
			t.UpdatedAt = now
			if err := q.UpdateTrade(ctx, *t); err != nil {
				return fmt.Errorf("failed to update trade: %w", err)
			}
			result = &Result{Trade: *t, Events: []events.Event{tradeEvent(events.TradeAccepted, *t, now)}}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	logTransition(result.Trade, "trade accepted")
	a.notifier.Notify(ctx, result.Events...)
	return result, nil
}

// Reject declines a pending trade on behalf of the receiving team.
func (a *App) Reject(ctx context.Context, req ActionRequest) (*Result, error) {
	return a.close(ctx, req, events.TradeRejected, func(t *models.Trade, from, to models.FantasyTeam, now time.Time) error {
		if to.OwnerID != req.ActingUserID {
			return apperr.Authorization(apperr.CodeNotTeamOwner, "only the owner of the receiving team can reject")
		}
		if err := requirePending(*t); err != nil {
			return err
		}
		t.Status = models.TradeStatusRejected
		t.RejectedAt = &now
		return nil
	})
}

// Cancel withdraws a pending trade on behalf of the offering team.
func (a *App) Cancel(ctx context.Context, req ActionRequest) (*Result, error) {
	return a.close(ctx, req, events.TradeCancelled, func(t *models.Trade, from, to models.FantasyTeam, now time.Time) error {
		if from.OwnerID != req.ActingUserID {
			return apperr.Authorization(apperr.CodeNotTeamOwner, "only the owner of the offering team can cancel")
		}
		if err := requirePending(*t); err != nil {
			return err
		}
		t.Status = models.TradeStatusCancelled
		t.CancelledAt = &now
		return nil
	})
}

func (a *App) close(ctx context.Context, req ActionRequest, typ events.Type, apply func(t *models.Trade, from, to models.FantasyTeam, now time.Time) error) (*Result, error) {
	var result *Result
	err := a.withTradeLocks(ctx, req.TradeID, req.ActingUserID, func(now time.Time) error {
		return a.db.InTx(ctx, func(q store.Queries) error {
			t, err := q.GetTrade(ctx, req.TradeID)
			if err != nil {
				return err
			}
			from, to, err := a.loadSides(ctx, q, *t)
			if err != nil {
				return err
			}
			if err := apply(t, from, to, now); err != nil {
				return err
			}
			t.UpdatedAt = now
			if err := q.UpdateTrade(ctx, *t); err != nil {
				return fmt.Errorf("failed to update trade: %w", err)
			}
			result = &Result{Trade: *t, Events: []events.Event{tradeEvent(typ, *t, now)}}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	logTransition(result.Trade, "trade closed")
	a.notifier.Notify(ctx, result.Events...)
	return result, nil
}

// Counter closes a pending trade as COUNTERED and proposes a new one with the
// roles swapped. Both happen in one transaction after the new proposal has
// been validated in full.
func (a *App) Counter(ctx context.Context, req CounterRequest) (*CounterResult, error) {
	var result *CounterResult
	err := a.withTradeLocks(ctx, req.OriginalTradeID, req.ActingUserID, func(now time.Time) error {
		return a.db.InTx(ctx, func(q store.Queries) error {
			original, err := q.GetTrade(ctx, req.OriginalTradeID)
			if err != nil {
				return err
			}
			from, to, err := a.loadSides(ctx, q, *original)
			if err != nil {
				return err
			}
			if to.OwnerID != req.ActingUserID {
				return apperr.Authorization(apperr.CodeNotTeamOwner, "only the owner of the receiving team can counter")
			}
			if err := requirePending(*original); err != nil {
				return err
			}

			p := proposal{from: to, to: from, offered: req.OfferedPlayerIDs, requested: req.RequestedPlayerIDs}
			if _, err := a.validateProposal(ctx, q, p, now); err != nil {
				return err
			}

			original.Status = models.TradeStatusCountered
			original.CounteredAt = &now
			original.UpdatedAt = now
			if err := q.UpdateTrade(ctx, *original); err != nil {
				return fmt.Errorf("failed to update trade: %w", err)
			}

			counter := newTrade(p, now)
			counter.OriginalTradeID = &original.ID
			if err := q.CreateTrade(ctx, counter); err != nil {
				return fmt.Errorf("failed to create trade: %w", err)
			}

			result = &CounterResult{
				Original: *original,
				Trade:    counter,
				Events: []events.Event{
					tradeEvent(events.TradeCountered, *original, now),
					tradeEvent(events.TradeProposed, counter, now),
				},
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	logTransition(result.Original, "trade countered")
	logTransition(result.Trade, "trade proposed")
	a.notifier.Notify(ctx, result.Events...)
	return result, nil
}

// GetTrade returns a trade by id.
func (a *App) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	var t *models.Trade
	err := a.db.View(ctx, func(q store.Queries) error {
		var err error
		t, err = q.GetTrade(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTradesForTeam returns trades involving a team, newest first. An empty
// status matches every trade.
func (a *App) ListTradesForTeam(ctx context.Context, teamID uuid.UUID, status models.TradeStatus) ([]models.Trade, error) {
	var out []models.Trade
	err := a.db.View(ctx, func(q store.Queries) error {
		if _, err := q.GetTeam(ctx, teamID); err != nil {
			return err
		}
		trades, err := q.ListTradesByTeam(ctx, teamID)
		if err != nil {
			return fmt.Errorf("failed to list trades: %w", err)
		}
		for _, t := range trades {
			if status == "" || t.Status == status {
				out = append(out, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// withTradeLocks takes the trade's lock and both of its teams' locks, in
// sorted key order, around fn.
func (a *App) withTradeLocks(ctx context.Context, tradeID, actor uuid.UUID, fn func(now time.Time) error) error {
	if actor == uuid.Nil {
		return apperr.Authorization(apperr.CodeMissingActor, "acting user is required")
	}

	var t *models.Trade
	err := a.db.View(ctx, func(q store.Queries) error {
		var err error
		t, err = q.GetTrade(ctx, tradeID)
		return err
	})
	if err != nil {
		return err
	}

	release, err := a.locker.Acquire(ctx,
		lock.TradeKey(t.ID),
		lock.TeamKey(t.FromTeamID),
		lock.TeamKey(t.ToTeamID),
	)
	if err != nil {
		log.Warn().Err(err).Str("trade_id", tradeID.String()).Msg("trade locks unavailable")
		return err
	}
	defer release()

	return fn(a.clock.Now())
}

func (a *App) loadSides(ctx context.Context, q store.Queries, t models.Trade) (models.FantasyTeam, models.FantasyTeam, error) {
	from, err := q.GetTeam(ctx, t.FromTeamID)
	if err != nil {
		return models.FantasyTeam{}, models.FantasyTeam{}, err
	}
	to, err := q.GetTeam(ctx, t.ToTeamID)
	if err != nil {
		return models.FantasyTeam{}, models.FantasyTeam{}, err
	}
	return *from, *to, nil
}

// sides holds both teams' active rosters at validation time.
type sides struct {
	from store.ActiveRoster
	to   store.ActiveRoster
}

// validateProposal checks every proposal rule in a fixed order and returns
// the rosters it loaded.
func (a *App) validateProposal(ctx context.Context, q store.Queries, p proposal, now time.Time) (*sides, error) {
	if p.from.ID == p.to.ID {
		return nil, apperr.Validation(apperr.CodeTradeSameTeam, "a team cannot trade with itself").
			With("team_id", p.from.ID.String())
	}
	if p.from.GameID != p.to.GameID {
		return nil, apperr.Validation(apperr.CodeTradeCrossGame, "teams belong to different games").
			With("from_team_id", p.from.ID.String()).
			With("to_team_id", p.to.ID.String())
	}

	game, err := q.GetGame(ctx, p.from.GameID)
	if err != nil {
		return nil, err
	}
	if !game.TradingEnabled {
		return nil, apperr.Conflict(apperr.CodeTradingDisabled, "trading is disabled for this game").
			With("game_id", game.ID.String())
	}
	if game.TradeDeadlinePassed(now) {
		return nil, apperr.Conflict(apperr.CodeTradeDeadlinePassed, "trade deadline has passed").
			With("game_id", game.ID.String()).
			With("deadline", game.TradeDeadline.Format(time.RFC3339))
	}
	for _, team := range []models.FantasyTeam{p.from, p.to} {
		if game.TradeCapReached(team.TradeCount) {
			return nil, apperr.Conflict(apperr.CodeTradeCapReached, "team has reached its trade limit").
				With("team_id", team.ID.String()).
				With("count", strconv.Itoa(team.TradeCount)).
				With("max", strconv.Itoa(game.MaxTradesPerTeam))
		}
	}

	fromRoster, err := store.LoadActiveRoster(ctx, q, p.from.ID)
	if err != nil {
		return nil, err
	}
	toRoster, err := store.LoadActiveRoster(ctx, q, p.to.ID)
	if err != nil {
		return nil, err
	}
	if err := checkOwned(ctx, q, fromRoster, p.offered); err != nil {
		return nil, err
	}
	if err := checkOwned(ctx, q, toRoster, p.requested); err != nil {
		return nil, err
	}

	if err := checkShape(p.offered, p.requested); err != nil {
		return nil, err
	}
	return &sides{from: fromRoster, to: toRoster}, nil
}

// checkOwned requires every player to exist, be on the roster and be unlocked.
func checkOwned(ctx context.Context, q store.Queries, r store.ActiveRoster, playerIDs []uuid.UUID) error {
	if len(playerIDs) == 0 {
		return nil
	}
	players, err := q.GetPlayers(ctx, playerIDs)
	if err != nil {
		return err
	}
	for _, p := range players {
		if _, ok := r.SlotFor(p.ID); !ok {
			return apperr.Validation(apperr.CodePlayerNotOnTeam, "player is not on the team's active roster").
				With("player_id", p.ID.String()).
				With("team_id", r.TeamID.String())
		}
		if p.Locked {
			return apperr.Validation(apperr.CodePlayerLocked, "player is locked").
				With("player_id", p.ID.String())
		}
	}
	return nil
}

func checkShape(offered, requested []uuid.UUID) error {
	for _, side := range []struct {
		name string
		ids  []uuid.UUID
	}{{"offered", offered}, {"requested", requested}} {
		if len(side.ids) > models.MaxPlayersPerTradeSide {
			return apperr.Validation(apperr.CodeTradeSideTooLarge, "too many %s players", side.name).
				With("side", side.name).
				With("count", strconv.Itoa(len(side.ids))).
				With("max", strconv.Itoa(models.MaxPlayersPerTradeSide))
		}
	}
	if len(offered)+len(requested) == 0 {
		return apperr.Validation(apperr.CodeTradeEmpty, "trade must include at least one player")
	}
	seen := make(map[uuid.UUID]struct{}, len(offered)+len(requested))
	for _, id := range append(append([]uuid.UUID{}, offered...), requested...) {
		if _, dup := seen[id]; dup {
			return apperr.Validation(apperr.CodeTradeDuplicatePlayer, "player appears more than once").
				With("player_id", id.String())
		}
		seen[id] = struct{}{}
	}
	return nil
}

// checkQuotas simulates both post-trade rosters and validates them.
func (a *App) checkQuotas(ctx context.Context, q store.Queries, gameID uuid.UUID, p proposal, s *sides) error {
	rows, err := q.ListRegionQuotas(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to list region quotas: %w", err)
	}
	quotas := roster.NewQuotaTable(rows)

	fromAfter := simulate(s.from.Players, s.to.Players, p.offered, p.requested)
	toAfter := simulate(s.to.Players, s.from.Players, p.requested, p.offered)

	if res := roster.ValidateQuota(fromAfter, quotas); !res.Valid {
		return res.Violation.Err(p.from.ID)
	}
	if res := roster.ValidateQuota(toAfter, quotas); !res.Valid {
		return res.Violation.Err(p.to.ID)
	}
	return nil
}

// simulate returns own without leaving plus the arriving players taken from other.
func simulate(own, other []models.Player, leaving, arriving []uuid.UUID) []models.Player {
	out := make([]models.Player, 0, len(own)-len(leaving)+len(arriving))
	for _, p := range own {
		if !contains(leaving, p.ID) {
			out = append(out, p)
		}
	}
	for _, p := range other {
		if contains(arriving, p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// swap ends every leaving slot, then opens TRADE slots on the other side.
func swap(ctx context.Context, q store.Queries, p proposal, s *sides, now time.Time) error {
	for _, id := range p.offered {
		slot, _ := s.from.SlotFor(id)
		if err := q.RemoveRosterSlot(ctx, slot.ID, now); err != nil {
			return fmt.Errorf("failed to remove roster slot: %w", err)
		}
	}
	for _, id := range p.requested {
		slot, _ := s.to.SlotFor(id)
		if err := q.RemoveRosterSlot(ctx, slot.ID, now); err != nil {
			return fmt.Errorf("failed to remove roster slot: %w", err)
		}
	}

	if err := addSlots(ctx, q, p.to.ID, s.to.NextPosition(), p.offered, now); err != nil {
		return err
	}
	return addSlots(ctx, q, p.from.ID, s.from.NextPosition(), p.requested, now)
}

func addSlots(ctx context.Context, q store.Queries, teamID uuid.UUID, position int, playerIDs []uuid.UUID, now time.Time) error {
	for i, id := range playerIDs {
		err := q.AddRosterSlot(ctx, models.RosterSlot{
			ID:              uuid.New(),
			TeamID:          teamID,
			PlayerID:        id,
			Position:        position + i,
			AcquisitionType: models.AcquisitionTypeTrade,
			AcquiredAt:      now,
		})
		if err != nil {
			return fmt.Errorf("failed to add roster slot: %w", err)
		}
	}
	return nil
}

func requirePending(t models.Trade) error {
	if t.Status != models.TradeStatusPending {
		return apperr.Conflict(apperr.CodeTradeNotPending, "trade is %s", t.Status).
			With("trade_id", t.ID.String()).
			With("status", string(t.Status))
	}
	return nil
}

func newTrade(p proposal, now time.Time) models.Trade {
	return models.Trade{
		ID:                 uuid.New(),
		GameID:             p.from.GameID,
		FromTeamID:         p.from.ID,
		ToTeamID:           p.to.ID,
		OfferedPlayerIDs:   append([]uuid.UUID{}, p.offered...),
		RequestedPlayerIDs: append([]uuid.UUID{}, p.requested...),
		Status:             models.TradeStatusPending,
		ProposedAt:         now,
		UpdatedAt:          now,
	}
}

func tradeEvent(typ events.Type, t models.Trade, now time.Time) events.Event {
	return events.New(typ, t.GameID, string(t.Status), now).
		ForTrade(t.ID).
		WithTeams(t.FromTeamID, t.ToTeamID).
		WithPlayers(t.PlayerIDs()...)
}

func logTransition(t models.Trade, msg string) {
	log.Info().
		Str("trade_id", t.ID.String()).
		Str("game_id", t.GameID.String()).
		Str("from_team_id", t.FromTeamID.String()).
		Str("to_team_id", t.ToTeamID.String()).
		Str("status", string(t.Status)).
		Int("offered", len(t.OfferedPlayerIDs)).
		Int("requested", len(t.RequestedPlayerIDs)).
		Msg(msg)
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
