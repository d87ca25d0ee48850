package draft

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/pronos/go/internal/apperr"
	"github.com/mcdev12/pronos/go/internal/draft/pick"
	"github.com/mcdev12/pronos/go/internal/draft/turn"
	"github.com/mcdev12/pronos/go/internal/events"
	"github.com/mcdev12/pronos/go/internal/lock"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/roster"
	"github.com/mcdev12/pronos/go/internal/store"
	"github.com/rs/zerolog/log"
)

// PickValidator decides whether a pick is legal.
type PickValidator interface {
	Validate(pc pick.Context) error
}

// App is the draft turn engine. It owns turn order, pick execution,
// timeouts with auto-pick, and completion.
//
// Every mutation of a draft holds that draft's lock, so manual picks and
// auto-picks are serialized through the same path.
type App struct {
	db        store.DB
	locker    lock.Locker
	validator PickValidator
	strategy  AutoPickStrategy
	notifier  events.Notifier
	clock     clockwork.Clock
	settings  Settings
}

// NewApp creates a new draft App
func NewApp(db store.DB, locker lock.Locker, validator PickValidator, strategy AutoPickStrategy, notifier events.Notifier, clock clockwork.Clock, settings Settings) *App {
	if notifier == nil {
		notifier = events.Nop
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		db:        db,
		locker:    locker,
		validator: validator,
		strategy:  strategy,
		notifier:  notifier,
		clock:     clock,
		settings:  settings,
	}
}

// IsComplete reports whether the draft has no picks left. FINISHED is
// authoritative when the status and the counter disagree.
func IsComplete(d models.Draft, participants int) bool {
	if d.Status == models.DraftStatusFinished {
		return true
	}
	return participants > 0 && d.PicksMade() >= d.TotalPicks(participants)
}

// CreateDraft seats the game's teams in join order. Only the game creator may
// create the draft and a game has at most one.
func (a *App) CreateDraft(ctx context.Context, req CreateDraftRequest) (*DraftResult, error) {
	if err := a.validateCreateDraftRequest(req); err != nil {
		return nil, err
	}
	if req.TotalRounds == 0 {
		req.TotalRounds = a.settings.TotalRounds
	}
	if req.TimePerPickSec == 0 {
		req.TimePerPickSec = a.settings.TimePerPickSec
	}

	now := a.clock.Now()
	var result *DraftResult
	err := a.db.InTx(ctx, func(q store.Queries) error {
		game, err := q.GetGame(ctx, req.GameID)
		if err != nil {
			return err
		}
		if game.CreatorID != req.ActingUserID {
			return apperr.Authorization(apperr.CodeNotGameCreator, "only the game creator can create the draft")
		}

		teams, err := q.ListTeamsByGame(ctx, game.ID)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		if len(teams) == 0 {
			return apperr.Validation(apperr.CodeDraftNoParticipants, "game has no teams to draft")
		}

		d := models.Draft{
			ID:             uuid.New(),
			GameID:         game.ID,
			Status:         models.DraftStatusNotStarted,
			TotalRounds:    req.TotalRounds,
			CurrentPick:    1,
			TimePerPickSec: req.TimePerPickSec,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		participants := make([]models.DraftParticipant, 0, len(teams))
		for i, t := range teams {
			participants = append(participants, models.DraftParticipant{
				ID:         uuid.New(),
				DraftID:    d.ID,
				TeamID:     t.ID,
				DraftOrder: i + 1,
			})
		}
		if err := q.CreateDraft(ctx, d, participants); err != nil {
			return err
		}
		result = &DraftResult{Draft: d, Participants: participants}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("draft_id", result.Draft.ID.String()).
		Str("game_id", result.Draft.GameID.String()).
		Int("participants", len(result.Participants)).
		Int("rounds", result.Draft.TotalRounds).
		Msg("draft created")
	return result, nil
}

// StartDraft moves a draft from NOT_STARTED to IN_PROGRESS and starts the clock.
func (a *App) StartDraft(ctx context.Context, req TransitionRequest) (*DraftResult, error) {
	return a.transition(ctx, req, events.DraftStarted, func(d *models.Draft, now time.Time) error {
		if d.Status != models.DraftStatusNotStarted {
			return invalidState(d, "start")
		}
		d.Status = models.DraftStatusInProgress
		d.StartedAt = &now
		d.TurnStartedAt = &now
		return nil
	})
}

// PauseDraft freezes the draft and its turn clock.
func (a *App) PauseDraft(ctx context.Context, req TransitionRequest) (*DraftResult, error) {
	return a.transition(ctx, req, events.DraftPaused, func(d *models.Draft, now time.Time) error {
		if d.Status != models.DraftStatusInProgress {
			return invalidState(d, "pause")
		}
		d.Status = models.DraftStatusPaused
		d.PausedAt = &now
		return nil
	})
}

// ResumeDraft restarts a paused draft. The time spent paused does not count
// against the participant on the clock.
func (a *App) ResumeDraft(ctx context.Context, req TransitionRequest) (*DraftResult, error) {
	return a.transition(ctx, req, events.DraftResumed, func(d *models.Draft, now time.Time) error {
		if d.Status != models.DraftStatusPaused {
			return invalidState(d, "resume")
		}
		if d.TurnStartedAt != nil && d.PausedAt != nil {
			shifted := d.TurnStartedAt.Add(now.Sub(*d.PausedAt))
			d.TurnStartedAt = &shifted
		} else {
			d.TurnStartedAt = &now
		}
		d.Status = models.DraftStatusInProgress
		d.PausedAt = nil
		return nil
	})
}

func (a *App) transition(ctx context.Context, req TransitionRequest, typ events.Type, apply func(d *models.Draft, now time.Time) error) (*DraftResult, error) {
	if req.ActingUserID == uuid.Nil {
		return nil, apperr.Authorization(apperr.CodeMissingActor, "acting user is required")
	}

	release, err := a.locker.Acquire(ctx, lock.DraftKey(req.DraftID))
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	var result *DraftResult
	err = a.db.InTx(ctx, func(q store.Queries) error {
		d, err := q.GetDraft(ctx, req.DraftID)
		if err != nil {
			return err
		}
		game, err := q.GetGame(ctx, d.GameID)
		if err != nil {
			return err
		}
		if game.CreatorID != req.ActingUserID {
			return apperr.Authorization(apperr.CodeNotGameCreator, "only the game creator can control the draft")
		}
		if err := apply(d, now); err != nil {
			return err
		}
		d.UpdatedAt = now
		if err := q.UpdateDraft(ctx, *d); err != nil {
			return fmt.Errorf("failed to update draft: %w", err)
		}
		participants, err := q.ListParticipants(ctx, d.ID)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}

		teamIDs := make([]uuid.UUID, 0, len(participants))
		for _, p := range participants {
			teamIDs = append(teamIDs, p.TeamID)
		}
		ev := events.New(typ, d.GameID, string(d.Status), now).ForDraft(d.ID).WithTeams(teamIDs...)
		result = &DraftResult{Draft: *d, Participants: participants, Events: []events.Event{ev}}
		return nil
	})
	release()
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("draft_id", result.Draft.ID.String()).
		Str("status", string(result.Draft.Status)).
		Str("event_type", string(typ)).
		Msg("draft transitioned")
	a.notifier.Notify(ctx, result.Events...)
	return result, nil
}

// ExecutePick validates and commits a manual pick for the team on the clock.
func (a *App) ExecutePick(ctx context.Context, req MakePickRequest) (*PickResult, error) {
	if req.ActingUserID == uuid.Nil {
		return nil, apperr.Authorization(apperr.CodeMissingActor, "acting user is required")
	}

	// the team lock keeps a concurrent trade from changing the roster the
	// quota check reads
	release, err := a.locker.Acquire(ctx, lock.DraftKey(req.DraftID), lock.TeamKey(req.TeamID))
	if err != nil {
		return nil, err
	}
	actor := req.ActingUserID
	result, err := a.executePick(ctx, req.DraftID, req.TeamID, req.PlayerID, &actor, a.clock.Now())
	release()
	if err != nil {
		return nil, err
	}

	a.notifier.Notify(ctx, result.Events...)
	return result, nil
}

// executePick runs the shared pick path. The caller holds the draft lock.
// actor is nil for auto-picks, which skip the ownership check only.
func (a *App) executePick(ctx context.Context, draftID, teamID, playerID uuid.UUID, actor *uuid.UUID, now time.Time) (*PickResult, error) {
	var result *PickResult
	err := a.db.InTx(ctx, func(q store.Queries) error {
		d, err := q.GetDraft(ctx, draftID)
		if err != nil {
			return err
		}
		participants, err := q.ListParticipants(ctx, draftID)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}
		participant, ok := findParticipant(participants, teamID)
		if !ok {
			return apperr.NotFound(apperr.CodeParticipantNotFound, "team is not in this draft").
				With("team_id", teamID.String())
		}
		team, err := q.GetTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if actor != nil && team.OwnerID != *actor {
			return apperr.Authorization(apperr.CodeNotTeamOwner, "acting user does not own the team")
		}
		player, err := q.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		drafted, err := q.IsPlayerDrafted(ctx, draftID, playerID)
		if err != nil {
			return fmt.Errorf("failed to check drafted player: %w", err)
		}
		active, err := store.LoadActiveRoster(ctx, q, teamID)
		if err != nil {
			return err
		}
		quotas, err := q.ListRegionQuotas(ctx, d.GameID)
		if err != nil {
			return fmt.Errorf("failed to list region quotas: %w", err)
		}

		if err := a.validator.Validate(pick.Context{
			Draft:        *d,
			Participants: participants,
			Participant:  participant,
			Player:       *player,
			Drafted:      drafted,
			Roster:       active.Players,
			Quotas:       roster.NewQuotaTable(quotas),
		}); err != nil {
			return err
		}

		if _, err := q.GetActiveSlotForPlayer(ctx, d.GameID, playerID); err == nil {
			return apperr.Validation(apperr.CodePlayerRostered, "player is already on a roster in this game").
				With("player_id", playerID.String())
		} else if !apperr.IsNotFound(err) {
			return fmt.Errorf("failed to check player ownership: %w", err)
		}

		n := len(participants)
		record := models.DraftPick{
			ID:            uuid.New(),
			DraftID:       d.ID,
			Round:         turn.Round(d.CurrentPick, n),
			PickNumber:    d.CurrentPick,
			ParticipantID: participant.ID,
			TeamID:        teamID,
			PlayerID:      playerID,
			AutoPicked:    actor == nil,
			PickedAt:      now,
		}
		if err := q.InsertPick(ctx, record); err != nil {
			return err
		}
		if err := q.AddRosterSlot(ctx, models.RosterSlot{
			ID:              uuid.New(),
			TeamID:          teamID,
			PlayerID:        playerID,
			Position:        active.NextPosition(),
			AcquisitionType: models.AcquisitionTypeDraft,
			AcquiredAt:      now,
		}); err != nil {
			return err
		}

		d.CurrentPick++
		d.TurnStartedAt = &now
		d.UpdatedAt = now
		if d.PicksMade() >= d.TotalPicks(n) {
			d.Status = models.DraftStatusFinished
			d.CompletedAt = &now
			d.TurnStartedAt = nil
		}
		if err := q.UpdateDraft(ctx, *d); err != nil {
			return fmt.Errorf("failed to advance draft: %w", err)
		}

		evs := []events.Event{
			events.New(events.DraftPicked, d.GameID, string(d.Status), now).
				ForDraft(d.ID).WithTeams(teamID).WithPlayers(playerID),
		}
		if d.Status == models.DraftStatusFinished {
			teamIDs := make([]uuid.UUID, 0, n)
			for _, p := range participants {
				teamIDs = append(teamIDs, p.TeamID)
			}
			evs = append(evs, events.New(events.DraftFinished, d.GameID, string(d.Status), now).
				ForDraft(d.ID).WithTeams(teamIDs...))
		}
		result = &PickResult{Pick: record, Draft: *d, Events: evs}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("draft_id", draftID.String()).
		Str("team_id", teamID.String()).
		Str("player_id", playerID.String()).
		Int("pick", result.Pick.PickNumber).
		Int("round", result.Pick.Round).
		Bool("auto", result.Pick.AutoPicked).
		Str("status", string(result.Draft.Status)).
		Msg("pick committed")
	return result, nil
}

// HandleTimeout auto-picks for the participant on the clock once their time
// is up. It returns nil, nil when nothing is due: the draft is not running or
// the turn still has time left.
func (a *App) HandleTimeout(ctx context.Context, draftID uuid.UUID, now time.Time) (*PickResult, error) {
	release, err := a.locker.Acquire(ctx, lock.DraftKey(draftID))
	if err != nil {
		return nil, err
	}

	var (
		due      bool
		onClock  models.DraftParticipant
		choice   models.Player
		eligible bool
	)
	err = a.db.View(ctx, func(q store.Queries) error {
		d, err := q.GetDraft(ctx, draftID)
		if err != nil {
			return err
		}
		if d.Status != models.DraftStatusInProgress || d.TurnStartedAt == nil {
			return nil
		}
		if now.Sub(*d.TurnStartedAt) <= d.PickTimeout() {
			return nil
		}
		participants, err := q.ListParticipants(ctx, draftID)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}
		if IsComplete(*d, len(participants)) {
			return nil
		}
		p, ok := turn.ParticipantFor(participants, d.CurrentPick)
		if !ok {
			return apperr.NotFound(apperr.CodeParticipantNotFound, "no participant on the clock")
		}
		due, onClock = true, p

		candidates, err := a.eligiblePlayers(ctx, q, *d, p.TeamID)
		if err != nil {
			return err
		}
		choice, eligible = a.strategy.Choose(candidates)
		return nil
	})
	if err != nil {
		release()
		return nil, err
	}
	if !due {
		release()
		return nil, nil
	}
	if !eligible {
		release()
		log.Warn().
			Str("draft_id", draftID.String()).
			Str("team_id", onClock.TeamID.String()).
			Msg("auto-pick found no eligible player")
		return nil, apperr.Conflict(apperr.CodeNoEligiblePlayer, "no eligible player for auto-pick").
			With("draft_id", draftID.String()).
			With("team_id", onClock.TeamID.String())
	}

	releaseTeam, err := a.locker.Acquire(ctx, lock.TeamKey(onClock.TeamID))
	if err != nil {
		release()
		return nil, err
	}
	result, err := a.executePick(ctx, draftID, onClock.TeamID, choice.ID, nil, now)
	releaseTeam()
	release()
	if err != nil {
		log.Warn().Err(err).Str("draft_id", draftID.String()).Msg("auto-pick rejected")
		return nil, err
	}

	a.notifier.Notify(ctx, result.Events...)
	return result, nil
}

// eligiblePlayers returns undrafted, unrostered, unlocked players of the
// game's season that fit the team's quota.
func (a *App) eligiblePlayers(ctx context.Context, q store.Queries, d models.Draft, teamID uuid.UUID) ([]models.Player, error) {
	game, err := q.GetGame(ctx, d.GameID)
	if err != nil {
		return nil, err
	}
	pool, err := q.ListPlayersBySeason(ctx, game.Season)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	picks, err := q.ListPicks(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	taken := make(map[uuid.UUID]struct{}, len(picks))
	for _, p := range picks {
		taken[p.PlayerID] = struct{}{}
	}
	teams, err := q.ListTeamsByGame(ctx, d.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	var own []models.Player
	for _, t := range teams {
		slots, err := q.ListActiveSlots(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list active slots: %w", err)
		}
		for _, s := range slots {
			taken[s.PlayerID] = struct{}{}
		}
		if t.ID == teamID {
			active, err := store.LoadActiveRoster(ctx, q, t.ID)
			if err != nil {
				return nil, err
			}
			own = active.Players
		}
	}
	quotaRows, err := q.ListRegionQuotas(ctx, d.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list region quotas: %w", err)
	}
	quotas := roster.NewQuotaTable(quotaRows)

	var out []models.Player
	for _, p := range pool {
		if _, ok := taken[p.ID]; ok || p.Locked {
			continue
		}
		if !roster.CanAddToRegion(own, p, quotas).Valid {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// CurrentParticipant returns the participant on the clock. It reads committed
// state without taking the draft lock.
func (a *App) CurrentParticipant(ctx context.Context, draftID uuid.UUID) (*models.DraftParticipant, error) {
	var out *models.DraftParticipant
	err := a.db.View(ctx, func(q store.Queries) error {
		d, err := q.GetDraft(ctx, draftID)
		if err != nil {
			return err
		}
		participants, err := q.ListParticipants(ctx, draftID)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}
		if IsComplete(*d, len(participants)) {
			return apperr.Conflict(apperr.CodeDraftFinished, "draft is finished")
		}
		p, ok := turn.ParticipantFor(participants, d.CurrentPick)
		if !ok {
			return apperr.NotFound(apperr.CodeParticipantNotFound, "no participant on the clock")
		}
		out = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IsComplete reports whether the draft has finished.
func (a *App) IsComplete(ctx context.Context, draftID uuid.UUID) (bool, error) {
	state, err := a.GetDraftState(ctx, draftID)
	if err != nil {
		return false, err
	}
	return state.Complete, nil
}

// TurnDeadline returns when the current turn times out, nil when no clock runs.
func (a *App) TurnDeadline(ctx context.Context, draftID uuid.UUID) (*time.Time, error) {
	var deadline *time.Time
	err := a.db.View(ctx, func(q store.Queries) error {
		d, err := q.GetDraft(ctx, draftID)
		if err != nil {
			return err
		}
		deadline = turnDeadline(*d)
		return nil
	})
	return deadline, err
}

// ListActiveDrafts returns every draft currently running.
func (a *App) ListActiveDrafts(ctx context.Context) ([]models.Draft, error) {
	var drafts []models.Draft
	err := a.db.View(ctx, func(q store.Queries) error {
		var err error
		drafts, err = q.ListDraftsByStatus(ctx, models.DraftStatusInProgress)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list active drafts: %w", err)
	}
	return drafts, nil
}

// GetDraftState returns the draft with its seats, picks and turn information.
func (a *App) GetDraftState(ctx context.Context, draftID uuid.UUID) (*State, error) {
	var state *State
	err := a.db.View(ctx, func(q store.Queries) error {
		d, err := q.GetDraft(ctx, draftID)
		if err != nil {
			return err
		}
		participants, err := q.ListParticipants(ctx, draftID)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}
		picks, err := q.ListPicks(ctx, draftID)
		if err != nil {
			return fmt.Errorf("failed to list picks: %w", err)
		}
		state = &State{
			Draft:        *d,
			Participants: participants,
			Picks:        picks,
			Complete:     IsComplete(*d, len(participants)),
		}
		if !state.Complete {
			if p, ok := turn.ParticipantFor(participants, d.CurrentPick); ok {
				state.OnClock = &p
			}
			state.Round = turn.Round(d.CurrentPick, len(participants))
			state.Deadline = turnDeadline(*d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func turnDeadline(d models.Draft) *time.Time {
	if d.Status != models.DraftStatusInProgress || d.TurnStartedAt == nil {
		return nil
	}
	deadline := d.TurnStartedAt.Add(d.PickTimeout())
	return &deadline
}

func findParticipant(participants []models.DraftParticipant, teamID uuid.UUID) (models.DraftParticipant, bool) {
	for _, p := range participants {
		if p.TeamID == teamID {
			return p, true
		}
	}
	return models.DraftParticipant{}, false
}

func invalidState(d *models.Draft, action string) error {
	return apperr.Conflict(apperr.CodeDraftInvalidState, "cannot %s a draft that is %s", action, d.Status).
		With("draft_id", d.ID.String())
}

func (a *App) validateCreateDraftRequest(req CreateDraftRequest) error {
	if req.GameID == uuid.Nil {
		return apperr.Validation(apperr.CodeInvalidInput, "game_id is required")
	}
	if req.ActingUserID == uuid.Nil {
		return apperr.Authorization(apperr.CodeMissingActor, "acting user is required")
	}
	if req.TotalRounds < 0 {
		return apperr.Validation(apperr.CodeInvalidInput, "total_rounds must not be negative")
	}
	if req.TimePerPickSec < 0 {
		return apperr.Validation(apperr.CodeInvalidInput, "time_per_pick_sec must not be negative")
	}
	return nil
}
