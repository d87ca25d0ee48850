// Package memory is an in-process store.DB: an arena of entities keyed by id.
// A transaction works on a copy of the arena that replaces it on commit.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/apperr"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/store"
)

// Store is a store.DB held entirely in memory.
type Store struct {
	mu    sync.RWMutex
	state *arena
}

// New creates an empty Store
func New() *Store {
	return &Store{state: newArena()}
}

var (
	_ store.DB      = (*Store)(nil)
	_ store.Queries = (*arena)(nil)
)

// InTx serializes units of work. fn sees a private copy of the arena that is
// swapped in only when fn succeeds.
func (s *Store) InTx(ctx context.Context, fn func(q store.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.state = work
	return nil
}

// View runs fn against the committed arena under a read lock.
func (s *Store) View(ctx context.Context, fn func(q store.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

type arena struct {
	games        map[uuid.UUID]models.Game
	teams        map[uuid.UUID]models.FantasyTeam
	players      map[uuid.UUID]models.Player
	quotas       map[uuid.UUID]map[models.Region]models.RegionQuota
	slots        map[uuid.UUID]models.RosterSlot
	drafts       map[uuid.UUID]models.Draft
	participants map[uuid.UUID][]models.DraftParticipant
	picks        map[uuid.UUID][]models.DraftPick
	trades       map[uuid.UUID]models.Trade
}

func newArena() *arena {
	return &arena{
		games:        make(map[uuid.UUID]models.Game),
		teams:        make(map[uuid.UUID]models.FantasyTeam),
		players:      make(map[uuid.UUID]models.Player),
		quotas:       make(map[uuid.UUID]map[models.Region]models.RegionQuota),
		slots:        make(map[uuid.UUID]models.RosterSlot),
		drafts:       make(map[uuid.UUID]models.Draft),
		participants: make(map[uuid.UUID][]models.DraftParticipant),
		picks:        make(map[uuid.UUID][]models.DraftPick),
		trades:       make(map[uuid.UUID]models.Trade),
	}
}

// clone copies every map. Stored values are never mutated in place, slices
// are copied on write, so sharing values between arenas is safe.
func (a *arena) clone() *arena {
	c := newArena()
	for k, v := range a.games {
		c.games[k] = v
	}
	for k, v := range a.teams {
		c.teams[k] = v
	}
	for k, v := range a.players {
		c.players[k] = v
	}
	for k, v := range a.quotas {
		m := make(map[models.Region]models.RegionQuota, len(v))
		for r, q := range v {
			m[r] = q
		}
		c.quotas[k] = m
	}
	for k, v := range a.slots {
		c.slots[k] = v
	}
	for k, v := range a.drafts {
		c.drafts[k] = v
	}
	for k, v := range a.participants {
		c.participants[k] = v
	}
	for k, v := range a.picks {
		c.picks[k] = v
	}
	for k, v := range a.trades {
		c.trades[k] = v
	}
	return c
}

// Catalog

func (a *arena) GetGame(_ context.Context, id uuid.UUID) (*models.Game, error) {
	g, ok := a.games[id]
	if !ok {
		return nil, apperr.NotFound(apperr.CodeGameNotFound, "game not found").With("game_id", id.String())
	}
	return &g, nil
}

func (a *arena) CreateGame(_ context.Context, game models.Game) error {
	if _, ok := a.games[game.ID]; ok {
		return apperr.Conflict(apperr.CodeUniqueViolation, "game already exists").With("game_id", game.ID.String())
	}
	a.games[game.ID] = game
	return nil
}

func (a *arena) GetTeam(_ context.Context, id uuid.UUID) (*models.FantasyTeam, error) {
	t, ok := a.teams[id]
	if !ok {
		return nil, apperr.NotFound(apperr.CodeTeamNotFound, "team not found").With("team_id", id.String())
	}
	return &t, nil
}

func (a *arena) ListTeamsByGame(_ context.Context, gameID uuid.UUID) ([]models.FantasyTeam, error) {
	var out []models.FantasyTeam
	for _, t := range a.teams {
		if t.GameID == gameID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (a *arena) CreateTeam(_ context.Context, team models.FantasyTeam) error {
	if _, ok := a.teams[team.ID]; ok {
		return apperr.Conflict(apperr.CodeUniqueViolation, "team already exists").With("team_id", team.ID.String())
	}
	if _, ok := a.games[team.GameID]; !ok {
		return apperr.NotFound(apperr.CodeGameNotFound, "game not found").With("game_id", team.GameID.String())
	}
	a.teams[team.ID] = team
	return nil
}

func (a *arena) IncrementTradeCount(_ context.Context, teamID uuid.UUID) error {
	t, ok := a.teams[teamID]
	if !ok {
		return apperr.NotFound(apperr.CodeTeamNotFound, "team not found").With("team_id", teamID.String())
	}
	t.TradeCount++
	a.teams[teamID] = t
	return nil
}

func (a *arena) GetPlayer(_ context.Context, id uuid.UUID) (*models.Player, error) {
	p, ok := a.players[id]
	if !ok {
		return nil, apperr.NotFound(apperr.CodePlayerNotFound, "player not found").With("player_id", id.String())
	}
	return &p, nil
}

func (a *arena) GetPlayers(ctx context.Context, ids []uuid.UUID) ([]models.Player, error) {
	out := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		p, err := a.GetPlayer(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (a *arena) ListPlayersBySeason(_ context.Context, season int) ([]models.Player, error) {
	var out []models.Player
	for _, p := range a.players {
		if p.Season == season {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (a *arena) CreatePlayer(_ context.Context, player models.Player) error {
	if _, ok := a.players[player.ID]; ok {
		return apperr.Conflict(apperr.CodeUniqueViolation, "player already exists").With("player_id", player.ID.String())
	}
	a.players[player.ID] = player
	return nil
}

// Quotas

func (a *arena) ListRegionQuotas(_ context.Context, gameID uuid.UUID) ([]models.RegionQuota, error) {
	var out []models.RegionQuota
	for _, q := range a.quotas[gameID] {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out, nil
}

func (a *arena) UpsertRegionQuota(_ context.Context, quota models.RegionQuota) error {
	m, ok := a.quotas[quota.GameID]
	if !ok {
		m = make(map[models.Region]models.RegionQuota)
		a.quotas[quota.GameID] = m
	}
	m[quota.Region] = quota
	return nil
}

// Roster

func (a *arena) ListActiveSlots(_ context.Context, teamID uuid.UUID) ([]models.RosterSlot, error) {
	var out []models.RosterSlot
	for _, s := range a.slots {
		if s.TeamID == teamID && s.Active() {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (a *arena) GetActiveSlotForPlayer(_ context.Context, gameID, playerID uuid.UUID) (*models.RosterSlot, error) {
	for _, s := range a.slots {
		if s.PlayerID != playerID || !s.Active() {
			continue
		}
		if t, ok := a.teams[s.TeamID]; ok && t.GameID == gameID {
			slot := s
			return &slot, nil
		}
	}
	return nil, apperr.NotFound(apperr.CodePlayerNotOnTeam, "player has no active roster slot").
		With("player_id", playerID.String())
}

func (a *arena) AddRosterSlot(ctx context.Context, slot models.RosterSlot) error {
	team, ok := a.teams[slot.TeamID]
	if !ok {
		return apperr.NotFound(apperr.CodeTeamNotFound, "team not found").With("team_id", slot.TeamID.String())
	}
	if _, ok := a.players[slot.PlayerID]; !ok {
		return apperr.NotFound(apperr.CodePlayerNotFound, "player not found").With("player_id", slot.PlayerID.String())
	}
	if _, err := a.GetActiveSlotForPlayer(ctx, team.GameID, slot.PlayerID); err == nil {
		return apperr.Conflict(apperr.CodePlayerRostered, "player already on a roster in this game").
			With("player_id", slot.PlayerID.String())
	}
	if _, ok := a.slots[slot.ID]; ok {
		return apperr.Conflict(apperr.CodeUniqueViolation, "roster slot already exists").With("slot_id", slot.ID.String())
	}
	slot.RemovedAt = nil
	a.slots[slot.ID] = slot
	return nil
}

func (a *arena) RemoveRosterSlot(_ context.Context, slotID uuid.UUID, removedAt time.Time) error {
	s, ok := a.slots[slotID]
	if !ok || !s.Active() {
		return apperr.NotFound(apperr.CodePlayerNotOnTeam, "active roster slot not found").With("slot_id", slotID.String())
	}
	s.RemovedAt = &removedAt
	a.slots[slotID] = s
	return nil
}

// Draft

func (a *arena) CreateDraft(_ context.Context, draft models.Draft, participants []models.DraftParticipant) error {
	for _, d := range a.drafts {
		if d.GameID == draft.GameID {
			return apperr.Conflict(apperr.CodeDraftExists, "game already has a draft").With("game_id", draft.GameID.String())
		}
	}
	a.drafts[draft.ID] = draft
	parts := append([]models.DraftParticipant(nil), participants...)
	sort.Slice(parts, func(i, j int) bool { return parts[i].DraftOrder < parts[j].DraftOrder })
	a.participants[draft.ID] = parts
	return nil
}

func (a *arena) GetDraft(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	d, ok := a.drafts[id]
	if !ok {
		return nil, apperr.NotFound(apperr.CodeDraftNotFound, "draft not found").With("draft_id", id.String())
	}
	return &d, nil
}

func (a *arena) GetDraftByGame(_ context.Context, gameID uuid.UUID) (*models.Draft, error) {
	for _, d := range a.drafts {
		if d.GameID == gameID {
			draft := d
			return &draft, nil
		}
	}
	return nil, apperr.NotFound(apperr.CodeDraftNotFound, "draft not found").With("game_id", gameID.String())
}

func (a *arena) ListDraftsByStatus(_ context.Context, status models.DraftStatus) ([]models.Draft, error) {
	var out []models.Draft
	for _, d := range a.drafts {
		if d.Status == status {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (a *arena) UpdateDraft(_ context.Context, draft models.Draft) error {
	if _, ok := a.drafts[draft.ID]; !ok {
		return apperr.NotFound(apperr.CodeDraftNotFound, "draft not found").With("draft_id", draft.ID.String())
	}
	a.drafts[draft.ID] = draft
	return nil
}

func (a *arena) ListParticipants(_ context.Context, draftID uuid.UUID) ([]models.DraftParticipant, error) {
	return append([]models.DraftParticipant(nil), a.participants[draftID]...), nil
}

func (a *arena) ListPicks(_ context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	return append([]models.DraftPick(nil), a.picks[draftID]...), nil
}

func (a *arena) IsPlayerDrafted(_ context.Context, draftID, playerID uuid.UUID) (bool, error) {
	for _, p := range a.picks[draftID] {
		if p.PlayerID == playerID {
			return true, nil
		}
	}
	return false, nil
}

func (a *arena) InsertPick(_ context.Context, pick models.DraftPick) error {
	existing := a.picks[pick.DraftID]
	for _, p := range existing {
		if p.PlayerID == pick.PlayerID {
			return apperr.Conflict(apperr.CodePlayerAlreadyDrafted, "player already drafted").
				With("player_id", pick.PlayerID.String())
		}
		if p.PickNumber == pick.PickNumber {
			return apperr.Conflict(apperr.CodeUniqueViolation, "pick number already used").
				With("draft_id", pick.DraftID.String())
		}
	}
	next := make([]models.DraftPick, 0, len(existing)+1)
	next = append(next, existing...)
	a.picks[pick.DraftID] = append(next, pick)
	return nil
}

// Trades

func (a *arena) CreateTrade(_ context.Context, trade models.Trade) error {
	if _, ok := a.trades[trade.ID]; ok {
		return apperr.Conflict(apperr.CodeUniqueViolation, "trade already exists").With("trade_id", trade.ID.String())
	}
	a.trades[trade.ID] = copyTrade(trade)
	return nil
}

func (a *arena) GetTrade(_ context.Context, id uuid.UUID) (*models.Trade, error) {
	t, ok := a.trades[id]
	if !ok {
		return nil, apperr.NotFound(apperr.CodeTradeNotFound, "trade not found").With("trade_id", id.String())
	}
	out := copyTrade(t)
	return &out, nil
}

func (a *arena) UpdateTrade(_ context.Context, trade models.Trade) error {
	if _, ok := a.trades[trade.ID]; !ok {
		return apperr.NotFound(apperr.CodeTradeNotFound, "trade not found").With("trade_id", trade.ID.String())
	}
	a.trades[trade.ID] = copyTrade(trade)
	return nil
}

func (a *arena) ListTradesByTeam(_ context.Context, teamID uuid.UUID) ([]models.Trade, error) {
	var out []models.Trade
	for _, t := range a.trades {
		if t.FromTeamID == teamID || t.ToTeamID == teamID {
			out = append(out, copyTrade(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProposedAt.After(out[j].ProposedAt) })
	return out, nil
}

func copyTrade(t models.Trade) models.Trade {
	t.OfferedPlayerIDs = append([]uuid.UUID(nil), t.OfferedPlayerIDs...)
	t.RequestedPlayerIDs = append([]uuid.UUID(nil), t.RequestedPlayerIDs...)
	return t
}
