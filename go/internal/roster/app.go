package roster

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/store"
)

// Entry is an active roster slot with its player.
type Entry struct {
	Slot   models.RosterSlot
	Player models.Player
}

// RegionUsage is how much of a region's quota a team uses. Max is 0 for an
// unconstrained region.
type RegionUsage struct {
	Region models.Region
	Count  int
	Max    int
}

// TeamRoster is the read model behind GetTeamRoster.
type TeamRoster struct {
	Team    models.FantasyTeam
	Entries []Entry
	Usage   []RegionUsage
	Quota   QuotaResult
}

// App serves roster reads. Writes go through the draft and trade engines.
type App struct {
	db store.DB
}

// NewApp creates a new roster App
func NewApp(db store.DB) *App {
	return &App{db: db}
}

// GetTeamRoster returns the team's active roster ordered by position, with
// per-region quota usage.
func (a *App) GetTeamRoster(ctx context.Context, teamID uuid.UUID) (*TeamRoster, error) {
	var out TeamRoster
	err := a.db.View(ctx, func(q store.Queries) error {
		team, err := q.GetTeam(ctx, teamID)
		if err != nil {
			return err
		}
		active, err := store.LoadActiveRoster(ctx, q, teamID)
		if err != nil {
			return err
		}
		quotaRows, err := q.ListRegionQuotas(ctx, team.GameID)
		if err != nil {
			return fmt.Errorf("failed to list region quotas: %w", err)
		}

		out.Team = *team
		out.Entries = joinEntries(active)
		quotas := NewQuotaTable(quotaRows)
		out.Usage = usage(active.Players, quotas)
		out.Quota = ValidateQuota(active.Players, quotas)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFreeAgents returns the players of the game's season that no team in
// the game holds, best rank first. Locked players are included so clients can
// show them; they cannot be drafted or traded.
func (a *App) ListFreeAgents(ctx context.Context, gameID uuid.UUID) ([]models.Player, error) {
	var out []models.Player
	err := a.db.View(ctx, func(q store.Queries) error {
		game, err := q.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		teams, err := q.ListTeamsByGame(ctx, gameID)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		held := make(map[uuid.UUID]struct{})
		for _, t := range teams {
			slots, err := q.ListActiveSlots(ctx, t.ID)
			if err != nil {
				return fmt.Errorf("failed to list active slots: %w", err)
			}
			for _, s := range slots {
				held[s.PlayerID] = struct{}{}
			}
		}
		players, err := q.ListPlayersBySeason(ctx, game.Season)
		if err != nil {
			return fmt.Errorf("failed to list players: %w", err)
		}
		out = make([]models.Player, 0, len(players))
		for _, p := range players {
			if _, ok := held[p.ID]; !ok {
				out = append(out, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return BetterRanked(out[i], out[j]) })
	return out, nil
}

func joinEntries(active store.ActiveRoster) []Entry {
	byID := make(map[uuid.UUID]models.Player, len(active.Players))
	for _, p := range active.Players {
		byID[p.ID] = p
	}
	entries := make([]Entry, 0, len(active.Slots))
	for _, s := range active.Slots {
		entries = append(entries, Entry{Slot: s, Player: byID[s.PlayerID]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Slot.Position < entries[j].Slot.Position
	})
	return entries
}

func usage(players []models.Player, quotas QuotaTable) []RegionUsage {
	counts := CountByRegion(players)
	out := make([]RegionUsage, 0, len(models.Regions))
	for _, r := range models.Regions {
		max, limited := quotas[r]
		if counts[r] == 0 && !limited {
			continue
		}
		out = append(out, RegionUsage{Region: r, Count: counts[r], Max: max})
	}
	return out
}
