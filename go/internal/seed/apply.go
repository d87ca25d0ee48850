package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/pronos/go/internal/apperr"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/store"
	"github.com/rs/zerolog/log"
)

// Summary counts what Apply wrote.
type Summary struct {
	Players int
	Games   int
	Teams   int
	Slots   int
}

// Apply writes the fixture in one transaction. Players and games that already
// exist are skipped, so applying the same fixture twice is a no-op.
func Apply(ctx context.Context, db store.DB, fx *Fixture, now time.Time) (Summary, error) {
	if err := fx.Validate(); err != nil {
		return Summary{}, fmt.Errorf("invalid fixture: %w", err)
	}
	var sum Summary
	err := db.InTx(ctx, func(q store.Queries) error {
		sum = Summary{}
		for _, p := range fx.Players {
			created, err := ensurePlayer(ctx, q, p, now)
			if err != nil {
				return err
			}
			if created {
				sum.Players++
			}
		}
		for _, g := range fx.Games {
			if _, err := q.GetGame(ctx, g.ID); err == nil {
				continue
			} else if !apperr.IsNotFound(err) {
				return err
			}
			if err := applyGame(ctx, q, fx, g, now, &sum); err != nil {
				return fmt.Errorf("game %s: %w", g.Name, err)
			}
			sum.Games++
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	log.Info().
		Int("players", sum.Players).
		Int("games", sum.Games).
		Int("teams", sum.Teams).
		Int("slots", sum.Slots).
		Msg("fixture applied")
	return sum, nil
}

func ensurePlayer(ctx context.Context, q store.Queries, p Player, now time.Time) (bool, error) {
	if _, err := q.GetPlayer(ctx, p.ID); err == nil {
		return false, nil
	} else if !apperr.IsNotFound(err) {
		return false, err
	}
	err := q.CreatePlayer(ctx, models.Player{
		ID:        p.ID,
		Nickname:  p.Nickname,
		Region:    p.Region,
		Rank:      p.Rank,
		Locked:    p.Locked,
		Season:    p.Season,
		CreatedAt: now,
	})
	return err == nil, err
}

func applyGame(ctx context.Context, q store.Queries, fx *Fixture, g Game, now time.Time, sum *Summary) error {
	err := q.CreateGame(ctx, models.Game{
		ID:               g.ID,
		Name:             g.Name,
		Season:           g.Season,
		CreatorID:        g.CreatorID,
		TradingEnabled:   g.TradingEnabled,
		TradeDeadline:    g.TradeDeadline,
		MaxTradesPerTeam: g.MaxTradesPerTeam,
		CreatedAt:        now,
	})
	if err != nil {
		return err
	}
	for _, region := range models.Regions {
		max, ok := g.Quotas[region]
		if !ok {
			continue
		}
		if err := q.UpsertRegionQuota(ctx, models.RegionQuota{GameID: g.ID, Region: region, MaxPlayers: max}); err != nil {
			return err
		}
	}

	for i, t := range g.Teams {
		// join order follows fixture order
		joined := now.Add(time.Duration(i) * time.Millisecond)
		err := q.CreateTeam(ctx, models.FantasyTeam{
			ID:        t.ID,
			GameID:    g.ID,
			OwnerID:   t.OwnerID,
			Name:      t.Name,
			Season:    g.Season,
			JoinedAt:  joined,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}
		sum.Teams++

		for pos, nick := range t.Roster {
			p, _ := fx.PlayerByNickname(nick)
			err := q.AddRosterSlot(ctx, models.RosterSlot{
				ID:              uuid.New(),
				TeamID:          t.ID,
				PlayerID:        p.ID,
				Position:        pos + 1,
				AcquisitionType: models.AcquisitionTypeFreeAgent,
				AcquiredAt:      now,
			})
			if err != nil {
				return err
			}
			sum.Slots++
		}
	}
	return nil
}
