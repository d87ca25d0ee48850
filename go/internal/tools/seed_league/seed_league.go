package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/pronos/go/internal/dbconfig"
	"github.com/mcdev12/pronos/go/internal/models"
	"github.com/mcdev12/pronos/go/internal/seed"
)

type counts struct {
	inserted int
	skipped  int
}

func (c *counts) add(tag int64) {
	if tag == 1 {
		c.inserted++
	} else {
		c.skipped++
	}
}

func main() {
	path := "go/internal/assets/league.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load the fixture
	fx, err := seed.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	ctx := context.Background()
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Insert everything in one transaction
	var players, games, teams, slots counts
	now := time.Now().UTC()
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, p := range fx.Players {
			tag, err := tx.Exec(ctx, `
                INSERT INTO players (id, nickname, region, rank, locked, season, created_at)
                VALUES ($1,$2,$3,$4,$5,$6,$7)
                ON CONFLICT (id) DO NOTHING
            `, p.ID, p.Nickname, string(p.Region), p.Rank, p.Locked, p.Season, now)
			if err != nil {
				return fmt.Errorf("player %s: %w", p.Nickname, err)
			}
			players.add(tag.RowsAffected())
		}

		for _, g := range fx.Games {
			tag, err := tx.Exec(ctx, `
                INSERT INTO games (id, name, season, creator_id, trading_enabled, trade_deadline, max_trades_per_team, created_at)
                VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
                ON CONFLICT (id) DO NOTHING
            `, g.ID, g.Name, g.Season, g.CreatorID, g.TradingEnabled, g.TradeDeadline, g.MaxTradesPerTeam, now)
			if err != nil {
				return fmt.Errorf("game %s: %w", g.Name, err)
			}
			games.add(tag.RowsAffected())
			if tag.RowsAffected() == 0 {
				// rosters of an existing game are left alone
				continue
			}

			for region, max := range g.Quotas {
				if _, err := tx.Exec(ctx, `
                    INSERT INTO region_quotas (game_id, region, max_players)
                    VALUES ($1,$2,$3)
                    ON CONFLICT (game_id, region) DO NOTHING
                `, g.ID, string(region), max); err != nil {
					return fmt.Errorf("quota %s/%s: %w", g.Name, region, err)
				}
			}

			for i, t := range g.Teams {
				tag, err := tx.Exec(ctx, `
                    INSERT INTO fantasy_teams (id, game_id, owner_id, name, season, trade_count, joined_at, created_at)
                    VALUES ($1,$2,$3,$4,$5,0,$6,$7)
                    ON CONFLICT (id) DO NOTHING
                `, t.ID, g.ID, t.OwnerID, t.Name, g.Season, now.Add(time.Duration(i)*time.Millisecond), now)
				if err != nil {
					return fmt.Errorf("team %s: %w", t.Name, err)
				}
				teams.add(tag.RowsAffected())

				for pos, nick := range t.Roster {
					p, _ := fx.PlayerByNickname(nick)
					tag, err := tx.Exec(ctx, `
                        INSERT INTO roster_slots (id, team_id, game_id, player_id, position, acquisition_type, acquired_at)
                        VALUES ($1,$2,$3,$4,$5,$6,$7)
                        ON CONFLICT DO NOTHING
                    `, uuid.New(), t.ID, g.ID, p.ID, pos+1, string(models.AcquisitionTypeFreeAgent), now)
					if err != nil {
						return fmt.Errorf("slot %s/%s: %w", t.Name, nick, err)
					}
					slots.add(tag.RowsAffected())
				}
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}

	// 4) Print summary
	fmt.Printf(
		"League seed complete: players %d inserted/%d skipped, games %d/%d, teams %d/%d, roster slots %d/%d\n",
		players.inserted, players.skipped,
		games.inserted, games.skipped,
		teams.inserted, teams.skipped,
		slots.inserted, slots.skipped,
	)
}
